package speech

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
)

// Options tune decoding and labelling.
type Options struct {
	Binary            string
	SampleRate        int
	VolumeThreshold   float64
	PitchStdThreshold float64
}

// DefaultOptions matches the stock 22.05 kHz analysis.
func DefaultOptions() Options {
	return Options{Binary: "ffmpeg", SampleRate: 22050, VolumeThreshold: 0.02, PitchStdThreshold: 30}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if strings.TrimSpace(o.Binary) == "" {
		o.Binary = d.Binary
	}
	if o.SampleRate <= 0 {
		o.SampleRate = d.SampleRate
	}
	if o.VolumeThreshold <= 0 {
		o.VolumeThreshold = d.VolumeThreshold
	}
	if o.PitchStdThreshold <= 0 {
		o.PitchStdThreshold = d.PitchStdThreshold
	}
	return o
}

// Analyze decodes the audio track of path and extracts speech features. It
// never returns an error; failures come back as the Failed sentinel.
func Analyze(ctx context.Context, path string, opts Options) Report {
	opts = opts.withDefaults()
	samples, err := DecodeAudio(ctx, opts.Binary, path, opts.SampleRate)
	if err != nil {
		return Failed(err)
	}
	report, err := Features(samples, opts)
	if err != nil {
		return Failed(err)
	}
	return report
}

// DecodeAudio runs ffmpeg to produce mono little-endian 16-bit PCM at
// sampleRate and returns samples scaled to [-1, 1).
func DecodeAudio(ctx context.Context, binary, path string, sampleRate int) ([]float64, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("empty path")
	}
	cmd := exec.CommandContext(ctx, binary,
		"-v", "error", "-nostdin",
		"-i", path,
		"-vn", "-ac", "1", "-ar", strconv.Itoa(sampleRate),
		"-f", "s16le", "pipe:1",
	)
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			if detail := strings.TrimSpace(string(exitErr.Stderr)); detail != "" {
				return nil, fmt.Errorf("decode audio: %w: %s", err, detail)
			}
		}
		return nil, fmt.Errorf("decode audio: %w", err)
	}
	return PCMToFloat(out), nil
}

// PCMToFloat converts s16le bytes to floats. A trailing odd byte is dropped.
func PCMToFloat(pcm []byte) []float64 {
	samples := make([]float64, len(pcm)/2)
	for i := range samples {
		samples[i] = float64(int16(binary.LittleEndian.Uint16(pcm[2*i:]))) / 32768
	}
	return samples
}

// Features computes the report from decoded samples.
func Features(samples []float64, opts Options) (Report, error) {
	opts = opts.withDefaults()
	if len(samples) == 0 {
		return Report{}, errors.New("audio track is empty")
	}
	silent := true
	for _, s := range samples {
		if s != 0 {
			silent = false
			break
		}
	}
	if silent {
		return Report{}, errors.New("audio track is silent")
	}

	sr := opts.SampleRate
	spec := stft(samples)
	avgVolume := frameRMS(samples)
	pitchStd := pitchSpread(spec, sr)
	tempo := estimateTempo(onsetEnvelope(spec), sr)

	report := Report{
		DurationSec:    math.Round(float64(len(samples))/float64(sr)*100) / 100,
		AvgVolume:      avgVolume,
		VolumeAnalysis: VolumeSoft,
		PitchStdDev:    pitchStd,
		PitchAnalysis:  PitchMonotone,
		SpeakingRate:   fmt.Sprintf("%d BPM", int(tempo)),
	}
	if avgVolume > opts.VolumeThreshold {
		report.VolumeAnalysis = VolumeLoud
	}
	if pitchStd > opts.PitchStdThreshold {
		report.PitchAnalysis = PitchVaried
	}
	return report, nil
}
