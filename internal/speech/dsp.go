package speech

import (
	"math"
	"math/cmplx"
	"slices"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/dsp/window"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const (
	nFFT       = 2048
	hopLength  = 512
	pitchFMin  = 150.0
	pitchFMax  = 4000.0
	pitchFloor = 0.1
	tempoStart = 120.0
	tempoMax   = 320.0
	acSeconds  = 8.0
	topDB      = 80.0
)

// spectrogram holds |STFT| frames of a centered, zero-padded signal.
type spectrogram struct {
	mags [][]float64 // [frame][bin]
}

func centerPad(y []float64) []float64 {
	padded := make([]float64, len(y)+nFFT)
	copy(padded[nFFT/2:], y)
	return padded
}

func frameCount(n int) int {
	return 1 + n/hopLength
}

// periodicHann is the DFT-even Hann window: the symmetric window of n+1
// points with the last one dropped.
func periodicHann(n int) []float64 {
	win := make([]float64, n+1)
	for i := range win {
		win[i] = 1
	}
	return window.Hann(win)[:n]
}

func stft(y []float64) spectrogram {
	padded := centerPad(y)
	frames := frameCount(len(y))
	win := periodicHann(nFFT)

	fft := fourier.NewFFT(nFFT)
	buf := make([]float64, nFFT)
	var coeffs []complex128
	spec := spectrogram{mags: make([][]float64, frames)}
	for t := range frames {
		start := t * hopLength
		for i := range buf {
			buf[i] = padded[start+i] * win[i]
		}
		coeffs = fft.Coefficients(coeffs, buf)
		row := make([]float64, len(coeffs))
		for k, c := range coeffs {
			row[k] = cmplx.Abs(c)
		}
		spec.mags[t] = row
	}
	return spec
}

// frameRMS is the mean of per-frame root-mean-square energy.
func frameRMS(y []float64) float64 {
	padded := centerPad(y)
	frames := frameCount(len(y))
	rms := make([]float64, frames)
	for t := range frames {
		seg := padded[t*hopLength : t*hopLength+nFFT]
		rms[t] = math.Sqrt(floats.Dot(seg, seg) / nFFT)
	}
	return stat.Mean(rms, nil)
}

// pitchSpread tracks spectral peaks per frame with parabolic interpolation,
// keeps pitches whose magnitude exceeds the median of the full magnitude grid
// (unpicked bins count as zero), and returns their population std-dev.
func pitchSpread(spec spectrogram, sampleRate int) float64 {
	if len(spec.mags) == 0 {
		return 0
	}
	bins := len(spec.mags[0])
	binHz := float64(sampleRate) / nFFT
	lo := max(1, int(math.Ceil(pitchFMin/binHz)))
	hi := min(bins-2, int(math.Ceil(pitchFMax/binHz))-1)

	var pitches, mags []float64
	for _, row := range spec.mags {
		ref := pitchFloor * floats.Max(row)
		for i := lo; i <= hi; i++ {
			s := row[i]
			if s <= ref || s <= row[i-1] || s < row[i+1] {
				continue
			}
			avg := 0.5 * (row[i+1] - row[i-1])
			shift := 2*s - row[i+1] - row[i-1]
			if math.Abs(shift) < math.SmallestNonzeroFloat64 {
				shift = math.SmallestNonzeroFloat64
			}
			shift = avg / shift
			pitches = append(pitches, (float64(i)+shift)*binHz)
			mags = append(mags, s+0.5*avg*shift)
		}
	}
	if len(pitches) == 0 {
		return 0
	}
	threshold := gridMedian(mags, len(spec.mags)*bins-len(mags))
	kept := make([]float64, 0, len(pitches))
	for i, m := range mags {
		if m > threshold {
			kept = append(kept, pitches[i])
		}
	}
	if len(kept) == 0 {
		return 0
	}
	_, std := stat.PopMeanStdDev(kept, nil)
	return std
}

// gridMedian is the median of values plus zeros extra zero entries.
func gridMedian(values []float64, zeros int) float64 {
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	neg, _ := slices.BinarySearch(sorted, 0)
	n := len(sorted) + zeros
	at := func(k int) float64 {
		switch {
		case k < neg:
			return sorted[k]
		case k < neg+zeros:
			return 0
		default:
			return sorted[k-zeros]
		}
	}
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return at(n / 2)
	}
	return 0.5 * (at(n/2-1) + at(n/2))
}

// onsetEnvelope is the mean positive log-power flux between frames.
func onsetEnvelope(spec spectrogram) []float64 {
	if len(spec.mags) < 2 {
		return nil
	}
	db := make([][]float64, len(spec.mags))
	peak := math.Inf(-1)
	for t, row := range spec.mags {
		db[t] = make([]float64, len(row))
		for k, m := range row {
			v := 10 * math.Log10(math.Max(1e-10, m*m))
			db[t][k] = v
			peak = math.Max(peak, v)
		}
	}
	floor := peak - topDB
	env := make([]float64, len(db))
	for t := 1; t < len(db); t++ {
		var sum float64
		for k := range db[t] {
			diff := math.Max(db[t][k], floor) - math.Max(db[t-1][k], floor)
			if diff > 0 {
				sum += diff
			}
		}
		env[t] = sum / float64(len(db[t]))
	}
	return env
}

// estimateTempo picks the autocorrelation lag of the onset envelope that best
// matches a log-normal prior centred on 120 BPM.
func estimateTempo(env []float64, sampleRate int) float64 {
	framesPerSec := float64(sampleRate) / hopLength
	maxLag := min(len(env)-1, int(acSeconds*framesPerSec))
	if maxLag < 1 {
		return 0
	}
	mean := stat.Mean(env, nil)
	centered := make([]float64, len(env))
	for i, v := range env {
		centered[i] = v - mean
	}
	ac0 := floats.Dot(centered, centered)

	best, bestScore := 0.0, math.Inf(-1)
	for lag := 1; lag <= maxLag; lag++ {
		bpm := 60 * framesPerSec / float64(lag)
		if bpm > tempoMax {
			continue
		}
		var ac float64
		if ac0 > 0 {
			ac = math.Max(0, floats.Dot(centered[lag:], centered[:len(centered)-lag])/ac0)
		}
		z := math.Log2(bpm) - math.Log2(tempoStart)
		score := math.Log1p(1e6*ac) - 0.5*z*z
		if score > bestScore {
			best, bestScore = bpm, score
		}
	}
	return best
}
