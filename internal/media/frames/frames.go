package frames

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"
	"sync"
)

const maxFrameBytes = 16 << 20

// Frame is one decoded picture encoded as JPEG. Index is the 1-based position
// of the frame in the source video, before any stride is applied.
type Frame struct {
	Index int
	JPEG  []byte
}

// Source yields frames in presentation order. Next returns io.EOF once the
// video is exhausted.
type Source interface {
	Next(ctx context.Context) (Frame, error)
	Close() error
}

// Options control how ffmpeg decodes frames.
type Options struct {
	Binary string
	// Width and Height rescale every frame when both are positive.
	Width  int
	Height int
	// Stride keeps every Nth frame (frame numbers N, 2N, ...). Zero or one
	// keeps all frames.
	Stride int
	// MaxFrames stops decoding after this many emitted frames when positive.
	MaxFrames int
	// Quality is the mjpeg qscale (2 best, 31 worst). Defaults to 3.
	Quality int
}

// FFmpegSource streams MJPEG frames from an ffmpeg subprocess.
type FFmpegSource struct {
	cmd     *exec.Cmd
	cancel  context.CancelFunc
	scanner *bufio.Scanner
	stderr  *bytes.Buffer
	stride  int
	emitted int

	closeOnce sync.Once
	waitErr   error
	done      bool
}

// Open starts ffmpeg against path and returns a frame source. Callers must
// Close the source to reap the process.
func Open(ctx context.Context, path string, opts Options) (*FFmpegSource, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("frames: empty path")
	}
	binary := strings.TrimSpace(opts.Binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	stride := max(opts.Stride, 1)

	procCtx, cancel := context.WithCancel(ctx)
	cmd := exec.CommandContext(procCtx, binary, buildArgs(path, opts, stride)...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("frames: stdout pipe: %w", err)
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Start(); err != nil {
		cancel()
		return nil, fmt.Errorf("frames: start %s: %w", binary, err)
	}

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 256<<10), maxFrameBytes)
	scanner.Split(SplitJPEG)

	return &FFmpegSource{
		cmd:     cmd,
		cancel:  cancel,
		scanner: scanner,
		stderr:  &stderr,
		stride:  stride,
	}, nil
}

func buildArgs(path string, opts Options, stride int) []string {
	args := []string{"-v", "error", "-nostdin", "-i", path, "-an"}
	var filters []string
	if stride > 1 {
		filters = append(filters, fmt.Sprintf("select='not(mod(n+1\\,%d))'", stride))
	}
	if opts.Width > 0 && opts.Height > 0 {
		filters = append(filters, fmt.Sprintf("scale=%d:%d", opts.Width, opts.Height))
	}
	if len(filters) > 0 {
		args = append(args, "-vf", strings.Join(filters, ","))
	}
	if stride > 1 {
		args = append(args, "-vsync", "vfr")
	}
	if opts.MaxFrames > 0 {
		args = append(args, "-frames:v", strconv.Itoa(opts.MaxFrames))
	}
	quality := opts.Quality
	if quality <= 0 {
		quality = 3
	}
	return append(args, "-f", "image2pipe", "-c:v", "mjpeg", "-q:v", strconv.Itoa(quality), "pipe:1")
}

// Next returns the next frame or io.EOF.
func (s *FFmpegSource) Next(ctx context.Context) (Frame, error) {
	if s.done {
		return Frame{}, io.EOF
	}
	if err := ctx.Err(); err != nil {
		return Frame{}, err
	}
	if s.scanner.Scan() {
		s.emitted++
		data := append([]byte(nil), s.scanner.Bytes()...)
		return Frame{Index: s.emitted * s.stride, JPEG: data}, nil
	}
	s.done = true
	scanErr := s.scanner.Err()
	waitErr := s.wait()
	if scanErr != nil {
		return Frame{}, fmt.Errorf("frames: read: %w", scanErr)
	}
	if waitErr != nil && s.emitted == 0 {
		return Frame{}, waitErr
	}
	return Frame{}, io.EOF
}

// Emitted reports how many frames have been returned so far.
func (s *FFmpegSource) Emitted() int {
	return s.emitted
}

func (s *FFmpegSource) wait() error {
	s.closeOnce.Do(func() {
		if err := s.cmd.Wait(); err != nil {
			detail := strings.TrimSpace(s.stderr.String())
			if detail != "" {
				s.waitErr = fmt.Errorf("frames: ffmpeg: %w: %s", err, detail)
			} else {
				s.waitErr = fmt.Errorf("frames: ffmpeg: %w", err)
			}
		}
		s.cancel()
	})
	return s.waitErr
}

// Close stops ffmpeg if it is still running and reaps it.
func (s *FFmpegSource) Close() error {
	if s == nil {
		return nil
	}
	if !s.done {
		// Early exit by the consumer: the resulting kill is expected.
		s.cancel()
		s.done = true
		_ = s.wait()
		return nil
	}
	return nil
}

// SplitJPEG is a bufio.SplitFunc that yields complete JPEG images from a
// concatenated MJPEG stream, delimited by SOI (FFD8) and EOI (FFD9) markers.
func SplitJPEG(data []byte, atEOF bool) (advance int, token []byte, err error) {
	start := bytes.Index(data, soi)
	if start < 0 {
		if atEOF {
			return len(data), nil, nil
		}
		// Keep a trailing 0xFF in case it begins a marker.
		if n := len(data); n > 0 && data[n-1] == 0xFF {
			return n - 1, nil, nil
		}
		return len(data), nil, nil
	}
	end := bytes.Index(data[start+2:], eoi)
	if end < 0 {
		if atEOF {
			return len(data), nil, nil
		}
		return start, nil, nil
	}
	stop := start + 2 + end + 2
	return stop, data[start:stop], nil
}

var (
	soi = []byte{0xFF, 0xD8}
	eoi = []byte{0xFF, 0xD9}
)

// SliceSource replays a fixed set of frames. It is used for tests and for
// callers that already hold decoded frames.
type SliceSource struct {
	frames []Frame
	pos    int
}

// NewSliceSource returns a Source over frames.
func NewSliceSource(frames ...Frame) *SliceSource {
	return &SliceSource{frames: frames}
}

func (s *SliceSource) Next(ctx context.Context) (Frame, error) {
	if err := ctx.Err(); err != nil {
		return Frame{}, err
	}
	if s.pos >= len(s.frames) {
		return Frame{}, io.EOF
	}
	f := s.frames[s.pos]
	s.pos++
	return f, nil
}

func (s *SliceSource) Close() error { return nil }
