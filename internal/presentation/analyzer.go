package presentation

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"orato/internal/bodylang"
	"orato/internal/config"
	"orato/internal/emotion"
	"orato/internal/logging"
	"orato/internal/media/ffprobe"
	"orato/internal/media/frames"
	"orato/internal/presence"
	"orato/internal/services"
	"orato/internal/speech"
)

// Models is the inference surface the pipeline needs. vision.Client
// satisfies it.
type Models interface {
	presence.PersonDetector
	emotion.FaceDetector
	emotion.Classifier
	bodylang.PoseEstimator
}

// FrameOpener starts a frame stream for path.
type FrameOpener func(ctx context.Context, path string, opts frames.Options) (frames.Source, error)

// Prober inspects container metadata.
type Prober func(ctx context.Context, path string) (ffprobe.Result, error)

// SpeechFunc extracts speech features and never fails.
type SpeechFunc func(ctx context.Context, path string) speech.Report

// Settings tune every stage of the pipeline.
type Settings struct {
	FFmpegBinary      string
	FFprobeBinary     string
	Presence          presence.Thresholds
	Body              bodylang.Thresholds
	PoseMinConfidence float64
	FrameWidth        int
	FrameHeight       int
	EmotionStride     int
	FaceConfidence    float64
	Speech            speech.Options
}

// SettingsFromConfig maps configuration onto pipeline settings.
func SettingsFromConfig(cfg *config.Config) Settings {
	bl := cfg.BodyLanguage
	return Settings{
		FFmpegBinary:  cfg.FFmpegBinary(),
		FFprobeBinary: cfg.FFprobeBinary(),
		Presence: presence.Thresholds{
			FrameBudget: cfg.Presence.FrameBudget,
			High:        cfg.Presence.HighThreshold,
			Low:         cfg.Presence.LowThreshold,
		},
		Body: bodylang.Thresholds{
			Head:          bl.HeadThreshold,
			Body:          bl.BodyThreshold,
			ExcessiveBody: bl.ExcessiveBody,
			GestureMin:    bl.GestureMin,
			GestureMax:    bl.GestureMax,
			Shake:         bl.ShakeThreshold,
		},
		PoseMinConfidence: bl.PoseMinConfidence,
		FrameWidth:        bl.FrameWidth,
		FrameHeight:       bl.FrameHeight,
		EmotionStride:     cfg.Emotion.FrameStride,
		FaceConfidence:    cfg.Emotion.FaceConfidence,
		Speech: speech.Options{
			Binary:            cfg.FFmpegBinary(),
			SampleRate:        cfg.Speech.SampleRate,
			VolumeThreshold:   cfg.Speech.VolumeThreshold,
			PitchStdThreshold: cfg.Speech.PitchStdThreshold,
		},
	}
}

// Analyzer runs the presentation pipeline: presence gate, speech features,
// then emotion and body language in parallel, then Merge.
type Analyzer struct {
	settings Settings
	models   Models
	logger   *slog.Logger

	openFrames FrameOpener
	probe      Prober
	speech     SpeechFunc
}

// Option customizes an Analyzer.
type Option func(*Analyzer)

// WithFrameOpener replaces the ffmpeg frame source.
func WithFrameOpener(open FrameOpener) Option {
	return func(a *Analyzer) {
		if open != nil {
			a.openFrames = open
		}
	}
}

// WithProber replaces ffprobe.
func WithProber(probe Prober) Option {
	return func(a *Analyzer) {
		if probe != nil {
			a.probe = probe
		}
	}
}

// WithSpeech replaces the speech extractor.
func WithSpeech(fn SpeechFunc) Option {
	return func(a *Analyzer) {
		if fn != nil {
			a.speech = fn
		}
	}
}

// NewAnalyzer builds an Analyzer over models.
func NewAnalyzer(settings Settings, models Models, logger *slog.Logger, opts ...Option) *Analyzer {
	a := &Analyzer{
		settings: settings,
		models:   models,
		logger:   logging.NewComponentLogger(logger, "presentation"),
	}
	a.openFrames = func(ctx context.Context, path string, o frames.Options) (frames.Source, error) {
		src, err := frames.Open(ctx, path, o)
		if err != nil {
			return nil, err
		}
		return src, nil
	}
	a.probe = func(ctx context.Context, path string) (ffprobe.Result, error) {
		return ffprobe.Inspect(ctx, a.settings.FFprobeBinary, path)
	}
	a.speech = func(ctx context.Context, path string) speech.Report {
		return speech.Analyze(ctx, path, a.settings.Speech)
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze runs the full pipeline over the video at path. The only errors
// returned are the presence rejection (services.ErrNoHuman) and failures of
// the gate itself; later stages degrade to sentinels.
func (a *Analyzer) Analyze(ctx context.Context, path string) (Result, error) {
	ctx = services.WithPipeline(ctx, "presentation")
	logger := logging.WithContext(ctx, a.logger)
	started := time.Now()

	probe, probeErr := a.probe(ctx, path)
	if probeErr != nil {
		logging.WarnWithContext(logger, "ffprobe failed; continuing without metadata", "probe_failed",
			logging.Error(probeErr),
			logging.String(logging.FieldImpact, "audio presence is not known ahead of speech analysis"),
		)
	} else if !probe.HasVideo() {
		return Result{}, presence.Result{}.Err()
	}

	gate, err := a.runPresence(services.WithStage(ctx, "presence"), path)
	if err != nil {
		return Result{}, err
	}
	if err := gate.Err(); err != nil {
		logger.Info("presentation rejected", logging.Args(logging.DecisionAttrs("presence_gate", "reject", "no presenter found")...)...)
		return Result{}, err
	}

	var sp speech.Report
	if probeErr == nil && !probe.HasAudio() {
		sp = speech.Failed(errors.New("video has no audio stream"))
	} else {
		sp = a.speech(services.WithStage(ctx, "speech"), path)
	}
	if sp.Failed() {
		logging.WarnWithContext(logger, "speech analysis degraded", "speech_failed",
			logging.String("reason", sp.Error),
			logging.String(logging.FieldImpact, "speech score falls back to 60"),
		)
	}

	var (
		wg   sync.WaitGroup
		emo  emotion.Report
		conf bodylang.ConfidenceReport
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		emo = a.runEmotion(services.WithStage(ctx, "emotion"), path)
	}()
	go func() {
		defer wg.Done()
		conf = a.runBodyLanguage(services.WithStage(ctx, "body_language"), path)
	}()
	wg.Wait()

	result := Merge(conf, sp, emo)
	logger.Info("presentation analyzed",
		logging.Int("overall_score", result.OverallScore),
		logging.Int("body_score", result.BodyScore),
		logging.Int("speech_score", result.SpeechScore),
		logging.String("emotion", result.Emotion),
		logging.Duration("elapsed", time.Since(started)),
	)
	return result, nil
}

func (a *Analyzer) runPresence(ctx context.Context, path string) (presence.Result, error) {
	src, err := a.openFrames(ctx, path, frames.Options{
		Binary:    a.settings.FFmpegBinary,
		MaxFrames: a.settings.Presence.FrameBudget,
	})
	if err != nil {
		return presence.Result{}, services.Wrap(services.ErrExternalTool, "presence", "open frames", "", err)
	}
	defer src.Close()
	return presence.Check(ctx, src, a.models, a.settings.Presence, logging.WithContext(ctx, a.logger))
}

func (a *Analyzer) runEmotion(ctx context.Context, path string) emotion.Report {
	logger := logging.WithContext(ctx, a.logger)
	src, err := a.openFrames(ctx, path, frames.Options{
		Binary: a.settings.FFmpegBinary,
		Stride: a.settings.EmotionStride,
	})
	if err != nil {
		return a.emotionFailure(logger, err)
	}
	defer src.Close()
	report, err := emotion.Analyze(ctx, src, a.models, a.models, emotion.Options{MinFaceConfidence: a.settings.FaceConfidence}, logger)
	if err != nil {
		return a.emotionFailure(logger, err)
	}
	return report
}

func (a *Analyzer) emotionFailure(logger *slog.Logger, err error) emotion.Report {
	logging.WarnWithContext(logger, "emotion analysis failed", "emotion_failed",
		logging.Error(err),
		logging.String(logging.FieldImpact, "emotion defaults to neutral"),
	)
	return emotion.Report{Error: err.Error()}
}

func (a *Analyzer) runBodyLanguage(ctx context.Context, path string) bodylang.ConfidenceReport {
	logger := logging.WithContext(ctx, a.logger)
	src, err := a.openFrames(ctx, path, frames.Options{
		Binary: a.settings.FFmpegBinary,
		Width:  a.settings.FrameWidth,
		Height: a.settings.FrameHeight,
	})
	if err != nil {
		return a.bodyFailure(logger, err)
	}
	defer src.Close()
	report, err := bodylang.Analyze(ctx, src, a.models, a.settings.Body, a.settings.PoseMinConfidence, logger)
	if err != nil {
		return a.bodyFailure(logger, err)
	}
	return report
}

func (a *Analyzer) bodyFailure(logger *slog.Logger, err error) bodylang.ConfidenceReport {
	logging.WarnWithContext(logger, "body language analysis failed", "body_language_failed",
		logging.Error(err),
		logging.String(logging.FieldImpact, "body score falls back to 0"),
	)
	return bodylang.NoFramesReport()
}
