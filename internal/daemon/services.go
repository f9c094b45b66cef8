package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"orato/internal/campus"
	"orato/internal/config"
	"orato/internal/history"
	"orato/internal/logging"
	"orato/internal/presentation"
	"orato/internal/scam"
	"orato/internal/services/llm"
	"orato/internal/vision"
)

// Services is the wired set of pipelines shared by the server and the CLI.
type Services struct {
	LLM       *llm.Client
	Vision    *vision.Client
	Analyzer  *presentation.Analyzer
	Artifacts *scam.Artifacts
	Detector  *scam.Detector
	Knowledge *campus.Knowledge
	Chatbot   *campus.Chatbot
	// History is nil when disabled in config.
	History *history.Store

	cache *scam.RedisCache
}

// Build constructs every service from cfg. Optional infrastructure (the
// redis cache, an unconfigured LLM key) degrades with a warning; only a
// history store that is enabled but cannot be opened is fatal.
func Build(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Services, error) {
	if cfg == nil {
		return nil, errors.New("daemon: config is required")
	}
	logger = logging.NewComponentLogger(logger, "daemon")

	llmCfg := cfg.GetLLM()
	client := llm.NewClient(llm.Config{
		APIKey:         llmCfg.APIKey,
		BaseURL:        llmCfg.BaseURL,
		Model:          llmCfg.Model,
		Referer:        llmCfg.Referer,
		Title:          llmCfg.Title,
		TimeoutSeconds: llmCfg.TimeoutSeconds,
		RetryAttempts:  llmCfg.RetryAttempts,
	})
	if !client.Configured() {
		logging.WarnWithContext(logger, "generative model not configured", "llm_unconfigured",
			logging.String(logging.FieldImpact, "chat replies apologize and message verdicts use the statistical model only"),
			logging.String(logging.FieldErrorHint, "set llm.api_key or export GEMINI_API_KEY"),
		)
	}

	visionClient := vision.NewClient(vision.Config{URL: cfg.Vision.URL, TimeoutSeconds: cfg.Vision.TimeoutSeconds})

	svc := &Services{
		LLM:       client,
		Vision:    visionClient,
		Analyzer:  presentation.NewAnalyzer(presentation.SettingsFromConfig(cfg), visionClient, logger),
		Artifacts: scam.ArtifactsFromConfig(cfg),
		Knowledge: campus.LoadFromConfig(cfg, logger),
	}
	svc.Chatbot = campus.NewChatbot(svc.Knowledge, client, logger)

	var cache scam.Cache
	if cfg.Cache.Enabled {
		rc, err := scam.NewRedisCache(ctx, cfg.Cache)
		if err != nil {
			logging.WarnWithContext(logger, "verdict cache unavailable", "cache_connect_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "every message is sent to the generative model"),
				logging.String(logging.FieldErrorHint, "check cache.addr or disable [cache]"),
			)
		} else {
			svc.cache = rc
			cache = rc
		}
	}
	svc.Detector = scam.NewDetector(svc.Artifacts, scam.NewGenerative(client, cache, logger), logger)

	store, err := history.OpenFromConfig(cfg)
	if err != nil {
		svc.Close()
		return nil, fmt.Errorf("open history: %w", err)
	}
	svc.History = store
	return svc, nil
}

// CacheEnabled reports whether the redis verdict cache connected.
func (s *Services) CacheEnabled() bool {
	return s != nil && s.cache != nil
}

// Close releases the history database and cache connection.
func (s *Services) Close() error {
	if s == nil {
		return nil
	}
	var errs []error
	if s.cache != nil {
		errs = append(errs, s.cache.Close())
	}
	if s.History != nil {
		errs = append(errs, s.History.Close())
	}
	return errors.Join(errs...)
}
