package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeServer()
	c.normalizeLLM()
	c.normalizeVision()
	if err := c.normalizeSearchPaths(); err != nil {
		return err
	}
	c.normalizeCache()
	if err := c.normalizeHistory(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.UploadDir) == "" {
		c.Paths.UploadDir = defaultUploadDir
	}
	if c.Paths.UploadDir, err = expandPath(c.Paths.UploadDir); err != nil {
		return fmt.Errorf("paths.upload_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	if port, ok := os.LookupEnv("PORT"); ok && strings.TrimSpace(port) != "" && c.Paths.APIBind == defaultAPIBind {
		c.Paths.APIBind = "0.0.0.0:" + strings.TrimSpace(port)
	}
	if c.Paths.APIBind == "" {
		c.Paths.APIBind = defaultAPIBind
	}
	c.Paths.APIToken = strings.TrimSpace(c.Paths.APIToken)
	if c.Paths.APIToken == "" {
		if value, ok := os.LookupEnv("ORATO_API_TOKEN"); ok {
			c.Paths.APIToken = strings.TrimSpace(value)
		}
	}
	return nil
}

func (c *Config) normalizeServer() {
	if c.Server.MaxUploadMB <= 0 {
		c.Server.MaxUploadMB = defaultMaxUploadMB
	}
	if c.Server.ShutdownTimeoutSeconds <= 0 {
		c.Server.ShutdownTimeoutSeconds = defaultShutdownTimeout
	}
	origins := make([]string, 0, len(c.Server.CORSOrigins))
	for _, origin := range c.Server.CORSOrigins {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	c.Server.CORSOrigins = origins
}

func (c *Config) normalizeLLM() {
	c.LLM.BaseURL = strings.TrimSpace(c.LLM.BaseURL)
	if c.LLM.BaseURL == "" {
		c.LLM.BaseURL = defaultLLMBaseURL
	}
	c.LLM.Model = strings.TrimSpace(c.LLM.Model)
	if c.LLM.Model == "" {
		c.LLM.Model = defaultLLMModel
	}
	c.LLM.Referer = strings.TrimSpace(c.LLM.Referer)
	if c.LLM.Referer == "" {
		c.LLM.Referer = defaultLLMReferer
	}
	c.LLM.Title = strings.TrimSpace(c.LLM.Title)
	if c.LLM.Title == "" {
		c.LLM.Title = defaultLLMTitle
	}
	if c.LLM.TimeoutSeconds <= 0 {
		c.LLM.TimeoutSeconds = defaultLLMTimeoutSeconds
	}
	if c.LLM.RetryAttempts <= 0 {
		c.LLM.RetryAttempts = 1
	}
	c.LLM.APIKey = strings.TrimSpace(c.LLM.APIKey)
	if c.LLM.APIKey == "" {
		for _, key := range []string{"ORATO_LLM_API_KEY", "OPENROUTER_API_KEY", "GEMINI_API_KEY"} {
			if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
				c.LLM.APIKey = strings.TrimSpace(value)
				break
			}
		}
	}
}

func (c *Config) normalizeVision() {
	c.Vision.URL = strings.TrimRight(strings.TrimSpace(c.Vision.URL), "/")
	if value, ok := os.LookupEnv("ORATO_VISION_URL"); ok && strings.TrimSpace(value) != "" {
		c.Vision.URL = strings.TrimRight(strings.TrimSpace(value), "/")
	}
	if c.Vision.URL == "" {
		c.Vision.URL = defaultVisionURL
	}
	if c.Vision.TimeoutSeconds <= 0 {
		c.Vision.TimeoutSeconds = defaultVisionTimeoutSeconds
	}
}

func (c *Config) normalizeSearchPaths() error {
	var err error
	if c.Scam.SearchPaths, err = expandAll(c.Scam.SearchPaths); err != nil {
		return fmt.Errorf("scam.search_paths: %w", err)
	}
	if c.Knowledge.SearchPaths, err = expandAll(c.Knowledge.SearchPaths); err != nil {
		return fmt.Errorf("knowledge.search_paths: %w", err)
	}
	c.Scam.ModelFile = strings.TrimSpace(c.Scam.ModelFile)
	if c.Scam.ModelFile == "" {
		c.Scam.ModelFile = defaultScamModelFile
	}
	c.Scam.VectorizerFile = strings.TrimSpace(c.Scam.VectorizerFile)
	if c.Scam.VectorizerFile == "" {
		c.Scam.VectorizerFile = defaultScamVectorizerFile
	}
	return nil
}

func (c *Config) normalizeCache() {
	c.Cache.Addr = strings.TrimSpace(c.Cache.Addr)
	if value, ok := os.LookupEnv("ORATO_REDIS_ADDR"); ok && strings.TrimSpace(value) != "" {
		c.Cache.Addr = strings.TrimSpace(value)
		c.Cache.Enabled = true
	}
	if c.Cache.Addr == "" {
		c.Cache.Addr = defaultCacheAddr
	}
	if strings.TrimSpace(c.Cache.Prefix) == "" {
		c.Cache.Prefix = defaultCachePrefix
	}
	if c.Cache.TTLSeconds < 0 {
		c.Cache.TTLSeconds = 0
	}
}

func (c *Config) normalizeHistory() error {
	var err error
	if strings.TrimSpace(c.History.Path) == "" {
		c.History.Path = defaultHistoryPath
	}
	if c.History.Path, err = expandPath(c.History.Path); err != nil {
		return fmt.Errorf("history.path: %w", err)
	}
	if c.History.RecentLimit <= 0 {
		c.History.RecentLimit = defaultHistoryRecentLimit
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "console", "json", "color", "auto":
	default:
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func expandAll(paths []string) ([]string, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	out := make([]string, 0, len(paths))
	seen := make(map[string]struct{}, len(paths))
	for _, raw := range paths {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		expanded, err := expandPath(strings.TrimSpace(raw))
		if err != nil {
			return nil, err
		}
		if _, ok := seen[expanded]; ok {
			continue
		}
		seen[expanded] = struct{}{}
		out = append(out, expanded)
	}
	return out, nil
}
