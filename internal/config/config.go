package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and bind address configuration.
type Paths struct {
	DataDir   string `toml:"data_dir"`
	UploadDir string `toml:"upload_dir"`
	LogDir    string `toml:"log_dir"`
	APIBind   string `toml:"api_bind"`
	APIToken  string `toml:"api_token"`
}

// Server contains HTTP transport settings.
type Server struct {
	MaxUploadMB            int      `toml:"max_upload_mb"`
	CORSOrigins            []string `toml:"cors_origins"`
	ShutdownTimeoutSeconds int      `toml:"shutdown_timeout_seconds"`
}

// LLM contains the generative model connection settings shared by the
// chatbot and the message classifier.
type LLM struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	Referer        string `toml:"referer"`
	Title          string `toml:"title"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	RetryAttempts  int    `toml:"retry_attempts"`
}

// Vision contains settings for the model sidecar that serves person, face,
// emotion, and pose inference.
type Vision struct {
	URL            string `toml:"url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Presence contains the human-detection gate thresholds.
type Presence struct {
	FrameBudget   int `toml:"frame_budget"`
	HighThreshold int `toml:"high_threshold"`
	LowThreshold  int `toml:"low_threshold"`
}

// Emotion contains facial emotion sampling settings.
type Emotion struct {
	FrameStride    int     `toml:"frame_stride"`
	FaceConfidence float64 `toml:"face_confidence"`
}

// BodyLanguage contains pose sampling dimensions and movement thresholds.
type BodyLanguage struct {
	FrameWidth        int     `toml:"frame_width"`
	FrameHeight       int     `toml:"frame_height"`
	HeadThreshold     float64 `toml:"head_threshold"`
	BodyThreshold     float64 `toml:"body_threshold"`
	ExcessiveBody     float64 `toml:"excessive_body_threshold"`
	GestureMin        float64 `toml:"gesture_min"`
	GestureMax        float64 `toml:"gesture_max"`
	ShakeThreshold    float64 `toml:"shake_threshold"`
	PoseMinConfidence float64 `toml:"pose_min_confidence"`
}

// Speech contains audio decoding and labelling thresholds.
type Speech struct {
	SampleRate        int     `toml:"sample_rate"`
	VolumeThreshold   float64 `toml:"volume_threshold"`
	PitchStdThreshold float64 `toml:"pitch_std_threshold"`
}

// Scam contains message-classifier artifact settings.
type Scam struct {
	ModelFile      string   `toml:"model_file"`
	VectorizerFile string   `toml:"vectorizer_file"`
	SearchPaths    []string `toml:"search_paths"`
}

// Cache contains the optional Redis cache for generative verdicts.
type Cache struct {
	Enabled    bool   `toml:"enabled"`
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	Prefix     string `toml:"prefix"`
	TTLSeconds int    `toml:"ttl_seconds"`
}

// Knowledge contains campus knowledge-base lookup settings.
type Knowledge struct {
	SearchPaths []string `toml:"search_paths"`
}

// History contains the verdict/result history store settings.
type History struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	RecentLimit int    `toml:"recent_limit"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for Orato.
//
// Configuration sections by subsystem:
//   - Paths: data, upload, and log directories plus API bind address
//   - Server: upload limits and CORS
//   - LLM: generative model used by the chatbot and the message classifier
//   - Vision: inference sidecar for detection, emotion, and pose
//   - Presence, Emotion, BodyLanguage, Speech: presentation pipeline tuning
//   - Scam, Cache: message classification artifacts and verdict cache
//   - Knowledge: campus knowledge-base discovery
//   - History: sqlite history of verdicts and presentation results
//   - Logging: log format and level
type Config struct {
	Paths        Paths        `toml:"paths"`
	Server       Server       `toml:"server"`
	LLM          LLM          `toml:"llm"`
	Vision       Vision       `toml:"vision"`
	Presence     Presence     `toml:"presence"`
	Emotion      Emotion      `toml:"emotion"`
	BodyLanguage BodyLanguage `toml:"body_language"`
	Speech       Speech       `toml:"speech"`
	Scam         Scam         `toml:"scam"`
	Cache        Cache        `toml:"cache"`
	Knowledge    Knowledge    `toml:"knowledge"`
	History      History      `toml:"history"`
	Logging      Logging      `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("orato.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the data, upload, and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.UploadDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// FFmpegBinary returns the ffmpeg executable name used for frame and audio decoding.
func (c *Config) FFmpegBinary() string {
	return "ffmpeg"
}

// FFprobeBinary returns the ffprobe executable name used for stream inspection.
func (c *Config) FFprobeBinary() string {
	return "ffprobe"
}

// LockPath is the single-instance lock held by the API server.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.DataDir, "orato.lock")
}

// MaxUploadBytes converts the configured upload cap to bytes.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.Server.MaxUploadMB) << 20
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// LLMConfig contains common LLM settings used across features.
type LLMConfig struct {
	APIKey         string
	BaseURL        string
	Model          string
	Referer        string
	Title          string
	TimeoutSeconds int
	RetryAttempts  int
}

// GetLLM returns the shared LLM connection settings.
func (c *Config) GetLLM() LLMConfig {
	return LLMConfig{
		APIKey:         strings.TrimSpace(c.LLM.APIKey),
		BaseURL:        strings.TrimSpace(c.LLM.BaseURL),
		Model:          strings.TrimSpace(c.LLM.Model),
		Referer:        strings.TrimSpace(c.LLM.Referer),
		Title:          strings.TrimSpace(c.LLM.Title),
		TimeoutSeconds: c.LLM.TimeoutSeconds,
		RetryAttempts:  c.LLM.RetryAttempts,
	}
}
