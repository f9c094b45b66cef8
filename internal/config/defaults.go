package config

const (
	defaultConfigPath            = "~/.config/orato/config.toml"
	defaultDataDir               = "~/.local/share/orato"
	defaultUploadDir             = "~/.local/share/orato/uploads"
	defaultLogDir                = "~/.local/share/orato/logs"
	defaultHistoryPath           = "~/.local/share/orato/history.db"
	defaultAPIBind               = "127.0.0.1:5000"
	defaultMaxUploadMB           = 512
	defaultShutdownTimeout       = 10
	defaultLLMBaseURL            = "https://openrouter.ai/api/v1/chat/completions"
	defaultLLMModel              = "google/gemini-2.0-flash-001"
	defaultLLMReferer            = "https://github.com/orato/orato"
	defaultLLMTitle              = "Orato"
	defaultLLMTimeoutSeconds     = 60
	defaultVisionURL             = "http://127.0.0.1:8500"
	defaultVisionTimeoutSeconds  = 30
	defaultPresenceFrameBudget   = 150
	defaultPresenceHigh          = 100
	defaultPresenceLow           = 3
	defaultEmotionFrameStride    = 30
	defaultEmotionFaceConfidence = 0.5
	defaultFrameWidth            = 640
	defaultFrameHeight           = 480
	defaultHeadThreshold         = 0.06
	defaultBodyThreshold         = 0.06
	defaultExcessiveBody         = 0.09
	defaultGestureMin            = 0.02
	defaultGestureMax            = 0.38
	defaultShakeThreshold        = 0.025
	defaultPoseMinConfidence     = 0.5
	defaultSpeechSampleRate      = 22050
	defaultVolumeThreshold       = 0.02
	defaultPitchStdThreshold     = 30
	defaultScamModelFile         = "sms_model.json"
	defaultScamVectorizerFile    = "tfidf_vectorizer.json"
	defaultCacheAddr             = "127.0.0.1:6379"
	defaultCachePrefix           = "orato:verdict:"
	defaultCacheTTLSeconds       = 86400
	defaultHistoryRecentLimit    = 50
	defaultLogFormat             = "auto"
	defaultLogLevel              = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:   defaultDataDir,
			UploadDir: defaultUploadDir,
			LogDir:    defaultLogDir,
			APIBind:   defaultAPIBind,
		},
		Server: Server{
			MaxUploadMB:            defaultMaxUploadMB,
			CORSOrigins:            []string{"*"},
			ShutdownTimeoutSeconds: defaultShutdownTimeout,
		},
		LLM: LLM{
			BaseURL:        defaultLLMBaseURL,
			Model:          defaultLLMModel,
			Referer:        defaultLLMReferer,
			Title:          defaultLLMTitle,
			TimeoutSeconds: defaultLLMTimeoutSeconds,
		},
		Vision: Vision{
			URL:            defaultVisionURL,
			TimeoutSeconds: defaultVisionTimeoutSeconds,
		},
		Presence: Presence{
			FrameBudget:   defaultPresenceFrameBudget,
			HighThreshold: defaultPresenceHigh,
			LowThreshold:  defaultPresenceLow,
		},
		Emotion: Emotion{
			FrameStride:    defaultEmotionFrameStride,
			FaceConfidence: defaultEmotionFaceConfidence,
		},
		BodyLanguage: BodyLanguage{
			FrameWidth:        defaultFrameWidth,
			FrameHeight:       defaultFrameHeight,
			HeadThreshold:     defaultHeadThreshold,
			BodyThreshold:     defaultBodyThreshold,
			ExcessiveBody:     defaultExcessiveBody,
			GestureMin:        defaultGestureMin,
			GestureMax:        defaultGestureMax,
			ShakeThreshold:    defaultShakeThreshold,
			PoseMinConfidence: defaultPoseMinConfidence,
		},
		Speech: Speech{
			SampleRate:        defaultSpeechSampleRate,
			VolumeThreshold:   defaultVolumeThreshold,
			PitchStdThreshold: defaultPitchStdThreshold,
		},
		Scam: Scam{
			ModelFile:      defaultScamModelFile,
			VectorizerFile: defaultScamVectorizerFile,
		},
		Cache: Cache{
			Addr:       defaultCacheAddr,
			Prefix:     defaultCachePrefix,
			TTLSeconds: defaultCacheTTLSeconds,
		},
		History: History{
			Enabled:     true,
			Path:        defaultHistoryPath,
			RecentLimit: defaultHistoryRecentLimit,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
