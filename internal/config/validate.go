package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePresence(); err != nil {
		return err
	}
	if err := c.validateEmotion(); err != nil {
		return err
	}
	if err := c.validateBodyLanguage(); err != nil {
		return err
	}
	if err := c.validateSpeech(); err != nil {
		return err
	}
	if err := c.validateCache(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePresence() error {
	if err := ensurePositiveMap(map[string]int{
		"presence.frame_budget":   c.Presence.FrameBudget,
		"presence.high_threshold": c.Presence.HighThreshold,
		"presence.low_threshold":  c.Presence.LowThreshold,
	}); err != nil {
		return err
	}
	if c.Presence.LowThreshold > c.Presence.HighThreshold {
		return errors.New("presence.low_threshold must not exceed presence.high_threshold")
	}
	return nil
}

func (c *Config) validateEmotion() error {
	if c.Emotion.FrameStride <= 0 {
		return errors.New("emotion.frame_stride must be positive")
	}
	if c.Emotion.FaceConfidence < 0 || c.Emotion.FaceConfidence > 1 {
		return errors.New("emotion.face_confidence must be between 0 and 1")
	}
	return nil
}

func (c *Config) validateBodyLanguage() error {
	cfg := c.BodyLanguage
	if err := ensurePositiveMap(map[string]int{
		"body_language.frame_width":  cfg.FrameWidth,
		"body_language.frame_height": cfg.FrameHeight,
	}); err != nil {
		return err
	}
	if cfg.GestureMin < 0 || cfg.GestureMax <= cfg.GestureMin {
		return errors.New("body_language.gesture_max must be greater than body_language.gesture_min")
	}
	if cfg.HeadThreshold <= 0 || cfg.BodyThreshold <= 0 || cfg.ShakeThreshold <= 0 {
		return errors.New("body_language thresholds must be positive")
	}
	if cfg.ExcessiveBody < cfg.BodyThreshold {
		return errors.New("body_language.excessive_body_threshold must be >= body_language.body_threshold")
	}
	return nil
}

func (c *Config) validateSpeech() error {
	if c.Speech.SampleRate < 8000 {
		return fmt.Errorf("speech.sample_rate must be at least 8000 (got %d)", c.Speech.SampleRate)
	}
	if c.Speech.VolumeThreshold <= 0 {
		return errors.New("speech.volume_threshold must be positive")
	}
	if c.Speech.PitchStdThreshold <= 0 {
		return errors.New("speech.pitch_std_threshold must be positive")
	}
	return nil
}

func (c *Config) validateCache() error {
	if c.Cache.Enabled && strings.TrimSpace(c.Cache.Addr) == "" {
		return errors.New("cache.addr must be set when cache.enabled is true")
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
