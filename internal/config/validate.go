package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTTS(); err != nil {
		return err
	}
	if err := c.validateASR(); err != nil {
		return err
	}
	if err := c.validateReview(); err != nil {
		return err
	}
	if err := c.validateMedia(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateTTS() error {
	if c.TTS.SampleRate <= 0 {
		return errors.New("tts.sample_rate must be positive")
	}
	if c.TTS.Candidates < 1 {
		return errors.New("tts.candidates must be at least 1")
	}
	if c.TTS.TimeoutSeconds < 0 {
		return errors.New("tts.timeout_seconds must not be negative")
	}
	return nil
}

func (c *Config) validateASR() error {
	if c.ASR.SampleRate <= 0 {
		return errors.New("asr.sample_rate must be positive")
	}
	if c.ASR.TimeoutSeconds < 0 {
		return errors.New("asr.timeout_seconds must not be negative")
	}
	return nil
}

func (c *Config) validateReview() error {
	if c.Review.ScoreThreshold > 1 {
		return errors.New("review.score_threshold must not exceed 1")
	}
	return nil
}

func (c *Config) validateMedia() error {
	if c.Media.LeadInSeconds < 0 {
		return errors.New("media.lead_in_seconds must not be negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	return nil
}
