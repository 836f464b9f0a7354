package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTTS()
	c.normalizeASR()
	c.normalizeMedia()
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
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeTTS() {
	if strings.TrimSpace(c.TTS.Command) == "" {
		c.TTS.Command = defaultTTSCommand
	}
	if c.TTS.SampleRate == 0 {
		c.TTS.SampleRate = defaultTTSSampleRate
	}
	if c.TTS.Candidates == 0 {
		c.TTS.Candidates = defaultTTSCandidates
	}
}

func (c *Config) normalizeASR() {
	if strings.TrimSpace(c.ASR.Command) == "" {
		c.ASR.Command = defaultASRCommand
	}
	if strings.TrimSpace(c.ASR.Model) == "" {
		c.ASR.Model = defaultASRModel
	}
	if c.ASR.SampleRate == 0 {
		c.ASR.SampleRate = defaultASRSampleRate
	}
}

func (c *Config) normalizeMedia() {
	if strings.TrimSpace(c.Media.FFmpegBinary) == "" {
		c.Media.FFmpegBinary = defaultFFmpegBinary
	}
	if strings.TrimSpace(c.Media.FFprobeBinary) == "" {
		c.Media.FFprobeBinary = defaultFFprobeBinary
	}
	if c.Media.LeadInSeconds < 0 {
		c.Media.LeadInSeconds = 0
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
