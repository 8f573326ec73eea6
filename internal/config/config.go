package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/nguyentantai21042004/course-scribe/internal/retry"
)

type Config struct {
	Speech      SpeechConfig      `yaml:"speech"`
	Reasoning   ReasoningConfig   `yaml:"reasoning"`
	FFmpeg      FFmpegConfig      `yaml:"ffmpeg"`
	Paths       PathsConfig       `yaml:"paths"`
	Retry       retry.Policy      `yaml:"retry"`
	Alignment   AlignmentConfig   `yaml:"alignment"`
	Logging     LoggingConfig     `yaml:"logging"`
	Watch       WatchConfig       `yaml:"watch"`
	Credentials CredentialsConfig `yaml:"credentials"`
}

type SpeechConfig struct {
	Host     string        `yaml:"host"`
	Model    string        `yaml:"model"`
	Language string        `yaml:"language"`
	Diarize  *bool         `yaml:"diarize"`
	Timeout  time.Duration `yaml:"timeout"`
}

type ReasoningConfig struct {
	Model           string        `yaml:"model"`
	MaxOutputTokens int32         `yaml:"max_output_tokens"`
	Timeout         time.Duration `yaml:"timeout"`
}

type FFmpegConfig struct {
	BinaryPath string `yaml:"binary_path"`
	ProbePath  string `yaml:"probe_path"`
	SampleRate int    `yaml:"sample_rate"`
}

type PathsConfig struct {
	Output string `yaml:"output"`
	Temp   string `yaml:"temp"`
}

type AlignmentConfig struct {
	CoveredThreshold float64 `yaml:"covered_threshold"`
	PartialThreshold float64 `yaml:"partial_threshold"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type WatchConfig struct {
	Input         string `yaml:"input"`
	MaxConcurrent int    `yaml:"max_concurrent"`
}

type CredentialsConfig struct {
	UseKeyring bool `yaml:"use_keyring"`
}

// Default returns a Config with every default filled in.
func Default() *Config {
	cfg := &Config{}
	_ = cfg.Validate()
	return cfg
}

// ApplyEnv overrides file values with SCRIBE_* environment variables.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("SCRIBE_OUTPUT_DIR"); v != "" {
		c.Paths.Output = v
	}
	if v := os.Getenv("SCRIBE_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("SCRIBE_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
}

// DiarizeEnabled reports whether speaker diarization is on (default true).
func (s SpeechConfig) DiarizeEnabled() bool {
	return s.Diarize == nil || *s.Diarize
}

func (c *Config) Validate() error {
	if c.Speech.Host == "" {
		c.Speech.Host = "https://api.deepgram.com"
	}
	if c.Speech.Model == "" {
		c.Speech.Model = "nova-2"
	}
	if c.Speech.Language == "" {
		c.Speech.Language = "en"
	}
	if c.Speech.Timeout == 0 {
		c.Speech.Timeout = 10 * time.Minute
	}
	if c.Reasoning.Model == "" {
		c.Reasoning.Model = "gemini-2.5-flash"
	}
	if c.Reasoning.MaxOutputTokens == 0 {
		c.Reasoning.MaxOutputTokens = 4096
	}
	if c.Reasoning.Timeout == 0 {
		c.Reasoning.Timeout = 2 * time.Minute
	}
	if c.FFmpeg.BinaryPath == "" {
		c.FFmpeg.BinaryPath = "ffmpeg"
	}
	if c.FFmpeg.ProbePath == "" {
		c.FFmpeg.ProbePath = "ffprobe"
	}
	if c.FFmpeg.SampleRate == 0 {
		c.FFmpeg.SampleRate = 16000
	}
	if c.Paths.Output == "" {
		c.Paths.Output = "output"
	}
	if c.Retry.MaxAttempts == 0 {
		c.Retry = retry.DefaultPolicy()
	}
	if c.Retry.Multiplier == 0 {
		c.Retry.Multiplier = 2.0
	}
	if c.Alignment.CoveredThreshold == 0 {
		c.Alignment.CoveredThreshold = 0.7
	}
	if c.Alignment.PartialThreshold == 0 {
		c.Alignment.PartialThreshold = 0.3
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	if c.Watch.Input == "" {
		c.Watch.Input = "input"
	}
	if c.Watch.MaxConcurrent == 0 {
		c.Watch.MaxConcurrent = 1
	}

	if c.Retry.MaxAttempts < 0 {
		return fmt.Errorf("retry.max_attempts must not be negative")
	}
	if c.Alignment.PartialThreshold < 0 || c.Alignment.CoveredThreshold > 1 {
		return fmt.Errorf("alignment thresholds must lie within [0, 1]")
	}
	if c.Alignment.PartialThreshold > c.Alignment.CoveredThreshold {
		return fmt.Errorf("alignment.partial_threshold (%.2f) exceeds covered_threshold (%.2f)",
			c.Alignment.PartialThreshold, c.Alignment.CoveredThreshold)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}
	if c.Watch.MaxConcurrent < 0 {
		return fmt.Errorf("watch.max_concurrent must not be negative")
	}

	return nil
}
