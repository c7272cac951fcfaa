package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type ExtractionMode string

const (
	ModeInteractive ExtractionMode = "interactive"
	ModeGenerative  ExtractionMode = "generative"
)

type GenerativeProvider string

const (
	ProviderAnthropic GenerativeProvider = "anthropic"
	ProviderGemini    GenerativeProvider = "gemini"
)

type WorkerConfig struct {
	AnthropicKey           string             `mapstructure:"anthropic_key"`
	AnthropicModel         string             `mapstructure:"anthropic_model"`
	GeminiKey              string             `mapstructure:"gemini_key"`
	ExtractionMode         ExtractionMode     `mapstructure:"extraction_mode"`
	GenerativeProvider     GenerativeProvider `mapstructure:"generative_provider"`
	AiMaxRequestsPerMinute float32            `mapstructure:"ai_max_requests_per_minute"`
	PollPendingSessions    bool               `mapstructure:"poll_pending_sessions"`
}

func (config WorkerConfig) validate() error {

	switch config.ExtractionMode {
	case ModeInteractive, ModeGenerative:
	default:
		return fmt.Errorf("extraction_mode must be %q or %q", ModeInteractive, ModeGenerative)
	}

	if config.ExtractionMode == ModeGenerative {
		switch config.GenerativeProvider {
		case ProviderAnthropic, ProviderGemini:
		default:
			return fmt.Errorf("generative_provider must be %q or %q", ProviderAnthropic, ProviderGemini)
		}
	}

	// The model keys themselves are checked per session: a missing key fails
	// the session record, not the process.
	return nil
}

func (config WorkerConfig) bindEnvironmentVariables() error {
	var errs []error

	if err := viper.BindEnv("worker.anthropic_key", "ANTHROPIC_API_KEY"); err != nil {
		errs = append(errs, err)
	}

	if err := viper.BindEnv("worker.anthropic_model", "ANTHROPIC_MODEL"); err != nil {
		errs = append(errs, err)
	}

	if err := viper.BindEnv("worker.gemini_key", "GEMINI_API_KEY"); err != nil {
		errs = append(errs, err)
	}

	if err := viper.BindEnv("worker.extraction_mode", "EXTRACTION_MODE"); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return createMultiError(errs)
	}

	return nil
}
