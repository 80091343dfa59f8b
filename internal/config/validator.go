package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidateConfig performs validation on the GlobalConfig structure.
func ValidateConfig(cfg *GlobalConfig) error {
	if cfg == nil {
		return errors.New("configuration is nil")
	}

	validate := validator.New()

	_ = validate.RegisterValidation("loglevel", func(fl validator.FieldLevel) bool {
		level := strings.ToLower(fl.Field().String())
		switch level {
		case "", "trace", "debug", "info", "warn", "error", "fatal", "panic":
			return true
		default:
			return false
		}
	})

	_ = validate.RegisterValidation("logformat", func(fl validator.FieldLevel) bool {
		format := strings.ToLower(fl.Field().String())
		switch format {
		case "", "console", "text", "json":
			return true
		default:
			return false
		}
	})

	err := validate.Struct(cfg)
	if err == nil {
		if len(cfg.TargetConfig.NormalizedKeywords()) == 0 {
			return fmt.Errorf("configuration validation failed:\n  Validation failed for 'TargetConfig.Keywords': all keywords are blank")
		}
		return nil
	}

	var errs validator.ValidationErrors
	if errors.As(err, &errs) {
		var validationErrorMessages []string
		for _, e := range errs {
			fieldName := strings.TrimPrefix(e.StructNamespace(), "GlobalConfig.")
			msg := fmt.Sprintf("Validation failed for '%s': rule '%s'", fieldName, e.Tag())
			if e.Param() != "" {
				msg += fmt.Sprintf(" (expected: %s)", e.Param())
			}
			if e.Value() != nil && e.Value() != "" && !strings.Contains(strings.ToLower(e.Field()), "password") {
				msg += fmt.Sprintf(", actual: '%v'", e.Value())
			}
			validationErrorMessages = append(validationErrorMessages, msg)
		}
		return fmt.Errorf("configuration validation failed:\n  %s", strings.Join(validationErrorMessages, "\n  "))
	}
	return fmt.Errorf("configuration validation error: %w", err)
}
