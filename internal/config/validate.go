package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
)

var ErrInvalid = errors.New("config: invalid")

//nolint:gochecknoglobals // Shared validator singleton.
var (
	validatorOnce sync.Once
	validatorInst *validator.Validate
)

func get() *validator.Validate {
	validatorOnce.Do(func() {
		validatorInst = validator.New(validator.WithRequiredStructEnabled())
	})
	return validatorInst
}

// Validate 检查配置，错误包装为 ErrInvalid
func Validate(cfg *Config) error {
	if err := get().Struct(cfg); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if cfg.App.StartMinutes < cfg.Timer.MinMinutes || cfg.App.StartMinutes > cfg.Timer.MaxMinutes {
		return fmt.Errorf("%w: app.start_minutes %d outside [%d, %d]",
			ErrInvalid, cfg.App.StartMinutes, cfg.Timer.MinMinutes, cfg.Timer.MaxMinutes)
	}
	return nil
}
