package srs

import (
	"fmt"

	"wordcore/internal/config"
	"wordcore/internal/services"
)

// Params holds the tunable constants of the engine.
type Params struct {
	DefaultEase         float64
	DefaultIntervalDays int
	PassEaseBonus       float64
	FailEasePenalty     float64
	MinEase             float64
	MaxEase             float64
	MaxIntervalDays     int
	MasteryStreak       int
	MasteryEase         float64
}

// DefaultParams returns the baseline constants.
func DefaultParams() Params {
	return Params{
		DefaultEase:         2.5,
		DefaultIntervalDays: 1,
		PassEaseBonus:       0.1,
		FailEasePenalty:     0.2,
		MinEase:             1.3,
		MaxEase:             3.0,
		MaxIntervalDays:     180,
		MasteryStreak:       5,
		MasteryEase:         2.3,
	}
}

// ParamsFromConfig copies the [srs] section into Params.
func ParamsFromConfig(cfg config.SRS) Params {
	return Params{
		DefaultEase:         cfg.DefaultEase,
		DefaultIntervalDays: cfg.DefaultIntervalDays,
		PassEaseBonus:       cfg.PassEaseBonus,
		FailEasePenalty:     cfg.FailEasePenalty,
		MinEase:             cfg.MinEase,
		MaxEase:             cfg.MaxEase,
		MaxIntervalDays:     cfg.MaxIntervalDays,
		MasteryStreak:       cfg.MasteryStreak,
		MasteryEase:         cfg.MasteryEase,
	}
}

// Validate reports inconsistent constants.
func (p Params) Validate() error {
	switch {
	case p.MinEase <= 0 || p.MaxEase < p.MinEase:
		return invalidParams(fmt.Sprintf("ease bounds [%v, %v] are inconsistent", p.MinEase, p.MaxEase))
	case p.DefaultEase < p.MinEase || p.DefaultEase > p.MaxEase:
		return invalidParams(fmt.Sprintf("default ease %v outside [%v, %v]", p.DefaultEase, p.MinEase, p.MaxEase))
	case p.DefaultIntervalDays < 1:
		return invalidParams("default interval must be at least 1 day")
	case p.MaxIntervalDays < p.DefaultIntervalDays:
		return invalidParams("max interval must not be below the default interval")
	case p.PassEaseBonus < 0 || p.FailEasePenalty < 0:
		return invalidParams("ease bonus and penalty must be non-negative")
	case p.MasteryStreak < 1:
		return invalidParams("mastery streak must be at least 1")
	}
	return nil
}

func invalidParams(message string) error {
	return services.Wrap(services.ErrConfiguration, "srs", "validate params", message, nil)
}
