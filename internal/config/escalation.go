package config

import (
	"time"
)

type EscalationConfig struct {
	Window time.Duration `yaml:"window"`
}

func loadEscalationConfig() *EscalationConfig {
	return &EscalationConfig{
		Window: getEnvAsDuration("ESCALATION_WINDOW", 20*time.Second),
	}
}
