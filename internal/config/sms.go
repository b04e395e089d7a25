package config

import "strings"

type SMSConfig struct {
	Twilio *TwilioConfig `yaml:"twilio"`
}

type TwilioConfig struct {
	AccountSID string `yaml:"account_sid"`
	AuthToken  string `yaml:"auth_token"`
	FromNumber string `yaml:"from_number"`
}

func loadSMSConfig() *SMSConfig {
	return &SMSConfig{
		Twilio: &TwilioConfig{
			AccountSID: getEnv("TWILIO_ACCOUNT_SID", ""),
			AuthToken:  getEnv("TWILIO_AUTH_TOKEN", ""),
			FromNumber: getEnv("TWILIO_PHONE_NUMBER", "+1234567890"),
		},
	}
}

// IsConfigured reports whether real Twilio credentials are present. Placeholder
// or missing credentials select the logging provider at startup.
func (c *SMSConfig) IsConfigured() bool {
	if c == nil || c.Twilio == nil {
		return false
	}
	return strings.HasPrefix(c.Twilio.AccountSID, "AC") && len(c.Twilio.AuthToken) > 20
}
