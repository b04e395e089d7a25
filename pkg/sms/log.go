package sms

import (
	"context"
	"fmt"
	"time"

	"touristsafety/pkg/logger"
)

// LogProvider records would-be messages in the service log instead of sending
// them. It stands in for the real gateway when Twilio credentials are absent,
// and always reports success so the calling workflow is identical in both
// modes.
type LogProvider struct {
	log *logger.Logger
}

func NewLogProvider(log *logger.Logger) *LogProvider {
	return &LogProvider{log: log}
}

func (p *LogProvider) SendSMS(ctx context.Context, request *SMSRequest) (*SMSResponse, error) {
	p.log.WithFields(map[string]interface{}{
		"to":   request.To,
		"from": request.From,
		"body": request.Message,
	}).Info("Mock SMS notification (Twilio not configured)")

	return &SMSResponse{
		MessageID: fmt.Sprintf("mock-sms-%d", time.Now().UnixMilli()),
		Status:    "logged",
	}, nil
}
