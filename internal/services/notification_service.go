package services

import (
	"context"
	"fmt"
	"time"

	"touristsafety/internal/models"
	"touristsafety/pkg/logger"
	"touristsafety/pkg/sms"
)

// Event types delivered over the websocket feeds.
const (
	EventAlert           = "alert"
	EventUpdateResponder = "updateResponder"
	EventCaseResolved    = "caseResolved"
)

// Broadcaster is the live-feed side of the fanout, implemented by the
// websocket handler.
type Broadcaster interface {
	BroadcastToTourists(eventType string, data interface{})
	BroadcastToResponders(eventType string, data interface{})
}

// NotificationService fans one case event out to its independent channels:
// tourist feed, responder feed, the law-enforcement dispatch channel, and the
// emergency-contact SMS gateway. No channel blocks or fails another.
type NotificationService interface {
	AlertTourist(name, message string, zone models.ZoneLevel)
	UpdateResponders(c *models.Case)
	CaseResolved(c *models.Case)
	NotifyLawEnforcement(ctx context.Context, name string, lat, lon float64, zone models.ZoneLevel, caseCode string) error
	SendSMS(ctx context.Context, mobile, name string, lat, lon float64, zone models.ZoneLevel) error
}

type notificationService struct {
	broadcaster Broadcaster
	smsProvider sms.SMSProvider
	log         *logger.Logger
}

func NewNotificationService(broadcaster Broadcaster, smsProvider sms.SMSProvider, log *logger.Logger) NotificationService {
	return &notificationService{
		broadcaster: broadcaster,
		smsProvider: smsProvider,
		log:         log,
	}
}

func (s *notificationService) AlertTourist(name, message string, zone models.ZoneLevel) {
	s.broadcaster.BroadcastToTourists(EventAlert, map[string]interface{}{
		"name":    name,
		"message": message,
		"zone":    zone,
	})

	s.log.LogNotificationEvent("tourist", EventAlert, map[string]interface{}{
		"name": name,
		"zone": zone,
	})
}

func (s *notificationService) UpdateResponders(c *models.Case) {
	s.broadcaster.BroadcastToResponders(EventUpdateResponder, c)

	s.log.LogNotificationEvent("responder", EventUpdateResponder, map[string]interface{}{
		"case_code": c.CaseCode,
		"status":    c.Status,
	})
}

func (s *notificationService) CaseResolved(c *models.Case) {
	s.broadcaster.BroadcastToResponders(EventCaseResolved, c)

	s.log.LogNotificationEvent("responder", EventCaseResolved, map[string]interface{}{
		"case_code":   c.CaseCode,
		"resolved_by": c.ResolvedBy,
	})
}

// NotifyLawEnforcement dispatches the high-priority alert to the police
// channel. The integration is simulated: the dispatch payload is written to
// the service log where a real deployment would hand it to the dispatch
// system.
func (s *notificationService) NotifyLawEnforcement(ctx context.Context, name string, lat, lon float64, zone models.ZoneLevel, caseCode string) error {
	message := fmt.Sprintf(
		"EMERGENCY DISPATCH ALERT | CASE ID: %s | TOURIST: %s | LOCATION: %v, %v | ZONE: %s | TIME: %s | IMMEDIATE RESPONSE REQUIRED",
		caseCode, name, lat, lon, zone, time.Now().Format(time.RFC1123),
	)

	s.log.WithCaseCode(caseCode).WithFields(map[string]interface{}{
		"channel":  "law_enforcement",
		"dispatch": message,
	}).Info("Law enforcement notified")

	return nil
}

// SendSMS delivers the emergency-contact message through the configured
// gateway. A gateway failure degrades to logging the message locally; the
// error is returned for the caller to record, never to abort on.
func (s *notificationService) SendSMS(ctx context.Context, mobile, name string, lat, lon float64, zone models.ZoneLevel) error {
	message := fmt.Sprintf(
		"EMERGENCY ALERT: %s is in a %s zone and needs immediate attention! Location: %v, %v. Time: %s. "+
			"Please contact emergency services or check on %s immediately. - Tourist Safety Monitoring System",
		name, zone, lat, lon, time.Now().Format(time.RFC1123), name,
	)

	resp, err := s.smsProvider.SendSMS(ctx, &sms.SMSRequest{
		To:      mobile,
		Message: message,
	})
	if err != nil {
		s.log.WithError(err).WithFields(map[string]interface{}{
			"to":   mobile,
			"body": message,
		}).Warn("SMS gateway failed, message logged locally")
		return fmt.Errorf("sms delivery failed: %w", err)
	}

	s.log.LogNotificationEvent("sms", "sent", map[string]interface{}{
		"to":         mobile,
		"message_id": resp.MessageID,
		"status":     resp.Status,
	})

	return nil
}
