package services

import (
	"context"
	"fmt"
	"time"

	"touristsafety/internal/models"
	"touristsafety/internal/repositories/interfaces"
	"touristsafety/internal/utils"
	"touristsafety/internal/zones"
	"touristsafety/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const escalationFetchTimeout = 10 * time.Second

// Tourist-facing alert texts.
const (
	nearZoneWarning = "⚠️ You are near a danger zone!"
	dangerPrompt    = "🚨 Are you okay?"
)

// CaseService drives the safety-check workflow: classify a position report,
// open a case, alert the right channels, and walk the case through exactly one
// status transition (reply or escalation) plus optional resolution.
type CaseService interface {
	SubmitReport(ctx context.Context, req *models.SubmitReportRequest) (*models.SubmitReportResponse, error)
	SubmitReply(ctx context.Context, name, reply string) (*models.Case, error)
	ResolveCase(ctx context.Context, id primitive.ObjectID, resolvedBy string) (*models.Case, error)
	ListCases(ctx context.Context) ([]*models.Case, error)

	// Shutdown cancels all pending escalation countdowns.
	Shutdown()
}

type caseService struct {
	caseRepo   interfaces.CaseRepository
	notifier   NotificationService
	classifier *zones.Classifier
	timer      EscalationTimer
	log        *logger.Logger
}

func NewCaseService(
	caseRepo interfaces.CaseRepository,
	notifier NotificationService,
	classifier *zones.Classifier,
	escalationWindow time.Duration,
	log *logger.Logger,
) CaseService {
	s := &caseService{
		caseRepo:   caseRepo,
		notifier:   notifier,
		classifier: classifier,
		log:        log,
	}
	s.timer = NewEscalationTimer(escalationWindow, s.handleEscalation, log)
	return s
}

func (s *caseService) SubmitReport(ctx context.Context, req *models.SubmitReportRequest) (*models.SubmitReportResponse, error) {
	lat := float64(req.Lat)
	lon := float64(req.Lon)
	zone := s.classifier.Classify(lat, lon)

	c := &models.Case{
		CaseCode: utils.GenerateCaseCode(),
		Name:     req.Name,
		Lat:      lat,
		Lon:      lon,
		Zone:     zone,
		Status:   models.CaseStatusPending,
		Mobile:   req.Mobile,
	}

	if err := s.caseRepo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to record tourist report: %w", err)
	}

	s.log.LogCaseEvent(c.ID, "submitted", map[string]interface{}{
		"case_code": c.CaseCode,
		"name":      c.Name,
		"zone":      zone,
	})

	switch zone {
	case models.ZoneLevelNear:
		s.notifier.AlertTourist(c.Name, nearZoneWarning, zone)

	case models.ZoneLevelDanger:
		s.notifier.AlertTourist(c.Name, dangerPrompt, zone)
		s.timer.Arm(c.ID, c.Name)

		// Dispatch to law enforcement before answering the submitter. A
		// dispatch failure is logged but never rolls back the case.
		if err := s.notifier.NotifyLawEnforcement(ctx, c.Name, lat, lon, zone, c.CaseCode); err != nil {
			s.log.WithError(err).WithCaseCode(c.CaseCode).Error("Law enforcement notification failed")
		} else if err := s.caseRepo.Update(ctx, c.ID, map[string]interface{}{
			"law_enforcement_notified": true,
		}); err != nil {
			s.log.WithError(err).WithCaseID(c.ID).Error("Failed to record law enforcement notification")
		} else {
			c.LawEnforcementNotified = true
		}

		// Emergency-contact SMS must not delay the submission response.
		if c.Mobile != "" {
			go s.sendEmergencyContactSMS(c)
		}
	}

	return &models.SubmitReportResponse{
		Message:  "Tourist data received",
		Zone:     zone,
		CaseCode: c.CaseCode,
	}, nil
}

func (s *caseService) sendEmergencyContactSMS(c *models.Case) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.notifier.SendSMS(ctx, c.Mobile, c.Name, c.Lat, c.Lon, c.Zone); err != nil {
		s.log.WithError(err).WithCaseCode(c.CaseCode).Warn("Emergency contact SMS failed")
	}
}

// SubmitReply handles the tourist's answer to the safety prompt. Replies
// correlate by submitter name: when several cases share the name, the most
// recently created one is the one answered.
func (s *caseService) SubmitReply(ctx context.Context, name, reply string) (*models.Case, error) {
	c, err := s.caseRepo.GetLatestByName(ctx, name)
	if err != nil {
		return nil, err
	}

	s.timer.Cancel(c.ID)

	status := models.CaseStatusEmergency
	if reply == "yes" {
		status = models.CaseStatusSafe
	}

	if err := s.caseRepo.Update(ctx, c.ID, map[string]interface{}{"status": status}); err != nil {
		return nil, fmt.Errorf("failed to record reply: %w", err)
	}
	c.Status = status

	s.log.LogCaseEvent(c.ID, "reply_received", map[string]interface{}{
		"case_code": c.CaseCode,
		"reply":     reply,
		"status":    status,
	})

	// Responders hear about negative replies only; an affirmative reply closes
	// the loop quietly.
	if status == models.CaseStatusEmergency {
		s.notifier.UpdateResponders(c)
	}

	return c, nil
}

// handleEscalation runs when a danger-zone countdown elapses. The status
// re-check keeps a concurrent reply from being overwritten: cancellation is
// not atomic with firing, so a fired countdown may find the case already
// answered and must leave it alone.
func (s *caseService) handleEscalation(caseID primitive.ObjectID, name string) {
	ctx, cancel := context.WithTimeout(context.Background(), escalationFetchTimeout)
	defer cancel()

	c, err := s.caseRepo.GetByID(ctx, caseID)
	if err != nil {
		s.log.WithError(err).WithCaseID(caseID).Error("Failed to load case for escalation")
		return
	}

	if c.Status != models.CaseStatusPending {
		return
	}

	if err := s.caseRepo.Update(ctx, caseID, map[string]interface{}{
		"status": models.CaseStatusNoResponse,
	}); err != nil {
		s.log.WithError(err).WithCaseID(caseID).Error("Failed to mark case unresponsive")
		return
	}
	c.Status = models.CaseStatusNoResponse

	s.notifier.UpdateResponders(c)

	s.log.LogCaseEvent(caseID, "no_response", map[string]interface{}{
		"case_code": c.CaseCode,
		"name":      name,
	})
}

// ResolveCase marks a case handled by a responder. Resolution is independent
// of status and does not touch escalation timers; re-resolving refreshes the
// resolution fields but never unsets the flag.
func (s *caseService) ResolveCase(ctx context.Context, id primitive.ObjectID, resolvedBy string) (*models.Case, error) {
	c, err := s.caseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if resolvedBy == "" {
		resolvedBy = utils.DefaultResolver
	}
	now := time.Now()

	if err := s.caseRepo.Update(ctx, id, map[string]interface{}{
		"resolved":    true,
		"resolved_at": now,
		"resolved_by": resolvedBy,
	}); err != nil {
		return nil, fmt.Errorf("failed to resolve case: %w", err)
	}

	c.Resolved = true
	c.ResolvedAt = &now
	c.ResolvedBy = resolvedBy

	s.notifier.CaseResolved(c)

	s.log.LogCaseEvent(id, "resolved", map[string]interface{}{
		"case_code":   c.CaseCode,
		"resolved_by": resolvedBy,
	})

	return c, nil
}

func (s *caseService) ListCases(ctx context.Context) ([]*models.Case, error) {
	return s.caseRepo.GetAll(ctx)
}

func (s *caseService) Shutdown() {
	s.timer.Stop()
}
