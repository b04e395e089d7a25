package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"touristsafety/internal/models"
	"touristsafety/internal/repositories/interfaces"
	"touristsafety/internal/zones"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeCaseRepo is an in-memory CaseRepository. Cases are kept in insertion
// order; GetLatestByName walks backwards, matching the newest-first semantics
// of the mongo implementation.
type fakeCaseRepo struct {
	mu        sync.Mutex
	cases     []*models.Case
	failNext  error
	updateLog []map[string]interface{}
}

func (r *fakeCaseRepo) Create(ctx context.Context, c *models.Case) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failNext != nil {
		err := r.failNext
		r.failNext = nil
		return err
	}
	c.ID = primitive.NewObjectID()
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	r.cases = append(r.cases, c)
	return nil
}

func (r *fakeCaseRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Case, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.cases {
		if c.ID == id {
			copied := *c
			return &copied, nil
		}
	}
	return nil, interfaces.ErrCaseNotFound
}

func (r *fakeCaseRepo) GetLatestByName(ctx context.Context, name string) (*models.Case, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.cases) - 1; i >= 0; i-- {
		if r.cases[i].Name == name {
			copied := *r.cases[i]
			return &copied, nil
		}
	}
	return nil, interfaces.ErrCaseNotFound
}

func (r *fakeCaseRepo) GetAll(ctx context.Context) ([]*models.Case, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Case, 0, len(r.cases))
	for i := len(r.cases) - 1; i >= 0; i-- {
		copied := *r.cases[i]
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeCaseRepo) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failNext != nil {
		err := r.failNext
		r.failNext = nil
		return err
	}
	for _, c := range r.cases {
		if c.ID != id {
			continue
		}
		if status, ok := updates["status"].(models.CaseStatus); ok {
			c.Status = status
		}
		if notified, ok := updates["law_enforcement_notified"].(bool); ok {
			c.LawEnforcementNotified = notified
		}
		if resolved, ok := updates["resolved"].(bool); ok {
			c.Resolved = resolved
		}
		if at, ok := updates["resolved_at"].(time.Time); ok {
			c.ResolvedAt = &at
		}
		if by, ok := updates["resolved_by"].(string); ok {
			c.ResolvedBy = by
		}
		c.UpdatedAt = time.Now()
		r.updateLog = append(r.updateLog, updates)
		return nil
	}
	return interfaces.ErrCaseNotFound
}

func (r *fakeCaseRepo) EnsureIndexes(ctx context.Context) error { return nil }

func (r *fakeCaseRepo) get(id primitive.ObjectID) *models.Case {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.cases {
		if c.ID == id {
			copied := *c
			return &copied
		}
	}
	return nil
}

// fakeNotifier records fanout calls.
type fakeNotifier struct {
	mu                sync.Mutex
	alerts            []string
	responderUpdates  []*models.Case
	resolvedEvents    []*models.Case
	lawEnforcement    int
	lawEnforcementErr error
	smsCalls          []string
}

func (n *fakeNotifier) AlertTourist(name, message string, zone models.ZoneLevel) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.alerts = append(n.alerts, message)
}

func (n *fakeNotifier) UpdateResponders(c *models.Case) {
	n.mu.Lock()
	defer n.mu.Unlock()
	copied := *c
	n.responderUpdates = append(n.responderUpdates, &copied)
}

func (n *fakeNotifier) CaseResolved(c *models.Case) {
	n.mu.Lock()
	defer n.mu.Unlock()
	copied := *c
	n.resolvedEvents = append(n.resolvedEvents, &copied)
}

func (n *fakeNotifier) NotifyLawEnforcement(ctx context.Context, name string, lat, lon float64, zone models.ZoneLevel, caseCode string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.lawEnforcement++
	return n.lawEnforcementErr
}

func (n *fakeNotifier) SendSMS(ctx context.Context, mobile, name string, lat, lon float64, zone models.ZoneLevel) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.smsCalls = append(n.smsCalls, mobile)
	return nil
}

func (n *fakeNotifier) responderUpdateCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.responderUpdates)
}

func (n *fakeNotifier) lawEnforcementCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.lawEnforcement
}

func testClassifier() *zones.Classifier {
	return zones.NewClassifier([]models.Geofence{
		{Name: "danger-1", Lat: 12.900, Lon: 80.100, Radius: 0.010, Level: models.ZoneLevelDanger},
		{Name: "near-1", Lat: 12.920, Lon: 80.080, Radius: 0.030, Level: models.ZoneLevelNear},
	})
}

func newTestService(t *testing.T, window time.Duration) (CaseService, *fakeCaseRepo, *fakeNotifier) {
	t.Helper()
	repo := &fakeCaseRepo{}
	notifier := &fakeNotifier{}
	svc := NewCaseService(repo, notifier, testClassifier(), window, testLogger(t))
	t.Cleanup(svc.Shutdown)
	return svc, repo, notifier
}

func dangerReport(name string) *models.SubmitReportRequest {
	return &models.SubmitReportRequest{Name: name, Lat: 12.900, Lon: 80.100}
}

func TestSubmitReportSafeZone(t *testing.T) {
	svc, repo, notifier := newTestService(t, time.Hour)

	resp, err := svc.SubmitReport(context.Background(), &models.SubmitReportRequest{Name: "Bob", Lat: 0, Lon: 0})
	require.NoError(t, err)

	assert.Equal(t, models.ZoneLevelSafe, resp.Zone)
	assert.Equal(t, "Tourist data received", resp.Message)
	assert.Contains(t, resp.CaseCode, "CASE-")

	// No notifications for a safe-zone report, but the case still opens
	// pending.
	assert.Empty(t, notifier.alerts)
	assert.Zero(t, notifier.lawEnforcementCount())
	assert.Equal(t, models.CaseStatusPending, repo.cases[0].Status)
}

func TestSubmitReportNearZone(t *testing.T) {
	svc, _, notifier := newTestService(t, time.Hour)

	resp, err := svc.SubmitReport(context.Background(), &models.SubmitReportRequest{Name: "Bob", Lat: 12.930, Lon: 80.070})
	require.NoError(t, err)

	assert.Equal(t, models.ZoneLevelNear, resp.Zone)
	require.Len(t, notifier.alerts, 1)
	assert.Contains(t, notifier.alerts[0], "near a danger zone")
	assert.Zero(t, notifier.lawEnforcementCount())
	assert.Zero(t, notifier.responderUpdateCount())
}

func TestSubmitReportDangerZone(t *testing.T) {
	svc, repo, notifier := newTestService(t, time.Hour)

	resp, err := svc.SubmitReport(context.Background(), dangerReport("Alice"))
	require.NoError(t, err)

	assert.Equal(t, models.ZoneLevelDanger, resp.Zone)
	require.Len(t, notifier.alerts, 1)
	assert.Contains(t, notifier.alerts[0], "Are you okay")
	assert.Equal(t, 1, notifier.lawEnforcementCount())

	c := repo.cases[0]
	assert.Equal(t, models.CaseStatusPending, c.Status)
	assert.True(t, c.LawEnforcementNotified)

	// Submission alone never alerts responders.
	assert.Zero(t, notifier.responderUpdateCount())
}

func TestSubmitReportLawEnforcementFailureDoesNotBlock(t *testing.T) {
	svc, repo, notifier := newTestService(t, time.Hour)
	notifier.lawEnforcementErr = errors.New("dispatch offline")

	resp, err := svc.SubmitReport(context.Background(), dangerReport("Alice"))
	require.NoError(t, err)

	assert.Equal(t, models.ZoneLevelDanger, resp.Zone)
	assert.False(t, repo.cases[0].LawEnforcementNotified)
}

func TestSubmitReportSendsEmergencyContactSMS(t *testing.T) {
	svc, _, notifier := newTestService(t, time.Hour)

	req := dangerReport("Alice")
	req.Mobile = "+15551234567"
	_, err := svc.SubmitReport(context.Background(), req)
	require.NoError(t, err)

	// SMS goes out asynchronously.
	assert.Eventually(t, func() bool {
		notifier.mu.Lock()
		defer notifier.mu.Unlock()
		return len(notifier.smsCalls) == 1
	}, time.Second, 10*time.Millisecond)
}

func TestSubmitReplyAffirmative(t *testing.T) {
	svc, repo, notifier := newTestService(t, time.Hour)

	_, err := svc.SubmitReport(context.Background(), dangerReport("Alice"))
	require.NoError(t, err)

	c, err := svc.SubmitReply(context.Background(), "Alice", "yes")
	require.NoError(t, err)

	assert.Equal(t, models.CaseStatusSafe, c.Status)
	assert.Equal(t, models.CaseStatusSafe, repo.cases[0].Status)

	// Affirmative replies never reach responders.
	assert.Zero(t, notifier.responderUpdateCount())
}

func TestSubmitReplyNegative(t *testing.T) {
	svc, repo, notifier := newTestService(t, time.Hour)

	_, err := svc.SubmitReport(context.Background(), dangerReport("Alice"))
	require.NoError(t, err)

	c, err := svc.SubmitReply(context.Background(), "Alice", "no")
	require.NoError(t, err)

	assert.Equal(t, models.CaseStatusEmergency, c.Status)
	assert.Equal(t, models.CaseStatusEmergency, repo.cases[0].Status)

	require.Equal(t, 1, notifier.responderUpdateCount())
	assert.Equal(t, models.CaseStatusEmergency, notifier.responderUpdates[0].Status)
}

func TestSubmitReplyUnknownName(t *testing.T) {
	svc, _, _ := newTestService(t, time.Hour)

	_, err := svc.SubmitReply(context.Background(), "Nobody", "yes")
	assert.ErrorIs(t, err, interfaces.ErrCaseNotFound)
}

func TestSubmitReplyTargetsLatestCase(t *testing.T) {
	svc, repo, _ := newTestService(t, time.Hour)

	_, err := svc.SubmitReport(context.Background(), dangerReport("Alice"))
	require.NoError(t, err)
	_, err = svc.SubmitReport(context.Background(), dangerReport("Alice"))
	require.NoError(t, err)

	_, err = svc.SubmitReply(context.Background(), "Alice", "yes")
	require.NoError(t, err)

	// Only the newer case is answered; the older one stays pending.
	assert.Equal(t, models.CaseStatusPending, repo.cases[0].Status)
	assert.Equal(t, models.CaseStatusSafe, repo.cases[1].Status)
}

func TestEscalationMarksNoResponse(t *testing.T) {
	svc, repo, notifier := newTestService(t, 30*time.Millisecond)

	_, err := svc.SubmitReport(context.Background(), dangerReport("Carol"))
	require.NoError(t, err)
	caseID := repo.cases[0].ID

	assert.Eventually(t, func() bool {
		c := repo.get(caseID)
		return c != nil && c.Status == models.CaseStatusNoResponse
	}, time.Second, 10*time.Millisecond)

	// Exactly one responder notification for the timeout.
	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, 1, notifier.responderUpdateCount())
}

func TestReplyBeforeWindowCancelsEscalation(t *testing.T) {
	svc, repo, notifier := newTestService(t, 60*time.Millisecond)

	_, err := svc.SubmitReport(context.Background(), dangerReport("Alice"))
	require.NoError(t, err)

	_, err = svc.SubmitReply(context.Background(), "Alice", "yes")
	require.NoError(t, err)

	// Well past the window: the cancelled countdown must not flip the status.
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, models.CaseStatusSafe, repo.cases[0].Status)
	assert.Zero(t, notifier.responderUpdateCount())
}

func TestEscalationLeavesAnsweredCaseAlone(t *testing.T) {
	// Even if the countdown fires, a case no longer pending is not touched.
	// Simulated by answering through the repo directly, bypassing Cancel.
	svc, repo, notifier := newTestService(t, 30*time.Millisecond)

	_, err := svc.SubmitReport(context.Background(), dangerReport("Alice"))
	require.NoError(t, err)
	caseID := repo.cases[0].ID

	require.NoError(t, repo.Update(context.Background(), caseID, map[string]interface{}{
		"status": models.CaseStatusSafe,
	}))

	time.Sleep(120 * time.Millisecond)
	assert.Equal(t, models.CaseStatusSafe, repo.get(caseID).Status)
	assert.Zero(t, notifier.responderUpdateCount())
}

func TestTwoDangerCasesGetIndependentTimers(t *testing.T) {
	svc, repo, _ := newTestService(t, 40*time.Millisecond)

	_, err := svc.SubmitReport(context.Background(), dangerReport("Alice"))
	require.NoError(t, err)
	_, err = svc.SubmitReport(context.Background(), dangerReport("Alice"))
	require.NoError(t, err)

	// Answering the latest case cancels only its own countdown; the first
	// case still escalates.
	_, err = svc.SubmitReply(context.Background(), "Alice", "yes")
	require.NoError(t, err)

	firstID := repo.cases[0].ID
	assert.Eventually(t, func() bool {
		return repo.get(firstID).Status == models.CaseStatusNoResponse
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, models.CaseStatusSafe, repo.get(repo.cases[1].ID).Status)
}

func TestResolveCase(t *testing.T) {
	svc, repo, notifier := newTestService(t, time.Hour)

	_, err := svc.SubmitReport(context.Background(), dangerReport("Alice"))
	require.NoError(t, err)
	caseID := repo.cases[0].ID

	resolved, err := svc.ResolveCase(context.Background(), caseID, "Officer Lee")
	require.NoError(t, err)

	assert.True(t, resolved.Resolved)
	assert.Equal(t, "Officer Lee", resolved.ResolvedBy)
	require.NotNil(t, resolved.ResolvedAt)
	require.Len(t, notifier.resolvedEvents, 1)
	assert.Equal(t, "Officer Lee", notifier.resolvedEvents[0].ResolvedBy)
}

func TestResolveCaseDefaultResolver(t *testing.T) {
	svc, repo, _ := newTestService(t, time.Hour)

	_, err := svc.SubmitReport(context.Background(), dangerReport("Alice"))
	require.NoError(t, err)

	resolved, err := svc.ResolveCase(context.Background(), repo.cases[0].ID, "")
	require.NoError(t, err)
	assert.Equal(t, "Emergency Responder", resolved.ResolvedBy)
}

func TestResolveCaseNotFound(t *testing.T) {
	svc, _, _ := newTestService(t, time.Hour)

	_, err := svc.ResolveCase(context.Background(), primitive.NewObjectID(), "Officer Lee")
	assert.ErrorIs(t, err, interfaces.ErrCaseNotFound)
}

func TestResolveCaseIdempotentOnResolvedFlag(t *testing.T) {
	svc, repo, notifier := newTestService(t, time.Hour)

	_, err := svc.SubmitReport(context.Background(), dangerReport("Alice"))
	require.NoError(t, err)
	caseID := repo.cases[0].ID

	first, err := svc.ResolveCase(context.Background(), caseID, "Officer Lee")
	require.NoError(t, err)
	second, err := svc.ResolveCase(context.Background(), caseID, "Officer Kim")
	require.NoError(t, err)

	assert.True(t, first.Resolved)
	assert.True(t, second.Resolved)
	assert.Equal(t, "Officer Kim", second.ResolvedBy)

	// Every resolution emits its own event.
	assert.Len(t, notifier.resolvedEvents, 2)
}

func TestSubmitReportPersistenceFailure(t *testing.T) {
	svc, repo, notifier := newTestService(t, time.Hour)
	repo.failNext = errors.New("write concern error")

	_, err := svc.SubmitReport(context.Background(), dangerReport("Alice"))
	require.Error(t, err)

	// Nothing fans out when the case never persisted.
	assert.Empty(t, notifier.alerts)
	assert.Zero(t, notifier.lawEnforcementCount())
}

func TestListCasesNewestFirst(t *testing.T) {
	svc, _, _ := newTestService(t, time.Hour)

	_, err := svc.SubmitReport(context.Background(), &models.SubmitReportRequest{Name: "Alice", Lat: 0, Lon: 0})
	require.NoError(t, err)
	_, err = svc.SubmitReport(context.Background(), &models.SubmitReportRequest{Name: "Bob", Lat: 0, Lon: 0})
	require.NoError(t, err)

	cases, err := svc.ListCases(context.Background())
	require.NoError(t, err)
	require.Len(t, cases, 2)
	assert.Equal(t, "Bob", cases[0].Name)
	assert.Equal(t, "Alice", cases[1].Name)
}
