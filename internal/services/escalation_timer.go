package services

import (
	"sync"
	"time"

	"touristsafety/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EscalationTimer owns one pending countdown per danger-zone case. A timer
// fires at most once; arming the same case again replaces the old countdown,
// and cancelling a case with no countdown is a no-op.
type EscalationTimer interface {
	Arm(caseID primitive.ObjectID, name string)
	Cancel(caseID primitive.ObjectID)
	Stop()
}

type escalationTimer struct {
	window   time.Duration
	onExpire func(caseID primitive.ObjectID, name string)
	log      *logger.Logger

	mu     sync.Mutex
	timers map[primitive.ObjectID]*time.Timer
}

func NewEscalationTimer(window time.Duration, onExpire func(caseID primitive.ObjectID, name string), log *logger.Logger) EscalationTimer {
	return &escalationTimer{
		window:   window,
		onExpire: onExpire,
		log:      log,
		timers:   make(map[primitive.ObjectID]*time.Timer),
	}
}

func (t *escalationTimer) Arm(caseID primitive.ObjectID, name string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if existing, ok := t.timers[caseID]; ok {
		existing.Stop()
		delete(t.timers, caseID)
	}

	var timer *time.Timer
	timer = time.AfterFunc(t.window, func() {
		// The entry check makes firing and cancellation mutually exclusive: a
		// countdown that lost the race to Cancel (or to a re-arm) finds a
		// missing or replaced entry and gives up.
		t.mu.Lock()
		current, ok := t.timers[caseID]
		if !ok || current != timer {
			t.mu.Unlock()
			return
		}
		delete(t.timers, caseID)
		t.mu.Unlock()

		t.onExpire(caseID, name)
	})
	t.timers[caseID] = timer

	t.log.WithCaseID(caseID).WithField("window", t.window.String()).Debug("Escalation timer armed")
}

func (t *escalationTimer) Cancel(caseID primitive.ObjectID) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if timer, ok := t.timers[caseID]; ok {
		timer.Stop()
		delete(t.timers, caseID)
		t.log.WithCaseID(caseID).Debug("Escalation timer cancelled")
	}
}

// Stop cancels every pending countdown. Used on shutdown.
func (t *escalationTimer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	for caseID, timer := range t.timers {
		timer.Stop()
		delete(t.timers, caseID)
	}
}
