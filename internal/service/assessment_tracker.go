package service

import (
	"fmt"
	"sync"
	"time"

	"github.com/arturoeanton/go-repo-onboarding/internal/domain"
	"github.com/arturoeanton/go-repo-onboarding/internal/port"
)

type trackedAssessment struct {
	assessment domain.Assessment
	createdAt  time.Time
}

// AssessmentTracker keeps generated assessments in memory so an evaluation
// can be tied back to the task it answers. Entries expire after the
// retention period.
type AssessmentTracker struct {
	mu        sync.RWMutex
	items     map[string]*trackedAssessment
	retention time.Duration
	now       func() time.Time
}

// NewAssessmentTracker creates a tracker. A zero retention keeps entries for a day.
func NewAssessmentTracker(retention time.Duration) *AssessmentTracker {
	if retention <= 0 {
		retention = 24 * time.Hour
	}
	return &AssessmentTracker{
		items:     make(map[string]*trackedAssessment),
		retention: retention,
		now:       time.Now,
	}
}

// Add records a generated assessment.
func (t *AssessmentTracker) Add(a domain.Assessment) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pruneLocked()
	t.items[a.ID] = &trackedAssessment{assessment: a, createdAt: t.now()}
}

// Get returns a copy of the assessment.
func (t *AssessmentTracker) Get(id string) (*domain.Assessment, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	item, ok := t.items[id]
	if !ok || t.expired(item) {
		return nil, false
	}
	snapshot := item.assessment
	return &snapshot, true
}

// CheckEvaluable fails when id is unknown or already evaluated.
func (t *AssessmentTracker) CheckEvaluable(id string) error {
	a, ok := t.Get(id)
	if !ok {
		return fmt.Errorf("%w: assessment %s", port.ErrAssessmentNotFound, id)
	}
	if a.State() == domain.AssessmentEvaluated {
		return domain.NewInvalidInput("assessment %s was already evaluated", id)
	}
	return nil
}

// Complete moves the assessment to the evaluated state. Evaluated is
// terminal, so a second call fails.
func (t *AssessmentTracker) Complete(id string, ev domain.Evaluation) (*domain.Assessment, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	item, ok := t.items[id]
	if !ok || t.expired(item) {
		return nil, fmt.Errorf("%w: assessment %s", port.ErrAssessmentNotFound, id)
	}
	if item.assessment.State() == domain.AssessmentEvaluated {
		return nil, domain.NewInvalidInput("assessment %s was already evaluated", id)
	}
	item.assessment.ApplyEvaluation(ev)
	snapshot := item.assessment
	return &snapshot, nil
}

func (t *AssessmentTracker) expired(item *trackedAssessment) bool {
	return t.now().Sub(item.createdAt) > t.retention
}

func (t *AssessmentTracker) pruneLocked() {
	for id, item := range t.items {
		if t.expired(item) {
			delete(t.items, id)
		}
	}
}
