package service

import (
	"context"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"stonefire/internal/db"
	"stonefire/internal/forms"
	"stonefire/internal/model"
)

// ReferentialError rejects a submission whose selected location no longer
// exists or is no longer accepting this kind of submission. It is surfaced
// to the user as a generic retry message, never as a per-field error.
type ReferentialError struct {
	LocationID string
}

func (e *ReferentialError) Error() string {
	return fmt.Sprintf("location %q is not available", e.LocationID)
}

// SubmissionStore is the persistence surface for submissions
type SubmissionStore interface {
	CreateSubmission(ctx context.Context, params db.CreateSubmissionParams) (db.Submission, error)
	GetSubmissionByID(ctx context.Context, id string) (db.Submission, error)
	ListSubmissions(ctx context.Context, form string, status *string, limit, offset int) ([]db.Submission, error)
	UpdateSubmissionStatus(ctx context.Context, id, status string) error
	SoftDeleteSubmission(ctx context.Context, id string) error
}

// ScopeLookup resolves location selections at submit time
type ScopeLookup interface {
	GetLocationByID(ctx context.Context, id string) (db.Location, error)
}

// SchemaLoader provides the authoritative schema snapshot for validation
type SchemaLoader interface {
	Load(ctx context.Context, form model.FormName) (*model.FormSchema, error)
}

// EventBus publishes submission lifecycle events
type EventBus interface {
	PublishSubmission(ctx context.Context, form string, event map[string]interface{}) error
}

// JobClient schedules background work after a successful submission
type JobClient interface {
	EnqueueSubmissionNotify(submissionID string) error
}

type SubmissionService struct {
	store     SubmissionStore
	scopes    ScopeLookup
	schemas   SchemaLoader
	bus       EventBus
	jobClient JobClient
}

func NewSubmissionService(store SubmissionStore, scopes ScopeLookup, schemas SchemaLoader, bus EventBus) *SubmissionService {
	return &SubmissionService{
		store:   store,
		scopes:  scopes,
		schemas: schemas,
		bus:     bus,
	}
}

// SetJobClient sets the client used to enqueue notification jobs
func (s *SubmissionService) SetJobClient(client JobClient) {
	s.jobClient = client
}

// workflow state machines per form; first state is NEW, absent entries are
// terminal
var jobTransitions = map[model.SubmissionStatus][]model.SubmissionStatus{
	model.StatusNew:      {model.StatusReviewed, model.StatusDenied},
	model.StatusReviewed: {model.StatusHired, model.StatusDenied},
}

var cateringTransitions = map[model.SubmissionStatus][]model.SubmissionStatus{
	model.StatusNew:       {model.StatusContacted, model.StatusDeclined},
	model.StatusContacted: {model.StatusCompleted, model.StatusDeclined},
}

func transitionsFor(form model.FormName) map[model.SubmissionStatus][]model.SubmissionStatus {
	if form == model.FormJobApplication {
		return jobTransitions
	}
	return cateringTransitions
}

// Submit validates the form state against a freshly loaded schema and, when
// clean, persists exactly one document built from the currently visible
// fields. Validation failures come back as the errors map with a nil
// submission and nil error; nothing is written in that case.
func (s *SubmissionService) Submit(ctx context.Context, form model.FormName, state forms.State, scopeID string) (*model.Submission, forms.Errors, error) {
	// Schema is read server-side, never trusted from the client
	sch, err := s.schemas.Load(ctx, form)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load schema: %w", err)
	}

	if verrs := forms.Validate(sch.Fields, state, scopeID); len(verrs) > 0 {
		return nil, verrs, nil
	}

	var locationID *string
	if scopeID != "" {
		loc, err := s.scopes.GetLocationByID(ctx, scopeID)
		if err != nil {
			return nil, nil, &ReferentialError{LocationID: scopeID}
		}
		if !loc.IsActive || (form == model.FormJobApplication && !loc.IsHiring) {
			return nil, nil, &ReferentialError{LocationID: scopeID}
		}
		locationID = &loc.ID
	}

	// Hidden fields are dropped even if they hold stale values from before
	// the submitter changed scope or condition
	record := forms.AssembleRecord(sch.Fields, state, scopeID)

	submissionID := ulid.Make().String()
	row, err := s.store.CreateSubmission(ctx, db.CreateSubmissionParams{
		ID:         submissionID,
		Form:       string(form),
		LocationID: locationID,
		Values:     record,
		Status:     string(model.StatusNew),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create submission: %w", err)
	}

	_ = s.bus.PublishSubmission(ctx, string(form), map[string]interface{}{
		"type":         "submission.created",
		"submissionId": submissionID,
		"form":         string(form),
	})

	if s.jobClient != nil {
		_ = s.jobClient.EnqueueSubmissionNotify(submissionID)
	}

	return dbSubmissionToModel(row), nil, nil
}

func (s *SubmissionService) GetSubmission(ctx context.Context, id string) (*model.Submission, error) {
	row, err := s.store.GetSubmissionByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("submission not found: %w", err)
	}
	return dbSubmissionToModel(row), nil
}

func (s *SubmissionService) ListSubmissions(ctx context.Context, form model.FormName, status *string, limit, offset int) ([]*model.Submission, error) {
	rows, err := s.store.ListSubmissions(ctx, string(form), status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	out := make([]*model.Submission, 0, len(rows))
	for _, r := range rows {
		out = append(out, dbSubmissionToModel(r))
	}
	return out, nil
}

// TransitionStatus moves a submission through its form's workflow graph
func (s *SubmissionService) TransitionStatus(ctx context.Context, id string, next model.SubmissionStatus) error {
	row, err := s.store.GetSubmissionByID(ctx, id)
	if err != nil {
		return fmt.Errorf("submission not found: %w", err)
	}

	if !transitionAllowed(transitionsFor(model.FormName(row.Form)), model.SubmissionStatus(row.Status), next) {
		return fmt.Errorf("cannot transition submission from %s to %s", row.Status, next)
	}

	if err := s.store.UpdateSubmissionStatus(ctx, id, string(next)); err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}

	_ = s.bus.PublishSubmission(ctx, row.Form, map[string]interface{}{
		"type":         "submission.status_changed",
		"submissionId": id,
		"status":       string(next),
	})
	return nil
}

func (s *SubmissionService) DeleteSubmission(ctx context.Context, id string) error {
	if err := s.store.SoftDeleteSubmission(ctx, id); err != nil {
		return fmt.Errorf("failed to delete submission: %w", err)
	}
	return nil
}

func transitionAllowed(graph map[model.SubmissionStatus][]model.SubmissionStatus, from, to model.SubmissionStatus) bool {
	for _, next := range graph[from] {
		if next == to {
			return true
		}
	}
	return false
}

func dbSubmissionToModel(r db.Submission) *model.Submission {
	sub := &model.Submission{
		ID:        r.ID,
		Form:      model.FormName(r.Form),
		Values:    r.Values,
		Status:    model.SubmissionStatus(r.Status),
		CreatedAt: r.CreatedAt.Format(time.RFC3339),
		UpdatedAt: r.UpdatedAt.Format(time.RFC3339),
	}
	if r.LocationID != nil {
		sub.LocationID = *r.LocationID
	}
	return sub
}
