package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"stonefire/internal/db"
	"stonefire/internal/model"
	"stonefire/internal/schema"
)

// SchemaStore is the persistence surface the schema service needs
type SchemaStore interface {
	GetFormSchema(ctx context.Context, form string) (db.FormSchemaRow, error)
	PutFormSchema(ctx context.Context, form string, fields []model.FieldDefinition) error
}

// SchemaService loads and administers the per-form field definitions.
// Concurrent saves from two admin sessions are last-write-wins; the store
// offers no conflict detection and this is a documented limitation of the
// admin tool, not something the service papers over.
type SchemaService struct {
	store   SchemaStore
	checker *schema.Checker
}

func NewSchemaService(store SchemaStore, checker *schema.Checker) *SchemaService {
	return &SchemaService{store: store, checker: checker}
}

// Load returns the stored field sequence for a form, falling back to the
// built-in defaults when nothing has been saved yet.
func (s *SchemaService) Load(ctx context.Context, form model.FormName) (*model.FormSchema, error) {
	row, err := s.store.GetFormSchema(ctx, string(form))
	if err == pgx.ErrNoRows {
		fields := schema.DefaultFields(form)
		if fields == nil {
			return nil, fmt.Errorf("unknown form %q", form)
		}
		return &model.FormSchema{Form: form, Fields: fields}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load schema: %w", err)
	}

	return &model.FormSchema{
		Form:      form,
		Fields:    row.Fields,
		UpdatedAt: row.UpdatedAt.Format(time.RFC3339),
	}, nil
}

// Save replaces a form's schema wholesale. The raw document is shape-checked
// first, then the integrity rules run; any rejection leaves the stored
// schema untouched.
func (s *SchemaService) Save(ctx context.Context, form model.FormName, raw []byte) error {
	if schema.DefaultFields(form) == nil {
		return fmt.Errorf("unknown form %q", form)
	}

	if err := s.checker.Check(form, raw); err != nil {
		return &schema.IntegrityError{Reason: err.Error()}
	}

	var fields []model.FieldDefinition
	if err := json.Unmarshal(raw, &fields); err != nil {
		return &schema.IntegrityError{Reason: err.Error()}
	}

	if err := schema.ValidateIntegrity(form, fields); err != nil {
		return err
	}

	if err := s.store.PutFormSchema(ctx, string(form), fields); err != nil {
		return fmt.Errorf("failed to save schema: %w", err)
	}
	return nil
}

// Reset overwrites the stored schema with the built-in default sequence.
// Calling it twice yields the identical field list both times.
func (s *SchemaService) Reset(ctx context.Context, form model.FormName) error {
	fields := schema.DefaultFields(form)
	if fields == nil {
		return fmt.Errorf("unknown form %q", form)
	}
	if err := s.store.PutFormSchema(ctx, string(form), fields); err != nil {
		return fmt.Errorf("failed to reset schema: %w", err)
	}
	return nil
}
