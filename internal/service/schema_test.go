package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"stonefire/internal/db"
	"stonefire/internal/model"
	"stonefire/internal/schema"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSchemaStore struct {
	rows map[string][]model.FieldDefinition
	puts int
}

func newFakeSchemaStore() *fakeSchemaStore {
	return &fakeSchemaStore{rows: make(map[string][]model.FieldDefinition)}
}

func (f *fakeSchemaStore) GetFormSchema(ctx context.Context, form string) (db.FormSchemaRow, error) {
	fields, ok := f.rows[form]
	if !ok {
		return db.FormSchemaRow{}, pgx.ErrNoRows
	}
	return db.FormSchemaRow{Form: form, Fields: fields, UpdatedAt: time.Now()}, nil
}

func (f *fakeSchemaStore) PutFormSchema(ctx context.Context, form string, fields []model.FieldDefinition) error {
	f.rows[form] = fields
	f.puts++
	return nil
}

func newTestSchemaService() (*SchemaService, *fakeSchemaStore) {
	store := newFakeSchemaStore()
	return NewSchemaService(store, schema.NewChecker(8)), store
}

func TestSchemaLoadFallsBackToDefaults(t *testing.T) {
	svc, _ := newTestSchemaService()

	sch, err := svc.Load(context.Background(), model.FormJobApplication)
	require.NoError(t, err)
	assert.Equal(t, schema.DefaultFields(model.FormJobApplication), sch.Fields)
}

func TestSchemaLoadUnknownForm(t *testing.T) {
	svc, _ := newTestSchemaService()

	_, err := svc.Load(context.Background(), "merchOrder")
	require.Error(t, err)
}

func TestSchemaSaveRoundTrip(t *testing.T) {
	svc, store := newTestSchemaService()

	fields := schema.DefaultFields(model.FormCateringRequest)
	fields[1].Label = "Your Name"
	raw, err := json.Marshal(fields)
	require.NoError(t, err)

	require.NoError(t, svc.Save(context.Background(), model.FormCateringRequest, raw))
	assert.Equal(t, 1, store.puts)

	sch, err := svc.Load(context.Background(), model.FormCateringRequest)
	require.NoError(t, err)
	assert.Equal(t, "Your Name", sch.Fields[1].Label)
}

func TestSchemaSaveRejectionLeavesStoreUntouched(t *testing.T) {
	svc, store := newTestSchemaService()

	// Seed a saved schema first
	good, err := json.Marshal(schema.DefaultFields(model.FormCateringRequest))
	require.NoError(t, err)
	require.NoError(t, svc.Save(context.Background(), model.FormCateringRequest, good))

	// Disabling the scope selector violates integrity
	bad := schema.DefaultFields(model.FormCateringRequest)
	bad[0].Enabled = false
	rawBad, err := json.Marshal(bad)
	require.NoError(t, err)

	err = svc.Save(context.Background(), model.FormCateringRequest, rawBad)
	require.Error(t, err)
	var integrityErr *schema.IntegrityError
	assert.ErrorAs(t, err, &integrityErr)

	// Only the first save reached the store
	assert.Equal(t, 1, store.puts)
	sch, err := svc.Load(context.Background(), model.FormCateringRequest)
	require.NoError(t, err)
	assert.True(t, sch.Fields[0].Enabled)
}

func TestSchemaSaveRejectsShapeViolations(t *testing.T) {
	svc, store := newTestSchemaService()

	raw := []byte(`[{"key":"name","label":"Name","type":"hologram",
		"enabled":true,"required":true,"order":0}]`)
	err := svc.Save(context.Background(), model.FormCateringRequest, raw)
	require.Error(t, err)

	var integrityErr *schema.IntegrityError
	assert.ErrorAs(t, err, &integrityErr)
	assert.Equal(t, 0, store.puts)
}

func TestSchemaResetIdempotent(t *testing.T) {
	svc, _ := newTestSchemaService()

	// Diverge from the defaults first
	fields := schema.DefaultFields(model.FormJobApplication)
	fields[1].Enabled = false
	raw, err := json.Marshal(fields)
	require.NoError(t, err)
	require.NoError(t, svc.Save(context.Background(), model.FormJobApplication, raw))

	require.NoError(t, svc.Reset(context.Background(), model.FormJobApplication))
	first, err := svc.Load(context.Background(), model.FormJobApplication)
	require.NoError(t, err)

	require.NoError(t, svc.Reset(context.Background(), model.FormJobApplication))
	second, err := svc.Load(context.Background(), model.FormJobApplication)
	require.NoError(t, err)

	assert.Equal(t, schema.DefaultFields(model.FormJobApplication), first.Fields)
	assert.Equal(t, first.Fields, second.Fields)
}
