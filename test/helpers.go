package test

import (
	"context"
	"net/http/httptest"
	"sync"
	"testing"

	"stonefire/internal/api"
	"stonefire/internal/auth"
	"stonefire/internal/db"
	"stonefire/internal/model"
	"stonefire/internal/schema"
	"stonefire/internal/service"
	"stonefire/internal/ws"

	"github.com/jackc/pgx/v5"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memStore is an in-memory stand-in for the Postgres queries layer. It
// implements every store interface the services consume, so the HTTP tests
// run without external services.
type memStore struct {
	mu          sync.Mutex
	schemas     map[string][]model.FieldDefinition
	submissions map[string]db.Submission
	locations   map[string]db.Location
	users       map[string]db.User
}

func newMemStore() *memStore {
	return &memStore{
		schemas:     make(map[string][]model.FieldDefinition),
		submissions: make(map[string]db.Submission),
		locations:   make(map[string]db.Location),
		users:       make(map[string]db.User),
	}
}

func (m *memStore) GetFormSchema(ctx context.Context, form string) (db.FormSchemaRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fields, ok := m.schemas[form]
	if !ok {
		return db.FormSchemaRow{}, pgx.ErrNoRows
	}
	return db.FormSchemaRow{Form: form, Fields: fields}, nil
}

func (m *memStore) PutFormSchema(ctx context.Context, form string, fields []model.FieldDefinition) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.schemas[form] = fields
	return nil
}

func (m *memStore) CreateSubmission(ctx context.Context, params db.CreateSubmissionParams) (db.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := db.Submission{
		ID:         params.ID,
		Form:       params.Form,
		LocationID: params.LocationID,
		Values:     params.Values,
		Status:     params.Status,
	}
	m.submissions[s.ID] = s
	return s, nil
}

func (m *memStore) GetSubmissionByID(ctx context.Context, id string) (db.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.submissions[id]
	if !ok {
		return db.Submission{}, pgx.ErrNoRows
	}
	return s, nil
}

func (m *memStore) ListSubmissions(ctx context.Context, form string, status *string, limit, offset int) ([]db.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []db.Submission
	for _, s := range m.submissions {
		if s.Form == form && (status == nil || s.Status == *status) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memStore) UpdateSubmissionStatus(ctx context.Context, id, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.submissions[id]
	if !ok {
		return pgx.ErrNoRows
	}
	s.Status = status
	m.submissions[id] = s
	return nil
}

func (m *memStore) SoftDeleteSubmission(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.submissions, id)
	return nil
}

func (m *memStore) CountSubmissionsByLocation(ctx context.Context, locationID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, s := range m.submissions {
		if s.LocationID != nil && *s.LocationID == locationID {
			count++
		}
	}
	return count, nil
}

func (m *memStore) ListLocations(ctx context.Context, hiringOnly bool) ([]db.Location, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []db.Location
	for _, l := range m.locations {
		if !l.IsActive {
			continue
		}
		if hiringOnly && !l.IsHiring {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

func (m *memStore) ListAllLocations(ctx context.Context) ([]db.Location, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]db.Location, 0, len(m.locations))
	for _, l := range m.locations {
		out = append(out, l)
	}
	return out, nil
}

func (m *memStore) GetLocationByID(ctx context.Context, id string) (db.Location, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.locations[id]
	if !ok {
		return db.Location{}, pgx.ErrNoRows
	}
	return l, nil
}

func (m *memStore) GetLocationBySlug(ctx context.Context, slug string) (db.Location, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range m.locations {
		if l.Slug == slug {
			return l, nil
		}
	}
	return db.Location{}, pgx.ErrNoRows
}

func (m *memStore) CreateLocation(ctx context.Context, id, name, slug string, isHiring bool) (db.Location, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l := db.Location{ID: id, Name: name, Slug: slug, IsActive: true, IsHiring: isHiring}
	m.locations[id] = l
	return l, nil
}

func (m *memStore) UpdateLocation(ctx context.Context, id string, params db.UpdateLocationParams) (db.Location, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.locations[id]
	if !ok {
		return db.Location{}, pgx.ErrNoRows
	}
	if params.Name != nil {
		l.Name = *params.Name
	}
	if params.Slug != nil {
		l.Slug = *params.Slug
	}
	if params.IsActive != nil {
		l.IsActive = *params.IsActive
	}
	if params.IsHiring != nil {
		l.IsHiring = *params.IsHiring
	}
	m.locations[id] = l
	return l, nil
}

func (m *memStore) DeleteLocation(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locations, id)
	return nil
}

func (m *memStore) GetUserByEmail(ctx context.Context, email string) (db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return db.User{}, pgx.ErrNoRows
}

func (m *memStore) GetUserByID(ctx context.Context, id string) (db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return db.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func (m *memStore) ListUsers(ctx context.Context) ([]db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []db.User
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, nil
}

func (m *memStore) CreateUser(ctx context.Context, id, email, role, passwordHash string) (db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := db.User{ID: id, Email: email, Role: role, PasswordHash: passwordHash}
	m.users[id] = u
	return u, nil
}

func (m *memStore) UpdateUserRole(ctx context.Context, id, role string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	u.Role = role
	m.users[id] = u
	return nil
}

// nopBus swallows events, matching the service's fire-and-forget publishing
type nopBus struct{}

func (nopBus) PublishSubmission(ctx context.Context, form string, event map[string]interface{}) error {
	return nil
}

type testEnv struct {
	server *httptest.Server
	store  *memStore
	jwt    *auth.JWTConfig
}

// setupTestServer wires the full router over in-memory stores
func setupTestServer(t *testing.T) *testEnv {
	t.Helper()

	store := newMemStore()
	logger := zap.NewNop()
	jwtConfig := auth.NewJWTConfig("test-secret")

	schemaSvc := service.NewSchemaService(store, schema.NewChecker(8))
	locationSvc := service.NewLocationService(store)
	userSvc := service.NewUserService(store)
	submissionSvc := service.NewSubmissionService(store, store, schemaSvc, nopBus{})

	hub := ws.NewHub(logger)
	go hub.Run()

	handler := api.Routes(api.Dependencies{
		Hub:         hub,
		Log:         logger,
		JWT:         jwtConfig,
		Schemas:     schemaSvc,
		Submissions: submissionSvc,
		Locations:   locationSvc,
		Users:       userSvc,
	})

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return &testEnv{server: server, store: store, jwt: jwtConfig}
}

// seedLocation inserts a location directly and returns its id
func (e *testEnv) seedLocation(t *testing.T, name, slug string, isHiring bool) string {
	t.Helper()
	id := ulid.Make().String()
	_, err := e.store.CreateLocation(context.Background(), id, name, slug, isHiring)
	require.NoError(t, err)
	return id
}

// tokenFor issues a session token for a role without going through login
func (e *testEnv) tokenFor(t *testing.T, role model.Role) string {
	t.Helper()
	token, err := e.jwt.IssueToken(ulid.Make().String(), role)
	require.NoError(t, err)
	return token
}
