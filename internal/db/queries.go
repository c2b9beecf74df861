package db

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"stonefire/internal/model"
)

// Queries wraps database queries
type Queries struct {
	*pgxpool.Pool
}

// NewQueries creates a new Queries instance
func NewQueries(pool *pgxpool.Pool) *Queries {
	return &Queries{Pool: pool}
}

// Form schema queries

type FormSchemaRow struct {
	Form      string
	Fields    []model.FieldDefinition
	UpdatedAt time.Time
}

func (q *Queries) GetFormSchema(ctx context.Context, form string) (FormSchemaRow, error) {
	var row FormSchemaRow
	var fieldsJSON []byte
	err := q.Pool.QueryRow(ctx,
		"SELECT form, fields, updated_at FROM form_schemas WHERE form = $1",
		form,
	).Scan(&row.Form, &fieldsJSON, &row.UpdatedAt)
	if err != nil {
		return row, err
	}
	if err := json.Unmarshal(fieldsJSON, &row.Fields); err != nil {
		return row, err
	}
	return row, nil
}

func (q *Queries) PutFormSchema(ctx context.Context, form string, fields []model.FieldDefinition) error {
	fieldsJSON, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	_, err = q.Pool.Exec(ctx,
		`INSERT INTO form_schemas (form, fields, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (form) DO UPDATE SET fields = $2, updated_at = NOW()`,
		form, fieldsJSON,
	)
	return err
}

// Submission queries

type Submission struct {
	ID         string
	Form       string
	LocationID *string
	Values     map[string]interface{}
	Status     string
	DeletedAt  *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type CreateSubmissionParams struct {
	ID         string
	Form       string
	LocationID *string
	Values     map[string]interface{}
	Status     string
}

func (q *Queries) CreateSubmission(ctx context.Context, params CreateSubmissionParams) (Submission, error) {
	var s Submission
	err := q.Pool.QueryRow(ctx,
		`INSERT INTO submissions (id, form, location_id, form_values, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, form, location_id, form_values, status, deleted_at, created_at, updated_at`,
		params.ID, params.Form, params.LocationID, params.Values, params.Status,
	).Scan(
		&s.ID, &s.Form, &s.LocationID, &s.Values, &s.Status,
		&s.DeletedAt, &s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

func (q *Queries) GetSubmissionByID(ctx context.Context, id string) (Submission, error) {
	var s Submission
	err := q.Pool.QueryRow(ctx,
		`SELECT id, form, location_id, form_values, status, deleted_at, created_at, updated_at
		FROM submissions WHERE id = $1 AND deleted_at IS NULL`,
		id,
	).Scan(
		&s.ID, &s.Form, &s.LocationID, &s.Values, &s.Status,
		&s.DeletedAt, &s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

func (q *Queries) ListSubmissions(ctx context.Context, form string, status *string, limit, offset int) ([]Submission, error) {
	var rows pgx.Rows
	var err error

	if status != nil {
		rows, err = q.Pool.Query(ctx,
			`SELECT id, form, location_id, form_values, status, deleted_at, created_at, updated_at
			FROM submissions
			WHERE form = $1 AND status = $2 AND deleted_at IS NULL
			ORDER BY created_at DESC
			LIMIT $3 OFFSET $4`,
			form, *status, limit, offset,
		)
	} else {
		rows, err = q.Pool.Query(ctx,
			`SELECT id, form, location_id, form_values, status, deleted_at, created_at, updated_at
			FROM submissions
			WHERE form = $1 AND deleted_at IS NULL
			ORDER BY created_at DESC
			LIMIT $2 OFFSET $3`,
			form, limit, offset,
		)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	submissions := make([]Submission, 0)
	for rows.Next() {
		var s Submission
		err := rows.Scan(
			&s.ID, &s.Form, &s.LocationID, &s.Values, &s.Status,
			&s.DeletedAt, &s.CreatedAt, &s.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		submissions = append(submissions, s)
	}
	return submissions, rows.Err()
}

func (q *Queries) UpdateSubmissionStatus(ctx context.Context, id, status string) error {
	result, err := q.Pool.Exec(ctx,
		"UPDATE submissions SET status = $2, updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL",
		id, status,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (q *Queries) SoftDeleteSubmission(ctx context.Context, id string) error {
	_, err := q.Pool.Exec(ctx,
		"UPDATE submissions SET deleted_at = NOW(), updated_at = NOW() WHERE id = $1",
		id,
	)
	return err
}

func (q *Queries) CountSubmissionsByLocation(ctx context.Context, locationID string) (int, error) {
	var count int
	err := q.Pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM submissions WHERE location_id = $1 AND deleted_at IS NULL",
		locationID,
	).Scan(&count)
	return count, err
}

// Location queries

type Location struct {
	ID        string
	Name      string
	Slug      string
	IsActive  bool
	IsHiring  bool
	CreatedAt time.Time
}

func (q *Queries) ListLocations(ctx context.Context, hiringOnly bool) ([]Location, error) {
	query := `SELECT id, name, slug, is_active, is_hiring, created_at
		FROM locations WHERE is_active = TRUE ORDER BY name ASC`
	if hiringOnly {
		query = `SELECT id, name, slug, is_active, is_hiring, created_at
			FROM locations WHERE is_active = TRUE AND is_hiring = TRUE ORDER BY name ASC`
	}

	rows, err := q.Pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	locations := make([]Location, 0)
	for rows.Next() {
		var l Location
		if err := rows.Scan(&l.ID, &l.Name, &l.Slug, &l.IsActive, &l.IsHiring, &l.CreatedAt); err != nil {
			return nil, err
		}
		locations = append(locations, l)
	}
	return locations, rows.Err()
}

// ListAllLocations includes deactivated locations, for the admin panel
func (q *Queries) ListAllLocations(ctx context.Context) ([]Location, error) {
	rows, err := q.Pool.Query(ctx,
		"SELECT id, name, slug, is_active, is_hiring, created_at FROM locations ORDER BY name ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	locations := make([]Location, 0)
	for rows.Next() {
		var l Location
		if err := rows.Scan(&l.ID, &l.Name, &l.Slug, &l.IsActive, &l.IsHiring, &l.CreatedAt); err != nil {
			return nil, err
		}
		locations = append(locations, l)
	}
	return locations, rows.Err()
}

func (q *Queries) GetLocationByID(ctx context.Context, id string) (Location, error) {
	var l Location
	err := q.Pool.QueryRow(ctx,
		"SELECT id, name, slug, is_active, is_hiring, created_at FROM locations WHERE id = $1",
		id,
	).Scan(&l.ID, &l.Name, &l.Slug, &l.IsActive, &l.IsHiring, &l.CreatedAt)
	return l, err
}

func (q *Queries) GetLocationBySlug(ctx context.Context, slug string) (Location, error) {
	var l Location
	err := q.Pool.QueryRow(ctx,
		"SELECT id, name, slug, is_active, is_hiring, created_at FROM locations WHERE slug = $1",
		slug,
	).Scan(&l.ID, &l.Name, &l.Slug, &l.IsActive, &l.IsHiring, &l.CreatedAt)
	return l, err
}

func (q *Queries) CreateLocation(ctx context.Context, id, name, slug string, isHiring bool) (Location, error) {
	var l Location
	err := q.Pool.QueryRow(ctx,
		`INSERT INTO locations (id, name, slug, is_active, is_hiring)
		VALUES ($1, $2, $3, TRUE, $4)
		RETURNING id, name, slug, is_active, is_hiring, created_at`,
		id, name, slug, isHiring,
	).Scan(&l.ID, &l.Name, &l.Slug, &l.IsActive, &l.IsHiring, &l.CreatedAt)
	return l, err
}

type UpdateLocationParams struct {
	Name     *string
	Slug     *string
	IsActive *bool
	IsHiring *bool
}

func (q *Queries) UpdateLocation(ctx context.Context, id string, params UpdateLocationParams) (Location, error) {
	var l Location
	err := q.Pool.QueryRow(ctx,
		`UPDATE locations SET
			name = COALESCE($2, name),
			slug = COALESCE($3, slug),
			is_active = COALESCE($4, is_active),
			is_hiring = COALESCE($5, is_hiring)
		WHERE id = $1
		RETURNING id, name, slug, is_active, is_hiring, created_at`,
		id, params.Name, params.Slug, params.IsActive, params.IsHiring,
	).Scan(&l.ID, &l.Name, &l.Slug, &l.IsActive, &l.IsHiring, &l.CreatedAt)
	return l, err
}

func (q *Queries) DeleteLocation(ctx context.Context, id string) error {
	result, err := q.Pool.Exec(ctx, "DELETE FROM locations WHERE id = $1", id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// User queries

type User struct {
	ID           string
	Email        string
	Role         string
	PasswordHash string
	CreatedAt    time.Time
}

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (User, error) {
	var u User
	err := q.Pool.QueryRow(ctx,
		"SELECT id, email, role, password_hash, created_at FROM users WHERE email = $1",
		email,
	).Scan(&u.ID, &u.Email, &u.Role, &u.PasswordHash, &u.CreatedAt)
	return u, err
}

func (q *Queries) GetUserByID(ctx context.Context, id string) (User, error) {
	var u User
	err := q.Pool.QueryRow(ctx,
		"SELECT id, email, role, password_hash, created_at FROM users WHERE id = $1",
		id,
	).Scan(&u.ID, &u.Email, &u.Role, &u.PasswordHash, &u.CreatedAt)
	return u, err
}

func (q *Queries) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := q.Pool.Query(ctx,
		"SELECT id, email, role, password_hash, created_at FROM users ORDER BY created_at DESC",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]User, 0)
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Email, &u.Role, &u.PasswordHash, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (q *Queries) CreateUser(ctx context.Context, id, email, role, passwordHash string) (User, error) {
	var u User
	err := q.Pool.QueryRow(ctx,
		`INSERT INTO users (id, email, role, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING id, email, role, password_hash, created_at`,
		id, email, role, passwordHash,
	).Scan(&u.ID, &u.Email, &u.Role, &u.PasswordHash, &u.CreatedAt)
	return u, err
}

func (q *Queries) UpdateUserRole(ctx context.Context, id, role string) error {
	result, err := q.Pool.Exec(ctx,
		"UPDATE users SET role = $2 WHERE id = $1",
		id, role,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
