package projects

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotOwned covers both "no such project" and "not your project". The two
// are deliberately indistinguishable to callers; handlers redirect to the
// list view either way.
var ErrNotOwned = errors.New("project not found for this user")

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

type Project struct {
	PublicID    string    `json:"public_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	StartDate   time.Time `json:"start_date"`
	Budget      float64   `json:"budget"`
	IsPublic    bool      `json:"is_public"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CreateProject struct {
	Name        string
	Description string
	StartDate   time.Time
	Budget      float64
	IsPublic    bool
}

const projectCols = `public_id, name, description, start_date, budget, is_public, created_at, updated_at`

func scanProject(row pgx.Row) (Project, error) {
	var p Project
	err := row.Scan(&p.PublicID, &p.Name, &p.Description, &p.StartDate,
		&p.Budget, &p.IsPublic, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Project{}, ErrNotOwned
	}
	if err != nil {
		return Project{}, err
	}
	return p, nil
}

// Create inserts a project for the owner. Validation happened at the form
// layer; this only guards the obvious.
func (r *Repo) Create(ctx context.Context, userID string, in CreateProject) (*Project, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("name required")
	}

	for i := 0; i < 5; i++ {
		publicID, err := NewPublicID("proj")
		if err != nil {
			return nil, err
		}

		const q = `
insert into projects (public_id, user_id, name, description, start_date, budget, is_public)
values ($1, $2::uuid, $3, $4, $5, $6, $7)
returning ` + projectCols + `;`

		p, err := scanProject(r.db.QueryRow(ctx, q, publicID, userID,
			in.Name, in.Description, in.StartDate, in.Budget, in.IsPublic))
		if err == nil {
			return &p, nil
		}

		// unique violation on public_id → retry
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			continue
		}
		return nil, err
	}

	return nil, fmt.Errorf("failed to generate unique project id")
}

// List returns the caller's projects, newest first. Never unscoped.
func (r *Repo) List(ctx context.Context, userID string) ([]Project, error) {
	const q = `
select ` + projectCols + `
from projects
where user_id = $1::uuid
order by created_at desc;`

	rows, err := r.db.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Project, 0, 16)
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.PublicID, &p.Name, &p.Description, &p.StartDate,
			&p.Budget, &p.IsPublic, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Get fetches one project, id and owner both in the filter.
func (r *Repo) Get(ctx context.Context, userID, publicID string) (*Project, error) {
	const q = `
select ` + projectCols + `
from projects
where user_id = $1::uuid and public_id = $2;`

	p, err := scanProject(r.db.QueryRow(ctx, q, userID, publicID))
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Stats feeds the dashboard cards. Active means the start date has passed.
type Stats struct {
	Total   int
	Active  int
	Pending int
}

func (r *Repo) StatsForUser(ctx context.Context, userID string) (Stats, error) {
	const q = `
select
  count(*),
  count(*) filter (where start_date <= now()),
  count(*) filter (where start_date > now())
from projects
where user_id = $1::uuid;`

	var s Stats
	if err := r.db.QueryRow(ctx, q, userID).Scan(&s.Total, &s.Active, &s.Pending); err != nil {
		return Stats{}, err
	}
	return s, nil
}

// CountAll is used by the nightly usage report.
func (r *Repo) CountAll(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `select count(*) from projects;`).Scan(&n)
	return n, err
}
