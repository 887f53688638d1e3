package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when no user row matches the lookup.
var ErrNotFound = errors.New("user not found")

// ErrEmailTaken is returned on a unique violation for the email column.
var ErrEmailTaken = errors.New("email already registered")

// Store is the account persistence surface consumed by the auth layer;
// *Repo satisfies it and tests substitute an in-memory implementation.
type Store interface {
	GetByEmail(ctx context.Context, email string) (Record, error)
	GetByID(ctx context.Context, id string) (Record, error)
	Create(ctx context.Context, in CreateInput) (Record, error)
	UpdatePasswordHash(ctx context.Context, id, hash string) error
	UpdateStatus(ctx context.Context, id string, status int16) (Record, error)
	SyncProfile(ctx context.Context, id, name, avatarURL string) error
}

var _ Store = (*Repo)(nil)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

// User is the identity record surfaced to route handlers. Credential fields
// stay inside Record; handlers never see them.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Record is the full account row consumed by the auth engine adapter.
type Record struct {
	ID             string
	Email          string
	Name           string
	AvatarURL      string
	PasswordHash   string
	Status         int16
	Role           string
	PermVersion    uint32
	RoleVersion    uint32
	AccountVersion uint32
	CreatedAt      time.Time
}

const recordCols = `id::text, email, name, coalesce(avatar_url, ''), password_hash,
status, role, perm_version, role_version, account_version, created_at`

func scanRecord(row pgx.Row) (Record, error) {
	var rec Record
	err := row.Scan(&rec.ID, &rec.Email, &rec.Name, &rec.AvatarURL, &rec.PasswordHash,
		&rec.Status, &rec.Role, &rec.PermVersion, &rec.RoleVersion, &rec.AccountVersion, &rec.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, err
	}
	return rec, nil
}

func (r *Repo) GetByEmail(ctx context.Context, email string) (Record, error) {
	const q = `select ` + recordCols + ` from users where email = $1;`
	return scanRecord(r.db.QueryRow(ctx, q, email))
}

func (r *Repo) GetByID(ctx context.Context, id string) (Record, error) {
	const q = `select ` + recordCols + ` from users where id = $1::uuid;`
	return scanRecord(r.db.QueryRow(ctx, q, id))
}

type CreateInput struct {
	Email          string
	Name           string
	AvatarURL      string
	PasswordHash   string
	Status         int16
	Role           string
	PermVersion    uint32
	RoleVersion    uint32
	AccountVersion uint32
}

func (r *Repo) Create(ctx context.Context, in CreateInput) (Record, error) {
	if in.Email == "" {
		return Record{}, fmt.Errorf("email required")
	}

	const q = `
insert into users (email, name, avatar_url, password_hash, status, role, perm_version, role_version, account_version)
values ($1, $2, nullif($3, ''), $4, $5, $6, $7, $8, $9)
returning ` + recordCols + `;`

	rec, err := scanRecord(r.db.QueryRow(ctx, q,
		in.Email, in.Name, in.AvatarURL, in.PasswordHash,
		in.Status, in.Role, in.PermVersion, in.RoleVersion, in.AccountVersion))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Record{}, ErrEmailTaken
		}
		return Record{}, err
	}
	return rec, nil
}

func (r *Repo) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	const q = `update users set password_hash = $2, updated_at = now() where id = $1::uuid;`
	ct, err := r.db.Exec(ctx, q, id, hash)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) UpdateStatus(ctx context.Context, id string, status int16) (Record, error) {
	const q = `
update users
set status = $2, account_version = account_version + 1, updated_at = now()
where id = $1::uuid
returning ` + recordCols + `;`
	return scanRecord(r.db.QueryRow(ctx, q, id, status))
}

// SyncProfile refreshes the display name and avatar from a social sign-in
// without touching credential columns.
func (r *Repo) SyncProfile(ctx context.Context, id, name, avatarURL string) error {
	const q = `
update users
set name = coalesce(nullif($2, ''), name),
    avatar_url = coalesce(nullif($3, ''), avatar_url),
    updated_at = now()
where id = $1::uuid;`
	_, err := r.db.Exec(ctx, q, id, name, avatarURL)
	return err
}

// Profile converts the account row to the handler-facing identity record.
func (rec Record) Profile() User {
	return User{
		ID:        rec.ID,
		Email:     rec.Email,
		Name:      rec.Name,
		AvatarURL: rec.AvatarURL,
		CreatedAt: rec.CreatedAt,
	}
}
