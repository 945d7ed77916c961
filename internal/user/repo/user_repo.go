package repo

import (
	"context"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/ovaphlow/pitchfork/service-todo-go-stdlib/internal/user/entity"
)

// UserRepo provides data access for the users table using sqlx.
type UserRepo struct {
	db *sqlx.DB
}

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{db: db} }

// EnsureSchema creates the users table if not exists (idempotent).
// This is a convenience for early development; prefer migrations in production.
func (r *UserRepo) EnsureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS users (
  id BIGSERIAL PRIMARY KEY,
  name TEXT NOT NULL,
  email TEXT UNIQUE NOT NULL,
  password TEXT NOT NULL,
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  deleted_at TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);
`
	_, err := r.db.ExecContext(ctx, ddl)
	return err
}

// Create inserts a new user row. The password must already be hashed.
// Returns the new ID.
func (r *UserRepo) Create(ctx context.Context, name, email, passwordHash string) (int64, error) {
	const q = `INSERT INTO users (name, email, password) VALUES ($1, $2, $3) RETURNING id`
	var id int64
	if err := r.db.GetContext(ctx, &id, q, name, email, passwordHash); err != nil {
		return 0, err
	}
	return id, nil
}

// GetByEmail returns a full user row including the password hash, or
// sql.ErrNoRows. Used only for login comparison.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	const q = `SELECT id, name, email, password, created_at, updated_at, deleted_at
	  FROM users WHERE email = $1`
	var row entity.User
	if err := r.db.GetContext(ctx, &row, q, email); err != nil {
		return nil, err
	}
	return &row, nil
}

// GetByID returns the client-safe projection (no password hash).
func (r *UserRepo) GetByID(ctx context.Context, id int64) (*entity.PublicUser, error) {
	const q = `SELECT id, name, email, created_at, updated_at FROM users WHERE id = $1`
	var row entity.PublicUser
	if err := r.db.GetContext(ctx, &row, q, id); err != nil {
		return nil, err
	}
	return &row, nil
}

// GetByIDWithPassword fetches a full user row by id.
func (r *UserRepo) GetByIDWithPassword(ctx context.Context, id int64) (*entity.User, error) {
	const q = `SELECT id, name, email, password, created_at, updated_at, deleted_at
	  FROM users WHERE id = $1`
	var row entity.User
	if err := r.db.GetContext(ctx, &row, q, id); err != nil {
		return nil, err
	}
	return &row, nil
}

// List returns all users, newest first, without password hashes.
func (r *UserRepo) List(ctx context.Context) ([]entity.PublicUser, error) {
	const q = `SELECT id, name, email, created_at, updated_at FROM users ORDER BY created_at DESC`
	users := []entity.PublicUser{}
	if err := r.db.SelectContext(ctx, &users, q); err != nil {
		return nil, err
	}
	return users, nil
}

// UserPatch carries the fields of a partial user update. Nil fields are
// left untouched. Password must already be hashed by the caller.
type UserPatch struct {
	Name     *string
	Email    *string
	Password *string
}

// BuildUpdate renders the dynamic UPDATE statement for a patch. Returns
// ok=false when the patch contains no fields.
func BuildUpdate(id int64, p UserPatch) (string, []any, bool) {
	sets := []string{}
	args := []any{}
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, col+" = $"+strconv.Itoa(len(args)))
	}
	if p.Name != nil {
		add("name", *p.Name)
	}
	if p.Email != nil {
		add("email", *p.Email)
	}
	if p.Password != nil {
		add("password", *p.Password)
	}
	if len(sets) == 0 {
		return "", nil, false
	}
	sets = append(sets, "updated_at = NOW()")
	args = append(args, id)
	q := "UPDATE users SET " + strings.Join(sets, ", ") + " WHERE id = $" + strconv.Itoa(len(args))
	return q, args, true
}

// Update applies a partial patch. Returns whether any row was affected;
// an empty patch performs no write and reports false.
func (r *UserRepo) Update(ctx context.Context, id int64, p UserPatch) (bool, error) {
	q, args, ok := BuildUpdate(id, p)
	if !ok {
		return false, nil
	}
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Delete removes a user row. Returns whether a row was deleted.
func (r *UserRepo) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
