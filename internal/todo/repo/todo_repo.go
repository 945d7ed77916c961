package repo

import (
	"context"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/ovaphlow/pitchfork/service-todo-go-stdlib/internal/todo/entity"
)

const selectColumns = `t.id, t.title, t.description, t.is_done, t.user_id,
	u.name AS user_name, t.created_at, t.updated_at, t.deleted_at`

// TodoRepo provides data access for the todos table using sqlx. Every
// read/update/delete predicate includes user_id; that filter is the only
// authorization mechanism for todo access.
type TodoRepo struct {
	db *sqlx.DB
}

func NewTodoRepo(db *sqlx.DB) *TodoRepo { return &TodoRepo{db: db} }

// EnsureSchema creates the todos table and its index if not exists (idempotent).
func (r *TodoRepo) EnsureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS todos (
  id BIGSERIAL PRIMARY KEY,
  title VARCHAR(255) NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  is_done BOOLEAN NOT NULL DEFAULT FALSE,
  user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  deleted_at TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS idx_todos_user_id ON todos(user_id);
`
	_, err := r.db.ExecContext(ctx, ddl)
	return err
}

// ListByUser returns all of a user's todos, newest first, with the owner
// name joined in.
func (r *TodoRepo) ListByUser(ctx context.Context, userID int64) ([]entity.Todo, error) {
	const q = `SELECT ` + selectColumns + `
	  FROM todos t JOIN users u ON t.user_id = u.id
	  WHERE t.user_id = $1
	  ORDER BY t.created_at DESC`
	todos := []entity.Todo{}
	if err := r.db.SelectContext(ctx, &todos, q, userID); err != nil {
		return nil, err
	}
	return todos, nil
}

// GetByIDAndUser returns a single todo scoped to its owner, or sql.ErrNoRows.
// A todo that exists but belongs to another user is indistinguishable from
// one that does not exist.
func (r *TodoRepo) GetByIDAndUser(ctx context.Context, id, userID int64) (*entity.Todo, error) {
	const q = `SELECT ` + selectColumns + `
	  FROM todos t JOIN users u ON t.user_id = u.id
	  WHERE t.id = $1 AND t.user_id = $2`
	var row entity.Todo
	if err := r.db.GetContext(ctx, &row, q, id, userID); err != nil {
		return nil, err
	}
	return &row, nil
}

// GetByID fetches a todo without ownership scoping. Not reachable from any
// route; kept for administrative tooling.
func (r *TodoRepo) GetByID(ctx context.Context, id int64) (*entity.Todo, error) {
	const q = `SELECT ` + selectColumns + `
	  FROM todos t JOIN users u ON t.user_id = u.id
	  WHERE t.id = $1`
	var row entity.Todo
	if err := r.db.GetContext(ctx, &row, q, id); err != nil {
		return nil, err
	}
	return &row, nil
}

// ListAll returns every todo across users, newest first. Route-less, like GetByID.
func (r *TodoRepo) ListAll(ctx context.Context) ([]entity.Todo, error) {
	const q = `SELECT ` + selectColumns + `
	  FROM todos t JOIN users u ON t.user_id = u.id
	  ORDER BY t.created_at DESC`
	todos := []entity.Todo{}
	if err := r.db.SelectContext(ctx, &todos, q); err != nil {
		return nil, err
	}
	return todos, nil
}

// Create inserts a todo for the given owner and returns the new ID.
func (r *TodoRepo) Create(ctx context.Context, title, description string, userID int64) (int64, error) {
	const q = `INSERT INTO todos (title, description, user_id) VALUES ($1, $2, $3) RETURNING id`
	var id int64
	if err := r.db.GetContext(ctx, &id, q, title, description, userID); err != nil {
		return 0, err
	}
	return id, nil
}

// TodoPatch carries the fields of a partial todo update. Nil fields are
// left untouched.
type TodoPatch struct {
	Title       *string
	Description *string
	IsDone      *bool
}

// BuildUpdate renders the dynamic UPDATE statement for a patch, scoped to
// (id, user_id). Returns ok=false when the patch contains no fields.
func BuildUpdate(id, userID int64, p TodoPatch) (string, []any, bool) {
	sets := []string{}
	args := []any{}
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, col+" = $"+strconv.Itoa(len(args)))
	}
	if p.Title != nil {
		add("title", *p.Title)
	}
	if p.Description != nil {
		add("description", *p.Description)
	}
	if p.IsDone != nil {
		add("is_done", *p.IsDone)
	}
	if len(sets) == 0 {
		return "", nil, false
	}
	sets = append(sets, "updated_at = NOW()")
	args = append(args, id, userID)
	q := "UPDATE todos SET " + strings.Join(sets, ", ") +
		" WHERE id = $" + strconv.Itoa(len(args)-1) +
		" AND user_id = $" + strconv.Itoa(len(args))
	return q, args, true
}

// Update applies a partial patch scoped to the owner. Returns whether any
// row was affected; an empty patch performs no write and reports false.
func (r *TodoRepo) Update(ctx context.Context, id, userID int64, p TodoPatch) (bool, error) {
	q, args, ok := BuildUpdate(id, userID, p)
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

// Delete removes a todo scoped to the owner. Returns whether a row was deleted.
func (r *TodoRepo) Delete(ctx context.Context, id, userID int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM todos WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// CountByUser returns the number of todos owned by a user.
func (r *TodoRepo) CountByUser(ctx context.Context, userID int64) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM todos WHERE user_id = $1`, userID); err != nil {
		return 0, err
	}
	return total, nil
}

// ListWithPagination returns one page of a user's todos plus the total count
// so the caller can compute page count. offset = (page-1)*limit.
func (r *TodoRepo) ListWithPagination(ctx context.Context, userID int64, page, limit int) ([]entity.Todo, int, error) {
	total, err := r.CountByUser(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	const q = `SELECT ` + selectColumns + `
	  FROM todos t JOIN users u ON t.user_id = u.id
	  WHERE t.user_id = $1
	  ORDER BY t.created_at DESC
	  LIMIT $2 OFFSET $3`
	todos := []entity.Todo{}
	if err := r.db.SelectContext(ctx, &todos, q, userID, limit, offset); err != nil {
		return nil, 0, err
	}
	return todos, total, nil
}
