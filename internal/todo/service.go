package todo

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/ovaphlow/pitchfork/service-todo-go-stdlib/internal/todo/entity"
	todorepo "github.com/ovaphlow/pitchfork/service-todo-go-stdlib/internal/todo/repo"
)

var (
	ErrTodoNotFound = errors.New("todo not found")
	ErrMissingTitle = errors.New("title is required")
)

// Store is the persistence surface the service needs; *todorepo.TodoRepo
// satisfies it and tests substitute fakes.
type Store interface {
	ListByUser(ctx context.Context, userID int64) ([]entity.Todo, error)
	GetByIDAndUser(ctx context.Context, id, userID int64) (*entity.Todo, error)
	Create(ctx context.Context, title, description string, userID int64) (int64, error)
	Update(ctx context.Context, id, userID int64, p todorepo.TodoPatch) (bool, error)
	Delete(ctx context.Context, id, userID int64) (bool, error)
	ListWithPagination(ctx context.Context, userID int64, page, limit int) ([]entity.Todo, int, error)
}

// TodoService holds the todo business rules above the repository.
type TodoService struct {
	repo Store
}

func NewTodoService(repo Store) *TodoService {
	return &TodoService{repo: repo}
}

// List returns all todos for a user.
func (s *TodoService) List(ctx context.Context, userID int64) ([]entity.Todo, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Paginate returns one page of a user's todos plus the total count.
// page/limit bounds are the handler's responsibility.
func (s *TodoService) Paginate(ctx context.Context, userID int64, page, limit int) ([]entity.Todo, int, error) {
	return s.repo.ListWithPagination(ctx, userID, page, limit)
}

// Get returns a single owned todo or ErrTodoNotFound. Another user's todo
// is reported exactly like an absent one.
func (s *TodoService) Get(ctx context.Context, id, userID int64) (*entity.Todo, error) {
	t, err := s.repo.GetByIDAndUser(ctx, id, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTodoNotFound
		}
		return nil, err
	}
	return t, nil
}

// Create inserts a todo and reads it back. The title must be non-empty
// after trimming; an absent description is stored as the empty string.
// The insert and read-back are separate statements: a failure between them
// surfaces as an error even though the row exists.
func (s *TodoService) Create(ctx context.Context, title, description string, userID int64) (*entity.Todo, error) {
	if strings.TrimSpace(title) == "" {
		return nil, ErrMissingTitle
	}
	id, err := s.repo.Create(ctx, title, description, userID)
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id, userID)
}

// Update applies a partial patch and returns the current state of the todo.
// An empty patch writes nothing but still re-fetches, so the caller gets
// the unchanged record with a success status.
func (s *TodoService) Update(ctx context.Context, id, userID int64, p todorepo.TodoPatch) (*entity.Todo, error) {
	changed, err := s.repo.Update(ctx, id, userID, p)
	if err != nil {
		return nil, err
	}
	empty := p.Title == nil && p.Description == nil && p.IsDone == nil
	if !changed && !empty {
		return nil, ErrTodoNotFound
	}
	return s.Get(ctx, id, userID)
}

// Delete removes an owned todo or reports ErrTodoNotFound.
func (s *TodoService) Delete(ctx context.Context, id, userID int64) error {
	deleted, err := s.repo.Delete(ctx, id, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrTodoNotFound
	}
	return nil
}
