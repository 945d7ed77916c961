package user

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/ovaphlow/pitchfork/service-todo-go-stdlib/internal/auth"
	"github.com/ovaphlow/pitchfork/service-todo-go-stdlib/internal/user/entity"
	userrepo "github.com/ovaphlow/pitchfork/service-todo-go-stdlib/internal/user/repo"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrEmailTaken     = errors.New("email already registered")
	ErrBadCredentials = errors.New("invalid credentials")
)

// Store is the persistence surface the service needs; *userrepo.UserRepo
// satisfies it and tests substitute fakes.
type Store interface {
	Create(ctx context.Context, name, email, passwordHash string) (int64, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByID(ctx context.Context, id int64) (*entity.PublicUser, error)
	Update(ctx context.Context, id int64, p userrepo.UserPatch) (bool, error)
}

// UserService orchestrates registration, authentication and profile flows.
type UserService struct {
	repo   Store
	hasher auth.PasswordHasher
}

func NewUserService(repo Store, hasher auth.PasswordHasher) *UserService {
	if hasher == nil {
		hasher = auth.DefaultHasher()
	}
	return &UserService{repo: repo, hasher: hasher}
}

// Register creates a user after rejecting duplicate emails. The duplicate
// check is an explicit pre-insert lookup, not a constraint-violation parse.
// Returns the client-safe projection of the created user.
func (s *UserService) Register(ctx context.Context, name, email, password string) (*entity.PublicUser, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}
	id, err := s.repo.Create(ctx, strings.TrimSpace(name), email, hash)
	if err != nil {
		return nil, err
	}
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// Authenticate verifies email+password. Unknown email and password mismatch
// both yield ErrBadCredentials so responses cannot leak which one failed.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*entity.PublicUser, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBadCredentials
		}
		return nil, err
	}
	if !s.hasher.Verify(u.Password, password) {
		return nil, ErrBadCredentials
	}
	return u.Public(), nil
}

// Profile returns the client-safe projection for an authenticated user id.
func (s *UserService) Profile(ctx context.Context, id int64) (*entity.PublicUser, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// UpdateUser applies a partial patch, hashing the password when present.
// Reports whether any row changed; an empty patch is a no-op.
func (s *UserService) UpdateUser(ctx context.Context, id int64, p userrepo.UserPatch) (bool, error) {
	if p.Password != nil {
		hash, err := s.hasher.Hash(*p.Password)
		if err != nil {
			return false, err
		}
		p.Password = &hash
	}
	if p.Email != nil {
		e := strings.ToLower(strings.TrimSpace(*p.Email))
		p.Email = &e
	}
	return s.repo.Update(ctx, id, p)
}
