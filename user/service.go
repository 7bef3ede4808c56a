package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/kbukum/usermodel/errors"
	"github.com/kbukum/usermodel/logger"
	"github.com/kbukum/usermodel/validation"
)

// Service implements the user operations on top of a Repository.
type Service struct {
	repo           Repository
	notFoundPrefix string
	bcryptCost     int
	now            func() time.Time
	log            *logger.Logger

	// serializes check-then-write sequences on usernames
	writeMu sync.Mutex
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithNotFoundPrefix prefixes every not-found message.
func WithNotFoundPrefix(prefix string) ServiceOption {
	return func(s *Service) { s.notFoundPrefix = prefix }
}

// WithBcryptCost sets the bcrypt work factor.
func WithBcryptCost(cost int) ServiceOption {
	return func(s *Service) { s.bcryptCost = cost }
}

// WithClock sets the clock used for CreatedAt/UpdatedAt.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) { s.now = now }
}

// NewService creates a Service.
func NewService(repo Repository, log *logger.Logger, opts ...ServiceOption) *Service {
	s := &Service{
		repo:       repo,
		bcryptCost: bcrypt.DefaultCost,
		now:        time.Now,
		log:        log.WithComponent("user-service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) notFound(format string, args ...any) *apperrors.AppError {
	return apperrors.ResourceNotFound(s.notFoundPrefix + fmt.Sprintf(format, args...))
}

func (s *Service) duplicate(username string) *apperrors.AppError {
	return apperrors.ResourceFound(fmt.Sprintf("User name %s already exists", username))
}

// FindAll returns every user.
func (s *Service) FindAll(ctx context.Context) ([]User, error) {
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return users, nil
}

// FindByID returns the user with id or a not-found error.
func (s *Service) FindByID(ctx context.Context, id int64) (User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return User{}, s.notFound("User id %d not found!", id)
	}
	if err != nil {
		return User{}, fmt.Errorf("finding user %d: %w", id, err)
	}
	return u, nil
}

// FindByName returns the user named name or a not-found error.
func (s *Service) FindByName(ctx context.Context, name string) (User, error) {
	u, err := s.repo.FindByUsername(ctx, name)
	if errors.Is(err, ErrNotFound) {
		return User{}, s.notFound("User name %s not found!", name)
	}
	if err != nil {
		return User{}, fmt.Errorf("finding user %q: %w", name, err)
	}
	return u, nil
}

// Search returns users whose username contains fragment, ignoring case.
func (s *Service) Search(ctx context.Context, fragment string) ([]User, error) {
	v := validation.New().
		Required("name", fragment).
		MaxLength("name", fragment, 50)
	if err := v.Validate(); err != nil {
		return nil, err
	}

	users, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("searching users: %w", err)
	}
	fragment = strings.ToLower(fragment)
	out := make([]User, 0)
	for _, u := range users {
		if strings.Contains(strings.ToLower(u.Username), fragment) {
			out = append(out, u)
		}
	}
	return out, nil
}

// Create validates in, rejects a taken username and stores the user with a
// hashed password.
func (s *Service) Create(ctx context.Context, in NewUser) (User, error) {
	if err := validation.Validate(in); err != nil {
		return User{}, err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.ensureUsernameFree(ctx, in.Username, 0); err != nil {
		return User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return User{}, apperrors.Internal(fmt.Errorf("hashing password: %w", err))
	}

	now := s.now()
	u, err := s.repo.Save(ctx, User{
		Username:     in.Username,
		PrimaryEmail: strings.ToLower(in.PrimaryEmail),
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if errors.Is(err, ErrDuplicateUsername) {
		return User{}, s.duplicate(in.Username)
	}
	if err != nil {
		return User{}, fmt.Errorf("saving user: %w", err)
	}

	s.log.WithContext(ctx).Info("User created", logger.Fields("user_id", u.ID, "username", u.Username))
	return u, nil
}

// Update applies the non-empty fields of in to the user with id.
func (s *Service) Update(ctx context.Context, id int64, in UpdateUser) (User, error) {
	if err := validation.Validate(in); err != nil {
		return User{}, err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	u, err := s.FindByID(ctx, id)
	if err != nil {
		return User{}, err
	}

	if in.Username != "" && !strings.EqualFold(in.Username, u.Username) {
		if err := s.ensureUsernameFree(ctx, in.Username, id); err != nil {
			return User{}, err
		}
		u.Username = in.Username
	}
	if in.PrimaryEmail != "" {
		u.PrimaryEmail = strings.ToLower(in.PrimaryEmail)
	}
	if in.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
		if err != nil {
			return User{}, apperrors.Internal(fmt.Errorf("hashing password: %w", err))
		}
		u.PasswordHash = hash
	}
	u.UpdatedAt = s.now()

	saved, err := s.repo.Save(ctx, u)
	if errors.Is(err, ErrNotFound) {
		return User{}, s.notFound("User id %d not found!", id)
	}
	if errors.Is(err, ErrDuplicateUsername) {
		return User{}, s.duplicate(u.Username)
	}
	if err != nil {
		return User{}, fmt.Errorf("saving user %d: %w", id, err)
	}
	return saved, nil
}

// Delete removes the user with id.
func (s *Service) Delete(ctx context.Context, id int64) error {
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return s.notFound("User id %d not found!", id)
	}
	if err != nil {
		return fmt.Errorf("deleting user %d: %w", id, err)
	}
	s.log.WithContext(ctx).Info("User deleted", logger.Fields("user_id", id))
	return nil
}

// CheckPassword reports whether password matches the user's hash.
func (s *Service) CheckPassword(u User, password string) bool {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)) == nil
}

// Seed creates the demo users, skipping names that already exist.
func (s *Service) Seed(ctx context.Context) error {
	demo := []NewUser{
		{Username: "admin", PrimaryEmail: "admin@lambdaschool.local", Password: "password"},
		{Username: "cinnamon", PrimaryEmail: "cinnamon@lambdaschool.local", Password: "1234567890"},
		{Username: "barnbarn", PrimaryEmail: "barnbarn@lambdaschool.local", Password: "ILuvM4th!"},
	}
	for _, in := range demo {
		_, err := s.Create(ctx, in)
		if apperrors.HasCode(err, apperrors.ErrCodeResourceFound) {
			continue
		}
		if err != nil {
			return fmt.Errorf("seeding %s: %w", in.Username, err)
		}
	}
	return nil
}

// ensureUsernameFree fails with ResourceFound when another user than
// selfID already holds username.
func (s *Service) ensureUsernameFree(ctx context.Context, username string, selfID int64) error {
	existing, err := s.repo.FindByUsername(ctx, username)
	switch {
	case errors.Is(err, ErrNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("checking username %q: %w", username, err)
	case existing.ID != selfID:
		return s.duplicate(username)
	}
	return nil
}
