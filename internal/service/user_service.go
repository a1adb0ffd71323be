package service

import (
	"context"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"go-user-api/internal/apperr"
	"go-user-api/internal/domain"
)

// emailRE is the deliberately simple local@domain.tld shape the API
// validates against; stricter RFC parsing is left to the mail system.
var emailRE = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const maxNameLen = 100

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

type CreateInput struct {
	Name  string
	Email string
}

// UpdateInput carries optional fields. An empty string means "leave
// unchanged", matching the partial-update contract.
type UpdateInput struct {
	Name  string
	Email string
}

type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

type UserPage struct {
	Users      []domain.User `json:"users"`
	Pagination Pagination    `json:"pagination"`
}

// UserService is the validation & mapping layer: it turns raw request
// fields into repository calls and store failures into tagged errors.
type UserService struct {
	repo domain.UserRepository
}

func NewUserService(repo domain.UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) List(ctx context.Context, page, limit int) (*UserPage, error) {
	if page <= 0 {
		page = DefaultPage
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	users, total, err := s.repo.List(ctx, (page-1)*limit, limit)
	if err != nil {
		return nil, apperr.Internal("Internal server error", err)
	}
	if users == nil {
		users = []domain.User{}
	}
	pages := int((total + int64(limit) - 1) / int64(limit))
	return &UserPage{
		Users:      users,
		Pagination: Pagination{Page: page, Limit: limit, Total: total, Pages: pages},
	}, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	// A malformed identifier can never match a row, so it collapses to
	// the same 404 as an absent one.
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperr.NotFound("User not found")
	}
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal("Internal server error", err)
	}
	if u == nil {
		return nil, apperr.NotFound("User not found")
	}
	return u, nil
}

func (s *UserService) Create(ctx context.Context, in CreateInput) (*domain.User, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if name == "" || email == "" {
		return nil, apperr.MissingField("Name and email are required")
	}
	if details := validateFields(name, email); len(details) > 0 {
		return nil, apperr.Validation("Validation failed", details...)
	}
	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, apperr.Internal("Internal server error", err)
	}
	if existing != nil {
		return nil, apperr.DuplicateEmail("Email already exists")
	}

	u := &domain.User{Name: name, Email: email}
	if err := s.repo.Create(ctx, u); err != nil {
		// Concurrent insert with the same email: the unique index is
		// the backstop behind the lookup above.
		if isDupKey(err) {
			return nil, apperr.DuplicateEmail("Email already exists")
		}
		return nil, apperr.Internal("Internal server error", err)
	}
	return u, nil
}

func (s *UserService) Update(ctx context.Context, id string, in UpdateInput) (*domain.User, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(in.Name); name != "" {
		if len(name) > maxNameLen {
			return nil, apperr.Validation("Validation failed", "name: must be at most 100 characters long")
		}
		u.Name = name
	}
	if email := strings.ToLower(strings.TrimSpace(in.Email)); email != "" {
		if !emailRE.MatchString(email) {
			return nil, apperr.Validation("Validation failed", "email: must be a valid email")
		}
		if email != u.Email {
			existing, err := s.repo.FindByEmail(ctx, email)
			if err != nil {
				return nil, apperr.Internal("Internal server error", err)
			}
			if existing != nil {
				return nil, apperr.DuplicateEmail("Email already exists")
			}
		}
		u.Email = email
	}

	if err := s.repo.Update(ctx, u); err != nil {
		if isDupKey(err) {
			return nil, apperr.DuplicateEmail("Email already exists")
		}
		return nil, apperr.Internal("Internal server error", err)
	}
	return u, nil
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperr.NotFound("User not found")
	}
	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return apperr.Internal("Internal server error", err)
	}
	if !removed {
		return apperr.NotFound("User not found")
	}
	return nil
}

func (s *UserService) Search(ctx context.Context, query string) ([]domain.User, error) {
	users, err := s.repo.Search(ctx, query)
	if err != nil {
		return nil, apperr.Internal("Internal server error", err)
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}

func validateFields(name, email string) []string {
	var details []string
	if len(name) > maxNameLen {
		details = append(details, "name: must be at most 100 characters long")
	}
	if !emailRE.MatchString(email) {
		details = append(details, "email: must be a valid email")
	}
	return details
}

// isDupKey recognizes unique-constraint violations across the supported
// drivers without depending on gorm.ErrDuplicatedKey.
func isDupKey(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation")
}
