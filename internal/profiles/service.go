package profiles

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/sitterlink/backend/internal/models"
)

// ErrProfileNotFound is returned when no sitter profile exists for the account.
var ErrProfileNotFound = errors.New("sitter profile not found")

// ErrProfileExists is returned when a sitter registers a second profile.
var ErrProfileExists = errors.New("sitter profile already exists")

// ErrInvalidRate is returned for a non-positive hourly rate.
var ErrInvalidRate = errors.New("hourly rate must be > 0")

type Service interface {
	CreateProfile(ctx context.Context, accountID uuid.UUID, hourlyRateCents int64, bio, city string, skills []string) (*models.SitterProfile, error)
	GetByAccountID(ctx context.Context, accountID uuid.UUID) (*models.SitterProfile, error)
	ListActive(ctx context.Context) ([]*models.SitterProfile, error)
}

type service struct {
	repo *Repository
}

func NewService(repo *Repository) *service {
	return &service{repo: repo}
}

var _ Service = (*service)(nil)

// normalizeSkills lowercases each skill so search and matching are
// case-insensitive.
func normalizeSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (s *service) CreateProfile(ctx context.Context, accountID uuid.UUID, hourlyRateCents int64, bio, city string, skills []string) (*models.SitterProfile, error) {
	if hourlyRateCents <= 0 {
		return nil, ErrInvalidRate
	}
	if existing, err := s.repo.GetByAccountID(ctx, accountID); err == nil && existing != nil {
		return nil, ErrProfileExists
	} else if err != nil && !errors.Is(err, ErrProfileNotFound) {
		return nil, err
	}
	p := &models.SitterProfile{
		ID:              uuid.New(),
		AccountID:       accountID,
		HourlyRateCents: hourlyRateCents,
		Bio:             bio,
		City:            city,
		Skills:          normalizeSkills(skills),
		IsActive:        true,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) GetByAccountID(ctx context.Context, accountID uuid.UUID) (*models.SitterProfile, error) {
	return s.repo.GetByAccountID(ctx, accountID)
}

func (s *service) ListActive(ctx context.Context) ([]*models.SitterProfile, error) {
	return s.repo.ListActive(ctx)
}
