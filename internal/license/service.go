package license

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/google/uuid"
)

// Service resolves a user's effective license and feature set. Users without
// a license record, or with an inactive or expired one, fall back to free.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService creates a new license Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

// Effective returns the user's current license. The fallback is a synthetic
// free license, never an error.
func (s *Service) Effective(ctx context.Context, userID uuid.UUID) (*License, error) {
	l, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrLicenseNotFound) {
			return s.freeLicense(userID), nil
		}
		return nil, err
	}

	if !l.Valid(s.now()) {
		return s.freeLicense(userID), nil
	}

	return l, nil
}

// HasFeature reports whether the user's effective license includes the
// feature. Consulted by the presentation layer only; core operations never
// gate on it.
func (s *Service) HasFeature(ctx context.Context, userID uuid.UUID, feature string) (bool, error) {
	l, err := s.Effective(ctx, userID)
	if err != nil {
		return false, err
	}
	return slices.Contains(Features(l.Type), feature), nil
}

func (s *Service) freeLicense(userID uuid.UUID) *License {
	return &License{
		UserID:   userID,
		Type:     TypeFree,
		Active:   true,
		StartsAt: s.now(),
	}
}
