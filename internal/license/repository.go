package license

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrLicenseNotFound is returned when the user holds no license record.
var ErrLicenseNotFound = errors.New("license not found")

// Repository provides operations on the user_licenses table.
type Repository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*License, error)
	Upsert(ctx context.Context, l *License) error
}
