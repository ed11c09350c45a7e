package ports

import (
	"context"
	"time"

	"github.com/serverapp/account-api/internal/core/domain"
)

// AccountRepository defines the interface for account persistence.
//
// Implementations must enforce the email/phone/username uniqueness constraints
// at the storage layer: Create re-checks uniqueness atomically so that two
// concurrent registrations cannot both succeed, and reports the collided field
// via domain.ErrEmailTaken / ErrPhoneTaken / ErrUsernameTaken. Transient
// infrastructure failures wrap domain.ErrStoreUnavailable.
type AccountRepository interface {
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByPhone(ctx context.Context, phone string) (bool, error)
	FindByUsername(ctx context.Context, username string) (*domain.Account, error)
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
	UpdateLoginState(ctx context.Context, id string, failedLoginCount int, lockedUntil *time.Time) error
}
