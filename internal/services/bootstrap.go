package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"clubhub/internal/domain"
)

// BootstrapAdmin promotes an existing user to admin so a fresh deployment has
// someone who can approve clubs and managers. A missing user is logged and skipped.
func BootstrapAdmin(ctx context.Context, users domain.UserRepository, email string, logger *slog.Logger) error {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return nil
	}
	user, err := users.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		logger.WarnContext(ctx, "bootstrap admin not registered yet", "email", email)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get bootstrap admin: %w", err)
	}
	if user.Role == domain.RoleAdmin {
		return nil
	}
	if err := users.UpdateRole(ctx, email, domain.RoleAdmin); err != nil {
		return fmt.Errorf("promote bootstrap admin: %w", err)
	}
	logger.InfoContext(ctx, "bootstrap admin promoted", "email", email)
	return nil
}
