package services

import (
	"context"
	"fmt"

	"popays-telegram/db"

	"golang.org/x/crypto/bcrypt"
)

// CheckAdminPassword compares the submitted password against the configured
// bcrypt hash. An empty hash means the admin gate is disabled.
func CheckAdminPassword(hash, plainPassword string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plainPassword)) == nil
}

// HashAdminPassword produces a bcrypt hash for ADMIN_PASSWORD_HASH. Used by
// the hash-password subcommand.
func HashAdminPassword(plainPassword string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plainPassword), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

// LogAdminAccess records an admin panel action in the audit log. Failures
// are the caller's to ignore; auditing never blocks the action itself.
func LogAdminAccess(ctx context.Context, userID int64, username, firstName, action, details string) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO admin_logs (user_id, username, first_name, action, details)
		VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), $4, $5)`,
		userID, username, firstName, action, details,
	)
	return err
}
