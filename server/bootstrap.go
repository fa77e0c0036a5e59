package server

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log"

	"github.com/mpigajesse/yoozak-backoffice/internal/config"
	apperrors "github.com/mpigajesse/yoozak-backoffice/internal/errors"
	"github.com/mpigajesse/yoozak-backoffice/users"
)

// InitialiseSystem makes sure at least one superuser account exists so the
// back office can be logged into on a fresh database.
// Returns an error only when the bootstrap user cannot be created.
func (s *Server) InitialiseSystem(ctx context.Context, config config.Config) error {
	username := config.GetBootstrapAdminUsername()

	existing, err := s.repos.Users.GetByUsername(ctx, username)
	if err == nil && existing != nil && existing.IsSuperuser {
		return nil
	}
	if err != nil && !apperrors.Is(err, apperrors.ErrUserNotFound) {
		return fmt.Errorf("[Server InitialiseSystem] failed to look up bootstrap admin: %w", err)
	}

	generatedPassword := config.GetBootstrapAdminPassword()
	if generatedPassword == "" {
		// Generate a secure random password
		passwordBytes := make([]byte, 16)
		if _, err := rand.Read(passwordBytes); err != nil {
			return fmt.Errorf("[Server InitialiseSystem] failed to generate password: %w", err)
		}
		generatedPassword = base64.URLEncoding.EncodeToString(passwordBytes)
	}

	passwordHash, err := users.HashPassword(generatedPassword)
	if err != nil {
		return fmt.Errorf("[Server InitialiseSystem] failed to hash password: %w", err)
	}

	admin := &users.User{
		Username:     username,
		Email:        username + "@yoozak.local",
		PasswordHash: passwordHash,
		FirstName:    "System",
		LastName:     "Administrator",
		IsStaff:      true,
		IsSuperuser:  true,
		IsActive:     true,
	}
	if err := s.repos.Users.Create(ctx, admin); err != nil {
		return fmt.Errorf("[Server InitialiseSystem] failed to create bootstrap admin: %w", err)
	}

	log.Printf("👤 Bootstrap Admin Credentials:")
	log.Printf("   Username:    %s", username)
	log.Printf("   Password:    %s     (⚠️ change after first login)", generatedPassword)

	return nil
}
