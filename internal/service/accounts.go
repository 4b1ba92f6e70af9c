package service

import (
	"context"
	"errors"
	"strings"

	"github.com/labstack/gommon/log"

	"github.com/iliyamo/hotel-room-reservation/internal/model"
	"github.com/iliyamo/hotel-room-reservation/internal/repository"
	"github.com/iliyamo/hotel-room-reservation/internal/utils"
)

// EnsureAdmin creates an active admin account for email unless one with that
// email already exists. Registration only hands out the user role, so this is
// how the first admin gets in.
func EnsureAdmin(ctx context.Context, users repository.UserRepository, email, password string, cost int) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil
	}
	if _, err := users.GetByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return err
	}
	u := model.User{FirstName: "Admin", LastName: "Admin", Email: email, PasswordHash: hash, Role: model.RoleAdmin, Active: true}
	if err := users.Create(ctx, &u); err != nil && !errors.Is(err, repository.ErrEmailExists) {
		return err
	}
	log.Infof("admin account %s ready", email)
	return nil
}
