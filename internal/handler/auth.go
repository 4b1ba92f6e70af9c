package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-room-reservation/internal/config"
	"github.com/iliyamo/hotel-room-reservation/internal/middleware"
	"github.com/iliyamo/hotel-room-reservation/internal/model"
	"github.com/iliyamo/hotel-room-reservation/internal/repository"
	"github.com/iliyamo/hotel-room-reservation/internal/utils"
)

// AuthHandler bundles dependencies for auth endpoints. Tokens are signed
// with Cfg.JWTSecret and live for Cfg.AccessTTLMin minutes; passwords are
// hashed with Cfg.BcryptCost.
type AuthHandler struct {
	Cfg   config.Config             // secret, token lifetime and bcrypt cost
	Users repository.UserRepository // account lookup and creation
}

// NewAuthHandler constructs the handler. users must be non-nil.
func NewAuthHandler(cfg config.Config, users repository.UserRepository) *AuthHandler {
	if users == nil {
		panic("nil repository passed to NewAuthHandler")
	}
	return &AuthHandler{Cfg: cfg, Users: users}
}

// ----- DTOs -----

type registerReq struct {
	FirstName string `json:"firstName" validate:"required,min=2,max=32"`
	LastName  string `json:"lastName" validate:"required,min=2,max=32"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6,max=72"`
	Phone     int64  `json:"phone" validate:"gte=0"`
}

type loginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

type authResp struct {
	User  model.User `json:"user"`
	Token tokenPart  `json:"token"`
}

// Register creates a user account and returns it with an access token. New
// accounts always get the user role.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := bind(c, &req); err != nil {
		return respondErr(c, err, "user")
	}
	req.FirstName = collapseSpaces(req.FirstName)
	req.LastName = collapseSpaces(req.LastName)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := c.Validate(&req); err != nil {
		return respondErr(c, err, "user")
	}

	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return respondErr(c, err, "user")
	}
	u := model.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: hash,
		Phone:        req.Phone,
		Role:         model.RoleUser,
		Active:       true,
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()
	if err := h.Users.Create(ctx, &u); err != nil {
		return respondErr(c, err, "user")
	}

	resp, err := h.issue(u)
	if err != nil {
		return respondErr(c, err, "user")
	}
	return created(c, resp)
}

// Login verifies credentials and returns a fresh access token. Unknown
// emails, wrong passwords and disabled accounts all get the same 401 so the
// response does not reveal which accounts exist.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := bind(c, &req); err != nil {
		return respondErr(c, err, "user")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := c.Validate(&req); err != nil {
		return respondErr(c, err, "user")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.BurnPasswordCheck(req.Password)
			return fail(c, http.StatusUnauthorized, "invalid credentials")
		}
		return respondErr(c, err, "user")
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) || !u.Active {
		return fail(c, http.StatusUnauthorized, "invalid credentials")
	}

	resp, err := h.issue(u)
	if err != nil {
		return respondErr(c, err, "user")
	}
	return ok(c, resp)
}

// Me returns the identity carried by the caller's token.
func (h *AuthHandler) Me(c echo.Context) error {
	return ok(c, echo.Map{"userId": middleware.UserID(c), "role": middleware.Role(c)})
}

func (h *AuthHandler) issue(u model.User) (authResp, error) {
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Role, h.Cfg.AccessTTLMin)
	if err != nil {
		return authResp{}, err
	}
	return authResp{User: u, Token: tokenPart{Token: access.Token, Expires: access.Exp}}, nil
}
