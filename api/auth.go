package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/caremesh/healthcare/auth"
	errs "github.com/caremesh/healthcare/errors"
	"github.com/caremesh/healthcare/users"
)

// Register
// (POST /api/auth/register)
func (h *Handler) Register(c echo.Context) error {
	ctx := c.Request().Context()

	dto := RegisterRequest{}
	if err := c.Bind(&dto); err != nil {
		return errs.BadRequest
	}
	if dto.Name == "" || dto.Email == "" || dto.Username == "" || dto.Password == "" {
		return errs.HttpError{Code: http.StatusBadRequest, Err: errors.New("name, email, username and password are required")}
	}
	if dto.Password != dto.PasswordConfirm {
		return errs.HttpError{Code: http.StatusBadRequest, Err: errors.New("passwords do not match")}
	}

	user, pair, err := h.auth.Register(ctx, users.Registration{
		Name:     dto.Name,
		Email:    dto.Email,
		Username: dto.Username,
		Password: dto.Password,
	})
	if err != nil {
		return authError(err)
	}

	return c.JSON(http.StatusCreated, TokenResponse{
		Message: "User registered successfully",
		User:    NewUserDto(user),
		Access:  pair.Access,
		Refresh: pair.Refresh,
	})
}

// Login
// (POST /api/auth/login)
func (h *Handler) Login(c echo.Context) error {
	ctx := c.Request().Context()

	dto := LoginRequest{}
	if err := c.Bind(&dto); err != nil {
		return errs.BadRequest
	}

	user, pair, err := h.auth.Login(ctx, dto.Email, dto.Password)
	if err != nil {
		return authError(err)
	}

	return c.JSON(http.StatusOK, TokenResponse{
		Message: "Login successful",
		User:    NewUserDto(user),
		Access:  pair.Access,
		Refresh: pair.Refresh,
	})
}

// RefreshToken
// (POST /api/auth/refresh)
func (h *Handler) RefreshToken(c echo.Context) error {
	ctx := c.Request().Context()

	dto := RefreshRequest{}
	if err := c.Bind(&dto); err != nil {
		return errs.BadRequest
	}

	access, err := h.auth.Refresh(ctx, dto.Refresh)
	if err != nil {
		return authError(err)
	}

	return c.JSON(http.StatusOK, AccessTokenResponse{Access: access})
}

// Logout
// (POST /api/auth/logout)
func (h *Handler) Logout(c echo.Context) error {
	ctx := c.Request().Context()

	dto := LogoutRequest{}
	if err := c.Bind(&dto); err != nil {
		return errs.BadRequest
	}

	if err := h.auth.Logout(ctx, dto.RefreshToken); err != nil {
		if errors.Is(err, auth.ErrInvalidRefreshToken) {
			return errs.HttpError{Code: http.StatusBadRequest, Err: err}
		}
		return err
	}

	return c.JSON(http.StatusOK, Message{Message: "Successfully logged out"})
}

// GetProfile
// (GET /api/auth/profile)
func (h *Handler) GetProfile(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := h.users.Get(ctx, currentUserId(c))
	if err != nil {
		return authError(err)
	}

	return c.JSON(http.StatusOK, NewUserDto(user))
}

// UpdateProfile
// (PUT /api/auth/profile)
func (h *Handler) UpdateProfile(c echo.Context) error {
	ctx := c.Request().Context()

	dto := UpdateProfileRequest{}
	if err := c.Bind(&dto); err != nil {
		return errs.BadRequest
	}
	if dto.Name == "" {
		return errs.HttpError{Code: http.StatusBadRequest, Err: errors.New("name is required")}
	}

	user, err := h.users.UpdateProfile(ctx, currentUserId(c), users.ProfileUpdate{Name: dto.Name})
	if err != nil {
		return authError(err)
	}

	return c.JSON(http.StatusOK, NewUserDto(user))
}

func authError(err error) error {
	switch {
	case errors.Is(err, users.ErrDuplicateEmail) || errors.Is(err, users.ErrDuplicateUsername):
		return errs.HttpError{Code: http.StatusConflict, Err: err}
	case errors.Is(err, users.ErrPasswordTooShort):
		return errs.HttpError{Code: http.StatusBadRequest, Err: err}
	case errors.Is(err, users.ErrInvalidCredentials) || errors.Is(err, users.ErrAccountDisabled):
		return errs.HttpError{Code: http.StatusUnauthorized, Err: err}
	case errors.Is(err, auth.ErrInvalidRefreshToken):
		return errs.HttpError{Code: http.StatusUnauthorized, Err: err}
	case errors.Is(err, users.ErrNotFound):
		return errs.HttpError{Code: http.StatusNotFound, Err: err}
	}
	return err
}
