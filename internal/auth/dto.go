package auth

import (
	"github.com/google/uuid"

	"github.com/washday/laundry-backend/internal/users"
)

// LoginRequest captures the user credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse contains the tokens and profile produced by a successful login.
type LoginResponse struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	User         *users.UserDTO `json:"user"`
	CustomerID   *uuid.UUID     `json:"customer_id,omitempty"`
}

// RegisterRequest is the public sign-up payload.
type RegisterRequest struct {
	Name            string  `json:"name" validate:"required,max=100"`
	Email           string  `json:"email" validate:"required,email"`
	Phone           *string `json:"phone,omitempty" validate:"omitempty,max=30"`
	Password        string  `json:"password" validate:"required"`
	ConfirmPassword string  `json:"confirm_password" validate:"required"`
}

// CreateAccountInput is the post-checkout account request. A nil Password
// asks for a generated temporary one.
type CreateAccountInput struct {
	Email    string
	Name     string
	Phone    string
	Password *string
}

// AccountResult identifies the user and customer created together.
// TemporaryPassword is only set when one was generated.
type AccountResult struct {
	UserID            uuid.UUID `json:"user_id"`
	CustomerID        uuid.UUID `json:"customer_id"`
	TemporaryPassword string    `json:"-"`
}

// ChangePasswordRequest lets a signed-in user replace their password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}
