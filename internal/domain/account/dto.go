// internal/domain/account/dto.go
package account

import "storefront-service/internal/pkg/jsonflag"

type SignupRequest struct {
	FullName string        `json:"full_name"`
	Email    string        `json:"email"`
	Password string        `json:"password"`
	IsTrader jsonflag.Bool `json:"is_trader"`
}

type SignupResult struct {
	OK       bool   `json:"ok"`
	Customer string `json:"customer"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	UserType    string `json:"user_type"`
}
