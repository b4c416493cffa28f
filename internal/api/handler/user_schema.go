package handler

import "github.com/microstore/auth-platform/internal/core/domain"

type registerRequest struct {
	Username    string `json:"username"    validate:"required"`
	Email       string `json:"email"       validate:"required,email"`
	Password    string `json:"password"    validate:"required,password"`
	FullName    string `json:"fullName"    validate:"required"`
	PhoneNumber string `json:"phoneNumber" validate:"required,phone"`
	Role        string `json:"role"        validate:"required,oneof=USER ADMIN SELLER"`
}

// registerResponse echoes the public identity fields. The password and its
// hash never appear here.
type registerResponse struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	FullName    string `json:"fullName"`
	PhoneNumber string `json:"phoneNumber"`
	Role        string `json:"role"`
	Status      string `json:"status"`
}

func toRegisterResponse(u *domain.User) registerResponse {
	return registerResponse{
		Username:    u.Username,
		Email:       u.Email,
		FullName:    u.FullName,
		PhoneNumber: u.PhoneNumber,
		Role:        string(u.Role),
		Status:      u.Status,
	}
}
