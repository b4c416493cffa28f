package handler

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type changePasswordRequest struct {
	OldPassword     string `json:"oldPassword"     validate:"required"`
	NewPassword     string `json:"newPassword"     validate:"required,password"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}
