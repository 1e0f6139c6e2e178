package dto

// LoginRequest describes the staff login payload.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the issued admin token.
type LoginResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
}
