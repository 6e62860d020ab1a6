package dto

type AdminLogin struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

type AuthResponse struct {
	Username string  `json:"username"`
	Iat      float64 `json:"iat"`
	Expiry   float64 `json:"expiry"`
}
