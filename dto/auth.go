package dto

// ==================== AUTHENTICATION DTOs ====================

type LoginRequest struct {
	AccessCode string `json:"access_code" validate:"required,mission_code" example:"SNOKRYSTALL"`
}

func (l LoginRequest) Validate() error {
	return GetValidator().Struct(l)
}

type LoginResponse struct {
	SessionID   string `json:"session_id"`
	Role        string `json:"role"`
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

type TokenPair struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

type RegisterRequest struct {
	Email      string `json:"email" validate:"required,email" example:"familie@example.com"`
	Subscribed bool   `json:"subscribed,omitempty" example:"true"`
}

func (r RegisterRequest) Validate() error {
	return GetValidator().Struct(r)
}

type RegisterResponse struct {
	SessionID    string `json:"session_id"`
	ChildCode    string `json:"child_code"`
	GuardianCode string `json:"guardian_code"`
}

// ProfileResponse omits the access codes; those are only shown once at
// registration.
type ProfileResponse struct {
	SessionID  string `json:"session_id"`
	Email      string `json:"email"`
	Subscribed bool   `json:"subscribed"`
}
