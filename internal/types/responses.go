package types

// LoginResponse is returned by the login endpoint. Error is set only on
// failure and never distinguishes a missing account from a bad password.
type LoginResponse struct {
	Success   bool   `json:"success"`
	Token     string `json:"token,omitempty"`
	Error     string `json:"error,omitempty"`
	AccountID string `json:"accountId,omitempty"`
}
