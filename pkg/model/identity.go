package model

// Identity is the already-verified caller supplied by the user service.
// The booking service trusts it and performs no further checks.
type Identity struct {
	UserID      string `json:"user_id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}
