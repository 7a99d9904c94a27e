package request

// CreateSessionRequest represents the request body for creating a session
type CreateSessionRequest struct {
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	AuthCode *string `json:"authCode,omitempty"`
}

// VerifyAuthCodeRequest represents the request body for checking a session's auth code
type VerifyAuthCodeRequest struct {
	AuthCode string `json:"authCode"`
}
