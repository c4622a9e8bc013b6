package models

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// MessageResponse carries a human-readable confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

// TokenResponse is returned by a successful login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// ForgotPasswordResponse is returned by POST /auth/forgot-password. The
// token is only present when the account exists.
type ForgotPasswordResponse struct {
	Message    string `json:"message"`
	ResetToken string `json:"reset_token,omitempty"`
}

// SecurityQuestionsResponse lists the configured questions of an account.
type SecurityQuestionsResponse struct {
	Questions []SecurityQuestion `json:"questions"`
}

// ResetTokenResponse is returned after a correct security answer.
type ResetTokenResponse struct {
	ResetToken string `json:"reset_token"`
}

// DiseasesResponse lists the distinct disease names a user has scanned.
type DiseasesResponse struct {
	Diseases []string `json:"diseases"`
}

// DeleteScanResponse confirms a scan deletion.
type DeleteScanResponse struct {
	Message       string `json:"message"`
	DeletedScanID string `json:"deleted_scan_id"`
}

// HealthResponse reports liveness and classifier readiness.
type HealthResponse struct {
	Status     string `json:"status"`
	ModelReady bool   `json:"model_ready"`
	Model      string `json:"model"`
	Version    string `json:"version,omitempty"`
}
