package models

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Email             string                   `json:"email" validate:"required,email,max=255"`
	Name              string                   `json:"name" validate:"max=255"`
	Password          string                   `json:"password" validate:"required,min=8,max=128"`
	SecurityQuestions []SecurityQuestionAnswer `json:"security_questions" validate:"max=3,dive"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ForgotPasswordRequest is the body of POST /auth/forgot-password and
// POST /auth/forgot-password-security-questions.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest is the body of POST /auth/reset-password.
type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password"`
}

// VerifySecurityAnswerRequest is the body of POST /auth/verify-security-answer.
// QuestionIndex is range-checked by the service so that the localized
// message for a bad index is returned.
type VerifySecurityAnswerRequest struct {
	Email         string `json:"email" validate:"required,email"`
	QuestionIndex int    `json:"question_index"`
	Answer        string `json:"answer" validate:"required"`
}

// ResetPasswordSecurityQuestionsRequest is the body of
// POST /auth/reset-password-security-questions.
type ResetPasswordSecurityQuestionsRequest struct {
	Email       string `json:"email" validate:"required,email"`
	ResetToken  string `json:"reset_token" validate:"required"`
	NewPassword string `json:"new_password"`
}

// UpdateProfileRequest is the body of PUT /users/me.
type UpdateProfileRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

// UpdateSecurityQuestionsRequest is the body of PUT /users/me/security-questions.
type UpdateSecurityQuestionsRequest struct {
	SecurityQuestions []SecurityQuestionAnswer `json:"security_questions" validate:"required,min=1,max=3,dive"`
}

// SaveScanRequest is the body of POST /scans.
type SaveScanRequest struct {
	DiseaseName     string  `json:"disease_name" validate:"required,max=255"`
	Confidence      float64 `json:"confidence" validate:"gte=0,lte=100"`
	Recommendations *string `json:"recommendations"`
}
