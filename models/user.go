package models

import "time"

// SecurityQuestionCount is the fixed number of security question slots per
// account.
const SecurityQuestionCount = 3

// RoleUser is the default role assigned at registration.
const RoleUser = "user"

// User represents a farmer account used for authentication and the
// security-question password reset flow.
// Sensitive fields are never serialized to JSON.
type User struct {
	// UserID is the UUIDv7 identifier of the account.
	UserID string `json:"id"`

	// Email is the unique login identifier.
	Email string `json:"email"`

	// Name is the display name shown in the mobile application.
	Name string `json:"name"`

	// Role is the authorization role, "user" unless changed out of band.
	Role string `json:"role"`

	// PasswordHash is the bcrypt digest of the account password.
	PasswordHash string `json:"-"`

	// SecurityQuestions holds up to three question texts. An empty slot is
	// not configured.
	SecurityQuestions [SecurityQuestionCount]string `json:"-"`

	// SecurityAnswerHashes holds the bcrypt digests of the normalized
	// answers, aligned with SecurityQuestions.
	SecurityAnswerHashes [SecurityQuestionCount]string `json:"-"`

	// ResetToken is the last issued password-reset token, empty when none
	// is pending. Set together with ResetTokenExpires.
	ResetToken string `json:"-"`

	// ResetTokenExpires is the UTC expiry of ResetToken, nil when none is
	// pending.
	ResetTokenExpires *time.Time `json:"-"`

	// CreatedAt is the registration time.
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}

// HasSecurityQuestion reports whether slot index holds both a question and
// an answer digest.
func (u User) HasSecurityQuestion(index int) bool {
	if index < 0 || index >= SecurityQuestionCount {
		return false
	}
	return u.SecurityQuestions[index] != "" && u.SecurityAnswerHashes[index] != ""
}

// ConfiguredSecurityQuestions returns the non-empty question slots with their
// indexes, in index order.
func (u User) ConfiguredSecurityQuestions() []SecurityQuestion {
	questions := make([]SecurityQuestion, 0, SecurityQuestionCount)
	for i, q := range u.SecurityQuestions {
		if q != "" {
			questions = append(questions, SecurityQuestion{Question: q, Index: i})
		}
	}
	return questions
}

// ActiveResetToken returns the pending reset token if one exists and has not
// expired at now.
func (u User) ActiveResetToken(now time.Time) (string, bool) {
	if u.ResetToken == "" || u.ResetTokenExpires == nil {
		return "", false
	}
	if !now.Before(*u.ResetTokenExpires) {
		return "", false
	}
	return u.ResetToken, true
}

// SecurityQuestion is a configured question exposed during password
// recovery. Index is the slot number (0, 1 or 2).
type SecurityQuestion struct {
	Question string `json:"question"`
	Index    int    `json:"index"`
}

// SecurityQuestionAnswer is a question with its plaintext answer as
// supplied by the user at registration or when replacing the set.
type SecurityQuestionAnswer struct {
	Question string `json:"question" validate:"required,notblank,max=255"`
	Answer   string `json:"answer" validate:"required,notblank,max=255"`
}
