package models

import (
	"fmt"
	"strings"
)

// Field length limits, matching the persisted column sizes.
const (
	MaxSummaryLen     = 250
	MaxAnswerLen      = 1000
	MaxCommentLen     = 400
	MaxTaglineLen     = 250
	MaxUsernameLen    = 100
	MaxTagNameLen     = 50
	MaxPhotoURLLen    = 255
	MaxEmailLen       = 100
	MinPasswordLength = 8
)

func requiredMsg(field string) string {
	return fmt.Sprintf("%s is required", field)
}

func tooLongMsg(field string, limit int) string {
	return fmt.Sprintf("%s must be at most %d characters", field, limit)
}

// ValidateQuestionFields checks question input and returns per-field
// messages, or nil when the input is clean.
func ValidateQuestionFields(summary, content string) map[string]string {
	fields := make(map[string]string)
	if strings.TrimSpace(summary) == "" {
		fields["summary"] = requiredMsg("summary")
	} else if len(summary) > MaxSummaryLen {
		fields["summary"] = tooLongMsg("summary", MaxSummaryLen)
	}
	if strings.TrimSpace(content) == "" {
		fields["content"] = requiredMsg("content")
	}
	return emptyToNil(fields)
}

// ValidateAnswerContent checks answer input the same way.
func ValidateAnswerContent(content string) map[string]string {
	fields := make(map[string]string)
	if strings.TrimSpace(content) == "" {
		fields["content"] = requiredMsg("content")
	} else if len(content) > MaxAnswerLen {
		fields["content"] = tooLongMsg("content", MaxAnswerLen)
	}
	return emptyToNil(fields)
}

// ValidateCommentContent checks comment input.
func ValidateCommentContent(content string) map[string]string {
	fields := make(map[string]string)
	if strings.TrimSpace(content) == "" {
		fields["content"] = requiredMsg("content")
	} else if len(content) > MaxCommentLen {
		fields["content"] = tooLongMsg("content", MaxCommentLen)
	}
	return emptyToNil(fields)
}

// ValidateRegistration checks signup input. Uniqueness of username and
// email is the store's concern, not this function's.
func ValidateRegistration(username, email, password string) map[string]string {
	fields := make(map[string]string)
	if strings.TrimSpace(username) == "" {
		fields["username"] = requiredMsg("username")
	} else if len(username) > MaxUsernameLen {
		fields["username"] = tooLongMsg("username", MaxUsernameLen)
	}
	if strings.TrimSpace(email) == "" {
		fields["email"] = requiredMsg("email")
	} else if !strings.Contains(email, "@") || len(email) > MaxEmailLen {
		fields["email"] = "email must be a valid address"
	}
	if len(password) < MinPasswordLength {
		fields["password"] = fmt.Sprintf("password must be at least %d characters", MinPasswordLength)
	}
	return emptyToNil(fields)
}

// ValidateProfileUpdate checks the editable profile fields.
func ValidateProfileUpdate(tagline, description, photoURL string) map[string]string {
	fields := make(map[string]string)
	if len(tagline) > MaxTaglineLen {
		fields["tagline"] = tooLongMsg("tagline", MaxTaglineLen)
	}
	if len(photoURL) > MaxPhotoURLLen {
		fields["photo"] = tooLongMsg("photo", MaxPhotoURLLen)
	}
	// description is unbounded text
	return emptyToNil(fields)
}

func emptyToNil(fields map[string]string) map[string]string {
	if len(fields) == 0 {
		return nil
	}
	return fields
}
