package helper

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/DimaKostyrskyj/PriceBot/internal/domain"
)

// SplitPair splits a compound "/"-separated form value into exactly two
// trimmed parts. Anything else is a validation error naming the field.
func SplitPair(field, value string) (string, string, error) {
	parts := strings.Split(value, "/")
	if len(parts) != 2 {
		return "", "", &domain.ValidationError{Field: field, Reason: "expected two parts separated by /"}
	}
	left := strings.TrimSpace(parts[0])
	right := strings.TrimSpace(parts[1])
	if left == "" || right == "" {
		return "", "", &domain.ValidationError{Field: field, Reason: "expected two parts separated by /"}
	}
	return left, right, nil
}

// RequireField trims and bounds-checks a form field. Bounds count characters,
// not bytes, matching the modal input limits.
func RequireField(field, value string, maxLen int) (string, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return "", &domain.ValidationError{Field: field, Reason: "required"}
	}
	if utf8.RuneCountInString(v) > maxLen {
		return "", &domain.ValidationError{Field: field, Reason: fmt.Sprintf("must be at most %d characters", maxLen)}
	}
	return v, nil
}

func MentionUser(userID string) string {
	return "<@" + userID + ">"
}

func MentionRole(roleID string) string {
	return "<@&" + roleID + ">"
}

func MentionChannel(channelID string) string {
	return "<#" + channelID + ">"
}
