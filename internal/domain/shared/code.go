package shared

import (
	"regexp"
	"strings"
)

var codePattern = regexp.MustCompile(`^[A-Z0-9][A-Z0-9_-]*$`)

// NormalizeCode trims and upper-cases a business code and checks its shape
func NormalizeCode(code string, maxLen int) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return "", NewValidationError("code cannot be empty")
	}
	if len(code) > maxLen {
		return "", NewValidationError("code cannot exceed %d characters", maxLen)
	}
	if !codePattern.MatchString(code) {
		return "", NewValidationError("code may only contain letters, digits, '-' and '_'")
	}
	return code, nil
}

// RequireName trims a display name and checks its length
func RequireName(name string, maxLen int) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", NewValidationError("name cannot be empty")
	}
	if len(name) > maxLen {
		return "", NewValidationError("name cannot exceed %d characters", maxLen)
	}
	return name, nil
}
