package rules

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

const (
	UsernameMinLength = 3
	UsernameMaxLength = 20
)

var (
	usernamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_]*$`)
	nonAlnum        = regexp.MustCompile(`[^a-z0-9]`)

	ErrUsernameLength  = fmt.Errorf("username must be %d-%d characters", UsernameMinLength, UsernameMaxLength)
	ErrUsernameCharset = errors.New("username may only contain lowercase letters, numbers and underscores, and must start with a letter or number")
)

// NormalizeUsername trims and lower-cases raw.
func NormalizeUsername(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// ValidateUsername checks an already normalised username.
func ValidateUsername(username string) error {
	if len(username) < UsernameMinLength || len(username) > UsernameMaxLength {
		return ErrUsernameLength
	}
	if !usernamePattern.MatchString(username) {
		return ErrUsernameCharset
	}
	return nil
}

// TempUsername builds the placeholder requested for students that signed up
// without one: the sanitised e-mail local part, an underscore and a number in
// [1000, 9999]. intn must behave like rand.Intn.
func TempUsername(email string, intn func(int) int) string {
	local := strings.ToLower(email)
	if at := strings.IndexByte(local, '@'); at >= 0 {
		local = local[:at]
	}
	local = nonAlnum.ReplaceAllString(local, "")
	suffix := fmt.Sprintf("_%d", 1000+intn(9000))
	if limit := UsernameMaxLength - len(suffix); len(local) > limit {
		local = local[:limit]
	}
	if local == "" {
		local = "paw"
	}
	return local + suffix
}
