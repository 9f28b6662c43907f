package validate

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"unicode"
)

// PasswordPolicy is the platform-wide password requirement set, shared by the
// user and profile forms so every screen enforces the same rules.
type PasswordPolicy struct {
	MinLength      int
	MaxLength      int
	RequireLower   bool
	RequireUpper   bool
	RequireNumber  bool
	RequireSpecial bool
	SpecialChars   string
}

var DefaultPasswordPolicy = PasswordPolicy{
	MinLength:      8,
	MaxLength:      128,
	RequireLower:   true,
	RequireUpper:   true,
	RequireNumber:  true,
	RequireSpecial: true,
	SpecialChars:   `@$!%*?&#+=-_.,;:()[]{}|\/"'` + "`~^<>",
}

// Check validates a password against the policy. required controls whether an
// empty password is an error (edit forms leave it blank to keep the current
// one). Returns "" when valid.
func (p PasswordPolicy) Check(password string, required bool) string {
	pwd := strings.TrimSpace(password)
	if pwd == "" {
		if required {
			return "Password is required"
		}
		return ""
	}

	if len(pwd) < p.MinLength {
		return fmt.Sprintf("Password must be at least %d characters long", p.MinLength)
	}
	if len(pwd) > p.MaxLength {
		return fmt.Sprintf("Password must be no more than %d characters long", p.MaxLength)
	}

	var missing []string
	if p.RequireLower && !strings.ContainsFunc(pwd, unicode.IsLower) {
		missing = append(missing, "one lowercase letter")
	}
	if p.RequireUpper && !strings.ContainsFunc(pwd, unicode.IsUpper) {
		missing = append(missing, "one uppercase letter")
	}
	if p.RequireNumber && !strings.ContainsFunc(pwd, unicode.IsDigit) {
		missing = append(missing, "one number")
	}
	if p.RequireSpecial && !strings.ContainsAny(pwd, p.SpecialChars) {
		missing = append(missing, fmt.Sprintf("one special character (%s)", p.SpecialChars))
	}
	if len(missing) > 0 {
		return "Password must contain at least " + strings.Join(missing, ", ")
	}
	return ""
}

// Rule adapts the policy for use in a rule chain.
func (p PasswordPolicy) Rule(required bool) Rule {
	return func(value string) string {
		return p.Check(value, required)
	}
}

// Strength scores a password 0 (weakest) to 4 (strongest): length at minimum,
// length 12+, mixed case, digits, specials.
func (p PasswordPolicy) Strength(password string) int {
	pwd := strings.TrimSpace(password)
	if pwd == "" {
		return 0
	}

	score := 0
	if len(pwd) >= p.MinLength {
		score++
	}
	if len(pwd) >= 12 {
		score++
	}
	if strings.ContainsFunc(pwd, unicode.IsLower) && strings.ContainsFunc(pwd, unicode.IsUpper) {
		score++
	}
	if strings.ContainsFunc(pwd, unicode.IsDigit) {
		score++
	}
	if strings.ContainsAny(pwd, p.SpecialChars) {
		score++
	}
	if score > 4 {
		score = 4
	}
	return score
}

// StrengthLabel maps a strength score to its display label.
func StrengthLabel(score int) string {
	switch {
	case score <= 0:
		return "Very Weak"
	case score == 1:
		return "Weak"
	case score == 2:
		return "Fair"
	case score == 3:
		return "Good"
	default:
		return "Strong"
	}
}

const (
	genLower   = "abcdefghijklmnopqrstuvwxyz"
	genUpper   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	genDigits  = "0123456789"
	genSpecial = "@$!%*?&#+-="
)

// GeneratePassword returns a random password of the given length satisfying
// the default policy, with at least one character from each required class.
func GeneratePassword(length int) (string, error) {
	if length < DefaultPasswordPolicy.MinLength {
		length = 12
	}

	all := genLower + genUpper + genDigits + genSpecial
	out := make([]byte, 0, length)

	for _, class := range []string{genLower, genUpper, genDigits, genSpecial} {
		ch, err := randomChar(class)
		if err != nil {
			return "", err
		}
		out = append(out, ch)
	}
	for len(out) < length {
		ch, err := randomChar(all)
		if err != nil {
			return "", err
		}
		out = append(out, ch)
	}

	// Shuffle so the required classes are not always at the front.
	for i := len(out) - 1; i > 0; i-- {
		j, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return "", err
		}
		out[i], out[j.Int64()] = out[j.Int64()], out[i]
	}
	return string(out), nil
}

func randomChar(set string) (byte, error) {
	i, err := rand.Int(rand.Reader, big.NewInt(int64(len(set))))
	if err != nil {
		return 0, err
	}
	return set[i.Int64()], nil
}
