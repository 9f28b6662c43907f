package validate

import (
	"strings"
	"testing"
	"unicode"
)

func TestPasswordCheck(t *testing.T) {
	p := DefaultPasswordPolicy

	if msg := p.Check("Str0ng!pass", true); msg != "" {
		t.Fatalf("valid password rejected: %q", msg)
	}
	if msg := p.Check("", true); msg != "Password is required" {
		t.Fatalf("got %q", msg)
	}
	if msg := p.Check("", false); msg != "" {
		t.Fatalf("optional empty password rejected: %q", msg)
	}
	if msg := p.Check("Ab1!", true); !strings.Contains(msg, "at least 8") {
		t.Fatalf("short password: %q", msg)
	}
	if msg := p.Check(strings.Repeat("Aa1!", 40), true); !strings.Contains(msg, "no more than") {
		t.Fatalf("long password: %q", msg)
	}
}

func TestPasswordCheckNamesMissingClasses(t *testing.T) {
	p := DefaultPasswordPolicy

	msg := p.Check("alllowercase1!", true)
	if !strings.Contains(msg, "uppercase") {
		t.Fatalf("missing uppercase not reported: %q", msg)
	}
	msg = p.Check("NoDigitsHere!", true)
	if !strings.Contains(msg, "number") {
		t.Fatalf("missing digit not reported: %q", msg)
	}
	msg = p.Check("NoSpecials123", true)
	if !strings.Contains(msg, "special character") {
		t.Fatalf("missing special not reported: %q", msg)
	}
}

func TestPasswordStrength(t *testing.T) {
	p := DefaultPasswordPolicy

	if got := p.Strength(""); got != 0 {
		t.Fatalf("empty password strength = %d", got)
	}
	weak := p.Strength("abc")
	strong := p.Strength("Correct-Horse-B4ttery!")
	if strong != 4 {
		t.Fatalf("strong password scored %d", strong)
	}
	if weak >= strong {
		t.Fatalf("weak %d not below strong %d", weak, strong)
	}

	if StrengthLabel(0) != "Very Weak" || StrengthLabel(4) != "Strong" {
		t.Fatal("unexpected strength labels")
	}
}

func TestGeneratePassword(t *testing.T) {
	pwd, err := GeneratePassword(16)
	if err != nil {
		t.Fatal(err)
	}
	if len(pwd) != 16 {
		t.Fatalf("length = %d", len(pwd))
	}
	if msg := DefaultPasswordPolicy.Check(pwd, true); msg != "" {
		t.Fatalf("generated password fails policy: %q", msg)
	}
	if !strings.ContainsFunc(pwd, unicode.IsLower) ||
		!strings.ContainsFunc(pwd, unicode.IsUpper) ||
		!strings.ContainsFunc(pwd, unicode.IsDigit) {
		t.Fatalf("generated password missing a character class: %q", pwd)
	}

	short, err := GeneratePassword(3)
	if err != nil {
		t.Fatal(err)
	}
	if len(short) < DefaultPasswordPolicy.MinLength {
		t.Fatalf("below-minimum request produced %d characters", len(short))
	}
}
