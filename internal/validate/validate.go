// Package validate provides the client-side field validation used by console
// forms: composable rules, uniqueness checks against already-loaded records,
// expression-based custom rules, and the password policy.
package validate

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Rule checks a single field value. It returns "" when the value passes, or a
// human-readable message. Rules never fail hard; a broken custom rule reports
// itself as a message.
type Rule func(value string) string

// Combine runs rules in order and returns the first failure.
func Combine(rules ...Rule) Rule {
	return func(value string) string {
		for _, rule := range rules {
			if msg := rule(value); msg != "" {
				return msg
			}
		}
		return ""
	}
}

// Required rejects empty or whitespace-only values.
func Required(field string) Rule {
	return func(value string) string {
		if strings.TrimSpace(value) == "" {
			return fmt.Sprintf("%s is required", displayName(field))
		}
		return ""
	}
}

// MinLen rejects non-empty values shorter than n. Empty values pass so the
// rule composes with Required.
func MinLen(field string, n int) Rule {
	return func(value string) string {
		if value != "" && len(value) < n {
			return fmt.Sprintf("%s must be at least %d characters", displayName(field), n)
		}
		return ""
	}
}

// MaxLen rejects values longer than n.
func MaxLen(field string, n int) Rule {
	return func(value string) string {
		if len(value) > n {
			return fmt.Sprintf("%s must be no more than %d characters", displayName(field), n)
		}
		return ""
	}
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Email accepts empty values (compose with Required) and otherwise requires a
// plausible address shape.
func Email() Rule {
	return func(value string) string {
		if value != "" && !emailPattern.MatchString(value) {
			return "Please enter a valid email address"
		}
		return ""
	}
}

// Unique rejects values already taken by another record in items. field is
// the attribute to compare, idField identifies records so that editing a
// record does not collide with itself. Comparison is case-insensitive unless
// caseSensitive is set.
func Unique(field, idField string, items []map[string]any, current map[string]any, caseSensitive bool) Rule {
	return func(value string) string {
		if value == "" {
			return ""
		}
		want := value
		if !caseSensitive {
			want = strings.ToLower(want)
		}
		var currentID any
		if current != nil {
			currentID = current[idField]
		}
		for _, item := range items {
			got, _ := item[field].(string)
			if got == "" {
				continue
			}
			if !caseSensitive {
				got = strings.ToLower(got)
			}
			if got != want {
				continue
			}
			if currentID != nil && item[idField] == currentID {
				continue // the record being edited
			}
			return fmt.Sprintf("This %s is already taken", displayName(field))
		}
		return ""
	}
}

// exprCache holds compiled custom-rule programs keyed by expression. Rules
// may run from concurrent goroutines; the mutex guards the map, and compiled
// programs are themselves safe for concurrent Run.
var (
	exprCacheMu sync.Mutex
	exprCache   = map[string]*vm.Program{}
)

func compiledRule(expression string) (*vm.Program, error) {
	exprCacheMu.Lock()
	defer exprCacheMu.Unlock()
	prog, ok := exprCache[expression]
	if !ok {
		var err error
		prog, err = expr.Compile(expression, expr.AsBool())
		if err != nil {
			return nil, err
		}
		exprCache[expression] = prog
	}
	return prog, nil
}

// Expr builds a rule from an expr-lang boolean expression evaluated with the
// field value bound as "value". The rule passes when the expression is true.
// Compile and run errors surface as the rule's message so a bad expression is
// visible instead of silently passing.
func Expr(expression, message string) Rule {
	return func(value string) string {
		prog, err := compiledRule(expression)
		if err != nil {
			return fmt.Sprintf("invalid validation rule: %v", err)
		}

		result, err := expr.Run(prog, map[string]any{"value": value})
		if err != nil {
			return fmt.Sprintf("invalid validation rule: %v", err)
		}
		if ok, _ := result.(bool); !ok {
			return message
		}
		return ""
	}
}

func displayName(field string) string {
	return strings.ReplaceAll(field, "_", " ")
}
