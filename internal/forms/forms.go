// Package forms validates submitted key/value form fields against a declared
// schema and coerces them into typed values. Validation is pure: rules run
// independently and every failing rule surfaces, not just the first.
package forms

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Rule checks a single raw field value. A Rule returns the message to attach
// when the value fails, or "" when it passes.
type Rule func(value string) string

// Field pairs a form key with the rules applied to it.
type Field struct {
	Name     string
	Optional bool
	Rules    []Rule
}

// Schema is an ordered list of field declarations.
type Schema []Field

// Result carries the submitted values plus any accumulated errors. A Result
// with no errors is terminal-valid; one with errors is terminal-invalid and
// the caller re-renders the form.
type Result struct {
	Values      map[string]string
	FieldErrors map[string][]string
	FormErrors  []string
}

// Parse evaluates every rule of every field against the submission.
func (s Schema) Parse(form url.Values) *Result {
	res := &Result{
		Values:      make(map[string]string, len(s)),
		FieldErrors: make(map[string][]string),
	}

	for _, f := range s {
		value := strings.TrimSpace(form.Get(f.Name))
		res.Values[f.Name] = value

		if value == "" && f.Optional {
			continue
		}

		for _, rule := range f.Rules {
			if msg := rule(value); msg != "" {
				res.FieldErrors[f.Name] = append(res.FieldErrors[f.Name], msg)
			}
		}
	}

	return res
}

// Valid reports whether the submission passed every rule.
func (r *Result) Valid() bool {
	return len(r.FieldErrors) == 0 && len(r.FormErrors) == 0
}

// AddFormError attaches a whole-form error, e.g. an upstream failure.
func (r *Result) AddFormError(msg string) {
	r.FormErrors = append(r.FormErrors, msg)
}

// Get returns the trimmed submitted value for a field.
func (r *Result) Get(name string) string {
	return r.Values[name]
}

// Bool reports whether a checkbox-style field was submitted truthy.
func (r *Result) Bool(name string) bool {
	switch strings.ToLower(r.Values[name]) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

// Date coerces a validated field. Call only after Valid.
func (r *Result) Date(name string) time.Time {
	t, _ := time.Parse(dateLayout, r.Values[name])
	return t
}

// Float coerces a validated field. Call only after Valid.
func (r *Result) Float(name string) float64 {
	v, _ := strconv.ParseFloat(r.Values[name], 64)
	return v
}

// ---------------------------------------------------------------------------
// Rules
// ---------------------------------------------------------------------------

func Required(msg string) Rule {
	return func(v string) string {
		if v == "" {
			return msg
		}
		return ""
	}
}

func MinLen(n int, msg string) Rule {
	return func(v string) string {
		if v != "" && len(v) < n {
			return msg
		}
		return ""
	}
}

func MaxLen(n int, msg string) Rule {
	return func(v string) string {
		if len(v) > n {
			return msg
		}
		return ""
	}
}

// Match applies a regexp to non-empty values; Required covers the empty case.
func Match(re *regexp.Regexp, msg string) Rule {
	return func(v string) string {
		if v != "" && !re.MatchString(v) {
			return msg
		}
		return ""
	}
}

// Date requires a value parseable as YYYY-MM-DD.
func Date(msg string) Rule {
	return func(v string) string {
		if v == "" {
			return ""
		}
		if _, err := time.Parse(dateLayout, v); err != nil {
			return msg
		}
		return ""
	}
}

// PositiveNumber requires a parseable number strictly greater than zero.
func PositiveNumber(msg string) Rule {
	return func(v string) string {
		if v == "" {
			return ""
		}
		n, err := strconv.ParseFloat(v, 64)
		if err != nil || n <= 0 {
			return msg
		}
		return ""
	}
}

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

func Email(msg string) Rule {
	return Match(emailRe, msg)
}

// Password character-class rules used by the registration schema.
var (
	upperRe   = regexp.MustCompile(`[A-Z]`)
	lowerRe   = regexp.MustCompile(`[a-z]`)
	digitRe   = regexp.MustCompile(`[0-9]`)
	specialRe = regexp.MustCompile(`[^A-Za-z0-9]`)
)

func HasUpper(msg string) Rule   { return Match(upperRe, msg) }
func HasLower(msg string) Rule   { return Match(lowerRe, msg) }
func HasDigit(msg string) Rule   { return Match(digitRe, msg) }
func HasSpecial(msg string) Rule { return Match(specialRe, msg) }

// Describe is a debugging aid used in log lines, not user output.
func Describe(r *Result) string {
	if r.Valid() {
		return "valid"
	}
	return fmt.Sprintf("%d field error(s), %d form error(s)", len(r.FieldErrors), len(r.FormErrors))
}
