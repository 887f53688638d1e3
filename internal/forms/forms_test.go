package forms

import (
	"net/url"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAccumulatesAllRuleFailures(t *testing.T) {
	schema := Schema{
		{Name: "name", Rules: []Rule{
			Required("name required"),
			MinLen(3, "name too short"),
		}},
	}

	res := schema.Parse(url.Values{"name": {"ab"}})

	require.False(t, res.Valid())
	assert.Equal(t, []string{"name too short"}, res.FieldErrors["name"])

	res = schema.Parse(url.Values{})
	require.False(t, res.Valid())
	// Required fires; MinLen skips empty values so Required stays the only message.
	assert.Equal(t, []string{"name required"}, res.FieldErrors["name"])
}

func TestParseTrimsWhitespace(t *testing.T) {
	schema := Schema{{Name: "name", Rules: []Rule{Required("required")}}}

	res := schema.Parse(url.Values{"name": {"   "}})
	assert.False(t, res.Valid())

	res = schema.Parse(url.Values{"name": {"  hello  "}})
	require.True(t, res.Valid())
	assert.Equal(t, "hello", res.Get("name"))
}

func TestOptionalFieldSkipsRulesWhenEmpty(t *testing.T) {
	schema := Schema{
		{Name: "note", Optional: true, Rules: []Rule{MinLen(5, "too short")}},
	}

	res := schema.Parse(url.Values{})
	assert.True(t, res.Valid())

	res = schema.Parse(url.Values{"note": {"abc"}})
	assert.False(t, res.Valid())
}

func TestDateRule(t *testing.T) {
	rule := Date("bad date")

	assert.Empty(t, rule("2024-03-15"))
	assert.Equal(t, "bad date", rule("not-a-date"))
	assert.Equal(t, "bad date", rule("15/03/2024"))
}

func TestPositiveNumberRule(t *testing.T) {
	rule := PositiveNumber("bad number")

	assert.Empty(t, rule("1000"))
	assert.Empty(t, rule("0.5"))
	assert.Equal(t, "bad number", rule("-5"))
	assert.Equal(t, "bad number", rule("0"))
	assert.Equal(t, "bad number", rule("abc"))
}

func TestEmailRule(t *testing.T) {
	rule := Email("bad email")

	assert.Empty(t, rule("user@example.com"))
	assert.Equal(t, "bad email", rule("user@"))
	assert.Equal(t, "bad email", rule("not-an-email"))
}

func TestPasswordCharacterClasses(t *testing.T) {
	schema := Schema{
		{Name: "password", Rules: []Rule{
			Required("required"),
			MinLen(8, "min"),
			HasUpper("upper"),
			HasLower("lower"),
			HasDigit("digit"),
			HasSpecial("special"),
		}},
	}

	res := schema.Parse(url.Values{"password": {"alllowercase"}})
	require.False(t, res.Valid())
	assert.ElementsMatch(t, []string{"upper", "digit", "special"}, res.FieldErrors["password"])

	res = schema.Parse(url.Values{"password": {"Str0ng!pass"}})
	assert.True(t, res.Valid())
}

func TestMatchSkipsEmpty(t *testing.T) {
	rule := Match(regexp.MustCompile(`^[a-z]+$`), "letters only")

	assert.Empty(t, rule(""))
	assert.Empty(t, rule("abc"))
	assert.Equal(t, "letters only", rule("abc123"))
}

func TestCoercionHelpers(t *testing.T) {
	schema := Schema{
		{Name: "start_date", Rules: []Rule{Date("bad")}},
		{Name: "budget", Rules: []Rule{PositiveNumber("bad")}},
		{Name: "is_public", Optional: true},
	}

	res := schema.Parse(url.Values{
		"start_date": {"2024-06-01"},
		"budget":     {"2500.50"},
		"is_public":  {"on"},
	})
	require.True(t, res.Valid())

	assert.Equal(t, 2024, res.Date("start_date").Year())
	assert.InDelta(t, 2500.50, res.Float("budget"), 0.001)
	assert.True(t, res.Bool("is_public"))

	res = schema.Parse(url.Values{"start_date": {"2024-06-01"}, "budget": {"1"}})
	assert.False(t, res.Bool("is_public"))
}

func TestAddFormErrorInvalidatesResult(t *testing.T) {
	res := Schema{}.Parse(url.Values{})
	require.True(t, res.Valid())

	res.AddFormError("upstream failed")
	assert.False(t, res.Valid())
	assert.Equal(t, []string{"upstream failed"}, res.FormErrors)
}
