package http

import (
	"regexp"

	"github.com/launchpad-starter/launchpad/internal/forms"
)

var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

func loginSchema() forms.Schema {
	return forms.Schema{
		{Name: "email", Rules: []forms.Rule{
			forms.Required("Email is required"),
			forms.Email("Invalid email address"),
		}},
		{Name: "password", Rules: []forms.Rule{
			forms.Required("Password is required"),
		}},
	}
}

func registerSchema() forms.Schema {
	return forms.Schema{
		{Name: "username", Rules: []forms.Rule{
			forms.Required("Username is required"),
			forms.MinLen(3, "Username must be at least 3 characters"),
			forms.MaxLen(50, "Username must be less than 50 characters"),
			forms.Match(usernameRe, "Username can only contain letters, numbers, underscores and dashes"),
		}},
		{Name: "email", Rules: []forms.Rule{
			forms.Required("Email is required"),
			forms.Email("Invalid email address"),
		}},
		{Name: "password", Rules: []forms.Rule{
			forms.Required("Password is required"),
			forms.MinLen(8, "Password must be at least 8 characters"),
			forms.HasUpper("Password must contain at least one uppercase letter"),
			forms.HasLower("Password must contain at least one lowercase letter"),
			forms.HasDigit("Password must contain at least one number"),
			forms.HasSpecial("Password must contain at least one special character"),
		}},
	}
}
