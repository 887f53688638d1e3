package projects

import "github.com/launchpad-starter/launchpad/internal/forms"

// NewProjectSchema mirrors the create form. Rules are additive: a budget
// that is both non-numeric and missing a date elsewhere reports everything
// at once.
func NewProjectSchema() forms.Schema {
	return forms.Schema{
		{Name: "name", Rules: []forms.Rule{
			forms.Required("Project name is required"),
			forms.MinLen(3, "Project name must be at least 3 characters"),
			forms.MaxLen(50, "Project name must be less than 50 characters"),
		}},
		{Name: "description", Rules: []forms.Rule{
			forms.Required("Description is required"),
			forms.MinLen(10, "Description must be at least 10 characters"),
			forms.MaxLen(500, "Description must be less than 500 characters"),
		}},
		{Name: "start_date", Rules: []forms.Rule{
			forms.Required("Start date is required"),
			forms.Date("Please enter a valid date"),
		}},
		{Name: "budget", Rules: []forms.Rule{
			forms.Required("Budget is required"),
			forms.PositiveNumber("Please enter a valid budget amount"),
		}},
		{Name: "is_public", Optional: true},
	}
}
