// Package web owns the server-rendered views: the marketing landing page,
// the auth forms, and the dashboard shell. Templates are embedded so the
// binary is self-contained.
package web

import (
	"embed"
	"html/template"
	"io/fs"
	"math"
	"time"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Static exposes the embedded assets under their URL prefix.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

var funcs = template.FuncMap{
	"date": func(t time.Time) string {
		return t.Format("Jan 2, 2006")
	},
	"money": func(v float64) string {
		return template.HTMLEscapeString(formatMoney(v))
	},
}

// Templates parses the embedded view set. Called once at bootstrap and
// handed to gin's HTML renderer.
func Templates() *template.Template {
	return template.Must(template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.tmpl"))
}

func formatMoney(v float64) string {
	// Grouped dollars, two decimals; enough for display, no i18n.
	s := make([]byte, 0, 24)
	cents := int64(math.Round(v * 100))
	if cents < 0 {
		s = append(s, '-')
		cents = -cents
	}
	whole := cents / 100
	frac := cents % 100

	digits := []byte{}
	if whole == 0 {
		digits = append(digits, '0')
	}
	for n := 0; whole > 0; n++ {
		if n > 0 && n%3 == 0 {
			digits = append([]byte{','}, digits...)
		}
		digits = append([]byte{byte('0' + whole%10)}, digits...)
		whole /= 10
	}

	s = append(s, '$')
	s = append(s, digits...)
	s = append(s, '.', byte('0'+frac/10), byte('0'+frac%10))
	return string(s)
}
