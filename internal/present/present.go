// Package present holds the formatting helpers used by the HTML pages and
// the CLI: category colours, Spanish dates, read times and view counts.
package present

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultColor is used for categories without an assigned colour.
const DefaultColor = "bg-gray-600"

var categoryColors = map[string]string{
	"Tecnología":    "bg-purple-600",
	"Deportes":      "bg-green-600",
	"Política":      "bg-red-600",
	"Economía":      "bg-blue-600",
	"Cultura":       "bg-orange-600",
	"Ciencia":       "bg-teal-600",
	"Internacional": "bg-pink-600",
	"Opinión":       "bg-indigo-600",
	"Redes":         "bg-cyan-600",
	"Programación":  "bg-violet-600",
}

// CategoryColor returns the background class for a category label.
func CategoryColor(label string) string {
	if c, ok := categoryColors[label]; ok {
		return c
	}
	return DefaultColor
}

// newWindow is how long a post carries the "new" badge.
const newWindow = 48 * time.Hour

// IsNew reports whether a post published at t is less than 48 hours old.
func IsNew(t, now time.Time) bool {
	return now.Sub(t) < newWindow
}

// TimeAgo describes how long ago t was, in Spanish. Anything a week old or
// more is shown as a date.
func TimeAgo(t, now time.Time) string {
	hours := int(now.Sub(t) / time.Hour)
	switch {
	case hours < 1:
		return "Hace menos de 1 hora"
	case hours == 1:
		return "Hace 1 hora"
	case hours < 24:
		return fmt.Sprintf("Hace %d horas", hours)
	}

	days := hours / 24
	switch {
	case days == 1:
		return "Hace 1 día"
	case days < 7:
		return fmt.Sprintf("Hace %d días", days)
	}
	return ShortDate(t)
}

// wordsPerMinute is the assumed reading speed.
const wordsPerMinute = 200

// ReadTime estimates the minutes needed to read text, at least one.
func ReadTime(text string) int {
	words := len(strings.Fields(text))
	return max(1, (words+wordsPerMinute-1)/wordsPerMinute)
}

// FormatNumber abbreviates large counts: 12345 is "12.3k", 1234567 "1.2M".
func FormatNumber(n int) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1000:
		return fmt.Sprintf("%.1fk", float64(n)/1000)
	}
	return fmt.Sprint(n)
}

// Comma writes n with thousands separators.
func Comma(n int) string {
	return humanize.Comma(int64(n))
}

var upper = cases.Upper(language.Spanish)

// Upper upper-cases a headline using Spanish casing rules.
func Upper(s string) string {
	return upper.String(s)
}

// Capitalize upper-cases the first letter of s.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
