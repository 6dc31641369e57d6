package patfile

import (
	"strconv"
	"strings"

	"github.com/jappleby064/pat-database/internal/model"
)

// unitSuffixes lists the unit tokens testers append to readings, longest
// first so "VA" and "mA" win over a bare "A".
var unitSuffixes = []string{"MEG", "MΩ", "DEG", "mA", "VA", "ms", "Ω", "R", "A"}

// StripUnits trims a reading and removes one trailing unit suffix if
// present. Applying it twice is a no-op.
func StripUnits(s string) string {
	s = strings.TrimSpace(s)
	for _, suffix := range unitSuffixes {
		if len(s) >= len(suffix) && strings.EqualFold(s[len(s)-len(suffix):], suffix) {
			s = strings.TrimSpace(s[:len(s)-len(suffix)])
			break
		}
	}
	return s
}

// NormalizePassFail expands the single-letter result codes testers emit.
// Anything other than P or F passes through trimmed but otherwise
// untouched, so measured values survive.
func NormalizePassFail(s string) string {
	t := strings.TrimSpace(s)
	switch strings.ToUpper(t) {
	case "P":
		return model.ResultPass
	case "F":
		return model.ResultFail
	}
	return t
}

// ParseReading extracts a numeric value from a reading's textual form.
// A leading ">" or "<" marks an inequality-bounded reading; the bound
// itself is parsed. Otherwise every character outside [0-9.-] is
// discarded first, so junk input degrades to no value rather than an
// error.
func ParseReading(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	if s[0] == '>' || s[0] == '<' {
		v, err := strconv.ParseFloat(strings.TrimSpace(s[1:]), 64)
		if err != nil {
			return 0, false
		}
		return v, true
	}

	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0, false
	}
	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
