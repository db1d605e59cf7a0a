package normalize

import (
	"regexp"
	"strconv"
	"time"
)

// Providers disagree on date formats: Pokémon uses slashes, everyone else
// dashes. Both parse to the same day.
var releaseDateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
}

// ParseReleaseDate parses a provider release date string. The boolean is
// false when the value is empty or matches no known layout.
func ParseReleaseDate(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range releaseDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// CutoffDate returns "now minus months" using calendar-month arithmetic.
// The day of month is preserved, which can normalize into an adjacent month
// (Mar 31 minus one month is Mar 3); that behavior is accepted, not corrected.
func CutoffDate(now time.Time, months int) time.Time {
	return now.AddDate(0, -months, 0)
}

// SetPassesAge reports whether a set's release date is on or after the
// cutoff. Unparseable dates always pass: bad data is never grounds for
// filtering a set out.
func SetPassesAge(releaseDate string, cutoff time.Time) bool {
	t, ok := ParseReleaseDate(releaseDate)
	if !ok {
		return true
	}
	return !t.Before(cutoff)
}

var setNumberRe = regexp.MustCompile(`(\d+)\s*$`)

// SetNumber extracts the numeric suffix of a set code ("OP05" -> 5,
// "BT7" -> 7). Codes without a trailing number ("P", "PROMO") yield 0.
func SetNumber(code string) int {
	m := setNumberRe.FindStringSubmatch(code)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}

// ApproximateReleaseDate computes a release date for providers that publish
// none: launch date of the line plus (setNumber-1) release intervals. The
// result is an approximation good enough for age filtering and must be
// flagged as estimated wherever it is stored.
func ApproximateReleaseDate(launch time.Time, setNumber, monthsPerSet int) string {
	if setNumber < 1 {
		setNumber = 1
	}
	return launch.AddDate(0, (setNumber-1)*monthsPerSet, 0).Format("2006-01-02")
}
