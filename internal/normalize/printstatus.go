package normalize

import (
	"time"

	"cardvault/internal/models"
)

// StatusForReleaseDate derives a print status from set age alone:
// vintage beyond vintageMonths, out_of_print beyond outOfPrintMonths,
// current otherwise. Sets with unparseable dates are treated as current —
// the same "don't act on bad data" rule the age filter follows. The
// "limited" status is only ever assigned manually.
func StatusForReleaseDate(releaseDate string, now time.Time, outOfPrintMonths, vintageMonths int) string {
	t, ok := ParseReleaseDate(releaseDate)
	if !ok {
		return models.PrintStatusCurrent
	}
	if vintageMonths > 0 && t.Before(CutoffDate(now, vintageMonths)) {
		return models.PrintStatusVintage
	}
	if outOfPrintMonths > 0 && t.Before(CutoffDate(now, outOfPrintMonths)) {
		return models.PrintStatusOutOfPrint
	}
	return models.PrintStatusCurrent
}

// InPrint reports whether a print status counts as commercially available.
func InPrint(status string) bool {
	return status == models.PrintStatusCurrent || status == models.PrintStatusLimited
}
