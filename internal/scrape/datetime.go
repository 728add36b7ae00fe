package scrape

import (
	"regexp"
	"strings"
	"time"
)

// dmyDate matches a two-digit day, two-digit month, four-digit year date at
// the start of a canonicalized (dash-separated) stamp.
var dmyDate = regexp.MustCompile(`^(\d{2})-(\d{2})-(\d{4})`)

var stampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// ParseStamp converts a raw date cell and time cell into an absolute
// timestamp in loc. Both cells are normalized like Text, slash separators
// are canonicalized to dashes, and a day-month-year date is reordered to
// year-month-day before parsing. The upstream feeds mix slash- and
// locale-ordered formats inconsistently; this resolves the common case
// without a full format grammar. Returns false when the cells cannot be
// read as a valid instant.
func ParseStamp(dateCell, timeCell string, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.UTC
	}

	stamp := strings.TrimSpace(Text(dateCell) + " " + Text(timeCell))
	stamp = strings.ReplaceAll(stamp, "/", "-")

	if m := dmyDate.FindStringSubmatch(stamp); m != nil {
		stamp = m[3] + "-" + m[2] + "-" + m[1] + stamp[len(m[0]):]
	}

	for _, layout := range stampLayouts {
		if t, err := time.ParseInLocation(layout, stamp, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
