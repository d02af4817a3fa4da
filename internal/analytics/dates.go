package analytics

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/sells-group/leadtrack/internal/model"
)

// dateLayouts are the reply-time formats seen in lead sheets. Layouts
// without a zone parse as UTC.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/01/02",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/2006 3:04:05 PM",
	"1/2/2006 3:04 PM",
	"1/2/2006",
	"Jan 2, 2006 3:04:05 PM",
	"Jan 2, 2006 3:04 PM",
	"Jan 2, 2006",
	"January 2, 2006 3:04 PM",
	"January 2, 2006",
	"2 Jan 2006",
	"2 January 2006",
	"Mon, Jan 2, 2006 3:04 PM",
	"Mon, Jan 2, 2006 at 3:04 PM",
	time.RFC1123Z,
	time.RFC1123,
	time.RFC850,
	time.ANSIC,
}

// Serial day numbers are only accepted inside this range (1927 to 9999) so
// stray counts are not read as dates.
const (
	minSerialDay = 10000
	maxSerialDay = 2958465
)

// ParseDate parses a reply timestamp, reading zoneless text as UTC. It
// reports false for blank or unrecognized text.
func ParseDate(s string) (time.Time, bool) {
	return ParseDateIn(s, time.UTC)
}

// ParseDateIn is ParseDate with zoneless text read as wall clock in loc.
// Text that carries an offset keeps it.
func ParseDateIn(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f >= minSerialDay && f <= maxSerialDay {
		days := math.Floor(f)
		frac := time.Duration((f - days) * float64(24*time.Hour))
		epoch := time.Date(1899, time.December, 30, 0, 0, 0, 0, loc)
		return epoch.AddDate(0, 0, int(days)).Add(frac).Round(time.Second), true
	}
	return time.Time{}, false
}

// ReplyDate resolves a lead's reply date: the first of TimeWeGotReply and
// ReplyTime that parses, not merely the first that is non-empty.
func ReplyDate(l model.Lead) (time.Time, bool) {
	if t, ok := ParseDate(l.TimeWeGotReply); ok {
		return t, true
	}
	return ParseDate(l.ReplyTime)
}

// monthKey formats a date as a zero-padded "YYYY-MM" bucket in the
// timestamp's own wall clock.
func monthKey(t time.Time) string {
	return t.Format("2006-01")
}
