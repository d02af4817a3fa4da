package leads

import "strings"

// IsMeetingReady matches when the category contains "meeting" anywhere,
// case-insensitively ("Meeting-Ready Lead", "meeting booked").
func IsMeetingReady(category string) bool {
	return strings.Contains(strings.ToLower(category), "meeting")
}

// IsInterested matches only a category equal to "interested",
// case-insensitively. "Not Interested" and "interested-ish" do not match.
func IsInterested(category string) bool {
	return strings.ToLower(category) == "interested"
}

// invalidClientTags are category and status words that sometimes land in
// the client column.
var invalidClientTags = map[string]struct{}{
	"meeting-ready":      {},
	"meeting ready":      {},
	"interested":         {},
	"not interested":     {},
	"lead":               {},
	"quality lead":       {},
	"not a quality lead": {},
	"undetermined":       {},
	"duplicated":         {},
	"duplicate":          {},
	"lead not received":  {},
	"unknown":            {},
}

// IsValidClientTag reports whether a tag may identify a client. Blank tags,
// category/status vocabulary and email addresses are rejected.
func IsValidClientTag(tag string) bool {
	t := strings.TrimSpace(tag)
	if t == "" || strings.Contains(t, "@") {
		return false
	}
	_, bad := invalidClientTags[strings.ToLower(t)]
	return !bad
}
