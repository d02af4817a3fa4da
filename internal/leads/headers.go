// Package leads turns raw spreadsheet rows into canonical lead records and
// classifies their status and category text.
package leads

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Canonical field names, matching the JSON names on model.Lead.
const (
	FieldEmail               = "email"
	FieldName                = "name"
	FieldCompany             = "company"
	FieldTimeWeGotReply      = "timeWeGotReply"
	FieldReplyTime           = "replyTime"
	FieldCity                = "city"
	FieldAddress             = "address"
	FieldGoogleMapsURL       = "googleMapsUrl"
	FieldState               = "state"
	FieldPhone               = "phone"
	FieldCurrentCategory     = "currentCategory"
	FieldClientTag           = "clientTag"
	FieldSenderEmail         = "senderEmail"
	FieldReplyContent        = "replyContent"
	FieldProspectCCEmail     = "prospectCcEmail"
	FieldOurLastReply        = "ourLastReply"
	FieldCCEmail1            = "ccEmail1"
	FieldCCEmail2            = "ccEmail2"
	FieldDuplicateCheck      = "duplicateCheck"
	FieldStatus              = "status"
	FieldNotes               = "notes"
	FieldAttemptCount        = "attemptCount"
	FieldQualityLeadCriteria = "qualityLeadCriteria"
)

// HeaderAliases maps lowercased header spellings to canonical fields. New
// spreadsheet variants are added here.
var HeaderAliases = map[string]string{
	"lead email":                         FieldEmail,
	"lead name":                          FieldName,
	"company name":                       FieldCompany,
	"company":                            FieldCompany,
	"time we got reply":                  FieldTimeWeGotReply,
	"reply time":                         FieldReplyTime,
	"city":                               FieldCity,
	"state":                              FieldState,
	"address":                            FieldAddress,
	"google maps url":                    FieldGoogleMapsURL,
	"google maps":                        FieldGoogleMapsURL,
	"phone":                              FieldPhone,
	"current lead category":              FieldCurrentCategory,
	"current category":                   FieldCurrentCategory,
	"category":                           FieldCurrentCategory,
	"client tag":                         FieldClientTag,
	"client":                             FieldClientTag,
	"client name":                        FieldClientTag,
	"sender email":                       FieldSenderEmail,
	"reply we got":                       FieldReplyContent,
	"prospect cc email":                  FieldProspectCCEmail,
	"our last reply":                     FieldOurLastReply,
	"cc email 1":                         FieldCCEmail1,
	"cc email 2":                         FieldCCEmail2,
	"duplicate check":                    FieldDuplicateCheck,
	"status (required)":                  FieldStatus,
	"status":                             FieldStatus,
	"notes (required)":                   FieldNotes,
	"notes":                              FieldNotes,
	"# of attempts c&e":                  FieldAttemptCount,
	"# of attempts":                      FieldAttemptCount,
	"quality lead criteria in agreement": FieldQualityLeadCriteria,
	"quality lead criteria":              FieldQualityLeadCriteria,
}

// HeaderMap maps a canonical field to its column index.
type HeaderMap map[string]int

// normalizeHeader folds compatibility characters (non-breaking spaces,
// full-width forms) before trimming and lowercasing.
func normalizeHeader(h string) string {
	return strings.ToLower(strings.TrimSpace(norm.NFKC.String(h)))
}

// BuildHeaderMap resolves each header to a canonical field. When several
// columns resolve to the same field the lowest index is kept. Unknown
// headers are ignored.
func BuildHeaderMap(headers []string) HeaderMap {
	m := make(HeaderMap)
	for i, h := range headers {
		field, ok := HeaderAliases[normalizeHeader(h)]
		if !ok {
			continue
		}
		if _, seen := m[field]; !seen {
			m[field] = i
		}
	}
	return m
}

// HeaderInfo describes how one column resolved.
type HeaderInfo struct {
	Index    int    `json:"index"`
	Column   string `json:"column"`
	Header   string `json:"header"`
	Field    string `json:"field,omitempty"`
	Shadowed bool   `json:"shadowed,omitempty"`
}

// DescribeHeaders reports the resolution of every column. Shadowed marks a
// column whose field was already claimed by an earlier column.
func DescribeHeaders(headers []string) []HeaderInfo {
	m := BuildHeaderMap(headers)
	out := make([]HeaderInfo, 0, len(headers))
	for i, h := range headers {
		info := HeaderInfo{Index: i, Column: ColumnLetter(i), Header: h}
		if field, ok := HeaderAliases[normalizeHeader(h)]; ok {
			info.Field = field
			info.Shadowed = m[field] != i
		}
		out = append(out, info)
	}
	return out
}

// ColumnLetter returns the A1-notation column name for a zero-based index
// (0 → "A", 25 → "Z", 26 → "AA").
func ColumnLetter(i int) string {
	if i < 0 {
		return ""
	}
	var b []byte
	for n := i + 1; n > 0; n = (n - 1) / 26 {
		b = append([]byte{byte('A' + (n-1)%26)}, b...)
	}
	return string(b)
}
