package leads

import (
	"strings"

	"github.com/sells-group/leadtrack/internal/model"
)

// NormalizeRow builds a lead from one raw row. It returns false when the row
// is rejected: the email is missing or has no "@", or the duplicate-check
// flag is set to anything other than "new".
func NormalizeRow(row []string, m HeaderMap, sheetID, sheetName string) (model.Lead, bool) {
	get := func(field string) string {
		idx, ok := m[field]
		if !ok || idx < 0 || idx >= len(row) {
			return ""
		}
		return row[idx]
	}

	lead := model.Lead{
		Email:               get(FieldEmail),
		Name:                get(FieldName),
		Company:             get(FieldCompany),
		TimeWeGotReply:      get(FieldTimeWeGotReply),
		ReplyTime:           get(FieldReplyTime),
		City:                get(FieldCity),
		Address:             get(FieldAddress),
		GoogleMapsURL:       get(FieldGoogleMapsURL),
		State:               get(FieldState),
		Phone:               get(FieldPhone),
		CurrentCategory:     get(FieldCurrentCategory),
		ClientTag:           get(FieldClientTag),
		SenderEmail:         get(FieldSenderEmail),
		ReplyContent:        get(FieldReplyContent),
		ProspectCCEmail:     get(FieldProspectCCEmail),
		OurLastReply:        get(FieldOurLastReply),
		CCEmail1:            get(FieldCCEmail1),
		CCEmail2:            get(FieldCCEmail2),
		DuplicateCheck:      get(FieldDuplicateCheck),
		Status:              model.LeadStatus(get(FieldStatus)),
		Notes:               get(FieldNotes),
		AttemptCount:        get(FieldAttemptCount),
		QualityLeadCriteria: get(FieldQualityLeadCriteria),
		SheetID:             sheetID,
		SheetName:           sheetName,
	}

	return lead, Accept(lead)
}

// Accept reports whether a lead passes the inclusion filter.
func Accept(l model.Lead) bool {
	if l.Email == "" || !strings.Contains(l.Email, "@") {
		return false
	}
	dup := strings.ToLower(strings.TrimSpace(l.DuplicateCheck))
	return dup == "" || dup == "new"
}

// NormalizeRows maps every data row of a tab and keeps the accepted leads in
// row order.
func NormalizeRows(data *model.SheetData, sheetID, sheetName string) []model.Lead {
	if data == nil {
		return []model.Lead{}
	}
	m := BuildHeaderMap(data.Headers)
	out := make([]model.Lead, 0, len(data.Rows))
	for _, row := range data.Rows {
		if lead, ok := NormalizeRow(row, m, sheetID, sheetName); ok {
			out = append(out, lead)
		}
	}
	return out
}
