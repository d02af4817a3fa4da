package leads

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadtrack/internal/model"
)

var testHeaders = []string{"Lead Email", "Lead Name", "Client Tag", "Duplicate Check", "Status", "Current Category"}

func TestNormalizeRow_Accepted(t *testing.T) {
	m := BuildHeaderMap(testHeaders)
	lead, ok := NormalizeRow([]string{"a@b.com", "Ann", "Acme", "", "Quality Lead", "Interested"}, m, "sheet-1", "Leads")
	require.True(t, ok)
	assert.Equal(t, "a@b.com", lead.Email)
	assert.Equal(t, "Ann", lead.Name)
	assert.Equal(t, "Acme", lead.ClientTag)
	assert.Equal(t, model.LeadStatus("Quality Lead"), lead.Status)
	assert.Equal(t, "Interested", lead.CurrentCategory)
	assert.Equal(t, "sheet-1", lead.SheetID)
	assert.Equal(t, "Leads", lead.SheetName)
}

func TestNormalizeRow_DuplicateYesRejected(t *testing.T) {
	m := BuildHeaderMap(testHeaders)
	_, ok := NormalizeRow([]string{"a@b.com", "", "", "Yes"}, m, "s", "Leads")
	assert.False(t, ok)
}

func TestNormalizeRow_DuplicateEmptyAccepted(t *testing.T) {
	m := BuildHeaderMap(testHeaders)
	_, ok := NormalizeRow([]string{"a@b.com", "", "", ""}, m, "s", "Leads")
	assert.True(t, ok)
}

func TestNormalizeRow_DuplicateNewAccepted(t *testing.T) {
	m := BuildHeaderMap(testHeaders)
	_, ok := NormalizeRow([]string{"a@b.com", "", "", "  NEW "}, m, "s", "Leads")
	assert.True(t, ok)
}

func TestNormalizeRow_EmailRules(t *testing.T) {
	m := BuildHeaderMap(testHeaders)
	for _, email := range []string{"", "not-an-email", "   "} {
		_, ok := NormalizeRow([]string{email}, m, "s", "Leads")
		assert.False(t, ok, "email %q", email)
	}
}

func TestNormalizeRow_ShortRowAndMissingColumns(t *testing.T) {
	m := BuildHeaderMap([]string{"Lead Email", "Status"})
	lead, ok := NormalizeRow([]string{"x@y.io"}, m, "s", "Leads")
	require.True(t, ok)
	assert.Empty(t, lead.Status)
	assert.Empty(t, lead.Company)
	assert.Empty(t, lead.Phone)
}

func TestNormalizeRow_Deterministic(t *testing.T) {
	m := BuildHeaderMap(testHeaders)
	row := []string{"a@b.com", "Ann", "Acme", "new", "Undetermined"}
	first, ok1 := NormalizeRow(row, m, "s", "Leads")
	second, ok2 := NormalizeRow(row, m, "s", "Leads")
	assert.Equal(t, ok1, ok2)
	assert.Equal(t, first, second)
}

func TestNormalizeRows(t *testing.T) {
	data := &model.SheetData{
		Headers: testHeaders,
		Rows: [][]string{
			{"one@x.com", "One"},
			{"bad", "Bad"},
			{"two@x.com", "Two", "", "Duplicate"},
			{"three@x.com", "Three", "", "new"},
		},
	}
	got := NormalizeRows(data, "s", "Leads")
	require.Len(t, got, 2)
	assert.Equal(t, "One", got[0].Name)
	assert.Equal(t, "Three", got[1].Name)
}

func TestNormalizeRows_Nil(t *testing.T) {
	got := NormalizeRows(nil, "s", "Leads")
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
