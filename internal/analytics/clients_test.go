package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/leadtrack/internal/model"
)

func TestClients(t *testing.T) {
	sheets := []model.TrackedSheet{
		{ID: "s1", ClientTag: "Acme"},
		{ID: "s2", ClientTag: " Acme "},
		{ID: "s3", ClientTag: "Quiet Co"},
		{ID: "s4", ClientTag: "owner@acme.com"},
		{ID: "s5", ClientTag: ""},
	}
	in := []model.Lead{
		lead("Acme", "Quality Lead", "", ""),
		lead("Acme ", "Quality Lead, Undetermined", "", ""),
		lead("Globex", "quality lead", "", ""),
		lead("Globex", "", "", ""),
		lead("Globex", "", "", ""),
		lead("Not Interested", "Quality Lead", "", ""),
	}

	got := Clients(in, sheets)
	assert.Equal(t, []model.ClientSummary{
		{ClientTag: "Globex", TotalLeads: 3, QualityLeads: 1, QualityPercentage: 33},
		{ClientTag: "Acme", Sheets: 2, TotalLeads: 2, QualityLeads: 1, QualityPercentage: 50},
		{ClientTag: "Quiet Co", Sheets: 1},
	}, got)
}

func TestClients_Empty(t *testing.T) {
	got := Clients(nil, nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestClients_TrimsWhileComputeKeepsRawTag(t *testing.T) {
	in := []model.Lead{
		lead(" Acme", "Quality Lead", "", ""),
		lead("Acme", "", "", ""),
	}

	dir := Clients(in, nil)
	assert.Equal(t, []model.ClientSummary{
		{ClientTag: "Acme", TotalLeads: 2, QualityLeads: 1, QualityPercentage: 50},
	}, dir)

	snap := Compute(in, "")
	assert.Equal(t, []model.ClientCount{
		{Client: " Acme", Count: 1},
		{Client: "Acme", Count: 1},
	}, snap.LeadsByClient)
	assert.Len(t, snap.TopClients, 2)
}
