package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCampaignResult_Successful(t *testing.T) {
	result := &CampaignResult{
		Status:   CampaignPartial,
		Canceled: true,
		Creatives: []CreativeResult{
			{ID: "c1", Success: true},
			{ID: "c2", Error: "render timed out"},
			{ID: "c3", Success: true},
		},
	}

	got := result.Successful()
	assert.Len(t, got, 2)
	assert.Equal(t, "c1", got[0].ID)
	assert.Equal(t, "c3", got[1].ID)
	assert.Empty(t, (&CampaignResult{}).Successful())
}
