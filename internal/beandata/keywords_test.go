package beandata

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/beanhub/backend-go/internal/models"
)

func TestChartRequested(t *testing.T) {
	assert.True(t, ChartRequested("Show me a chart of yields"))
	assert.True(t, ChartRequested("Run a linear regression on maturity"))
	assert.False(t, ChartRequested("Which genes control flowering time?"))
}

func TestIsWeatherQuery(t *testing.T) {
	assert.True(t, IsWeatherQuery("What was the average temperature at Harrow?"))
	assert.True(t, IsWeatherQuery("How much rainfall does Woodstock get?"))
	assert.False(t, IsWeatherQuery("Compare Dynasty and OAC Rex yields"))
}

func TestIsCrossAnalysis(t *testing.T) {
	assert.True(t, IsCrossAnalysis("Which location had the highest average temperature?"))
	assert.True(t, IsCrossAnalysis("What is the warmest location in the trials?"))
	assert.False(t, IsCrossAnalysis("What is the temperature at Harrow?"))
}

func TestWeatherLocation(t *testing.T) {
	tests := []struct {
		bean string
		hist string
		ok   bool
	}{
		{"Brussels", "", false},
		{"Brusselssels", "Brussels", true},
		{"Kempton", "", false},
		{"Harrow-Blyth", "Harrow", true},
		{"AUBN", "Auburn", true},
		{"STHM", "St. Thomas", true},
		// 未映射的地点按原名直查
		{"Elora", "Elora", true},
	}
	for _, tt := range tests {
		hist, ok := weatherLocation(tt.bean)
		assert.Equal(t, tt.hist, hist, tt.bean)
		assert.Equal(t, tt.ok, ok, tt.bean)
	}
}

func TestMentionedCultivars(t *testing.T) {
	names := []string{"Dynasty", "OAC Rex", "Lighthouse"}

	assert.Equal(t, []string{"Dynasty", "OAC Rex"},
		mentionedCultivars("How does dynasty compare to OAC Rex?", names))

	// 整名未命中且分词长度不足4时不算提及
	assert.Empty(t, mentionedCultivars("Tell me about Rex trials", names))

	assert.Equal(t, []string{"Lighthouse"},
		mentionedCultivars("lighthouse yield across years", names))
}

func TestContainsName(t *testing.T) {
	names := []string{"Dynasty", "OAC Rex"}
	assert.True(t, containsName(names, "dynasty"))
	assert.True(t, containsName(names, "oac rex"))
	assert.False(t, containsName(names, "Atlantis"))
}

func TestResistanceTraits(t *testing.T) {
	record := models.TrialRecord{
		CMVR1:        "R",
		AnthR23:      "r",
		CommonBlight: "S",
	}
	assert.Equal(t, []string{"CMV R1", "Anth R23"}, resistanceTraits(record))
	assert.Empty(t, resistanceTraits(models.TrialRecord{}))
}
