package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBlendScores(t *testing.T) {
	bge := map[string]float64{"a": 1.0, "b": 0.4}
	pub := map[string]float64{"b": 1.0, "c": 0.2}

	combined := BlendScores(bge, pub, 0.5)

	assert.InDelta(t, 0.5, combined["a"], 1e-9)
	assert.InDelta(t, 0.7, combined["b"], 1e-9)
	assert.InDelta(t, 0.1, combined["c"], 1e-9)
}

// 融合得分不超过阈值的来源被丢弃，恰好等于阈值也丢
func TestBlendScoresThreshold(t *testing.T) {
	bge := map[string]float64{"kept": 0.2, "edge": 0.1, "zero": 0.0}
	pub := map[string]float64{}

	combined := BlendScores(bge, pub, 0.5)

	assert.Contains(t, combined, "kept")    // 0.10 > 0.05
	assert.NotContains(t, combined, "edge") // 0.05 == 阈值
	assert.NotContains(t, combined, "zero")
}

func TestBlendScoresAlphaExtremes(t *testing.T) {
	bge := map[string]float64{"a": 0.8}
	pub := map[string]float64{"b": 0.6}

	onlyBGE := BlendScores(bge, pub, 1.0)
	assert.InDelta(t, 0.8, onlyBGE["a"], 1e-9)
	assert.NotContains(t, onlyBGE, "b")

	onlyPub := BlendScores(bge, pub, 0.0)
	assert.InDelta(t, 0.6, onlyPub["b"], 1e-9)
	assert.NotContains(t, onlyPub, "a")
}

func TestRankSources(t *testing.T) {
	combined := map[string]float64{
		"10.1000/c": 0.9,
		"10.1000/a": 0.3,
		"10.1000/b": 0.3,
		"10.1000/d": 0.1,
	}

	ranked := RankSources(combined, 3)

	// 得分相同按标识符升序，排名确定
	assert.Equal(t, []string{"10.1000/c", "10.1000/a", "10.1000/b"}, ranked)
}

func TestRankSourcesNoTruncation(t *testing.T) {
	combined := map[string]float64{"a": 0.2, "b": 0.5}
	assert.Equal(t, []string{"b", "a"}, RankSources(combined, 10))
	assert.Empty(t, RankSources(nil, 5))
}
