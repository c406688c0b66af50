package pipeline

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func match(doi, summary string) Match {
	return Match{Metadata: MatchMetadata{DOI: doi, Summary: summary}}
}

func TestBuildContextExactMatch(t *testing.T) {
	bge := []Match{match("10.1000/a", "summary a"), match("10.1000/b", "summary b")}
	ranked := []string{"10.1000/b", "10.1000/a"}

	context, confirmed := BuildContext(bge, nil, ranked)

	assert.Equal(t, []string{"10.1000/b", "10.1000/a"}, confirmed)
	assert.Equal(t, "[1] Source: 10.1000/b\nsummary b\n\n[2] Source: 10.1000/a\nsummary a", context)
}

// 共享DOI时后写入的PubMedBERT侧摘要覆盖BGE侧
func TestBuildContextPubOverwrites(t *testing.T) {
	bge := []Match{match("10.1000/a", "from bge")}
	pub := []Match{match("10.1000/a", "from pub")}

	context, confirmed := BuildContext(bge, pub, []string{"10.1000/a"})

	assert.Equal(t, []string{"10.1000/a"}, confirmed)
	assert.Contains(t, context, "from pub")
	assert.NotContains(t, context, "from bge")
}

func TestBuildContextFallbackMatching(t *testing.T) {
	bge := []Match{
		match("10.1000/AbC", "case summary"),
		match("10.1000/xyz", "url summary"),
	}
	ranked := []string{
		"10.1000/abc",                   // 大小写不同
		"https://doi.org/10.1000/xyz",   // 带URL前缀
		"10.9999/missing",               // 无法对账
	}

	context, confirmed := BuildContext(bge, nil, ranked)

	// 回退命中时采用字典侧的标识符形式
	assert.Equal(t, []string{"10.1000/AbC", "10.1000/xyz"}, confirmed)

	// 编号密集，从1开始，不为未命中条目留空号
	assert.Contains(t, context, "[1] Source: 10.1000/AbC\ncase summary")
	assert.Contains(t, context, "[2] Source: 10.1000/xyz\nurl summary")
	assert.NotContains(t, context, "[3]")
}

func TestBuildContextSkipsBlankMetadata(t *testing.T) {
	bge := []Match{
		match("", "no doi"),
		match("10.1000/empty", ""),
		match("10.1000/a", "ok"),
	}

	context, confirmed := BuildContext(bge, nil, []string{"10.1000/empty", "10.1000/a"})

	assert.Equal(t, []string{"10.1000/a"}, confirmed)
	assert.Equal(t, "[1] Source: 10.1000/a\nok", context)
}

func TestBuildContextEmptyRanking(t *testing.T) {
	context, confirmed := BuildContext([]Match{match("10.1000/a", "x")}, nil, nil)
	assert.Empty(t, confirmed)
	assert.Empty(t, strings.TrimSpace(context))
}
