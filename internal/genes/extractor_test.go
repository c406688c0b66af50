package genes

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeCompleter struct {
	reply string
	err   error
	asked string
}

func (f *fakeCompleter) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	f.asked = userPrompt
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func factoryFor(completer *fakeCompleter) CompleterFactory {
	return func(apiKey string) Completer { return completer }
}

func TestExtractDictionaryHits(t *testing.T) {
	extractor := NewExtractor(nil, zap.NewNop())

	text := "Markers **BC420** and **SU91** co-localize with WRKY factors."
	symbols, dictHits, modelHits, err := extractor.Extract(context.Background(), text, "")
	require.NoError(t, err)

	assert.Equal(t, []string{"BC420", "SU91", "WRKY"}, symbols)
	for _, symbol := range symbols {
		assert.True(t, dictHits[symbol])
	}
	assert.Empty(t, modelHits)
}

func TestExtractStopwordsExcluded(t *testing.T) {
	extractor := NewExtractor(nil, zap.NewNop())

	symbols, _, _, err := extractor.Extract(context.Background(), "QTL mapping with SNP panels located SU91 near PCR markers.", "")
	require.NoError(t, err)

	assert.Equal(t, []string{"SU91"}, symbols)
}

// 重复出现的符号只保留首次位置
func TestExtractOrderAndDedup(t *testing.T) {
	extractor := NewExtractor(nil, zap.NewNop())

	symbols, _, _, err := extractor.Extract(context.Background(), "SAP6 then BC420 then SAP6 again.", "")
	require.NoError(t, err)

	assert.Equal(t, []string{"SAP6", "BC420"}, symbols)
}

func TestExtractModelFallbackConfirms(t *testing.T) {
	completer := &fakeCompleter{reply: "Xa21"}
	extractor := NewExtractor(factoryFor(completer), zap.NewNop())

	symbols, dictHits, modelHits, err := extractor.Extract(context.Background(), "Resistance locus Xa21 interacts with SU91.", "sk-test")
	require.NoError(t, err)

	assert.Contains(t, completer.asked, "Xa21")
	assert.Equal(t, []string{"Xa21", "SU91"}, symbols)
	assert.True(t, modelHits["Xa21"])
	assert.True(t, dictHits["SU91"])
}

// 模型只能确认候选集中真实存在的token
func TestExtractModelFallbackRejectsFabrication(t *testing.T) {
	completer := &fakeCompleter{reply: "Xa21, MADEUP99"}
	extractor := NewExtractor(factoryFor(completer), zap.NewNop())

	symbols, _, modelHits, err := extractor.Extract(context.Background(), "Locus Xa21 was fine-mapped.", "sk-test")
	require.NoError(t, err)

	assert.Equal(t, []string{"Xa21"}, symbols)
	assert.False(t, modelHits["MADEUP99"])
}

// 兜底模型失败降级为仅词典结果，不算抽取失败
func TestExtractModelFallbackFailureDegrades(t *testing.T) {
	completer := &fakeCompleter{err: errors.New("rate limited")}
	extractor := NewExtractor(factoryFor(completer), zap.NewNop())

	symbols, dictHits, _, err := extractor.Extract(context.Background(), "Xa21 interacts with SU91.", "sk-test")
	require.NoError(t, err)

	assert.Equal(t, []string{"SU91"}, symbols)
	assert.True(t, dictHits["SU91"])
}

func TestExtractPhvulLocus(t *testing.T) {
	extractor := NewExtractor(nil, zap.NewNop())

	symbols, _, _, err := extractor.Extract(context.Background(), "Candidate gene Phvul.010G140000 sits inside the QTL interval.", "")
	require.NoError(t, err)

	assert.Contains(t, symbols, "Phvul.010G140000")
}

func TestAddSymbols(t *testing.T) {
	extractor := NewExtractor(nil, zap.NewNop())
	extractor.AddSymbols([]string{" tfl1 ", ""})

	symbols, _, _, err := extractor.Extract(context.Background(), "The TFL1 allele delays flowering.", "")
	require.NoError(t, err)
	assert.Contains(t, symbols, "TFL1")
}
