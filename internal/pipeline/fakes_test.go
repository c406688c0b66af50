package pipeline

import (
	"context"
	"errors"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/beanhub/backend-go/internal/beandata"
	"github.com/beanhub/backend-go/internal/config"
	"github.com/beanhub/backend-go/internal/genes"
)

// fakeEmbedder 返回固定向量
type fakeEmbedder struct {
	vec []float32
	err error
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return f.vec, f.err
}

func (f *fakeEmbedder) Ready() bool { return f.err == nil }

// fakeIndex 按集合名返回预置匹配
type fakeIndex struct {
	results map[string][]Match
	err     error
}

func (f *fakeIndex) Query(ctx context.Context, indexName string, vector []float32, topK int) ([]Match, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.results[indexName], nil
}

// fakeClient 按请求特征路由到预置应答：
// MaxTokens=10是分类器，带Functions是函数调用，分析师人设走analyst，其余走综合
type fakeClient struct {
	classifierReply string
	classifierErr   error
	functionCall    *openai.FunctionCall
	functionErr     error
	analystReply    string
	analystErr      error
	synthesisReply  string
	synthesisErr    error
	streamChunks    []StreamChunk
	streamErr       error
	suggestReply    string
	completeReqs    []CompletionRequest
}

func (f *fakeClient) Complete(ctx context.Context, req CompletionRequest) (*CompletionResult, error) {
	f.completeReqs = append(f.completeReqs, req)
	switch {
	case req.MaxTokens == 10:
		if f.classifierErr != nil {
			return nil, f.classifierErr
		}
		return &CompletionResult{Content: f.classifierReply}, nil
	case len(req.Functions) > 0:
		if f.functionErr != nil {
			return nil, f.functionErr
		}
		return &CompletionResult{FunctionCall: f.functionCall}, nil
	case len(req.Messages) > 0 && req.Messages[0].Content == analystSystemPrompt:
		if f.analystErr != nil {
			return nil, f.analystErr
		}
		return &CompletionResult{Content: f.analystReply}, nil
	case req.MaxTokens == 150:
		return &CompletionResult{Content: f.suggestReply}, nil
	default:
		if f.synthesisErr != nil {
			return nil, f.synthesisErr
		}
		return &CompletionResult{Content: f.synthesisReply}, nil
	}
}

func (f *fakeClient) CompleteStream(ctx context.Context, req CompletionRequest) (<-chan StreamChunk, error) {
	if f.streamErr != nil {
		return nil, f.streamErr
	}
	chunks := make(chan StreamChunk, len(f.streamChunks))
	for _, chunk := range f.streamChunks {
		chunks <- chunk
	}
	close(chunks)
	return chunks, nil
}

// fakeExtractor 返回预置符号
type fakeExtractor struct {
	symbols []string
	err     error
}

func (f *fakeExtractor) Extract(ctx context.Context, text, apiKey string) ([]string, map[string]bool, map[string]bool, error) {
	if f.err != nil {
		return nil, nil, nil, f.err
	}
	return f.symbols, nil, nil, nil
}

// fakeResolver 为每个符号返回文献占位记录
type fakeResolver struct{}

func (fakeResolver) ResolveBatch(ctx context.Context, symbols []string) []genes.GeneRecord {
	records := make([]genes.GeneRecord, 0, len(symbols))
	for _, symbol := range symbols {
		records = append(records, genes.GeneRecord{Name: symbol, Source: genes.SourceLiterature})
	}
	return records
}

// fakeBeanAnalyzer 返回预置分析结果
type fakeBeanAnalyzer struct {
	result *beandata.Result
	err    error
	called bool
}

func (f *fakeBeanAnalyzer) Answer(ctx context.Context, req *beandata.QueryRequest) (*beandata.Result, error) {
	f.called = true
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

var errUpstream = errors.New("upstream unavailable")

func testRetrievalConfig() config.RetrievalConfig {
	return config.RetrievalConfig{
		BGEIndexName: "bge_literature",
		PubIndexName: "pubmedbert_literature",
		Alpha:        0.5,
		TopK:         5,
	}
}

func newTestPipeline(client *fakeClient, index *fakeIndex, extractor GeneExtractor, analyzer BeanAnalyzer) *Pipeline {
	return New(Options{
		Retrieval:   testRetrievalConfig(),
		AI:          config.AIConfig{ChatModel: "gpt-4o", ClassifierModel: "gpt-4o"},
		BGEEmbedder: &fakeEmbedder{vec: []float32{0.1, 0.2}},
		PubEmbedder: &fakeEmbedder{vec: []float32{0.3, 0.4}},
		Index:       index,
		Factory:     func(apiKey string) CompletionClient { return client },
		Extractor:   extractor,
		Resolver:    fakeResolver{},
		BeanData:    analyzer,
		Logger:      zap.NewNop(),
	})
}
