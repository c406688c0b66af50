package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/beanhub/backend-go/internal/beandata"
	"github.com/beanhub/backend-go/internal/config"
	apperrors "github.com/beanhub/backend-go/internal/errors"
	"github.com/beanhub/backend-go/internal/genes"
	"github.com/beanhub/backend-go/internal/metrics"
)

// BeanAnalyzer 菜豆试验数据分析能力
type BeanAnalyzer interface {
	Answer(ctx context.Context, req *beandata.QueryRequest) (*beandata.Result, error)
}

// 数据路径的粗粒度路由关键词，命中才值得让模型决定是否调函数
var beanRoutingKeywords = []string{
	"yield", "maturity", "cultivar", "variety", "performance", "bean",
	"production", "steam", "lighthouse", "seal",
}

func hasBeanKeywords(question string) bool {
	question = strings.ToLower(question)
	for _, keyword := range beanRoutingKeywords {
		if strings.Contains(question, keyword) {
			return true
		}
	}
	return false
}

// Pipeline 问答管道：问题分类、数据分析短路、双索引文献检索与回答综合
type Pipeline struct {
	cfg         config.RetrievalConfig
	ai          config.AIConfig
	bgeEmbedder Embedder
	pubEmbedder Embedder
	index       VectorIndex
	factory     ClientFactory
	extractor   GeneExtractor
	resolver    GeneResolver
	beanData    BeanAnalyzer
	logger      *zap.Logger
}

// Options 管道依赖项
type Options struct {
	Retrieval   config.RetrievalConfig
	AI          config.AIConfig
	BGEEmbedder Embedder
	PubEmbedder Embedder
	Index       VectorIndex
	Factory     ClientFactory
	Extractor   GeneExtractor
	Resolver    GeneResolver
	BeanData    BeanAnalyzer
	Logger      *zap.Logger
}

// New 创建问答管道，Factory缺省使用OpenAI客户端
func New(opts Options) *Pipeline {
	if opts.Factory == nil {
		opts.Factory = NewOpenAIClient
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Pipeline{
		cfg:         opts.Retrieval,
		ai:          opts.AI,
		bgeEmbedder: opts.BGEEmbedder,
		pubEmbedder: opts.PubEmbedder,
		index:       opts.Index,
		factory:     opts.Factory,
		extractor:   opts.Extractor,
		resolver:    opts.Resolver,
		beanData:    opts.BeanData,
		logger:      opts.Logger,
	}
}

// 批量路径的过渡文案
const (
	datasetInsufficientTransition = "## 🔍 **Dataset Search Results**\n\nNo specific data found in our cultivar performance dataset for this query.\n\n---\n\n## 📚 **Research Literature Search**\n\nSearching scientific publications for relevant information...\n\n"

	datasetErrorTransition = "## 🔍 **Dataset Search**\n\nEncountered an issue accessing the cultivar dataset.\n\n---\n\n## 📚 **Research Literature Search**\n\nSearching scientific publications for relevant information...\n\n"

	functionDeclinedTransition = "## 📚 **Research Literature Search**\n\nSearching scientific publications for relevant information...\n\n"
)

// Answer 回答一个问题。非遗传学问题先尝试数据分析路径，
// 成功即以分析结果终止；失败或无数据则带过渡文案进入文献路径。
func (p *Pipeline) Answer(ctx context.Context, req *QuestionRequest) (*AnswerResult, error) {
	client := p.factory(req.APIKey)

	isGenetic := p.isGeneticsQuestion(ctx, client, req.Question)
	p.logger.Info("Question classified",
		zap.Bool("is_genetic", isGenetic),
		zap.Int("history_len", len(req.History)))

	transition := ""
	if !isGenetic && hasBeanKeywords(req.Question) {
		result, fallbackTransition := p.tryBeanData(ctx, client, req)
		if result != nil {
			metrics.QuestionsTotal.WithLabelValues(metrics.RouteBeanData).Inc()
			return result, nil
		}
		transition = fallbackTransition
	}

	retrieval, err := p.retrieve(ctx, req.Question, nil)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(retrieval.Context) == "" {
		p.logger.Warn("No reconciled context for top sources", zap.Strings("ranked_dois", retrieval.RankedDOIs))
		metrics.QuestionsTotal.WithLabelValues(metrics.RouteNoMatch).Inc()
		return &AnswerResult{
			Answer:  noMatchingPapersAnswer,
			Sources: retrieval.RankedDOIs,
			Genes:   []genes.GeneRecord{},
		}, nil
	}

	answer, err := p.synthesize(ctx, client, req.Question, retrieval.Context, req.History)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeSynthesisFailed, apperrors.ErrorTypeExternal, "answer synthesis failed", err)
	}

	answer = transition + answer
	if len(retrieval.Confirmed) > 0 {
		answer += buildReferences(retrieval.Confirmed)
	}

	metrics.QuestionsTotal.WithLabelValues(metrics.RouteLiterature).Inc()
	return &AnswerResult{
		Answer:  answer,
		Sources: retrieval.Confirmed,
		Genes:   p.extractGenes(ctx, answer, req.APIKey),
	}, nil
}

// tryBeanData 让模型决定是否调用数据查询函数并执行。
// 返回非nil结果表示数据路径已完整回答；否则返回进入文献路径的过渡文案。
func (p *Pipeline) tryBeanData(ctx context.Context, client CompletionClient, req *QuestionRequest) (*AnswerResult, string) {
	messages := make([]openai.ChatCompletionMessage, 0, len(req.History)+2)
	messages = append(messages, openai.ChatCompletionMessage{Role: RoleSystem, Content: beanFunctionSystemPrompt})
	for _, msg := range req.History {
		messages = append(messages, openai.ChatCompletionMessage{Role: msg.Role, Content: msg.Content})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: RoleUser, Content: req.Question})

	result, err := client.Complete(ctx, CompletionRequest{
		Model:     p.ai.ChatModel,
		Messages:  messages,
		Functions: []openai.FunctionDefinition{beandata.FunctionSchema()},
	})
	if err != nil {
		p.logger.Error("Bean data function call failed", zap.Error(err))
		return nil, datasetErrorTransition
	}
	if result.FunctionCall == nil || result.FunctionCall.Name != beandata.FunctionName {
		return nil, functionDeclinedTransition
	}

	var queryReq beandata.QueryRequest
	if err := json.Unmarshal([]byte(result.FunctionCall.Arguments), &queryReq); err != nil {
		p.logger.Error("Bean data function arguments unparseable", zap.Error(err),
			zap.String("arguments", result.FunctionCall.Arguments))
		return nil, datasetErrorTransition
	}
	queryReq.OriginalQuestion = req.Question

	analysis, err := p.beanData.Answer(ctx, &queryReq)
	if err != nil {
		p.logger.Error("Bean data query failed", zap.Error(err))
		return nil, datasetErrorTransition
	}
	if len(strings.TrimSpace(analysis.Preview)) <= 20 {
		p.logger.Info("Bean data insufficient, falling back to literature")
		return nil, datasetInsufficientTransition
	}

	answer := p.summarizeAnalysis(ctx, client, req.Question, analysis.Preview)
	return &AnswerResult{
		Answer:            answer,
		Sources:           []string{},
		Genes:             []genes.GeneRecord{},
		FullMarkdownTable: analysis.FullMarkdown,
		ChartData:         analysis.ChartData,
	}, ""
}

// summarizeAnalysis 将数据分析结果转成面向研究者的自然语言总结，
// 失败时直接返回原始分析文本
func (p *Pipeline) summarizeAnalysis(ctx context.Context, client CompletionClient, question, preview string) string {
	result, err := client.Complete(ctx, CompletionRequest{
		Model: p.ai.ChatModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: RoleSystem, Content: analystSystemPrompt},
			{Role: RoleUser, Content: fmt.Sprintf("Based on the question '%s', analyze this data:\n\n%s", question, preview)},
		},
		Temperature: 0.3,
	})
	if err != nil {
		p.logger.Warn("Analysis summary generation failed", zap.Error(err))
		return preview
	}
	return strings.TrimSpace(result.Content)
}

// extractGenes 从最终回答中抽取并解析基因记录，失败只降级不报错
func (p *Pipeline) extractGenes(ctx context.Context, answer, apiKey string) []genes.GeneRecord {
	defer metrics.ObserveStage("gene_extraction", time.Now())

	symbols, _, _, err := p.extractor.Extract(ctx, answer, apiKey)
	if err != nil {
		p.logger.Warn("Gene extraction failed", zap.Error(err))
		return []genes.GeneRecord{}
	}
	records := p.resolver.ResolveBatch(ctx, symbols)
	for _, record := range records {
		metrics.GeneLookupsTotal.WithLabelValues(record.Source).Inc()
	}
	return records
}

// buildReferences 由确认的DOI生成编号引用段
func buildReferences(confirmed []string) string {
	var b strings.Builder
	b.WriteString("\n\n---\n\n## 📚 **References**\n\n")
	for i, doi := range confirmed {
		url := doi
		if !strings.HasPrefix(doi, "http") {
			url = "https://doi.org/" + doi
		}
		b.WriteString(fmt.Sprintf("[%d] %s - %s\n\n", i+1, doi, url))
	}
	return b.String()
}
