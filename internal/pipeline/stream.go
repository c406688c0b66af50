package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/beanhub/backend-go/internal/beandata"
	"github.com/beanhub/backend-go/internal/genes"
	"github.com/beanhub/backend-go/internal/metrics"
)

// followUpQuestionFormat 继续文献检索时改写问题的模板，
// 开头必须保持beanDataFollowUpMarker以切换综合人设
const followUpQuestionFormat = "We successfully analyzed the bean data for: '%s'. Now provide additional research context from scientific literature about the genetic and biological factors related to this analysis."

// AnswerStream 流式回答。事件在返回的通道上按序产出，
// 通道关闭即流结束；ctx取消后不再产出任何事件。
func (p *Pipeline) AnswerStream(ctx context.Context, req *QuestionRequest) <-chan Event {
	events := make(chan Event)
	go func() {
		defer close(events)
		p.runStream(ctx, req, events)
	}()
	return events
}

// ContinueWithResearch 数据分析完成后的显式文献补充轮次。
// 问题被改写为后续检索形式，引用段随内容流式产出。
func (p *Pipeline) ContinueWithResearch(ctx context.Context, req *QuestionRequest) <-chan Event {
	events := make(chan Event)
	go func() {
		defer close(events)
		if !p.emit(ctx, events, contentEvent(continueTransition)) {
			return
		}
		ragQuestion := fmt.Sprintf(followUpQuestionFormat, req.Question)
		p.streamLiterature(ctx, events, p.factory(req.APIKey), ragQuestion, req.History, req.APIKey, true)
	}()
	return events
}

// emit 发布一个事件，ctx取消时放弃并返回false
func (p *Pipeline) emit(ctx context.Context, events chan<- Event, ev Event) bool {
	if ctx.Err() != nil {
		return false
	}
	select {
	case events <- ev:
		metrics.StreamEventsTotal.WithLabelValues(string(ev.Type)).Inc()
		return true
	case <-ctx.Done():
		return false
	}
}

func (p *Pipeline) runStream(ctx context.Context, req *QuestionRequest, events chan<- Event) {
	if !p.emit(ctx, events, progressEvent("thinking", "Thinking...")) {
		return
	}

	client := p.factory(req.APIKey)
	isGenetic := p.isGeneticsQuestion(ctx, client, req.Question)
	p.logger.Info("Question classified", zap.Bool("is_genetic", isGenetic))

	if !p.emit(ctx, events, progressEvent("analysis", "Analyzing question type")) {
		return
	}

	if !isGenetic {
		if done := p.streamBeanData(ctx, events, client, req); done {
			return
		}
	}

	p.streamLiterature(ctx, events, client, req.Question, req.History, req.APIKey, false)
}

// streamBeanData 数据分析路径。返回true表示流已终结（成功短路或已取消），
// 返回false表示应继续文献路径。
func (p *Pipeline) streamBeanData(ctx context.Context, events chan<- Event, client CompletionClient, req *QuestionRequest) bool {
	if !p.emit(ctx, events, progressEvent("dataset", "Checking cultivar database")) {
		return true
	}

	if !hasBeanKeywords(req.Question) {
		if !p.emit(ctx, events, progressEvent("generation", "Proceeding to literature search")) {
			return true
		}
		return !p.emit(ctx, events, contentEvent(literatureTransition))
	}

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
	if err != nil || result.FunctionCall == nil || result.FunctionCall.Name != beandata.FunctionName {
		if err != nil {
			p.logger.Error("Bean data function call failed", zap.Error(err))
		}
		if !p.emit(ctx, events, progressEvent("generation", "Proceeding to literature search")) {
			return true
		}
		return !p.emit(ctx, events, contentEvent(literatureTransition))
	}

	if !p.emit(ctx, events, progressEvent("processing", "Processing cultivar data")) {
		return true
	}

	var queryReq beandata.QueryRequest
	if err := json.Unmarshal([]byte(result.FunctionCall.Arguments), &queryReq); err != nil {
		p.logger.Error("Bean data function arguments unparseable", zap.Error(err))
		return !p.emit(ctx, events, progressEvent("fallback", "No data found, searching literature"))
	}
	queryReq.OriginalQuestion = req.Question

	analysis, err := p.beanData.Answer(ctx, &queryReq)
	if err != nil || len(strings.TrimSpace(analysis.Preview)) <= 20 {
		if err != nil {
			p.logger.Error("Bean data query failed", zap.Error(err))
		}
		return !p.emit(ctx, events, progressEvent("fallback", "No data found, searching literature"))
	}

	if !p.emit(ctx, events, progressEvent("dataset_success", "Found matching data")) {
		return true
	}
	if !p.emit(ctx, events, progressEvent("generation", "Creating analysis summary")) {
		return true
	}

	answer := p.summarizeAnalysis(ctx, client, req.Question, analysis.Preview)
	if !p.emit(ctx, events, contentEvent(answer)) {
		return true
	}

	// 数据路径成功即终结本次调用，文献补充由显式的继续调用承接
	metrics.QuestionsTotal.WithLabelValues(metrics.RouteBeanData).Inc()
	p.emit(ctx, events, metadataEvent(EventBeanComplete, MetadataData{
		FullMarkdownTable: analysis.FullMarkdown,
		ChartData:         analysis.ChartData,
	}))
	return true
}

// streamLiterature 文献检索与综合的公共流程，
// emitReferences为真时引用段作为内容片段产出
func (p *Pipeline) streamLiterature(ctx context.Context, events chan<- Event, client CompletionClient, question string, history []ChatMessage, apiKey string, emitReferences bool) {
	if !p.emit(ctx, events, progressEvent("embeddings", "Processing semantic embeddings")) {
		return
	}

	retrieval, err := p.retrieve(ctx, question, func(step, detail string) bool {
		return p.emit(ctx, events, progressEvent(step, detail))
	})
	if err != nil {
		p.logger.Error("Retrieval failed", zap.Error(err))
		p.emit(ctx, events, contentEvent(fmt.Sprintf("\n\n*Error generating response: %v*\n\n", err)))
		p.emit(ctx, events, metadataEvent(EventMetadata, MetadataData{}))
		return
	}

	if !p.emit(ctx, events, progressEvent("papers", fmt.Sprintf("Found %d relevant papers", len(retrieval.RankedDOIs)))) {
		return
	}
	if !p.emit(ctx, events, progressEvent("generation", "Synthesizing findings with AI")) {
		return
	}

	full, streamErr := p.synthesizeStream(ctx, client, question, retrieval.Context, history, func(fragment string) bool {
		return p.emit(ctx, events, contentEvent(fragment))
	})
	if streamErr != nil {
		return
	}

	var records []genes.GeneRecord
	if strings.TrimSpace(full) != "" {
		if !p.emit(ctx, events, progressEvent("gene_extraction", "Extracting gene mentions from research text")) {
			return
		}
		symbols, _, _, err := p.extractor.Extract(ctx, full, apiKey)
		if err != nil {
			p.logger.Warn("Gene extraction failed", zap.Error(err))
		} else if len(symbols) > 0 {
			if !p.emit(ctx, events, progressEvent("gene_processing", fmt.Sprintf("Processing %d genetic elements", len(symbols)))) {
				return
			}
			// 解析走数据库和缓存，放到后台跑，进度事件先行
			resolved := make(chan []genes.GeneRecord, 1)
			go func() { resolved <- p.resolver.ResolveBatch(ctx, symbols) }()

			if !p.emit(ctx, events, progressEvent("sources", "Generating research references and citations")) {
				return
			}
			records = <-resolved
			for _, record := range records {
				metrics.GeneLookupsTotal.WithLabelValues(record.Source).Inc()
			}
		}
	}
	if records == nil {
		if !p.emit(ctx, events, progressEvent("sources", "Generating research references and citations")) {
			return
		}
	}

	if emitReferences && len(retrieval.Confirmed) > 0 {
		if !p.emit(ctx, events, contentEvent(buildReferences(retrieval.Confirmed))) {
			return
		}
	}

	if !p.emit(ctx, events, progressEvent("finalizing", "Completing analysis")) {
		return
	}

	metrics.QuestionsTotal.WithLabelValues(metrics.RouteLiterature).Inc()
	p.emit(ctx, events, metadataEvent(EventMetadata, MetadataData{
		Sources: retrieval.Confirmed,
		Genes:   records,
	}))
}
