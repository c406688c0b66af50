package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/beanhub/backend-go/internal/di"
	"github.com/beanhub/backend-go/internal/genes"
	"github.com/beanhub/backend-go/internal/kafka"
	"github.com/beanhub/backend-go/internal/logger"
	"github.com/beanhub/backend-go/internal/metrics"
	"github.com/beanhub/backend-go/internal/pipeline"
)

// QuestionController 问答接口
type QuestionController struct {
	BaseController
}

// askPayload 提问请求体
type askPayload struct {
	Question string                 `json:"question"`
	History  []pipeline.ChatMessage `json:"history"`
	APIKey   string                 `json:"api_key"`
}

// suggestionsPayload 后续问题生成请求体
type suggestionsPayload struct {
	Answer            string             `json:"answer"`
	Sources           []string           `json:"sources"`
	Genes             []genes.GeneRecord `json:"genes"`
	FullMarkdownTable string             `json:"full_markdown_table"`
	APIKey            string             `json:"api_key"`
}

func (c *QuestionController) parseAsk() (*pipeline.QuestionRequest, bool) {
	var payload askPayload
	if err := json.Unmarshal(c.Ctx.Input.RequestBody, &payload); err != nil {
		c.JSONError(http.StatusBadRequest, "invalid request body")
		return nil, false
	}
	if strings.TrimSpace(payload.Question) == "" {
		c.JSONError(http.StatusBadRequest, "question is required")
		return nil, false
	}

	apiKey := payload.APIKey
	if apiKey == "" {
		apiKey = c.Ctx.Input.Header("X-OpenAI-Key")
	}
	if apiKey == "" {
		c.JSONError(http.StatusUnauthorized, "OpenAI API key is required")
		return nil, false
	}

	return &pipeline.QuestionRequest{
		Question: payload.Question,
		History:  payload.History,
		APIKey:   apiKey,
	}, true
}

func resolvePipeline() (*pipeline.Pipeline, error) {
	var p *pipeline.Pipeline
	err := di.Invoke(func(resolved *pipeline.Pipeline) { p = resolved })
	return p, err
}

// Ask 批量问答
func (c *QuestionController) Ask() {
	req, ok := c.parseAsk()
	if !ok {
		return
	}

	p, err := resolvePipeline()
	if err != nil {
		c.JSONError(http.StatusInternalServerError, "service unavailable")
		return
	}

	start := time.Now()
	result, err := p.Answer(c.Ctx.Request.Context(), req)
	if err != nil {
		logger.Error("Question answering failed", zap.Error(err))
		c.JSONAppError(err)
		return
	}

	route := metrics.RouteLiterature
	if result.FullMarkdownTable != "" || len(result.ChartData) > 0 {
		route = metrics.RouteBeanData
	}
	publishQuestionEvent(req.Question, route, len(result.Sources), len(result.Genes), time.Since(start), false)

	c.JSONSuccess(result)
}

// AskStream SSE流式问答
func (c *QuestionController) AskStream() {
	req, ok := c.parseAsk()
	if !ok {
		return
	}

	p, err := resolvePipeline()
	if err != nil {
		c.JSONError(http.StatusInternalServerError, "service unavailable")
		return
	}

	start := time.Now()
	ctx := c.Ctx.Request.Context()
	c.serveEventStream(p.AnswerStream(ctx, req))
	publishQuestionEvent(req.Question, "stream", 0, 0, time.Since(start), true)
}

// ContinueResearch 数据分析后的文献补充流
func (c *QuestionController) ContinueResearch() {
	req, ok := c.parseAsk()
	if !ok {
		return
	}

	p, err := resolvePipeline()
	if err != nil {
		c.JSONError(http.StatusInternalServerError, "service unavailable")
		return
	}

	ctx := c.Ctx.Request.Context()
	c.serveEventStream(p.ContinueWithResearch(ctx, req))
}

// Suggestions 根据上一轮回答生成后续问题
func (c *QuestionController) Suggestions() {
	var payload suggestionsPayload
	if err := json.Unmarshal(c.Ctx.Input.RequestBody, &payload); err != nil {
		c.JSONError(http.StatusBadRequest, "invalid request body")
		return
	}
	apiKey := payload.APIKey
	if apiKey == "" {
		apiKey = c.Ctx.Input.Header("X-OpenAI-Key")
	}

	p, err := resolvePipeline()
	if err != nil {
		c.JSONError(http.StatusInternalServerError, "service unavailable")
		return
	}

	questions := p.GenerateSuggestedQuestions(c.Ctx.Request.Context(), apiKey,
		payload.Answer, payload.Sources, payload.Genes, payload.FullMarkdownTable)
	if questions == nil {
		questions = []string{}
	}
	c.JSONSuccess(map[string]interface{}{"suggested_questions": questions})
}

// serveEventStream 把管道事件写成SSE流，每个事件一条data行，结束发[DONE]
func (c *QuestionController) serveEventStream(events <-chan pipeline.Event) {
	w := c.Ctx.ResponseWriter
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	flusher, canFlush := w.ResponseWriter.(http.Flusher)
	for event := range events {
		data, err := json.Marshal(event)
		if err != nil {
			logger.Error("Stream event marshal failed", zap.Error(err))
			continue
		}
		if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
			logger.Warn("Stream write failed, client likely disconnected", zap.Error(err))
			return
		}
		if canFlush {
			flusher.Flush()
		}
	}

	fmt.Fprint(w, "data: [DONE]\n\n")
	if canFlush {
		flusher.Flush()
	}
}

// publishQuestionEvent 问答分析事件入Kafka，失败只记日志
func publishQuestionEvent(question, route string, sourceCount, geneCount int, duration time.Duration, streamed bool) {
	producer := kafka.GetProducer()
	if producer == nil {
		return
	}
	event := &kafka.QuestionEvent{
		Question:    question,
		Route:       route,
		SourceCount: sourceCount,
		GeneCount:   geneCount,
		DurationMs:  duration.Milliseconds(),
		Streamed:    streamed,
	}
	if err := producer.SendQuestionEvent(event); err != nil {
		logger.Warn("Question event publish failed", zap.Error(err))
	}
}
