package pipeline

import (
	"context"

	"github.com/beanhub/backend-go/internal/genes"
)

// 消息角色
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage 会话中的一条消息
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// MatchMetadata 向量库中随匹配返回的文献元数据
type MatchMetadata struct {
	DOI     string `json:"doi"`
	Summary string `json:"summary"`
}

// Match 向量索引的单条检索结果，Score为索引自身量纲的原始相似度
type Match struct {
	ID       string
	Score    float64
	Metadata MatchMetadata
}

// QuestionRequest 一次提问，History由调用方跨轮次持有
type QuestionRequest struct {
	Question string        `json:"question"`
	History  []ChatMessage `json:"history,omitempty"`
	APIKey   string        `json:"-"`
}

// AnswerResult 批量调用的最终结果
type AnswerResult struct {
	Answer            string             `json:"answer"`
	Sources           []string           `json:"sources"`
	Genes             []genes.GeneRecord `json:"genes"`
	FullMarkdownTable string             `json:"full_markdown_table,omitempty"`
	ChartData         map[string]any     `json:"chart_data,omitempty"`
}

// Embedder 文本向量化能力（每个嵌入空间一个实例）
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Ready() bool
}

// VectorIndex 向量索引最近邻查询能力
type VectorIndex interface {
	Query(ctx context.Context, indexName string, vector []float32, topK int) ([]Match, error)
}

// GeneExtractor 基因符号抽取能力
type GeneExtractor interface {
	Extract(ctx context.Context, text, apiKey string) (symbols []string, dictHits, modelHits map[string]bool, err error)
}

// GeneResolver 基因批量解析能力
type GeneResolver interface {
	ResolveBatch(ctx context.Context, symbols []string) []genes.GeneRecord
}
