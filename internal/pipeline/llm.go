package pipeline

import (
	"context"
	"math"

	openai "github.com/sashabaranov/go-openai"
)

// greedyTemperature 贪心解码用的温度。go-openai序列化温度字段带omitempty，
// 传0会整个丢掉该字段退回上游默认温度，须用最小非零浮点数表达0
const greedyTemperature = float32(math.SmallestNonzeroFloat32)

// CompletionRequest 送往补全服务的请求
type CompletionRequest struct {
	Model       string
	Messages    []openai.ChatCompletionMessage
	Temperature float32
	MaxTokens   int
	Functions   []openai.FunctionDefinition
}

// CompletionResult 补全服务的应答，函数调用与文本二选一
type CompletionResult struct {
	Content      string
	FunctionCall *openai.FunctionCall
}

// StreamChunk 流式补全的一个片段，Err非空表示上游中途失败
type StreamChunk struct {
	Content string
	Err     error
}

// CompletionClient 文本补全能力，批量与流式两种调用方式
type CompletionClient interface {
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResult, error)
	CompleteStream(ctx context.Context, req CompletionRequest) (<-chan StreamChunk, error)
}

// ClientFactory 按调用方提供的凭证构建补全客户端。
// 凭证随请求传入，进程内不持有全局密钥。
type ClientFactory func(apiKey string) CompletionClient
