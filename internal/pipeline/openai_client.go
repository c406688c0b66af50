package pipeline

import (
	"context"
	"errors"
	"io"

	openai "github.com/sashabaranov/go-openai"
)

type openAIClient struct {
	client *openai.Client
}

// NewOpenAIClient 构建基于OpenAI的补全客户端，作为默认ClientFactory
func NewOpenAIClient(apiKey string) CompletionClient {
	return &openAIClient{client: openai.NewClient(apiKey)}
}

func (c *openAIClient) Complete(ctx context.Context, req CompletionRequest) (*CompletionResult, error) {
	chatReq := openai.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    req.Messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	if len(req.Functions) > 0 {
		chatReq.Functions = req.Functions
		chatReq.FunctionCall = "auto"
	}

	resp, err := c.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("completion response empty")
	}

	choice := resp.Choices[0]
	result := &CompletionResult{Content: choice.Message.Content}
	if choice.FinishReason == openai.FinishReasonFunctionCall {
		result.FunctionCall = choice.Message.FunctionCall
	}
	return result, nil
}

func (c *openAIClient) CompleteStream(ctx context.Context, req CompletionRequest) (<-chan StreamChunk, error) {
	stream, err := c.client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    req.Messages,
		Temperature: req.Temperature,
		Stream:      true,
	})
	if err != nil {
		return nil, err
	}

	chunks := make(chan StreamChunk)
	go func() {
		defer close(chunks)
		defer stream.Close()
		for {
			resp, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				select {
				case chunks <- StreamChunk{Err: err}:
				case <-ctx.Done():
				}
				return
			}
			if len(resp.Choices) == 0 || resp.Choices[0].Delta.Content == "" {
				continue
			}
			select {
			case chunks <- StreamChunk{Content: resp.Choices[0].Delta.Content}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return chunks, nil
}
