package pipeline

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/beanhub/backend-go/internal/genes"
)

const suggestionsSystemPrompt = "You are a helpful assistant for generating concise follow-up questions."

// GenerateSuggestedQuestions 根据回答与附带数据生成3-5个后续问题。
// 失败时返回空列表，不影响主回答。
func (p *Pipeline) GenerateSuggestedQuestions(ctx context.Context, apiKey, answer string, sources []string, geneRecords []genes.GeneRecord, fullMarkdownTable string) []string {
	if apiKey == "" {
		p.logger.Debug("No API key provided, skipping suggested questions generation")
		return nil
	}

	var prompt strings.Builder
	prompt.WriteString(
		"Based on the following assistant response (answer and potentially data/sources), " +
			"generate a concise list of 3-5 relevant follow-up questions that a user might ask. " +
			"Format the response as a simple comma-separated list of questions. " +
			"Ensure questions are natural-sounding and directly relate to the information provided." +
			"Avoid questions that simply ask for a summary or restatement." +
			"Example: 'Tell me more about X, What is the significance of Y, Are there other sources on Z?'\n\n")
	prompt.WriteString(fmt.Sprintf("Assistant Answer: %s\n\n", answer))

	if len(sources) > 0 {
		prompt.WriteString(fmt.Sprintf("Sources: %s\n\n", strings.Join(sources, ", ")))
	}
	if len(geneRecords) > 0 {
		names := make([]string, 0, len(geneRecords))
		for _, record := range geneRecords {
			names = append(names, record.Name)
		}
		prompt.WriteString(fmt.Sprintf("Genes mentioned: %s\n\n", strings.Join(names, ", ")))
	}
	if fullMarkdownTable != "" {
		// 表太长时只提示存在，避免撑爆提示词
		if len(fullMarkdownTable) < 1000 {
			prompt.WriteString(fmt.Sprintf("Bean Data Table Provided:\n%s\n\n", fullMarkdownTable))
		} else {
			prompt.WriteString("Bean data table was provided.\n\n")
		}
	}
	prompt.WriteString("Suggested Questions:")

	client := p.factory(apiKey)
	result, err := client.Complete(ctx, CompletionRequest{
		Model: p.ai.ChatModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: RoleSystem, Content: suggestionsSystemPrompt},
			{Role: RoleUser, Content: prompt.String()},
		},
		Temperature: 0.7,
		MaxTokens:   150,
	})
	if err != nil {
		p.logger.Warn("Suggested questions generation failed", zap.Error(err))
		return nil
	}

	var questions []string
	for _, part := range strings.Split(result.Content, ",") {
		if q := strings.TrimSpace(part); q != "" {
			questions = append(questions, q)
		}
	}
	return questions
}
