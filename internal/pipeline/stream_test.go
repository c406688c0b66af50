package pipeline

import (
	"context"
	"strings"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beanhub/backend-go/internal/beandata"
)

func collectEvents(t *testing.T, events <-chan Event) []Event {
	t.Helper()
	var collected []Event
	timeout := time.After(5 * time.Second)
	for {
		select {
		case event, ok := <-events:
			if !ok {
				return collected
			}
			collected = append(collected, event)
		case <-timeout:
			t.Fatal("timed out waiting for stream to close")
		}
	}
}

func eventTypes(events []Event) []EventType {
	types := make([]EventType, 0, len(events))
	for _, event := range events {
		types = append(types, event.Type)
	}
	return types
}

func concatContent(events []Event) string {
	var b strings.Builder
	for _, event := range events {
		if event.Type == EventContent {
			b.WriteString(event.Data.(string))
		}
	}
	return b.String()
}

func TestAnswerStreamLiterature(t *testing.T) {
	client := &fakeClient{
		classifierReply: "true",
		streamChunks: []StreamChunk{
			{Content: "CBB resistance "},
			{Content: "involves **SU91** [1]."},
		},
	}
	p := newTestPipeline(client, literatureIndex(), &fakeExtractor{symbols: []string{"SU91"}}, &fakeBeanAnalyzer{})

	events := collectEvents(t, p.AnswerStream(context.Background(), &QuestionRequest{Question: "CBB markers?", APIKey: "sk-test"}))
	require.NotEmpty(t, events)

	// 首事件是thinking进度，末事件是metadata终结
	assert.Equal(t, EventProgress, events[0].Type)
	assert.Equal(t, ProgressData{Step: "thinking", Detail: "Thinking..."}, events[0].Data)
	last := events[len(events)-1]
	require.Equal(t, EventMetadata, last.Type)

	// 内容片段按序拼接等于完整回答
	assert.Equal(t, "CBB resistance involves **SU91** [1].", concatContent(events))

	metadata, ok := last.Data.(MetadataData)
	require.True(t, ok)
	assert.Equal(t, []string{"10.1000/a", "10.1000/b"}, metadata.Sources)
	require.Len(t, metadata.Genes, 1)
	assert.Equal(t, "SU91", metadata.Genes[0].Name)

	// metadata之后不再有任何内容事件
	for i, event := range events {
		if event.Type == EventMetadata {
			assert.Equal(t, len(events)-1, i)
		}
	}

	// 进度步骤覆盖检索与综合阶段
	steps := make([]string, 0)
	for _, event := range events {
		if event.Type == EventProgress {
			steps = append(steps, event.Data.(ProgressData).Step)
		}
	}
	assert.Subset(t, steps, []string{"thinking", "analysis", "embeddings", "search", "papers", "generation", "gene_extraction", "sources", "finalizing"})
}

func TestAnswerStreamBeanComplete(t *testing.T) {
	analyzer := &fakeBeanAnalyzer{result: &beandata.Result{
		Preview:      "## 📊 **Bean Data Analysis**\n\nDynasty performance details.",
		FullMarkdown: "| Cultivar | Yield |",
		ChartData:    map[string]any{"type": "bar"},
	}}
	client := &fakeClient{
		classifierReply: "false",
		functionCall:    &openai.FunctionCall{Name: beandata.FunctionName, Arguments: `{"cultivar":"Dynasty"}`},
		analystReply:    "**Dynasty** summary.",
	}
	p := newTestPipeline(client, literatureIndex(), &fakeExtractor{}, analyzer)

	events := collectEvents(t, p.AnswerStream(context.Background(), &QuestionRequest{Question: "Show Dynasty yield", APIKey: "sk-test"}))
	require.NotEmpty(t, events)

	// 数据路径成功即以bean_complete终结，不进入文献阶段
	last := events[len(events)-1]
	require.Equal(t, EventBeanComplete, last.Type)
	metadata := last.Data.(MetadataData)
	assert.Equal(t, "| Cultivar | Yield |", metadata.FullMarkdownTable)
	assert.Equal(t, map[string]any{"type": "bar"}, metadata.ChartData)
	assert.Empty(t, metadata.Sources)

	assert.Equal(t, "**Dynasty** summary.", concatContent(events))
	assert.NotContains(t, eventTypes(events), EventMetadata)
}

// 流式综合中途失败时产出内联错误片段，流正常走完
func TestAnswerStreamInlineSynthesisError(t *testing.T) {
	client := &fakeClient{
		classifierReply: "true",
		streamChunks: []StreamChunk{
			{Content: "partial "},
			{Err: errUpstream},
		},
	}
	p := newTestPipeline(client, literatureIndex(), &fakeExtractor{}, &fakeBeanAnalyzer{})

	events := collectEvents(t, p.AnswerStream(context.Background(), &QuestionRequest{Question: "markers?", APIKey: "sk-test"}))
	require.NotEmpty(t, events)

	content := concatContent(events)
	assert.Contains(t, content, "partial ")
	assert.Contains(t, content, "*Error generating response: upstream unavailable*")
	assert.Equal(t, EventMetadata, events[len(events)-1].Type)
}

func TestContinueWithResearch(t *testing.T) {
	client := &fakeClient{
		streamChunks: []StreamChunk{{Content: "Complementary literature context."}},
	}
	p := newTestPipeline(client, literatureIndex(), &fakeExtractor{}, &fakeBeanAnalyzer{})

	events := collectEvents(t, p.ContinueWithResearch(context.Background(), &QuestionRequest{Question: "Dynasty yield analysis", APIKey: "sk-test"}))
	require.NotEmpty(t, events)

	content := concatContent(events)
	assert.True(t, strings.HasPrefix(content, "\n\n---\n\n## 📚 **Related Research Literature**"))
	assert.Contains(t, content, "Complementary literature context.")

	// 继续轮次的引用段以内容片段产出
	assert.Contains(t, content, "## 📚 **References**")
	assert.Contains(t, content, "[1] 10.1000/a - https://doi.org/10.1000/a")

	assert.Equal(t, EventMetadata, events[len(events)-1].Type)
}

// ctx已取消时流立即关闭，不产出事件
func TestAnswerStreamCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := &fakeClient{classifierReply: "true"}
	p := newTestPipeline(client, literatureIndex(), &fakeExtractor{}, &fakeBeanAnalyzer{})

	events := collectEvents(t, p.AnswerStream(ctx, &QuestionRequest{Question: "any", APIKey: "sk-test"}))
	assert.Empty(t, events)
}
