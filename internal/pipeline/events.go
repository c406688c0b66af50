package pipeline

import "github.com/beanhub/backend-go/internal/genes"

// EventType 流式事件类型
type EventType string

const (
	EventProgress     EventType = "progress"
	EventContent      EventType = "content"
	EventBeanComplete EventType = "bean_complete"
	EventMetadata     EventType = "metadata"
)

// Event 流式调用产生的一个有序事件
type Event struct {
	Type EventType `json:"type"`
	Data any       `json:"data"`
}

// ProgressData 进度事件载荷
type ProgressData struct {
	Step   string `json:"step"`
	Detail string `json:"detail"`
}

// MetadataData 终结事件载荷，bean_complete与metadata共用
type MetadataData struct {
	Sources            []string           `json:"sources"`
	Genes              []genes.GeneRecord `json:"genes"`
	FullMarkdownTable  string             `json:"full_markdown_table"`
	ChartData          map[string]any     `json:"chart_data"`
	SuggestedQuestions []string           `json:"suggested_questions"`
}

func progressEvent(step, detail string) Event {
	return Event{Type: EventProgress, Data: ProgressData{Step: step, Detail: detail}}
}

func contentEvent(fragment string) Event {
	return Event{Type: EventContent, Data: fragment}
}

func metadataEvent(t EventType, data MetadataData) Event {
	if data.Sources == nil {
		data.Sources = []string{}
	}
	if data.Genes == nil {
		data.Genes = []genes.GeneRecord{}
	}
	if data.ChartData == nil {
		data.ChartData = map[string]any{}
	}
	if data.SuggestedQuestions == nil {
		data.SuggestedQuestions = []string{}
	}
	return Event{Type: t, Data: data}
}
