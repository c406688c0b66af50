package beandata

import (
	"encoding/json"

	openai "github.com/sashabaranov/go-openai"
)

// QueryRequest 菜豆数据查询请求，对应模型函数调用的参数。
// 可选字段在边界处校验后才进入查询逻辑。
type QueryRequest struct {
	OriginalQuestion     string `json:"original_question" validate:"required,min=3"`
	Cultivar             string `json:"cultivar,omitempty" validate:"omitempty,max=100"`
	Location             string `json:"location,omitempty" validate:"omitempty,max=50"`
	Year                 int    `json:"year,omitempty" validate:"omitempty,gte=1900,lte=2100"`
	Trait                string `json:"trait,omitempty" validate:"omitempty,oneof=yield maturity harvestability disease_resistance"`
	MarketClass          string `json:"market_class,omitempty" validate:"omitempty,max=50"`
	DiseaseResistance    string `json:"disease_resistance,omitempty" validate:"omitempty,max=50"`
	AnalysisType         string `json:"analysis_type,omitempty" validate:"omitempty,max=50"`
	IncludeEnvironmental bool   `json:"include_environmental,omitempty"`
}

// Result 数据分析结果：预览文本、完整markdown表与图表载荷
type Result struct {
	Preview      string
	FullMarkdown string
	ChartData    map[string]any
}

// FunctionName 模型函数调用的函数名
const FunctionName = "query_bean_data"

// FunctionSchema 供补全服务函数调用使用的参数模式
func FunctionSchema() openai.FunctionDefinition {
	return openai.FunctionDefinition{
		Name:        FunctionName,
		Description: "Query the enhanced Ontario bean trial dataset AND historical weather data for comprehensive analysis including performance metrics, breeding characteristics, disease resistance, environmental context, and visualizations. ALSO use this for weather/climate queries about trial locations (Auburn, Blyth, Elora, etc.). Use this when users ask about bean varieties, breeding information, disease resistance, environmental factors, weather data, or want comparisons and charts.",
		Parameters: json.RawMessage(`{
			"type": "object",
			"properties": {
				"original_question": {"type": "string", "description": "The original user question for context"},
				"cultivar": {"type": "string", "description": "Specific cultivar name to query (optional)"},
				"location": {"type": "string", "description": "Research station location (e.g., WOOD, WINC, STHM, AUBN) (optional)"},
				"year": {"type": "integer", "description": "Specific year to query (optional)"},
				"trait": {"type": "string", "description": "Specific trait to analyze (e.g., 'yield', 'maturity', 'harvestability', 'disease_resistance') (optional)"},
				"market_class": {"type": "string", "description": "Market class filter (e.g., 'White Navy', 'Black', 'Kidney', 'Pinto') (optional)"},
				"disease_resistance": {"type": "string", "description": "Disease resistance trait (e.g., 'CMV', 'Anthracnose', 'Common Blight') (optional)"},
				"analysis_type": {"type": "string", "description": "Type of analysis requested (e.g., 'comparison', 'summary', 'chart', 'trend', 'breeding_analysis', 'environmental_context') (optional)"},
				"include_environmental": {"type": "boolean", "description": "Whether to include environmental/weather context in the analysis (optional)"}
			},
			"required": ["original_question"]
		}`),
	}
}
