package beandata

import "strings"

// 意图关键词表，全部按小写子串匹配
var (
	chartKeywords = []string{
		"chart", "graph", "plot", "visualize", "visualization", "show me",
		"display", "table", "create", "regression", "linear regression",
		"correlation", "scatter", "trend", "relationship",
	}

	weatherKeywords = []string{
		"temperature", "weather", "precipitation", "humidity", "climate",
		"rainfall", "conditions",
	}

	crossAnalysisKeywords = []string{
		"highest temperature", "warmest location", "hottest location",
		"highest average temperature", "location with highest",
		"cultivar had the location", "location with the most",
	}

	performanceKeywords = []string{
		"perform", "best", "top", "highest", "yield", "productive", "leading",
	}
)

func containsAny(question string, keywords []string) bool {
	question = strings.ToLower(question)
	for _, keyword := range keywords {
		if strings.Contains(question, keyword) {
			return true
		}
	}
	return false
}

// ChartRequested 判断问题是否要求图表输出
func ChartRequested(question string) bool { return containsAny(question, chartKeywords) }

// IsWeatherQuery 判断问题是否以气象为主
func IsWeatherQuery(question string) bool { return containsAny(question, weatherKeywords) }

// IsCrossAnalysis 判断问题是否为品种×地点×环境的交叉分析
func IsCrossAnalysis(question string) bool { return containsAny(question, crossAnalysisKeywords) }

func asksPerformance(question string) bool { return containsAny(question, performanceKeywords) }

// 试验站地名到气象站地名的映射。
// 值为空串表示该站点没有对应气象数据。
var weatherLocationMapping = map[string]string{
	"Brussels":     "",
	"Brusselssels": "Brussels",
	"Kempton":      "",
	"Kemptonton":   "Kempton",
	"Harrow-Blyth": "Harrow",
	"Exeter":       "",
	"AUBN":         "Auburn",
	"WOOD":         "Woodstock",
	"WINC":         "Winchester",
	"STHM":         "St. Thomas",
}

// weatherLocation 返回地点对应的气象站名，false表示无气象数据
func weatherLocation(beanLocation string) (string, bool) {
	if mapped, ok := weatherLocationMapping[beanLocation]; ok {
		if mapped == "" {
			return "", false
		}
		return mapped, true
	}
	return beanLocation, true
}

// 安大略生长季为5-9月
const (
	growingSeasonStart = 5
	growingSeasonEnd   = 9
)
