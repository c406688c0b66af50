package pipeline

import (
	"fmt"
	"strings"
)

// summaryDict 保持插入顺序的doi→summary字典。
// 重复键后写覆盖值但保留首次插入位置，使回退扫描顺序稳定。
type summaryDict struct {
	keys []string
	vals map[string]string
}

func newSummaryDict() *summaryDict {
	return &summaryDict{vals: make(map[string]string)}
}

func (d *summaryDict) put(doi, summary string) {
	if _, ok := d.vals[doi]; !ok {
		d.keys = append(d.keys, doi)
	}
	d.vals[doi] = summary
}

// BuildContext 将排名后的DOI与两个匹配集合的元数据对账，生成编号引用上下文。
// 先精确匹配去空白后的DOI；未命中时按插入顺序线性扫描，接受大小写不敏感
// 或剥掉doi.org URL前缀后的相等，命中时采用字典侧的标识符形式。
// 引用编号只在成功产出块时递增，因此总是从1开始密集编号。
func BuildContext(bgeMatches, pubMatches []Match, rankedDOIs []string) (string, []string) {
	dict := newSummaryDict()
	for _, m := range bgeMatches {
		addMatch(dict, m)
	}
	// PubMedBERT集合后写入，共享DOI时覆盖BGE侧摘要
	for _, m := range pubMatches {
		addMatch(dict, m)
	}

	var blocks []string
	confirmed := make([]string, 0, len(rankedDOIs))
	counter := 1
	for _, doi := range rankedDOIs {
		target := strings.TrimSpace(doi)
		if summary, ok := dict.vals[target]; ok {
			blocks = append(blocks, fmt.Sprintf("[%d] Source: %s\n%s", counter, target, summary))
			confirmed = append(confirmed, target)
			counter++
			continue
		}
		for _, key := range dict.keys {
			if strings.EqualFold(target, key) || stripDOIURLPrefix(target) == stripDOIURLPrefix(key) {
				blocks = append(blocks, fmt.Sprintf("[%d] Source: %s\n%s", counter, key, dict.vals[key]))
				confirmed = append(confirmed, key)
				counter++
				break
			}
		}
	}

	return strings.Join(blocks, "\n\n"), confirmed
}

func addMatch(dict *summaryDict, m Match) {
	doi := strings.TrimSpace(m.Metadata.DOI)
	if doi == "" || m.Metadata.Summary == "" {
		return
	}
	dict.put(doi, m.Metadata.Summary)
}

func stripDOIURLPrefix(doi string) string {
	doi = strings.TrimPrefix(doi, "https://doi.org/")
	return strings.TrimPrefix(doi, "http://doi.org/")
}
