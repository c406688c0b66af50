package pipeline

import "sort"

// minBlendedScore 融合得分的低相关性截断阈值
const minBlendedScore = 0.05

// BlendScores 按权重alpha线性融合两个归一化得分表。
// 键取两表并集，缺失一侧按0计；融合得分≤阈值的条目被丢弃。
func BlendScores(bgeScores, pubScores map[string]float64, alpha float64) map[string]float64 {
	combined := make(map[string]float64)
	for src, bgeVal := range bgeScores {
		score := alpha*bgeVal + (1-alpha)*pubScores[src]
		if score > minBlendedScore {
			combined[src] = score
		}
	}
	for src, pubVal := range pubScores {
		if _, seen := bgeScores[src]; seen {
			continue
		}
		score := (1 - alpha) * pubVal
		if score > minBlendedScore {
			combined[src] = score
		}
	}
	return combined
}

// RankSources 得分降序排序并截断到topK。
// 得分相同时按标识符升序，保证排名确定性。
func RankSources(combined map[string]float64, topK int) []string {
	ranked := make([]string, 0, len(combined))
	for src := range combined {
		ranked = append(ranked, src)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if combined[ranked[i]] == combined[ranked[j]] {
			return ranked[i] < ranked[j]
		}
		return combined[ranked[i]] > combined[ranked[j]]
	})
	if topK > 0 && len(ranked) > topK {
		ranked = ranked[:topK]
	}
	return ranked
}
