package pipeline

import "strings"

// NormalizeScores 将一个索引的原始相似度做min-max归一化到[0,1]。
// 空集合或所有得分相等时全部归零，避免除零。
// 键优先取元数据DOI（去除首尾空白），缺失时退回匹配自身的ID。
func NormalizeScores(matches []Match) map[string]float64 {
	scores := make(map[string]float64, len(matches))
	if len(matches) == 0 {
		return scores
	}

	minScore, maxScore := matches[0].Score, matches[0].Score
	for _, m := range matches[1:] {
		if m.Score < minScore {
			minScore = m.Score
		}
		if m.Score > maxScore {
			maxScore = m.Score
		}
	}

	if maxScore == minScore {
		for _, m := range matches {
			scores[matchKey(m)] = 0.0
		}
		return scores
	}

	span := maxScore - minScore
	for _, m := range matches {
		scores[matchKey(m)] = (m.Score - minScore) / span
	}
	return scores
}

func matchKey(m Match) string {
	if doi := strings.TrimSpace(m.Metadata.DOI); doi != "" {
		return doi
	}
	return m.ID
}
