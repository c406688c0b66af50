package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/beanhub/backend-go/internal/errors"
	"github.com/beanhub/backend-go/internal/metrics"
)

// RetrievalResult 双索引检索的全部中间产物
type RetrievalResult struct {
	BGEMatches []Match
	PubMatches []Match
	RankedDOIs []string
	Context    string
	Confirmed  []string
}

// retrieve 执行双索引检索：两路嵌入、两路查询、各自归一化后加权融合，
// 排序截断再与元数据对账产出上下文。progress非nil时在阶段间上报进度。
func (p *Pipeline) retrieve(ctx context.Context, question string, progress func(step, detail string) bool) (*RetrievalResult, error) {
	defer metrics.ObserveStage("retrieval", time.Now())

	bgeVec, err := p.bgeEmbedder.Embed(ctx, question)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeEmbeddingFailed, apperrors.ErrorTypeExternal, "bge embedding failed", err)
	}
	pubVec, err := p.pubEmbedder.Embed(ctx, question)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeEmbeddingFailed, apperrors.ErrorTypeExternal, "pubmedbert embedding failed", err)
	}

	if progress != nil && !progress("search", "Searching literature database") {
		return nil, ctx.Err()
	}

	bgeMatches, err := p.index.Query(ctx, p.cfg.BGEIndexName, bgeVec, p.cfg.TopK)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeRetrievalFailed, apperrors.ErrorTypeExternal, "bge index query failed", err)
	}
	pubMatches, err := p.index.Query(ctx, p.cfg.PubIndexName, pubVec, p.cfg.TopK)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeRetrievalFailed, apperrors.ErrorTypeExternal, "pubmedbert index query failed", err)
	}

	bgeScores := NormalizeScores(bgeMatches)
	pubScores := NormalizeScores(pubMatches)
	combined := BlendScores(bgeScores, pubScores, p.cfg.Alpha)
	rankedDOIs := RankSources(combined, p.cfg.TopK)

	p.logger.Debug("Dual index retrieval completed",
		zap.Int("bge_matches", len(bgeMatches)),
		zap.Int("pub_matches", len(pubMatches)),
		zap.Strings("ranked_dois", rankedDOIs))

	ragContext, confirmed := BuildContext(bgeMatches, pubMatches, rankedDOIs)
	return &RetrievalResult{
		BGEMatches: bgeMatches,
		PubMatches: pubMatches,
		RankedDOIs: rankedDOIs,
		Context:    ragContext,
		Confirmed:  confirmed,
	}, nil
}
