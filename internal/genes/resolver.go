package genes

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Resolver 将抽取出的基因符号批量解析为展示记录。
// 三级回退链：NCBI基因库 → UniProt蛋白库 → 文献提及占位记录。
// 输入符号不丢弃、不去重，输出顺序与输入一致。
type Resolver struct {
	store  Store
	cache  *redis.Client // 可为nil
	ttl    time.Duration
	logger *zap.Logger
}

// NewResolver 创建基因解析器，cache为nil时关闭缓存
func NewResolver(store Store, cache *redis.Client, ttl time.Duration, logger *zap.Logger) *Resolver {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Resolver{store: store, cache: cache, ttl: ttl, logger: logger}
}

// ResolveBatch 逐个解析符号，任何一级失败都降级到下一级，从不返回错误
func (r *Resolver) ResolveBatch(ctx context.Context, symbols []string) []GeneRecord {
	records := make([]GeneRecord, 0, len(symbols))
	for _, symbol := range symbols {
		records = append(records, r.resolve(ctx, symbol))
	}
	return records
}

func (r *Resolver) resolve(ctx context.Context, symbol string) GeneRecord {
	if record, ok := r.cacheGet(ctx, symbol); ok {
		return record
	}

	record := r.lookup(ctx, symbol)
	r.cachePut(ctx, symbol, record)
	return record
}

func (r *Resolver) lookup(ctx context.Context, symbol string) GeneRecord {
	geneID, err := r.store.LookupGeneID(ctx, symbol)
	if err != nil {
		r.logger.Warn("Gene ID lookup failed", zap.String("symbol", symbol), zap.Error(err))
	}
	if geneID != "" {
		summary, err := r.store.GeneSummary(ctx, geneID)
		if err != nil {
			r.logger.Warn("Gene summary lookup failed", zap.String("gene_id", geneID), zap.Error(err))
		}
		description := summary
		if description == "" {
			description = fmt.Sprintf("Gene ID: %s", geneID)
		}
		return GeneRecord{
			Name:        symbol,
			Summary:     fmt.Sprintf("**NCBI Gene Database**\n\n%s", description),
			Link:        fmt.Sprintf("https://www.ncbi.nlm.nih.gov/gene/%s", geneID),
			Source:      SourceNCBI,
			Description: description,
		}
	}

	info, err := r.store.LookupUniProt(ctx, symbol)
	if err != nil {
		r.logger.Warn("UniProt lookup failed", zap.String("symbol", symbol), zap.Error(err))
	}
	if info != nil {
		description := info.ProteinNames
		if description == "" {
			description = fmt.Sprintf("UniProt Entry: %s", info.Entry)
		}
		return GeneRecord{
			Name:        symbol,
			Summary:     fmt.Sprintf("![UniProt Logo](/images/UniProtLogo.png)\n\n**UniProt Protein Database**\n\n%s", description),
			Link:        fmt.Sprintf("https://www.uniprot.org/uniprotkb/%s", info.Entry),
			Source:      SourceUniProt,
			Description: description,
		}
	}

	return GeneRecord{
		Name:        symbol,
		Summary:     fmt.Sprintf("**Literature Mention**\n\nGene identifier: %s\nSource: Literature mention", symbol),
		Source:      SourceLiterature,
		Description: fmt.Sprintf("Gene mentioned in research literature: %s", symbol),
		NotFound:    true,
	}
}

func (r *Resolver) cacheKey(symbol string) string {
	return "gene:record:" + symbol
}

func (r *Resolver) cacheGet(ctx context.Context, symbol string) (GeneRecord, bool) {
	var record GeneRecord
	if r.cache == nil {
		return record, false
	}
	raw, err := r.cache.Get(ctx, r.cacheKey(symbol)).Bytes()
	if err != nil {
		return record, false
	}
	if err := json.Unmarshal(raw, &record); err != nil {
		return record, false
	}
	return record, true
}

func (r *Resolver) cachePut(ctx context.Context, symbol string, record GeneRecord) {
	if r.cache == nil {
		return
	}
	raw, err := json.Marshal(record)
	if err != nil {
		return
	}
	if err := r.cache.Set(ctx, r.cacheKey(symbol), raw, r.ttl).Err(); err != nil {
		r.logger.Debug("Gene record cache write failed", zap.String("symbol", symbol), zap.Error(err))
	}
}
