package genes

import (
	"context"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// Completer 兜底模型补全能力（窄接口，由上层注入以避免包环）
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// CompleterFactory 按调用方凭证构建兜底补全客户端
type CompleterFactory func(apiKey string) Completer

// 候选基因token：Phvul位点全名，或以大写字母开头、含数字的短符号，
// 或2-8位全大写缩写
var candidatePattern = regexp.MustCompile(`\bPhvul\.\d{3}G\d+\b|\b[A-Z][A-Za-z]{0,7}\d[A-Za-z0-9]*\b|\b[A-Z]{2,8}\b`)

// 文献常见非基因缩写，直接排除
var extractionStopwords = map[string]struct{}{
	"DNA": {}, "RNA": {}, "PCR": {}, "QTL": {}, "QTLS": {}, "MAS": {},
	"CBB": {}, "SNP": {}, "SNPS": {}, "NCBI": {}, "HSD": {}, "ROS": {},
	"ANOVA": {}, "USA": {}, "LG": {}, "PV": {}, "AUBN": {}, "WOOD": {},
	"WINC": {}, "STHM": {}, "CMV": {}, "CB": {}, "GWAS": {}, "RIL": {},
	"NIL": {}, "BLUP": {}, "AMOVA": {},
}

// 词典快速通道：菜豆遗传学文献中已验证的符号与家族名
var defaultLexicon = []string{
	"BC420", "SU91", "SAP6", "PAL", "WRKY", "NAC", "MYB", "BHLH",
	"PR-1", "PR-5", "PVPR1", "PVPR2", "COK-4", "PHVUL.010G140000",
	"PHVUL.006G150000", "NDR1", "NPR1", "PGIP", "CHS", "CHI", "DFR",
	"ANS", "F3H", "BRCA1", "SBE1", "PHA-L", "ARC1",
}

const extractorFallbackSystemPrompt = `You are an expert in plant molecular genetics. You will be given candidate tokens extracted from a research text about Phaseolus vulgaris. Return only the tokens that are real gene symbols, genetic markers, or gene family names. Respond with a comma-separated list and nothing else. If none are genes, respond with 'none'.`

// Extractor 基因符号抽取：词典+正则快速通道识别高置信符号，
// 其余歧义token用一次兜底模型调用裁决
type Extractor struct {
	lexicon map[string]struct{}
	factory CompleterFactory
	logger  *zap.Logger
}

// NewExtractor 创建抽取器，factory为nil时关闭模型兜底
func NewExtractor(factory CompleterFactory, logger *zap.Logger) *Extractor {
	lexicon := make(map[string]struct{}, len(defaultLexicon))
	for _, symbol := range defaultLexicon {
		lexicon[strings.ToUpper(symbol)] = struct{}{}
	}
	return &Extractor{lexicon: lexicon, factory: factory, logger: logger}
}

// AddSymbols 向词典追加符号
func (e *Extractor) AddSymbols(symbols []string) {
	for _, symbol := range symbols {
		symbol = strings.ToUpper(strings.TrimSpace(symbol))
		if symbol != "" {
			e.lexicon[symbol] = struct{}{}
		}
	}
}

// Extract 从自由文本中抽取去重后的基因符号。
// 返回的dictHits/modelHits标记每个符号的识别通道。
// 兜底模型失败时降级为仅词典结果，不视为抽取失败。
func (e *Extractor) Extract(ctx context.Context, text, apiKey string) ([]string, map[string]bool, map[string]bool, error) {
	candidates := e.candidates(text)

	dictHits := make(map[string]bool)
	modelHits := make(map[string]bool)
	var ambiguous []string
	for _, candidate := range candidates {
		if _, ok := e.lexicon[strings.ToUpper(candidate)]; ok {
			dictHits[candidate] = true
		} else {
			ambiguous = append(ambiguous, candidate)
		}
	}

	if len(ambiguous) > 0 && e.factory != nil && apiKey != "" {
		confirmed, err := e.resolveAmbiguous(ctx, apiKey, ambiguous)
		if err != nil {
			e.logger.Warn("Gene extraction model fallback failed", zap.Error(err))
		} else {
			for _, symbol := range confirmed {
				modelHits[symbol] = true
			}
		}
	}

	symbols := make([]string, 0, len(dictHits)+len(modelHits))
	for _, candidate := range candidates {
		if dictHits[candidate] || modelHits[candidate] {
			symbols = append(symbols, candidate)
		}
	}
	return symbols, dictHits, modelHits, nil
}

// candidates 按出现顺序返回去重后的候选token
func (e *Extractor) candidates(text string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, token := range candidatePattern.FindAllString(text, -1) {
		upper := strings.ToUpper(token)
		if _, stop := extractionStopwords[upper]; stop {
			continue
		}
		if _, dup := seen[upper]; dup {
			continue
		}
		seen[upper] = struct{}{}
		out = append(out, token)
	}
	return out
}

func (e *Extractor) resolveAmbiguous(ctx context.Context, apiKey string, ambiguous []string) ([]string, error) {
	client := e.factory(apiKey)
	reply, err := client.Complete(ctx, extractorFallbackSystemPrompt, strings.Join(ambiguous, ", "))
	if err != nil {
		return nil, err
	}

	reply = strings.TrimSpace(reply)
	if reply == "" || strings.EqualFold(reply, "none") {
		return nil, nil
	}

	// 只接受模型返回中确实存在于候选集的token
	allowed := make(map[string]string, len(ambiguous))
	for _, candidate := range ambiguous {
		allowed[strings.ToUpper(candidate)] = candidate
	}
	var confirmed []string
	for _, part := range strings.Split(reply, ",") {
		if original, ok := allowed[strings.ToUpper(strings.TrimSpace(part))]; ok {
			confirmed = append(confirmed, original)
		}
	}
	return confirmed, nil
}
