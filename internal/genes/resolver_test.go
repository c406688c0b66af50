package genes

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeStore struct {
	geneIDs   map[string]string
	summaries map[string]string
	uniprot   map[string]*UniProtInfo
	geneErr   error
	uniErr    error
}

func (f *fakeStore) LookupGeneID(ctx context.Context, symbol string) (string, error) {
	if f.geneErr != nil {
		return "", f.geneErr
	}
	return f.geneIDs[symbol], nil
}

func (f *fakeStore) GeneSummary(ctx context.Context, geneID string) (string, error) {
	return f.summaries[geneID], nil
}

func (f *fakeStore) LookupUniProt(ctx context.Context, name string) (*UniProtInfo, error) {
	if f.uniErr != nil {
		return nil, f.uniErr
	}
	return f.uniprot[name], nil
}

func TestResolveNCBIHit(t *testing.T) {
	store := &fakeStore{
		geneIDs:   map[string]string{"PAL": "18874"},
		summaries: map[string]string{"18874": "Phenylalanine ammonia-lyase, entry point of the phenylpropanoid pathway."},
	}
	resolver := NewResolver(store, nil, 0, zap.NewNop())

	records := resolver.ResolveBatch(context.Background(), []string{"PAL"})
	require.Len(t, records, 1)

	record := records[0]
	assert.Equal(t, "PAL", record.Name)
	assert.Equal(t, SourceNCBI, record.Source)
	assert.Equal(t, "**NCBI Gene Database**\n\nPhenylalanine ammonia-lyase, entry point of the phenylpropanoid pathway.", record.Summary)
	assert.Equal(t, "https://www.ncbi.nlm.nih.gov/gene/18874", record.Link)
	assert.False(t, record.NotFound)
}

// 命中基因ID但无摘要时用ID占位描述
func TestResolveNCBIHitWithoutSummary(t *testing.T) {
	store := &fakeStore{geneIDs: map[string]string{"SAP6": "99001"}}
	resolver := NewResolver(store, nil, 0, zap.NewNop())

	records := resolver.ResolveBatch(context.Background(), []string{"SAP6"})
	require.Len(t, records, 1)
	assert.Equal(t, "**NCBI Gene Database**\n\nGene ID: 99001", records[0].Summary)
}

func TestResolveUniProtFallback(t *testing.T) {
	store := &fakeStore{
		uniprot: map[string]*UniProtInfo{
			"PGIP": {Entry: "P35334", ProteinNames: "Polygalacturonase inhibitor"},
		},
	}
	resolver := NewResolver(store, nil, 0, zap.NewNop())

	records := resolver.ResolveBatch(context.Background(), []string{"PGIP"})
	require.Len(t, records, 1)

	record := records[0]
	assert.Equal(t, SourceUniProt, record.Source)
	assert.Contains(t, record.Summary, "**UniProt Protein Database**")
	assert.Contains(t, record.Summary, "Polygalacturonase inhibitor")
	assert.Equal(t, "https://www.uniprot.org/uniprotkb/P35334", record.Link)
	assert.False(t, record.NotFound)
}

func TestResolveLiteraturePlaceholder(t *testing.T) {
	resolver := NewResolver(&fakeStore{}, nil, 0, zap.NewNop())

	records := resolver.ResolveBatch(context.Background(), []string{"XYZ9"})
	require.Len(t, records, 1)

	record := records[0]
	assert.Equal(t, SourceLiterature, record.Source)
	assert.Equal(t, "**Literature Mention**\n\nGene identifier: XYZ9\nSource: Literature mention", record.Summary)
	assert.Empty(t, record.Link)
	assert.True(t, record.NotFound)
}

// 存储故障也降级到下一级，解析从不返回错误
func TestResolveStoreErrorsDegrade(t *testing.T) {
	store := &fakeStore{geneErr: errors.New("db down"), uniErr: errors.New("db down")}
	resolver := NewResolver(store, nil, 0, zap.NewNop())

	records := resolver.ResolveBatch(context.Background(), []string{"PAL"})
	require.Len(t, records, 1)
	assert.Equal(t, SourceLiterature, records[0].Source)
	assert.True(t, records[0].NotFound)
}

// 输出与输入等长同序，重复符号不合并
func TestResolveBatchOrderAndDuplicates(t *testing.T) {
	store := &fakeStore{geneIDs: map[string]string{"PAL": "18874"}}
	resolver := NewResolver(store, nil, 0, zap.NewNop())

	records := resolver.ResolveBatch(context.Background(), []string{"ZZZ1", "PAL", "ZZZ1"})
	require.Len(t, records, 3)
	assert.Equal(t, "ZZZ1", records[0].Name)
	assert.Equal(t, "PAL", records[1].Name)
	assert.Equal(t, "ZZZ1", records[2].Name)
	assert.Equal(t, SourceNCBI, records[1].Source)
	assert.Equal(t, SourceLiterature, records[2].Source)
}

func TestResolveBatchEmpty(t *testing.T) {
	resolver := NewResolver(&fakeStore{}, nil, 0, zap.NewNop())
	records := resolver.ResolveBatch(context.Background(), nil)
	assert.Empty(t, records)
}
