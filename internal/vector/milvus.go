package vector

import (
	"context"
	"fmt"
	"time"

	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"
	"go.uber.org/zap"

	"github.com/beanhub/backend-go/internal/pipeline"
)

// Options Milvus客户端配置
type Options struct {
	Address  string
	Username string
	Password string
	Database string
	UseTLS   bool
	Timeout  time.Duration
}

// Store 文献向量库。每个嵌入空间是一个集合，
// 集合中的doi与summary字段随检索结果一并返回。
type Store struct {
	milvusClient client.Client
	logger       *zap.Logger
}

// NewStore 创建Milvus文献向量库
func NewStore(opts Options, logger *zap.Logger) (*Store, error) {
	if opts.Address == "" {
		opts.Address = "localhost:19530"
	}
	if opts.Database == "" {
		opts.Database = "default"
	}
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	milvusClient, err := client.NewClient(ctx, client.Config{
		Address:       opts.Address,
		DBName:        opts.Database,
		Username:      opts.Username,
		Password:      opts.Password,
		EnableTLSAuth: opts.UseTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create milvus client: %w", err)
	}

	return &Store{milvusClient: milvusClient, logger: logger}, nil
}

// Query 在指定集合上做最近邻检索，返回原始相似度与文献元数据
func (s *Store) Query(ctx context.Context, indexName string, vector []float32, topK int) ([]pipeline.Match, error) {
	if len(vector) == 0 {
		return nil, nil
	}
	if topK <= 0 {
		topK = 10
	}

	sp, _ := entity.NewIndexHNSWSearchParam(64)
	searchResults, err := s.milvusClient.Search(
		ctx,
		indexName,
		[]string{},
		"",
		[]string{"doi", "summary"},
		[]entity.Vector{entity.FloatVector(vector)},
		"vector",
		entity.COSINE,
		topK,
		sp,
	)
	if err != nil {
		return nil, fmt.Errorf("milvus search failed: %w", err)
	}
	if len(searchResults) == 0 {
		return []pipeline.Match{}, nil
	}

	result := searchResults[0]
	if result.Err != nil {
		return nil, fmt.Errorf("milvus search error: %w", result.Err)
	}
	if result.ResultCount == 0 {
		return []pipeline.Match{}, nil
	}

	var ids []string
	if idCol, ok := result.IDs.(*entity.ColumnVarChar); ok {
		ids = idCol.Data()
	}

	var dois, summaries []string
	for _, field := range result.Fields {
		switch field.Name() {
		case "doi":
			if col, ok := field.(*entity.ColumnVarChar); ok {
				dois = col.Data()
			}
		case "summary":
			if col, ok := field.(*entity.ColumnVarChar); ok {
				summaries = col.Data()
			}
		}
	}

	matches := make([]pipeline.Match, 0, result.ResultCount)
	for i := 0; i < result.ResultCount; i++ {
		match := pipeline.Match{Score: float64(result.Scores[i])}
		if i < len(ids) {
			match.ID = ids[i]
		}
		if i < len(dois) {
			match.Metadata.DOI = dois[i]
		}
		if i < len(summaries) {
			match.Metadata.Summary = summaries[i]
		}
		matches = append(matches, match)
	}

	s.logger.Debug("Vector index queried",
		zap.String("index", indexName),
		zap.Int("matches", len(matches)))
	return matches, nil
}

// Ready 检查向量库连接是否可用
func (s *Store) Ready() bool {
	return s.milvusClient != nil
}

// Close 释放客户端连接
func (s *Store) Close() error {
	if s.milvusClient == nil {
		return nil
	}
	return s.milvusClient.Close()
}
