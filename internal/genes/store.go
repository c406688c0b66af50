package genes

import (
	"context"
	"errors"
	"strings"

	"github.com/beanhub/backend-go/internal/models"
	"gorm.io/gorm"
)

// Store 基因与蛋白数据库查询能力。
// 未命中返回零值而非错误，错误只用于底层存储故障。
type Store interface {
	LookupGeneID(ctx context.Context, symbol string) (string, error)
	GeneSummary(ctx context.Context, geneID string) (string, error)
	LookupUniProt(ctx context.Context, name string) (*UniProtInfo, error)
}

type gormStore struct {
	db *gorm.DB
}

// NewGormStore 基于gorm的基因库实现
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) LookupGeneID(ctx context.Context, symbol string) (string, error) {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return "", nil
	}
	var entry models.GeneEntry
	err := s.db.WithContext(ctx).Where("LOWER(symbol) = LOWER(?)", symbol).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return entry.GeneID, nil
}

func (s *gormStore) GeneSummary(ctx context.Context, geneID string) (string, error) {
	var entry models.GeneEntry
	err := s.db.WithContext(ctx).Where("gene_id = ?", geneID).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return entry.Summary, nil
}

func (s *gormStore) LookupUniProt(ctx context.Context, name string) (*UniProtInfo, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	var entry models.UniProtEntry
	err := s.db.WithContext(ctx).Where("LOWER(name) = LOWER(?)", name).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &UniProtInfo{Entry: entry.Entry, ProteinNames: entry.ProteinNames}, nil
}
