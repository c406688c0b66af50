package models

import "time"

// GeneEntry NCBI基因条目（symbol→gene_id→summary 快速查询表）
type GeneEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Symbol    string    `gorm:"size:64;uniqueIndex;not null" json:"symbol"`
	GeneID    string    `gorm:"size:32;index;not null" json:"gene_id"`
	Summary   string    `gorm:"type:text" json:"summary"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (GeneEntry) TableName() string {
	return "gene_entries"
}

// UniProtEntry UniProt蛋白条目
type UniProtEntry struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:64;uniqueIndex;not null" json:"name"`
	Entry        string    `gorm:"size:32;not null" json:"entry"`
	ProteinNames string    `gorm:"type:text" json:"protein_names"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (UniProtEntry) TableName() string {
	return "uniprot_entries"
}
