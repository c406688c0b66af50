package genes

// 基因记录来源标签
const (
	SourceNCBI       = "NCBI Gene Database"
	SourceUniProt    = "UniProt Protein Database"
	SourceLiterature = "Literature Mention"
)

// GeneRecord 一条解析后的基因展示记录
type GeneRecord struct {
	Name        string `json:"name"`
	Summary     string `json:"summary"`
	Link        string `json:"link,omitempty"`
	Source      string `json:"source"`
	Description string `json:"description"`
	NotFound    bool   `json:"not_found,omitempty"`
}

// UniProtInfo UniProt查询结果
type UniProtInfo struct {
	Entry        string
	ProteinNames string
}
