package models

// TrialRecord 安大略省菜豆品种试验记录
type TrialRecord struct {
	ID            uint    `gorm:"primaryKey" json:"id"`
	CultivarName  string  `gorm:"size:100;index;not null" json:"cultivar_name"`
	Location      string  `gorm:"size:50;index" json:"location"`
	Year          int     `gorm:"index" json:"year"`
	Yield         float64 `json:"yield"`    // kg/ha
	Maturity      float64 `json:"maturity"` // days
	BeanType      string  `gorm:"size:30" json:"bean_type"` // white bean | coloured bean
	MarketClass   string  `gorm:"size:50" json:"market_class"`
	ReleasedYear  int     `json:"released_year"`
	Pedigree      string  `gorm:"size:200" json:"pedigree"`
	CMVR1         string  `gorm:"size:4" json:"cmv_r1"`
	CMVR15        string  `gorm:"size:4" json:"cmv_r15"`
	AnthR17       string  `gorm:"size:4" json:"anth_r17"`
	AnthR23       string  `gorm:"size:4" json:"anth_r23"`
	AnthR73       string  `gorm:"size:4" json:"anth_r73"`
	CommonBlight  string  `gorm:"size:4" json:"common_blight"`
}

func (TrialRecord) TableName() string {
	return "trial_records"
}

// WeatherRecord 试验站历史气象月度记录
type WeatherRecord struct {
	ID            uint    `gorm:"primaryKey" json:"id"`
	Location      string  `gorm:"size:50;index" json:"location"`
	Year          int     `gorm:"index" json:"year"`
	Month         int     `json:"month"`
	Temperature   float64 `json:"temperature"`     // 月平均气温 °C
	MinTemp       float64 `json:"min_temperature"` // 月平均最低气温
	MaxTemp       float64 `json:"max_temperature"` // 月平均最高气温
	Precipitation float64 `json:"precipitation"`   // 日均降水量 mm
	Humidity      float64 `json:"humidity"`        // 2m相对湿度 %
}

func (WeatherRecord) TableName() string {
	return "weather_records"
}
