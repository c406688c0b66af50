package beandata

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gorm.io/gorm"

	apperrors "github.com/beanhub/backend-go/internal/errors"
	"github.com/beanhub/backend-go/internal/models"
)

// Service 安大略菜豆试验数据分析服务。
// 输入来自模型函数调用的参数，输出为可直接展示的markdown与图表载荷。
type Service struct {
	db       *gorm.DB
	validate *validator.Validate
	logger   *zap.Logger
}

// NewService 创建数据分析服务
func NewService(db *gorm.DB, logger *zap.Logger) *Service {
	return &Service{
		db:       db,
		validate: validator.New(),
		logger:   logger,
	}
}

// cultivarStats 按品种聚合的试验指标
type cultivarStats struct {
	CultivarName string
	AvgYield     float64
	AvgMaturity  float64
	Trials       int64
	MinYear      int
	MaxYear      int
}

// Answer 执行一次数据查询。参数先校验，品种名先对照数据集纠偏，
// 再按问题意图路由到交叉分析、气象报告或常规概览。
func (s *Service) Answer(ctx context.Context, req *QueryRequest) (*Result, error) {
	if err := s.validate.StructCtx(ctx, req); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeValidationFailed, apperrors.ErrorTypeValidation, "invalid bean data query", err)
	}

	names, err := s.cultivarNames(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeDatabaseError, apperrors.ErrorTypeSystem, "load cultivar names failed", err)
	}
	if len(names) == 0 {
		return &Result{Preview: "Bean trial data could not be loaded."}, nil
	}

	mentioned := mentionedCultivars(req.OriginalQuestion, names)

	// 函数调用给出的品种名若不在数据集内则剔除，避免分析不存在的品种
	invalidName := ""
	if req.Cultivar != "" && !containsName(names, req.Cultivar) {
		s.logger.Warn("Function call suggested unknown cultivar",
			zap.String("cultivar", req.Cultivar))
		invalidName = req.Cultivar
		req.Cultivar = ""
	}
	if len(mentioned) > 0 {
		req.Cultivar = mentioned[0]
	}

	question := req.OriginalQuestion
	switch {
	case IsCrossAnalysis(question):
		return s.crossAnalysis(ctx)
	case IsWeatherQuery(question) && req.Location != "":
		return s.weatherReport(ctx, req.Location, question)
	default:
		return s.overview(ctx, question, mentioned, invalidName, ChartRequested(question))
	}
}

func (s *Service) cultivarNames(ctx context.Context) ([]string, error) {
	var names []string
	err := s.db.WithContext(ctx).Model(&models.TrialRecord{}).
		Distinct("cultivar_name").Order("cultivar_name").Pluck("cultivar_name", &names).Error
	return names, err
}

// mentionedCultivars 在问题文本中检出数据集里真实存在的品种名。
// 整名命中或任一长度大于3的词命中都算提及。
func mentionedCultivars(question string, names []string) []string {
	questionLower := strings.ToLower(question)
	var mentioned []string
	for _, name := range names {
		nameLower := strings.ToLower(name)
		if strings.Contains(questionLower, nameLower) {
			mentioned = append(mentioned, name)
			continue
		}
		for _, word := range strings.Fields(nameLower) {
			if len(word) > 3 && strings.Contains(questionLower, word) {
				mentioned = append(mentioned, name)
				break
			}
		}
	}
	return mentioned
}

func containsName(names []string, target string) bool {
	for _, name := range names {
		if strings.EqualFold(name, target) {
			return true
		}
	}
	return false
}

// crossAnalysis 找出生长季平均气温最高的试验站及其种植的品种
func (s *Service) crossAnalysis(ctx context.Context) (*Result, error) {
	var locations []string
	if err := s.db.WithContext(ctx).Model(&models.TrialRecord{}).
		Distinct("location").Where("location <> ''").Pluck("location", &locations).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeDatabaseError, apperrors.ErrorTypeSystem, "load trial locations failed", err)
	}

	type locationTemp struct {
		beanLocation string
		histLocation string
		avgTemp      float64
	}
	var temps []locationTemp
	for _, beanLocation := range locations {
		histLocation, ok := weatherLocation(beanLocation)
		if !ok {
			continue
		}
		var row struct {
			AvgTemp float64
			Records int64
		}
		err := s.db.WithContext(ctx).Model(&models.WeatherRecord{}).
			Select("AVG(temperature) AS avg_temp, COUNT(*) AS records").
			Where("location = ? AND month BETWEEN ? AND ?", histLocation, growingSeasonStart, growingSeasonEnd).
			Scan(&row).Error
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeDatabaseError, apperrors.ErrorTypeSystem, "load growing season temperature failed", err)
		}
		if row.Records == 0 {
			continue
		}
		temps = append(temps, locationTemp{beanLocation: beanLocation, histLocation: histLocation, avgTemp: row.AvgTemp})
	}

	if len(temps) == 0 {
		return &Result{Preview: "**⚠️ Unable to calculate location temperatures - insufficient weather data linkage**"}, nil
	}

	sort.Slice(temps, func(i, j int) bool { return temps[i].avgTemp > temps[j].avgTemp })
	hottest := temps[0]

	var stats []cultivarStats
	err := s.db.WithContext(ctx).Model(&models.TrialRecord{}).
		Select("cultivar_name, AVG(yield) AS avg_yield, COUNT(*) AS trials, MIN(year) AS min_year, MAX(year) AS max_year").
		Where("location = ?", hottest.beanLocation).
		Group("cultivar_name").Order("cultivar_name").
		Scan(&stats).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeDatabaseError, apperrors.ErrorTypeSystem, "load cultivars at hottest location failed", err)
	}
	if len(stats) == 0 {
		return &Result{Preview: fmt.Sprintf("**⚠️ No cultivar data found for %s**", hottest.beanLocation)}, nil
	}

	var b strings.Builder
	b.WriteString("## 🌡️ **Location Temperature Analysis**\n\n")
	b.WriteString(fmt.Sprintf("**🔥 Hottest Location**: %s", hottest.beanLocation))
	if hottest.beanLocation != hottest.histLocation {
		b.WriteString(fmt.Sprintf(" (%s)", hottest.histLocation))
	}
	b.WriteString(fmt.Sprintf("\n**📊 Average Growing Season Temperature**: %.1f°C\n\n", hottest.avgTemp))

	b.WriteString(fmt.Sprintf("**🌱 Cultivars Grown at %s:**\n", hottest.beanLocation))
	for _, stat := range stats {
		b.WriteString(fmt.Sprintf("- **%s**: %.1f kg/ha average (%d trials)\n", stat.CultivarName, stat.AvgYield, stat.Trials))
	}

	b.WriteString("\n**📈 Temperature Comparison with Other Locations:**\n")
	for i, temp := range temps {
		if i >= 5 {
			break
		}
		status := fmt.Sprintf("%d.", i+1)
		if i == 0 {
			status = "🔥"
		}
		b.WriteString(fmt.Sprintf("%s **%s**: %.1f°C\n", status, temp.beanLocation, temp.avgTemp))
	}
	b.WriteString(fmt.Sprintf("\n*Analysis based on %d locations with weather data.*", len(temps)))

	text := b.String()
	return &Result{Preview: text, FullMarkdown: text}, nil
}

// weatherReport 生成指定试验站的气象概况
func (s *Service) weatherReport(ctx context.Context, location, question string) (*Result, error) {
	unavailable := fmt.Sprintf("**⚠️ Weather data not available for %s**\n\nAvailable locations: Auburn, Blyth, Elora, Granton, Harrow, Kippen, Monkton, St. Thomas, Thorndale, Winchester, Woodstock", location)

	histLocation, ok := weatherLocation(location)
	if !ok {
		return &Result{Preview: unavailable}, nil
	}

	var span struct {
		MinYear int
		MaxYear int
		Records int64
	}
	err := s.db.WithContext(ctx).Model(&models.WeatherRecord{}).
		Select("MIN(year) AS min_year, MAX(year) AS max_year, COUNT(*) AS records").
		Where("location = ?", histLocation).
		Scan(&span).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeDatabaseError, apperrors.ErrorTypeSystem, "load weather span failed", err)
	}
	if span.Records == 0 {
		return &Result{Preview: unavailable}, nil
	}

	// 最近5年均值，降水由日均折算为年估计值
	var recent struct {
		AvgTemp     float64
		AvgPrecip   float64
		AvgHumidity float64
		AvgMin      float64
		AvgMax      float64
	}
	err = s.db.WithContext(ctx).Model(&models.WeatherRecord{}).
		Select("AVG(temperature) AS avg_temp, AVG(precipitation) AS avg_precip, AVG(humidity) AS avg_humidity, AVG(min_temp) AS avg_min, AVG(max_temp) AS avg_max").
		Where("location = ? AND year >= ?", histLocation, span.MaxYear-4).
		Scan(&recent).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeDatabaseError, apperrors.ErrorTypeSystem, "load recent weather averages failed", err)
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("## 🌤️ **Weather Data for %s**\n\n", location))
	b.WriteString(fmt.Sprintf("**📍 Location**: %s Research Station\n", histLocation))
	b.WriteString(fmt.Sprintf("**📊 Data Period**: %d-%d\n\n", span.MinYear, span.MaxYear))
	b.WriteString("**Recent 5-Year Averages:**\n")
	b.WriteString(fmt.Sprintf("- **Temperature**: %.1f°C\n", recent.AvgTemp))
	b.WriteString(fmt.Sprintf("- **Annual Precipitation**: ~%.0fmm\n", recent.AvgPrecip*365))
	b.WriteString(fmt.Sprintf("- **Relative Humidity**: %.1f%%\n\n", recent.AvgHumidity))

	if strings.Contains(strings.ToLower(question), "temperature") {
		b.WriteString("**🌡️ Temperature Details:**\n")
		b.WriteString(fmt.Sprintf("- **Average**: %.1f°C\n", recent.AvgTemp))
		b.WriteString(fmt.Sprintf("- **Typical Range**: %.1f°C to %.1f°C\n\n", recent.AvgMin, recent.AvgMax))
	}

	b.WriteString(fmt.Sprintf("*This data comes from %d historical weather records for bean trial research.*\n", span.Records))

	text := b.String()
	return &Result{Preview: text, FullMarkdown: text}, nil
}

// overview 常规分析：提及品种的明细、数据集概况、可选的头部品种榜与图表载荷
func (s *Service) overview(ctx context.Context, question string, mentioned []string, invalidName string, chartRequested bool) (*Result, error) {
	var b strings.Builder
	if chartRequested {
		b.WriteString("## 📊 **Bean Data Analysis**\n\n")
	} else {
		b.WriteString("## 📊 **Bean Data Overview**\n\n")
	}

	if invalidName != "" {
		b.WriteString(fmt.Sprintf("⚠️ **Note:** The cultivar '%s' was not found in the Ontario bean trial dataset. The analysis below shows general bean performance data.\n\n", invalidName))
	}

	if len(mentioned) > 0 {
		b.WriteString(fmt.Sprintf("**🌱 Cultivars analyzed:** %s\n\n", strings.Join(mentioned, ", ")))
		for _, name := range mentioned {
			if err := s.writeCultivarDetail(ctx, &b, name); err != nil {
				return nil, err
			}
		}
	}

	var dataset struct {
		Records     int64
		MinYear     int
		MaxYear     int
		Cultivars   int64
		AvgYield    float64
		MinYield    float64
		MaxYield    float64
		AvgMaturity float64
		MinMaturity float64
		MaxMaturity float64
	}
	err := s.db.WithContext(ctx).Model(&models.TrialRecord{}).
		Select("COUNT(*) AS records, MIN(year) AS min_year, MAX(year) AS max_year, COUNT(DISTINCT cultivar_name) AS cultivars, AVG(yield) AS avg_yield, MIN(yield) AS min_yield, MAX(yield) AS max_yield, AVG(maturity) AS avg_maturity, MIN(maturity) AS min_maturity, MAX(maturity) AS max_maturity").
		Scan(&dataset).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeDatabaseError, apperrors.ErrorTypeSystem, "load dataset statistics failed", err)
	}

	b.WriteString(fmt.Sprintf("**📊 Dataset:** %d records from Ontario bean trials\n", dataset.Records))
	b.WriteString(fmt.Sprintf("**📅 Years:** %d-%d\n", dataset.MinYear, dataset.MaxYear))
	b.WriteString(fmt.Sprintf("**🌱 Unique cultivars:** %d\n", dataset.Cultivars))
	b.WriteString(fmt.Sprintf("**🌾 Yield range:** %.1f - %.1f kg/ha (avg: %.1f)\n", dataset.MinYield, dataset.MaxYield, dataset.AvgYield))
	b.WriteString(fmt.Sprintf("**⏰ Maturity range:** %.0f - %.0f days (avg: %.1f)\n", dataset.MinMaturity, dataset.MaxMaturity, dataset.AvgMaturity))

	var top []cultivarStats
	if len(mentioned) == 0 && asksPerformance(question) {
		err := s.db.WithContext(ctx).Model(&models.TrialRecord{}).
			Select("cultivar_name, AVG(yield) AS avg_yield, AVG(maturity) AS avg_maturity, COUNT(*) AS trials").
			Group("cultivar_name").Order("avg_yield DESC").Limit(5).
			Scan(&top).Error
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeDatabaseError, apperrors.ErrorTypeSystem, "load top performers failed", err)
		}
		if len(top) > 0 {
			b.WriteString("\n**🏆 Top Performing Cultivars:**\n")
			for _, stat := range top {
				b.WriteString(fmt.Sprintf("- **%s**: %.1f kg/ha average (%d trials)\n", stat.CultivarName, stat.AvgYield, stat.Trials))
			}
			b.WriteString("\n")
		}
	}

	result := &Result{}
	if chartRequested {
		chart, table, err := s.buildChart(ctx, mentioned)
		if err != nil {
			s.logger.Warn("Chart generation failed, returning text analysis only", zap.Error(err))
		} else {
			result.ChartData = chart
			result.FullMarkdown = table
		}
	} else {
		b.WriteString("**💡 Tip:** Ask for a chart or visualization to see the data graphically!\n")
	}

	result.Preview = b.String()
	if result.FullMarkdown == "" {
		result.FullMarkdown = result.Preview
	}
	return result, nil
}

func (s *Service) writeCultivarDetail(ctx context.Context, b *strings.Builder, name string) error {
	var records []models.TrialRecord
	err := s.db.WithContext(ctx).
		Where("cultivar_name = ?", name).Order("year, location").
		Find(&records).Error
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeDatabaseError, apperrors.ErrorTypeSystem, "load cultivar trials failed", err)
	}
	if len(records) == 0 {
		return nil
	}

	var yieldSum, maturitySum float64
	minYear, maxYear := records[0].Year, records[0].Year
	locationSet := make(map[string]struct{})
	var locations []string
	for _, record := range records {
		yieldSum += record.Yield
		maturitySum += record.Maturity
		if record.Year < minYear {
			minYear = record.Year
		}
		if record.Year > maxYear {
			maxYear = record.Year
		}
		if _, ok := locationSet[record.Location]; !ok && record.Location != "" {
			locationSet[record.Location] = struct{}{}
			locations = append(locations, record.Location)
		}
	}

	first := records[0]
	b.WriteString(fmt.Sprintf("**%s Performance:**\n", name))
	b.WriteString(fmt.Sprintf("- **Records:** %d trials\n", len(records)))
	b.WriteString(fmt.Sprintf("- **Average yield:** %.2f kg/ha\n", yieldSum/float64(len(records))))
	b.WriteString(fmt.Sprintf("- **Average maturity:** %.1f days\n", maturitySum/float64(len(records))))
	if first.MarketClass != "" {
		b.WriteString(fmt.Sprintf("- **Market class:** %s\n", first.MarketClass))
	}
	if first.ReleasedYear > 0 {
		b.WriteString(fmt.Sprintf("- **Released:** %d\n", first.ReleasedYear))
	}
	if first.Pedigree != "" {
		b.WriteString(fmt.Sprintf("- **Pedigree:** %s\n", first.Pedigree))
	}
	if traits := resistanceTraits(first); len(traits) > 0 {
		b.WriteString(fmt.Sprintf("- **Disease resistance:** %s\n", strings.Join(traits, ", ")))
	}
	b.WriteString(fmt.Sprintf("- **Years tested:** %d-%d\n", minYear, maxYear))
	b.WriteString(fmt.Sprintf("- **Locations:** %s\n\n", strings.Join(locations, ", ")))
	return nil
}

// resistanceTraits 汇总记录中标记为R的抗性性状
func resistanceTraits(record models.TrialRecord) []string {
	var traits []string
	check := func(value, label string) {
		if strings.EqualFold(value, "R") {
			traits = append(traits, label)
		}
	}
	check(record.CMVR1, "CMV R1")
	check(record.CMVR15, "CMV R15")
	check(record.AnthR17, "Anth R17")
	check(record.AnthR23, "Anth R23")
	check(record.AnthR73, "Anth R73")
	check(record.CommonBlight, "CB")
	return traits
}

// buildChart 生成品种平均产量柱状图载荷与完整markdown表。
// 提及了品种时只画这些品种，否则取平均产量前十。
func (s *Service) buildChart(ctx context.Context, mentioned []string) (map[string]any, string, error) {
	query := s.db.WithContext(ctx).Model(&models.TrialRecord{}).
		Select("cultivar_name, AVG(yield) AS avg_yield, AVG(maturity) AS avg_maturity, COUNT(*) AS trials, MIN(year) AS min_year, MAX(year) AS max_year").
		Group("cultivar_name")
	if len(mentioned) > 0 {
		query = query.Where("cultivar_name IN ?", mentioned).Order("cultivar_name")
	} else {
		query = query.Order("avg_yield DESC").Limit(10)
	}

	var stats []cultivarStats
	if err := query.Scan(&stats).Error; err != nil {
		return nil, "", apperrors.Wrap(apperrors.ErrCodeDatabaseError, apperrors.ErrorTypeSystem, "load chart aggregates failed", err)
	}
	if len(stats) == 0 {
		return nil, "", nil
	}

	labels := make([]string, 0, len(stats))
	yields := make([]float64, 0, len(stats))
	for _, stat := range stats {
		labels = append(labels, stat.CultivarName)
		yields = append(yields, stat.AvgYield)
	}
	chart := map[string]any{
		"type":   "bar",
		"title":  "Average Yield by Cultivar (kg/ha)",
		"x":      labels,
		"y":      yields,
		"xLabel": "Cultivar",
		"yLabel": "Yield (kg/ha)",
	}

	var table strings.Builder
	table.WriteString("| Cultivar | Avg Yield (kg/ha) | Avg Maturity (days) | Trials | Years |\n")
	table.WriteString("|---|---|---|---|---|\n")
	for _, stat := range stats {
		table.WriteString(fmt.Sprintf("| %s | %.1f | %.1f | %d | %d-%d |\n",
			stat.CultivarName, stat.AvgYield, stat.AvgMaturity, stat.Trials, stat.MinYear, stat.MaxYear))
	}
	return chart, table.String(), nil
}
