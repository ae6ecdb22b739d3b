package processor

import (
	"context"
	"log"
	"os"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"cv-extract-go/internal/taxonomy"
	"cv-extract-go/internal/tracing"
	"cv-extract-go/internal/types"
)

// Components 聚合管线的功能组件依赖，便于集中管理和测试替换
type Components struct {
	// 文本采集组件（降级链封装在实现内部）
	Acquirer TextAcquirer
	// 章节分段组件
	Segmenter SectionSegmenter
	// 技能词表检索组件
	Skills SkillSearcher
}

// Settings 纯配置项，不包含任何业务逻辑组件
type Settings struct {
	// 技能模糊匹配阈值
	SkillFuzzyThreshold int
	// 头部扫描行数（姓名、城市候选范围）
	HeaderScanLines int
	// 经历/教育条目描述截断长度
	DescriptionMaxLen int
	// 全文低于该长度时放弃解析，返回全空档案
	MinUsableTextLen int
	// 附加的技能排除词
	ExtraExcludedWords []string
	// 日志记录器
	Logger *log.Logger
}

// CVPipeline 简历字段抽取管线
// 流程：文本采集 -> 章节分段 -> 各字段独立抽取 -> 组装档案
// 文档质量问题一律降级为空字段，只有不支持的文件类型才返回错误
type CVPipeline struct {
	acquirer  TextAcquirer
	segmenter SectionSegmenter
	skills    *skillExtractor
	settings  Settings
	logger    *log.Logger
}

// NewCVPipeline 创建抽取管线
// components提供功能组件，settings提供纯配置，二者分开传入
func NewCVPipeline(components Components, settings Settings, compOpts []ComponentOpt, setOpts []SettingOpt) *CVPipeline {
	for _, opt := range compOpts {
		opt(&components)
	}
	for _, opt := range setOpts {
		opt(&settings)
	}

	if settings.SkillFuzzyThreshold <= 0 {
		settings.SkillFuzzyThreshold = 85
	}
	if settings.HeaderScanLines <= 0 {
		settings.HeaderScanLines = 20
	}
	if settings.DescriptionMaxLen <= 0 {
		settings.DescriptionMaxLen = 200
	}
	if settings.MinUsableTextLen <= 0 {
		settings.MinUsableTextLen = 50
	}
	if settings.Logger == nil {
		settings.Logger = log.New(os.Stderr, "[抽取管线] ", log.LstdFlags)
	}

	segmenter := components.Segmenter
	if segmenter == nil {
		segmenter = NewFuzzySectionSegmenter()
	}
	if components.Skills == nil {
		components.Skills = taxonomy.Load("", taxonomy.WithLogger(settings.Logger))
	}

	return &CVPipeline{
		acquirer:  components.Acquirer,
		segmenter: segmenter,
		skills:    newSkillExtractor(components.Skills, settings.SkillFuzzyThreshold, settings.ExtraExcludedWords),
		settings:  settings,
		logger:    settings.Logger,
	}
}

// ExtractFromFile 从文件抽取结构化档案
// 不支持的文件类型返回错误，此时不产出档案；
// 其余失败（文件损坏、OCR失败、文本过短）返回全空档案和nil错误
func (p *CVPipeline) ExtractFromFile(ctx context.Context, filePath string, kind types.FileKind) (*types.ExtractedProfile, error) {
	tracer := otel.Tracer("cv-extract/pipeline")
	ctx, span := tracer.Start(ctx, "CVPipeline.ExtractFromFile", trace.WithAttributes(
		attribute.String("cv.file_kind", string(kind)),
		attribute.String("cv.file_path", tracing.SafeAttributeValue("file_path", filePath, tracing.DefaultMaxLength)),
	))
	defer span.End()

	result, err := p.acquirer.Acquire(ctx, filePath, kind)
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeParser)
		return nil, err
	}
	span.SetAttributes(
		attribute.String("cv.text_source", string(result.Source)),
		attribute.Int("cv.text_length", len(result.Text)),
	)

	if len(strings.TrimSpace(result.Text)) < p.settings.MinUsableTextLen {
		p.logger.Printf("可用文本不足（来源=%s 原因=%s），返回空档案", result.Source, result.Reason)
		span.SetAttributes(attribute.Bool("cv.degraded_empty", true))
		return types.NewEmptyProfile(), nil
	}

	profile := p.parseLines(result.Lines, result.Text)
	return profile, nil
}

// ParseText 直接解析已获取的文本，跳过采集阶段
func (p *CVPipeline) ParseText(text string) *types.ExtractedProfile {
	text = strings.TrimSpace(text)
	if len(text) < p.settings.MinUsableTextLen {
		return types.NewEmptyProfile()
	}
	return p.parseLines(splitLines(text), text)
}

func (p *CVPipeline) parseLines(lines []string, rawText string) *types.ExtractedProfile {
	sections := p.segmenter.Segment(lines)

	// 姓名和城市在原始行上扫描，重组后的逻辑行会把姓名和联系方式并成一行
	profile := types.NewEmptyProfile()
	profile.RawText = rawText
	profile.FullName = extractName(lines, p.settings.HeaderScanLines)
	profile.Email = extractEmail(rawText)
	profile.Phone = extractPhone(rawText)
	profile.City = extractCity(lines, rawText, p.settings.HeaderScanLines)
	profile.Skills = p.skills.Extract(sections, rawText)
	profile.ExperienceEntries = extractExperience(sections.Lines(types.SectionExperience), p.settings.DescriptionMaxLen)
	profile.EducationEntries = extractEducation(educationSource(sections, lines), p.settings.DescriptionMaxLen)
	profile.Languages = extractLanguages(sections.Lines(types.SectionLanguages), rawText)
	return profile
}

// educationSource 教育章节缺失时退回全文扫描
func educationSource(sections types.SectionMap, lines []string) []string {
	if body := sections.Lines(types.SectionEducation); len(body) > 0 {
		return body
	}
	return lines
}
