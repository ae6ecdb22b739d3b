package processor

import (
	"regexp"
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"cv-extract-go/internal/types"
)

// 标题行清洗：去掉数字和所有非词字符（图标、项目符号、冒号等）
var headingCleanPattern = regexp.MustCompile(`[^\p{L}\s]+`)

// 句末标点，用于逻辑行重组判断
var sentenceTerminal = regexp.MustCompile(`[.!?]\s*$`)

// FuzzySectionSegmenter 模糊章节分段器
// 用partial-ratio匹配标题关键词，把简历切分为章节行块
// 标题前的内容归入HEADER段
type FuzzySectionSegmenter struct {
	keywords map[types.SectionType][]string
	// partial-ratio匹配阈值
	threshold int
	// 是否先把碎行重组为逻辑行
	regroupShortLines bool
}

// SegmenterOption 分段器配置选项
type SegmenterOption func(*FuzzySectionSegmenter)

// WithSectionThreshold 设置标题匹配阈值
func WithSectionThreshold(threshold int) SegmenterOption {
	return func(s *FuzzySectionSegmenter) {
		if threshold > 0 {
			s.threshold = threshold
		}
	}
}

// WithRegroupShortLines 设置是否启用逻辑行重组
func WithRegroupShortLines(enabled bool) SegmenterOption {
	return func(s *FuzzySectionSegmenter) {
		s.regroupShortLines = enabled
	}
}

// NewFuzzySectionSegmenter 创建分段器
func NewFuzzySectionSegmenter(options ...SegmenterOption) *FuzzySectionSegmenter {
	s := &FuzzySectionSegmenter{
		keywords:          sectionKeywords,
		threshold:         85,
		regroupShortLines: true,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// Segment 把文本行切分为章节
// 先识别标题再在各章节内部做逻辑行重组，避免标题行被并入正文
func (s *FuzzySectionSegmenter) Segment(lines []string) types.SectionMap {
	sections := make(types.SectionMap)
	current := types.SectionHeader
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			// 保留空行作为重组时的组边界
			sections[current] = append(sections[current], "")
			continue
		}
		if section, ok := s.matchHeading(line); ok {
			current = section
			continue
		}
		sections[current] = append(sections[current], line)
	}

	for section, body := range sections {
		if s.regroupShortLines {
			sections[section] = regroupLogicalLines(body)
		} else {
			sections[section] = dropBlankLines(body)
		}
	}
	return sections
}

func dropBlankLines(lines []string) []string {
	var result []string
	for _, line := range lines {
		if line != "" {
			result = append(result, line)
		}
	}
	return result
}

// matchHeading 判断一行是否是章节标题
// 清洗后对每个章节的每个关键词算partial-ratio，超过阈值者中取最高分
// 按固定章节顺序遍历，同分时靠前的章节胜出，保证结果可复现
func (s *FuzzySectionSegmenter) matchHeading(line string) (types.SectionType, bool) {
	clean := cleanHeadingLine(line)
	if clean == "" {
		return "", false
	}
	// 标题行都很短，太长的行直接排除，避免正文里的关键词误触发
	cleanLen := len([]rune(clean))
	if cleanLen > 60 {
		return "", false
	}

	bestScore := s.threshold
	var bestSection types.SectionType
	found := false
	for _, section := range sectionMatchOrder {
		for _, keyword := range s.keywords[section] {
			// partial-ratio会把短串嵌进长串里对齐：关键词明显长于标题行时，
			// 是标题行嵌进关键词（如FORMATION嵌进informations personnelles），
			// 这是误匹配方向，直接跳过
			if len([]rune(keyword)) > cleanLen+cleanLen/2 {
				continue
			}
			score := fuzzy.PartialRatio(keyword, clean)
			if score > bestScore {
				bestScore = score
				bestSection = section
				found = true
			}
		}
	}
	return bestSection, found
}

// cleanHeadingLine 标题行归一化：小写、去非字母字符、压缩空白
func cleanHeadingLine(line string) string {
	clean := strings.ToLower(line)
	clean = headingCleanPattern.ReplaceAllString(clean, " ")
	return strings.Join(strings.Fields(clean), " ")
}

// regroupLogicalLines 把PDF提取产生的碎行重组为逻辑行
// 不以句末标点结尾的短行与后续行合并；空行结束当前组
func regroupLogicalLines(lines []string) []string {
	var result []string
	var group []string
	flush := func() {
		if len(group) > 0 {
			result = append(result, strings.Join(group, " "))
			group = nil
		}
	}
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			flush()
			continue
		}
		group = append(group, line)
		if len(line) >= 50 || sentenceTerminal.MatchString(line) {
			flush()
		}
	}
	flush()
	return result
}
