package taxonomy

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"regexp"
	"sort"
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
)

// DefaultFuzzyThreshold 模糊匹配的默认相似度阈值(0-100)
const DefaultFuzzyThreshold = 85

// datasetFile 技能数据集文件的结构
// 两个标签列表：技术技能与软技能
type datasetFile struct {
	TechnicalSkills []string `json:"technical_skills"`
	SoftSkills      []string `json:"soft_skills"`
}

// SearchResult 一次技能检索的结果，按类别分组
type SearchResult struct {
	Technical []string
	Soft      []string
}

// Taxonomy 进程级只读技能库
// 加载完成后不再修改，可被多个提取调用并发读取
type Taxonomy struct {
	// 小写标签 -> 规范大小写形式
	technical map[string]string
	soft      map[string]string

	// 预编译的整词匹配正则，按小写标签索引
	wordPatterns map[string]*regexp.Regexp

	logger *log.Logger
}

// Option 技能库配置选项
type Option func(*Taxonomy)

// WithLogger 配置自定义日志记录器
func WithLogger(logger *log.Logger) Option {
	return func(t *Taxonomy) {
		t.logger = logger
	}
}

// Load 从数据集文件加载技能库
// 文件缺失或损坏时回退到内置默认列表并记录警告，永不让启动失败
func Load(datasetPath string, options ...Option) *Taxonomy {
	t := &Taxonomy{
		logger: log.New(os.Stderr, "[技能库] ", log.LstdFlags),
	}
	for _, option := range options {
		option(t)
	}

	technical, soft, err := readDataset(datasetPath)
	if err != nil {
		t.logger.Printf("加载技能数据集失败，回退到内置默认列表: %v", err)
		technical, soft = defaultTechnicalSkills, defaultSoftSkills
	} else {
		t.logger.Printf("技能数据集加载成功: 技术技能 %d 项, 软技能 %d 项", len(technical), len(soft))
	}

	t.technical = canonicalIndex(technical)
	t.soft = canonicalIndex(soft)
	t.compilePatterns()

	return t
}

// New 直接从标签列表构造技能库（主要用于测试）
func New(technical, soft []string, options ...Option) *Taxonomy {
	t := &Taxonomy{
		technical: canonicalIndex(technical),
		soft:      canonicalIndex(soft),
		logger:    log.New(os.Stderr, "[技能库] ", log.LstdFlags),
	}
	for _, option := range options {
		option(t)
	}
	t.compilePatterns()
	return t
}

// readDataset 读取并解析数据集JSON文件
func readDataset(datasetPath string) ([]string, []string, error) {
	if datasetPath == "" {
		return nil, nil, fmt.Errorf("未配置数据集路径")
	}

	data, err := os.ReadFile(datasetPath)
	if err != nil {
		return nil, nil, fmt.Errorf("读取数据集文件 %s 失败: %w", datasetPath, err)
	}

	var ds datasetFile
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, nil, fmt.Errorf("解析数据集文件 %s 失败: %w", datasetPath, err)
	}

	if len(ds.TechnicalSkills) == 0 && len(ds.SoftSkills) == 0 {
		return nil, nil, fmt.Errorf("数据集文件 %s 不包含任何技能标签", datasetPath)
	}

	return ds.TechnicalSkills, ds.SoftSkills, nil
}

// canonicalIndex 构建 小写标签 -> 规范形式 的索引，空白标签被丢弃
func canonicalIndex(labels []string) map[string]string {
	index := make(map[string]string, len(labels))
	for _, label := range labels {
		label = strings.TrimSpace(label)
		if label == "" {
			continue
		}
		index[strings.ToLower(label)] = label
	}
	return index
}

// compilePatterns 为所有标签预编译整词匹配正则
// 提取调用是只读热路径，编译成本一次性摊在加载阶段
func (t *Taxonomy) compilePatterns() {
	t.wordPatterns = make(map[string]*regexp.Regexp, len(t.technical)+len(t.soft))
	for lower := range t.technical {
		t.wordPatterns[lower] = compileWordPattern(lower)
	}
	for lower := range t.soft {
		if _, ok := t.wordPatterns[lower]; !ok {
			t.wordPatterns[lower] = compileWordPattern(lower)
		}
	}
}

func compileWordPattern(label string) *regexp.Regexp {
	// `\b`对 "c++" 这类以符号结尾的标签不成立，结尾改用非字母数字断言
	return regexp.MustCompile(`(?i)(^|[^\pL\pN])` + regexp.QuoteMeta(label) + `($|[^\pL\pN])`)
}

// Search 在文本中检索技能
// 先做整词精确匹配（大小写不敏感），再对未命中的标签做词级模糊匹配，
// 以捕获轻微的拼写错误和词形变化；threshold<=0 时使用默认阈值
func (t *Taxonomy) Search(text string, threshold int) SearchResult {
	if threshold <= 0 {
		threshold = DefaultFuzzyThreshold
	}

	foundTechnical := make(map[string]bool)
	foundSoft := make(map[string]bool)

	// 1. 精确整词匹配（快速路径）
	for lower, canonical := range t.technical {
		if t.wordPatterns[lower].MatchString(text) {
			foundTechnical[canonical] = true
		}
	}
	for lower, canonical := range t.soft {
		if t.wordPatterns[lower].MatchString(text) {
			foundSoft[canonical] = true
		}
	}

	// 2. 词级模糊匹配（容忍OCR噪声与变体）
	words := strings.Fields(text)
	for lower, canonical := range t.technical {
		if foundTechnical[canonical] {
			continue
		}
		if fuzzyMatchAny(lower, words, threshold) {
			foundTechnical[canonical] = true
		}
	}
	for lower, canonical := range t.soft {
		if foundSoft[canonical] {
			continue
		}
		if fuzzyMatchAny(lower, words, threshold) {
			foundSoft[canonical] = true
		}
	}

	return SearchResult{
		Technical: sortedKeys(foundTechnical),
		Soft:      sortedKeys(foundSoft),
	}
}

// fuzzyMatchAny 判断标签是否与任一单词的相似度达到阈值
// 长度差过大的单词直接跳过，避免无意义的比率计算
func fuzzyMatchAny(label string, words []string, threshold int) bool {
	labelLen := len(label)
	for _, word := range words {
		word = strings.ToLower(strings.Trim(word, ".,;:()[]|•"))
		if word == "" {
			continue
		}
		if diff := len(word) - labelLen; diff > 3 || diff < -3 {
			continue
		}
		if fuzzy.Ratio(label, word) >= threshold {
			return true
		}
	}
	return false
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// IsTechnical 判断一个标签是否为技术技能
func (t *Taxonomy) IsTechnical(label string) bool {
	_, ok := t.technical[strings.ToLower(label)]
	return ok
}

// IsSoft 判断一个标签是否为软技能
func (t *Taxonomy) IsSoft(label string) bool {
	_, ok := t.soft[strings.ToLower(label)]
	return ok
}

// Stats 返回已加载数据集的统计信息
func (t *Taxonomy) Stats() (technical, soft int) {
	return len(t.technical), len(t.soft)
}
