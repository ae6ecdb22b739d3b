package processor

import (
	"regexp"
	"strings"
)

// extractLanguages 按语言词典提取语言及水平
// 优先在语言章节找，没有时扫全文；水平取语言名后的上下文片段，
// 识别CEFR代码和常见描述词，输出"语言 (水平)"形式
func extractLanguages(sectionLines []string, fullText string) []string {
	source := strings.Join(sectionLines, "\n")
	if strings.TrimSpace(source) == "" {
		source = fullText
	}
	lower := strings.ToLower(source)

	languages := make([]string, 0)
	for _, entry := range languageDictionary {
		for _, variant := range entry.Variants {
			if !strings.Contains(lower, variant) {
				continue
			}
			if level := findLanguageLevel(lower, variant); level != "" {
				languages = append(languages, entry.Name+" ("+level+")")
			} else {
				languages = append(languages, entry.Name)
			}
			break
		}
	}
	return languages
}

// findLanguageLevel 在语言名之后的短上下文里找水平描述
// 上下文可能溢出到下一个语言的描述里，取位置最靠前的命中
func findLanguageLevel(lowerText, variant string) string {
	pattern := regexp.MustCompile(regexp.QuoteMeta(variant) + `[\s:]*([^\n,;]{0,30})`)
	match := pattern.FindStringSubmatch(lowerText)
	if len(match) < 2 {
		return ""
	}
	context := match[1]

	bestIndex := len(context) + 1
	best := ""
	for _, cefr := range cefrLevels {
		if idx := indexWord(context, cefr); idx >= 0 && idx < bestIndex {
			bestIndex = idx
			best = strings.ToUpper(cefr)
		}
	}
	for _, level := range descriptiveLevels {
		if idx := strings.Index(context, level.Word); idx >= 0 && idx < bestIndex {
			bestIndex = idx
			best = level.Canonical
		}
	}
	return best
}
