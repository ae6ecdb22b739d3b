package processor

import (
	"sort"
	"strings"

	"cv-extract-go/internal/types"
)

// 技能片段分隔符（换行已在行切分时处理）
var skillSeparators = []string{",", ";", "/", "•", "|", " - "}

// skillExtractor 技能提取器
// 优先扫描技能章节，没有时退回全文；结果为带分类标签的去重技能清单
type skillExtractor struct {
	searcher  SkillSearcher
	threshold int
	excluded  map[string]bool
}

func newSkillExtractor(searcher SkillSearcher, threshold int, extraExcluded []string) *skillExtractor {
	excluded := make(map[string]bool, len(defaultExcludedWords)+len(extraExcluded))
	for word := range defaultExcludedWords {
		excluded[word] = true
	}
	for _, word := range extraExcluded {
		excluded[strings.ToLower(strings.TrimSpace(word))] = true
	}
	return &skillExtractor{searcher: searcher, threshold: threshold, excluded: excluded}
}

// Extract 提取技能清单
func (e *skillExtractor) Extract(sections types.SectionMap, fullText string) []types.Skill {
	source := strings.Join(sections.Lines(types.SectionSkills), "\n")
	if strings.TrimSpace(source) == "" {
		source = fullText
	}

	seen := make(map[string]types.SkillCategory)
	for _, fragment := range splitSkillFragments(source) {
		if e.excluded[strings.ToLower(fragment)] {
			continue
		}
		result := e.searcher.Search(fragment, e.threshold)
		for _, name := range result.Technical {
			seen[name] = types.SkillTechnical
		}
		for _, name := range result.Soft {
			// 同名技能以技术分类优先
			if _, ok := seen[name]; !ok {
				seen[name] = types.SkillSoft
			}
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)

	skills := make([]types.Skill, 0, len(names))
	for _, name := range names {
		skills = append(skills, types.Skill{Name: name, Category: seen[name]})
	}
	return skills
}

// splitSkillFragments 按分隔符切分技能片段
func splitSkillFragments(text string) []string {
	normalized := text
	for _, sep := range skillSeparators {
		normalized = strings.ReplaceAll(normalized, sep, "\n")
	}
	var fragments []string
	for _, fragment := range strings.Split(normalized, "\n") {
		fragment = strings.TrimSpace(fragment)
		if fragment != "" && len([]rune(fragment)) <= 80 {
			fragments = append(fragments, fragment)
		}
	}
	return fragments
}
