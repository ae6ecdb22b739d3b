package processor

import (
	"strings"

	"cv-extract-go/internal/types"
)

// extractExperience 从经历章节构建经历条目
// 含日期的行开启一个新条目，后续行并入描述直到遇到下一个日期行
func extractExperience(lines []string, descriptionMaxLen int) []types.ExperienceEntry {
	if descriptionMaxLen <= 0 {
		descriptionMaxLen = 200
	}

	entries := make([]types.ExperienceEntry, 0)
	var current *types.ExperienceEntry
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if period := extractPeriod(line); period != "" {
			if current != nil {
				entries = append(entries, *current)
			}
			current = &types.ExperienceEntry{
				Period:      period,
				Description: truncateRunes(line, descriptionMaxLen),
			}
			continue
		}
		if current != nil {
			// 续行并入后整体重新截断，多条续行累积也不会超过上限
			current.Description = truncateRunes(current.Description+" "+line, descriptionMaxLen)
		}
	}
	if current != nil {
		entries = append(entries, *current)
	}
	return entries
}

// extractPeriod 在一行里找时间段
// 最多取两个日期组成区间；单个日期后若带开放式词汇则视为在职至今
func extractPeriod(line string) string {
	var dates []string
	for _, pattern := range datePatterns {
		for _, match := range pattern.FindAllString(line, -1) {
			if !containsDate(dates, match) {
				dates = append(dates, match)
			}
			if len(dates) >= 2 {
				break
			}
		}
		if len(dates) >= 2 {
			break
		}
	}
	if len(dates) == 0 {
		return ""
	}
	if len(dates) >= 2 {
		return dates[0] + " - " + dates[1]
	}

	lower := strings.ToLower(line)
	for _, word := range openEndedPeriodWords {
		if strings.Contains(lower, word) {
			return dates[0] + " - " + word
		}
	}
	return dates[0]
}

// containsDate 排除重叠匹配（纯年份模式会重复命中区间里的年份）
func containsDate(dates []string, candidate string) bool {
	for _, d := range dates {
		if strings.Contains(d, candidate) || strings.Contains(candidate, d) {
			return true
		}
	}
	return false
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
