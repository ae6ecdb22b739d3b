package processor

import (
	"strings"

	"cv-extract-go/internal/types"
)

// extractEducation 按学历词典从教育章节构建条目
// 每个学历等级最多一条，按词典中的学位层级顺序输出；
// 条目描述取首次命中该学历的行
func extractEducation(lines []string, descriptionMaxLen int) []types.EducationEntry {
	if descriptionMaxLen <= 0 {
		descriptionMaxLen = 200
	}

	entries := make([]types.EducationEntry, 0)
	for _, credential := range credentialDictionary {
		line, ok := findCredentialLine(lines, credential.Variants)
		if !ok {
			continue
		}
		entries = append(entries, types.EducationEntry{
			Credential:  credential.Name,
			Description: truncateRunes(line, descriptionMaxLen),
		})
	}
	return entries
}

func findCredentialLine(lines []string, variants []string) (string, bool) {
	for _, line := range lines {
		lower := strings.ToLower(line)
		for _, variant := range variants {
			if strings.Contains(lower, variant) {
				return strings.TrimSpace(line), true
			}
		}
	}
	return "", false
}
