package processor

import (
	"regexp"
	"strings"
	"unicode"
)

// 明显不是姓名的行：邮箱、网址、4位及以上数字串（年份等）
var nonNameLinePattern = regexp.MustCompile(`@|\.com|http|www|\d{4,}`)

// 姓名单词：字母（含重音）、撇号、连字符
var nameWordPattern = regexp.MustCompile(`^[\p{L}'-]+$`)

// 出现在行内就排除该行的章节词
var nameStopWords = []string{
	"curriculum", "vitae", "resume", "résumé", "cv",
	"expérience", "experience", "formation", "education",
	"compétences", "skills", "profil", "profile", "contact",
	"téléphone", "phone", "email", "adresse", "address",
}

// extractName 从文档头部提取候选姓名
// 对前若干行按格式特征打分（大写、首字母大写、词数、位置），取最高分
func extractName(lines []string, scanLines int) string {
	if scanLines <= 0 {
		scanLines = 20
	}
	if len(lines) > scanLines {
		lines = lines[:scanLines]
	}

	bestScore := 0.0
	best := ""
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		score := scoreNameCandidate(line, i)
		if score > bestScore {
			bestScore = score
			best = line
		}
	}
	return best
}

func scoreNameCandidate(line string, position int) float64 {
	if nonNameLinePattern.MatchString(line) {
		return 0
	}
	lower := strings.ToLower(line)
	for _, word := range nameStopWords {
		if strings.Contains(lower, word) {
			return 0
		}
	}

	score := 0.0
	if isUpperLine(line) {
		score += 4
	} else if isTitleLine(line) {
		score += 3
	}

	words := strings.Fields(line)
	switch {
	case len(words) >= 2 && len(words) <= 4:
		score += 3
	case len(words) == 1:
		score++
	}

	allNameWords := true
	for _, word := range words {
		if !nameWordPattern.MatchString(word) {
			allNameWords = false
			break
		}
	}
	if allNameWords && len(words) > 0 {
		score += 3
	}

	// 越靠前越像姓名
	if position < 20 {
		score += float64(20-position) / 4
	}
	if n := len([]rune(line)); n >= 5 && n <= 50 {
		score += 2
	}
	return score
}

// isUpperLine 判断行内所有字母均为大写
func isUpperLine(line string) bool {
	hasLetter := false
	for _, r := range line {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return hasLetter
}

// isTitleLine 判断每个单词首字母大写
func isTitleLine(line string) bool {
	words := strings.Fields(line)
	if len(words) == 0 {
		return false
	}
	for _, word := range words {
		runes := []rune(word)
		first := runes[0]
		if !unicode.IsLetter(first) || !unicode.IsUpper(first) {
			return false
		}
	}
	return true
}
