package processor

import (
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)

// 电话号码模式，按可信度排序
var phonePatterns = []*regexp.Regexp{
	// 国际格式
	regexp.MustCompile(`\+\d{1,3}[\s.-]?\d{1,3}[\s.-]?\d{3,4}[\s.-]?\d{3,4}`),
	// 括号区号
	regexp.MustCompile(`\(\d{2,4}\)[\s.-]?\d{3,4}[\s.-]?\d{3,4}`),
	// 三段式
	regexp.MustCompile(`\d{3}[\s.-]\d{3}[\s.-]\d{4}`),
	// 摩洛哥本地号码（0或+212开头，5/6/7号段，可带分隔符）
	regexp.MustCompile(`(?:\+212|0)[5-7]\d{8}|(?:\+212|0)[5-7](?:[\s.-]?\d{2}){4}`),
	// 裸10位
	regexp.MustCompile(`\b\d{10}\b`),
}

var yearPrefixPattern = regexp.MustCompile(`^(?:19|20)\d{2}`)

var phoneCleanPattern = regexp.MustCompile(`[\s.\-()]`)

// extractEmail 提取第一个邮箱地址
func extractEmail(text string) string {
	return emailPattern.FindString(text)
}

// extractPhone 提取并规范化电话号码
// 按模式优先级扫描，净化后校验位数并排除年份开头的匹配；
// 摩洛哥本地格式统一转为+212国际格式
func extractPhone(text string) string {
	for _, pattern := range phonePatterns {
		for _, loc := range pattern.FindAllStringIndex(text, -1) {
			// 匹配两侧紧邻数字说明截取了更长的数字串
			if loc[0] > 0 && isDigitByte(text[loc[0]-1]) {
				continue
			}
			if loc[1] < len(text) && isDigitByte(text[loc[1]]) {
				continue
			}
			match := text[loc[0]:loc[1]]
			cleaned := phoneCleanPattern.ReplaceAllString(match, "")
			digits := strings.TrimPrefix(cleaned, "+")
			if len(digits) < 9 || len(digits) > 15 {
				continue
			}
			// "2024 - 2025"这类年份区间会被裸数字模式误捕
			if yearPrefixPattern.MatchString(digits) && !strings.HasPrefix(cleaned, "+") {
				continue
			}
			return normalizePhone(cleaned)
		}
	}
	return ""
}

// normalizePhone 把摩洛哥本地写法转为国际格式
func normalizePhone(cleaned string) string {
	if len(cleaned) == 10 && cleaned[0] == '0' && cleaned[1] >= '5' && cleaned[1] <= '7' {
		return "+212" + cleaned[1:]
	}
	return cleaned
}

// extractCity 按地名表匹配城市
// 优先在文档头部的短行（疑似联系信息区）中找，找不到再扫全文
func extractCity(lines []string, fullText string, scanLines int) string {
	if scanLines <= 0 {
		scanLines = 20
	}
	header := lines
	if len(header) > scanLines {
		header = header[:scanLines]
	}
	for _, line := range header {
		if len(strings.Fields(line)) > 10 {
			continue
		}
		if city := matchCity(line); city != "" {
			return city
		}
	}
	return matchCity(fullText)
}

func matchCity(text string) string {
	lower := strings.ToLower(text)
	for _, city := range cityGazetteer {
		if containsWord(lower, strings.ToLower(city)) {
			return city
		}
	}
	return ""
}

// containsWord 整词匹配，避免"Salé"匹配到"salés"之类
func containsWord(haystack, needle string) bool {
	return indexWord(haystack, needle) >= 0
}

// indexWord 整词匹配的位置，不存在时返回-1
func indexWord(haystack, needle string) int {
	idx := 0
	for {
		i := strings.Index(haystack[idx:], needle)
		if i < 0 {
			return -1
		}
		start := idx + i
		end := start + len(needle)
		beforeOK := start == 0 || !isWordByte(haystack, start-1)
		afterOK := end >= len(haystack) || !isWordByte(haystack, end)
		if beforeOK && afterOK {
			return start
		}
		idx = start + 1
	}
}

func isDigitByte(c byte) bool {
	return c >= '0' && c <= '9'
}

func isWordByte(s string, i int) bool {
	c := s[i]
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c >= 0x80
}
