package taxonomy

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

// TestLoadFromDataset 测试从数据集文件加载技能库
func TestLoadFromDataset(t *testing.T) {
	dir := t.TempDir()
	datasetPath := filepath.Join(dir, "skills.json")
	content := `{
		"technical_skills": ["Python", "React", "Docker"],
		"soft_skills": ["Leadership", "Communication"]
	}`
	require.NoError(t, os.WriteFile(datasetPath, []byte(content), 0644))

	tax := Load(datasetPath, WithLogger(quietLogger()))
	technical, soft := tax.Stats()
	assert.Equal(t, 3, technical)
	assert.Equal(t, 2, soft)
	assert.True(t, tax.IsTechnical("python")) // 大小写不敏感
	assert.True(t, tax.IsSoft("LEADERSHIP"))
	assert.False(t, tax.IsTechnical("Leadership"))
}

// TestLoadFallsBackToDefaults 数据集缺失时回退到内置默认列表，不得失败
func TestLoadFallsBackToDefaults(t *testing.T) {
	tax := Load("/nonexistent/path/skills.json", WithLogger(quietLogger()))
	technical, soft := tax.Stats()
	assert.Greater(t, technical, 0, "默认技术技能列表不应为空")
	assert.Greater(t, soft, 0, "默认软技能列表不应为空")
	assert.True(t, tax.IsTechnical("Python"))
}

// TestLoadFallsBackOnMalformedDataset 数据集损坏时同样回退
func TestLoadFallsBackOnMalformedDataset(t *testing.T) {
	dir := t.TempDir()
	datasetPath := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(datasetPath, []byte("{not valid json"), 0644))

	tax := Load(datasetPath, WithLogger(quietLogger()))
	technical, _ := tax.Stats()
	assert.Greater(t, technical, 0)
}

// TestSearchExactMatch 测试精确整词匹配
func TestSearchExactMatch(t *testing.T) {
	tax := New(
		[]string{"Python", "React", "Docker", "C++"},
		[]string{"Leadership"},
		WithLogger(quietLogger()),
	)

	result := tax.Search("Compétences: python, React, Docker", 85)
	assert.Equal(t, []string{"Docker", "Python", "React"}, result.Technical)
	assert.Empty(t, result.Soft, "文本中没有软技能词时不应有软技能污染")
}

// TestSearchSymbolSuffixLabels 以符号结尾的标签（如C++）也要能整词匹配
func TestSearchSymbolSuffixLabels(t *testing.T) {
	tax := New([]string{"C++", "C#"}, nil, WithLogger(quietLogger()))

	result := tax.Search("Développement en C++ et C#", 85)
	assert.Contains(t, result.Technical, "C++")
	assert.Contains(t, result.Technical, "C#")
}

// TestSearchNoSubstringFalsePositive 整词匹配不应命中子串
func TestSearchNoSubstringFalsePositive(t *testing.T) {
	tax := New([]string{"Go", "R"}, nil, WithLogger(quietLogger()))

	result := tax.Search("Google Maps integration", 100)
	assert.NotContains(t, result.Technical, "Go", "Google 不应匹配 Go")
	assert.NotContains(t, result.Technical, "R")
}

// TestSearchFuzzyMatch 测试对轻微拼写错误的词级模糊匹配
func TestSearchFuzzyMatch(t *testing.T) {
	tax := New([]string{"Python", "Kubernetes"}, nil, WithLogger(quietLogger()))

	// OCR噪声: "Pythom"
	result := tax.Search("Langages: Pythom, Kubernets", 80)
	assert.Contains(t, result.Technical, "Python")
	assert.Contains(t, result.Technical, "Kubernetes")

	// 阈值拉满后模糊匹配不再命中
	strict := tax.Search("Langages: Pythom", 100)
	assert.NotContains(t, strict.Technical, "Python")
}

// TestSearchCanonicalCasing 返回的标签使用数据集中的规范大小写
func TestSearchCanonicalCasing(t *testing.T) {
	tax := New([]string{"PostgreSQL"}, nil, WithLogger(quietLogger()))

	result := tax.Search("expérience postgresql", 85)
	assert.Equal(t, []string{"PostgreSQL"}, result.Technical)
}

// TestSearchDeterministic 相同输入多次检索结果一致（有序）
func TestSearchDeterministic(t *testing.T) {
	tax := New([]string{"Python", "React", "Docker", "Git", "Linux"}, nil, WithLogger(quietLogger()))

	text := "Python React Docker Git Linux"
	first := tax.Search(text, 85)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, tax.Search(text, 85))
	}
}
