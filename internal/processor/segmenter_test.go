package processor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cv-extract-go/internal/types"
)

func TestSegmentBasicSections(t *testing.T) {
	segmenter := NewFuzzySectionSegmenter(WithRegroupShortLines(false))

	lines := []string{
		"JEAN DUPONT",
		"jean.dupont@example.fr",
		"EXPÉRIENCE PROFESSIONNELLE",
		"2020 - 2022 Développeur chez Acme",
		"FORMATION",
		"Master en Informatique, Université de Rabat",
		"COMPÉTENCES",
		"Python, Docker, React",
		"LANGUES",
		"Français (natif), Anglais (B2)",
	}

	sections := segmenter.Segment(lines)

	assert.Equal(t, []string{"JEAN DUPONT", "jean.dupont@example.fr"}, sections.Lines(types.SectionHeader), "标题前的行应归入头部段")
	assert.Equal(t, []string{"2020 - 2022 Développeur chez Acme"}, sections.Lines(types.SectionExperience))
	assert.Equal(t, []string{"Master en Informatique, Université de Rabat"}, sections.Lines(types.SectionEducation))
	assert.Equal(t, []string{"Python, Docker, React"}, sections.Lines(types.SectionSkills))
	assert.Equal(t, []string{"Français (natif), Anglais (B2)"}, sections.Lines(types.SectionLanguages))
}

func TestSegmentToleratesOCRNoise(t *testing.T) {
	segmenter := NewFuzzySectionSegmenter(WithRegroupShortLines(false))

	// OCR把O识别成0，标题还带了图标符号
	lines := []string{
		"● EXPERIENCE PR0FESSIONNELLE ●",
		"2021 Stagiaire chez Acme",
	}

	sections := segmenter.Segment(lines)
	require.Len(t, sections.Lines(types.SectionExperience), 1, "带OCR噪声的标题仍应被识别")
	assert.Empty(t, sections.Lines(types.SectionHeader))
}

func TestSegmentShortHeadingIsDeterministic(t *testing.T) {
	segmenter := NewFuzzySectionSegmenter(WithRegroupShortLines(false))

	// FORMATION是informations personnelles的子串，partial-ratio会给联系段打满分
	// 短标题不应被嵌进远长于它的关键词，且多次运行结果必须一致
	lines := []string{
		"FORMATION",
		"Master en Informatique",
	}

	for i := 0; i < 100; i++ {
		sections := segmenter.Segment(lines)
		require.Equal(t, []string{"Master en Informatique"}, sections.Lines(types.SectionEducation), "FORMATION应稳定归入教育段")
		require.Empty(t, sections.Lines(types.SectionContact), "教育内容不应落入联系段")
	}
}

func TestSegmentAmbiguousHeadingTieBreak(t *testing.T) {
	segmenter := NewFuzzySectionSegmenter(WithRegroupShortLines(false))

	// 同时命中教育和语言关键词的复合标题，同分时按固定顺序取教育段
	lines := []string{
		"FORMATION ET LANGUES",
		"Master en Informatique",
	}

	first := segmenter.Segment(lines)
	require.Equal(t, []string{"Master en Informatique"}, first.Lines(types.SectionEducation), "复合标题应归入固定顺序中靠前的章节")
	for i := 0; i < 100; i++ {
		sections := segmenter.Segment(lines)
		require.Equal(t, first, sections, "同一输入多次分段的结果必须一致")
	}
}

func TestSegmentEnglishHeadings(t *testing.T) {
	segmenter := NewFuzzySectionSegmenter(WithRegroupShortLines(false))

	lines := []string{
		"Work Experience",
		"2019 Engineer at Initech",
		"Education",
		"BSc Computer Science",
		"Technical Skills",
		"Go, Kubernetes",
	}

	sections := segmenter.Segment(lines)
	assert.Len(t, sections.Lines(types.SectionExperience), 1)
	assert.Len(t, sections.Lines(types.SectionEducation), 1)
	assert.Len(t, sections.Lines(types.SectionSkills), 1)
}

func TestSegmentLongLineIsNotHeading(t *testing.T) {
	segmenter := NewFuzzySectionSegmenter(WithRegroupShortLines(false))

	// 正文里提到experience这个词，不应被当成标题
	lines := []string{
		"J'ai acquis une solide expérience en développement web au cours des cinq dernières années.",
	}

	sections := segmenter.Segment(lines)
	assert.Len(t, sections.Lines(types.SectionHeader), 1, "长句不应被识别为章节标题")
	assert.Empty(t, sections.Lines(types.SectionExperience))
}

func TestSegmentRegroupShortLines(t *testing.T) {
	segmenter := NewFuzzySectionSegmenter(WithRegroupShortLines(true))

	lines := []string{
		"PROFIL",
		"Développeur",
		"passionné par",
		"le web.",
		"",
		"Basé à Casablanca.",
	}

	sections := segmenter.Segment(lines)
	body := sections.Lines(types.SectionProfile)
	require.Len(t, body, 2, "碎行应被重组为两个逻辑行")
	assert.Equal(t, "Développeur passionné par le web.", body[0])
	assert.Equal(t, "Basé à Casablanca.", body[1])
}

func TestSegmentThresholdConfigurable(t *testing.T) {
	// 阈值拉满后近似标题不再匹配
	strict := NewFuzzySectionSegmenter(WithSectionThreshold(99), WithRegroupShortLines(false))

	lines := []string{
		"EXPERIENCE PR0FESSIONNELLE",
		"2021 Stagiaire",
	}

	sections := strict.Segment(lines)
	assert.Empty(t, sections.Lines(types.SectionExperience), "高阈值下带噪声的标题不应匹配")
	assert.Len(t, sections.Lines(types.SectionHeader), 2)
}
