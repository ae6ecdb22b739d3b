package processor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cv-extract-go/internal/taxonomy"
	"cv-extract-go/internal/types"
)

func TestExtractNamePrefersUppercaseHeader(t *testing.T) {
	lines := []string{
		"JEAN DUPONT",
		"Développeur Full Stack",
		"jean.dupont@example.fr",
		"Casablanca, Maroc",
	}
	assert.Equal(t, "JEAN DUPONT", extractName(lines, 20))
}

func TestExtractNameSkipsContactLines(t *testing.T) {
	lines := []string{
		"marie.curie@example.fr",
		"+212 6 12 34 56 78",
		"Marie Curie",
	}
	assert.Equal(t, "Marie Curie", extractName(lines, 20), "邮箱和电话行不应被选为姓名")
}

func TestExtractNameSkipsSectionWords(t *testing.T) {
	lines := []string{
		"CURRICULUM VITAE",
		"Ahmed Benali",
	}
	assert.Equal(t, "Ahmed Benali", extractName(lines, 20))
}

func TestExtractNameRejectsYearLines(t *testing.T) {
	lines := []string{
		"Promotion 2020",
		"Sofia Martinez",
	}
	assert.Equal(t, "Sofia Martinez", extractName(lines, 20), "含年份的行不应被选为姓名")
}

func TestExtractNameEmptyInput(t *testing.T) {
	assert.Equal(t, "", extractName(nil, 20))
	assert.Equal(t, "", extractName([]string{"", "  "}, 20))
}

func TestExtractEmail(t *testing.T) {
	text := "Contact: marie.curie@example.fr / Tél: 06 12 34 56 78"
	assert.Equal(t, "marie.curie@example.fr", extractEmail(text))
	assert.Equal(t, "", extractEmail("aucune adresse ici"))
}

func TestExtractPhoneNormalizesMoroccanNumbers(t *testing.T) {
	assert.Equal(t, "+212612345678", extractPhone("Tél: 06 12 34 56 78"), "本地手机号应转为+212国际格式")
	assert.Equal(t, "+212612345678", extractPhone("Tél: 0612345678"))
	assert.Equal(t, "+212612345678", extractPhone("+212 612 345 678"))
}

func TestExtractPhoneRejectsYears(t *testing.T) {
	assert.Equal(t, "", extractPhone("Formation 2019 - 2024"), "年份不是电话号码")
	assert.Equal(t, "", extractPhone("Né en 2024"))
	assert.Equal(t, "", extractPhone("2020, 2021, 2022"))
}

func TestExtractPhoneDigitCountBounds(t *testing.T) {
	assert.Equal(t, "", extractPhone("12345678"), "少于9位的数字串应被拒绝")
	assert.Equal(t, "", extractPhone("+1234567890123456"), "超过15位的数字串应被拒绝")
}

func TestExtractCityPrefersHeaderZone(t *testing.T) {
	lines := []string{
		"JEAN DUPONT",
		"Casablanca, Maroc",
	}
	fullText := "JEAN DUPONT\nCasablanca, Maroc\nJ'ai travaillé trois ans à Paris avant de revenir."
	assert.Equal(t, "Casablanca", extractCity(lines, fullText, 20), "头部短行中的城市应优先于正文中的城市")
}

func TestExtractCityFallsBackToFullText(t *testing.T) {
	lines := []string{"JEAN DUPONT"}
	fullText := "JEAN DUPONT\nDéveloppeur basé à Rabat depuis 2020."
	assert.Equal(t, "Rabat", extractCity(lines, fullText, 20))
}

func TestExtractCityNoMatch(t *testing.T) {
	assert.Equal(t, "", extractCity([]string{"JEAN DUPONT"}, "aucune ville connue", 20))
}

func TestExtractExperienceDateDrivenEntries(t *testing.T) {
	lines := []string{
		"Jan 2020 - Dec 2022 Développeur chez Acme",
		"Conception et maintenance d'applications web.",
		"Mars 2023 - aujourd'hui Ingénieur chez Initech",
	}

	entries := extractExperience(lines, 200)
	require.Len(t, entries, 2)
	assert.Equal(t, "Jan 2020 - Dec 2022", entries[0].Period)
	assert.Contains(t, entries[0].Description, "Développeur chez Acme")
	assert.Contains(t, entries[0].Description, "Conception et maintenance", "无日期的后续行应并入前一条目的描述")
	assert.Equal(t, "Mars 2023 - aujourd'hui", entries[1].Period)
}

func TestExtractExperienceYearRange(t *testing.T) {
	entries := extractExperience([]string{"2019 - 2021 Stagiaire chez Globex"}, 200)
	require.Len(t, entries, 1)
	assert.Equal(t, "2019 - 2021", entries[0].Period)
}

func TestExtractExperienceDescriptionTruncated(t *testing.T) {
	long := "2020 " + strings.Repeat("développement d'applications ", 30)
	entries := extractExperience([]string{long}, 200)
	require.Len(t, entries, 1)
	assert.LessOrEqual(t, len([]rune(entries[0].Description)), 200)
}

func TestExtractExperienceManyContinuationLinesStayBounded(t *testing.T) {
	// 大量续行累积并入同一条目，描述总长也必须保持在上限内
	lines := []string{"Jan 2020 - Dec 2022 Développeur chez Acme"}
	for i := 0; i < 30; i++ {
		lines = append(lines, "Conception et maintenance d'applications web pour divers clients.")
	}

	entries := extractExperience(lines, 200)
	require.Len(t, entries, 1)
	assert.LessOrEqual(t, len([]rune(entries[0].Description)), 200, "多条续行累积后的描述不应超过上限")
	assert.Contains(t, entries[0].Description, "Développeur chez Acme")
}

func TestExtractExperienceNoDates(t *testing.T) {
	entries := extractExperience([]string{"Développeur web sans dates"}, 200)
	assert.Empty(t, entries)
	assert.NotNil(t, entries, "无条目时应返回空切片而非nil")
}

func TestExtractEducationOnePerCredential(t *testing.T) {
	lines := []string{
		"Master en Informatique, Université Mohammed V, 2022",
		"Master spécialisé en Data Science, 2023",
		"Licence en Mathématiques, 2020",
		"Baccalauréat scientifique, 2017",
	}

	entries := extractEducation(lines, 200)
	require.Len(t, entries, 3, "同一学历等级只保留一条")
	assert.Equal(t, "Master", entries[0].Credential)
	assert.Contains(t, entries[0].Description, "Université Mohammed V", "应保留首次命中的行")
	assert.Equal(t, "Licence", entries[1].Credential)
	assert.Equal(t, "Bac", entries[2].Credential)
}

func TestExtractEducationEnglishVariants(t *testing.T) {
	entries := extractEducation([]string{"Bachelor of Science in Computer Science, 2021"}, 200)
	require.Len(t, entries, 1)
	assert.Equal(t, "Licence", entries[0].Credential)
}

func TestExtractLanguagesWithLevels(t *testing.T) {
	lines := []string{
		"Français : natif",
		"Anglais : B2",
		"Espagnol",
	}

	languages := extractLanguages(lines, "")
	require.Len(t, languages, 3)
	assert.Contains(t, languages, "Français (Natif)")
	assert.Contains(t, languages, "Anglais (B2)", "CEFR代码应转为大写")
	assert.Contains(t, languages, "Espagnol", "无水平描述时只输出语言名")
}

func TestExtractLanguagesFromFullText(t *testing.T) {
	fullText := "Langues parlées: french (fluent), arabic (native)"
	languages := extractLanguages(nil, fullText)
	assert.Contains(t, languages, "Français (Courant)")
	assert.Contains(t, languages, "Arabe (Natif)")
}

func TestSkillExtractorSplitsSeparators(t *testing.T) {
	tax := taxonomy.New(
		[]string{"Python", "React", "Docker"},
		[]string{"Travail d'équipe"},
	)
	extractor := newSkillExtractor(tax, 85, nil)

	sections := types.SectionMap{
		types.SectionSkills: {"Python, React / Docker • Travail d'équipe"},
	}
	skills := extractor.Extract(sections, "")

	require.Len(t, skills, 4)
	byName := map[string]types.SkillCategory{}
	for _, s := range skills {
		byName[s.Name] = s.Category
	}
	assert.Equal(t, types.SkillTechnical, byName["Python"])
	assert.Equal(t, types.SkillTechnical, byName["React"])
	assert.Equal(t, types.SkillTechnical, byName["Docker"])
	assert.Equal(t, types.SkillSoft, byName["Travail d'équipe"])
}

func TestSkillExtractorExcludedWords(t *testing.T) {
	// 数据集若包含泛词，停用词表应挡住对应片段
	tax := taxonomy.New([]string{"Management"}, nil)
	extractor := newSkillExtractor(tax, 85, []string{"management"})

	sections := types.SectionMap{
		types.SectionSkills: {"Management"},
	}
	skills := extractor.Extract(sections, "")
	assert.Empty(t, skills)
}

func TestSkillExtractorFallsBackToFullText(t *testing.T) {
	tax := taxonomy.New([]string{"Python"}, nil)
	extractor := newSkillExtractor(tax, 85, nil)

	skills := extractor.Extract(types.SectionMap{}, "Développement backend en Python depuis 2019.")
	require.Len(t, skills, 1)
	assert.Equal(t, "Python", skills[0].Name)
}
