package processor

import (
	"regexp"

	"cv-extract-go/internal/types"
)

// 章节标题关键词表（法语+英语变体）
// 分段器用模糊partial-ratio匹配这些关键词，以容忍OCR噪声、重音缺失
// 和图标/项目符号污染
var sectionKeywords = map[types.SectionType][]string{
	types.SectionExperience: {
		"expérience", "experiences", "exp professionnelle",
		"work experience", "professional experience", "employment",
		"career", "parcours professionnel", "historique professionnel",
	},
	types.SectionEducation: {
		"formation", "formations", "études", "education",
		"academic background", "qualifications", "diplômes", "scolarité",
	},
	types.SectionSkills: {
		"compétences", "skills", "expertise", "maîtrise",
		"technical skills", "professional skills", "core competencies",
		"savoir-faire", "abilities", "capacités",
	},
	types.SectionLanguages: {
		"langues", "languages", "idiomas",
	},
	types.SectionProfile: {
		"profil", "profile", "summary", "résumé", "about",
		"objectif", "objective", "présentation",
	},
	types.SectionContact: {
		"contact", "coordonnées", "informations personnelles",
		"personal information",
	},
}

// sectionMatchOrder 标题匹配的固定遍历顺序
// map遍历顺序随机，同分标题会在不同运行间漂移；按此顺序取第一个最高分
var sectionMatchOrder = []types.SectionType{
	types.SectionExperience,
	types.SectionEducation,
	types.SectionSkills,
	types.SectionLanguages,
	types.SectionProfile,
	types.SectionContact,
}

// 日期模式集（带所有分隔符变体）
// 覆盖：月份全称/缩写+年份、MM/YYYY、纯年份、季度、学年区间
var datePatterns = []*regexp.Regexp{
	// 月份文本 + 年份（法语和英语，含缩写与重音变体）
	regexp.MustCompile(`(?i)(?:jan(?:v(?:ier)?)?|f[ée]v(?:r(?:ier)?)?|mar(?:s|ch)?|avr(?:il)?|mai|juin?|juil(?:let)?|ao[ûu]t?|sep(?:t(?:embre|ember)?)?|oct(?:obre|ober)?|nov(?:embre|ember)?|d[ée]c(?:embre|ember)?|january|february|april|may|june|july|august)\.?\s*\d{4}`),
	// MM/YYYY 或 MM-YYYY
	regexp.MustCompile(`\d{1,2}[/-]\d{4}`),
	// 纯年份
	regexp.MustCompile(`\b(?:19|20)\d{2}\b`),
	// 季度
	regexp.MustCompile(`Q[1-4]\s*\d{4}`),
	// 学年区间（含长短横线、箭头等分隔符）
	regexp.MustCompile(`\d{4}\s*[-–—→>/]\s*\d{4}`),
}

// 开放式时间段词汇（"至今"类，法语+英语）
var openEndedPeriodWords = []string{
	"present", "aujourd'hui", "current", "actuel", "en cours",
	"now", "ongoing", "toujours", "ce jour",
}

// 城市地名表（固定参照表）
// 摩洛哥 / 法国 / 国际主要城市
var cityGazetteer = []string{
	// 摩洛哥
	"Casablanca", "Rabat", "Fès", "Marrakech", "Tanger", "Agadir",
	"Meknès", "Oujda", "Kenitra", "Tétouan", "Salé", "Mohammedia",
	// 法国
	"Paris", "Lyon", "Marseille", "Toulouse", "Nice", "Nantes",
	"Strasbourg", "Montpellier", "Bordeaux", "Lille", "Rennes",
	// 国际
	"London", "New York", "Dubai", "Montreal", "Brussels", "Geneva",
}

// credentialEntry 学历词典条目
type credentialEntry struct {
	// 规范名称
	Name string
	// 变体拼写（小写）
	Variants []string
}

// 学历词典（法语+英语，按学位层级排序）
// 注意顺序即输出顺序：一份简历匹配到多个学历时按此顺序给出条目
var credentialDictionary = []credentialEntry{
	{Name: "Doctorat", Variants: []string{"doctorat", "phd", "ph.d", "doctorate"}},
	{Name: "Master", Variants: []string{"master", "master's", "msc", "m.sc", "mastère"}},
	{Name: "MBA", Variants: []string{"mba"}},
	{Name: "Ingénieur", Variants: []string{"ingénieur", "engineer", "engineering degree", "diplôme d'ingénieur"}},
	{Name: "Licence", Variants: []string{"licence", "bachelor", "bsc", "b.sc"}},
	{Name: "DUT", Variants: []string{"dut"}},
	{Name: "BTS", Variants: []string{"bts"}},
	{Name: "Bac", Variants: []string{"baccalauréat", "bac +", "high school diploma"}},
}

// languageEntry 语言词典条目
type languageEntry struct {
	// 规范名称
	Name string
	// 多语言变体拼写（小写）
	Variants []string
}

// 语言名称词典（多语言变体拼写）
var languageDictionary = []languageEntry{
	{Name: "Français", Variants: []string{"français", "francais", "french"}},
	{Name: "Anglais", Variants: []string{"anglais", "english"}},
	{Name: "Arabe", Variants: []string{"arabe", "arabic"}},
	{Name: "Espagnol", Variants: []string{"espagnol", "spanish"}},
	{Name: "Allemand", Variants: []string{"allemand", "german"}},
	{Name: "Italien", Variants: []string{"italien", "italian"}},
	{Name: "Portugais", Variants: []string{"portugais", "portuguese"}},
	{Name: "Chinois", Variants: []string{"chinois", "chinese", "mandarin"}},
}

// CEFR等级代码
var cefrLevels = []string{"a1", "a2", "b1", "b2", "c1", "c2"}

// 描述性语言水平 -> 规范形式（按水平从高到低排序）
var descriptiveLevels = []struct {
	Word      string
	Canonical string
}{
	{"natif", "Natif"},
	{"native", "Natif"},
	{"courant", "Courant"},
	{"fluent", "Courant"},
	{"avancé", "Avancé"},
	{"advanced", "Avancé"},
	{"intermédiaire", "Intermédiaire"},
	{"intermediate", "Intermédiaire"},
	{"débutant", "Débutant"},
	{"beginner", "Débutant"},
}

// 技能排除停用词
// 大写的普通词（章节名、职位头衔、动作动词）容易被误判为缩写类技能，
// 这份清单按数据集修订版手工调整，内容可通过配置补充
var defaultExcludedWords = map[string]bool{
	// 简历章节词
	"profile": true, "summary": true, "work": true, "experience": true,
	"education": true, "skills": true, "professional": true, "relevant": true,
	"interest": true, "bachelor": true, "master": true, "university": true,
	"school": true, "contact": true, "email": true, "phone": true, "address": true,

	// 职位头衔
	"assistant": true, "manager": true, "director": true, "lead": true,
	"senior": true, "junior": true, "specialist": true, "analyst": true,
	"coordinator": true, "supervisor": true, "executive": true,

	// 动作动词
	"managed": true, "developed": true, "created": true, "designed": true,
	"implemented": true, "coordinated": true, "supervised": true,
	"analyzed": true, "improved": true, "led": true,

	// 通用词
	"client": true, "company": true, "team": true, "project": true,
	"program": true, "initiative": true, "campaign": true, "event": true,
	"task": true, "goal": true, "objective": true, "strategy": true,

	// 法语
	"profil": true, "résumé": true, "expérience": true, "formation": true,
	"compétences": true, "responsable": true, "chargé": true, "directeur": true,
}
