package types

// FileKind 调用方声明的文件类型
type FileKind string

const (
	// FileKindPDF PDF文档
	FileKindPDF FileKind = "pdf"
	// FileKindJPG JPEG图片
	FileKindJPG FileKind = "jpg"
	// FileKindJPEG JPEG图片（别名）
	FileKindJPEG FileKind = "jpeg"
	// FileKindPNG PNG图片
	FileKindPNG FileKind = "png"
)

// SectionType 表示简历章节类型
type SectionType string

const (
	// SectionHeader 头部区域（第一个章节标题之前的内容）
	SectionHeader SectionType = "HEADER"
	// SectionExperience 工作经历章节
	SectionExperience SectionType = "EXPERIENCE"
	// SectionEducation 教育经历章节
	SectionEducation SectionType = "EDUCATION"
	// SectionSkills 技能章节
	SectionSkills SectionType = "SKILLS"
	// SectionLanguages 语言章节
	SectionLanguages SectionType = "LANGUAGES"
	// SectionProfile 个人简介章节
	SectionProfile SectionType = "PROFILE"
	// SectionContact 联系方式章节
	SectionContact SectionType = "CONTACT"
)

// SectionMap 章节名到其文本行的映射，每份文档解析时临时构建
type SectionMap map[SectionType][]string

// Lines 返回指定章节的文本行，章节不存在时返回nil
func (m SectionMap) Lines(t SectionType) []string {
	if m == nil {
		return nil
	}
	return m[t]
}

// PageText 单个PDF页面的空间排序提取结果
type PageText struct {
	Index int      // 页码，从1开始
	Lines []string // 按空间顺序重建的文本行
	Text  string   // 本页文本（行以换行符连接）
}

// SkillCategory 技能类别
type SkillCategory string

const (
	// SkillTechnical 技术技能
	SkillTechnical SkillCategory = "technical"
	// SkillSoft 软技能
	SkillSoft SkillCategory = "soft"
)

// Skill 一条带类别标签的技能
type Skill struct {
	Name     string        `json:"name"`
	Category SkillCategory `json:"category"`
}

// ExperienceEntry 一段工作经历
type ExperienceEntry struct {
	Period      string `json:"period"`
	Description string `json:"description"`
}

// EducationEntry 一条教育经历
type EducationEntry struct {
	Credential  string `json:"credential"`
	Description string `json:"description"`
}

// ExtractedProfile 提取管线的最终输出
// 不变量：RawText永远存在（完全失败时为空字符串而非nil）；
// 所有列表/集合字段默认为空值而非缺失；单个字段提取失败不向上传播。
type ExtractedProfile struct {
	FullName          string            `json:"full_name"`
	Email             string            `json:"email"`
	Phone             string            `json:"phone"`
	City              string            `json:"city"`
	Skills            []Skill           `json:"skills"`
	ExperienceEntries []ExperienceEntry `json:"experience_entries"`
	EducationEntries  []EducationEntry  `json:"education_entries"`
	Languages         []string          `json:"languages"`
	RawText           string            `json:"raw_text"`
}

// NewEmptyProfile 返回所有字段均为空值的档案，是管线定义的退化终态
func NewEmptyProfile() *ExtractedProfile {
	return &ExtractedProfile{
		Skills:            []Skill{},
		ExperienceEntries: []ExperienceEntry{},
		EducationEntries:  []EducationEntry{},
		Languages:         []string{},
		RawText:           "",
	}
}

// SkillNames 返回技能名称列表（保持原顺序）
func (p *ExtractedProfile) SkillNames() []string {
	names := make([]string, 0, len(p.Skills))
	for _, s := range p.Skills {
		names = append(names, s.Name)
	}
	return names
}
