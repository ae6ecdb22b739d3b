package processor

import "log"

// ComponentOpt 组件选项类型，仅改变 Components 结构体内的字段
type ComponentOpt func(*Components)

// SettingOpt 设置选项类型，仅改变 Settings 结构体内的字段
type SettingOpt func(*Settings)

// ----- 组件选项 -----

// WithcompAcquirer 设置文本采集组件
func WithcompAcquirer(acquirer TextAcquirer) ComponentOpt {
	return func(c *Components) {
		c.Acquirer = acquirer
	}
}

// WithcompSegmenter 设置章节分段组件
func WithcompSegmenter(segmenter SectionSegmenter) ComponentOpt {
	return func(c *Components) {
		c.Segmenter = segmenter
	}
}

// WithcompSkills 设置技能检索组件
func WithcompSkills(searcher SkillSearcher) ComponentOpt {
	return func(c *Components) {
		c.Skills = searcher
	}
}

// ----- 设置选项 -----

// WithsetSkillThreshold 设置技能模糊匹配阈值
func WithsetSkillThreshold(threshold int) SettingOpt {
	return func(s *Settings) {
		if threshold > 0 {
			s.SkillFuzzyThreshold = threshold
		}
	}
}

// WithsetHeaderScanLines 设置头部扫描行数
func WithsetHeaderScanLines(n int) SettingOpt {
	return func(s *Settings) {
		if n > 0 {
			s.HeaderScanLines = n
		}
	}
}

// WithsetDescriptionMaxLen 设置条目描述截断长度
func WithsetDescriptionMaxLen(n int) SettingOpt {
	return func(s *Settings) {
		if n > 0 {
			s.DescriptionMaxLen = n
		}
	}
}

// WithsetMinUsableTextLen 设置可用文本下限
func WithsetMinUsableTextLen(n int) SettingOpt {
	return func(s *Settings) {
		if n > 0 {
			s.MinUsableTextLen = n
		}
	}
}

// WithsetExtraExcludedWords 追加技能排除词
func WithsetExtraExcludedWords(words []string) SettingOpt {
	return func(s *Settings) {
		s.ExtraExcludedWords = words
	}
}

// WithsetLogger 设置日志记录器
func WithsetLogger(logger *log.Logger) SettingOpt {
	return func(s *Settings) {
		if logger != nil {
			s.Logger = logger
		}
	}
}
