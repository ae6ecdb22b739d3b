package processor

import (
	"context"

	"cv-extract-go/internal/taxonomy"
	"cv-extract-go/internal/types"
)

// TextSource 标记文本最终来自哪条获取路径
type TextSource string

const (
	// SourcePDFText 原生PDF文本层
	SourcePDFText TextSource = "pdf_text"
	// SourcePDFMixed PDF文本层+部分页面OCR
	SourcePDFMixed TextSource = "pdf_text_ocr_mixed"
	// SourcePDFSequential 顺序文本兜底提取器
	SourcePDFSequential TextSource = "pdf_sequential"
	// SourceFullOCR 整文档渲染+OCR兜底
	SourceFullOCR TextSource = "full_ocr"
	// SourceImageOCR 图像文件直接OCR
	SourceImageOCR TextSource = "image_ocr"
	// SourceEmpty 所有路径都没有产出可用文本
	SourceEmpty TextSource = "empty"
)

// TextResult 文本获取阶段的结果
// 回退链是数据驱动的：每一级失败都体现为这里的字段，而不是异常——
// "无可用文本"的最终判定基于长度，与失败原因无关
type TextResult struct {
	// 全部恢复出来的文本（换行连接）
	Text string
	// 空间排序后的行序列（布局感知路径才有；其他路径按换行切分）
	Lines []string
	// 文本来源路径
	Source TextSource
	// 降级原因（有降级时记录，用于日志与排查）
	Reason string
}

//
// 文本获取相关接口
//

// SpatialExtractor 布局感知的PDF提取接口（保留空间坐标）
type SpatialExtractor interface {
	// ExtractPages 逐页提取空间排序后的文本行
	ExtractPages(ctx context.Context, filePath string) ([]types.PageText, error)
}

// SequentialExtractor 顺序文本PDF提取接口（无坐标的简单兜底）
type SequentialExtractor interface {
	// ExtractText 提取整个文档的连续文本
	ExtractText(ctx context.Context, filePath string) (string, error)
}

// PageRenderer PDF页面渲染接口（OCR前置步骤）
type PageRenderer interface {
	// RenderPages 渲染指定页码（从1开始）为PNG字节；nil表示全部页面
	RenderPages(ctx context.Context, filePath string, pageIndexes []int) (map[int][]byte, error)
}

// OCRRecognizer OCR识别接口
type OCRRecognizer interface {
	// Recognize 识别图像字节中的文本
	Recognize(ctx context.Context, imageBytes []byte) (string, error)

	// RecognizeFile 识别图像文件中的文本
	RecognizeFile(ctx context.Context, filePath string) (string, error)
}

// TextAcquirer 文本获取接口：文件路径+声明类型 -> 原始文本与行序列
type TextAcquirer interface {
	// Acquire 按声明的文件类型执行获取状态机
	// 只有不支持的文件类型返回错误；文档质量问题降级为空TextResult
	Acquire(ctx context.Context, filePath string, kind types.FileKind) (*TextResult, error)
}

//
// 解析相关接口
//

// SectionSegmenter 章节切分接口
type SectionSegmenter interface {
	// Segment 将行序列切分为带标签的章节
	Segment(lines []string) types.SectionMap
}

// SkillSearcher 技能检索接口（由只读技能库实现）
type SkillSearcher interface {
	// Search 在文本中检索技能，按类别分组返回
	Search(text string, threshold int) taxonomy.SearchResult
}

// ProfileExtractor 档案提取接口：完整管线的对外契约
// LLM辅助提取等替代策略可在同一契约后替换，不改变调用方
type ProfileExtractor interface {
	// ExtractFromFile 从文档文件提取结构化档案
	ExtractFromFile(ctx context.Context, filePath string, kind types.FileKind) (*types.ExtractedProfile, error)
}
