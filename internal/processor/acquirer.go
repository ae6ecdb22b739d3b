package processor

import (
	"context"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"

	"cv-extract-go/internal/types"
)

// DefaultTextAcquirer 文本采集器默认实现
// 按质量探测驱动的降级链获取简历文本：
// PDF: 空间提取 -> 对弱页做局部OCR -> 空间失败则顺序提取 -> 全文过短则整文档OCR
// 图片: 直接OCR
// 所有文档质量问题都降级为空文本结果，不返回错误
type DefaultTextAcquirer struct {
	spatial    SpatialExtractor
	sequential SequentialExtractor
	renderer   PageRenderer
	ocr        OCRRecognizer

	// 单页文本低于该长度视为空页，触发局部OCR
	minPageTextLen int
	// 全文低于该长度触发整文档OCR
	minDocTextLen int
	// 跳过空间提取，直接走顺序提取链路
	preferSequential bool

	logger *log.Logger
}

// AcquirerOption 采集器配置选项
type AcquirerOption func(*DefaultTextAcquirer)

// WithPageTextThreshold 设置单页文本长度阈值
func WithPageTextThreshold(n int) AcquirerOption {
	return func(a *DefaultTextAcquirer) {
		if n > 0 {
			a.minPageTextLen = n
		}
	}
}

// WithDocTextThreshold 设置全文长度阈值
func WithDocTextThreshold(n int) AcquirerOption {
	return func(a *DefaultTextAcquirer) {
		if n > 0 {
			a.minDocTextLen = n
		}
	}
}

// WithPreferSequential 跳过空间提取，PDF直接走顺序提取链路
func WithPreferSequential(enabled bool) AcquirerOption {
	return func(a *DefaultTextAcquirer) {
		a.preferSequential = enabled
	}
}

// WithAcquirerLogger 设置日志记录器
func WithAcquirerLogger(logger *log.Logger) AcquirerOption {
	return func(a *DefaultTextAcquirer) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// NewDefaultTextAcquirer 创建文本采集器
// spatial和ocr必填；sequential和renderer可为nil，对应的降级路径会被跳过
func NewDefaultTextAcquirer(spatial SpatialExtractor, sequential SequentialExtractor, renderer PageRenderer, ocr OCRRecognizer, options ...AcquirerOption) *DefaultTextAcquirer {
	a := &DefaultTextAcquirer{
		spatial:        spatial,
		sequential:     sequential,
		renderer:       renderer,
		ocr:            ocr,
		minPageTextLen: 50,
		minDocTextLen:  100,
		logger:         log.New(os.Stderr, "[文本采集] ", log.LstdFlags),
	}
	for _, opt := range options {
		opt(a)
	}
	return a
}

// Acquire 获取文件的原始文本
// 不支持的文件类型返回错误；其余失败情况一律降级为空结果并记录原因
func (a *DefaultTextAcquirer) Acquire(ctx context.Context, filePath string, kind types.FileKind) (*TextResult, error) {
	switch kind {
	case types.FileKindPDF:
		return a.acquirePDF(ctx, filePath), nil
	case types.FileKindJPG, types.FileKindJPEG, types.FileKindPNG:
		return a.acquireImage(ctx, filePath), nil
	default:
		return nil, NewUnsupportedFormatError(filePath, fmt.Sprintf("文件类型: %s", kind))
	}
}

func (a *DefaultTextAcquirer) acquirePDF(ctx context.Context, filePath string) *TextResult {
	if a.preferSequential || a.spatial == nil {
		return a.acquireSequential(ctx, filePath, "配置为顺序提取")
	}
	pages, err := a.spatial.ExtractPages(ctx, filePath)
	if err != nil {
		a.logger.Printf("空间提取失败，转顺序提取: %v", err)
		return a.acquireSequential(ctx, filePath, "空间提取失败")
	}

	var lines []string
	mixed := false
	for _, page := range pages {
		if len(strings.TrimSpace(page.Text)) >= a.minPageTextLen {
			lines = append(lines, page.Lines...)
			continue
		}
		// 弱页：文本层近乎为空，可能是扫描页，对该页做OCR
		ocrLines := a.recognizePage(ctx, filePath, page.Index)
		if len(ocrLines) > 0 {
			mixed = true
			lines = append(lines, ocrLines...)
		} else {
			lines = append(lines, page.Lines...)
		}
	}

	text := strings.Join(lines, "\n")
	if len(strings.TrimSpace(text)) < a.minDocTextLen {
		// 全文仍然过短，整文档转图像OCR
		if ocrText := a.recognizeWholeDocument(ctx, filePath); len(ocrText) > len(strings.TrimSpace(text)) {
			return &TextResult{
				Text:   ocrText,
				Lines:  splitLines(ocrText),
				Source: SourceFullOCR,
				Reason: "PDF文本层不足，使用整文档OCR",
			}
		}
	}

	source := SourcePDFText
	if mixed {
		source = SourcePDFMixed
	}
	return &TextResult{Text: text, Lines: lines, Source: source}
}

// acquireSequential 顺序提取路径，reason记录进入该路径的原因
func (a *DefaultTextAcquirer) acquireSequential(ctx context.Context, filePath string, reason string) *TextResult {
	if a.sequential == nil {
		return emptyResult(reason + "且未配置顺序提取器")
	}
	text, err := a.sequential.ExtractText(ctx, filePath)
	if err != nil {
		a.logger.Printf("顺序提取同样失败: %v", err)
		if ocrText := a.recognizeWholeDocument(ctx, filePath); ocrText != "" {
			return &TextResult{
				Text:   ocrText,
				Lines:  splitLines(ocrText),
				Source: SourceFullOCR,
				Reason: "两种文本提取均失败，使用整文档OCR",
			}
		}
		return emptyResult("所有PDF提取路径均失败")
	}
	text = strings.TrimSpace(text)
	if len(text) < a.minDocTextLen {
		if ocrText := a.recognizeWholeDocument(ctx, filePath); len(ocrText) > len(text) {
			return &TextResult{
				Text:   ocrText,
				Lines:  splitLines(ocrText),
				Source: SourceFullOCR,
				Reason: "顺序提取文本不足，使用整文档OCR",
			}
		}
	}
	return &TextResult{
		Text:   text,
		Lines:  splitLines(text),
		Source: SourcePDFSequential,
		Reason: reason,
	}
}

func (a *DefaultTextAcquirer) acquireImage(ctx context.Context, filePath string) *TextResult {
	text, err := a.ocr.RecognizeFile(ctx, filePath)
	if err != nil {
		a.logger.Printf("图片OCR失败: %v", err)
		return emptyResult(fmt.Sprintf("图片OCR失败: %v", err))
	}
	return &TextResult{
		Text:   text,
		Lines:  splitLines(text),
		Source: SourceImageOCR,
	}
}

// recognizePage 渲染并识别单页，任何失败返回nil
func (a *DefaultTextAcquirer) recognizePage(ctx context.Context, filePath string, pageIndex int) []string {
	if a.renderer == nil {
		return nil
	}
	images, err := a.renderer.RenderPages(ctx, filePath, []int{pageIndex})
	if err != nil {
		a.logger.Printf("第%d页渲染失败: %v", pageIndex, err)
		return nil
	}
	img, ok := images[pageIndex]
	if !ok {
		return nil
	}
	text, err := a.ocr.Recognize(ctx, img)
	if err != nil {
		a.logger.Printf("第%d页OCR失败: %v", pageIndex, err)
		return nil
	}
	return splitLines(text)
}

// recognizeWholeDocument 渲染全部页面并逐页OCR，按页序拼接
func (a *DefaultTextAcquirer) recognizeWholeDocument(ctx context.Context, filePath string) string {
	if a.renderer == nil {
		return ""
	}
	images, err := a.renderer.RenderPages(ctx, filePath, nil)
	if err != nil {
		a.logger.Printf("整文档渲染失败: %v", err)
		return ""
	}
	indexes := make([]int, 0, len(images))
	for i := range images {
		indexes = append(indexes, i)
	}
	sort.Ints(indexes)

	var parts []string
	for _, i := range indexes {
		text, err := a.ocr.Recognize(ctx, images[i])
		if err != nil {
			a.logger.Printf("第%d页OCR失败: %v", i, err)
			continue
		}
		if text != "" {
			parts = append(parts, text)
		}
	}
	return strings.TrimSpace(strings.Join(parts, "\n"))
}

func emptyResult(reason string) *TextResult {
	return &TextResult{Text: "", Lines: nil, Source: SourceEmpty, Reason: reason}
}

// splitLines 按行切分并去掉空白行
func splitLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
