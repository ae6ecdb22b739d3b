package parser

import (
	"context"
	"fmt"
	"log"
	"math"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"

	"cv-extract-go/internal/types"
)

// SpatialPDFExtractor 布局感知的PDF文本提取器
// 保留每个文本片段的空间坐标，将其按纵坐标聚类成行、行内按横坐标排序，
// 以正确还原多栏简历的阅读顺序（朴素的字符流提取会把不相关的栏交错在一起）
type SpatialPDFExtractor struct {
	// 纵坐标聚类容差：坐标除以该值后取整，同一格的片段归入同一行
	yTolerance float64
	// 行内片段间隙超过该值(点)时插入空格
	gapThreshold float64

	logger *log.Logger
}

// SpatialOption 空间提取器的配置选项
type SpatialOption func(*SpatialPDFExtractor)

// WithSpatialLogger 配置自定义日志记录器
func WithSpatialLogger(logger *log.Logger) SpatialOption {
	return func(e *SpatialPDFExtractor) {
		e.logger = logger
	}
}

// WithYTolerance 配置纵坐标聚类容差
func WithYTolerance(tolerance float64) SpatialOption {
	return func(e *SpatialPDFExtractor) {
		if tolerance > 0 {
			e.yTolerance = tolerance
		}
	}
}

// NewSpatialPDFExtractor 创建布局感知的PDF提取器
func NewSpatialPDFExtractor(options ...SpatialOption) *SpatialPDFExtractor {
	e := &SpatialPDFExtractor{
		yTolerance:   3,
		gapThreshold: 1.5,
		logger:       log.New(os.Stderr, "[空间PDF解析器] ", log.LstdFlags),
	}
	for _, option := range options {
		option(e)
	}
	return e
}

// ExtractPages 从PDF文件逐页提取空间排序后的文本行
// 单页内容损坏时该页返回空行集而非报错，整体打不开时才返回错误
func (e *SpatialPDFExtractor) ExtractPages(ctx context.Context, filePath string) ([]types.PageText, error) {
	startTime := time.Now()

	f, reader, err := pdf.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("打开PDF文件 %s 失败: %w", filePath, err)
	}
	defer f.Close()

	totalPages := reader.NumPage()
	pages := make([]types.PageText, 0, totalPages)

	for pageIndex := 1; pageIndex <= totalPages; pageIndex++ {
		select {
		case <-ctx.Done():
			return pages, ctx.Err()
		default:
		}

		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			pages = append(pages, types.PageText{Index: pageIndex})
			continue
		}

		lines := e.extractPageLines(page)
		pages = append(pages, types.PageText{
			Index: pageIndex,
			Lines: lines,
			Text:  strings.Join(lines, "\n"),
		})
	}

	e.logger.Printf("空间提取完成: %d 页 (用时 %.2f秒)", totalPages, time.Since(startTime).Seconds())
	return pages, nil
}

// extractPageLines 对单页做空间行重建
// 页面内容流解析偶发panic（损坏的内容流），就地恢复并视为空页
func (e *SpatialPDFExtractor) extractPageLines(page pdf.Page) (lines []string) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Printf("页面内容解析异常，按空页处理: %v", r)
			lines = nil
		}
	}()

	content := page.Content()
	if len(content.Text) == 0 {
		return nil
	}

	// 按纵坐标聚类成行：PDF坐标系原点在左下，y值大的行在上面
	rows := make(map[int][]pdf.Text)
	for _, fragment := range content.Text {
		if fragment.S == "" {
			continue
		}
		rowKey := int(math.Round(fragment.Y / e.yTolerance))
		rows[rowKey] = append(rows[rowKey], fragment)
	}

	rowKeys := make([]int, 0, len(rows))
	for key := range rows {
		rowKeys = append(rowKeys, key)
	}
	// 从上到下
	sort.Sort(sort.Reverse(sort.IntSlice(rowKeys)))

	for _, key := range rowKeys {
		fragments := rows[key]
		// 行内从左到右
		sort.Slice(fragments, func(i, j int) bool {
			return fragments[i].X < fragments[j].X
		})

		line := e.joinFragments(fragments)
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}

	return lines
}

// joinFragments 拼接一行内的文本片段
// 片段之间的水平间隙超过阈值时补一个空格（字符级片段本身不带空格信息）
func (e *SpatialPDFExtractor) joinFragments(fragments []pdf.Text) string {
	var sb strings.Builder
	var prevEnd float64

	for i, fragment := range fragments {
		if i > 0 && fragment.X-prevEnd > e.gapThreshold {
			sb.WriteString(" ")
		}
		sb.WriteString(fragment.S)
		prevEnd = fragment.X + fragment.W
	}

	return sb.String()
}
