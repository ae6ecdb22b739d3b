package parser

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"log"
	"os"
	"time"

	"github.com/gen2brain/go-fitz"
)

// FitzPageRenderer 使用 go-fitz (MuPDF) 将PDF页面渲染为PNG图像
// 供OCR兜底路径使用：扫描版PDF没有文本层，只能先渲染再识别
type FitzPageRenderer struct {
	dpi    float64
	logger *log.Logger
}

// FitzOption 渲染器的配置选项
type FitzOption func(*FitzPageRenderer)

// WithRenderDPI 配置渲染分辨率
func WithRenderDPI(dpi int) FitzOption {
	return func(r *FitzPageRenderer) {
		if dpi > 0 {
			r.dpi = float64(dpi)
		}
	}
}

// WithFitzLogger 配置自定义日志记录器
func WithFitzLogger(logger *log.Logger) FitzOption {
	return func(r *FitzPageRenderer) {
		r.logger = logger
	}
}

// NewFitzPageRenderer 创建PDF页面渲染器
func NewFitzPageRenderer(options ...FitzOption) *FitzPageRenderer {
	r := &FitzPageRenderer{
		dpi:    300,
		logger: log.New(os.Stderr, "[PDF渲染器] ", log.LstdFlags),
	}
	for _, option := range options {
		option(r)
	}
	return r
}

// RenderPages 渲染指定页码（从1开始）为PNG字节
// pageIndexes为nil时渲染全部页面；单页渲染失败只记录日志并跳过该页
func (r *FitzPageRenderer) RenderPages(ctx context.Context, filePath string, pageIndexes []int) (map[int][]byte, error) {
	startTime := time.Now()

	doc, err := fitz.New(filePath)
	if err != nil {
		return nil, fmt.Errorf("打开PDF文件 %s 失败: %w", filePath, err)
	}
	defer doc.Close()

	totalPages := doc.NumPage()
	if pageIndexes == nil {
		pageIndexes = make([]int, 0, totalPages)
		for i := 1; i <= totalPages; i++ {
			pageIndexes = append(pageIndexes, i)
		}
	}

	rendered := make(map[int][]byte, len(pageIndexes))
	for _, pageIndex := range pageIndexes {
		select {
		case <-ctx.Done():
			return rendered, ctx.Err()
		default:
		}

		if pageIndex < 1 || pageIndex > totalPages {
			continue
		}

		// go-fitz页码从0开始
		img, err := doc.ImageDPI(pageIndex-1, r.dpi)
		if err != nil {
			r.logger.Printf("渲染第 %d 页失败，跳过: %v", pageIndex, err)
			continue
		}

		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			r.logger.Printf("编码第 %d 页PNG失败，跳过: %v", pageIndex, err)
			continue
		}
		rendered[pageIndex] = buf.Bytes()
	}

	r.logger.Printf("页面渲染完成: %d/%d 页 (用时 %.2f秒)", len(rendered), len(pageIndexes), time.Since(startTime).Seconds())
	return rendered, nil
}
