package parser

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/otiai10/gosseract/v2"
)

// TesseractOCR 基于 Tesseract 的OCR识别器
// 双语言模型（默认 fra+eng）以处理混合语言简历
// gosseract.Client 非并发安全，这里每次调用新建client，
// 与"每份文档一个worker"的并发模型一致
type TesseractOCR struct {
	languages []string
	timeout   time.Duration
	logger    *log.Logger
}

// OCROption OCR识别器的配置选项
type OCROption func(*TesseractOCR)

// WithOCRLanguages 配置Tesseract语言模型
func WithOCRLanguages(languages []string) OCROption {
	return func(o *TesseractOCR) {
		if len(languages) > 0 {
			o.languages = languages
		}
	}
}

// WithOCRTimeout 配置单次识别的墙钟超时
// OCR历来是管线的主要耗时点，必须有界
func WithOCRTimeout(timeout time.Duration) OCROption {
	return func(o *TesseractOCR) {
		if timeout > 0 {
			o.timeout = timeout
		}
	}
}

// WithOCRLogger 配置自定义日志记录器
func WithOCRLogger(logger *log.Logger) OCROption {
	return func(o *TesseractOCR) {
		o.logger = logger
	}
}

// NewTesseractOCR 创建OCR识别器
func NewTesseractOCR(options ...OCROption) *TesseractOCR {
	o := &TesseractOCR{
		languages: []string{"fra", "eng"},
		timeout:   30 * time.Second,
		logger:    log.New(os.Stderr, "[OCR] ", log.LstdFlags),
	}
	for _, option := range options {
		option(o)
	}
	return o
}

// Recognize 识别PNG/JPEG图像字节中的文本
func (o *TesseractOCR) Recognize(ctx context.Context, imageBytes []byte) (string, error) {
	return o.run(ctx, func(client *gosseract.Client) error {
		return client.SetImageFromBytes(imageBytes)
	})
}

// RecognizeFile 识别图像文件中的文本
func (o *TesseractOCR) RecognizeFile(ctx context.Context, filePath string) (string, error) {
	return o.run(ctx, func(client *gosseract.Client) error {
		return client.SetImage(filePath)
	})
}

type ocrResult struct {
	text string
	err  error
}

// run 执行一次OCR识别，强制墙钟超时
// gosseract本身不接受context，识别放在独立goroutine里，
// 超时后结果被丢弃（goroutine自行结束并释放client）
func (o *TesseractOCR) run(ctx context.Context, setImage func(*gosseract.Client) error) (string, error) {
	startTime := time.Now()

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	resultCh := make(chan ocrResult, 1)
	go func() {
		client := gosseract.NewClient()
		defer client.Close()

		if err := client.SetLanguage(o.languages...); err != nil {
			resultCh <- ocrResult{err: fmt.Errorf("设置OCR语言失败: %w", err)}
			return
		}
		if err := setImage(client); err != nil {
			resultCh <- ocrResult{err: fmt.Errorf("设置OCR图像失败: %w", err)}
			return
		}

		text, err := client.Text()
		resultCh <- ocrResult{text: text, err: err}
	}()

	select {
	case <-ctx.Done():
		o.logger.Printf("OCR超时 (限制 %s)", o.timeout)
		return "", fmt.Errorf("OCR识别超时: %w", ctx.Err())
	case res := <-resultCh:
		if res.err != nil {
			o.logger.Printf("OCR识别失败: %v (用时 %.2f秒)", res.err, time.Since(startTime).Seconds())
			return "", res.err
		}
		text := strings.TrimSpace(res.text)
		o.logger.Printf("OCR识别完成: %d 个字符 (用时 %.2f秒)", len(text), time.Since(startTime).Seconds())
		return text, nil
	}
}
