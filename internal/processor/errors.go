package processor

import (
	"errors"
	"fmt"
)

// 定义基础错误类型
// 管线的设计哲学是"永不因单份文档的问题阻塞"：文档质量问题一律就地降级为
// 空值，只有调用方契约违规（不支持的格式）会作为错误返回
var (
	ErrUnsupportedFormat = errors.New("不支持的文件格式")
	ErrAcquireFailed     = errors.New("文本获取失败")
	ErrDatasetLoad       = errors.New("技能数据集加载失败")
)

// ExtractError 包含详细信息的提取错误
type ExtractError struct {
	FilePath string
	Stage    string
	BaseErr  error
	Detail   string
}

func (e *ExtractError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s (阶段:%s, 文件:%s): %s", e.BaseErr, e.Stage, e.FilePath, e.Detail)
	}
	return fmt.Sprintf("%s (阶段:%s, 文件:%s)", e.BaseErr, e.Stage, e.FilePath)
}

func (e *ExtractError) Unwrap() error {
	return e.BaseErr
}

// Is 实现 errors.Is 接口以支持错误比较
func (e *ExtractError) Is(target error) bool {
	return errors.Is(e.BaseErr, target)
}

// NewUnsupportedFormatError 构造格式不支持错误
func NewUnsupportedFormatError(filePath, detail string) error {
	return &ExtractError{
		FilePath: filePath,
		Stage:    "acquire",
		BaseErr:  ErrUnsupportedFormat,
		Detail:   detail,
	}
}
