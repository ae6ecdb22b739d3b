package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
	"gorm.io/gorm"

	"cv-extract-go/internal/config"
	"cv-extract-go/internal/constants"
	"cv-extract-go/internal/logger"
	"cv-extract-go/internal/processor"
	"cv-extract-go/internal/storage"
	"cv-extract-go/internal/storage/models"
	"cv-extract-go/internal/tracing"
	"cv-extract-go/internal/types"
	"cv-extract-go/pkg/utils"
)

// CVHandler 简历上传与查询处理器，协调存储与抽取管线
type CVHandler struct {
	cfg       *config.Config
	storage   *storage.Storage
	extractor processor.ProfileExtractor
}

// NewCVHandler 创建简历处理器
func NewCVHandler(cfg *config.Config, storage *storage.Storage, extractor processor.ProfileExtractor) *CVHandler {
	return &CVHandler{
		cfg:       cfg,
		storage:   storage,
		extractor: extractor,
	}
}

// CVUploadResponse 简历上传响应
type CVUploadResponse struct {
	SubmissionUUID string                  `json:"submission_uuid"`
	Status         string                  `json:"status"`
	Profile        *types.ExtractedProfile `json:"profile,omitempty"`
}

// ResolveFileKind 从声明的类型或文件名推断文件类型
// 声明的类型优先于扩展名
func ResolveFileKind(declared, filename string) types.FileKind {
	kind := strings.ToLower(strings.TrimSpace(declared))
	if kind == "" {
		kind = strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	}
	return types.FileKind(kind)
}

// HandleCVUpload 处理简历上传请求
// 流程：MD5去重 -> 原始文件入MinIO -> 抽取管线 -> 结果落MySQL
// 不支持的文件类型返回错误；抽取降级仍算成功，状态标记为DEGRADED_EMPTY
func (h *CVHandler) HandleCVUpload(ctx context.Context, reader io.Reader, fileSize int64,
	filename string, declaredKind string) (*CVUploadResponse, error) {

	kind := ResolveFileKind(declaredKind, filename)

	// reader只能读一次，先全量读出用于MD5和后续上传
	fileBytes, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("读取上传文件内容失败: %w", err)
	}
	fileMD5Hex := utils.CalculateMD5(fileBytes)

	if h.storage != nil && h.storage.Redis != nil {
		exists, err := h.storage.Redis.CheckFileMD5Exists(ctx, fileMD5Hex)
		if err != nil {
			logger.Error().Err(err).Str("md5", fileMD5Hex).Msg("查询Redis文件MD5失败")
			return nil, fmt.Errorf("检查文件MD5重复性失败: %w", err)
		}
		if exists {
			existingUUID, err := h.storage.Redis.GetSubmissionUUIDByMD5(ctx, fileMD5Hex)
			if err != nil {
				if !errors.Is(err, storage.ErrNotFound) {
					logger.Warn().Err(err).Str("md5", fileMD5Hex).Msg("查询MD5映射失败")
				}
				// Redis只存了MD5集合没存映射时，回源MySQL查提交记录
				if h.storage.MySQL != nil {
					if prev, dbErr := h.storage.MySQL.GetSubmissionByMD5(ctx, fileMD5Hex); dbErr == nil {
						existingUUID = prev.SubmissionUUID
					} else if !errors.Is(dbErr, gorm.ErrRecordNotFound) {
						logger.Warn().Err(dbErr).Str("md5", fileMD5Hex).Msg("回源MySQL查询MD5提交记录失败")
					}
				}
			}
			logger.Info().Str("md5", fileMD5Hex).Str("filename", filename).Msg("检测到重复的文件MD5，跳过处理")
			return &CVUploadResponse{
				SubmissionUUID: existingUUID,
				Status:         "DUPLICATE_FILE_SKIPPED",
			}, nil
		}
	}

	uuidV7, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("生成UUIDv7失败: %w", err)
	}
	submissionUUID := uuidV7.String()

	// 原始文件入对象存储
	var originalObjectKey string
	if h.storage != nil && h.storage.MinIO != nil {
		originalObjectKey, err = h.storage.MinIO.UploadCVFile(ctx, submissionUUID, string(kind),
			bytes.NewReader(fileBytes), int64(len(fileBytes)))
		if err != nil {
			return nil, fmt.Errorf("上传简历到MinIO失败: %w", err)
		}
	}

	// 抽取管线走文件路径接口，先落临时文件
	tmpFile, err := os.CreateTemp("", "cv-upload-*."+string(kind))
	if err != nil {
		return nil, fmt.Errorf("创建临时文件失败: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	if _, err := tmpFile.Write(fileBytes); err != nil {
		tmpFile.Close()
		return nil, fmt.Errorf("写入临时文件失败: %w", err)
	}
	tmpFile.Close()

	profile, err := h.extractor.ExtractFromFile(ctx, tmpPath, kind)
	if err != nil {
		// 不支持的格式直接报给调用方，不产出任何档案
		return nil, err
	}

	status := constants.StatusCompleted
	if profile.RawText == "" {
		status = constants.StatusDegradedEmpty
	}

	// 抽取文本入对象存储
	var rawTextObjectKey string
	if h.storage != nil && h.storage.MinIO != nil && profile.RawText != "" {
		rawTextObjectKey, err = h.storage.MinIO.UploadRawText(ctx, submissionUUID, profile.RawText)
		if err != nil {
			logger.Warn().Err(err).Str("submission_uuid", submissionUUID).Msg("上传抽取文本到MinIO失败")
		}
	}

	// 抽取结果落库
	if h.storage != nil && h.storage.MySQL != nil {
		submission := h.buildSubmission(submissionUUID, filename, kind, originalObjectKey, rawTextObjectKey, fileMD5Hex, status, profile)
		if err := h.storage.MySQL.SaveSubmission(ctx, submission); err != nil {
			logger.Error().Err(err).Str("submission_uuid", submissionUUID).Msg("保存提交记录失败")
			return nil, fmt.Errorf("保存提交记录失败: %w", err)
		}
	}

	// 去重记录写在所有步骤成功之后，失败只告警不回滚
	if h.storage != nil && h.storage.Redis != nil {
		if err := h.storage.Redis.RecordFileMD5(ctx, fileMD5Hex, submissionUUID); err != nil {
			logger.Warn().Err(err).Str("md5", fileMD5Hex).Msg("记录文件MD5失败")
		}
	}

	logger.Info().
		Str("submission_uuid", submissionUUID).
		Str("filename", filename).
		Str("status", status).
		Str("email", tracing.MaskPII(profile.Email)).
		Msg("简历上传处理完成")

	return &CVUploadResponse{
		SubmissionUUID: submissionUUID,
		Status:         status,
		Profile:        profile,
	}, nil
}

func (h *CVHandler) buildSubmission(submissionUUID, filename string, kind types.FileKind,
	originalObjectKey, rawTextObjectKey, fileMD5Hex, status string, profile *types.ExtractedProfile) *models.CVSubmission {

	return &models.CVSubmission{
		SubmissionUUID:      submissionUUID,
		OriginalFilename:    filename,
		FileKind:            string(kind),
		OriginalFilePathOSS: originalObjectKey,
		RawTextPathOSS:      rawTextObjectKey,
		RawFileMD5:          fileMD5Hex,
		FullName:            profile.FullName,
		Email:               profile.Email,
		Phone:               profile.Phone,
		City:                profile.City,
		SkillsJSON:          utils.ConvertToJSON(profile.Skills),
		ExperienceJSON:      utils.ConvertToJSON(profile.ExperienceEntries),
		EducationJSON:       utils.ConvertToJSON(profile.EducationEntries),
		LanguagesJSON:       utils.ConvertArrayToJSON(profile.Languages),
		ProcessingStatus:    status,
		ParserVersion:       h.cfg.ActiveParserVersion,
	}
}

// CVSubmissionResponse 提交记录查询响应
type CVSubmissionResponse struct {
	SubmissionUUID   string                  `json:"submission_uuid"`
	OriginalFilename string                  `json:"original_filename"`
	FileKind         string                  `json:"file_kind"`
	ProcessingStatus string                  `json:"processing_status"`
	ParserVersion    string                  `json:"parser_version"`
	OriginalFileURL  string                  `json:"original_file_url,omitempty"`
	Profile          *types.ExtractedProfile `json:"profile"`
	CreatedAt        string                  `json:"created_at"`
}

// GetSubmission 按UUID查询提交记录及其抽取档案
func (h *CVHandler) GetSubmission(ctx context.Context, submissionUUID string) (*CVSubmissionResponse, error) {
	if h.storage == nil || h.storage.MySQL == nil {
		return nil, fmt.Errorf("MySQL未初始化")
	}

	submission, err := h.storage.MySQL.GetSubmissionByUUID(ctx, submissionUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, err
	}

	profile := h.rebuildProfile(ctx, submission)

	// 原始文件不直接回传内容，给一个限时的预签名下载URL
	var originalFileURL string
	if h.storage.MinIO != nil && submission.OriginalFilePathOSS != "" {
		expiry := config.GetDuration(h.cfg.MinIO.PresignedURLExpiry, time.Hour)
		url, err := h.storage.MinIO.GetPresignedURL(ctx, submission.OriginalFilePathOSS, expiry)
		if err != nil {
			logger.Warn().Err(err).Str("submission_uuid", submission.SubmissionUUID).Msg("生成预签名下载URL失败")
		} else {
			originalFileURL = url
		}
	}

	return &CVSubmissionResponse{
		SubmissionUUID:   submission.SubmissionUUID,
		OriginalFilename: submission.OriginalFilename,
		FileKind:         submission.FileKind,
		ProcessingStatus: submission.ProcessingStatus,
		ParserVersion:    submission.ParserVersion,
		OriginalFileURL:  originalFileURL,
		Profile:          profile,
		CreatedAt:        submission.CreatedAt.Format("2006-01-02 15:04:05"),
	}, nil
}

// DeleteSubmission 删除提交记录及其在对象存储中的文件
// 先删对象存储再删数据库行，对象删除失败只告警，保证记录最终可清理
func (h *CVHandler) DeleteSubmission(ctx context.Context, submissionUUID string) error {
	if h.storage == nil || h.storage.MySQL == nil {
		return fmt.Errorf("MySQL未初始化")
	}

	submission, err := h.storage.MySQL.GetSubmissionByUUID(ctx, submissionUUID)
	if err != nil {
		return err
	}

	if h.storage.MinIO != nil {
		if submission.OriginalFilePathOSS != "" {
			if err := h.storage.MinIO.DeleteCVFile(ctx, submission.OriginalFilePathOSS); err != nil {
				logger.Warn().Err(err).Str("submission_uuid", submissionUUID).Msg("删除MinIO原始文件失败")
			}
		}
		if submission.RawTextPathOSS != "" {
			if err := h.storage.MinIO.DeleteRawText(ctx, submission.RawTextPathOSS); err != nil {
				logger.Warn().Err(err).Str("submission_uuid", submissionUUID).Msg("删除MinIO抽取文本失败")
			}
		}
	}

	if err := h.storage.MySQL.DeleteSubmission(ctx, submissionUUID); err != nil {
		return fmt.Errorf("删除提交记录失败: %w", err)
	}

	logger.Info().Str("submission_uuid", submissionUUID).Msg("提交记录已删除")
	return nil
}

// rebuildProfile 从数据库行还原抽取档案，原始文本按需从MinIO取回
func (h *CVHandler) rebuildProfile(ctx context.Context, submission *models.CVSubmission) *types.ExtractedProfile {
	profile := types.NewEmptyProfile()
	profile.FullName = submission.FullName
	profile.Email = submission.Email
	profile.Phone = submission.Phone
	profile.City = submission.City

	if len(submission.SkillsJSON) > 0 {
		if err := json.Unmarshal(submission.SkillsJSON, &profile.Skills); err != nil {
			logger.Warn().Err(err).Str("submission_uuid", submission.SubmissionUUID).Msg("反序列化技能JSON失败")
		}
	}
	if len(submission.ExperienceJSON) > 0 {
		if err := json.Unmarshal(submission.ExperienceJSON, &profile.ExperienceEntries); err != nil {
			logger.Warn().Err(err).Str("submission_uuid", submission.SubmissionUUID).Msg("反序列化经历JSON失败")
		}
	}
	if len(submission.EducationJSON) > 0 {
		if err := json.Unmarshal(submission.EducationJSON, &profile.EducationEntries); err != nil {
			logger.Warn().Err(err).Str("submission_uuid", submission.SubmissionUUID).Msg("反序列化教育JSON失败")
		}
	}
	if len(submission.LanguagesJSON) > 0 {
		if err := json.Unmarshal(submission.LanguagesJSON, &profile.Languages); err != nil {
			logger.Warn().Err(err).Str("submission_uuid", submission.SubmissionUUID).Msg("反序列化语言JSON失败")
		}
	}

	if submission.RawTextPathOSS != "" && h.storage.MinIO != nil {
		text, err := h.storage.MinIO.GetRawText(ctx, submission.RawTextPathOSS)
		if err != nil {
			logger.Warn().Err(err).Str("submission_uuid", submission.SubmissionUUID).Msg("从MinIO取回抽取文本失败")
		} else {
			profile.RawText = text
		}
	}
	return profile
}

// ListSubmissions 分页列出提交记录
func (h *CVHandler) ListSubmissions(ctx context.Context, page, pageSize int) ([]CVSubmissionResponse, int64, error) {
	if h.storage == nil || h.storage.MySQL == nil {
		return nil, 0, fmt.Errorf("MySQL未初始化")
	}
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	submissions, total, err := h.storage.MySQL.ListRecentSubmissions(ctx, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]CVSubmissionResponse, 0, len(submissions))
	for i := range submissions {
		s := &submissions[i]
		responses = append(responses, CVSubmissionResponse{
			SubmissionUUID:   s.SubmissionUUID,
			OriginalFilename: s.OriginalFilename,
			FileKind:         s.FileKind,
			ProcessingStatus: s.ProcessingStatus,
			ParserVersion:    s.ParserVersion,
			CreatedAt:        s.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	return responses, total, nil
}
