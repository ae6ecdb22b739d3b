package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config 应用程序配置
type Config struct {
	// 服务器配置
	Server ServerConfig `yaml:"server"`

	// 日志配置
	Logger LoggerConfig `yaml:"logger"`

	// MySQL配置（档案持久化）
	MySQL MySQLConfig `yaml:"mysql"`

	// MinIO配置（原始文件与解析文本的对象存储）
	MinIO MinIOConfig `yaml:"minio"`

	// Redis配置（上传文件MD5去重）
	Redis RedisConfig `yaml:"redis"`

	// OCR配置
	OCR OCRConfig `yaml:"ocr"`

	// 提取管线配置（阈值与策略开关）
	Pipeline PipelineConfig `yaml:"pipeline"`

	// 技能数据集配置
	Skills SkillsConfig `yaml:"skills"`

	// 链路追踪配置
	Tracing TracingConfig `yaml:"tracing"`

	// 当前解析器版本标识，写入每条提取记录
	ActiveParserVersion string `yaml:"active_parser_version"`
}

// ServerConfig 定义服务器配置
type ServerConfig struct {
	Address string `yaml:"address"` // 例如 ":8080" or "0.0.0.0:8080"
}

// LoggerConfig 日志配置
type LoggerConfig struct {
	Level        string `yaml:"level"`         // debug, info, warn, error
	Format       string `yaml:"format"`        // json, pretty
	TimeFormat   string `yaml:"time_format"`   // 时间格式
	ReportCaller bool   `yaml:"report_caller"` // 是否报告调用位置
}

// MySQLConfig MySQL配置结构
type MySQLConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	// 连接池设置
	MaxIdleConns int `yaml:"max_idle_conns"` // 最大空闲连接数
	MaxOpenConns int `yaml:"max_open_conns"` // 最大打开连接数
	// 连接生命周期
	ConnMaxLifetimeMinutes int `yaml:"conn_max_lifetime_minutes"` // 连接最大生命周期(分钟)
	ConnMaxIdleTimeMinutes int `yaml:"conn_max_idle_time_minutes"`
	// 超时设置
	ConnectTimeoutSeconds int `yaml:"connect_timeout_seconds"`
	ReadTimeoutSeconds    int `yaml:"read_timeout_seconds"`
	WriteTimeoutSeconds   int `yaml:"write_timeout_seconds"`
	// 日志设置
	LogLevel int `yaml:"log_level"` // 日志级别(1-4)
}

// MinIOConfig MinIO配置结构
type MinIOConfig struct {
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"accessKeyID"`
	SecretAccessKey string `yaml:"secretAccessKey"`
	UseSSL          bool   `yaml:"useSSL"`
	OriginalsBucket string `yaml:"originalsBucket"` // 原始简历存储桶
	RawTextBucket   string `yaml:"rawTextBucket"`   // 提取文本存储桶
	Location        string `yaml:"location"`        // 可选，存储桶区域
	// 对象生命周期管理
	OriginalFileExpireDays int `yaml:"original_file_expire_days"` // 原始文件过期天数
	RawTextExpireDays      int `yaml:"raw_text_expire_days"`      // 提取文本过期天数
	// 预签名下载URL有效期，如"1h"、"30m"，空值默认1小时
	PresignedURLExpiry string `yaml:"presigned_url_expiry"`
}

// RedisConfig Redis配置结构
type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	// 连接池设置
	PoolSize     int `yaml:"pool_size"`
	MinIdleConns int `yaml:"min_idle_conns"`
	// 超时设置
	DialTimeoutSeconds  int `yaml:"dial_timeout_seconds"`
	ReadTimeoutSeconds  int `yaml:"read_timeout_seconds"`
	WriteTimeoutSeconds int `yaml:"write_timeout_seconds"`
	// MD5记录过期时间(天)
	MD5RecordExpireDays int `yaml:"md5_record_expire_days"`
}

// OCRConfig OCR配置结构
// 双语言模型（源语言+英语）用于处理混合语言简历
type OCRConfig struct {
	Languages      []string `yaml:"languages"`       // Tesseract语言模型，例如 ["fra", "eng"]
	TimeoutSeconds int      `yaml:"timeout_seconds"` // 单次OCR调用的墙钟超时(秒)
	RenderDPI      int      `yaml:"render_dpi"`      // PDF页面渲染分辨率
}

// PipelineConfig 提取管线配置
// 三代解析器合并为一条可配置管线后，策略选择全部由这里驱动
type PipelineConfig struct {
	// 文本获取策略: "spatial"(布局感知) 或 "sequential"(顺序文本)
	AcquisitionStrategy string `yaml:"acquisition_strategy"`
	// 分段前是否合并相邻短行（修复跨视觉行折断的逻辑行）
	RegroupShortLines bool `yaml:"regroup_short_lines"`
	// 章节标题模糊匹配阈值(0-100)
	SectionFuzzyThreshold int `yaml:"section_fuzzy_threshold"`
	// 技能模糊匹配阈值(0-100)
	SkillFuzzyThreshold int `yaml:"skill_fuzzy_threshold"`
	// 单页文本低于此长度视为扫描页，触发该页OCR
	MinPageTextLen int `yaml:"min_page_text_len"`
	// 全文低于此长度触发整文档OCR兜底
	MinDocTextLen int `yaml:"min_doc_text_len"`
	// 全文低于此长度判定为"无可用文本"，直接短路为空档案
	MinUsableTextLen int `yaml:"min_usable_text_len"`
	// 姓名候选扫描的头部行数
	HeaderScanLines int `yaml:"header_scan_lines"`
	// 经历/教育条目描述的长度上限
	DescriptionMaxLen int `yaml:"description_max_len"`
}

// SkillsConfig 技能数据集配置
type SkillsConfig struct {
	DatasetPath string `yaml:"dataset_path"` // 技能数据集JSON文件路径
	// 额外的排除词（与内置停用词合并）
	ExtraExcludedWords []string `yaml:"extra_excluded_words"`
}

// TracingConfig 链路追踪配置
type TracingConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Endpoint string `yaml:"endpoint"` // OTLP gRPC endpoint，例如 "localhost:4317"
}

// LoadConfig 从文件加载配置
// 未指定路径时在常见位置查找；测试环境中找不到文件则回退到默认配置
func LoadConfig(configPath string) (*Config, error) {
	if configPath == "" {
		searchPaths := []string{
			"config.yaml",
			"./config.yaml",
			"../config.yaml",
			"../../config.yaml",
			filepath.Join(os.Getenv("HOME"), ".cv-extract", "config.yaml"),
		}

		execPath, err := os.Executable()
		if err == nil {
			execDir := filepath.Dir(execPath)
			searchPaths = append(searchPaths, filepath.Join(execDir, "config.yaml"))
			searchPaths = append(searchPaths, filepath.Join(execDir, "..", "config.yaml"))
		}

		for _, path := range searchPaths {
			if _, err := os.Stat(path); err == nil {
				configPath = path
				break
			}
		}

		// 仍找不到配置文件时：测试环境返回默认配置，否则用默认路径
		if configPath == "" {
			if inTestEnv() {
				return createDefaultConfig(), nil
			}
			configPath = "config.yaml"
		}
	}

	if _, err := os.Stat(configPath); err != nil {
		if inTestEnv() {
			return createDefaultConfig(), nil
		}
		return nil, fmt.Errorf("配置文件不存在: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	// 从环境变量覆盖配置（如果存在）
	if envAddr := os.Getenv("MINIO_ENDPOINT"); envAddr != "" {
		config.MinIO.Endpoint = envAddr
	}
	if envKey := os.Getenv("MINIO_ACCESS_KEY"); envKey != "" {
		config.MinIO.AccessKeyID = envKey
	}
	if envSecret := os.Getenv("MINIO_SECRET_KEY"); envSecret != "" {
		config.MinIO.SecretAccessKey = envSecret
	}
	if envDataset := os.Getenv("SKILLS_DATASET_PATH"); envDataset != "" {
		config.Skills.DatasetPath = envDataset
	}

	applyDefaults(&config)

	return &config, nil
}

// inTestEnv 粗略检测是否运行在 go test 下
func inTestEnv() bool {
	for _, arg := range os.Args {
		if strings.Contains(arg, "test") {
			return true
		}
	}
	return false
}

// applyDefaults 为缺失的配置项设置默认值
func applyDefaults(config *Config) {
	if config.Server.Address == "" {
		config.Server.Address = ":8080"
	}
	if len(config.OCR.Languages) == 0 {
		config.OCR.Languages = []string{"fra", "eng"}
	}
	if config.OCR.TimeoutSeconds <= 0 {
		config.OCR.TimeoutSeconds = 30
	}
	if config.OCR.RenderDPI <= 0 {
		config.OCR.RenderDPI = 300
	}
	if config.Pipeline.AcquisitionStrategy == "" {
		config.Pipeline.AcquisitionStrategy = "spatial"
	}
	if config.Pipeline.SectionFuzzyThreshold <= 0 {
		config.Pipeline.SectionFuzzyThreshold = 85
	}
	if config.Pipeline.SkillFuzzyThreshold <= 0 {
		config.Pipeline.SkillFuzzyThreshold = 85
	}
	if config.Pipeline.MinPageTextLen <= 0 {
		config.Pipeline.MinPageTextLen = 50
	}
	if config.Pipeline.MinDocTextLen <= 0 {
		config.Pipeline.MinDocTextLen = 100
	}
	if config.Pipeline.MinUsableTextLen <= 0 {
		config.Pipeline.MinUsableTextLen = 50
	}
	if config.Pipeline.HeaderScanLines <= 0 {
		config.Pipeline.HeaderScanLines = 20
	}
	if config.Pipeline.DescriptionMaxLen <= 0 {
		config.Pipeline.DescriptionMaxLen = 200
	}
	if config.Skills.DatasetPath == "" {
		config.Skills.DatasetPath = "data/skills.json"
	}
	if config.ActiveParserVersion == "" {
		config.ActiveParserVersion = "unified-v1"
	}
}

// createDefaultConfig 创建一个默认配置，用于测试环境
func createDefaultConfig() *Config {
	config := &Config{}

	config.Server.Address = ":8080"

	// 日志默认配置
	config.Logger.Level = "info"
	config.Logger.Format = "pretty" // 开发环境默认使用美化输出
	config.Logger.TimeFormat = "2006-01-02 15:04:05"
	config.Logger.ReportCaller = true

	// MySQL默认配置
	config.MySQL.Host = "localhost"
	config.MySQL.Port = 3306
	config.MySQL.Username = "root"
	config.MySQL.Password = "password"
	config.MySQL.Database = "cv_extract"
	config.MySQL.MaxIdleConns = 10
	config.MySQL.MaxOpenConns = 100
	config.MySQL.ConnMaxLifetimeMinutes = 60
	config.MySQL.ConnMaxIdleTimeMinutes = 30
	config.MySQL.ConnectTimeoutSeconds = 10
	config.MySQL.ReadTimeoutSeconds = 30
	config.MySQL.WriteTimeoutSeconds = 30
	config.MySQL.LogLevel = 4 // Info级别

	// MinIO默认配置
	config.MinIO.Endpoint = "localhost:9000"
	config.MinIO.AccessKeyID = "minioadmin"
	config.MinIO.SecretAccessKey = "minioadmin123"
	config.MinIO.UseSSL = false
	config.MinIO.OriginalsBucket = "cv-originals"
	config.MinIO.RawTextBucket = "cv-raw-text"
	config.MinIO.OriginalFileExpireDays = 1095 // 默认3年过期
	config.MinIO.RawTextExpireDays = 1095

	// Redis默认配置
	config.Redis.Address = "localhost:6379"
	config.Redis.Password = ""
	config.Redis.DB = 0
	config.Redis.PoolSize = 10
	config.Redis.MinIdleConns = 2
	config.Redis.DialTimeoutSeconds = 5
	config.Redis.ReadTimeoutSeconds = 3
	config.Redis.WriteTimeoutSeconds = 3
	config.Redis.MD5RecordExpireDays = 365 // 默认1年过期

	applyDefaults(config)

	return config
}

// CreateSampleConfig 创建一个示例配置文件
func CreateSampleConfig(filePath string) error {
	if _, err := os.Stat(filePath); err == nil {
		return fmt.Errorf("文件 '%s' 已存在，不会覆盖", filePath)
	}

	config := createDefaultConfig()

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("序列化配置失败: %w", err)
	}

	err = os.WriteFile(filePath, data, 0644)
	if err != nil {
		return fmt.Errorf("写入示例配置文件 '%s' 失败: %w", filePath, err)
	}

	return nil
}

// OCRTimeout 返回OCR调用的墙钟超时
func (c *Config) OCRTimeout() time.Duration {
	if c.OCR.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.OCR.TimeoutSeconds) * time.Second
}

// GetDuration utility to parse duration strings from config
func GetDuration(durationStr string, defaultDuration time.Duration) time.Duration {
	if durationStr == "" {
		return defaultDuration
	}
	d, err := time.ParseDuration(durationStr)
	if err != nil {
		return defaultDuration
	}
	return d
}
