package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoadConfigFromFile 验证 YAML 配置文件能被正确加载
func TestLoadConfigFromFile(t *testing.T) {
	yamlContent := `
server:
  address: ":9090"
ocr:
  languages: ["fra", "eng"]
  timeout_seconds: 45
  render_dpi: 200
pipeline:
  acquisition_strategy: "sequential"
  regroup_short_lines: true
  section_fuzzy_threshold: 90
skills:
  dataset_path: "custom/skills.json"
  extra_excluded_words: ["stage", "projet"]
`
	tmpDir, err := os.MkdirTemp("", "config-test")
	require.NoError(t, err, "无法创建临时目录")
	defer os.RemoveAll(tmpDir)

	configPath := filepath.Join(tmpDir, "config.yaml")
	err = os.WriteFile(configPath, []byte(yamlContent), 0644)
	require.NoError(t, err, "无法写入临时配置文件")

	config, err := LoadConfig(configPath)
	require.NoError(t, err, "加载合法配置不应返回错误")
	require.NotNil(t, config, "配置对象不应为 nil")

	assert.Equal(t, ":9090", config.Server.Address, "Server.Address 的值与预期不符")
	assert.Equal(t, []string{"fra", "eng"}, config.OCR.Languages, "OCR.Languages 的值与预期不符")
	assert.Equal(t, 45, config.OCR.TimeoutSeconds, "OCR.TimeoutSeconds 的值与预期不符")
	assert.Equal(t, 200, config.OCR.RenderDPI, "OCR.RenderDPI 的值与预期不符")
	assert.Equal(t, "sequential", config.Pipeline.AcquisitionStrategy, "AcquisitionStrategy 的值与预期不符")
	assert.True(t, config.Pipeline.RegroupShortLines, "RegroupShortLines 应为 true")
	assert.Equal(t, 90, config.Pipeline.SectionFuzzyThreshold, "SectionFuzzyThreshold 的值与预期不符")
	assert.Equal(t, "custom/skills.json", config.Skills.DatasetPath, "DatasetPath 的值与预期不符")
	assert.Equal(t, []string{"stage", "projet"}, config.Skills.ExtraExcludedWords, "ExtraExcludedWords 的值与预期不符")
}

// TestLoadConfigAppliesDefaults 验证缺失的配置项会被填上默认值
func TestLoadConfigAppliesDefaults(t *testing.T) {
	// 只给出最小配置，其余字段应全部落到默认值
	yamlContent := `
server:
  address: ":8081"
`
	tmpDir, err := os.MkdirTemp("", "config-test-defaults")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	configPath := filepath.Join(tmpDir, "config.yaml")
	err = os.WriteFile(configPath, []byte(yamlContent), 0644)
	require.NoError(t, err)

	config, err := LoadConfig(configPath)
	require.NoError(t, err)
	require.NotNil(t, config)

	assert.Equal(t, ":8081", config.Server.Address, "显式指定的地址不应被默认值覆盖")
	assert.Equal(t, []string{"fra", "eng"}, config.OCR.Languages, "OCR语言应落到默认值")
	assert.Equal(t, 30, config.OCR.TimeoutSeconds, "OCR超时应落到默认值")
	assert.Equal(t, 300, config.OCR.RenderDPI, "渲染DPI应落到默认值")
	assert.Equal(t, "spatial", config.Pipeline.AcquisitionStrategy, "采集策略应默认为spatial")
	assert.Equal(t, 85, config.Pipeline.SectionFuzzyThreshold, "章节阈值应默认为85")
	assert.Equal(t, 85, config.Pipeline.SkillFuzzyThreshold, "技能阈值应默认为85")
	assert.Equal(t, 50, config.Pipeline.MinPageTextLen, "单页文本阈值应默认为50")
	assert.Equal(t, 100, config.Pipeline.MinDocTextLen, "全文阈值应默认为100")
	assert.Equal(t, 50, config.Pipeline.MinUsableTextLen, "可用文本阈值应默认为50")
	assert.Equal(t, 20, config.Pipeline.HeaderScanLines, "头部扫描行数应默认为20")
	assert.Equal(t, 200, config.Pipeline.DescriptionMaxLen, "描述截断长度应默认为200")
	assert.Equal(t, "data/skills.json", config.Skills.DatasetPath, "数据集路径应落到默认值")
	assert.Equal(t, "unified-v1", config.ActiveParserVersion, "解析器版本应落到默认值")
}

// TestLoadConfigMissingFileInTestEnv 验证测试环境下找不到文件时回退到默认配置
func TestLoadConfigMissingFileInTestEnv(t *testing.T) {
	config, err := LoadConfig(filepath.Join(os.TempDir(), "does-not-exist-config.yaml"))
	require.NoError(t, err, "测试环境下缺失配置文件不应报错")
	require.NotNil(t, config)
	assert.Equal(t, ":8080", config.Server.Address, "默认配置的监听地址与预期不符")
}

// TestOCRTimeout 验证超时换算
func TestOCRTimeout(t *testing.T) {
	config := createDefaultConfig()
	assert.Equal(t, "30s", config.OCRTimeout().String(), "默认OCR超时应为30秒")

	config.OCR.TimeoutSeconds = 0
	assert.Equal(t, "30s", config.OCRTimeout().String(), "非法超时值应回退到30秒")
}

// TestGetDuration 验证时长字符串解析与默认值回退
func TestGetDuration(t *testing.T) {
	assert.Equal(t, 30*time.Minute, GetDuration("30m", time.Hour), "合法时长应被解析")
	assert.Equal(t, time.Hour, GetDuration("", time.Hour), "空字符串应回退默认值")
	assert.Equal(t, time.Hour, GetDuration("not-a-duration", time.Hour), "非法时长应回退默认值")
}

// TestCreateSampleConfig 验证示例配置文件的生成与防覆盖
func TestCreateSampleConfig(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "config-sample")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	samplePath := filepath.Join(tmpDir, "sample.yaml")
	err = CreateSampleConfig(samplePath)
	require.NoError(t, err, "生成示例配置不应报错")

	loaded, err := LoadConfig(samplePath)
	require.NoError(t, err, "生成的示例配置应能被重新加载")
	assert.Equal(t, ":8080", loaded.Server.Address)

	// 已存在的文件不应被覆盖
	err = CreateSampleConfig(samplePath)
	assert.Error(t, err, "示例配置已存在时应拒绝覆盖")
}
