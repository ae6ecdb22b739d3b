package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestInitWithExtraWriter 验证额外writer（如日志文件）会收到同样的日志
func TestInitWithExtraWriter(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "info", Format: "json"}, &buf)

	Info().Str("component", "init-test").Msg("日志初始化完成")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), "额外writer中应是合法的JSON日志")
	assert.Equal(t, "日志初始化完成", entry["message"])
	assert.Equal(t, "init-test", entry["component"])
}

// TestInitLevelFallback 验证非法日志级别回退到info
func TestInitLevelFallback(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "not-a-level", Format: "json"}, &buf)

	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel(), "非法级别应回退到info")

	Debug().Msg("不应出现")
	assert.Empty(t, buf.String(), "info级别下debug日志应被过滤")
}
