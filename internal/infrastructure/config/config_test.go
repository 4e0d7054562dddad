package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFile_Defaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
database:
  host: db
  port: 3306
  user: root
  password: secret
  dbname: bookcrossing
`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "0 */30 * * * *", cfg.Alert.Cron)
	assert.True(t, cfg.Alert.Enabled)
	assert.Equal(t, 10*time.Minute, cfg.Alert.LockTTL)
	assert.Equal(t, "topic", cfg.MQ.ExchangeType)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, "root:secret@tcp(db:3306)/bookcrossing?charset=utf8mb4&parseTime=true&loc=Local", cfg.Database.DSN())
}

func TestLoadFile_EnvOverride(t *testing.T) {
	path := writeConfig(t, `
database:
  password: from-file
`)
	t.Setenv("BOOKCROSSING_DATABASE_PASSWORD", "from-env")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Database.Password)
}

func TestValidate(t *testing.T) {
	t.Run("非法cron表达式", func(t *testing.T) {
		path := writeConfig(t, `
alert:
  cron: "every half hour"
`)
		_, err := LoadFile(path)
		assert.Error(t, err)
	})

	t.Run("生产环境默认JWT密钥", func(t *testing.T) {
		path := writeConfig(t, `
server:
  mode: release
jwt:
  secret: your-secret-key-change-in-production
`)
		_, err := LoadFile(path)
		assert.Error(t, err)
	})

	t.Run("非法运行模式", func(t *testing.T) {
		path := writeConfig(t, `
server:
  mode: production
`)
		_, err := LoadFile(path)
		assert.Error(t, err)
	})

	t.Run("启用MQ但未配置地址", func(t *testing.T) {
		path := writeConfig(t, `
mq:
  enabled: true
  url: ""
`)
		_, err := LoadFile(path)
		assert.Error(t, err)
	})

	t.Run("关闭提醒任务时不校验cron", func(t *testing.T) {
		path := writeConfig(t, `
alert:
  enabled: false
  cron: "bad"
`)
		_, err := LoadFile(path)
		assert.NoError(t, err)
	})
}
