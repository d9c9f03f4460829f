package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewConfig 测试创建默认配置
func TestNewConfig(t *testing.T) {
	cfg := NewConfig()
	require.NotNil(t, cfg)

	// 验证默认配置有效
	err := cfg.Validate()
	assert.NoError(t, err)

	t.Log("✅ NewConfig 测试通过")
}

// TestKeyConfig 测试密钥配置
func TestKeyConfig(t *testing.T) {
	t.Run("Default", func(t *testing.T) {
		cfg := DefaultKeyConfig()
		assert.Equal(t, "RSA", cfg.KeyType)
		assert.Equal(t, 2048, cfg.RSABits)
	})

	t.Run("Validate_InvalidKeyType", func(t *testing.T) {
		cfg := DefaultKeyConfig()
		cfg.KeyType = "DSA"
		assert.Error(t, cfg.Validate())
	})

	t.Run("Validate_BitsTooSmall", func(t *testing.T) {
		cfg := DefaultKeyConfig().WithRSABits(1024)
		assert.Error(t, cfg.Validate())
	})

	t.Run("Validate_EC", func(t *testing.T) {
		cfg := DefaultKeyConfig().WithKeyType("EC").WithRSABits(0)
		assert.NoError(t, cfg.Validate())
	})

	t.Log("✅ KeyConfig 测试通过")
}

// TestStorageConfig 测试存储配置
func TestStorageConfig(t *testing.T) {
	t.Run("Default", func(t *testing.T) {
		cfg := DefaultStorageConfig()
		assert.Empty(t, cfg.IdentityPath)
		assert.NoError(t, cfg.Validate())
	})

	t.Run("Validate_PasswordWithoutPath", func(t *testing.T) {
		cfg := DefaultStorageConfig().WithPassword("secret")
		assert.Error(t, cfg.Validate())
	})

	t.Run("Validate_PasswordWithPath", func(t *testing.T) {
		cfg := DefaultStorageConfig().
			WithPrivateKeyPath("/var/lib/ndn/keys").
			WithPassword("secret")
		assert.NoError(t, cfg.Validate())
	})

	t.Log("✅ StorageConfig 测试通过")
}

// TestPolicyConfig 测试策略配置
func TestPolicyConfig(t *testing.T) {
	t.Run("Default", func(t *testing.T) {
		cfg := DefaultPolicyConfig()
		assert.Equal(t, "self-verify", cfg.Mode)
		assert.Equal(t, 8, cfg.MaxVerifySteps)
	})

	t.Run("Validate_InvalidMode", func(t *testing.T) {
		cfg := DefaultPolicyConfig().WithMode("trust-everything")
		assert.Error(t, cfg.Validate())
	})

	t.Run("Validate_ZeroSteps", func(t *testing.T) {
		cfg := DefaultPolicyConfig().WithMaxVerifySteps(0)
		assert.Error(t, cfg.Validate())
	})

	t.Log("✅ PolicyConfig 测试通过")
}

// TestFromJSON 测试 JSON 加载
func TestFromJSON(t *testing.T) {
	data := []byte(`{
		"key": {"key_type": "EC"},
		"policy": {"mode": "no-verify", "max_verify_steps": 3}
	}`)

	cfg, err := FromJSON(data)
	require.NoError(t, err)
	assert.Equal(t, "EC", cfg.Key.KeyType)
	assert.Equal(t, "no-verify", cfg.Policy.Mode)
	assert.Equal(t, 3, cfg.Policy.MaxVerifySteps)
	// 未出现的字段保持默认值
	assert.Empty(t, cfg.Storage.IdentityPath)

	t.Run("InvalidJSON", func(t *testing.T) {
		_, err := FromJSON([]byte("{not json"))
		assert.Error(t, err)
	})

	t.Log("✅ FromJSON 测试通过")
}

// TestConfig_FileRoundTrip 测试配置文件保存与加载
func TestConfig_FileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg := NewConfig()
	cfg.Key = cfg.Key.WithKeyType("EC")
	cfg.Policy = cfg.Policy.WithMaxVerifySteps(5)
	require.NoError(t, cfg.SaveFile(path))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Key.KeyType, loaded.Key.KeyType)
	assert.Equal(t, cfg.Policy.MaxVerifySteps, loaded.Policy.MaxVerifySteps)

	t.Log("✅ 配置文件往返测试通过")
}
