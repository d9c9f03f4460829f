package config

import (
	"errors"
)

// KeyConfig 密钥配置
//
// 管理默认密钥的生成参数：
//   - 密钥类型（RSA/EC）
//   - RSA 密钥位数
type KeyConfig struct {
	// KeyType 默认密钥类型
	// 可选值: "RSA", "EC"
	KeyType string `json:"key_type"`

	// RSABits RSA 密钥位数
	// 仅当 KeyType="RSA" 时有效
	// 推荐 2048 或 4096
	RSABits int `json:"rsa_bits,omitempty"`
}

// DefaultKeyConfig 返回默认密钥配置
func DefaultKeyConfig() KeyConfig {
	return KeyConfig{
		KeyType: "RSA", // 默认使用 RSA：证书生态的基线方案
		RSABits: 2048,  // RSA 密钥位数下限
	}
}

// Validate 验证密钥配置
func (c KeyConfig) Validate() error {
	switch c.KeyType {
	case "RSA", "EC":
		// 有效类型
	default:
		return errors.New("invalid key type: must be RSA or EC")
	}

	if c.KeyType == "RSA" {
		if c.RSABits < 2048 {
			return errors.New("RSA key bits must be at least 2048")
		}
		if c.RSABits > 8192 {
			return errors.New("RSA key bits must not exceed 8192")
		}
	}

	return nil
}

// WithKeyType 设置密钥类型
func (c KeyConfig) WithKeyType(keyType string) KeyConfig {
	c.KeyType = keyType
	return c
}

// WithRSABits 设置 RSA 密钥位数
func (c KeyConfig) WithRSABits(bits int) KeyConfig {
	c.RSABits = bits
	return c
}
