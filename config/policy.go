package config

import (
	"errors"
)

// PolicyConfig 验证策略配置
type PolicyConfig struct {
	// Mode 验证策略
	// 可选值: "self-verify"（单步本地验签）, "no-verify"（无条件信任）
	Mode string `json:"mode"`

	// MaxVerifySteps 验证递归深度上限
	//
	// 策略返回续接请求时，驱动循环最多重入这么多次；
	// 超限判为验证失败而不是错误。
	MaxVerifySteps int `json:"max_verify_steps"`
}

// DefaultPolicyConfig 返回默认策略配置
func DefaultPolicyConfig() PolicyConfig {
	return PolicyConfig{
		Mode:           "self-verify",
		MaxVerifySteps: 8, // 足以覆盖常见的证书链深度
	}
}

// Validate 验证策略配置
func (c PolicyConfig) Validate() error {
	switch c.Mode {
	case "self-verify", "no-verify":
		// 有效模式
	default:
		return errors.New("invalid policy mode: must be self-verify or no-verify")
	}
	if c.MaxVerifySteps < 1 {
		return errors.New("max verify steps must be at least 1")
	}
	return nil
}

// WithMode 设置验证策略
func (c PolicyConfig) WithMode(mode string) PolicyConfig {
	c.Mode = mode
	return c
}

// WithMaxVerifySteps 设置验证递归深度上限
func (c PolicyConfig) WithMaxVerifySteps(steps int) PolicyConfig {
	c.MaxVerifySteps = steps
	return c
}
