package config

import (
	"errors"
	"path/filepath"
)

// StorageConfig 存储配置
//
// 管理身份记录与私钥的落盘位置：
//   - IdentityPath: 身份/公钥/证书数据库目录
//   - PrivateKeyPath: 私钥文件目录
//   - Password: 私钥文件加密口令
type StorageConfig struct {
	// IdentityPath 身份数据库目录
	// 如果为空，使用内存存储（进程退出即丢失）
	IdentityPath string `json:"identity_path"`

	// PrivateKeyPath 私钥文件目录
	// 如果为空，私钥只保存在内存中
	PrivateKeyPath string `json:"private_key_path"`

	// Password 私钥文件加密口令
	// 为空时私钥明文落盘
	Password string `json:"password,omitempty"`
}

// DefaultStorageConfig 返回默认存储配置
func DefaultStorageConfig() StorageConfig {
	return StorageConfig{
		IdentityPath:   "", // 默认空：内存存储，生产环境应设置持久化路径
		PrivateKeyPath: "",
		Password:       "",
	}
}

// Validate 验证存储配置
func (c StorageConfig) Validate() error {
	// 口令只对落盘的私钥有意义
	if c.Password != "" && c.PrivateKeyPath == "" {
		return errors.New("password set but private key path is empty")
	}
	if c.IdentityPath != "" && !filepath.IsAbs(c.IdentityPath) && c.IdentityPath[0] == '~' {
		return errors.New("identity path must not start with ~ (expand it first)")
	}
	return nil
}

// WithIdentityPath 设置身份数据库目录
func (c StorageConfig) WithIdentityPath(path string) StorageConfig {
	c.IdentityPath = path
	return c
}

// WithPrivateKeyPath 设置私钥文件目录
func (c StorageConfig) WithPrivateKeyPath(path string) StorageConfig {
	c.PrivateKeyPath = path
	return c
}

// WithPassword 设置私钥加密口令
func (c StorageConfig) WithPassword(password string) StorageConfig {
	c.Password = password
	return c
}
