package crypto

import "errors"

// ============================================================================
//                              错误定义
// ============================================================================

// 密钥相关错误
var (
	// ErrBadKeyType 不支持的密钥类型
	ErrBadKeyType = errors.New("invalid or unsupported key type")

	// ErrNilPrivateKey 私钥为空
	ErrNilPrivateKey = errors.New("nil private key")

	// ErrNilPublicKey 公钥为空
	ErrNilPublicKey = errors.New("nil public key")

	// ErrInvalidKeySize 密钥大小无效
	ErrInvalidKeySize = errors.New("invalid key size")

	// ErrInvalidPublicKey 公钥无效
	ErrInvalidPublicKey = errors.New("invalid public key")

	// ErrInvalidPrivateKey 私钥无效
	ErrInvalidPrivateKey = errors.New("invalid private key")
)

// 加解密相关错误
var (
	// ErrEncryptionFailed 加密失败
	ErrEncryptionFailed = errors.New("encryption failed")

	// ErrDecryptionFailed 解密失败
	ErrDecryptionFailed = errors.New("decryption failed")
)

// 密钥存储相关错误
var (
	// ErrKeyExists 密钥已存在
	ErrKeyExists = errors.New("key already exists")

	// ErrKeyNotFound 密钥不存在
	ErrKeyNotFound = errors.New("key not found")

	// ErrInvalidKeyFile 密钥文件格式非法
	ErrInvalidKeyFile = errors.New("invalid key file")

	// ErrInvalidPassword 密码缺失或不正确
	ErrInvalidPassword = errors.New("invalid password")
)
