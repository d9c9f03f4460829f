package security

import "errors"

// ============================================================================
//                              错误定义
// ============================================================================

var (
	// ErrNotFound 请求的身份、密钥或证书不存在
	ErrNotFound = errors.New("security: not found")

	// ErrAlreadyExists 身份、密钥或证书已经存在
	ErrAlreadyExists = errors.New("security: already exists")

	// ErrUnsupportedScheme 签名方案不被当前策略支持
	ErrUnsupportedScheme = errors.New("security: unsupported signature scheme")

	// ErrMalformedInput 输入消息结构不完整或无法解析
	ErrMalformedInput = errors.New("security: malformed input")

	// ErrUnsupported 请求的操作变体未实现
	ErrUnsupported = errors.New("security: operation not supported")

	// ErrInvalidName 名字不符合密钥或证书的命名约定
	ErrInvalidName = errors.New("security: invalid name")
)

// IsNotFound 判断错误是否为"不存在"
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists 判断错误是否为"已存在"
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}
