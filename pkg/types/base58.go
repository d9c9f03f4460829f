package types

import "github.com/mr-tron/base58"

// ============================================================================
//                              Base58 编码
// ============================================================================

// Base58Encode 将字节切片编码为 Base58 字符串
//
// 用于密钥摘要等标识的用户可读表示（Bitcoin 风格字母表，
// 避免易混淆字符 0OIl）。
func Base58Encode(input []byte) string {
	return base58.Encode(input)
}

// Base58Decode 将 Base58 字符串解码为字节切片
func Base58Decode(input string) ([]byte, error) {
	return base58.Decode(input)
}
