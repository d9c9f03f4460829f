package crypto

import (
	"crypto/rand"
	"crypto/subtle"
	"io"

	"github.com/named-data/go-ndn/pkg/types"
)

// ============================================================================
//                              密钥接口定义
// ============================================================================

// Key 基础密钥接口
type Key interface {
	// Raw 返回 DER 格式的密钥字节
	Raw() ([]byte, error)

	// Type 返回密钥类型
	Type() types.KeyType

	// Equals 比较两个密钥是否相等
	Equals(Key) bool
}

// PublicKey 公钥接口
type PublicKey interface {
	Key

	// Verify 使用此公钥验证签名
	//
	// 返回签名是否有效；error 仅表示验证过程本身出错。
	Verify(data, sig []byte) (bool, error)
}

// PrivateKey 私钥接口
type PrivateKey interface {
	Key

	// Sign 使用此私钥签名数据
	Sign(data []byte) ([]byte, error)

	// GetPublic 返回对应的公钥
	GetPublic() PublicKey
}

// ============================================================================
//                              密钥工厂函数
// ============================================================================

// GenerateKeyPair 生成非对称密钥对
//
// keySize 仅对 RSA 有效（位数）；EC 固定使用 P-256。
// AES 是对称类型，走 GenerateSymmetricKey。
func GenerateKeyPair(keyType types.KeyType, keySize int) (PrivateKey, PublicKey, error) {
	return GenerateKeyPairWithReader(keyType, keySize, rand.Reader)
}

// GenerateKeyPairWithReader 使用指定的随机源生成密钥对
//
// 随机源参数用于测试时的确定性生成。
func GenerateKeyPairWithReader(keyType types.KeyType, keySize int, reader io.Reader) (PrivateKey, PublicKey, error) {
	switch keyType {
	case types.KeyTypeRSA:
		return GenerateRSAKey(keySize, reader)
	case types.KeyTypeEC:
		return GenerateECKey(reader)
	default:
		return nil, nil, ErrBadKeyType
	}
}

// GenerateSymmetricKey 生成对称密钥的原始字节
//
// keySize 为位数（128/192/256）。
func GenerateSymmetricKey(keySize int) ([]byte, error) {
	switch keySize {
	case 128, 192, 256:
	default:
		return nil, ErrInvalidKeySize
	}
	key := make([]byte, keySize/8)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, err
	}
	return key, nil
}

// ============================================================================
//                              反序列化函数
// ============================================================================

// UnmarshalPublicKey 从 DER 字节反序列化公钥
func UnmarshalPublicKey(keyType types.KeyType, der []byte) (PublicKey, error) {
	switch keyType {
	case types.KeyTypeRSA:
		return UnmarshalRSAPublicKey(der)
	case types.KeyTypeEC:
		return UnmarshalECPublicKey(der)
	default:
		return nil, ErrBadKeyType
	}
}

// UnmarshalPrivateKey 从 DER 字节反序列化私钥
func UnmarshalPrivateKey(keyType types.KeyType, der []byte) (PrivateKey, error) {
	switch keyType {
	case types.KeyTypeRSA:
		return UnmarshalRSAPrivateKey(der)
	case types.KeyTypeEC:
		return UnmarshalECPrivateKey(der)
	default:
		return nil, ErrBadKeyType
	}
}

// ============================================================================
//                              辅助函数
// ============================================================================

// KeyEqual 使用常量时间比较两个密钥是否相等
//
// 防止时序攻击的安全比较。
func KeyEqual(k1, k2 Key) bool {
	if k1.Type() != k2.Type() {
		return false
	}

	b1, err1 := k1.Raw()
	b2, err2 := k2.Raw()
	if err1 != nil || err2 != nil {
		return false
	}

	return subtle.ConstantTimeCompare(b1, b2) == 1
}
