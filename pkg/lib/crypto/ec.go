package crypto

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/x509"
	"io"

	sha256 "github.com/minio/sha256-simd"
	"github.com/named-data/go-ndn/pkg/types"
)

// 接口实现检查
var (
	_ PrivateKey = (*ECPrivateKey)(nil)
	_ PublicKey  = (*ECPublicKey)(nil)
)

// ============================================================================
//                              类型定义
// ============================================================================

// ECPrivateKey ECDSA P-256 私钥
type ECPrivateKey struct {
	sk *ecdsa.PrivateKey
}

// ECPublicKey ECDSA P-256 公钥
type ECPublicKey struct {
	pk *ecdsa.PublicKey

	cached []byte
}

// ============================================================================
//                              密钥生成与解析
// ============================================================================

// GenerateECKey 生成 P-256 曲线上的 ECDSA 密钥对
func GenerateECKey(src io.Reader) (PrivateKey, PublicKey, error) {
	sk, err := ecdsa.GenerateKey(elliptic.P256(), src)
	if err != nil {
		return nil, nil, err
	}
	return &ECPrivateKey{sk: sk}, &ECPublicKey{pk: &sk.PublicKey}, nil
}

// UnmarshalECPrivateKey 从 DER 字节解析 ECDSA 私钥
//
// 依次尝试 PKCS#8 和 SEC1 两种封装。
func UnmarshalECPrivateKey(der []byte) (PrivateKey, error) {
	if parsed, err := x509.ParsePKCS8PrivateKey(der); err == nil {
		sk, ok := parsed.(*ecdsa.PrivateKey)
		if !ok {
			return nil, ErrInvalidPrivateKey
		}
		return &ECPrivateKey{sk: sk}, nil
	}

	sk, err := x509.ParseECPrivateKey(der)
	if err != nil {
		return nil, ErrInvalidPrivateKey
	}
	return &ECPrivateKey{sk: sk}, nil
}

// UnmarshalECPublicKey 从 PKIX DER 字节解析 ECDSA 公钥
func UnmarshalECPublicKey(der []byte) (PublicKey, error) {
	parsed, err := x509.ParsePKIXPublicKey(der)
	if err != nil {
		return nil, ErrInvalidPublicKey
	}
	pk, ok := parsed.(*ecdsa.PublicKey)
	if !ok {
		return nil, ErrInvalidPublicKey
	}
	return &ECPublicKey{pk: pk}, nil
}

// ============================================================================
//                              私钥方法
// ============================================================================

// Sign 对数据做 SHA-256 摘要后生成 ASN.1 DER 编码的 ECDSA 签名
func (sk *ECPrivateKey) Sign(message []byte) ([]byte, error) {
	hashed := sha256.Sum256(message)
	return ecdsa.SignASN1(randReader(), sk.sk, hashed[:])
}

// GetPublic 返回对应的公钥
func (sk *ECPrivateKey) GetPublic() PublicKey {
	return &ECPublicKey{pk: &sk.sk.PublicKey}
}

// Raw 返回 SEC1 DER 格式的私钥字节
func (sk *ECPrivateKey) Raw() ([]byte, error) {
	return x509.MarshalECPrivateKey(sk.sk)
}

// Type 返回密钥类型
func (sk *ECPrivateKey) Type() types.KeyType {
	return types.KeyTypeEC
}

// Equals 比较两个私钥是否相等
func (sk *ECPrivateKey) Equals(other Key) bool {
	osk, ok := other.(*ECPrivateKey)
	if !ok {
		return KeyEqual(sk, other)
	}
	return sk.sk.Equal(osk.sk)
}

// ============================================================================
//                              公钥方法
// ============================================================================

// Verify 验证 ASN.1 DER 编码的 ECDSA SHA-256 签名
func (pk *ECPublicKey) Verify(data, sig []byte) (bool, error) {
	hashed := sha256.Sum256(data)
	return ecdsa.VerifyASN1(pk.pk, hashed[:], sig), nil
}

// Raw 返回 PKIX DER 格式的公钥字节
func (pk *ECPublicKey) Raw() ([]byte, error) {
	if pk.cached == nil {
		der, err := x509.MarshalPKIXPublicKey(pk.pk)
		if err != nil {
			return nil, err
		}
		pk.cached = der
	}
	return pk.cached, nil
}

// Type 返回密钥类型
func (pk *ECPublicKey) Type() types.KeyType {
	return types.KeyTypeEC
}

// Equals 比较两个公钥是否相等
func (pk *ECPublicKey) Equals(other Key) bool {
	opk, ok := other.(*ECPublicKey)
	if !ok {
		return KeyEqual(pk, other)
	}
	return pk.pk.Equal(opk.pk)
}
