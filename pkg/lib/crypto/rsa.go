package crypto

import (
	"crypto"
	"crypto/rsa"
	"crypto/x509"
	"errors"
	"io"

	sha256 "github.com/minio/sha256-simd"
	"github.com/named-data/go-ndn/pkg/types"
)

// ============================================================================
//                              常量与错误定义
// ============================================================================

// RSAMinKeySize RSA 密钥的最小位数
//
// 小于此值的密钥在当前算力下不再安全。
const RSAMinKeySize = 2048

// RSAMaxKeySize RSA 密钥的最大位数
const RSAMaxKeySize = 8192

// ErrRsaKeyTooSmall RSA 密钥位数低于安全下限
var ErrRsaKeyTooSmall = errors.New("rsa keys must be >= 2048 bits to be useful")

// ErrRsaKeyTooBig RSA 密钥位数超出上限
var ErrRsaKeyTooBig = errors.New("rsa keys must be <= 8192 bits")

// 接口实现检查
var (
	_ PrivateKey = (*RSAPrivateKey)(nil)
	_ PublicKey  = (*RSAPublicKey)(nil)
)

// ============================================================================
//                              类型定义
// ============================================================================

// RSAPrivateKey RSA 私钥
type RSAPrivateKey struct {
	sk rsa.PrivateKey
}

// RSAPublicKey RSA 公钥
type RSAPublicKey struct {
	pk rsa.PublicKey

	cached []byte
}

// ============================================================================
//                              密钥生成与解析
// ============================================================================

// GenerateRSAKey 生成指定位数的 RSA 密钥对
func GenerateRSAKey(bits int, src io.Reader) (PrivateKey, PublicKey, error) {
	if bits < RSAMinKeySize {
		return nil, nil, ErrRsaKeyTooSmall
	}
	if bits > RSAMaxKeySize {
		return nil, nil, ErrRsaKeyTooBig
	}

	sk, err := rsa.GenerateKey(src, bits)
	if err != nil {
		return nil, nil, err
	}

	return &RSAPrivateKey{sk: *sk}, &RSAPublicKey{pk: sk.PublicKey}, nil
}

// UnmarshalRSAPrivateKey 从 DER 字节解析 RSA 私钥
//
// 依次尝试 PKCS#8 和 PKCS#1 两种封装。
func UnmarshalRSAPrivateKey(der []byte) (PrivateKey, error) {
	if parsed, err := x509.ParsePKCS8PrivateKey(der); err == nil {
		sk, ok := parsed.(*rsa.PrivateKey)
		if !ok {
			return nil, ErrInvalidPrivateKey
		}
		return rsaPrivateFromStd(sk)
	}

	sk, err := x509.ParsePKCS1PrivateKey(der)
	if err != nil {
		return nil, ErrInvalidPrivateKey
	}
	return rsaPrivateFromStd(sk)
}

func rsaPrivateFromStd(sk *rsa.PrivateKey) (PrivateKey, error) {
	if sk.N.BitLen() < RSAMinKeySize {
		return nil, ErrRsaKeyTooSmall
	}
	if sk.N.BitLen() > RSAMaxKeySize {
		return nil, ErrRsaKeyTooBig
	}
	return &RSAPrivateKey{sk: *sk}, nil
}

// UnmarshalRSAPublicKey 从 PKIX DER 字节解析 RSA 公钥
func UnmarshalRSAPublicKey(der []byte) (PublicKey, error) {
	parsed, err := x509.ParsePKIXPublicKey(der)
	if err != nil {
		return nil, ErrInvalidPublicKey
	}
	pk, ok := parsed.(*rsa.PublicKey)
	if !ok {
		return nil, ErrInvalidPublicKey
	}
	if pk.N.BitLen() < RSAMinKeySize {
		return nil, ErrRsaKeyTooSmall
	}
	if pk.N.BitLen() > RSAMaxKeySize {
		return nil, ErrRsaKeyTooBig
	}
	return &RSAPublicKey{pk: *pk}, nil
}

// ============================================================================
//                              私钥方法
// ============================================================================

// Sign 对数据做 SHA-256 摘要后使用 PKCS#1 v1.5 签名
func (sk *RSAPrivateKey) Sign(message []byte) ([]byte, error) {
	hashed := sha256.Sum256(message)
	return rsa.SignPKCS1v15(nil, &sk.sk, crypto.SHA256, hashed[:])
}

// GetPublic 返回对应的公钥
func (sk *RSAPrivateKey) GetPublic() PublicKey {
	return &RSAPublicKey{pk: sk.sk.PublicKey}
}

// Raw 返回 PKCS#1 DER 格式的私钥字节
func (sk *RSAPrivateKey) Raw() ([]byte, error) {
	return x509.MarshalPKCS1PrivateKey(&sk.sk), nil
}

// Type 返回密钥类型
func (sk *RSAPrivateKey) Type() types.KeyType {
	return types.KeyTypeRSA
}

// Equals 比较两个私钥是否相等
func (sk *RSAPrivateKey) Equals(other Key) bool {
	osk, ok := other.(*RSAPrivateKey)
	if !ok {
		return KeyEqual(sk, other)
	}
	return sk.sk.N.Cmp(osk.sk.N) == 0 && sk.sk.E == osk.sk.E && sk.sk.D.Cmp(osk.sk.D) == 0
}

// ============================================================================
//                              公钥方法
// ============================================================================

// Verify 验证 PKCS#1 v1.5 SHA-256 签名
func (pk *RSAPublicKey) Verify(data, sig []byte) (bool, error) {
	hashed := sha256.Sum256(data)
	err := rsa.VerifyPKCS1v15(&pk.pk, crypto.SHA256, hashed[:], sig)
	return err == nil, nil
}

// Raw 返回 PKIX DER 格式的公钥字节
func (pk *RSAPublicKey) Raw() ([]byte, error) {
	if pk.cached == nil {
		der, err := x509.MarshalPKIXPublicKey(&pk.pk)
		if err != nil {
			return nil, err
		}
		pk.cached = der
	}
	return pk.cached, nil
}

// Type 返回密钥类型
func (pk *RSAPublicKey) Type() types.KeyType {
	return types.KeyTypeRSA
}

// Equals 比较两个公钥是否相等
func (pk *RSAPublicKey) Equals(other Key) bool {
	opk, ok := other.(*RSAPublicKey)
	if !ok {
		return KeyEqual(pk, other)
	}
	return pk.pk.N.Cmp(opk.pk.N) == 0 && pk.pk.E == opk.pk.E
}
