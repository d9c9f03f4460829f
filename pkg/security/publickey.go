package security

import (
	"crypto/ecdsa"
	"crypto/rsa"
	"crypto/x509"
	"fmt"

	"github.com/named-data/go-ndn/pkg/lib/crypto"
	"github.com/named-data/go-ndn/pkg/types"
)

// PublicKey 公钥的值类型表示
//
// 持有类型标记与 DER 字节，不解析密钥内容；
// 需要做密码学运算时再交给 crypto 包解析。
type PublicKey struct {
	keyType types.KeyType
	keyDer  []byte

	digest []byte
}

// NewPublicKey 从类型与 DER 字节构造公钥（复制字节）
func NewPublicKey(keyType types.KeyType, keyDer []byte) *PublicKey {
	return &PublicKey{
		keyType: keyType,
		keyDer:  append([]byte(nil), keyDer...),
	}
}

// PublicKeyFromDer 从 PKIX DER 字节构造公钥，类型由 DER 内容判定
func PublicKeyFromDer(keyDer []byte) (*PublicKey, error) {
	keyType, err := publicKeyTypeFromDer(keyDer)
	if err != nil {
		return nil, err
	}
	return NewPublicKey(keyType, keyDer), nil
}

func publicKeyTypeFromDer(keyDer []byte) (types.KeyType, error) {
	parsed, err := x509.ParsePKIXPublicKey(keyDer)
	if err != nil {
		return 0, fmt.Errorf("%w: undecodable public key DER", ErrMalformedInput)
	}
	switch parsed.(type) {
	case *rsa.PublicKey:
		return types.KeyTypeRSA, nil
	case *ecdsa.PublicKey:
		return types.KeyTypeEC, nil
	default:
		return 0, fmt.Errorf("%w: unrecognized public key algorithm", ErrMalformedInput)
	}
}

// KeyType 返回密钥类型
func (pk *PublicKey) KeyType() types.KeyType { return pk.keyType }

// KeyDer 返回 DER 字节
func (pk *PublicKey) KeyDer() []byte { return pk.keyDer }

// Digest 返回 DER 字节的 SHA-256 摘要
//
// 摘要按需计算并缓存。
func (pk *PublicKey) Digest() []byte {
	if pk.digest == nil {
		pk.digest = crypto.Sha256(pk.keyDer)
	}
	return pk.digest
}

// Parse 解析出可用于验签的公钥对象
func (pk *PublicKey) Parse() (crypto.PublicKey, error) {
	return crypto.UnmarshalPublicKey(pk.keyType, pk.keyDer)
}

// Equals 比较两个公钥是否相等
func (pk *PublicKey) Equals(other *PublicKey) bool {
	if other == nil {
		return false
	}
	if pk.keyType != other.keyType {
		return false
	}
	if len(pk.keyDer) != len(other.keyDer) {
		return false
	}
	for i := range pk.keyDer {
		if pk.keyDer[i] != other.keyDer[i] {
			return false
		}
	}
	return true
}
