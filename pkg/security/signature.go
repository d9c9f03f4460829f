package security

import (
	"github.com/named-data/go-ndn/pkg/types"
)

// ============================================================================
//                              签名接口
// ============================================================================

// Signature 消息签名的抽象
//
// 具体实现对应一种签名方案（RSA、ECDSA）。
type Signature interface {
	types.Changeable

	// KeyLocator 返回签名者密钥的定位信息
	KeyLocator() *KeyLocator

	// SignatureBytes 返回签名值字节
	SignatureBytes() []byte

	// SetSignatureBytes 设置签名值字节（复制）
	SetSignatureBytes(sig []byte)

	// Clone 返回深拷贝
	Clone() Signature
}

// ============================================================================
//                              SHA256withRSA 签名
// ============================================================================

// Sha256WithRsaSignature RSA PKCS#1 v1.5 + SHA-256 签名
//
// publisherPublicKeyDigest 是旧版线格式遗留的可选字段，
// 只为兼容保留，不参与验签。
type Sha256WithRsaSignature struct {
	keyLocator               *KeyLocator
	signature                []byte
	publisherPublicKeyDigest []byte

	changeCount    uint64
	locatorTracker *types.ChangeTracker
}

var _ Signature = (*Sha256WithRsaSignature)(nil)

// NewSha256WithRsaSignature 创建空的 RSA 签名
func NewSha256WithRsaSignature() *Sha256WithRsaSignature {
	s := &Sha256WithRsaSignature{
		keyLocator: NewKeyLocator(),
	}
	s.locatorTracker = types.NewChangeTracker(s.keyLocator)
	return s
}

// KeyLocator 返回密钥定位器
//
// 返回内部指针，调用方的修改会计入变更计数。
func (s *Sha256WithRsaSignature) KeyLocator() *KeyLocator { return s.keyLocator }

// SetKeyLocator 设置密钥定位器（深拷贝）
func (s *Sha256WithRsaSignature) SetKeyLocator(kl *KeyLocator) {
	s.keyLocator = kl.Clone()
	s.locatorTracker.Set(s.keyLocator)
	s.changeCount++
}

// SignatureBytes 返回签名值字节
func (s *Sha256WithRsaSignature) SignatureBytes() []byte { return s.signature }

// SetSignatureBytes 设置签名值字节（复制）
func (s *Sha256WithRsaSignature) SetSignatureBytes(sig []byte) {
	s.signature = append([]byte(nil), sig...)
	s.changeCount++
}

// PublisherPublicKeyDigest 返回发布者公钥摘要（旧版兼容字段）
func (s *Sha256WithRsaSignature) PublisherPublicKeyDigest() []byte {
	return s.publisherPublicKeyDigest
}

// SetPublisherPublicKeyDigest 设置发布者公钥摘要（复制）
func (s *Sha256WithRsaSignature) SetPublisherPublicKeyDigest(digest []byte) {
	s.publisherPublicKeyDigest = append([]byte(nil), digest...)
	s.changeCount++
}

// Clone 返回深拷贝
func (s *Sha256WithRsaSignature) Clone() Signature {
	out := NewSha256WithRsaSignature()
	out.SetKeyLocator(s.keyLocator)
	out.SetSignatureBytes(s.signature)
	out.SetPublisherPublicKeyDigest(s.publisherPublicKeyDigest)
	return out
}

// ChangeCount 返回变更计数，读取时聚合密钥定位器的变更
func (s *Sha256WithRsaSignature) ChangeCount() uint64 {
	if s.locatorTracker.CheckChanged() {
		s.changeCount++
	}
	return s.changeCount
}

// ============================================================================
//                              SHA256withECDSA 签名
// ============================================================================

// Sha256WithEcdsaSignature ECDSA P-256 + SHA-256 签名
type Sha256WithEcdsaSignature struct {
	keyLocator *KeyLocator
	signature  []byte

	changeCount    uint64
	locatorTracker *types.ChangeTracker
}

var _ Signature = (*Sha256WithEcdsaSignature)(nil)

// NewSha256WithEcdsaSignature 创建空的 ECDSA 签名
func NewSha256WithEcdsaSignature() *Sha256WithEcdsaSignature {
	s := &Sha256WithEcdsaSignature{
		keyLocator: NewKeyLocator(),
	}
	s.locatorTracker = types.NewChangeTracker(s.keyLocator)
	return s
}

// KeyLocator 返回密钥定位器
func (s *Sha256WithEcdsaSignature) KeyLocator() *KeyLocator { return s.keyLocator }

// SetKeyLocator 设置密钥定位器（深拷贝）
func (s *Sha256WithEcdsaSignature) SetKeyLocator(kl *KeyLocator) {
	s.keyLocator = kl.Clone()
	s.locatorTracker.Set(s.keyLocator)
	s.changeCount++
}

// SignatureBytes 返回签名值字节
func (s *Sha256WithEcdsaSignature) SignatureBytes() []byte { return s.signature }

// SetSignatureBytes 设置签名值字节（复制）
func (s *Sha256WithEcdsaSignature) SetSignatureBytes(sig []byte) {
	s.signature = append([]byte(nil), sig...)
	s.changeCount++
}

// Clone 返回深拷贝
func (s *Sha256WithEcdsaSignature) Clone() Signature {
	out := NewSha256WithEcdsaSignature()
	out.SetKeyLocator(s.keyLocator)
	out.SetSignatureBytes(s.signature)
	return out
}

// ChangeCount 返回变更计数，读取时聚合密钥定位器的变更
func (s *Sha256WithEcdsaSignature) ChangeCount() uint64 {
	if s.locatorTracker.CheckChanged() {
		s.changeCount++
	}
	return s.changeCount
}

// SignatureKeyType 返回签名方案对应的密钥类型
//
// 未知方案返回 false。
func SignatureKeyType(sig Signature) (types.KeyType, bool) {
	switch sig.(type) {
	case *Sha256WithRsaSignature:
		return types.KeyTypeRSA, true
	case *Sha256WithEcdsaSignature:
		return types.KeyTypeEC, true
	default:
		return 0, false
	}
}

// NewSignatureForKeyType 按密钥类型创建对应方案的空签名
func NewSignatureForKeyType(keyType types.KeyType) (Signature, error) {
	switch keyType {
	case types.KeyTypeRSA:
		return NewSha256WithRsaSignature(), nil
	case types.KeyTypeEC:
		return NewSha256WithEcdsaSignature(), nil
	default:
		return nil, ErrUnsupportedScheme
	}
}
