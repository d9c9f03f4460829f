// Package interfaces 定义 go-ndn 公共接口
//
// 本文件定义身份存储与私钥存储接口，对应 pkg/security/identity/ 实现。
package interfaces

import (
	"github.com/named-data/go-ndn/pkg/security"
	"github.com/named-data/go-ndn/pkg/types"
)

// ════════════════════════════════════════════════════════════════════════════
// IdentityStorage 接口
// ════════════════════════════════════════════════════════════════════════════

// IdentityStorage 身份、公钥与证书的记录存储
//
// 身份管理器通过它维护三级默认指针（默认身份、身份的默认密钥、
// 密钥的默认证书）。key-id 的唯一性由本接口的 GetNewKeyName 保证。
//
// 实现位置：pkg/security/identity/（内存版与 Badger 持久化版）
type IdentityStorage interface {
	// DoesIdentityExist 判断身份记录是否存在
	DoesIdentityExist(identityName *types.Name) (bool, error)

	// AddIdentity 添加身份记录，已存在时返回 ErrAlreadyExists
	AddIdentity(identityName *types.Name) error

	// GetNewKeyName 生成该身份下唯一的新密钥名
	//
	// isKsk 决定 key-id 前缀（ksk- 或 dsk-）。唯一性由存储保证。
	GetNewKeyName(identityName *types.Name, isKsk bool) (*types.Name, error)

	// DoesKeyExist 判断密钥记录是否存在
	DoesKeyExist(keyName *types.Name) (bool, error)

	// AddKey 记录公钥，密钥已存在时返回 ErrAlreadyExists
	AddKey(keyName *types.Name, keyType types.KeyType, publicKeyDer []byte) error

	// GetKey 返回公钥 DER 字节，缺失时返回 ErrNotFound
	GetKey(keyName *types.Name) ([]byte, error)

	// GetKeyType 返回密钥类型，缺失时返回 ErrNotFound
	GetKeyType(keyName *types.Name) (types.KeyType, error)

	// DoesCertificateExist 判断证书记录是否存在
	DoesCertificateExist(certificateName *types.Name) (bool, error)

	// AddCertificate 持久化证书
	//
	// 要求对应的密钥记录已存在且公钥一致。
	AddCertificate(certificate *security.IdentityCertificate) error

	// GetCertificate 返回证书，缺失时返回 ErrNotFound
	//
	// allowAny 为 false 时只返回当前处于有效期内的证书。
	GetCertificate(certificateName *types.Name, allowAny bool) (*security.IdentityCertificate, error)

	// GetDefaultIdentity 返回默认身份，未设置时返回 ErrNotFound
	GetDefaultIdentity() (*types.Name, error)

	// SetDefaultIdentity 设置默认身份，身份不存在时返回 ErrNotFound
	SetDefaultIdentity(identityName *types.Name) error

	// GetDefaultKeyNameForIdentity 返回身份的默认密钥名
	GetDefaultKeyNameForIdentity(identityName *types.Name) (*types.Name, error)

	// SetDefaultKeyNameForIdentity 设置身份的默认密钥
	//
	// 密钥必须属于该身份且记录存在。
	SetDefaultKeyNameForIdentity(keyName, identityName *types.Name) error

	// GetDefaultCertificateNameForKey 返回密钥的默认证书名
	GetDefaultCertificateNameForKey(keyName *types.Name) (*types.Name, error)

	// SetDefaultCertificateNameForKey 设置密钥的默认证书
	//
	// 密钥记录必须存在。
	SetDefaultCertificateNameForKey(keyName, certificateName *types.Name) error

	// Close 释放底层资源
	Close() error
}

// ════════════════════════════════════════════════════════════════════════════
// PrivateKeyStorage 接口
// ════════════════════════════════════════════════════════════════════════════

// PrivateKeyStorage 私钥与对称密钥的保管者
//
// 私钥从不离开本接口的实现：签名与解密在实现内部完成。
//
// 实现位置：pkg/security/identity/（内存版与加密文件版）
type PrivateKeyStorage interface {
	// GenerateKeyPair 在指定名字下生成非对称密钥对
	GenerateKeyPair(keyName *types.Name, keyType types.KeyType, keySize int) error

	// GetPublicKey 返回密钥对的公钥
	GetPublicKey(keyName *types.Name) (*security.PublicKey, error)

	// Sign 用指定私钥对数据签名
	Sign(data []byte, keyName *types.Name, digestAlgorithm types.DigestAlgorithm) ([]byte, error)

	// GenerateKey 在指定名字下生成对称密钥
	GenerateKey(keyName *types.Name, keyType types.KeyType, keySize int) error

	// Encrypt 用指定对称密钥加密数据
	Encrypt(keyName *types.Name, plaintext []byte) ([]byte, error)

	// Decrypt 用指定对称密钥解密数据
	Decrypt(keyName *types.Name, ciphertext []byte) ([]byte, error)

	// DoesKeyExist 判断指定类别的密钥是否存在
	DoesKeyExist(keyName *types.Name, keyClass types.KeyClass) (bool, error)
}
