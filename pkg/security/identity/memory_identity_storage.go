package identity

import (
	"fmt"

	"github.com/benbjohnson/clock"
	"github.com/named-data/go-ndn/pkg/interfaces"
	"github.com/named-data/go-ndn/pkg/security"
	"github.com/named-data/go-ndn/pkg/types"
)

// keyRecord 内存中的公钥记录
type keyRecord struct {
	keyType types.KeyType
	der     []byte
}

// MemoryIdentityStorage 进程内的身份存储
//
// 不做持久化，供测试与短生命周期工具使用。
// 非线程安全，与管理器约定一致：并发访问需外部同步。
type MemoryIdentityStorage struct {
	identities map[string]bool
	keys       map[string]keyRecord
	certs      map[string]*security.IdentityCertificate

	defaultIdentity string
	defaultKeys     map[string]string // 身份 URI -> 密钥名 URI
	defaultCerts    map[string]string // 密钥名 URI -> 证书名 URI

	clock clock.Clock
}

var _ interfaces.IdentityStorage = (*MemoryIdentityStorage)(nil)

// NewMemoryIdentityStorage 创建内存身份存储
func NewMemoryIdentityStorage() *MemoryIdentityStorage {
	return &MemoryIdentityStorage{
		identities:   make(map[string]bool),
		keys:         make(map[string]keyRecord),
		certs:        make(map[string]*security.IdentityCertificate),
		defaultKeys:  make(map[string]string),
		defaultCerts: make(map[string]string),
		clock:        clock.New(),
	}
}

// SetClock 替换时钟（测试用）
func (s *MemoryIdentityStorage) SetClock(c clock.Clock) {
	s.clock = c
}

// DoesIdentityExist 判断身份记录是否存在
func (s *MemoryIdentityStorage) DoesIdentityExist(identityName *types.Name) (bool, error) {
	return s.identities[identityName.String()], nil
}

// AddIdentity 添加身份记录
func (s *MemoryIdentityStorage) AddIdentity(identityName *types.Name) error {
	uri := identityName.String()
	if s.identities[uri] {
		return fmt.Errorf("%w: identity %q", security.ErrAlreadyExists, uri)
	}
	s.identities[uri] = true
	return nil
}

// GetNewKeyName 生成该身份下唯一的新密钥名
//
// key-id 取当前毫秒时间戳；同一毫秒内的冲突通过递增解决。
func (s *MemoryIdentityStorage) GetNewKeyName(identityName *types.Name, isKsk bool) (*types.Name, error) {
	prefix := security.DskKeyIDPrefix
	if isKsk {
		prefix = security.KskKeyIDPrefix
	}

	ms := uint64(s.clock.Now().UnixMilli())
	for {
		keyID := fmt.Sprintf("%s%d", prefix, ms)
		keyName := security.KeyNameForIdentity(identityName, types.ComponentFromString(keyID))
		if _, ok := s.keys[keyName.String()]; !ok {
			return keyName, nil
		}
		ms++
	}
}

// DoesKeyExist 判断密钥记录是否存在
func (s *MemoryIdentityStorage) DoesKeyExist(keyName *types.Name) (bool, error) {
	_, ok := s.keys[keyName.String()]
	return ok, nil
}

// AddKey 记录公钥
func (s *MemoryIdentityStorage) AddKey(keyName *types.Name, keyType types.KeyType, publicKeyDer []byte) error {
	uri := keyName.String()
	if _, ok := s.keys[uri]; ok {
		return fmt.Errorf("%w: key %q", security.ErrAlreadyExists, uri)
	}
	s.keys[uri] = keyRecord{keyType: keyType, der: append([]byte(nil), publicKeyDer...)}
	return nil
}

// GetKey 返回公钥 DER 字节
func (s *MemoryIdentityStorage) GetKey(keyName *types.Name) ([]byte, error) {
	rec, ok := s.keys[keyName.String()]
	if !ok {
		return nil, fmt.Errorf("%w: key %q", security.ErrNotFound, keyName)
	}
	return rec.der, nil
}

// GetKeyType 返回密钥类型
func (s *MemoryIdentityStorage) GetKeyType(keyName *types.Name) (types.KeyType, error) {
	rec, ok := s.keys[keyName.String()]
	if !ok {
		return 0, fmt.Errorf("%w: key %q", security.ErrNotFound, keyName)
	}
	return rec.keyType, nil
}

// DoesCertificateExist 判断证书记录是否存在
func (s *MemoryIdentityStorage) DoesCertificateExist(certificateName *types.Name) (bool, error) {
	_, ok := s.certs[certificateName.String()]
	return ok, nil
}

// AddCertificate 持久化证书
//
// 要求对应的密钥记录已存在且公钥一致。
func (s *MemoryIdentityStorage) AddCertificate(certificate *security.IdentityCertificate) error {
	keyName := certificate.PublicKeyName()
	rec, ok := s.keys[keyName.String()]
	if !ok {
		return fmt.Errorf("%w: key %q for certificate", security.ErrNotFound, keyName)
	}
	if !security.NewPublicKey(rec.keyType, rec.der).Equals(certificate.PublicKey()) {
		return fmt.Errorf("%w: certificate public key does not match stored key %q",
			security.ErrMalformedInput, keyName)
	}

	s.certs[certificate.Name().String()] = certificate.Clone()
	return nil
}

// GetCertificate 返回证书
func (s *MemoryIdentityStorage) GetCertificate(certificateName *types.Name, allowAny bool) (*security.IdentityCertificate, error) {
	cert, ok := s.certs[certificateName.String()]
	if !ok {
		return nil, fmt.Errorf("%w: certificate %q", security.ErrNotFound, certificateName)
	}
	if !allowAny {
		now := types.TimestampFromTime(s.clock.Now())
		if !cert.IsInValidityPeriod(now) {
			return nil, fmt.Errorf("%w: certificate %q outside validity period",
				security.ErrNotFound, certificateName)
		}
	}
	return cert.Clone(), nil
}

// GetDefaultIdentity 返回默认身份
func (s *MemoryIdentityStorage) GetDefaultIdentity() (*types.Name, error) {
	if s.defaultIdentity == "" {
		return nil, fmt.Errorf("%w: no default identity", security.ErrNotFound)
	}
	return types.ParseName(s.defaultIdentity)
}

// SetDefaultIdentity 设置默认身份
func (s *MemoryIdentityStorage) SetDefaultIdentity(identityName *types.Name) error {
	uri := identityName.String()
	if !s.identities[uri] {
		return fmt.Errorf("%w: identity %q", security.ErrNotFound, uri)
	}
	s.defaultIdentity = uri
	return nil
}

// GetDefaultKeyNameForIdentity 返回身份的默认密钥名
func (s *MemoryIdentityStorage) GetDefaultKeyNameForIdentity(identityName *types.Name) (*types.Name, error) {
	uri, ok := s.defaultKeys[identityName.String()]
	if !ok {
		return nil, fmt.Errorf("%w: no default key for identity %q", security.ErrNotFound, identityName)
	}
	return types.ParseName(uri)
}

// SetDefaultKeyNameForIdentity 设置身份的默认密钥
func (s *MemoryIdentityStorage) SetDefaultKeyNameForIdentity(keyName, identityName *types.Name) error {
	owner, err := security.IdentityNameFromKeyName(keyName)
	if err != nil {
		return err
	}
	if !owner.Equal(identityName) {
		return fmt.Errorf("%w: key %q does not belong to identity %q",
			security.ErrInvalidName, keyName, identityName)
	}
	if _, ok := s.keys[keyName.String()]; !ok {
		return fmt.Errorf("%w: key %q", security.ErrNotFound, keyName)
	}
	s.defaultKeys[identityName.String()] = keyName.String()
	return nil
}

// GetDefaultCertificateNameForKey 返回密钥的默认证书名
func (s *MemoryIdentityStorage) GetDefaultCertificateNameForKey(keyName *types.Name) (*types.Name, error) {
	uri, ok := s.defaultCerts[keyName.String()]
	if !ok {
		return nil, fmt.Errorf("%w: no default certificate for key %q", security.ErrNotFound, keyName)
	}
	return types.ParseName(uri)
}

// SetDefaultCertificateNameForKey 设置密钥的默认证书
func (s *MemoryIdentityStorage) SetDefaultCertificateNameForKey(keyName, certificateName *types.Name) error {
	if _, ok := s.keys[keyName.String()]; !ok {
		return fmt.Errorf("%w: key %q", security.ErrNotFound, keyName)
	}
	s.defaultCerts[keyName.String()] = certificateName.String()
	return nil
}

// Close 释放资源（内存实现为空操作）
func (s *MemoryIdentityStorage) Close() error {
	return nil
}
