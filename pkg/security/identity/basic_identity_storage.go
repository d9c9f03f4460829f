package identity

import (
	"encoding/json"
	"fmt"

	"github.com/benbjohnson/clock"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/named-data/go-ndn/internal/storage"
	"github.com/named-data/go-ndn/pkg/interfaces"
	"github.com/named-data/go-ndn/pkg/lib/log"
	"github.com/named-data/go-ndn/pkg/security"
	"github.com/named-data/go-ndn/pkg/types"
)

var logger = log.Logger("security/identity")

// 键空间前缀，见 internal/storage 的包文档
var (
	prefixIdentity = []byte("i/")
	prefixKey      = []byte("k/")
	prefixCert     = []byte("c/")
	prefixDefault  = []byte("d/")
)

// certCacheSize 解码证书的 LRU 缓存容量
const certCacheSize = 128

// storedKey 持久化的公钥记录
type storedKey struct {
	KeyType types.KeyType `json:"key_type"`
	Der     []byte        `json:"der"`
}

// BasicIdentityStorage 基于 BadgerDB 的持久化身份存储
//
// 证书以线格式字节落盘，读取时解码并经 LRU 缓存。
type BasicIdentityStorage struct {
	identities *storage.Store
	keys       *storage.Store
	certs      *storage.Store
	defaults   *storage.Store

	engine    storage.Engine
	certCache *lru.Cache[string, *security.IdentityCertificate]
	clock     clock.Clock
}

var _ interfaces.IdentityStorage = (*BasicIdentityStorage)(nil)

// NewBasicIdentityStorage 在指定目录打开持久化身份存储
//
// path 为空时使用内存引擎（测试用）。
func NewBasicIdentityStorage(path string) (*BasicIdentityStorage, error) {
	eng, err := storage.OpenBadger(path)
	if err != nil {
		return nil, err
	}
	return newBasicIdentityStorage(eng)
}

func newBasicIdentityStorage(eng storage.Engine) (*BasicIdentityStorage, error) {
	cache, err := lru.New[string, *security.IdentityCertificate](certCacheSize)
	if err != nil {
		return nil, err
	}
	return &BasicIdentityStorage{
		identities: storage.NewStore(eng, prefixIdentity),
		keys:       storage.NewStore(eng, prefixKey),
		certs:      storage.NewStore(eng, prefixCert),
		defaults:   storage.NewStore(eng, prefixDefault),
		engine:     eng,
		certCache:  cache,
		clock:      clock.New(),
	}, nil
}

// SetClock 替换时钟（测试用）
func (s *BasicIdentityStorage) SetClock(c clock.Clock) {
	s.clock = c
}

// DoesIdentityExist 判断身份记录是否存在
func (s *BasicIdentityStorage) DoesIdentityExist(identityName *types.Name) (bool, error) {
	return s.identities.Has([]byte(identityName.String()))
}

// AddIdentity 添加身份记录
func (s *BasicIdentityStorage) AddIdentity(identityName *types.Name) error {
	uri := identityName.String()
	exists, err := s.identities.Has([]byte(uri))
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: identity %q", security.ErrAlreadyExists, uri)
	}
	return s.identities.Put([]byte(uri), nil)
}

// GetNewKeyName 生成该身份下唯一的新密钥名
func (s *BasicIdentityStorage) GetNewKeyName(identityName *types.Name, isKsk bool) (*types.Name, error) {
	prefix := security.DskKeyIDPrefix
	if isKsk {
		prefix = security.KskKeyIDPrefix
	}

	ms := uint64(s.clock.Now().UnixMilli())
	for {
		keyID := fmt.Sprintf("%s%d", prefix, ms)
		keyName := security.KeyNameForIdentity(identityName, types.ComponentFromString(keyID))
		exists, err := s.keys.Has([]byte(keyName.String()))
		if err != nil {
			return nil, err
		}
		if !exists {
			return keyName, nil
		}
		ms++
	}
}

// DoesKeyExist 判断密钥记录是否存在
func (s *BasicIdentityStorage) DoesKeyExist(keyName *types.Name) (bool, error) {
	return s.keys.Has([]byte(keyName.String()))
}

// AddKey 记录公钥
func (s *BasicIdentityStorage) AddKey(keyName *types.Name, keyType types.KeyType, publicKeyDer []byte) error {
	uri := keyName.String()
	exists, err := s.keys.Has([]byte(uri))
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: key %q", security.ErrAlreadyExists, uri)
	}

	value, err := json.Marshal(storedKey{KeyType: keyType, Der: publicKeyDer})
	if err != nil {
		return err
	}
	return s.keys.Put([]byte(uri), value)
}

func (s *BasicIdentityStorage) getStoredKey(keyName *types.Name) (*storedKey, error) {
	value, err := s.keys.Get([]byte(keyName.String()))
	if storage.IsNotFound(err) {
		return nil, fmt.Errorf("%w: key %q", security.ErrNotFound, keyName)
	}
	if err != nil {
		return nil, err
	}

	var rec storedKey
	if err := json.Unmarshal(value, &rec); err != nil {
		return nil, fmt.Errorf("%w: corrupt key record %q", security.ErrMalformedInput, keyName)
	}
	return &rec, nil
}

// GetKey 返回公钥 DER 字节
func (s *BasicIdentityStorage) GetKey(keyName *types.Name) ([]byte, error) {
	rec, err := s.getStoredKey(keyName)
	if err != nil {
		return nil, err
	}
	return rec.Der, nil
}

// GetKeyType 返回密钥类型
func (s *BasicIdentityStorage) GetKeyType(keyName *types.Name) (types.KeyType, error) {
	rec, err := s.getStoredKey(keyName)
	if err != nil {
		return 0, err
	}
	return rec.KeyType, nil
}

// DoesCertificateExist 判断证书记录是否存在
func (s *BasicIdentityStorage) DoesCertificateExist(certificateName *types.Name) (bool, error) {
	return s.certs.Has([]byte(certificateName.String()))
}

// AddCertificate 持久化证书
func (s *BasicIdentityStorage) AddCertificate(certificate *security.IdentityCertificate) error {
	keyName := certificate.PublicKeyName()
	rec, err := s.getStoredKey(keyName)
	if err != nil {
		return err
	}
	if !security.NewPublicKey(rec.KeyType, rec.Der).Equals(certificate.PublicKey()) {
		return fmt.Errorf("%w: certificate public key does not match stored key %q",
			security.ErrMalformedInput, keyName)
	}

	encoding, err := certificate.WireEncode(nil)
	if err != nil {
		return err
	}

	uri := certificate.Name().String()
	if err := s.certs.Put([]byte(uri), encoding.Wire()); err != nil {
		return err
	}
	s.certCache.Add(uri, certificate.Clone())
	logger.Debug("certificate stored", "name", uri)
	return nil
}

// GetCertificate 返回证书
func (s *BasicIdentityStorage) GetCertificate(certificateName *types.Name, allowAny bool) (*security.IdentityCertificate, error) {
	uri := certificateName.String()

	cert, ok := s.certCache.Get(uri)
	if !ok {
		wire, err := s.certs.Get([]byte(uri))
		if storage.IsNotFound(err) {
			return nil, fmt.Errorf("%w: certificate %q", security.ErrNotFound, uri)
		}
		if err != nil {
			return nil, err
		}

		data := security.NewData()
		if err := data.WireDecode(wire, nil); err != nil {
			return nil, err
		}
		cert, err = security.IdentityCertificateFromData(data)
		if err != nil {
			return nil, err
		}
		s.certCache.Add(uri, cert)
	}

	if !allowAny {
		now := types.TimestampFromTime(s.clock.Now())
		if !cert.IsInValidityPeriod(now) {
			return nil, fmt.Errorf("%w: certificate %q outside validity period",
				security.ErrNotFound, uri)
		}
	}
	return cert.Clone(), nil
}

// ============================================================================
//                              默认指针
// ============================================================================

func defaultKeyPointer(identityName *types.Name) []byte {
	return []byte("key/" + identityName.String())
}

func defaultCertPointer(keyName *types.Name) []byte {
	return []byte("cert/" + keyName.String())
}

// GetDefaultIdentity 返回默认身份
func (s *BasicIdentityStorage) GetDefaultIdentity() (*types.Name, error) {
	uri, err := s.defaults.GetString([]byte("identity"))
	if storage.IsNotFound(err) {
		return nil, fmt.Errorf("%w: no default identity", security.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return types.ParseName(uri)
}

// SetDefaultIdentity 设置默认身份
func (s *BasicIdentityStorage) SetDefaultIdentity(identityName *types.Name) error {
	exists, err := s.DoesIdentityExist(identityName)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: identity %q", security.ErrNotFound, identityName)
	}
	return s.defaults.PutString([]byte("identity"), identityName.String())
}

// GetDefaultKeyNameForIdentity 返回身份的默认密钥名
func (s *BasicIdentityStorage) GetDefaultKeyNameForIdentity(identityName *types.Name) (*types.Name, error) {
	uri, err := s.defaults.GetString(defaultKeyPointer(identityName))
	if storage.IsNotFound(err) {
		return nil, fmt.Errorf("%w: no default key for identity %q", security.ErrNotFound, identityName)
	}
	if err != nil {
		return nil, err
	}
	return types.ParseName(uri)
}

// SetDefaultKeyNameForIdentity 设置身份的默认密钥
func (s *BasicIdentityStorage) SetDefaultKeyNameForIdentity(keyName, identityName *types.Name) error {
	owner, err := security.IdentityNameFromKeyName(keyName)
	if err != nil {
		return err
	}
	if !owner.Equal(identityName) {
		return fmt.Errorf("%w: key %q does not belong to identity %q",
			security.ErrInvalidName, keyName, identityName)
	}
	exists, err := s.DoesKeyExist(keyName)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: key %q", security.ErrNotFound, keyName)
	}
	return s.defaults.PutString(defaultKeyPointer(identityName), keyName.String())
}

// GetDefaultCertificateNameForKey 返回密钥的默认证书名
func (s *BasicIdentityStorage) GetDefaultCertificateNameForKey(keyName *types.Name) (*types.Name, error) {
	uri, err := s.defaults.GetString(defaultCertPointer(keyName))
	if storage.IsNotFound(err) {
		return nil, fmt.Errorf("%w: no default certificate for key %q", security.ErrNotFound, keyName)
	}
	if err != nil {
		return nil, err
	}
	return types.ParseName(uri)
}

// SetDefaultCertificateNameForKey 设置密钥的默认证书
func (s *BasicIdentityStorage) SetDefaultCertificateNameForKey(keyName, certificateName *types.Name) error {
	exists, err := s.DoesKeyExist(keyName)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: key %q", security.ErrNotFound, keyName)
	}
	return s.defaults.PutString(defaultCertPointer(keyName), certificateName.String())
}

// ListIdentities 枚举全部身份名（CLI 用）
func (s *BasicIdentityStorage) ListIdentities() ([]*types.Name, error) {
	var names []*types.Name
	err := s.identities.PrefixScan(nil, func(key, _ []byte) bool {
		if name, err := types.ParseName(string(key)); err == nil {
			names = append(names, name)
		}
		return true
	})
	return names, err
}

// ListKeysOfIdentity 枚举身份下的全部密钥名（CLI 用）
func (s *BasicIdentityStorage) ListKeysOfIdentity(identityName *types.Name) ([]*types.Name, error) {
	var names []*types.Name
	err := s.keys.PrefixScan([]byte(identityName.String()+"/"), func(key, _ []byte) bool {
		if name, err := types.ParseName(string(key)); err == nil {
			names = append(names, name)
		}
		return true
	})
	return names, err
}

// Close 关闭底层引擎
func (s *BasicIdentityStorage) Close() error {
	return s.engine.Close()
}
