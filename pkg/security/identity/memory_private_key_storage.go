package identity

import (
	"fmt"

	"github.com/named-data/go-ndn/pkg/interfaces"
	"github.com/named-data/go-ndn/pkg/lib/crypto"
	"github.com/named-data/go-ndn/pkg/security"
	"github.com/named-data/go-ndn/pkg/types"
)

// MemoryPrivateKeyStorage 进程内的私钥保管者
//
// 私钥只存在于进程内存，进程退出即丢失。测试用。
type MemoryPrivateKeyStorage struct {
	privateKeys   map[string]crypto.PrivateKey
	publicKeys    map[string]*security.PublicKey
	symmetricKeys map[string][]byte
}

var _ interfaces.PrivateKeyStorage = (*MemoryPrivateKeyStorage)(nil)

// NewMemoryPrivateKeyStorage 创建内存私钥存储
func NewMemoryPrivateKeyStorage() *MemoryPrivateKeyStorage {
	return &MemoryPrivateKeyStorage{
		privateKeys:   make(map[string]crypto.PrivateKey),
		publicKeys:    make(map[string]*security.PublicKey),
		symmetricKeys: make(map[string][]byte),
	}
}

// GenerateKeyPair 在指定名字下生成非对称密钥对
func (s *MemoryPrivateKeyStorage) GenerateKeyPair(keyName *types.Name, keyType types.KeyType, keySize int) error {
	uri := keyName.String()
	if _, ok := s.privateKeys[uri]; ok {
		return fmt.Errorf("%w: key %q", security.ErrAlreadyExists, uri)
	}

	priv, pub, err := crypto.GenerateKeyPair(keyType, keySize)
	if err != nil {
		return err
	}
	der, err := pub.Raw()
	if err != nil {
		return err
	}

	s.privateKeys[uri] = priv
	s.publicKeys[uri] = security.NewPublicKey(keyType, der)
	return nil
}

// GetPublicKey 返回密钥对的公钥
func (s *MemoryPrivateKeyStorage) GetPublicKey(keyName *types.Name) (*security.PublicKey, error) {
	pub, ok := s.publicKeys[keyName.String()]
	if !ok {
		return nil, fmt.Errorf("%w: public key %q", security.ErrNotFound, keyName)
	}
	return pub, nil
}

// Sign 用指定私钥对数据签名
func (s *MemoryPrivateKeyStorage) Sign(data []byte, keyName *types.Name, digestAlgorithm types.DigestAlgorithm) ([]byte, error) {
	if digestAlgorithm != types.DigestAlgorithmSHA256 {
		return nil, fmt.Errorf("%w: digest algorithm %v", security.ErrUnsupportedScheme, digestAlgorithm)
	}

	priv, ok := s.privateKeys[keyName.String()]
	if !ok {
		return nil, fmt.Errorf("%w: private key %q", security.ErrNotFound, keyName)
	}
	return priv.Sign(data)
}

// GenerateKey 在指定名字下生成对称密钥
func (s *MemoryPrivateKeyStorage) GenerateKey(keyName *types.Name, keyType types.KeyType, keySize int) error {
	if keyType != types.KeyTypeAES {
		return fmt.Errorf("%w: symmetric key type %v", security.ErrUnsupportedScheme, keyType)
	}
	uri := keyName.String()
	if _, ok := s.symmetricKeys[uri]; ok {
		return fmt.Errorf("%w: key %q", security.ErrAlreadyExists, uri)
	}

	key, err := crypto.GenerateSymmetricKey(keySize)
	if err != nil {
		return err
	}
	s.symmetricKeys[uri] = key
	return nil
}

// Encrypt 用指定对称密钥加密数据
func (s *MemoryPrivateKeyStorage) Encrypt(keyName *types.Name, plaintext []byte) ([]byte, error) {
	key, ok := s.symmetricKeys[keyName.String()]
	if !ok {
		return nil, fmt.Errorf("%w: symmetric key %q", security.ErrNotFound, keyName)
	}
	return crypto.EncryptAESGCM(key, plaintext)
}

// Decrypt 用指定对称密钥解密数据
func (s *MemoryPrivateKeyStorage) Decrypt(keyName *types.Name, ciphertext []byte) ([]byte, error) {
	key, ok := s.symmetricKeys[keyName.String()]
	if !ok {
		return nil, fmt.Errorf("%w: symmetric key %q", security.ErrNotFound, keyName)
	}
	return crypto.DecryptAESGCM(key, ciphertext)
}

// DoesKeyExist 判断指定类别的密钥是否存在
func (s *MemoryPrivateKeyStorage) DoesKeyExist(keyName *types.Name, keyClass types.KeyClass) (bool, error) {
	uri := keyName.String()
	switch keyClass {
	case types.KeyClassPublic:
		_, ok := s.publicKeys[uri]
		return ok, nil
	case types.KeyClassPrivate:
		_, ok := s.privateKeys[uri]
		return ok, nil
	case types.KeyClassSymmetric:
		_, ok := s.symmetricKeys[uri]
		return ok, nil
	default:
		return false, fmt.Errorf("%w: key class %v", security.ErrUnsupported, keyClass)
	}
}
