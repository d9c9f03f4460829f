package identity

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/named-data/go-ndn/pkg/interfaces"
	"github.com/named-data/go-ndn/pkg/lib/crypto"
	"github.com/named-data/go-ndn/pkg/security"
	"github.com/named-data/go-ndn/pkg/types"
)

// FilePrivateKeyStorage 基于加密文件的私钥保管者
//
// 私钥经 Keystore 落盘（可选密码加密），公钥与对称密钥
// 各自存为独立文件。文件名取密钥名 URI 摘要的 Base58 表示，
// 避免名字里的转义字符进入文件系统。
type FilePrivateKeyStorage struct {
	dir      string
	keystore crypto.Keystore
}

var _ interfaces.PrivateKeyStorage = (*FilePrivateKeyStorage)(nil)

// NewFilePrivateKeyStorage 在指定目录创建文件私钥存储
//
// password 为空时私钥明文落盘。
func NewFilePrivateKeyStorage(dir string, password []byte) (*FilePrivateKeyStorage, error) {
	for _, sub := range []string{"keys", "pub", "sym"} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0700); err != nil {
			return nil, err
		}
	}

	ks, err := crypto.NewFSKeystore(filepath.Join(dir, "keys"), password)
	if err != nil {
		return nil, err
	}
	return &FilePrivateKeyStorage{dir: dir, keystore: ks}, nil
}

// keyFileID 返回密钥名对应的文件标识
func keyFileID(keyName *types.Name) string {
	return crypto.DigestString(crypto.Sha256([]byte(keyName.String())))
}

func (s *FilePrivateKeyStorage) pubPath(keyName *types.Name) string {
	return filepath.Join(s.dir, "pub", keyFileID(keyName)+".pub")
}

func (s *FilePrivateKeyStorage) symPath(keyName *types.Name) string {
	return filepath.Join(s.dir, "sym", keyFileID(keyName)+".sym")
}

// GenerateKeyPair 在指定名字下生成非对称密钥对
func (s *FilePrivateKeyStorage) GenerateKeyPair(keyName *types.Name, keyType types.KeyType, keySize int) error {
	priv, pub, err := crypto.GenerateKeyPair(keyType, keySize)
	if err != nil {
		return err
	}

	if err := s.keystore.Put(keyFileID(keyName), priv); err != nil {
		if err == crypto.ErrKeyExists {
			return fmt.Errorf("%w: key %q", security.ErrAlreadyExists, keyName)
		}
		return err
	}

	der, err := pub.Raw()
	if err != nil {
		return err
	}
	value, err := json.Marshal(storedKey{KeyType: keyType, Der: der})
	if err != nil {
		return err
	}
	return os.WriteFile(s.pubPath(keyName), value, 0600)
}

// GetPublicKey 返回密钥对的公钥
func (s *FilePrivateKeyStorage) GetPublicKey(keyName *types.Name) (*security.PublicKey, error) {
	value, err := os.ReadFile(s.pubPath(keyName))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: public key %q", security.ErrNotFound, keyName)
	}
	if err != nil {
		return nil, err
	}

	var rec storedKey
	if err := json.Unmarshal(value, &rec); err != nil {
		return nil, fmt.Errorf("%w: corrupt public key file for %q", security.ErrMalformedInput, keyName)
	}
	return security.NewPublicKey(rec.KeyType, rec.Der), nil
}

// Sign 用指定私钥对数据签名
func (s *FilePrivateKeyStorage) Sign(data []byte, keyName *types.Name, digestAlgorithm types.DigestAlgorithm) ([]byte, error) {
	if digestAlgorithm != types.DigestAlgorithmSHA256 {
		return nil, fmt.Errorf("%w: digest algorithm %v", security.ErrUnsupportedScheme, digestAlgorithm)
	}

	priv, err := s.keystore.Get(keyFileID(keyName))
	if err == crypto.ErrKeyNotFound {
		return nil, fmt.Errorf("%w: private key %q", security.ErrNotFound, keyName)
	}
	if err != nil {
		return nil, err
	}
	return priv.Sign(data)
}

// GenerateKey 在指定名字下生成对称密钥
func (s *FilePrivateKeyStorage) GenerateKey(keyName *types.Name, keyType types.KeyType, keySize int) error {
	if keyType != types.KeyTypeAES {
		return fmt.Errorf("%w: symmetric key type %v", security.ErrUnsupportedScheme, keyType)
	}

	path := s.symPath(keyName)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: key %q", security.ErrAlreadyExists, keyName)
	}

	key, err := crypto.GenerateSymmetricKey(keySize)
	if err != nil {
		return err
	}
	return os.WriteFile(path, key, 0600)
}

func (s *FilePrivateKeyStorage) symmetricKey(keyName *types.Name) ([]byte, error) {
	key, err := os.ReadFile(s.symPath(keyName))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: symmetric key %q", security.ErrNotFound, keyName)
	}
	return key, err
}

// Encrypt 用指定对称密钥加密数据
func (s *FilePrivateKeyStorage) Encrypt(keyName *types.Name, plaintext []byte) ([]byte, error) {
	key, err := s.symmetricKey(keyName)
	if err != nil {
		return nil, err
	}
	return crypto.EncryptAESGCM(key, plaintext)
}

// Decrypt 用指定对称密钥解密数据
func (s *FilePrivateKeyStorage) Decrypt(keyName *types.Name, ciphertext []byte) ([]byte, error) {
	key, err := s.symmetricKey(keyName)
	if err != nil {
		return nil, err
	}
	return crypto.DecryptAESGCM(key, ciphertext)
}

// DoesKeyExist 判断指定类别的密钥是否存在
func (s *FilePrivateKeyStorage) DoesKeyExist(keyName *types.Name, keyClass types.KeyClass) (bool, error) {
	switch keyClass {
	case types.KeyClassPublic:
		_, err := os.Stat(s.pubPath(keyName))
		return err == nil, nil
	case types.KeyClassPrivate:
		return s.keystore.Has(keyFileID(keyName))
	case types.KeyClassSymmetric:
		_, err := os.Stat(s.symPath(keyName))
		return err == nil, nil
	default:
		return false, fmt.Errorf("%w: key class %v", security.ErrUnsupported, keyClass)
	}
}
