package crypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/named-data/go-ndn/pkg/types"
	"golang.org/x/crypto/argon2"
)

// ============================================================================
//                              密钥文件格式
// ============================================================================

// 密钥文件格式：
//
//   ┌────────────────────────────────────────────────────────────┐
//   │                    密钥文件                                 │
//   ├────────────────────────────────────────────────────────────┤
//   │  Magic:     "GO-NDN-KEY"  (10 bytes)                       │
//   │  Version:   uint8                                          │
//   │  Type:      uint8 (KeyType)                                │
//   │  Encrypted: uint8 (0=否, 1=是)                             │
//   │  Data:      密钥数据或加密数据                              │
//   └────────────────────────────────────────────────────────────┘
//
//   加密数据格式：
//   ┌────────────────────────────────────────────────────────────┐
//   │  Salt:       16 bytes                                      │
//   │  Nonce:      12 bytes                                      │
//   │  Ciphertext: 变长（AES-GCM 加密）                          │
//   └────────────────────────────────────────────────────────────┘

const (
	keyFileMagic   = "GO-NDN-KEY"
	keyFileVersion = 1

	// 加密参数
	saltSize  = 16
	nonceSize = 12

	// Argon2 参数
	argon2Time    = 1
	argon2Memory  = 64 * 1024 // 64 MB
	argon2Threads = 4
	argon2KeyLen  = 32
)

// ============================================================================
//                              Keystore 接口
// ============================================================================

// Keystore 私钥存储接口
type Keystore interface {
	// Has 检查是否存在指定 ID 的密钥
	Has(id string) (bool, error)

	// Put 存储密钥
	Put(id string, key PrivateKey) error

	// Get 获取密钥
	Get(id string) (PrivateKey, error)

	// Delete 删除密钥
	Delete(id string) error

	// List 列出所有密钥 ID
	List() ([]string, error)
}

// ============================================================================
//                              文件系统密钥存储
// ============================================================================

// FSKeystore 基于文件系统的密钥存储
//
// 每个密钥一个 .key 文件。写入经由唯一临时文件加 rename，
// 避免进程中断留下半写的密钥文件。
type FSKeystore struct {
	dir      string
	password []byte // 可选：用于加密存储
}

var _ Keystore = (*FSKeystore)(nil)

// NewFSKeystore 创建文件系统密钥存储
//
// password 为空时明文存储。
func NewFSKeystore(dir string, password []byte) (*FSKeystore, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, err
	}
	return &FSKeystore{dir: dir, password: password}, nil
}

// Has 检查是否存在指定 ID 的密钥
func (ks *FSKeystore) Has(id string) (bool, error) {
	_, err := os.Stat(ks.keyPath(id))
	if os.IsNotExist(err) {
		return false, nil
	}
	return err == nil, err
}

// Put 存储密钥，已存在时返回 ErrKeyExists
func (ks *FSKeystore) Put(id string, key PrivateKey) error {
	exists, err := ks.Has(id)
	if err != nil {
		return err
	}
	if exists {
		return ErrKeyExists
	}

	data, err := ks.encodeKey(key)
	if err != nil {
		return err
	}

	tmp := filepath.Join(ks.dir, "."+uuid.NewString()+".tmp")
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return err
	}
	if err := os.Rename(tmp, ks.keyPath(id)); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

// Get 获取密钥
func (ks *FSKeystore) Get(id string) (PrivateKey, error) {
	data, err := os.ReadFile(ks.keyPath(id))
	if os.IsNotExist(err) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, err
	}
	return ks.decodeKey(data)
}

// Delete 删除密钥
func (ks *FSKeystore) Delete(id string) error {
	err := os.Remove(ks.keyPath(id))
	if os.IsNotExist(err) {
		return ErrKeyNotFound
	}
	return err
}

// List 列出所有密钥 ID
func (ks *FSKeystore) List() ([]string, error) {
	entries, err := os.ReadDir(ks.dir)
	if err != nil {
		return nil, err
	}

	var ids []string
	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == ".key" {
			ids = append(ids, entry.Name()[:len(entry.Name())-4])
		}
	}
	return ids, nil
}

// keyPath 返回密钥文件路径
func (ks *FSKeystore) keyPath(id string) string {
	return filepath.Join(ks.dir, id+".key")
}

// encodeKey 编码密钥（可选加密）
func (ks *FSKeystore) encodeKey(key PrivateKey) ([]byte, error) {
	raw, err := key.Raw()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString(keyFileMagic)
	buf.WriteByte(keyFileVersion)
	buf.WriteByte(byte(key.Type()))

	if len(ks.password) > 0 {
		buf.WriteByte(1)
		encrypted, err := encryptWithPassword(raw, ks.password)
		if err != nil {
			return nil, err
		}
		buf.Write(encrypted)
	} else {
		buf.WriteByte(0)
		buf.Write(raw)
	}

	return buf.Bytes(), nil
}

// decodeKey 解码密钥
func (ks *FSKeystore) decodeKey(data []byte) (PrivateKey, error) {
	if len(data) < len(keyFileMagic)+3 {
		return nil, ErrInvalidKeyFile
	}
	if string(data[:len(keyFileMagic)]) != keyFileMagic {
		return nil, ErrInvalidKeyFile
	}

	offset := len(keyFileMagic)
	version := data[offset]
	if version != keyFileVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrInvalidKeyFile, version)
	}
	offset++

	keyType := types.KeyType(data[offset])
	offset++

	encrypted := data[offset] == 1
	offset++

	keyData := data[offset:]
	if encrypted {
		if len(ks.password) == 0 {
			return nil, ErrInvalidPassword
		}
		var err error
		keyData, err = decryptWithPassword(keyData, ks.password)
		if err != nil {
			return nil, err
		}
	}

	return UnmarshalPrivateKey(keyType, keyData)
}

// ============================================================================
//                              加密辅助函数
// ============================================================================

// encryptWithPassword 用 Argon2id 派生密钥后做 AES-GCM 加密
//
// 结果布局：salt || nonce || ciphertext。
func encryptWithPassword(plaintext, password []byte) ([]byte, error) {
	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, err
	}

	key := argon2.IDKey(password, salt, argon2Time, argon2Memory, argon2Threads, argon2KeyLen)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, nonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	ciphertext := gcm.Seal(nil, nonce, plaintext, nil)

	result := make([]byte, saltSize+nonceSize+len(ciphertext))
	copy(result[:saltSize], salt)
	copy(result[saltSize:saltSize+nonceSize], nonce)
	copy(result[saltSize+nonceSize:], ciphertext)
	return result, nil
}

// decryptWithPassword 逆转 encryptWithPassword
func decryptWithPassword(data, password []byte) ([]byte, error) {
	if len(data) < saltSize+nonceSize {
		return nil, ErrDecryptionFailed
	}

	salt := data[:saltSize]
	nonce := data[saltSize : saltSize+nonceSize]
	ciphertext := data[saltSize+nonceSize:]

	key := argon2.IDKey(password, salt, argon2Time, argon2Memory, argon2Threads, argon2KeyLen)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	return plaintext, nil
}

// ============================================================================
//                              内存密钥存储
// ============================================================================

// MemKeystore 内存密钥存储（用于测试）
type MemKeystore struct {
	keys map[string]PrivateKey
}

var _ Keystore = (*MemKeystore)(nil)

// NewMemKeystore 创建内存密钥存储
func NewMemKeystore() *MemKeystore {
	return &MemKeystore{keys: make(map[string]PrivateKey)}
}

// Has 检查是否存在指定 ID 的密钥
func (ks *MemKeystore) Has(id string) (bool, error) {
	_, ok := ks.keys[id]
	return ok, nil
}

// Put 存储密钥
func (ks *MemKeystore) Put(id string, key PrivateKey) error {
	if _, ok := ks.keys[id]; ok {
		return ErrKeyExists
	}
	ks.keys[id] = key
	return nil
}

// Get 获取密钥
func (ks *MemKeystore) Get(id string) (PrivateKey, error) {
	key, ok := ks.keys[id]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return key, nil
}

// Delete 删除密钥
func (ks *MemKeystore) Delete(id string) error {
	if _, ok := ks.keys[id]; !ok {
		return ErrKeyNotFound
	}
	delete(ks.keys, id)
	return nil
}

// List 列出所有密钥 ID
func (ks *MemKeystore) List() ([]string, error) {
	ids := make([]string, 0, len(ks.keys))
	for id := range ks.keys {
		ids = append(ids, id)
	}
	return ids, nil
}
