package security

import (
	"github.com/named-data/go-ndn/pkg/types"
)

// ============================================================================
//                              类型定义
// ============================================================================

// KeyLocatorType 密钥定位器类型
type KeyLocatorType int

const (
	// KeyLocatorTypeNone 未设置定位器
	KeyLocatorTypeNone KeyLocatorType = iota
	// KeyLocatorTypeKey 内嵌 DER 编码的公钥
	KeyLocatorTypeKey
	// KeyLocatorTypeKeyName 按名字引用密钥
	KeyLocatorTypeKeyName
	// KeyLocatorTypeKeyLocatorDigest 内嵌签名者公钥的 SHA-256 摘要
	KeyLocatorTypeKeyLocatorDigest
)

// String 返回定位器类型的可读表示
func (t KeyLocatorType) String() string {
	switch t {
	case KeyLocatorTypeKey:
		return "KEY"
	case KeyLocatorTypeKeyName:
		return "KEYNAME"
	case KeyLocatorTypeKeyLocatorDigest:
		return "KEY_LOCATOR_DIGEST"
	default:
		return "NONE"
	}
}

// KeyNameType KEYNAME 定位器的附加数据类型
type KeyNameType int

const (
	// KeyNameTypeNone 无附加数据
	KeyNameTypeNone KeyNameType = iota
	// KeyNameTypePublisherPublicKeyDigest 附带发布者公钥摘要
	KeyNameTypePublisherPublicKeyDigest
)

// KeyLocator 签名者密钥的定位信息
//
// 告知验证方用何处的密钥验证签名：内嵌公钥字节（KEY），
// 或按名字引用（KEYNAME，通常指向证书名去掉版本号的前缀）。
type KeyLocator struct {
	locatorType KeyLocatorType
	keyName     *types.Name
	keyNameType KeyNameType
	keyData     []byte

	changeCount uint64
	nameTracker *types.ChangeTracker
}

var _ types.Changeable = (*KeyLocator)(nil)

// NewKeyLocator 创建空的密钥定位器
func NewKeyLocator() *KeyLocator {
	kl := &KeyLocator{
		keyName: types.NewName(),
	}
	kl.nameTracker = types.NewChangeTracker(kl.keyName)
	return kl
}

// ============================================================================
//                              访问器与修改器
// ============================================================================

// Type 返回定位器类型
func (kl *KeyLocator) Type() KeyLocatorType { return kl.locatorType }

// SetType 设置定位器类型
func (kl *KeyLocator) SetType(t KeyLocatorType) {
	kl.locatorType = t
	kl.changeCount++
}

// KeyName 返回被引用的密钥名
//
// 返回内部指针，调用方的修改会计入变更计数。
func (kl *KeyLocator) KeyName() *types.Name { return kl.keyName }

// SetKeyName 设置被引用的密钥名（复制）
func (kl *KeyLocator) SetKeyName(name *types.Name) {
	kl.keyName = name.Clone()
	kl.nameTracker.Set(kl.keyName)
	kl.changeCount++
}

// KeyNameType 返回 KEYNAME 附加数据类型
func (kl *KeyLocator) KeyNameType() KeyNameType { return kl.keyNameType }

// SetKeyNameType 设置 KEYNAME 附加数据类型
func (kl *KeyLocator) SetKeyNameType(t KeyNameType) {
	kl.keyNameType = t
	kl.changeCount++
}

// KeyData 返回内嵌的密钥字节
func (kl *KeyLocator) KeyData() []byte { return kl.keyData }

// SetKeyData 设置内嵌的密钥字节（复制）
func (kl *KeyLocator) SetKeyData(data []byte) {
	kl.keyData = append([]byte(nil), data...)
	kl.changeCount++
}

// Clear 恢复为未设置状态
func (kl *KeyLocator) Clear() {
	kl.locatorType = KeyLocatorTypeNone
	kl.keyName = types.NewName()
	kl.nameTracker.Set(kl.keyName)
	kl.keyNameType = KeyNameTypeNone
	kl.keyData = nil
	kl.changeCount++
}

// Clone 返回深拷贝
func (kl *KeyLocator) Clone() *KeyLocator {
	out := NewKeyLocator()
	out.locatorType = kl.locatorType
	out.keyName = kl.keyName.Clone()
	out.nameTracker.Set(out.keyName)
	out.keyNameType = kl.keyNameType
	out.keyData = append([]byte(nil), kl.keyData...)
	return out
}

// ChangeCount 返回变更计数
//
// 读取时聚合子对象的变更：若引用的名字被外部修改过，
// 本对象的计数随之推进，使上层的编码缓存失效。
func (kl *KeyLocator) ChangeCount() uint64 {
	if kl.nameTracker.CheckChanged() {
		kl.changeCount++
	}
	return kl.changeCount
}
