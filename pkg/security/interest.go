package security

import (
	"github.com/named-data/go-ndn/pkg/types"
)

// ============================================================================
//                              Interest 消息
// ============================================================================

// 签名 Interest 在名字末尾追加的组件数：
// 倒数第二个是编码后的签名信息，最后一个是签名值。
const SignedInterestComponentCount = 2

// Interest 请求命名数据的消息
//
// 签名 Interest 把签名信息与签名值作为最后两个名字组件携带，
// 被签名区间覆盖除签名值组件外的全部名字组件。
type Interest struct {
	name       *types.Name
	nonce      []byte
	lifetimeMs float64

	changeCount uint64
	nameTracker *types.ChangeTracker

	defaultEncoding       *SignedEncoding
	defaultEncodingFormat WireFormat
	encodingChangeCount   uint64
}

var _ types.Changeable = (*Interest)(nil)

// NewInterest 创建空 Interest
func NewInterest() *Interest {
	i := &Interest{
		name:       types.NewName(),
		lifetimeMs: -1,
	}
	i.nameTracker = types.NewChangeTracker(i.name)
	return i
}

// NewInterestWithName 创建带名字的 Interest（复制名字）
func NewInterestWithName(name *types.Name) *Interest {
	i := NewInterest()
	i.SetName(name)
	return i
}

// Name 返回名字
//
// 返回内部指针，调用方的修改会计入变更计数。
func (i *Interest) Name() *types.Name { return i.name }

// SetName 设置名字（复制）
func (i *Interest) SetName(name *types.Name) *Interest {
	i.name = name.Clone()
	i.nameTracker.Set(i.name)
	i.changeCount++
	return i
}

// Nonce 返回随机数字节
func (i *Interest) Nonce() []byte { return i.nonce }

// SetNonce 设置随机数字节（复制）
func (i *Interest) SetNonce(nonce []byte) *Interest {
	i.nonce = append([]byte(nil), nonce...)
	i.changeCount++
	return i
}

// LifetimeMs 返回生存期（毫秒），负值表示未设置
func (i *Interest) LifetimeMs() float64 { return i.lifetimeMs }

// SetLifetimeMs 设置生存期（毫秒）
func (i *Interest) SetLifetimeMs(ms float64) *Interest {
	i.lifetimeMs = ms
	i.changeCount++
	return i
}

// ChangeCount 返回变更计数，读取时聚合名字的变更
func (i *Interest) ChangeCount() uint64 {
	if i.nameTracker.CheckChanged() {
		i.changeCount++
	}
	return i.changeCount
}

// ============================================================================
//                              线格式编解码
// ============================================================================

// WireEncode 编码为线格式，结果按变更计数缓存
func (i *Interest) WireEncode(wf WireFormat) (*SignedEncoding, error) {
	format, err := resolveWireFormat(wf)
	if err != nil {
		return nil, err
	}

	count := i.ChangeCount()
	if i.defaultEncoding != nil && i.encodingChangeCount == count && i.defaultEncodingFormat == format {
		return i.defaultEncoding, nil
	}

	encoding, err := format.EncodeInterest(i)
	if err != nil {
		return nil, err
	}
	i.defaultEncoding = encoding
	i.defaultEncodingFormat = format
	i.encodingChangeCount = i.ChangeCount()
	return encoding, nil
}

// WireDecode 从线格式解码，替换当前字段
func (i *Interest) WireDecode(wire []byte, wf WireFormat) error {
	format, err := resolveWireFormat(wf)
	if err != nil {
		return err
	}

	decoded, err := format.DecodeInterest(wire)
	if err != nil {
		return err
	}

	i.name = decoded.name
	i.nameTracker.Set(i.name)
	i.nonce = decoded.nonce
	i.lifetimeMs = decoded.lifetimeMs
	i.changeCount++
	i.defaultEncoding = nil
	return nil
}

// Clone 返回深拷贝
func (i *Interest) Clone() *Interest {
	out := NewInterest()
	out.SetName(i.name)
	out.SetNonce(i.nonce)
	out.SetLifetimeMs(i.lifetimeMs)
	return out
}
