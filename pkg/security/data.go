package security

import (
	"github.com/named-data/go-ndn/pkg/types"
)

// ============================================================================
//                              元信息
// ============================================================================

// ContentType Data 内容类型
type ContentType int

const (
	// ContentTypeBlob 普通数据
	ContentTypeBlob ContentType = 0
	// ContentTypeKey 公钥证书
	ContentTypeKey ContentType = 2
)

// MetaInfo Data 的元信息
type MetaInfo struct {
	contentType       ContentType
	freshnessPeriodMs float64

	changeCount uint64
}

var _ types.Changeable = (*MetaInfo)(nil)

// NewMetaInfo 创建默认元信息
func NewMetaInfo() *MetaInfo {
	return &MetaInfo{freshnessPeriodMs: -1}
}

// ContentType 返回内容类型
func (m *MetaInfo) ContentType() ContentType { return m.contentType }

// SetContentType 设置内容类型
func (m *MetaInfo) SetContentType(t ContentType) {
	m.contentType = t
	m.changeCount++
}

// FreshnessPeriodMs 返回新鲜期（毫秒），负值表示未设置
func (m *MetaInfo) FreshnessPeriodMs() float64 { return m.freshnessPeriodMs }

// SetFreshnessPeriodMs 设置新鲜期（毫秒）
func (m *MetaInfo) SetFreshnessPeriodMs(ms float64) {
	m.freshnessPeriodMs = ms
	m.changeCount++
}

// ChangeCount 返回变更计数
func (m *MetaInfo) ChangeCount() uint64 { return m.changeCount }

// ============================================================================
//                              Data 消息
// ============================================================================

// Data 携带签名的命名数据消息
//
// 线格式编码按变更计数缓存：任何字段（包括通过指针
// 返回的名字、签名对象）被修改后，下一次 WireEncode
// 会重新编码。
type Data struct {
	name     *types.Name
	metaInfo *MetaInfo
	content  []byte
	sig      Signature

	changeCount     uint64
	nameTracker     *types.ChangeTracker
	metaInfoTracker *types.ChangeTracker
	sigTracker      *types.ChangeTracker

	defaultEncoding       *SignedEncoding
	defaultEncodingFormat WireFormat
	encodingChangeCount   uint64
}

var _ types.Changeable = (*Data)(nil)

// NewData 创建空 Data
func NewData() *Data {
	d := &Data{
		name:     types.NewName(),
		metaInfo: NewMetaInfo(),
	}
	d.nameTracker = types.NewChangeTracker(d.name)
	d.metaInfoTracker = types.NewChangeTracker(d.metaInfo)
	d.sigTracker = types.NewChangeTracker(nil)
	return d
}

// NewDataWithName 创建带名字的 Data（复制名字）
func NewDataWithName(name *types.Name) *Data {
	d := NewData()
	d.SetName(name)
	return d
}

// Name 返回名字
//
// 返回内部指针，调用方的修改会计入变更计数。
func (d *Data) Name() *types.Name { return d.name }

// SetName 设置名字（复制）
func (d *Data) SetName(name *types.Name) *Data {
	d.name = name.Clone()
	d.nameTracker.Set(d.name)
	d.changeCount++
	return d
}

// MetaInfo 返回元信息
func (d *Data) MetaInfo() *MetaInfo { return d.metaInfo }

// Content 返回内容字节
func (d *Data) Content() []byte { return d.content }

// SetContent 设置内容字节（复制）
func (d *Data) SetContent(content []byte) *Data {
	d.content = append([]byte(nil), content...)
	d.changeCount++
	return d
}

// Signature 返回签名对象，未签名时为 nil
func (d *Data) Signature() Signature { return d.sig }

// SetSignature 设置签名对象（深拷贝）
func (d *Data) SetSignature(sig Signature) *Data {
	if sig == nil {
		d.sig = nil
		d.sigTracker.Set(nil)
	} else {
		d.sig = sig.Clone()
		d.sigTracker.Set(d.sig)
	}
	d.changeCount++
	return d
}

// ChangeCount 返回变更计数，读取时聚合名字、元信息与签名的变更
func (d *Data) ChangeCount() uint64 {
	changed := d.nameTracker.CheckChanged()
	changed = d.metaInfoTracker.CheckChanged() || changed
	changed = d.sigTracker.CheckChanged() || changed
	if changed {
		d.changeCount++
	}
	return d.changeCount
}

// ============================================================================
//                              线格式编解码
// ============================================================================

// WireEncode 编码为线格式
//
// wf 为 nil 时使用默认线格式。结果按变更计数缓存，
// 消息未变时重复调用返回同一编码。
func (d *Data) WireEncode(wf WireFormat) (*SignedEncoding, error) {
	format, err := resolveWireFormat(wf)
	if err != nil {
		return nil, err
	}

	count := d.ChangeCount()
	if d.defaultEncoding != nil && d.encodingChangeCount == count && d.defaultEncodingFormat == format {
		return d.defaultEncoding, nil
	}

	encoding, err := format.EncodeData(d)
	if err != nil {
		return nil, err
	}
	d.defaultEncoding = encoding
	d.defaultEncodingFormat = format
	d.encodingChangeCount = d.ChangeCount()
	return encoding, nil
}

// WireDecode 从线格式解码，替换当前字段
func (d *Data) WireDecode(wire []byte, wf WireFormat) error {
	format, err := resolveWireFormat(wf)
	if err != nil {
		return err
	}

	decoded, encoding, err := format.DecodeData(wire)
	if err != nil {
		return err
	}

	d.name = decoded.name
	d.nameTracker.Set(d.name)
	d.metaInfo = decoded.metaInfo
	d.metaInfoTracker.Set(d.metaInfo)
	d.content = decoded.content
	d.sig = decoded.sig
	d.sigTracker.Set(d.sig)
	d.changeCount++

	d.defaultEncoding = encoding
	d.defaultEncodingFormat = format
	d.encodingChangeCount = d.ChangeCount()
	return nil
}

// DefaultWireEncoding 返回最近一次编码或解码的结果
//
// 消息在此之后被修改过时返回 nil。
func (d *Data) DefaultWireEncoding() *SignedEncoding {
	if d.defaultEncoding == nil || d.encodingChangeCount != d.ChangeCount() {
		return nil
	}
	return d.defaultEncoding
}

// Clone 返回深拷贝
func (d *Data) Clone() *Data {
	out := NewData()
	out.SetName(d.name)
	out.metaInfo.SetContentType(d.metaInfo.contentType)
	out.metaInfo.SetFreshnessPeriodMs(d.metaInfo.freshnessPeriodMs)
	out.SetContent(d.content)
	out.SetSignature(d.sig)
	return out
}
