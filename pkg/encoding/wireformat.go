package encoding

import (
	"fmt"

	"github.com/multiformats/go-varint"
	"github.com/named-data/go-ndn/pkg/security"
	"github.com/named-data/go-ndn/pkg/types"
)

// TLVWireFormat TLV 线格式编解码器
type TLVWireFormat struct{}

var _ security.WireFormat = (*TLVWireFormat)(nil)

// NewTLVWireFormat 创建 TLV 编解码器
func NewTLVWireFormat() *TLVWireFormat {
	return &TLVWireFormat{}
}

func init() {
	security.SetDefaultWireFormat(NewTLVWireFormat())
}

// ============================================================================
//                              Data 编解码
// ============================================================================

// EncodeData 编码 Data 并标记被签名区间
//
// 区间覆盖名字、元信息、内容与签名信息，不含签名值。
// Data 必须已设置签名对象（签名值可以为空）。
func (f *TLVWireFormat) EncodeData(d *security.Data) (*security.SignedEncoding, error) {
	sig := d.Signature()
	if sig == nil {
		return nil, fmt.Errorf("%w: data has no signature", security.ErrMalformedInput)
	}

	inner := &tlvWriter{}

	signedBegin := inner.len()
	inner.writeBlock(tlvName, encodeNameValue(d.Name()))
	inner.writeBlock(tlvMetaInfo, encodeMetaInfoValue(d.MetaInfo()))
	inner.writeBlock(tlvContent, d.Content())

	sigInfo, err := f.EncodeSignatureInfo(sig)
	if err != nil {
		return nil, err
	}
	inner.buf.Write(sigInfo)
	signedEnd := inner.len()

	inner.writeBlock(tlvSignatureValue, sig.SignatureBytes())

	outer := &tlvWriter{}
	outer.writeUvarint(tlvData)
	outer.writeUvarint(uint64(inner.len()))
	headerLen := outer.len()
	outer.buf.Write(inner.bytes())

	return security.NewSignedEncoding(outer.bytes(), headerLen+signedBegin, headerLen+signedEnd), nil
}

// DecodeData 从字节解码 Data，同时恢复被签名区间
func (f *TLVWireFormat) DecodeData(wire []byte) (*security.Data, *security.SignedEncoding, error) {
	r := newTLVReader(wire)
	typ, length, err := r.readHeader()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", security.ErrMalformedInput, err)
	}
	if typ != tlvData {
		return nil, nil, fmt.Errorf("%w: expected Data block, got type %d", security.ErrMalformedInput, typ)
	}
	headerLen := r.pos
	inner := newTLVReader(wire[headerLen : headerLen+length])

	d := security.NewData()

	signedBegin := headerLen + inner.pos
	nameValue, err := inner.expectBlock(tlvName)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", security.ErrMalformedInput, err)
	}
	name, err := decodeNameValue(nameValue)
	if err != nil {
		return nil, nil, err
	}
	d.SetName(name)

	if t, ok := inner.peekType(); ok && t == tlvMetaInfo {
		value, err := inner.expectBlock(tlvMetaInfo)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", security.ErrMalformedInput, err)
		}
		if err := decodeMetaInfoValue(value, d.MetaInfo()); err != nil {
			return nil, nil, err
		}
	}

	if t, ok := inner.peekType(); ok && t == tlvContent {
		value, err := inner.expectBlock(tlvContent)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", security.ErrMalformedInput, err)
		}
		d.SetContent(value)
	}

	sigInfoValue, err := inner.expectBlock(tlvSignatureInfo)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", security.ErrMalformedInput, err)
	}
	sig, err := decodeSignatureInfoValue(sigInfoValue)
	if err != nil {
		return nil, nil, err
	}
	signedEnd := headerLen + inner.pos

	sigValue, err := inner.expectBlock(tlvSignatureValue)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", security.ErrMalformedInput, err)
	}
	sig.SetSignatureBytes(sigValue)
	d.SetSignature(sig)

	encoding := security.NewSignedEncoding(wire[:headerLen+length], signedBegin, signedEnd)
	return d, encoding, nil
}

// ============================================================================
//                              Interest 编解码
// ============================================================================

// EncodeInterest 编码 Interest 并标记被签名区间
//
// 区间覆盖除最后一个名字组件外的全部名字组件，
// 与签名 Interest 的布局约定一致。
func (f *TLVWireFormat) EncodeInterest(i *security.Interest) (*security.SignedEncoding, error) {
	name := i.Name()

	nameValue := &tlvWriter{}
	lastComponentOffset := 0
	for idx := 0; idx < name.Size(); idx++ {
		lastComponentOffset = nameValue.len()
		c := name.Get(idx)
		nameValue.writeBlock(tlvNameComponent, c.Value())
	}

	inner := &tlvWriter{}
	inner.writeBlock(tlvName, nameValue.bytes())
	nameHeaderLen := varint.UvarintSize(tlvName) + varint.UvarintSize(uint64(nameValue.len()))

	if len(i.Nonce()) > 0 {
		inner.writeBlock(tlvNonce, i.Nonce())
	}
	if i.LifetimeMs() >= 0 {
		inner.writeNumberBlock(tlvInterestLifetime, uint64(i.LifetimeMs()))
	}

	outer := &tlvWriter{}
	outer.writeUvarint(tlvInterest)
	outer.writeUvarint(uint64(inner.len()))
	headerLen := outer.len()
	outer.buf.Write(inner.bytes())

	nameContentStart := headerLen + nameHeaderLen
	signedBegin := nameContentStart
	signedEnd := nameContentStart
	if name.Size() > 0 {
		signedEnd = nameContentStart + lastComponentOffset
	}

	return security.NewSignedEncoding(outer.bytes(), signedBegin, signedEnd), nil
}

// DecodeInterest 从字节解码 Interest
func (f *TLVWireFormat) DecodeInterest(wire []byte) (*security.Interest, error) {
	r := newTLVReader(wire)
	value, err := r.expectBlock(tlvInterest)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", security.ErrMalformedInput, err)
	}
	inner := newTLVReader(value)

	i := security.NewInterest()

	nameValue, err := inner.expectBlock(tlvName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", security.ErrMalformedInput, err)
	}
	name, err := decodeNameValue(nameValue)
	if err != nil {
		return nil, err
	}
	i.SetName(name)

	if t, ok := inner.peekType(); ok && t == tlvNonce {
		nonce, err := inner.expectBlock(tlvNonce)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", security.ErrMalformedInput, err)
		}
		i.SetNonce(nonce)
	}
	if t, ok := inner.peekType(); ok && t == tlvInterestLifetime {
		value, err := inner.expectBlock(tlvInterestLifetime)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", security.ErrMalformedInput, err)
		}
		ms, err := parseNumber(value)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", security.ErrMalformedInput, err)
		}
		i.SetLifetimeMs(float64(ms))
	}

	return i, nil
}

// ============================================================================
//                              签名信息编解码
// ============================================================================

// EncodeSignatureInfo 编码签名信息为完整的 TLV 块
//
// 结果也用作签名 Interest 的倒数第二个名字组件的值。
func (f *TLVWireFormat) EncodeSignatureInfo(sig security.Signature) ([]byte, error) {
	inner := &tlvWriter{}

	switch s := sig.(type) {
	case *security.Sha256WithRsaSignature:
		inner.writeNumberBlock(tlvSignatureType, sigTypeSha256WithRsa)
		inner.writeBlock(tlvKeyLocator, encodeKeyLocatorValue(s.KeyLocator()))
		if len(s.PublisherPublicKeyDigest()) > 0 {
			inner.writeBlock(tlvPublisherDigest, s.PublisherPublicKeyDigest())
		}
	case *security.Sha256WithEcdsaSignature:
		inner.writeNumberBlock(tlvSignatureType, sigTypeSha256WithEcdsa)
		inner.writeBlock(tlvKeyLocator, encodeKeyLocatorValue(s.KeyLocator()))
	default:
		return nil, fmt.Errorf("%w: cannot encode signature %T", security.ErrUnsupportedScheme, sig)
	}

	outer := &tlvWriter{}
	outer.writeBlock(tlvSignatureInfo, inner.bytes())
	return outer.bytes(), nil
}

// DecodeSignatureInfo 从完整的 TLV 块解码签名信息
func (f *TLVWireFormat) DecodeSignatureInfo(b []byte) (security.Signature, error) {
	r := newTLVReader(b)
	value, err := r.expectBlock(tlvSignatureInfo)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", security.ErrMalformedInput, err)
	}
	return decodeSignatureInfoValue(value)
}

// EncodeSignatureValue 编码签名值为完整的 TLV 块
func (f *TLVWireFormat) EncodeSignatureValue(sig security.Signature) ([]byte, error) {
	w := &tlvWriter{}
	w.writeBlock(tlvSignatureValue, sig.SignatureBytes())
	return w.bytes(), nil
}

// DecodeSignatureValue 从完整的 TLV 块解码签名值
func (f *TLVWireFormat) DecodeSignatureValue(sig security.Signature, b []byte) error {
	r := newTLVReader(b)
	value, err := r.expectBlock(tlvSignatureValue)
	if err != nil {
		return fmt.Errorf("%w: %v", security.ErrMalformedInput, err)
	}
	sig.SetSignatureBytes(value)
	return nil
}

// ============================================================================
//                              内部编解码函数
// ============================================================================

func encodeNameValue(name *types.Name) []byte {
	w := &tlvWriter{}
	for i := 0; i < name.Size(); i++ {
		w.writeBlock(tlvNameComponent, name.Get(i).Value())
	}
	return w.bytes()
}

func decodeNameValue(value []byte) (*types.Name, error) {
	name := types.NewName()
	r := newTLVReader(value)
	for r.remaining() > 0 {
		component, err := r.expectBlock(tlvNameComponent)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", security.ErrMalformedInput, err)
		}
		name.Append(types.NewComponent(component))
	}
	return name, nil
}

func encodeMetaInfoValue(m *security.MetaInfo) []byte {
	w := &tlvWriter{}
	w.writeNumberBlock(tlvContentType, uint64(m.ContentType()))
	if m.FreshnessPeriodMs() >= 0 {
		w.writeNumberBlock(tlvFreshnessPeriod, uint64(m.FreshnessPeriodMs()))
	}
	return w.bytes()
}

func decodeMetaInfoValue(value []byte, m *security.MetaInfo) error {
	r := newTLVReader(value)
	if t, ok := r.peekType(); ok && t == tlvContentType {
		v, err := r.expectBlock(tlvContentType)
		if err != nil {
			return fmt.Errorf("%w: %v", security.ErrMalformedInput, err)
		}
		num, err := parseNumber(v)
		if err != nil {
			return fmt.Errorf("%w: %v", security.ErrMalformedInput, err)
		}
		m.SetContentType(security.ContentType(num))
	}
	if t, ok := r.peekType(); ok && t == tlvFreshnessPeriod {
		v, err := r.expectBlock(tlvFreshnessPeriod)
		if err != nil {
			return fmt.Errorf("%w: %v", security.ErrMalformedInput, err)
		}
		num, err := parseNumber(v)
		if err != nil {
			return fmt.Errorf("%w: %v", security.ErrMalformedInput, err)
		}
		m.SetFreshnessPeriodMs(float64(num))
	}
	return nil
}

func encodeKeyLocatorValue(kl *security.KeyLocator) []byte {
	w := &tlvWriter{}
	switch kl.Type() {
	case security.KeyLocatorTypeKey:
		w.writeBlock(tlvKeyBytes, kl.KeyData())
	case security.KeyLocatorTypeKeyName:
		w.writeBlock(tlvName, encodeNameValue(kl.KeyName()))
		if kl.KeyNameType() == security.KeyNameTypePublisherPublicKeyDigest && len(kl.KeyData()) > 0 {
			w.writeBlock(tlvKeyDigest, kl.KeyData())
		}
	case security.KeyLocatorTypeKeyLocatorDigest:
		w.writeBlock(tlvKeyDigest, kl.KeyData())
	}
	return w.bytes()
}

func decodeKeyLocatorValue(value []byte) (*security.KeyLocator, error) {
	kl := security.NewKeyLocator()
	r := newTLVReader(value)

	t, ok := r.peekType()
	if !ok {
		return kl, nil
	}

	switch t {
	case tlvKeyBytes:
		keyData, err := r.expectBlock(tlvKeyBytes)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", security.ErrMalformedInput, err)
		}
		kl.SetType(security.KeyLocatorTypeKey)
		kl.SetKeyData(keyData)
	case tlvName:
		nameValue, err := r.expectBlock(tlvName)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", security.ErrMalformedInput, err)
		}
		name, err := decodeNameValue(nameValue)
		if err != nil {
			return nil, err
		}
		kl.SetType(security.KeyLocatorTypeKeyName)
		kl.SetKeyName(name)
		if t2, ok := r.peekType(); ok && t2 == tlvKeyDigest {
			digest, err := r.expectBlock(tlvKeyDigest)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", security.ErrMalformedInput, err)
			}
			kl.SetKeyNameType(security.KeyNameTypePublisherPublicKeyDigest)
			kl.SetKeyData(digest)
		}
	case tlvKeyDigest:
		digest, err := r.expectBlock(tlvKeyDigest)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", security.ErrMalformedInput, err)
		}
		kl.SetType(security.KeyLocatorTypeKeyLocatorDigest)
		kl.SetKeyData(digest)
	default:
		return nil, fmt.Errorf("%w: unrecognized key locator block type %d", security.ErrMalformedInput, t)
	}

	return kl, nil
}

func decodeSignatureInfoValue(value []byte) (security.Signature, error) {
	r := newTLVReader(value)

	typeValue, err := r.expectBlock(tlvSignatureType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", security.ErrMalformedInput, err)
	}
	sigType, err := parseNumber(typeValue)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", security.ErrMalformedInput, err)
	}

	var keyLocator *security.KeyLocator
	if t, ok := r.peekType(); ok && t == tlvKeyLocator {
		klValue, err := r.expectBlock(tlvKeyLocator)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", security.ErrMalformedInput, err)
		}
		keyLocator, err = decodeKeyLocatorValue(klValue)
		if err != nil {
			return nil, err
		}
	}

	switch sigType {
	case sigTypeSha256WithRsa:
		sig := security.NewSha256WithRsaSignature()
		if keyLocator != nil {
			sig.SetKeyLocator(keyLocator)
		}
		if t, ok := r.peekType(); ok && t == tlvPublisherDigest {
			digest, err := r.expectBlock(tlvPublisherDigest)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", security.ErrMalformedInput, err)
			}
			sig.SetPublisherPublicKeyDigest(digest)
		}
		return sig, nil
	case sigTypeSha256WithEcdsa:
		sig := security.NewSha256WithEcdsaSignature()
		if keyLocator != nil {
			sig.SetKeyLocator(keyLocator)
		}
		return sig, nil
	default:
		return nil, fmt.Errorf("%w: signature type %d", security.ErrUnsupportedScheme, sigType)
	}
}
