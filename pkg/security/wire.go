package security

// ============================================================================
//                              线格式抽象
// ============================================================================

// SignedEncoding 一次编码的结果，附带被签名区间
//
// 被签名区间覆盖签名信息（SignatureInfo）但不含签名值，
// 签名与验签都针对这一区间计算。
type SignedEncoding struct {
	wire        []byte
	signedBegin int
	signedEnd   int
}

// NewSignedEncoding 构造编码结果
func NewSignedEncoding(wire []byte, signedBegin, signedEnd int) *SignedEncoding {
	return &SignedEncoding{wire: wire, signedBegin: signedBegin, signedEnd: signedEnd}
}

// Wire 返回完整的编码字节
func (e *SignedEncoding) Wire() []byte { return e.wire }

// SignedPortion 返回被签名区间的字节
func (e *SignedEncoding) SignedPortion() []byte {
	if e.signedBegin < 0 || e.signedEnd > len(e.wire) || e.signedBegin > e.signedEnd {
		return nil
	}
	return e.wire[e.signedBegin:e.signedEnd]
}

// WireFormat 线格式编解码器
//
// Data 与 Interest 通过它在内存表示与字节序列之间转换。
// 传 nil 给消息方法时使用 DefaultWireFormat。
type WireFormat interface {
	// EncodeData 编码 Data 并标记被签名区间
	EncodeData(d *Data) (*SignedEncoding, error)

	// DecodeData 从字节解码 Data，同时恢复被签名区间
	DecodeData(wire []byte) (*Data, *SignedEncoding, error)

	// EncodeInterest 编码 Interest 并标记被签名区间
	//
	// 被签名区间覆盖除最后一个名字组件（签名值）之外的全部名字组件。
	EncodeInterest(i *Interest) (*SignedEncoding, error)

	// DecodeInterest 从字节解码 Interest
	DecodeInterest(wire []byte) (*Interest, error)

	// EncodeSignatureInfo 编码签名信息（方案标记与密钥定位器，不含签名值）
	EncodeSignatureInfo(sig Signature) ([]byte, error)

	// DecodeSignatureInfo 从字节解码签名信息
	DecodeSignatureInfo(b []byte) (Signature, error)

	// EncodeSignatureValue 编码签名值
	EncodeSignatureValue(sig Signature) ([]byte, error)

	// DecodeSignatureValue 从字节解码签名值，写入已有的签名对象
	DecodeSignatureValue(sig Signature, b []byte) error
}

var defaultWireFormat WireFormat

// SetDefaultWireFormat 设置全局默认线格式
func SetDefaultWireFormat(wf WireFormat) {
	defaultWireFormat = wf
}

// DefaultWireFormat 返回全局默认线格式，未设置时为 nil
func DefaultWireFormat() WireFormat {
	return defaultWireFormat
}

func resolveWireFormat(wf WireFormat) (WireFormat, error) {
	if wf != nil {
		return wf, nil
	}
	if defaultWireFormat != nil {
		return defaultWireFormat, nil
	}
	return nil, ErrUnsupported
}
