package encoding

import (
	"bytes"
	"fmt"

	"github.com/multiformats/go-varint"
)

// ============================================================================
//                              TLV 类型号
// ============================================================================

const (
	tlvInterest         = 5
	tlvData             = 6
	tlvName             = 7
	tlvNameComponent    = 8
	tlvNonce            = 10
	tlvInterestLifetime = 12
	tlvMetaInfo         = 20
	tlvContent          = 21
	tlvSignatureInfo    = 22
	tlvSignatureValue   = 23
	tlvContentType      = 24
	tlvFreshnessPeriod  = 25
	tlvSignatureType    = 27
	tlvKeyLocator       = 28
	tlvKeyDigest        = 29
	tlvKeyBytes         = 30
	tlvPublisherDigest  = 252
)

// 签名方案标记
const (
	sigTypeSha256WithRsa   = 1
	sigTypeSha256WithEcdsa = 3
)

// ============================================================================
//                              写入器
// ============================================================================

type tlvWriter struct {
	buf bytes.Buffer
}

func (w *tlvWriter) writeUvarint(v uint64) {
	tmp := make([]byte, varint.UvarintSize(v))
	varint.PutUvarint(tmp, v)
	w.buf.Write(tmp)
}

// writeBlock 写入一个完整的 TLV 块
func (w *tlvWriter) writeBlock(typ uint64, value []byte) {
	w.writeUvarint(typ)
	w.writeUvarint(uint64(len(value)))
	w.buf.Write(value)
}

// writeNumberBlock 写入数值 TLV 块（值本身也是 varint）
func (w *tlvWriter) writeNumberBlock(typ, num uint64) {
	tmp := make([]byte, varint.UvarintSize(num))
	varint.PutUvarint(tmp, num)
	w.writeBlock(typ, tmp)
}

func (w *tlvWriter) len() int {
	return w.buf.Len()
}

func (w *tlvWriter) bytes() []byte {
	return w.buf.Bytes()
}

// ============================================================================
//                              读取器
// ============================================================================

type tlvReader struct {
	data []byte
	pos  int
}

func newTLVReader(data []byte) *tlvReader {
	return &tlvReader{data: data}
}

func (r *tlvReader) remaining() int {
	return len(r.data) - r.pos
}

func (r *tlvReader) readUvarint() (uint64, error) {
	v, n, err := varint.FromUvarint(r.data[r.pos:])
	if err != nil {
		return 0, fmt.Errorf("tlv: bad varint at offset %d: %w", r.pos, err)
	}
	r.pos += n
	return v, nil
}

// readHeader 读取块头，返回类型与值长度
func (r *tlvReader) readHeader() (uint64, int, error) {
	typ, err := r.readUvarint()
	if err != nil {
		return 0, 0, err
	}
	length, err := r.readUvarint()
	if err != nil {
		return 0, 0, err
	}
	if int(length) > r.remaining() {
		return 0, 0, fmt.Errorf("tlv: block length %d exceeds remaining %d", length, r.remaining())
	}
	return typ, int(length), nil
}

// readBlock 读取一个完整的 TLV 块，返回类型与值
func (r *tlvReader) readBlock() (uint64, []byte, error) {
	typ, length, err := r.readHeader()
	if err != nil {
		return 0, nil, err
	}
	value := r.data[r.pos : r.pos+length]
	r.pos += length
	return typ, value, nil
}

// expectBlock 读取指定类型的 TLV 块
func (r *tlvReader) expectBlock(typ uint64) ([]byte, error) {
	got, value, err := r.readBlock()
	if err != nil {
		return nil, err
	}
	if got != typ {
		return nil, fmt.Errorf("tlv: expected type %d, got %d", typ, got)
	}
	return value, nil
}

// peekType 返回下一个块的类型，不移动读取位置
func (r *tlvReader) peekType() (uint64, bool) {
	if r.remaining() == 0 {
		return 0, false
	}
	v, _, err := varint.FromUvarint(r.data[r.pos:])
	if err != nil {
		return 0, false
	}
	return v, true
}

func parseNumber(value []byte) (uint64, error) {
	v, n, err := varint.FromUvarint(value)
	if err != nil || n != len(value) {
		return 0, fmt.Errorf("tlv: bad number encoding")
	}
	return v, nil
}
