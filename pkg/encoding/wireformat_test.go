package encoding

import (
	"bytes"
	"errors"
	"testing"

	"github.com/named-data/go-ndn/pkg/security"
	"github.com/named-data/go-ndn/pkg/types"
)

func newSignedData(t *testing.T) *security.Data {
	t.Helper()

	sig := security.NewSha256WithRsaSignature()
	sig.KeyLocator().SetType(security.KeyLocatorTypeKeyName)
	sig.KeyLocator().SetKeyName(types.MustParseName("/alice/KEY/ksk-1/ID-CERT"))
	sig.SetSignatureBytes([]byte{0xDE, 0xAD, 0xBE, 0xEF})

	d := security.NewDataWithName(types.MustParseName("/alice/data/1"))
	d.SetContent([]byte("hello ndn"))
	d.MetaInfo().SetFreshnessPeriodMs(4000)
	d.SetSignature(sig)
	return d
}

func TestTLV_DataRoundTrip(t *testing.T) {
	wf := NewTLVWireFormat()
	d := newSignedData(t)

	encoding, err := wf.EncodeData(d)
	if err != nil {
		t.Fatalf("EncodeData() error = %v", err)
	}
	if len(encoding.SignedPortion()) == 0 {
		t.Fatal("EncodeData() produced empty signed portion")
	}

	decoded, decodedEncoding, err := wf.DecodeData(encoding.Wire())
	if err != nil {
		t.Fatalf("DecodeData() error = %v", err)
	}

	if !decoded.Name().Equal(d.Name()) {
		t.Errorf("decoded name = %q, want %q", decoded.Name(), d.Name())
	}
	if !bytes.Equal(decoded.Content(), d.Content()) {
		t.Errorf("decoded content = %q, want %q", decoded.Content(), d.Content())
	}
	if decoded.MetaInfo().FreshnessPeriodMs() != 4000 {
		t.Errorf("decoded freshness = %v, want 4000", decoded.MetaInfo().FreshnessPeriodMs())
	}

	sig, ok := decoded.Signature().(*security.Sha256WithRsaSignature)
	if !ok {
		t.Fatalf("decoded signature type = %T", decoded.Signature())
	}
	if !bytes.Equal(sig.SignatureBytes(), []byte{0xDE, 0xAD, 0xBE, 0xEF}) {
		t.Error("decoded signature bytes differ")
	}
	if sig.KeyLocator().Type() != security.KeyLocatorTypeKeyName {
		t.Errorf("decoded key locator type = %v, want KEYNAME", sig.KeyLocator().Type())
	}
	if !sig.KeyLocator().KeyName().Equal(types.MustParseName("/alice/KEY/ksk-1/ID-CERT")) {
		t.Errorf("decoded key locator name = %q", sig.KeyLocator().KeyName())
	}

	// 解码恢复的被签名区间与编码时一致
	if !bytes.Equal(decodedEncoding.SignedPortion(), encoding.SignedPortion()) {
		t.Error("decoded signed portion differs from encoded")
	}
}

func TestTLV_SignedPortionExcludesSignature(t *testing.T) {
	wf := NewTLVWireFormat()
	d := newSignedData(t)

	first, err := wf.EncodeData(d)
	if err != nil {
		t.Fatalf("EncodeData() error = %v", err)
	}

	// 改变签名值不应影响被签名区间
	d.Signature().(*security.Sha256WithRsaSignature).SetSignatureBytes(bytes.Repeat([]byte{1}, 4))
	d2 := security.NewData()
	if err := d2.WireDecode(first.Wire(), wf); err != nil {
		t.Fatalf("WireDecode() error = %v", err)
	}

	second, err := wf.EncodeData(d)
	if err != nil {
		t.Fatalf("EncodeData() after mutation error = %v", err)
	}
	if !bytes.Equal(first.SignedPortion(), second.SignedPortion()) {
		t.Error("signed portion changed when only signature bytes changed")
	}
	if bytes.Equal(first.Wire(), second.Wire()) {
		t.Error("full wire unchanged after signature mutation")
	}
}

func TestTLV_EncodeDataWithoutSignature(t *testing.T) {
	wf := NewTLVWireFormat()
	d := security.NewDataWithName(types.MustParseName("/unsigned"))

	if _, err := wf.EncodeData(d); !errors.Is(err, security.ErrMalformedInput) {
		t.Errorf("EncodeData(unsigned) error = %v, want ErrMalformedInput", err)
	}
}

func TestTLV_DecodeData_Garbage(t *testing.T) {
	wf := NewTLVWireFormat()
	if _, _, err := wf.DecodeData([]byte{0xFF, 0x01, 0x02}); !errors.Is(err, security.ErrMalformedInput) {
		t.Errorf("DecodeData(garbage) error = %v, want ErrMalformedInput", err)
	}
}

func TestTLV_InterestRoundTrip(t *testing.T) {
	wf := NewTLVWireFormat()

	i := security.NewInterestWithName(types.MustParseName("/alice/cmd/restart"))
	i.SetNonce([]byte{1, 2, 3, 4})
	i.SetLifetimeMs(2000)

	encoding, err := wf.EncodeInterest(i)
	if err != nil {
		t.Fatalf("EncodeInterest() error = %v", err)
	}

	decoded, err := wf.DecodeInterest(encoding.Wire())
	if err != nil {
		t.Fatalf("DecodeInterest() error = %v", err)
	}
	if !decoded.Name().Equal(i.Name()) {
		t.Errorf("decoded name = %q, want %q", decoded.Name(), i.Name())
	}
	if !bytes.Equal(decoded.Nonce(), i.Nonce()) {
		t.Error("decoded nonce differs")
	}
	if decoded.LifetimeMs() != 2000 {
		t.Errorf("decoded lifetime = %v, want 2000", decoded.LifetimeMs())
	}
}

func TestTLV_InterestSignedPortion(t *testing.T) {
	wf := NewTLVWireFormat()

	// 被签名区间覆盖除最后一个组件外的全部组件
	i := security.NewInterestWithName(types.MustParseName("/a/b/c"))
	encoding, err := wf.EncodeInterest(i)
	if err != nil {
		t.Fatalf("EncodeInterest() error = %v", err)
	}

	expected := encodeNameValue(types.MustParseName("/a/b"))
	if !bytes.Equal(encoding.SignedPortion(), expected) {
		t.Errorf("signed portion = %x, want component encoding of /a/b (%x)",
			encoding.SignedPortion(), expected)
	}

	// 空名字的被签名区间为空
	empty := security.NewInterest()
	emptyEncoding, err := wf.EncodeInterest(empty)
	if err != nil {
		t.Fatalf("EncodeInterest(empty) error = %v", err)
	}
	if len(emptyEncoding.SignedPortion()) != 0 {
		t.Error("signed portion of empty-name interest should be empty")
	}
}

func TestTLV_SignatureInfoRoundTrip(t *testing.T) {
	wf := NewTLVWireFormat()

	sig := security.NewSha256WithRsaSignature()
	sig.KeyLocator().SetType(security.KeyLocatorTypeKey)
	sig.KeyLocator().SetKeyData([]byte{10, 20, 30})
	sig.SetPublisherPublicKeyDigest([]byte{0xAB})

	infoBytes, err := wf.EncodeSignatureInfo(sig)
	if err != nil {
		t.Fatalf("EncodeSignatureInfo() error = %v", err)
	}

	decoded, err := wf.DecodeSignatureInfo(infoBytes)
	if err != nil {
		t.Fatalf("DecodeSignatureInfo() error = %v", err)
	}
	rsaSig, ok := decoded.(*security.Sha256WithRsaSignature)
	if !ok {
		t.Fatalf("decoded type = %T, want *Sha256WithRsaSignature", decoded)
	}
	if rsaSig.KeyLocator().Type() != security.KeyLocatorTypeKey {
		t.Errorf("decoded locator type = %v, want KEY", rsaSig.KeyLocator().Type())
	}
	if !bytes.Equal(rsaSig.KeyLocator().KeyData(), []byte{10, 20, 30}) {
		t.Error("decoded key data differs")
	}
	if !bytes.Equal(rsaSig.PublisherPublicKeyDigest(), []byte{0xAB}) {
		t.Error("decoded publisher digest differs")
	}
}

func TestTLV_SignatureValueRoundTrip(t *testing.T) {
	wf := NewTLVWireFormat()

	sig := security.NewSha256WithEcdsaSignature()
	sig.SetSignatureBytes([]byte{5, 6, 7})

	valueBytes, err := wf.EncodeSignatureValue(sig)
	if err != nil {
		t.Fatalf("EncodeSignatureValue() error = %v", err)
	}

	target := security.NewSha256WithEcdsaSignature()
	if err := wf.DecodeSignatureValue(target, valueBytes); err != nil {
		t.Fatalf("DecodeSignatureValue() error = %v", err)
	}
	if !bytes.Equal(target.SignatureBytes(), []byte{5, 6, 7}) {
		t.Error("decoded signature value differs")
	}
}

func TestTLV_DefaultWireFormatRegistered(t *testing.T) {
	if security.DefaultWireFormat() == nil {
		t.Fatal("importing encoding did not register default wire format")
	}
}
