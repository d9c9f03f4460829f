package crypto

import (
	"crypto/rand"
	"testing"

	"github.com/named-data/go-ndn/pkg/types"
)

func TestEC_Generate(t *testing.T) {
	priv, pub, err := GenerateECKey(rand.Reader)
	if err != nil {
		t.Fatalf("GenerateECKey() error = %v", err)
	}

	if priv.Type() != types.KeyTypeEC {
		t.Errorf("PrivateKey.Type() = %v, want %v", priv.Type(), types.KeyTypeEC)
	}
	if pub.Type() != types.KeyTypeEC {
		t.Errorf("PublicKey.Type() = %v, want %v", pub.Type(), types.KeyTypeEC)
	}
}

func TestEC_SignVerify(t *testing.T) {
	priv, pub, _ := GenerateECKey(rand.Reader)
	data := []byte("test message for ECDSA")

	sig, err := priv.Sign(data)
	if err != nil {
		t.Fatalf("Sign() error = %v", err)
	}

	valid, err := pub.Verify(data, sig)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if !valid {
		t.Error("Verify() = false, want true")
	}

	valid, _ = pub.Verify([]byte("wrong message"), sig)
	if valid {
		t.Error("Verify(badData) = true, want false")
	}
}

func TestEC_RoundTrip(t *testing.T) {
	priv, pub, _ := GenerateECKey(rand.Reader)

	privRaw, err := priv.Raw()
	if err != nil {
		t.Fatalf("PrivateKey.Raw() error = %v", err)
	}
	priv2, err := UnmarshalECPrivateKey(privRaw)
	if err != nil {
		t.Fatalf("UnmarshalECPrivateKey() error = %v", err)
	}
	if !priv.Equals(priv2) {
		t.Error("Unmarshalled private key does not equal original")
	}

	pubRaw, err := pub.Raw()
	if err != nil {
		t.Fatalf("PublicKey.Raw() error = %v", err)
	}
	pub2, err := UnmarshalECPublicKey(pubRaw)
	if err != nil {
		t.Fatalf("UnmarshalECPublicKey() error = %v", err)
	}
	if !pub.Equals(pub2) {
		t.Error("Unmarshalled public key does not equal original")
	}
}

func TestEC_Unmarshal_Invalid(t *testing.T) {
	if _, err := UnmarshalECPublicKey([]byte{1, 2, 3}); err == nil {
		t.Error("UnmarshalECPublicKey(invalid) should return error")
	}
	if _, err := UnmarshalECPrivateKey([]byte{1, 2, 3}); err == nil {
		t.Error("UnmarshalECPrivateKey(invalid) should return error")
	}
}

func TestEC_CrossVerify(t *testing.T) {
	priv1, _, _ := GenerateECKey(rand.Reader)
	_, pub2, _ := GenerateECKey(rand.Reader)

	data := []byte("test data")
	sig, _ := priv1.Sign(data)

	valid, _ := pub2.Verify(data, sig)
	if valid {
		t.Error("Verify with wrong key should return false")
	}
}
