package security

import (
	"errors"
	"testing"

	"github.com/named-data/go-ndn/pkg/types"
)

func TestNaming_KeyNameForIdentity(t *testing.T) {
	identity := types.MustParseName("/alice")
	keyName := KeyNameForIdentity(identity, types.ComponentFromString("ksk-12345"))

	if got := keyName.String(); got != "/alice/KEY/ksk-12345" {
		t.Errorf("KeyNameForIdentity() = %q, want %q", got, "/alice/KEY/ksk-12345")
	}

	back, err := IdentityNameFromKeyName(keyName)
	if err != nil {
		t.Fatalf("IdentityNameFromKeyName() error = %v", err)
	}
	if !back.Equal(identity) {
		t.Errorf("IdentityNameFromKeyName() = %q, want %q", back, identity)
	}
}

func TestNaming_IdentityNameFromKeyName_NoMarker(t *testing.T) {
	_, err := IdentityNameFromKeyName(types.MustParseName("/alice/foo/ksk-1"))
	if !errors.Is(err, ErrInvalidName) {
		t.Errorf("IdentityNameFromKeyName() error = %v, want ErrInvalidName", err)
	}
}

func TestNaming_CertificateRoundTrip(t *testing.T) {
	keyName := types.MustParseName("/alice/KEY/ksk-12345")
	version := types.Timestamp(1700000000000)

	certName := CertificateNameFromKeyName(keyName, version)
	if certName.Size() != keyName.Size()+2 {
		t.Fatalf("certificate name size = %d, want %d", certName.Size(), keyName.Size()+2)
	}
	if certName.Get(-2).String() != IDCertComponent {
		t.Errorf("certificate name missing %s component", IDCertComponent)
	}

	back, err := CertificateNameToPublicKeyName(certName)
	if err != nil {
		t.Fatalf("CertificateNameToPublicKeyName() error = %v", err)
	}
	if !back.Equal(keyName) {
		t.Errorf("CertificateNameToPublicKeyName() = %q, want %q", back, keyName)
	}

	// 重新组装得到原证书名
	rebuilt := CertificateNameFromKeyName(back, version)
	if !rebuilt.Equal(certName) {
		t.Errorf("rebuilt certificate name = %q, want %q", rebuilt, certName)
	}
}

func TestNaming_CertificateNameToPublicKeyName_LocatorPrefix(t *testing.T) {
	// KEYNAME 定位器携带的是证书名去掉版本号的前缀
	prefix := types.MustParseName("/alice/KEY/ksk-12345/ID-CERT")

	keyName, err := CertificateNameToPublicKeyName(prefix)
	if err != nil {
		t.Fatalf("CertificateNameToPublicKeyName() error = %v", err)
	}
	if got := keyName.String(); got != "/alice/KEY/ksk-12345" {
		t.Errorf("CertificateNameToPublicKeyName() = %q, want %q", got, "/alice/KEY/ksk-12345")
	}
}

func TestNaming_CertificateNameToPublicKeyName_Invalid(t *testing.T) {
	cases := []string{
		"/alice/ksk-12345/ID-CERT/1", // 缺 KEY 标记
		"/alice/KEY/ksk-12345",       // 缺 ID-CERT
		"/ID-CERT",                   // 缺密钥名
	}
	for _, uri := range cases {
		if _, err := CertificateNameToPublicKeyName(types.MustParseName(uri)); !errors.Is(err, ErrInvalidName) {
			t.Errorf("CertificateNameToPublicKeyName(%q) error = %v, want ErrInvalidName", uri, err)
		}
	}
}

func TestNaming_CertificatePrefixToKeyName(t *testing.T) {
	prefix := types.MustParseName("/alice/KEY/ksk-12345/ID-CERT/%00")
	keyName, err := CertificatePrefixToKeyName(prefix)
	if err != nil {
		t.Fatalf("CertificatePrefixToKeyName() error = %v", err)
	}
	if got := keyName.String(); got != "/alice/KEY/ksk-12345" {
		t.Errorf("CertificatePrefixToKeyName() = %q, want %q", got, "/alice/KEY/ksk-12345")
	}

	if _, err := CertificatePrefixToKeyName(types.MustParseName("/alice/nokey")); !errors.Is(err, ErrInvalidName) {
		t.Errorf("CertificatePrefixToKeyName(no marker) error = %v, want ErrInvalidName", err)
	}
}
