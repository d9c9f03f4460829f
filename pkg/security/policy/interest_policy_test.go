package policy

import (
	"errors"
	"testing"

	"github.com/named-data/go-ndn/pkg/security"
	"github.com/named-data/go-ndn/pkg/security/identity"
	"github.com/named-data/go-ndn/pkg/types"
)

// signedTestInterest 建好身份并返回已签名的 Interest 与配套存储
func signedTestInterest(t *testing.T) (*security.Interest, *identity.MemoryIdentityStorage) {
	t.Helper()

	identityStorage := identity.NewMemoryIdentityStorage()
	mgr := identity.NewManager(identityStorage, identity.NewMemoryPrivateKeyStorage(),
		identity.WithDefaultKeyParams(types.KeyTypeEC, 256))

	alice := types.MustParseName("/alice")
	if _, err := mgr.CreateIdentity(alice); err != nil {
		t.Fatalf("CreateIdentity() error = %v", err)
	}
	certName, err := mgr.GetDefaultCertificateNameForIdentity(alice)
	if err != nil {
		t.Fatalf("GetDefaultCertificateNameForIdentity() error = %v", err)
	}

	interest := security.NewInterestWithName(types.MustParseName("/alice/cmd/restart"))
	if err := mgr.SignInterestByCertificate(interest, certName, nil); err != nil {
		t.Fatalf("SignInterestByCertificate() error = %v", err)
	}
	return interest, identityStorage
}

func checkInterest(t *testing.T, p *SelfVerifyPolicyManager, interest *security.Interest) (bool, string) {
	t.Helper()

	verified := false
	reason := ""
	req, err := p.CheckInterestVerificationPolicy(interest, 0,
		func(i *security.Interest) { verified = true },
		func(i *security.Interest, r string) { reason = r })
	if err != nil {
		t.Fatalf("CheckInterestVerificationPolicy() error = %v", err)
	}
	if req != nil {
		t.Fatal("CheckInterestVerificationPolicy() returned a continuation, want terminal")
	}
	return verified, reason
}

func TestSelfVerify_InterestVerified(t *testing.T) {
	interest, identityStorage := signedTestInterest(t)
	p := NewSelfVerifyPolicyManager(identityStorage, nil)

	verified, reason := checkInterest(t, p, interest)
	if !verified {
		t.Errorf("interest verification failed: %s", reason)
	}
}

// 改动被签名的组件后旧签名失效
func TestSelfVerify_TamperedInterest(t *testing.T) {
	interest, identityStorage := signedTestInterest(t)
	p := NewSelfVerifyPolicyManager(identityStorage, nil)

	name := interest.Name()
	tampered := types.NewName()
	tampered.AppendString("mallory")
	for i := 1; i < name.Size(); i++ {
		tampered.Append(name.Get(i))
	}
	interest.SetName(tampered)

	verified, reason := checkInterest(t, p, interest)
	if verified {
		t.Error("tampered interest verified")
	}
	if reason != reasonBadSignature {
		t.Errorf("failure reason = %q, want %q", reason, reasonBadSignature)
	}
}

func TestSelfVerify_InterestUnknownKey(t *testing.T) {
	interest, _ := signedTestInterest(t)
	p := NewSelfVerifyPolicyManager(identity.NewMemoryIdentityStorage(), nil)

	verified, reason := checkInterest(t, p, interest)
	if verified {
		t.Error("interest verified without trust material")
	}
	if reason != reasonKeyNotFound {
		t.Errorf("failure reason = %q, want %q", reason, reasonKeyNotFound)
	}
}

// 名字太短或签名组件是乱码：结构性错误，不触发回调
func TestSelfVerify_MalformedInterest(t *testing.T) {
	p := NewSelfVerifyPolicyManager(nil, nil)

	short := security.NewInterestWithName(types.MustParseName("/a"))
	called := false
	_, err := p.CheckInterestVerificationPolicy(short, 0,
		func(i *security.Interest) { called = true },
		func(i *security.Interest, r string) { called = true })
	if !errors.Is(err, security.ErrMalformedInput) {
		t.Errorf("CheckInterestVerificationPolicy(short name) error = %v, want ErrMalformedInput", err)
	}

	garbage := security.NewInterestWithName(types.NewName().
		AppendString("a").AppendString("not-sig-info").AppendString("not-sig-value"))
	_, err = p.CheckInterestVerificationPolicy(garbage, 0,
		func(i *security.Interest) { called = true },
		func(i *security.Interest, r string) { called = true })
	if !errors.Is(err, security.ErrMalformedInput) {
		t.Errorf("CheckInterestVerificationPolicy(garbage) error = %v, want ErrMalformedInput", err)
	}
	if called {
		t.Error("callback invoked alongside a structural error")
	}
}
