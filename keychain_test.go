package ndn

import (
	"errors"
	"testing"

	"github.com/named-data/go-ndn/config"
	"github.com/named-data/go-ndn/pkg/interfaces"
	"github.com/named-data/go-ndn/pkg/security"
	"github.com/named-data/go-ndn/pkg/types"
)

// newTestKeyChain 建一条内存钥匙链并创建默认身份
func newTestKeyChain(t *testing.T, opts ...Option) *KeyChain {
	t.Helper()

	cfg := config.NewConfig()
	cfg.Key.KeyType = "EC"
	kc, err := NewKeyChain(cfg, opts...)
	if err != nil {
		t.Fatalf("NewKeyChain() error = %v", err)
	}
	t.Cleanup(func() { _ = kc.Close() })

	if _, err := kc.CreateIdentity(types.MustParseName("/alice")); err != nil {
		t.Fatalf("CreateIdentity() error = %v", err)
	}
	return kc
}

// verifyData 跑完整驱动循环并返回 (verified, failReason)
func verifyData(t *testing.T, kc *KeyChain, data *security.Data) (bool, string) {
	t.Helper()

	verified := false
	reason := ""
	err := kc.VerifyData(data,
		func(d *security.Data) { verified = true },
		func(d *security.Data, r string) { reason = r })
	if err != nil {
		t.Fatalf("VerifyData() error = %v", err)
	}
	return verified, reason
}

func TestKeyChain_SignVerifyRoundTrip(t *testing.T) {
	kc := newTestKeyChain(t)

	data := security.NewDataWithName(types.MustParseName("/alice/docs/report"))
	data.SetContent([]byte("quarterly numbers"))
	if err := kc.SignByIdentity(data, nil); err != nil {
		t.Fatalf("SignByIdentity() error = %v", err)
	}
	if data.Signature() == nil {
		t.Fatal("data has no signature after signing")
	}

	verified, reason := verifyData(t, kc, data)
	if !verified {
		t.Errorf("verification failed: %s", reason)
	}
}

// 第一个身份自动成为默认身份，之后创建的身份不抢占
func TestKeyChain_FirstIdentityBecomesDefault(t *testing.T) {
	kc := newTestKeyChain(t)
	alice := types.MustParseName("/alice")

	defaultIdentity, err := kc.IdentityManager().GetDefaultIdentity()
	if err != nil {
		t.Fatalf("GetDefaultIdentity() error = %v", err)
	}
	if !defaultIdentity.Equal(alice) {
		t.Errorf("default identity = %s, want %s", defaultIdentity, alice)
	}

	if _, err := kc.CreateIdentity(types.MustParseName("/bob")); err != nil {
		t.Fatalf("CreateIdentity() error = %v", err)
	}
	defaultIdentity, err = kc.IdentityManager().GetDefaultIdentity()
	if err != nil {
		t.Fatalf("GetDefaultIdentity() error = %v", err)
	}
	if !defaultIdentity.Equal(alice) {
		t.Errorf("default identity after second create = %s, want %s", defaultIdentity, alice)
	}

	// SignByIdentity(nil) 用默认身份的密钥签名
	data := security.NewDataWithName(types.MustParseName("/shared/doc"))
	if err := kc.SignByIdentity(data, nil); err != nil {
		t.Fatalf("SignByIdentity(nil) error = %v", err)
	}
	locatorName := data.Signature().KeyLocator().KeyName()
	if !alice.IsPrefixOf(locatorName) {
		t.Errorf("signature key locator = %s, want prefix %s", locatorName, alice)
	}
}

func TestKeyChain_TamperedData(t *testing.T) {
	kc := newTestKeyChain(t)

	data := security.NewDataWithName(types.MustParseName("/alice/docs/report"))
	data.SetContent([]byte("original"))
	if err := kc.SignByIdentity(data, types.MustParseName("/alice")); err != nil {
		t.Fatalf("SignByIdentity() error = %v", err)
	}
	data.SetContent([]byte("forged"))

	verified, reason := verifyData(t, kc, data)
	if verified {
		t.Error("tampered data verified")
	}
	if reason == "" {
		t.Error("failure callback received an empty reason")
	}
}

func TestKeyChain_SignByCertificate(t *testing.T) {
	kc := newTestKeyChain(t)

	certName, err := kc.IdentityManager().GetDefaultCertificateNameForIdentity(
		types.MustParseName("/alice"))
	if err != nil {
		t.Fatalf("GetDefaultCertificateNameForIdentity() error = %v", err)
	}

	data := security.NewDataWithName(types.MustParseName("/alice/photos/cat"))
	data.SetContent([]byte("meow"))
	if err := kc.SignByCertificate(data, certName); err != nil {
		t.Fatalf("SignByCertificate() error = %v", err)
	}

	verified, reason := verifyData(t, kc, data)
	if !verified {
		t.Errorf("verification failed: %s", reason)
	}
}

func TestKeyChain_SignedInterestRoundTrip(t *testing.T) {
	kc := newTestKeyChain(t)

	interest := security.NewInterestWithName(types.MustParseName("/alice/cmd/restart"))
	if err := kc.SignInterestByIdentity(interest, nil); err != nil {
		t.Fatalf("SignInterestByIdentity() error = %v", err)
	}
	if interest.Name().Size() < security.SignedInterestComponentCount {
		t.Fatalf("signed interest name has %d components, want >= %d",
			interest.Name().Size(), security.SignedInterestComponentCount)
	}

	verified := false
	reason := ""
	err := kc.VerifyInterest(interest,
		func(i *security.Interest) { verified = true },
		func(i *security.Interest, r string) { reason = r })
	if err != nil {
		t.Fatalf("VerifyInterest() error = %v", err)
	}
	if !verified {
		t.Errorf("verification failed: %s", reason)
	}
}

// no-verify 模式不检查签名，未签名的 Data 也直接信任
func TestKeyChain_NoVerifyMode(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Key.KeyType = "EC"
	cfg.Policy.Mode = "no-verify"
	kc, err := NewKeyChain(cfg)
	if err != nil {
		t.Fatalf("NewKeyChain() error = %v", err)
	}
	t.Cleanup(func() { _ = kc.Close() })

	data := security.NewDataWithName(types.MustParseName("/unsigned"))
	verified, reason := verifyData(t, kc, data)
	if !verified {
		t.Errorf("no-verify policy rejected data: %s", reason)
	}
}

func TestKeyChain_Close(t *testing.T) {
	kc := newTestKeyChain(t)

	if err := kc.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := kc.Close(); err != nil {
		t.Errorf("second Close() error = %v, want nil", err)
	}

	if _, err := kc.CreateIdentity(types.MustParseName("/bob")); !errors.Is(err, ErrClosed) {
		t.Errorf("CreateIdentity() after Close error = %v, want ErrClosed", err)
	}
	data := security.NewDataWithName(types.MustParseName("/alice/late"))
	if err := kc.SignByIdentity(data, nil); !errors.Is(err, ErrClosed) {
		t.Errorf("SignByIdentity() after Close error = %v, want ErrClosed", err)
	}
	err := kc.VerifyData(data,
		func(d *security.Data) {},
		func(d *security.Data, r string) {})
	if !errors.Is(err, ErrClosed) {
		t.Errorf("VerifyData() after Close error = %v, want ErrClosed", err)
	}
}

// ============================================================================
//                              驱动循环
// ============================================================================

// stubPolicy 永远返回续接请求的策略，用于驱动循环测试
type stubPolicy struct {
	skip    bool
	require bool
}

func (p *stubPolicy) SkipVerifyAndTrust(name *types.Name) bool { return p.skip }
func (p *stubPolicy) RequireVerify(name *types.Name) bool      { return p.require }

func (p *stubPolicy) CheckVerificationPolicy(data *security.Data, stepCount int,
	onVerified interfaces.OnDataVerified, onVerifyFailed interfaces.OnDataVerifyFailed) (*interfaces.ValidationRequest, error) {

	return &interfaces.ValidationRequest{
		Interest:  security.NewInterestWithName(types.MustParseName("/missing/cert")),
		StepCount: stepCount + 1,
	}, nil
}

func (p *stubPolicy) CheckInterestVerificationPolicy(interest *security.Interest, stepCount int,
	onVerified interfaces.OnInterestVerified, onVerifyFailed interfaces.OnInterestVerifyFailed) (*interfaces.ValidationRequest, error) {

	return &interfaces.ValidationRequest{
		Interest:  security.NewInterestWithName(types.MustParseName("/missing/cert")),
		StepCount: stepCount + 1,
	}, nil
}

func (p *stubPolicy) CheckSigningPolicy(dataName, certificateName *types.Name) bool { return true }
func (p *stubPolicy) InferSigningIdentity(dataName *types.Name) *types.Name {
	return types.NewName()
}

func TestKeyChain_NoFetcher(t *testing.T) {
	kc := NewKeyChainWith(nil, nil, &stubPolicy{require: true})

	reason := ""
	err := kc.VerifyData(security.NewDataWithName(types.MustParseName("/anything")),
		func(d *security.Data) { t.Error("data verified without trust material") },
		func(d *security.Data, r string) { reason = r })
	if err != nil {
		t.Fatalf("VerifyData() error = %v", err)
	}
	if reason != ReasonNoFetcher {
		t.Errorf("failure reason = %q, want %q", reason, ReasonNoFetcher)
	}
}

func TestKeyChain_FetcherInvoked(t *testing.T) {
	var got *interfaces.ValidationRequest
	kc := NewKeyChainWith(nil, nil, &stubPolicy{require: true},
		WithCertificateFetcher(func(req *interfaces.ValidationRequest) error {
			got = req
			return nil
		}))

	err := kc.VerifyData(security.NewDataWithName(types.MustParseName("/anything")),
		func(d *security.Data) { t.Error("data verified without trust material") },
		func(d *security.Data, r string) { t.Errorf("unexpected failure: %s", r) })
	if err != nil {
		t.Fatalf("VerifyData() error = %v", err)
	}
	if got == nil {
		t.Fatal("certificate fetcher was not invoked")
	}
	if got.StepCount != 1 {
		t.Errorf("request StepCount = %d, want 1", got.StepCount)
	}
	if got.Interest == nil {
		t.Error("request carries no interest")
	}
}

func TestKeyChain_MaxStepsExceeded(t *testing.T) {
	fetched := false
	ceilingReason := ""
	var kc *KeyChain
	kc = NewKeyChainWith(nil, nil, &stubPolicy{require: true},
		WithMaxVerifySteps(1),
		WithCertificateFetcher(func(req *interfaces.ValidationRequest) error {
			fetched = true
			// 模拟取回后重入：深度累加直到超过上限
			return kc.continueValidation(&interfaces.ValidationRequest{StepCount: req.StepCount + 1},
				func(r string) { ceilingReason = r })
		}))

	err := kc.VerifyData(security.NewDataWithName(types.MustParseName("/anything")),
		func(d *security.Data) { t.Error("data verified without trust material") },
		func(d *security.Data, r string) { t.Errorf("unexpected outer failure: %s", r) })
	if err != nil {
		t.Fatalf("VerifyData() error = %v", err)
	}
	if !fetched {
		t.Fatal("certificate fetcher was not invoked")
	}
	if ceilingReason != ReasonMaxStepsExceeded {
		t.Errorf("failure reason = %q, want %q", ceilingReason, ReasonMaxStepsExceeded)
	}
}

func TestKeyChain_PolicyRefused(t *testing.T) {
	kc := NewKeyChainWith(nil, nil, &stubPolicy{})

	reason := ""
	err := kc.VerifyData(security.NewDataWithName(types.MustParseName("/anything")),
		func(d *security.Data) { t.Error("refused data verified") },
		func(d *security.Data, r string) { reason = r })
	if err != nil {
		t.Fatalf("VerifyData() error = %v", err)
	}
	if reason != ReasonPolicyRefused {
		t.Errorf("failure reason = %q, want %q", reason, ReasonPolicyRefused)
	}
}
