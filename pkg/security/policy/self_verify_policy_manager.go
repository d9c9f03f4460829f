package policy

import (
	"fmt"

	"github.com/named-data/go-ndn/pkg/interfaces"
	"github.com/named-data/go-ndn/pkg/lib/log"
	"github.com/named-data/go-ndn/pkg/security"
	"github.com/named-data/go-ndn/pkg/types"
)

var logger = log.Logger("security/policy")

// 验证失败原因（回调的 reason 参数）
const (
	reasonBadSignature    = "signature does not verify"
	reasonKeyNotFound     = "signer key not in identity storage"
	reasonNoIdentityStore = "KEYNAME locator but no identity storage"
	reasonBadLocator      = "key locator does not identify a key"
	reasonBadKeyData      = "key locator carries undecodable key bytes"
	reasonKeyTypeMismatch = "signer key type does not match signature scheme"
)

// SelfVerifyPolicyManager 单步自验证策略
//
// 验证只依赖消息自带的定位信息与本地身份存储：KEY 定位器
// 直接使用内嵌公钥，KEYNAME 定位器经证书名映射到密钥名后
// 查本地存储。缺少密钥是失败回调而不是错误；不支持的签名
// 方案是错误而不是回调。本策略永远在一步内到达终态。
type SelfVerifyPolicyManager struct {
	identityStorage interfaces.IdentityStorage
	wireFormat      security.WireFormat
}

var _ interfaces.PolicyManager = (*SelfVerifyPolicyManager)(nil)

// NewSelfVerifyPolicyManager 创建自验证策略
//
// identityStorage 可以为 nil：此时 KEYNAME 定位器一律走失败
// 回调。wf 为 nil 时使用默认线格式。
func NewSelfVerifyPolicyManager(identityStorage interfaces.IdentityStorage,
	wf security.WireFormat) *SelfVerifyPolicyManager {
	return &SelfVerifyPolicyManager{
		identityStorage: identityStorage,
		wireFormat:      wf,
	}
}

// SkipVerifyAndTrust 本策略不做隐式信任
func (p *SelfVerifyPolicyManager) SkipVerifyAndTrust(name *types.Name) bool { return false }

// RequireVerify 本策略要求验证所有消息
func (p *SelfVerifyPolicyManager) RequireVerify(name *types.Name) bool { return true }

// CheckVerificationPolicy 对 Data 执行一步验证
//
// 返回值恒为 nil：本策略总在一步内调用某个回调。
func (p *SelfVerifyPolicyManager) CheckVerificationPolicy(data *security.Data, stepCount int,
	onVerified interfaces.OnDataVerified,
	onVerifyFailed interfaces.OnDataVerifyFailed) (*interfaces.ValidationRequest, error) {

	sig := data.Signature()
	if sig == nil {
		return nil, fmt.Errorf("%w: data has no signature", security.ErrMalformedInput)
	}
	if _, ok := security.SignatureKeyType(sig); !ok {
		return nil, fmt.Errorf("%w: signature scheme %T", security.ErrUnsupportedScheme, sig)
	}

	encoding, err := data.WireEncode(p.wireFormat)
	if err != nil {
		return nil, err
	}

	ok, reason, err := p.verifySignature(sig, encoding.SignedPortion())
	if err != nil {
		return nil, err
	}
	if !ok {
		logger.Debug("data verification failed", "name", data.Name().String(), "reason", reason)
		onVerifyFailed(data, reason)
		return nil, nil
	}
	onVerified(data)
	return nil, nil
}

// CheckInterestVerificationPolicy 对签名 Interest 执行一步验证
//
// 名字的最后两个组件按线格式解出签名信息与签名值，
// 解码失败属于结构性错误。
func (p *SelfVerifyPolicyManager) CheckInterestVerificationPolicy(interest *security.Interest,
	stepCount int, onVerified interfaces.OnInterestVerified,
	onVerifyFailed interfaces.OnInterestVerifyFailed) (*interfaces.ValidationRequest, error) {

	format := p.wireFormat
	if format == nil {
		format = security.DefaultWireFormat()
	}
	if format == nil {
		return nil, security.ErrUnsupported
	}

	name := interest.Name()
	if name.Size() < security.SignedInterestComponentCount {
		return nil, fmt.Errorf("%w: interest name too short for a signature", security.ErrMalformedInput)
	}

	sig, err := format.DecodeSignatureInfo(name.Get(-2).Value())
	if err != nil {
		return nil, err
	}
	if err := format.DecodeSignatureValue(sig, name.Get(-1).Value()); err != nil {
		return nil, err
	}

	encoding, err := interest.WireEncode(format)
	if err != nil {
		return nil, err
	}

	ok, reason, err := p.verifySignature(sig, encoding.SignedPortion())
	if err != nil {
		return nil, err
	}
	if !ok {
		logger.Debug("interest verification failed", "name", name.String(), "reason", reason)
		onVerifyFailed(interest, reason)
		return nil, nil
	}
	onVerified(interest)
	return nil, nil
}

// CheckSigningPolicy 本策略不限制证书与数据名的配对
func (p *SelfVerifyPolicyManager) CheckSigningPolicy(dataName, certificateName *types.Name) bool {
	return true
}

// InferSigningIdentity 本策略无法从数据名推断身份，返回空名字
func (p *SelfVerifyPolicyManager) InferSigningIdentity(dataName *types.Name) *types.Name {
	return types.NewName()
}

// ============================================================================
//                              签名解析与验证
// ============================================================================

// verifySignature 解析定位器并验签
//
// 返回 (是否通过, 失败原因, 结构性错误)。失败原因只在
// 未通过且无错误时有意义。
func (p *SelfVerifyPolicyManager) verifySignature(sig security.Signature,
	signedPortion []byte) (bool, string, error) {

	keyType, ok := security.SignatureKeyType(sig)
	if !ok {
		return false, "", fmt.Errorf("%w: signature scheme %T", security.ErrUnsupportedScheme, sig)
	}

	publicKey, reason, err := p.resolvePublicKey(sig.KeyLocator())
	if err != nil {
		return false, "", err
	}
	if publicKey == nil {
		return false, reason, nil
	}
	if publicKey.KeyType() != keyType {
		return false, reasonKeyTypeMismatch, nil
	}

	verifier, err := publicKey.Parse()
	if err != nil {
		return false, reasonBadKeyData, nil
	}
	ok, err = verifier.Verify(signedPortion, sig.SignatureBytes())
	if err != nil {
		return false, "", err
	}
	if !ok {
		return false, reasonBadSignature, nil
	}
	return true, "", nil
}

// resolvePublicKey 根据定位器取得公钥
//
// 返回 (公钥, 失败原因, 结构性错误)。公钥为 nil 且无错误时
// 表示失败回调路径（缺少信任材料属于正常结果）。
func (p *SelfVerifyPolicyManager) resolvePublicKey(locator *security.KeyLocator) (*security.PublicKey, string, error) {
	if locator == nil {
		return nil, reasonBadLocator, nil
	}

	switch locator.Type() {
	case security.KeyLocatorTypeKey:
		publicKey, err := security.PublicKeyFromDer(locator.KeyData())
		if err != nil {
			return nil, reasonBadKeyData, nil
		}
		return publicKey, "", nil

	case security.KeyLocatorTypeKeyName:
		if p.identityStorage == nil {
			return nil, reasonNoIdentityStore, nil
		}
		keyName, err := security.CertificateNameToPublicKeyName(locator.KeyName())
		if err != nil {
			return nil, reasonBadLocator, nil
		}
		der, err := p.identityStorage.GetKey(keyName)
		if security.IsNotFound(err) {
			return nil, reasonKeyNotFound, nil
		}
		if err != nil {
			return nil, "", err
		}
		keyType, err := p.identityStorage.GetKeyType(keyName)
		if err != nil {
			return nil, "", err
		}
		return security.NewPublicKey(keyType, der), "", nil

	default:
		return nil, reasonBadLocator, nil
	}
}
