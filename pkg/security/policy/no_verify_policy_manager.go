package policy

import (
	"github.com/named-data/go-ndn/pkg/interfaces"
	"github.com/named-data/go-ndn/pkg/security"
	"github.com/named-data/go-ndn/pkg/types"
)

// NoVerifyPolicyManager 无条件信任策略
//
// 所有消息直接走验证通过回调，不触碰签名。只适合
// 封闭环境或测试。
type NoVerifyPolicyManager struct{}

var _ interfaces.PolicyManager = (*NoVerifyPolicyManager)(nil)

// NewNoVerifyPolicyManager 创建无验证策略
func NewNoVerifyPolicyManager() *NoVerifyPolicyManager {
	return &NoVerifyPolicyManager{}
}

// SkipVerifyAndTrust 所有消息免验证
func (p *NoVerifyPolicyManager) SkipVerifyAndTrust(name *types.Name) bool { return true }

// RequireVerify 不要求验证
func (p *NoVerifyPolicyManager) RequireVerify(name *types.Name) bool { return false }

// CheckVerificationPolicy 直接判定通过
func (p *NoVerifyPolicyManager) CheckVerificationPolicy(data *security.Data, stepCount int,
	onVerified interfaces.OnDataVerified,
	onVerifyFailed interfaces.OnDataVerifyFailed) (*interfaces.ValidationRequest, error) {
	onVerified(data)
	return nil, nil
}

// CheckInterestVerificationPolicy 直接判定通过
func (p *NoVerifyPolicyManager) CheckInterestVerificationPolicy(interest *security.Interest,
	stepCount int, onVerified interfaces.OnInterestVerified,
	onVerifyFailed interfaces.OnInterestVerifyFailed) (*interfaces.ValidationRequest, error) {
	onVerified(interest)
	return nil, nil
}

// CheckSigningPolicy 不限制
func (p *NoVerifyPolicyManager) CheckSigningPolicy(dataName, certificateName *types.Name) bool {
	return true
}

// InferSigningIdentity 返回空名字
func (p *NoVerifyPolicyManager) InferSigningIdentity(dataName *types.Name) *types.Name {
	return types.NewName()
}
