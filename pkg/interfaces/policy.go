// Package interfaces 定义 go-ndn 公共接口
//
// 本文件定义验证策略接口与验证续接协议，对应 pkg/security/policy/ 实现。
package interfaces

import (
	"github.com/named-data/go-ndn/pkg/security"
	"github.com/named-data/go-ndn/pkg/types"
)

// ════════════════════════════════════════════════════════════════════════════
// 验证续接协议
// ════════════════════════════════════════════════════════════════════════════

// OnDataVerified Data 验证通过时的回调
type OnDataVerified func(data *security.Data)

// OnDataVerifyFailed Data 验证失败时的回调
//
// 验签不通过或找不到密钥都走这里，属于正常结果而非错误。
type OnDataVerifyFailed func(data *security.Data, reason string)

// OnInterestVerified Interest 验证通过时的回调
type OnInterestVerified func(interest *security.Interest)

// OnInterestVerifyFailed Interest 验证失败时的回调
type OnInterestVerifyFailed func(interest *security.Interest, reason string)

// ValidationRequest 非终态的验证续接请求
//
// 策略判定还缺少信息（通常是一张证书）时返回：由外部驱动循环
// 取回 Interest 指向的数据后调用 OnData 重入验证。StepCount
// 已经加一，驱动循环据此限制递归深度。
type ValidationRequest struct {
	// Interest 指向待取回数据（通常是证书）的请求
	Interest *security.Interest

	// OnData 取回数据后的重入点
	OnData func(interest *security.Interest, data *security.Data)

	// OnTimeout 取回超时的处理
	OnTimeout func(interest *security.Interest)

	// RetryCount 剩余重试次数
	RetryCount int

	// StepCount 下一步的递归深度
	StepCount int
}

// ════════════════════════════════════════════════════════════════════════════
// PolicyManager 接口
// ════════════════════════════════════════════════════════════════════════════

// PolicyManager 消息验证与签名授权的策略
//
// CheckVerificationPolicy 是一个两终态的状态机：终态是调用
// onVerified 或 onVerifyFailed 之一；非终态返回 ValidationRequest
// 请求更多数据。策略自身从不阻塞等待网络。
//
// 实现位置：pkg/security/policy/
type PolicyManager interface {
	// SkipVerifyAndTrust 判断消息是否无需验证直接信任
	SkipVerifyAndTrust(name *types.Name) bool

	// RequireVerify 判断消息是否必须验证
	RequireVerify(name *types.Name) bool

	// CheckVerificationPolicy 对 Data 执行一步验证
	//
	// 返回 nil 表示已到达终态（某个回调已被调用）；返回
	// ValidationRequest 表示需要取回更多数据后重入。
	// 结构性问题（不支持的签名方案、存储故障）返回 error，
	// 此时不调用任何回调。
	CheckVerificationPolicy(data *security.Data, stepCount int,
		onVerified OnDataVerified, onVerifyFailed OnDataVerifyFailed) (*ValidationRequest, error)

	// CheckInterestVerificationPolicy 对签名 Interest 执行一步验证
	CheckInterestVerificationPolicy(interest *security.Interest, stepCount int,
		onVerified OnInterestVerified, onVerifyFailed OnInterestVerifyFailed) (*ValidationRequest, error)

	// CheckSigningPolicy 判断证书是否允许为该数据名签名
	CheckSigningPolicy(dataName, certificateName *types.Name) bool

	// InferSigningIdentity 从数据名推断签名身份
	//
	// 无法推断时返回空名字。
	InferSigningIdentity(dataName *types.Name) *types.Name
}
