package ndn

import "errors"

// 公共错误定义
var (
	// ErrClosed 钥匙链已关闭
	ErrClosed = errors.New("keychain closed")

	// ErrNoPolicy 未配置验证策略
	ErrNoPolicy = errors.New("no policy manager configured")
)

// 驱动循环的验证失败原因（回调的 reason 参数）
const (
	// ReasonMaxStepsExceeded 验证递归深度超限
	ReasonMaxStepsExceeded = "maximum verification steps exceeded"

	// ReasonNoFetcher 策略请求取回数据但未配置取回钩子
	ReasonNoFetcher = "validation requires a fetch but no certificate fetcher is configured"

	// ReasonPolicyRefused 策略既不要求验证也不跳过信任
	ReasonPolicyRefused = "policy neither requires verification nor trusts the message"
)
