package ndn

// Option 钥匙链的可选配置
type Option func(*KeyChain)

// WithCertificateFetcher 设置取回缺失证书的钩子
//
// 不设置时，策略返回的续接请求直接判为验证失败。
func WithCertificateFetcher(fetcher CertificateFetcher) Option {
	return func(kc *KeyChain) { kc.fetcher = fetcher }
}

// WithMaxVerifySteps 覆盖验证递归深度上限
func WithMaxVerifySteps(steps int) Option {
	return func(kc *KeyChain) {
		if steps > 0 {
			kc.maxVerifySteps = steps
		}
	}
}
