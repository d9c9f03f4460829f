// Package ndn 提供命名数据网络的身份与信任核心
//
// go-ndn 实现身份/密钥/证书的生命周期管理、基于证书的消息签名，
// 以及策略驱动的消息验证。
//
// # 核心概念
//
// 库围绕三个核心概念构建：
//
//   - KeyChain: 签名与验证的主入口，聚合下面两者
//   - IdentityManager: 身份、密钥与证书的生命周期
//   - PolicyManager: 验证策略（自验证 / 无验证）
//
// # 快速开始
//
//	import "github.com/named-data/go-ndn"
//
//	// 1. 创建钥匙链（nil 配置 = 内存存储 + 自验证策略）
//	kc, err := ndn.NewKeyChain(nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer kc.Close()
//
//	// 2. 创建身份（自动生成默认密钥与自签名证书）
//	keyName, err := kc.CreateIdentity(types.MustParseName("/alice"))
//
//	// 3. 签名与验证
//	data := security.NewDataWithName(types.MustParseName("/alice/doc"))
//	data.SetContent(payload)
//	err = kc.SignByIdentity(data, types.MustParseName("/alice"))
//
//	err = kc.VerifyData(data,
//	    func(d *security.Data) { /* 验证通过 */ },
//	    func(d *security.Data, reason string) { /* 验证失败 */ })
//
// # 命名约定
//
//	身份:   /alice
//	密钥:   /alice/KEY/ksk-1700000000000
//	证书:   /alice/KEY/ksk-1700000000000/ID-CERT/1700000000123
//
// 验证的续接协议（取回缺失证书后重入）由 KeyChain 的驱动循环
// 承担；网络取回本身通过 CertificateFetcher 钩子留给调用方。
package ndn
