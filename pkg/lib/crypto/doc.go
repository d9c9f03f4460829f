// Package crypto 提供 go-ndn 密码学原语
//
// 本包封装底层密钥对的生成、DER 序列化和原始签名/验证操作：
//   - RSA（PKCS#1 v1.5 + SHA-256）
//   - EC（ECDSA P-256 + SHA-256）
//   - AES 对称密钥生成
//
// 上层的身份管理与信任策略在 pkg/security 及其子包中实现，
// 只通过这里的接口访问密码学原语。
package crypto
