// Package security 实现 NDN 安全模型的核心数据类型
//
// 包含签名元数据（KeyLocator、Signature）、携带签名的消息
// （Data、Interest）、身份证书（IdentityCertificate）以及
// 名字约定（身份名 / 密钥名 / 证书名之间的映射）。
//
// 消息类型内部维护变更计数，线格式编码按计数缓存，
// 任何字段变更都会使缓存失效。
package security
