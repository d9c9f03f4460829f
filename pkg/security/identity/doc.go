// Package identity 实现身份、密钥与证书的生命周期管理
//
// IdentityManager 是唯一允许修改默认指针（默认身份、身份的
// 默认密钥、密钥的默认证书）的入口，它协调两个存储协作者：
// IdentityStorage 保存公开记录，PrivateKeyStorage 保管私钥。
//
// 两种 IdentityStorage 实现：MemoryIdentityStorage（进程内，
// 测试用）与 BasicIdentityStorage（BadgerDB 持久化）。
// 两种 PrivateKeyStorage 实现：MemoryPrivateKeyStorage 与
// FilePrivateKeyStorage（加密文件）。
package identity
