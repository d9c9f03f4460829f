// Package storage 提供身份记录持久化的存储引擎抽象
//
// Engine 是底层键值引擎的最小接口，badger.go 提供基于
// BadgerDB 的实现（支持纯内存模式，供测试使用）。
// Store 在引擎之上提供前缀隔离的命名空间。
//
// # 键空间设计
//
// 身份存储使用以下前缀约定：
//   - i/ - 身份记录
//   - k/ - 公钥记录
//   - c/ - 证书记录
//   - d/ - 默认指针
package storage
