// Package types 定义 go-ndn 的基础类型
//
// 这是整个系统的最底层包，不依赖任何其他 go-ndn 内部包。
// 所有类型都是纯值类型，用于在各模块间传递数据：
//   - Name/Component: NDN 层次化名称
//   - KeyType/KeyClass/DigestAlgorithm: 密钥相关枚举
//   - Timestamp: 毫秒时间戳（浮点表示，与线路数值编码一致）
//   - ChangeTracker: 变更计数容器（用于缓存编码失效判断）
package types
