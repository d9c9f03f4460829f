// Package policy 提供消息验证与签名授权策略
//
// 两个实现：
//   - SelfVerifyPolicyManager：单步终态验证，用定位器指向的
//     本地已知公钥直接验签，从不请求取回更多数据
//   - NoVerifyPolicyManager：无条件信任，不做任何验证
package policy
