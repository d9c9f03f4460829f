// Package encoding 实现 TLV 线格式编解码
//
// 消息编码为嵌套的 TLV（类型-长度-值）块，类型号与长度
// 均使用无符号 varint。编码器同时标记被签名区间：Data 的
// 区间覆盖名字至签名信息，签名 Interest 的区间覆盖除最后
// 一个名字组件（签名值）之外的全部名字组件。
//
// 导入本包会把 TLV 格式注册为全局默认线格式。
package encoding
