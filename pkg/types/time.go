package types

import "time"

// ============================================================================
//                              Timestamp - 毫秒时间戳
// ============================================================================

// Timestamp 自 Unix 纪元起的毫秒数
//
// 使用 float64 表示以匹配线路数值编码：53 位整数精度
// 足以覆盖毫秒时间戳，往返编码不丢失。
type Timestamp float64

// TimestampFromTime 从 time.Time 创建时间戳
func TimestampFromTime(t time.Time) Timestamp {
	return Timestamp(t.UnixMilli())
}

// Time 将时间戳转换回 time.Time
func (ts Timestamp) Time() time.Time {
	return time.UnixMilli(int64(ts))
}

// Uint64 返回时间戳的整数毫秒值（用于名称数值分量）
func (ts Timestamp) Uint64() uint64 {
	if ts < 0 {
		return 0
	}
	return uint64(ts)
}

// Before 判断 ts 是否早于 other
func (ts Timestamp) Before(other Timestamp) bool {
	return ts < other
}

// After 判断 ts 是否晚于 other
func (ts Timestamp) After(other Timestamp) bool {
	return ts > other
}
