package types

// ============================================================================
//                              变更计数
// ============================================================================

// Changeable 携带变更计数的可变值
//
// 约定：对象每次字段变更都递增计数；读取计数本身不算变更。
// 编码器据此判断缓存的派生结果（如线路编码）是否失效。
type Changeable interface {
	// ChangeCount 返回当前变更计数
	ChangeCount() uint64
}

// ChangeTracker 跟踪一个子对象的变更计数
//
// 复合值在读取自身计数时聚合子对象的计数：子对象可以在
// 不经过父对象 setter 的情况下独立变更（例如直接改写嵌套的
// KeyLocator），父对象通过 CheckChanged 感知并推进自身计数。
type ChangeTracker struct {
	target Changeable
	last   uint64
}

// NewChangeTracker 创建变更跟踪器
func NewChangeTracker(target Changeable) *ChangeTracker {
	var last uint64
	if target != nil {
		last = target.ChangeCount()
	}
	return &ChangeTracker{target: target, last: last}
}

// Target 返回被跟踪的对象
func (t *ChangeTracker) Target() Changeable {
	return t.target
}

// Set 替换被跟踪的对象
func (t *ChangeTracker) Set(target Changeable) {
	t.target = target
	if target != nil {
		t.last = target.ChangeCount()
	} else {
		t.last = 0
	}
}

// CheckChanged 检查子对象自上次调用以来是否变更
//
// 若变更则记录新计数并返回 true。父对象应在返回 true 时
// 递增自身计数。
func (t *ChangeTracker) CheckChanged() bool {
	if t.target == nil {
		return false
	}
	current := t.target.ChangeCount()
	if current != t.last {
		t.last = current
		return true
	}
	return false
}
