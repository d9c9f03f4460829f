package types

import "testing"

type countedValue struct {
	count uint64
}

func (v *countedValue) ChangeCount() uint64 { return v.count }

func TestChangeTracker_CheckChanged(t *testing.T) {
	v := &countedValue{}
	tracker := NewChangeTracker(v)

	if tracker.CheckChanged() {
		t.Error("CheckChanged() = true without mutation")
	}

	v.count++
	if !tracker.CheckChanged() {
		t.Error("CheckChanged() = false after mutation")
	}
	// 已经记录过，新的读取不应再报告变更
	if tracker.CheckChanged() {
		t.Error("CheckChanged() = true twice for one mutation")
	}
}

func TestChangeTracker_Set(t *testing.T) {
	v1 := &countedValue{count: 5}
	tracker := NewChangeTracker(v1)

	v2 := &countedValue{count: 9}
	tracker.Set(v2)

	// Set 记录新目标当前计数，替换本身不算子对象变更
	if tracker.CheckChanged() {
		t.Error("CheckChanged() = true right after Set")
	}
	v2.count++
	if !tracker.CheckChanged() {
		t.Error("CheckChanged() = false after new target mutation")
	}
}

func TestChangeTracker_NilTarget(t *testing.T) {
	tracker := NewChangeTracker(nil)
	if tracker.CheckChanged() {
		t.Error("CheckChanged() = true for nil target")
	}
}
