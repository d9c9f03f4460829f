package storage

import "errors"

// 存储引擎错误定义
var (
	// ErrNotFound 键不存在
	ErrNotFound = errors.New("storage: key not found")

	// ErrEmptyKey 空键
	ErrEmptyKey = errors.New("storage: empty key")

	// ErrClosed 引擎已关闭
	ErrClosed = errors.New("storage: engine closed")

	// ErrCorrupted 数据损坏
	ErrCorrupted = errors.New("storage: data corrupted")
)

// IsNotFound 检查是否为 key not found 错误
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// Engine 底层键值引擎接口
//
// 所有实现必须保证线程安全。
type Engine interface {
	// Get 获取指定键的值，键不存在时返回 ErrNotFound
	Get(key []byte) ([]byte, error)

	// Put 设置键值对
	Put(key, value []byte) error

	// Delete 删除指定键，键不存在时不报错
	Delete(key []byte) error

	// Has 检查键是否存在
	Has(key []byte) (bool, error)

	// PrefixScan 遍历具有指定前缀的键值对
	//
	// 回调返回 false 时停止遍历。回调收到的切片仅在
	// 当次调用内有效，如需保留请复制。
	PrefixScan(prefix []byte, fn func(key, value []byte) bool) error

	// Sync 同步数据到磁盘
	Sync() error

	// Close 关闭引擎
	Close() error
}
