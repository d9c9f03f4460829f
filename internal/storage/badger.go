package storage

import (
	"errors"
	"sync/atomic"

	"github.com/dgraph-io/badger/v4"
	"github.com/named-data/go-ndn/pkg/lib/log"
)

// logger 是 badger 存储引擎的日志记录器
var logger = log.Logger("storage/badger")

// BadgerEngine 基于 BadgerDB 的存储引擎
type BadgerEngine struct {
	db     *badger.DB
	closed atomic.Bool
}

var _ Engine = (*BadgerEngine)(nil)

// OpenBadger 打开指定目录下的 BadgerDB 引擎
//
// path 为空时使用纯内存模式（数据不落盘，供测试使用）。
func OpenBadger(path string) (*BadgerEngine, error) {
	var opts badger.Options
	if path == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(path)
	}
	opts = opts.WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	logger.Debug("badger engine opened", "path", path, "in_memory", path == "")
	return &BadgerEngine{db: db}, nil
}

// Get 获取指定键的值
func (e *BadgerEngine) Get(key []byte) ([]byte, error) {
	if e.closed.Load() {
		return nil, ErrClosed
	}
	if len(key) == 0 {
		return nil, ErrEmptyKey
	}

	var value []byte
	err := e.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Put 设置键值对
func (e *BadgerEngine) Put(key, value []byte) error {
	if e.closed.Load() {
		return ErrClosed
	}
	if len(key) == 0 {
		return ErrEmptyKey
	}

	return e.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, value)
	})
}

// Delete 删除指定键
func (e *BadgerEngine) Delete(key []byte) error {
	if e.closed.Load() {
		return ErrClosed
	}
	if len(key) == 0 {
		return ErrEmptyKey
	}

	return e.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
}

// Has 检查键是否存在
func (e *BadgerEngine) Has(key []byte) (bool, error) {
	_, err := e.Get(key)
	if IsNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// PrefixScan 遍历具有指定前缀的键值对
func (e *BadgerEngine) PrefixScan(prefix []byte, fn func(key, value []byte) bool) error {
	if e.closed.Load() {
		return ErrClosed
	}

	return e.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			value, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			if !fn(item.Key(), value) {
				return nil
			}
		}
		return nil
	})
}

// Sync 同步数据到磁盘
func (e *BadgerEngine) Sync() error {
	if e.closed.Load() {
		return ErrClosed
	}
	if e.db.Opts().InMemory {
		return nil
	}
	return e.db.Sync()
}

// Close 关闭引擎，重复调用是安全的
func (e *BadgerEngine) Close() error {
	if !e.closed.CompareAndSwap(false, true) {
		return nil
	}
	logger.Debug("badger engine closed")
	return e.db.Close()
}
