package container

import (
	"sync"
	"sync/atomic"
)

// RCUMap 读操作无锁, 写操作串行并且拷贝整个map
// 只适合key数量少并且几乎只读的场景, 比如按类型缓存的契约描述
type RCUMap[Key comparable, Val any] struct {
	mu      sync.Mutex
	pointer atomic.Pointer[map[Key]Val]
}

func NewRCUMap[K comparable, V any]() *RCUMap[K, V] {
	m := new(RCUMap[K, V])
	tmp := make(map[K]V, 16)
	m.pointer.Store(&tmp)
	return m
}

func (R *RCUMap[Key, Val]) LoadOk(key Key) (Val, bool) {
	val, ok := (*R.pointer.Load())[key]
	return val, ok
}

// LoadOrStore key已经存在时返回已有的值和true, 否则写入val并返回val和false
// 并发的首次写入只有一个会生效, 其它调用者都会拿到生效的那个值
func (R *RCUMap[Key, Val]) LoadOrStore(key Key, val Val) (Val, bool) {
	if old, ok := R.LoadOk(key); ok {
		return old, true
	}
	R.mu.Lock()
	defer R.mu.Unlock()
	if old, ok := (*R.pointer.Load())[key]; ok {
		return old, true
	}
	copyMap := R.copy(1)
	copyMap[key] = val
	R.pointer.Store(&copyMap)
	return val, false
}

func (R *RCUMap[Key, Val]) Store(key Key, val Val) {
	R.mu.Lock()
	defer R.mu.Unlock()
	copyMap := R.copy(1)
	copyMap[key] = val
	R.pointer.Store(&copyMap)
}

func (R *RCUMap[Key, Val]) Delete(key Key) {
	R.mu.Lock()
	defer R.mu.Unlock()
	if _, ok := (*R.pointer.Load())[key]; !ok {
		return
	}
	copyMap := R.copy(0)
	delete(copyMap, key)
	R.pointer.Store(&copyMap)
}

func (R *RCUMap[Key, Val]) Range(fn func(key Key, val Val) bool) {
	for k, v := range *R.pointer.Load() {
		if !fn(k, v) {
			break
		}
	}
}

func (R *RCUMap[Key, Val]) Len() int {
	return len(*R.pointer.Load())
}

func (R *RCUMap[Key, Val]) copy(extra int) map[Key]Val {
	snapshot := *R.pointer.Load()
	copyMap := make(map[Key]Val, len(snapshot)+extra)
	for k, v := range snapshot {
		copyMap[k] = v
	}
	return copyMap
}
