package concurrency

import (
	"fmt"
	realsync "sync"
	"time"

	sync "github.com/bacalhau-project/golang-mutex-tracer"
)

const lockHoldWarningThreshold = 10 * time.Second

// KeyedMutex hands out one mutex per name. It is meant to be owned by a single client
// instance, so that two instances never contend on the same name.
type KeyedMutex struct {
	name  string
	mu    realsync.Mutex
	locks map[string]*sync.Mutex
}

func NewKeyedMutex(name string) *KeyedMutex {
	return &KeyedMutex{
		name:  name,
		locks: make(map[string]*sync.Mutex),
	}
}

// Lock blocks until the mutex for key is held and returns the function releasing it.
func (k *KeyedMutex) Lock(key string) (unlock func()) {
	m := k.get(key)
	m.Lock()

	var once realsync.Once
	return func() { once.Do(m.Unlock) }
}

// WithLock runs fn while holding the mutex for key. The mutex is released on every exit path,
// including a panic in fn.
func WithLock[T any](k *KeyedMutex, key string, fn func() (T, error)) (T, error) {
	unlock := k.Lock(key)
	defer unlock()
	return fn()
}

func (k *KeyedMutex) get(key string) *sync.Mutex {
	k.mu.Lock()
	defer k.mu.Unlock()

	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		m.EnableTracerWithOpts(sync.Opts{
			Threshold: lockHoldWarningThreshold,
			Id:        fmt.Sprintf("%s[%s]", k.name, key),
		})
		k.locks[key] = m
	}
	return m
}
