package settings

import (
	"sync"
	"time"
)

// DefaultDebounce is how long writes are held back before being flushed.
const DefaultDebounce = 500 * time.Millisecond

// Debounced coalesces bursts of writes (a slider being dragged) into one
// write per key once the burst has been quiet for the debounce delay.
// Reads see pending values immediately.
type Debounced struct {
	kv    KV
	delay time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	pending map[string]string
	onError func(error)
}

// NewDebounced wraps kv. onError, if set, receives flush failures.
func NewDebounced(kv KV, delay time.Duration, onError func(error)) *Debounced {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Debounced{
		kv:      kv,
		delay:   delay,
		pending: make(map[string]string),
		onError: onError,
	}
}

func (d *Debounced) GetSetting(key string) (string, bool, error) {
	d.mu.Lock()
	v, ok := d.pending[key]
	d.mu.Unlock()
	if ok {
		return v, true, nil
	}
	return d.kv.GetSetting(key)
}

// SetSetting records value and (re)arms the flush timer. It never fails;
// errors surface through onError when the write actually happens.
func (d *Debounced) SetSetting(key, value string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending[key] = value
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() {
		if err := d.Flush(); err != nil && d.onError != nil {
			d.onError(err)
		}
	})
	return nil
}

// Flush writes every pending value now.
func (d *Debounced) Flush() error {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	pending := d.pending
	d.pending = make(map[string]string)
	d.mu.Unlock()

	var firstErr error
	for k, v := range pending {
		if err := d.kv.SetSetting(k, v); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
