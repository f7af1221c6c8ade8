package ratelimit

import (
	"sync"
	"time"

	"github.com/garyellow/umigame-linebot-go/internal/metrics"
)

// KeyedConfig configures a KeyedLimiter instance.
type KeyedConfig struct {
	// Name labels the limiter in metrics ("user", "llm").
	Name string

	Burst      float64 // bucket capacity
	RefillRate float64 // tokens per second

	// DailyLimit caps requests per key over a rolling 24h window. 0 disables it.
	DailyLimit int

	// CleanupPeriod is how often idle keys are forgotten.
	CleanupPeriod time.Duration

	Metrics *metrics.Metrics
}

// KeyedLimiter keeps one token bucket per key. Keys are chat-source rate keys:
// the user ID when known, otherwise the group or room ID.
type KeyedLimiter struct {
	mu      sync.RWMutex
	entries map[string]*keyedEntry
	config  KeyedConfig
	stopCh  chan struct{}
	once    sync.Once
}

// keyedEntry serializes check-then-consume across the bucket and the daily window.
type keyedEntry struct {
	mu      sync.Mutex
	limiter *Limiter
	daily   *SlidingWindowCounter // nil when DailyLimit is 0
}

// NewKeyedLimiter starts a limiter and its cleanup goroutine. Call Stop when done.
func NewKeyedLimiter(cfg KeyedConfig) *KeyedLimiter {
	if cfg.CleanupPeriod <= 0 {
		cfg.CleanupPeriod = 5 * time.Minute
	}
	kl := &KeyedLimiter{
		entries: make(map[string]*keyedEntry),
		config:  cfg,
		stopCh:  make(chan struct{}),
	}
	go kl.cleanupLoop()
	return kl
}

// Allow consumes one token for key. The empty key is never limited.
func (kl *KeyedLimiter) Allow(key string) bool {
	if key == "" {
		return true
	}

	entry := kl.getOrCreateEntry(key)
	entry.mu.Lock()
	defer entry.mu.Unlock()

	if !entry.daily.Check() || !entry.limiter.Check() {
		kl.config.Metrics.RecordRateLimiterDrop(kl.config.Name)
		return false
	}

	entry.daily.Consume()
	entry.limiter.Consume()
	return true
}

func (kl *KeyedLimiter) getOrCreateEntry(key string) *keyedEntry {
	kl.mu.RLock()
	entry, ok := kl.entries[key]
	kl.mu.RUnlock()
	if ok {
		return entry
	}

	kl.mu.Lock()
	defer kl.mu.Unlock()

	if entry, ok = kl.entries[key]; ok {
		return entry
	}
	entry = &keyedEntry{
		limiter: New(kl.config.Burst, kl.config.RefillRate),
		daily:   NewSlidingWindowCounter(kl.config.DailyLimit, 24*time.Hour),
	}
	kl.entries[key] = entry
	return entry
}

func (kl *KeyedLimiter) cleanupLoop() {
	ticker := time.NewTicker(kl.config.CleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-kl.stopCh:
			return
		case <-ticker.C:
			kl.sweep()
		}
	}
}

// sweep forgets keys whose bucket refilled completely. Keys with daily usage
// are kept so the rolling quota survives idle periods.
func (kl *KeyedLimiter) sweep() {
	kl.mu.Lock()
	for key, entry := range kl.entries {
		entry.mu.Lock()
		idle := entry.limiter.IsFull() && (entry.daily == nil || entry.daily.GetEffectiveCount() == 0)
		entry.mu.Unlock()
		if idle {
			delete(kl.entries, key)
		}
	}
	n := len(kl.entries)
	kl.mu.Unlock()

	kl.config.Metrics.SetRateLimiterKeys(kl.config.Name, n)
}

// Stop ends the cleanup goroutine. Safe to call multiple times.
func (kl *KeyedLimiter) Stop() {
	kl.once.Do(func() { close(kl.stopCh) })
}
