package monitoring

import (
	"context"
	"math"
	"runtime"
	"sync"
	"time"
)

// DefaultSampleInterval is how often runtime figures are refreshed
const DefaultSampleInterval = 30 * time.Second

// Snapshot is a point-in-time copy of the server metrics
type Snapshot struct {
	StartTime  time.Time `json:"startTime"`
	LastSample time.Time `json:"lastSample"`
	Uptime     string    `json:"uptime"`

	// Deck compilation
	DecksBuilt       int64   `json:"decksBuilt"`
	DeckFailures     int64   `json:"deckFailures"`
	AverageBuildMs   float64 `json:"averageBuildMs"`
	SlowestBuildMs   float64 `json:"slowestBuildMs"`
	SlidesCompiled   int64   `json:"slidesCompiled"`
	NavigationOpened int64   `json:"navigationOpened"`

	// HTTP
	Requests     int64 `json:"requests"`
	ServerErrors int64 `json:"serverErrors"`

	// Runtime
	MemoryMB   int64  `json:"memoryMb"`
	Goroutines int    `json:"goroutines"`
	GCCycles   uint32 `json:"gcCycles"`
}

// Monitor collects counters for the running server.
// All Record methods are safe on a nil *Monitor.
type Monitor struct {
	mu       sync.RWMutex
	now      func() time.Time
	interval time.Duration
	stopCh   chan struct{}
	running  bool

	start        time.Time
	lastSample   time.Time
	decksBuilt   int64
	deckFailures int64
	avgBuild     time.Duration
	slowestBuild time.Duration
	slides       int64
	navOpened    int64
	requests     int64
	serverErrors int64
	memory       int64
	goroutines   int
	gcCycles     uint32
}

// NewMonitor creates a monitor sampling the runtime every interval.
// A non-positive interval uses DefaultSampleInterval.
func NewMonitor(interval time.Duration) *Monitor {
	if interval <= 0 {
		interval = DefaultSampleInterval
	}
	return &Monitor{
		now:      time.Now,
		interval: interval,
		start:    time.Now(),
	}
}

// Start samples the runtime until ctx is done or Stop is called
func (m *Monitor) Start(ctx context.Context) {
	if m == nil {
		return
	}

	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return
	}
	m.running = true
	m.stopCh = make(chan struct{})
	stopCh := m.stopCh
	m.mu.Unlock()

	m.sample()
	go m.collect(ctx, stopCh)
}

// Stop ends sampling; counters are kept
func (m *Monitor) Stop() {
	if m == nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return
	}
	m.running = false
	close(m.stopCh)
}

func (m *Monitor) collect(ctx context.Context, stopCh chan struct{}) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.stopRun(stopCh)
			return
		case <-stopCh:
			return
		case <-ticker.C:
			m.sample()
		}
	}
}

// stopRun stops sampling only if stopCh still belongs to the current run
func (m *Monitor) stopRun(stopCh chan struct{}) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running && m.stopCh == stopCh {
		m.running = false
		close(m.stopCh)
	}
}

func (m *Monitor) sample() {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	goroutines := runtime.NumGoroutine()

	m.mu.Lock()
	defer m.mu.Unlock()

	m.memory = safeUint64ToInt64(memStats.Alloc) / (1024 * 1024)
	m.goroutines = goroutines
	m.gcCycles = memStats.NumGC
	m.lastSample = m.now()
}

// RecordDeckBuild records one deck compilation and its slide count
func (m *Monitor) RecordDeckBuild(d time.Duration, slides int, err error) {
	if m == nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err != nil {
		m.deckFailures++
		return
	}

	m.decksBuilt++
	m.slides += int64(slides)
	if d > m.slowestBuild {
		m.slowestBuild = d
	}

	// exponential moving average, seeded with the first build
	if m.avgBuild == 0 {
		m.avgBuild = d
	} else {
		const alpha = 0.1
		m.avgBuild = time.Duration(float64(m.avgBuild)*(1-alpha) + float64(d)*alpha)
	}
}

// RecordRequest records a served request and its status
func (m *Monitor) RecordRequest(status int) {
	if m == nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests++
	if status >= 500 {
		m.serverErrors++
	}
}

// RecordNavigationSession records an opened presentation session
func (m *Monitor) RecordNavigationSession() {
	if m == nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.navOpened++
}

// Snapshot returns a copy of the current metrics
func (m *Monitor) Snapshot() Snapshot {
	if m == nil {
		return Snapshot{}
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	return Snapshot{
		StartTime:        m.start,
		LastSample:       m.lastSample,
		Uptime:           m.now().Sub(m.start).Round(time.Second).String(),
		DecksBuilt:       m.decksBuilt,
		DeckFailures:     m.deckFailures,
		AverageBuildMs:   milliseconds(m.avgBuild),
		SlowestBuildMs:   milliseconds(m.slowestBuild),
		SlidesCompiled:   m.slides,
		NavigationOpened: m.navOpened,
		Requests:         m.requests,
		ServerErrors:     m.serverErrors,
		MemoryMB:         m.memory,
		Goroutines:       m.goroutines,
		GCCycles:         m.gcCycles,
	}
}

// Healthy reports whether the last sample is within limits
func (m *Monitor) Healthy() bool {
	s := m.Snapshot()
	return s.MemoryMB < 500 && s.Goroutines < 1000
}

func milliseconds(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// safeUint64ToInt64 safely converts uint64 to int64, capping at max int64 value
func safeUint64ToInt64(val uint64) int64 {
	if val > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(val)
}
