package metrics

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const DefaultMaxLatencySamples = 1000

// serviceRecord holds the raw counters and the latency ring buffer for one
// service. Writes and snapshots are serialized by the record mutex.
type serviceRecord struct {
	mu           sync.Mutex
	samples      []float64
	next         int
	successCount uint64
	errorCount   uint64
	uptimeChecks uint64
	uptimePasses uint64
}

// Store is the in-memory metrics store. It owns every ServiceMetrics
// record and is the only component mutating raw counters.
type Store struct {
	logger         *slog.Logger
	mu             sync.RWMutex
	services       map[string]*serviceRecord
	maxSamples     int
	droppedCounter *prometheus.CounterVec
}

func New(logger *slog.Logger, maxSamples int, registry *prometheus.Registry) (*Store, error) {
	if maxSamples <= 0 {
		maxSamples = DefaultMaxLatencySamples
	}
	droppedCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telemetry_dropped_total",
			Help: "Count the telemetry events dropped because the target service is not registered",
		},
		[]string{"type"})
	err := registry.Register(droppedCounter)
	if err != nil {
		return nil, err
	}
	return &Store{
		logger:         logger,
		services:       make(map[string]*serviceRecord),
		maxSamples:     maxSamples,
		droppedCounter: droppedCounter,
	}, nil
}

func (s *Store) get(name string) *serviceRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.services[name]
}

// ServiceNames returns the registered service names, sorted.
func (s *Store) ServiceNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.services))
	for name := range s.services {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.services)
}
