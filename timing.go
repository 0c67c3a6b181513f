package sift

import (
	"strings"
	"sync"
	"time"
)

// Stage names recorded in a TimingLedger. The first three are aggregate
// stages of a search call, the rest are per-URL stages.
const (
	StageTotal   = "total"
	StageSearch  = "search"
	StageContent = "content"

	StageFetch     = "fetch"
	StagePage      = "page"
	StageNavigate  = "navigate"
	StageSettle    = "settle"
	StageObstacles = "obstacles"
	StageCapture   = "capture"
	StageExtract   = "extract"
	StageNormalize = "normalize"
	StageTrim      = "trim"
)

const stageSeparator = "|"

// StageKey namespaces a stage by a prefix, usually the page URL, so that
// concurrent fetches never write the same key.
func StageKey(prefix, stage string) string {
	if prefix == "" {
		return stage
	}
	return prefix + stageSeparator + stage
}

// SplitStageKey is the inverse of StageKey.
func SplitStageKey(key string) (prefix, stage string) {
	i := strings.LastIndex(key, stageSeparator)
	if i < 0 {
		return "", key
	}
	return key[:i], key[i+len(stageSeparator):]
}

// TimingLedger collects stage durations for one search call.
// A nil *TimingLedger discards everything. TimingLedger is safe for
// concurrent use.
type TimingLedger struct {
	mu      sync.Mutex
	entries map[string]time.Duration
}

// NewTimingLedger returns an empty ledger.
func NewTimingLedger() *TimingLedger {
	return &TimingLedger{entries: make(map[string]time.Duration)}
}

// Record stores d under key, replacing any earlier value.
func (l *TimingLedger) Record(key string, d time.Duration) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries[key] = d
}

// Track starts a timer and returns a function that records the elapsed
// time under key when called.
//
//	defer ledger.Track(sift.StageKey(url, sift.StageExtract))()
func (l *TimingLedger) Track(key string) func() {
	begin := time.Now()
	return func() {
		l.Record(key, time.Since(begin))
	}
}

// Get returns the duration stored under key.
func (l *TimingLedger) Get(key string) (time.Duration, bool) {
	if l == nil {
		return 0, false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	d, ok := l.entries[key]
	return d, ok
}

// Len returns the number of recorded entries.
func (l *TimingLedger) Len() int {
	if l == nil {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Timing converts the ledger to its serializable form.
func (l *TimingLedger) Timing() Timing {
	t := Timing{Stages: make(map[string]int64)}
	if l == nil {
		return t
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, d := range l.entries {
		t.Stages[key] = d.Milliseconds()
	}
	t.Total = l.entries[StageTotal].Milliseconds()
	t.Search = l.entries[StageSearch].Milliseconds()
	t.Content = l.entries[StageContent].Milliseconds()
	return t
}

// Timing holds the durations of a search call in milliseconds.
type Timing struct {
	Total   int64            `json:"total"`
	Search  int64            `json:"search"`
	Content int64            `json:"content"`
	Stages  map[string]int64 `json:"stages"`
}

// URLStages returns the per-URL stage durations for url.
func (t Timing) URLStages(url string) map[string]int64 {
	stages := make(map[string]int64)
	for key, ms := range t.Stages {
		prefix, stage := SplitStageKey(key)
		if prefix == url {
			stages[stage] = ms
		}
	}
	return stages
}
