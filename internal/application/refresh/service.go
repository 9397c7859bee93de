package refresh

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"lottery-odds/internal/domain/lottery"
)

// Fetcher 對上游做一次完整抓取，回傳原樣的 JSON 陣列。
type Fetcher interface {
	Fetch(ctx context.Context) ([]byte, error)
}

// StoredSnapshot 為持久化的快照文件。
type StoredSnapshot struct {
	Payload   []byte
	FetchedAt time.Time
}

// SnapshotStore 保存最近一次成功的快照（單一文件，整筆覆寫）。沒有資料時 Load 回傳 lottery.ErrNoCache。
type SnapshotStore interface {
	Save(ctx context.Context, snap StoredSnapshot) error
	Load(ctx context.Context) (StoredSnapshot, error)
}

// Recorder 收集刷新與快取命中指標。
type Recorder interface {
	ObserveRefresh(result string, d time.Duration)
	CacheLookup(hit bool)
}

type noopRecorder struct{}

func (noopRecorder) ObserveRefresh(string, time.Duration) {}
func (noopRecorder) CacheLookup(bool)                     {}

// 刷新結果標籤。
const (
	ResultSuccess   = "success"
	ResultUpstream  = "upstream_unavailable"
	ResultMalformed = "malformed_payload"
)

const flightKey = "snapshot"

// Status 為快取狀態摘要。
type Status struct {
	HasEntry    bool           `json:"has_entry"`
	FetchedAt   *time.Time     `json:"fetched_at,omitempty"`
	Source      lottery.Source `json:"source,omitempty"`
	LastAttempt *time.Time     `json:"last_attempt,omitempty"`
	LastError   string         `json:"last_error,omitempty"`
	Refreshes   int64          `json:"refreshes"`
	Failures    int64          `json:"failures"`
}

// Service 管理上游快照的快取；同一時間最多只有一個抓取在進行。
type Service struct {
	fetcher Fetcher
	store   SnapshotStore
	log     logrus.FieldLogger
	metrics Recorder
	now     func() time.Time

	entry atomic.Pointer[lottery.CacheEntry]
	group singleflight.Group

	mu          sync.Mutex
	lastAttempt time.Time
	lastErr     error
	refreshes   int64
	failures    int64
}

// Option 調整 Service。
type Option func(*Service)

func WithStore(store SnapshotStore) Option {
	return func(s *Service) { s.store = store }
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

func WithRecorder(r Recorder) Option {
	return func(s *Service) {
		if r != nil {
			s.metrics = r
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService 建立快取服務。
func NewService(fetcher Fetcher, opts ...Option) *Service {
	discard := logrus.New()
	discard.SetLevel(logrus.PanicLevel)
	s := &Service{
		fetcher: fetcher,
		log:     discard,
		metrics: noopRecorder{},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetSnapshot 有快取時直接回傳，不觸碰上游；冷啟動時同步抓取一次（與其他呼叫共用）。
func (s *Service) GetSnapshot(ctx context.Context) (*lottery.CacheEntry, error) {
	if e := s.entry.Load(); e != nil {
		s.metrics.CacheLookup(true)
		return e, nil
	}
	s.metrics.CacheLookup(false)
	return s.Refresh(ctx)
}

// Refresh 執行一次抓取；成功時整筆替換快取，失敗時保留舊快取。
// 共用的抓取不受個別呼叫者取消影響，呼叫者取消時僅自己提早返回。
func (s *Service) Refresh(ctx context.Context) (*lottery.CacheEntry, error) {
	detached := context.WithoutCancel(ctx)
	ch := s.group.DoChan(flightKey, func() (interface{}, error) {
		return s.retrieve(detached)
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*lottery.CacheEntry), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *Service) retrieve(ctx context.Context) (*lottery.CacheEntry, error) {
	start := s.now()
	payload, err := s.fetcher.Fetch(ctx)
	if err != nil {
		if !lottery.IsRetrievalError(err) {
			err = lottery.NewRetrievalError(lottery.ErrUpstreamUnavailable, err)
		}
		return nil, s.fail(start, err)
	}
	snap, err := lottery.ParseSnapshot(payload)
	if err != nil {
		return nil, s.fail(start, err)
	}

	entry := &lottery.CacheEntry{
		Payload:   payload,
		Snapshot:  snap,
		FetchedAt: s.now(),
		Source:    lottery.SourceUpstream,
	}
	s.entry.Store(entry)

	s.mu.Lock()
	s.lastAttempt = start
	s.lastErr = nil
	s.refreshes++
	s.mu.Unlock()

	s.metrics.ObserveRefresh(ResultSuccess, s.now().Sub(start))
	s.log.WithFields(logrus.Fields{
		"batches": len(snap),
		"bytes":   len(payload),
	}).Info("snapshot refreshed")

	if s.store != nil {
		if err := s.store.Save(ctx, StoredSnapshot{Payload: payload, FetchedAt: entry.FetchedAt}); err != nil {
			s.log.WithError(err).Warn("persist snapshot failed")
		}
	}
	return entry, nil
}

func (s *Service) fail(start time.Time, err error) error {
	s.mu.Lock()
	s.lastAttempt = start
	s.lastErr = err
	s.failures++
	s.mu.Unlock()

	result := ResultUpstream
	if errors.Is(err, lottery.ErrMalformedPayload) {
		result = ResultMalformed
	}
	s.metrics.ObserveRefresh(result, s.now().Sub(start))
	s.log.WithError(err).WithField("has_cache", s.entry.Load() != nil).Warn("snapshot refresh failed")
	return err
}

// Warm 於啟動時載入持久化的快照；已有快取或沒有存檔時不做事。
func (s *Service) Warm(ctx context.Context) error {
	if s.store == nil || s.entry.Load() != nil {
		return nil
	}
	stored, err := s.store.Load(ctx)
	if errors.Is(err, lottery.ErrNoCache) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load stored snapshot: %w", err)
	}
	snap, err := lottery.ParseSnapshot(stored.Payload)
	if err != nil {
		return fmt.Errorf("stored snapshot: %w", err)
	}
	entry := &lottery.CacheEntry{
		Payload:   stored.Payload,
		Snapshot:  snap,
		FetchedAt: stored.FetchedAt,
		Source:    lottery.SourceStore,
	}
	if s.entry.CompareAndSwap(nil, entry) {
		s.log.WithField("fetched_at", stored.FetchedAt).Info("snapshot restored from store")
	}
	return nil
}

// Status 回傳快取狀態。
func (s *Service) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Status{Refreshes: s.refreshes, Failures: s.failures}
	if e := s.entry.Load(); e != nil {
		st.HasEntry = true
		fetched := e.FetchedAt
		st.FetchedAt = &fetched
		st.Source = e.Source
	}
	if !s.lastAttempt.IsZero() {
		at := s.lastAttempt
		st.LastAttempt = &at
	}
	if s.lastErr != nil {
		st.LastError = s.lastErr.Error()
	}
	return st
}
