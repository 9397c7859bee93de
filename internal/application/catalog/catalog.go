package catalog

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"lottery-odds/internal/application/normalize"
	"lottery-odds/internal/domain/lottery"
)

// SnapshotSource 提供目前的快照。
type SnapshotSource interface {
	GetSnapshot(ctx context.Context) (*lottery.CacheEntry, error)
}

// Catalog 為某個快照的正規化結果。
type Catalog struct {
	Entry  *lottery.CacheEntry
	Result normalize.Result
}

// Service 對每個快照只正規化一次。
type Service struct {
	source SnapshotSource
	log    logrus.FieldLogger

	mu      sync.Mutex
	entry   *lottery.CacheEntry
	current normalize.Result
}

func NewService(source SnapshotSource, log logrus.FieldLogger) *Service {
	if log == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		log = l
	}
	return &Service{source: source, log: log}
}

// Current 取得快照並回傳其正規化結果；快照未變時沿用上一次的結果。
func (s *Service) Current(ctx context.Context) (Catalog, error) {
	entry, err := s.source.GetSnapshot(ctx)
	if err != nil {
		return Catalog{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if entry == s.entry {
		return Catalog{Entry: entry, Result: s.current}, nil
	}

	res, err := normalize.Normalize(entry.Snapshot)
	if err != nil {
		return Catalog{}, err
	}
	fields := logrus.Fields{
		"records":   len(res.Records),
		"dropped":   res.Dropped,
		"tag":       res.ReferenceTag,
		"no_active": res.NoActiveLotteries,
	}
	s.log.WithFields(fields).Info("catalog normalized")
	if len(res.DuplicateLotteryNumbers) > 0 {
		s.log.WithField("lottery_numbers", res.DuplicateLotteryNumbers).Warn("duplicate lottery numbers in snapshot")
	}

	s.entry = entry
	s.current = res
	return Catalog{Entry: entry, Result: res}, nil
}
