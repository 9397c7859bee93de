package memory

import (
	"context"
	"sync"

	"lottery-odds/internal/application/refresh"
	"lottery-odds/internal/domain/lottery"
)

// Store 為記憶體版快照儲存，程序結束即消失；適合本機開發與測試。
type Store struct {
	mu   sync.RWMutex
	snap *refresh.StoredSnapshot
}

// NewStore 建立新的記憶體 Store 實例。
func NewStore() *Store {
	return &Store{}
}

// Save 覆寫快照，保存 payload 的複本。
func (s *Store) Save(_ context.Context, snap refresh.StoredSnapshot) error {
	cp := refresh.StoredSnapshot{
		Payload:   append([]byte(nil), snap.Payload...),
		FetchedAt: snap.FetchedAt,
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = &cp
	return nil
}

// Load 回傳快照；尚未保存時回傳 lottery.ErrNoCache。
func (s *Store) Load(_ context.Context) (refresh.StoredSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snap == nil {
		return refresh.StoredSnapshot{}, lottery.ErrNoCache
	}
	return refresh.StoredSnapshot{
		Payload:   append([]byte(nil), s.snap.Payload...),
		FetchedAt: s.snap.FetchedAt,
	}, nil
}
