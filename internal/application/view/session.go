package view

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type session struct {
	mu       sync.Mutex
	state    State
	lastSeen time.Time
}

// Sessions 以 session id 保存每位使用者的檢視狀態，只存在記憶體中。
type Sessions struct {
	mu    sync.Mutex
	ttl   time.Duration
	now   func() time.Time
	items map[string]*session
}

// NewSessions 建立 session 容器；ttl <= 0 時預設 12 小時。
func NewSessions(ttl time.Duration) *Sessions {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Sessions{
		ttl:   ttl,
		now:   time.Now,
		items: make(map[string]*session),
	}
}

// NewID 產生新的 session id。
func NewID() string {
	return uuid.NewString()
}

func (s *Sessions) acquire(id string) *session {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	sess, ok := s.items[id]
	if !ok || now.Sub(sess.lastSeen) > s.ttl {
		sess = &session{state: DefaultState()}
		s.items[id] = sess
	}
	sess.lastSeen = now
	return sess
}

// Do 在該 session 的鎖內執行 fn；fn 回傳錯誤時狀態不變。
// 同一 session 的操作依序完成，不同 session 互不阻塞。
func (s *Sessions) Do(id string, fn func(st *State) error) (State, error) {
	sess := s.acquire(id)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	next := sess.state
	if err := fn(&next); err != nil {
		return sess.state, err
	}
	sess.state = next
	return next, nil
}

// Get 回傳目前狀態，不存在時為預設狀態。
func (s *Sessions) Get(id string) State {
	st, _ := s.Do(id, func(*State) error { return nil })
	return st
}

// Sweep 移除閒置超過 ttl 的 session，回傳移除數量。
func (s *Sessions) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, sess := range s.items {
		if now.Sub(sess.lastSeen) > s.ttl {
			delete(s.items, id)
			removed++
		}
	}
	return removed
}

// TTL 回傳閒置逾時。
func (s *Sessions) TTL() time.Duration {
	return s.ttl
}

// Len 回傳目前保存的 session 數量。
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
