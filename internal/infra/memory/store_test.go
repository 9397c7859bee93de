package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"lottery-odds/internal/application/refresh"
	"lottery-odds/internal/domain/lottery"
)

func TestStore_SaveLoad(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	if _, err := s.Load(ctx); !errors.Is(err, lottery.ErrNoCache) {
		t.Fatalf("expected ErrNoCache, got %v", err)
	}

	payload := []byte(`[{"OpenLotteriesCount":0}]`)
	at := time.Now()
	if err := s.Save(ctx, refresh.StoredSnapshot{Payload: payload, FetchedAt: at}); err != nil {
		t.Fatal(err)
	}
	payload[0] = 'x'

	got, err := s.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if string(got.Payload) != `[{"OpenLotteriesCount":0}]` || !got.FetchedAt.Equal(at) {
		t.Fatalf("store must keep its own copy, got %s", got.Payload)
	}

	if err := s.Save(ctx, refresh.StoredSnapshot{Payload: []byte(`[]`), FetchedAt: at.Add(time.Hour)}); err != nil {
		t.Fatal(err)
	}
	got, _ = s.Load(ctx)
	if string(got.Payload) != `[]` {
		t.Fatalf("expected overwrite, got %s", got.Payload)
	}
}
