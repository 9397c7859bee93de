package refresh

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Worker 定期刷新快取。
type Worker struct {
	svc      *Service
	interval time.Duration
	log      logrus.FieldLogger
	stopChan chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// NewWorker 建立背景工作者，interval <= 0 時預設 1 小時。
func NewWorker(svc *Service, interval time.Duration, log logrus.FieldLogger) *Worker {
	if interval <= 0 {
		interval = 1 * time.Hour
	}
	if log == nil {
		log = svc.log
	}
	return &Worker{
		svc:      svc,
		interval: interval,
		log:      log,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start 啟動迴圈。
func (w *Worker) Start() {
	w.log.WithField("interval", w.interval.String()).Info("starting refresh worker")
	ticker := time.NewTicker(w.interval)
	go func() {
		defer close(w.done)
		defer ticker.Stop()

		// 啟動後立即執行一次
		w.runOnce()

		for {
			select {
			case <-ticker.C:
				w.runOnce()
			case <-w.stopChan:
				return
			}
		}
	}()
}

// Stop 停止迴圈並等待進行中的刷新結束。
func (w *Worker) Stop() {
	w.stopOnce.Do(func() { close(w.stopChan) })
	<-w.done
}

func (w *Worker) runOnce() {
	// 失敗已在 Service 內記錄，下一輪再試
	_, _ = w.svc.Refresh(context.Background())
}
