package worker

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestPool_RaceCondition(t *testing.T) {
	pg := &MockPostgres{}
	ch := &MockClickHouseConn{}
	pool := NewPool(PoolConfig{
		WorkerCount:   4,
		QueueSize:     50,
		BatchSize:     10,
		FlushInterval: 5 * time.Millisecond,
		Postgres:      pg,
		ClickHouse:    ch,
		Logger:        zap.NewNop(),
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pool.Start(ctx)

	var wg sync.WaitGroup
	producers := 8
	jobsPerProducer := 50

	for i := 0; i < producers; i++ {
		wg.Add(1)
		go func(base int64) {
			defer wg.Done()
			for j := int64(0); j < int64(jobsPerProducer); j++ {
				if err := pool.Enqueue(ctx, testJob(base+j, j%3 != 0)); err != nil {
					t.Errorf("Enqueue: %v", err)
					return
				}
				if j%10 == 0 {
					time.Sleep(time.Millisecond)
				}
			}
		}(int64(i * 1000))
	}

	wg.Wait()
	pool.Stop()

	want := producers * jobsPerProducer
	if got := pg.count("matches"); got != want {
		t.Errorf("match upserts = %d, want %d", got, want)
	}
	if got := len(ch.rows()); got != want*10 {
		t.Errorf("hero picks = %d, want %d", got, want*10)
	}
}
