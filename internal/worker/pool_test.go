package worker

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestPoolProcessesAllJobs(t *testing.T) {
	pool := NewPool[int](3, 10)

	for i := 0; i < 10; i++ {
		n := i
		pool.Submit("job", func() int { return n * 2 })
	}

	sum := 0
	for i := 0; i < 10; i++ {
		select {
		case result := <-pool.Results():
			sum += result.Output
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for results")
		}
	}

	// 2 * (0 + 1 + ... + 9)
	if sum != 90 {
		t.Errorf("sum of outputs = %d, want 90", sum)
	}

	pool.Close()
}

func TestPoolResultsCarryJobID(t *testing.T) {
	pool := NewPool[string](1, 4)

	pool.Submit("first", func() string { return "a" })
	pool.Submit("second", func() string { return "b" })

	seen := make(map[string]string)
	for i := 0; i < 2; i++ {
		select {
		case result := <-pool.Results():
			seen[result.JobID] = result.Output
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for results")
		}
	}

	if seen["first"] != "a" || seen["second"] != "b" {
		t.Errorf("unexpected results: %v", seen)
	}

	pool.Close()
}

func TestPoolCloseDrainsInFlightWork(t *testing.T) {
	pool := NewPool[int](2, 8)

	var completed atomic.Int32
	for i := 0; i < 6; i++ {
		pool.Submit("job", func() int {
			time.Sleep(10 * time.Millisecond)
			completed.Add(1)
			return 0
		})
	}

	done := make(chan struct{})
	go func() {
		// Drain results so workers are never blocked on send
		for range pool.Results() {
		}
		close(done)
	}()

	pool.Close()
	<-done

	if got := completed.Load(); got != 6 {
		t.Errorf("completed jobs = %d, want 6", got)
	}
}
