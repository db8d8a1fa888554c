package worker

import (
	"sync"
	"testing"
)

func TestPoolRunsJobs(t *testing.T) {
	p := NewPool(2)

	var mu sync.Mutex
	ran := 0
	for i := 0; i < 50; i++ {
		ok := p.TrySubmit(func() {
			mu.Lock()
			ran++
			mu.Unlock()
		})
		if !ok {
			t.Fatalf("submit %d rejected with an idle pool", i)
		}
	}
	p.Stop()

	if ran != 50 {
		t.Fatalf("ran=%d want=50", ran)
	}
}

func TestTrySubmitDoesNotBlockWhenFull(t *testing.T) {
	// No workers: nothing drains the queue.
	p := NewPool(0)
	defer p.Stop()

	accepted := 0
	for i := 0; i < 2000; i++ {
		if p.TrySubmit(func() {}) {
			accepted++
		}
	}
	if accepted == 2000 {
		t.Fatal("every submit accepted; queue never reported full")
	}
	if accepted == 0 {
		t.Fatal("no submit accepted")
	}

	// A full queue keeps rejecting rather than blocking.
	if p.TrySubmit(func() {}) {
		t.Fatal("submit accepted on a full queue")
	}
}
