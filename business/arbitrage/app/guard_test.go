package app

import (
	"sync"
	"testing"
)

func TestExecutionGuardPerPair(t *testing.T) {
	g := NewExecutionGuard()

	if !g.TryAcquire("WETH/USDC") {
		t.Fatal("first acquire should succeed")
	}
	if g.TryAcquire("WETH/USDC") {
		t.Fatal("second acquire on held pair should fail")
	}
	// Other pairs are independent.
	if !g.TryAcquire("AERO/USDC") {
		t.Fatal("unrelated pair should be free")
	}

	g.Release("WETH/USDC")
	if !g.TryAcquire("WETH/USDC") {
		t.Fatal("acquire after release should succeed")
	}
}

func TestExecutionGuardConcurrent(t *testing.T) {
	g := NewExecutionGuard()

	const workers = 32
	var wg sync.WaitGroup
	acquired := make(chan struct{}, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if g.TryAcquire("WETH/USDC") {
				acquired <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(acquired)

	n := 0
	for range acquired {
		n++
	}
	if n != 1 {
		t.Fatalf("%d goroutines acquired, want exactly 1", n)
	}
}

func TestExecutionGuardReleaseUnheld(t *testing.T) {
	g := NewExecutionGuard()
	g.Release("never/held")
	if g.Held("never/held") {
		t.Fatal("releasing an unheld pair must not mark it held")
	}
}
