package worker

import (
	"errors"
	"sort"
	"sync"
	"testing"
)

func TestPool_RunsAllJobs(t *testing.T) {
	p := NewPool[int](3, 4)

	var got []string
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for r := range p.Results() {
			got = append(got, r.JobID)
		}
	}()

	for i, id := range []string{"a", "b", "c", "d", "e"} {
		n := i
		if err := p.Submit(id, func() int { return n * n }); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	p.Close()
	wg.Wait()

	sort.Strings(got)
	if len(got) != 5 || got[0] != "a" || got[4] != "e" {
		t.Errorf("expected all 5 results, got %v", got)
	}
}

func TestPool_OutputsMatchJobs(t *testing.T) {
	p := NewPool[string](2, 2)
	done := make(chan map[string]string)
	go func() {
		m := map[string]string{}
		for r := range p.Results() {
			m[r.JobID] = r.Output
		}
		done <- m
	}()

	p.Submit("x", func() string { return "X" })
	p.Submit("y", func() string { return "Y" })
	p.Close()

	m := <-done
	if m["x"] != "X" || m["y"] != "Y" {
		t.Errorf("unexpected outputs %v", m)
	}
}

func TestPool_SubmitAfterClose(t *testing.T) {
	p := NewPool[int](1, 1)
	go func() {
		for range p.Results() {
		}
	}()
	p.Close()
	p.Close()

	if err := p.Submit("late", func() int { return 0 }); !errors.Is(err, ErrPoolClosed) {
		t.Errorf("expected ErrPoolClosed, got %v", err)
	}
}
