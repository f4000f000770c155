package orchestrator

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type fakeLoader struct {
	state string
	err   error
}

func (l fakeLoader) Load(ctx context.Context) (string, error) { return l.state, l.err }

type fakeCollector struct {
	items []int
}

func (c fakeCollector) Collect(ctx context.Context, state string, octx Context) <-chan int {
	out := make(chan int, len(c.items))
	for _, i := range c.items {
		out <- i
	}
	close(out)
	return out
}

type fakeSaver struct {
	saveErr      error
	rollbackErr  error
	rollbackCall *string
	received     []int
}

func (s *fakeSaver) Save(ctx context.Context, octx Context, state string, items <-chan int) error {
	for i := range items {
		s.received = append(s.received, i)
	}
	return s.saveErr
}

func (s *fakeSaver) Rollback(ctx context.Context, runID string) error {
	if s.rollbackCall != nil {
		*s.rollbackCall = runID
	}
	return s.rollbackErr
}

func TestRunDrivesLoaderCollectorSaver(t *testing.T) {
	saver := &fakeSaver{}
	o := &Orchestrator[string, int]{
		Pipeline:  "test",
		Loader:    fakeLoader{state: "seed"},
		Collector: fakeCollector{items: []int{1, 2, 3}},
		Saver:     saver,
	}

	if err := o.Run(context.Background()); err != nil {
		t.Fatalf("Run() returned error: %v", err)
	}
	if len(saver.received) != 3 {
		t.Fatalf("saver received %d items, want 3", len(saver.received))
	}
}

func TestRunPropagatesLoadError(t *testing.T) {
	o := &Orchestrator[string, int]{
		Pipeline:  "test",
		Loader:    fakeLoader{err: errors.New("boom")},
		Collector: fakeCollector{},
		Saver:     &fakeSaver{},
	}
	if err := o.Run(context.Background()); err == nil {
		t.Fatal("expected error from failed load")
	}
}

func TestRunRollsBackOnSaveFailure(t *testing.T) {
	var rolledBackRunID string
	saver := &fakeSaver{saveErr: errors.New("save failed"), rollbackCall: &rolledBackRunID}
	o := &Orchestrator[string, int]{
		Pipeline:  "test",
		Loader:    fakeLoader{state: "seed"},
		Collector: fakeCollector{items: []int{1}},
		Saver:     saver,
	}

	err := o.Run(context.Background())
	if err == nil {
		t.Fatal("expected error from failed save")
	}
	if rolledBackRunID == "" {
		t.Fatal("expected Rollback to be called with a run id")
	}
}

func TestRunReportsRollbackFailureAlongsideSaveFailure(t *testing.T) {
	saver := &fakeSaver{saveErr: errors.New("save failed"), rollbackErr: errors.New("rollback failed")}
	o := &Orchestrator[string, int]{
		Pipeline:  "test",
		Loader:    fakeLoader{state: "seed"},
		Collector: fakeCollector{items: []int{1}},
		Saver:     saver,
	}

	err := o.Run(context.Background())
	if err == nil {
		t.Fatal("expected a combined error")
	}
	if !strings.Contains(err.Error(), "save failed") || !strings.Contains(err.Error(), "rollback failed") {
		t.Fatalf("error %q does not report both the save and the rollback failure", err)
	}
}
