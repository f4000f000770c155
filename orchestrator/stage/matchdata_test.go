package stage

import (
	"context"
	"encoding/json"
	"io"
	"testing"

	"github.com/rs/zerolog"

	"github.com/riftlabs/ladder-pipeline/httpfetch"
	"github.com/riftlabs/ladder-pipeline/matchpayload"
	"github.com/riftlabs/ladder-pipeline/store"
)

func TestMatchDataLoaderPassesIDsThrough(t *testing.T) {
	l := MatchDataLoader{MatchIDs: []string{"NA1_1", "NA1_2"}}
	state, err := l.Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(state.MatchIDs) != 2 {
		t.Fatalf("MatchIDs = %v, want 2", state.MatchIDs)
	}
}

func TestMatchDataSaverSkipsNonOKOutcomes(t *testing.T) {
	items := make(chan matchpayload.Item, 2)
	items <- matchpayload.Item{MatchID: "NA1_1", Stream: matchpayload.NonTimeline, Result: httpfetch.Result{Outcome: httpfetch.RetryExhausted}}
	items <- matchpayload.Item{MatchID: "NA1_2", Stream: matchpayload.NonTimeline, Result: httpfetch.Result{Outcome: httpfetch.OK, Data: json.RawMessage(`{}`)}}
	close(items)

	s := MatchDataSaver{Store: store.New(nil, nil, zerolog.Nop()), Logger: zerolog.New(io.Discard)}

	if err := s.Save(context.Background(), zeroOctx("match-data"), MatchDataState{}, items); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
}

func TestMatchDataSaverStopsOnCanceledContext(t *testing.T) {
	items := make(chan matchpayload.Item)
	close(items)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := MatchDataSaver{Store: store.New(nil, nil, zerolog.Nop()), Logger: zerolog.New(io.Discard)}
	err := s.Save(ctx, zeroOctx("match-data"), MatchDataState{}, items)
	if err != nil && err != context.Canceled {
		t.Fatalf("Save returned %v, want nil or context.Canceled", err)
	}
}
