package ladder

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/riftlabs/ladder-pipeline/httpfetch"
	"github.com/riftlabs/ladder-pipeline/ratelimit"
)

func TestEliteListResponseDecodesEntries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"leagueId": "abc",
			"tier": "CHALLENGER",
			"name": "x",
			"queue": "RANKED_SOLO_5x5",
			"entries": [
				{"puuid":"p1","wins":10,"losses":5,"rank":"I","leaguePoints":500,"freshBlood":false,"inactive":false,"veteran":true,"hotStreak":false},
				{"puuid":"p2","wins":3,"losses":9,"rank":"I","leaguePoints":100,"freshBlood":true,"inactive":false,"veteran":false,"hotStreak":false}
			]
		}`))
	}))
	defer srv.Close()

	fetcher := httpfetch.New(ratelimit.NewRegistry(), "test-key", 10000, time.Second, nil, zerolog.New(io.Discard))

	entries := fetchElitePage(t, fetcher, srv.URL)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].PUUID != "p1" || entries[1].PUUID != "p2" {
		t.Fatalf("unexpected entries: %#v", entries)
	}
}

// fetchElitePage runs the fetch and LeagueList decode StreamElite applies
// to one response, against a fake server standing in for a real upstream
// host. It returns the decoded list items; the flattening into Entry is
// not exercised here.
func fetchElitePage(t *testing.T, fetcher *httpfetch.Fetcher, url string) []leagueItem {
	t.Helper()
	res := fetcher.Fetch(context.Background(), url, "na1")
	if res.Outcome != httpfetch.OK {
		t.Fatalf("unexpected outcome: %s", res.Outcome)
	}
	var list leagueList
	if err := json.Unmarshal(res.Data, &list); err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}
	if list.Tier != "CHALLENGER" {
		t.Fatalf("expected tier CHALLENGER, got %s", list.Tier)
	}
	return list.Entries
}
