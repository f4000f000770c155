package ladder

import (
	"context"
	"sync"

	"github.com/riftlabs/ladder-pipeline/httpfetch"
)

// fetchJob is a formatted request ready to fetch, tagged with the
// rate-limiter location its permit is drawn from.
type fetchJob struct {
	URL      string
	Location string
}

// fetchBatch fetches every job in batch concurrently, returning results in
// the same order as batch.
func fetchBatch(ctx context.Context, fetcher *httpfetch.Fetcher, batch []fetchJob) []httpfetch.Result {
	results := make([]httpfetch.Result, len(batch))
	var wg sync.WaitGroup
	wg.Add(len(batch))
	for i, j := range batch {
		i, j := i, j
		go func() {
			defer wg.Done()
			results[i] = fetcher.Fetch(ctx, j.URL, j.Location)
		}()
	}
	wg.Wait()
	return results
}
