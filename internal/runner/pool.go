package runner

import (
	"sync"

	"github.com/hayroll/cbench/internal/result"
)

type Job func() *result.Record

// RunPool executes jobs with at most maxWorkers concurrently and returns
// every produced record. Completion order is arbitrary; callers sort.
func RunPool(maxWorkers int, jobs []Job) []result.Record {
	if maxWorkers < 1 {
		maxWorkers = 1
	}

	var (
		mu      sync.Mutex
		records []result.Record
		wg      sync.WaitGroup
	)
	sem := make(chan struct{}, maxWorkers)

	for _, job := range jobs {
		wg.Add(1)
		sem <- struct{}{}
		go func(j Job) {
			defer wg.Done()
			defer func() { <-sem }()
			if rec := j(); rec != nil {
				mu.Lock()
				records = append(records, *rec)
				mu.Unlock()
			}
		}(job)
	}
	wg.Wait()
	return records
}
