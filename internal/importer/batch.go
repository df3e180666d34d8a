package importer

import (
	"context"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/jobtracker/internal/types"
)

// File is one document queued for a batch import.
type File struct {
	Name string
	Data []byte
}

// BatchResult is the outcome of one file in a batch. Exactly one of Result
// and Err is set.
type BatchResult struct {
	FileName string
	Result   *types.ParseResult
	Err      error
}

// ParseBatch imports files with at most workers running at once. A failing
// file does not stop the others; results keep the input order. Only context
// cancellation aborts the batch.
func (p *Pipeline) ParseBatch(ctx context.Context, files []File, workers int) ([]BatchResult, error) {
	if workers < 1 {
		workers = 1
	}
	results := make([]BatchResult, len(files))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, f := range files {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			res, err := p.Parse(gCtx, f.Name, f.Data)
			if err != nil {
				log.Printf("[import] %v", err)
			}
			results[i] = BatchResult{FileName: f.Name, Result: res, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
