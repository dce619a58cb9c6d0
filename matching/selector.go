// Package matching picks the order item a completion photo most likely shows.
package matching

import (
	"context"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/yepitsaaron/order-flow-and-cv-image-detection-sub000/similarity"
)

// ConfidenceThreshold is the score a candidate must strictly exceed to be
// matched without human review.
const ConfidenceThreshold = 0.8

// Candidate pairs an item with its normalized design buffer. A nil Buffer
// marks a candidate whose design could not be loaded; it scores 0.
type Candidate[T any] struct {
	Item   T
	Buffer []byte
}

// Scored is a candidate with its similarity to the target.
type Scored[T any] struct {
	Item  T       `json:"item"`
	Score float64 `json:"score"`
	// Index is the candidate's position in selector order.
	Index int `json:"-"`
}

// Result is the outcome of a selection. When AutoMatch is false, Ranked
// still holds every candidate for manual choice.
type Result[T any] struct {
	AutoMatch bool
	Best      *Scored[T]
	BestScore float64
	Ranked    []Scored[T]
}

// Options tunes Select.
type Options struct {
	// Workers bounds concurrent scoring; zero means runtime.NumCPU().
	Workers int
}

// Select scores every candidate against target and applies the confidence
// threshold. Ties on the top score go to the earliest candidate, so the
// outcome is independent of scoring order.
func Select[T any](ctx context.Context, target []byte, candidates []Candidate[T], opts Options) (Result[T], error) {
	scores := make([]float64, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workerCount(opts.Workers, len(candidates)))

	for i := range candidates {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if candidates[i].Buffer != nil {
				scores[i] = similarity.Score(target, candidates[i].Buffer)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Result[T]{}, err
	}

	return decide(candidates, scores), nil
}

func decide[T any](candidates []Candidate[T], scores []float64) Result[T] {
	ranked := make([]Scored[T], len(candidates))
	for i, c := range candidates {
		ranked[i] = Scored[T]{Item: c.Item, Score: scores[i], Index: i}
	}
	sort.SliceStable(ranked, func(a, b int) bool {
		return Better(ranked[a], ranked[b])
	})

	result := Result[T]{Ranked: ranked}
	if len(ranked) == 0 {
		return result
	}

	best := ranked[0]
	result.BestScore = best.Score
	if best.Score > ConfidenceThreshold {
		result.AutoMatch = true
		result.Best = &best
	}
	return result
}

// Better orders scored candidates by (score desc, index asc).
func Better[T any](a, b Scored[T]) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return a.Index < b.Index
}

// AboveThreshold returns the ranked candidates eligible for automatic matching,
// best first.
func (r Result[T]) AboveThreshold() []Scored[T] {
	var out []Scored[T]
	for _, s := range r.Ranked {
		if s.Score <= ConfidenceThreshold {
			break
		}
		out = append(out, s)
	}
	return out
}

func workerCount(requested, n int) int {
	if requested <= 0 {
		requested = runtime.NumCPU()
	}
	return max(min(requested, n), 1)
}
