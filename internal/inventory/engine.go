package inventory

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/maumlog/maumlog-backend/internal/llm"
	"github.com/maumlog/maumlog-backend/internal/pkg/apperr"
	"github.com/maumlog/maumlog-backend/internal/pkg/logger"
	"github.com/maumlog/maumlog-backend/internal/prompts"
)

// Engine predicts a 120-item Likert inventory from a user's answer corpus
// and evaluates it against the norm table. The six facet batches are
// independent model calls; they fan out concurrently and reassemble in
// batch-index order.
type Engine struct {
	gw   llm.Gateway
	bank *Bank
	log  *logger.Logger
}

func NewEngine(gw llm.Gateway, baseLog *logger.Logger) *Engine {
	return &Engine{
		gw:   gw,
		bank: DefaultBank,
		log:  baseLog.With("service", "InventoryEngine"),
	}
}

type likertBatch struct {
	Ratings []int `json:"ratings"`
}

// Validate enforces the rating range. Batch length is checked by the
// engine so a short batch surfaces as a shape error, not a schema retry.
func (b *likertBatch) Validate() error {
	for i, r := range b.Ratings {
		if r < 1 || r > 5 {
			return fmt.Errorf("rating %d out of range: %d", i, r)
		}
	}
	return nil
}

// Infer runs the full inference: six batch predictions concatenated into a
// sentinel-prefixed 121-length vector, then deterministic norm-table
// evaluation. Callers apply the demographic defaults before calling.
func (e *Engine) Infer(ctx context.Context, answers []string, age int, sex Sex) (Result, error) {
	if len(answers) == 0 {
		return Result{}, apperr.ErrInsufficientAnswers
	}
	if age < MinAge {
		return Result{}, fmt.Errorf("%w: age %d", apperr.ErrInvalidDemographic, age)
	}
	if sex != Male && sex != Female {
		return Result{}, fmt.Errorf("%w: sex %q", apperr.ErrInvalidDemographic, sex)
	}

	batches := e.bank.Batches()
	results := [BatchCount][]int{}

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < BatchCount; i++ {
		i := i
		g.Go(func() error {
			items := make([]string, len(batches[i]))
			for j, it := range batches[i] {
				items[j] = it.Text
			}
			var out likertBatch
			err := e.gw.Extract(
				gctx,
				prompts.InventorySystem,
				prompts.InventoryUser(answers, items),
				"likert_batch",
				prompts.LikertBatchSchema(),
				&out,
			)
			if err != nil {
				return err
			}
			if len(out.Ratings) != BatchSize {
				return fmt.Errorf("%w: batch %d returned %d ratings, want %d",
					apperr.ErrInventoryShape, i, len(out.Ratings), BatchSize)
			}
			results[i] = out.Ratings
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	// Sentinel zero keeps the vector 1-based like the bank's item numbers.
	vector := make([]int, 1, BankSize+1)
	for i := 0; i < BatchCount; i++ {
		vector = append(vector, results[i]...)
	}

	res := Evaluate(e.bank, vector, age, sex)
	e.log.Debug("Inventory inferred",
		"answers", len(answers),
		"age", age,
		"sex", sex,
		"axes", res.Axes,
	)
	return res, nil
}
