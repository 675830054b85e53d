// Package runner orchestrates one full-refresh batch run: extract the raw
// snapshot, conform it, project the star schema, publish the snapshot, and
// optionally load the warehouse and validate the result. Stage boundaries
// carry stage context on errors so a failed run names the stage it died in.
package runner

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"starforge/internal/conform"
	"starforge/internal/project"
	"starforge/internal/store"
	"starforge/internal/validate"
	"starforge/pkg/errors"
	"starforge/pkg/models"
)

// RawSource yields one full raw snapshot per run.
type RawSource interface {
	ExtractBatch(ctx context.Context) (*models.RawBatch, error)
}

// Warehouse persists the conformed and dimensional layers. Nil means the
// run is in-memory only (dry run).
type Warehouse interface {
	LoadConformed(ctx context.Context, batch *models.ConformedBatch) error
	LoadDimensional(ctx context.Context, batch *models.DimensionalBatch) error
}

// Options tunes a batch run.
type Options struct {
	// Parallel conforms the dimension-feeding entities concurrently.
	// Sales always conforms after them.
	Parallel bool
	// Validate runs the integrity checks after projection.
	Validate bool
	// SampleKeys caps offending keys per validation finding.
	SampleKeys int
	// Now overrides the run clock for deterministic tests.
	Now func() time.Time
}

// Result summarizes one completed run.
type Result struct {
	RawRows       map[models.Entity]int
	ConformedRows map[models.Entity]int
	DimCustomers  int
	DimProducts   int
	FactRows      int
	Report        *validate.Report
	Started       time.Time
	Finished      time.Time
}

// Runner drives batch runs and owns the published snapshot.
type Runner struct {
	source    RawSource
	warehouse Warehouse
	store     *store.Store
	opts      Options
}

// New creates a runner. warehouse may be nil for in-memory runs.
func New(source RawSource, warehouse Warehouse, st *store.Store, opts Options) *Runner {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Runner{source: source, warehouse: warehouse, store: st, opts: opts}
}

// Store returns the snapshot store the runner publishes into.
func (r *Runner) Store() *store.Store {
	return r.store
}

// Run executes one batch run end to end. On any structural failure the
// previously published snapshot stays current and the warehouse tables are
// left as the last successful run wrote them.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	result := &Result{Started: r.opts.Now()}

	raw, err := r.source.ExtractBatch(ctx)
	if err != nil {
		return nil, errors.StageError("extract", err)
	}
	result.RawRows = rawCounts(raw)

	conformed, err := r.conformBatch(ctx, raw)
	if err != nil {
		return nil, errors.StageError("conform", err)
	}
	result.ConformedRows = conformedCounts(conformed)

	dimensional := project.Build(conformed)
	result.DimCustomers = len(dimensional.Customers)
	result.DimProducts = len(dimensional.Products)
	result.FactRows = len(dimensional.Sales)

	if r.warehouse != nil {
		if err := r.warehouse.LoadConformed(ctx, conformed); err != nil {
			return nil, errors.StageError("load", err)
		}
		if err := r.warehouse.LoadDimensional(ctx, dimensional); err != nil {
			return nil, errors.StageError("load", err)
		}
	}

	r.store.Publish(&store.Snapshot{
		Conformed:   conformed,
		Dimensional: dimensional,
	})

	if r.opts.Validate {
		result.Report = validate.Run(conformed, dimensional, validate.Options{
			SampleKeys: r.opts.SampleKeys,
		})
	}

	result.Finished = r.opts.Now()
	return result, nil
}

// conformBatch conforms the raw snapshot. The five dimension-feeding
// entities are independent of each other and may run concurrently; sales
// runs after them. Conformance stages are total functions, so the errgroup
// exists for the context plumbing, not for error fan-in.
func (r *Runner) conformBatch(ctx context.Context, raw *models.RawBatch) (*models.ConformedBatch, error) {
	now := r.opts.Now()

	if !r.opts.Parallel {
		return conform.Batch(raw, now), nil
	}

	batch := &models.ConformedBatch{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		batch.Customers = conform.Customers(raw.Customers)
		return gctx.Err()
	})
	g.Go(func() error {
		batch.Products = conform.Products(raw.Products)
		return gctx.Err()
	})
	g.Go(func() error {
		batch.Demographics = conform.Demographics(raw.Demographics, now)
		return gctx.Err()
	})
	g.Go(func() error {
		batch.Locations = conform.Locations(raw.Locations)
		return gctx.Err()
	})
	g.Go(func() error {
		batch.Categories = conform.Categories(raw.Categories)
		return gctx.Err()
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	batch.Sales = conform.Sales(raw.Sales)
	return batch, nil
}

func rawCounts(raw *models.RawBatch) map[models.Entity]int {
	return map[models.Entity]int{
		models.EntityCustomer:    len(raw.Customers),
		models.EntityProduct:     len(raw.Products),
		models.EntitySales:       len(raw.Sales),
		models.EntityDemographic: len(raw.Demographics),
		models.EntityLocation:    len(raw.Locations),
		models.EntityCategory:    len(raw.Categories),
	}
}

func conformedCounts(batch *models.ConformedBatch) map[models.Entity]int {
	return map[models.Entity]int{
		models.EntityCustomer:    len(batch.Customers),
		models.EntityProduct:     len(batch.Products),
		models.EntitySales:       len(batch.Sales),
		models.EntityDemographic: len(batch.Demographics),
		models.EntityLocation:    len(batch.Locations),
		models.EntityCategory:    len(batch.Categories),
	}
}
