// Package pipeline runs a full report: read, parse, aggregate, classify and
// summarize.
package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/IO-n-A/quant-fin/internal/aggregate"
	"github.com/IO-n-A/quant-fin/internal/classifier"
	"github.com/IO-n-A/quant-fin/internal/config"
	"github.com/IO-n-A/quant-fin/internal/log"
	"github.com/IO-n-A/quant-fin/internal/model"
	"github.com/IO-n-A/quant-fin/internal/statement"
	"github.com/IO-n-A/quant-fin/internal/summary"
)

// Run produces the report for the given sources. A source whose header
// cannot be found is logged and skipped; a source that cannot be read fails
// the run. aggregate.ErrNoIncoming is returned when nothing was credited.
func Run(ctx context.Context, cfg *config.Config, sources []config.Source, logger *log.Logger) (*summary.Report, error) {
	if logger == nil {
		logger = log.Discard()
	}
	logger = logger.WithComponent(log.ComponentPipeline)

	batches, err := parseAll(ctx, cfg, sources, logger)
	if err != nil {
		return nil, err
	}

	agg, err := aggregate.Aggregate(batches...)
	if err != nil {
		return nil, err
	}
	logger.Info("aggregated",
		"incoming", len(agg.Incoming),
		"outgoing", agg.Outgoing,
		"months", len(agg.Monthly))

	res, err := classifier.New(cfg.Clustering).Classify(agg.Incoming)
	if err != nil {
		return nil, fmt.Errorf("classifying: %w", err)
	}
	logger.WithComponent(log.ComponentClassifier).Info("classified",
		"clusters", res.Clusters,
		"epsilon", cfg.Clustering.Epsilon,
		"min_samples", cfg.Clustering.MinSamples,
		"feature_mean", res.Scaler.Mean,
		"feature_stddev", res.Scaler.StdDev)

	return summary.Build(agg.Monthly, res.Transactions), nil
}

// parseAll parses every source concurrently and returns the batches in
// source order.
func parseAll(ctx context.Context, cfg *config.Config, sources []config.Source, logger *log.Logger) ([][]model.Transaction, error) {
	registry := statement.DefaultRegistry()
	batches := make([][]model.Transaction, len(sources))

	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			txns, err := parseSource(registry, cfg, src, logger)
			if err != nil {
				return err
			}
			batches[i] = txns
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return batches, nil
}

func parseSource(registry *statement.Registry, cfg *config.Config, src config.Source, logger *log.Logger) ([]model.Transaction, error) {
	sl := logger.WithComponent(log.ComponentStatement).With(log.FieldSource, src.Name, log.FieldPath, src.Path)

	p, err := registry.NewParser(src, cfg)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(src.Path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", src.Path, err)
	}

	res, err := p.Parse(bytes.NewReader(data))
	var fe *statement.FormatError
	if errors.As(err, &fe) {
		sl.Warn("skipping statement", log.FieldError, fe)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	for _, pe := range res.Dropped {
		sl.Warn("dropped row",
			log.FieldRow, pe.Row,
			log.FieldField, pe.Field,
			log.FieldValue, pe.Value)
	}
	sl.Info("parsed statement",
		"header_line", res.HeaderLine,
		log.FieldCount, len(res.Transactions),
		"dropped", len(res.Dropped))
	return res.Transactions, nil
}
