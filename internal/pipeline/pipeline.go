// Package pipeline sequences the analysis stages for a single run.
// A Run carries the options and intermediate results of one analysis and is
// never shared between runs.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"sync/atomic"
	"time"

	"github.com/charnet/core/internal/aggregator"
	"github.com/charnet/core/internal/centrality"
	"github.com/charnet/core/internal/community"
	"github.com/charnet/core/internal/config"
	"github.com/charnet/core/internal/cooccurrence"
	"github.com/charnet/core/internal/logger"
	"github.com/charnet/core/internal/models"
	"github.com/charnet/core/internal/parser"
	"github.com/charnet/core/internal/resolver"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	StageAggregate    = "aggregate"
	StageCooccurrence = "cooccurrence"
	StageAssemble     = "assemble"
	StageCommunity    = "community"
	StageCentrality   = "centrality"
)

var ErrRunConsumed = errors.New("run already executed")

// StageError reports the stage a run stopped in.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

type Run struct {
	ID      string
	Options config.Options

	aggregator *aggregator.Aggregator
	detector   *community.Detector
	executed   atomic.Bool
}

// New validates opts and prepares a run. Invalid options fail here, before
// any mention is read.
func New(opts config.Options) (*Run, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	r, err := resolver.New(opts)
	if err != nil {
		return nil, err
	}

	return &Run{
		ID:         uuid.NewString(),
		Options:    opts,
		aggregator: aggregator.New(r, opts),
		detector:   community.NewDetector(opts.MaxLouvainPasses, opts.Resolution),
	}, nil
}

// Analyze runs a fresh pipeline over mentions.
func Analyze(ctx context.Context, opts config.Options, mentions iter.Seq[models.Mention]) (*models.Report, error) {
	run, err := New(opts)
	if err != nil {
		return nil, err
	}
	return run.Execute(ctx, mentions)
}

// Execute consumes mentions and returns the finished report. A run executes
// once; the report is only returned when every stage completed.
func (r *Run) Execute(ctx context.Context, mentions iter.Seq[models.Mention]) (*models.Report, error) {
	if !r.executed.CompareAndSwap(false, true) {
		return nil, ErrRunConsumed
	}

	started := time.Now()
	logger.Debug("Starting analysis", "run", r.ID, "top_n", r.Options.TopN)

	var aggregated *aggregator.Result
	err := r.stage(ctx, StageAggregate, func(ctx context.Context) (err error) {
		aggregated, err = r.aggregator.Aggregate(ctx, mentions)
		return err
	})
	if err != nil {
		return nil, err
	}

	var edges []models.Edge
	err = r.stage(ctx, StageCooccurrence, func(ctx context.Context) (err error) {
		edges, err = cooccurrence.Build(ctx, aggregated.Sentences)
		return err
	})
	if err != nil {
		return nil, err
	}

	var graph *models.Graph
	err = r.stage(ctx, StageAssemble, func(ctx context.Context) error {
		graph = parser.BuildGraph(aggregated.Characters, edges, r.Options.TopN)
		return nil
	})
	if err != nil {
		return nil, err
	}

	var (
		partition *models.Partition
		scores    map[string]float64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return r.stage(gctx, StageCommunity, func(ctx context.Context) (err error) {
			partition, err = r.detector.Detect(ctx, graph)
			return err
		})
	})
	g.Go(func() error {
		return r.stage(gctx, StageCentrality, func(ctx context.Context) (err error) {
			scores, err = centrality.Betweenness(ctx, graph, r.Options.Weighted)
			return err
		})
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := r.report(aggregated, graph, partition, scores)

	logger.Debug("Analysis finished",
		"run", r.ID,
		"characters", len(report.Characters),
		"nodes", len(graph.Nodes),
		"edges", len(graph.Edges),
		"communities", len(partition.Communities),
		"modularity", partition.Modularity,
		"elapsed", time.Since(started),
	)

	return report, nil
}

// stage runs fn between two cancellation checks so that a cancelled run never
// publishes the output of a stage.
func (r *Run) stage(ctx context.Context, name string, fn func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return &StageError{Stage: name, Err: err}
	}

	started := time.Now()
	if err := fn(ctx); err != nil {
		return &StageError{Stage: name, Err: err}
	}
	if err := ctx.Err(); err != nil {
		return &StageError{Stage: name, Err: err}
	}

	logger.Debug("Stage done", "run", r.ID, "stage", name, "elapsed", time.Since(started))
	return nil
}

func (r *Run) report(aggregated *aggregator.Result, graph *models.Graph, partition *models.Partition, scores map[string]float64) *models.Report {
	ranked := models.RankCharacters(aggregated.Characters)
	characters := make([]models.Character, 0, len(ranked))
	presence := make([]models.Presence, 0, len(ranked))
	for _, c := range ranked {
		characters = append(characters, *c)
		presence = append(presence, c.Presence())
	}

	centralityRanking := centrality.Rank(scores, graph)

	return &models.Report{
		RunID:          r.ID,
		DocumentLength: aggregated.DocumentLength,
		MentionCount:   aggregated.Mentions,
		SentenceCount:  len(aggregated.Sentences),
		Characters:     characters,
		Presence:       presence,
		Graph:          graph,
		Partition:      partition,
		CommunityStats: centrality.CommunityStats(graph, partition),
		Centrality:     centralityRanking,
		Bridges:        centrality.Bridges(centralityRanking, r.Options.BridgeCount),
	}
}
