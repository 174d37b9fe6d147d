package ingestion

import (
	"context"
	"errors"
	"log/slog"

	"github.com/JaimeStill/go-agents-orchestration/pkg/config"
	"github.com/JaimeStill/go-agents-orchestration/pkg/observability"
	"github.com/JaimeStill/go-agents-orchestration/pkg/state"
	"github.com/JaimeStill/studybuddy/internal/documents"
	"github.com/JaimeStill/studybuddy/internal/metrics"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/codes"
)

// run carries the typed payload of one ingestion through the graph. The graph
// state only records progress markers.
type run struct {
	id     uuid.UUID
	userID uuid.UUID
	upload Upload
	logger *slog.Logger

	pageCount *int
	text      string
	texts     []string
	vectors   [][]float32

	key    string
	stored bool
	doc    *documents.Document

	stage Stage
	err   error
	// clean is false once a compensation action has failed.
	clean bool
}

type step struct {
	stage Stage
	fn    func(context.Context, *run) error
}

func (p *pipeline) steps() []step {
	return []step{
		{StageValidating, p.validate},
		{StageExtracting, p.extract},
		{StageChunking, p.chunk},
		{StageEmbedding, p.embed},
		{StagePersistingBlob, p.storeBlob},
		{StagePersistingRecord, p.createRecord},
		{StagePersistingChunks, p.insertChunks},
		{StageCompleted, p.complete},
	}
}

// graph builds the linear stage graph for r. Failed is not a node: any node
// error ends execution and Ingest handles it.
func (p *pipeline) graph(r *run) (state.StateGraph, error) {
	cfg := config.DefaultGraphConfig("ingestion")

	graph, err := state.NewGraphWithDeps(cfg, &stageObserver{logger: r.logger}, discardCheckpoints{})
	if err != nil {
		return nil, err
	}

	steps := p.steps()
	for _, s := range steps {
		if err := graph.AddNode(s.stage.String(), p.node(r, s)); err != nil {
			return nil, err
		}
	}

	for i := 1; i < len(steps); i++ {
		if err := graph.AddEdge(steps[i-1].stage.String(), steps[i].stage.String(), nil); err != nil {
			return nil, err
		}
	}

	if err := graph.SetEntryPoint(steps[0].stage.String()); err != nil {
		return nil, err
	}
	if err := graph.SetExitPoint(steps[len(steps)-1].stage.String()); err != nil {
		return nil, err
	}

	return graph, nil
}

func (p *pipeline) node(r *run, s step) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, st state.State) (state.State, error) {
		if err := p.stage(ctx, r, s.stage, s.fn); err != nil {
			return st, err
		}
		return st.Set("stage", s.stage.String()), nil
	})
}

// stage runs fn under its own span and records the outcome. The first error is
// kept on r so the graph's own error wrapping does not hide the fault kind.
func (p *pipeline) stage(ctx context.Context, r *run, s Stage, fn func(context.Context, *run) error) error {
	ctx, span := p.tracer.Start(ctx, "ingestion."+s.String())
	defer span.End()

	r.stage = s
	r.logger.InfoContext(ctx, "stage entered", "stage", s)

	err := fn(ctx, r)

	p.deps.Metrics.IngestionStages.WithLabelValues(s.String(), metrics.Outcome(err)).Inc()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if r.err == nil {
			r.err = err
		}
	}
	return err
}

// stageObserver logs graph execution events for a single run.
type stageObserver struct {
	logger *slog.Logger
}

func (o *stageObserver) OnEvent(ctx context.Context, event observability.Event) {
	o.logger.Debug("graph event", "type", event.Type, "source", event.Source)
}

var errNoCheckpoints = errors.New("ingestion runs are not checkpointed")

// discardCheckpoints satisfies the graph's checkpoint store. An ingestion is
// bounded by a single request, so there is nothing to resume.
type discardCheckpoints struct{}

func (discardCheckpoints) Save(st state.State) error { return nil }

func (discardCheckpoints) Load(runID string) (state.State, error) {
	return state.State{}, errNoCheckpoints
}

func (discardCheckpoints) Delete(runID string) error { return nil }

func (discardCheckpoints) List() ([]string, error) { return nil, nil }
