package layout

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/storygraph/pkg/errors"
	"github.com/matzehuels/storygraph/pkg/observability"
	"github.com/matzehuels/storygraph/pkg/story"
)

// DefaultTimeout bounds a single engine run.
const DefaultTimeout = 10 * time.Second

// Source records where a [Result]'s positions came from.
type Source string

const (
	SourceNone     Source = "none"     // empty story
	SourceEngine   Source = "engine"   // hierarchical engine coordinates
	SourceFallback Source = "fallback" // breadth-first grid
)

// Result is the outcome of [Layouter.Compute].
type Result struct {
	Positions Positions
	Source    Source
	Engine    string
	Tree      *Tree

	// EngineErr is the engine failure that triggered the fallback, kept for
	// diagnostics only.
	EngineErr error
	Duration  time.Duration
}

// Layouter computes scene positions with a hierarchical engine and falls
// back to breadth-first leveling when the engine is missing, fails, times
// out or returns nothing. Compute never fails.
type Layouter struct {
	Engine  Engine
	Timeout time.Duration
	Spacing Spacing
	Logger  *log.Logger
}

// New returns a Layouter with default timeout and spacing. A nil engine
// always uses the fallback.
func New(engine Engine, logger *log.Logger) *Layouter {
	if logger == nil {
		logger = log.Default()
	}
	return &Layouter{
		Engine:  engine,
		Timeout: DefaultTimeout,
		Spacing: DefaultSpacing(),
		Logger:  logger,
	}
}

// Compute lays out g. Engine positions are returned as produced (Y down,
// engine units); fallback positions are on the [Spacing] grid. Scenes that
// are not reachable from the start have no position in either case.
func (l *Layouter) Compute(ctx context.Context, g *story.Graph) Result {
	start := time.Now()
	if g.Empty() {
		return Result{Positions: Positions{}, Source: SourceNone, Tree: BuildTree(g)}
	}

	tree := BuildTree(g)
	res := Result{Tree: tree}

	if l.Engine != nil {
		res.Engine = l.Engine.Name()
		observability.Layout().OnLayoutStart(ctx, res.Engine, g.Len())

		pos, err := l.runEngine(ctx, tree)
		switch {
		case err != nil:
			res.EngineErr = err
			l.Logger.Warn("layout engine failed, using fallback", "engine", res.Engine, "err", err)
		case len(pos) == 0:
			l.Logger.Warn("layout engine returned no coordinates, using fallback", "engine", res.Engine)
		default:
			res.Positions, res.Source = pos, SourceEngine
		}
	}

	if res.Source != SourceEngine {
		res.Positions, res.Source = FallbackPositions(g, l.Spacing), SourceFallback
	}
	res.Duration = time.Since(start)

	observability.Layout().OnLayoutComplete(ctx, res.Engine, string(res.Source), res.Duration, res.EngineErr)
	l.Logger.Debug("layout computed",
		"source", res.Source,
		"engine", res.Engine,
		"positioned", len(res.Positions),
		"scenes", g.Len(),
		"duration", res.Duration)
	return res
}

func (l *Layouter) runEngine(ctx context.Context, tree *Tree) (Positions, error) {
	timeout := l.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ectx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	pos, err := l.Engine.Layout(ectx, tree.Root(), tree.Edges())
	if stderrors.Is(err, context.DeadlineExceeded) {
		return nil, errors.Wrap(errors.ErrCodeTimeout, err, "layout exceeded %s", timeout)
	}
	if err != nil {
		return nil, err
	}

	// Drop anything the engine invented outside the tree.
	for id := range pos {
		if !tree.Has(id) {
			delete(pos, id)
		}
	}
	return pos, nil
}
