package layout

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"
)

// GraphvizEngine runs the dot layout in-process through the WebAssembly
// build of Graphviz.
type GraphvizEngine struct {
	Options DOTOptions
}

// NewGraphvizEngine returns an engine with the given DOT options.
func NewGraphvizEngine(opts DOTOptions) *GraphvizEngine {
	return &GraphvizEngine{Options: opts}
}

// Name returns "graphviz".
func (e *GraphvizEngine) Name() string { return "graphviz" }

// DOTOptions returns the options used to build the DOT input.
func (e *GraphvizEngine) DOTOptions() DOTOptions { return e.Options }

// Layout returns node centres for the tree. The Graphviz call runs on its
// own goroutine so that ctx expiry returns immediately even if the runtime
// does not observe cancellation; the abandoned call finishes in the
// background and its result is dropped.
func (e *GraphvizEngine) Layout(ctx context.Context, root string, edges []Edge) (Positions, error) {
	if root == "" {
		return nil, nil
	}
	dot, names := ToDOT(root, edges, e.Options)

	type result struct {
		out []byte
		err error
	}
	done := make(chan result, 1)
	go func() {
		out, err := renderDOT(ctx, dot)
		done <- result{out, err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		if r.err != nil {
			return nil, r.err
		}
		return ParsePositions(r.out, names), nil
	}
}

// renderDOT lays out dot and returns the attributed DOT output.
func renderDOT(ctx context.Context, dot string) (out []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("graphviz panic: %v", r)
		}
	}()

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.XDOT, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
