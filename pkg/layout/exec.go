package layout

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/matzehuels/storygraph/pkg/errors"
)

// ExecEngine runs an external Graphviz dot binary.
type ExecEngine struct {
	// Path is the dot executable; "dot" is looked up on PATH when empty.
	Path    string
	Options DOTOptions
}

// NewExecEngine returns an engine that shells out to path.
func NewExecEngine(path string, opts DOTOptions) *ExecEngine {
	return &ExecEngine{Path: path, Options: opts}
}

// Name returns "exec".
func (e *ExecEngine) Name() string { return "exec" }

// DOTOptions returns the options used to build the DOT input.
func (e *ExecEngine) DOTOptions() DOTOptions { return e.Options }

// Layout pipes the tree through "dot -Tdot" and parses the result. A
// missing binary is reported as [errors.ErrCodeLayoutUnavailable].
func (e *ExecEngine) Layout(ctx context.Context, root string, edges []Edge) (Positions, error) {
	if root == "" {
		return nil, nil
	}
	path := e.Path
	if path == "" {
		path = "dot"
	}
	bin, err := exec.LookPath(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeLayoutUnavailable, err, "graphviz binary %q not found", path)
	}

	dot, names := ToDOT(root, edges, e.Options)
	cmd := exec.CommandContext(ctx, bin, "-Tdot")
	cmd.Stdin = strings.NewReader(dot)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return nil, fmt.Errorf("dot: %w", err)
		}
		return nil, fmt.Errorf("dot: %w: %s", err, msg)
	}
	return ParsePositions(out, names), nil
}
