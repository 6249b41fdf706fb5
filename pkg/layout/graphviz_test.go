package layout

import (
	"context"
	"testing"
)

func TestGraphvizEngine(t *testing.T) {
	if testing.Short() {
		t.Skip("graphviz runtime is slow to start")
	}

	e := NewGraphvizEngine(DefaultDOTOptions())
	pos, err := e.Layout(context.Background(), "a", []Edge{{"a", "b"}, {"a", "c"}})
	if err != nil {
		t.Fatalf("Layout() error = %v", err)
	}
	if len(pos) != 3 {
		t.Fatalf("len(pos) = %d, want 3: %v", len(pos), pos)
	}
	if pos["a"].Y >= pos["b"].Y {
		t.Errorf("root should be above child: a=%v b=%v", pos["a"], pos["b"])
	}
	if pos["b"].Y != pos["c"].Y {
		t.Errorf("siblings should share a rank: b=%v c=%v", pos["b"], pos["c"])
	}
	if pos["b"].X == pos["c"].X {
		t.Errorf("siblings should not overlap: b=%v c=%v", pos["b"], pos["c"])
	}
}

func TestGraphvizEngineEmptyRoot(t *testing.T) {
	pos, err := NewGraphvizEngine(DefaultDOTOptions()).Layout(context.Background(), "", nil)
	if err != nil || pos != nil {
		t.Errorf("Layout(\"\") = %v, %v", pos, err)
	}
}

func TestExecEngineMissingBinary(t *testing.T) {
	e := NewExecEngine("/nonexistent/dot-binary", DefaultDOTOptions())
	_, err := e.Layout(context.Background(), "a", nil)
	if err == nil {
		t.Fatal("Layout() should fail without a binary")
	}
}
