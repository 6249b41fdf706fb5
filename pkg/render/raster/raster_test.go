package raster

import (
	"bytes"
	"context"
	"image/png"
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/storygraph/pkg/canvas"
	"github.com/matzehuels/storygraph/pkg/story"
)

func load(t *testing.T, s story.Story) canvas.Snapshot {
	t.Helper()
	c := canvas.New(canvas.DefaultConfig(), nil, log.New(io.Discard))
	if err := c.Load(context.Background(), s); err != nil {
		t.Fatal(err)
	}
	return c.Snapshot()
}

func TestRenderPNG(t *testing.T) {
	snap := load(t, story.Story{Scenes: []story.Scene{
		{ID: "a", Description: "Start here", Choices: []story.Choice{{Text: "go", NextSceneID: "b"}}},
		{ID: "b", Description: "The end"},
	}})

	data, err := RenderPNG(snap)
	if err != nil {
		t.Fatalf("RenderPNG() error = %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}

	// cards span 300x450 plus a 40 unit margin on every side
	if b := img.Bounds(); b.Dx() != 380 || b.Dy() != 530 {
		t.Errorf("size = %dx%d, want 380x530", b.Dx(), b.Dy())
	}
}

func TestRenderPNGOptions(t *testing.T) {
	snap := load(t, story.Story{Scenes: []story.Scene{{ID: "a"}}})

	data, err := RenderPNG(snap, WithScale(2), WithMaxSide(500))
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); max(b.Dx(), b.Dy()) > 500 {
		t.Errorf("size = %v, want longer side capped at 500", b)
	}

	data, err = RenderPNG(snap, WithViewport())
	if err != nil {
		t.Fatal(err)
	}
	img, err = png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 1000 || b.Dy() != 800 {
		t.Errorf("viewport size = %v, want 1000x800", b)
	}
}

func TestRenderPNGEmpty(t *testing.T) {
	data, err := RenderPNG(load(t, story.Story{}))
	if err != nil {
		t.Fatalf("RenderPNG(empty) error = %v", err)
	}
	if len(data) == 0 {
		t.Error("empty canvas should still produce an image")
	}
}
