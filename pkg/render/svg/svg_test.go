package svg

import (
	"context"
	"encoding/xml"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/storygraph/pkg/canvas"
	"github.com/matzehuels/storygraph/pkg/story"
)

func snapshot(t *testing.T, s story.Story) canvas.Snapshot {
	t.Helper()
	c := canvas.New(canvas.DefaultConfig(), nil, log.New(io.Discard))
	if err := c.Load(context.Background(), s); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return c.Snapshot()
}

func sample() story.Story {
	return story.Story{
		Title: "Cave & Forest",
		Scenes: []story.Scene{
			{ID: "start", Description: "You wake up <alone>.", Choices: []story.Choice{
				{Text: "Enter the cave", NextSceneID: "cave"},
				{Text: "Walk into the forest & hope", NextSceneID: "forest"},
			}},
			{ID: "cave", Description: "Dark."},
			{ID: "forest", Description: "Green."},
		},
	}
}

func TestRenderSVG(t *testing.T) {
	out := string(RenderSVG(snapshot(t, sample())))

	checks := []string{
		`<svg xmlns="http://www.w3.org/2000/svg"`,
		`id="card-grad-0"`,
		`data-role="start"`,
		`data-role="ending"`,
		`marker-end="url(#arrow)"`,
		`<title>Walk into the forest &amp; hope</title>`,
		`You wake up &lt;alone&gt;.`,
		`>START<`,
		`>ENDING<`,
		"</svg>",
	}
	for _, want := range checks {
		if !strings.Contains(out, want) {
			t.Errorf("RenderSVG() output missing %q", want)
		}
	}
	if got := strings.Count(out, `class="edge"`); got != 2 {
		t.Errorf("edge groups = %d, want 2", got)
	}
	if strings.Contains(out, "<script") {
		t.Error("script should only be embedded WithInteraction")
	}
}

func TestRenderSVGWellFormed(t *testing.T) {
	out := RenderSVG(snapshot(t, sample()), WithInteraction())
	dec := xml.NewDecoder(strings.NewReader(string(out)))
	for {
		_, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("invalid XML: %v", err)
		}
	}
	if !strings.Contains(string(out), "<script") {
		t.Error("WithInteraction() should embed the script")
	}
}

func TestRenderSVGEmpty(t *testing.T) {
	out := string(RenderSVG(snapshot(t, story.Story{})))
	if !strings.Contains(out, "Interactive story graph") {
		t.Error("empty canvas should render the placeholder")
	}
	if strings.Contains(out, `class="card"`) {
		t.Error("empty canvas should have no cards")
	}
}

func TestFrame(t *testing.T) {
	snap := snapshot(t, sample())
	f := Frame(snap, 40, false)
	if f != snap.Bounds.Inset(40, 40) {
		t.Errorf("Frame() = %v, want bounds plus margin", f)
	}
	if v := Frame(snap, 40, true); v != snap.View.Visible() {
		t.Errorf("Frame(viewport) = %v, want %v", v, snap.View.Visible())
	}
}

func TestEscapeXML(t *testing.T) {
	if got := EscapeXML(`a<b & "c"`); got != "a&lt;b &amp; &#34;c&#34;" {
		t.Errorf("EscapeXML() = %q", got)
	}
}
