package canvas

import (
	"slices"

	"github.com/matzehuels/storygraph/pkg/layout"
)

// CardView is an immutable copy of a card for renderers.
type CardView struct {
	ID       string    `json:"id"`
	Number   int       `json:"number"`
	Role     Role      `json:"role"`
	Orphan   bool      `json:"orphan,omitempty"`
	Hovered  bool      `json:"hovered,omitempty"`
	Selected bool      `json:"selected,omitempty"`
	Center   Point     `json:"center"`
	Bounds   Rect      `json:"bounds"`
	Lines    []string  `json:"lines"`
	Badge    string    `json:"badge"`
	Choices  int       `json:"choices"`
	Style    CardStyle `json:"style"`
}

// EdgeView is an immutable copy of an edge for renderers. From and To are
// indices into [Snapshot.Cards].
type EdgeView struct {
	From    int       `json:"from"`
	To      int       `json:"to"`
	FromID  string    `json:"from_id"`
	ToID    string    `json:"to_id"`
	Choice  int       `json:"choice"`
	Text    string    `json:"text,omitempty"`
	Hovered bool      `json:"hovered,omitempty"`
	Tooltip string    `json:"tooltip,omitempty"`
	Style   EdgeStyle `json:"style"`

	Geometry `json:"geometry"`
}

// Snapshot is a consistent, detached view of a canvas. Renderers work only
// from snapshots so they never hold the canvas lock.
type Snapshot struct {
	State   State         `json:"state"`
	Title   string        `json:"title,omitempty"`
	Start   string        `json:"start,omitempty"`
	Source  layout.Source `json:"source,omitempty"`
	Engine  string        `json:"engine,omitempty"`
	Version uint64        `json:"version"`

	Cards  []CardView `json:"cards"`
	Edges  []EdgeView `json:"edges"`
	Bounds Rect       `json:"bounds"`
	View   Viewport   `json:"view"`

	Config Config `json:"-"`
}

// Snapshot copies the current state.
func (c *Canvas) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := Snapshot{
		State:   StateEmpty,
		Title:   c.graph.Title(),
		Version: c.version,
		Cards:   []CardView{},
		Edges:   []EdgeView{},
		View:    c.view,
		Config:  c.cfg,
	}
	if c.scene == nil {
		return s
	}

	s.State = StatePopulated
	s.Start = c.graph.StartID()
	s.Source = c.scene.result.Source
	s.Engine = c.scene.result.Engine
	s.Bounds = c.boundsLocked()

	index := make(map[*Card]int, len(c.scene.cards))
	s.Cards = make([]CardView, len(c.scene.cards))
	for i, card := range c.scene.cards {
		index[card] = i
		s.Cards[i] = CardView{
			ID:       card.ID,
			Number:   card.Number,
			Role:     card.Role,
			Orphan:   card.Orphan,
			Hovered:  card.Hovered(),
			Selected: card.Selected(),
			Center:   card.Center(),
			Bounds:   card.Bounds(),
			Lines:    slices.Clone(card.Lines()),
			Badge:    card.Badge(),
			Choices:  len(card.Scene.Choices),
			Style:    card.Style(),
		}
	}

	s.Edges = make([]EdgeView, len(c.scene.edges))
	for i, e := range c.scene.edges {
		s.Edges[i] = EdgeView{
			From:     index[e.From],
			To:       index[e.To],
			FromID:   e.From.ID,
			ToID:     e.To.ID,
			Choice:   e.Choice,
			Text:     e.Text,
			Hovered:  e.Hovered(),
			Tooltip:  e.Tooltip(),
			Geometry: e.Geometry(),
			Style:    e.Style(),
		}
	}
	return s
}

// Card returns the view of card id.
func (s Snapshot) Card(id string) (CardView, bool) {
	for _, c := range s.Cards {
		if c.ID == id {
			return c, true
		}
	}
	return CardView{}, false
}

// Tooltip returns the tooltip of the hovered edge, if any.
func (s Snapshot) Tooltip() string {
	for _, e := range s.Edges {
		if e.Tooltip != "" {
			return e.Tooltip
		}
	}
	return ""
}
