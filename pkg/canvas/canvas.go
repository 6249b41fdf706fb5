package canvas

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/storygraph/pkg/errors"
	"github.com/matzehuels/storygraph/pkg/layout"
	"github.com/matzehuels/storygraph/pkg/observability"
	"github.com/matzehuels/storygraph/pkg/story"
)

// State is the load state of a canvas.
type State int

const (
	StateEmpty State = iota
	StatePopulated
)

func (s State) String() string {
	if s == StatePopulated {
		return "populated"
	}
	return "empty"
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText decodes a state name.
func (s *State) UnmarshalText(b []byte) error {
	switch string(b) {
	case "empty":
		*s = StateEmpty
	case "populated":
		*s = StatePopulated
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unknown canvas state %q", b)
	}
	return nil
}

// Canvas holds the cards and edges of one loaded story together with the
// viewport through which they are seen.
//
// A canvas starts Empty. [Canvas.Load] with at least one scene makes it
// Populated; a load with no scenes, or one that fails, makes it Empty
// again. Loads are serialized and never leave a half-built graph behind:
// readers see the previous state until the new one is swapped in.
//
// All methods are safe for concurrent use.
type Canvas struct {
	cfg      Config
	layouter *layout.Layouter
	logger   *log.Logger

	buildMu sync.Mutex // serializes Load

	mu        sync.RWMutex
	graph     *story.Graph
	scene     *built
	view      Viewport
	hoverCard *Card
	hoverEdge *Edge
	version   uint64
}

type built struct {
	cards    []*Card
	byID     map[string]*Card
	edges    []*Edge
	incident map[*Card][]*Edge
	result   layout.Result
}

// New returns an empty canvas. A nil layouter uses the breadth-first
// fallback only.
func New(cfg Config, layouter *layout.Layouter, logger *log.Logger) *Canvas {
	if logger == nil {
		logger = log.Default()
	}
	if layouter == nil {
		layouter = layout.New(nil, logger)
		if cfg.Spacing.ColumnWidth > 0 && cfg.Spacing.RowHeight > 0 {
			layouter.Spacing = cfg.Spacing
		}
	}
	c := &Canvas{
		cfg:      cfg,
		layouter: layouter,
		logger:   logger,
		graph:    story.NewGraph(story.Story{}),
		view:     NewViewport(cfg.ViewportWidth, cfg.ViewportHeight, cfg.MinZoom, cfg.MaxZoom),
	}
	c.view.Fit(Rect{}, 0)
	return c
}

// Config returns the configuration the canvas was built with.
func (c *Canvas) Config() Config { return c.cfg }

// =============================================================================
// Loading
// =============================================================================

// Load replaces the canvas content with s. The pipeline lays the story out,
// creates one card per scene, centres the layout on the origin, parks
// unpositioned scenes on an extra row, connects every valid choice and fits
// the view. A failure anywhere rolls the canvas back to Empty and is
// returned with [errors.ErrCodeBuildFailed].
func (c *Canvas) Load(ctx context.Context, s story.Story) (err error) {
	c.buildMu.Lock()
	defer c.buildMu.Unlock()

	start := time.Now()
	g := story.NewGraph(s)
	for _, p := range g.Validate() {
		c.logger.Warn("story problem", "err", p)
	}

	var b *built
	if !g.Empty() {
		b, err = c.build(ctx, g)
		if err != nil {
			c.logger.Error("canvas build failed, clearing", "err", err)
			b = nil
		}
	}

	c.mu.Lock()
	c.graph = g
	c.scene = b
	c.hoverCard, c.hoverEdge = nil, nil
	c.fitLocked()
	c.version++
	c.mu.Unlock()

	cards, edges := 0, 0
	if b != nil {
		cards, edges = len(b.cards), len(b.edges)
	}
	observability.Layout().OnBuildComplete(ctx, cards, edges, time.Since(start), err)
	c.logger.Debug("canvas loaded", "scenes", g.Len(), "cards", cards, "edges", edges, "duration", time.Since(start))
	return err
}

// Clear empties the canvas.
func (c *Canvas) Clear() {
	c.buildMu.Lock()
	defer c.buildMu.Unlock()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.graph = story.NewGraph(story.Story{})
	c.scene = nil
	c.hoverCard, c.hoverEdge = nil, nil
	c.fitLocked()
	c.version++
}

func (c *Canvas) build(ctx context.Context, g *story.Graph) (b *built, err error) {
	defer func() {
		if r := recover(); r != nil {
			b, err = nil, errors.New(errors.ErrCodeBuildFailed, "build panicked: %v", r)
		}
	}()

	res := c.layouter.Compute(ctx, g)

	b = &built{
		cards:    make([]*Card, g.Len()),
		byID:     make(map[string]*Card, g.Len()),
		incident: make(map[*Card][]*Edge),
		result:   res,
	}

	start := g.StartID()
	for i, sc := range g.Scenes() {
		id := g.ID(i)
		first := g.Index(id) == i
		role := RoleNormal
		switch {
		case id == start && first:
			role = RoleStart
		case sc.IsEnding():
			role = RoleEnding
		}
		card := NewCard(&c.cfg, id, sc, i+1, role)
		b.cards[i] = card
		if first {
			b.byID[id] = card
		}
	}

	if err := c.position(b, res); err != nil {
		return nil, err
	}

	for i, sc := range g.Scenes() {
		from := b.cards[i]
		for j, ch := range sc.Choices {
			to, ok := b.byID[ch.NextSceneID]
			if !ok || to == from || ch.NextSceneID == from.ID {
				continue
			}
			e := NewEdge(&c.cfg, from, to, ch.Text, j)
			b.edges = append(b.edges, e)
			b.incident[from] = append(b.incident[from], e)
			b.incident[to] = append(b.incident[to], e)
		}
	}
	return b, nil
}

// position moves every card with a layout position, centring the layout on
// the origin, and places the rest on an orphan row below.
func (c *Canvas) position(b *built, res layout.Result) error {
	scale := 1.0
	if res.Source == layout.SourceEngine && c.cfg.EngineScale > 0 {
		scale = c.cfg.EngineScale
	}
	lo, hi, _ := res.Positions.Bounds()
	mid := Point{X: (lo.X + hi.X) / 2, Y: (lo.Y + hi.Y) / 2}

	var orphans []*Card
	bottom, placed := 0.0, false
	for _, card := range b.cards {
		p, ok := res.Positions[card.ID]
		if !ok || b.byID[card.ID] != card {
			orphans = append(orphans, card)
			continue
		}
		if !finite(p.X) || !finite(p.Y) {
			return errors.New(errors.ErrCodeBuildFailed, "layout gave %q a non-finite position %v", card.ID, p)
		}
		card.MoveTo(Point{X: (p.X - mid.X) * scale, Y: (p.Y - mid.Y) * scale})
		if !placed || card.center.Y > bottom {
			bottom, placed = card.center.Y, true
		}
	}
	if len(orphans) == 0 {
		return nil
	}

	c.logger.Warn("scenes without layout position", "count", len(orphans))
	y := 0.0
	if placed {
		y = bottom + c.cfg.Spacing.RowHeight
	}
	col := c.cfg.Spacing.ColumnWidth
	x0 := -float64(len(orphans))*col/2 + col/2
	for i, card := range orphans {
		card.Orphan = true
		card.MoveTo(Point{X: x0 + float64(i)*col, Y: y})
	}
	return nil
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

// =============================================================================
// Accessors
// =============================================================================

// State reports whether a story is shown.
func (c *Canvas) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.scene == nil {
		return StateEmpty
	}
	return StatePopulated
}

// Graph returns the story graph of the last load. It is empty before the
// first load and after [Canvas.Clear].
func (c *Canvas) Graph() *story.Graph {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.graph
}

// Story returns the story of the last load.
func (c *Canvas) Story() story.Story { return c.Graph().Story() }

// Viewport returns a copy of the current viewport.
func (c *Canvas) Viewport() Viewport {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.view
}

// Version increases on every visible change.
func (c *Canvas) Version() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.version
}

// Bounds returns the box covering all cards, or a zero Rect when empty.
func (c *Canvas) Bounds() Rect {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.boundsLocked()
}

func (c *Canvas) boundsLocked() Rect {
	var r Rect
	if c.scene == nil {
		return r
	}
	for _, card := range c.scene.cards {
		r = r.Union(card.Bounds())
	}
	return r
}

// =============================================================================
// View
// =============================================================================

// ZoomIn zooms by the configured step around the screen centre.
func (c *Canvas) ZoomIn() bool {
	return c.zoom(c.cfg.ZoomInStep, nil)
}

// ZoomOut zooms by the configured step around the screen centre.
func (c *Canvas) ZoomOut() bool {
	return c.zoom(c.cfg.ZoomOutStep, nil)
}

// Wheel zooms by the wheel step, in for positive delta and out for
// negative, keeping the point under the pointer (screen pixels) fixed.
func (c *Canvas) Wheel(delta float64, at Point) bool {
	switch {
	case delta > 0:
		return c.zoom(c.cfg.WheelStep, &at)
	case delta < 0:
		return c.zoom(1/c.cfg.WheelStep, &at)
	default:
		return false
	}
}

func (c *Canvas) zoom(factor float64, at *Point) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	anchor := c.view.ScreenCenter()
	if at != nil {
		anchor = *at
	}
	return c.touched(c.view.ZoomAt(factor, anchor))
}

// Pan moves the content by dx, dy screen pixels.
func (c *Canvas) Pan(dx, dy float64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.touched(c.view.Pan(dx, dy))
}

// Resize changes the screen size of the viewport.
func (c *Canvas) Resize(width, height float64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.touched(c.view.Resize(width, height))
}

// ResetView discards zoom and pan and fits all cards on screen.
func (c *Canvas) ResetView() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fitLocked()
	c.version++
}

func (c *Canvas) fitLocked() {
	c.view.Fit(c.boundsLocked(), c.cfg.FitMargin)
}

func (c *Canvas) touched(changed bool) bool {
	if changed {
		c.version++
	}
	return changed
}

// =============================================================================
// Interaction
// =============================================================================

// HitKind says what a point landed on.
type HitKind string

const (
	HitNone HitKind = ""
	HitCard HitKind = "card"
	HitEdge HitKind = "edge"
)

// Hit is the result of [Canvas.HitTest]. For edges, ID is the source card
// id and Index the edge position in the snapshot.
type Hit struct {
	Kind  HitKind `json:"kind"`
	ID    string  `json:"id,omitempty"`
	Index int     `json:"index"`
}

// HitTest returns what lies under the canvas point p. Cards are tested
// before edges, topmost card first.
func (c *Canvas) HitTest(p Point) Hit {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if card, i := c.cardAt(p); card != nil {
		return Hit{Kind: HitCard, ID: card.ID, Index: i}
	}
	if e, i := c.edgeAt(p); e != nil {
		return Hit{Kind: HitEdge, ID: e.From.ID, Index: i}
	}
	return Hit{Index: -1}
}

func (c *Canvas) cardAt(p Point) (*Card, int) {
	if c.scene == nil {
		return nil, -1
	}
	for i := len(c.scene.cards) - 1; i >= 0; i-- {
		if c.scene.cards[i].Contains(p) {
			return c.scene.cards[i], i
		}
	}
	return nil, -1
}

func (c *Canvas) edgeAt(p Point) (*Edge, int) {
	if c.scene == nil {
		return nil, -1
	}
	tol := c.cfg.HitTolerance
	if c.view.Zoom > 0 {
		tol /= c.view.Zoom
	}
	for i := len(c.scene.edges) - 1; i >= 0; i-- {
		if c.scene.edges[i].HitTest(p, tol) {
			return c.scene.edges[i], i
		}
	}
	return nil, -1
}

// HoverAt moves the pointer to canvas point p, updating which card or edge
// is hovered. It reports whether anything needs a redraw.
func (c *Canvas) HoverAt(p Point) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	card, _ := c.cardAt(p)
	var edge *Edge
	if card == nil {
		edge, _ = c.edgeAt(p)
	}
	return c.touched(c.setHover(card, edge))
}

// Leave clears any hover state, as when the pointer leaves the view.
func (c *Canvas) Leave() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.touched(c.setHover(nil, nil))
}

func (c *Canvas) setHover(card *Card, edge *Edge) bool {
	changed := false
	if c.hoverCard != card {
		if c.hoverCard != nil {
			changed = c.hoverCard.PointerLeave() || changed
		}
		if card != nil {
			changed = card.PointerEnter() || changed
		}
		c.hoverCard = card
	}
	if c.hoverEdge != edge {
		if c.hoverEdge != nil {
			changed = c.hoverEdge.PointerLeave() || changed
		}
		if edge != nil {
			changed = edge.PointerEnter() || changed
		}
		c.hoverEdge = edge
	}
	return changed
}

// ClickAt toggles selection of the card under canvas point p. It returns
// the card id, or "" when p is on no card.
func (c *Canvas) ClickAt(p Point) (id string, redraw bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	card, _ := c.cardAt(p)
	if card == nil {
		return "", false
	}
	return card.ID, c.touched(card.Click())
}

// Toggle toggles selection of the card with the given id.
func (c *Canvas) Toggle(id string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	card, err := c.cardLocked(id)
	if err != nil {
		return false, err
	}
	return c.touched(card.Click()), nil
}

// ClearSelection deselects every card.
func (c *Canvas) ClearSelection() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.scene == nil {
		return false
	}
	changed := false
	for _, card := range c.scene.cards {
		changed = card.SetSelected(false) || changed
	}
	return c.touched(changed)
}

// Selected returns the ids of selected cards in input order.
func (c *Canvas) Selected() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.scene == nil {
		return nil
	}
	var ids []string
	for _, card := range c.scene.cards {
		if card.Selected() {
			ids = append(ids, card.ID)
		}
	}
	return ids
}

// MoveCard places the centre of card id at p and recomputes the edges that
// touch it. No other edge changes.
func (c *Canvas) MoveCard(id string, p Point) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	card, err := c.cardLocked(id)
	if err != nil {
		return err
	}
	c.moveLocked(card, p)
	return nil
}

// DragBy moves card id by dx, dy canvas units.
func (c *Canvas) DragBy(id string, dx, dy float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	card, err := c.cardLocked(id)
	if err != nil {
		return err
	}
	ctr := card.Center()
	c.moveLocked(card, Point{X: ctr.X + dx, Y: ctr.Y + dy})
	return nil
}

func (c *Canvas) moveLocked(card *Card, p Point) {
	if !card.MoveTo(p) {
		return
	}
	for _, e := range c.scene.incident[card] {
		e.Recompute()
	}
	c.version++
}

func (c *Canvas) cardLocked(id string) (*Card, error) {
	if c.scene == nil {
		return nil, errors.New(errors.ErrCodeSceneNotFound, "canvas is empty")
	}
	card, ok := c.scene.byID[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeSceneNotFound, "no card for scene %q", id)
	}
	return card, nil
}

// String summarizes the canvas for logs.
func (c *Canvas) String() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.scene == nil {
		return "canvas(empty)"
	}
	return fmt.Sprintf("canvas(%d cards, %d edges, %s)", len(c.scene.cards), len(c.scene.edges), c.scene.result.Source)
}
