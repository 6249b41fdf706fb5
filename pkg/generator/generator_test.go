package generator

import (
	"context"
	stderrors "errors"
	"io"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/storygraph/pkg/cache"
	"github.com/matzehuels/storygraph/pkg/errors"
	"github.com/matzehuels/storygraph/pkg/story"
)

const caveReply = `{
  "title": "The Cave",
  "start_scene": "a",
  "scenes": [
    {"id": "a", "description": "Dark mouth", "choices": [{"text": "Enter", "next_scene_id": "b"}]},
    {"id": "b", "description": "Treasure", "choices": [], "is_ending": true}
  ]
}`

func validRequest() Request {
	return Request{
		Description: "A cave adventure",
		Genre:       "fantasy",
		Heroes:      []string{"Ann", "Bo"},
		Mood:        "tense",
	}
}

func quietLogger() *log.Logger { return log.New(io.Discard) }

func TestParseHeroes(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"Ann", []string{"Ann"}},
		{" Ann , Bo,, ,Cy ", []string{"Ann", "Bo", "Cy"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseHeroes(tt.in), "ParseHeroes(%q)", tt.in)
	}
}

func TestRequestValidate(t *testing.T) {
	require.NoError(t, validRequest().Validate())

	err := Request{Description: "  ", Heroes: []string{" "}}.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
	assert.Contains(t, err.Error(), "description, heroes, genre")

	err = Request{Description: "x", Heroes: []string{"Ann"}}.Validate()
	assert.Contains(t, err.Error(), "genre")
	assert.NotContains(t, err.Error(), "heroes")
}

func TestPrompt(t *testing.T) {
	p := Prompt(validRequest())

	assert.Contains(t, p, `"start_scene"`)
	assert.Contains(t, p, "Description: A cave adventure")
	assert.Contains(t, p, "Heroes: Ann, Bo")
	assert.Contains(t, p, "Mood: tense")
	assert.NotContains(t, p, "Theme:", "blank hints are omitted")
}

func TestDecode(t *testing.T) {
	s, err := Decode([]byte(caveReply))
	require.NoError(t, err)
	assert.Equal(t, "The Cave", s.Title)
	require.Len(t, s.Scenes, 2)
	assert.True(t, s.Scenes[1].IsEnding())

	fenced := "```json\n" + caveReply + "\n```"
	s, err = Decode([]byte(fenced))
	require.NoError(t, err)
	assert.Equal(t, "a", s.StartScene)

	_, err = Decode([]byte("Once upon a time"))
	assert.True(t, errors.Is(err, errors.ErrCodeGenerateFailed))

	_, err = Decode([]byte(`{"title": "Nothing", "scenes": []}`))
	assert.True(t, errors.Is(err, errors.ErrCodeGenerateFailed))
}

func TestGeminiGenerate(t *testing.T) {
	var gotModel, gotPrompt string
	g := newGemini("test-model", quietLogger(), func(_ context.Context, model, prompt string) (string, error) {
		gotModel, gotPrompt = model, prompt
		return caveReply, nil
	})

	s, err := g.Generate(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, "gemini:test-model", g.Name())
	assert.Equal(t, "test-model", gotModel)
	assert.Contains(t, gotPrompt, "Genre: fantasy")
	assert.Len(t, s.Scenes, 2)
}

func TestGeminiGenerateInvalidRequest(t *testing.T) {
	called := false
	g := newGemini("", quietLogger(), func(context.Context, string, string) (string, error) {
		called = true
		return caveReply, nil
	})

	_, err := g.Generate(context.Background(), Request{})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
	assert.False(t, called, "model must not be called for an invalid request")
	assert.Equal(t, "gemini:"+DefaultModel, g.Name())
}

func fastBackoff(t *testing.T) {
	t.Helper()
	old := cache.DefaultBackoff
	cache.DefaultBackoff.Delay = time.Millisecond
	t.Cleanup(func() { cache.DefaultBackoff = old })
}

func TestGeminiGenerateRetries(t *testing.T) {
	fastBackoff(t)
	var calls atomic.Int32
	g := newGemini("m", quietLogger(), func(context.Context, string, string) (string, error) {
		if calls.Add(1) == 1 {
			return "", stderrors.New("503 unavailable")
		}
		return caveReply, nil
	})

	s, err := g.Generate(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, "The Cave", s.Title)
}

func TestGeminiGenerateBadReply(t *testing.T) {
	var calls atomic.Int32
	g := newGemini("m", quietLogger(), func(context.Context, string, string) (string, error) {
		calls.Add(1)
		return "not json", nil
	})

	_, err := g.Generate(context.Background(), validRequest())
	assert.True(t, errors.Is(err, errors.ErrCodeGenerateFailed))
	assert.Equal(t, int32(1), calls.Load(), "bad replies are not retried")
}

func TestGeminiGenerateCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	g := newGemini("m", quietLogger(), func(ctx context.Context, _, _ string) (string, error) {
		return "", ctx.Err()
	})

	_, err := g.Generate(ctx, validRequest())
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, context.Canceled))
}

type countingGenerator struct {
	calls atomic.Int32
	reply story.Story
}

func (g *countingGenerator) Name() string { return "counting" }

func (g *countingGenerator) Generate(context.Context, Request) (story.Story, error) {
	g.calls.Add(1)
	return g.reply, nil
}

func TestCached(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)

	s, err := Decode([]byte(caveReply))
	require.NoError(t, err)
	inner := &countingGenerator{reply: s}
	g := NewCached(inner, fc, nil)
	ctx := context.Background()

	first, err := g.Generate(ctx, validRequest())
	require.NoError(t, err)

	// Whitespace differences normalize to the same key.
	req := validRequest()
	req.Description = "  " + req.Description + "\n"
	second, err := g.Generate(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, int32(1), inner.calls.Load())
	assert.Equal(t, first, second)
	assert.Equal(t, "counting", g.Name())

	other := validRequest()
	other.Genre = "horror"
	_, err = g.Generate(ctx, other)
	require.NoError(t, err)
	assert.Equal(t, int32(2), inner.calls.Load())
}

func TestCachedRejectsInvalid(t *testing.T) {
	inner := &countingGenerator{}
	g := NewCached(inner, cache.NewNullCache(), nil)

	_, err := g.Generate(context.Background(), Request{Genre: "x"})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
	assert.Zero(t, inner.calls.Load())
}

func TestCachedKeyIncludesModel(t *testing.T) {
	a := NewCached(&countingGenerator{}, cache.NewNullCache(), nil)
	b := NewCached(newGemini("m", quietLogger(), nil), cache.NewNullCache(), nil)

	ka, kb := a.key(validRequest()), b.key(validRequest())
	assert.NotEqual(t, ka, kb)
	assert.True(t, strings.HasPrefix(ka, "story:"))
}
