package generator

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/charmbracelet/log"
	"google.golang.org/genai"

	"github.com/matzehuels/storygraph/pkg/cache"
	"github.com/matzehuels/storygraph/pkg/errors"
	"github.com/matzehuels/storygraph/pkg/observability"
	"github.com/matzehuels/storygraph/pkg/story"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

// completeFunc sends a prompt and returns the raw reply text.
type completeFunc func(ctx context.Context, model, prompt string) (string, error)

// Gemini generates stories with a Gemini model.
type Gemini struct {
	model    string
	logger   *log.Logger
	complete completeFunc
}

// NewGemini connects to the Gemini API. An empty apiKey lets the client
// read GEMINI_API_KEY or GOOGLE_API_KEY from the environment.
func NewGemini(ctx context.Context, apiKey, model string, logger *log.Logger) (*Gemini, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeGenerateFailed, err, "create gemini client")
	}
	complete := func(ctx context.Context, model, prompt string) (string, error) {
		resp, err := cli.Models.GenerateContent(ctx, model,
			[]*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}},
			&genai.GenerateContentConfig{ResponseMIMEType: "application/json"},
		)
		if err != nil {
			return "", err
		}
		if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
			return "", errors.New(errors.ErrCodeGenerateFailed, "empty reply from %s", model)
		}
		return resp.Candidates[0].Content.Parts[0].Text, nil
	}
	return newGemini(model, logger, complete), nil
}

func newGemini(model string, logger *log.Logger, complete completeFunc) *Gemini {
	if model == "" {
		model = DefaultModel
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Gemini{model: model, logger: logger, complete: complete}
}

// Name returns "gemini:<model>".
func (g *Gemini) Name() string { return "gemini:" + g.model }

// Generate validates req, asks the model for a story and decodes the reply.
// Transport failures are retried with backoff; an undecodable reply is not.
func (g *Gemini) Generate(ctx context.Context, req Request) (s story.Story, err error) {
	if err := req.Validate(); err != nil {
		return story.Story{}, err
	}

	start := time.Now()
	observability.Generator().OnGenerateStart(ctx, g.model)
	defer func() {
		observability.Generator().OnGenerateComplete(ctx, g.model, len(s.Scenes), time.Since(start), err)
	}()

	prompt := Prompt(req)
	var reply string
	attempt := 0
	err = cache.RetryWithBackoff(ctx, func() error {
		attempt++
		var cerr error
		reply, cerr = g.complete(ctx, g.model, prompt)
		if cerr == nil {
			return nil
		}
		if stderrors.Is(cerr, context.Canceled) || stderrors.Is(cerr, context.DeadlineExceeded) || errors.GetCode(cerr) != "" {
			return cerr
		}
		g.logger.Warn("gemini request failed", "model", g.model, "attempt", attempt, "err", cerr)
		return cache.Retryable(cerr)
	})
	if err != nil {
		if stderrors.Is(err, context.DeadlineExceeded) {
			return story.Story{}, errors.Wrap(errors.ErrCodeTimeout, err, "generate with %s", g.model)
		}
		if errors.GetCode(err) != "" {
			return story.Story{}, err
		}
		return story.Story{}, errors.Wrap(errors.ErrCodeGenerateFailed, err, "generate with %s", g.model)
	}

	s, err = Decode([]byte(reply))
	if err != nil {
		return story.Story{}, err
	}
	g.logger.Debug("story generated", "model", g.model, "scenes", len(s.Scenes), "duration", time.Since(start))
	return s, nil
}
