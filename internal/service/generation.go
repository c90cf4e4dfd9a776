package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/quillgate/quillgate/internal/auth"
	"github.com/quillgate/quillgate/internal/llm"
	"github.com/quillgate/quillgate/internal/model"
	"github.com/quillgate/quillgate/internal/prompt"
)

// ContentChecker reports whether text must be rejected.
type ContentChecker interface {
	ContainsHarmfulWords(text string) bool
}

// PromptRenderer renders the prompt for a generation kind.
type PromptRenderer interface {
	Build(kind model.GenerationKind, req model.PromptRequest) (prompt.Prompt, error)
}

// GenerationService renders, screens and dispatches prompts to the model.
type GenerationService struct {
	prompts PromptRenderer
	filter  ContentChecker
	model   llm.Client
	logger  *slog.Logger
}

// NewGenerationService creates a GenerationService.
func NewGenerationService(prompts PromptRenderer, filter ContentChecker, client llm.Client, logger *slog.Logger) *GenerationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &GenerationService{
		prompts: prompts,
		filter:  filter,
		model:   client,
		logger:  logger.With("component", "service.generation"),
	}
}

// Generate produces marketing copy of the given kind. The rendered user prompt is
// screened before the model is called; a flagged prompt never reaches the backend.
func (s *GenerationService) Generate(ctx context.Context, kind model.GenerationKind, req model.PromptRequest) (*model.GenerationResult, error) {
	p, err := s.prompts.Build(kind, req)
	if err != nil {
		return nil, NewError(KindInternal, err)
	}

	subject := slog.String("subject", auth.SubjectFromContext(ctx))

	if s.filter.ContainsHarmfulWords(p.User) {
		s.logger.Warn("prompt rejected by content filter", slog.String("kind", string(kind)), subject)
		return nil, NewError(KindContentPolicy, ErrContentPolicy)
	}

	start := time.Now()
	text, err := s.model.Invoke(ctx, p.System, p.User, p.MaxLength)
	if err != nil {
		s.logger.Error("generation failed",
			slog.String("kind", string(kind)),
			subject,
			slog.String("error", err.Error()),
		)
		if errors.Is(err, llm.ErrGenerationFailed) {
			return nil, NewError(KindGenerationFailed, err)
		}
		return nil, NewError(KindInternal, err)
	}

	s.logger.Info("generation completed",
		slog.String("kind", string(kind)),
		subject,
		slog.Int("max_length", p.MaxLength),
		slog.Int("output_chars", len(text)),
		slog.Float64("duration_ms", float64(time.Since(start).Microseconds())/1000),
	)

	return &model.GenerationResult{Kind: kind, Text: text}, nil
}
