package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/quillgate/quillgate/internal/handler/dto"
	"github.com/quillgate/quillgate/internal/model"
	"github.com/quillgate/quillgate/internal/service"
)

// Generator produces marketing copy.
type Generator interface {
	Generate(ctx context.Context, kind model.GenerationKind, req model.PromptRequest) (*model.GenerationResult, error)
}

// GenerationHandler serves the three generation endpoints. Routes are mounted
// behind the auth middleware.
type GenerationHandler struct {
	gen    Generator
	logger *slog.Logger
}

// NewGenerationHandler creates a new GenerationHandler.
func NewGenerationHandler(gen Generator, logger *slog.Logger) *GenerationHandler {
	return &GenerationHandler{gen: gen, logger: logger}
}

// SocialMediaAd handles POST /generate_social_media_ad.
func (h *GenerationHandler) SocialMediaAd(w http.ResponseWriter, r *http.Request) {
	h.generate(w, r, model.KindSocialMediaAd)
}

// BlogPost handles POST /generate_blog_post.
func (h *GenerationHandler) BlogPost(w http.ResponseWriter, r *http.Request) {
	h.generate(w, r, model.KindBlogPost)
}

// EmailCampaign handles POST /generate_email_campaign.
func (h *GenerationHandler) EmailCampaign(w http.ResponseWriter, r *http.Request) {
	h.generate(w, r, model.KindEmailCampaign)
}

func (h *GenerationHandler) generate(w http.ResponseWriter, r *http.Request, kind model.GenerationKind) {
	var req dto.PromptRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}
	if missing := req.Missing(); len(missing) > 0 {
		writeServiceError(w, h.logger, service.Errorf(service.KindValidation, "%s", dto.MissingFieldsDetail(missing)))
		return
	}

	result, err := h.gen.Generate(r.Context(), kind, req.ToModel())
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.GenerationResponse(result))
}
