package prompt

import (
	"errors"
	"strings"
	"testing"

	"github.com/quillgate/quillgate/internal/model"
)

func TestBuilder_Build(t *testing.T) {
	t.Parallel()

	b := NewBuilder()
	req := model.PromptRequest{
		ProductDescription:   "eco bottle {{.Price}}",
		CompetitiveAdvantage: "recyclable <b>&</b>",
		Price:                "$10",
	}

	tests := []struct {
		kind       model.GenerationKind
		role       string
		maxLength  int
		instructed string
	}{
		{model.KindSocialMediaAd, "social media marketing expert", 128, "social media ad caption"},
		{model.KindBlogPost, "content marketing expert", 2048, "blog post"},
		{model.KindEmailCampaign, "email marketing expert", 512, "email campaign"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(string(tt.kind), func(t *testing.T) {
			t.Parallel()

			p, err := b.Build(tt.kind, req)
			if err != nil {
				t.Fatalf("Build failed: %v", err)
			}

			if !strings.Contains(p.System, tt.role) {
				t.Errorf("expected system prompt to mention %q, got %q", tt.role, p.System)
			}
			if p.MaxLength != tt.maxLength {
				t.Errorf("expected max length %d, got %d", tt.maxLength, p.MaxLength)
			}
			if !strings.Contains(p.User, tt.instructed) {
				t.Errorf("expected user prompt to ask for %q", tt.instructed)
			}

			for _, v := range []string{req.ProductDescription, req.CompetitiveAdvantage, req.Price} {
				if !strings.Contains(p.User, v) {
					t.Errorf("expected user prompt to contain %q verbatim, got %q", v, p.User)
				}
			}
		})
	}
}

func TestBuilder_UserPromptLayout(t *testing.T) {
	t.Parallel()

	p, err := NewBuilder().Build(model.KindBlogPost, model.PromptRequest{
		ProductDescription:   "eco bottle",
		CompetitiveAdvantage: "recyclable",
		Price:                "$10",
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	wantPrefix := "Below is information about the company's product.\n" +
		"Product Description: eco bottle\n" +
		"Competitive Advantage: recyclable\n" +
		"Price: $10\n\n"
	if !strings.HasPrefix(p.User, wantPrefix) {
		t.Errorf("unexpected prompt prefix:\n%s", p.User)
	}
}

func TestBuilder_UnknownKind(t *testing.T) {
	t.Parallel()

	_, err := NewBuilder().Build(model.GenerationKind("haiku"), model.PromptRequest{})
	if !errors.Is(err, ErrUnknownKind) {
		t.Errorf("expected ErrUnknownKind, got %v", err)
	}
}
