// Package prompt renders the fixed marketing-copy templates.
package prompt

import (
	"bytes"
	"errors"
	"fmt"
	"text/template"

	"github.com/quillgate/quillgate/internal/model"
)

// ErrUnknownKind is returned when no template exists for a generation kind.
var ErrUnknownKind = errors.New("unknown generation kind")

const productFacts = `Below is information about the company's product.
Product Description: {{.ProductDescription}}
Competitive Advantage: {{.CompetitiveAdvantage}}
Price: {{.Price}}

`

// Prompt is the rendered input for a single model call.
type Prompt struct {
	System    string
	User      string
	MaxLength int
}

type definition struct {
	system    string
	user      *template.Template
	maxLength int
}

// Builder renders prompts for every supported generation kind.
// Values are interpolated verbatim; filtering happens on the rendered output.
type Builder struct {
	defs map[model.GenerationKind]definition
}

// NewBuilder parses the built-in templates.
func NewBuilder() *Builder {
	return &Builder{
		defs: map[model.GenerationKind]definition{
			model.KindSocialMediaAd: {
				system: "You are a social media marketing expert helping a company create social media ads for their products.",
				user: mustParse(model.KindSocialMediaAd, productFacts+
					"Using this information, create a short, compelling social media ad caption that is catchy and has a clear call to action (i.e. subscribe to newsletter, find out more, buy now). Include just the generated ad caption, and nothing else."),
				maxLength: 128,
			},
			model.KindBlogPost: {
				system: "You are a content marketing expert helping a company create blog posts for their product.",
				user: mustParse(model.KindBlogPost, productFacts+
					"Using this information, create a blog post that naturally & indirectly markets the product. Include just the generated blog post, and nothing else."),
				maxLength: 2048,
			},
			model.KindEmailCampaign: {
				system: "You are an email marketing expert helping a company create email campaigns for their product.",
				user: mustParse(model.KindEmailCampaign, productFacts+
					"Using this information, create a catchy email campaign that hooks potential buyers into buying a product or clicking into the company's website. Include just the generated email campaign, and nothing else."),
				maxLength: 512,
			},
		},
	}
}

func mustParse(kind model.GenerationKind, text string) *template.Template {
	return template.Must(template.New(string(kind)).Option("missingkey=error").Parse(text))
}

// Build renders the system prompt, user prompt and output budget for kind.
func (b *Builder) Build(kind model.GenerationKind, req model.PromptRequest) (Prompt, error) {
	def, ok := b.defs[kind]
	if !ok {
		return Prompt{}, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	var buf bytes.Buffer
	if err := def.user.Execute(&buf, req); err != nil {
		return Prompt{}, fmt.Errorf("render %s prompt: %w", kind, err)
	}

	return Prompt{
		System:    def.system,
		User:      buf.String(),
		MaxLength: def.maxLength,
	}, nil
}
