package model

// GenerationKind identifies one of the fixed marketing-copy formats.
type GenerationKind string

// Supported generation kinds. The string value doubles as the response key.
const (
	KindSocialMediaAd GenerationKind = "social_media_ad"
	KindBlogPost      GenerationKind = "blog_post"
	KindEmailCampaign GenerationKind = "email_campaign"
)

// GenerationKinds lists every supported kind.
var GenerationKinds = []GenerationKind{KindSocialMediaAd, KindBlogPost, KindEmailCampaign}

// IsValid reports whether k is a supported kind.
func (k GenerationKind) IsValid() bool {
	switch k {
	case KindSocialMediaAd, KindBlogPost, KindEmailCampaign:
		return true
	}
	return false
}

// PromptRequest carries the product facts interpolated into every template.
type PromptRequest struct {
	ProductDescription   string
	CompetitiveAdvantage string
	Price                string
}

// GenerationResult is the text produced by the model for one kind.
type GenerationResult struct {
	Kind GenerationKind `json:"kind"`
	Text string         `json:"text"`
}
