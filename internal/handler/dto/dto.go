// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"strings"

	"github.com/quillgate/quillgate/internal/model"
)

// MessageResponse is the body of GET /.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Detail string `json:"detail"`
	Code   string `json:"code"`
}

// CredentialsRequest is the body of signup and login. Fields are pointers so
// that absence can be told apart from an empty string.
type CredentialsRequest struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

// Missing lists required fields absent from the body.
func (r CredentialsRequest) Missing() []string {
	var missing []string
	if r.Email == nil {
		missing = append(missing, "email")
	}
	if r.Password == nil {
		missing = append(missing, "password")
	}
	return missing
}

// TokenResponse carries a freshly issued access token.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
}

// LoginFailedResponse is returned with 200 when credentials do not match.
type LoginFailedResponse struct {
	Error string `json:"error"`
}

// PromptRequest is the body of every generation endpoint. Only presence is
// checked; an empty string is a valid value.
type PromptRequest struct {
	ProductDescription   *string `json:"product_description"`
	CompetitiveAdvantage *string `json:"competitive_advantage"`
	Price                *string `json:"price"`
}

// Missing lists required fields absent from the body.
func (r PromptRequest) Missing() []string {
	var missing []string
	if r.ProductDescription == nil {
		missing = append(missing, "product_description")
	}
	if r.CompetitiveAdvantage == nil {
		missing = append(missing, "competitive_advantage")
	}
	if r.Price == nil {
		missing = append(missing, "price")
	}
	return missing
}

// ToModel converts a validated request. Call only when Missing is empty.
func (r PromptRequest) ToModel() model.PromptRequest {
	return model.PromptRequest{
		ProductDescription:   *r.ProductDescription,
		CompetitiveAdvantage: *r.CompetitiveAdvantage,
		Price:                *r.Price,
	}
}

// MissingFieldsDetail formats the 422 detail for absent fields.
func MissingFieldsDetail(fields []string) string {
	return "missing required fields: " + strings.Join(fields, ", ")
}

// GenerationResponse wraps generated text under its kind, e.g.
// {"blog_post": "..."}.
func GenerationResponse(result *model.GenerationResult) map[string]string {
	return map[string]string{string(result.Kind): result.Text}
}
