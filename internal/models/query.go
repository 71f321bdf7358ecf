package models

import (
	"fmt"
	"strings"
)

// AskRequest is a single student question, optionally with a base64-encoded image.
type AskRequest struct {
	Question string  `json:"question"`
	Image    *string `json:"image,omitempty"`
}

// Validate trims the question and rejects blank ones.
func (r *AskRequest) Validate() error {
	r.Question = strings.TrimSpace(r.Question)
	if r.Question == "" {
		return fmt.Errorf("%w: question cannot be empty", ErrInvalidRequest)
	}
	return nil
}

// EncodedImage returns the attached image payload, or "" when none was sent.
func (r *AskRequest) EncodedImage() string {
	if r.Image == nil {
		return ""
	}
	return strings.TrimSpace(*r.Image)
}
