package ai

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnavailable signals that no usable AI client is configured. The title
// normalizer treats it as "skip straight to heuristics", never as fatal.
var ErrUnavailable = errors.New("ai: text-cleanup service unavailable")

// TitleRequest carries the raw title plus enough page context for the model
// to pick the role out of the marketing noise.
type TitleRequest struct {
	RawTitle    string
	BodyExcerpt string
	PageURL     string
	Company     string
	Location    string
}

// TitleResult is the strict JSON shape the model must answer with.
type TitleResult struct {
	Title string `json:"title"`
	Note  string `json:"note"`
}

// Client is the interface for text-cleanup providers.
type Client interface {
	// CleanTitle asks the provider for a cleaned role-only job title.
	CleanTitle(ctx context.Context, req TitleRequest) (TitleResult, error)
}

// buildSystemPrompt creates the system instruction for the model.
func buildSystemPrompt() string {
	return `You clean up job titles scraped from a noisy job board.
I will give you a raw title and an excerpt of the posting body.

Task:
1. Return ONLY the role name: no company, no location, no counts ("3 Nos"), no marketing words ("URGENT", "HIRING").
2. Keep it under 80 characters.
3. If the raw title is a generic site heading and the body names one clear role, use that role.
4. Answer with a single raw JSON object {"title": "...", "note": "..."} and nothing else. No markdown fences.`
}

// buildUserPrompt combines the raw title and the body excerpt.
func buildUserPrompt(req TitleRequest) string {
	return fmt.Sprintf("Raw title: %s\nCompany: %s\nLocation: %s\nURL: %s\n\nBody excerpt:\n%s",
		req.RawTitle, req.Company, req.Location, req.PageURL, req.BodyExcerpt)
}
