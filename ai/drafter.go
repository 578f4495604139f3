// Package ai drafts personalized party invitations with the Gemini API.
// The feature is optional: without an API key the planner falls back to
// plain template rendering.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"party-planner/domain"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultModel   = "gemini-2.0-flash"
	defaultVibe    = "fun and casual"
)

const promptFormat = `You are a hype-master party invitation writer. Your job is to craft SHORT, punchy text messages that make people EXCITED to come to an event.

RULES:
- Keep it under 160 characters (it's a text message!)
- Use the person's first name naturally
- Match the vibe requested but always bring energy
- No hashtags, at most 1-2 emojis
- Sound like a real friend texting, not a robot
- Make them feel like they'd be missing out if they don't come
- Don't include any greeting like "Hey" at the start - jump right in

EVENT: %s
RECIPIENT'S FIRST NAME: %s
VIBE: %s

Write ONE text message. Just the message, nothing else.`

// Drafter calls the Gemini generateContent endpoint over plain HTTP.
type Drafter struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

func NewDrafter(apiKey string) *Drafter {
	return &Drafter{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		model:      defaultModel,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// NewDrafterAt targets a non-default endpoint, e.g. a local stand-in server.
func NewDrafterAt(apiKey, baseURL string) *Drafter {
	d := NewDrafter(apiKey)
	d.baseURL = baseURL
	return d
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Draft writes one invitation for one contact. An empty vibe uses the
// default one.
func (d *Drafter) Draft(ctx context.Context, event, vibe string, contact domain.Contact) (string, error) {
	if vibe == "" {
		vibe = defaultVibe
	}
	prompt := fmt.Sprintf(promptFormat, event, contact.FirstName(), vibe)

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", d.baseURL, d.model, d.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("drafting invitation: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var decoded generateResponse
	if err := json.Unmarshal(respBody, &decoded); err != nil {
		return "", fmt.Errorf("decoding draft response: %w", err)
	}
	if resp.StatusCode >= 400 {
		detail := resp.Status
		if decoded.Error != nil {
			detail = decoded.Error.Message
		}
		return "", fmt.Errorf("drafting invitation: %s", detail)
	}
	if len(decoded.Candidates) == 0 || len(decoded.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("drafting invitation: empty response")
	}
	return strings.TrimSpace(decoded.Candidates[0].Content.Parts[0].Text), nil
}
