package outline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/tatyanaspiryanina-creator/student-presentation-miniapp/internal/infra/httpclient"
	"github.com/tatyanaspiryanina-creator/student-presentation-miniapp/internal/infra/logger"
	"github.com/tatyanaspiryanina-creator/student-presentation-miniapp/internal/presentation"
	"github.com/tatyanaspiryanina-creator/student-presentation-miniapp/pkg/errors"
)

const DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

type Slide struct {
	Title   string   `json:"title"`
	Bullets []string `json:"bullets"`
	Notes   string   `json:"notes,omitempty"`
}

type Outline struct {
	Title  string  `json:"title"`
	Slides []Slide `json:"slides"`
}

type Service struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *httpclient.Client
	logger     *logger.Logger
}

func New(apiKey, model string, client *httpclient.Client, log *logger.Logger) *Service {
	return &Service{
		apiKey:     apiKey,
		model:      model,
		baseURL:    DefaultBaseURL,
		httpClient: client,
		logger:     log,
	}
}

// WithBaseURL points the service at another Gemini-compatible endpoint.
func (s *Service) WithBaseURL(baseURL string) *Service {
	s.baseURL = strings.TrimRight(baseURL, "/")
	return s
}

// Build returns an outline with exactly req.Slides slides. Without an API
// key the outline is assembled locally.
func (s *Service) Build(ctx context.Context, req presentation.Request) (*Outline, error) {
	if s.apiKey == "" {
		s.logger.Debug("no gemini api key, using local outline", "topic", req.Topic)
		return normalize(localOutline(req), req), nil
	}

	o, err := s.generate(ctx, req)
	if err != nil {
		return nil, err
	}
	return normalize(o, req), nil
}

func (s *Service) generate(ctx context.Context, req presentation.Request) (*Outline, error) {
	requestBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]interface{}{
					{
						"text": buildPrompt(req),
					},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"temperature":      0.7,
			"maxOutputTokens":  8192,
			"responseMimeType": "application/json",
		},
	}

	bodyBytes, err := json.Marshal(requestBody)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to marshal request")
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", s.baseURL, s.model)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to build request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	// The key stays out of the URL so transport errors never carry it.
	httpReq.Header.Set("x-goog-api-key", s.apiKey)

	resp, err := s.httpClient.Do(ctx, httpReq)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeGeminiAPI, "gemini API request failed")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to read response")
	}

	if resp.StatusCode != http.StatusOK {
		s.logger.Error("gemini API error", "status", resp.StatusCode, "body", string(respBody))
		return nil, errors.New(errors.ErrCodeGeminiAPI, fmt.Sprintf("gemini API returned %d", resp.StatusCode))
	}

	return s.parseResponse(respBody)
}

func buildPrompt(req presentation.Request) string {
	requirements := strings.TrimSpace(req.Requirements)
	if requirements == "" {
		requirements = "none"
	}
	return fmt.Sprintf(`You are a presentation assistant for students.
Write the outline of a %d-slide presentation on the topic below and answer with JSON only:
{
  "title": "presentation title",
  "slides": [
    {"title": "slide title", "bullets": ["point 1", "point 2", "point 3"], "notes": "speaker notes"}
  ]
}
The "slides" array must contain exactly %d items. The first slide is the title slide, the last one summarises conclusions.
Style: %s.
Topic: %s
Extra requirements: %s`, req.Slides, req.Slides, req.Style, strings.TrimSpace(req.Topic), requirements)
}

func (s *Service) parseResponse(body []byte) (*Outline, error) {
	var response struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}

	if err := json.Unmarshal(body, &response); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to parse gemini response")
	}

	if len(response.Candidates) == 0 || len(response.Candidates[0].Content.Parts) == 0 {
		return nil, errors.New(errors.ErrCodeGeminiAPI, "empty response from gemini")
	}

	text := response.Candidates[0].Content.Parts[0].Text
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var o Outline
	if err := json.Unmarshal([]byte(text), &o); err != nil {
		s.logger.Error("failed to parse outline", "text", text, "error", err)
		return nil, errors.Wrap(err, errors.ErrCodeGeminiAPI, "failed to parse outline JSON")
	}

	return &o, nil
}
