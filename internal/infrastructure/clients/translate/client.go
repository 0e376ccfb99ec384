package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"go.opentelemetry.io/otel/attribute"

	"github.com/vtravel/hotelbot/internal/domain/entities"
	"github.com/vtravel/hotelbot/internal/domain/providers"
	"github.com/vtravel/hotelbot/internal/infrastructure/observability"
	"github.com/vtravel/hotelbot/pkg/config"
	apperrors "github.com/vtravel/hotelbot/pkg/errors"
)

// Client wraps the translation provider API
type Client struct {
	baseURL    string
	apiKey     string
	apiHost    string
	source     string
	target     string
	httpClient *http.Client
}

var _ providers.Translator = (*Client)(nil)

// NewClient creates a translation client. The default pair is ru -> en.
func NewClient(cfg *config.TranslateConfig) *Client {
	return &Client{
		baseURL: "https://" + cfg.Host,
		apiKey:  cfg.APIKey,
		apiHost: cfg.Host,
		source:  "ru",
		target:  "en",
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// SourceLanguage returns the configured source language
func (c *Client) SourceLanguage() string {
	return c.source
}

// SetSourceLanguage configures the source language. Values are not validated
// here; call SupportedLanguages to check availability.
func (c *Client) SetSourceLanguage(language string) {
	c.source = language
}

// TargetLanguage returns the configured target language
func (c *Client) TargetLanguage() string {
	return c.target
}

// SetTargetLanguage configures the target language. Values are not validated
// here; call SupportedLanguages to check availability.
func (c *Client) SetTargetLanguage(language string) {
	c.target = language
}

type translateRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
}

type translateResponse struct {
	Data *struct {
		Translations *struct {
			TranslatedText string `json:"translatedText"`
		} `json:"translations"`
	} `json:"data"`
}

// Translate converts text between the configured language pair
func (c *Client) Translate(ctx context.Context, text string) (string, error) {
	ctx, span := observability.StartSpan(ctx, "translate.Translate")
	defer span.End()
	span.SetAttributes(
		attribute.String("translate.source", c.source),
		attribute.String("translate.target", c.target),
	)

	payload, err := json.Marshal(translateRequest{
		Q:      text,
		Source: c.source,
		Target: c.target,
	})
	if err != nil {
		return "", apperrors.NewUnavailable("failed to build translate request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/language/translate/v2", bytes.NewReader(payload))
	if err != nil {
		return "", apperrors.NewUnavailable("failed to build translate request", err)
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		return "", apperrors.NewUnavailable("translation request failed", err)
	}
	defer resp.Body.Close()

	var out translateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		span.RecordError(err)
		return "", apperrors.NewUnavailable("translation response could not be decoded", err)
	}

	if out.Data == nil || out.Data.Translations == nil || out.Data.Translations.TranslatedText == "" {
		return "", apperrors.NewMalformedResponse("translation payload missing data.translations.translatedText", nil)
	}
	return out.Data.Translations.TranslatedText, nil
}

type languagesResponse struct {
	Languages []entities.Language `json:"languages"`
}

// SupportedLanguages returns the provider's supported-language list
func (c *Client) SupportedLanguages(ctx context.Context) ([]entities.Language, error) {
	ctx, span := observability.StartSpan(ctx, "translate.SupportedLanguages")
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/language/translate/v2/languages", nil)
	if err != nil {
		return nil, apperrors.NewUnavailable("failed to build languages request", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		return nil, apperrors.NewUnavailable("languages request failed", err)
	}
	defer resp.Body.Close()

	var out languagesResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		span.RecordError(err)
		return nil, apperrors.NewUnavailable("languages response could not be decoded", err)
	}
	return out.Languages, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("X-RapidAPI-Key", c.apiKey)
	req.Header.Set("X-RapidAPI-Host", c.apiHost)
}
