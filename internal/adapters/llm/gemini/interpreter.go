// Package gemini は Gemini API を使った補助解釈の実装です。
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ogurasousui/staffing-plan-assistant/internal/core/assistant"
	"google.golang.org/genai"
)

var (
	// ErrMissingAPIKey は API キーが空のときに返します。
	ErrMissingAPIKey = errors.New("gemini: api key is required")
	// ErrEmptyResponse は候補にテキストが含まれないときに返します。
	ErrEmptyResponse = errors.New("gemini: empty response")
	// ErrMalformedResponse は応答が JSON として解釈できないときに返します。
	ErrMalformedResponse = errors.New("gemini: malformed response")
)

const defaultModel = "gemini-2.5-flash"

// Config は Interpreter の設定です。
type Config struct {
	APIKey      string
	Model       string
	Temperature float32
	Timeout     time.Duration
	Prompt      string
}

// generator は genai.Models のうち利用するメソッドだけを切り出したものです。
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Interpreter は assistant.Interpreter を Gemini で実装します。
type Interpreter struct {
	models  generator
	model   string
	timeout time.Duration
	config  *genai.GenerateContentConfig
}

var _ assistant.Interpreter = (*Interpreter)(nil)

// New は API キーでクライアントを作成して Interpreter を返します。
func New(ctx context.Context, cfg Config) (*Interpreter, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return newInterpreter(client.Models, cfg), nil
}

func newInterpreter(models generator, cfg Config) *Interpreter {
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}
	prompt := cfg.Prompt
	if strings.TrimSpace(prompt) == "" {
		prompt = DefaultPrompt
	}
	temperature := cfg.Temperature

	return &Interpreter{
		models:  models,
		model:   model,
		timeout: cfg.Timeout,
		config: &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(prompt, genai.RoleUser),
			Temperature:       &temperature,
			ResponseMIMEType:  "application/json",
		},
	}
}

// Interpret は text を Gemini に渡し、返された JSON を Interpretation に変換します。
func (i *Interpreter) Interpret(ctx context.Context, text string) (*assistant.Interpretation, error) {
	if i.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.timeout)
		defer cancel()
	}

	contents := []*genai.Content{
		genai.NewContentFromText(text, genai.RoleUser),
	}
	resp, err := i.models.GenerateContent(ctx, i.model, contents, i.config)
	if err != nil {
		return nil, fmt.Errorf("gemini: generate content: %w", err)
	}

	raw := responseText(resp)
	if strings.TrimSpace(raw) == "" {
		return nil, ErrEmptyResponse
	}
	return parseInterpretation(raw)
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	candidate := resp.Candidates[0]
	if candidate == nil || candidate.Content == nil {
		return ""
	}

	var b strings.Builder
	for _, part := range candidate.Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		b.WriteString(part.Text)
	}
	return b.String()
}

// parseInterpretation はコードフェンスや前後の文を取り除いてから JSON を読み取ります。
func parseInterpretation(raw string) (*assistant.Interpretation, error) {
	body := extractJSON(raw)
	if body == "" {
		return nil, fmt.Errorf("%w: no json object", ErrMalformedResponse)
	}

	var out assistant.Interpretation
	if err := json.Unmarshal([]byte(body), &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if strings.TrimSpace(out.Intent) == "" {
		out.Intent = "unknown"
	}
	return &out, nil
}

func extractJSON(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end < start {
		return ""
	}
	return s[start : end+1]
}
