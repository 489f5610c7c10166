// Package gemini はGoogle Gemini APIを使用した面接コーチのクライアントを提供します。
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/genai"

	"facecounter_backend/internal/feature/interview/domain/entity"
	"facecounter_backend/internal/feature/interview/usecase"
)

const (
	// DefaultModel はGemini APIのデフォルトモデルです。
	DefaultModel = "gemini-2.5-flash"
)

// Config configures the Gemini client.
type Config struct {
	APIKey string
	Model  string
	// BaseURL overrides the API endpoint (tests only).
	BaseURL    string
	HTTPClient *http.Client
}

// Coach はGemini APIで面接の返答と評価を生成します。
type Coach struct {
	client *genai.Client
	model  string
}

// CoachがLanguageModelを実装していることをコンパイル時に検証します。
var _ usecase.LanguageModel = (*Coach)(nil)

// feedbackSchema は評価結果のJSONスキーマです。
var feedbackSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"score":        {Type: genai.TypeNumber},
		"strengths":    {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
		"improvements": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
		"summary":      {Type: genai.TypeString},
	},
	Required: []string{"score", "strengths", "improvements", "summary"},
}

// NewCoach はAPIキーを使用してCoachの新しいインスタンスを生成します。
// APIキーが未設定の場合はエラーを返し、呼び出し側はコーチ機能を無効化します。
func NewCoach(ctx context.Context, cfg Config) (*Coach, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini api key is not configured")
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	cc := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: cfg.HTTPClient,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &Coach{client: client, model: model}, nil
}

// Chat は会話履歴とシステム指示から次の返答を生成します。
func (g *Coach) Chat(ctx context.Context, system string, messages []entity.Message) (string, error) {
	contents := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		role := genai.Role(genai.RoleUser)
		if m.Role == entity.RoleAI {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Content, role))
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
	})
	if err != nil {
		return "", fmt.Errorf("gemini API request failed: %w", err)
	}
	return resp.Text(), nil
}

// Evaluate はJSONスキーマに従った評価を生成します。
func (g *Coach) Evaluate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   feedbackSchema,
	})
	if err != nil {
		return "", fmt.Errorf("gemini API request failed: %w", err)
	}
	return resp.Text(), nil
}
