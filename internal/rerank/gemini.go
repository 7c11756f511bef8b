package rerank

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/gcbaptista/go-meddra-lookup/config"
	internalErrors "github.com/gcbaptista/go-meddra-lookup/internal/errors"
	"github.com/gcbaptista/go-meddra-lookup/internal/logging"
	"github.com/gcbaptista/go-meddra-lookup/model"
)

const geminiProvider = "gemini"

const promptHeader = "당신은 의학 용어 정렬 전문가입니다. 사용자가 입력한 증상과 가장 관련 있는 MedDRA LLT 용어를 순서대로 제시하세요.\n" +
	"반드시 JSON 배열만 출력하고, 다른 설명 텍스트를 포함하지 마십시오.\n" +
	"각 항목은 {\"llt_code\": \"코드\", \"score\": 정수(0-100), \"reason\": \"설명\"} 형식이어야 합니다.\n" +
	"가장 관련성이 높은 항목이 배열의 첫 번째 요소가 되도록 하세요.\n" +
	"JSON 외의 텍스트를 절대 작성하지 마십시오.\n"

type geminiPart struct {
	Text string `json:"text,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	ResponseMimeType string `json:"responseMimeType"`
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

type geminiRanking struct {
	Code   json.RawMessage `json:"llt_code"`
	Score  json.RawMessage `json:"score"`
	Reason string          `json:"reason"`
}

// GeminiRanker implements services.Ranker with the Gemini generateContent API.
type GeminiRanker struct {
	httpClient *resty.Client
	apiKey     string
	model      string
	logger     *zap.Logger
}

// NewGeminiRanker creates a Gemini client from settings. It fails when no API
// key is configured.
func NewGeminiRanker(settings config.RerankSettings, logger *zap.Logger) (*GeminiRanker, error) {
	if !settings.Enabled() {
		return nil, internalErrors.NewRankingError(geminiProvider, fmt.Errorf("API key is not configured"))
	}
	baseURL := settings.BaseURL
	if baseURL == "" {
		baseURL = config.DefaultRerankURL
	}
	modelName := settings.Model
	if modelName == "" {
		modelName = config.DefaultRerankModel
	}
	timeout := settings.Timeout
	if timeout <= 0 {
		timeout = config.DefaultRerankTime
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &GeminiRanker{
		httpClient: client,
		apiKey:     settings.APIKey,
		model:      modelName,
		logger:     logging.OrNop(logger),
	}, nil
}

// Model returns the configured model name.
func (g *GeminiRanker) Model() string {
	return g.model
}

// Rank asks Gemini to order candidates by relevance to query.
func (g *GeminiRanker) Rank(ctx context.Context, query string, candidates []model.SearchResult) ([]model.Ranking, error) {
	request := geminiRequest{
		Contents: []geminiContent{{
			Role:  "user",
			Parts: []geminiPart{{Text: BuildPrompt(query, candidates)}},
		}},
		GenerationConfig: geminiGenerationConfig{ResponseMimeType: "application/json"},
	}

	g.logger.Debug("Calling Gemini API",
		zap.String("model", g.model),
		zap.Int("candidates", len(candidates)),
	)

	var response geminiResponse
	resp, err := g.httpClient.R().
		SetContext(ctx).
		SetQueryParam("key", g.apiKey).
		SetBody(request).
		SetResult(&response).
		ForceContentType("application/json").
		Post(fmt.Sprintf("/v1beta/models/%s:generateContent", g.model))
	if err != nil {
		return nil, internalErrors.NewRankingError(geminiProvider, fmt.Errorf("request failed: %w", err))
	}
	if resp.IsError() {
		return nil, internalErrors.NewRankingError(geminiProvider, fmt.Errorf("HTTP %s", resp.Status()))
	}

	if len(response.Candidates) == 0 {
		return nil, internalErrors.NewRankingError(geminiProvider, fmt.Errorf("response has no candidates"))
	}
	var text strings.Builder
	for _, part := range response.Candidates[0].Content.Parts {
		text.WriteString(part.Text)
	}
	if text.Len() == 0 {
		return nil, internalErrors.NewRankingError(geminiProvider, fmt.Errorf("response has no text"))
	}

	rankings, err := ParseRankings(text.String())
	if err != nil {
		return nil, internalErrors.NewRankingError(geminiProvider, err)
	}
	return rankings, nil
}

// BuildPrompt renders the ranking instructions followed by one line per candidate.
func BuildPrompt(query string, candidates []model.SearchResult) string {
	var b strings.Builder
	b.WriteString(promptHeader)
	b.WriteString("사용자 입력: ")
	b.WriteString(query)
	b.WriteString("\n후보 목록:\n")
	for i, c := range candidates {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "LLT %s | 이름: %s | 점수: %s | 활성: %s",
			c.LLTCode, c.LLTName, strconv.FormatFloat(c.Score, 'f', -1, 64), c.Active)
	}
	return b.String()
}

// ParseRankings decodes the JSON array returned by the model. Entries without
// a code are skipped; a score that is not a number becomes 0.
func ParseRankings(text string) ([]model.Ranking, error) {
	var entries []geminiRanking
	if err := json.Unmarshal([]byte(text), &entries); err != nil {
		return nil, fmt.Errorf("ranking is not a JSON array: %w", err)
	}

	rankings := make([]model.Ranking, 0, len(entries))
	for _, entry := range entries {
		code := decodeCode(entry.Code)
		if code == "" {
			continue
		}
		rankings = append(rankings, model.Ranking{
			Code:   code,
			Score:  decodeScore(entry.Score),
			Reason: entry.Reason,
		})
	}
	return rankings, nil
}

// decodeCode accepts a JSON string or number.
func decodeCode(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

// decodeScore accepts a JSON number or a numeric string.
func decodeScore(raw json.RawMessage) float64 {
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return parsed
		}
	}
	return 0
}
