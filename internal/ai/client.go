package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"guessgame-server/internal/config"
	"guessgame-server/internal/models"

	"github.com/ollama/ollama/api"
	"github.com/pkoukk/tiktoken-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	openaigo "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const (
	pricePerMillionInputTokensUSD  = 0.1
	pricePerMillionOutputTokensUSD = 0.4

	maxAnswerTokens   = 200
	answerTemperature = 0.7
)

// ErrAnswerFailed wraps any provider failure while answering a question.
var ErrAnswerFailed = errors.New("failed to generate answer")

var (
	aiRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guessgame_ai_requests_total",
			Help: "Total number of requests to the AI API.",
		},
		[]string{"model", "status", "user_id"},
	)
	aiRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "guessgame_ai_request_duration_seconds",
			Help:    "Histogram of AI API request durations.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"model", "user_id"},
	)
	aiPromptTokens = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "guessgame_ai_prompt_tokens",
			Help:    "Histogram of prompt token counts.",
			Buckets: prometheus.LinearBuckets(100, 100, 20),
		},
		[]string{"model", "user_id"},
	)
	aiCompletionTokens = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "guessgame_ai_completion_tokens",
			Help:    "Histogram of completion token counts.",
			Buckets: prometheus.LinearBuckets(25, 25, 20),
		},
		[]string{"model", "user_id"},
	)
	aiTotalTokens = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "guessgame_ai_total_tokens",
			Help:    "Histogram of total token counts (prompt + completion).",
			Buckets: prometheus.LinearBuckets(125, 125, 20),
		},
		[]string{"model", "user_id"},
	)
	aiEstimatedCostUSD = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guessgame_ai_estimated_cost_usd_total",
			Help: "Estimated total cost of AI requests in USD.",
		},
		[]string{"model", "user_id"},
	)
)

// UsageInfo carries token accounting for one answer request.
type UsageInfo struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	EstimatedCostUSD float64
}

// Answerer answers a player's free-text question about a hidden character.
// Implementations must respect the context deadline; callers treat any
// error as a soft failure and fall back to FallbackAnswer.
type Answerer interface {
	AnswerQuestion(ctx context.Context, userID string, character *models.Character, question string) (string, UsageInfo, error)
}

func calculateCost(promptTokens, completionTokens int) float64 {
	inputCost := float64(promptTokens) * pricePerMillionInputTokensUSD / 1_000_000.0
	outputCost := float64(completionTokens) * pricePerMillionOutputTokensUSD / 1_000_000.0
	return inputCost + outputCost
}

func observeUsage(model, userID string, usage UsageInfo) {
	if usage.TotalTokens <= 0 {
		return
	}
	aiPromptTokens.With(prometheus.Labels{"model": model, "user_id": userID}).Observe(float64(usage.PromptTokens))
	aiCompletionTokens.With(prometheus.Labels{"model": model, "user_id": userID}).Observe(float64(usage.CompletionTokens))
	aiTotalTokens.With(prometheus.Labels{"model": model, "user_id": userID}).Observe(float64(usage.TotalTokens))
	if usage.EstimatedCostUSD > 0 {
		aiEstimatedCostUSD.With(prometheus.Labels{"model": model, "user_id": userID}).Add(usage.EstimatedCostUSD)
	}
}

// estimateTokens approximates a token count when the provider omits usage
// data in its response.
func estimateTokens(model string, texts ...string) int {
	tke, err := tiktoken.EncodingForModel(model)
	if err != nil {
		// Unknown model name, fall back to a generic encoding.
		tke, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return 0
		}
	}
	total := 0
	for _, text := range texts {
		total += len(tke.Encode(text, nil, nil))
	}
	return total
}

// --- OpenAI-compatible implementation ---

type openAIClient struct {
	client  *openaigo.Client
	model   string
	timeout time.Duration
	logger  *zap.Logger
}

func (c *openAIClient) AnswerQuestion(ctx context.Context, userID string, character *models.Character, question string) (string, UsageInfo, error) {
	usage := UsageInfo{}

	requestCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	startTime := time.Now()
	resp, err := c.client.CreateChatCompletion(requestCtx, openaigo.ChatCompletionRequest{
		Model: c.model,
		Messages: []openaigo.ChatCompletionMessage{
			{Role: openaigo.ChatMessageRoleSystem, Content: buildSystemPrompt(character)},
			{Role: openaigo.ChatMessageRoleUser, Content: question},
		},
		MaxTokens:   maxAnswerTokens,
		Temperature: answerTemperature,
	})
	duration := time.Since(startTime)

	if err != nil {
		c.logger.Warn("OpenAI request failed",
			zap.String("userID", userID),
			zap.Duration("duration", duration),
			zap.Error(err))
		aiRequestsTotal.With(prometheus.Labels{"model": c.model, "status": "error", "user_id": userID}).Inc()
		return "", usage, fmt.Errorf("%w: %v", ErrAnswerFailed, err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		c.logger.Warn("OpenAI returned an empty answer",
			zap.String("userID", userID),
			zap.Duration("duration", duration))
		aiRequestsTotal.With(prometheus.Labels{"model": c.model, "status": "error", "user_id": userID}).Inc()
		return "", usage, fmt.Errorf("%w: empty response", ErrAnswerFailed)
	}

	aiRequestsTotal.With(prometheus.Labels{"model": c.model, "status": "success", "user_id": userID}).Inc()
	aiRequestDuration.With(prometheus.Labels{"model": c.model, "user_id": userID}).Observe(duration.Seconds())

	answer := strings.TrimSpace(resp.Choices[0].Message.Content)

	if resp.Usage.TotalTokens > 0 {
		usage.PromptTokens = resp.Usage.PromptTokens
		usage.CompletionTokens = resp.Usage.CompletionTokens
		usage.TotalTokens = resp.Usage.TotalTokens
	} else {
		// Some OpenAI-compatible gateways drop the usage block.
		usage.PromptTokens = estimateTokens(c.model, buildSystemPrompt(character), question)
		usage.CompletionTokens = estimateTokens(c.model, answer)
		usage.TotalTokens = usage.PromptTokens + usage.CompletionTokens
	}
	usage.EstimatedCostUSD = calculateCost(usage.PromptTokens, usage.CompletionTokens)
	observeUsage(c.model, userID, usage)

	c.logger.Debug("Answer generated",
		zap.String("userID", userID),
		zap.Duration("duration", duration),
		zap.Int("totalTokens", usage.TotalTokens))
	return answer, usage, nil
}

// --- Ollama implementation ---

type ollamaClient struct {
	client  *api.Client
	model   string
	timeout time.Duration
	logger  *zap.Logger
}

func newOllamaClient(cfg *config.Config, logger *zap.Logger) (Answerer, error) {
	// api.NewClient wants the base URL without the /v1 suffix.
	baseURL := strings.TrimSuffix(cfg.AIBaseURL, "/v1")
	baseURL = strings.TrimSuffix(baseURL, "/")

	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("error parsing Ollama base URL %q: %w", baseURL, err)
	}

	httpClient := &http.Client{Timeout: cfg.AITimeout}
	logger.Info("Ollama client created",
		zap.String("baseURL", baseURL),
		zap.String("model", cfg.AIModel),
		zap.Duration("timeout", cfg.AITimeout))

	return &ollamaClient{
		client:  api.NewClient(parsedURL, httpClient),
		model:   cfg.AIModel,
		timeout: cfg.AITimeout,
		logger:  logger,
	}, nil
}

func (c *ollamaClient) AnswerQuestion(ctx context.Context, userID string, character *models.Character, question string) (string, UsageInfo, error) {
	usage := UsageInfo{}

	req := &api.ChatRequest{
		Model: c.model,
		Messages: []api.Message{
			{Role: "system", Content: buildSystemPrompt(character)},
			{Role: "user", Content: question},
		},
		Stream: func(b bool) *bool { return &b }(false),
		Options: map[string]interface{}{
			"temperature": answerTemperature,
			"num_predict": maxAnswerTokens,
		},
	}

	requestCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var resp api.ChatResponse
	startTime := time.Now()
	err := c.client.Chat(requestCtx, req, func(r api.ChatResponse) error {
		resp = r
		return nil
	})
	duration := time.Since(startTime)

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			c.logger.Warn("Ollama request timed out",
				zap.String("userID", userID),
				zap.Duration("timeout", c.timeout))
		} else {
			c.logger.Warn("Ollama request failed",
				zap.String("userID", userID),
				zap.Duration("duration", duration),
				zap.Error(err))
		}
		aiRequestsTotal.With(prometheus.Labels{"model": c.model, "status": "error", "user_id": userID}).Inc()
		return "", usage, fmt.Errorf("%w: %v", ErrAnswerFailed, err)
	}
	if strings.TrimSpace(resp.Message.Content) == "" {
		c.logger.Warn("Ollama returned an empty answer",
			zap.String("userID", userID),
			zap.Duration("duration", duration))
		aiRequestsTotal.With(prometheus.Labels{"model": c.model, "status": "error", "user_id": userID}).Inc()
		return "", usage, fmt.Errorf("%w: empty response", ErrAnswerFailed)
	}

	aiRequestsTotal.With(prometheus.Labels{"model": c.model, "status": "success", "user_id": userID}).Inc()
	aiRequestDuration.With(prometheus.Labels{"model": c.model, "user_id": userID}).Observe(duration.Seconds())

	usage.PromptTokens = resp.PromptEvalCount
	usage.CompletionTokens = resp.EvalCount
	usage.TotalTokens = resp.PromptEvalCount + resp.EvalCount
	// Local inference, no billable cost.
	usage.EstimatedCostUSD = 0
	observeUsage(c.model, userID, usage)

	return strings.TrimSpace(resp.Message.Content), usage, nil
}

// NewAnswerer builds the configured provider client.
func NewAnswerer(cfg *config.Config, logger *zap.Logger) (Answerer, error) {
	logger = logger.Named("AIClient")
	switch strings.ToLower(cfg.AIClientType) {
	case "openai":
		openaiConfig := openaigo.DefaultConfig(cfg.AIAPIKey)
		openaiConfig.BaseURL = cfg.AIBaseURL
		openaiConfig.HTTPClient = &http.Client{Timeout: cfg.AITimeout}
		logger.Info("OpenAI client created",
			zap.String("baseURL", cfg.AIBaseURL),
			zap.String("model", cfg.AIModel),
			zap.Duration("timeout", cfg.AITimeout))
		return &openAIClient{
			client:  openaigo.NewClientWithConfig(openaiConfig),
			model:   cfg.AIModel,
			timeout: cfg.AITimeout,
			logger:  logger,
		}, nil
	case "ollama":
		return newOllamaClient(cfg, logger)
	default:
		return nil, fmt.Errorf("unknown AI client type: %q", cfg.AIClientType)
	}
}
