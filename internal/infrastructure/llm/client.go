// Package llm 封装对大模型上游of访问，支持本地 ollama and openai 兼容接口。
package llm

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/luna1998-nun/QA-assistant-backend/internal/config"
	"github.com/luna1998-nun/QA-assistant-backend/internal/domain"
	"github.com/luna1998-nun/QA-assistant-backend/internal/domain/entity"
)

const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"

	// 连接池参数。流式生成单次可达十分钟，池子要撑住并发会话。
	maxIdleConns        = 100
	maxIdleConnsPerHost = 20
)

// Client 基于 langchaingo of上游适配器
type Client struct {
	model      llms.Model
	provider   string
	baseURL    string
	httpClient *http.Client
	apiKey     string
	logger     *slog.Logger
}

var _ domain.LLMClient = (*Client)(nil)

// NewClient 根据配置create上游client
func NewClient(cfg config.LLMConfig, logger *slog.Logger) (*Client, error) {
	httpClient := &http.Client{
		Timeout: cfg.ReadTimeout,
		Transport: &http.Transport{
			MaxIdleConns:        maxIdleConns,
			MaxIdleConnsPerHost: maxIdleConnsPerHost,
			DialContext: (&net.Dialer{
				Timeout: cfg.ConnectTimeout,
			}).DialContext,
		},
	}

	var model llms.Model
	var err error

	switch cfg.Provider {
	case ProviderOllama:
		model, err = ollama.New(
			ollama.WithServerURL(cfg.BaseURL),
			ollama.WithModel(cfg.Model),
			ollama.WithHTTPClient(httpClient),
		)
		if err != nil {
			return nil, fmt.Errorf("create ollama client: %w", err)
		}

	case ProviderOpenAI:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("openai provider requires api key")
		}
		opts := []openai.Option{
			openai.WithToken(cfg.APIKey),
			openai.WithModel(cfg.Model),
			openai.WithHTTPClient(httpClient),
		}
		if cfg.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
		}
		model, err = openai.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("create openai client: %w", err)
		}

	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", cfg.Provider)
	}

	return &Client{
		model:      model,
		provider:   cfg.Provider,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: httpClient,
		apiKey:     cfg.APIKey,
		logger:     logger,
	}, nil
}

// NewClientWithModel 用既有模型构造client，测试用
func NewClientWithModel(model llms.Model, logger *slog.Logger) *Client {
	return &Client{
		model:    model,
		provider: "stub",
		logger:   logger,
	}
}

// CallSync 同步生成，返回完整回复文本
func (c *Client) CallSync(ctx context.Context, history []entity.Message, userMessage string) (string, error) {
	messages := buildMessages(history, userMessage)

	resp, err := c.model.GenerateContent(ctx, messages)
	if err != nil {
		return "", domain.NewUpstreamError("llm generation failed", err)
	}
	if len(resp.Choices) == 0 {
		return "", domain.NewUpstreamError("llm returned no choices", nil)
	}

	return resp.Choices[0].Content, nil
}

// Stream 流式生成。返回ofchannel在生成结束or出错后关闭；
// ctx 取消会让上游读取随之中止。
func (c *Client) Stream(ctx context.Context, history []entity.Message, userMessage string) (<-chan entity.StreamChunk, error) {
	messages := buildMessages(history, userMessage)
	out := make(chan entity.StreamChunk, 16)

	go func() {
		defer close(out)

		_, err := c.model.GenerateContent(ctx, messages,
			llms.WithStreamingFunc(func(ctx context.Context, chunk []byte) error {
				select {
				case out <- entity.StreamChunk{Text: string(chunk)}:
					return nil
				case <-ctx.Done():
					return ctx.Err()
				}
			}),
		)
		if err != nil && ctx.Err() == nil {
			select {
			case out <- entity.StreamChunk{Error: err}:
			case <-ctx.Done():
			}
		}
	}()

	return out, nil
}

// Ping 探测上游可达性。启动时调用一次，failure只记日志不阻塞启动。
func (c *Client) Ping(ctx context.Context) error {
	if c.baseURL == "" {
		return nil
	}

	var probeURL string
	switch c.provider {
	case ProviderOllama:
		probeURL = c.baseURL + "/api/tags"
	case ProviderOpenAI:
		probeURL = c.baseURL + "/models"
	default:
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, probeURL, nil)
	if err != nil {
		return err
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.NewUpstreamError("llm upstream unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.NewUpstreamError(fmt.Sprintf("llm upstream returned %d", resp.StatusCode), nil)
	}

	c.logger.Info("llm upstream reachable", "provider", c.provider, "url", probeURL)
	return nil
}

func buildMessages(history []entity.Message, userMessage string) []llms.MessageContent {
	messages := make([]llms.MessageContent, 0, len(history)+1)
	for _, m := range history {
		messages = append(messages, llms.TextParts(roleToMessageType(m.Role), m.Content))
	}
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, userMessage))
	return messages
}

func roleToMessageType(role string) llms.ChatMessageType {
	switch role {
	case entity.RoleSystem:
		return llms.ChatMessageTypeSystem
	case entity.RoleAssistant:
		return llms.ChatMessageTypeAI
	default:
		return llms.ChatMessageTypeHuman
	}
}
