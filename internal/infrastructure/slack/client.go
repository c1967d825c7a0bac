package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/nakool/upgrade-notify/internal/application/port"
	"github.com/nakool/upgrade-notify/pkg/logger"
)

const defaultBaseURL = "https://slack.com/api/chat.postMessage"

// Config holds Slack client settings.
type Config struct {
	Token             string
	Channel           string
	BotUsername       string
	BaseURL           string        // chat.postMessage endpoint, overridable for tests
	Timeout           time.Duration // per-request timeout
	MaxMessageChars   int           // plain-text messages above this are split
	MessagesPerSecond float64       // chat.postMessage tolerates ~1 msg/s per channel
}

// Client implements port.ChatNotifier against the Slack Web API.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	token      string
	channel    string
	username   string
	baseURL    string
	maxChars   int
	logger     *logger.Logger
}

// NewClient creates a Slack client.
func NewClient(cfg Config, log *logger.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, fmt.Errorf("slack token is required")
	}
	if strings.TrimSpace(cfg.Channel) == "" {
		return nil, fmt.Errorf("slack channel is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxMessageChars <= 0 {
		cfg.MaxMessageChars = 12000
	}
	if cfg.MessagesPerSecond <= 0 {
		cfg.MessagesPerSecond = 1
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(cfg.MessagesPerSecond), 1),
		token:      cfg.Token,
		channel:    cfg.Channel,
		username:   cfg.BotUsername,
		baseURL:    cfg.BaseURL,
		maxChars:   cfg.MaxMessageChars,
		logger:     log,
	}, nil
}

// SendBlocks posts a rich message and returns its thread identifier.
func (c *Client) SendBlocks(ctx context.Context, blocks []port.Block, threadID string) (string, error) {
	c.logger.Debug("Sending Slack message", "blocks", len(blocks), "thread_ts", threadID)

	payload := map[string]interface{}{
		"channel": c.channel,
		"blocks":  blocks,
	}
	if c.username != "" {
		payload["username"] = c.username
	}
	if threadID != "" {
		payload["thread_ts"] = threadID
	}

	return c.post(ctx, payload)
}

// SendText posts a plain-text message, splitting it into threaded chunks
// when it exceeds the configured limit. The first chunk's identifier is
// returned.
func (c *Client) SendText(ctx context.Context, text string, threadID string) (string, error) {
	if len(text) <= c.maxChars {
		return c.sendTextChunk(ctx, text, threadID)
	}

	chunks := c.splitMessage(text)
	c.logger.Info("Message too long, splitting into chunks", "chars", len(text), "chunks", len(chunks))

	firstID := ""
	for i, chunk := range chunks {
		chunkText := fmt.Sprintf("*Part %d/%d*\n%s", i+1, len(chunks), chunk)
		id, err := c.sendTextChunk(ctx, chunkText, threadID)
		if err != nil {
			return firstID, fmt.Errorf("failed to send chunk %d/%d: %w", i+1, len(chunks), err)
		}
		if firstID == "" {
			firstID = id
		}
		// Later chunks thread under the most recent one.
		threadID = id
	}
	return firstID, nil
}

func (c *Client) sendTextChunk(ctx context.Context, text, threadID string) (string, error) {
	payload := map[string]interface{}{
		"channel": c.channel,
		"text":    text,
	}
	if c.username != "" {
		payload["username"] = c.username
	}
	if threadID != "" {
		payload["thread_ts"] = threadID
	}

	return c.post(ctx, payload)
}

// splitMessage splits text into chunks below the limit, breaking on line
// boundaries. A single line longer than the limit becomes its own chunk.
func (c *Client) splitMessage(text string) []string {
	if len(text) <= c.maxChars {
		return []string{text}
	}

	var chunks []string
	current := ""

	for _, line := range strings.Split(text, "\n") {
		if len(current)+len(line)+1 <= c.maxChars {
			current += line + "\n"
			continue
		}
		if current != "" {
			chunks = append(chunks, strings.TrimSpace(current))
		}
		current = line + "\n"
	}

	if strings.TrimSpace(current) != "" {
		chunks = append(chunks, strings.TrimSpace(current))
	}

	return chunks
}

type apiResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
	TS    string `json:"ts"`
}

func (c *Client) post(ctx context.Context, payload map[string]interface{}) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter wait: %w", err)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to post to slack: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("slack returned status %d", resp.StatusCode)
	}

	var result apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode slack response: %w", err)
	}
	if !result.OK {
		return "", fmt.Errorf("slack api error: %s", result.Error)
	}

	c.logger.Debug("Slack message sent", "ts", result.TS)
	return result.TS, nil
}
