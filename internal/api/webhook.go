// Package api содержит HTTP-клиент, доставляющий анкеты во внешний webhook.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"surveybot/internal/metrics"

	"github.com/rs/zerolog"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrRateLimit    = errors.New("rate limit exceeded")
	ErrRejected     = errors.New("rejected by webhook")
)

// Payload представляет тело запроса к webhook.
type Payload struct {
	Text   string    `json:"text"`
	Source string    `json:"source"`
	SentAt time.Time `json:"sent_at"`
}

// WebhookClient отправляет текст анкеты POST-запросом на внешний адрес.
// Реализует survey.Sink: Deliver не блокирует вызывающего.
type WebhookClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
	metrics    *metrics.Metrics
	log        zerolog.Logger

	retryCount      int
	retryWait       time.Duration
	maxRetryElapsed time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWebhookClient создает клиент webhook
func NewWebhookClient(url, token string, timeout time.Duration, m *metrics.Metrics, log zerolog.Logger) *WebhookClient {
	ctx, cancel := context.WithCancel(context.Background())
	return &WebhookClient{
		baseURL: url,
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		metrics:         m,
		log:             log.With().Str("component", "webhook").Logger(),
		retryCount:      3,
		retryWait:       500 * time.Millisecond,
		maxRetryElapsed: 10 * time.Second,
		ctx:             ctx,
		cancel:          cancel,
	}
}

// SetRetryPolicy задаёт число попыток, паузу между ними и общий лимит времени.
func (c *WebhookClient) SetRetryPolicy(count int, wait, maxElapsed time.Duration) {
	if count > 0 {
		c.retryCount = count
	}
	if wait > 0 {
		c.retryWait = wait
	}
	if maxElapsed > 0 {
		c.maxRetryElapsed = maxElapsed
	}
}

// Deliver отправляет текст в фоне. Ошибки логируются и учитываются в метриках.
func (c *WebhookClient) Deliver(text string) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		if err := c.Send(c.ctx, text); err != nil {
			c.log.Error().Err(err).Msg("Ошибка доставки анкеты в webhook")
		}
	}()
}

// Close отменяет незавершённые отправки и ждёт их завершения.
func (c *WebhookClient) Close() {
	c.cancel()
	c.wg.Wait()
}

// Wait ждёт завершения текущих отправок, не отменяя их, но не дольше ctx.
func (c *WebhookClient) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Send синхронно отправляет текст с повторами при ошибках сети и ответах 5xx.
func (c *WebhookClient) Send(ctx context.Context, text string) error {
	start := time.Now()
	if c.metrics != nil {
		defer func() { c.metrics.UpdateLatency(time.Since(start)) }()
	}

	data, err := json.Marshal(Payload{Text: text, Source: "survey-bot", SentAt: start.UTC()})
	if err != nil {
		return fmt.Errorf("ошибка сериализации анкеты: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= c.retryCount; attempt++ {
		retry, err := c.post(ctx, data)
		if err == nil {
			if c.metrics != nil {
				c.metrics.IncDeliveries()
			}
			return nil
		}
		lastErr = err
		if !retry || attempt == c.retryCount {
			break
		}
		if c.maxRetryElapsed > 0 && time.Since(start)+c.retryWait > c.maxRetryElapsed {
			break
		}

		c.log.Warn().Err(err).Int("attempt", attempt).Msg("Повтор отправки в webhook")
		select {
		case <-ctx.Done():
			if c.metrics != nil {
				c.metrics.IncDeliveryErrors()
			}
			return ctx.Err()
		case <-time.After(c.retryWait * time.Duration(attempt)):
		}
	}

	if c.metrics != nil {
		c.metrics.IncDeliveryErrors()
	}
	return lastErr
}

// post выполняет одну попытку и сообщает, имеет ли смысл повтор
func (c *WebhookClient) post(ctx context.Context, body []byte) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return false, fmt.Errorf("ошибка создания запроса: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.token))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ctx.Err() == nil, fmt.Errorf("ошибка выполнения запроса: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return false, nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return false, fmt.Errorf("%w: код %d", ErrUnauthorized, resp.StatusCode)
	case resp.StatusCode == http.StatusTooManyRequests:
		return true, fmt.Errorf("%w: код %d", ErrRateLimit, resp.StatusCode)
	case resp.StatusCode >= 500:
		return true, fmt.Errorf("неверный код ответа: %d", resp.StatusCode)
	default:
		return false, fmt.Errorf("%w: код %d", ErrRejected, resp.StatusCode)
	}
}
