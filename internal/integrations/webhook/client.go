package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/m04kA/SMC-WebhookRelay/internal/domain"
)

const (
	EncodingForm = "form"
	EncodingJSON = "json"

	// HeaderRequestID заголовок с ID запроса для сопоставления логов на стороне webhook
	HeaderRequestID = "X-Request-ID"

	// maxBodyLog ограничение на размер тела ответа, попадающего в лог
	maxBodyLog = 2048
)

// Client клиент для пересылки текста сообщений во внешний webhook
type Client struct {
	url        string
	jsonKey    string
	encoding   string
	httpClient *http.Client
	logger     Logger
}

// NewClient создает новый экземпляр клиента webhook
// encoding определяет формат тела запроса: form (по умолчанию) или json
func NewClient(webhookURL, jsonKey, encoding string, timeout time.Duration, logger Logger) *Client {
	if encoding != EncodingJSON {
		encoding = EncodingForm
	}

	return &Client{
		url:      webhookURL,
		jsonKey:  jsonKey,
		encoding: encoding,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Forward отправляет текст в webhook в поле {jsonKey: text} и возвращает ответ
// При любой ошибке возвращается пустой (но не nil-опасный) ответ и типизированная ошибка,
// поэтому вызывающий код всегда может отформатировать результат
func (c *Client) Forward(ctx context.Context, text string) (domain.WebhookReply, error) {
	requestID := uuid.New().String()

	req, err := c.newRequest(ctx, text)
	if err != nil {
		return domain.WebhookReply{}, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	req.Header.Set(HeaderRequestID, requestID)

	c.logger.Debug("Forwarding message to webhook (request %s, %d bytes)", requestID, len(text))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.WebhookReply{}, fmt.Errorf("%w: request %s: %v", ErrUnavailable, requestID, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.WebhookReply{}, fmt.Errorf("%w: request %s: failed to read response: %v", ErrUnavailable, requestID, err)
	}

	// Обработка статус-кодов
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		c.logger.Warn("Webhook returned status %d (request %s): %s", resp.StatusCode, requestID, truncate(body))
		return domain.WebhookReply{}, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	reply, err := ParseReply(body)
	if err != nil {
		c.logger.Warn("Webhook returned malformed body (request %s): %s", requestID, truncate(body))
		return domain.WebhookReply{}, err
	}

	return reply, nil
}

// newRequest собирает POST запрос с единственным полем jsonKey
func (c *Client) newRequest(ctx context.Context, text string) (*http.Request, error) {
	var (
		body        io.Reader
		contentType string
	)

	switch c.encoding {
	case EncodingJSON:
		payload, err := json.Marshal(map[string]string{c.jsonKey: text})
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(payload)
		contentType = "application/json"
	default:
		form := url.Values{}
		form.Set(c.jsonKey, text)
		body = strings.NewReader(form.Encode())
		contentType = "application/x-www-form-urlencoded"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	return req, nil
}

// ParseReply разбирает JSON объект, сохраняя порядок ключей
// Строковые значения берутся как есть, остальные - в виде исходного JSON текста.
// Для повторяющегося ключа остаётся последнее значение на месте первого вхождения
func ParseReply(body []byte) (domain.WebhookReply, error) {
	if !gjson.ValidBytes(body) {
		return domain.WebhookReply{}, fmt.Errorf("%w: invalid JSON", ErrDecode)
	}

	parsed := gjson.ParseBytes(body)
	if !parsed.IsObject() {
		return domain.WebhookReply{}, fmt.Errorf("%w: top-level value is not an object", ErrDecode)
	}

	reply := domain.WebhookReply{}
	positions := make(map[string]int)
	parsed.ForEach(func(key, value gjson.Result) bool {
		field := domain.ReplyField{Key: key.String()}
		if value.Type == gjson.String {
			field.Value = value.String()
		} else {
			field.Value = value.Raw
		}

		if i, ok := positions[field.Key]; ok {
			reply[i].Value = field.Value
			return true
		}
		positions[field.Key] = len(reply)
		reply = append(reply, field)
		return true
	})

	return reply, nil
}

func truncate(body []byte) string {
	if len(body) <= maxBodyLog {
		return string(body)
	}
	return string(body[:maxBodyLog]) + "..."
}
