package notifications

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/bvofrades/incident-bot/internal/models"
	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

// TelegramNotifier delivers notifications through the Telegram Bot API.
// Payloads with a map image go out as a photo with caption; everything else
// as a Markdown message with an inline action button.
type TelegramNotifier struct {
	client  *resty.Client
	baseURL string
	token   string
	chatID  string
}

var _ Notifier = (*TelegramNotifier)(nil)

type telegramResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// NewTelegramNotifier creates a Telegram delivery client.
func NewTelegramNotifier(token, chatID string, timeout time.Duration) *TelegramNotifier {
	return &TelegramNotifier{
		client:  resty.New().SetTimeout(timeout),
		baseURL: "https://api.telegram.org",
		token:   token,
		chatID:  chatID,
	}
}

// SetBaseURL overrides the API endpoint. Used in tests.
func (n *TelegramNotifier) SetBaseURL(u string) {
	n.baseURL = u
}

// Send delivers the payload. There is no retry: the result reports the
// delivery status and the caller decides what to do with a failure.
func (n *TelegramNotifier) Send(payload models.NotificationPayload) models.DeliveryResult {
	if payload.HasPhoto() {
		return n.sendPhoto(payload)
	}
	return n.sendMessage(payload)
}

func (n *TelegramNotifier) sendMessage(payload models.NotificationPayload) models.DeliveryResult {
	body := map[string]interface{}{
		"chat_id":    n.chatID,
		"text":       payload.Text,
		"parse_mode": "Markdown",
	}

	if markup := inlineKeyboard(payload); markup != "" {
		body["reply_markup"] = markup
	}

	return n.post("sendMessage", body)
}

func (n *TelegramNotifier) sendPhoto(payload models.NotificationPayload) models.DeliveryResult {
	body := map[string]interface{}{
		"chat_id":    n.chatID,
		"photo":      payload.PhotoURL,
		"caption":    payload.Text,
		"parse_mode": "Markdown",
	}

	if markup := inlineKeyboard(payload); markup != "" {
		body["reply_markup"] = markup
	}

	return n.post("sendPhoto", body)
}

func (n *TelegramNotifier) post(method string, body map[string]interface{}) models.DeliveryResult {
	resp, err := n.client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(fmt.Sprintf("%s/bot%s/%s", n.baseURL, n.token, method))

	if err != nil {
		logrus.Errorf("Telegram %s request failed: %v", method, err)
		return models.DeliveryResult{Description: err.Error()}
	}

	result := models.DeliveryResult{StatusCode: resp.StatusCode()}

	var parsed telegramResponse
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		result.Description = "unparseable Telegram response"
		return result
	}

	result.OK = parsed.OK
	result.Description = parsed.Description
	return result
}

func inlineKeyboard(payload models.NotificationPayload) string {
	if payload.ActionURL == "" {
		return ""
	}

	markup := map[string]interface{}{
		"inline_keyboard": [][]map[string]string{
			{{"text": payload.ActionText, "url": payload.ActionURL}},
		},
	}

	data, err := json.Marshal(markup)
	if err != nil {
		return ""
	}
	return string(data)
}
