package notifications

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bvofrades/incident-bot/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTelegramTestServer(t *testing.T, captured *map[string]interface{}, path *string, status int, response string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*path = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(captured))
		w.WriteHeader(status)
		w.Write([]byte(response))
	}))
}

func TestTelegramNotifier_Send_TextMessage(t *testing.T) {
	var body map[string]interface{}
	var path string
	server := newTelegramTestServer(t, &body, &path, http.StatusOK, `{"ok":true}`)
	defer server.Close()

	notifier := NewTelegramNotifier("test-token", "-100123", 5*time.Second)
	notifier.SetBaseURL(server.URL)

	result := notifier.Send(models.NotificationPayload{
		Text:       "*⚠️ Nova ocorrência!*",
		ActionText: "📋 Atualizações",
		ActionURL:  "https://bvofrades.pt/ocorrencias/?id=1",
	})

	assert.True(t, result.OK)
	assert.Equal(t, "/bottest-token/sendMessage", path)
	assert.Equal(t, "-100123", body["chat_id"])
	assert.Equal(t, "Markdown", body["parse_mode"])
	assert.Contains(t, body["reply_markup"], "bvofrades.pt/ocorrencias/?id=1")
	assert.NotContains(t, body, "photo")
}

func TestTelegramNotifier_Send_Photo(t *testing.T) {
	var body map[string]interface{}
	var path string
	server := newTelegramTestServer(t, &body, &path, http.StatusOK, `{"ok":true}`)
	defer server.Close()

	notifier := NewTelegramNotifier("test-token", "-100123", 5*time.Second)
	notifier.SetBaseURL(server.URL)

	result := notifier.Send(models.NotificationPayload{
		Text:     "caption",
		PhotoURL: "https://api.mapbox.com/map.png",
	})

	assert.True(t, result.OK)
	assert.Equal(t, "/bottest-token/sendPhoto", path)
	assert.Equal(t, "https://api.mapbox.com/map.png", body["photo"])
	assert.Equal(t, "caption", body["caption"])
}

func TestTelegramNotifier_Send_DeliveryFailure(t *testing.T) {
	var body map[string]interface{}
	var path string
	server := newTelegramTestServer(t, &body, &path, http.StatusBadRequest,
		`{"ok":false,"description":"Bad Request: chat not found"}`)
	defer server.Close()

	notifier := NewTelegramNotifier("test-token", "bad-chat", 5*time.Second)
	notifier.SetBaseURL(server.URL)

	result := notifier.Send(models.NotificationPayload{Text: "hello"})

	assert.False(t, result.OK)
	assert.Equal(t, http.StatusBadRequest, result.StatusCode)
	assert.Contains(t, result.Description, "chat not found")
}

func TestStripMarkdown(t *testing.T) {
	assert.Equal(t, "Nova ocorrência\nDados: fogos.pt",
		stripMarkdown("*Nova ocorrência*\n_Dados: fogos.pt_"))
}
