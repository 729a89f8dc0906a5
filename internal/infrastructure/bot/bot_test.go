package bot

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stavropolsky/tg-track/internal/domain/monitor/entities"
)

type apiCall struct {
	method string
	form   map[string]string
}

type fakeAPI struct {
	mu    sync.Mutex
	calls []apiCall
	fail  bool
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseMultipartForm(1 << 20)
	form := map[string]string{}
	if r.MultipartForm != nil {
		for k, v := range r.MultipartForm.Value {
			form[k] = v[0]
		}
	}

	f.mu.Lock()
	f.calls = append(f.calls, apiCall{method: r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:], form: form})
	fail := f.fail
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if fail {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"ok":false,"error_code":400,"description":"Bad Request: message to copy not found"}`))
		return
	}
	if strings.HasSuffix(r.URL.Path, "/copyMessage") {
		_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":5}}`))
		return
	}
	_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":6,"date":0,"chat":{"id":-1009999,"type":"channel"}}}`))
}

const testAdminID int64 = 1042

func isTestAdmin(id int64) bool { return id == testAdminID }

func newTestBot(t *testing.T) (*Bot, *fakeAPI) {
	t.Helper()

	api := &fakeAPI{}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	b, err := NewBot("123:test", 5*time.Second, isTestAdmin, zerolog.Nop(),
		tgbot.WithServerURL(srv.URL),
		tgbot.WithSkipGetMe(),
	)
	require.NoError(t, err)
	return b, api
}

func TestNewBot_RequiresToken(t *testing.T) {
	_, err := NewBot("", time.Second, isTestAdmin, zerolog.Nop())
	assert.Error(t, err)
}

func TestBot_CopyMessage(t *testing.T) {
	b, api := newTestBot(t)

	err := b.CopyMessage(context.Background(), entities.CopyRequest{
		ChatID:     -1009999,
		FromChatID: "@news",
		MessageID:  42,
		Caption:    "photo\n\n[Ссылка на сообщение](https://t.me/news/42)",
	})
	require.NoError(t, err)

	require.Len(t, api.calls, 1)
	call := api.calls[0]
	assert.Equal(t, "copyMessage", call.method)
	assert.Contains(t, call.form["chat_id"], "-1009999")
	assert.Contains(t, call.form["from_chat_id"], "news")
	assert.Contains(t, call.form["message_id"], "42")
	assert.Contains(t, call.form["parse_mode"], "MarkdownV2")
}

func TestBot_SendTextAndReply(t *testing.T) {
	b, api := newTestBot(t)
	ctx := context.Background()

	require.NoError(t, b.SendText(ctx, -1009999, "alpha"))
	require.NoError(t, b.Reply(ctx, 1042, "ok"))

	require.Len(t, api.calls, 2)
	assert.Equal(t, "sendMessage", api.calls[0].method)
	assert.Contains(t, api.calls[0].form["parse_mode"], "MarkdownV2")
	assert.Equal(t, "sendMessage", api.calls[1].method)
	assert.Empty(t, api.calls[1].form["parse_mode"])
}

func TestBot_CopyMessageError(t *testing.T) {
	b, api := newTestBot(t)
	api.fail = true

	err := b.CopyMessage(context.Background(), entities.CopyRequest{ChatID: -1009999, FromChatID: int64(-1002222), MessageID: 3})
	assert.Error(t, err)
}

func TestDefaultHandler_AnswersAdminsOnly(t *testing.T) {
	tests := []struct {
		name      string
		message   *models.Message
		wantReply bool
	}{
		{
			name:      "admin",
			message:   &models.Message{Text: "hello", From: &models.User{ID: testAdminID}, Chat: models.Chat{ID: testAdminID}},
			wantReply: true,
		},
		{
			name:    "stranger",
			message: &models.Message{Text: "hello", From: &models.User{ID: 7}, Chat: models.Chat{ID: 7}},
		},
		{
			name:    "anonymous",
			message: &models.Message{Text: "hello", Chat: models.Chat{ID: -100555}},
		},
		{
			name:    "no text",
			message: &models.Message{From: &models.User{ID: testAdminID}, Chat: models.Chat{ID: testAdminID}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, api := newTestBot(t)

			defaultHandler(isTestAdmin)(context.Background(), b.Raw(), &models.Update{Message: tt.message})

			if !tt.wantReply {
				assert.Empty(t, api.calls)
				return
			}
			require.Len(t, api.calls, 1)
			assert.Equal(t, "sendMessage", api.calls[0].method)
			assert.Equal(t, defaultReply, api.calls[0].form["text"])
		})
	}
}
