package telegram

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	path string
	form map[string]string
}

func newTestServer(t *testing.T, status int, body string) (*httptest.Server, *[]capturedRequest) {
	t.Helper()
	var got []capturedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		form := make(map[string]string)
		for k := range r.PostForm {
			form[k] = r.PostForm.Get(k)
		}
		got = append(got, capturedRequest{path: r.URL.Path, form: form})

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &got
}

func TestSend_PostsForm(t *testing.T) {
	srv, got := newTestServer(t, http.StatusOK, `{"ok":true,"result":{}}`)
	logger, hook := test.NewNullLogger()

	n := NewNotifier("123:abc", logger).SetBaseURL(srv.URL)
	require.NoError(t, n.Send(context.Background(), "42", "<b>hello</b>"))

	require.Len(t, *got, 1)
	req := (*got)[0]
	assert.Equal(t, "/bot123:abc/sendMessage", req.path)
	assert.Equal(t, "42", req.form["chat_id"])
	assert.Equal(t, "<b>hello</b>", req.form["text"])
	assert.Equal(t, "HTML", req.form["parse_mode"])
	assert.Equal(t, "true", req.form["disable_web_page_preview"])

	assert.Equal(t, "✅ Telegram message sent successfully", hook.LastEntry().Message)
}

func TestSend_APIError(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusBadRequest, `{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`)
	logger, _ := test.NewNullLogger()

	err := NewNotifier("t", logger).SetBaseURL(srv.URL).Send(context.Background(), "1", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat not found")
}

func TestSend_OKFalse(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusOK, `{"ok":false,"description":"nope"}`)
	logger, _ := test.NewNullLogger()

	err := NewNotifier("t", logger).SetBaseURL(srv.URL).Send(context.Background(), "1", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope")
}

func TestSend_Unreachable(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusOK, `{"ok":true}`)
	url := srv.URL
	srv.Close()

	logger, _ := test.NewNullLogger()
	err := NewNotifier("t", logger).SetBaseURL(url).Send(context.Background(), "1", "x")
	assert.Error(t, err)
}

func TestSend_SplitsLongMessages(t *testing.T) {
	srv, got := newTestServer(t, http.StatusOK, `{"ok":true}`)
	logger, _ := test.NewNullLogger()

	section := strings.Repeat("a", 3000)
	text := section + "\n\n" + section + "\n\n" + "tail"
	require.NoError(t, NewNotifier("t", logger).SetBaseURL(srv.URL).Send(context.Background(), "1", text))

	require.Len(t, *got, 2)
	assert.Equal(t, section, (*got)[0].form["text"])
	assert.Equal(t, section+"\n\ntail", (*got)[1].form["text"])
}

func TestSplitMessage(t *testing.T) {
	assert.Equal(t, []string{"short"}, SplitMessage("short", 10))
	assert.Equal(t, []string{"aaaa\n\nbb", "cccc"}, SplitMessage("aaaa\n\nbb\n\ncccc", 9))

	parts := SplitMessage("ééééé", 4)
	assert.Equal(t, []string{"éé", "éé", "é"}, parts)
	for _, p := range parts {
		assert.LessOrEqual(t, len(p), 4)
	}
}

func TestSplitMessage_OversizedBlockCutsAtLines(t *testing.T) {
	block := "💎 <b>AAA</b>\n" + "Close: <code>" + strings.Repeat("1", 20) + "</code>\n🛑 Stop loss: <code>97.02 USD</code>"
	parts := SplitMessage(block, 45)

	require.Len(t, parts, 3)
	assert.Equal(t, "💎 <b>AAA</b>", parts[0])
	assert.Equal(t, "Close: <code>"+strings.Repeat("1", 20)+"</code>", parts[1])
	assert.Equal(t, "🛑 Stop loss: <code>97.02 USD</code>", parts[2])
}

func TestSplitMessage_OversizedLineDropsTags(t *testing.T) {
	line := "❌ <b>BBB</b>: " + strings.Repeat("x", 8) + "&lt;data&gt;" + strings.Repeat("y", 30)
	parts := SplitMessage(line, 20)

	require.NotEmpty(t, parts)
	assert.Equal(t, htmlTag.ReplaceAllString(line, ""), strings.Join(parts, ""))
	for _, p := range parts {
		assert.LessOrEqual(t, len(p), 20)
		assert.NotContains(t, p, "<")
		assert.NotContains(t, p, ">")
		if i := strings.LastIndexByte(p, '&'); i >= 0 {
			assert.Contains(t, p[i:], ";", "entity cut in %q", p)
		}
	}
}
