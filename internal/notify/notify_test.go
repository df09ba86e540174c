package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testConfig(baseURL string) Config {
	return Config{
		BaseURL:     baseURL,
		ChatFrom:    "@system",
		ChatTo:      "@doomer",
		MailFrom:    "doomer@yuanzhou.site",
		MailTo:      "yuanzhou0110@qq.com",
		MailSubject: "天气预报",
	}
}

func TestDispatchChatBot(t *testing.T) {
	var gotPath string
	var gotBody Message

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	d := NewDispatcher(testConfig(srv.URL), srv.Client())

	res, err := d.Dispatch(context.Background(), ChannelChatBot, "M", "T")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != "/notice/dingding" {
		t.Errorf("expected path /notice/dingding, got %s", gotPath)
	}
	if gotBody.Type != typeCodeChatBot {
		t.Errorf("expected type code %d, got %d", typeCodeChatBot, gotBody.Type)
	}
	if gotBody.Message != "M" || gotBody.Title != "T" {
		t.Errorf("unexpected message/title: %+v", gotBody)
	}
	if gotBody.From != "@system" || gotBody.To != "@doomer" {
		t.Errorf("expected sender/recipient defaults, got %+v", gotBody)
	}
	if res.StatusCode != http.StatusOK || res.Body != `{"ok":true}` {
		t.Errorf("unexpected result: %+v", res)
	}
}

func TestDispatchEmail(t *testing.T) {
	var gotPath string
	var gotBody Message

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	d := NewDispatcher(testConfig(srv.URL), srv.Client())

	if _, err := d.Dispatch(context.Background(), ChannelEmail, "body", "今日天气"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != "/notice/email" {
		t.Errorf("expected path /notice/email, got %s", gotPath)
	}
	if gotBody.Type != typeCodeEmail {
		t.Errorf("expected type code %d, got %d", typeCodeEmail, gotBody.Type)
	}
	if gotBody.Subject != "天气预报" || gotBody.MailType != 1 {
		t.Errorf("expected subject and mailType, got %+v", gotBody)
	}
	if gotBody.To != "yuanzhou0110@qq.com" {
		t.Errorf("unexpected recipient: %s", gotBody.To)
	}
}

func TestDispatchUnknownChannel(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	d := NewDispatcher(testConfig(srv.URL), srv.Client())

	_, err := d.Dispatch(context.Background(), Channel("pigeon"), "M", "T")
	if !errors.Is(err, ErrUnknownChannel) {
		t.Fatalf("expected ErrUnknownChannel, got %v", err)
	}
	if called {
		t.Error("no HTTP call should be made for an unknown channel")
	}
}

func TestWarnPostsGenericNotice(t *testing.T) {
	var gotPath string
	var gotBody Message

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	d := NewDispatcher(testConfig(srv.URL), srv.Client())
	d.Warn(context.Background(), "城市不存在54511", "weather")

	if gotPath != "/notice" {
		t.Errorf("expected path /notice, got %s", gotPath)
	}
	if gotBody.Title != "weather告警" {
		t.Errorf("expected module warning title, got %q", gotBody.Title)
	}
	if gotBody.Type != typeCodePush {
		t.Errorf("expected type code %d, got %d", typeCodePush, gotBody.Type)
	}
}
