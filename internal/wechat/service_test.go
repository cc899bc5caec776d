package wechat

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/okami-inn/okami/internal/config"
)

func typedMsg(from, to string, msgType int, content string) RawMessage {
	m := textMsg(from, to, content)
	m.MsgType = msgType
	return m
}

func newTestManager(t *testing.T, gw *fakeGateway, directory *Directory, chat ChatClient) *Manager {
	t.Helper()
	srv := httptest.NewServer(gw.handler())
	t.Cleanup(srv.Close)

	cfg := config.Default()
	cfg.Environment = config.EnvDev
	cfg.WeChat.Profiles = map[string]string{config.EnvDev: srv.URL}
	cfg.WeChat.SendRatePerMinute = 0
	return NewManagerWithDirectory(cfg, directory, chat, nil)
}

func syncBodyFor(msgs []RawMessage) map[string]any {
	addMsgs := make([]any, 0, len(msgs))
	for _, m := range msgs {
		entry := map[string]any{
			"msg_id":         m.MsgID,
			"from_user_name": map[string]any{"str": m.FromUserName.Str},
			"to_user_name":   map[string]any{"str": m.ToUserName.Str},
			"msg_type":       m.MsgType,
			"content":        map[string]any{"str": m.Content.Str},
		}
		if m.PushContent != nil {
			entry["push_content"] = *m.PushContent
		}
		addMsgs = append(addMsgs, entry)
	}
	return map[string]any{
		"Code": 200,
		"Data": map[string]any{"AddMsgs": addMsgs},
	}
}

func TestProcessAccount_FiltersSystemMessagesThenProcesses(t *testing.T) {
	gw := &fakeGateway{}
	gw.syncBody = syncBodyFor([]RawMessage{
		textMsg("u1", "bot", "hello"),
		typedMsg("u2", "bot", 49, "<appmsg/>"),
	})
	chat := &stubChat{response: textReplyResponse(t, "hi there")}
	manager := newTestManager(t, gw, directoryWithBot(), chat)

	accounts := manager.Accounts()
	if len(accounts) != 1 {
		t.Fatalf("got %d accounts, want 1", len(accounts))
	}
	if err := manager.ProcessAccount(context.Background(), accounts[0]); err != nil {
		t.Fatalf("ProcessAccount() error: %v", err)
	}
	if len(chat.turns) != 1 || chat.turns[0] != "hello" {
		t.Errorf("agent turns = %v, want [hello]", chat.turns)
	}
	if len(gw.sentTexts()) != 1 {
		t.Errorf("got %d sends, want 1", len(gw.sentTexts()))
	}
}

func TestProcessAccount_IneligibleBatchSkipped(t *testing.T) {
	gw := &fakeGateway{}
	gw.syncBody = syncBodyFor([]RawMessage{
		typedMsg("u1", "bot", 3, "<img/>"),
		textMsg("u2", "bot", "hello"),
	})
	chat := &stubChat{response: textReplyResponse(t, "hi")}
	manager := newTestManager(t, gw, directoryWithBot(), chat)

	if err := manager.ProcessAccount(context.Background(), manager.Accounts()[0]); err != nil {
		t.Fatalf("ProcessAccount() error: %v", err)
	}
	// One non-text survivor makes the whole batch ineligible.
	if len(chat.turns) != 0 {
		t.Errorf("no turn expected, got %v", chat.turns)
	}
}

func TestProcessAccount_EmptyCycle(t *testing.T) {
	gw := &fakeGateway{syncBody: map[string]any{"Code": 200, "Data": map[string]any{"AddMsgs": []any{}}}}
	chat := &stubChat{}
	manager := newTestManager(t, gw, directoryWithBot(), chat)

	if err := manager.ProcessAccount(context.Background(), manager.Accounts()[0]); err != nil {
		t.Fatalf("ProcessAccount() error: %v", err)
	}
	if len(chat.turns) != 0 {
		t.Errorf("no turn expected on an empty cycle, got %v", chat.turns)
	}
}

func TestSchedulePullingMessages_AccountFailureIsolated(t *testing.T) {
	gw := &fakeGateway{}
	gw.syncBody = syncBodyFor([]RawMessage{textMsg("u1", "bot", "hello")})
	srv := httptest.NewServer(gw.handler())
	t.Cleanup(srv.Close)

	directory := NewDirectory([]AccountRecord{{Wxid: "bot", Key: "k1", AgentID: "agentX"}})
	chat := &stubChat{response: textReplyResponse(t, "hi")}

	healthy := NewAccount(AccountRecord{Wxid: "bot", Key: "k1", AgentID: "agentX"}, srv.URL, directory, nil)
	broken := NewAccount(AccountRecord{Wxid: "bot2", Key: "k2", AgentID: "agentY"}, "http://127.0.0.1:1", directory, nil)

	manager := &Manager{accounts: []*Account{broken, healthy}, chat: chat}
	manager.SchedulePullingMessages(context.Background())

	if len(gw.sentTexts()) != 1 {
		t.Errorf("healthy account should still deliver, got %d sends", len(gw.sentTexts()))
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	gw := &fakeGateway{syncBody: map[string]any{"Code": 200}}
	manager := newTestManager(t, gw, directoryWithBot(), &stubChat{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		manager.Run(ctx, 10*time.Millisecond)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancellation")
	}
}
