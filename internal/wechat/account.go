package wechat

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/okami-inn/okami/internal/httpx"
)

// syncScene is the fixed scene code for the history-sync poll endpoint.
const syncScene = 3

// gatewayOK is the success code in the gateway's response envelope.
const gatewayOK = 200

// Account is one messaging-bot credential bound to an environment's
// gateway base URL. Accounts are immutable; the directory provides the
// recipient → agent routing lookups.
type Account struct {
	Key     string
	AgentID string

	baseURL   string
	directory *Directory
	limiter   *rate.Limiter
	timeout   time.Duration
}

// Mention asks SendTextMessage to @-address somebody in a group chat.
type Mention struct {
	Wxid     string
	Nickname string
}

// NewAccount builds an Account for one directory record. limiter may be
// nil to disable outbound rate limiting.
func NewAccount(record AccountRecord, baseURL string, directory *Directory, limiter *rate.Limiter) *Account {
	return &Account{
		Key:       record.Key,
		AgentID:   record.AgentID,
		baseURL:   baseURL,
		directory: directory,
		limiter:   limiter,
	}
}

type syncEnvelope struct {
	Code int `json:"Code"`
	Data struct {
		AddMsgs []RawMessage `json:"AddMsgs"`
	} `json:"Data"`
}

// FetchMessages polls the gateway for pending messages. A response
// without the expected envelope, or with a non-success code, degrades
// to an empty batch; transport errors propagate to the caller.
func (a *Account) FetchMessages(ctx context.Context) ([]RawMessage, error) {
	url := fmt.Sprintf("%s/v1/message/NewSyncHistoryMessage?key=%s", a.baseURL, a.Key)
	result, err := httpx.Request(ctx, url, map[string]any{"Scene": syncScene}, a.opts())
	if err != nil {
		return nil, fmt.Errorf("fetch messages: %w", err)
	}
	if result == nil {
		return nil, nil
	}

	raw, err := json.Marshal(result)
	if err != nil {
		return nil, nil
	}
	var envelope syncEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		slog.Warn("unexpected sync envelope shape", "key", a.Key, "error", err)
		return nil, nil
	}
	if envelope.Code != gatewayOK {
		slog.Debug("sync returned non-success code", "key", a.Key, "code", envelope.Code)
		return nil, nil
	}
	return envelope.Data.AddMsgs, nil
}

// FetchChatroomInfo returns the gateway's chatroom metadata (member
// list, nicknames) for a group chat id.
func (a *Account) FetchChatroomInfo(ctx context.Context, chatroomID string) (map[string]any, error) {
	url := fmt.Sprintf("%s/v1/chatroom/GetChatRoomInfo?key=%s", a.baseURL, a.Key)
	result, err := httpx.Request(ctx, url, map[string]any{
		"ChatRoomWxIdList": []string{chatroomID},
	}, a.opts())
	if err != nil {
		return nil, fmt.Errorf("fetch chatroom info: %w", err)
	}
	if result == nil {
		return map[string]any{}, nil
	}
	if data, ok := result["Data"].(map[string]any); ok {
		return data, nil
	}
	return map[string]any{}, nil
}

// SendTextMessage sends a text reply, optionally @-mentioning somebody.
func (a *Account) SendTextMessage(ctx context.Context, toUser, content string, mention *Mention) error {
	if err := a.waitSend(ctx); err != nil {
		return err
	}

	textContent := content
	atList := []string{}
	if mention != nil {
		textContent = fmt.Sprintf("@%s %s", mention.Nickname, content)
		atList = append(atList, mention.Wxid)
	}

	url := fmt.Sprintf("%s/v1/message/SendTextMessage?key=%s", a.baseURL, a.Key)
	_, err := httpx.Request(ctx, url, map[string]any{
		"MsgItem": []map[string]any{{
			"ToUserName":  toUser,
			"TextContent": textContent,
			"AtWxIDList":  atList,
			"MsgType":     MsgTypeText,
			"Delay":       true,
		}},
	}, a.opts())
	if err != nil {
		return fmt.Errorf("send text message: %w", err)
	}
	return nil
}

// SendImageMessage sends a base64-encoded image reply.
func (a *Account) SendImageMessage(ctx context.Context, toUser, base64Image string) error {
	if err := a.waitSend(ctx); err != nil {
		return err
	}

	url := fmt.Sprintf("%s/v1/message/SendImageNewMessage?key=%s", a.baseURL, a.Key)
	_, err := httpx.Request(ctx, url, map[string]any{
		"MsgItem": []map[string]any{{
			"ToUserName":   toUser,
			"TextContent":  "",
			"ImageContent": base64Image,
			"Delay":        true,
		}},
	}, a.opts())
	if err != nil {
		return fmt.Errorf("send image message: %w", err)
	}
	return nil
}

// GetAccountByWxid resolves a recipient identifier to its directory
// record, if present.
func (a *Account) GetAccountByWxid(wxid string) (AccountRecord, bool) {
	if a.directory == nil {
		return AccountRecord{}, false
	}
	return a.directory.Lookup(wxid)
}

func (a *Account) waitSend(ctx context.Context) error {
	if a.limiter == nil {
		return nil
	}
	return a.limiter.Wait(ctx)
}

func (a *Account) opts() httpx.Options {
	return httpx.Options{Method: "POST", Timeout: a.timeout}
}
