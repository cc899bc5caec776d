package wechat

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"

	"github.com/okami-inn/okami/internal/agentapi"
	"github.com/okami-inn/okami/internal/lang"
)

// ChatClient is the slice of the agent platform the worker needs: one
// user turn in, one structured response out.
type ChatClient interface {
	SendMessage(ctx context.Context, agentID, role, message string) (*agentapi.Response, error)
}

// Worker processes one polling cycle's message batch for one account.
// Workers are one-shot: construct, ProcessMessages, discard.
type Worker struct {
	messages []RawMessage
	account  *Account
	chat     ChatClient
	detector *lang.Detector
}

// NewWorker builds a worker over a batch. detector may be nil.
func NewWorker(messages []RawMessage, account *Account, chat ChatClient, detector *lang.Detector) *Worker {
	return &Worker{messages: messages, account: account, chat: chat, detector: detector}
}

// HasIncomingMessage applies the batch eligibility gate.
func (w *Worker) HasIncomingMessage() bool {
	return HasIncomingMessage(w.messages)
}

// ExtractUsernames lists the batch's distinct senders in first-seen order.
func (w *Worker) ExtractUsernames() []string {
	return ExtractUsernames(w.messages)
}

// GroupMessagesByUsername partitions the batch by sender.
func (w *Worker) GroupMessagesByUsername() []SenderGroup {
	return GroupMessagesByUsername(w.messages)
}

// ProcessMessages routes every message, sender group by sender group in
// first-seen order, arrival order within each group. Grouping provides
// routing context only; every message is processed. The first transport
// failure aborts the cycle and propagates to the per-account boundary.
func (w *Worker) ProcessMessages(ctx context.Context, accountKey string) error {
	for _, group := range w.GroupMessagesByUsername() {
		for _, message := range group.Messages {
			if err := w.processMessage(ctx, message, accountKey); err != nil {
				return err
			}
		}
	}
	return nil
}

func (w *Worker) processMessage(ctx context.Context, message RawMessage, accountKey string) error {
	fromWxid := message.FromUserName.Str
	toWxid := message.ToUserName.Str
	content := message.Content.Str
	return w.routeMessage(ctx, fromWxid, toWxid, content, message.PushContent)
}

// routeMessage resolves the receiving bot's directory record and hands
// the message to its agent. A recipient missing from the directory is
// an expected steady-state path: log and drop.
func (w *Worker) routeMessage(ctx context.Context, fromWxid, toWxid, content string, pushContent *string) error {
	slog.Info("routing message",
		"from", fromWxid,
		"to", toWxid,
		"content", content,
	)

	record, ok := w.account.GetAccountByWxid(toWxid)
	if !ok {
		slog.Info("account not found for wxid", "wxid", toWxid)
		return nil
	}

	if w.detector != nil {
		language := w.detector.DetectFromText(content, 0.7)
		slog.Debug("detected message language", "from", fromWxid, "language", language)
	}

	nickname := GetNickname(pushContent, content)
	return w.dispatch(ctx, record.AgentID, fromWxid, nickname, content)
}

// dispatch submits the message as a user turn and delivers the agent's
// reply. Chatroom conversations are not answered yet; they terminate
// here until mention-based handling lands.
func (w *Worker) dispatch(ctx context.Context, agentID, userID, nickname, content string) error {
	if IsFromChatroom(userID) {
		slog.Debug("chatroom message not answered", "chatroom", userID, "nickname", nickname)
		return nil
	}

	response, err := w.chat.SendMessage(ctx, agentID, "user", content)
	if err != nil {
		return fmt.Errorf("chat with agent %s: %w", agentID, err)
	}

	if path, ok := agentapi.ExtractFilePathFromFunctionReturn(response.Messages); ok {
		return w.sendFileReply(ctx, userID, path)
	}

	reply := agentapi.ExtractMessageFromFunctionCall(response.Messages)
	if reply == "" {
		slog.Debug("agent turn produced no reply", "agent", agentID, "user", userID)
		return nil
	}
	return w.account.SendTextMessage(ctx, userID, reply, nil)
}

// sendFileReply sends a tool-generated file as an image. The temp file
// is removed once its existence is confirmed, whether or not the send
// succeeds.
func (w *Worker) sendFileReply(ctx context.Context, userID, path string) error {
	defer func() {
		if err := os.Remove(path); err != nil {
			slog.Warn("failed to remove temp reply file", "path", path, "error", err)
		}
	}()

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read reply file %s: %w", path, err)
	}
	return w.account.SendImageMessage(ctx, userID, base64.StdEncoding.EncodeToString(data))
}
