// Package wechat implements the message ingestion and routing pipeline:
// polling bot accounts through the messaging gateway, classifying and
// grouping incoming batches, and dispatching each message to the
// conversational agent that owns the receiving account.
package wechat

import "strings"

// Gateway message type codes. Text is the only type the pipeline
// understands; codes from 48 up are subscription/system notices.
const (
	MsgTypeText = 1

	msgTypeSystemFloor = 48
)

const chatroomSuffix = "@chatroom"

// mentionedYouPhrase is the notification text the gateway emits for an
// @-mention instead of the usual "name : preview" form.
const mentionedYouPhrase = "在群聊中@了你"

// UnknownNickname is the sentinel for messages without a notification
// preview to derive a display name from.
const UnknownNickname = "Unknown"

// StringField is the gateway's nested string wrapper ({"str": ...}).
type StringField struct {
	Str string `json:"str"`
}

// RawMessage is one inbound message exactly as the gateway returns it.
type RawMessage struct {
	MsgID        int64       `json:"msg_id"`
	FromUserName StringField `json:"from_user_name"`
	ToUserName   StringField `json:"to_user_name"`
	MsgType      int         `json:"msg_type"`
	Content      StringField `json:"content"`
	Status       int         `json:"status,omitempty"`
	CreateTime   int64       `json:"create_time,omitempty"`
	MsgSource    string      `json:"msg_source,omitempty"`
	PushContent  *string     `json:"push_content,omitempty"`
	NewMsgID     int64       `json:"new_msg_id,omitempty"`
}

// SenderGroup is the ordered sub-sequence of one sender's messages
// within a batch.
type SenderGroup struct {
	Username string
	Messages []RawMessage
}

// HasIncomingMessage reports whether a batch is eligible for routing:
// non-empty and containing only text messages. This is an all-or-nothing
// gate: a batch mixing text with anything else is skipped for the
// cycle, not partially processed.
func HasIncomingMessage(batch []RawMessage) bool {
	if len(batch) == 0 {
		return false
	}
	for _, m := range batch {
		if m.MsgType != MsgTypeText {
			return false
		}
	}
	return true
}

// FilterSystemMessages drops subscription/system notices (type >= 48)
// before classification. The remaining batch may still fail the
// eligibility gate if other non-text types are present.
func FilterSystemMessages(batch []RawMessage) []RawMessage {
	kept := make([]RawMessage, 0, len(batch))
	for _, m := range batch {
		if m.MsgType < msgTypeSystemFloor {
			kept = append(kept, m)
		}
	}
	return kept
}

// GroupMessagesByUsername partitions a batch by sender, preserving
// arrival order both across groups (first-seen order) and within each
// group.
func GroupMessagesByUsername(batch []RawMessage) []SenderGroup {
	index := make(map[string]int, len(batch))
	groups := make([]SenderGroup, 0, len(batch))
	for _, m := range batch {
		username := m.FromUserName.Str
		i, seen := index[username]
		if !seen {
			i = len(groups)
			index[username] = i
			groups = append(groups, SenderGroup{Username: username})
		}
		groups[i].Messages = append(groups[i].Messages, m)
	}
	return groups
}

// ExtractUsernames returns the distinct senders in first-seen order.
func ExtractUsernames(batch []RawMessage) []string {
	groups := GroupMessagesByUsername(batch)
	usernames := make([]string, len(groups))
	for i, g := range groups {
		usernames[i] = g.Username
	}
	return usernames
}

// IsFromChatroom reports whether an identifier names a group chat.
func IsFromChatroom(id string) bool {
	return strings.Contains(id, chatroomSuffix)
}

// IsMention reports whether any candidate nickname appears in content.
func IsMention(content string, nicknames []string) bool {
	for _, nickname := range nicknames {
		if nickname != "" && strings.Contains(content, nickname) {
			return true
		}
	}
	return false
}

// GetNickname derives a display name from the gateway's notification
// preview. The gateway emits two shapes: "name : preview" for plain
// messages and "name在群聊中@了你" for @-mentions; both normalize to the
// bare name. Malformed input degrades to an empty or odd string rather
// than an error; callers must tolerate the result.
func GetNickname(pushContent *string, content string) string {
	if pushContent == nil {
		return UnknownNickname
	}
	push := *pushContent
	if strings.Contains(push, ":") && strings.Contains(content, ":") {
		name, _, _ := strings.Cut(push, ":")
		return strings.TrimSpace(name)
	}
	return strings.TrimSpace(strings.ReplaceAll(push, mentionedYouPhrase, ""))
}
