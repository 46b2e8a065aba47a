package models

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// ID identifies users, requests and messages. The server is not consistent
// about sending ids as numbers or strings, so both decode to the same value.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("invalid id %s: %w", b, err)
	}
	*id = ID(n.String())
	return nil
}

// MarshalJSON writes canonical integer ids as JSON numbers, everything else
// (including "007" or "+5") as strings.
func (id ID) MarshalJSON() ([]byte, error) {
	if n, err := strconv.ParseInt(string(id), 10, 64); err == nil && strconv.FormatInt(n, 10) == string(id) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func (id ID) String() string { return string(id) }

type Status string

const (
	StatusOnline  Status = "online"
	StatusOffline Status = "offline"
)

type User struct {
	ID       ID     `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar,omitempty"`
	Status   Status `json:"status,omitempty"`
}

// FriendRequest is a pending inbound request. RequestID identifies the
// relationship row, UserID the sender.
type FriendRequest struct {
	RequestID ID     `json:"requestId"`
	UserID    ID     `json:"userId"`
	Username  string `json:"username"`
	Avatar    string `json:"avatar,omitempty"`
}

type Message struct {
	ID         ID     `json:"id,omitempty"`
	SenderID   ID     `json:"sender_id"`
	ReceiverID ID     `json:"receiver_id,omitempty"`
	Content    string `json:"content"`
	CreatedAt  string `json:"created_at,omitempty"`
}

type Action string

const (
	ActionAccept  Action = "accept"
	ActionDecline Action = "decline"
)

// ParseAction accepts the two actions plus "reject" as an alias of decline.
func ParseAction(s string) (Action, error) {
	switch s {
	case "accept":
		return ActionAccept, nil
	case "decline", "reject":
		return ActionDecline, nil
	}
	return "", fmt.Errorf("invalid action %q: must be 'accept' or 'decline'", s)
}
