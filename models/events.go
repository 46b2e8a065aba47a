package models

// Channel event names.
const (
	EventJoinChat    = "join_chat"
	EventLeaveChat   = "leave_chat"
	EventSendMessage = "send_message"
	EventTyping      = "typing"

	EventReceiveMessage        = "receive_message"
	EventDisplayTyping         = "display_typing"
	EventUserStatus            = "user_status"
	EventNewFriendRequest      = "new_friend_request"
	EventFriendRequestAccepted = "friend_request_accepted"
)

// ChatMessage is the payload of send_message.
type ChatMessage struct {
	ReceiverID ID     `json:"receiverId"`
	Content    string `json:"content"`
}

// TypingNotice is the payload of typing.
type TypingNotice struct {
	ReceiverID ID `json:"receiverId"`
}

type TypingEvent struct {
	SenderID ID `json:"senderId"`
}

type StatusEvent struct {
	UserID ID     `json:"userId"`
	Status Status `json:"status"`
}

// FriendRequestEvent carries whatever the server tells about a new request.
// The client only uses it as a signal and reloads the list for details.
type FriendRequestEvent struct {
	RequestID ID     `json:"requestId,omitempty"`
	SenderID  ID     `json:"senderId,omitempty"`
	Username  string `json:"username,omitempty"`
}

type FriendAcceptedEvent struct {
	NewFriend User `json:"newFriend"`
}
