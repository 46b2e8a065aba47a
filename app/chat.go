package app

import (
	"context"

	"friendchat/api"
	"friendchat/models"

	"github.com/rs/zerolog/log"
)

// OpenChat makes friend the open conversation: leaves the previous room,
// shows the pane, loads history and joins the friend's room. The join is
// sent even if history fails to load so live messages still arrive.
func (a *App) OpenChat(ctx context.Context, friend models.User) error {
	a.ui.Lock()
	prev := a.store.OpenChat(friend)
	a.ui.Unlock()

	if prev != nil && prev.ID != friend.ID {
		if err := a.emit(models.EventLeaveChat, prev.ID); err != nil {
			log.Debug().Err(err).Str("friend", prev.ID.String()).Msg("[chat] leave failed")
		}
	}

	msgs, err := a.api.Messages(ctx, friend.ID)
	if err != nil {
		a.screen.Toast("❌ Could not load messages with %s: %s", friend.Username, api.Message(err))
	} else {
		a.ui.Lock()
		if p := a.store.ChatPartner(); p != nil && p.ID == friend.ID {
			// history already holds anything pushed during the fetch
			a.screen.ClearMessages()
			me := a.store.User()
			for _, m := range msgs {
				a.screen.AppendMessage(m, isMine(m, me))
			}
		}
		a.ui.Unlock()
	}

	if jerr := a.emit(models.EventJoinChat, friend.ID); jerr != nil {
		log.Warn().Err(jerr).Str("friend", friend.ID.String()).Msg("[chat] join failed")
		a.screen.Toast("⚠ Live messages unavailable for this chat: %v", jerr)
	}
	return err
}

// CloseChat leaves the open conversation, if any.
func (a *App) CloseChat() {
	a.ui.Lock()
	prev := a.store.CloseChat()
	a.ui.Unlock()
	if prev == nil {
		return
	}
	if err := a.emit(models.EventLeaveChat, prev.ID); err != nil {
		log.Debug().Err(err).Msg("[chat] leave failed")
	}
}

// SendMessage emits content to the open partner. Empty content is ignored.
// Nothing is drawn here: the message shows up when the server echoes it.
func (a *App) SendMessage(content string) error {
	if content == "" {
		return nil
	}
	p := a.store.ChatPartner()
	if p == nil {
		return ErrNoChat
	}
	if err := a.emit(models.EventSendMessage, models.ChatMessage{ReceiverID: p.ID, Content: content}); err != nil {
		a.screen.Toast("❌ Failed to send message: %v", err)
		return err
	}
	return nil
}

// Typing tells the open partner that the user is typing. One call per
// keystroke.
func (a *App) Typing() {
	p := a.store.ChatPartner()
	if p == nil {
		return
	}
	if err := a.emit(models.EventTyping, models.TypingNotice{ReceiverID: p.ID}); err != nil {
		log.Debug().Err(err).Msg("[chat] typing signal failed")
	}
}

func isMine(m models.Message, me *models.User) bool {
	return me != nil && m.SenderID == me.ID
}
