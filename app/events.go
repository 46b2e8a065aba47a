package app

import (
	"encoding/json"
	"time"

	"friendchat/models"
	"friendchat/state"

	"github.com/rs/zerolog/log"
)

func (a *App) bind(ch Channel) {
	ch.On(models.EventReceiveMessage, a.onReceiveMessage)
	ch.On(models.EventDisplayTyping, a.onDisplayTyping)
	ch.On(models.EventUserStatus, a.onUserStatus)
	ch.On(models.EventNewFriendRequest, a.onNewFriendRequest)
	ch.On(models.EventFriendRequestAccepted, a.onFriendRequestAccepted)
}

func decodeEvent[T any](event string, data json.RawMessage) (T, bool) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		log.Warn().Err(err).Str("event", event).Msg("[socket] bad payload")
		return v, false
	}
	return v, true
}

// onReceiveMessage draws m only if it belongs to the open conversation:
// sent by the partner, or the echo of our own message to the partner.
func (a *App) onReceiveMessage(data json.RawMessage) {
	m, ok := decodeEvent[models.Message](models.EventReceiveMessage, data)
	if !ok {
		return
	}
	a.ui.Lock()
	defer a.ui.Unlock()
	p, me := a.store.ChatPartner(), a.store.User()
	if p == nil || me == nil {
		log.Debug().Str("sender", m.SenderID.String()).Msg("[chat] message for closed chat dropped")
		return
	}
	fromPartner := m.SenderID == p.ID
	ownEcho := m.SenderID == me.ID && (m.ReceiverID == "" || m.ReceiverID == p.ID)
	if !fromPartner && !ownEcho {
		log.Debug().Str("sender", m.SenderID.String()).Msg("[chat] message for other chat dropped")
		return
	}
	a.screen.AppendMessage(m, ownEcho)
}

// onDisplayTyping shows the indicator for the open partner. Each signal
// schedules its own hide.
func (a *App) onDisplayTyping(data json.RawMessage) {
	ev, ok := decodeEvent[models.TypingEvent](models.EventDisplayTyping, data)
	if !ok {
		return
	}
	a.ui.Lock()
	defer a.ui.Unlock()
	p := a.store.ChatPartner()
	if p == nil || ev.SenderID != p.ID {
		return
	}
	a.screen.ShowTyping()
	time.AfterFunc(a.opts.TypingTimeout, a.screen.HideTyping)
}

func (a *App) onUserStatus(data json.RawMessage) {
	ev, ok := decodeEvent[models.StatusEvent](models.EventUserStatus, data)
	if !ok {
		return
	}
	a.store.SetFriendStatus(ev.UserID, ev.Status)
}

// onNewFriendRequest bumps the badge, or reloads the list right away when
// the requests tab is showing.
func (a *App) onNewFriendRequest(data json.RawMessage) {
	ev, ok := decodeEvent[models.FriendRequestEvent](models.EventNewFriendRequest, data)
	if !ok {
		return
	}
	log.Info().Str("from", ev.Username).Msg("[social] new friend request")
	if a.store.Tab() == state.TabRequests {
		_ = a.LoadRequests(a.sessionCtx())
		return
	}
	a.store.IncUnseen()
}

// onFriendRequestAccepted adds the new friend to the cache directly; the
// store change redraws the whole list.
func (a *App) onFriendRequestAccepted(data json.RawMessage) {
	ev, ok := decodeEvent[models.FriendAcceptedEvent](models.EventFriendRequestAccepted, data)
	if !ok {
		return
	}
	if ev.NewFriend.ID == "" {
		log.Warn().Msg("[social] accepted event without friend")
		return
	}
	a.store.AddFriend(ev.NewFriend)
}
