package view

import (
	"bytes"
	"testing"
	"time"

	"friendchat/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loggedInScreen(t *testing.T) (*Screen, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	s := New(&buf)
	s.ShowApp(models.User{ID: "1", Username: "alice"})
	return s, &buf
}

var friends = []models.User{
	{ID: "2", Username: "bob", Status: models.StatusOnline},
	{ID: "3", Username: "carol", Status: models.StatusOffline},
}

func TestRenderFriendsIsIdempotent(t *testing.T) {
	s, _ := loggedInScreen(t)
	s.RenderFriends(friends)
	first := s.FriendRows()
	s.RenderFriends(friends)
	assert.Equal(t, first, s.FriendRows())
	assert.Len(t, first, 2)
}

func TestSetFriendStatusTouchesOnlyThatRow(t *testing.T) {
	s, buf := loggedInScreen(t)
	s.RenderFriends(friends)
	before := s.FriendRows()
	buf.Reset()

	require.True(t, s.SetFriendStatus("2", models.StatusOffline))

	after := s.FriendRows()
	assert.Equal(t, models.StatusOffline, after[0].Status)
	before[0].Status = models.StatusOffline
	assert.Equal(t, before, after)
	assert.Contains(t, buf.String(), "bob is now offline")
}

func TestSetFriendStatusIsNoopWhenNotRendered(t *testing.T) {
	s, _ := loggedInScreen(t)
	s.RenderFriends(friends)
	s.SetTab("requests")

	assert.False(t, s.SetFriendStatus("2", models.StatusOffline))
	assert.Empty(t, s.FriendRows())

	s.RenderFriends(friends)
	assert.Empty(t, s.FriendRows(), "friends are not drawn while requests tab shows")
}

func TestAuthScreenDrawsNoLists(t *testing.T) {
	s := New(&bytes.Buffer{})
	s.RenderFriends(friends)
	assert.Empty(t, s.FriendRows())
	assert.True(t, s.AuthVisible())
}

func TestAuthError(t *testing.T) {
	var buf bytes.Buffer
	s := New(&buf)
	s.ShowAuthError("bad credentials")
	assert.Equal(t, "bad credentials", s.AuthError())
	assert.True(t, s.AuthVisible())
	assert.Contains(t, buf.String(), "Login failed: bad credentials")
}

func TestBadge(t *testing.T) {
	s, _ := loggedInScreen(t)
	visible, _ := s.Badge()
	assert.False(t, visible)

	s.SetBadge(2)
	visible, text := s.Badge()
	assert.True(t, visible)
	assert.Equal(t, "2", text)

	s.SetBadge(0)
	visible, _ = s.Badge()
	assert.False(t, visible)
}

func TestMessages(t *testing.T) {
	s, buf := loggedInScreen(t)
	s.now = func() time.Time { return time.Date(2026, 1, 2, 15, 4, 0, 0, time.Local) }

	s.AppendMessage(models.Message{SenderID: "2", Content: "dropped"}, false)
	assert.Empty(t, s.Messages(), "no chat open")

	s.ShowChat(models.User{ID: "2", Username: "bob"})
	s.AppendMessage(models.Message{SenderID: "1", Content: "hi"}, true)
	s.AppendMessage(models.Message{SenderID: "2", Content: "hello\nthere"}, false)

	assert.Equal(t, []MessageRow{
		{Mine: true, Sender: "You", Content: "hi", Time: "15:04"},
		{Mine: false, Sender: "bob", Content: "hello\nthere", Time: "15:04"},
	}, s.Messages())
	assert.Contains(t, buf.String(), "[15:04] bob: hello")

	s.ShowChat(models.User{ID: "3", Username: "carol"})
	assert.Empty(t, s.Messages(), "opening a chat starts from an empty pane")
}

func TestTyping(t *testing.T) {
	s, _ := loggedInScreen(t)
	s.ShowTyping()
	assert.False(t, s.TypingVisible(), "no chat open")

	s.ShowChat(models.User{ID: "2", Username: "bob"})
	s.ShowTyping()
	assert.True(t, s.TypingVisible())
	s.HideTyping()
	assert.False(t, s.TypingVisible())
}

func TestSanitizing(t *testing.T) {
	assert.Equal(t, "bob", cleanName("<img src=x onerror=alert(1)>bob"))
	assert.Equal(t, "tom & jerry", cleanName("tom & jerry"))
	assert.Equal(t, "a < b", cleanText("a < b"))
	assert.Equal(t, "redtext", cleanText("red\x1btext"))
	assert.Equal(t, "line1\nline2", cleanText("line1\nline2"))
}

func TestShowAuthResets(t *testing.T) {
	s, _ := loggedInScreen(t)
	s.RenderFriends(friends)
	s.ShowChat(models.User{ID: "2", Username: "bob"})
	s.SetBadge(3)

	s.ShowAuth()
	assert.True(t, s.AuthVisible())
	assert.Empty(t, s.FriendRows())
	assert.False(t, s.ChatVisible())
	visible, _ := s.Badge()
	assert.False(t, visible)
	assert.Equal(t, models.User{}, s.Header())
}
