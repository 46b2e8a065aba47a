package commands

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"friendchat/app"
	"friendchat/app/apptest"
	"friendchat/models"
	"friendchat/view"

	"github.com/c-bata/go-prompt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	shell  *Shell
	app    *app.App
	api    *apptest.FakeAPI
	ch     *apptest.FakeChannel
	screen *view.Screen
	out    *bytes.Buffer
}

func newFixture(t *testing.T, input string) *fixture {
	t.Helper()
	f := &fixture{
		api: apptest.NewFakeAPI(),
		ch:  apptest.NewFakeChannel(),
		out: &bytes.Buffer{},
	}
	f.screen = view.New(io.Discard)
	dial := func(context.Context) (app.Channel, error) { return f.ch, nil }
	f.app = app.New(f.api, dial, f.screen, app.DefaultOptions())
	f.shell = New(context.Background(), f.app, strings.NewReader(input), f.out)
	t.Cleanup(func() { _ = f.app.Close() })
	return f
}

func loggedInFixture(t *testing.T, input string) *fixture {
	t.Helper()
	f := newFixture(t, input)
	f.api.Session = &models.User{ID: "1", Username: "alice"}
	f.api.FriendsList = []models.User{
		{ID: "2", Username: "bob", Status: models.StatusOnline},
		{ID: "3", Username: "carol", Status: models.StatusOffline},
	}
	require.NoError(t, f.app.Bootstrap(context.Background()))
	return f
}

func doc(text string) prompt.Document {
	b := prompt.NewBuffer()
	b.InsertText(text, false, true)
	return *b.Document()
}

func TestLoginWithFlags(t *testing.T) {
	f := newFixture(t, "")
	f.api.Accounts["alice"] = "secret"

	f.shell.Execute("login --username:alice --password:secret")

	require.NotNil(t, f.app.User())
	assert.Equal(t, "alice", f.app.User().Username)
	assert.False(t, f.screen.AuthVisible())

	f.shell.Execute("login")
	assert.Contains(t, f.out.String(), "already logged in as alice")
}

func TestLoginPromptsForMissingCredentials(t *testing.T) {
	f := newFixture(t, "alice\nsecret\n")
	f.api.Accounts["alice"] = "secret"

	f.shell.Execute("login")

	assert.Contains(t, f.out.String(), "Enter username: ")
	assert.Contains(t, f.out.String(), "Enter password: ")
	require.NotNil(t, f.app.User())
}

func TestLoginFailureStaysOnAuth(t *testing.T) {
	f := newFixture(t, "")
	f.api.Accounts["alice"] = "secret"

	f.shell.Execute("login --username:alice --password:nope")

	assert.Nil(t, f.app.User())
	assert.True(t, f.screen.AuthVisible())
	assert.Equal(t, "bad credentials", f.screen.AuthError())
}

func TestRegister(t *testing.T) {
	t.Run("rejects spaces", func(t *testing.T) {
		f := newFixture(t, "bob smith\npw\n")
		f.shell.Execute("register")
		assert.Contains(t, f.out.String(), "cannot contain spaces")
		assert.Empty(t, f.api.Calls())
	})

	t.Run("signs in", func(t *testing.T) {
		f := newFixture(t, "")
		f.shell.Execute("register --username:erin --password:pw")
		assert.Equal(t, 1, f.api.Count("register:erin"))
		require.NotNil(t, f.app.User())
		assert.Equal(t, "erin", f.app.User().Username)
	})
}

func TestCommandsRequireLogin(t *testing.T) {
	f := newFixture(t, "")
	for _, line := range []string{"friends", "requests", "search bob", "add 1", "respond", "chat --username:bob", "logout"} {
		f.out.Reset()
		f.shell.Execute(line)
		assert.Contains(t, f.out.String(), "You must login first", line)
	}
	assert.Empty(t, f.api.Calls())
}

func TestLogout(t *testing.T) {
	f := loggedInFixture(t, "")
	f.shell.Execute("logout")
	assert.Nil(t, f.app.User())
	assert.True(t, f.screen.AuthVisible())
	assert.Contains(t, f.out.String(), "Logged out.")
}

func TestSearchAndAddByNumber(t *testing.T) {
	f := loggedInFixture(t, "")

	f.shell.Execute("search dave")
	assert.Contains(t, f.api.Calls(), "search:dave")
	require.Len(t, f.screen.SearchResults(), 1)

	f.shell.Execute("add 1")
	assert.Contains(t, f.api.Calls(), "send-request:50")

	f.shell.Execute("add 5")
	assert.Contains(t, f.out.String(), "No such search result")
}

func TestAddByUsernamePicksExactMatch(t *testing.T) {
	f := loggedInFixture(t, "")
	f.api.SearchFunc = func(_ context.Context, q string) ([]models.User, error) {
		return []models.User{{ID: "60", Username: "davey"}, {ID: "61", Username: "dave"}}, nil
	}

	f.shell.Execute("add --username:dave")
	assert.Contains(t, f.api.Calls(), "send-request:61")

	f.shell.Execute("add --username:zed")
	assert.Contains(t, f.out.String(), "User not found: zed")
}

func TestRespondToFriendRequest(t *testing.T) {
	t.Run("with flags", func(t *testing.T) {
		f := loggedInFixture(t, "")
		f.api.Pending = []models.FriendRequest{{RequestID: "10", UserID: "4", Username: "dave"}}

		f.shell.Execute("respond --username:dave --action:accept")

		assert.Contains(t, f.api.Calls(), "handle-request:10:accept:4")
		_, ok := f.app.Store().FriendByName("dave")
		assert.True(t, ok)
		assert.Empty(t, f.app.Store().Requests())
	})

	t.Run("interactive", func(t *testing.T) {
		f := loggedInFixture(t, "erin\nReject\n")
		f.api.Pending = []models.FriendRequest{
			{RequestID: "10", UserID: "4", Username: "dave"},
			{RequestID: "11", UserID: "5", Username: "erin"},
		}

		f.shell.Execute("respond")

		out := f.out.String()
		assert.Contains(t, out, "Username: dave")
		assert.Contains(t, out, "Username: erin")
		assert.Contains(t, f.api.Calls(), "handle-request:11:decline:5")
	})

	t.Run("sees requests pushed since the last load", func(t *testing.T) {
		f := loggedInFixture(t, "")
		f.api.Pending = []models.FriendRequest{{RequestID: "10", UserID: "4", Username: "dave"}}
		require.NoError(t, f.app.LoadRequests(context.Background()))

		f.api.Pending = append(f.api.Pending, models.FriendRequest{RequestID: "11", UserID: "5", Username: "erin"})
		f.ch.Push(models.EventNewFriendRequest, map[string]any{"senderId": 5, "username": "erin"})

		f.shell.Execute("respond --username:erin --action:accept")
		assert.NotContains(t, f.out.String(), "No pending request found")
		assert.Contains(t, f.api.Calls(), "handle-request:11:accept:5")
	})

	t.Run("unknown requester", func(t *testing.T) {
		f := loggedInFixture(t, "")
		f.api.Pending = []models.FriendRequest{{RequestID: "10", UserID: "4", Username: "dave"}}

		f.shell.Execute("respond --username:zed --action:accept")
		assert.Contains(t, f.out.String(), "No pending request found")
		assert.Empty(t, filter(f.api.Calls(), "handle-request"))
	})

	t.Run("invalid action", func(t *testing.T) {
		f := loggedInFixture(t, "")
		f.api.Pending = []models.FriendRequest{{RequestID: "10", UserID: "4", Username: "dave"}}

		f.shell.Execute("respond --username:dave --action:maybe")
		assert.Contains(t, f.out.String(), "Invalid action")
		assert.Empty(t, filter(f.api.Calls(), "handle-request"))
	})

	t.Run("nothing pending", func(t *testing.T) {
		f := loggedInFixture(t, "")
		f.shell.Execute("respond")
		assert.Contains(t, f.out.String(), "No pending friend requests.")
	})
}

func TestChatMode(t *testing.T) {
	f := loggedInFixture(t, "")

	f.shell.Execute("chat --username:zed")
	assert.Contains(t, f.out.String(), "zed is not in your friends list")

	f.shell.Execute("chat --username:bob")
	require.True(t, f.screen.ChatVisible())
	prefix, live := f.shell.LivePrefix()
	assert.True(t, live)
	assert.Equal(t, "You: ", prefix)

	f.shell.Execute("help")
	f.shell.Execute("")
	sent := f.ch.Emitted(models.EventSendMessage)
	require.Len(t, sent, 1, "lines in chat mode are messages; blank lines are not")
	assert.JSONEq(t, `{"receiverId": 2, "content": "help"}`, string(sent[0].Data))

	f.shell.Execute("/leave")
	assert.False(t, f.screen.ChatVisible())
	_, live = f.shell.LivePrefix()
	assert.False(t, live)
	assert.Len(t, f.ch.Emitted(models.EventLeaveChat), 1)
}

func TestCompleteEmitsTypingInChatMode(t *testing.T) {
	f := loggedInFixture(t, "")

	f.shell.Complete(doc("h"))
	assert.Empty(t, f.ch.Emitted(models.EventTyping), "no chat open")

	f.shell.Execute("chat bob")
	f.shell.Complete(doc("h"))
	f.shell.Complete(doc("h"))
	f.shell.Complete(doc("he"))
	assert.Len(t, f.ch.Emitted(models.EventTyping), 2, "one signal per edit")

	f.shell.Complete(doc("h"))
	f.shell.Complete(doc(""))
	assert.Len(t, f.ch.Emitted(models.EventTyping), 4, "erasing counts as typing")

	sugs := f.shell.Complete(doc("/l"))
	require.Len(t, sugs, 1)
	assert.Equal(t, "/leave", sugs[0].Text)
	assert.Len(t, f.ch.Emitted(models.EventTyping), 4)
}

func TestCompleteSuggestions(t *testing.T) {
	f := loggedInFixture(t, "")
	f.api.Pending = []models.FriendRequest{{RequestID: "10", UserID: "4", Username: "dave"}}
	require.NoError(t, f.app.LoadRequests(context.Background()))

	assert.Equal(t, []string{"chat", "clear"}, texts(f.shell.Complete(doc("c"))))
	assert.Equal(t, []string{"--username:bob"}, texts(f.shell.Complete(doc("chat --username:b"))))
	assert.Equal(t, []string{"--username:bob", "--username:carol"}, texts(f.shell.Complete(doc("chat "))))
	assert.Equal(t, []string{"--username:dave"}, texts(f.shell.Complete(doc("respond "))))
	assert.Empty(t, f.shell.Complete(doc("search b")))
}

func TestSystemCommands(t *testing.T) {
	f := newFixture(t, "")
	var cleared, exited bool
	f.shell.Clear = func() { cleared = true }
	f.shell.Exit = func() { exited = true }

	f.shell.Execute("clear")
	f.shell.Execute("help")
	f.shell.Execute("bogus")
	f.shell.Execute("EXIT")

	assert.True(t, cleared)
	assert.True(t, exited)
	assert.Contains(t, f.out.String(), "=== Chat Application CLI Help ===")
	assert.Contains(t, f.out.String(), "Unknown command.")
}

func texts(sugs []prompt.Suggest) []string {
	out := make([]string, 0, len(sugs))
	for _, s := range sugs {
		out = append(out, s.Text)
	}
	return out
}

func filter(calls []string, prefix string) []string {
	var out []string
	for _, c := range calls {
		if strings.HasPrefix(c, prefix) {
			out = append(out, c)
		}
	}
	return out
}
