// Package apptest provides in-memory stand-ins for the chat server API and
// the realtime channel.
package apptest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"friendchat/models"
	"friendchat/socket"
)

// FakeAPI behaves like a tiny chat server: handling a request removes it
// from Pending, and accepting one adds the sender to Friends.
type FakeAPI struct {
	mu sync.Mutex

	Session     *models.User
	MeErr       error
	Accounts    map[string]string
	NextID      int
	LogoutErr   error
	SearchFunc  func(ctx context.Context, query string) ([]models.User, error)
	SendErr     error
	FriendsList []models.User
	FriendsErr  error
	Pending     []models.FriendRequest
	RequestsErr error
	HandleErr   error
	History     map[models.ID][]models.Message
	MessagesErr error

	calls []string
}

func NewFakeAPI() *FakeAPI {
	return &FakeAPI{
		Accounts: map[string]string{},
		History:  map[models.ID][]models.Message{},
		NextID:   100,
	}
}

func (f *FakeAPI) record(format string, args ...any) {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

// Calls lists the calls made so far, like "friends" or "search:bo".
func (f *FakeAPI) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// Count returns how many calls equal name.
func (f *FakeAPI) Count(name string) int {
	n := 0
	for _, c := range f.Calls() {
		if c == name {
			n++
		}
	}
	return n
}

func (f *FakeAPI) Me(ctx context.Context) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("me")
	if f.MeErr != nil {
		return nil, f.MeErr
	}
	if f.Session == nil {
		return nil, nil
	}
	u := *f.Session
	return &u, nil
}

func (f *FakeAPI) Login(ctx context.Context, username, password string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("login:%s", username)
	if pw, ok := f.Accounts[username]; !ok || pw != password {
		return nil, errors.New("bad credentials")
	}
	return f.signIn(username), nil
}

func (f *FakeAPI) Register(ctx context.Context, username, password string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("register:%s", username)
	if _, ok := f.Accounts[username]; ok {
		return nil, errors.New("username taken")
	}
	f.Accounts[username] = password
	return f.signIn(username), nil
}

func (f *FakeAPI) signIn(username string) *models.User {
	if f.Session == nil || f.Session.Username != username {
		f.NextID++
		f.Session = &models.User{ID: models.ID(fmt.Sprint(f.NextID)), Username: username, Avatar: username + ".png"}
	}
	u := *f.Session
	return &u
}

func (f *FakeAPI) Logout(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("logout")
	if f.LogoutErr != nil {
		return f.LogoutErr
	}
	f.Session = nil
	return nil
}

func (f *FakeAPI) SearchUsers(ctx context.Context, query string) ([]models.User, error) {
	f.mu.Lock()
	f.record("search:%s", query)
	fn := f.SearchFunc
	f.mu.Unlock()
	if fn == nil {
		return []models.User{{ID: "50", Username: query}}, nil
	}
	return fn(ctx, query)
}

func (f *FakeAPI) SendRequest(ctx context.Context, receiverID models.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("send-request:%s", receiverID)
	return f.SendErr
}

func (f *FakeAPI) Friends(ctx context.Context) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("friends")
	if f.FriendsErr != nil {
		return nil, f.FriendsErr
	}
	return append([]models.User(nil), f.FriendsList...), nil
}

func (f *FakeAPI) FriendRequests(ctx context.Context) ([]models.FriendRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("friend-requests")
	if f.RequestsErr != nil {
		return nil, f.RequestsErr
	}
	return append([]models.FriendRequest(nil), f.Pending...), nil
}

func (f *FakeAPI) HandleRequest(ctx context.Context, requestID models.ID, action models.Action, senderID models.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("handle-request:%s:%s:%s", requestID, action, senderID)
	if f.HandleErr != nil {
		return f.HandleErr
	}
	for i, r := range f.Pending {
		if r.RequestID != requestID {
			continue
		}
		f.Pending = append(f.Pending[:i:i], f.Pending[i+1:]...)
		if action == models.ActionAccept {
			f.FriendsList = append(f.FriendsList, models.User{ID: r.UserID, Username: r.Username, Avatar: r.Avatar, Status: models.StatusOnline})
		}
		return nil
	}
	return errors.New("request not found")
}

func (f *FakeAPI) Messages(ctx context.Context, friendID models.ID) ([]models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("messages:%s", friendID)
	if f.MessagesErr != nil {
		return nil, f.MessagesErr
	}
	return append([]models.Message(nil), f.History[friendID]...), nil
}

// Emitted is one outbound event with its JSON payload.
type Emitted struct {
	Event string
	Data  json.RawMessage
}

// FakeChannel records emitted events and lets tests push inbound ones.
type FakeChannel struct {
	mu       sync.Mutex
	handlers map[string][]socket.Handler
	emitted  []Emitted
	EmitErr  error
	closed   bool
	done     chan struct{}
}

func NewFakeChannel() *FakeChannel {
	return &FakeChannel{handlers: map[string][]socket.Handler{}, done: make(chan struct{})}
}

func (c *FakeChannel) On(event string, h socket.Handler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[event] = append(c.handlers[event], h)
}

func (c *FakeChannel) Emit(event string, payload any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.EmitErr != nil {
		return c.EmitErr
	}
	if c.closed {
		return errors.New("channel closed")
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	c.emitted = append(c.emitted, Emitted{Event: event, Data: data})
	return nil
}

// Listen blocks until Close, like a healthy connection.
func (c *FakeChannel) Listen() error {
	<-c.done
	return nil
}

func (c *FakeChannel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.done)
	}
	return nil
}

func (c *FakeChannel) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Push delivers an inbound event synchronously to the registered handlers.
func (c *FakeChannel) Push(event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		panic(err)
	}
	c.mu.Lock()
	hs := append([]socket.Handler(nil), c.handlers[event]...)
	c.mu.Unlock()
	for _, h := range hs {
		h(data)
	}
}

// Emitted returns all outbound events, optionally filtered by name.
func (c *FakeChannel) Emitted(events ...string) []Emitted {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(events) == 0 {
		return append([]Emitted(nil), c.emitted...)
	}
	var out []Emitted
	for _, e := range c.emitted {
		for _, name := range events {
			if e.Event == name {
				out = append(out, e)
			}
		}
	}
	return out
}
