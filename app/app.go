// Package app wires the session, social and chat controllers to the server
// API, the realtime channel, the state store and the screen.
package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"friendchat/api"
	"friendchat/models"
	"friendchat/socket"
	"friendchat/state"
	"friendchat/view"

	"github.com/rs/zerolog/log"
)

var (
	ErrNoChat    = errors.New("no chat is open")
	ErrNoChannel = errors.New("not connected to the chat server")
)

// API is the request/response side of the chat server.
type API interface {
	Me(ctx context.Context) (*models.User, error)
	Login(ctx context.Context, username, password string) (*models.User, error)
	Register(ctx context.Context, username, password string) (*models.User, error)
	Logout(ctx context.Context) error
	SearchUsers(ctx context.Context, query string) ([]models.User, error)
	SendRequest(ctx context.Context, receiverID models.ID) error
	Friends(ctx context.Context) ([]models.User, error)
	FriendRequests(ctx context.Context) ([]models.FriendRequest, error)
	HandleRequest(ctx context.Context, requestID models.ID, action models.Action, senderID models.ID) error
	Messages(ctx context.Context, friendID models.ID) ([]models.Message, error)
}

// Channel is the persistent event channel.
type Channel interface {
	On(event string, h socket.Handler)
	Emit(event string, payload any) error
	Listen() error
	Close() error
}

// Dialer opens a Channel for the current session.
type Dialer func(ctx context.Context) (Channel, error)

type Options struct {
	// TypingTimeout is how long a typing signal stays visible.
	TypingTimeout time.Duration
	// MinSearchLen is the shortest query, in runes, that hits the server.
	MinSearchLen int
}

func DefaultOptions() Options {
	return Options{TypingTimeout: 3 * time.Second, MinSearchLen: 2}
}

type App struct {
	api    API
	dial   Dialer
	store  *state.Store
	screen *view.Screen
	opts   Options

	// ui serializes sections that read state and then draw based on it,
	// standing in for a single UI thread. Never held across network calls.
	ui sync.Mutex

	mu     sync.Mutex
	ch     Channel
	ctx    context.Context
	cancel context.CancelFunc
}

func New(client API, dial Dialer, screen *view.Screen, opts Options) *App {
	if opts.TypingTimeout <= 0 {
		opts.TypingTimeout = DefaultOptions().TypingTimeout
	}
	if opts.MinSearchLen <= 0 {
		opts.MinSearchLen = DefaultOptions().MinSearchLen
	}
	a := &App{
		api:    client,
		dial:   dial,
		store:  state.New(),
		screen: screen,
		opts:   opts,
		ctx:    context.Background(),
	}
	a.store.Subscribe(a.render)
	return a
}

func (a *App) Store() *state.Store  { return a.store }
func (a *App) Screen() *view.Screen { return a.screen }

// User returns the session user or nil.
func (a *App) User() *models.User { return a.store.User() }

// render keeps the screen in sync with every store mutation.
func (a *App) render(c state.Change) {
	switch c.Kind {
	case state.UserChanged:
		if u := a.store.User(); u != nil {
			a.screen.ShowApp(*u)
		}
	case state.AuthModeChanged:
		a.screen.SetAuthMode(string(a.store.AuthMode()))
	case state.TabChanged:
		a.screen.SetTab(string(a.store.Tab()))
	case state.FriendsChanged:
		a.screen.RenderFriends(a.store.Friends())
	case state.FriendStatusChanged:
		a.screen.SetFriendStatus(c.FriendID, c.Status)
	case state.RequestsChanged:
		a.screen.RenderRequests(a.store.Requests())
	case state.BadgeChanged:
		a.screen.SetBadge(a.store.Unseen())
	case state.ChatChanged:
		if p := a.store.ChatPartner(); p != nil {
			a.screen.ShowChat(*p)
		} else {
			a.screen.HideChat()
		}
	case state.Reset:
		a.screen.ShowAuth()
	}
}

// Bootstrap checks for an existing session and enters the app view if
// there is one. Any failure leaves the auth view in place.
func (a *App) Bootstrap(ctx context.Context) error {
	user, err := a.api.Me(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("[session] session check failed")
		a.screen.ShowAuth()
		a.screen.Toast("⚠ Could not reach the chat server: %s", api.Message(err))
		return err
	}
	if user == nil {
		a.screen.ShowAuth()
		return nil
	}
	return a.start(ctx, *user)
}

// start initializes the app view for user: header, realtime channel,
// friends and requests.
func (a *App) start(ctx context.Context, user models.User) error {
	a.mu.Lock()
	if a.cancel != nil {
		a.cancel()
	}
	a.ctx, a.cancel = context.WithCancel(context.WithoutCancel(ctx))
	a.mu.Unlock()

	a.store.SetUser(user)
	log.Info().Str("user", user.Username).Msg("[session] logged in")

	var errs []error
	if err := a.connect(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := a.LoadFriends(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := a.LoadRequests(ctx); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (a *App) connect(ctx context.Context) error {
	if a.dial == nil {
		return nil
	}
	ch, err := a.dial(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("[socket] connect failed")
		a.screen.Toast("⚠ Live updates unavailable: %v", err)
		return err
	}
	a.bind(ch)

	a.mu.Lock()
	old := a.ch
	a.ch = ch
	a.mu.Unlock()
	if old != nil {
		_ = old.Close()
	}

	go func() {
		if err := ch.Listen(); err != nil {
			log.Warn().Err(err).Msg("[socket] connection lost")
			a.screen.Toast("⚠ Lost connection to the chat server")
		}
	}()
	return nil
}

// sessionCtx is the context for work started by push events.
func (a *App) sessionCtx() context.Context {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ctx
}

func (a *App) emit(event string, payload any) error {
	a.mu.Lock()
	ch := a.ch
	a.mu.Unlock()
	if ch == nil {
		return ErrNoChannel
	}
	return ch.Emit(event, payload)
}

// Close drops the realtime channel without touching the server session.
func (a *App) Close() error {
	a.mu.Lock()
	ch := a.ch
	a.ch = nil
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	a.mu.Unlock()
	if ch == nil {
		return nil
	}
	return ch.Close()
}
