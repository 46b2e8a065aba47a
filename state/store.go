package state

import (
	"sync"

	"friendchat/models"
)

type AuthMode string

const (
	ModeLogin    AuthMode = "login"
	ModeRegister AuthMode = "register"
)

type Tab string

const (
	TabFriends  Tab = "friends"
	TabRequests Tab = "requests"
)

type ChangeKind int

const (
	UserChanged ChangeKind = iota
	AuthModeChanged
	TabChanged
	FriendsChanged
	FriendStatusChanged
	RequestsChanged
	BadgeChanged
	ChatChanged
	Reset
)

// Change describes one mutation. FriendID and Status are set only for
// FriendStatusChanged.
type Change struct {
	Kind     ChangeKind
	FriendID models.ID
	Status   models.Status
}

type Listener func(Change)

// Store is the single holder of client state shared by every handler.
// All mutations go through its methods; listeners are notified after the
// lock is released, in mutation order per goroutine.
type Store struct {
	mu sync.RWMutex

	user     *models.User
	partner  *models.User
	friends  []models.User
	requests []models.FriendRequest
	authMode AuthMode
	tab      Tab
	unseen   int
	search   uint64

	listenerMu sync.Mutex
	listeners  []Listener
}

func New() *Store {
	return &Store{authMode: ModeLogin, tab: TabFriends}
}

func (s *Store) Subscribe(l Listener) {
	s.listenerMu.Lock()
	s.listeners = append(s.listeners, l)
	s.listenerMu.Unlock()
}

func (s *Store) notify(c Change) {
	s.listenerMu.Lock()
	ls := append([]Listener(nil), s.listeners...)
	s.listenerMu.Unlock()
	for _, l := range ls {
		l(c)
	}
}

func (s *Store) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyUser(s.user)
}

func (s *Store) SetUser(u models.User) {
	s.mu.Lock()
	s.user = &u
	s.mu.Unlock()
	s.notify(Change{Kind: UserChanged})
}

func (s *Store) AuthMode() AuthMode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authMode
}

func (s *Store) SetAuthMode(m AuthMode) {
	s.mu.Lock()
	changed := s.authMode != m
	s.authMode = m
	s.mu.Unlock()
	if changed {
		s.notify(Change{Kind: AuthModeChanged})
	}
}

func (s *Store) Tab() Tab {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tab
}

func (s *Store) SetTab(t Tab) {
	s.mu.Lock()
	s.tab = t
	s.mu.Unlock()
	s.notify(Change{Kind: TabChanged})
}

// Friends returns a copy of the cached friends in load order.
func (s *Store) Friends() []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.User(nil), s.friends...)
}

func (s *Store) Friend(id models.ID) (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, f := range s.friends {
		if f.ID == id {
			return f, true
		}
	}
	return models.User{}, false
}

func (s *Store) FriendByName(username string) (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, f := range s.friends {
		if f.Username == username {
			return f, true
		}
	}
	return models.User{}, false
}

func (s *Store) SetFriends(fs []models.User) {
	s.mu.Lock()
	s.friends = append([]models.User(nil), fs...)
	s.mu.Unlock()
	s.notify(Change{Kind: FriendsChanged})
}

// AddFriend appends f, replacing an existing entry with the same id in place.
func (s *Store) AddFriend(f models.User) {
	s.mu.Lock()
	replaced := false
	for i := range s.friends {
		if s.friends[i].ID == f.ID {
			s.friends[i] = f
			replaced = true
			break
		}
	}
	if !replaced {
		s.friends = append(s.friends, f)
	}
	s.mu.Unlock()
	s.notify(Change{Kind: FriendsChanged})
}

// SetFriendStatus updates a cached friend's status. It reports false, and
// notifies nobody, if id is not a cached friend.
func (s *Store) SetFriendStatus(id models.ID, status models.Status) bool {
	s.mu.Lock()
	found := false
	for i := range s.friends {
		if s.friends[i].ID == id {
			s.friends[i].Status = status
			found = true
			break
		}
	}
	if s.partner != nil && s.partner.ID == id {
		s.partner.Status = status
	}
	s.mu.Unlock()
	if found {
		s.notify(Change{Kind: FriendStatusChanged, FriendID: id, Status: status})
	}
	return found
}

func (s *Store) Requests() []models.FriendRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.FriendRequest(nil), s.requests...)
}

func (s *Store) RequestFrom(username string) (models.FriendRequest, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.requests {
		if r.Username == username {
			return r, true
		}
	}
	return models.FriendRequest{}, false
}

func (s *Store) SetRequests(rs []models.FriendRequest) {
	s.mu.Lock()
	s.requests = append([]models.FriendRequest(nil), rs...)
	s.mu.Unlock()
	s.notify(Change{Kind: RequestsChanged})
}

// Unseen is the badge count: pending requests the user has not looked at.
func (s *Store) Unseen() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.unseen
}

func (s *Store) SetUnseen(n int) {
	if n < 0 {
		n = 0
	}
	s.mu.Lock()
	s.unseen = n
	s.mu.Unlock()
	s.notify(Change{Kind: BadgeChanged})
}

func (s *Store) IncUnseen() int {
	s.mu.Lock()
	s.unseen++
	n := s.unseen
	s.mu.Unlock()
	s.notify(Change{Kind: BadgeChanged})
	return n
}

func (s *Store) ChatPartner() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyUser(s.partner)
}

// OpenChat makes f the open chat partner and returns the previous one.
func (s *Store) OpenChat(f models.User) (prev *models.User) {
	s.mu.Lock()
	prev = s.partner
	s.partner = &f
	s.mu.Unlock()
	s.notify(Change{Kind: ChatChanged})
	return prev
}

// CloseChat clears the open chat partner and returns it.
func (s *Store) CloseChat() (prev *models.User) {
	s.mu.Lock()
	prev = s.partner
	s.partner = nil
	s.mu.Unlock()
	if prev != nil {
		s.notify(Change{Kind: ChatChanged})
	}
	return prev
}

// NextSearch issues a new search sequence number, invalidating all earlier ones.
func (s *Store) NextSearch() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.search++
	return s.search
}

func (s *Store) IsLatestSearch(seq uint64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.search == seq
}

// Reset drops everything tied to the session. The search counter keeps
// counting so responses issued before the reset stay stale.
func (s *Store) Reset() {
	s.mu.Lock()
	s.user = nil
	s.partner = nil
	s.friends = nil
	s.requests = nil
	s.authMode = ModeLogin
	s.tab = TabFriends
	s.unseen = 0
	s.search++
	s.mu.Unlock()
	s.notify(Change{Kind: Reset})
}

func copyUser(u *models.User) *models.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
