package view

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"friendchat/models"
)

// FriendRow is one rendered friend. Rows are addressed by ID so presence
// updates can touch a single row.
type FriendRow struct {
	ID       models.ID
	Username string
	Avatar   string
	Status   models.Status
}

type RequestRow struct {
	RequestID models.ID
	UserID    models.ID
	Username  string
	Avatar    string
}

type MessageRow struct {
	Mine    bool
	Sender  string
	Content string
	Time    string
}

// Screen is the terminal rendering of the client. It keeps a model of what
// is currently shown, so callers and tests can inspect it, and prints every
// visible change to out.
type Screen struct {
	mu  sync.Mutex
	out io.Writer
	now func() time.Time

	authVisible bool
	authMode    string
	authError   string

	self models.User

	searchVisible bool
	search        []models.User

	tab      string
	friends  []FriendRow
	rowIndex map[models.ID]int
	requests []RequestRow
	badge    int

	chatVisible bool
	partner     models.User
	messages    []MessageRow
	typing      bool

	toasts []string
}

func New(out io.Writer) *Screen {
	s := &Screen{out: out, now: time.Now}
	s.reset()
	return s
}

func (s *Screen) reset() {
	s.authVisible = true
	s.authMode = "login"
	s.authError = ""
	s.self = models.User{}
	s.searchVisible = false
	s.search = nil
	s.tab = "friends"
	s.friends = nil
	s.rowIndex = map[models.ID]int{}
	s.requests = nil
	s.badge = 0
	s.chatVisible = false
	s.partner = models.User{}
	s.messages = nil
	s.typing = false
	s.toasts = nil
}

func (s *Screen) printf(format string, args ...any) {
	fmt.Fprintf(s.out, "\r"+format+"\n", args...)
}

// ShowAuth clears the screen back to the auth view.
func (s *Screen) ShowAuth() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
	s.printf("Please login or register. Type 'help' for commands.")
}

func (s *Screen) SetAuthMode(mode string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authMode = mode
}

func (s *Screen) ShowAuthError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authError = cleanText(msg)
	s.printf("❌ %s failed: %s", authLabel(s.authMode), s.authError)
}

// ShowApp hides the auth view and fills the header with the session user.
func (s *Screen) ShowApp(u models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authVisible = false
	s.authError = ""
	s.self = models.User{ID: u.ID, Username: cleanName(u.Username), Avatar: cleanName(u.Avatar)}
	s.printf("✅ Logged in as %s", s.self.Username)
}

func (s *Screen) ShowSearch(users []models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.search = make([]models.User, 0, len(users))
	for _, u := range users {
		s.search = append(s.search, models.User{ID: u.ID, Username: cleanName(u.Username), Avatar: cleanName(u.Avatar)})
	}
	s.searchVisible = len(s.search) > 0
	if !s.searchVisible {
		s.printf("No users found.")
		return
	}
	s.printf("Search results:")
	for i, u := range s.search {
		s.printf("  %d. %s   (add %d)", i+1, u.Username, i+1)
	}
}

func (s *Screen) HideSearch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searchVisible = false
	s.search = nil
}

// SetTab switches the visible list. Rows of the hidden list stop being
// rendered until the list is drawn again.
func (s *Screen) SetTab(tab string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tab = tab
	switch tab {
	case "friends":
		s.requests = nil
	case "requests":
		s.friends = nil
		s.rowIndex = map[models.ID]int{}
	}
}

// RenderFriends redraws the whole friend list. It does nothing while the
// requests tab is showing.
func (s *Screen) RenderFriends(friends []models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.authVisible || s.tab != "friends" {
		return
	}
	s.friends = make([]FriendRow, 0, len(friends))
	s.rowIndex = make(map[models.ID]int, len(friends))
	for _, f := range friends {
		s.rowIndex[f.ID] = len(s.friends)
		s.friends = append(s.friends, FriendRow{
			ID:       f.ID,
			Username: cleanName(f.Username),
			Avatar:   cleanName(f.Avatar),
			Status:   f.Status,
		})
	}
	if len(s.friends) == 0 {
		s.printf("No friends yet. Use 'search <name>' to find people.")
		return
	}
	s.printf("Friends:")
	for _, r := range s.friends {
		s.printf("  %s %s (%s)", statusDot(r.Status), r.Username, statusLabel(r.Status))
	}
}

// SetFriendStatus updates the status of one rendered row and reports whether
// such a row exists.
func (s *Screen) SetFriendStatus(id models.ID, status models.Status) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.rowIndex[id]
	if !ok {
		return false
	}
	s.friends[i].Status = status
	s.printf("%s %s is now %s", statusDot(status), s.friends[i].Username, statusLabel(status))
	return true
}

// RenderRequests redraws the pending request list while the requests tab
// is showing.
func (s *Screen) RenderRequests(reqs []models.FriendRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.authVisible || s.tab != "requests" {
		return
	}
	s.requests = make([]RequestRow, 0, len(reqs))
	for _, r := range reqs {
		s.requests = append(s.requests, RequestRow{
			RequestID: r.RequestID,
			UserID:    r.UserID,
			Username:  cleanName(r.Username),
			Avatar:    cleanName(r.Avatar),
		})
	}
	if len(s.requests) == 0 {
		s.printf("No pending friend requests.")
		return
	}
	s.printf("Pending friend requests:")
	for _, r := range s.requests {
		s.printf("  From: %s   (respond --username:%s)", r.Username, r.Username)
	}
}

// SetBadge shows n unseen requests; the badge is hidden at zero.
func (s *Screen) SetBadge(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n == s.badge {
		return
	}
	s.badge = n
	if n > 0 && !s.authVisible {
		s.printf("🔔 You have %d pending friend request(s). Use 'requests' to view them.", n)
	}
}

// ShowChat opens the chat pane for partner with an empty message list.
func (s *Screen) ShowChat(partner models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chatVisible = true
	s.partner = models.User{ID: partner.ID, Username: cleanName(partner.Username), Avatar: cleanName(partner.Avatar), Status: partner.Status}
	s.messages = nil
	s.typing = false
	s.printf("\nStarting chat with %s...", s.partner.Username)
	s.printf("Type your message and press Enter to send. Type '/leave' to close the chat.")
	s.printf("----------------------------------------")
}

func (s *Screen) HideChat() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.chatVisible {
		return
	}
	s.chatVisible = false
	s.partner = models.User{}
	s.messages = nil
	s.typing = false
	s.printf("Chat closed.")
}

// ClearMessages empties the open chat, keeping the pane visible.
func (s *Screen) ClearMessages() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = nil
}

// AppendMessage adds m at the tail of the chat. mine selects the sent style.
func (s *Screen) AppendMessage(m models.Message, mine bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.chatVisible {
		return
	}
	row := MessageRow{Mine: mine, Content: cleanText(m.Content), Time: s.stamp(m.CreatedAt)}
	if mine {
		row.Sender = "You"
	} else {
		row.Sender = s.partner.Username
	}
	s.messages = append(s.messages, row)

	lines := strings.Split(row.Content, "\n")
	s.printf("[%s] %s: %s", row.Time, row.Sender, strings.TrimRight(lines[0], "\r"))
	for _, l := range lines[1:] {
		s.printf("    %s", strings.TrimRight(l, "\r"))
	}
}

func (s *Screen) stamp(createdAt string) string {
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		return t.Local().Format("15:04")
	}
	return s.now().Format("15:04")
}

func (s *Screen) ShowTyping() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.chatVisible {
		return
	}
	if !s.typing {
		s.printf("%s is typing...", s.partner.Username)
	}
	s.typing = true
}

func (s *Screen) HideTyping() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.typing = false
}

// Toast prints a one-off notice: action results and errors.
func (s *Screen) Toast(format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg := cleanText(fmt.Sprintf(format, args...))
	s.toasts = append(s.toasts, msg)
	s.printf("%s", msg)
}

func authLabel(mode string) string {
	if mode == "register" {
		return "Registration"
	}
	return "Login"
}

func statusDot(st models.Status) string {
	if st == models.StatusOnline {
		return "●"
	}
	return "○"
}

func statusLabel(st models.Status) string {
	if st == "" {
		return string(models.StatusOffline)
	}
	return cleanText(string(st))
}

// Snapshot accessors.

func (s *Screen) AuthVisible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authVisible
}

func (s *Screen) AuthMode() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authMode
}

func (s *Screen) AuthError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authError
}

func (s *Screen) Header() models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.self
}

func (s *Screen) SearchVisible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.searchVisible
}

func (s *Screen) SearchResults() []models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.User(nil), s.search...)
}

func (s *Screen) Tab() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tab
}

func (s *Screen) FriendRows() []FriendRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]FriendRow(nil), s.friends...)
}

func (s *Screen) RequestRows() []RequestRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]RequestRow(nil), s.requests...)
}

// Badge reports whether the request badge is visible and its text.
func (s *Screen) Badge() (visible bool, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.badge <= 0 {
		return false, ""
	}
	return true, strconv.Itoa(s.badge)
}

func (s *Screen) ChatVisible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chatVisible
}

func (s *Screen) ChatPartner() models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.partner
}

func (s *Screen) Messages() []MessageRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]MessageRow(nil), s.messages...)
}

func (s *Screen) TypingVisible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.typing
}

func (s *Screen) Toasts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.toasts...)
}
