// Package commands implements the interactive shell: one handler per
// command, a chat mode for the open conversation, and tab completion.
package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"friendchat/app"

	"github.com/c-bata/go-prompt"
)

// Shell turns input lines into app operations.
type Shell struct {
	ctx context.Context
	app *app.App
	in  *bufio.Reader
	out io.Writer

	// Clear wipes the terminal; Exit ends the process.
	Clear func()
	Exit  func()

	mu       sync.Mutex
	lastText string
}

func New(ctx context.Context, a *app.App, in io.Reader, out io.Writer) *Shell {
	return &Shell{
		ctx:   ctx,
		app:   a,
		in:    bufio.NewReader(in),
		out:   out,
		Clear: func() {},
		Exit:  func() {},
	}
}

// Execute runs one line. While a chat is open every line that is not a
// slash command is sent as a message.
func (s *Shell) Execute(input string) {
	s.mu.Lock()
	s.lastText = ""
	s.mu.Unlock()

	if s.app.Store().ChatPartner() != nil {
		s.chatLine(input)
		return
	}

	input = strings.TrimSpace(input)
	if input == "" {
		return
	}
	args := strings.Fields(input)
	cmd := strings.ToLower(args[0])
	cmdArgs := args[1:]

	switch cmd {
	case "register":
		s.Register(cmdArgs)
	case "login":
		s.Login(cmdArgs)
	case "logout":
		s.Logout(cmdArgs)
	case "search":
		s.Search(cmdArgs)
	case "add":
		s.AddUser(cmdArgs)
	case "friends":
		s.Friends(cmdArgs)
	case "requests", "view-requests":
		s.ViewPendingRequests(cmdArgs)
	case "respond":
		s.RespondToFriendRequest(cmdArgs)
	case "chat":
		s.Chat(cmdArgs)
	case "help":
		s.Help()
	case "clear":
		s.Clear()
	case "exit":
		s.Exit()
	default:
		fmt.Fprintln(s.out, "Unknown command. Type 'help' for a list of commands.")
	}
}

func (s *Shell) requireLogin() bool {
	if s.app.User() == nil {
		fmt.Fprintln(s.out, "You must login first using the login command.")
		return false
	}
	return true
}

func (s *Shell) Help() {
	w := s.out
	fmt.Fprintln(w, "\n=== Chat Application CLI Help ===")
	fmt.Fprintln(w, "\nAuthentication Commands:")
	fmt.Fprintf(w, "%-20s : %s\n", "register", "Register a new user account")
	fmt.Fprintf(w, "%-20s   %s\n", "", "Usage: register --username:yourname --password:yourpass")
	fmt.Fprintf(w, "%-20s : %s\n", "login", "Login to your account")
	fmt.Fprintf(w, "%-20s   %s\n", "", "Usage: login --username:yourname --password:yourpass")
	fmt.Fprintf(w, "%-20s : %s\n", "logout", "End your session")

	fmt.Fprintln(w, "\nFriends:")
	fmt.Fprintf(w, "%-20s : %s\n", "search", "Find users by name")
	fmt.Fprintf(w, "%-20s   %s\n", "", "Usage: search <name>")
	fmt.Fprintf(w, "%-20s : %s\n", "add", "Send a friend request")
	fmt.Fprintf(w, "%-20s   %s\n", "", "Usage: add <result number> | add --username:targetuser")
	fmt.Fprintf(w, "%-20s : %s\n", "friends", "Show your friends and who is online")
	fmt.Fprintf(w, "%-20s : %s\n", "requests", "View all pending friend requests")
	fmt.Fprintf(w, "%-20s : %s\n", "respond", "Accept or decline a friend request")
	fmt.Fprintf(w, "%-20s   %s\n", "", "Usage: respond --username:requester [--action:accept|decline]")

	fmt.Fprintln(w, "\nChat:")
	fmt.Fprintf(w, "%-20s : %s\n", "chat", "Open a conversation with a friend")
	fmt.Fprintf(w, "%-20s   %s\n", "", "Usage: chat --username:friend")
	fmt.Fprintf(w, "%-20s   %s\n", "", "Inside a chat every line is sent; '/leave' closes it.")

	fmt.Fprintln(w, "\nSystem Commands:")
	fmt.Fprintf(w, "%-20s : %s\n", "clear", "Clear the terminal screen")
	fmt.Fprintf(w, "%-20s : %s\n", "exit", "Exit the application")
	fmt.Fprintf(w, "%-20s : %s\n", "help", "Show this help message")

	fmt.Fprintln(w, "\nNote: Most commands require you to be logged in first.")
}

var commandSuggestions = []prompt.Suggest{
	{Text: "login", Description: "Login to your account"},
	{Text: "register", Description: "Register a new user account"},
	{Text: "logout", Description: "End your session"},
	{Text: "search", Description: "Find users by name"},
	{Text: "add", Description: "Send a friend request"},
	{Text: "friends", Description: "Show your friends"},
	{Text: "requests", Description: "View pending friend requests"},
	{Text: "respond", Description: "Accept or decline a friend request"},
	{Text: "chat", Description: "Open a conversation with a friend"},
	{Text: "help", Description: "Show help"},
	{Text: "clear", Description: "Clear the screen"},
	{Text: "exit", Description: "Exit the application"},
}

// Complete is the prompt completer. go-prompt calls it on every edit, so
// in chat mode it doubles as the keystroke hook for typing signals.
func (s *Shell) Complete(d prompt.Document) []prompt.Suggest {
	if s.app.Store().ChatPartner() != nil {
		s.keystroke(d.Text)
		if strings.HasPrefix(d.Text, "/") {
			return prompt.FilterHasPrefix([]prompt.Suggest{{Text: "/leave", Description: "Close the chat"}}, d.Text, true)
		}
		return nil
	}

	before := d.TextBeforeCursor()
	word := d.GetWordBeforeCursor()
	fields := strings.Fields(before)
	if len(fields) == 0 || (len(fields) == 1 && !strings.HasSuffix(before, " ")) {
		return prompt.FilterHasPrefix(commandSuggestions, word, true)
	}

	var names []string
	switch strings.ToLower(fields[0]) {
	case "chat":
		for _, f := range s.app.Store().Friends() {
			names = append(names, f.Username)
		}
	case "respond":
		for _, r := range s.app.Store().Requests() {
			names = append(names, r.Username)
		}
	default:
		return nil
	}
	sugs := make([]prompt.Suggest, 0, len(names))
	for _, n := range names {
		sugs = append(sugs, prompt.Suggest{Text: "--username:" + n})
	}
	return prompt.FilterHasPrefix(sugs, word, true)
}

// keystroke emits one typing signal per change of the input line, erasing
// included. Slash commands are not messages and send none.
func (s *Shell) keystroke(text string) {
	s.mu.Lock()
	changed := text != s.lastText
	s.lastText = text
	s.mu.Unlock()
	if changed && !strings.HasPrefix(text, "/") {
		s.app.Typing()
	}
}

// LivePrefix shows the chat prompt while a conversation is open.
func (s *Shell) LivePrefix() (string, bool) {
	if s.app.Store().ChatPartner() != nil {
		return "You: ", true
	}
	return "", false
}
