package commands

import (
	"errors"
	"fmt"
	"strings"

	"friendchat/app"
	"friendchat/utils"
)

// Chat opens a conversation with a friend and switches the shell into
// chat mode.
func (s *Shell) Chat(args []string) {
	if !s.requireLogin() {
		return
	}
	if utils.WantsHelp(args) {
		fmt.Fprintln(s.out, "Usage: chat [--username:<username>]")
		return
	}

	username, ok := utils.Flag(args, "username")
	if !ok {
		if pos := utils.Positional(args); len(pos) > 0 {
			username = pos[0]
		} else {
			username = utils.Ask(s.in, s.out, "Enter username: ")
		}
	}
	friend, found := s.app.Store().FriendByName(username)
	if !found {
		fmt.Fprintf(s.out, "%s is not in your friends list. Use 'friends' to see who you can chat with.\n", username)
		return
	}
	_ = s.app.OpenChat(s.ctx, friend)
}

func (s *Shell) chatLine(line string) {
	switch strings.TrimSpace(line) {
	case "/leave":
		s.app.CloseChat()
		return
	case "/help":
		fmt.Fprintln(s.out, "Type a message and press Enter to send it. '/leave' closes the chat.")
		return
	}
	if err := s.app.SendMessage(line); errors.Is(err, app.ErrNoChat) {
		fmt.Fprintln(s.out, "No chat is open.")
	}
}
