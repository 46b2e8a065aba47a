package commands

import (
	"fmt"
	"strings"

	"friendchat/state"
	"friendchat/utils"
)

// Register creates an account and signs in with it.
func (s *Shell) Register(args []string) {
	if u := s.app.User(); u != nil {
		fmt.Fprintf(s.out, "You are already logged in as %s. Logout first.\n", u.Username)
		return
	}
	if utils.WantsHelp(args) {
		fmt.Fprintln(s.out, "Usage: register [--username:<username>] [--password:<password>]")
		fmt.Fprintln(s.out, "If no username/password is provided, you will be prompted interactively.")
		return
	}

	username, password := s.credentials(args)
	if username == "" || password == "" {
		fmt.Fprintln(s.out, "❌ Username and password are required.")
		return
	}
	if strings.Contains(username, " ") || strings.Contains(password, " ") {
		fmt.Fprintln(s.out, "❌ Username and password cannot contain spaces.")
		return
	}

	s.app.SelectAuthMode(state.ModeRegister)
	_ = s.app.SubmitAuth(s.ctx, username, password)
}
