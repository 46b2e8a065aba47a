package commands

import (
	"fmt"

	"friendchat/state"
	"friendchat/utils"
)

func (s *Shell) credentials(args []string) (username, password string) {
	u, uok := utils.Flag(args, "username")
	p, pok := utils.Flag(args, "password")
	if uok && pok {
		return u, p
	}
	// Interactive prompt
	if !uok {
		u = utils.Ask(s.in, s.out, "Enter username: ")
	}
	if !pok {
		p = utils.Ask(s.in, s.out, "Enter password: ")
	}
	return u, p
}

func (s *Shell) Login(args []string) {
	if u := s.app.User(); u != nil {
		fmt.Fprintf(s.out, "You are already logged in as %s.\n", u.Username)
		return
	}
	if utils.WantsHelp(args) {
		fmt.Fprintln(s.out, "Usage: login [--username:<username>] [--password:<password>]")
		fmt.Fprintln(s.out, "If no username/password is provided, you will be prompted interactively.")
		return
	}

	username, password := s.credentials(args)
	if username == "" || password == "" {
		fmt.Fprintln(s.out, "❌ Username and password are required.")
		return
	}

	s.app.SelectAuthMode(state.ModeLogin)
	// failures are shown on the auth view
	_ = s.app.SubmitAuth(s.ctx, username, password)
}

func (s *Shell) Logout(args []string) {
	if !s.requireLogin() {
		return
	}
	if err := s.app.Logout(s.ctx); err == nil {
		fmt.Fprintln(s.out, "Logged out.")
	}
}
