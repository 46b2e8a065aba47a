package commands

import (
	"fmt"
	"strings"

	"friendchat/models"
	"friendchat/utils"
)

func (s *Shell) RespondToFriendRequest(args []string) {
	if !s.requireLogin() {
		return
	}
	if utils.WantsHelp(args) {
		fmt.Fprintln(s.out, "Usage: respond [--username:<requester>] [--action:accept|decline]")
		return
	}

	// The cache misses requests pushed since the last load
	if err := s.app.LoadRequests(s.ctx); err != nil {
		return
	}
	reqs := s.app.Store().Requests()
	if len(reqs) == 0 {
		fmt.Fprintln(s.out, "No pending friend requests.")
		return
	}

	target, ok := utils.Flag(args, "username")
	if !ok || target == "" {
		fmt.Fprintln(s.out, "Pending Friend Requests:")
		for _, r := range reqs {
			fmt.Fprintf(s.out, "Username: %s\n", r.Username)
		}
		target = utils.Ask(s.in, s.out, "Enter the username you want to respond to: ")
	}
	req, found := s.app.Store().RequestFrom(target)
	if !found {
		fmt.Fprintln(s.out, "No pending request found from that username.")
		return
	}

	raw, ok := utils.Flag(args, "action")
	if !ok {
		raw = utils.Ask(s.in, s.out, "Enter action (accept/decline): ")
	}
	action, err := models.ParseAction(strings.ToLower(strings.TrimSpace(raw)))
	if err != nil {
		fmt.Fprintln(s.out, "Invalid action. Must be 'accept' or 'decline'.")
		return
	}
	_ = s.app.HandleRequest(s.ctx, req, action)
}
