package commands

import (
	"fmt"
	"strconv"
	"strings"

	"friendchat/models"
	"friendchat/utils"
)

func (s *Shell) Search(args []string) {
	if !s.requireLogin() {
		return
	}
	query, ok := utils.Flag(args, "query")
	if !ok {
		query = strings.Join(utils.Positional(args), " ")
	}
	if query == "" {
		query = utils.Ask(s.in, s.out, "Search for: ")
	}
	_ = s.app.Search(s.ctx, query)
}

// AddUser sends a friend request, either to a numbered entry of the last
// search results or to an exact username.
func (s *Shell) AddUser(args []string) {
	if !s.requireLogin() {
		return
	}
	if utils.WantsHelp(args) {
		fmt.Fprintln(s.out, "Usage: add <result number> | add [--username:<username>]")
		fmt.Fprintln(s.out, "If no username is provided, you will be prompted interactively.")
		return
	}

	if pos := utils.Positional(args); len(pos) > 0 {
		n, err := strconv.Atoi(pos[0])
		results := s.app.Screen().SearchResults()
		if err != nil || n < 1 || n > len(results) {
			fmt.Fprintln(s.out, "No such search result. Run 'search <name>' first.")
			return
		}
		_ = s.app.SendFriendRequest(s.ctx, results[n-1].ID)
		return
	}

	username, ok := utils.Flag(args, "username")
	if !ok {
		username = utils.Ask(s.in, s.out, "Enter username to connect: ")
	}
	if username == "" {
		return
	}
	target, found := s.lookup(username)
	if !found {
		fmt.Fprintln(s.out, "User not found:", username)
		return
	}
	_ = s.app.SendFriendRequest(s.ctx, target.ID)
}

// lookup searches for username and picks the exact match among the results.
func (s *Shell) lookup(username string) (models.User, bool) {
	if err := s.app.Search(s.ctx, username); err != nil {
		return models.User{}, false
	}
	for _, u := range s.app.Screen().SearchResults() {
		if strings.EqualFold(u.Username, username) {
			return u, true
		}
	}
	return models.User{}, false
}
