package commands

func (s *Shell) Friends(args []string) {
	if !s.requireLogin() {
		return
	}
	_ = s.app.ShowFriends(s.ctx)
}

func (s *Shell) ViewPendingRequests(args []string) {
	if !s.requireLogin() {
		return
	}
	_ = s.app.ShowRequests(s.ctx)
}
