package app

import (
	"context"
	"errors"
	"unicode/utf8"

	"friendchat/api"
	"friendchat/models"
	"friendchat/state"

	"github.com/rs/zerolog/log"
)

// Search looks up users matching query. Short queries hide the results and
// invalidate searches still in flight; only the newest search may render.
func (a *App) Search(ctx context.Context, query string) error {
	if utf8.RuneCountInString(query) < a.opts.MinSearchLen {
		a.store.NextSearch()
		a.screen.HideSearch()
		return nil
	}
	seq := a.store.NextSearch()
	users, err := a.api.SearchUsers(ctx, query)
	if !a.store.IsLatestSearch(seq) {
		log.Debug().Str("query", query).Msg("[social] dropping stale search result")
		return nil
	}
	if err != nil {
		a.screen.HideSearch()
		a.screen.Toast("❌ Search failed: %s", api.Message(err))
		return err
	}
	a.screen.ShowSearch(users)
	return nil
}

// SendFriendRequest asks the server to send a friend request to receiverID.
func (a *App) SendFriendRequest(ctx context.Context, receiverID models.ID) error {
	if err := a.api.SendRequest(ctx, receiverID); err != nil {
		a.screen.Toast("❌ Failed to send friend request: %s", api.Message(err))
		return err
	}
	a.store.NextSearch()
	a.screen.HideSearch()
	a.screen.Toast("✅ Request sent!")
	return nil
}

// ShowFriends switches to the friends tab and refreshes it from the server.
func (a *App) ShowFriends(ctx context.Context) error {
	a.store.SetTab(state.TabFriends)
	if err := a.LoadFriends(ctx); err != nil {
		a.screen.RenderFriends(a.store.Friends())
		return err
	}
	return nil
}

// ShowRequests switches to the requests tab, clears the badge and
// refreshes the list from the server.
func (a *App) ShowRequests(ctx context.Context) error {
	a.store.SetTab(state.TabRequests)
	a.store.SetUnseen(0)
	if err := a.LoadRequests(ctx); err != nil {
		a.screen.RenderRequests(a.store.Requests())
		return err
	}
	return nil
}

func (a *App) LoadFriends(ctx context.Context) error {
	friends, err := a.api.Friends(ctx)
	if err != nil {
		a.screen.Toast("❌ Could not load friends: %s", api.Message(err))
		return err
	}
	a.store.SetFriends(friends)
	return nil
}

// LoadRequests replaces the pending requests with the server's list. The
// badge counts them unless the requests tab is already showing them.
func (a *App) LoadRequests(ctx context.Context) error {
	reqs, err := a.api.FriendRequests(ctx)
	if err != nil {
		a.screen.Toast("❌ Could not load friend requests: %s", api.Message(err))
		return err
	}
	a.store.SetRequests(reqs)
	if a.store.Tab() == state.TabRequests {
		a.store.SetUnseen(0)
	} else {
		a.store.SetUnseen(len(reqs))
	}
	return nil
}

// HandleRequest accepts or declines req, then reloads requests (and friends
// on accept) from the server instead of editing the lists locally.
func (a *App) HandleRequest(ctx context.Context, req models.FriendRequest, action models.Action) error {
	if err := a.api.HandleRequest(ctx, req.RequestID, action, req.UserID); err != nil {
		a.screen.Toast("❌ Could not %s the request from %s: %s", action, req.Username, api.Message(err))
		return err
	}
	verb := "accepted"
	if action == models.ActionDecline {
		verb = "declined"
	}
	a.screen.Toast("Successfully %s the friend request from %s.", verb, req.Username)

	err := a.LoadRequests(ctx)
	if action == models.ActionAccept {
		err = errors.Join(err, a.LoadFriends(ctx))
	}
	return err
}
