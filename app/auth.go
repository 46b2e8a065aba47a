package app

import (
	"context"

	"friendchat/api"
	"friendchat/models"
	"friendchat/state"

	"github.com/rs/zerolog/log"
)

// SelectAuthMode switches the auth form between login and register.
func (a *App) SelectAuthMode(m state.AuthMode) {
	a.store.SetAuthMode(m)
}

// SubmitAuth sends the credentials to the endpoint of the active mode. A
// rejection is shown inline on the auth view and returned.
func (a *App) SubmitAuth(ctx context.Context, username, password string) error {
	var (
		user *models.User
		err  error
	)
	mode := a.store.AuthMode()
	if mode == state.ModeRegister {
		user, err = a.api.Register(ctx, username, password)
	} else {
		user, err = a.api.Login(ctx, username, password)
	}
	if err != nil {
		log.Debug().Err(err).Str("mode", string(mode)).Msg("[session] auth rejected")
		a.screen.ShowAuthError(api.Message(err))
		return err
	}
	return a.start(ctx, *user)
}

// Logout ends the server session and then resets all client state. If the
// server does not confirm, the session is kept.
func (a *App) Logout(ctx context.Context) error {
	if err := a.api.Logout(ctx); err != nil {
		a.screen.Toast("❌ Logout failed: %s", api.Message(err))
		return err
	}
	if err := a.Close(); err != nil {
		log.Debug().Err(err).Msg("[socket] close on logout")
	}
	a.store.Reset()
	log.Info().Msg("[session] logged out")
	return nil
}
