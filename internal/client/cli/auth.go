package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/rolandocepedadev/ccat/internal/client/models"
	"github.com/rolandocepedadev/ccat/internal/common"
)

func (a *App) readCredentials() (string, []byte, error) {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return "", nil, err
	}
	if email == "" {
		return "", nil, errors.New("email is required")
	}

	password, err := getPassword(a.out, "Enter password")
	if err != nil {
		return "", nil, err
	}
	return email, password, nil
}

// Register prompts for an email and password and creates an account. It
// does not sign in.
func (a *App) Register(ctx context.Context) error {
	email, password, err := a.readCredentials()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if _, err := a.api.Register(ctx, email, string(password)); err != nil {
		return err
	}

	a.printf("Account created for %s, you can now log in\n", email)
	return nil
}

// Login prompts for credentials, signs in and loads the file list.
func (a *App) Login(ctx context.Context) error {
	email, password, err := a.readCredentials()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.api.Login(ctx, email, string(password)); err != nil {
		return err
	}
	a.setMode(ModeOnline)

	a.email = email
	if err := a.session.SetEmail(ctx, email); err != nil {
		a.logger.Warn(ctx, "saving session email failed", "error", err)
	}

	name := email
	if p, err := a.api.Profile(ctx); err == nil {
		name = models.DisplayName(*p)
	}

	files, err := a.api.ListFiles(ctx)
	if err != nil {
		return fmt.Errorf("signed in, but listing files failed: %w", err)
	}
	a.view.Replace(files)

	a.printf("Welcome, %s! You have %d file(s)\n", name, len(files))
	return nil
}

// Logout revokes the session on the server and forgets it locally.
func (a *App) Logout(ctx context.Context) error {
	err := a.api.Logout(ctx)
	a.endSession(ctx)
	if err != nil {
		a.logger.Warn(ctx, "server logout failed", "error", err)
	}
	a.printf("Logged out\n")
	return nil
}

// endSession clears the local session state.
func (a *App) endSession(ctx context.Context) {
	a.api.SetTokens(models.TokenPair{})
	if err := a.session.Clear(ctx); err != nil {
		a.logger.Warn(ctx, "clearing session failed", "error", err)
	}
	if err := a.queue.Reset(); err != nil {
		a.logger.Debug(ctx, "queue not reset", "error", err)
	}
	a.view.Replace(nil)
	a.view.SetQuery("")
	a.rows = nil
	a.email = ""
}
