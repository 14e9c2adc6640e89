package cli

import (
	"context"
	"fmt"
)

func (a *App) getStatus() string {
	s := ""
	if a.email != "" {
		s = a.email + " "
	}
	if m := a.Mode(); m != "" {
		s = s + string(m)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// restore signs the user back in from the session database.
func (a *App) restore(ctx context.Context) {
	tokens, err := a.session.Tokens(ctx)
	if err != nil {
		a.logger.Warn(ctx, "reading session failed", "error", err)
		return
	}
	if tokens.RefreshToken == "" {
		return
	}
	a.api.SetTokens(tokens)

	if a.email, err = a.session.Email(ctx); err != nil {
		a.logger.Warn(ctx, "reading session email failed", "error", err)
	}

	files, err := a.api.ListFiles(ctx)
	if err != nil {
		report(ctx, a, err)
		return
	}
	a.view.Replace(files)
	printlnFn(fmt.Sprintf("Signed in as %s, %d file(s)", a.email, len(files)))
}

func (a *App) Root(ctx context.Context) {
	printlnFn("Welcome to ccat (type 'help' for commands)")

	a.checkOnline(ctx)
	a.restore(ctx)

	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, a.reader)
}
