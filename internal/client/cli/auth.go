package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/savekeeper/internal/client/session"
)

// login asks for an access token (issued by the identity provider) without
// echoing it, verifies it against the server and caches it locally.
func (a *App) login(ctx context.Context) {
	token, err := GetToken(os.Stdout)
	if err != nil {
		fmt.Println("Error reading token:", err)
		return
	}
	if len(token) == 0 {
		fmt.Println("Empty token")
		return
	}

	a.client.SetToken(string(token))

	// a cheap authenticated call to verify the token works
	if _, err := a.client.ListTools(ctx); err != nil {
		fmt.Println("Token rejected:", err)
		a.client.SetToken(a.token)
		return
	}

	a.token = string(token)
	if err := a.session.Set(ctx, session.KeyToken, token); err != nil {
		fmt.Println("Warning: could not cache token:", err)
	}
	fmt.Println("Logged in")
}

// logout drops the cached token.
func (a *App) logout(ctx context.Context) {
	if err := a.session.Clear(ctx); err != nil {
		fmt.Println("Error clearing session:", err)
		return
	}
	a.token = ""
	a.client.SetToken("")
	fmt.Println("Logged out")
}
