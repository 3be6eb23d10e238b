package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/dmitrijs2005/savekeeper/internal/client/api"
)

func (a *App) listShares(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Println("Usage: shares <save-id>")
		return
	}
	grants, err := a.client.ListShares(ctx, args[0])
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	if len(grants) == 0 {
		fmt.Println("Not shared")
		return
	}
	for _, g := range grants {
		status := "pending"
		if g.Accepted {
			status = "accepted"
		}
		perm := "read"
		if g.Permission >= api.PermissionReadWrite {
			perm = "read/write"
		}
		fmt.Printf("%s  user=%s  %s  %s\n", g.ID, g.UserID, perm, status)
	}
}

func (a *App) share(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Println("Usage: share <save-id>")
		return
	}

	userID, err := GetSimpleText(a.reader, "User id to share with", os.Stdout)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	permText, err := GetSimpleText(a.reader, "Permission (1=read, 2=read/write)", os.Stdout)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	permission, err := strconv.Atoi(permText)
	if err != nil {
		fmt.Println("Permission must be a number")
		return
	}

	grant, err := a.client.GrantShare(ctx, args[0], userID, permission)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println("Created grant", grant.ID, "(pending acceptance)")
}

func (a *App) accept(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Println("Usage: accept <grant-id>")
		return
	}
	if err := a.client.AcceptShare(ctx, args[0]); err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println("Accepted grant", args[0])
}

func (a *App) revoke(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Println("Usage: revoke <grant-id>")
		return
	}
	if err := a.client.RevokeShare(ctx, args[0]); err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println("Revoked grant", args[0])
}
