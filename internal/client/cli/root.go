package cli

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
)

func (a *App) getStatus() string {
	if a.isLoggedIn() {
		return "(authorized)"
	}
	return ""
}

func (a *App) Root(ctx context.Context) {

	log.Println("Welcome to savekeeper CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Printf("sk %s> ", a.getStatus())
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Println("Available commands: (l)ist, show <id>, create, lock <id>, unlock <id>, edit <id>, delete <id>, shares <id>, share <id>, accept <grant-id>, revoke <grant-id>, tools, logout, exit")
			} else {
				fmt.Println("Available commands: login, exit")
			}

		case "login":
			a.login(ctx)
		case "logout":
			a.logout(ctx)
		case "l", "list":
			a.list(ctx)
		case "show":
			a.show(ctx, args)
		case "create":
			a.create(ctx)
		case "lock":
			a.setLock(ctx, args, true)
		case "unlock":
			a.setLock(ctx, args, false)
		case "edit":
			a.edit(ctx, args)
		case "delete":
			a.delete(ctx, args)
		case "shares":
			a.listShares(ctx, args)
		case "share":
			a.share(ctx, args)
		case "accept":
			a.accept(ctx, args)
		case "revoke":
			a.revoke(ctx, args)
		case "tools":
			a.listTools(ctx)
		case "exit", "quit":
			fmt.Println("Bye!")
			return
		default:
			fmt.Println("Unknown command:", cmd)
		}
	}

}
