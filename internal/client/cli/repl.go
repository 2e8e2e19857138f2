package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL drives. App satisfies it.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Me(ctx context.Context) error
	Users(ctx context.Context) error
	Favorites(ctx context.Context) error
	AddFavorite(ctx context.Context, item string) error
	SetUsername(ctx context.Context, name string) error
	UploadImage(ctx context.Context, path string) error
	ShowImage(ctx context.Context) error
	Ping(ctx context.Context) error
}

// runREPL reads commands from scanner and dispatches them to a until EOF,
// "exit" or "quit". Command errors are printed and the loop continues.
//
//	Always:      help, register, login, users, ping, exit | quit
//	Logged in:   me, favorites, favorite <item>, username <name>,
//	             image upload [file] | image, logout
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("accounts %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, rest := parts[0], strings.Join(parts[1:], " ")

		var err error

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: me, favorites, favorite <item>, username <name>, image [upload [file]], users, ping, logout, exit")
			} else {
				printlnFn("Available commands: register, login, users, ping, exit")
			}

		case "register":
			err = a.Register(ctx)

		case "login":
			err = a.Login(ctx)

		case "logout":
			err = a.Logout(ctx)

		case "me":
			err = a.Me(ctx)

		case "users":
			err = a.Users(ctx)

		case "favorites":
			err = a.Favorites(ctx)

		case "favorite":
			if rest == "" {
				printlnFn("Usage: favorite <item>")
				continue
			}
			err = a.AddFavorite(ctx, rest)

		case "username":
			if rest == "" {
				printlnFn("Usage: username <name>")
				continue
			}
			err = a.SetUsername(ctx, rest)

		case "image":
			if sub, path, _ := strings.Cut(rest, " "); sub == "upload" {
				err = a.UploadImage(ctx, strings.TrimSpace(path))
			} else {
				err = a.ShowImage(ctx)
			}

		case "ping":
			err = a.Ping(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("Error:", err.Error())
		}
	}
}
