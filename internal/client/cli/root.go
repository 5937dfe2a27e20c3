package cli

import (
	"context"
	"errors"
	"io"
	"strconv"
	"strings"
)

func (a *App) status() string {
	if sess := a.session.Current(); sess != nil {
		return "(" + sess.User.Username + ")"
	}
	return ""
}

// Run starts the read-eval-print loop. It reads a line, parses the first
// token as the command, and dispatches to methods on 'a'. The loop exits on
// EOF or when the user types "exit" or "quit".
func (a *App) Run(ctx context.Context) {

	a.printf("Echoline CLI (type 'help' for commands)\n")

	for {
		a.printf("echo %s> ", a.status())
		line, err := a.reader.ReadString('\n')
		if err != nil {
			if !errors.Is(err, io.EOF) {
				a.log.Error(ctx, "reading command", "error", err)
			}
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				a.printf("Available commands: feed, post, like <id>, unlike <id>, delete <id>, suggest, follow <id>, unfollow <id>, search <query>, setname <name>, whoami, logout, exit\n")
			} else {
				a.printf("Available commands: register, login, verify <token>, resend, exit\n")
			}

		case "register":
			a.Register(ctx)
		case "login":
			a.Login(ctx)
		case "verify":
			if len(args) == 0 {
				a.printf("Usage: verify <token>\n")
				continue
			}
			a.Verify(ctx, args[0])
		case "resend":
			a.ResendVerification(ctx)
		case "whoami":
			a.Whoami(ctx)

		case "feed":
			a.Feed(ctx)
		case "post":
			a.Post(ctx)
		case "like":
			if id, ok := a.idArg(args, "like"); ok {
				a.Like(ctx, id)
			}
		case "unlike":
			if id, ok := a.idArg(args, "unlike"); ok {
				a.Unlike(ctx, id)
			}
		case "delete":
			if id, ok := a.idArg(args, "delete"); ok {
				a.DeleteEcho(ctx, id)
			}

		case "suggest":
			a.Suggest(ctx)
		case "follow":
			if id, ok := a.idArg(args, "follow"); ok {
				a.Follow(ctx, id)
			}
		case "unfollow":
			if id, ok := a.idArg(args, "unfollow"); ok {
				a.Unfollow(ctx, id)
			}
		case "search":
			if len(args) == 0 {
				a.printf("Usage: search <query>\n")
				continue
			}
			a.Search(ctx, strings.Join(args, " "))
		case "setname":
			if len(args) == 0 {
				a.printf("Usage: setname <display name>\n")
				continue
			}
			a.SetName(ctx, strings.Join(args, " "))

		case "logout":
			a.Logout(ctx)
		case "exit", "quit":
			a.printf("Bye!\n")
			return

		default:
			a.printf("Unknown command: %s\n", cmd)
		}
	}
}

// idArg parses the single numeric argument of an id-taking command.
func (a *App) idArg(args []string, cmd string) (int64, bool) {
	if len(args) == 0 {
		a.printf("Usage: %s <id>\n", cmd)
		return 0, false
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		a.printf("Not a valid id: %s\n", args[0])
		return 0, false
	}
	return id, true
}
