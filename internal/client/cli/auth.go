package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/echoline/internal/client/models"
	"github.com/dmitrijs2005/echoline/internal/common"
)

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) Register(ctx context.Context) {
	username, err := GetSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		a.printf("Error: %v\n", err)
		return
	}
	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		a.printf("Error: %v\n", err)
		return
	}
	displayName, err := GetSimpleText(a.reader, "Enter display name", a.out)
	if err != nil {
		a.printf("Error: %v\n", err)
		return
	}
	password, err := GetPassword(a.out)
	if err != nil {
		a.printf("Error: %v\n", err)
		return
	}
	defer common.WipeByteArray(password)

	resp, err := a.auth.Register(ctx, models.RegisterRequest{
		Username:    username,
		Email:       email,
		Password:    string(password),
		DisplayName: displayName,
	})
	if err != nil {
		a.printf("Registration failed: %v\n", err)
		return
	}
	if resp.Message != "" {
		a.printf("%s\n", resp.Message)
	} else {
		a.printf("Registered. Check your email for a verification link.\n")
	}
}

func (a *App) Login(ctx context.Context) {
	username, err := GetSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		a.printf("Error: %v\n", err)
		return
	}
	password, err := GetPassword(a.out)
	if err != nil {
		a.printf("Error: %v\n", err)
		return
	}
	defer common.WipeByteArray(password)

	resp, err := a.auth.Login(ctx, username, string(password))
	if err != nil {
		a.printf("Login failed: %v\n", err)
		return
	}
	if resp.Token == "" {
		a.printf("Login did not return a credential: %s\n", resp.Message)
		return
	}

	if err := a.session.Login(ctx, resp.User, resp.Token); err != nil {
		a.printf("Could not persist session: %v\n", err)
		return
	}
	a.printf("Logged in as %s\n", resp.User.Username)
}

func (a *App) Logout(ctx context.Context) {
	if err := a.session.Logout(ctx); err != nil {
		a.printf("Logout failed: %v\n", err)
		return
	}
	a.printf("Logged out.\n")
}

func (a *App) Whoami(ctx context.Context) {
	sess := a.session.Current()
	if sess == nil {
		a.printf("Not logged in.\n")
		return
	}
	a.printf("%s (%s)\n", sess.User.Username, sess.User.DisplayName)
	if exp, ok := a.session.TokenExpiresAt(); ok {
		a.printf("Credential expires at %s\n", exp.Format("2006-01-02 15:04:05"))
	}
}

func (a *App) Verify(ctx context.Context, token string) {
	msg, err := a.auth.VerifyEmail(ctx, token)
	if err != nil {
		a.printf("Verification failed: %v\n", err)
		return
	}
	a.printf("%s\n", msg)
}

func (a *App) ResendVerification(ctx context.Context) {
	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		a.printf("Error: %v\n", err)
		return
	}
	msg, err := a.auth.ResendVerification(ctx, email)
	if err != nil {
		a.printf("Error: %v\n", err)
		return
	}
	a.printf("%s\n", msg)
}
