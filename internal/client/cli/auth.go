package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/console/internal/client/redirect"
	"github.com/dmitrijs2005/console/internal/client/services"
	"github.com/dmitrijs2005/console/internal/common"
)

// Indirections used to facilitate testing. They point to interactive input
// helpers and can be swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
)

// Register prompts for the account fields and creates the account. Both
// password buffers are wiped before returning.
func (a *App) Register(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter user name", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out, "Enter password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	confirm, err := getPassword(a.out, "Confirm password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	email, err := getSimpleText(a.reader, "Enter e-mail", a.out)
	if err != nil {
		return err
	}
	phone, err := getSimpleText(a.reader, "Enter phone", a.out)
	if err != nil {
		return err
	}

	err = a.auth.Register(ctx, services.RegisterForm{
		UserName:        userName,
		Password:        password,
		ConfirmPassword: confirm,
		Email:           email,
		Phone:           phone,
	})
	if err != nil {
		return err
	}

	a.notifier.Success(ctx, "registration succeeded, please log in")
	return nil
}

// Login prompts for credentials and signs in, then follows the resolved
// redirect. With a remembered login an empty user name signs in with the
// remembered one.
func (a *App) Login(ctx context.Context) error {
	info, remembered, err := a.auth.Remembered(ctx)
	if err != nil {
		return err
	}

	prompt := "Enter user name"
	if remembered {
		prompt = fmt.Sprintf("Enter user name (empty to sign in as %s)", info.UserName)
	}
	userName, err := getSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return err
	}

	if userName == "" && remembered {
		res, err := a.auth.LoginRemembered(ctx)
		if err != nil {
			return err
		}
		return a.afterLogin(ctx, res)
	}

	password, err := getPassword(a.out, "Enter password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	labels := make([]string, len(services.ValidityOptions))
	for i, v := range services.ValidityOptions {
		labels[i] = v.Label
	}
	choice, err := GetChoice(a.reader, "Login valid for", labels, 0, a.out)
	if err != nil {
		return err
	}

	rememberMe, err := GetConfirm(a.reader, "Remember me?", a.out)
	if err != nil {
		return err
	}

	res, err := a.auth.Login(ctx, services.LoginForm{
		UserName:   userName,
		Password:   password,
		Validity:   services.ValidityOptions[choice].Duration,
		RememberMe: rememberMe,
	})
	if err != nil {
		return err
	}
	return a.afterLogin(ctx, res)
}

func (a *App) afterLogin(ctx context.Context, res redirect.Resolution) error {
	a.notifier.Success(ctx, "login succeeded")

	var ok bool
	if res.HardNavigation {
		ok = a.hardNavigate(ctx, res.Path)
	} else {
		ok = a.navigate(ctx, res.Path)
	}
	if ok {
		printlnFn("Opened", res.Path)
	}
	return nil
}

// Logout signs out and moves to the login page.
func (a *App) Logout(ctx context.Context) error {
	target, err := a.auth.Logout(ctx, a.href(a.currentLocation()))
	if err != nil {
		return err
	}
	a.navigate(ctx, target)
	a.notifier.Success(ctx, "logged out")
	return nil
}

// Whoami opens the welcome page and prints the signed-in user.
func (a *App) Whoami(ctx context.Context) error {
	if !a.navigate(ctx, welcomePath) {
		return nil
	}

	a.mu.Lock()
	user := a.user
	a.mu.Unlock()

	printlnFn(fmt.Sprintf("%s (id %s)", user.DisplayName(), user.ID))
	if user.Email != "" {
		printlnFn("E-mail:", user.Email)
	}
	if user.Authority != "" {
		printlnFn("Authority:", user.Authority)
	}
	return nil
}
