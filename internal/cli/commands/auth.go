package commands

import (
	"PassVault/internal/config"
	"context"
	"errors"
	"fmt"
	"time"
)

type signupCmd struct{}

func (signupCmd) Name() string        { return "signup" }
func (signupCmd) Description() string { return "Create an account (prompts for missing passwords)" }
func (signupCmd) Usage() string       { return "signup <email> [password] [master-password]" }

func (signupCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 1 || len(args) > 3 {
		return ErrUsage
	}
	password, err := secretArg(args, 1, "Account password: ")
	if err != nil {
		return err
	}
	master, err := secretArg(args, 2, "Master password: ")
	if err != nil {
		return err
	}
	if len(args) < 3 {
		again, err := ReadSecret("Repeat master password: ")
		if err != nil {
			return err
		}
		if again != master {
			return errors.New("master passwords do not match")
		}
	}
	if err := newServices(cfg).auth.Signup(ctx, args[0], password, master); err != nil {
		return err
	}
	fmt.Fprintln(Out, "Account created. The master password cannot be recovered, keep it safe.")
	fmt.Fprintln(Out, "Run `unlock` to open the vault.")
	return nil
}

type loginCmd struct{}

func (loginCmd) Name() string        { return "login" }
func (loginCmd) Description() string { return "Log in with email and account password" }
func (loginCmd) Usage() string       { return "login <email> [password]" }

func (loginCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return ErrUsage
	}
	password, err := secretArg(args, 1, "Account password: ")
	if err != nil {
		return err
	}
	requires2FA, err := newServices(cfg).auth.Login(ctx, args[0], password)
	if err != nil {
		return err
	}
	if requires2FA {
		fmt.Fprintln(Out, "Two-factor code required. Run `login-2fa <code>`.")
		return nil
	}
	fmt.Fprintln(Out, "Logged in successfully")
	return nil
}

type login2FACmd struct{}

func (login2FACmd) Name() string        { return "login-2fa" }
func (login2FACmd) Description() string { return "Finish login with an authenticator code" }
func (login2FACmd) Usage() string       { return "login-2fa <code>" }

func (login2FACmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	if err := newServices(cfg).auth.Login2FA(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintln(Out, "Logged in successfully")
	return nil
}

type unlockCmd struct{}

func (unlockCmd) Name() string        { return "unlock" }
func (unlockCmd) Description() string { return "Unlock the vault with the master password" }
func (unlockCmd) Usage() string       { return "unlock [master-password]" }

func (unlockCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) > 1 {
		return ErrUsage
	}
	master, err := secretArg(args, 0, "Master password: ")
	if err != nil {
		return err
	}
	exp, err := newServices(cfg).auth.Unlock(ctx, master)
	if err != nil {
		return err
	}
	if exp.IsZero() {
		fmt.Fprintln(Out, "Vault unlocked")
		return nil
	}
	fmt.Fprintf(Out, "Vault unlocked until %s\n", exp.Local().Format(time.DateTime))
	return nil
}

type lockCmd struct{}

func (lockCmd) Name() string        { return "lock" }
func (lockCmd) Description() string { return "Forget the vault token" }
func (lockCmd) Usage() string       { return "lock" }

func (lockCmd) Run(_ context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	if err := newServices(cfg).auth.Lock(); err != nil {
		return err
	}
	fmt.Fprintln(Out, "Vault locked")
	return nil
}

type logoutCmd struct{}

func (logoutCmd) Name() string        { return "logout" }
func (logoutCmd) Description() string { return "Forget all tokens" }
func (logoutCmd) Usage() string       { return "logout" }

func (logoutCmd) Run(_ context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	if err := newServices(cfg).auth.Logout(); err != nil {
		return err
	}
	fmt.Fprintln(Out, "Logged out")
	return nil
}

type statusCmd struct{}

func (statusCmd) Name() string        { return "status" }
func (statusCmd) Description() string { return "Show login and vault state" }
func (statusCmd) Usage() string       { return "status" }

func (statusCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	st, err := newServices(cfg).auth.Status(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(Out, "Server: %s\n", cfg.ServerURL)
	switch {
	case st.LoggedIn:
		fmt.Fprintf(Out, "Account: %s (%s)\n", st.Email, st.AccountID)
	case st.Pending2FA:
		fmt.Fprintln(Out, "Account: waiting for two-factor code")
		return nil
	default:
		fmt.Fprintln(Out, "Account: not logged in")
		return nil
	}
	if st.VaultUnlocked {
		fmt.Fprintln(Out, "Vault: unlocked")
	} else {
		fmt.Fprintln(Out, "Vault: locked")
	}
	return nil
}

func init() {
	RegisterCmd(signupCmd{})
	RegisterCmd(loginCmd{})
	RegisterCmd(login2FACmd{})
	RegisterCmd(unlockCmd{})
	RegisterCmd(lockCmd{})
	RegisterCmd(logoutCmd{})
	RegisterCmd(statusCmd{})
}
