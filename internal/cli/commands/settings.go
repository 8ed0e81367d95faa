package commands

import (
	"PassVault/internal/config"
	"context"
	"encoding/base64"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
)

type twoFactorSetupCmd struct{}

func (twoFactorSetupCmd) Name() string        { return "2fa-setup" }
func (twoFactorSetupCmd) Description() string { return "Start enabling two-factor login" }
func (twoFactorSetupCmd) Usage() string       { return "2fa-setup [-qr file.png]" }

func (twoFactorSetupCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	var qrPath string
	fs := flag.NewFlagSet("2fa-setup", flag.ContinueOnError)
	fs.StringVar(&qrPath, "qr", "", "write the QR code PNG to this file")
	pos, err := parseFlags(fs, args)
	if err != nil {
		return err
	}
	if len(pos) != 0 {
		return ErrUsage
	}

	e, err := newServices(cfg).settings.Setup2FA(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(Out, "Secret: %s\n", e.Secret)
	fmt.Fprintf(Out, "URI:    %s\n", e.ProvisioningURI)
	if qrPath != "" {
		if err := writeQR(qrPath, e.QRCode); err != nil {
			return err
		}
		fmt.Fprintf(Out, "QR code written to %s\n", qrPath)
	}
	fmt.Fprintln(Out, "Add the secret to your authenticator app, then run `2fa-enable <code>`.")
	return nil
}

func writeQR(path, dataURL string) error {
	const prefix = "data:image/png;base64,"
	if !strings.HasPrefix(dataURL, prefix) {
		return errors.New("server returned no QR code")
	}
	png, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(dataURL, prefix))
	if err != nil {
		return fmt.Errorf("decode QR code: %w", err)
	}
	return os.WriteFile(path, png, 0o600)
}

type twoFactorEnableCmd struct{}

func (twoFactorEnableCmd) Name() string        { return "2fa-enable" }
func (twoFactorEnableCmd) Description() string { return "Confirm two-factor setup with a code" }
func (twoFactorEnableCmd) Usage() string       { return "2fa-enable <code>" }

func (twoFactorEnableCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	if err := newServices(cfg).settings.Enable2FA(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintln(Out, "Two-factor login enabled")
	return nil
}

type twoFactorDisableCmd struct{}

func (twoFactorDisableCmd) Name() string        { return "2fa-disable" }
func (twoFactorDisableCmd) Description() string { return "Turn off two-factor login" }
func (twoFactorDisableCmd) Usage() string       { return "2fa-disable <code>" }

func (twoFactorDisableCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	if err := newServices(cfg).settings.Disable2FA(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintln(Out, "Two-factor login disabled")
	return nil
}

type themeCmd struct{}

func (themeCmd) Name() string        { return "theme" }
func (themeCmd) Description() string { return "Show or set the theme (light, dark, auto)" }
func (themeCmd) Usage() string       { return "theme [light|dark|auto]" }

func (themeCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) > 1 {
		return ErrUsage
	}
	s := newServices(cfg)
	if len(args) == 0 {
		st, err := s.settings.Get(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(Out, "Theme: %s\n", st.Theme)
		fmt.Fprintf(Out, "Two-factor: %t\n", st.TwoFactorEnabled)
		return nil
	}
	st, err := s.settings.SetTheme(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(Out, "Theme: %s\n", st.Theme)
	return nil
}

func init() {
	RegisterCmd(twoFactorSetupCmd{})
	RegisterCmd(twoFactorEnableCmd{})
	RegisterCmd(twoFactorDisableCmd{})
	RegisterCmd(themeCmd{})
}
