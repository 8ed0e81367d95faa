package commands

import (
	"PassVault/internal/config"
	"context"
	"fmt"
	"io"
	"os"
)

type exportCmd struct{}

func (exportCmd) Name() string        { return "export" }
func (exportCmd) Description() string { return "Write encrypted entries to a file (- for stdout)" }
func (exportCmd) Usage() string       { return "export <file|->" }

func (exportCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	s := newServices(cfg)
	if args[0] == "-" {
		_, err := s.vault.Export(ctx, Out)
		return err
	}

	f, err := os.OpenFile(args[0], os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	n, err := s.vault.Export(ctx, f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(args[0])
		return err
	}
	fmt.Fprintf(Out, "Exported %d item(s) to %s\n", n, args[0])
	fmt.Fprintln(Out, "The file holds ciphertext only; the master password is needed to import it.")
	return nil
}

type importCmd struct{}

func (importCmd) Name() string        { return "import" }
func (importCmd) Description() string { return "Add entries from an export file (- for stdin)" }
func (importCmd) Usage() string       { return "import <file|->" }

func (importCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	s := newServices(cfg)
	key, master, err := s.vaultKey()
	if err != nil {
		return err
	}

	var r io.Reader = In
	if args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}
	n, err := s.vault.Import(ctx, key, master, r)
	if err != nil {
		if n > 0 {
			fmt.Fprintf(Out, "Imported %d item(s) before the error\n", n)
		}
		return err
	}
	fmt.Fprintf(Out, "Imported %d item(s)\n", n)
	return nil
}

func init() {
	RegisterCmd(exportCmd{})
	RegisterCmd(importCmd{})
}
