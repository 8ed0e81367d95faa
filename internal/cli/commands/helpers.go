package commands

import (
	"PassVault/internal/cli/api"
	fsrepo "PassVault/internal/cli/repo/fs"
	"PassVault/internal/cli/service"
	"PassVault/internal/config"
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"golang.org/x/term"
)

// In — источник ввода для запросов паролей. В тестах переназначается.
var In io.Reader = os.Stdin

var (
	inSrc    io.Reader
	inReader *bufio.Reader
)

// ReadSecret asks for a secret. On a terminal the input is not echoed; piped input is read line by line.
var ReadSecret = func(prompt string) (string, error) {
	fmt.Fprint(Out, prompt)
	if f, ok := In.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(Out)
		return string(b), err
	}
	s, err := readLine()
	fmt.Fprintln(Out)
	return s, err
}

func readLine() (string, error) {
	if inSrc != In {
		inSrc = In
		inReader = bufio.NewReader(In)
	}
	s, err := inReader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && s != "") {
		if errors.Is(err, io.EOF) {
			return "", errors.New("no input")
		}
		return "", err
	}
	return strings.TrimRight(s, "\r\n"), nil
}

// secretArg returns args[i] when present, otherwise asks for it.
func secretArg(args []string, i int, prompt string) (string, error) {
	if len(args) > i {
		return args[i], nil
	}
	return ReadSecret(prompt)
}

type services struct {
	auth     *service.AuthService
	vault    *service.VaultService
	settings *service.SettingsService
}

func newServices(cfg *config.Config) *services {
	auth := service.NewAuthService(api.NewClient(cfg.ServerURL), fsrepo.NewStateStore(cfg.ClientDir))
	return &services{
		auth:     auth,
		vault:    service.NewVaultService(auth),
		settings: service.NewSettingsService(auth),
	}
}

// vaultKey asks for the master password and checks it against the unlocked vault.
func (s *services) vaultKey() ([]byte, string, error) {
	if _, err := s.auth.Store.LoadVaultToken(); err != nil {
		return nil, "", service.ErrVaultLocked
	}
	master, err := ReadSecret("Master password: ")
	if err != nil {
		return nil, "", err
	}
	key, err := s.auth.Key(master)
	if err != nil {
		return nil, "", err
	}
	return key, master, nil
}

// parseFlags parses flags that may follow leading positional arguments.
// It returns the positional arguments.
func parseFlags(fs *flag.FlagSet, args []string) ([]string, error) {
	fs.SetOutput(io.Discard)
	var pos []string
	for len(args) > 0 {
		if strings.HasPrefix(args[0], "-") && args[0] != "-" {
			if err := fs.Parse(args); err != nil {
				if errors.Is(err, flag.ErrHelp) {
					return nil, err
				}
				return nil, fmt.Errorf("%w: %v", ErrUsage, err)
			}
			args = fs.Args()
			if len(args) > 0 && strings.HasPrefix(args[0], "-") && args[0] != "-" {
				return nil, ErrUsage
			}
			continue
		}
		pos = append(pos, args[0])
		args = args[1:]
	}
	return pos, nil
}

func splitTags(s string) []string {
	tags := []string{}
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// describe turns service and server errors into a user-facing line.
func describe(err error) string {
	var ae *api.APIError
	if errors.As(err, &ae) {
		switch {
		case api.IsVaultAuthError(err):
			return ae.Message + "; run `unlock` again"
		case ae.Status == http.StatusUnauthorized && ae.Code == api.CodeUnauthenticated:
			return ae.Message + "; run `login` again"
		}
		return ae.Message
	}
	return err.Error()
}
