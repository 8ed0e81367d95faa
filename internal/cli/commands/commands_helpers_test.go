package commands

import (
	"PassVault/internal/config"
	"PassVault/internal/testutil"
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type env struct {
	t   *testing.T
	cfg *config.Config
	srv *testutil.Server
	out *bytes.Buffer
}

// newEnv поднимает сервер и перенаправляет ввод-вывод CLI; состояние клиента живёт в temp.
func newEnv(t *testing.T) *env {
	t.Helper()
	srv := testutil.NewServer(t)
	e := &env{
		t:   t,
		cfg: &config.Config{ServerURL: srv.URL, ClientDir: t.TempDir()},
		srv: srv,
		out: &bytes.Buffer{},
	}
	prevOut, prevIn := Out, In
	Out = e.out
	In = strings.NewReader("")
	t.Cleanup(func() { Out, In = prevOut, prevIn })
	return e
}

// run выполняет команду с построчным вводом stdin и возвращает код выхода и вывод.
func (e *env) run(stdin []string, args ...string) (int, string) {
	e.t.Helper()
	e.out.Reset()
	In = strings.NewReader(strings.Join(stdin, "\n") + "\n")
	code := Dispatch(context.Background(), e.cfg, args)
	return code, e.out.String()
}

func (e *env) mustRun(stdin []string, args ...string) string {
	e.t.Helper()
	code, out := e.run(stdin, args...)
	require.Equal(e.t, 0, code, out)
	return out
}

const (
	email   = "bob@example.com"
	accPass = "account-pass-1"
	master  = "master-pass-123"
)

func (e *env) signupAndUnlock() {
	e.t.Helper()
	e.mustRun(nil, "signup", email, accPass, master)
	e.mustRun([]string{master}, "unlock")
}

// field returns the value of the "key: value" line in out.
func field(out, key string) string {
	for _, line := range strings.Split(out, "\n") {
		if k, v, ok := strings.Cut(line, ":"); ok && strings.TrimSpace(k) == key {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
