package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDispatch_Help(t *testing.T) {
	e := newEnv(t)

	code, out := e.run(nil)
	assert.Equal(t, 2, code)
	assert.Contains(t, out, "PassVault CLI")

	code, out = e.run(nil, "help")
	assert.Equal(t, 0, code)
	for _, name := range []string{"signup", "login-2fa", "unlock", "add", "export", "2fa-setup", "theme", "generate"} {
		assert.Contains(t, out, name)
	}

	code, out = e.run(nil, "help", "get")
	assert.Equal(t, 0, code)
	assert.Equal(t, "Usage: get <id|name>\n", out)

	code, out = e.run(nil, "help", "nope")
	assert.Equal(t, 2, code)
	assert.Contains(t, out, "Unknown command: nope")
}

func TestDispatch_UnknownAndUsage(t *testing.T) {
	e := newEnv(t)

	code, out := e.run(nil, "frobnicate")
	assert.Equal(t, 2, code)
	assert.Contains(t, out, "Unknown command: frobnicate")

	code, out = e.run(nil, "lock", "extra")
	assert.Equal(t, 2, code)
	assert.Equal(t, "Usage: lock\n", out)

	code, out = e.run(nil, "list", "-bogus")
	assert.Equal(t, 2, code)
	assert.Contains(t, out, "Usage: list")

	code, _ = e.run(nil, "generate", "-h")
	assert.Equal(t, 0, code)
}

func TestDispatch_CommandError(t *testing.T) {
	e := newEnv(t)

	code, out := e.run(nil, "list")
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "list error: not logged in")
}
