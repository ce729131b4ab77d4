package command

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupEnv(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "cli-secret")
	t.Setenv("BCRYPT_COST", "4")
	t.Setenv("DATABASE_URL", filepath.Join(t.TempDir(), "booklist.db"))
}

func runCmd(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRegisterTokenVerify(t *testing.T) {
	setupEnv(t)

	out, err := runCmd(t, "secret1\n", "register", "--username", "alice", "--email", "alice@example.com")
	require.NoError(t, err)
	assert.Contains(t, out, "registered reader")

	out, err = runCmd(t, "", "token", "--email", "alice@example.com", "--password", "secret1")
	require.NoError(t, err)
	token := strings.TrimSpace(out)
	require.NotEmpty(t, token)

	out, err = runCmd(t, "", "verify", token)
	require.NoError(t, err)
	assert.Contains(t, out, "username: alice")
}

func TestTokenWrongPassword(t *testing.T) {
	setupEnv(t)

	_, err := runCmd(t, "", "register", "--username", "alice", "--email", "alice@example.com", "--password", "secret1")
	require.NoError(t, err)

	_, err = runCmd(t, "", "token", "--email", "alice@example.com", "--password", "wrong")
	assert.EqualError(t, err, "Wrong email or password")
}

func TestVerifyRejectsGarbage(t *testing.T) {
	setupEnv(t)

	_, err := runCmd(t, "", "verify", "not-a-token")
	assert.Error(t, err)
}
