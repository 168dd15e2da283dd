package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kochabx/restclient/restclienttest"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCommandTree(t *testing.T) {
	root := NewRootCommand()
	assert.Equal(t, "restclient", root.Use)

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"get", "head", "options", "delete", "post", "put", "patch", "version"}, names)
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "restclient "+version)
}

func TestGetCommand(t *testing.T) {
	srv := restclienttest.NewServer()
	defer srv.Close()

	out, err := execute(t, "get", srv.URLFor("/ok"))
	require.NoError(t, err)
	assert.Equal(t, "200 OK\nok\n", out)
}

func TestGetCommandInclude(t *testing.T) {
	srv := restclienttest.NewServer()
	defer srv.Close()

	out, err := execute(t, "get", "-i", srv.URLFor("/ok"))
	require.NoError(t, err)
	assert.Contains(t, out, "Content-Type: text/plain\r\n")
	assert.Contains(t, out, "\r\n\nok\n")
}

func TestPostCommand(t *testing.T) {
	srv := restclienttest.NewServer()
	defer srv.Close()

	out, err := execute(t, "post", "-i", "-d", `{"id":1}`, srv.URLFor("/echo?status=201"))
	require.NoError(t, err)
	assert.Contains(t, out, "201 Created\n")
	assert.Contains(t, out, restclienttest.HeaderEchoContentType+": application/json")
	assert.Contains(t, out, `{"id":1}`)
}

func TestPutCommandDataFile(t *testing.T) {
	srv := restclienttest.NewServer()
	defer srv.Close()

	file := filepath.Join(t.TempDir(), "body.csv")
	require.NoError(t, os.WriteFile(file, []byte("a,b\n"), 0o644))

	out, err := execute(t, "put", "-t", "text/csv", "-d", "@"+file, srv.URLFor("/echo"))
	require.NoError(t, err)
	assert.Equal(t, "200 OK\na,b\n", out)

	_, err = execute(t, "put", "-d", "@"+filepath.Join(t.TempDir(), "missing"), srv.URLFor("/echo"))
	require.Error(t, err)
}

func TestHeaderFlag(t *testing.T) {
	srv := restclienttest.NewServer()
	defer srv.Close()

	out, err := execute(t, "get", "-H", "X-Trace: abc", "-H", "broken", srv.URLFor("/headers"))
	require.NoError(t, err)
	assert.Contains(t, out, `"X-Trace":["abc"]`)
}

func TestHTTPErrorStatusSucceeds(t *testing.T) {
	srv := restclienttest.NewServer()
	defer srv.Close()

	out, err := execute(t, "delete", srv.URLFor("/status/500"))
	require.NoError(t, err)
	assert.Contains(t, out, "500 Internal Server Error\n")
}

func TestTransferFailure(t *testing.T) {
	srv := restclienttest.NewServer()
	url := srv.URL
	srv.Close()

	_, err := execute(t, "get", url)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "code -7")
}

func TestFollowFlag(t *testing.T) {
	srv := restclienttest.NewServer()
	defer srv.Close()

	out, err := execute(t, "get", srv.URLFor("/redirect/1"))
	require.NoError(t, err)
	assert.Contains(t, out, "302 Found\n")

	out, err = execute(t, "get", "-L", "--backend", "resty", srv.URLFor("/redirect/1"))
	require.NoError(t, err)
	assert.Equal(t, "200 OK\nok\n", out)
}

func TestConfigFlag(t *testing.T) {
	srv := restclienttest.NewServer()
	defer srv.Close()

	file := filepath.Join(t.TempDir(), "restclient.yaml")
	require.NoError(t, os.WriteFile(file, []byte("user_agent: from-config/1\nheaders:\n  x-env: staging\n"), 0o644))

	out, err := execute(t, "get", "--config", file, srv.URLFor("/headers"))
	require.NoError(t, err)
	assert.Contains(t, out, `"User-Agent":["from-config/1"]`)
	assert.Contains(t, out, `"X-Env":["staging"]`)

	_, err = execute(t, "get", "--config", filepath.Join(t.TempDir(), "none.yaml"), srv.URLFor("/ok"))
	require.Error(t, err)

	_, err = execute(t, "get", "--backend", "curl", srv.URLFor("/ok"))
	require.Error(t, err)
}

func TestMissingURL(t *testing.T) {
	_, err := execute(t, "get")
	require.Error(t, err)
}

func TestParseHeaders(t *testing.T) {
	got := parseHeaders([]string{"Accept: text/html", "X-Empty:", "nocolon", " : v", "X-Colon: a:b"})
	assert.Equal(t, [][2]string{
		{"Accept", "text/html"},
		{"X-Empty", ""},
		{"X-Colon", "a:b"},
	}, got)
}

func TestRootSilencesErrors(t *testing.T) {
	root := NewRootCommand()
	assert.True(t, root.SilenceErrors, "main prints the error once")
	assert.True(t, root.SilenceUsage)
}

func TestLoadConfigTimeout(t *testing.T) {
	dir := t.TempDir()
	zero := filepath.Join(dir, "zero.yaml")
	require.NoError(t, os.WriteFile(zero, []byte("timeout: 0\n"), 0o644))
	two := filepath.Join(dir, "two.yaml")
	require.NoError(t, os.WriteFile(two, []byte("timeout: 2s\n"), 0o644))
	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("user_agent: x/1\n"), 0o644))

	tests := []struct {
		name string
		args []string
		want time.Duration
	}{
		{"flag default", nil, 30 * time.Second},
		{"file without timeout", []string{"--config", empty}, 30 * time.Second},
		{"file disables timeout", []string{"--config", zero}, 0},
		{"file timeout", []string{"--config", two}, 2 * time.Second},
		{"flag wins over file", []string{"--config", zero, "--timeout", "5s"}, 5 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, _, err := NewRootCommand().Find([]string{"get"})
			require.NoError(t, err)
			require.NoError(t, cmd.ParseFlags(tt.args))

			cfg, err := loadConfig(cmd)
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.Timeout)
		})
	}
}

func TestLoadConfigTimeoutFromEnv(t *testing.T) {
	t.Setenv("RESTCLIENT_TIMEOUT", "0s")

	cmd, _, err := NewRootCommand().Find([]string{"get"})
	require.NoError(t, err)
	require.NoError(t, cmd.ParseFlags(nil))

	cfg, err := loadConfig(cmd)
	require.NoError(t, err)
	assert.Zero(t, cfg.Timeout)
}
