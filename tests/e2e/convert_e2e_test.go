package e2e

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pip2sysdep/tests/testutil"
)

var binary string

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "pip2sysdep-e2e")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	root, err := filepath.Abs(filepath.Join("..", ".."))
	if err == nil {
		binary, err = testutil.BuildCLI(root, dir)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.RemoveAll(dir)
		os.Exit(1)
	}
	code := m.Run()
	os.RemoveAll(dir)
	os.Exit(code)
}

func TestConvertLocalMappingE2E(t *testing.T) {
	stdout, stderr, code := testutil.Run(t, binary, nil,
		"--local=fixtures/ubuntu-24.04.toml",
		"--txt", "fixtures/requirements.txt",
		"--separator=space",
	)
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "python3-pip python3-setuptools python3-wheel python3-venv build-essential gcc g++ make pkg-config python3-dev libopenblas-dev liblapack-dev libopenblas0 liblapack3 libldap2-dev libsasl2-dev libldap-2.5-0 libsasl2-2\n", stdout)
}

func TestConvertBundledMappingE2E(t *testing.T) {
	stdout, stderr, code := testutil.Run(t, binary, nil,
		"--local", "--search-path", t.TempDir(),
		"--distro", "fedora", "--os-version", "40",
		"--print-command", "lxml",
	)
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "dnf install -y gcc gcc-c++ libxml2-devel libxslt-devel make pkgconf-pkg-config python3-devel python3-pip python3-setuptools python3-wheel\n", stdout)
}

func TestConvertRemoteMappingE2E(t *testing.T) {
	content, err := os.ReadFile(testutil.Fixture(t, "ubuntu-24.04.toml"))
	require.NoError(t, err)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ubuntu-24.04.toml" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(content)
	}))
	defer server.Close()

	stdout, stderr, code := testutil.Run(t, binary, []string{"PIP2SYSDEP_BASE_URL=" + server.URL},
		"--distro", "ubuntu", "--os-version", "24.04", "requests",
	)
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "python3-pip\npython3-setuptools\npython3-wheel\npython3-venv\n", stdout)

	_, stderr, code = testutil.Run(t, binary, nil,
		"--base-url", server.URL, "--http-retries", "1",
		"--distro", "debian", "--os-version", "12", "requests",
	)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "mapping document not found")
}

func TestShowInputE2E(t *testing.T) {
	stdout, stderr, code := testutil.Run(t, binary, nil, "--show-input", "--toml", "fixtures/pyproject.toml", "numpy", "scipy")
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "numpy\npython-ldap\nrequests\nscipy\n", stdout)
}

func TestInstallExitStatusE2E(t *testing.T) {
	mapping := filepath.Join(t.TempDir(), "mapping.toml")
	require.NoError(t, os.WriteFile(mapping, []byte("[__meta__]\ninstall_command = \"sh -c 'exit 42'\"\n"), 0644))

	stdout, _, code := testutil.Run(t, binary, nil, "--local="+mapping, "--distro=x", "--os-version=1", "--install", "numpy")
	assert.Equal(t, 42, code)
	assert.Equal(t, "Running: sh -c 'exit 42'\n", stdout)
}

func TestUsageErrorsE2E(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "no packages", args: nil},
		{name: "both inputs", args: []string{"--txt", "fixtures/requirements.txt", "--toml", "fixtures/pyproject.toml"}},
		{name: "bad separator", args: []string{"--separator=tab", "numpy"}},
		{name: "missing input file", args: []string{"--txt", "fixtures/nope.txt", "--local"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, code := testutil.Run(t, binary, nil, tt.args...)
			assert.Equal(t, 1, code)
			assert.Empty(t, stdout)
		})
	}
}

func TestDistrosE2E(t *testing.T) {
	stdout, stderr, code := testutil.Run(t, binary, nil, "distros")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "ubuntu-24.04\n")
	assert.Contains(t, stdout, "fedora-40\n")
}
