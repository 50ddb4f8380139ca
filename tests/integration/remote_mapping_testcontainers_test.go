//go:build integration

package integration

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"pip2sysdep/internal/adapters"
	"pip2sysdep/internal/app"
	"pip2sysdep/internal/core"
	"pip2sysdep/internal/types"
	"pip2sysdep/tests/testutil"
)

// The server answers 503 to the first request for each path so the client
// has to retry before it gets the document.
const mappingServerScript = `
import http.server, socketserver

MAPPINGS = {"/ubuntu-24.04.toml": %q}
seen = set()

class Handler(http.server.BaseHTTPRequestHandler):
    def do_GET(self):
        if self.path not in seen:
            seen.add(self.path)
            self.send_response(503)
            self.end_headers()
            return
        body = MAPPINGS.get(self.path)
        if body is None:
            self.send_response(404)
            self.end_headers()
            return
        data = body.encode()
        self.send_response(200)
        self.send_header("Content-Type", "application/toml")
        self.send_header("Content-Length", str(len(data)))
        self.end_headers()
        self.wfile.write(data)

    def log_message(self, format, *args):
        return

socketserver.TCPServer.allow_reuse_address = True
with socketserver.TCPServer(("0.0.0.0", 8080), Handler) as httpd:
    httpd.serve_forever()
`

func TestRemoteMappingWithTestcontainers(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping testcontainers integration in short mode")
	}

	ctx := t.Context()
	content, err := os.ReadFile(testutil.Fixture(t, "ubuntu-24.04.toml"))
	require.NoError(t, err)
	endpoint, cleanup := startMappingServer(ctx, t, string(content))
	t.Cleanup(cleanup)

	service := app.NewService()
	result, err := service.Convert(ctx, app.ConvertRequest{
		Input: app.InputRequest{RequirementsFile: testutil.Fixture(t, "requirements.txt")},
		Source: app.SourceRequest{
			Mode:        types.SourceModeRemote,
			BaseURL:     endpoint,
			HTTPTimeout: 10 * time.Second,
			HTTPRetries: 3,
		},
		Distro:        "ubuntu",
		OSVersion:     "24.04",
		CommandName:   "update",
		RenderCommand: true,
	})
	require.NoError(t, err)

	want := []string{
		"python3-pip", "python3-setuptools", "python3-wheel", "python3-venv",
		"build-essential", "gcc", "g++", "make", "pkg-config", "python3-dev",
		"libopenblas-dev", "liblapack-dev", "libopenblas0", "liblapack3",
		"libldap2-dev", "libsasl2-dev", "libldap-2.5-0", "libsasl2-2",
	}
	if diff := cmp.Diff(want, result.SystemPackages); diff != "" {
		t.Fatalf("system packages mismatch (-want +got):\n%s", diff)
	}
	require.Contains(t, result.Command, "apt-get update build-essential g++ gcc")
}

func TestRemoteMappingMissingWithTestcontainers(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping testcontainers integration in short mode")
	}

	ctx := t.Context()
	endpoint, cleanup := startMappingServer(ctx, t, "")
	t.Cleanup(cleanup)

	key := types.DistroKey{Distro: "debian", Version: "12"}
	remote := adapters.NewMappingRemoteAdapter(endpoint, 10*time.Second, 3)
	resolver := core.NewDependencyResolver(key, remote)
	_, err := resolver.Resolve(ctx, "numpy")
	require.Error(t, err)
	require.True(t, core.IsNotFound(err), "unexpected error: %v", err)
	require.Contains(t, err.Error(), remote.URL(key))
}

func startMappingServer(ctx context.Context, t *testing.T, mapping string) (string, func()) {
	t.Helper()
	req := testcontainers.ContainerRequest{
		Image:        "python:3.12-alpine",
		ExposedPorts: []string{"8080/tcp"},
		Cmd:          []string{"python", "-c", fmt.Sprintf(mappingServerScript, mapping)},
		WaitingFor:   wait.ForListeningPort("8080/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "8080/tcp")
	require.NoError(t, err)

	endpoint := fmt.Sprintf("http://%s:%s", host, port.Port())
	cleanup := func() {
		_ = container.Terminate(ctx)
	}
	return endpoint, cleanup
}
