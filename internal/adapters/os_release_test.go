package adapters

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pip2sysdep/internal/types"
)

func writeRootFile(t *testing.T, root string, rel string, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestOSReleaseAdapterDetect(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		goos  string
		want  types.DistroKey
	}{
		{
			name: "os-release",
			files: map[string]string{
				"etc/os-release":     "NAME=\"Ubuntu\"\nID=Ubuntu\nVERSION_ID=\"24.04\"\n",
				"etc/debian_version": "trixie/sid\n",
			},
			goos: "linux",
			want: types.DistroKey{Distro: "ubuntu", Version: "24.04"},
		},
		{
			name: "os-release without version falls through",
			files: map[string]string{
				"etc/os-release":     "ID=debian\n",
				"etc/debian_version": "12.5\n",
			},
			goos: "linux",
			want: types.DistroKey{Distro: "debian", Version: "12.5"},
		},
		{
			name:  "redhat release",
			files: map[string]string{"etc/redhat-release": "Red Hat Enterprise Linux release 9.3 (Plow)\n"},
			goos:  "linux",
			want:  types.DistroKey{Distro: "rhel", Version: "9"},
		},
		{
			name:  "redhat release without dotted version",
			files: map[string]string{"etc/redhat-release": "Fedora release 40 (Forty)\n"},
			goos:  "linux",
			want:  types.DistroKey{Distro: "rhel", Version: "40"},
		},
		{
			name: "empty debian_version falls through",
			files: map[string]string{
				"etc/debian_version":        " \n",
				"proc/sys/kernel/osrelease": "6.1.0-18-amd64\n",
			},
			goos: "linux",
			want: types.DistroKey{Distro: "linux", Version: "6.1.0-18-amd64"},
		},
		{
			name:  "platform fallback",
			files: map[string]string{"proc/sys/kernel/osrelease": "6.8.0-45-generic\n"},
			goos:  "linux",
			want:  types.DistroKey{Distro: "linux", Version: "6.8.0-45-generic"},
		},
		{
			name:  "markers ignored off linux",
			files: map[string]string{"etc/debian_version": "12.5\n"},
			goos:  "darwin",
			want:  types.DistroKey{Distro: "darwin", Version: "unknown"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			for rel, content := range tt.files {
				writeRootFile(t, root, rel, content)
			}
			got := OSReleaseAdapter{Root: root, GOOS: tt.goos}.Detect()
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("unexpected distro (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseOSRelease(t *testing.T) {
	content := "# comment\nPRETTY_NAME=\"Debian GNU/Linux 12 (bookworm)\"\nID=debian\nVERSION_ID='12'\nbroken line\n"
	got := ParseOSRelease([]byte(content))
	want := map[string]string{
		"pretty_name": "Debian GNU/Linux 12 (bookworm)",
		"id":          "debian",
		"version_id":  "12",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected os-release (-want +got):\n%s", diff)
	}
	assert.Empty(t, ParseOSRelease(nil))
}
