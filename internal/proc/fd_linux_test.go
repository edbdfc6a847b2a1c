//go:build linux

package proc

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pranshuparmar/witr/pkg/model"
)

func TestSortFDNames(t *testing.T) {
	t.Parallel()

	names := []string{"10", "2", "weird", "0", "1", "100", "3"}
	sortFDNames(names)
	assert.Equal(t, []string{"0", "1", "2", "3", "10", "100", "weird"}, names)
}

func TestSocketIDsInFDOrder(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	fdDir := filepath.Join(root, "42", "fd")
	require.NoError(t, os.MkdirAll(fdDir, 0o755))
	links := map[string]string{
		"0":  "/dev/null",
		"2":  "socket:[2002]",
		"10": "socket:[1010]",
		"11": "pipe:[77]",
		"3":  "socket:[3003]",
	}
	for fd, target := range links {
		require.NoError(t, os.Symlink(target, filepath.Join(fdDir, fd)))
	}

	p := &linuxProvider{procRoot: root}
	assert.Equal(t, []model.SocketID{"2002", "3003", "1010"}, p.SocketIDs(context.Background(), 42))
}
