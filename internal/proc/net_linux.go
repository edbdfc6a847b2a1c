//go:build linux

package proc

import (
	"context"
	"os"

	"github.com/rs/zerolog"

	"github.com/pranshuparmar/witr/pkg/model"
)

// ConnectionTable decodes /proc/net/tcp and /proc/net/tcp6 into one table
// keyed by inode. A missing file contributes no rows.
func (p *linuxProvider) ConnectionTable(ctx context.Context) map[model.SocketID]model.SocketInfo {
	table := make(map[model.SocketID]model.SocketInfo)
	for _, src := range []struct {
		path string
		ipv6 bool
	}{
		{p.procRoot + "/net/tcp", false},
		{p.procRoot + "/net/tcp6", true},
	} {
		raw, err := os.ReadFile(src.path)
		if err != nil {
			zerolog.Ctx(ctx).Debug().Err(err).Str("path", src.path).Msg("read connection table")
			continue
		}
		decodeProcNetInto(table, string(raw), src.ipv6)
	}
	return table
}
