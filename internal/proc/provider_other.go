//go:build !linux && !darwin

package proc

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	gnet "github.com/shirou/gopsutil/v4/net"

	"github.com/pranshuparmar/witr/pkg/model"
)

// otherProvider covers platforms without a procfs or lsof adapter. Process
// records and sockets come from gopsutil alone; service and container
// attribution are unavailable.
type otherProvider struct{}

func newPlatformProvider(providerOptions) Provider {
	return otherProvider{}
}

func (otherProvider) FetchProcess(ctx context.Context, pid int) (model.Process, error) {
	return fetchProcess(ctx, pid)
}

func (otherProvider) ListPIDs(ctx context.Context) ([]int, error) {
	return listPIDs(ctx)
}

func (otherProvider) BootTime(ctx context.Context) time.Time {
	return hostBootTime(ctx)
}

func (otherProvider) ConnectionTable(ctx context.Context) map[model.SocketID]model.SocketInfo {
	table := make(map[model.SocketID]model.SocketInfo)
	conns, err := gnet.ConnectionsWithContext(ctx, "tcp")
	if err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Msg("list connections")
		return table
	}
	addConnections(table, nil, conns)
	return table
}

func (otherProvider) SocketIDs(ctx context.Context, pid int) []model.SocketID {
	conns, err := gnet.ConnectionsPidWithContext(ctx, "tcp", int32(pid))
	if err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Int("pid", pid).Msg("list connections")
		return nil
	}
	var ids []model.SocketID
	addConnections(make(map[model.SocketID]model.SocketInfo), &ids, conns)
	return ids
}

func (otherProvider) DetectContainer(context.Context, int) (string, bool) {
	return "", false
}

func (otherProvider) DetectServiceUnit(context.Context, int) (string, bool) {
	return "", false
}

func (otherProvider) ServiceDetails(context.Context, string) ServiceDetails {
	return ServiceDetails{}
}

func (otherProvider) FileContext(context.Context, int) *model.FileContext {
	return nil
}

func (otherProvider) ResourceContext(context.Context, int) *model.ResourceContext {
	return nil
}
