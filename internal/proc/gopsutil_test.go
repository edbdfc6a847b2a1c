package proc

import (
	"context"
	"math"
	"testing"

	gnet "github.com/shirou/gopsutil/v4/net"
	"github.com/shirou/gopsutil/v4/process"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pranshuparmar/witr/pkg/model"
)

func TestMapStatus(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		in   []string
		want model.ProcessStatus
	}{
		"running": {in: []string{process.Running}, want: model.StatusRunning},
		"sleep":   {in: []string{process.Sleep}, want: model.StatusSleeping},
		"idle":    {in: []string{process.Idle}, want: model.StatusSleeping},
		"stopped": {in: []string{process.Stop}, want: model.StatusStopped},
		"zombie":  {in: []string{process.Zombie}, want: model.StatusZombie},
		"empty":   {want: model.StatusOther},
		"unknown": {in: []string{"mystery"}, want: model.StatusOther},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, mapStatus(tc.in))
		})
	}
}

func TestAddConnections(t *testing.T) {
	t.Parallel()

	conns := []gnet.ConnectionStat{
		{Pid: 40, Laddr: gnet.Addr{IP: "0.0.0.0", Port: 8080}, Status: "LISTEN"},
		{Pid: 40, Laddr: gnet.Addr{IP: "10.0.0.1", Port: 8080}, Raddr: gnet.Addr{IP: "10.0.0.9", Port: 51000}, Status: "ESTABLISHED"},
		{Pid: 40, Laddr: gnet.Addr{IP: "::", Port: 22}, Status: "FIN_WAIT_2"},
		{Pid: 0, Laddr: gnet.Addr{IP: "0.0.0.0", Port: 53}, Status: "LISTEN"},
		{Pid: 41, Laddr: gnet.Addr{IP: "127.0.0.1"}, Status: "CLOSE"},
	}

	table := make(map[model.SocketID]model.SocketInfo)
	var ids []model.SocketID
	addConnections(table, &ids, conns)

	require.Equal(t, []model.SocketID{"40:8080", "40:8080#2", "40:22"}, ids)
	assert.Equal(t, "LISTEN", table["40:8080"].State)
	assert.Equal(t, "10.0.0.9:51000", table["40:8080#2"].RemoteAddr)
	assert.Equal(t, "FIN_WAIT2", table["40:22"].State)
	assert.Equal(t, "::", table["40:22"].LocalAddr)
}

func TestFetchProcessMissing(t *testing.T) {
	t.Parallel()

	tests := map[string]int{
		"unused high pid": math.MaxInt32 - 1,
		"zero":            0,
		"negative":        -4,
	}

	for name, pid := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := fetchProcess(context.Background(), pid)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrProcessNotFound)
		})
	}
}
