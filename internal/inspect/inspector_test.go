package inspect

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pranshuparmar/witr/internal/proc"
	"github.com/pranshuparmar/witr/pkg/model"
)

var clock = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type fakeNamer map[string]string

func (f fakeNamer) Name(_ context.Context, id string) (string, bool) {
	name, ok := f[id]
	return name, ok
}

func newInspector(t *testing.T, table map[model.SocketID]model.SocketInfo, opts ...Option) (*Inspector, *proc.MockProvider) {
	t.Helper()
	m := proc.NewMockProvider(t)
	m.EXPECT().ConnectionTable(mock.Anything).Return(table).Maybe()
	m.EXPECT().BootTime(mock.Anything).Return(clock.Add(-48 * time.Hour)).Maybe()
	opts = append([]Option{WithClock(func() time.Time { return clock })}, opts...)
	return New(m, proc.NewSnapshot(m, time.Minute), opts...), m
}

func running(pid, ppid int, name string) model.Process {
	return model.Process{
		PID:       pid,
		PPID:      ppid,
		Command:   name,
		UID:       "1000",
		Status:    model.StatusRunning,
		StartedAt: clock.Add(-time.Hour),
	}
}

func pids(chain []model.Process) []int {
	out := make([]int, 0, len(chain))
	for _, p := range chain {
		out = append(out, p.PID)
	}
	return out
}

func TestInspectReverseShell(t *testing.T) {
	t.Parallel()

	table := map[model.SocketID]model.SocketInfo{
		"9001": {Protocol: "tcp", Port: 8080, LocalAddr: "0.0.0.0", State: "LISTEN", Explanation: "Waiting for incoming connections"},
		"9002": {Protocol: "tcp", Port: 22, LocalAddr: "0.0.0.0", State: "LISTEN"},
	}
	in, m := newInspector(t, table)

	m.EXPECT().FetchProcess(mock.Anything, 500).Return(running(500, 400, "bash"), nil)
	m.EXPECT().FetchProcess(mock.Anything, 400).Return(running(400, 1, "nginx"), nil)
	m.EXPECT().FetchProcess(mock.Anything, 1).Return(running(1, 0, "systemd"), nil)
	m.EXPECT().SocketIDs(mock.Anything, 500).Return([]model.SocketID{"9001", "missing"})
	m.EXPECT().SocketIDs(mock.Anything, 400).Return(nil)
	m.EXPECT().SocketIDs(mock.Anything, 1).Return([]model.SocketID{"9002"})
	m.EXPECT().DetectContainer(mock.Anything, 500).Return("", false)
	m.EXPECT().DetectServiceUnit(mock.Anything, 500).Return("", false)
	m.EXPECT().FileContext(mock.Anything, 500).Return(&model.FileContext{OpenFiles: 12, FileLimit: 1024})
	m.EXPECT().ResourceContext(mock.Anything, 500).Return(nil)

	target := model.Target{Type: model.TargetPID, Value: "500"}
	res, err := in.Inspect(context.Background(), target, 500)
	require.NoError(t, err)

	assert.Equal(t, target, res.Target)
	assert.Equal(t, "bash", res.ResolvedTarget)
	assert.Equal(t, []int{1, 400, 500}, pids(res.Ancestry))
	assert.Equal(t, model.Source{Type: model.SourceManual}, res.Source)
	assert.Equal(t, []int{8080}, res.Process.ListeningPorts)
	assert.Equal(t, []string{"0.0.0.0"}, res.Process.BindAddresses)
	assert.Equal(t, model.HealthHealthy, res.Process.Health)
	assert.Equal(t, model.Forked, res.Process.Forked)
	assert.Equal(t, []int{22}, res.Ancestry[0].ListeningPorts)
	assert.Equal(t, model.NotForked, res.Ancestry[1].Forked)
	assert.Equal(t, []string{
		"Listening publicly on 0.0.0.0:8080",
		"POTENTIAL REVERSE SHELL: Shell spawned by web server process 'nginx'",
	}, res.Warnings)
	assert.Equal(t, 12, res.FileContext.OpenFiles)
	assert.Nil(t, res.ResourceContext)

	parent, ok := res.Parent()
	require.True(t, ok)
	assert.Equal(t, "nginx", parent.Command)
}

func TestInspectServiceAndContainer(t *testing.T) {
	t.Parallel()

	id := "3f4e1b2a9c8d7e6f5a4b3c2d1e0f9a8b7c6d5e4f3a2b1c0d9e8f7a6b5c4d3e2f"
	in, m := newInspector(t, nil, WithContainerNamer(fakeNamer{id: "api-1"}))

	m.EXPECT().FetchProcess(mock.Anything, 700).Return(running(700, 1, "api"), nil)
	m.EXPECT().FetchProcess(mock.Anything, 1).Return(running(1, 0, "systemd"), nil)
	m.EXPECT().SocketIDs(mock.Anything, mock.Anything).Return(nil)
	m.EXPECT().DetectContainer(mock.Anything, 700).Return(id, true)
	m.EXPECT().DetectServiceUnit(mock.Anything, 700).Return("api.service", true)
	m.EXPECT().ServiceDetails(mock.Anything, "api.service").Return(proc.ServiceDetails{
		UnitFile: "/etc/systemd/system/api.service",
		Restarts: 3,
	})
	m.EXPECT().FileContext(mock.Anything, 700).Return(nil)
	m.EXPECT().ResourceContext(mock.Anything, 700).Return(&model.ResourceContext{PreventsSleep: true, Inhibits: []string{"sleep"}})

	res, err := in.Inspect(context.Background(), model.Target{Type: model.TargetName, Value: "api"}, 700)
	require.NoError(t, err)

	assert.Equal(t, model.SourceSystemd, res.Source.Type)
	assert.Equal(t, "api.service", res.Source.Name)
	assert.Equal(t, map[string]string{
		"unit_file":      "/etc/systemd/system/api.service",
		"container_name": "api-1",
		"restarts":       "3",
	}, res.Source.Details)
	assert.Equal(t, 3, res.RestartCount)
	assert.Equal(t, id, res.Process.Container)
	assert.Equal(t, "api-1", res.Process.ContainerName)
	assert.True(t, res.ResourceContext.PreventsSleep)
	assert.Empty(t, res.Warnings)
}

func TestInspectLaunchdTriggers(t *testing.T) {
	t.Parallel()

	in, m := newInspector(t, nil)
	m.EXPECT().FetchProcess(mock.Anything, 80).Return(running(80, 1, "redis-server"), nil)
	m.EXPECT().FetchProcess(mock.Anything, 1).Return(running(1, 0, "launchd"), nil)
	m.EXPECT().SocketIDs(mock.Anything, mock.Anything).Return(nil)
	m.EXPECT().DetectContainer(mock.Anything, 80).Return("", false)
	m.EXPECT().DetectServiceUnit(mock.Anything, 80).Return("homebrew.mxcl.redis", true)
	m.EXPECT().ServiceDetails(mock.Anything, "homebrew.mxcl.redis").Return(proc.ServiceDetails{
		UnitFile: "/opt/homebrew/opt/redis/homebrew.mxcl.redis.plist",
		Triggers: []string{"RunAtLoad", "KeepAlive"},
	})
	m.EXPECT().FileContext(mock.Anything, 80).Return(nil)
	m.EXPECT().ResourceContext(mock.Anything, 80).Return(nil)

	res, err := in.Inspect(context.Background(), model.Target{Type: model.TargetPort, Value: "6379"}, 80)
	require.NoError(t, err)
	assert.Equal(t, model.SourceLaunchd, res.Source.Type)
	assert.Equal(t, "RunAtLoad; KeepAlive", res.Source.Details["triggers"])
	assert.Equal(t, 0, res.RestartCount)
}

func TestInspectNotFound(t *testing.T) {
	t.Parallel()

	in, m := newInspector(t, nil)
	m.EXPECT().FetchProcess(mock.Anything, 42).Return(model.Process{}, errors.Wrap(proc.ErrProcessNotFound, "pid 42"))

	_, err := in.Inspect(context.Background(), model.Target{Type: model.TargetPID, Value: "42"}, 42)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrProcessNotFound))
	assert.False(t, errors.Is(err, ErrUnknown))
}

func TestInspectCycle(t *testing.T) {
	t.Parallel()

	in, m := newInspector(t, nil)
	m.EXPECT().FetchProcess(mock.Anything, 10).Return(running(10, 11, "a"), nil)
	m.EXPECT().FetchProcess(mock.Anything, 11).Return(running(11, 10, "b"), nil)
	m.EXPECT().SocketIDs(mock.Anything, mock.Anything).Return(nil)
	m.EXPECT().DetectContainer(mock.Anything, 10).Return("", false)
	m.EXPECT().DetectServiceUnit(mock.Anything, 10).Return("", false)
	m.EXPECT().FileContext(mock.Anything, 10).Return(nil)
	m.EXPECT().ResourceContext(mock.Anything, 10).Return(nil)

	res, err := in.Inspect(context.Background(), model.Target{Type: model.TargetPID, Value: "10"}, 10)
	require.NoError(t, err)
	assert.Equal(t, []int{11, 10}, pids(res.Ancestry))
}

func TestInspectTruncatedChain(t *testing.T) {
	t.Parallel()

	in, m := newInspector(t, nil)
	m.EXPECT().FetchProcess(mock.Anything, 20).Return(running(20, 19, "worker"), nil)
	m.EXPECT().FetchProcess(mock.Anything, 19).Return(model.Process{}, errors.Wrap(proc.ErrUnknown, "permission denied"))
	m.EXPECT().SocketIDs(mock.Anything, mock.Anything).Return(nil)
	m.EXPECT().DetectContainer(mock.Anything, 20).Return("", false)
	m.EXPECT().DetectServiceUnit(mock.Anything, 20).Return("", false)
	m.EXPECT().FileContext(mock.Anything, 20).Return(nil)
	m.EXPECT().ResourceContext(mock.Anything, 20).Return(nil)

	res, err := in.Inspect(context.Background(), model.Target{Type: model.TargetPID, Value: "20"}, 20)
	require.NoError(t, err)
	assert.Equal(t, []int{20}, pids(res.Ancestry))
	assert.Equal(t, model.SourceManual, res.Source.Type)
}

func TestChildren(t *testing.T) {
	t.Parallel()

	in, m := newInspector(t, nil)
	m.EXPECT().ListPIDs(mock.Anything).Return([]int{1, 7, 6, 5, 8}, nil)
	m.EXPECT().FetchProcess(mock.Anything, 5).Return(running(5, 1, "a"), nil)
	m.EXPECT().FetchProcess(mock.Anything, 6).Return(running(6, 5, "b"), nil)
	m.EXPECT().FetchProcess(mock.Anything, 7).Return(running(7, 1, "c"), nil)
	m.EXPECT().FetchProcess(mock.Anything, 8).Return(model.Process{}, proc.ErrProcessNotFound)

	assert.Equal(t, []int{5, 7}, pids(in.Children(context.Background(), 1)))
}
