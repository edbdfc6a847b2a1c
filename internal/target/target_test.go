package target

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

func newResolver(t *testing.T, table map[model.SocketID]model.SocketInfo) (*Resolver, *proc.MockProvider) {
	t.Helper()
	m := proc.NewMockProvider(t)
	if table != nil {
		m.EXPECT().ConnectionTable(mock.Anything).Return(table)
		m.EXPECT().BootTime(mock.Anything).Return(time.Time{})
	}
	r := NewResolver(m, proc.NewSnapshot(m, time.Minute))
	r.self, r.parent = 9998, 9999
	r.servicePID = func(context.Context, string) (int, bool) { return 0, false }
	return r, m
}

func TestResolvePID(t *testing.T) {
	t.Parallel()

	r, m := newResolver(t, nil)
	m.EXPECT().FetchProcess(mock.Anything, 42).Return(model.Process{PID: 42}, nil)
	m.EXPECT().FetchProcess(mock.Anything, 43).Return(model.Process{}, errors.Wrap(proc.ErrProcessNotFound, "pid 43"))

	pids, err := r.Resolve(context.Background(), model.Target{Type: model.TargetPID, Value: "42"})
	require.NoError(t, err)
	assert.Equal(t, []int{42}, pids)

	_, err = r.Resolve(context.Background(), model.Target{Type: model.TargetPID, Value: "43"})
	assert.True(t, errors.Is(err, proc.ErrProcessNotFound))

	for _, bad := range []string{"abc", "0", "-3"} {
		_, err = r.Resolve(context.Background(), model.Target{Type: model.TargetPID, Value: bad})
		assert.Error(t, err, bad)
		assert.False(t, errors.Is(err, proc.ErrProcessNotFound), bad)
	}
}

func TestResolvePortInode(t *testing.T) {
	t.Parallel()

	r, m := newResolver(t, map[model.SocketID]model.SocketInfo{
		"1001": {Port: 8080, State: "LISTEN", LocalAddr: "0.0.0.0"},
		"1002": {Port: 8080, State: "ESTABLISHED", LocalAddr: "10.0.0.1"},
		"1003": {Port: 22, State: "LISTEN", LocalAddr: "0.0.0.0"},
	})
	m.EXPECT().ListPIDs(mock.Anything).Return([]int{300, 200, 100}, nil)
	m.EXPECT().SocketIDs(mock.Anything, 100).Return([]model.SocketID{"1003"})
	m.EXPECT().SocketIDs(mock.Anything, 200).Return([]model.SocketID{"5", "1001"})
	m.EXPECT().SocketIDs(mock.Anything, 300).Return([]model.SocketID{"1001", "1002"})

	pids, err := r.ResolvePort(context.Background(), 8080)
	require.NoError(t, err)
	assert.Equal(t, []int{200}, pids)
}

func TestResolvePortComposite(t *testing.T) {
	t.Parallel()

	r, _ := newResolver(t, map[model.SocketID]model.SocketInfo{
		"812:5432":   {Port: 5432, State: "LISTEN", LocalAddr: "127.0.0.1"},
		"811:5432#1": {Port: 5432, State: "LISTEN", LocalAddr: "::1"},
	})

	pids, err := r.ResolvePort(context.Background(), 5432)
	require.NoError(t, err)
	assert.Equal(t, []int{811}, pids)
}

func TestResolvePortErrors(t *testing.T) {
	t.Parallel()

	r, m := newResolver(t, map[model.SocketID]model.SocketInfo{
		"77": {Port: 443, State: "LISTEN", LocalAddr: "0.0.0.0"},
	})
	m.EXPECT().ListPIDs(mock.Anything).Return([]int{1}, nil)
	m.EXPECT().SocketIDs(mock.Anything, 1).Return(nil)

	_, err := r.ResolvePort(context.Background(), 80)
	assert.True(t, errors.Is(err, proc.ErrProcessNotFound))

	_, err = r.ResolvePort(context.Background(), 443)
	assert.True(t, errors.Is(err, ErrOwnerNotDetected))

	_, err = r.Resolve(context.Background(), model.Target{Type: model.TargetPort, Value: "70000"})
	assert.Error(t, err)
}

func TestResolveName(t *testing.T) {
	t.Parallel()

	procs := map[int]model.Process{
		10:   {PID: 10, Command: "nginx", Cmdline: "nginx: master process"},
		11:   {PID: 11, Command: "nginx", Cmdline: "nginx: worker process"},
		12:   {PID: 12, Command: "python3", Cmdline: "python3 -m http.server"},
		13:   {PID: 13, Command: "grep", Cmdline: "grep nginx"},
		14:   {PID: 14, Command: "node", Cmdline: "node /srv/Nginx-proxy.js"},
		9998: {PID: 9998, Command: "witr", Cmdline: "witr nginx"},
	}

	tests := map[string]struct {
		name    string
		service int
		want    []int
		wantErr error
	}{
		"substring over name and cmdline": {name: "NGINX", want: []int{10, 11, 14}},
		"cmdline only":                    {name: "http.server", want: []int{12}},
		"no match":                        {name: "redis", wantErr: proc.ErrProcessNotFound},
		"pid as name is skipped":          {name: "12", wantErr: proc.ErrProcessNotFound},
		"service is sole match":           {name: "python3", service: 12, want: []int{12}},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			r, m := newResolver(t, nil)
			m.EXPECT().ListPIDs(mock.Anything).Return([]int{10, 11, 12, 13, 14, 9998, 50}, nil)
			for pid, p := range procs {
				if pid == 9998 {
					continue
				}
				m.EXPECT().FetchProcess(mock.Anything, pid).Return(p, nil).Maybe()
			}
			m.EXPECT().FetchProcess(mock.Anything, 50).Return(model.Process{}, proc.ErrProcessNotFound).Maybe()
			if tc.service > 0 {
				r.servicePID = func(context.Context, string) (int, bool) { return tc.service, true }
			}

			pids, err := r.ResolveName(context.Background(), tc.name)
			if tc.wantErr != nil {
				assert.True(t, errors.Is(err, tc.wantErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, pids)
		})
	}
}

func TestResolveNameAmbiguous(t *testing.T) {
	t.Parallel()

	r, m := newResolver(t, nil)
	r.servicePID = func(context.Context, string) (int, bool) { return 10, true }
	m.EXPECT().ListPIDs(mock.Anything).Return([]int{10, 11}, nil)
	m.EXPECT().FetchProcess(mock.Anything, 10).Return(model.Process{PID: 10, Command: "nginx"}, nil)
	m.EXPECT().FetchProcess(mock.Anything, 11).Return(model.Process{PID: 11, Command: "nginx"}, nil)

	_, err := r.ResolveName(context.Background(), "nginx")
	var amb *AmbiguousError
	require.True(t, errors.As(err, &amb))
	assert.Equal(t, 10, amb.ServicePID)
	assert.Equal(t, []int{10, 11}, amb.PIDs)
}

func TestOwnerHint(t *testing.T) {
	t.Parallel()

	tests := map[model.SocketID]int{
		"812:5432":   812,
		"812:5432#2": 812,
		"123456":     0,
		"x:80":       0,
	}
	for id, want := range tests {
		pid, ok := ownerHint(id)
		assert.Equal(t, want, pid, id)
		assert.Equal(t, want > 0, ok, id)
	}
}
