package proc

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/pranshuparmar/witr/pkg/model"
)

func TestSnapshotRefresh(t *testing.T) {
	t.Parallel()

	boot := time.Unix(1700000000, 0)
	table := map[model.SocketID]model.SocketInfo{"7": {Port: 80, State: "LISTEN"}}

	p := NewMockProvider(t)
	p.EXPECT().ConnectionTable(mock.Anything).Return(table).Twice()
	p.EXPECT().BootTime(mock.Anything).Return(boot).Twice()

	now := time.Unix(1700001000, 0)
	snap := NewSnapshot(p, time.Second)
	snap.now = func() time.Time { return now }

	assert.True(t, snap.Stale(), "new snapshot must be stale")

	ctx := context.Background()
	snap.RefreshIfStale(ctx)
	assert.False(t, snap.Stale())
	assert.Equal(t, table, snap.Table())
	assert.Equal(t, boot, snap.BootTime())
	assert.Equal(t, now, snap.TakenAt())

	// fresh snapshots are not re-read
	snap.RefreshIfStale(ctx)

	now = now.Add(1500 * time.Millisecond)
	assert.True(t, snap.Stale())
	snap.RefreshIfStale(ctx)
	assert.False(t, snap.Stale())
}

func TestNewSnapshotDefaultMaxAge(t *testing.T) {
	t.Parallel()

	snap := NewSnapshot(NewMockProvider(t), 0)
	assert.Equal(t, DefaultMaxAge, snap.MaxAge())
}
