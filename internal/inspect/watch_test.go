package inspect

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pranshuparmar/witr/internal/proc"
	"github.com/pranshuparmar/witr/pkg/model"
)

func TestWatchReportsLostTarget(t *testing.T) {
	t.Parallel()

	in, m := newInspector(t, nil)
	m.EXPECT().FetchProcess(mock.Anything, 77).Return(running(77, 0, "job"), nil).Once()
	m.EXPECT().FetchProcess(mock.Anything, 77).Return(model.Process{}, proc.ErrProcessNotFound)
	m.EXPECT().SocketIDs(mock.Anything, 77).Return(nil)
	m.EXPECT().DetectContainer(mock.Anything, 77).Return("", false)
	m.EXPECT().DetectServiceUnit(mock.Anything, 77).Return("", false)
	m.EXPECT().FileContext(mock.Anything, 77).Return(nil)
	m.EXPECT().ResourceContext(mock.Anything, 77).Return(nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var frames []Frame
	err := in.Watch(ctx, model.Target{Type: model.TargetPID, Value: "77"}, 77, 5*time.Millisecond, func(f Frame) {
		frames = append(frames, f)
		if len(frames) == 3 {
			cancel()
		}
	})
	require.NoError(t, err)
	require.Len(t, frames, 3)

	assert.False(t, frames[0].Lost)
	assert.NoError(t, frames[0].Err)
	assert.Equal(t, "job", frames[0].Result.Process.Command)

	for _, f := range frames[1:] {
		assert.True(t, f.Lost)
		assert.ErrorIs(t, f.Err, proc.ErrProcessNotFound)
		assert.Equal(t, "job", f.Result.Process.Command)
	}
	assert.Equal(t, []int{1, 2, 3}, []int{frames[0].Tick, frames[1].Tick, frames[2].Tick})
}

func TestWatchInvalidInterval(t *testing.T) {
	t.Parallel()

	in, _ := newInspector(t, nil)
	err := in.Watch(context.Background(), model.Target{}, 1, 0, func(Frame) {})
	assert.Error(t, err)
}
