package proc

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/pranshuparmar/witr/pkg/model"
)

// MockProvider is a testify mock of Provider.
type MockProvider struct {
	mock.Mock
}

// NewMockProvider creates a MockProvider whose expectations are asserted
// when the test ends.
func NewMockProvider(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockProvider {
	m := &MockProvider{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// MockProviderExpecter records expectations with typed method names.
type MockProviderExpecter struct {
	mock *mock.Mock
}

func (m *MockProvider) EXPECT() *MockProviderExpecter {
	return &MockProviderExpecter{mock: &m.Mock}
}

func (m *MockProvider) FetchProcess(ctx context.Context, pid int) (model.Process, error) {
	ret := m.Called(ctx, pid)
	return ret.Get(0).(model.Process), ret.Error(1)
}

func (e *MockProviderExpecter) FetchProcess(ctx, pid any) *mock.Call {
	return e.mock.On("FetchProcess", ctx, pid)
}

func (m *MockProvider) SocketIDs(ctx context.Context, pid int) []model.SocketID {
	ret := m.Called(ctx, pid)
	ids, _ := ret.Get(0).([]model.SocketID)
	return ids
}

func (e *MockProviderExpecter) SocketIDs(ctx, pid any) *mock.Call {
	return e.mock.On("SocketIDs", ctx, pid)
}

func (m *MockProvider) ConnectionTable(ctx context.Context) map[model.SocketID]model.SocketInfo {
	ret := m.Called(ctx)
	table, _ := ret.Get(0).(map[model.SocketID]model.SocketInfo)
	return table
}

func (e *MockProviderExpecter) ConnectionTable(ctx any) *mock.Call {
	return e.mock.On("ConnectionTable", ctx)
}

func (m *MockProvider) DetectContainer(ctx context.Context, pid int) (string, bool) {
	ret := m.Called(ctx, pid)
	return ret.String(0), ret.Bool(1)
}

func (e *MockProviderExpecter) DetectContainer(ctx, pid any) *mock.Call {
	return e.mock.On("DetectContainer", ctx, pid)
}

func (m *MockProvider) DetectServiceUnit(ctx context.Context, pid int) (string, bool) {
	ret := m.Called(ctx, pid)
	return ret.String(0), ret.Bool(1)
}

func (e *MockProviderExpecter) DetectServiceUnit(ctx, pid any) *mock.Call {
	return e.mock.On("DetectServiceUnit", ctx, pid)
}

func (m *MockProvider) ServiceDetails(ctx context.Context, unit string) ServiceDetails {
	ret := m.Called(ctx, unit)
	return ret.Get(0).(ServiceDetails)
}

func (e *MockProviderExpecter) ServiceDetails(ctx, unit any) *mock.Call {
	return e.mock.On("ServiceDetails", ctx, unit)
}

func (m *MockProvider) ListPIDs(ctx context.Context) ([]int, error) {
	ret := m.Called(ctx)
	pids, _ := ret.Get(0).([]int)
	return pids, ret.Error(1)
}

func (e *MockProviderExpecter) ListPIDs(ctx any) *mock.Call {
	return e.mock.On("ListPIDs", ctx)
}

func (m *MockProvider) BootTime(ctx context.Context) time.Time {
	ret := m.Called(ctx)
	return ret.Get(0).(time.Time)
}

func (e *MockProviderExpecter) BootTime(ctx any) *mock.Call {
	return e.mock.On("BootTime", ctx)
}

func (m *MockProvider) FileContext(ctx context.Context, pid int) *model.FileContext {
	ret := m.Called(ctx, pid)
	fc, _ := ret.Get(0).(*model.FileContext)
	return fc
}

func (e *MockProviderExpecter) FileContext(ctx, pid any) *mock.Call {
	return e.mock.On("FileContext", ctx, pid)
}

func (m *MockProvider) ResourceContext(ctx context.Context, pid int) *model.ResourceContext {
	ret := m.Called(ctx, pid)
	rc, _ := ret.Get(0).(*model.ResourceContext)
	return rc
}

func (e *MockProviderExpecter) ResourceContext(ctx, pid any) *mock.Call {
	return e.mock.On("ResourceContext", ctx, pid)
}
