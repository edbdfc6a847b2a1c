package proc

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/pranshuparmar/witr/pkg/model"
)

var (
	// ErrProcessNotFound is returned when no process exists for a pid.
	ErrProcessNotFound = errors.New("process not found")
	// ErrUnknown wraps adapter failures that have no better description.
	ErrUnknown = errors.New("unknown error")
)

// ServiceDetails describes the unit a process was started from.
type ServiceDetails struct {
	UnitFile string
	Restarts int
	Triggers []string
}

// Provider is the set of OS queries the attribution engine depends on. One
// implementation exists per platform and is selected by NewProvider.
// Every method except FetchProcess and ListPIDs degrades to an empty
// answer instead of failing.
type Provider interface {
	// FetchProcess returns the raw record for pid or ErrProcessNotFound.
	FetchProcess(ctx context.Context, pid int) (model.Process, error)
	// SocketIDs lists the sockets held by pid, in listing order.
	SocketIDs(ctx context.Context, pid int) []model.SocketID
	// ConnectionTable reads and decodes the host connection table.
	ConnectionTable(ctx context.Context) map[model.SocketID]model.SocketInfo
	DetectContainer(ctx context.Context, pid int) (string, bool)
	DetectServiceUnit(ctx context.Context, pid int) (string, bool)
	ServiceDetails(ctx context.Context, unit string) ServiceDetails
	ListPIDs(ctx context.Context) ([]int, error)
	BootTime(ctx context.Context) time.Time
	FileContext(ctx context.Context, pid int) *model.FileContext
	ResourceContext(ctx context.Context, pid int) *model.ResourceContext
}

type providerOptions struct {
	lookupTTL time.Duration
}

// ProviderOption configures NewProvider.
type ProviderOption func(*providerOptions)

// WithLookupTTL bounds how long uid to user name lookups are reused.
func WithLookupTTL(d time.Duration) ProviderOption {
	return func(o *providerOptions) {
		o.lookupTTL = d
	}
}

// NewProvider returns the Provider for the running platform.
func NewProvider(opts ...ProviderOption) Provider {
	o := providerOptions{lookupTTL: 2 * time.Second}
	for _, opt := range opts {
		opt(&o)
	}
	return newPlatformProvider(o)
}
