package testfixtures

import (
	"log/slog"
	"time"

	"github.com/example/effort-scheduler/internal/application"
	"github.com/example/effort-scheduler/internal/persistence"
)

// ServiceFactory assists tests with constructing the scheduler service using
// deterministic identifiers and clocks.
type ServiceFactory struct {
	Clock       *Clock
	IDGenerator *IDGenerator
}

// ServiceFactoryOption configures a ServiceFactory instance.
type ServiceFactoryOption func(*ServiceFactory)

// NewServiceFactory constructs a ServiceFactory with defaults.
func NewServiceFactory(opts ...ServiceFactoryOption) *ServiceFactory {
	factory := &ServiceFactory{
		Clock:       NewClock(time.Time{}),
		IDGenerator: NewIDGenerator("segment"),
	}
	for _, opt := range opts {
		opt(factory)
	}
	if factory.Clock == nil {
		factory.Clock = NewClock(time.Time{})
	}
	if factory.IDGenerator == nil {
		factory.IDGenerator = NewIDGenerator("segment")
	}
	return factory
}

// WithClock overrides the clock used by the factory.
func WithClock(clock *Clock) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Clock = clock
	}
}

// WithIDGenerator overrides the identifier generator used by the factory.
func WithIDGenerator(generator *IDGenerator) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.IDGenerator = generator
	}
}

// SchedulerServiceDeps captures dependencies for constructing the scheduler
// service.
type SchedulerServiceDeps struct {
	Store       persistence.TaskStore
	IDGenerator func() string
	Now         func() time.Time
	Logger      *slog.Logger
}

// NewSchedulerService builds a scheduler service using the supplied
// dependencies combined with the factory defaults.
func (f *ServiceFactory) NewSchedulerService(deps SchedulerServiceDeps) *application.SchedulerService {
	idGen := deps.IDGenerator
	if idGen == nil {
		idGen = f.IDGenerator.NextFunc()
	}
	now := deps.Now
	if now == nil {
		now = f.Clock.NowFunc()
	}
	return application.NewSchedulerServiceWithLogger(
		deps.Store,
		idGen,
		now,
		deps.Logger,
	)
}
