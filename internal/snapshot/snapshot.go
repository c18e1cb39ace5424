package snapshot

import (
	"context"
	"reflect"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/calloway/gatelink-core/internal/gate"
)

// Snapshot is the cached view handed to external readers.
type Snapshot struct {
	Devices  []gate.Device `json:"devices"`
	Users    []gate.User   `json:"users"`
	Settings gate.Settings `json:"settings"`
}

// Copy returns an independent copy of the snapshot.
func (s *Snapshot) Copy() *Snapshot {
	if s == nil {
		return nil
	}

	cpy := Snapshot{
		Devices:  make([]gate.Device, len(s.Devices)),
		Users:    make([]gate.User, len(s.Users)),
		Settings: *s.Settings.Copy(),
	}
	for i := range s.Devices {
		cpy.Devices[i] = *s.Devices[i].Copy()
	}
	copy(cpy.Users, s.Users)
	return &cpy
}

// Notifier is told when the cached snapshot was replaced. The MQTT event
// publisher is the production implementation.
type Notifier interface {
	SnapshotChanged(snap *Snapshot)
}

// Logger defines the logging interface used by the Cache.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Cache maintains the {devices, users, settings} snapshot for external
// readers. Refreshes are coalesced: callers arriving while a refresh is in
// flight share that refresh and its result, so concurrent refreshes
// perform exactly one underlying repository read. The cache is replaced
// only when the freshly read state structurally differs from the cached
// one; unchanged refreshes produce no notification.
type Cache struct {
	repo *gate.Repository

	group singleflight.Group

	mu      sync.RWMutex
	current *Snapshot

	notifier Notifier
	logger   Logger
}

// New creates a snapshot cache over the repository.
func New(repo *gate.Repository) *Cache {
	return &Cache{
		repo:   repo,
		logger: noopLogger{},
	}
}

// SetNotifier sets the change notifier.
func (c *Cache) SetNotifier(n Notifier) {
	c.notifier = n
}

// SetLogger sets the logger for the cache.
func (c *Cache) SetLogger(logger Logger) {
	c.logger = logger
}

// Current returns a copy of the cached snapshot, or nil before the first
// refresh.
func (c *Cache) Current() *Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current.Copy()
}

// Refresh reads the repository's current state and replaces the cache if
// it changed. Concurrent callers share one in-flight read.
func (c *Cache) Refresh(ctx context.Context) error {
	_, err, _ := c.group.Do("refresh", func() (any, error) {
		return nil, c.refresh(ctx)
	})
	return err
}

func (c *Cache) refresh(ctx context.Context) error {
	devices, err := c.repo.Devices(ctx)
	if err != nil {
		return err
	}
	users, err := c.repo.Users(ctx)
	if err != nil {
		return err
	}
	settings, err := c.repo.Settings(ctx)
	if err != nil {
		return err
	}

	fresh := &Snapshot{
		Devices:  devices,
		Users:    users,
		Settings: *settings,
	}

	c.mu.Lock()
	unchanged := c.current != nil && reflect.DeepEqual(c.current, fresh)
	if !unchanged {
		c.current = fresh
	}
	c.mu.Unlock()

	if unchanged {
		c.logger.Debug("snapshot unchanged")
		return nil
	}

	c.logger.Info("snapshot refreshed",
		"devices", len(fresh.Devices),
		"users", len(fresh.Users),
	)

	if c.notifier != nil {
		c.notifier.SnapshotChanged(fresh.Copy())
	}
	return nil
}
