package services

import (
	"time"

	"github.com/ghuser/shelfaware/pkg/app"
	"github.com/ghuser/shelfaware/pkg/cache"
	"github.com/ghuser/shelfaware/pkg/logger"
	"github.com/ghuser/shelfaware/services/inventory/domain/repositories"
	"github.com/ghuser/shelfaware/services/inventory/infrastructure/messaging"
	"github.com/ghuser/shelfaware/services/inventory/infrastructure/persistence/postgres"
)

// Services is the application-layer service container for this bounded context.
// It wires domain services with their infrastructure implementations.
type Services struct {
	Events    *EventRecorder
	Feed      *EventFeed
	Tags      *TagBinder
	Presence  *PresenceProjector
	Images    *ImageVersioner
	Items     *ItemService
	ItemTypes *ItemTypeService
	Scans     *ScanIngestor
	Expiry    *ExpiryService
}

// Deps are the collaborators shared by every service. Store and Logger are
// required; the rest default to no-ops.
type Deps struct {
	Store    repositories.Store
	Notifier Notifier
	Cache    StateCache
	Logger   logger.Logger
	Now      func() time.Time
}

// New wires all inventory application services with infrastructure from the
// Application container.
func New(a *app.Application) *Services {
	d := Deps{
		Store:  postgres.NewStore(a.Db),
		Logger: a.Logger,
	}
	if a.EventBus != nil {
		d.Notifier = messaging.NewBusNotifier(a.EventBus)
	}
	if a.Redis != nil {
		d.Cache = cache.NewItemStateCache(a.Redis)
	}
	return NewWithDeps(d)
}

// NewWithDeps wires the services on explicit dependencies.
func NewWithDeps(d Deps) *Services {
	if d.Notifier == nil {
		d.Notifier = nopNotifier{}
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Logger == nil {
		d.Logger = logger.Nop()
	}
	m := newMetrics()

	recorder := &EventRecorder{store: d.Store, notifier: d.Notifier, log: d.Logger, now: d.Now, metrics: m}
	return &Services{
		Events:    recorder,
		Feed:      &EventFeed{store: d.Store},
		Tags:      &TagBinder{store: d.Store, log: d.Logger, now: d.Now, metrics: m},
		Presence:  &PresenceProjector{store: d.Store},
		Images:    &ImageVersioner{store: d.Store, log: d.Logger, now: d.Now, metrics: m},
		Items:     &ItemService{store: d.Store, cache: d.Cache, log: d.Logger, now: d.Now},
		ItemTypes: &ItemTypeService{store: d.Store, now: d.Now},
		Scans:     &ScanIngestor{store: d.Store, recorder: recorder, log: d.Logger, now: d.Now, metrics: m},
		Expiry:    &ExpiryService{store: d.Store, notifier: d.Notifier, log: d.Logger},
	}
}
