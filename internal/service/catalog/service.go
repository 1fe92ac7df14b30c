package catalog

import (
	"VoiceCart/entity"
	"VoiceCart/internal/config"
	"VoiceCart/internal/lib/sl"
	"context"
	"log/slog"
	"sync"
	"time"
)

type Repository interface {
	GetMenu(ctx context.Context, restaurantKey string) (*entity.MenuDocument, error)
	UpsertMenu(ctx context.Context, doc *entity.MenuDocument) error
}

type RemoteCatalog interface {
	FetchMenu(ctx context.Context, restaurantKey string) (*entity.MenuDocument, error)
}

type cachedMenu struct {
	menu    entity.Menu
	expires time.Time
}

// Service resolves restaurant menus from the process cache, the repository and
// the remote catalog, in that order. Menus fetched remotely are saved to the repository.
type Service struct {
	repo     Repository
	remote   RemoteCatalog
	cacheTTL time.Duration
	mu       sync.Mutex
	cache    map[string]cachedMenu
	now      func() time.Time
	log      *slog.Logger
}

func NewCatalogService(conf *config.Config, logger *slog.Logger) *Service {
	log := logger.With(sl.Module("catalog"))
	s := &Service{
		cacheTTL: conf.CatalogCacheTTL(),
		cache:    make(map[string]cachedMenu),
		now:      time.Now,
		log:      log,
	}
	if conf.Catalog.BaseURL != "" {
		var credentials *CredentialProvider
		if conf.Catalog.ClientID != "" {
			credentials = NewClientCredentials(
				conf.Catalog.ClientID,
				conf.Catalog.ClientSecret,
				conf.Catalog.TokenURL,
				conf.Catalog.Scopes,
				conf.CatalogTimeout(),
				logger,
			)
		}
		s.remote = NewClient(conf.Catalog.BaseURL, credentials, conf.CatalogTimeout(), logger)
	}
	return s
}

func (s *Service) SetRepository(repo Repository) {
	s.repo = repo
}

func (s *Service) SetRemote(remote RemoteCatalog) {
	s.remote = remote
}

func (s *Service) GetMenu(ctx context.Context, restaurantKey string) (entity.Menu, error) {
	if menu, ok := s.cached(restaurantKey); ok {
		return menu, nil
	}

	if s.repo != nil {
		doc, err := s.repo.GetMenu(ctx, restaurantKey)
		if err != nil {
			return nil, entity.InternalError("reading menu", err)
		}
		if doc != nil {
			return s.remember(restaurantKey, doc.Menu()), nil
		}
	}

	if s.remote != nil {
		doc, err := s.remote.FetchMenu(ctx, restaurantKey)
		if err != nil {
			return nil, entity.InternalError("fetching menu", err)
		}
		if doc != nil {
			s.save(ctx, doc)
			return s.remember(restaurantKey, doc.Menu()), nil
		}
	}

	return nil, entity.NotFoundError("no menu for restaurant %q", restaurantKey)
}

// Invalidate forgets a cached menu, e.g. after the catalog was synced.
func (s *Service) Invalidate(restaurantKey string) {
	s.mu.Lock()
	delete(s.cache, restaurantKey)
	s.mu.Unlock()
}

func (s *Service) cached(restaurantKey string) (entity.Menu, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.cache[restaurantKey]
	if !ok {
		return nil, false
	}
	if s.now().After(entry.expires) {
		delete(s.cache, restaurantKey)
		return nil, false
	}
	return entry.menu, true
}

func (s *Service) remember(restaurantKey string, menu entity.Menu) entity.Menu {
	if s.cacheTTL <= 0 {
		return menu
	}
	s.mu.Lock()
	s.cache[restaurantKey] = cachedMenu{menu: menu, expires: s.now().Add(s.cacheTTL)}
	s.mu.Unlock()
	return menu
}

func (s *Service) save(ctx context.Context, doc *entity.MenuDocument) {
	if s.repo == nil {
		return
	}
	if err := s.repo.UpsertMenu(ctx, doc); err != nil {
		s.log.With(
			slog.String("restaurant", doc.RestaurantKey),
			sl.Err(err),
		).Warn("saving fetched menu")
	}
}
