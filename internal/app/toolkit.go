package app

import (
	"fmt"

	"github.com/samvad-hq/fixturekit/internal/config"
	"github.com/samvad-hq/fixturekit/internal/logger"
	"github.com/samvad-hq/fixturekit/internal/storage"
	"github.com/samvad-hq/fixturekit/pkg/apiclient"
	"github.com/samvad-hq/fixturekit/pkg/httpclient"
	"github.com/samvad-hq/fixturekit/pkg/naming"
	"github.com/samvad-hq/fixturekit/pkg/sources"
)

// Toolkit wires configuration, logging, the name ledger and the shared HTTP
// transport for test setup code and the diagnostic binaries.
type Toolkit struct {
	cfg      *config.Config
	log      logger.Logger
	store    storage.Store
	http     httpclient.Client
	reserver *naming.Reserver
}

// NewToolkit builds a toolkit runtime from config.
func NewToolkit(cfg *config.Config, log logger.Logger) (*Toolkit, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = logger.NopLogger{}
	}

	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storage.Options{
		NameTTL:         cfg.NameTTL,
		CleanupInterval: cfg.StorageCleanup,
	})
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.DebugObj("name ledger initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"path":                     cfg.BBoltPath,
		"name_ttl_seconds":         int(cfg.NameTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.StorageCleanup.Seconds()),
	})

	return &Toolkit{
		cfg:      cfg,
		log:      log,
		store:    store,
		http:     httpclient.NewRestyClient(cfg.APITimeout),
		reserver: naming.NewReserver(naming.New(), store, cfg.NameAttempts),
	}, nil
}

// Client returns an ApiClient bound to resource on the configured host. The
// configured access token is sent with every request.
func (t *Toolkit) Client(resource string) *apiclient.Client {
	return apiclient.New(resource, t.cfg.APIHost, t.cfg.APIPathPrefix,
		apiclient.WithHTTPClient(t.http),
		apiclient.WithLogger(t.log),
		apiclient.WithDefaults(apiclient.WithAccessToken(t.cfg.APIAccessToken)),
	)
}

// Sources lists the active data sources with the locally defined tables.
func (t *Toolkit) Sources() (sources.Catalog, error) {
	catalog, err := sources.ListSources(t.cfg.SourcesFile, t.cfg.TablesDir, sources.WithDefinitionExt(t.cfg.TableExt))
	if err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}
	t.log.DebugObj("source catalog loaded", "sources_meta", map[string]any{
		"count": len(catalog),
		"names": catalog.Names(),
	})
	return catalog, nil
}

// ReserveName returns base plus a suffix not handed out before by this ledger.
func (t *Toolkit) ReserveName(base string) (string, error) {
	name, err := t.reserver.Reserve(base)
	if err != nil {
		return "", err
	}
	t.log.DebugObj("name reserved", "name", name)
	return name, nil
}

// NameClaimed reports whether name is held in the ledger and not yet expired.
func (t *Toolkit) NameClaimed(name string) (bool, error) {
	return t.store.Claimed(name)
}

// Close releases the name ledger, logging any error encountered.
func (t *Toolkit) Close() error {
	if t == nil || t.store == nil {
		return nil
	}
	if err := t.store.Close(); err != nil {
		t.log.ErrorObj("storage close failed", "error", err)
		return err
	}
	return nil
}
