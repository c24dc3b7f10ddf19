package backend

import (
	"context"
	"errors"
	"fmt"

	"famledger/internal/amqp"
	applog "famledger/internal/log"
	"famledger/internal/medium"
	"famledger/internal/medium/file"
	"famledger/internal/medium/memory"
	"famledger/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *applog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *applog.Logger) Factory {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &DefaultFactory{
		logger: logger.WithComponent(applog.ComponentBackend),
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		res *BackendResult
		err error
	)
	switch config.Type {
	case SQLiteBackend:
		res, err = f.createSQLiteBackend(ctx, config)
	case FileBackend:
		res, err = f.createFileBackend(config)
	case MemoryBackend:
		res, err = f.createMemoryBackend(config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
	if err != nil {
		return nil, err
	}

	f.attachNotifier(ctx, config, res)
	return res, nil
}

func (f *DefaultFactory) createSQLiteBackend(ctx context.Context, config Config) (*BackendResult, error) {
	sqliteRepo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	keys, err := sqliteRepo.Keys(ctx)
	if err != nil {
		sqliteRepo.Close()
		return nil, fmt.Errorf("failed to read SQLite keys: %w", err)
	}
	f.logger.InfoContext(ctx, "Initialized SQLite backend",
		"db_path", config.SQLiteDBPath,
		"stored_keys", len(keys))

	return &BackendResult{
		Medium:  sqliteRepo,
		Cleanup: sqliteRepo.Close,
	}, nil
}

func (f *DefaultFactory) createFileBackend(config Config) (*BackendResult, error) {
	store, err := file.New(config.DataDirectory)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize file backend: %w", err)
	}

	f.logger.Info("Initialized file backend", "data_directory", store.Dir())

	return &BackendResult{
		Medium:  store,
		Cleanup: nil, // every save is already on disk
	}, nil
}

func (f *DefaultFactory) createMemoryBackend(config Config) (*BackendResult, error) {
	var (
		store *memory.Store
		err   error
	)
	if config.DataDirectory == "" {
		store = memory.New()
	} else if store, err = memory.NewFromFiles(config.DataDirectory); err != nil {
		return nil, fmt.Errorf("failed to seed memory backend: %w", err)
	}

	f.logger.Info("Initialized memory backend",
		"data_directory", config.DataDirectory,
		"seeded_keys", len(store.Keys()))

	return &BackendResult{
		Medium:  store,
		Cleanup: store.Close,
	}, nil
}

// attachNotifier connects the optional AMQP publisher. A broker that cannot
// be reached only disables change events.
func (f *DefaultFactory) attachNotifier(ctx context.Context, config Config, res *BackendResult) {
	if config.AMQPURL == "" {
		return
	}

	client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue, f.logger)
	if err != nil {
		f.logger.WarnContext(ctx, "Failed to initialize AMQP client, continuing without change events",
			applog.FieldErrorType, applog.ErrorTypeNetwork,
			applog.FieldError, err)
		return
	}
	f.logger.InfoContext(ctx, "Initialized AMQP client",
		"exchange", config.AMQPExchange,
		"queue", config.AMQPQueue)

	res.Notifier = client
	mediumCleanup := res.Cleanup
	res.Cleanup = func() error {
		err := client.Close()
		if mediumCleanup != nil {
			err = errors.Join(err, mediumCleanup())
		}
		return err
	}
}

var (
	_ medium.Medium = (*storage.SQLiteRepository)(nil)
	_ medium.Medium = (*file.Store)(nil)
	_ medium.Medium = (*memory.Store)(nil)
)
