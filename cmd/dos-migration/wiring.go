package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/ftrs/dos-migration/internal/config"
	"github.com/ftrs/dos-migration/internal/domain/healthcareservice"
	"github.com/ftrs/dos-migration/internal/domain/legacy"
	"github.com/ftrs/dos-migration/internal/domain/location"
	"github.com/ftrs/dos-migration/internal/domain/migrationrun"
	"github.com/ftrs/dos-migration/internal/domain/organisation"
	"github.com/ftrs/dos-migration/internal/domain/triagecode"
	"github.com/ftrs/dos-migration/internal/migration/application"
	"github.com/ftrs/dos-migration/internal/migration/processor"
	"github.com/ftrs/dos-migration/internal/platform/db"
	"github.com/ftrs/dos-migration/internal/platform/docstore"
	"github.com/ftrs/dos-migration/internal/platform/logging"
	"github.com/ftrs/dos-migration/internal/platform/objectstore"
	"github.com/ftrs/dos-migration/internal/referencedata"
	"github.com/ftrs/dos-migration/internal/seeding"
)

// env holds the connections shared by every command.
type env struct {
	cfg    *config.Config
	zl     zerolog.Logger
	log    *logging.Logger
	source *pgxpool.Pool
	target *pgxpool.Pool
	legacy *legacy.RepoPG
	docs   *docstore.StorePG
	tables seeding.TableNamer
}

func loadConfig() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	if err := cfg.Validate(); err != nil {
		return nil, zerolog.Nop(), err
	}
	return cfg, logging.NewRoot(cfg.Env), nil
}

func connect(ctx context.Context) (*env, error) {
	cfg, zl, err := loadConfig()
	if err != nil {
		return nil, err
	}

	source, err := db.NewPool(ctx, cfg.Pool(cfg.SourceDatabaseURL))
	if err != nil {
		return nil, fmt.Errorf("connect to source database: %w", err)
	}
	target := source
	if cfg.TargetDatabaseURL != cfg.SourceDatabaseURL {
		target, err = db.NewPool(ctx, cfg.Pool(cfg.TargetDatabaseURL))
		if err != nil {
			source.Close()
			return nil, fmt.Errorf("connect to target database: %w", err)
		}
	}

	e := &env{
		cfg:    cfg,
		zl:     zl,
		log:    logging.New(zl),
		source: source,
		target: target,
		legacy: legacy.NewRepoPG(source, cfg.SourceSchema),
		docs:   docstore.NewStorePG(target, cfg.TargetSchema),
		tables: seeding.Tables(cfg.TablePrefix, cfg.Env, cfg.Workspace),
	}
	if err := e.ensureTables(ctx); err != nil {
		e.Close()
		return nil, err
	}
	return e, nil
}

func (e *env) Close() {
	if e.target != e.source {
		e.target.Close()
	}
	e.source.Close()
}

func (e *env) pools() map[string]*pgxpool.Pool {
	return map[string]*pgxpool.Pool{"source": e.source, "target": e.target}
}

func (e *env) ensureTables(ctx context.Context) error {
	if err := db.EnsureSchema(ctx, e.target, e.cfg.TargetSchema); err != nil {
		return err
	}
	for _, entity := range docstore.Entities {
		if err := e.docs.EnsureTable(ctx, e.tables(entity)); err != nil {
			return fmt.Errorf("ensure %s table: %w", entity, err)
		}
	}
	return nil
}

func (e *env) stores() processor.Stores {
	return processor.Stores{
		Organisations:      organisation.NewRepoDocstore(e.docs, e.tables(docstore.EntityOrganisation)),
		Locations:          location.NewRepoDocstore(e.docs, e.tables(docstore.EntityLocation)),
		HealthcareServices: healthcareservice.NewRepoDocstore(e.docs, e.tables(docstore.EntityHealthcareService)),
	}
}

func (e *env) triageCodes() *triagecode.RepoDocstore {
	return triagecode.NewRepoDocstore(e.docs, e.tables(docstore.EntityTriageCode))
}

func (e *env) runs() *migrationrun.RepoPG {
	return migrationrun.NewRepoPG(e.target, e.cfg.TargetSchema)
}

// application builds the pipeline. Each record's writes commit together.
func (e *env) application(opts ...processor.Option) *application.Application {
	opts = append([]processor.Option{
		processor.WithBatchSize(e.cfg.BatchSize),
		processor.WithAtomic(func(ctx context.Context, fn func(ctx context.Context) error) error {
			return db.WithTx(ctx, e.target, fn)
		}),
	}, opts...)

	return application.New(e.log, application.Settings{Env: e.cfg.Env, Workspace: e.cfg.Workspace}, application.Deps{
		Services:      e.legacy,
		References:    e.legacy,
		Stores:        e.stores(),
		Runs:          e.runs(),
		ReferenceData: referencedata.NewLoader(e.log, e.legacy, e.triageCodes()),
		Options:       opts,
	})
}

func (e *env) objects() (*objectstore.S3Store, error) {
	return objectstore.NewS3Store(objectstore.Config{
		Endpoint:  e.cfg.S3Endpoint,
		AccessKey: e.cfg.S3AccessKey,
		SecretKey: e.cfg.S3SecretKey,
		Region:    e.cfg.S3Region,
		UseSSL:    e.cfg.S3UseSSL,
	})
}
