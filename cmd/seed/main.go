package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"gorm.io/gorm"

	"promatch.backend/internal/config"
	"promatch.backend/internal/domain/entities"
	"promatch.backend/internal/infrastructure/datasources/postgres"
	"promatch.backend/internal/infrastructure/repositories"
	"promatch.backend/internal/usecases"
)

var openSeedDB = func(cfg config.DatabaseConfig) (*gorm.DB, error) {
	sqlDB, err := postgres.NewConnection(cfg)
	if err != nil {
		return nil, err
	}
	return postgres.OpenGorm(sqlDB)
}

type seeder interface {
	Seed(ctx context.Context, catalog entities.ReferenceCatalog) (map[entities.ReferenceKind]int64, error)
}

type seedDeps struct {
	loadEnv func() error
	loadCfg func() *config.Config
	prepare func(cfg *config.Config) (seeder, io.Closer, error)
	out     io.Writer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func defaultSeedDeps() seedDeps {
	return seedDeps{
		loadEnv: func() error { return godotenv.Load() },
		loadCfg: config.Load,
		prepare: func(cfg *config.Config) (seeder, io.Closer, error) {
			db, err := openSeedDB(cfg.Database)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to connect db: %w", err)
			}
			sqlDB, err := db.DB()
			if err != nil {
				return nil, nil, fmt.Errorf("failed to init sql db: %w", err)
			}
			return usecases.NewReferenceUsecase(repositories.NewReferenceRepository(db)), sqlDB, nil
		},
		out: os.Stdout,
	}
}

// selectCatalog restricts the catalog to a comma separated list of tables
func selectCatalog(catalog entities.ReferenceCatalog, only string) (entities.ReferenceCatalog, error) {
	if strings.TrimSpace(only) == "" {
		return catalog, nil
	}
	selected := entities.ReferenceCatalog{}
	for _, raw := range strings.Split(only, ",") {
		kind := entities.ReferenceKind(strings.TrimSpace(raw))
		names, ok := catalog[kind]
		if !ok {
			return nil, fmt.Errorf("unknown table %q (want one of roles, locations, languages, subjects)", kind)
		}
		selected[kind] = names
	}
	return selected, nil
}

func runSeed(args []string, deps seedDeps) error {
	def := defaultSeedDeps()
	if deps.loadEnv == nil {
		deps.loadEnv = def.loadEnv
	}
	if deps.loadCfg == nil {
		deps.loadCfg = def.loadCfg
	}
	if deps.prepare == nil {
		deps.prepare = def.prepare
	}
	if deps.out == nil {
		deps.out = def.out
	}

	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	onlyFlag := fs.String("only", "", "comma separated tables to seed (default: all)")
	dryRun := fs.Bool("dry-run", false, "print the catalog without touching the database")
	if err := fs.Parse(args); err != nil {
		return err
	}

	catalog, err := selectCatalog(entities.DefaultReferenceCatalog(), *onlyFlag)
	if err != nil {
		return err
	}

	if *dryRun {
		for _, kind := range entities.ReferenceKinds {
			if names, ok := catalog[kind]; ok {
				_, _ = fmt.Fprintf(deps.out, "%s: %s\n", kind, strings.Join(names, ", "))
			}
		}
		return nil
	}

	if err := deps.loadEnv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := deps.loadCfg()
	runtime, closer, err := deps.prepare(cfg)
	if err != nil {
		return err
	}
	if closer == nil {
		closer = nopCloser{}
	}
	defer closer.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	inserted, err := runtime.Seed(ctx, catalog)
	if err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}

	for _, kind := range entities.ReferenceKinds {
		if names, ok := catalog[kind]; ok {
			_, _ = fmt.Fprintf(deps.out, "%s: %d inserted, %d in catalog\n", kind, inserted[kind], len(names))
		}
	}
	return nil
}

func main() {
	if err := runSeed(os.Args[1:], defaultSeedDeps()); err != nil {
		log.Fatal(err)
	}
}
