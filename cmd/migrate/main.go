package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"sportfund/internal/config"
	"sportfund/internal/database"
	"sportfund/internal/logger"
)

const usage = "usage: migrate <up | down [N] | force V | version>"

func main() {
	logger.Init(os.Getenv("ENV"), os.Getenv("LOG_LEVEL"))
	defer logger.Sync()

	if err := run(os.Args[1:]); err != nil {
		logger.Get().Fatalf("Migration error: %v", err)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		return errors.New(usage)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	mg, err := database.NewMigrator(database.DefaultMigrationsPath, database.NewConfig(cfg).URL())
	if err != nil {
		return err
	}
	defer mg.Close()

	log := logger.Get()

	switch args[0] {
	case "up":
		applied, err := mg.Up()
		if err != nil {
			return err
		}
		if !applied {
			log.Info("No pending migrations")
			return nil
		}
		log.Info("Migrations applied successfully")

	case "down":
		steps, err := intArg(args, 1)
		if err != nil {
			return err
		}
		if err := mg.Down(steps); err != nil {
			return err
		}
		log.Infof("Rolled back %d migration(s)", steps)

	case "force":
		if len(args) < 2 {
			return fmt.Errorf("force needs a version: %s", usage)
		}
		version, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid version %q", args[1])
		}
		if err := mg.Force(version); err != nil {
			return err
		}
		log.Infof("Forced schema version to %d", version)

	case "version":
		version, dirty, ok, err := mg.Version()
		if err != nil {
			return err
		}
		if !ok {
			log.Info("No migrations applied")
			return nil
		}
		log.Infof("Version: %d, Dirty: %v", version, dirty)

	default:
		return fmt.Errorf("unknown command %q: %s", args[0], usage)
	}

	return nil
}

// intArg reads an optional positive count, defaulting to 1.
func intArg(args []string, i int) (int, error) {
	if len(args) <= i {
		return 1, nil
	}
	n, err := strconv.Atoi(args[i])
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid step count %q", args[i])
	}
	return n, nil
}
