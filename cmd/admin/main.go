package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"college-erp/config"
	"college-erp/internal/repository"
	"college-erp/pkg/database"
	applogger "college-erp/pkg/logger"
)

func main() {
	cfg, err := config.Load(os.Getenv("ERP_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := applogger.NewLogger(&cfg.Log, "college-erp-admin")
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}

	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("connect database", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("get sql.DB", zap.Error(err))
	}

	mg, err := database.NewMigrator(sqlDB, logger)
	if err != nil {
		logger.Fatal("init migrator", zap.Error(err))
	}

	cli := commandLine{
		users:    repository.NewUserRepo(db),
		migrator: mg,
	}
	err = cli.run(os.Args)
	sqlDB.Close()
	logger.Sync()
	if err != nil {
		if err != errHelp {
			fmt.Fprintf(os.Stderr, "\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}
