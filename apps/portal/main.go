package main

import (
	"log"
	"os"

	"github.com/trezcool/masomo-portal/core"
	logsvc "github.com/trezcool/masomo-portal/services/logger"
	"github.com/trezcool/masomo-portal/storage/localstore"
)

func main() {
	defer os.Exit(0)

	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stderr, "PORTAL : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	// set up the local storage
	var storage core.Storage
	if conf.Storage.Path == "" {
		storage = localstore.NewMemory()
	} else {
		db, err := localstore.Open(conf.Storage.Path)
		if err != nil {
			logger.Fatal("opening local storage", err)
		}
		defer func() {
			if err := db.Close(); err != nil {
				logger.Error("closing local storage", err)
			}
		}()
		storage = db
	}

	// start CLI
	cli := newCommandLine(conf, logger, storage, os.Stdout)
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			log.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}
