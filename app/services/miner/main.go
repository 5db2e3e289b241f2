package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ardanlabs/conf/v3"
	"github.com/ardanlabs/utxochain/foundation/blockchain/client"
	"github.com/ardanlabs/utxochain/foundation/blockchain/keypair"
	"github.com/ardanlabs/utxochain/foundation/blockchain/worker"
	"github.com/ardanlabs/utxochain/foundation/logger"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// build is the git version of this program. It is set using build flags in the makefile.
var build = "develop"

func main() {

	// Construct the application logger.
	log, err := logger.New("MINER")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer log.Sync()

	// Perform the startup and shutdown sequence.
	if err := run(log); err != nil {
		log.Errorw("startup", "ERROR", err)
		log.Sync()
		os.Exit(1)
	}
}

func run(log *zap.SugaredLogger) error {

	// =========================================================================
	// Configuration

	cfg := struct {
		conf.Version
		Node struct {
			PrivateURL string `conf:"default:http://localhost:9080"`
		}
		Miner struct {
			KeyPath      string        `conf:"default:zblock/accounts/miner1.ecdsa"`
			Key          string        `conf:"mask"`
			PollInterval time.Duration `conf:"default:2s"`
		}
	}{
		Version: conf.Version{
			Build: build,
			Desc:  "copyright information here",
		},
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env file: %w", err)
	}

	const prefix = "MINER"
	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	// =========================================================================
	// App Starting

	log.Infow("starting service", "version", build)
	defer log.Infow("shutdown complete")

	out, err := conf.String(&cfg)
	if err != nil {
		return fmt.Errorf("generating config for output: %w", err)
	}
	log.Infow("startup", "config", out)

	// =========================================================================
	// Miner Key

	// A key given in hex or WIF form wins over the key file.
	var kp keypair.Keypair
	switch cfg.Miner.Key {
	case "":
		if kp, err = keypair.Load(cfg.Miner.KeyPath); err != nil {
			return fmt.Errorf("unable to load miner key: %w", err)
		}
	default:
		if kp, err = keypair.Recover(cfg.Miner.Key); err != nil {
			return fmt.Errorf("unable to recover miner key: %w", err)
		}
	}

	log.Infow("startup", "status", "miner key loaded", "address", kp.PublicKey)

	// =========================================================================
	// Start Mining

	ev := func(v string, args ...any) {
		log.Infow(fmt.Sprintf(v, args...), "traceid", "00000000-0000-0000-0000-000000000000")
	}

	w := worker.Run(worker.Config{
		Ledger:       client.New(cfg.Node.PrivateURL),
		MinerAddress: kp.PublicKey,
		PollInterval: cfg.Miner.PollInterval,
		EvHandler:    ev,
	})

	// =========================================================================
	// Shutdown

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	sig := <-shutdown
	log.Infow("shutdown", "status", "shutdown started", "signal", sig)
	defer log.Infow("shutdown", "status", "shutdown complete", "signal", sig)

	w.Shutdown()

	return nil
}
