package main

import (
	"context"
	"fmt"
	"os"

	"github.com/MKhiriev/vaultlock/internal/client"
	"github.com/MKhiriev/vaultlock/internal/config"
	"github.com/MKhiriev/vaultlock/internal/logger"
	"github.com/MKhiriev/vaultlock/internal/service"
	"github.com/MKhiriev/vaultlock/internal/store"
	"github.com/MKhiriev/vaultlock/internal/tui"
	"github.com/MKhiriev/vaultlock/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "vaultlock:", client.ErrorMessage(err))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.GetStructuredConfig(os.Args[1:])
	if err != nil {
		return err
	}

	buildInfo := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	args := cfg.Args()
	if len(args) > 0 && args[0] == client.CmdVersion {
		fmt.Println(buildInfo)
		return nil
	}

	log := logger.NewClientLogger("vaultlock", cfg.Log.File)
	if err = logger.SetLevel(cfg.Log.Level); err != nil {
		return err
	}

	ctx := context.Background()
	vaultStore, err := store.NewVaultStore(ctx, cfg.Storage, log)
	if err != nil {
		log.Err(err).Msg("create vault store")
		return err
	}

	services, err := service.NewServices(ctx, vaultStore, cfg, log)
	if err != nil {
		log.Err(err).Msg("create services")
		vaultStore.Close()
		return err
	}

	if len(args) == 0 {
		ui := tui.New(services, buildInfo, log)
		if err = client.NewApp(services, ui, vaultStore, log).Run(); err != nil {
			log.Err(err).Msg("client run error")
		}
		return err
	}

	defer vaultStore.Close()
	cli := client.NewCLI(services, os.Stdout, os.Stderr, client.TerminalPasswordReader(os.Stdin, os.Stderr), log)
	if err = cli.Run(ctx, args); err != nil {
		log.Err(err).Str("command", args[0]).Msg("command failed")
	}
	return err
}
