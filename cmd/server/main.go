package main

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"
	"github.com/spf13/pflag"
	"github.com/subosito/gotenv"

	"github.com/ledgerkeep/ingest/pkg/config"
	"github.com/ledgerkeep/ingest/pkg/importer"
	"github.com/ledgerkeep/ingest/pkg/merchant"
	"github.com/ledgerkeep/ingest/pkg/parser"
	"github.com/ledgerkeep/ingest/pkg/pipeline"
	"github.com/ledgerkeep/ingest/pkg/server"
	"github.com/ledgerkeep/ingest/pkg/store/inmemory"
)

func main() {
	_ = gotenv.Load()
	decimal.MarshalJSONWithoutQuotes = true

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    true,
		ReportTimestamp: true,
		Prefix:          "ingest",
	})

	cfgFile := pflag.StringP("config", "c", "", "Config file (default is config.yaml)")
	pflag.String("listen_addr", "0.0.0.0:3000", "Listen address")
	pflag.String("catalogue_path", "", "Known-merchant catalogue YAML file")
	pflag.Parse()

	cfg, err := config.Load(*cfgFile, pflag.CommandLine)
	if err != nil {
		logger.Fatal("failed to load config", "err", err)
	}

	catalogue := merchant.DefaultCatalogue()
	if cfg.CataloguePath != "" {
		loaded, err := merchant.LoadCatalogue(cfg.CataloguePath)
		if err != nil {
			logger.Fatal("failed to load merchant catalogue", "err", err)
		}
		catalogue = loaded
		logger.Info("loaded merchant catalogue", "path", cfg.CataloguePath, "merchants", len(catalogue))
	}

	pl := pipeline.New(parser.New(logger), merchant.New(catalogue, logger), logger)
	pl.MinTextChars = cfg.MinTextChars
	pl.PreviewChars = cfg.PreviewChars

	st := inmemory.New()
	srv := server.New(cfg, logger, pl, importer.New(st, logger), st)

	logger.Info("starting server", "addr", cfg.ListenAddr)
	if err := srv.Start(cfg.ListenAddr); err != nil {
		logger.Fatal("server error", "err", err)
	}
}
