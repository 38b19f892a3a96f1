package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/k0kubun/pp/v3"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/subosito/gotenv"

	"github.com/ledgerkeep/ingest/pkg/config"
	"github.com/ledgerkeep/ingest/pkg/csv"
	"github.com/ledgerkeep/ingest/pkg/merchant"
	"github.com/ledgerkeep/ingest/pkg/models"
	"github.com/ledgerkeep/ingest/pkg/parser"
	"github.com/ledgerkeep/ingest/pkg/pipeline"
)

var (
	cfgFile      string
	accountID    string
	mappingsPath string
	outputFormat string
	debugDump    bool
)

var rootCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Statement ingestion command-line interface",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

var parseCmd = &cobra.Command{
	Use:   "parse [flags] <statement_file>",
	Short: "Parse a bank statement into candidate transactions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "ingest",
		})
		if debugDump {
			logger.SetLevel(log.DebugLevel)
		}

		cfg, err := config.Load(cfgFile, cmd.Flags())
		if err != nil {
			return err
		}

		catalogue := merchant.DefaultCatalogue()
		if cfg.CataloguePath != "" {
			if catalogue, err = merchant.LoadCatalogue(cfg.CataloguePath); err != nil {
				return err
			}
		}

		var mappings []models.MerchantMapping
		if mappingsPath != "" {
			if mappings, err = merchant.LoadMappings(mappingsPath); err != nil {
				return err
			}
		}

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read statement file: %w", err)
		}

		pl := pipeline.New(parser.New(logger), merchant.New(catalogue, logger), logger)
		pl.MinTextChars = cfg.MinTextChars
		pl.PreviewChars = cfg.PreviewChars

		result, err := pl.ParseFile(data, filepath.Base(args[0]), accountID, mappings)
		if err != nil {
			return err
		}

		if debugDump {
			pp.Println(result)
			return nil
		}

		switch outputFormat {
		case "csv":
			_, err = os.Stdout.Write(csv.Create(result.Transactions, nil))
			return err
		case "table":
			for _, tx := range result.Transactions {
				marker := " "
				if tx.Matched {
					marker = "*"
				}
				fmt.Printf("%s %s | %-40s | %-20s | %10s %s\n",
					marker, tx.Date, tx.Description, tx.MerchantName, tx.Amount.String(), tx.Direction)
			}
			fmt.Printf("\n%d transactions (%d matched, %d unmatched), %d lines skipped\n",
				result.TotalCount, result.MatchedCount, result.UnmatchedCount, len(result.Skipped))
			return nil
		default:
			return fmt.Errorf("unknown output format %q", outputFormat)
		}
	},
}

func init() {
	gotenv.Load()
	decimal.MarshalJSONWithoutQuotes = true

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Config file (default is config.yaml)")

	parseCmd.Flags().StringVar(&accountID, "account", "", "Account ID to stamp on candidates")
	parseCmd.Flags().StringVar(&mappingsPath, "mappings", "", "User merchant mappings YAML file")
	parseCmd.Flags().StringVar(&outputFormat, "output", "table", "Output format: table or csv")
	parseCmd.Flags().BoolVar(&debugDump, "debug", false, "Dump the full parse result")

	rootCmd.AddCommand(parseCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
