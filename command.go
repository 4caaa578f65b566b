package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ga4gh/rnaget-compliance-suite/client"
	"github.com/ga4gh/rnaget-compliance-suite/config"
	"github.com/ga4gh/rnaget-compliance-suite/output"
	"github.com/ga4gh/rnaget-compliance-suite/report"
	"github.com/ga4gh/rnaget-compliance-suite/rnagettests"
	"github.com/ga4gh/rnaget-compliance-suite/runner"
	"github.com/ga4gh/rnaget-compliance-suite/server"
)

const defaultOutputDir = "rnaget-compliance-results"
const defaultUptime = "3600"
const defaultConcurrency = 4

type reportParams struct {
	configPath  string
	outputDir   string
	serve       bool
	uptime      string
	noTar       bool
	force       bool
	pretty      bool
	concurrency int
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "rnaget-compliance",
		Short: "Compliance testing suite for RNAget API implementations",
		// Setup errors are reported by us with usage; cobra should not
		// repeat the usage text for errors returned from RunE.
		SilenceUsage: true,
	}
	root.AddCommand(newReportCommand())
	return root
}

func newReportCommand() *cobra.Command {
	var p reportParams
	cmd := &cobra.Command{
		Use:   "report",
		Short: "run the compliance suite against a server and generate a report",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(p)
		},
	}
	cmd.Flags().StringVarP(&p.configPath, "config", "c", "", "path to the server config YAML file (required)")
	cmd.Flags().StringVarP(&p.outputDir, "output-dir", "o", defaultOutputDir, "path to the output results/web directory")
	cmd.Flags().BoolVar(&p.serve, "serve", false, "serve the finished report over HTTP")
	cmd.Flags().StringVarP(&p.uptime, "uptime", "u", defaultUptime, "seconds the report server stays up")
	cmd.Flags().BoolVar(&p.noTar, "no-tar", false, "skip creation of the gzipped tarball")
	cmd.Flags().BoolVarP(&p.force, "force", "f", false, "overwrite the output directory if it exists")
	cmd.Flags().BoolVarP(&p.pretty, "pretty", "p", false, "pretty-print the results JSON")
	cmd.Flags().IntVar(&p.concurrency, "concurrency", defaultConcurrency, "max object instances tested at once")
	_ = cmd.MarkFlagRequired("config")
	return cmd
}

// runReport is the whole pipeline: validate arguments, load config,
// prepare the output directory, run the tests, convert and write the
// report, archive it, and optionally serve it. A completed run returns
// nil no matter how many tests failed; only setup and conversion
// problems are errors.
func runReport(p reportParams) error {
	log := logrus.StandardLogger()
	log.Info("starting RNAget compliance testing")

	uptimeSeconds, err := strconv.Atoi(p.uptime)
	if err != nil || uptimeSeconds < 0 {
		return fmt.Errorf("server uptime %q is not a valid integer", p.uptime)
	}

	log.WithField("path", p.configPath).Info("parsing config file")
	cfg, err := config.Load(p.configPath)
	if err != nil {
		return err
	}

	outputDir, err := output.Prepare(p.outputDir, p.force)
	if err != nil {
		return err
	}

	apiClient := client.New(cfg.BaseURL, cfg.Token)
	reg := rnagettests.BuildRegistry()
	r := runner.New(cfg, apiClient, reg,
		runner.WithTestLogger(newConsoleTestLogger()),
		runner.WithMaxConcurrency(p.concurrency),
	)

	log.WithField("server", cfg.ServerName).Info("starting tests")
	resultSet, err := r.Run()
	if err != nil {
		return err
	}

	rep, err := report.Convert(resultSet)
	if err != nil {
		return fmt.Errorf("report conversion failed: %w", err)
	}

	resultsPath, err := output.WriteResults(outputDir, rep, p.pretty)
	if err != nil {
		return err
	}
	log.WithField("path", resultsPath).Info("all tests complete, results json written")

	if !p.noTar {
		archivePath, err := output.Archive(outputDir)
		if err != nil {
			return err
		}
		log.WithField("path", archivePath).Info("gzipped tarball of results directory created")
	}

	if p.serve {
		srv := server.New(outputDir)
		if err := srv.Listen(); err != nil {
			return err
		}
		log.WithField("url", srv.URL()).Infof("serving report for %d seconds", uptimeSeconds)
		return srv.Serve(time.Duration(uptimeSeconds) * time.Second)
	}

	log.Infof("report can be served from %s with any static file server", outputDir)
	return nil
}
