// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paper-pipeline/internal/archive"
	"github.com/pdiddy/paper-pipeline/internal/collect"
	"github.com/pdiddy/paper-pipeline/internal/keyword"
	"github.com/pdiddy/paper-pipeline/internal/pubmed"
	"github.com/pdiddy/paper-pipeline/internal/report"
	"github.com/pdiddy/paper-pipeline/internal/secrets"
	"github.com/pdiddy/paper-pipeline/internal/sheets"
	"github.com/pdiddy/paper-pipeline/internal/xlsx"
	"github.com/pdiddy/paper-pipeline/pkg/types"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultDelay     = 1 * time.Second
	defaultRetMax    = 1000
	defaultUserAgent = "paper-pipeline/0.1"
	defaultTool      = "paper-pipeline"
	defaultOutDir    = "output"
)

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Query the configured journals and write the workbook",
	Long: `Collect queries each configured journal on PubMed for the given date
window, deduplicates the results by PMID, filters them by keyword
expressions, and writes the workbook plus a YAML run report.

Keywords are comma-separated clauses; "+" joins alternatives into one
sheet: "enzyme, Alphafold+ESMfold" produces two keyword sheets.`,
	RunE: runCollect,
}

func init() {
	collectCmd.Flags().String("from", "", "date range start (YYYY-MM-DD)")
	collectCmd.Flags().String("to", "", "date range end (YYYY-MM-DD)")
	collectCmd.Flags().Int("days", 0, "query the last N days instead of --from/--to")
	collectCmd.Flags().String("keywords", "", "keyword expression, e.g. \"enzyme, Alphafold+ESMfold\"")
	collectCmd.Flags().String("journals-file", "", "YAML file listing journals to query")
	collectCmd.Flags().String("out-dir", "", "output directory (default \"output\")")
	collectCmd.Flags().Duration("delay", 0, "wait between journal queries (default 1s)")
	collectCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 30s)")
	collectCmd.Flags().Int("retmax", 0, "maximum PMIDs per journal (default 1000)")
	collectCmd.Flags().String("email", "", "contact email sent to NCBI")
	collectCmd.Flags().String("api-key", "", "NCBI API key")
	collectCmd.Flags().Bool("archive", false, "also archive collected records to SQLite")
	collectCmd.Flags().String("archive-path", "", "archive database file (default \"<out-dir>/papers.db\")")

	rootCmd.AddCommand(collectCmd)
}

func runCollect(cmd *cobra.Command, args []string) error {
	r, err := resolveRange(cmd)
	if err != nil {
		return err
	}

	rawKeywords, _ := cmd.Flags().GetString("keywords")
	groups := keyword.Parse(rawKeywords)

	journals, err := resolveJournals(cmd)
	if err != nil {
		return err
	}

	cfg := pubmedConfig(cmd)
	outDir := stringFlagOr(cmd, "out-dir", viper.GetString("output.dir"), defaultOutDir)

	fmt.Fprintf(os.Stderr, "Collecting %d journals, %s\n", len(journals), r)
	if len(groups) > 0 {
		names := make([]string, len(groups))
		for i, g := range groups {
			names[i] = g.Name
		}
		fmt.Fprintf(os.Stderr, "Keyword groups: %v\n", names)
	}

	client := pubmed.New(cfg)
	result, err := collect.Collect(context.Background(), client, journals, r, cfg.RequestDelay, os.Stderr)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Collected %d papers, %d journal(s) failed\n", result.Total(), result.Failures())

	wb := sheets.Assemble(r, result, groups, time.Now())

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory %s: %w", outDir, err)
	}
	path := filepath.Join(outDir, xlsx.FileName(r))
	if err := xlsx.Write(wb, path); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", path)

	groupNames := make([]string, len(groups))
	for i, g := range groups {
		groupNames[i] = g.Name
	}
	reportPath := path + ".report.yaml"
	if err := report.Write(reportPath, r, groupNames, result.Statuses, result.Total(), filepath.Base(path), time.Now()); err != nil {
		fmt.Fprintf(os.Stderr, "warning: run report not written: %v\n", err)
	}

	if enabled, _ := cmd.Flags().GetBool("archive"); enabled {
		if err := archiveRun(cmd, outDir, r, result); err != nil {
			fmt.Fprintf(os.Stderr, "warning: archive not updated: %v\n", err)
		}
	}

	return nil
}

// resolveRange builds the date range from --days or --from/--to.
func resolveRange(cmd *cobra.Command) (types.DateRange, error) {
	days, _ := cmd.Flags().GetInt("days")
	fromStr, _ := cmd.Flags().GetString("from")
	toStr, _ := cmd.Flags().GetString("to")

	if days > 0 {
		if fromStr != "" || toStr != "" {
			return types.DateRange{}, fmt.Errorf("--days cannot be combined with --from/--to")
		}
		return types.LastDays(days, time.Now())
	}

	if fromStr == "" || toStr == "" {
		return types.DateRange{}, fmt.Errorf("provide --from and --to, or --days")
	}
	from, err := time.Parse(types.DateFormat, fromStr)
	if err != nil {
		return types.DateRange{}, fmt.Errorf("invalid --from %q: use YYYY-MM-DD", fromStr)
	}
	to, err := time.Parse(types.DateFormat, toStr)
	if err != nil {
		return types.DateRange{}, fmt.Errorf("invalid --to %q: use YYYY-MM-DD", toStr)
	}
	return types.NewDateRange(from, to)
}

// resolveJournals picks the journal list: --journals-file, then config,
// then the built-in default set.
func resolveJournals(cmd *cobra.Command) ([]string, error) {
	if path, _ := cmd.Flags().GetString("journals-file"); path != "" {
		return collect.LoadJournals(path)
	}
	if configured := viper.GetStringSlice("journals"); len(configured) > 0 {
		return configured, nil
	}
	return collect.DefaultJournals, nil
}

// pubmedConfig builds the client configuration from flags, config file,
// and loaded secrets, in that precedence order.
func pubmedConfig(cmd *cobra.Command) types.PubMedConfig {
	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = viper.GetDuration("pubmed.timeout")
	}
	if timeout == 0 {
		timeout = defaultTimeout
	}
	delay, _ := cmd.Flags().GetDuration("delay")
	if delay == 0 {
		delay = viper.GetDuration("pubmed.request_delay")
	}
	if delay == 0 {
		delay = defaultDelay
	}
	retMax, _ := cmd.Flags().GetInt("retmax")
	if retMax == 0 {
		retMax = viper.GetInt("pubmed.ret_max")
	}
	if retMax == 0 {
		retMax = defaultRetMax
	}

	email, _ := cmd.Flags().GetString("email")
	if email == "" {
		email = viper.GetString("pubmed.email")
	}
	apiKey, _ := cmd.Flags().GetString("api-key")
	if apiKey == "" {
		apiKey = viper.GetString("pubmed.api_key")
	}

	return types.PubMedConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: defaultUserAgent,
		},
		Tool:         defaultTool,
		Email:        secretDefault(secrets.NCBIEmail, email),
		APIKey:       secretDefault(secrets.NCBIAPIKey, apiKey),
		RetMax:       retMax,
		RequestDelay: delay,
	}
}

// archiveRun appends the collected records to the SQLite archive.
func archiveRun(cmd *cobra.Command, outDir string, r types.DateRange, result collect.Result) error {
	path, _ := cmd.Flags().GetString("archive-path")
	if path == "" {
		path = viper.GetString("archive.path")
	}
	if path == "" {
		path = filepath.Join(outDir, "papers.db")
	}

	store, err := archive.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	return store.Record(context.Background(), r, result.Papers, time.Now())
}

// stringFlagOr returns the flag value, then the config value, then fallback.
func stringFlagOr(cmd *cobra.Command, flag, configured, fallback string) string {
	if v, _ := cmd.Flags().GetString(flag); v != "" {
		return v
	}
	if configured != "" {
		return configured
	}
	return fallback
}
