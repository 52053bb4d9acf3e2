package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"soa-reconciliation-service/cmd/soarecon/config"
	"soa-reconciliation-service/internal/reconciler"
	"soa-reconciliation-service/internal/reporter"
	"soa-reconciliation-service/internal/templates"
)

// Flags for the reconcile command
var (
	soaFile         string
	soaSheet        string
	soaDateColumn   string
	soaAmountColumn string
	refFiles        []string
	mappingFlags    []string
	refSheets       []string
	refDateCols     []string
	refAmountCols   []string
	templateName    string
	saveTemplate    string
	templateDir     string
	outputFormat    string
	outputFile      string
	runDate         string
	workers         int
)

// reconcileCmd represents the reconcile command
var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Reconcile a statement of account against reference files",
	Long: `Reconcile compares every SOA record against one or more reference
files using the configured field mappings, computes amount variance and
record age, and classifies each record as a full, partial, ambiguous or
unmatched record.

Reference files are processed in the order given; that order decides
match-source annotation and which reference amount the variance uses.

Examples:
  # Exact matching on one key column
  soarecon reconcile --soa-file soa.csv --ref-files ledger.csv \
    --map "ledger:Invoice No=InvoiceNumber" \
    --soa-amount-column Amount --ref-amount-column ledger:Total

  # Fuzzy key with a custom threshold, plus age bucketing
  soarecon reconcile --soa-file soa.xlsx --ref-files ap.csv,gl.csv \
    --map "ap:Invoice No=Inv:fuzzy:0.9" --map "gl:Invoice No=DocNo" \
    --soa-date-column "Invoice Date" --run-date 2024-06-30

  # Replay a saved template against a fresh statement
  soarecon reconcile --soa-file june.xlsx --template monthly-close \
    --output-format xlsx --output-file june_report.xlsx`,

	PreRunE: validateReconcileFlags,
	RunE:    runReconcile,
}

func init() {
	rootCmd.AddCommand(reconcileCmd)

	reconcileCmd.Flags().StringVarP(&soaFile, "soa-file", "s", "", "path to the SOA file, CSV or XLSX (required)")
	reconcileCmd.Flags().StringVar(&soaSheet, "soa-sheet", "", "worksheet name when the SOA file is a workbook")
	reconcileCmd.Flags().StringVar(&soaDateColumn, "soa-date-column", "", "SOA column used for age bucketing")
	reconcileCmd.Flags().StringVar(&soaAmountColumn, "soa-amount-column", "", "SOA column used for amount variance")

	reconcileCmd.Flags().StringSliceVarP(&refFiles, "ref-files", "r", []string{}, "ordered comma-separated reference file paths")
	reconcileCmd.Flags().StringArrayVarP(&mappingFlags, "map", "m", []string{}, "field mapping SOURCE:SOA_COL=REF_COL[:MODE[:THRESHOLD]] (repeatable)")
	reconcileCmd.Flags().StringArrayVar(&refSheets, "ref-sheet", []string{}, "worksheet per source, SOURCE:SHEET (repeatable)")
	reconcileCmd.Flags().StringArrayVar(&refDateCols, "ref-date-column", []string{}, "date column per source, SOURCE:COLUMN (repeatable)")
	reconcileCmd.Flags().StringArrayVar(&refAmountCols, "ref-amount-column", []string{}, "amount column per source, SOURCE:COLUMN (repeatable)")

	reconcileCmd.Flags().StringVarP(&templateName, "template", "t", "", "load mappings from a saved template")
	reconcileCmd.Flags().StringVar(&saveTemplate, "save-template", "", "save this run's mappings under the given template name")
	reconcileCmd.Flags().StringVar(&templateDir, "template-dir", templates.DefaultDir(), "directory holding saved templates")

	reconcileCmd.Flags().StringVarP(&outputFormat, "output-format", "f", "console", "output format: console, json, csv, xlsx")
	reconcileCmd.Flags().StringVarP(&outputFile, "output-file", "o", "", "report file path (required for json, csv and xlsx)")
	reconcileCmd.Flags().StringVar(&runDate, "run-date", "", "age computation anchor date, YYYY-MM-DD (default today)")
	reconcileCmd.Flags().IntVarP(&workers, "workers", "w", reconciler.DefaultWorkers, "concurrent record workers")

	reconcileCmd.MarkFlagRequired("soa-file")

	viper.BindPFlag("output-format", reconcileCmd.Flags().Lookup("output-format"))
	viper.BindPFlag("workers", reconcileCmd.Flags().Lookup("workers"))
}

func validateReconcileFlags(cmd *cobra.Command, args []string) error {
	outputFormat = viper.GetString("output-format")
	workers = viper.GetInt("workers")

	if soaFile == "" {
		return fmt.Errorf("soa-file is required")
	}
	if templateName == "" && len(refFiles) == 0 {
		return fmt.Errorf("either --ref-files with --map, or --template, is required")
	}
	if templateName != "" && len(refFiles) > 0 {
		return fmt.Errorf("--template and --ref-files are mutually exclusive")
	}

	if err := validateFileExists(soaFile, "SOA file"); err != nil {
		return err
	}
	for i, refFile := range refFiles {
		if err := validateFileExists(refFile, fmt.Sprintf("reference file %d", i+1)); err != nil {
			return err
		}
	}

	format, err := reporter.ParseFormat(outputFormat)
	if err != nil {
		return err
	}
	if format != reporter.FormatConsole && outputFile == "" {
		return fmt.Errorf("--output-file is required for %s output", format)
	}
	if outputFile != "" {
		dir := filepath.Dir(outputFile)
		if dir != "." {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				return fmt.Errorf("output directory does not exist: %s", dir)
			}
		}
	}

	if _, err := config.ParseRunDate(runDate); err != nil {
		return err
	}
	if workers < 0 {
		return fmt.Errorf("workers cannot be negative")
	}

	return nil
}

func validateFileExists(filePath, description string) error {
	if filePath == "" {
		return fmt.Errorf("%s path cannot be empty", description)
	}

	info, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return fmt.Errorf("%s does not exist: %s", description, filePath)
	}
	if err != nil {
		return fmt.Errorf("error accessing %s: %w", description, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory, expected a file: %s", description, filePath)
	}

	return nil
}

func runReconcile(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	handler := NewCLIErrorHandler()

	tmpl, err := resolveTemplate()
	if err != nil {
		os.Exit(handler.HandleError(err))
	}

	request, err := config.BuildRequest(tmpl, soaFile, soaSheet)
	if err != nil {
		os.Exit(handler.HandleError(err))
	}

	anchor, _ := config.ParseRunDate(runDate)
	request.RunDate = anchor

	engine := reconciler.NewEngine(config.CreateEngineConfig(workers))
	start := time.Now()
	results, err := engine.Reconcile(ctx, request)
	if err != nil {
		os.Exit(handler.HandleError(err))
	}

	summary := reconciler.Summarize(results)
	summary.Duration = time.Since(start)
	rpt := reporter.New()

	format, _ := reporter.ParseFormat(outputFormat)
	switch format {
	case reporter.FormatJSON:
		err = rpt.WriteJSON(outputFile, results, summary, request.SOAColumns)
	case reporter.FormatCSV:
		err = rpt.WriteCSV(outputFile, results, request.SOAColumns)
	case reporter.FormatXLSX:
		err = rpt.WriteXLSX(outputFile, results, summary, request.SOAColumns)
	default:
		err = rpt.WriteConsole(os.Stdout, summary)
	}
	if err != nil {
		os.Exit(handler.HandleError(err))
	}

	if format != reporter.FormatConsole && viper.GetBool("verbose") {
		fmt.Fprintf(os.Stderr, "Report written to %s (run %s)\n", outputFile, rpt.RunID())
	}

	return nil
}

// resolveTemplate produces the run's configuration, either from a saved
// template or fresh from flags, optionally saving the latter.
func resolveTemplate() (*templates.Template, error) {
	if templateName != "" {
		store, err := templates.NewStore(templateDir)
		if err != nil {
			return nil, err
		}
		return store.Load(templateName)
	}

	name := saveTemplate
	if name == "" {
		name = "adhoc"
	}
	tmpl, err := config.BuildTemplate(name, &config.ReconcileOptions{
		SOAFile:         soaFile,
		SOASheet:        soaSheet,
		SOADateColumn:   soaDateColumn,
		SOAAmountColumn: soaAmountColumn,
		RefFiles:        refFiles,
		Mappings:        mappingFlags,
		RefSheets:       refSheets,
		RefDates:        refDateCols,
		RefAmounts:      refAmountCols,
	})
	if err != nil {
		return nil, err
	}

	if saveTemplate != "" {
		store, err := templates.NewStore(templateDir)
		if err != nil {
			return nil, err
		}
		if err := store.Save(tmpl); err != nil {
			return nil, err
		}
	}

	return tmpl, nil
}
