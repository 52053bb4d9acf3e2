package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"soa-reconciliation-service/cmd/soarecon/config"
	"soa-reconciliation-service/internal/templates"
)

// Flags for the template subcommands
var (
	tmplSOAFile         string
	tmplSOASheet        string
	tmplSOADateColumn   string
	tmplSOAAmountColumn string
	tmplRefFiles        []string
	tmplMappings        []string
	tmplRefSheets       []string
	tmplRefDateCols     []string
	tmplRefAmountCols   []string
)

// templateCmd groups the template management subcommands.
var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Manage saved mapping templates",
	Long: `Templates capture a full reconciliation configuration (reference
files, field mappings, date and amount columns) under a name so it can
be replayed against fresh statements.

Examples:
  soarecon template save monthly-close --ref-files ledger.csv \
    --map "ledger:Invoice No=InvoiceNumber" --soa-amount-column Amount
  soarecon template list
  soarecon template show monthly-close
  soarecon template delete monthly-close`,
}

var templateSaveCmd = &cobra.Command{
	Use:   "save NAME",
	Short: "Save a mapping configuration under a name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		handler := NewCLIErrorHandler()

		tmpl, err := config.BuildTemplate(args[0], &config.ReconcileOptions{
			SOAFile:         tmplSOAFile,
			SOASheet:        tmplSOASheet,
			SOADateColumn:   tmplSOADateColumn,
			SOAAmountColumn: tmplSOAAmountColumn,
			RefFiles:        tmplRefFiles,
			Mappings:        tmplMappings,
			RefSheets:       tmplRefSheets,
			RefDates:        tmplRefDateCols,
			RefAmounts:      tmplRefAmountCols,
		})
		if err != nil {
			os.Exit(handler.HandleError(err))
		}

		store, err := templates.NewStore(viper.GetString("template-dir"))
		if err != nil {
			os.Exit(handler.HandleError(err))
		}
		if err := store.Save(tmpl); err != nil {
			os.Exit(handler.HandleError(err))
		}

		fmt.Printf("Saved template '%s'\n", tmpl.Name)
		return nil
	},
}

var templateListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved templates",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		handler := NewCLIErrorHandler()

		store, err := templates.NewStore(viper.GetString("template-dir"))
		if err != nil {
			os.Exit(handler.HandleError(err))
		}
		names, err := store.List()
		if err != nil {
			os.Exit(handler.HandleError(err))
		}

		if len(names) == 0 {
			fmt.Println("No saved templates.")
			return nil
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return nil
	},
}

var templateShowCmd = &cobra.Command{
	Use:   "show NAME",
	Short: "Print a saved template as YAML",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		handler := NewCLIErrorHandler()

		store, err := templates.NewStore(viper.GetString("template-dir"))
		if err != nil {
			os.Exit(handler.HandleError(err))
		}
		tmpl, err := store.Load(args[0])
		if err != nil {
			os.Exit(handler.HandleError(err))
		}

		data, err := yaml.Marshal(tmpl)
		if err != nil {
			os.Exit(handler.HandleError(err))
		}
		fmt.Print(string(data))
		return nil
	},
}

var templateDeleteCmd = &cobra.Command{
	Use:   "delete NAME",
	Short: "Delete a saved template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		handler := NewCLIErrorHandler()

		store, err := templates.NewStore(viper.GetString("template-dir"))
		if err != nil {
			os.Exit(handler.HandleError(err))
		}
		if err := store.Delete(args[0]); err != nil {
			os.Exit(handler.HandleError(err))
		}

		fmt.Printf("Deleted template '%s'\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(templateCmd)
	templateCmd.AddCommand(templateSaveCmd, templateListCmd, templateShowCmd, templateDeleteCmd)

	templateCmd.PersistentFlags().String("template-dir", templates.DefaultDir(), "directory holding saved templates")
	viper.BindPFlag("template-dir", templateCmd.PersistentFlags().Lookup("template-dir"))

	templateSaveCmd.Flags().StringVar(&tmplSOAFile, "soa-file", "", "default SOA file for this template")
	templateSaveCmd.Flags().StringVar(&tmplSOASheet, "soa-sheet", "", "default SOA worksheet")
	templateSaveCmd.Flags().StringVar(&tmplSOADateColumn, "soa-date-column", "", "SOA column used for age bucketing")
	templateSaveCmd.Flags().StringVar(&tmplSOAAmountColumn, "soa-amount-column", "", "SOA column used for amount variance")
	templateSaveCmd.Flags().StringSliceVar(&tmplRefFiles, "ref-files", []string{}, "ordered comma-separated reference file paths")
	templateSaveCmd.Flags().StringArrayVar(&tmplMappings, "map", []string{}, "field mapping SOURCE:SOA_COL=REF_COL[:MODE[:THRESHOLD]] (repeatable)")
	templateSaveCmd.Flags().StringArrayVar(&tmplRefSheets, "ref-sheet", []string{}, "worksheet per source, SOURCE:SHEET (repeatable)")
	templateSaveCmd.Flags().StringArrayVar(&tmplRefDateCols, "ref-date-column", []string{}, "date column per source, SOURCE:COLUMN (repeatable)")
	templateSaveCmd.Flags().StringArrayVar(&tmplRefAmountCols, "ref-amount-column", []string{}, "amount column per source, SOURCE:COLUMN (repeatable)")
}
