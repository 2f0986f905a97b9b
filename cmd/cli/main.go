package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"text/tabwriter"

	"evaldash/internal/config"
	"evaldash/ui/services"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "evaldash-cli",
		Short:         "Inspect LLM evaluation workbooks from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newDatasetsCmd(),
		newSummaryCmd(),
	)
	return rootCmd
}

func newDatasetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "datasets",
		Short: "List the workbooks found in DATA_DIR",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := dataService()
			if err != nil {
				return err
			}
			return runDatasets(cmd.OutOrStdout(), data)
		},
	}
}

func newSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary [file]",
		Short: "Print per prompt type and model means for one workbook",
		Long: `Print the mean of every metric per (Prompt_Type, Model) group.

Without a file argument the first workbook in DATA_DIR is used.

Example: evaldash-cli summary runs.xlsx`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := dataService()
			if err != nil {
				return err
			}
			file := ""
			if len(args) == 1 {
				file = args[0]
			}
			return runSummary(cmd.OutOrStdout(), data, file)
		},
	}
}

// loadEnv reads .env files into the environment when they exist.
func loadEnv(files ...string) {
	if err := godotenv.Load(files...); err != nil {
		log.Println("No .env file found, using system environment variables")
	}
}

func dataService() (*services.DataService, error) {
	loadEnv()

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return services.NewDataService(cfg.Data.Dir, cfg.Data.PreviewRows), nil
}

func runDatasets(out io.Writer, data *services.DataService) error {
	files, warnings, err := data.Datasets()
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Datasets in %s:\n", data.Dir())
	for _, f := range files {
		fmt.Fprintf(out, "  %s\n", f)
	}
	warn := color.New(color.FgYellow)
	for _, w := range warnings {
		warn.Fprintf(out, "WARNING: %s\n", w)
	}
	return nil
}

func runSummary(out io.Writer, data *services.DataService, file string) error {
	summary, err := data.Summary(file)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Summary of %s (%d rows, %d groups)\n\n", summary.Source, summary.TotalRows(), len(summary.Rows))

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(summary.Columns(), "\t"))
	width := len(summary.Columns())
	for r := range summary.Rows {
		cells := make([]string, width)
		for c := range cells {
			cells[c] = summary.Cell(r, c)
		}
		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}
	return w.Flush()
}
