package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"labdesk/frontend/allot"
	"labdesk/frontend/assign"
	"labdesk/frontend/calibration"
	"labdesk/frontend/documents"
	"labdesk/frontend/exports"
	"labdesk/frontend/feedback"
	"labdesk/frontend/shared/dates"
	"labdesk/frontend/shared/grid"
	"labdesk/frontend/training"
	"labdesk/infrastructure/config"
	"labdesk/infrastructure/labapi"
)

type rootOptions struct {
	configPath string
	apiURL     string
	token      string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "labctl",
		Short:         "Query the lab backend from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", os.Getenv("LABDESK_CONFIG"), "YAML config file")
	root.PersistentFlags().StringVar(&opts.apiURL, "api", "", "backend base URL (overrides config)")
	root.PersistentFlags().StringVar(&opts.token, "token", "", "backend bearer token (overrides config)")

	root.AddCommand(newAllotCmd(opts), newHODCmd(opts), newExportCmd(opts))
	return root
}

func (o *rootOptions) client() (*labapi.Client, error) {
	cfg := config.Default()
	if strings.TrimSpace(o.configPath) != "" || strings.TrimSpace(o.apiURL) == "" {
		loaded, err := config.Load(o.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if o.apiURL != "" {
		cfg.API.BaseURL = o.apiURL
	}
	if o.token != "" {
		cfg.API.Token = o.token
	}
	return labapi.New(cfg.API.BaseURL,
		labapi.WithToken(cfg.API.Token),
		labapi.WithTimeout(cfg.API.Timeout),
		labapi.WithBulkWorkers(cfg.API.BulkWorkers),
	)
}

func newAllotCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{Use: "allot", Short: "Allot sample list"}
	var from, to, status string
	list := &cobra.Command{
		Use:   "list",
		Short: "Print the allot sample list with the actions each row offers",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			f, err := allotFilter(from, to, status)
			if err != nil {
				return err
			}
			samples, err := c.AllotSamples(cmd.Context(), f)
			if err != nil {
				return fmt.Errorf("allot list: %w", err)
			}
			return printRows(cmd.OutOrStdout(), []string{"id", "lrn", "customer", "product", "status"}, allot.Rows(samples))
		},
	}
	list.Flags().StringVar(&from, "from", "", "received from (YYYY-MM-DD or DD/MM/YYYY)")
	list.Flags().StringVar(&to, "to", "", "received to (YYYY-MM-DD or DD/MM/YYYY)")
	list.Flags().StringVar(&status, "status", "", "trf status filter")
	cmd.AddCommand(list)
	return cmd
}

func allotFilter(from, to, status string) (labapi.AllotFilter, error) {
	f := labapi.AllotFilter{Status: strings.TrimSpace(status)}
	var err error
	if f.From, err = dates.ToDisplay(from); err != nil {
		return f, fmt.Errorf("--from: %w", err)
	}
	if f.To, err = dates.ToDisplay(to); err != nil {
		return f, fmt.Errorf("--to: %w", err)
	}
	return f, nil
}

func newHODCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{Use: "hod", Short: "Head of department queue"}
	var department string
	list := &cobra.Command{
		Use:   "list",
		Short: "Print the HOD queue of one department",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(department) == "" {
				return fmt.Errorf("--department is required")
			}
			c, err := opts.client()
			if err != nil {
				return err
			}
			reqs, err := c.HODRequests(cmd.Context(), labapi.HODFilter{Department: department})
			if err != nil {
				return fmt.Errorf("hod list: %w", err)
			}
			return printRows(cmd.OutOrStdout(), []string{"lrn", "parameter", "tat", "chemist"}, assign.Rows(reqs, time.Now()))
		},
	}
	list.Flags().StringVar(&department, "department", "", "backend department id")
	cmd.AddCommand(list)
	return cmd
}

// printRows writes the chosen cells and the row's action labels. Rows with
// no action print their note instead.
func printRows(w io.Writer, keys []string, rows []grid.Row) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.ToUpper(strings.Join(keys, "\t"))+"\tACTIONS")
	for _, row := range rows {
		cells := make([]string, 0, len(keys)+1)
		for _, k := range keys {
			cells = append(cells, row.Cells[k])
		}
		actions := strings.Join(row.Actions.Labels(), ", ")
		if actions == "" {
			actions = row.Actions.Note
		}
		cells = append(cells, actions)
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

// exportSource fetches one table and projects it the way its screen does.
type exportSource func(ctx context.Context, c *labapi.Client, department string) ([]grid.Column, []grid.Row, error)

var exportSources = map[string]exportSource{
	allot.TableName: func(ctx context.Context, c *labapi.Client, _ string) ([]grid.Column, []grid.Row, error) {
		samples, err := c.AllotSamples(ctx, labapi.AllotFilter{})
		return allot.Columns, allot.Rows(samples), err
	},
	assign.TableName: func(ctx context.Context, c *labapi.Client, department string) ([]grid.Column, []grid.Row, error) {
		reqs, err := c.HODRequests(ctx, labapi.HODFilter{Department: department})
		return assign.Columns, assign.Rows(reqs, time.Now()), err
	},
	documents.TableName: func(ctx context.Context, c *labapi.Client, _ string) ([]grid.Column, []grid.Row, error) {
		docs, err := c.Documents(ctx, labapi.DocumentFilter{})
		return documents.Columns, documents.Rows(docs, ""), err
	},
	training.TableName: func(ctx context.Context, c *labapi.Client, _ string) ([]grid.Column, []grid.Row, error) {
		items, err := c.TrainingModules(ctx)
		return training.Columns, training.Rows(items), err
	},
	feedback.TableName: func(ctx context.Context, c *labapi.Client, _ string) ([]grid.Column, []grid.Row, error) {
		forms, err := c.FeedbackForms(ctx)
		return feedback.Columns, feedback.Rows(forms), err
	},
	calibration.InstrumentsTable: func(ctx context.Context, c *labapi.Client, _ string) ([]grid.Column, []grid.Row, error) {
		items, err := c.Instruments(ctx)
		return calibration.InstrumentColumns, calibration.InstrumentRows(items), err
	},
}

func exportTableNames() []string {
	return []string{allot.TableName, assign.TableName, documents.TableName, training.TableName, feedback.TableName, calibration.InstrumentsTable}
}

func newExportCmd(opts *rootOptions) *cobra.Command {
	var format, out, department string
	cmd := &cobra.Command{
		Use:   "export <table>",
		Short: "Download a table as csv or xlsx",
		Long:  "Download a table as csv or xlsx.\n\nTables: " + strings.Join(exportTableNames(), ", "),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, ok := exportSources[args[0]]
			if !ok {
				return fmt.Errorf("unknown table %q (want one of %s)", args[0], strings.Join(exportTableNames(), ", "))
			}
			if args[0] == assign.TableName && strings.TrimSpace(department) == "" {
				return fmt.Errorf("--department is required for %s", assign.TableName)
			}
			c, err := opts.client()
			if err != nil {
				return err
			}
			cols, rows, err := source(cmd.Context(), c, department)
			if err != nil {
				return fmt.Errorf("export %s: %w", args[0], err)
			}
			table := exports.FromGrid(grid.New(args[0], cols, rows, grid.Params{}, grid.Preference{}))

			w := cmd.OutOrStdout()
			if out != "" && out != "-" {
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("create %s: %w", out, err)
				}
				defer f.Close()
				w = f
			}
			if exports.NormalizeFormat(format) == exports.FormatXLSX {
				return exports.WriteXLSX(w, table)
			}
			return exports.WriteCSV(w, table)
		},
	}
	cmd.Flags().StringVar(&format, "format", exports.FormatCSV, "csv or xlsx")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&department, "department", "", "backend department id for hod_queue")
	return cmd
}
