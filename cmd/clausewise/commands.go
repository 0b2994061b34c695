package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hyperjump/clausewise/internal/cli"
	"github.com/hyperjump/clausewise/internal/keyword"
	"github.com/hyperjump/clausewise/internal/models"
	"github.com/hyperjump/clausewise/internal/storage"
)

func newAnalyzeCmd(opts *rootOptions) *cobra.Command {
	var (
		text     string
		fileName string
		summary  bool
	)
	cmd := &cobra.Command{
		Use:   "analyze [file|dir|-]",
		Short: "Analyze a contract and store its report",
		Long: `Analyze a PDF, DOCX or TXT contract, a directory of contracts, text given
with --text, or text read from stdin when the argument is "-".`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && text == "" {
				return errors.New("a file, a directory, - or --text is required")
			}
			format, err := opts.outputFormat()
			if err != nil {
				return err
			}
			c, cleanup, err := opts.openLocal()
			if err != nil {
				return err
			}
			defer cleanup()
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			var report *models.Report
			switch {
			case len(args) == 0:
				report, err = c.service.AnalyzeText(ctx, &models.DocumentInput{FileName: fileName, Text: text})
			case args[0] == "-":
				data, readErr := io.ReadAll(cmd.InOrStdin())
				if readErr != nil {
					return fmt.Errorf("read stdin: %w", readErr)
				}
				report, err = c.service.AnalyzeText(ctx, &models.DocumentInput{FileName: fileName, Text: string(data)})
			default:
				info, statErr := os.Stat(args[0])
				if statErr != nil {
					return statErr
				}
				if info.IsDir() {
					n, dirErr := c.service.AnalyzeDirectory(ctx, args[0], c.cfg.Watch.Extensions)
					if dirErr != nil {
						return fmt.Errorf("analyze directory: %w", dirErr)
					}
					fmt.Fprintf(out, "Analyzed %d contracts in %s\n", n, args[0])
					return nil
				}
				report, err = c.service.AnalyzeFile(ctx, args[0], nil)
			}
			if err != nil {
				return fmt.Errorf("analysis failed: %w", err)
			}
			if summary {
				return cli.WriteSummary(out, report)
			}
			return cli.WriteReport(out, report, format)
		},
	}
	cmd.Flags().StringVar(&text, "text", "", "contract text to analyze")
	cmd.Flags().StringVar(&fileName, "name", "", "file name to record for --text or stdin input")
	cmd.Flags().BoolVar(&summary, "summary", false, "print only the summary lines")
	return cmd
}

func newListCmd(opts *rootOptions) *cobra.Command {
	var offset, limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored contract reports, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := opts.outputFormat()
			if err != nil {
				return err
			}
			c, cleanup, err := opts.openLocal()
			if err != nil {
				return err
			}
			defer cleanup()
			infos, err := c.service.List(cmd.Context(), offset, limit)
			if err != nil {
				return fmt.Errorf("list failed: %w", err)
			}
			return cli.WriteReportList(cmd.OutOrStdout(), infos, format)
		},
	}
	cmd.Flags().IntVar(&offset, "offset", 0, "number of reports to skip")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of reports")
	return cmd
}

func newShowCmd(opts *rootOptions) *cobra.Command {
	var summary bool
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a stored contract report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := opts.outputFormat()
			if err != nil {
				return err
			}
			c, cleanup, err := opts.openLocal()
			if err != nil {
				return err
			}
			defer cleanup()
			report, err := c.service.Get(cmd.Context(), args[0])
			if errors.Is(err, storage.ErrNotFound) {
				return fmt.Errorf("contract %s not found", args[0])
			}
			if err != nil {
				return err
			}
			if summary {
				return cli.WriteSummary(cmd.OutOrStdout(), report)
			}
			return cli.WriteReport(cmd.OutOrStdout(), report, format)
		},
	}
	cmd.Flags().BoolVar(&summary, "summary", false, "print only the plain-text summary")
	return cmd
}

func newDeleteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a stored report and its indexed clauses",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, cleanup, err := opts.openLocal()
			if err != nil {
				return err
			}
			defer cleanup()
			err = c.service.Delete(cmd.Context(), args[0])
			if errors.Is(err, storage.ErrNotFound) {
				return fmt.Errorf("contract %s not found", args[0])
			}
			if err != nil {
				return fmt.Errorf("deletion failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Contract deleted: %s\n", args[0])
			return nil
		},
	}
}

func newSearchCmd(opts *rootOptions) *cobra.Command {
	var (
		limit    int
		typ      string
		severity string
		fuzzy    bool
	)
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search analyzed clauses",
		Example: `  clausewise search penalty --severity High
  clausewise search "non-compete" --type Prohibition
  clausewise search arbitraton --fuzzy`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := opts.outputFormat()
			if err != nil {
				return err
			}
			query := buildSearchQuery(args)
			if query == "" {
				return keyword.ErrEmptyQuery
			}
			c, cleanup, err := opts.openLocal()
			if err != nil {
				return err
			}
			defer cleanup()
			hits, err := c.service.SearchClauses(cmd.Context(), query, limit, &keyword.SearchOptions{
				Type:     models.ClauseType(typ),
				Severity: models.Severity(severity),
				Fuzzy:    fuzzy,
			})
			if err != nil {
				return fmt.Errorf("search failed: %w", err)
			}
			return cli.WriteSearchHits(cmd.OutOrStdout(), query, hits, format)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "maximum number of hits")
	cmd.Flags().StringVar(&typ, "type", "", "only clauses of this type (Prohibition, Obligation, Right, General)")
	cmd.Flags().StringVar(&severity, "severity", "", "only clauses of this severity (Low, Medium, High)")
	cmd.Flags().BoolVar(&fuzzy, "fuzzy", false, "tolerate typos in query terms")
	return cmd
}

// buildSearchQuery joins positional args into one query string.
func buildSearchQuery(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

type statusResponse struct {
	Reports        int64                 `json:"reports"`
	Clauses        int64                 `json:"clauses"`
	IndexedClauses uint64                `json:"indexed_clauses"`
	DiskUsageBytes *int64                `json:"disk_usage_bytes,omitempty"`
	Config         *statusConfigResponse `json:"config,omitempty"`
}

type statusConfigResponse struct {
	DatabasePath        string `json:"database_path"`
	BleveIndexPath      string `json:"bleve_index_path"`
	AuditLogPath        string `json:"audit_log_path"`
	MinSentenceLength   int    `json:"min_sentence_length"`
	PreserveLeadingText bool   `json:"preserve_leading_text"`
}

func newStatusCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show report counts, index size and disk usage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := opts.outputFormat()
			if err != nil {
				return err
			}
			c, cleanup, err := opts.openLocal()
			if err != nil {
				return err
			}
			defer cleanup()
			stats, err := c.service.Status(cmd.Context())
			if err != nil {
				return err
			}
			st := c.cfg.Storage
			status := statusResponse{
				Reports:        stats.Reports,
				Clauses:        stats.Clauses,
				IndexedClauses: stats.IndexedClauses,
				Config: &statusConfigResponse{
					DatabasePath:        st.DatabasePath,
					BleveIndexPath:      st.BleveIndexPath,
					AuditLogPath:        st.AuditLogPath,
					MinSentenceLength:   c.cfg.Analysis.MinSentenceLength,
					PreserveLeadingText: c.cfg.Analysis.PreserveLeadingText,
				},
			}
			if diskBytes, err := storage.DiskUsageBytes(st.DatabasePath, st.BleveIndexPath, st.AuditLogPath); err == nil {
				status.DiskUsageBytes = &diskBytes
			}
			return writeStatus(cmd.OutOrStdout(), &status, format)
		},
	}
}

func writeStatus(w io.Writer, status *statusResponse, format cli.OutputFormat) error {
	if format == cli.OutputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(status)
	}
	fmt.Fprintf(w, "reports:            %d   # stored contract reports\n", status.Reports)
	fmt.Fprintf(w, "clauses:            %d   # analyzed clauses\n", status.Clauses)
	fmt.Fprintf(w, "indexed_clauses:    %d   # clauses in the search index\n", status.IndexedClauses)
	if status.DiskUsageBytes != nil {
		fmt.Fprintf(w, "disk_usage_bytes:   %d   # database + index + audit log\n", *status.DiskUsageBytes)
	}
	if status.Config != nil {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "# configuration")
		fmt.Fprintf(w, "min_sentence_length:   %d\n", status.Config.MinSentenceLength)
		fmt.Fprintf(w, "preserve_leading_text: %t\n", status.Config.PreserveLeadingText)
		fmt.Fprintf(w, "database_path:         %s\n", status.Config.DatabasePath)
		fmt.Fprintf(w, "bleve_index_path:      %s\n", status.Config.BleveIndexPath)
		fmt.Fprintf(w, "audit_log_path:        %s\n", status.Config.AuditLogPath)
	}
	return nil
}
