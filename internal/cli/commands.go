package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"line-translator/internal/config"
	"line-translator/internal/export"
	"line-translator/internal/filewalker"
	"line-translator/internal/llm"
	"line-translator/internal/quality"
	"line-translator/internal/worker"
)

func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <original> [translated]",
		Short: "Report empty translations and lost placeholders",
		Long: `Compares an original with its translation line by line. For a directory,
every supported file is compared with its <stem>-<suffix><ext> sibling.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			translated := ""
			if len(args) == 2 {
				translated = args[1]
			}
			return runCheck(cfg, args[0], translated)
		},
	}
}

type checkJob struct {
	original   string
	translated string
}

// runCheck handles the `check` command.
func runCheck(cfg *config.Config, original, translated string) error {
	ctx, cancel := setupContext(nil)
	defer cancel()

	var jobs []checkJob
	if translated != "" {
		jobs = append(jobs, checkJob{original: original, translated: translated})
	} else {
		files, err := filewalker.NewWalker(cfg.OutputSuffix).Walk(original)
		if err != nil {
			return err
		}
		for _, f := range files {
			out := export.OutputPath(f, cfg.OutputSuffix)
			if _, err := os.Stat(out); err != nil {
				log.Debug().Str("file", f).Msg("No translation found, skipping")
				continue
			}
			jobs = append(jobs, checkJob{original: f, translated: out})
		}
	}

	pool := worker.NewPool(cfg.WorkerCount, func(_ context.Context, job checkJob) ([]quality.Issue, error) {
		orig, err := readLines(job.original)
		if err != nil {
			return nil, err
		}
		tran, err := readLines(job.translated)
		if err != nil {
			return nil, err
		}
		return quality.Check(orig, tran), nil
	})
	tasks := pool.Execute(ctx, jobs)

	total := 0
	for _, t := range tasks {
		if t.Err != nil {
			continue
		}
		for _, is := range t.Result {
			fmt.Printf("%s: %s\n", t.Input.translated, is.Message)
		}
		total += len(t.Result)
	}
	if err := worker.Errors(tasks); err != nil {
		return err
	}

	log.Info().Int("files", len(jobs)).Int("issues", total).Msg("Quality check complete")
	if total > 0 {
		return fmt.Errorf("%d quality issues found", total)
	}
	return nil
}

func exportCmd() *cobra.Command {
	var format, output string

	cmd := &cobra.Command{
		Use:   "export <original> [translated]",
		Short: "Export a translation as txt, side-by-side, tsv, json or html",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}

			original := args[0]
			translated := export.OutputPath(original, cfg.OutputSuffix)
			if len(args) == 2 {
				translated = args[1]
			}
			if output == "" {
				output = export.ExportPath(original, cfg.OutputSuffix, f)
			}
			return runExport(original, translated, output, f)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(export.FormatText), "Export format: txt, side-by-side, tsv, json, html")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output path")

	return cmd
}

// runExport handles the `export` command.
func runExport(original, translated, output string, f export.Format) error {
	orig, err := readLines(original)
	if err != nil {
		return err
	}
	tran, err := readLines(translated)
	if err != nil {
		return err
	}

	data, err := export.Render(export.Document{
		SourceFile:  original,
		Original:    orig,
		Translation: tran,
	}, f)
	if err != nil {
		return err
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}

	log.Info().Str("format", string(f)).Str("output", output).Msg("Exported")
	return nil
}

func probeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "probe",
		Short: "Check the configured endpoint and list its models",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			ctx, cancel := setupContext(nil)
			defer cancel()
			ctx, stop := context.WithTimeout(ctx, 15*time.Second)
			defer stop()

			client, err := llm.NewClient(cfg.BaseURL, cfg.APIKey, cfg.RequestTimeout)
			if err != nil {
				return err
			}
			res, err := llm.Probe(ctx, client)
			if err != nil {
				return err
			}

			if res.ServerOnly {
				log.Info().Str("url", client.BaseURL()).Msg("Server responds (model list unavailable)")
				return nil
			}
			log.Info().Str("url", client.BaseURL()).Int("models", len(res.Models)).Msg("Connected")
			for _, m := range res.Models {
				fmt.Println(m)
			}
			return nil
		},
	}
}

func providersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "List the built-in provider presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tBASE URL\tKEY\tMODELS")
			for _, p := range config.Presets() {
				key := "optional"
				if p.NeedsKey {
					key = "required"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.Name, p.BaseURL, key, strings.Join(p.Models, ", "))
			}
			return w.Flush()
		},
	}
}
