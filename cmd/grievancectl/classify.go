package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spec-kit/grievance-service/internal/triage"
)

func (c *cli) classifyCmd() *cobra.Command {
	var (
		lexiconPath string
		concurrency int
	)
	cmd := &cobra.Command{
		Use:   "classify [file]",
		Short: "Classify complaints read from a file or stdin",
		Long: `Reads one complaint per line as "location<TAB>description" and prints the
sector, priority, deciding rule and cluster key for each, in input order.
Lines without a tab are treated as a description with no location. Blank lines
are skipped.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			inputs, err := readInputs(in)
			if err != nil {
				return err
			}

			analyzer, err := triage.LoadAnalyzer(lexiconPath)
			if err != nil {
				return err
			}
			c.logger.Debug("classifying", zap.Int("complaints", len(inputs)), zap.String("lexicon", analyzer.Version()))

			results, err := triage.NewEngine(analyzer, triage.EngineHooks{}).ClassifyBatch(cmd.Context(), inputs, concurrency)
			if err != nil {
				return err
			}
			return writeResults(cmd.OutOrStdout(), results)
		},
	}
	cmd.Flags().StringVar(&lexiconPath, "lexicon", c.cfg.Triage.SentimentLexiconPath, "sentiment lexicon YAML (defaults to the bundled lexicon)")
	cmd.Flags().IntVar(&concurrency, "concurrency", c.cfg.Triage.BatchConcurrency, "maximum parallel classifications")
	return cmd
}

// maxLineBytes bounds a single complaint line.
const maxLineBytes = 1 << 20

func readInputs(r io.Reader) ([]triage.Input, error) {
	var inputs []triage.Input
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		location, description, found := strings.Cut(line, "\t")
		if !found {
			location, description = "", line
		}
		inputs = append(inputs, triage.Input{
			LocationCode: strings.TrimSpace(location),
			Description:  strings.TrimSpace(description),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read complaints: %w", err)
	}
	return inputs, nil
}

func writeResults(out io.Writer, results []triage.Result) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tSECTOR\tPRIORITY\tRULE\tPOLARITY\tCLUSTER")
	for i, r := range results {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%+.2f\t%s\n", i+1, r.Sector, r.Priority, r.Rule, r.Polarity, r.ClusterKey)
	}
	return w.Flush()
}
