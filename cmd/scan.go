package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/kfreiman/docshield/internal/config"
	"github.com/kfreiman/docshield/internal/engine"
	"github.com/kfreiman/docshield/internal/language"
	"github.com/kfreiman/docshield/internal/model"
	"github.com/kfreiman/docshield/internal/pii"
)

var (
	scanLanguage string
	scanOutput   string
	scanReport   string
	scanTypes    string
	scanAnalyze  bool
)

// scanFs is the filesystem used by the scan command; tests swap in a
// memory-backed one.
var scanFs = afero.NewOsFs()

// scanCmd redacts or analyzes a text file (or stdin with "-").
var scanCmd = &cobra.Command{
	Use:   "scan [file]",
	Short: "Redact PII in a text file or stdin",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		logger, err := newLogger()
		if err != nil {
			return err
		}

		text, err := readInput(args)
		if err != nil {
			return err
		}

		types, err := parseTypes(scanTypes)
		if err != nil {
			return err
		}

		router := language.NewRouter(config.Default(), logger)

		var modelCfg model.Config
		if err := loadModelConfig(&modelCfg); err != nil {
			return err
		}

		eng := engine.New(engine.Config{
			Router: router,
			Model:  model.NewClient(modelCfg, logger),
			Logger: logger,
		})

		if scanAnalyze {
			result, err := eng.Analyze(ctx, text, scanLanguage, types...)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), result)
		}

		result, err := eng.Redact(ctx, text, scanLanguage, types...)
		if err != nil {
			return err
		}

		if scanReport != "" {
			payload, err := json.MarshalIndent(result.Items, "", "  ")
			if err != nil {
				return err
			}
			if err := afero.WriteFile(scanFs, scanReport, payload, 0o644); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
		}

		if scanOutput != "" {
			if err := afero.WriteFile(scanFs, scanOutput, []byte(result.RedactedText), 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			logger.InfoContext(ctx, "redacted output written",
				"output", scanOutput,
				"items", len(result.Items),
			)
			return nil
		}

		fmt.Fprintln(cmd.OutOrStdout(), result.RedactedText)
		return nil
	},
}

// readInput returns the text to process: the named file, or stdin when no
// argument (or "-") is given.
func readInput(args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := afero.ReadFile(scanFs, args[0])
	if err != nil {
		return "", fmt.Errorf("read %s: %w", args[0], err)
	}
	return string(data), nil
}

// parseTypes parses a comma-separated entity type restriction.
func parseTypes(s string) ([]pii.EntityType, error) {
	if s == "" {
		return nil, nil
	}
	var out []pii.EntityType
	for _, part := range strings.Split(s, ",") {
		t, err := pii.ParseEntityType(strings.TrimSpace(strings.ToUpper(part)))
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// loadModelConfig reads the model client settings from the environment.
func loadModelConfig(cfg *model.Config) error {
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return fmt.Errorf("load model config: %w", err)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	scanCmd.Flags().StringVarP(&scanLanguage, "language", "l", "es", "language code ('es' or 'en')")
	scanCmd.Flags().StringVarP(&scanOutput, "output", "o", "", "write redacted text to this file instead of stdout")
	scanCmd.Flags().StringVar(&scanReport, "report", "", "write the audit report (JSON) to this file")
	scanCmd.Flags().StringVar(&scanTypes, "types", "", "comma-separated entity types to restrict the scan to")
	scanCmd.Flags().BoolVar(&scanAnalyze, "analyze", false, "print the span list instead of redacting")
	rootCmd.AddCommand(scanCmd)
}
