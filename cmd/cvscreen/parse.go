package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mkarlsson/cvscreen/internal/pipeline"
)

var parseCmd = &cobra.Command{
	Use:   "parse <resume-file>",
	Short: "Extract a structured candidate profile from a resume",
	Long:  "Parse a resume file (PDF, DOCX or TXT), extract contact details, education, experience and scored skills, and print the profile as JSON.",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

var parseOutputFile string

func init() {
	parseCmd.Flags().StringVarP(&parseOutputFile, "out", "o", "", "Path to output JSON file (default: stdout)")
	rootCmd.AddCommand(parseCmd)
}

func runParse(_ *cobra.Command, args []string) error {
	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read resume file: %w", err)
	}

	screener := pipeline.New(logger)
	profile, err := screener.Screen(context.Background(), args[0], data)
	if err != nil {
		// A partial profile is still worth printing; only bail when there is
		// nothing to show.
		if profile.Name == "" && profile.Email == "" && len(profile.Skills) == 0 {
			return fmt.Errorf("failed to screen resume: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	return writeJSONOutput(parseOutputFile, profile)
}

// writeJSONOutput marshals v indented to the given path, or stdout when the
// path is empty.
func writeJSONOutput(path string, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	if path == "" {
		fmt.Println(string(out))
		return nil
	}
	if err := os.WriteFile(path, append(out, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
