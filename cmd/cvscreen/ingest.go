package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mkarlsson/cvscreen/internal/ingestion"
	"github.com/mkarlsson/cvscreen/internal/skills"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest-job <url>",
	Short: "Draft a job requirement from a posting URL",
	Long:  "Fetch a job posting page, extract its text, and draft a job requirement JSON from the skills and requirements found in it. Review the draft before using it for matching.",
	Args:  cobra.ExactArgs(1),
	RunE:  runIngestJob,
}

var ingestOutputFile string

func init() {
	ingestCmd.Flags().StringVarP(&ingestOutputFile, "out", "o", "", "Path to output JSON file (default: stdout)")
	rootCmd.AddCommand(ingestCmd)
}

func runIngestJob(_ *cobra.Command, args []string) error {
	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	posting, err := ingestion.FetchPosting(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("failed to fetch posting: %w", err)
	}

	job := ingestion.DraftRequirement(skills.NewAnalyzer(logger), posting)
	return writeJSONOutput(ingestOutputFile, job)
}
