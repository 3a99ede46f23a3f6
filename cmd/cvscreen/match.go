package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mkarlsson/cvscreen/internal/pipeline"
	"github.com/mkarlsson/cvscreen/internal/schemas"
	"github.com/mkarlsson/cvscreen/internal/types"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Score a candidate profile against a job requirement",
	Long:  "Score a parsed candidate profile (from 'cvscreen parse') against a job requirement JSON file and print the match breakdown, verdict and screening notes.",
	RunE:  runMatch,
}

var (
	matchProfileFile string
	matchJobFile     string
	matchOutputFile  string
)

func init() {
	matchCmd.Flags().StringVarP(&matchProfileFile, "profile", "p", "", "Path to candidate profile JSON (required)")
	matchCmd.Flags().StringVarP(&matchJobFile, "job", "j", "", "Path to job requirement JSON (required)")
	matchCmd.Flags().StringVarP(&matchOutputFile, "out", "o", "", "Path to output JSON file (default: stdout)")
	_ = matchCmd.MarkFlagRequired("profile")
	_ = matchCmd.MarkFlagRequired("job")
	rootCmd.AddCommand(matchCmd)
}

func runMatch(_ *cobra.Command, _ []string) error {
	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	profileData, err := os.ReadFile(matchProfileFile)
	if err != nil {
		return fmt.Errorf("failed to read profile file: %w", err)
	}
	var candidate types.CandidateProfile
	if err := json.Unmarshal(profileData, &candidate); err != nil {
		return fmt.Errorf("failed to parse profile JSON: %w", err)
	}

	jobData, err := os.ReadFile(matchJobFile)
	if err != nil {
		return fmt.Errorf("failed to read job file: %w", err)
	}
	if err := schemas.ValidateJobRequirement(string(jobData)); err != nil {
		return fmt.Errorf("job file is not a valid job requirement: %w", err)
	}
	var job types.JobRequirement
	if err := json.Unmarshal(jobData, &job); err != nil {
		return fmt.Errorf("failed to parse job JSON: %w", err)
	}

	screener := pipeline.New(logger)
	result := screener.Match(&candidate, &job)
	return writeJSONOutput(matchOutputFile, result)
}
