package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"revoice/internal/config"
	"revoice/internal/script"
)

func newProgramCommand(ctx *commandContext) *cobra.Command {
	programCmd := &cobra.Command{
		Use:   "program",
		Short: "Manage target-language programs",
	}

	var scriptPath string
	createCmd := &cobra.Command{
		Use:   "create <project-id> <lang>",
		Short: "Create a program from a finalized translation script",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := parseID(args[0], "project id")
			if err != nil {
				return err
			}
			path, err := config.ExpandPath(scriptPath)
			if err != nil {
				return err
			}
			raw, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read script: %w", err)
			}
			// Reject malformed scripts before anything is persisted.
			if _, err := script.Parse(string(raw)); err != nil {
				return err
			}
			return ctx.withServices(func(s *services) error {
				program, err := s.store.CreateProgram(cmd.Context(), projectID, args[1], string(raw))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Program %d created (%s)\n", program.ID, program.Lang)
				return nil
			})
		},
	}
	createCmd.Flags().StringVar(&scriptPath, "script", "", "Path to the translation script")
	createCmd.MarkFlagRequired("script")
	programCmd.AddCommand(createCmd)

	return programCmd
}
