package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"revoice/internal/config"
	"revoice/internal/script"
)

func newProjectCommand(ctx *commandContext) *cobra.Command {
	projectCmd := &cobra.Command{
		Use:   "project",
		Short: "Manage source projects",
	}

	var mediaPath string
	createCmd := &cobra.Command{
		Use:   "create <title>",
		Short: "Register a source project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title, err := script.ValidateTitle(args[0])
			if err != nil {
				return err
			}
			media := mediaPath
			if media != "" {
				if media, err = config.ExpandPath(media); err != nil {
					return err
				}
			}
			return ctx.withServices(func(s *services) error {
				project, err := s.store.CreateProject(cmd.Context(), title, media)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Project %d created: %s\n", project.ID, project.Title)
				return nil
			})
		},
	}
	createCmd.Flags().StringVar(&mediaPath, "media", "", "Path to the source media file")
	projectCmd.AddCommand(createCmd)

	return projectCmd
}

func newSpeakerCommand(ctx *commandContext) *cobra.Command {
	speakerCmd := &cobra.Command{
		Use:   "speaker",
		Short: "Manage speaker voice identities",
	}

	addCmd := &cobra.Command{
		Use:   "add <project-id> <name>",
		Short: "Register a speaker and create its reference sample directory",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := parseID(args[0], "project id")
			if err != nil {
				return err
			}
			return ctx.withServices(func(s *services) error {
				speaker, err := s.store.CreateSpeaker(cmd.Context(), projectID, args[1])
				if err != nil {
					return err
				}
				if err := s.layout.EnsureSpeakerDir(speaker.ID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Speaker %d added: %s\nPlace reference samples in %s\n",
					speaker.ID, speaker.Name, s.layout.SpeakerDir(speaker.ID))
				return nil
			})
		},
	}
	speakerCmd.AddCommand(addCmd)

	listCmd := &cobra.Command{
		Use:   "list <project-id>",
		Short: "List a project's speakers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := parseID(args[0], "project id")
			if err != nil {
				return err
			}
			return ctx.withServices(func(s *services) error {
				speakers, err := s.store.ListSpeakers(cmd.Context(), projectID)
				if err != nil {
					return err
				}
				for _, speaker := range speakers {
					fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", speaker.ID, speaker.Name)
				}
				return nil
			})
		},
	}
	speakerCmd.AddCommand(listCmd)

	return speakerCmd
}

func parseID(value, label string) (int64, error) {
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid %s: %q", label, value)
	}
	return id, nil
}
