package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newSynthCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "synth <program-id>",
		Short: "Synthesize every utterance of a program from its script",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			programID, err := parseID(args[0], "program id")
			if err != nil {
				return err
			}
			return ctx.withServices(func(s *services) error {
				if err := s.pipeline.Synthesize(cmd.Context(), programID); err != nil {
					return err
				}
				mean, scores, err := s.ledger.ProgramScore(cmd.Context(), programID)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Program %d synthesized: %d utterances, mean score %.3f\n",
					programID, len(scores), mean)
				return nil
			})
		},
	}
}

func newRereadCommand(ctx *commandContext) *cobra.Command {
	var text string
	var speaker string

	cmd := &cobra.Command{
		Use:   "reread <program-id> <ordinal>",
		Short: "Re-synthesize one utterance with new text or speaker",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			programID, err := parseID(args[0], "program id")
			if err != nil {
				return err
			}
			ordinal, err := parseOrdinal(args[1])
			if err != nil {
				return err
			}
			return ctx.withServices(func(s *services) error {
				current, err := s.store.GetUtteranceByOrdinal(cmd.Context(), programID, ordinal)
				if err != nil {
					return err
				}
				newText := text
				if newText == "" {
					newText = current.Text
				}
				newSpeaker := speaker
				if newSpeaker == "" {
					existing, err := s.store.GetSpeaker(cmd.Context(), current.SpeakerID)
					if err != nil {
						return err
					}
					newSpeaker = existing.Name
				}
				score, err := s.pipeline.Reread(cmd.Context(), programID, ordinal, newText, newSpeaker)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Utterance %d reread, score %.3f\n", ordinal, score)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&text, "text", "", "Replacement text (default: keep current)")
	cmd.Flags().StringVar(&speaker, "speaker", "", "Replacement speaker name (default: keep current)")
	return cmd
}

func parseOrdinal(value string) (int, error) {
	ordinal, err := strconv.Atoi(value)
	if err != nil || ordinal < 0 {
		return 0, fmt.Errorf("invalid ordinal: %q", value)
	}
	return ordinal, nil
}
