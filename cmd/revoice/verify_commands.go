package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"revoice/internal/language"
	"revoice/internal/store"
)

func newVerifyCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "verify <program-id> [ordinal]",
		Short: "Re-transcribe utterances and append fresh verification records",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			programID, err := parseID(args[0], "program id")
			if err != nil {
				return err
			}
			return ctx.withServices(func(s *services) error {
				program, err := s.store.GetProgram(cmd.Context(), programID)
				if err != nil {
					return err
				}
				hint := language.Hint(program.Lang)

				var targets []*store.Utterance
				if len(args) == 2 {
					ordinal, err := parseOrdinal(args[1])
					if err != nil {
						return err
					}
					utterance, err := s.store.GetUtteranceByOrdinal(cmd.Context(), programID, ordinal)
					if err != nil {
						return err
					}
					targets = append(targets, utterance)
				} else {
					targets, err = s.store.ListUtterances(cmd.Context(), programID)
					if err != nil {
						return err
					}
				}

				for _, utterance := range targets {
					record, err := s.ledger.ComputeAndStore(cmd.Context(), utterance, hint)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Utterance %d verified, score %.3f\n",
						utterance.Ordinal, record.Score)
				}
				return nil
			})
		},
	}
}

func newRepairCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "repair <program-id> <ordinal>",
		Short: "Detect and cut a repeated passage from one utterance",
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
				utterance, err := s.store.GetUtteranceByOrdinal(cmd.Context(), programID, ordinal)
				if err != nil {
					return err
				}
				result, err := s.coordinator.VerifyAndRepair(cmd.Context(), utterance)
				if err != nil {
					return err
				}
				if result.Accepted {
					fmt.Fprintf(cmd.OutOrStdout(), "Utterance %d repaired, score %.3f\n",
						ordinal, result.FinalScore)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "Utterance %d unchanged, score %.3f\n",
						ordinal, result.FinalScore)
				}
				return nil
			})
		},
	}
}
