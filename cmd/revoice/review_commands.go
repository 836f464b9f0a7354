package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

type reviewEntry struct {
	Ordinal int     `json:"ordinal"`
	Speaker string  `json:"speaker"`
	Score   float64 `json:"score"`
	Text    string  `json:"text"`
}

func newReviewCommand(ctx *commandContext) *cobra.Command {
	var threshold float64
	var thresholdSet bool
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "review <program-id>",
		Short: "List utterances scoring below the review threshold, worst first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			programID, err := parseID(args[0], "program id")
			if err != nil {
				return err
			}
			thresholdSet = cmd.Flags().Changed("threshold")
			return ctx.withServices(func(s *services) error {
				limit := threshold
				if !thresholdSet {
					limit = s.cfg.Review.ScoreThreshold
				}
				scored, err := s.ledger.UtterancesBelow(cmd.Context(), programID, limit)
				if err != nil {
					return err
				}
				entries := make([]reviewEntry, 0, len(scored))
				names := make(map[int64]string)
				for _, item := range scored {
					name, ok := names[item.Utterance.SpeakerID]
					if !ok {
						speaker, err := s.store.GetSpeaker(cmd.Context(), item.Utterance.SpeakerID)
						if err != nil {
							return err
						}
						name = speaker.Name
						names[speaker.ID] = name
					}
					entries = append(entries, reviewEntry{
						Ordinal: item.Utterance.Ordinal,
						Speaker: name,
						Score:   item.Score,
						Text:    item.Utterance.Text,
					})
				}
				if asJSON {
					return writeJSON(cmd, entries)
				}
				rows := make([][]string, 0, len(entries))
				for _, e := range entries {
					rows = append(rows, []string{
						fmt.Sprintf("%d", e.Ordinal),
						e.Speaker,
						formatScore(e.Score),
						e.Text,
					})
				}
				out := cmd.OutOrStdout()
				fmt.Fprint(out, renderTable(out, []string{"ORDINAL", "SPEAKER", "SCORE", "TEXT"}, rows))
				return nil
			})
		},
	}
	cmd.Flags().Float64Var(&threshold, "threshold", 0, "Score threshold (default: configured review threshold)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of a table")
	return cmd
}

func newScoreCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "score <program-id>",
		Short: "Report a program's mean fidelity score",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			programID, err := parseID(args[0], "program id")
			if err != nil {
				return err
			}
			return ctx.withServices(func(s *services) error {
				mean, scores, err := s.ledger.ProgramScore(cmd.Context(), programID)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, map[string]any{
						"program_id": programID,
						"mean_score": mean,
						"scores":     scores,
					})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Program %d: %d utterances, mean score %.3f\n",
					programID, len(scores), mean)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of text")
	return cmd
}

func newAssembleCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "assemble <program-id>",
		Short: "Build speaker tracks, master mix, and the final deliverable",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			programID, err := parseID(args[0], "program id")
			if err != nil {
				return err
			}
			return ctx.withServices(func(s *services) error {
				result, err := s.assembler.Assemble(cmd.Context(), programID)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Assembled %d utterances across %d speakers at %d Hz\n",
					len(result.Entries), len(result.TrackPaths), result.SampleRate)
				fmt.Fprintf(out, "Master mix: %s\n", result.MasterPath)
				fmt.Fprintf(out, "MP3 export: %s\n", result.MP3Path)
				fmt.Fprintf(out, "Metadata:   %s\n", result.MetadataPath)
				if result.VideoPath != "" {
					fmt.Fprintf(out, "Video:      %s\n", result.VideoPath)
				}
				return nil
			})
		},
	}
}
