package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yepitsaaron/order-flow-and-cv-image-detection-sub000/matching"
	"github.com/yepitsaaron/order-flow-and-cv-image-detection-sub000/similarity"
)

func newScoreCommand(size *int) *cobra.Command {
	return &cobra.Command{
		Use:   "score <photo> <design>",
		Short: "Score one photo against one design",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			photo, err := normalizeFile(args[0], *size)
			if err != nil {
				return err
			}
			design, err := normalizeFile(args[1], *size)
			if err != nil {
				return err
			}

			score := similarity.Score(photo, design)
			rows := [][]string{{
				args[1],
				formatScore(score),
				matching.Quality(score),
				decision(score > matching.ConfidenceThreshold),
			}}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(scoreHeaders, rows, scoreAligns))
			return nil
		},
	}
}

var (
	scoreHeaders = []string{"Design", "Score", "Quality", "Decision"}
	scoreAligns  = []columnAlignment{alignLeft, alignRight, alignLeft, alignLeft}
)

func formatScore(score float64) string {
	return fmt.Sprintf("%.4f", score)
}

func decision(auto bool) string {
	if auto {
		return "auto-match"
	}
	return "review"
}
