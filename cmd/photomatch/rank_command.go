package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/yepitsaaron/order-flow-and-cv-image-detection-sub000/matching"
)

func newRankCommand(size *int) *cobra.Command {
	var workers int

	cmd := &cobra.Command{
		Use:   "rank <photo> <design>...",
		Short: "Rank designs by similarity to a photo",
		Long: "Rank designs by similarity to a photo. Designs that cannot be decoded\n" +
			"score 0. Ties keep the order the designs were given in.",
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			photo, err := normalizeFile(args[0], *size)
			if err != nil {
				return err
			}

			candidates := make([]matching.Candidate[string], 0, len(args)-1)
			for _, path := range args[1:] {
				buf, err := normalizeFile(path, *size)
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
				}
				candidates = append(candidates, matching.Candidate[string]{Item: path, Buffer: buf})
			}

			result, err := matching.Select(cmd.Context(), photo, candidates, matching.Options{Workers: workers})
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable(rankHeaders, rankRows(result), rankAligns))
			if result.AutoMatch {
				fmt.Fprintf(cmd.OutOrStdout(), "auto-match: %s (%s)\n", result.Best.Item, formatScore(result.BestScore))
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "needs review: best score %s\n", formatScore(result.BestScore))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "Concurrent scorers (0 uses every CPU)")
	return cmd
}

var (
	rankHeaders = []string{"#", "Design", "Score", "Quality"}
	rankAligns  = []columnAlignment{alignRight, alignLeft, alignRight, alignLeft}
)

func rankRows(result matching.Result[string]) [][]string {
	rows := make([][]string, 0, len(result.Ranked))
	for i, s := range result.Ranked {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			s.Item,
			formatScore(s.Score),
			matching.Quality(s.Score),
		})
	}
	return rows
}
