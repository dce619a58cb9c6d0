package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yepitsaaron/order-flow-and-cv-image-detection-sub000/imaging"
)

func newRootCommand() *cobra.Command {
	var size int

	rootCmd := &cobra.Command{
		Use:           "photomatch",
		Short:         "Compare completion photos with design images",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if size <= 0 {
				return fmt.Errorf("--size must be > 0, got %d", size)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().IntVar(&size, "size", imaging.DefaultSize, "Edge length of the normalized comparison buffer")

	rootCmd.AddCommand(newScoreCommand(&size))
	rootCmd.AddCommand(newRankCommand(&size))

	return rootCmd
}

// normalizeFile reads and normalizes the image at path
func normalizeFile(path string, size int) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	buf, err := imaging.Normalize(data, size)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return buf, nil
}
