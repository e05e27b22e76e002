package main

import (
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	apppkg "github.com/kk-code-lab/xcat/internal/app"
)

var rootCmd = &cobra.Command{
	Use:     "xcat <file>",
	Short:   "Terminal previewer for markdown and raster images",
	Long:    "xcat detects a file's format by content signature, converts it into a styled document and shows it in a scrollable viewport with vim-style keys (j/k/h/l, d/u, g/G, q).",
	Version: "0.1.0",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return apppkg.Run(args[0])
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	// UTF-8 fallback keeps wide and accented characters intact on
	// terminals with missing locale configuration.
	tcell.SetEncodingFallback(tcell.EncodingFallbackUTF8)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "xcat: %v\n", err)
		os.Exit(1)
	}
}
