package main

import (
	"github.com/spf13/cobra"
)

func newImportCmd(root *rootFlags) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Convert a markdown, HTML, CSV, text, DOCX or PDF file to org source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, _, err := readSource(cmd, args, root)
			if err != nil {
				return err
			}
			return writeOutput(cmd, output, source)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to file instead of stdout")
	return cmd
}
