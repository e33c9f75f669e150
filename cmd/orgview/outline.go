package main

import (
	"encoding/json"

	"github.com/dgallion1/orgview/internal/doctree"
	"github.com/dgallion1/orgview/internal/org"
	"github.com/spf13/cobra"
)

func newOutlineCmd(root *rootFlags) *cobra.Command {
	var options []string
	var output string
	cmd := &cobra.Command{
		Use:   "outline [file]",
		Short: "Print the heading tree of a document as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := org.DefaultOptions()
			if err := applyOptionFlags(&opts, options); err != nil {
				return err
			}
			source, name, err := readSource(cmd, args, root)
			if err != nil {
				return err
			}
			doc, err := org.Parse(source, opts)
			if err != nil {
				return sourceError(name, err)
			}
			out, err := doctree.Build(doc)
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(out, "", "  ")
			if err != nil {
				return err
			}
			return writeOutput(cmd, output, string(data))
		},
	}
	cmd.Flags().StringArrayVar(&options, "option", nil, "Document option as key:value (repeatable)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to file instead of stdout")
	return cmd
}
