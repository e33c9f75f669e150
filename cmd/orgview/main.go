// Command orgview renders org documents from the command line.
package main

import (
	"os"

	"github.com/dgallion1/orgview/internal/importer"
	"github.com/spf13/cobra"
)

// rootFlags are shared by every subcommand.
type rootFlags struct {
	from      string // input format for stdin, e.g. "md"
	pdftotext bool
}

func (f *rootFlags) importers() importer.Config {
	return importer.Config{PDFFallback: f.pdftotext}
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	cmd := &cobra.Command{
		Use:   "orgview",
		Short: "Render org documents to HTML or plain text",
		Long: `orgview parses org-mode documents and renders them as HTML fragments,
plain text or a JSON outline. Markdown, HTML, CSV, text, DOCX and PDF
input is converted to org first.

Examples:
  orgview render notes.org                  # HTML to stdout
  orgview render notes.org --format text    # plain text
  orgview render --option toc:2 -o out.html notes.org
  cat README.md | orgview render --from md  # convert markdown on stdin
  orgview outline notes.org                 # JSON heading tree
  orgview import report.docx > report.org   # print converted org source`,
		SilenceUsage:      true,
		CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
	}
	cmd.PersistentFlags().StringVar(&flags.from, "from", "", "Input format when reading stdin (org, md, html, csv, txt)")
	cmd.PersistentFlags().BoolVar(&flags.pdftotext, "pdftotext", true, "Fall back to pdftotext when PDF extraction fails")

	cmd.AddCommand(newRenderCmd(flags), newOutlineCmd(flags), newImportCmd(flags))
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
