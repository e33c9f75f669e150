package main

import (
	"errors"
	"fmt"

	"github.com/dgallion1/orgview/internal/config"
	"github.com/dgallion1/orgview/internal/org"
	"github.com/dgallion1/orgview/internal/pipeline"
	"github.com/dgallion1/orgview/internal/render"
	"github.com/spf13/cobra"
)

type renderFlags struct {
	format      string
	options     []string
	profile     string
	lineNumbers bool
	arrows      bool
	sections    bool
	sanitize    bool
	classPrefix string
	idPrefix    string
	bodyOnly    bool
	output      string
}

func newRenderCmd(root *rootFlags) *cobra.Command {
	flags := &renderFlags{}
	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a document as HTML or plain text",
		Long: `Render a document as HTML or plain text.

Document options given with --option override the profile, and both are
overridden by #+options: lines in the document itself.

Examples:
  orgview render notes.org
  orgview render notes.org --format text --option num:nil
  orgview render notes.org --profile site.yaml --body-only -o body.html`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args, root, flags)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&flags.format, "format", "f", "html", "Output format (html, text)")
	f.StringArrayVar(&flags.options, "option", nil, "Document option as key:value (repeatable)")
	f.StringVar(&flags.profile, "profile", "", "YAML render profile")
	f.BoolVar(&flags.lineNumbers, "line-numbers", false, "Wrap blocks with their source line numbers")
	f.BoolVar(&flags.arrows, "arrows", false, "Translate -> into an arrow symbol")
	f.BoolVar(&flags.sections, "sections", false, "Wrap each header and its content in a section element")
	f.BoolVar(&flags.sanitize, "sanitize", false, "Strip active content from raw HTML blocks")
	f.StringVar(&flags.classPrefix, "class-prefix", "", "Prefix for generated CSS classes")
	f.StringVar(&flags.idPrefix, "id-prefix", "", "Prefix for generated element ids")
	f.BoolVar(&flags.bodyOnly, "body-only", false, "Omit the title and table of contents")
	f.StringVarP(&flags.output, "output", "o", "", "Write to file instead of stdout")
	return cmd
}

func runRender(cmd *cobra.Command, args []string, root *rootFlags, flags *renderFlags) error {
	format, err := pipeline.ParseFormat(flags.format)
	if err != nil {
		return err
	}
	opts, export, err := resolveOptions(cmd, flags)
	if err != nil {
		return err
	}

	source, name, err := readSource(cmd, args, root)
	if err != nil {
		return err
	}
	out, err := pipeline.RenderSource(source, format, opts, export)
	if err != nil {
		return sourceError(name, err)
	}

	text := out.Result.String()
	if flags.bodyOnly {
		text = out.Result.Body
	}
	return writeOutput(cmd, flags.output, text)
}

// resolveOptions layers defaults, the profile, --option pairs and the
// export flags that were set explicitly.
func resolveOptions(cmd *cobra.Command, flags *renderFlags) (org.Options, render.ExportOptions, error) {
	opts := org.DefaultOptions()
	export := render.DefaultExportOptions()
	if flags.profile != "" {
		p, err := config.LoadProfile(flags.profile)
		if err != nil {
			return opts, export, err
		}
		p.Apply(&opts)
		export = p.Export
	}
	if err := applyOptionFlags(&opts, flags.options); err != nil {
		return opts, export, err
	}

	f := cmd.Flags()
	if f.Changed("line-numbers") {
		export.ExportFromLineNumber = flags.lineNumbers
	}
	if f.Changed("arrows") {
		export.TranslateSymbolArrow = flags.arrows
	}
	if f.Changed("sections") {
		export.Sections = flags.sections
	}
	if f.Changed("sanitize") {
		export.SanitizeRawHTML = flags.sanitize
	}
	if flags.classPrefix != "" {
		export.HTMLClassPrefix = flags.classPrefix
	}
	if flags.idPrefix != "" {
		export.HTMLIDPrefix = flags.idPrefix
	}
	return opts, export, nil
}

func applyOptionFlags(opts *org.Options, pairs []string) error {
	for _, p := range pairs {
		if err := opts.ParseOptionPairs(p); err != nil {
			return fmt.Errorf("--option: %w", err)
		}
	}
	return nil
}

// sourceError prefixes parse errors with the input name.
func sourceError(name string, err error) error {
	var perr *org.ParseError
	if errors.As(err, &perr) {
		return fmt.Errorf("%s: %w", name, err)
	}
	return err
}
