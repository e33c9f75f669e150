package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

// readSource reads the named file, or stdin when no file is given, and
// converts it to org source when its extension names another format.
// It returns the source and a display name for errors.
func readSource(cmd *cobra.Command, args []string, flags *rootFlags) (string, string, error) {
	var r io.Reader
	name := "stdin"
	if len(args) > 0 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return "", "", err
		}
		defer f.Close()
		r = f
		name = args[0]
	} else {
		r = cmd.InOrStdin()
		if flags.from != "" {
			name = "stdin." + strings.TrimPrefix(strings.ToLower(flags.from), ".")
		}
	}

	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" || ext == ".org" {
		data, err := io.ReadAll(r)
		if err != nil {
			return "", "", fmt.Errorf("read %s: %w", name, err)
		}
		return string(data), name, nil
	}

	imp, err := flags.importers().ForFile(name)
	if err != nil {
		return "", "", err
	}
	source, err := imp.Import(r, name)
	if err != nil {
		return "", "", fmt.Errorf("import %s: %w", name, err)
	}
	return source, name, nil
}

// writeOutput writes s to path, or to the command's stdout when path is
// empty.
func writeOutput(cmd *cobra.Command, path, s string) error {
	if !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	if path == "" {
		_, err := io.WriteString(cmd.OutOrStdout(), s)
		return err
	}
	if err := os.WriteFile(path, []byte(s), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
