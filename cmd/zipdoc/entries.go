package main

import (
	"fmt"
	"io"

	"github.com/benjaminschreck/go-zipdoc/pkg/zipdoc"
	"github.com/docker/go-units"
	"github.com/spf13/cobra"
)

type entryInfo struct {
	Path        string `json:"path"`
	Size        int    `json:"size"`
	Compression string `json:"compression"`
}

func init() {
	cmd := newEntriesCmd()
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.AddCommand(cmd)
}

func newEntriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "entries <document>",
		Short: "List the entries of a document",
		Long: `The entries command lists every entry of a document with its size and
the compression zipdoc applies when saving it.

Example:
  zipdoc entries report.docx
  zipdoc entries report.docx --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEntries(cmd.OutOrStdout(), args)
		},
	}
}

func runEntries(w io.Writer, args []string) error {
	docPath := args[0]

	doc, err := engine.OpenFile(docPath)
	if err != nil {
		return fmt.Errorf("failed to open document: %w", err)
	}

	var total int
	infos := make([]entryInfo, 0, doc.Len())
	for _, p := range doc.EntryPaths() {
		data, err := doc.Entry(p)
		if err != nil {
			return err
		}
		total += len(data)
		infos = append(infos, entryInfo{
			Path:        p,
			Size:        len(data),
			Compression: zipdoc.CompressionFor(p).String(),
		})
	}

	if jsonOut {
		return printJSON(w, map[string]interface{}{
			"document": docPath,
			"entries":  infos,
			"count":    len(infos),
			"size":     total,
		})
	}

	for _, info := range infos {
		fmt.Fprintf(w, "%10s  %-15s  %s\n", units.HumanSize(float64(info.Size)), info.Compression, info.Path)
	}
	fmt.Fprintf(w, "\nTotal: %d entries, %s\n", len(infos), units.HumanSize(float64(total)))
	return nil
}
