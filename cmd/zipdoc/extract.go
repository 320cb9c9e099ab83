package main

import (
	"fmt"
	"io"

	"github.com/benjaminschreck/go-zipdoc/pkg/zipdoc"
	"github.com/spf13/cobra"
)

var extractOutput string

func init() {
	cmd := newExtractCmd()
	cmd.Flags().StringVarP(&extractOutput, "output", "o", "", "Write the entry to a file instead of stdout")
	rootCmd.AddCommand(cmd)
}

func newExtractCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extract <document> <entry>",
		Short: "Write one entry of a document",
		Long: `The extract command writes the raw content of a single entry.

Example:
  zipdoc extract report.docx word/document.xml
  zipdoc extract report.docx word/media/image1.png -o image1.png`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd.OutOrStdout(), args)
		},
	}
}

func runExtract(w io.Writer, args []string) error {
	docPath, entry := args[0], args[1]

	doc, err := engine.OpenFile(docPath)
	if err != nil {
		return fmt.Errorf("failed to open document: %w", err)
	}
	src, err := doc.EntryInputStream(entry)
	if err != nil {
		return fmt.Errorf("failed to read entry: %w", err)
	}

	if extractOutput == "" {
		_, err = zipdoc.CopyStream(w, src)
		return err
	}

	f, err := appFs.Create(extractOutput)
	if err != nil {
		return err
	}
	if _, err := zipdoc.CopyStream(f, src); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
