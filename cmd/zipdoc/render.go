package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/benjaminschreck/go-zipdoc/pkg/zipdoc/merge"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	renderOutput string
	renderEntry  string
	renderBase64 bool
)

func init() {
	cmd := newRenderCmd()
	cmd.Flags().StringVarP(&renderOutput, "output", "o", "", "Output document path")
	cmd.Flags().StringVar(&renderEntry, "entry", "", "Mergeable entry (default depends on the file extension)")
	cmd.Flags().BoolVar(&renderBase64, "base64", false, "Write the rendered archive base64 encoded (to stdout without -o)")
	rootCmd.AddCommand(cmd)
}

func newRenderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "render <template> <data>",
		Short: "Render a template with a YAML or JSON data file",
		Long: `The render command merges a data file into the mergeable entry of a
template document and writes the result. Every other entry is copied unchanged.

The mergeable entry defaults to word/document.xml for .docx, xl/sharedStrings.xml
for .xlsx, ppt/slides/slide1.xml for .pptx and content.xml for ODF files.

Example:
  zipdoc render invoice.docx customer.yaml -o out/invoice.docx
  zipdoc render report.zip data.json --entry body.xml -o report-filled.zip
  zipdoc render letter.docx data.yaml --base64 > letter.b64`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd.OutOrStdout(), args)
		},
	}
}

func runRender(w io.Writer, args []string) error {
	templatePath, dataPath := args[0], args[1]
	if renderOutput == "" && !renderBase64 {
		return errors.New("an output path is required (-o), or use --base64 to print to stdout")
	}

	data, err := loadContext(dataPath)
	if err != nil {
		return err
	}

	tmpl, err := engine.PrepareFile(templatePath, renderEntry)
	if err != nil {
		return fmt.Errorf("failed to prepare template: %w", err)
	}

	doc, err := tmpl.Render(data)
	if err != nil {
		return fmt.Errorf("failed to render %s: %w", tmpl.Entry(), err)
	}

	if renderBase64 {
		encoded, err := doc.Base64()
		if err != nil {
			return err
		}
		if renderOutput == "" {
			_, err = fmt.Fprintln(w, encoded)
			return err
		}
		return afero.WriteFile(appFs, renderOutput, []byte(encoded), 0o644)
	}

	if err := engine.SaveFile(doc.Document, renderOutput); err != nil {
		return fmt.Errorf("failed to save %s: %w", renderOutput, err)
	}
	fmt.Fprintf(w, "Rendered %s (%s) to %s\n", templatePath, tmpl.Entry(), renderOutput)
	return nil
}

// loadContext reads a data file. YAML is a superset of JSON, so both parse.
func loadContext(path string) (merge.Context, error) {
	raw, err := afero.ReadFile(appFs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read data file: %w", err)
	}

	var data map[string]interface{}
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse data file %s: %w", path, err)
	}
	if data == nil {
		data = map[string]interface{}{}
	}
	return merge.Context(data), nil
}
