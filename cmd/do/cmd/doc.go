package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/templui/folio/internal/config"
	"github.com/templui/folio/internal/logger"
	"github.com/templui/folio/internal/markdown"
	"github.com/templui/folio/internal/model"
	"github.com/templui/folio/internal/store"
	"gopkg.in/yaml.v3"
)

func DocCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doc",
		Short: "Inspect and replace the stored portfolio document",
	}

	cmd.AddCommand(docShowCmd())
	cmd.AddCommand(docImportCmd())
	cmd.AddCommand(docResetCmd())
	return cmd
}

// openStore builds the document store the server would use, plus its defaults.
func openStore() (*store.DocumentStore, model.Document) {
	cfg := config.Load()
	logger.Init(logger.Options{Development: true, Output: os.Stderr})
	defaults := store.LoadDefaults(cfg.DefaultProfilePath, markdown.NewParser())
	return store.NewDocumentStore(cfg.DataPath, defaults), defaults
}

func docShowCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the stored document",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _ := openStore()
			snap := s.Read()
			if snap.State != store.ReadFound {
				fmt.Fprintf(cmd.ErrOrStderr(), "document %s, showing defaults\n", snap.State)
			}
			return writeDocument(cmd.OutOrStdout(), snap.Document, format)
		},
	}

	cmd.Flags().StringVar(&format, "format", "json", "output format: json or yaml")
	return cmd
}

func docImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the stored document with a JSON or YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDocument(args[0])
			if err != nil {
				return err
			}

			s, _ := openStore()
			err = s.Save(doc)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "imported %d projects into %s\n", len(doc.Projects), s.Path())
			return nil
		},
	}
}

func docResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Overwrite the stored document with the default document",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, defaults := openStore()
			err := s.Save(defaults)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "reset %s\n", s.Path())
			return nil
		},
	}
}

func writeDocument(w io.Writer, doc model.Document, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(doc)
	}
	return fmt.Errorf("unknown format %q (use json or yaml)", format)
}

func readDocument(path string) (model.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Document{}, err
	}

	var doc model.Document
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &doc)
	default:
		err = json.Unmarshal(data, &doc)
	}
	if err != nil {
		return model.Document{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	doc.Normalize()
	return doc, nil
}
