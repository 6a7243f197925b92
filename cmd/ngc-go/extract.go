package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	compiler "ngc-template/packages/compiler/src"
	"ngc-template/packages/compiler/src/config"
	"ngc-template/packages/compiler/src/i18n/catalog"
	i18n_message_bundle "ngc-template/packages/compiler/src/i18n/message_bundle"
	"ngc-template/packages/compiler/src/i18n/serializers"
	"ngc-template/packages/compiler/src/util"
)

var (
	extractOut     string
	extractCatalog string
)

var extractCmd = &cobra.Command{
	Use:   "extract [root]",
	Short: "Extract the translatable messages of a project",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettings()
		if err != nil {
			return err
		}
		catalogPath := extractCatalog
		if catalogPath == "" {
			catalogPath = settings.I18nCatalog
		}
		return RunExtract(cmd.Context(), cmd.OutOrStdout(), rootArg(args), extractOut, catalogPath, settings)
	},
}

func init() {
	extractCmd.Flags().StringVarP(&extractOut, "out", "o", "", "write the catalog to this file instead of stdout")
	extractCmd.Flags().StringVar(&extractCatalog, "catalog", "", "also store the units in this SQLite catalog")
	rootCmd.AddCommand(extractCmd)
}

// RunExtract collects the i18n messages of every template under root and
// writes them in the configured catalog format. When catalogPath is set the
// units are stored there too.
func RunExtract(ctx context.Context, w io.Writer, root, out, catalogPath string, settings *config.Settings) error {
	if ctx == nil {
		ctx = context.Background()
	}
	serializer, ok := serializers.ByFormat(settings.I18nFormat)
	if !ok {
		return fmt.Errorf("unsupported i18n format %q", settings.I18nFormat)
	}
	c, err := compiler.NewCompiler(root, settings)
	if err != nil {
		return err
	}
	templates, err := c.DiscoverTemplates()
	if err != nil {
		return err
	}

	bundle := i18n_message_bundle.NewMessageBundle(i18n_message_bundle.OptionsFromConfig(c.Config()))
	var parseErrors []*util.ParseError
	for _, t := range templates {
		parseErrors = append(parseErrors, bundle.UpdateFromTemplate(t.Source, t.URL())...)
	}
	for _, e := range parseErrors {
		DiagnosticLine(w, e)
	}
	if util.HasErrors(parseErrors) {
		return fmt.Errorf("%d template errors", len(parseErrors))
	}

	relative := func(path string) string {
		if rel, err := filepath.Rel(c.ProjectRoot(), path); err == nil {
			return filepath.ToSlash(rel)
		}
		return path
	}
	units, serializeErrors := bundle.TranslationUnits(serializer, relative)
	for _, e := range serializeErrors {
		fmt.Fprintln(w, errorStyle.Render("error")+"  "+e.Error())
	}

	content, err := serializer.Write(units)
	if err != nil {
		return err
	}
	if out == "" {
		if _, err := w.Write(content); err != nil {
			return err
		}
	} else {
		if err := os.WriteFile(out, content, 0o644); err != nil {
			return fmt.Errorf("writing catalog: %w", err)
		}
		slog.Info("wrote message catalog", "path", out, "units", len(units))
	}

	if catalogPath != "" {
		db, err := catalog.Open(catalogPath)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.SaveUnits(ctx, units); err != nil {
			return err
		}
		slog.Info("stored message catalog", "path", catalogPath, "units", len(units))
	}

	if len(serializeErrors) > 0 {
		return fmt.Errorf("%d messages could not be serialized", len(serializeErrors))
	}
	return nil
}
