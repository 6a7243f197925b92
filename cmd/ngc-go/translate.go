package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"ngc-template/packages/compiler/src/i18n/catalog"
	i18n_translation_bundle "ngc-template/packages/compiler/src/i18n/translation_bundle"
)

var (
	catalogPath string
	locale      string
	missing     string
)

var translateCmd = &cobra.Command{
	Use:   "translate <id> <text>",
	Short: "Store the translation of a message in the catalog",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := catalogFlag()
		if err != nil {
			return err
		}
		return RunTranslate(cmd.Context(), cmd.OutOrStdout(), path, locale, args[0], args[1])
	},
}

var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Print the translation of every message of the catalog",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := catalogFlag()
		if err != nil {
			return err
		}
		strategy, err := i18n_translation_bundle.ParseMissingTranslationStrategy(missing)
		if err != nil {
			return err
		}
		return RunMerge(cmd.Context(), cmd.OutOrStdout(), path, locale, strategy)
	},
}

func init() {
	for _, cmd := range []*cobra.Command{translateCmd, mergeCmd} {
		cmd.Flags().StringVar(&catalogPath, "catalog", "", "SQLite message catalog (default i18n.catalog)")
		cmd.Flags().StringVar(&locale, "locale", "", "target locale")
		_ = cmd.MarkFlagRequired("locale")
		rootCmd.AddCommand(cmd)
	}
	mergeCmd.Flags().StringVar(&missing, "missing", "warning", "missing translation strategy (error, warning, ignore)")
}

func catalogFlag() (string, error) {
	if catalogPath != "" {
		return catalogPath, nil
	}
	settings, err := loadSettings()
	if err != nil {
		return "", err
	}
	if settings.I18nCatalog == "" {
		return "", fmt.Errorf("no catalog given: use --catalog or i18n.catalog")
	}
	return settings.I18nCatalog, nil
}

// RunTranslate stores text as the locale translation of message id.
func RunTranslate(ctx context.Context, w io.Writer, path, locale, id, text string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	db, err := catalog.Open(path)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.SetTranslation(ctx, id, locale, text); err != nil {
		return err
	}
	OkLine(w, id+" ("+locale+")")
	return nil
}

// RunMerge prints every unit of the catalog with its locale translation,
// then the number of units still untranslated.
func RunMerge(ctx context.Context, w io.Writer, path, locale string, strategy i18n_translation_bundle.MissingTranslationStrategy) error {
	if ctx == nil {
		ctx = context.Background()
	}
	db, err := catalog.Open(path)
	if err != nil {
		return err
	}
	defer db.Close()

	bundle, err := i18n_translation_bundle.LoadTranslationBundle(ctx, db, locale, strategy)
	if err != nil {
		return err
	}
	units, err := db.Units(ctx)
	if err != nil {
		return err
	}
	failed := 0
	for _, unit := range units {
		text, err := bundle.Get(unit)
		if err != nil {
			fmt.Fprintln(w, errorStyle.Render("error")+"  "+err.Error())
			failed++
			continue
		}
		fmt.Fprintln(w, faintStyle.Render(unit.ID)+"  "+text)
	}

	untranslated, err := db.Untranslated(ctx, locale)
	if err != nil {
		return err
	}
	FaintLine(w, fmt.Sprintf("%d units, %d untranslated", len(units), len(untranslated)))
	if failed > 0 {
		return fmt.Errorf("%d units could not be merged", failed)
	}
	return nil
}
