package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"ngc-template/packages/compiler-cli/metadata"
)

var metadataFiles []string

var flattenCmd = &cobra.Command{
	Use:   "flatten [directive...]",
	Short: "Print directive metadata with the base-class chain merged in",
	Long: `Print directive metadata with the base-class chain merged in.

Directives are looked up in the metadata files given with --metadata, or in
metadata.files of the configuration. Without arguments every directive of
the files is flattened.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettings()
		if err != nil {
			return err
		}
		files := metadataFiles
		if len(files) == 0 {
			files = settings.MetadataFiles
		}
		return RunFlatten(cmd.Context(), cmd.OutOrStdout(), files, args, settings.Concurrency)
	},
}

func init() {
	flattenCmd.Flags().StringSliceVarP(&metadataFiles, "metadata", "m", nil, "directive metadata file(s)")
	rootCmd.AddCommand(flattenCmd)
}

// RunFlatten flattens the named directives, or all of them, and writes the
// records as YAML documents in argument order.
func RunFlatten(ctx context.Context, w io.Writer, files, names []string, concurrency int) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if len(files) == 0 {
		return fmt.Errorf("no metadata files given")
	}
	registry, err := metadata.LoadRegistry(files...)
	if err != nil {
		return err
	}

	refs := make([]metadata.Reference, 0, len(names))
	for _, name := range names {
		refs = append(refs, metadata.ParseReference(name))
	}
	if len(refs) == 0 {
		for _, meta := range registry.Directives() {
			refs = append(refs, meta.Ref)
		}
	}

	cache := metadata.NewFlatteningCache(registry)
	docs := make([][]byte, len(refs))
	g, ctx := errgroup.WithContext(ctx)
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}
	for i, ref := range refs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			meta := cache.GetDirectiveMetadata(ref)
			if meta == nil {
				return fmt.Errorf("unknown directive %s", ref)
			}
			doc, err := metadata.MarshalDirectiveMeta(meta)
			if err != nil {
				return err
			}
			docs[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	hits, misses := cache.Stats()
	slog.Debug("flattened directives", "count", len(refs), "hits", hits, "misses", misses)

	for i, doc := range docs {
		if i > 0 {
			fmt.Fprintln(w, "---")
		}
		if _, err := w.Write(doc); err != nil {
			return err
		}
	}
	return nil
}
