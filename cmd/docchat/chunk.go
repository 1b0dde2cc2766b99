package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/docchat/internal/domain/chunk"
	"github.com/kailas-cloud/docchat/internal/domain/document"
	"github.com/kailas-cloud/docchat/internal/extract"
)

type chunkOptions struct {
	file     string
	docType  string
	settings chunk.Settings
}

// newChunkCommand is a dry run of extraction and splitting. It needs no config and calls no provider.
func newChunkCommand() *cobra.Command {
	opts := &chunkOptions{settings: chunk.DefaultSettings()}
	cmd := &cobra.Command{
		Use:   "chunk",
		Short: "Print the chunks a document would be split into",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runChunk(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "document to split")
	cmd.Flags().StringVar(&opts.docType, "type", "", "override the detected document type")
	cmd.Flags().IntVar(&opts.settings.Size, "size", chunk.DefaultSize, "chunk size in characters")
	cmd.Flags().IntVar(&opts.settings.Overlap, "overlap", chunk.DefaultOverlap, "overlap between chunks in characters")
	cmd.Flags().IntVar(&opts.settings.MinLength, "min-length", chunk.DefaultMinLength, "drop chunks shorter than this")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func runChunk(ctx context.Context, out io.Writer, opts *chunkOptions) error {
	splitter, err := chunk.NewSplitter(opts.settings)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(filepath.Clean(opts.file))
	if err != nil {
		return fmt.Errorf("read %s: %w", opts.file, err)
	}
	t, err := document.DetectType(opts.file, opts.docType, data)
	if err != nil {
		return err
	}
	text, err := extract.New(zap.NewNop()).Extract(ctx, data, t)
	if err != nil {
		return err
	}

	chunks := splitter.Split(text)
	for i, c := range chunks {
		fmt.Fprintf(out, "--- chunk %d (%d chars) ---\n%s\n", i+1, len([]rune(c)), c)
	}
	fmt.Fprintf(out, "\n%d chunks from %d characters (%s)\n", len(chunks), len([]rune(text)), t)
	return nil
}
