package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

type askOptions struct {
	file     string
	docType  string
	question string
	topK     int
}

func newAskCommand(flags *globalFlags) *cobra.Command {
	opts := &askOptions{}
	cmd := &cobra.Command{
		Use:   "ask",
		Short: "Load a document and answer one question about it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAsk(cmd.Context(), cmd.OutOrStdout(), flags, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "document to load (pdf, txt, docx, md, xlsx)")
	cmd.Flags().StringVar(&opts.docType, "type", "", "override the detected document type")
	cmd.Flags().StringVarP(&opts.question, "question", "q", "", "question to ask")
	cmd.Flags().IntVarP(&opts.topK, "top-k", "k", 0, "chunks to retrieve (default: retrieval.top_k)")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("question")
	return cmd
}

func runAsk(ctx context.Context, out io.Writer, flags *globalFlags, opts *askOptions) error {
	cfg, logger, _, err := flags.load()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	data, err := os.ReadFile(filepath.Clean(opts.file))
	if err != nil {
		return fmt.Errorf("read %s: %w", opts.file, err)
	}

	a, err := buildApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	status, err := a.session.ProcessFile(ctx, opts.file, opts.docType, data)
	if err != nil {
		return fmt.Errorf("process %s: %w", opts.file, err)
	}
	fmt.Fprintf(out, "Loaded %s (%s): %d chunks, %d characters\n\n",
		status.Name, status.Type, status.Chunks, status.Characters)

	resp, err := a.session.Ask(ctx, opts.question, opts.topK)
	if err != nil {
		return fmt.Errorf("ask: %w", err)
	}
	fmt.Fprintln(out, resp.Answer)
	for i, src := range resp.Sources {
		fmt.Fprintf(out, "\n[Source %d]\n%s\n", i+1, src)
	}
	return nil
}
