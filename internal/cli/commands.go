package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/agenthands/textgraph/internal/core"
)

var (
	buildSession  string
	buildDocument string
)

var extractCmd = &cobra.Command{
	Use:   "extract [file]",
	Short: "Extract a graph from a file without saving it",
	Args:  cobra.ExactArgs(1),
	RunE:  runExtract,
}

var buildCmd = &cobra.Command{
	Use:   "build [file]",
	Short: "Build a graph from a file and save it",
	Long: `Runs the full pipeline on a text or PDF file and saves the result under a session.
A new session id is generated when --session is not given.`,
	Args: cobra.ExactArgs(1),
	RunE: runBuild,
}

var statsCmd = &cobra.Command{
	Use:   "stats [session]",
	Short: "Show statistics of a session",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

var clearCmd = &cobra.Command{
	Use:   "clear [session]",
	Short: "Delete every node and relationship of a session",
	Args:  cobra.ExactArgs(1),
	RunE:  runClear,
}

func init() {
	buildCmd.Flags().StringVarP(&buildSession, "session", "s", "", "session id to build into")
	buildCmd.Flags().StringVar(&buildDocument, "document", "", "document id (defaults to the file name)")
	rootCmd.AddCommand(extractCmd, buildCmd, statsCmd, clearCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	text, err := readDocument(args[0])
	if err != nil {
		return err
	}
	p, closeFn, err := open(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer closeFn()

	res, err := p.Extract(cmd.Context(), text, filepath.Base(args[0]))
	if err != nil {
		return err
	}
	if jsonOutput {
		return writeJSON(cmd.OutOrStdout(), res)
	}
	writeGraph(cmd.OutOrStdout(), res.Entities, res.Relationships, res.Events, res.Report)
	return nil
}

func runBuild(cmd *cobra.Command, args []string) error {
	text, err := readDocument(args[0])
	if err != nil {
		return err
	}
	p, closeFn, err := open(cmd.Context(), true)
	if err != nil {
		return err
	}
	defer closeFn()

	documentID := buildDocument
	if documentID == "" {
		documentID = filepath.Base(args[0])
	}
	resp, err := p.Build(cmd.Context(), core.BuildRequest{Text: text, SessionID: buildSession, DocumentID: documentID})
	if err != nil {
		return err
	}
	if jsonOutput {
		return writeJSON(cmd.OutOrStdout(), resp)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %s\n", heading("Session"), resp.SessionID)
	if resp.Report != nil {
		writeGraph(out, resp.Entities, resp.Relationships, resp.Events, *resp.Report)
	}
	fmt.Fprintln(out, resp.Message)
	return nil
}

func runStats(cmd *cobra.Command, args []string) error {
	p, closeFn, err := open(cmd.Context(), true)
	if err != nil {
		return err
	}
	defer closeFn()

	stats, err := p.Stats(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if jsonOutput {
		return writeJSON(cmd.OutOrStdout(), stats)
	}
	writeStats(cmd.OutOrStdout(), args[0], stats)
	return nil
}

func runClear(cmd *cobra.Command, args []string) error {
	p, closeFn, err := open(cmd.Context(), true)
	if err != nil {
		return err
	}
	defer closeFn()

	if err := p.ClearSession(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Cleared session %s\n", args[0])
	return nil
}
