package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"legaldesk/internal/model"
	"legaldesk/internal/poller"
	"legaldesk/internal/session"
	"legaldesk/internal/transform"
)

var (
	reportOut  string
	waitReady  bool
	documentID string
)

func init() {
	analyzeCmd.Flags().StringVarP(&reportOut, "out", "o", "", "write the PDF report to this path")
	analyzeCmd.Flags().BoolVar(&waitReady, "wait", false, "wait until the document is ready for questions")
	askCmd.Flags().StringVarP(&documentID, "document", "d", "", "document id to ask about")
	suggestCmd.Flags().StringVarP(&documentID, "document", "d", "", "document id to suggest questions for")
}

// healthCmd checks backend health
var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check analysis backend health",
	Long: `Check the health of the analysis backend and its processing pipelines.

Examples:
  legalctl health
  legalctl health --api http://analysis:8000`,
	Args: cobra.NoArgs,
	RunE: runHealth,
}

// analyzeCmd submits a document for analysis
var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Analyze a legal document",
	Long: `Upload a document to the analysis backend and print the risk summary.

Examples:
  # Analyze and print the summary
  legalctl analyze contract.pdf

  # Also export the PDF report and wait for Q&A readiness
  legalctl analyze contract.pdf --out report.pdf --wait`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

// askCmd asks a question about a document
var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a question about an analyzed document",
	Long: `Ask the Q&A system a question, optionally scoped to a document id.

Examples:
  legalctl ask "What are the termination conditions?" --document 3f2a...`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

// suggestCmd lists suggested questions
var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "List suggested questions",
	Args:  cobra.NoArgs,
	RunE:  runSuggest,
}

func runHealth(cmd *cobra.Command, _ []string) error {
	c, err := newContainer(cmd)
	if err != nil {
		return err
	}
	defer c.Close()

	snap := c.Health.Check(cmd.Context())
	printHealth(out(cmd), snap)
	if !snap.Online {
		return errors.New("backend is offline")
	}
	return nil
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	c, err := newContainer(cmd)
	if err != nil {
		return err
	}
	defer c.Close()

	path := args[0]
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return err
	}

	_, st := c.Sessions.GetOrCreate("")
	upload := model.Upload{Filename: filepath.Base(path), Size: info.Size(), ContentType: "application/pdf"}
	fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", subtle.Sprint("analyzing"), upload.Filename)

	doc, err := c.Analysis.Analyze(cmd.Context(), st, upload, f)
	if err != nil {
		if last := st.State().LastError; last != nil {
			return errors.New(*last)
		}
		return err
	}

	view, err := c.Analysis.View(st, transform.ViewOptions{})
	if err != nil {
		return err
	}
	printView(out(cmd), *view)

	if reportOut != "" {
		rep, err := c.Reports.Export(st)
		if err != nil {
			return fmt.Errorf("export report: %w", err)
		}
		if err := os.WriteFile(reportOut, rep.Data, 0o644); err != nil {
			return err
		}
		fmt.Fprintf(out(cmd), "\n%s %s %s\n", ok.Sprint("report written:"), reportOut, subtle.Sprintf("(%s)", rep.Strategy))
	}

	if waitReady {
		outcome := c.Status.Poll(cmd.Context(), doc.ID, func(ps model.ProcessingStatus) {
			printProgress(cmd.ErrOrStderr(), ps)
		})
		switch outcome {
		case poller.OutcomeReady:
			fmt.Fprintln(out(cmd), ok.Sprint("ready for questions"))
		case poller.OutcomeUnavailable:
			fmt.Fprintln(out(cmd), subtle.Sprint("processing status not reported by this backend"))
		default:
			fmt.Fprintf(out(cmd), "%s\n", warn.Sprintf("stopped waiting (%s)", outcome))
		}
	}
	fmt.Fprintf(out(cmd), "\n%s %s\n", bold.Sprint("document id:"), doc.ID)
	return nil
}

// scopedSession returns a session with documentID open, or an empty one.
func scopedSession(sessions *session.Manager) (*session.Store, error) {
	_, st := sessions.GetOrCreate("")
	if documentID == "" {
		return st, nil
	}
	if _, err := st.Dispatch(session.SetDocument(documentID, "", nil)); err != nil {
		return nil, err
	}
	return st, nil
}

func runAsk(cmd *cobra.Command, args []string) error {
	c, err := newContainer(cmd)
	if err != nil {
		return err
	}
	defer c.Close()

	st, err := scopedSession(c.Sessions)
	if err != nil {
		return err
	}
	msg, err := c.QA.Ask(cmd.Context(), st, strings.Join(args, " "))
	if err != nil {
		return err
	}
	printAnswer(out(cmd), msg)
	return nil
}

func runSuggest(cmd *cobra.Command, _ []string) error {
	c, err := newContainer(cmd)
	if err != nil {
		return err
	}
	defer c.Close()

	st, err := scopedSession(c.Sessions)
	if err != nil {
		return err
	}
	for i, q := range c.QA.SuggestedQuestions(cmd.Context(), st) {
		fmt.Fprintf(out(cmd), "%d. %s\n", i+1, q)
	}
	return nil
}
