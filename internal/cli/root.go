// Package cli is the teachassist command line: a terminal front end over the
// backend client and the session core.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/campusai/teachassist/internal/client"
	"github.com/campusai/teachassist/internal/platform/envutil"
	"github.com/campusai/teachassist/internal/platform/logger"
	"github.com/campusai/teachassist/internal/session"
)

// env is the per-invocation state shared by every command.
type env struct {
	server    string
	statePath string
	verbose   bool
	timeout   time.Duration

	in  *bufio.Scanner
	out io.Writer

	log   *logger.Logger
	api   *client.Client
	store *session.FileStore
}

func (e *env) setup() error {
	e.log = logger.NewStderr(e.verbose)
	path := e.statePath
	if path == "" {
		p, err := session.DefaultStatePath()
		if err != nil {
			return fmt.Errorf("resolve state path: %w", err)
		}
		path = p
	}
	e.store = session.NewFileStore(path)
	st, err := e.store.Load()
	if err != nil {
		return err
	}
	e.api = client.New(client.Config{
		BaseURL: e.server,
		Timeout: e.timeout,
		Log:     e.log,
		Token:   st.Token,
	})
	e.log.Debug("cli ready", "server", e.api.BaseURL(), "state", path)
	return nil
}

// identity returns the persisted session id, creating one on first use.
func (e *env) identity() (string, error) {
	id, err := e.store.Identity()
	if err != nil {
		return "", fmt.Errorf("load session identity: %w", err)
	}
	return id, nil
}

// prompt prints label and reads one trimmed line. ok is false at EOF.
func (e *env) prompt(label string) (string, bool) {
	fmt.Fprint(e.out, dimStyle.Render(label))
	if !e.in.Scan() {
		fmt.Fprintln(e.out)
		return "", false
	}
	return strings.TrimSpace(e.in.Text()), true
}

// NewRootCommand builds the command tree reading answers from in and
// writing to out.
func NewRootCommand(in io.Reader, out io.Writer) *cobra.Command {
	e := &env{in: bufio.NewScanner(in), out: out}

	root := &cobra.Command{
		Use:           "teachassist",
		Short:         "Syllabus-grounded learning assistant",
		Long:          "teachassist talks to the teaching assistant backend: upload a syllabus, learn topics stage by stage, take quizzes and follow your progress.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return e.setup()
		},
	}
	root.SetOut(out)

	pf := root.PersistentFlags()
	pf.StringVar(&e.server, "server", envutil.String("TEACHASSIST_SERVER", client.DefaultBaseURL), "backend base URL")
	pf.StringVar(&e.statePath, "state", envutil.String("TEACHASSIST_STATE", ""), "state file (default <config dir>/teachassist/state.yaml)")
	pf.BoolVarP(&e.verbose, "verbose", "v", false, "log requests to stderr")
	pf.DurationVar(&e.timeout, "timeout", 0, "per-request timeout (0 waits for the backend)")

	root.AddCommand(
		newSessionCmd(e),
		newUploadCmd(e),
		newAskCmd(e),
		newLearnCmd(e),
		newLabCmd(e),
		newQuizCmd(e),
		newDeepResearchCmd(e),
		newResearchCmd(e),
		newPapersCmd(e),
		newProjectCmd(e),
		newStackCmd(e),
		newChatCmd(e),
		newProgressCmd(e),
	)
	return root
}

// Execute runs the CLI and returns the process exit code.
func Execute(ctx context.Context, args []string) int {
	root := NewRootCommand(os.Stdin, os.Stdout)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		renderError(os.Stderr, client.UserMessage(err))
		return 1
	}
	return 0
}

func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}
