package cli

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/campusai/teachassist/internal/client"
	"github.com/campusai/teachassist/internal/domain/progress"
	"github.com/campusai/teachassist/internal/session"
)

func newLearnCmd(e *env) *cobra.Command {
	var stage string
	cmd := &cobra.Command{
		Use:   "learn <topic>",
		Short: "Walk a topic: explain, deep dive, references, quiz",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := e.identity()
			if err != nil {
				return err
			}
			fetch := session.TheoryFetcher(e.api, userID)
			if stage != "" {
				return e.single(cmd.Context(), session.Theory, fetch, joinArgs(args), stage, userID)
			}
			c := session.NewController(session.Theory, fetch)
			c.SetSubject(joinArgs(args))
			return e.walk(cmd.Context(), c, userID)
		},
	}
	cmd.Flags().StringVar(&stage, "stage", "", "fetch a single stage and exit (explain|deep|references|quiz)")
	return cmd
}

func newLabCmd(e *env) *cobra.Command {
	var stage string
	cmd := &cobra.Command{
		Use:   "lab <experiment>",
		Short: "Walk an experiment: explanation, pseudocode, viva",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fetch := session.LabFetcher(e.api)
			if stage != "" {
				return e.single(cmd.Context(), session.Lab, fetch, joinArgs(args), stage, "")
			}
			c := session.NewController(session.Lab, fetch)
			c.SetSubject(joinArgs(args))
			return e.walk(cmd.Context(), c, "")
		},
	}
	cmd.Flags().StringVar(&stage, "stage", "", "fetch a single stage and exit (explanation|pseudocode|viva)")
	return cmd
}

// single fetches one stage outside the linear walk.
func (e *env) single(ctx context.Context, f session.Feature, fetch session.StageFetcher, subject, stage, userID string) error {
	stage = strings.ToLower(strings.TrimSpace(stage))
	if !slices.Contains(f.Stages, stage) {
		return fmt.Errorf("%w %q for %s", session.ErrUnknownStage, stage, f.Name)
	}
	if subject == "" {
		return client.ErrEmptyInput
	}
	res, err := fetch.FetchStage(ctx, subject, stage)
	if err != nil {
		return err
	}
	renderStage(e.out, f.Name, stage, res)
	if stage == "quiz" {
		e.takeQuiz(ctx, subject, res.Questions, userID)
	}
	return nil
}

// walk drives a controller from the terminal until the user quits.
func (e *env) walk(ctx context.Context, c *session.Controller, userID string) error {
	f := c.Feature()

	// show renders the current stage. Quizzes are only taken on a fresh
	// fetch; revisiting a cached quiz needs a retake.
	show := func(fresh bool) {
		cur, _ := c.Current()
		renderStage(e.out, f.Name, cur.Stage, cur.Result)
		if !fresh {
			return
		}
		if cur.Stage == "quiz" {
			e.takeQuiz(ctx, c.Subject(), cur.Result.Questions, userID)
		}
		if f.Name == session.Lab.Name && cur.Stage == "viva" {
			e.track(ctx, client.Activity{UserID: userID, Topic: c.Subject(), Type: progress.ActivityLab})
		}
	}
	fetched := func(_ any, err error) {
		if err != nil {
			renderError(e.out, client.UserMessage(err))
			return
		}
		show(true)
	}

	if _, err := c.Next(ctx); err != nil {
		return err
	}
	show(true)
	for {
		next := c.NextStage()
		label := "[b]ack [r]etry [x] reset [q]uit > "
		if next != "" {
			label = fmt.Sprintf("[n]ext: %s %s", next, label)
		}
		input, ok := e.prompt(label)
		if !ok {
			return nil
		}
		switch input {
		case "n", "next", "":
			if next == "" {
				fmt.Fprintln(e.out, okStyle.Render("All stages completed."))
				continue
			}
			fetched(c.Next(ctx))
		case "b", "back":
			if _, ok := c.Back(); !ok {
				fmt.Fprintln(e.out, dimStyle.Render("already at the first stage"))
				continue
			}
			show(false)
		case "r", "retry", "retake":
			fetched(c.Refetch(ctx))
		case "x", "reset":
			c.Reset()
			fmt.Fprintln(e.out, dimStyle.Render("reset"))
			fetched(c.Next(ctx))
		case "q", "quit", "exit":
			return nil
		default:
			wasDone := c.Completed(input)
			_, err := c.Advance(ctx, input)
			switch {
			case errors.Is(err, session.ErrUnknownStage):
				fmt.Fprintln(e.out, dimStyle.Render("unknown command"))
			case err != nil:
				renderError(e.out, client.UserMessage(err))
			default:
				show(!wasDone)
			}
		}
	}
}

func (e *env) track(ctx context.Context, a client.Activity) {
	if a.UserID == "" {
		id, err := e.identity()
		if err != nil {
			e.log.Warn("track skipped", "error", err)
			return
		}
		a.UserID = id
	}
	if _, err := e.api.TrackActivity(ctx, a); err != nil {
		e.log.Warn("track failed", "user_id", a.UserID, "activity", a.Type, "error", err)
	}
}
