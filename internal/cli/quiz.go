package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/campusai/teachassist/internal/client"
	"github.com/campusai/teachassist/internal/domain/learning"
	"github.com/campusai/teachassist/internal/session"
)

func newQuizCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "quiz <topic>",
		Short: "Take a quiz on a topic and record the score",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := e.identity()
			if err != nil {
				return err
			}
			topic := joinArgs(args)
			res, err := e.api.Learn(cmd.Context(), topic, "quiz", userID)
			if err != nil {
				return err
			}
			e.takeQuiz(cmd.Context(), topic, res.Questions, userID)
			return nil
		},
	}
}

// parseOption accepts a letter (A, b) or a 1-based number.
func parseOption(s string, n int) (int, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 1 {
		c := s[0] | 0x20
		if c >= 'a' && int(c-'a') < n {
			return int(c - 'a'), true
		}
	}
	if v, err := strconv.Atoi(s); err == nil && v >= 1 && v <= n {
		return v - 1, true
	}
	return 0, false
}

// takeQuiz asks every question, scores once all are answered and reports
// the score to the backend. Running out of input abandons the quiz.
func (e *env) takeQuiz(ctx context.Context, topic string, qs []learning.Question, userID string) {
	quiz, err := session.NewQuiz(qs)
	if err != nil {
		renderError(e.out, "quiz is malformed: "+err.Error())
		return
	}
	questions := quiz.Questions()
	for i, q := range questions {
		renderQuestion(e.out, i+1, len(questions), q)
		for !quiz.Answered(q.ID) {
			answer, ok := e.prompt("answer > ")
			if !ok {
				fmt.Fprintln(e.out, dimStyle.Render("quiz abandoned"))
				return
			}
			opt, valid := parseOption(answer, len(q.Options))
			if !valid {
				fmt.Fprintln(e.out, dimStyle.Render(fmt.Sprintf("pick A-%c", 'A'+rune(len(q.Options)-1))))
				continue
			}
			if err := quiz.Select(q.ID, opt); err != nil {
				renderError(e.out, err.Error())
			}
		}
	}

	score, err := quiz.Score()
	if err != nil {
		renderError(e.out, err.Error())
		return
	}
	renderScore(e.out, score)
	for _, q := range questions {
		fmt.Fprintf(e.out, "  %d. %c) %s\n", q.ID, 'A'+rune(q.Answer), q.Options[q.Answer])
	}

	if userID == "" {
		return
	}
	if err := session.ReportQuiz(ctx, e.api, userID, topic, score); err != nil {
		renderError(e.out, "score not saved: "+client.UserMessage(err))
		return
	}
	fmt.Fprintln(e.out, dimStyle.Render("score saved; run `teachassist progress` to see the updated view"))
}
