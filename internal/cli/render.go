package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/campusai/teachassist/internal/domain/learning"
	"github.com/campusai/teachassist/internal/domain/progress"
	"github.com/campusai/teachassist/internal/session"
)

var (
	colorPrimary = lipgloss.Color("#5B8DEF")
	colorOK      = lipgloss.Color("#22C55E")
	colorWarn    = lipgloss.Color("#F97316")
	colorErr     = lipgloss.Color("#FF6B6B")
	colorDim     = lipgloss.Color("#94A3B8")
	colorBorder  = lipgloss.Color("#444444")

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	dimStyle   = lipgloss.NewStyle().Foreground(colorDim)
	okStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorOK)
	warnStyle  = lipgloss.NewStyle().Foreground(colorWarn)
	errStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorErr)
	boxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)
	barFilled = lipgloss.NewStyle().Foreground(colorOK)
	barEmpty  = lipgloss.NewStyle().Foreground(colorBorder)
)

const barWidth = 20

// bar draws a 0-100 value as a fixed-width meter.
func bar(pct float64) string {
	switch {
	case pct < 0:
		pct = 0
	case pct > 100:
		pct = 100
	}
	filled := int(pct / 100 * barWidth)
	return barFilled.Render(strings.Repeat("█", filled)) +
		barEmpty.Render(strings.Repeat("░", barWidth-filled)) +
		" " + session.Percent(pct)
}

func renderStage(w io.Writer, feature, stage string, res learning.StageResult) {
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("%s · %s", feature, strings.ToUpper(stage))))
	if c := strings.TrimSpace(res.Content); c != "" {
		fmt.Fprintln(w, c)
	}
	if res.Next != "" {
		fmt.Fprintln(w, dimStyle.Render("next: "+res.Next))
	}
}

func renderQuestion(w io.Writer, n, total int, q learning.Question) {
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Question %d/%d", n, total)))
	fmt.Fprintln(w, q.Question)
	for i, opt := range q.Options {
		fmt.Fprintf(w, "  %c) %s\n", 'A'+rune(i), opt)
	}
}

func renderScore(w io.Writer, s session.Score) {
	style := okStyle
	if s.Percent < 60 {
		style = errStyle
	} else if s.Percent < 80 {
		style = warnStyle
	}
	fmt.Fprintln(w, style.Render(fmt.Sprintf("Score: %d/%d (%d%%)", s.Correct, s.Total, s.Percent)))
}

func renderError(w io.Writer, msg string) {
	fmt.Fprintln(w, errStyle.Render("Error: ")+msg)
}

// renderDashboard prints the joined progress views. Missing sections are
// shown as empty rather than failing.
func renderDashboard(w io.Writer, d session.Dashboard) {
	p := d.Progress
	overview := strings.Join([]string{
		titleStyle.Render("Progress · " + p.UserID),
		fmt.Sprintf("Activities: %d   Quizzes: %d   Streak: %d days", p.TotalActivities, p.QuizzesTaken, p.StreakDays),
		"Average quiz score: " + bar(p.AverageScore),
		fmt.Sprintf("Topics: %d total, %d mastered, %d in progress",
			p.Summary.TotalTopics, p.Summary.MasteredTopics, p.Summary.InProgressTopics),
	}, "\n")
	fmt.Fprintln(w, boxStyle.Render(overview))

	if len(p.Topics) > 0 {
		names := make([]string, 0, len(p.Topics))
		for name := range p.Topics {
			names = append(names, name)
		}
		sort.Strings(names)
		fmt.Fprintln(w, titleStyle.Render("Topics"))
		for _, name := range names {
			fmt.Fprintf(w, "  %-28s %s\n", name, bar(float64(p.Topics[name].MasteryLevel)))
		}
	}

	if len(p.Achievements) > 0 {
		fmt.Fprintln(w, titleStyle.Render("Achievements"))
		for _, a := range p.Achievements {
			fmt.Fprintln(w, "  🏆 "+a)
		}
	}

	a := d.Analytics
	fmt.Fprintln(w, titleStyle.Render("Analytics"))
	fmt.Fprintf(w, "  beginner %d · learning %d · practicing %d · mastered %d\n",
		a.MasteryDistribution.Beginner, a.MasteryDistribution.Learning,
		a.MasteryDistribution.Practicing, a.MasteryDistribution.Mastered)
	fmt.Fprintf(w, "  study time %d min · %d achievements\n", a.TotalStudyTimeMinutes, a.AchievementCount)
	for _, q := range a.QuizHistory {
		fmt.Fprintf(w, "  %s %-24s %s\n", q.Date.Format("2006-01-02"), q.Topic, session.Percent(q.Percentage))
	}

	renderPerformance(w, d.Performance)

	if recs := d.Recommendations.Recommendations; len(recs) > 0 {
		fmt.Fprintln(w, titleStyle.Render("Recommendations"))
		for _, r := range recs {
			fmt.Fprintln(w, "  • "+r)
		}
	}
}

func renderPerformance(w io.Writer, perf progress.Performance) {
	fmt.Fprintln(w, titleStyle.Render("Performance"))
	if perf.Status != progress.PerformanceSuccess {
		msg := perf.Message
		if msg == "" {
			msg = "not enough activity yet"
		}
		fmt.Fprintln(w, "  "+dimStyle.Render(msg))
		return
	}
	if pr := perf.Predictions; pr != nil {
		fmt.Fprintf(w, "  readiness %s (%s)\n", bar(pr.OverallReadiness), pr.ReadinessLevel)
		fmt.Fprintf(w, "  predicted exam %s, grade %s, confidence %s\n",
			session.Percent(pr.ExamPrediction.PredictedPercentage),
			pr.ExamPrediction.GradePrediction, pr.ExamPrediction.Confidence)
	}
	for _, group := range []struct {
		label  string
		style  lipgloss.Style
		topics []progress.TopicScore
	}{
		{"strong", okStyle, perf.StrongTopics},
		{"moderate", warnStyle, perf.ModerateTopics},
		{"weak", errStyle, perf.WeakTopics},
	} {
		for _, t := range group.topics {
			fmt.Fprintf(w, "  %s %-24s %s\n", group.style.Render(fmt.Sprintf("%-8s", group.label)), t.Name, session.Percent(t.Score))
		}
	}
	for _, f := range perf.FocusAreas {
		fmt.Fprintf(w, "  focus: %s, %s (%s)\n", f.Topic, f.SuggestedAction, f.Priority)
	}
}

func renderPapers(w io.Writer, papers []learning.Paper) {
	for i, p := range papers {
		fmt.Fprintf(w, "%d. %s\n", i+1, titleStyle.Render(p.Title))
		meta := []string{}
		if len(p.Authors) > 0 {
			meta = append(meta, strings.Join(p.Authors, ", "))
		}
		if p.Year > 0 {
			meta = append(meta, fmt.Sprint(p.Year))
		}
		if p.Source != "" {
			meta = append(meta, p.Source)
		}
		if p.Citations > 0 {
			meta = append(meta, fmt.Sprintf("%d citations", p.Citations))
		}
		if len(meta) > 0 {
			fmt.Fprintln(w, "   "+dimStyle.Render(strings.Join(meta, " · ")))
		}
		if p.URL != "" {
			fmt.Fprintln(w, "   "+p.URL)
		}
	}
}

func renderTrace(w io.Writer, trace []string) {
	if len(trace) == 0 {
		return
	}
	fmt.Fprintln(w, dimStyle.Render("reasoning:"))
	for _, step := range trace {
		fmt.Fprintln(w, dimStyle.Render("  · "+step))
	}
}
