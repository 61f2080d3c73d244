package cli

import (
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/campusai/teachassist/internal/client"
	"github.com/campusai/teachassist/internal/domain/learning"
	"github.com/campusai/teachassist/internal/domain/progress"
	"github.com/campusai/teachassist/internal/session"
)

func newUploadCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <syllabus.pdf>",
		Short: "Upload and index a syllabus PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			res, err := e.api.UploadSyllabus(cmd.Context(), args[0], f)
			if err != nil {
				return err
			}
			fmt.Fprintln(e.out, okStyle.Render(res.Message))
			fmt.Fprintln(e.out, dimStyle.Render(fmt.Sprintf("%d chunks · document %s", res.TotalChunks, res.DocumentID)))
			return nil
		},
	}
}

func newAskCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a question answered from the syllabus",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			question := joinArgs(args)
			res, err := e.api.Ask(cmd.Context(), question)
			if err != nil {
				return err
			}
			fmt.Fprintln(e.out, res.Content)
			e.track(cmd.Context(), client.Activity{Topic: question, Type: progress.ActivityQuestion})
			return nil
		},
	}
}

func newDeepResearchCmd(e *env) *cobra.Command {
	var trace bool
	cmd := &cobra.Command{
		Use:   "deep-research <topic>",
		Short: "Multi-step retrieval over the syllabus with a reasoning trace",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := e.api.DeepResearch(cmd.Context(), joinArgs(args))
			if err != nil {
				return err
			}
			fmt.Fprintln(e.out, res.Content)
			fmt.Fprintln(e.out, dimStyle.Render(fmt.Sprintf("%d iterations · %d sources · sub-queries: %s",
				res.Iterations, res.SourcesUsed, strings.Join(res.SubQueries, "; "))))
			if trace {
				renderTrace(e.out, res.ReasoningTrace)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&trace, "trace", false, "print the reasoning trace")
	return cmd
}

func newResearchCmd(e *env) *cobra.Command {
	var noPapers, trace bool
	cmd := &cobra.Command{
		Use:   "research <topic>",
		Short: "Explain a topic with recent papers and research directions",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := e.api.ResearchTopic(cmd.Context(), joinArgs(args), !noPapers)
			if err != nil {
				return err
			}
			fmt.Fprintln(e.out, res.Explanation)
			if len(res.Papers) > 0 {
				fmt.Fprintln(e.out, titleStyle.Render("Papers"))
				renderPapers(e.out, res.Papers)
			}
			if res.ResearchDirections != "" {
				fmt.Fprintln(e.out, titleStyle.Render("Research directions"))
				fmt.Fprintln(e.out, res.ResearchDirections)
			}
			if trace {
				renderTrace(e.out, res.ReasoningTrace)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&noPapers, "no-papers", false, "skip the paper search")
	cmd.Flags().BoolVar(&trace, "trace", false, "print the reasoning trace")
	return cmd
}

func newPapersCmd(e *env) *cobra.Command {
	var summarize bool
	cmd := &cobra.Command{
		Use:   "papers <query>",
		Short: "Search arXiv and Semantic Scholar",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := joinArgs(args)
			res, err := e.api.SearchPapers(cmd.Context(), query)
			if err != nil {
				return err
			}
			if len(res.Papers) == 0 {
				fmt.Fprintln(e.out, dimStyle.Render("no papers found"))
				return nil
			}
			renderPapers(e.out, res.Papers)
			if !summarize {
				return nil
			}
			sum, err := e.api.SummarizePapers(cmd.Context(), query, res.Papers)
			if err != nil {
				return err
			}
			fmt.Fprintln(e.out, titleStyle.Render("Summary"))
			fmt.Fprintln(e.out, sum.Content)
			return nil
		},
	}
	cmd.Flags().BoolVar(&summarize, "summarize", false, "summarize the papers found")
	return cmd
}

func newProjectCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Project ideas and plans",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "ideas <subjects>",
		Short: "Suggest projects combining the given subjects",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := e.api.ProjectIdeas(cmd.Context(), joinArgs(args))
			if err != nil {
				return err
			}
			if len(res.Projects) == 0 {
				fmt.Fprintln(e.out, res.Content)
				return nil
			}
			for _, p := range res.Projects {
				fmt.Fprintf(e.out, "%d. %s %s\n", p.ID, titleStyle.Render(p.Title), dimStyle.Render("("+p.Difficulty+")"))
				fmt.Fprintln(e.out, "   "+p.Description)
				if p.Innovation != "" {
					fmt.Fprintln(e.out, "   "+dimStyle.Render(p.Innovation))
				}
			}
			return nil
		},
	})
	var stage string
	details := &cobra.Command{
		Use:   "details <title>",
		Short: "Plan a project: detailed, roadmap or concepts",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := e.api.ProjectDetails(cmd.Context(), joinArgs(args), stage)
			if err != nil {
				return err
			}
			fmt.Fprintln(e.out, titleStyle.Render(res.ProjectTitle))
			fmt.Fprintln(e.out, res.Content)
			return nil
		},
	}
	details.Flags().StringVar(&stage, "stage", "detailed", "detailed|roadmap|concepts")
	cmd.AddCommand(details)
	return cmd
}

func newStackCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stack",
		Short: "Technology stack guidance",
	}
	show := func(res learning.TechResult) {
		fmt.Fprintln(e.out, res.Body())
		for _, layer := range slices.Sorted(maps.Keys(res.Template)) {
			fmt.Fprintf(e.out, "  %s: %s\n", titleStyle.Render(layer), strings.Join(res.Template[layer], ", "))
		}
	}

	var requirements string
	recommend := &cobra.Command{
		Use:   "recommend <project type>",
		Short: "Recommend a stack for a project type",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := e.api.TechRecommend(cmd.Context(), joinArgs(args), requirements)
			if err != nil {
				return err
			}
			show(res)
			return nil
		},
	}
	recommend.Flags().StringVar(&requirements, "requirements", "", "extra requirements")

	var useCase string
	compare := &cobra.Command{
		Use:   "compare <tech1> <tech2>",
		Short: "Compare two technologies",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := e.api.TechCompare(cmd.Context(), args[0], args[1], useCase)
			if err != nil {
				return err
			}
			show(res)
			return nil
		},
	}
	compare.Flags().StringVar(&useCase, "context", "", "use case")

	var depth string
	explain := &cobra.Command{
		Use:   "explain <concept>",
		Short: "Explain a technical concept",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := e.api.TechExplain(cmd.Context(), joinArgs(args), depth)
			if err != nil {
				return err
			}
			show(res)
			return nil
		},
	}
	explain.Flags().StringVar(&depth, "depth", "intermediate", "beginner|intermediate|advanced")

	var technology string
	code := &cobra.Command{
		Use:   "code <task>",
		Short: "Implementation guidance for a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := e.api.CodeHelp(cmd.Context(), joinArgs(args), technology)
			if err != nil {
				return err
			}
			show(res)
			return nil
		},
	}
	code.Flags().StringVar(&technology, "tech", "", "technology to use (required)")
	_ = code.MarkFlagRequired("tech")

	cmd.AddCommand(recommend, compare, explain, code)
	return cmd
}

func newChatCmd(e *env) *cobra.Command {
	var fresh bool
	cmd := &cobra.Command{
		Use:   "chat <topic>",
		Short: "Follow-up conversation on a topic",
		Long:  "Type a message to ask, or /simplify, /example, /quiz, /clear, /quit. The last 50 messages are kept between runs.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			topic := joinArgs(args)
			history, err := e.store.Chat()
			if err != nil {
				return err
			}
			if fresh {
				history.Clear()
			}
			userID, err := e.identity()
			if err != nil {
				return err
			}
			for {
				line, ok := e.prompt("you > ")
				if !ok || line == "/quit" {
					return e.store.SaveChat(history)
				}
				req := client.ChatRequest{Topic: topic, Context: history.Context()}
				switch line {
				case "":
					continue
				case "/clear":
					history.Clear()
					continue
				case "/simplify", "/example", "/quiz":
					req.Action = strings.TrimPrefix(line, "/")
					req.Message = lastUserMessage(history)
				default:
					req.Message = line
				}
				if req.Action == "" {
					history.Add(session.RoleUser, req.Message)
				}
				res, err := e.api.Chat(ctx, req)
				if err != nil {
					renderError(e.out, client.UserMessage(err))
					continue
				}
				if res.Stage == learning.StageQuiz {
					e.takeQuiz(ctx, topic, res.Questions, userID)
					history.Add(session.RoleAssistant, "(quiz)")
					continue
				}
				fmt.Fprintln(e.out, res.Content)
				history.Add(session.RoleAssistant, res.Content)
			}
		},
	}
	cmd.Flags().BoolVar(&fresh, "clear", false, "start with an empty history")
	return cmd
}

func lastUserMessage(h *session.ChatHistory) string {
	entries := h.Entries()
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].Role == session.RoleUser {
			return entries[i].Content
		}
	}
	return ""
}

func newProgressCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "progress",
		Short: "Show progress, analytics and recommendations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := e.identity()
			if err != nil {
				return err
			}
			d, err := session.LoadDashboard(cmd.Context(), e.api, userID)
			if err != nil {
				return err
			}
			renderDashboard(e.out, d)
			return nil
		},
	}
}
