package main

import (
	"fmt"
	"strings"

	"skillswap/internal/client"
	"skillswap/internal/model"
	"skillswap/internal/workflow"

	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:     "sessions",
	Aliases: []string{"session"},
	Short:   "Book and manage learning sessions",
}

var sessionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your sessions, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireLogin(cmd.Context()); err != nil {
			return err
		}
		as, _ := cmd.Flags().GetString("as")

		var (
			sessions []model.LearningSession
			err      error
		)
		switch strings.ToLower(as) {
		case "":
			sessions, err = api.Sessions(cmd.Context())
		case "learner":
			sessions, err = api.SessionsAsLearner(cmd.Context())
		case "mentor":
			sessions, err = api.SessionsAsMentor(cmd.Context())
		default:
			return fmt.Errorf("--as must be learner or mentor")
		}
		if err != nil {
			return err
		}
		printSessions(sessions)
		return nil
	},
}

var sessionShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a session and what you can do with it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := requireLogin(cmd.Context()); err != nil {
			return err
		}
		s, err := api.Session(cmd.Context(), id)
		if err != nil {
			return err
		}
		caps, err := api.SessionCapabilities(cmd.Context(), s, auth.User().ID)
		if err != nil {
			return err
		}
		printSession(s, caps)
		return nil
	},
}

func printSession(s *model.LearningSession, caps workflow.Capabilities) {
	fmt.Printf("Session #%d: %s\n", s.ID, s.SkillTitle)
	fmt.Printf("  status:  %s\n", s.Status)
	fmt.Printf("  when:    %s\n", when(s.ScheduledDatetime))
	fmt.Printf("  mentor:  %s\n", s.Mentor.DisplayName())
	fmt.Printf("  learner: %s\n", s.Learner.DisplayName())
	if s.LearnerMessage != "" {
		fmt.Printf("  message: %s\n", s.LearnerMessage)
	}
	if s.MentorResponse != "" {
		fmt.Printf("  reply:   %s\n", s.MentorResponse)
	}

	var actions []string
	for _, a := range caps.Actions() {
		actions = append(actions, strings.ReplaceAll(string(a), "_", "-"))
	}
	if caps.CanChat {
		actions = append(actions, "chat")
	}
	if caps.CanReview {
		actions = append(actions, "review")
	}
	if len(actions) > 0 {
		fmt.Printf("  actions: %s\n", strings.Join(actions, ", "))
	}
}

var sessionBookCmd = &cobra.Command{
	Use:   "book <skill-id>",
	Short: "Request a session for a skill",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		skillID, err := parseID(args[0])
		if err != nil {
			return err
		}
		at, _ := cmd.Flags().GetString("at")
		scheduled, err := parseTime(at)
		if err != nil {
			return err
		}
		message, _ := cmd.Flags().GetString("message")
		if err := requireLogin(cmd.Context()); err != nil {
			return err
		}

		s, err := api.BookSession(cmd.Context(), client.BookInput{
			SkillID:           skillID,
			ScheduledDatetime: scheduled,
			LearnerMessage:    message,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Session #%d requested for %s, waiting for the mentor\n", s.ID, when(s.ScheduledDatetime))
		return nil
	},
}

// actionCmd builds the approve/reject/complete/cancel commands, which only
// differ in the client call.
func actionCmd(use, short string, run func(cmd *cobra.Command, id uint) (*model.LearningSession, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := requireLogin(cmd.Context()); err != nil {
				return err
			}
			s, err := run(cmd, id)
			if err != nil {
				return err
			}
			fmt.Printf("Session #%d is now %s\n", s.ID, s.Status)
			return nil
		},
	}
}

var (
	sessionApproveCmd = actionCmd("approve", "Accept a pending request", func(cmd *cobra.Command, id uint) (*model.LearningSession, error) {
		response, _ := cmd.Flags().GetString("response")
		return api.ApproveSession(cmd.Context(), id, response)
	})
	sessionRejectCmd = actionCmd("reject", "Decline a pending request", func(cmd *cobra.Command, id uint) (*model.LearningSession, error) {
		response, _ := cmd.Flags().GetString("response")
		return api.RejectSession(cmd.Context(), id, response)
	})
	sessionEditTimeCmd = actionCmd("edit-time", "Move a session; an approved one needs approval again", func(cmd *cobra.Command, id uint) (*model.LearningSession, error) {
		at, _ := cmd.Flags().GetString("at")
		scheduled, err := parseTime(at)
		if err != nil {
			return nil, err
		}
		return api.EditSessionTime(cmd.Context(), id, scheduled)
	})
	sessionCompleteCmd = actionCmd("complete", "Mark an approved session as done", func(cmd *cobra.Command, id uint) (*model.LearningSession, error) {
		return api.CompleteSession(cmd.Context(), id)
	})
	sessionCancelCmd = actionCmd("cancel", "Call off a pending or approved session", func(cmd *cobra.Command, id uint) (*model.LearningSession, error) {
		return api.CancelSession(cmd.Context(), id)
	})
)

func init() {
	sessionListCmd.Flags().String("as", "", "Only sessions where you are the learner or the mentor")

	sessionBookCmd.Flags().String("at", "", "Start time, YYYY-MM-DD HH:MM")
	sessionBookCmd.Flags().StringP("message", "m", "", "Note for the mentor")

	sessionApproveCmd.Flags().StringP("response", "r", "", "Optional note for the learner")
	sessionRejectCmd.Flags().StringP("response", "r", "", "Reason, required")
	sessionEditTimeCmd.Flags().String("at", "", "New start time, YYYY-MM-DD HH:MM")

	sessionCmd.AddCommand(sessionListCmd, sessionShowCmd, sessionBookCmd, sessionApproveCmd,
		sessionRejectCmd, sessionEditTimeCmd, sessionCompleteCmd, sessionCancelCmd)
}
