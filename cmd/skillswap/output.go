package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"skillswap/internal/model"
)

func table(w io.Writer, header ...string) *tabwriter.Writer {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	return tw
}

func row(tw *tabwriter.Writer, cols ...interface{}) {
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = fmt.Sprint(c)
	}
	fmt.Fprintln(tw, strings.Join(parts, "\t"))
}

func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len([]rune(s)) <= n {
		return s
	}
	return string([]rune(s)[:n-3]) + "..."
}

func when(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04")
}

func printUser(u *model.User) {
	fmt.Printf("%s (@%s) #%d\n", u.DisplayName(), u.Username, u.ID)
	fmt.Printf("  type:     %s\n", u.UserType)
	fmt.Printf("  email:    %s\n", u.Email)
	fmt.Printf("  timezone: %s\n", u.Timezone)
	fmt.Printf("  rating:   %.1f (%d reviews)\n", u.AverageRating, u.ReviewCount)
	if u.Bio != "" {
		fmt.Printf("  bio:      %s\n", u.Bio)
	}
	if u.ProfileImage != "" {
		fmt.Printf("  avatar:   %s\n", u.ProfileImage)
	}
}

func printSkills(skills []model.Skill) {
	tw := table(os.Stdout, "ID", "TITLE", "LEVEL", "CATEGORY", "MINUTES", "MENTOR")
	for _, s := range skills {
		row(tw, s.ID, truncate(s.Title, 40), s.Level, s.CategoryName, s.DurationMinutes, s.Mentor.DisplayName())
	}
	tw.Flush()
	fmt.Printf("\n%d skills\n", len(skills))
}

func printSessions(sessions []model.LearningSession) {
	tw := table(os.Stdout, "ID", "SKILL", "WHEN", "STATUS", "MENTOR", "LEARNER")
	for _, s := range sessions {
		row(tw, s.ID, truncate(s.SkillTitle, 30), when(s.ScheduledDatetime), s.Status, s.Mentor.DisplayName(), s.Learner.DisplayName())
	}
	tw.Flush()
}

func printMessages(msgs []model.SessionMessage) {
	for _, m := range msgs {
		fmt.Printf("[%s] %s: %s\n", when(m.CreatedAt), m.SenderName, m.Message)
	}
}

func printReviews(reviews []model.Review) {
	tw := table(os.Stdout, "ID", "SESSION", "FROM", "TO", "RATING", "COMMENT")
	for _, r := range reviews {
		row(tw, r.ID, r.SessionID, r.ReviewerName, r.Reviewed.DisplayName(), strings.Repeat("*", r.Rating), truncate(r.Comment, 40))
	}
	tw.Flush()
}
