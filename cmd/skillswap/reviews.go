package main

import (
	"fmt"

	"skillswap/internal/client"
	"skillswap/internal/model"

	"github.com/spf13/cobra"
)

var reviewCmd = &cobra.Command{
	Use:     "reviews",
	Aliases: []string{"review"},
	Short:   "Rate completed sessions",
}

var reviewListCmd = &cobra.Command{
	Use:   "list",
	Short: "List reviews you gave or received, or those of a user or session",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireLogin(cmd.Context()); err != nil {
			return err
		}
		userID, _ := cmd.Flags().GetUint("user")
		sessionID, _ := cmd.Flags().GetUint("session")

		var (
			reviews []model.Review
			err     error
		)
		switch {
		case userID != 0:
			reviews, err = api.UserReviews(cmd.Context(), userID)
		case sessionID != 0:
			reviews, err = api.SessionReviews(cmd.Context(), sessionID)
		default:
			reviews, err = api.MyReviews(cmd.Context())
		}
		if err != nil {
			return err
		}
		printReviews(reviews)
		return nil
	},
}

var reviewCreateCmd = &cobra.Command{
	Use:   "create <session-id>",
	Short: "Review the other participant of a completed session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := requireLogin(cmd.Context()); err != nil {
			return err
		}
		rating, _ := cmd.Flags().GetInt("rating")
		comment, _ := cmd.Flags().GetString("comment")

		r, err := api.CreateReview(cmd.Context(), client.ReviewInput{
			SessionID: sessionID,
			Rating:    rating,
			Comment:   comment,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Review #%d saved for %s\n", r.ID, r.Reviewed.DisplayName())
		return nil
	},
}

var reviewUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Change one of your reviews",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := requireLogin(cmd.Context()); err != nil {
			return err
		}
		rating, _ := cmd.Flags().GetInt("rating")
		comment, _ := cmd.Flags().GetString("comment")
		r, err := api.UpdateReview(cmd.Context(), id, rating, comment)
		if err != nil {
			return err
		}
		fmt.Printf("Review #%d updated\n", r.ID)
		return nil
	},
}

var reviewDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Remove one of your reviews",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := requireLogin(cmd.Context()); err != nil {
			return err
		}
		if err := api.DeleteReview(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Println("Review deleted")
		return nil
	},
}

func init() {
	reviewListCmd.Flags().Uint("user", 0, "Reviews received by this user")
	reviewListCmd.Flags().Uint("session", 0, "Reviews of this session")

	for _, c := range []*cobra.Command{reviewCreateCmd, reviewUpdateCmd} {
		c.Flags().IntP("rating", "r", 0, "Stars, 1 to 5")
		c.Flags().StringP("comment", "c", "", "Comment")
	}
	reviewCmd.AddCommand(reviewListCmd, reviewCreateCmd, reviewUpdateCmd, reviewDeleteCmd)
}
