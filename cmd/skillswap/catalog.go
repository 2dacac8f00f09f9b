package main

import (
	"fmt"
	"os"
	"strings"

	"skillswap/internal/client"
	"skillswap/internal/model"

	"github.com/spf13/cobra"
)

var categoryCmd = &cobra.Command{
	Use:     "categories",
	Aliases: []string{"category"},
	Short:   "Manage skill categories",
}

var categoryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireLogin(cmd.Context()); err != nil {
			return err
		}
		cats, err := api.Categories(cmd.Context())
		if err != nil {
			return err
		}
		tw := table(os.Stdout, "ID", "NAME", "ICON", "DESCRIPTION")
		for _, c := range cats {
			row(tw, c.ID, c.Name, c.Icon, truncate(c.Description, 50))
		}
		return tw.Flush()
	},
}

func categoryInput(cmd *cobra.Command, name string) client.CategoryInput {
	desc, _ := cmd.Flags().GetString("description")
	icon, _ := cmd.Flags().GetString("icon")
	return client.CategoryInput{Name: name, Description: desc, Icon: icon}
}

var categoryCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Add a category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireLogin(cmd.Context()); err != nil {
			return err
		}
		cat, err := api.CreateCategory(cmd.Context(), categoryInput(cmd, args[0]))
		if err != nil {
			return err
		}
		fmt.Printf("Created category #%d %s\n", cat.ID, cat.Name)
		return nil
	},
}

var categoryUpdateCmd = &cobra.Command{
	Use:   "update <id> <name>",
	Short: "Rename or describe a category",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := requireLogin(cmd.Context()); err != nil {
			return err
		}
		cat, err := api.UpdateCategory(cmd.Context(), id, categoryInput(cmd, args[1]))
		if err != nil {
			return err
		}
		fmt.Printf("Updated category #%d %s\n", cat.ID, cat.Name)
		return nil
	},
}

var categoryDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a category; its skills become uncategorised",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := requireLogin(cmd.Context()); err != nil {
			return err
		}
		if err := api.DeleteCategory(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Println("Category deleted")
		return nil
	},
}

var skillCmd = &cobra.Command{
	Use:     "skills",
	Aliases: []string{"skill"},
	Short:   "Browse and manage skill listings",
}

var skillListCmd = &cobra.Command{
	Use:   "list",
	Short: "Browse the catalog (optionally filtered by category, level or text)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireLogin(cmd.Context()); err != nil {
			return err
		}
		category, _ := cmd.Flags().GetUint("category")
		level, _ := cmd.Flags().GetString("level")
		search, _ := cmd.Flags().GetString("search")

		filter := client.CatalogFilter{
			CategoryID: category,
			Level:      model.SkillLevel(strings.ToUpper(level)),
			Search:     search,
		}
		if filter.Level != "" && !filter.Level.Valid() {
			return fmt.Errorf("unknown level %q", level)
		}

		skills, err := api.Skills(cmd.Context(), client.SkillQuery{CategoryID: filter.CategoryID, Level: filter.Level})
		if err != nil {
			return err
		}
		printSkills(client.FilterSkills(skills, filter))
		return nil
	},
}

var skillMineCmd = &cobra.Command{
	Use:   "mine",
	Short: "List the skills you teach",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireLogin(cmd.Context()); err != nil {
			return err
		}
		skills, err := api.MySkills(cmd.Context())
		if err != nil {
			return err
		}
		printSkills(skills)
		return nil
	},
}

var skillShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a skill",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := requireLogin(cmd.Context()); err != nil {
			return err
		}
		s, err := api.Skill(cmd.Context(), id)
		if err != nil {
			return err
		}
		fmt.Printf("#%d %s\n", s.ID, s.Title)
		fmt.Printf("  mentor:   %s (%.1f)\n", s.Mentor.DisplayName(), s.Mentor.AverageRating)
		fmt.Printf("  level:    %s\n", s.Level)
		fmt.Printf("  category: %s\n", s.CategoryName)
		fmt.Printf("  duration: %d min\n", s.DurationMinutes)
		if tags := s.TagList(); len(tags) > 0 {
			fmt.Printf("  tags:     %s\n", strings.Join(tags, ", "))
		}
		fmt.Printf("\n%s\n", s.Description)
		return nil
	},
}

func skillInput(cmd *cobra.Command) client.SkillInput {
	in := client.SkillInput{}
	in.Title, _ = cmd.Flags().GetString("title")
	in.Description, _ = cmd.Flags().GetString("description")
	level, _ := cmd.Flags().GetString("level")
	in.Level = model.SkillLevel(strings.ToUpper(level))
	in.DurationMinutes, _ = cmd.Flags().GetInt("duration")
	in.Tags, _ = cmd.Flags().GetString("tags")
	if cat, _ := cmd.Flags().GetUint("category"); cat != 0 {
		in.CategoryID = &cat
	}
	return in
}

var skillCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Offer a new skill",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireLogin(cmd.Context()); err != nil {
			return err
		}
		s, err := api.CreateSkill(cmd.Context(), skillInput(cmd))
		if err != nil {
			return err
		}
		fmt.Printf("Created skill #%d %s\n", s.ID, s.Title)
		return nil
	},
}

var skillUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Replace one of your skills",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := requireLogin(cmd.Context()); err != nil {
			return err
		}
		s, err := api.UpdateSkill(cmd.Context(), id, skillInput(cmd))
		if err != nil {
			return err
		}
		fmt.Printf("Updated skill #%d %s\n", s.ID, s.Title)
		return nil
	},
}

var skillDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Remove one of your skills",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := requireLogin(cmd.Context()); err != nil {
			return err
		}
		if err := api.DeleteSkill(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Println("Skill deleted")
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{categoryCreateCmd, categoryUpdateCmd} {
		c.Flags().String("description", "", "Description")
		c.Flags().String("icon", "", "Icon name")
	}
	categoryCmd.AddCommand(categoryListCmd, categoryCreateCmd, categoryUpdateCmd, categoryDeleteCmd)

	skillListCmd.Flags().Uint("category", 0, "Category ID")
	skillListCmd.Flags().String("level", "", "beginner, intermediate or advanced")
	skillListCmd.Flags().StringP("search", "s", "", "Match title or description")

	for _, c := range []*cobra.Command{skillCreateCmd, skillUpdateCmd} {
		c.Flags().String("title", "", "Title")
		c.Flags().String("description", "", "Description")
		c.Flags().String("level", string(model.Beginner), "beginner, intermediate or advanced")
		c.Flags().Int("duration", 60, "Duration in minutes")
		c.Flags().String("tags", "", "Comma separated tags")
		c.Flags().Uint("category", 0, "Category ID")
		c.MarkFlagRequired("title")
		c.MarkFlagRequired("description")
	}
	skillCmd.AddCommand(skillListCmd, skillMineCmd, skillShowCmd, skillCreateCmd, skillUpdateCmd, skillDeleteCmd)
}
