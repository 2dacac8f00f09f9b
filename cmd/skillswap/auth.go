package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"skillswap/internal/client"
	"skillswap/internal/model"

	"github.com/spf13/cobra"
)

func authCmds() []*cobra.Command {
	return []*cobra.Command{loginCmd, registerCmd, logoutCmd, whoamiCmd, profileCmd, userCmd}
}

// password takes the flag value, then SKILLSWAP_PASSWORD, then a line of stdin.
func password(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("password"); p != "" {
		return p, nil
	}
	if p := os.Getenv("SKILLSWAP_PASSWORD"); p != "" {
		return p, nil
	}
	fmt.Fprint(os.Stderr, "Password: ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

var loginCmd = &cobra.Command{
	Use:   "login <username>",
	Short: "Sign in and store the tokens",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pw, err := password(cmd)
		if err != nil {
			return err
		}
		user, err := auth.Login(cmd.Context(), args[0], pw)
		if err != nil {
			return err
		}
		fmt.Printf("Logged in as %s (%s)\n", user.DisplayName(), user.UserType)
		return nil
	},
}

var registerCmd = &cobra.Command{
	Use:   "register <username>",
	Short: "Create an account and sign in",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pw, err := password(cmd)
		if err != nil {
			return err
		}
		email, _ := cmd.Flags().GetString("email")
		userType, _ := cmd.Flags().GetString("type")
		first, _ := cmd.Flags().GetString("first-name")
		last, _ := cmd.Flags().GetString("last-name")

		user, err := auth.Register(cmd.Context(), client.RegisterInput{
			Username:        args[0],
			Email:           email,
			Password:        pw,
			PasswordConfirm: pw,
			FirstName:       first,
			LastName:        last,
			UserType:        model.UserType(strings.ToUpper(userType)),
		})
		if err != nil {
			return err
		}
		fmt.Printf("Welcome, %s! You are registered as a %s.\n", user.DisplayName(), strings.ToLower(string(user.UserType)))
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored tokens",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := auth.Logout(); err != nil {
			return err
		}
		fmt.Println("Logged out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireLogin(cmd.Context()); err != nil {
			return err
		}
		printUser(auth.User())
		return nil
	},
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Update your profile",
}

var profileUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Change profile fields; only the flags given are sent",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireLogin(cmd.Context()); err != nil {
			return err
		}
		var in client.ProfileUpdate
		str := func(name string) *string {
			if !cmd.Flags().Changed(name) {
				return nil
			}
			v, _ := cmd.Flags().GetString(name)
			return &v
		}
		in.FirstName = str("first-name")
		in.LastName = str("last-name")
		in.Email = str("email")
		in.Bio = str("bio")
		in.Timezone = str("timezone")
		if t := str("type"); t != nil {
			ut := model.UserType(strings.ToUpper(*t))
			in.UserType = &ut
		}

		user, err := auth.UpdateProfile(cmd.Context(), in)
		if err != nil {
			return err
		}
		printUser(user)
		return nil
	},
}

var profileAvatarCmd = &cobra.Command{
	Use:   "avatar <image>",
	Short: "Upload a profile picture",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireLogin(cmd.Context()); err != nil {
			return err
		}
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		user, err := auth.UploadAvatar(cmd.Context(), f.Name(), f)
		if err != nil {
			return err
		}
		fmt.Println("Avatar updated:", user.ProfileImage)
		return nil
	},
}

var userCmd = &cobra.Command{
	Use:   "user <id>",
	Short: "Show another user's public profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := requireLogin(cmd.Context()); err != nil {
			return err
		}
		user, err := api.User(cmd.Context(), id)
		if err != nil {
			return err
		}
		printUser(user)
		return nil
	},
}

func init() {
	loginCmd.Flags().StringP("password", "p", "", "Password (or SKILLSWAP_PASSWORD)")

	registerCmd.Flags().StringP("password", "p", "", "Password (or SKILLSWAP_PASSWORD)")
	registerCmd.Flags().String("email", "", "Email address")
	registerCmd.Flags().String("type", string(model.Learner), "Account type: mentor or learner")
	registerCmd.Flags().String("first-name", "", "First name")
	registerCmd.Flags().String("last-name", "", "Last name")
	registerCmd.MarkFlagRequired("email")

	for _, name := range []string{"first-name", "last-name", "email", "bio", "timezone", "type"} {
		profileUpdateCmd.Flags().String(name, "", "New "+strings.ReplaceAll(name, "-", " "))
	}

	profileCmd.AddCommand(profileUpdateCmd, profileAvatarCmd)
}
