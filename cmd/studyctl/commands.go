package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/jrsteele09/go-study-client/api"
	"github.com/jrsteele09/go-study-client/internal/config"
	"github.com/jrsteele09/go-study-client/internal/utils"
)

func newRootCmd(c config.Config) *cobra.Command {
	var (
		apiURL    string
		noPersist bool
		a         *app
	)

	root := &cobra.Command{
		Use:           "studyctl",
		Short:         "Command-line client for the Study Companion backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg := c
			if apiURL != "" {
				cfg = overrideAPIURL{Config: c, url: apiURL}
			}
			var err error
			a, err = newApp(cfg, noPersist)
			if err != nil {
				return err
			}
			a.sessions.Restore(cmd.Context())
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			displayAppName(c.GetAppName())
			_ = cmd.Help()
		},
	}

	root.PersistentFlags().StringVar(&apiURL, "api-url", "", "backend base URL (overrides STUDY_API_URL)")
	root.PersistentFlags().BoolVar(&noPersist, "no-persist", false, "keep the session in memory only")

	root.AddCommand(
		newLoginCmd(&a),
		newRegisterCmd(&a),
		newLogoutCmd(&a),
		newWhoamiCmd(&a),
		newRefreshCmd(&a),
		newHealthCmd(&a),
		newSubjectsCmd(&a),
		newTutorCmd(&a),
	)
	return root
}

// overrideAPIURL lets the --api-url flag win over the environment.
type overrideAPIURL struct {
	config.Config
	url string
}

func (o overrideAPIURL) GetAPIBaseURL() string { return o.url }

func newLoginCmd(a **app) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "login <username>",
		Short: "Log in and persist the session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				return errors.New("--password is required")
			}
			if err := (*a).sessions.Login(cmd.Context(), args[0], password); err != nil {
				return err
			}
			user := (*a).sessions.User()
			fmt.Printf("Logged in as %s <%s>\n", user.Username, user.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "account password")
	return cmd
}

func newRegisterCmd(a **app) *cobra.Command {
	var (
		fullName string
		email    string
		password string
	)

	cmd := &cobra.Command{
		Use:   "register <username>",
		Short: "Create an account and log in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if fullName == "" || email == "" || password == "" {
				return errors.New("--full-name, --email and --password are required")
			}
			if err := (*a).sessions.Register(cmd.Context(), fullName, args[0], email, password); err != nil {
				return err
			}
			user := (*a).sessions.User()
			fmt.Printf("Registered %s <%s>\n", user.Username, user.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&fullName, "full-name", "", "full name")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	return cmd
}

func newLogoutCmd(a **app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Invalidate the session and clear local state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := (*a).sessions.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Println("Logged out")
			return nil
		},
	}
}

func newWhoamiCmd(a **app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !(*a).sessions.IsAuthenticated() {
				fmt.Println("Not logged in")
				return nil
			}
			user := (*a).sessions.User()
			verified := "unverified"
			if user.EmailVerified {
				verified = "verified"
			}
			fmt.Printf("%s <%s> (%s, %s)\n", user.FullName, user.Email, user.Username, verified)
			return nil
		},
	}
}

func newRefreshCmd(a **app) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Force an access-token refresh",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := (*a).sessions.RefreshAccessToken(cmd.Context()); err != nil {
				return err
			}
			fmt.Println("Access token refreshed")
			return nil
		},
	}
}

func newHealthCmd(a **app) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check backend availability",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := (*a).client.Health(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("%s: %s\n", status.Status, status.Message)
			return nil
		},
	}
}

func newSubjectsCmd(a **app) *cobra.Command {
	subjects := &cobra.Command{
		Use:   "subjects",
		Short: "Manage subjects",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List subjects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			all, err := (*a).client.ListSubjects(cmd.Context())
			if err != nil {
				return err
			}
			for _, subject := range all {
				fmt.Printf("%4d  %-30s %s\n", subject.ID, subject.Name, utils.Value(subject.Description))
			}
			return nil
		},
	}

	var description string
	create := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a subject",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := api.CreateSubjectRequest{Name: args[0]}
			if description != "" {
				req.Description = utils.Ptr(description)
			}
			subject, err := (*a).client.CreateSubject(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Printf("Created subject %d: %s\n", subject.ID, subject.Name)
			return nil
		},
	}
	create.Flags().StringVar(&description, "description", "", "subject description")

	var deleteID int
	remove := &cobra.Command{
		Use:   "delete",
		Short: "Delete a subject",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if deleteID == 0 {
				return errors.New("--id is required")
			}
			if err := (*a).client.DeleteSubject(cmd.Context(), deleteID); err != nil {
				return err
			}
			fmt.Printf("Deleted subject %d\n", deleteID)
			return nil
		},
	}
	remove.Flags().IntVar(&deleteID, "id", 0, "subject ID")

	subjects.AddCommand(list, create, remove)
	return subjects
}

func newTutorCmd(a **app) *cobra.Command {
	tutor := &cobra.Command{
		Use:   "tutor",
		Short: "Talk to the AI tutor",
	}

	var subjectID int
	ask := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a one-shot question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			question := args[0]
			for _, arg := range args[1:] {
				question += " " + arg
			}
			var subject *int
			if subjectID != 0 {
				subject = utils.Ptr(subjectID)
			}
			answer, err := (*a).client.QuickAsk(cmd.Context(), question, subject)
			if err != nil {
				return err
			}
			fmt.Println(answer.Answer)
			return nil
		},
	}
	ask.Flags().IntVar(&subjectID, "subject", 0, "scope the question to a subject ID")

	sessions := &cobra.Command{
		Use:   "sessions",
		Short: "List chat sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			all, err := (*a).client.ListChatSessions(cmd.Context())
			if err != nil {
				return err
			}
			for _, chatSession := range all {
				fmt.Printf("%s  %3d messages  last %s\n",
					chatSession.SessionID, chatSession.MessageCount, chatSession.LastMessageAt)
			}
			return nil
		},
	}

	tutor.AddCommand(ask, sessions)
	return tutor
}
