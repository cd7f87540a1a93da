package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"crowdfix/configs"
	"crowdfix/internal/board"
	"crowdfix/internal/logger"

	"github.com/spf13/cobra"
)

var (
	cfg        *configs.Config
	outputJSON bool

	password    string
	email       string
	question    string
	answer      string
	newPassword string
	role        string
	title       string
	description string
	solutionID  string

	rootCmd = &cobra.Command{
		Use:           "boardctl",
		Short:         "Command line client for the crowdfix problem board",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cfg = configs.LoadConfig()
			logger.InitLogger(cfg.LogLevel)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logger.SyncLogger()
		},
	}

	// --- Session ---
	loginCmd = &cobra.Command{
		Use:   "login [username]",
		Short: "Sign in and remember the token locally",
		Args:  cobra.ExactArgs(1),
		RunE:  withBoard(runLogin), // Defined in cmd_auth.go
	}
	logoutCmd = &cobra.Command{
		Use:   "logout",
		Short: "Forget the signed-in user (preferences are kept)",
		Args:  cobra.NoArgs,
		RunE:  withBoard(runLogout),
	}
	registerCmd = &cobra.Command{
		Use:   "register [username]",
		Short: "Create an account",
		Args:  cobra.ExactArgs(1),
		RunE:  withBoard(runRegister),
	}
	forgotPasswordCmd = &cobra.Command{
		Use:   "forgot-password",
		Short: "Reset a password with the account's security answer",
		Args:  cobra.NoArgs,
		RunE:  withBoard(runForgotPassword),
	}
	whoamiCmd = &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		Args:  cobra.NoArgs,
		RunE:  withBoard(runWhoami),
	}
	usersCmd = &cobra.Command{
		Use:   "users",
		Short: "List recently active users",
		Args:  cobra.NoArgs,
		RunE:  withBoard(runActiveUsers),
	}
	darkModeCmd = &cobra.Command{
		Use:   "dark-mode",
		Short: "Toggle the dark mode preference",
		Args:  cobra.NoArgs,
		RunE:  withBoard(runToggleDarkMode),
	}

	// --- Problems ---
	problemsCmd = &cobra.Command{
		Use:   "problems",
		Short: "List, show and manage problems",
	}
	problemsListCmd = &cobra.Command{
		Use:   "list",
		Short: "List all problems",
		Args:  cobra.NoArgs,
		RunE:  withBoard(runProblemsList), // Defined in cmd_problems.go
	}
	problemsShowCmd = &cobra.Command{
		Use:   "show [id]",
		Short: "Show one problem with its solutions",
		Args:  cobra.ExactArgs(1),
		RunE:  withBoard(runProblemsShow),
	}
	problemsCreateCmd = &cobra.Command{
		Use:   "create",
		Short: "Post a new problem",
		Args:  cobra.NoArgs,
		RunE:  withBoard(runProblemsCreate),
	}
	problemsUpdateCmd = &cobra.Command{
		Use:   "update [id]",
		Short: "Edit one of your problems",
		Args:  cobra.ExactArgs(1),
		RunE:  withBoard(runProblemsUpdate),
	}
	problemsDeleteCmd = &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete one of your problems",
		Args:  cobra.ExactArgs(1),
		RunE:  withBoard(runProblemsDelete),
	}

	// --- Solutions ---
	solutionsCmd = &cobra.Command{
		Use:   "solutions",
		Short: "List and manage solutions",
	}
	solutionsListCmd = &cobra.Command{
		Use:   "list [problem-id]",
		Short: "List the solutions of a problem",
		Args:  cobra.ExactArgs(1),
		RunE:  withBoard(runSolutionsList), // Defined in cmd_solutions.go
	}
	solutionsCreateCmd = &cobra.Command{
		Use:   "create [problem-id]",
		Short: "Submit a solution",
		Args:  cobra.ExactArgs(1),
		RunE:  withBoard(runSolutionsCreate),
	}
	solutionsUpdateCmd = &cobra.Command{
		Use:   "update [id]",
		Short: "Edit the description of one of your solutions",
		Args:  cobra.ExactArgs(1),
		RunE:  withBoard(runSolutionsUpdate),
	}
	solutionsDeleteCmd = &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete one of your solutions",
		Args:  cobra.ExactArgs(1),
		RunE:  withBoard(runSolutionsDelete),
	}
	solutionsStatusCmd = &cobra.Command{
		Use:   "status [id] [PENDING|ACCEPTED|REJECTED]",
		Short: "Change the status of a solution",
		Args:  cobra.ExactArgs(2),
		RunE:  withBoard(runSolutionsStatus),
	}
	voteCmd = &cobra.Command{
		Use:   "vote [solution-id] [up|down]",
		Short: "Vote on a solution; repeating a vote retracts it",
		Args:  cobra.ExactArgs(2),
		RunE:  withBoard(runVote),
	}

	// --- Comments ---
	commentsCmd = &cobra.Command{
		Use:   "comments",
		Short: "List and manage comments",
	}
	commentsListCmd = &cobra.Command{
		Use:   "list [solution-id]",
		Short: "List the comments on a solution",
		Args:  cobra.ExactArgs(1),
		RunE:  withBoard(runCommentsList), // Defined in cmd_comments.go
	}
	commentsAddCmd = &cobra.Command{
		Use:   "add [solution-id] [content]",
		Short: "Comment on a solution",
		Args:  cobra.ExactArgs(2),
		RunE:  withBoard(runCommentsAdd),
	}
	commentsEditCmd = &cobra.Command{
		Use:   "edit [id] [content]",
		Short: "Edit one of your comments",
		Args:  cobra.ExactArgs(2),
		RunE:  withBoard(runCommentsEdit),
	}
	commentsDeleteCmd = &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete one of your comments",
		Args:  cobra.ExactArgs(1),
		RunE:  withBoard(runCommentsDelete),
	}

	// --- Notifications ---
	notificationsCmd = &cobra.Command{
		Use:     "notifications",
		Short:   "Show the local notification log",
		Aliases: []string{"n"},
		Args:    cobra.NoArgs,
		RunE:    withBoard(runNotificationsList), // Defined in cmd_notifications.go
	}
	notificationsReadCmd = &cobra.Command{
		Use:   "read [id]",
		Short: "Mark a notification as read",
		Args:  cobra.ExactArgs(1),
		RunE:  withBoard(runNotificationsRead),
	}

	warmUpCmd = &cobra.Command{
		Use:   "warmup",
		Short: "Fetch every problem and its solutions",
		Args:  cobra.NoArgs,
		RunE:  withBoard(runWarmUp),
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "print results as JSON")

	loginCmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	_ = loginCmd.MarkFlagRequired("password")

	registerCmd.Flags().StringVar(&email, "email", "", "account email")
	registerCmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	registerCmd.Flags().StringVar(&role, "role", "USER", "account role")
	registerCmd.Flags().StringVar(&question, "question", "", "security question")
	registerCmd.Flags().StringVar(&answer, "answer", "", "security answer")
	_ = registerCmd.MarkFlagRequired("email")
	_ = registerCmd.MarkFlagRequired("password")

	forgotPasswordCmd.Flags().StringVar(&email, "email", "", "account email")
	forgotPasswordCmd.Flags().StringVar(&question, "question", "", "security question")
	forgotPasswordCmd.Flags().StringVar(&answer, "answer", "", "security answer")
	forgotPasswordCmd.Flags().StringVar(&newPassword, "new-password", "", "new password")
	for _, name := range []string{"email", "question", "answer", "new-password"} {
		_ = forgotPasswordCmd.MarkFlagRequired(name)
	}

	for _, c := range []*cobra.Command{problemsCreateCmd, problemsUpdateCmd} {
		c.Flags().StringVarP(&title, "title", "t", "", "problem title")
		c.Flags().StringVarP(&description, "description", "d", "", "problem description")
	}
	for _, c := range []*cobra.Command{solutionsCreateCmd, solutionsUpdateCmd} {
		c.Flags().StringVarP(&description, "description", "d", "", "solution description")
	}
	for _, c := range []*cobra.Command{commentsEditCmd, commentsDeleteCmd} {
		c.Flags().StringVar(&solutionID, "solution", "", "id of the solution the comment belongs to")
		_ = c.MarkFlagRequired("solution")
	}

	problemsCmd.AddCommand(problemsListCmd, problemsShowCmd, problemsCreateCmd, problemsUpdateCmd, problemsDeleteCmd)
	solutionsCmd.AddCommand(solutionsListCmd, solutionsCreateCmd, solutionsUpdateCmd, solutionsDeleteCmd, solutionsStatusCmd)
	commentsCmd.AddCommand(commentsListCmd, commentsAddCmd, commentsEditCmd, commentsDeleteCmd)
	notificationsCmd.AddCommand(notificationsReadCmd)

	rootCmd.AddCommand(
		loginCmd, logoutCmd, registerCmd, forgotPasswordCmd, whoamiCmd, usersCmd, darkModeCmd,
		problemsCmd, solutionsCmd, voteCmd, commentsCmd, notificationsCmd, warmUpCmd,
	)
}

type runFunc func(ctx context.Context, cmd *cobra.Command, b *board.Board, args []string) error

// withBoard opens the board from the loaded configuration for the duration
// of one command. Ctrl-C cancels in-flight requests.
func withBoard(run runFunc) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		b, err := board.Open(ctx, cfg)
		if err != nil {
			return err
		}
		defer b.Close()

		return run(ctx, cmd, b, args)
	}
}

// printResult writes v as indented JSON with --json, or calls text otherwise.
func printResult(w io.Writer, v interface{}, text func(w io.Writer)) error {
	if outputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text(w)
	return nil
}

func printf(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, format, args...)
}
