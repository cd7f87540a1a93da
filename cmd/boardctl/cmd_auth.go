package main

import (
	"context"
	"io"
	"text/tabwriter"

	"crowdfix/internal/board"
	"crowdfix/internal/models"

	"github.com/spf13/cobra"
)

func runLogin(ctx context.Context, cmd *cobra.Command, b *board.Board, args []string) error {
	if err := b.Login(ctx, args[0], password); err != nil {
		return err
	}
	printf(cmd.OutOrStdout(), "Signed in as %s\n", b.Session.Username())
	return nil
}

func runLogout(ctx context.Context, cmd *cobra.Command, b *board.Board, args []string) error {
	if err := b.Logout(ctx); err != nil {
		return err
	}
	printf(cmd.OutOrStdout(), "Signed out\n")
	return nil
}

func runRegister(ctx context.Context, cmd *cobra.Command, b *board.Board, args []string) error {
	req := models.RegisterRequest{
		Username:         args[0],
		Email:            email,
		Password:         password,
		Role:             role,
		SecurityQuestion: question,
		SecurityAnswer:   answer,
	}
	if err := b.Register(ctx, req); err != nil {
		return err
	}
	printf(cmd.OutOrStdout(), "Registered %s; sign in with 'boardctl login %s'\n", args[0], args[0])
	return nil
}

func runForgotPassword(ctx context.Context, cmd *cobra.Command, b *board.Board, args []string) error {
	req := models.ForgotPasswordRequest{
		Email:            email,
		SecurityQuestion: question,
		SecurityAnswer:   answer,
		NewPassword:      newPassword,
	}
	if err := b.ForgotPassword(ctx, req); err != nil {
		return err
	}
	printf(cmd.OutOrStdout(), "Password updated\n")
	return nil
}

func runWhoami(ctx context.Context, cmd *cobra.Command, b *board.Board, args []string) error {
	sess := b.Session.Current()
	return printResult(cmd.OutOrStdout(), sess, func(w io.Writer) {
		if !sess.Authenticated() {
			printf(w, "Not signed in (dark mode: %t)\n", sess.DarkMode)
			return
		}
		printf(w, "%s (id %s, dark mode: %t)\n", sess.Username, sess.UserID, sess.DarkMode)
	})
}

func runActiveUsers(ctx context.Context, cmd *cobra.Command, b *board.Board, args []string) error {
	users, err := b.ActiveUsers(ctx)
	if err != nil {
		return err
	}
	return printResult(cmd.OutOrStdout(), users, func(w io.Writer) {
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		printf(tw, "ID\tUSERNAME\n")
		for _, u := range users {
			printf(tw, "%s\t%s\n", u.ID, u.Username)
		}
		_ = tw.Flush()
	})
}

func runToggleDarkMode(ctx context.Context, cmd *cobra.Command, b *board.Board, args []string) error {
	on, err := b.ToggleDarkMode(ctx)
	if err != nil {
		return err
	}
	state := "off"
	if on {
		state = "on"
	}
	printf(cmd.OutOrStdout(), "Dark mode %s\n", state)
	return nil
}
