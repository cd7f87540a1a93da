package main

import (
	"context"
	"io"
	"text/tabwriter"

	"crowdfix/internal/board"
	"crowdfix/internal/models"

	"github.com/spf13/cobra"
)

func runCommentsList(ctx context.Context, cmd *cobra.Command, b *board.Board, args []string) error {
	if err := b.Store.RefreshComments(ctx, args[0]); err != nil {
		return err
	}
	comments := b.Store.CommentsOf(args[0])
	return printResult(cmd.OutOrStdout(), comments, func(w io.Writer) {
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		printf(tw, "ID\tAUTHOR\tCONTENT\n")
		for _, c := range comments {
			printf(tw, "%s\t%s\t%s\n", c.ID, c.AuthorUsername, c.Content)
		}
		_ = tw.Flush()
	})
}

func runCommentsAdd(ctx context.Context, cmd *cobra.Command, b *board.Board, args []string) error {
	c, err := b.Store.CreateComment(ctx, args[0], models.CommentDraft{Content: args[1]})
	if err != nil {
		return err
	}
	return printResult(cmd.OutOrStdout(), c, func(w io.Writer) {
		printf(w, "Added comment %s\n", c.ID)
	})
}

func runCommentsEdit(ctx context.Context, cmd *cobra.Command, b *board.Board, args []string) error {
	if err := b.Store.RefreshComments(ctx, solutionID); err != nil {
		return err
	}
	c, err := b.Store.UpdateComment(ctx, args[0], models.CommentDraft{Content: args[1]})
	if err != nil {
		return err
	}
	return printResult(cmd.OutOrStdout(), c, func(w io.Writer) {
		printf(w, "Updated comment %s\n", c.ID)
	})
}

func runCommentsDelete(ctx context.Context, cmd *cobra.Command, b *board.Board, args []string) error {
	if err := b.Store.RefreshComments(ctx, solutionID); err != nil {
		return err
	}
	if err := b.Store.RemoveComment(ctx, args[0]); err != nil {
		return err
	}
	printf(cmd.OutOrStdout(), "Deleted comment %s\n", args[0])
	return nil
}
