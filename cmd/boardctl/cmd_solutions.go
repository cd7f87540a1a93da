package main

import (
	"context"
	"io"
	"text/tabwriter"

	"crowdfix/internal/board"
	"crowdfix/internal/models"

	"github.com/spf13/cobra"
)

func writeSolutions(w io.Writer, solutions []models.Solution) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	printf(tw, "ID\tSTATUS\tUP\tDOWN\tAUTHOR\tDESCRIPTION\n")
	for _, s := range solutions {
		printf(tw, "%s\t%s\t%d\t%d\t%s\t%s\n", s.ID, s.Status, s.UpvoteCount, s.DownvoteCount, s.AuthorUsername, s.Description)
	}
	_ = tw.Flush()
}

func runSolutionsList(ctx context.Context, cmd *cobra.Command, b *board.Board, args []string) error {
	if err := b.Store.RefreshProblems(ctx); err != nil {
		return err
	}
	if err := b.Store.RefreshSolutions(ctx, args[0]); err != nil {
		return err
	}
	solutions := b.Store.SolutionsOf(args[0])
	return printResult(cmd.OutOrStdout(), solutions, func(w io.Writer) {
		writeSolutions(w, solutions)
	})
}

func runSolutionsCreate(ctx context.Context, cmd *cobra.Command, b *board.Board, args []string) error {
	sol, err := b.Store.CreateSolution(ctx, args[0], models.SolutionDraft{Description: description})
	if err != nil {
		return err
	}
	return printResult(cmd.OutOrStdout(), sol, func(w io.Writer) {
		printf(w, "Submitted solution %s to problem %s\n", sol.ID, sol.ProblemID)
	})
}

// Solution commands address a solution by id alone, so the whole board is
// loaded first to find the problem it belongs to.
func runSolutionsUpdate(ctx context.Context, cmd *cobra.Command, b *board.Board, args []string) error {
	if err := b.WarmUp(ctx); err != nil {
		return err
	}
	sol, err := b.Store.UpdateSolution(ctx, args[0], models.SolutionDraft{Description: description})
	if err != nil {
		return err
	}
	return printResult(cmd.OutOrStdout(), sol, func(w io.Writer) {
		printf(w, "Updated solution %s\n", sol.ID)
	})
}

func runSolutionsDelete(ctx context.Context, cmd *cobra.Command, b *board.Board, args []string) error {
	if err := b.WarmUp(ctx); err != nil {
		return err
	}
	if err := b.Store.RemoveSolution(ctx, args[0]); err != nil {
		return err
	}
	printf(cmd.OutOrStdout(), "Deleted solution %s\n", args[0])
	return nil
}

func runSolutionsStatus(ctx context.Context, cmd *cobra.Command, b *board.Board, args []string) error {
	status, err := models.ParseStatus(args[1])
	if err != nil {
		return err
	}
	if err := b.WarmUp(ctx); err != nil {
		return err
	}
	sol, err := b.SetStatus(ctx, args[0], status)
	if err != nil {
		return err
	}
	return printResult(cmd.OutOrStdout(), sol, func(w io.Writer) {
		printf(w, "Solution %s is now %s\n", sol.ID, sol.Status)
	})
}

func runVote(ctx context.Context, cmd *cobra.Command, b *board.Board, args []string) error {
	dir, err := models.ParseDirection(args[1])
	if err != nil {
		return err
	}
	if err := b.WarmUp(ctx); err != nil {
		return err
	}
	sol, err := b.Vote(ctx, args[0], dir)
	if err != nil {
		return err
	}
	return printResult(cmd.OutOrStdout(), sol, func(w io.Writer) {
		printf(w, "Solution %s: %d up, %d down\n", sol.ID, sol.UpvoteCount, sol.DownvoteCount)
	})
}

func runWarmUp(ctx context.Context, cmd *cobra.Command, b *board.Board, args []string) error {
	err := b.WarmUp(ctx)
	printf(cmd.OutOrStdout(), "Loaded %d problems and %d solutions\n", len(b.Store.Problems()), len(b.Store.Solutions()))
	return err
}
