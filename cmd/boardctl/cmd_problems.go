package main

import (
	"context"
	"io"
	"text/tabwriter"

	"crowdfix/internal/board"
	"crowdfix/internal/models"

	"github.com/spf13/cobra"
)

func runProblemsList(ctx context.Context, cmd *cobra.Command, b *board.Board, args []string) error {
	if err := b.Store.RefreshProblems(ctx); err != nil {
		return err
	}
	problems := b.Store.Problems()
	return printResult(cmd.OutOrStdout(), problems, func(w io.Writer) {
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		printf(tw, "ID\tTITLE\tOWNER\n")
		for _, p := range problems {
			printf(tw, "%s\t%s\t%s\n", p.ID, p.Title, p.OwnerUsername)
		}
		_ = tw.Flush()
	})
}

type problemDetail struct {
	models.Problem
	Solutions []models.Solution `json:"solutions"`
}

func runProblemsShow(ctx context.Context, cmd *cobra.Command, b *board.Board, args []string) error {
	p, err := b.Store.FetchProblem(ctx, args[0])
	if err != nil {
		return err
	}
	if err := b.Store.RefreshSolutions(ctx, p.ID); err != nil {
		return err
	}
	detail := problemDetail{Problem: p, Solutions: b.Store.SolutionsOf(p.ID)}

	return printResult(cmd.OutOrStdout(), detail, func(w io.Writer) {
		printf(w, "#%s %s (by %s)\n\n%s\n\n", p.ID, p.Title, p.OwnerUsername, p.Description)
		writeSolutions(w, detail.Solutions)
	})
}

func runProblemsCreate(ctx context.Context, cmd *cobra.Command, b *board.Board, args []string) error {
	p, err := b.PostProblem(ctx, models.ProblemDraft{Title: title, Description: description})
	if err != nil {
		return err
	}
	return printResult(cmd.OutOrStdout(), p, func(w io.Writer) {
		printf(w, "%s (problem %s)\n", board.MessageProblemPosted, p.ID)
	})
}

func runProblemsUpdate(ctx context.Context, cmd *cobra.Command, b *board.Board, args []string) error {
	if err := b.Store.RefreshProblems(ctx); err != nil {
		return err
	}
	p, err := b.Store.UpdateProblem(ctx, args[0], models.ProblemDraft{Title: title, Description: description})
	if err != nil {
		return err
	}
	return printResult(cmd.OutOrStdout(), p, func(w io.Writer) {
		printf(w, "Updated problem %s\n", p.ID)
	})
}

func runProblemsDelete(ctx context.Context, cmd *cobra.Command, b *board.Board, args []string) error {
	if err := b.Store.RefreshProblems(ctx); err != nil {
		return err
	}
	if err := b.Store.RemoveProblem(ctx, args[0]); err != nil {
		return err
	}
	printf(cmd.OutOrStdout(), "Deleted problem %s\n", args[0])
	return nil
}
