package main

import (
	"context"
	"io"
	"strconv"

	"crowdfix/internal/board"
	"crowdfix/internal/errs"

	"github.com/spf13/cobra"
)

// Listing notifications counts as viewing them.
func runNotificationsList(ctx context.Context, cmd *cobra.Command, b *board.Board, args []string) error {
	items := b.Notifications.List()
	unread := b.Notifications.UnreadCount()
	b.Notifications.MarkSeen()

	return printResult(cmd.OutOrStdout(), items, func(w io.Writer) {
		printf(w, "%d unread\n", unread)
		for _, n := range items {
			mark := " "
			if !n.IsRead {
				mark = "*"
			}
			printf(w, "%s %3d  %s\n", mark, n.ID, n.Message)
		}
	})
}

func runNotificationsRead(ctx context.Context, cmd *cobra.Command, b *board.Board, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return errs.Validation("notifications.read", err)
	}
	if err := b.Notifications.MarkRead(ctx, id); err != nil {
		return err
	}
	printf(cmd.OutOrStdout(), "Notification %d marked as read\n", id)
	return nil
}
