package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"climateforum/internal/models"
	"climateforum/internal/repository"
	"climateforum/internal/service"

	"github.com/spf13/cobra"
)

func moderatorCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "moderator",
		Short: "Grant or revoke moderator rights",
	}
	cmd.AddCommand(
		setModeratorCommand("promote", "Make a user a moderator", true),
		setModeratorCommand("demote", "Remove a user's moderator rights", false),
	)
	return cmd
}

func setModeratorCommand(use, short string, flag bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <username>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			svc := service.NewUserService(repository.NewUserRepository(db))
			user, err := svc.SetModerator(cmd.Context(), args[0], flag)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (id %d) moderator=%t\n", user.Username, user.ID, user.IsModerator)
			return nil
		},
	}
}

func newReportService() (*service.ReportService, error) {
	db, err := openDB()
	if err != nil {
		return nil, err
	}
	return service.NewReportService(
		repository.NewReportRepository(db),
		repository.NewPostRepository(db),
		repository.NewCommentRepository(db),
	), nil
}

func reportsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reports",
		Short: "Review moderation reports",
	}

	var listStatus string
	list := &cobra.Command{
		Use:   "list",
		Short: "List reports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := newReportService()
			if err != nil {
				return err
			}
			reports, err := svc.ListReports(cmd.Context(), listStatus)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTARGET\tREASON\tSTATUS\tREPORTER\tCREATED")
			for _, r := range reports {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%s\n",
					r.ID, reportTarget(r), r.Reason, r.Status, r.ReporterID, r.CreatedAt.Format("2006-01-02 15:04"))
			}
			return w.Flush()
		},
	}
	list.Flags().StringVar(&listStatus, "status", models.ReportStatusPending, "filter by status (empty for all)")

	var resolveStatus string
	resolve := &cobra.Command{
		Use:   "resolve <id>",
		Short: "Mark a report reviewed or dismissed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil {
				return fmt.Errorf("invalid report id %q", args[0])
			}
			svc, err := newReportService()
			if err != nil {
				return err
			}
			if err := svc.ResolveReport(cmd.Context(), uint(id), resolveStatus); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "report %d marked %s\n", id, resolveStatus)
			return nil
		},
	}
	resolve.Flags().StringVar(&resolveStatus, "status", models.ReportStatusReviewed, "reviewed or dismissed")

	cmd.AddCommand(list, resolve)
	return cmd
}

func reportTarget(r models.Report) string {
	if r.PostID != nil {
		return fmt.Sprintf("post:%d", *r.PostID)
	}
	if r.CommentID != nil {
		return fmt.Sprintf("comment:%d", *r.CommentID)
	}
	return "-"
}
