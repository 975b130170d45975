package main

import (
	"fmt"

	"climateforum/internal/seed"

	"github.com/spf13/cobra"
)

func seedCommand() *cobra.Command {
	opts := seed.Options{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Fill the database with demo users, posts, comments and likes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			summary, err := seed.Run(cmd.Context(), db, opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %d users, %d posts, %d comments, %d likes\n",
				summary.Users, summary.Posts, summary.Comments, summary.Reactions)
			fmt.Fprintf(cmd.OutOrStdout(), "all demo accounts use the password %q\n", seed.DemoPassword)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&opts.Users, "users", 10, "number of users to create")
	flags.IntVar(&opts.Posts, "posts", 40, "number of posts to create")
	flags.IntVar(&opts.MaxCommentsPerPost, "max-comments", 5, "maximum comments per post")
	flags.Int64Var(&opts.Seed, "seed", 0, "random seed (0 = time based)")
	return cmd
}
