package main

import (
	"alcyxob/gym-membership/internal/repository/mongo"
	"context"
	"time"

	"github.com/spf13/cobra"
)

var indexesCmd = &cobra.Command{
	Use:   "indexes",
	Short: "Create the MongoDB indexes of members and staff accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
		defer cancel()
		if err := mongo.EnsureIndexes(ctx, s.db); err != nil {
			return err
		}
		success("indexes ready in %s", s.cfg.Database.Name)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(indexesCmd)
}
