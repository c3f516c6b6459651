package main

import (
	"alcyxob/gym-membership/internal/repository"
	"alcyxob/gym-membership/internal/repository/mongo"
	"alcyxob/gym-membership/internal/service"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	memberSearch string
	memberLimit  int64
)

var membersCmd = &cobra.Command{
	Use:   "members",
	Short: "List members with their plan status",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		rows, err := service.NewMemberService(mongo.NewMongoMemberRepository(s.db)).List(cmd.Context(), repository.MemberFilter{
			Search: memberSearch,
			Limit:  memberLimit,
		})
		if err != nil {
			return err
		}

		printBoxedHeader("MEMBERS")
		printMetric("Total", len(rows))
		fmt.Println()
		dim := color.New(color.Faint).SprintFunc()
		for _, row := range rows {
			plan := dim("no plan")
			if row.Status.Plan != nil {
				plan = severityColor(row.Status.Severity).Sprintf("%d days remaining", row.Status.DaysRemaining)
			}
			fmt.Printf("  • %s %s  %s  %s\n",
				color.New(color.FgMagenta, color.Bold).Sprint(row.Member.Name),
				dim(row.Member.Email),
				plan,
				dim(fmt.Sprintf("%d archived", len(row.Member.PlanHistory))),
			)
		}
		return nil
	},
}

func init() {
	membersCmd.Flags().StringVar(&memberSearch, "search", "", "name or email contains")
	membersCmd.Flags().Int64Var(&memberLimit, "limit", 0, "maximum rows, 0 for all")
	rootCmd.AddCommand(membersCmd)
}
