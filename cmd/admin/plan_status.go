package main

import (
	"alcyxob/gym-membership/internal/repository"
	"alcyxob/gym-membership/internal/repository/mongo"
	"alcyxob/gym-membership/internal/service"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var planMemberID string

var planStatusCmd = &cobra.Command{
	Use:   "plan-status",
	Short: "Show days remaining of active training plans",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		loc, err := s.cfg.Gym.Location()
		if err != nil {
			return err
		}
		memberRepo := mongo.NewMongoMemberRepository(s.db)

		if planMemberID != "" {
			id, err := primitive.ObjectIDFromHex(planMemberID)
			if err != nil {
				return fmt.Errorf("invalid member id %q", planMemberID)
			}
			plans := service.NewPlanService(memberRepo, nil, nil, loc)
			status, err := plans.PlanStatus(cmd.Context(), id)
			if err != nil {
				return err
			}
			printBoxedHeader("PLAN STATUS")
			if status.Plan == nil {
				printMetric("Plan", "none")
				return nil
			}
			printMetric("Started", status.Plan.StartDate.In(loc).Format("2006-01-02"))
			printMetric("Target sessions", status.Plan.TargetSessions)
			printMetric("Sessions counted", status.Plan.SessionsCounted())
			printMetric("Days remaining", severityColor(status.Severity).Sprint(status.DaysRemaining))
			return nil
		}

		rows, err := service.NewMemberService(memberRepo).List(cmd.Context(), repository.MemberFilter{WithPlanOnly: true})
		if err != nil {
			return err
		}
		printBoxedHeader("ACTIVE PLANS")
		if len(rows) == 0 {
			fmt.Println("  no member has an active plan")
			return nil
		}
		bold := color.New(color.Bold).SprintFunc()
		for _, row := range rows {
			fmt.Printf("  • %-30s %s  %s/%d\n",
				bold(row.Member.Name),
				row.Member.ID.Hex(),
				severityColor(row.Status.Severity).Sprintf("%3d left", row.Status.DaysRemaining),
				row.Status.Plan.TargetSessions,
			)
		}
		return nil
	},
}

func init() {
	planStatusCmd.Flags().StringVar(&planMemberID, "member", "", "member id; lists every active plan when empty")
	rootCmd.AddCommand(planStatusCmd)
}
