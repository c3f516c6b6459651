package main

import (
	"alcyxob/gym-membership/internal/domain"
	"alcyxob/gym-membership/internal/repository/mongo"
	"alcyxob/gym-membership/internal/service"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	staffName     string
	staffEmail    string
	staffPassword string
	staffRole     string
)

var addStaffCmd = &cobra.Command{
	Use:   "add-staff",
	Short: "Create a staff account (use this to bootstrap the first admin)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if staffPassword == "" {
			staffPassword = os.Getenv("GYM_ADMIN_PASSWORD")
		}
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()
		if s.cfg.JWT.Secret == "" {
			return errors.New("jwt.secret must be configured")
		}

		auth := service.NewAuthService(mongo.NewMongoUserRepository(s.db), s.cfg.JWT.Secret, s.cfg.JWT.Expiration)
		user, err := auth.Register(cmd.Context(), staffName, staffEmail, staffPassword, domain.Role(staffRole))
		if err != nil {
			return fmt.Errorf("create staff account: %w", err)
		}
		success("created %s account %s (%s)", user.Role, user.Email, user.ID.Hex())
		return nil
	},
}

func init() {
	addStaffCmd.Flags().StringVar(&staffName, "name", "", "display name")
	addStaffCmd.Flags().StringVar(&staffEmail, "email", "", "login email")
	addStaffCmd.Flags().StringVar(&staffPassword, "password", "", "password, defaults to $GYM_ADMIN_PASSWORD")
	addStaffCmd.Flags().StringVar(&staffRole, "role", string(domain.RoleAdmin), "admin or staff")
	_ = addStaffCmd.MarkFlagRequired("name")
	_ = addStaffCmd.MarkFlagRequired("email")
	rootCmd.AddCommand(addStaffCmd)
}
