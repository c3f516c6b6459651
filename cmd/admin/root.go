package main

import (
	"alcyxob/gym-membership/internal/config"
	"alcyxob/gym-membership/internal/logging"
	"alcyxob/gym-membership/internal/repository/mongo"
	"fmt"

	"github.com/spf13/cobra"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
)

var configDir string

var rootCmd = &cobra.Command{
	Use:          "gym-admin",
	Short:        "Operator tasks for the gym membership backend",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config", ".", "directory holding config.yaml and .env")
}

func Execute() error {
	return rootCmd.Execute()
}

// session is a loaded config plus an open database, closed by the caller.
type session struct {
	cfg    config.Config
	db     *mongodriver.Database
	client *mongodriver.Client
	flush  func()
}

func openSession() (*session, error) {
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	_, flush := logging.Setup(cfg.Log, cfg.Rollbar, "admin")

	client, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		flush()
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}
	return &session{cfg: cfg, db: client.Database(cfg.Database.Name), client: client, flush: flush}, nil
}

func (s *session) Close() {
	_ = mongo.DisconnectDB(s.client)
	s.flush()
}
