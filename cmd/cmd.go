package cmd

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/cohortlabs/worksync/internal/config"
	"github.com/cohortlabs/worksync/internal/services"
	"github.com/cohortlabs/worksync/internal/session"
	"github.com/cohortlabs/worksync/internal/telemetry"
)

var rootCmd = &cobra.Command{
	Use: "worksync",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		err := godotenv.Overload()
		if err != nil {
			log.Println("Error loading .env file, skipping")
		}
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalln(err.Error())
	}
}

// bootstrap wires the core for one CLI invocation: config, telemetry, the
// backend variant, and the session identity resolved from the configured
// access token (or anonymous when there is none).
func bootstrap() (*services.Services, func()) {
	conf := config.ReadConfig()

	shutdownTelemetry := telemetry.NewProvider(conf.OTEL_EXPORTER_OTLP_ENDPOINT)

	svc := services.NewServices(conf)
	if userID, ok := session.ResolveSubject(conf.ACCESS_TOKEN, conf.JWT_SECRET); ok {
		svc.Session.SetUser(userID)
	} else {
		svc.Progress.Load(context.Background(), "")
	}

	return svc, shutdownTelemetry
}
