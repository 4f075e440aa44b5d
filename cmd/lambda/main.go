// Command lambda serves the dialog code hooks as an AWS Lambda function.
package main

import (
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/wolfman30/lex-code-hooks/internal/app/bootstrap"
	"github.com/wolfman30/lex-code-hooks/internal/appointment"
	appconfig "github.com/wolfman30/lex-code-hooks/internal/config"
	"github.com/wolfman30/lex-code-hooks/internal/dispatch"
	"github.com/wolfman30/lex-code-hooks/internal/observability/metrics"
	"github.com/wolfman30/lex-code-hooks/pkg/logging"
)

func main() {
	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)

	router, err := newRouter(cfg, logger)
	if err != nil {
		logger.Error("failed to build dialog router", "error", err)
		os.Exit(1)
	}
	logger.Info("starting lex code hook lambda", "env", cfg.Env)
	lambda.Start(router.Handle)
}

func newRouter(cfg *appconfig.Config, logger *logging.Logger) (*dispatch.Router, error) {
	// Nothing scrapes a Lambda; counters stay local to the invocation environment.
	return bootstrap.BuildDialogRouter(cfg, logger, metrics.NewDialogMetrics(nil,
		metrics.WithAppointmentTypes(appointment.AppointmentTypes()...),
	), nil)
}
