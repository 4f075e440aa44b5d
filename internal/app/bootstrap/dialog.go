package bootstrap

import (
	"fmt"
	"time"

	"github.com/wolfman30/lex-code-hooks/internal/appointment"
	appconfig "github.com/wolfman30/lex-code-hooks/internal/config"
	"github.com/wolfman30/lex-code-hooks/internal/dispatch"
	"github.com/wolfman30/lex-code-hooks/internal/flowers"
	"github.com/wolfman30/lex-code-hooks/internal/observability/metrics"
	"github.com/wolfman30/lex-code-hooks/pkg/logging"
)

// BuildDialogRouter registers every intent handler the bot serves.
// now may be nil, in which case the wall clock is used.
func BuildDialogRouter(cfg *appconfig.Config, logger *logging.Logger, dialogMetrics *metrics.DialogMetrics, now func() time.Time) (*dispatch.Router, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bootstrap: config is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if now == nil {
		now = time.Now
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("bootstrap: %w", err)
	}

	router := dispatch.NewRouter(logger, dialogMetrics)
	router.Register(appointment.IntentName, appointment.NewHandler(logger,
		appointment.WithClock(now),
		appointment.WithLocation(loc),
		appointment.WithBookingRecorder(dialogMetrics),
	))
	router.Register(flowers.IntentName, flowers.NewHandler(logger, now, loc))

	logger.Info("dialog router ready", "intents", router.Intents(), "timezone", loc.String())
	return router, nil
}
