package config

import (
	"fmt"
	"os"
	"time"

	"github.com/KasumiMercury/compliance-watch/internal/service/alert"
	"github.com/KasumiMercury/compliance-watch/internal/service/status"
)

const (
	timezoneEnv         = "TIMEZONE"
	alertDetailLimitEnv = "ALERT_DETAIL_LIMIT"
	mirrorStatusEnv     = "MIRROR_STATUS"
)

type AlertConfig struct {
	Timezone     string
	Location     *time.Location
	DetailLimit  int
	MirrorStatus bool
}

func LoadAlertConfig() (*AlertConfig, error) {
	timezone := stringEnv(timezoneEnv, status.DefaultTimezone)
	location, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimezone, timezone)
	}

	return &AlertConfig{
		Timezone:     timezone,
		Location:     location,
		DetailLimit:  positiveIntEnv(alertDetailLimitEnv, alert.DefaultDetailLimit),
		MirrorStatus: os.Getenv(mirrorStatusEnv) == "true",
	}, nil
}
