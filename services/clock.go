// services/clock.go
package services

import (
	"os"
	"strconv"
	"time"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"
)

// ClockService resolves the current calendar day/month, honoring an optional
// simulated override for testing. Deterministic for a fixed configuration.
type ClockService struct {
	context.DefaultService

	overrideDay   int // 0 -> no override
	overrideMonth int
	now           func() time.Time
}

const CLOCK_SVC = "clock_svc"

func (svc ClockService) Id() string {
	return CLOCK_SVC
}

func (svc *ClockService) Configure(ctx *context.Context) error {
	svc.now = time.Now

	if raw := os.Getenv("JULEKALENDER_DAY"); raw != "" {
		day, err := strconv.Atoi(raw)
		if err != nil || day < 1 || day > 31 {
			log.WithField("value", raw).Warn("Ignoring out-of-range JULEKALENDER_DAY override")
		} else {
			svc.overrideDay = day
		}
	}

	if raw := os.Getenv("JULEKALENDER_MONTH"); raw != "" {
		month, err := strconv.Atoi(raw)
		if err != nil || month < 1 || month > 12 {
			log.WithField("value", raw).Warn("Ignoring out-of-range JULEKALENDER_MONTH override")
		} else {
			svc.overrideMonth = month
		}
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *ClockService) Start() error {
	if svc.overrideDay != 0 || svc.overrideMonth != 0 {
		log.WithFields(log.Fields{
			"day":   svc.overrideDay,
			"month": svc.overrideMonth,
		}).Info("Calendar clock running with simulated override")
	}
	return nil
}

// CurrentDay returns the simulated day when overridden, otherwise the
// wall-clock day of month.
func (svc *ClockService) CurrentDay() int {
	if svc.overrideDay != 0 {
		return svc.overrideDay
	}
	return svc.now().Day()
}

// CurrentMonth returns the simulated month when overridden, otherwise the
// wall-clock month.
func (svc *ClockService) CurrentMonth() int {
	if svc.overrideMonth != 0 {
		return svc.overrideMonth
	}
	return int(svc.now().Month())
}

// CalendarDay returns the mission day the calendar is gated to: the current
// day during December, 0 before the calendar opens, 24 after it ends.
func (svc *ClockService) CalendarDay() int {
	day := svc.CurrentDay()
	switch month := svc.CurrentMonth(); {
	case month == 12:
		if day > 24 {
			return 24
		}
		return day
	case month == 1:
		return 24 // the game stays fully open through January
	default:
		return 0
	}
}
