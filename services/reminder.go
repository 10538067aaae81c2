package services

import (
	"fmt"
	"os"
	"strconv"

	"github.com/alphabatem/common/context"
	"github.com/go-co-op/gocron/v2"
	log "github.com/sirupsen/logrus"

	"github.com/Starefossen/NisseKomm-sub003/model"
)

// NotificationSink delivers a daily reminder to one registered family.
// The default sink only logs; a mail or push integration plugs in here.
type NotificationSink interface {
	Notify(email, subject, body string) error
}

type logSink struct{}

func (logSink) Notify(email, subject, body string) error {
	log.WithFields(log.Fields{
		"email":   email,
		"subject": subject,
	}).Info("Reminder notification")
	return nil
}

// ReminderService runs a daily job that tells subscribed families which
// calendar door opened today.
type ReminderService struct {
	context.DefaultService

	Sink NotificationSink

	scheduler gocron.Scheduler

	sqlSvc     *SqliteService
	clockSvc   *ClockService
	catalogSvc *CatalogService
}

const REMINDER_SVC = "reminder_svc"

func (svc ReminderService) Id() string {
	return REMINDER_SVC
}

func (svc *ReminderService) Configure(ctx *context.Context) error {
	if svc.Sink == nil {
		svc.Sink = logSink{}
	}
	return svc.DefaultService.Configure(ctx)
}

func (svc *ReminderService) Start() error {
	svc.sqlSvc = svc.Service(SQLITE_SVC).(*SqliteService)
	svc.clockSvc = svc.Service(CLOCK_SVC).(*ClockService)
	svc.catalogSvc = svc.Service(CATALOG_SVC).(*CatalogService)

	hour := 7
	if h := os.Getenv("REMINDER_HOUR"); h != "" {
		if parsed, err := strconv.Atoi(h); err == nil && parsed >= 0 && parsed <= 23 {
			hour = parsed
		}
	}

	sched, err := gocron.NewScheduler()
	if err != nil {
		return err
	}
	svc.scheduler = sched

	_, err = sched.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(uint(hour), 0, 0))),
		gocron.NewTask(svc.sendDailyReminders),
	)
	if err != nil {
		return err
	}

	sched.Start()
	log.WithField("hour", hour).Info("Daily reminder job scheduled")
	return nil
}

func (svc *ReminderService) Shutdown() {
	if svc.scheduler != nil {
		_ = svc.scheduler.Shutdown()
	}
}

func (svc *ReminderService) sendDailyReminders() {
	day := svc.clockSvc.CalendarDay()
	if day == 0 {
		return
	}

	mission := svc.catalogSvc.MissionForDay(day)
	if mission == nil {
		return
	}

	creds, err := svc.sqlSvc.Credentials().ListSubscribed()
	if err != nil {
		log.WithError(err).Error("Failed to list subscribed credentials")
		return
	}

	for _, cred := range creds {
		if err := svc.notifyOne(cred, day, mission); err != nil {
			log.WithError(err).WithField("sessionID", cred.SessionID).Warn("Reminder delivery failed")
		}
	}

	log.WithFields(log.Fields{
		"day":        day,
		"recipients": len(creds),
	}).Info("Daily reminders sent")
}

func (svc *ReminderService) notifyOne(cred model.Credential, day int, mission *model.Mission) error {
	subject := fmt.Sprintf("Luke %d er åpen!", day)
	body := fmt.Sprintf("Dagens oppdrag: %s. Logg inn på NisseKomm for å lese brevet fra nissen.", mission.Title)
	return svc.Sink.Notify(cred.Email, subject, body)
}

// TriggerNow runs one reminder pass outside the schedule.
func (svc *ReminderService) TriggerNow() {
	svc.sendDailyReminders()
}
