package api

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/pitchlog/internal/journal"
	"github.com/terraincognita07/pitchlog/internal/reminders"
	"github.com/terraincognita07/pitchlog/internal/services"
)

const (
	sessionCookieName     = "pitchlog_session"
	defaultSessionTTL     = 7 * 24 * time.Hour
	defaultReminderLead   = time.Hour
	defaultChangesWait    = 25 * time.Second
	maxChangesWait        = 60 * time.Second
	loginAttemptLimit     = 8
	loginAttemptWindow    = 15 * time.Minute
	contextSessionKey     = "session"
	defaultListLimit      = 100
	maxListLimit          = 1000
	overviewActivityLimit = 10
)

type Handler struct {
	store        *services.EntityStore
	journal      *journal.Synchronizer
	reminders    *reminders.Scheduler
	passcodes    *services.PasscodeService
	overview     *Overview
	secretKey    []byte
	location     *time.Location
	cookieSecure bool
	reminderLead time.Duration
	changesWait  time.Duration
	log          logrus.FieldLogger
	now          func() time.Time
	loginLimiter *attemptLimiter
}

// Dependencies is everything NewHandler wires together. Overview is
// optional; without it /api/overview answers 503.
type Dependencies struct {
	Store        *services.EntityStore
	Journal      *journal.Synchronizer
	Reminders    *reminders.Scheduler
	Passcodes    *services.PasscodeService
	Overview     *Overview
	SecretKey    string
	Location     *time.Location
	CookieSecure bool
	ReminderLead time.Duration
	ChangesWait  time.Duration
	Logger       logrus.FieldLogger
}

func NewHandler(deps Dependencies) (*Handler, error) {
	if deps.Store == nil || deps.Journal == nil || deps.Reminders == nil || deps.Passcodes == nil {
		return nil, errors.New("api: store, journal, reminders and passcodes are required")
	}
	if deps.SecretKey == "" {
		return nil, errors.New("api: secret key is required")
	}

	handler := &Handler{
		store:        deps.Store,
		journal:      deps.Journal,
		reminders:    deps.Reminders,
		passcodes:    deps.Passcodes,
		overview:     deps.Overview,
		secretKey:    []byte(deps.SecretKey),
		location:     deps.Location,
		cookieSecure: deps.CookieSecure,
		reminderLead: deps.ReminderLead,
		changesWait:  deps.ChangesWait,
		log:          deps.Logger,
		now:          time.Now,
		loginLimiter: newAttemptLimiter(loginAttemptLimit, loginAttemptWindow),
	}
	if handler.location == nil {
		handler.location = time.UTC
	}
	if handler.reminderLead <= 0 {
		handler.reminderLead = defaultReminderLead
	}
	if handler.changesWait <= 0 {
		handler.changesWait = defaultChangesWait
	}
	if handler.log == nil {
		handler.log = logrus.StandardLogger()
	}
	handler.log = handler.log.WithField("component", "api")
	return handler, nil
}

type sessionClaims struct {
	Fingerprint string `json:"pfp"`
	jwt.RegisteredClaims
}
