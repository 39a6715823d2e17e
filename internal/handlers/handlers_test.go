package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/gdg-garage/campus-events/internal/auth"
	"github.com/gdg-garage/campus-events/internal/config"
	"github.com/gdg-garage/campus-events/internal/database"
	"github.com/gdg-garage/campus-events/internal/database/databasetest"
	"github.com/gdg-garage/campus-events/internal/metrics"
	"github.com/gdg-garage/campus-events/internal/models"
	"github.com/gdg-garage/campus-events/internal/reports"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testAPIKey = "handlers-test-key"

// adminHeader authenticates humatest requests as the seeded organiser.
var adminHeader = auth.APIKeyHeader + ": " + testAPIKey

type recordingNotifier struct {
	mu            sync.Mutex
	created       []models.Event
	registrations []models.Student
	// err is returned from every call once set.
	err error
}

func (n *recordingNotifier) NotifyEventCreated(event models.Event, _ models.College) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.created = append(n.created, event)
	return n.err
}

func (n *recordingNotifier) NotifyRegistration(student models.Student, _ models.Event) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.registrations = append(n.registrations, student)
	return n.err
}

type testEnv struct {
	api      humatest.TestAPI
	db       *gorm.DB
	notifier *recordingNotifier
	metrics  *metrics.Metrics
	adminID  uint
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := databasetest.Open(t)
	cfg := &config.Config{JWTSecret: "test-secret", TopStudentsLimit: 3}

	env := &testEnv{
		db:       db,
		notifier: &recordingNotifier{},
		metrics:  metrics.New(),
	}
	service := reports.NewService(db)

	_, api := humatest.New(t, APIConfig())
	Register(api, Handlers{
		Auth:         auth.NewAuthHandler(cfg, db),
		Colleges:     NewCollegeHandler(db),
		Students:     NewStudentHandler(db),
		Events:       NewEventHandler(db, service, env.notifier, env.metrics),
		Registration: NewRegistrationHandler(db, env.notifier, env.metrics),
		Reports:      NewReportHandler(service, cfg.TopStudentsLimit),
		APIKeys:      NewAPIKeyHandler(db),
	})
	env.api = api

	admin := models.Admin{DiscordID: "42", Username: "organiser"}
	require.NoError(t, db.Create(&admin).Error)
	require.NoError(t, db.Create(&models.APIKey{AdminID: admin.ID, Key: testAPIKey, Name: "tests"}).Error)
	env.adminID = admin.ID
	return env
}

// seed loads the demo dataset.
func (e *testEnv) seed(t *testing.T) {
	t.Helper()
	_, err := database.Seed(e.db, time.Now())
	require.NoError(t, err)
}

func (e *testEnv) college(t *testing.T, name string) models.College {
	t.Helper()
	c := models.College{Name: name}
	require.NoError(t, e.db.Create(&c).Error)
	return c
}

func (e *testEnv) student(t *testing.T, number string, collegeID uint) models.Student {
	t.Helper()
	s := models.Student{Name: "Student " + number, Email: number + "@example.com", StudentNumber: number, CollegeID: collegeID}
	require.NoError(t, e.db.Create(&s).Error)
	return s
}

func (e *testEnv) event(t *testing.T, title string, eventType models.EventType, collegeID uint) models.Event {
	t.Helper()
	ev := models.Event{Title: title, Type: eventType, Date: time.Now().UTC().Add(72 * time.Hour), CollegeID: collegeID}
	require.NoError(t, e.db.Create(&ev).Error)
	return ev
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), rr.Body.String())
	return out
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
