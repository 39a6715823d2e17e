package notifier

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/gdg-garage/campus-events/internal/config"
	"github.com/gdg-garage/campus-events/internal/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSession struct {
	channel  string
	messages []string
	err      error
}

func (f *fakeSession) ChannelMessageSend(channelID string, content string, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.channel = channelID
	f.messages = append(f.messages, content)
	return &discordgo.Message{Content: content}, nil
}

var (
	testCollege = models.College{Name: "College of Engineering"}
	testEvent   = models.Event{
		Title:       "Intro to Go",
		Description: "Bring a laptop",
		Type:        models.EventTypeWorkshop,
		Date:        time.Date(2025, 9, 7, 10, 0, 0, 0, time.UTC),
	}
	testStudent = models.Student{Name: "Alice Johnson", StudentNumber: "S1001"}
)

func TestDiscordNotifier(t *testing.T) {
	session := &fakeSession{}
	n := &DiscordNotifier{session: session, channelID: "chan-1"}

	require.NoError(t, n.NotifyEventCreated(testEvent, testCollege))
	require.NoError(t, n.NotifyRegistration(testStudent, testEvent))

	assert.Equal(t, "chan-1", session.channel)
	require.Len(t, session.messages, 2)
	assert.Contains(t, session.messages[0], "**New workshop**")
	assert.Contains(t, session.messages[0], "Intro to Go")
	assert.Contains(t, session.messages[0], "College of Engineering")
	assert.Contains(t, session.messages[0], "2025-09-07 10:00 UTC")
	assert.Contains(t, session.messages[0], "Bring a laptop")
	assert.Contains(t, session.messages[1], "Alice Johnson (S1001)")
}

func TestDiscordNotifierErrors(t *testing.T) {
	assert.EqualError(t, NewDiscordNotifier(nil, "chan").NotifyRegistration(testStudent, testEvent), "discord session is nil")
	assert.EqualError(t, (&DiscordNotifier{session: &fakeSession{}}).NotifyRegistration(testStudent, testEvent), "discord channel ID is empty")

	boom := errors.New("boom")
	err := (&DiscordNotifier{session: &fakeSession{err: boom}, channelID: "c"}).NotifyEventCreated(testEvent, testCollege)
	assert.ErrorIs(t, err, boom)
}

func TestLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := NewLogNotifier(zerolog.New(&buf))

	require.NoError(t, n.NotifyEventCreated(testEvent, testCollege))
	require.NoError(t, n.NotifyRegistration(testStudent, testEvent))

	out := buf.String()
	assert.Contains(t, out, `"message":"event created"`)
	assert.Contains(t, out, `"college":"College of Engineering"`)
	assert.Contains(t, out, `"student_number":"S1001"`)
}

func TestNewSelectsImplementation(t *testing.T) {
	n, err := New(&config.Config{}, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &LogNotifier{}, n)

	n, err = New(&config.Config{DiscordBotToken: "token", DiscordNotificationsChannelID: "chan"}, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &DiscordNotifier{}, n)
}
