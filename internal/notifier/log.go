package notifier

import (
	"github.com/bwmarrin/discordgo"
	"github.com/gdg-garage/campus-events/internal/config"
	"github.com/gdg-garage/campus-events/internal/models"
	"github.com/rs/zerolog"
)

// LogNotifier writes notifications to the structured log. It is used when
// no Discord bot is configured.
type LogNotifier struct {
	log zerolog.Logger
}

func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log.With().Str("component", "notifier").Logger()}
}

func (n *LogNotifier) NotifyEventCreated(event models.Event, college models.College) error {
	n.log.Info().
		Uint("event_id", event.ID).
		Str("title", event.Title).
		Str("type", string(event.Type)).
		Str("college", college.Name).
		Time("date", event.Date).
		Msg("event created")
	return nil
}

func (n *LogNotifier) NotifyRegistration(student models.Student, event models.Event) error {
	n.log.Info().
		Uint("event_id", event.ID).
		Uint("student_id", student.ID).
		Str("student_number", student.StudentNumber).
		Msg("student registered")
	return nil
}

// New picks the Discord notifier when bot credentials are configured and
// falls back to logging otherwise.
func New(cfg *config.Config, log zerolog.Logger) (Notifier, error) {
	if !cfg.DiscordNotificationsEnabled() {
		return NewLogNotifier(log), nil
	}
	session, err := discordgo.New("Bot " + cfg.DiscordBotToken)
	if err != nil {
		return NewLogNotifier(log), err
	}
	return NewDiscordNotifier(session, cfg.DiscordNotificationsChannelID), nil
}
