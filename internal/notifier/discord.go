package notifier

import (
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/gdg-garage/campus-events/internal/models"
)

// Notifier announces campus activity to organisers.
type Notifier interface {
	NotifyEventCreated(event models.Event, college models.College) error
	NotifyRegistration(student models.Student, event models.Event) error
}

// messageSender is the part of *discordgo.Session the notifier uses.
type messageSender interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

type DiscordNotifier struct {
	session   messageSender
	channelID string
}

func NewDiscordNotifier(session *discordgo.Session, channelID string) *DiscordNotifier {
	n := &DiscordNotifier{channelID: channelID}
	if session != nil {
		n.session = session
	}
	return n
}

func (n *DiscordNotifier) send(message string) error {
	if n.session == nil {
		return errors.New("discord session is nil")
	}
	if n.channelID == "" {
		return errors.New("discord channel ID is empty")
	}

	if _, err := n.session.ChannelMessageSend(n.channelID, message); err != nil {
		return fmt.Errorf("send discord message: %w", err)
	}
	return nil
}

func eventCreatedMessage(event models.Event, college models.College) string {
	descStr := ""
	if event.Description != "" {
		descStr = fmt.Sprintf("\n**About:** %s", event.Description)
	}
	return fmt.Sprintf("📅 **New %s**\n**Title:** %s\n**College:** %s\n**When:** %s%s",
		event.Type,
		event.Title,
		college.Name,
		event.Date.UTC().Format("2006-01-02 15:04 MST"),
		descStr,
	)
}

func registrationMessage(student models.Student, event models.Event) string {
	return fmt.Sprintf("🎟️ **Registration**\n**Student:** %s (%s)\n**Event:** %s (#%d)",
		student.Name,
		student.StudentNumber,
		event.Title,
		event.ID,
	)
}

func (n *DiscordNotifier) NotifyEventCreated(event models.Event, college models.College) error {
	return n.send(eventCreatedMessage(event, college))
}

func (n *DiscordNotifier) NotifyRegistration(student models.Student, event models.Event) error {
	return n.send(registrationMessage(student, event))
}
