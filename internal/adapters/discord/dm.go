package discord

import (
	"github.com/bwmarrin/discordgo"
)

// HandleDirectMessage routes a DM into the author's open dialog, if any.
func (h *Handler) HandleDirectMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	sess, ok := h.sessions.get(m.Author.ID)
	if !ok {
		return
	}
	switch sess.Kind {
	case dialogWizard:
		h.handleWizardText(s, m, sess)
	case dialogEditField:
		h.handleEditText(s, m, sess)
	case dialogRegisterName:
		h.handleRegisterNameText(s, m, sess)
	case dialogRegisterGraduation:
		h.handleRegisterGraduationText(s, m, sess)
	case dialogFeedbackText:
		if sess.PendingText == "" {
			h.handleFeedbackText(s, m, sess)
		}
	case dialogSOSText:
		if sess.PendingText == "" {
			h.handleSOSText(s, m, sess)
		}
	}
}
