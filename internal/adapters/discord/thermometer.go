package discord

import (
	"context"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"

	"campusbot/internal/domain/entities"
)

// The fixed check-in time slots offered in the settings menu.
var thermometerTimeOptions = []string{"10:00", "12:00", "15:00", "18:00"}

func (h *Handler) HandleThermometerCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	user := interactionUser(i)
	if !h.ensureRegistered(ctx, s, i, user) {
		return
	}
	settings, err := h.profiles.ThermometerSettings(ctx, user.ID)
	if err != nil {
		respondEphemeral(s, i.Interaction, h.errorText(err))
		return
	}
	content, components := h.thermometerMenu(settings)
	respondEphemeral(s, i.Interaction, content, components...)
}

func (h *Handler) HandleThermometerComponent(s *discordgo.Session, i *discordgo.InteractionCreate, customID string) {
	ctx := context.Background()
	user := interactionUser(i)
	parts := strings.Split(customID, ":")
	if len(parts) < 2 {
		return
	}

	switch parts[1] {
	case "toggle":
		current, err := h.profiles.ThermometerSettings(ctx, user.ID)
		if err != nil {
			respondEphemeral(s, i.Interaction, h.errorText(err))
			return
		}
		settings, err := h.profiles.SetThermometerEnabled(ctx, user.ID, !current.Enabled)
		if err != nil {
			respondEphemeral(s, i.Interaction, h.errorText(err))
			return
		}
		content, components := h.thermometerMenu(settings)
		respondUpdate(s, i.Interaction, content, components...)

	case "weekday":
		var rows []discordgo.MessageComponent
		var row discordgo.ActionsRow
		for n := 0; n < 7; n++ {
			row.Components = append(row.Components, discordgo.Button{
				Label: h.t("weekday_"+strconv.Itoa(n), nil), Style: discordgo.SecondaryButton,
				CustomID: "thermo:wd:" + strconv.Itoa(n),
			})
			if len(row.Components) == 4 {
				rows = append(rows, row)
				row = discordgo.ActionsRow{}
			}
		}
		if len(row.Components) > 0 {
			rows = append(rows, row)
		}
		respondUpdate(s, i.Interaction, h.t("thermometer_pick_weekday", nil), rows...)

	case "wd":
		if len(parts) < 3 {
			return
		}
		n, err := strconv.Atoi(parts[2])
		if err != nil {
			return
		}
		settings, _, err := h.profiles.SetThermometerWeekday(ctx, user.ID, n)
		if err != nil {
			respondEphemeral(s, i.Interaction, h.errorText(err))
			return
		}
		content, components := h.thermometerMenu(settings)
		respondUpdate(s, i.Interaction, h.t("thermometer_saved", nil)+"\n\n"+content, components...)

	case "time":
		var row discordgo.ActionsRow
		for _, opt := range thermometerTimeOptions {
			row.Components = append(row.Components, discordgo.Button{
				Label: opt, Style: discordgo.SecondaryButton, CustomID: "thermo:tm:" + opt,
			})
		}
		respondUpdate(s, i.Interaction, h.t("thermometer_pick_time", nil), row)

	case "tm":
		// The value itself contains a colon, so it spans the rest of the id.
		value := strings.Join(parts[2:], ":")
		settings, _, err := h.profiles.SetThermometerTime(ctx, user.ID, value)
		if err != nil {
			respondEphemeral(s, i.Interaction, h.errorText(err))
			return
		}
		content, components := h.thermometerMenu(settings)
		respondUpdate(s, i.Interaction, h.t("thermometer_saved", nil)+"\n\n"+content, components...)

	case "ok":
		respondUpdate(s, i.Interaction, h.t("thermometer_ok_reply", nil))

	case "help":
		h.relay.SendThermometerAlert(ctx, h.authorOf(ctx, user))
		respondUpdate(s, i.Interaction, h.t("thermometer_help_reply", nil))
	}
}

func (h *Handler) thermometerMenu(settings entities.ThermometerSettings) (string, []discordgo.MessageComponent) {
	status := h.t("thermometer_off", nil)
	toggleLabel := h.t("thermometer_btn_enable", nil)
	if settings.Enabled {
		status = h.t("thermometer_on", nil)
		toggleLabel = h.t("thermometer_btn_disable", nil)
	}
	content := h.t("thermometer_menu", map[string]any{
		"Status":  status,
		"Weekday": h.t("weekday_"+strconv.Itoa(settings.Weekday), nil),
		"Time":    settings.Time,
	})
	components := []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.Button{Label: toggleLabel, Style: discordgo.PrimaryButton, CustomID: "thermo:toggle"},
			discordgo.Button{Label: h.t("thermometer_btn_weekday", nil), Style: discordgo.SecondaryButton, CustomID: "thermo:weekday"},
			discordgo.Button{Label: h.t("thermometer_btn_time", nil), Style: discordgo.SecondaryButton, CustomID: "thermo:time"},
		}},
	}
	return content, components
}
