package application

import (
	"strings"
	"time"

	"campusbot/internal/domain"
	"campusbot/internal/domain/entities"
	"campusbot/pkg/datetime"
)

// WizardStep identifies the field the creation wizard is collecting.
type WizardStep int

const (
	StepTitle WizardStep = iota
	StepDate
	StepStart
	StepEnd
	StepLocation
	StepDescription
	StepTags
	StepConfirm
)

// Wizard is the event creation dialog state: a strictly ordered sequence
// of fields with per-step validation. It is a plain value held in the
// chat adapter's session map; nothing here touches storage.
type Wizard struct {
	Step WizardStep

	Title       string
	Date        time.Time
	StartClock  time.Time
	EndClock    time.Time
	Location    string
	Description string
	Tags        []string

	HasDate  bool
	HasStart bool
	HasEnd   bool

	loc *time.Location
}

// NewWizard starts a wizard at the title step with the full tag
// vocabulary preselected.
func NewWizard(loc *time.Location) *Wizard {
	return &Wizard{
		Step: StepTitle,
		Tags: domain.AllTags(),
		loc:  loc,
	}
}

// PromptKey returns the i18n key of the current step's prompt.
func (w *Wizard) PromptKey() string {
	switch w.Step {
	case StepTitle:
		return "wizard_ask_title"
	case StepDate:
		return "wizard_ask_date"
	case StepStart:
		return "wizard_ask_start"
	case StepEnd:
		return "wizard_ask_end"
	case StepLocation:
		return "wizard_ask_location"
	case StepDescription:
		return "wizard_ask_description"
	case StepTags:
		return "wizard_ask_tags"
	default:
		return "wizard_confirm"
	}
}

// Input feeds one user message into the current step. On validation
// failure the wizard stays in place and the caller re-prompts with the
// returned error.
func (w *Wizard) Input(text string) error {
	text = strings.TrimSpace(text)
	switch w.Step {
	case StepTitle, StepLocation, StepDescription:
		if text == "" {
			return domain.ErrEmptyInput
		}
	}

	switch w.Step {
	case StepTitle:
		w.Title = text
	case StepDate:
		day, err := datetime.ParseDate(text)
		if err != nil {
			return domain.ErrBadDateFormat
		}
		w.Date = day
		w.HasDate = true
	case StepStart:
		clock, err := datetime.ParseClock(text)
		if err != nil {
			return domain.ErrBadTimeFormat
		}
		w.StartClock = clock
		w.HasStart = true
	case StepEnd:
		clock, err := datetime.ParseClock(text)
		if err != nil {
			return domain.ErrBadTimeFormat
		}
		if !w.HasStart || !clockAfter(clock, w.StartClock) {
			return domain.ErrEndBeforeStart
		}
		w.EndClock = clock
		w.HasEnd = true
	case StepLocation:
		w.Location = text
	case StepDescription:
		w.Description = text
	default:
		// Tags and confirmation are button-driven; stray text is ignored.
		return nil
	}

	w.Step++
	return nil
}

// Back steps to the previous field. Fields collected at and after the
// current step are discarded: partial data for an abandoned step is
// meaningless, so re-entering a step always starts it clean.
func (w *Wizard) Back() {
	if w.Step == StepTitle {
		return
	}
	w.clearFrom(w.Step)
	w.Step--
}

func (w *Wizard) clearFrom(step WizardStep) {
	if step <= StepTitle {
		w.Title = ""
	}
	if step <= StepDate {
		w.Date = time.Time{}
		w.HasDate = false
	}
	if step <= StepStart {
		w.StartClock = time.Time{}
		w.HasStart = false
	}
	if step <= StepEnd {
		w.EndClock = time.Time{}
		w.HasEnd = false
	}
	if step <= StepLocation {
		w.Location = ""
	}
	if step <= StepDescription {
		w.Description = ""
	}
	if step <= StepTags {
		w.Tags = domain.AllTags()
	}
}

// ToggleTag flips one tag in the selection. The last selected tag cannot
// be toggled off.
func (w *Wizard) ToggleTag(slug string) error {
	if !domain.IsKnownTag(slug) {
		return domain.ErrUnknownTag
	}
	selected := false
	for _, tag := range w.Tags {
		if tag == slug {
			selected = true
			break
		}
	}
	if selected {
		if len(w.Tags) == 1 {
			return domain.ErrLastTag
		}
		kept := make([]string, 0, len(w.Tags)-1)
		for _, tag := range w.Tags {
			if tag != slug {
				kept = append(kept, tag)
			}
		}
		w.Tags = kept
		return nil
	}
	w.Tags = domain.NormalizeTags(append(w.Tags, slug))
	return nil
}

// FinishTags commits the tag selection and moves to confirmation.
func (w *Wizard) FinishTags() error {
	if len(domain.NormalizeTags(w.Tags)) == 0 {
		return domain.ErrNoTagsSelected
	}
	w.Step = StepConfirm
	return nil
}

// StartAt combines the collected date and start time in the wizard's
// location.
func (w *Wizard) StartAt() (time.Time, bool) {
	if !w.HasDate || !w.HasStart {
		return time.Time{}, false
	}
	return time.Date(w.Date.Year(), w.Date.Month(), w.Date.Day(),
		w.StartClock.Hour(), w.StartClock.Minute(), 0, 0, w.loc), true
}

// EndAt combines the collected date and end time.
func (w *Wizard) EndAt() (time.Time, bool) {
	if !w.HasDate || !w.HasEnd {
		return time.Time{}, false
	}
	return time.Date(w.Date.Year(), w.Date.Month(), w.Date.Day(),
		w.EndClock.Hour(), w.EndClock.Minute(), 0, 0, w.loc), true
}

// Draft assembles the collected fields into a pending event stamped with
// the acting user's identity snapshot.
func (w *Wizard) Draft(authorID, authorName, authorUsername string) (*entities.Event, error) {
	start, ok := w.StartAt()
	if !ok || w.Title == "" || w.Location == "" || w.Description == "" {
		return nil, domain.ErrDraftIncomplete
	}
	tags := domain.NormalizeTags(w.Tags)
	if len(tags) == 0 {
		return nil, domain.ErrNoTagsSelected
	}

	ev := &entities.Event{
		Title:            w.Title,
		StartsAt:         datetime.FormatISOLocal(start),
		Location:         w.Location,
		ShortDescription: w.Description,
		Tags:             tags,
		Status:           entities.StatusPending,
		CreatedBy:        authorID,
		CreatorName:      authorName,
		CreatorUsername:  authorUsername,
		ContactName:      authorName,
		Attendees:        []string{},
	}
	if end, ok := w.EndAt(); ok {
		ev.EndsAt = datetime.FormatISOLocal(end)
	}
	if authorUsername != "" {
		ev.ContactURL = "https://discord.com/users/" + authorID
	}
	return ev, nil
}

func clockAfter(a, b time.Time) bool {
	if a.Hour() != b.Hour() {
		return a.Hour() > b.Hour()
	}
	return a.Minute() > b.Minute()
}
