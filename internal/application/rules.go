package application

import (
	"campusbot/internal/domain"
	"campusbot/internal/domain/entities"
)

// Rules answers the authorization and visibility questions shared by the
// services and the chat adapter.
type Rules struct {
	admins map[string]struct{}
}

func NewRules(adminIDs []string) *Rules {
	admins := make(map[string]struct{}, len(adminIDs))
	for _, id := range adminIDs {
		admins[id] = struct{}{}
	}
	return &Rules{admins: admins}
}

// AdminIDs lists the configured moderators, for notification fan-out.
func (r *Rules) AdminIDs() []string {
	out := make([]string, 0, len(r.admins))
	for id := range r.admins {
		out = append(out, id)
	}
	return out
}

// IsAdmin reports whether userID belongs to the configured moderator set.
func (r *Rules) IsAdmin(userID string) bool {
	_, ok := r.admins[userID]
	return ok
}

// CanManage reports whether viewerID may edit or resubmit the event:
// moderators and the creator.
func (r *Rules) CanManage(viewerID string, ev *entities.Event) bool {
	return r.IsAdmin(viewerID) || ev.CreatedBy == viewerID
}

// IsVisible decides whether the event shows up in viewerID's listing.
// Managers see everything they manage regardless of status. Everyone else
// sees only approved events whose tags admit the viewer's track: an empty
// tag list and the legacy "all" sentinel both mean no restriction.
func (r *Rules) IsVisible(ev *entities.Event, viewerID string, profile *entities.Profile) bool {
	if r.CanManage(viewerID, ev) {
		return true
	}
	if ev.Status != entities.StatusApproved {
		return false
	}
	if len(ev.Tags) == 0 {
		return true
	}
	track := profile.Track()
	for _, tag := range ev.Tags {
		if tag == domain.TagAll || tag == track {
			return true
		}
	}
	return false
}
