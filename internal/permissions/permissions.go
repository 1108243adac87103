package permissions

import (
	"strings"

	"aerosafety/labelboard/internal/constants"
	gormModels "aerosafety/labelboard/internal/models/gorm"
)

// Capability is a mutating action a role may perform. Reads need no capability;
// any authenticated user may read.
type Capability string

const (
	CapCreate Capability = "create"
	CapEdit   Capability = "edit"
	CapDelete Capability = "delete"
	CapReview Capability = "review"
)

// roleCapabilities is the explicit role table; CapabilitiesFor derives from it
// instead of any registry assembled at init time.
var roleCapabilities = map[constants.Role][]Capability{
	constants.RoleAdmin:      {CapCreate, CapEdit, CapDelete, CapReview},
	constants.RoleAnnotator:  {CapCreate, CapEdit, CapDelete},
	constants.RoleManager:    {},
	constants.RoleResearcher: {},
}

// ResolveRole maps a user to a role. Superusers are always admins; otherwise
// the role attribute is lowercased and validated against the allow-list, with
// anything unknown or unset falling back to annotator.
func ResolveRole(user *gormModels.User) constants.Role {
	if user == nil {
		return constants.RoleAnnotator
	}
	if user.IsSuperuser {
		return constants.RoleAdmin
	}

	role := constants.Role(strings.ToLower(strings.TrimSpace(user.Role)))
	if _, ok := constants.ValidRoles[role]; ok {
		return role
	}
	return constants.RoleAnnotator
}

// CapabilitiesFor returns the capability set for a role.
func CapabilitiesFor(role constants.Role) map[Capability]struct{} {
	caps := make(map[Capability]struct{}, len(roleCapabilities[role]))
	for _, c := range roleCapabilities[role] {
		caps[c] = struct{}{}
	}
	return caps
}

// Decision is the outcome of a capability check. Reason is a user-facing,
// situation-specific message set only on denial.
type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision             { return Decision{Allowed: true} }
func deny(reason string) Decision { return Decision{Reason: reason} }

func owns(user *gormModels.User, item *gormModels.LabelingItem) bool {
	return item.CreatedByID != nil && user != nil && *item.CreatedByID == user.ID
}

// CanEdit checks whether user may mutate item.
func CanEdit(user *gormModels.User, item *gormModels.LabelingItem) Decision {
	role := ResolveRole(user)
	if role == constants.RoleAdmin {
		return allow()
	}
	if role.ReadOnly() {
		return deny(constants.MsgReadOnlyRole)
	}

	if !owns(user, item) {
		return deny(constants.MsgEditNotOwner)
	}

	switch item.Status {
	case constants.ItemStatusDraft, constants.ItemStatusReviewed:
		return allow()
	case constants.ItemStatusSubmitted:
		return deny(constants.MsgEditSubmitted)
	case constants.ItemStatusApproved:
		return deny(constants.MsgEditApproved)
	}
	return deny(constants.MsgEditSubmitted)
}

// CanDelete checks whether user may remove item.
func CanDelete(user *gormModels.User, item *gormModels.LabelingItem) Decision {
	role := ResolveRole(user)
	if role == constants.RoleAdmin {
		return allow()
	}
	if role.ReadOnly() {
		return deny(constants.MsgReadOnlyRole)
	}

	if !owns(user, item) {
		return deny(constants.MsgDeleteNotOwner)
	}
	if item.Status != constants.ItemStatusDraft {
		return deny(constants.MsgDeleteNotDraft)
	}
	return allow()
}

// CanCreate checks whether user may create labeling items.
func CanCreate(user *gormModels.User) Decision {
	role := ResolveRole(user)
	if role.ReadOnly() {
		return deny(constants.MsgCreateReadOnlyRole)
	}
	return allow()
}

// CanReview reports whether the role can author review decisions.
func CanReview(role constants.Role) bool {
	_, ok := CapabilitiesFor(role)[CapReview]
	return ok
}
