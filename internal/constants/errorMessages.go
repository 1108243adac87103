package constants

// Permission denial reasons. These exact strings surface in API error
// payloads, keyed by role and item status.
const (
	MsgReadOnlyRole       = "Managers and researchers have read-only access"
	MsgCreateReadOnlyRole = "Managers and researchers cannot create labeling items"
	MsgEditNotOwner       = "Only the annotator who created this item can edit it"
	MsgEditSubmitted      = "Item is under review and cannot be edited until a decision is returned"
	MsgEditApproved       = "Item has been approved and is locked"
	MsgDeleteNotOwner     = "Only the annotator who created this item can delete it"
	MsgDeleteNotDraft     = "Only draft items can be deleted"
)

const (
	MsgApproveWrongState = "Only submitted items can be approved"
	MsgResubmitNotOwner  = "Only the item's creator can resubmit it"
	MsgFeedbackRequired  = "at least one field feedback entry is required"
)
