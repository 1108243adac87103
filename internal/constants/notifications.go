package constants

// Notification event types published on state transitions
const (
	NotifyItemApproved    = "ITEM_APPROVED"
	NotifyItemRejected    = "ITEM_REJECTED"
	NotifyItemRevision    = "ITEM_REVISION_REQUESTED"
	NotifyItemResubmitted = "ITEM_RESUBMITTED"
)

// NotifyChannelPrefix is the per-recipient Redis channel prefix.
const NotifyChannelPrefix = "labelboard:notify:"
