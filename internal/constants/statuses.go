package constants

import (
	"database/sql/driver"
	"fmt"
)

// ItemStatus is the lifecycle state of a labeling item.
// draft -> submitted -> reviewed -> (submitted | approved); approved is terminal.
type ItemStatus string

const (
	ItemStatusDraft     ItemStatus = "draft"
	ItemStatusSubmitted ItemStatus = "submitted"
	ItemStatusReviewed  ItemStatus = "reviewed"
	ItemStatusApproved  ItemStatus = "approved"
)

func (s ItemStatus) String() string { return string(s) }

// Scan implements the sql.Scanner interface
func (s *ItemStatus) Scan(src interface{}) error {
	if src == nil {
		*s = ""
		return nil
	}
	switch v := src.(type) {
	case string:
		*s = ItemStatus(v)
	case []byte:
		*s = ItemStatus(v)
	default:
		return fmt.Errorf("ItemStatus: cannot scan type %T", src)
	}
	return nil
}

// Value implements the driver.Valuer interface
func (s ItemStatus) Value() (driver.Value, error) { return string(s), nil }

// DecisionStatus is the outcome recorded on a review decision.
type DecisionStatus string

const (
	DecisionApproved          DecisionStatus = "approved"
	DecisionRejectedPartial   DecisionStatus = "rejected_partial"
	DecisionRejectedFull      DecisionStatus = "rejected_full"
	DecisionRevisionRequested DecisionStatus = "revision_requested"
)

func (s DecisionStatus) String() string { return string(s) }

// FeedbackType classifies a field-level critique.
type FeedbackType string

const (
	FeedbackPartial  FeedbackType = "partial"
	FeedbackFull     FeedbackType = "full"
	FeedbackRevision FeedbackType = "revision"
)

var ValidFeedbackTypes = map[FeedbackType]struct{}{
	FeedbackPartial:  {},
	FeedbackFull:     {},
	FeedbackRevision: {},
}

// ReviewableFields is the fixed set of item fields a reviewer may flag.
var ReviewableFields = map[string]struct{}{
	"threat_type_l1":        {},
	"threat_type_l2":        {},
	"threat_type_l3":        {},
	"error_type_l1":         {},
	"error_type_l2":         {},
	"error_type_l3":         {},
	"uas_type_l1":           {},
	"uas_type_l2":           {},
	"uas_type_l3":           {},
	"threat_management":     {},
	"error_management":      {},
	"uas_management":        {},
	"threat_coping_ability": {},
	"error_coping_ability":  {},
	"uas_coping_ability":    {},
	"impact":                {},
	"description":           {},
	"notes":                 {},
}

// TopicTriggerFields are the level-3 selections whose change re-fires the
// training-topic calculation. Changing only the computed topic columns must not.
var TopicTriggerFields = map[string]struct{}{
	"threat_type_l3": {},
	"error_type_l3":  {},
	"uas_type_l3":    {},
}

// ComputedTopicFields are written back by the calculator via a targeted update.
var ComputedTopicFields = []string{"threat_topics", "error_topics", "uas_topics"}
