package constants

const (
	// ItemStatusRollup counts items per status for a project in one pass.
	ItemStatusRollup = `
	SELECT li.status, COUNT(*) AS count
	FROM labeling_items li
	JOIN aviation_events ev ON ev.id = li.event_id
	WHERE ev.project_id = $1
	GROUP BY li.status
	`
)
