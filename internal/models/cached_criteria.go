package models

import "time"

// CachedCriteria is one row of the criteria cache. The trimmed question
// text is the primary key; CriteriaJSON holds the serialized SearchCriteria.
type CachedCriteria struct {
	Question     string    `db:"question"`
	CriteriaJSON string    `db:"criteria_json"`
	CreatedAt    time.Time `db:"created_at"`
}
