package model

import "time"

// Metadata is the authorship stamp of journal rows.
type Metadata struct {
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	CreatedBy string    `db:"created_by" json:"created_by"`
}
