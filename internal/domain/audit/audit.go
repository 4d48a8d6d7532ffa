// Package audit holds the provenance fields stamped on every migrated document.
package audit

import "time"

// MigrationUser is recorded as creator and modifier of migrated documents.
const MigrationUser = "DATA_MIGRATION"

type Fields struct {
	CreatedBy        string    `json:"createdBy"`
	CreatedDateTime  time.Time `json:"createdDateTime"`
	ModifiedBy       string    `json:"modifiedBy"`
	ModifiedDateTime time.Time `json:"modifiedDateTime"`
}

// Migration returns audit fields attributed to the migration user at t.
func Migration(t time.Time) Fields {
	t = t.UTC()
	return Fields{
		CreatedBy:        MigrationUser,
		CreatedDateTime:  t,
		ModifiedBy:       MigrationUser,
		ModifiedDateTime: t,
	}
}
