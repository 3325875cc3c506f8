package models

import (
	"github.com/google/uuid"
)

// ensureID fills a missing primary key so inserts work without the Postgres
// gen_random_uuid() default (sqlite in tests).
func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}
