package models

import (
	"strings"
	"time"
)

// LeadRecord is a captured pre-order. ID is assigned by whichever store accepted it first.
type LeadRecord struct {
	ID             string    `bson:"_id" json:"id"`
	DisplayName    string    `bson:"nome" json:"nome"`
	CanonicalPhone string    `bson:"telefone" json:"telefone"`
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`

	// Source is "remote" or "local"; not stored.
	Source string `bson:"-" json:"source,omitempty"`
}

const (
	SourceRemote = "remote"
	SourceLocal  = "local"
)

// FirstName returns the first word of the display name, used in greetings.
func (l LeadRecord) FirstName() string {
	fields := strings.Fields(l.DisplayName)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
