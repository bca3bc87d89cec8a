package models

import (
	"rsb/src/types"

	"github.com/google/uuid"
)

// Setting is a single-row table holding process-wide policy switches.
type Setting struct {
	ID                 uuid.UUID `gorm:"primarykey;type:uuid;default:gen_random_uuid()" json:"id"`
	AutoAcceptRequests bool      `gorm:"default:false" json:"auto_accept_requests"`

	types.Timestamps
}
