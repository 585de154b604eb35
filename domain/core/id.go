package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	UploadID ID
	PanelID  ID
)

func (id UploadID) String() string { return ID(id).String() }
func (id PanelID) String() string  { return ID(id).String() }

// NewUploadID returns a fresh upload identifier
func NewUploadID() UploadID { return UploadID(NewID()) }

// NewPanelID returns a fresh panel generation identifier
func NewPanelID() PanelID { return PanelID(NewID()) }

// ParseUploadID parses a string into UploadID
func ParseUploadID(s string) (UploadID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("upload ID cannot be empty")
	}
	if _, err := uuid.Parse(s); err != nil {
		return "", fmt.Errorf("upload ID %q is not a UUID: %w", s, err)
	}
	return UploadID(s), nil
}
