package utils

import "github.com/google/uuid"

// UUIDGenerator issues session identifiers. Version 7 ids sort by creation
// time, which keeps log lines of consecutive scans in order.
type UUIDGenerator struct {
}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

// Generate returns a new v7 id, falling back to v4 if the clock source fails.
func (g *UUIDGenerator) Generate() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}
