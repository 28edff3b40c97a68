package model

import "strings"

// TableStatus is the occupancy flag stored on a table.
type TableStatus string

const (
	TableEmpty    TableStatus = "empty"
	TableOccupied TableStatus = "occupied"
)

// LockedPrefix marks a table that is hidden from the floor plan.
const LockedPrefix = "[LOCKED] "

type TableFood struct {
	ID     int         `json:"id" db:"id"`
	Name   string      `json:"name" db:"name"`
	Status TableStatus `json:"status" db:"status"`
}

func (t TableFood) IsLocked() bool {
	return strings.HasPrefix(t.Name, LockedPrefix)
}
