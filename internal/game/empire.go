// Package game holds the domain model the session automaton coordinates:
// empires, orders, the universe, and the pre-game setup data.
package game

import (
	"fmt"
	"sort"
)

// InvalidEmpireID marks an unset empire reference, e.g. a lobby player whose
// save-game empire choice was reset by a save-file change.
const InvalidEmpireID = -1

// Color is an RGBA empire color.
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

// EmpireColors returns the palette assigned to empires in join order.
func EmpireColors() []Color {
	return []Color{
		{0, 121, 64, 255},
		{143, 0, 0, 255},
		{0, 56, 148, 255},
		{212, 175, 55, 255},
		{130, 0, 130, 255},
		{64, 192, 193, 255},
	}
}

// Empire is one player's in-game faction.
type Empire struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	PlayerName string `json:"player_name"`
	Color      Color  `json:"color"`
}

// EmpireManager owns the empires participating in the current game.
type EmpireManager struct {
	empires map[int]*Empire
}

// NewEmpireManager creates an empty empire manager.
func NewEmpireManager() *EmpireManager {
	return &EmpireManager{empires: make(map[int]*Empire)}
}

// Insert registers an empire, replacing any previous empire with the same ID.
func (m *EmpireManager) Insert(e *Empire) error {
	if e == nil {
		return fmt.Errorf("empire is required")
	}
	if e.ID == InvalidEmpireID {
		return fmt.Errorf("empire id is unset")
	}
	m.empires[e.ID] = e
	return nil
}

// Lookup returns the empire with the given ID, or nil.
func (m *EmpireManager) Lookup(id int) *Empire {
	return m.empires[id]
}

// Remove drops the empire with the given ID, e.g. after elimination.
func (m *EmpireManager) Remove(id int) {
	delete(m.empires, id)
}

// RemoveAll drops every empire, e.g. before loading a different game.
func (m *EmpireManager) RemoveAll() {
	m.empires = make(map[int]*Empire)
}

// Len returns the number of registered empires.
func (m *EmpireManager) Len() int {
	return len(m.empires)
}

// IDs returns all empire IDs in ascending order.
func (m *EmpireManager) IDs() []int {
	ids := make([]int, 0, len(m.empires))
	for id := range m.empires {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
