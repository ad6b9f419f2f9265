package game

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Order is one client-issued action for the current turn.
//
// IssuedBy reports the empire the order claims to act for; the server
// validates it against the sending player's empire before execution.
type Order interface {
	IssuedBy() int
	Apply(u *Universe) error
}

// FleetMoveOrder sends a fleet object toward a destination system.
type FleetMoveOrder struct {
	EmpireID      int `json:"empire_id"`
	FleetID       int `json:"fleet_id"`
	DestinationID int `json:"destination_id"`
}

// IssuedBy returns the issuing empire ID.
func (o FleetMoveOrder) IssuedBy() int { return o.EmpireID }

// Apply moves the fleet if both objects exist and the fleet belongs to the issuer.
func (o FleetMoveOrder) Apply(u *Universe) error {
	fleet := u.Object(o.FleetID)
	if fleet == nil {
		return fmt.Errorf("fleet %d does not exist", o.FleetID)
	}
	if fleet.Owner != o.EmpireID {
		return fmt.Errorf("fleet %d is not owned by empire %d", o.FleetID, o.EmpireID)
	}
	if u.Object(o.DestinationID) == nil {
		return fmt.Errorf("destination %d does not exist", o.DestinationID)
	}
	fleet.SystemID = o.DestinationID
	return nil
}

// RenameOrder renames an object owned by the issuing empire.
type RenameOrder struct {
	EmpireID int    `json:"empire_id"`
	ObjectID int    `json:"object_id"`
	Name     string `json:"name"`
}

// IssuedBy returns the issuing empire ID.
func (o RenameOrder) IssuedBy() int { return o.EmpireID }

// Apply renames the object if it exists and belongs to the issuer.
func (o RenameOrder) Apply(u *Universe) error {
	obj := u.Object(o.ObjectID)
	if obj == nil {
		return fmt.Errorf("object %d does not exist", o.ObjectID)
	}
	if obj.Owner != o.EmpireID {
		return fmt.Errorf("object %d is not owned by empire %d", o.ObjectID, o.EmpireID)
	}
	obj.Name = o.Name
	return nil
}

// Order kinds used by the wire and save encodings.
const (
	orderKindFleetMove = "fleet_move"
	orderKindRename    = "rename"
)

type orderEnvelope struct {
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data"`
}

// OrderSet maps order identifiers to orders for one empire's turn.
type OrderSet map[int]Order

// MarshalJSON encodes orders in kind-tagged envelopes keyed by order ID.
func (s OrderSet) MarshalJSON() ([]byte, error) {
	encoded := make(map[string]orderEnvelope, len(s))
	for id, order := range s {
		var kind string
		switch order.(type) {
		case FleetMoveOrder:
			kind = orderKindFleetMove
		case RenameOrder:
			kind = orderKindRename
		default:
			return nil, fmt.Errorf("order %d has unknown type %T", id, order)
		}
		data, err := json.Marshal(order)
		if err != nil {
			return nil, fmt.Errorf("marshal order %d: %w", id, err)
		}
		encoded[fmt.Sprint(id)] = orderEnvelope{Kind: kind, Data: data}
	}
	return json.Marshal(encoded)
}

// UnmarshalJSON decodes kind-tagged order envelopes.
func (s *OrderSet) UnmarshalJSON(data []byte) error {
	var encoded map[string]orderEnvelope
	if err := json.Unmarshal(data, &encoded); err != nil {
		return err
	}
	decoded := make(OrderSet, len(encoded))
	for key, envelope := range encoded {
		var id int
		if _, err := fmt.Sscanf(key, "%d", &id); err != nil {
			return fmt.Errorf("order id %q: %w", key, err)
		}
		switch envelope.Kind {
		case orderKindFleetMove:
			var order FleetMoveOrder
			if err := json.Unmarshal(envelope.Data, &order); err != nil {
				return fmt.Errorf("unmarshal order %d: %w", id, err)
			}
			decoded[id] = order
		case orderKindRename:
			var order RenameOrder
			if err := json.Unmarshal(envelope.Data, &order); err != nil {
				return fmt.Errorf("unmarshal order %d: %w", id, err)
			}
			decoded[id] = order
		default:
			return fmt.Errorf("order %d has unknown kind %q", id, envelope.Kind)
		}
	}
	*s = decoded
	return nil
}

// IDs returns the order identifiers in ascending order.
func (s OrderSet) IDs() []int {
	ids := make([]int, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
