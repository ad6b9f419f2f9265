package game

import (
	"fmt"
	"math/rand"
)

// ObjectKind classifies a universe object.
type ObjectKind string

const (
	ObjectSystem ObjectKind = "system"
	ObjectPlanet ObjectKind = "planet"
	ObjectFleet  ObjectKind = "fleet"
)

// NoOwner marks an object not owned by any empire.
const NoOwner = -1

// Object is one entry in the universe object table.
type Object struct {
	ID       int        `json:"id"`
	Kind     ObjectKind `json:"kind"`
	Name     string     `json:"name"`
	Owner    int        `json:"owner"`
	SystemID int        `json:"system_id"`
}

// Universe is the simulated game world: an object table plus the allocator
// that hands out unique object identifiers to clients.
type Universe struct {
	Objects      map[int]*Object `json:"objects"`
	LastObjectID int             `json:"last_object_id"`
}

// NewUniverse creates an empty universe.
func NewUniverse() *Universe {
	return &Universe{Objects: make(map[int]*Object)}
}

// GenerateObjectID allocates the next unique object identifier.
func (u *Universe) GenerateObjectID() int {
	u.LastObjectID++
	return u.LastObjectID
}

// Object returns the object with the given ID, or nil.
func (u *Universe) Object(id int) *Object {
	return u.Objects[id]
}

// OwnedObjectCount returns how many objects the empire still owns. An empire
// that owns nothing has been eliminated.
func (u *Universe) OwnedObjectCount(empireID int) int {
	n := 0
	for _, obj := range u.Objects {
		if obj.Owner == empireID {
			n++
		}
	}
	return n
}

// insert registers an object under a freshly allocated ID and returns it.
func (u *Universe) insert(kind ObjectKind, name string, owner, systemID int) *Object {
	obj := &Object{
		ID:       u.GenerateObjectID(),
		Kind:     kind,
		Name:     name,
		Owner:    owner,
		SystemID: systemID,
	}
	u.Objects[obj.ID] = obj
	return obj
}

// Generate populates the universe from galaxy setup parameters and gives each
// empire a home system, a home planet, and a starting fleet.
func (u *Universe) Generate(setup GalaxySetup, empires []*Empire) error {
	systems := setup.Size.SystemCount()
	if systems < len(empires) {
		return fmt.Errorf("galaxy size %s has %d systems for %d empires", setup.Size, systems, len(empires))
	}

	rng := rand.New(rand.NewSource(setup.Seed))
	systemIDs := make([]int, 0, systems)
	for i := 0; i < systems; i++ {
		sys := u.insert(ObjectSystem, fmt.Sprintf("System %d", i+1), NoOwner, 0)
		sys.SystemID = sys.ID
		systemIDs = append(systemIDs, sys.ID)
	}

	// Spread homeworlds over distinct systems.
	perm := rng.Perm(systems)
	for i, empire := range empires {
		home := systemIDs[perm[i]]
		u.Objects[home].Owner = empire.ID
		u.insert(ObjectPlanet, empire.Name+" Prime", empire.ID, home)
		u.insert(ObjectFleet, empire.Name+" Battle Fleet", empire.ID, home)
	}
	return nil
}

// ApplyOrders executes every order in the set in ascending order-ID sequence.
func (u *Universe) ApplyOrders(orders OrderSet) error {
	for _, id := range orders.IDs() {
		if err := orders[id].Apply(u); err != nil {
			return fmt.Errorf("apply order %d: %w", id, err)
		}
	}
	return nil
}
