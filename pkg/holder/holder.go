// Package holder defines the entities a condition can be evaluated
// against. Two shapes occupy the role: a persistent Account and a
// transient Kami owned by an account. The quantity resolver discovers
// what a shape can answer through the capability interfaces below
// rather than probing concrete types.
package holder

// Holder is the polymorphic role a condition is evaluated against.
type Holder interface {
	// HolderID is the stable identifier used as the key into counters
	// and snapshots.
	HolderID() string
}

// HasInventory is implemented by shapes that hold item balances.
type HasInventory interface {
	ItemBalance(index uint32) int64
}

// HasSkills is implemented by shapes that hold skill levels.
type HasSkills interface {
	SkillLevel(index uint32) int64
}

// HasLocation is implemented by shapes with a position in the world.
type HasLocation interface {
	RoomIndex() uint32
}

// HasLevel is implemented by shapes with an experience level.
type HasLevel interface {
	Level() int64
}

// HasKamis is implemented by shapes that can answer how many kami the
// owning account holds.
type HasKamis interface {
	KamiCount() int64
}

// HasQuestLog is implemented by shapes with a record of completed quests.
type HasQuestLog interface {
	QuestCompleted(index uint32) bool
}
