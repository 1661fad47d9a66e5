package holder

// Account is the persistent participant identity. It is a read view:
// all mutation happens in the surrounding game-action layer.
type Account struct {
	ID        string           `json:"id"`
	Name      string           `json:"name,omitempty"`
	Room      uint32           `json:"room,omitempty"`      // current location index
	Exp       int64            `json:"level,omitempty"`     // account level
	Inventory map[uint32]int64 `json:"inventory,omitempty"` // item index -> balance
	Skills    map[uint32]int64 `json:"skills,omitempty"`    // skill index -> level
	Quests    map[uint32]bool  `json:"quests,omitempty"`    // quest index -> completed
	Kamis     []string         `json:"kamis,omitempty"`     // ids of owned kami
}

var (
	_ Holder       = (*Account)(nil)
	_ HasInventory = (*Account)(nil)
	_ HasSkills    = (*Account)(nil)
	_ HasLocation  = (*Account)(nil)
	_ HasLevel     = (*Account)(nil)
	_ HasKamis     = (*Account)(nil)
	_ HasQuestLog  = (*Account)(nil)
)

func (a *Account) HolderID() string {
	return a.ID
}

func (a *Account) ItemBalance(index uint32) int64 {
	return a.Inventory[index]
}

func (a *Account) SkillLevel(index uint32) int64 {
	return a.Skills[index]
}

func (a *Account) RoomIndex() uint32 {
	return a.Room
}

func (a *Account) Level() int64 {
	return a.Exp
}

func (a *Account) KamiCount() int64 {
	return int64(len(a.Kamis))
}

func (a *Account) QuestCompleted(index uint32) bool {
	return a.Quests[index]
}
