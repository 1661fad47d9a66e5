package holder

// Kami is a transient creature owned by an account. It has no inventory
// and no location of its own; checks against those kinds resolve to zero
// for a kami holder. Owner may be nil when the kami is evaluated outside
// an account context.
type Kami struct {
	ID     string           `json:"id"`
	Name   string           `json:"name,omitempty"`
	Exp    int64            `json:"level,omitempty"`
	Skills map[uint32]int64 `json:"skills,omitempty"`
	Owner  *Account         `json:"-"`
}

var (
	_ Holder    = (*Kami)(nil)
	_ HasSkills = (*Kami)(nil)
	_ HasLevel  = (*Kami)(nil)
	_ HasKamis  = (*Kami)(nil)
)

func (k *Kami) HolderID() string {
	return k.ID
}

func (k *Kami) SkillLevel(index uint32) int64 {
	return k.Skills[index]
}

func (k *Kami) Level() int64 {
	return k.Exp
}

// KamiCount answers through the owning account so that kami-count
// conditions behave the same whichever shape they are evaluated against.
func (k *Kami) KamiCount() int64 {
	if k.Owner == nil {
		return 0
	}
	return k.Owner.KamiCount()
}
