package players

// Player is a roster entry. CreatedAt is epoch milliseconds.
type Player struct {
	ID        string `json:"id"`
	Number    int    `json:"number"`
	Name      string `json:"name"`
	CreatedAt int64  `json:"createdAt"`
}

// Patch carries optional player field updates.
type Patch struct {
	Number *int
	Name   *string
}

// Apply returns a copy of p with the patch fields applied.
func (pt Patch) Apply(p Player) Player {
	if pt.Number != nil {
		p.Number = *pt.Number
	}
	if pt.Name != nil {
		p.Name = *pt.Name
	}
	return p
}
