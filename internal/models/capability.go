package models

// Capability says which pools a viewing key can see and which network it
// belongs to.
type Capability struct {
	Sapling     bool    `json:"sapling"`
	Orchard     bool    `json:"orchard"`
	Transparent bool    `json:"transparent"`
	Network     Network `json:"network"`
}

// CanView reports whether the key grants visibility into p.
func (c Capability) CanView(p Pool) bool {
	switch p {
	case PoolTransparent:
		return c.Transparent
	case PoolSapling:
		return c.Sapling
	case PoolOrchard:
		return c.Orchard
	}
	return false
}

// Pools returns the visible pools in scan order.
func (c Capability) Pools() []Pool {
	var out []Pool
	for _, p := range Pools {
		if c.CanView(p) {
			out = append(out, p)
		}
	}
	return out
}
