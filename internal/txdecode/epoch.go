package txdecode

import "fmt"

// Epoch is a network upgrade whose consensus branch id selects the
// transaction serialization rules.
type Epoch struct {
	Name     string
	BranchID uint32
	// V5 is set for epochs that accept the v5 transaction format.
	V5 bool
}

func (e Epoch) String() string {
	return fmt.Sprintf("%s(0x%08x)", e.Name, e.BranchID)
}

var (
	NU6       = Epoch{Name: "nu6", BranchID: 0xC8E71055, V5: true}
	NU5       = Epoch{Name: "nu5", BranchID: 0xC2D6D0B4, V5: true}
	Canopy    = Epoch{Name: "canopy", BranchID: 0xE9FF75A6}
	Heartwood = Epoch{Name: "heartwood", BranchID: 0xF5B9230B}
)

// Epochs lists the supported epochs newest first, which is the order Decode
// tries them in.
var Epochs = []Epoch{NU6, NU5, Canopy, Heartwood}

const (
	overwinterFlag = 1 << 31

	saplingVersionGroupID = 0x892F2085
	v5VersionGroupID      = 0x26A7270A
)
