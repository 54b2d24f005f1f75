package physics

import (
	"fmt"
	"strings"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

// LawKind selects the central force acting on the orbiting body.
type LawKind int

const (
	Newtonian LawKind = iota
	ModifiedPower
	Relativistic
	Coulomb
)

var lawNames = map[LawKind]string{
	Newtonian:     "newtonian",
	ModifiedPower: "modified",
	Relativistic:  "relativistic",
	Coulomb:       "coulomb",
}

var lawAliases = map[string]LawKind{
	"newtonian":      Newtonian,
	"newton":         Newtonian,
	"modified":       ModifiedPower,
	"modified-power": ModifiedPower,
	"modifiedpower":  ModifiedPower,
	"power":          ModifiedPower,
	"relativistic":   Relativistic,
	"gr":             Relativistic,
	"coulomb":        Coulomb,
}

// Laws lists the supported force laws in selector order.
func Laws() []LawKind {
	return []LawKind{Newtonian, ModifiedPower, Relativistic, Coulomb}
}

func (k LawKind) String() string {
	if name, ok := lawNames[k]; ok {
		return name
	}
	return fmt.Sprintf("law(%d)", int(k))
}

// Valid reports whether k names one of the four supported laws.
func (k LawKind) Valid() bool {
	_, ok := lawNames[k]
	return ok
}

// Next cycles through the supported laws.
func (k LawKind) Next() LawKind {
	laws := Laws()
	for i, l := range laws {
		if l == k {
			return laws[(i+1)%len(laws)]
		}
	}
	return Newtonian
}

func ParseLaw(name string) (LawKind, error) {
	k, ok := lawAliases[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", dynamo.ErrUnknownLaw, name)
	}
	return k, nil
}

func (k LawKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *LawKind) UnmarshalText(text []byte) error {
	parsed, err := ParseLaw(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
