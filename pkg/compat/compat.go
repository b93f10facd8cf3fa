package compat

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidArgument is returned for blood groups or dates outside the accepted domain
var ErrInvalidArgument = errors.New("invalid argument")

// BloodGroup is an ABO/Rh blood group tag
type BloodGroup string

const (
	ONeg  BloodGroup = "O-"
	OPos  BloodGroup = "O+"
	ANeg  BloodGroup = "A-"
	APos  BloodGroup = "A+"
	BNeg  BloodGroup = "B-"
	BPos  BloodGroup = "B+"
	ABNeg BloodGroup = "AB-"
	ABPos BloodGroup = "AB+"
)

// BloodGroups lists every valid group in display order
var BloodGroups = []BloodGroup{ONeg, OPos, ANeg, APos, BNeg, BPos, ABNeg, ABPos}

// Recipient -> acceptable donor groups (red cell compatibility).
var compatTable = map[BloodGroup][]BloodGroup{
	ONeg:  {ONeg},
	OPos:  {ONeg, OPos},
	ANeg:  {ONeg, ANeg},
	APos:  {ONeg, OPos, ANeg, APos},
	BNeg:  {ONeg, BNeg},
	BPos:  {ONeg, OPos, BNeg, BPos},
	ABNeg: {ONeg, ANeg, BNeg, ABNeg},
	ABPos: {ONeg, OPos, ANeg, APos, BNeg, BPos, ABNeg, ABPos},
}

// Valid reports whether g is one of the eight blood groups
func (g BloodGroup) Valid() bool {
	_, ok := compatTable[g]
	return ok
}

func (g BloodGroup) String() string {
	return string(g)
}

// ParseBloodGroup converts user input such as "ab+" into a BloodGroup
func ParseBloodGroup(s string) (BloodGroup, error) {
	g := BloodGroup(strings.ToUpper(strings.TrimSpace(s)))
	if !g.Valid() {
		return "", fmt.Errorf("%w: unknown blood group %q", ErrInvalidArgument, s)
	}
	return g, nil
}

// IsCompatible reports whether blood from donor can be given to recipient
func IsCompatible(donor, recipient BloodGroup) (bool, error) {
	if !donor.Valid() {
		return false, fmt.Errorf("%w: unknown donor blood group %q", ErrInvalidArgument, donor)
	}
	accepted, ok := compatTable[recipient]
	if !ok {
		return false, fmt.Errorf("%w: unknown recipient blood group %q", ErrInvalidArgument, recipient)
	}
	for _, g := range accepted {
		if g == donor {
			return true, nil
		}
	}
	return false, nil
}

// AcceptableDonors returns the donor groups a recipient can receive from
func AcceptableDonors(recipient BloodGroup) ([]BloodGroup, error) {
	accepted, ok := compatTable[recipient]
	if !ok {
		return nil, fmt.Errorf("%w: unknown recipient blood group %q", ErrInvalidArgument, recipient)
	}
	out := make([]BloodGroup, len(accepted))
	copy(out, accepted)
	return out, nil
}

// CompatibleRecipients returns the recipient groups a donor can give to, in display order
func CompatibleRecipients(donor BloodGroup) ([]BloodGroup, error) {
	if !donor.Valid() {
		return nil, fmt.Errorf("%w: unknown donor blood group %q", ErrInvalidArgument, donor)
	}
	var out []BloodGroup
	for _, recipient := range BloodGroups {
		if ok, _ := IsCompatible(donor, recipient); ok {
			out = append(out, recipient)
		}
	}
	return out, nil
}
