package compat

import (
	"errors"
	"testing"
)

func TestIsCompatible_AllPairs(t *testing.T) {
	// recipient -> donor -> expected
	expected := map[BloodGroup]map[BloodGroup]bool{
		ONeg:  {ONeg: true},
		OPos:  {ONeg: true, OPos: true},
		ANeg:  {ONeg: true, ANeg: true},
		APos:  {ONeg: true, OPos: true, ANeg: true, APos: true},
		BNeg:  {ONeg: true, BNeg: true},
		BPos:  {ONeg: true, OPos: true, BNeg: true, BPos: true},
		ABNeg: {ONeg: true, ANeg: true, BNeg: true, ABNeg: true},
		ABPos: {ONeg: true, OPos: true, ANeg: true, APos: true, BNeg: true, BPos: true, ABNeg: true, ABPos: true},
	}

	checked := 0
	for _, recipient := range BloodGroups {
		for _, donor := range BloodGroups {
			got, err := IsCompatible(donor, recipient)
			if err != nil {
				t.Fatalf("IsCompatible(%s, %s) returned error: %v", donor, recipient, err)
			}
			want := expected[recipient][donor]
			if got != want {
				t.Errorf("IsCompatible(%s, %s) = %v, want %v", donor, recipient, got, want)
			}
			checked++
		}
	}
	if checked != 64 {
		t.Errorf("Expected 64 combinations, checked %d", checked)
	}
}

func TestIsCompatible_KnownPairs(t *testing.T) {
	cases := []struct {
		donor, recipient BloodGroup
		want             bool
	}{
		{ABPos, ONeg, false},
		{ONeg, ABPos, true},
		{APos, ANeg, false},
		{ANeg, APos, true},
		{APos, ABNeg, false},
		{BPos, ABNeg, false},
	}
	for _, tc := range cases {
		got, _ := IsCompatible(tc.donor, tc.recipient)
		if got != tc.want {
			t.Errorf("IsCompatible(%s, %s) = %v, want %v", tc.donor, tc.recipient, got, tc.want)
		}
	}
}

func TestIsCompatible_UniversalDonorAndRecipient(t *testing.T) {
	for _, g := range BloodGroups {
		if ok, _ := IsCompatible(ONeg, g); !ok {
			t.Errorf("Expected O- to donate to %s", g)
		}
		if ok, _ := IsCompatible(g, ABPos); !ok {
			t.Errorf("Expected AB+ to receive from %s", g)
		}
		if ok, _ := IsCompatible(g, g); !ok {
			t.Errorf("Expected %s to donate to itself", g)
		}
	}
}

func TestIsCompatible_InvalidGroup(t *testing.T) {
	if _, err := IsCompatible("C+", ONeg); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument for bad donor, got %v", err)
	}
	if _, err := IsCompatible(ONeg, "0-"); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument for bad recipient, got %v", err)
	}
}

func TestScanDonorPoolForABNegative(t *testing.T) {
	pool := []BloodGroup{OPos, ANeg, ABNeg, BPos}

	var matched []BloodGroup
	for _, g := range pool {
		if ok, _ := IsCompatible(g, ABNeg); ok {
			matched = append(matched, g)
		}
	}

	if len(matched) != 2 || matched[0] != ANeg || matched[1] != ABNeg {
		t.Errorf("Expected [A- AB-], got %v", matched)
	}
}

func TestParseBloodGroup(t *testing.T) {
	g, err := ParseBloodGroup(" ab+ ")
	if err != nil || g != ABPos {
		t.Errorf("Expected AB+, got %q (%v)", g, err)
	}

	for _, bad := range []string{"", "AB", "O", "A+-", "positive"} {
		if _, err := ParseBloodGroup(bad); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("ParseBloodGroup(%q) expected ErrInvalidArgument, got %v", bad, err)
		}
	}
}

func TestAcceptableDonorsReturnsCopy(t *testing.T) {
	donors, err := AcceptableDonors(ONeg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	donors[0] = ABPos

	again, _ := AcceptableDonors(ONeg)
	if again[0] != ONeg {
		t.Errorf("Mutating the result changed the table: %v", again)
	}
}

func TestCompatibleRecipients(t *testing.T) {
	got, err := CompatibleRecipients(ANeg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []BloodGroup{ANeg, APos, ABNeg, ABPos}
	if len(got) != len(want) {
		t.Fatalf("Expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Expected %v, got %v", want, got)
		}
	}

	all, _ := CompatibleRecipients(ONeg)
	if len(all) != 8 {
		t.Errorf("Expected O- to reach all 8 groups, got %v", all)
	}
}
