package models

import (
	"encoding/json"
	"testing"
)

func TestDonorUnmarshal_WillingDefaultsTrue(t *testing.T) {
	var d Donor
	if err := json.Unmarshal([]byte(`{"id":"d1","name":"Ana","blood_group":"O-"}`), &d); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !d.Willing {
		t.Error("Expected a donor without a willing flag to be willing")
	}
	if d.ID != "d1" || d.Name != "Ana" || d.BloodGroup != "O-" {
		t.Errorf("Unexpected donor fields: %+v", d)
	}
}

func TestDonorUnmarshal_ExplicitWilling(t *testing.T) {
	var d Donor
	if err := json.Unmarshal([]byte(`{"id":"d2","willing":false,"last_donation":"2025-01-01T00:00:00Z"}`), &d); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if d.Willing {
		t.Error("Expected willing:false to be kept")
	}
	if d.LastDonation == nil || d.LastDonation.Year() != 2025 {
		t.Errorf("Expected last donation to decode, got %v", d.LastDonation)
	}

	var backup Backup
	if err := json.Unmarshal([]byte(`{"donors":[{"id":"a"},{"id":"b","willing":false}],"requests":[]}`), &backup); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !backup.Donors[0].Willing || backup.Donors[1].Willing {
		t.Errorf("Expected willing [true false], got [%v %v]", backup.Donors[0].Willing, backup.Donors[1].Willing)
	}
}
