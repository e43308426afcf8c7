package deps

import "testing"

func TestCheckBinariesFindsShell(t *testing.T) {
	statuses := CheckBinaries([]Requirement{
		{Name: "Shell", Command: "sh", Description: "always present on test hosts"},
	})
	if len(statuses) != 1 {
		t.Fatalf("got %d statuses", len(statuses))
	}
	if !statuses[0].Available {
		t.Fatalf("sh reported unavailable: %s", statuses[0].Detail)
	}
}

func TestCheckBinariesMissing(t *testing.T) {
	statuses := CheckBinaries([]Requirement{
		{Name: "Ghost", Command: "definitely-not-a-real-binary-name"},
		{Name: "Unset", Command: "  "},
	})
	for _, status := range statuses {
		if status.Available {
			t.Errorf("%s reported available", status.Name)
		}
		if status.Detail == "" {
			t.Errorf("%s has no detail", status.Name)
		}
	}
}

func TestMissingRequired(t *testing.T) {
	statuses := []Status{
		{Name: "A", Available: true},
		{Name: "B", Available: false, Optional: true},
		{Name: "C", Available: false},
	}
	missing := MissingRequired(statuses)
	if len(missing) != 1 || missing[0].Name != "C" {
		t.Fatalf("missing = %+v", missing)
	}
}
