package domain

import (
	"encoding/json"
	"testing"
)

func TestDefaultName(t *testing.T) {
	if got := DefaultName("John"); got != "John's Organisation" {
		t.Errorf("DefaultName = %q", got)
	}
}

func TestOrg_ViewDescriptionNull(t *testing.T) {
	o := &Org{ID: "o1", Name: "Acme"}
	b, err := json.Marshal(o.View())
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(b) != `{"orgId":"o1","name":"Acme","description":null}` {
		t.Errorf("View JSON = %s", b)
	}
}

func TestOrg_Validate(t *testing.T) {
	if err := (&Org{ID: "o1", Name: " "}).Validate(); err == nil {
		t.Error("blank name should fail")
	}
	if err := (&Org{Name: "Acme"}).Validate(); err == nil {
		t.Error("missing id should fail")
	}
	if err := (&Org{ID: "o1", Name: "Acme"}).Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}
