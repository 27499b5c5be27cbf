package validator

import (
	"testing"

	"github.com/google/uuid"
)

type sampleInput struct {
	Name      string    `validate:"required"`
	ProductID uuid.UUID `validate:"uuid_required"`
	Qty       int       `validate:"gt=0"`
}

func TestValidateStructPasses(t *testing.T) {
	errs := ValidateStruct(&sampleInput{Name: "ok", ProductID: uuid.New(), Qty: 3})
	if len(errs) != 0 {
		t.Errorf("expected no errors, got %+v", errs)
	}
}

func TestValidateStructReportsFailures(t *testing.T) {
	errs := ValidateStruct(&sampleInput{Qty: 0})
	if len(errs) != 3 {
		t.Fatalf("error count = %d, want 3: %+v", len(errs), errs)
	}

	tags := map[string]string{}
	for _, e := range errs {
		tags[e.FailedField] = e.Tag
	}
	if tags["sampleInput.Name"] != "required" {
		t.Errorf("Name tag = %q, want required", tags["sampleInput.Name"])
	}
	if tags["sampleInput.ProductID"] != "uuid_required" {
		t.Errorf("ProductID tag = %q, want uuid_required", tags["sampleInput.ProductID"])
	}
	if tags["sampleInput.Qty"] != "gt" {
		t.Errorf("Qty tag = %q, want gt", tags["sampleInput.Qty"])
	}
}

func TestUUIDRequiredRejectsNilUUID(t *testing.T) {
	errs := ValidateStruct(&sampleInput{Name: "ok", ProductID: uuid.Nil, Qty: 1})
	if len(errs) != 1 {
		t.Fatalf("error count = %d, want 1: %+v", len(errs), errs)
	}
	if errs[0].Tag != "uuid_required" {
		t.Errorf("tag = %q, want uuid_required", errs[0].Tag)
	}
}
