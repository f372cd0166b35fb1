package validate_test

import (
	"testing"

	"github.com/shashiranjanraj/kirana/pkg/validate"
)

type registerInput struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Phone    string `json:"phone"    validate:"required"`
	Answer   string `json:"answer"   validate:"required"`
}

func TestValidInput(t *testing.T) {
	errs := validate.Struct(registerInput{
		Name:     "Asha",
		Email:    "asha@example.com",
		Password: "secret123",
		Phone:    "9876543210",
		Answer:   "blue",
	})
	if validate.HasErrors(errs) {
		t.Errorf("expected no errors, got: %v", errs)
	}
}

func TestRequiredFails(t *testing.T) {
	errs := validate.Struct(registerInput{})
	if !validate.HasErrors(errs) {
		t.Fatal("expected required errors")
	}
	for _, field := range []string{"name", "email", "password", "phone", "answer"} {
		if _, ok := errs[field]; !ok {
			t.Errorf("expected %s to be required", field)
		}
	}
}

func TestEmailRule(t *testing.T) {
	type in struct {
		Email string `json:"email" validate:"required,email"`
	}
	errs := validate.Struct(in{Email: "not-an-email"})
	if _, ok := errs["email"]; !ok {
		t.Error("expected email validation error")
	}
	errs = validate.Struct(in{Email: "valid@example.com"})
	if validate.HasErrors(errs) {
		t.Errorf("expected no errors, got: %v", errs)
	}
}

func TestMinLengthOnStrings(t *testing.T) {
	type in struct {
		Password string `json:"newPassword" validate:"required,min=6"`
	}
	errs := validate.Struct(in{Password: "short"})
	if _, ok := errs["newPassword"]; !ok {
		t.Error("expected min length error")
	}
	errs = validate.Struct(in{Password: "longer"})
	if validate.HasErrors(errs) {
		t.Errorf("expected no errors, got: %v", errs)
	}
}

func TestInRuleWithCommasInOptions(t *testing.T) {
	type in struct {
		Status string `json:"status" validate:"required,in=Not Processed,Processing,Shipped,Delivered,Cancelled"`
	}

	for _, status := range []string{"Not Processed", "Processing", "Shipped", "Delivered", "Cancelled"} {
		if errs := validate.Struct(in{Status: status}); validate.HasErrors(errs) {
			t.Errorf("expected %q to be accepted, got: %v", status, errs)
		}
	}

	errs := validate.Struct(in{Status: "Lost"})
	if _, ok := errs["status"]; !ok {
		t.Error("expected in-rule error for unknown status")
	}
}

func TestNullableSkipsEmptyField(t *testing.T) {
	type in struct {
		Website string `json:"website" validate:"nullable,min=10"`
	}
	if errs := validate.Struct(in{}); validate.HasErrors(errs) {
		t.Errorf("expected nullable empty field to pass, got: %v", errs)
	}
	if errs := validate.Struct(in{Website: "short"}); !validate.HasErrors(errs) {
		t.Error("expected non-empty nullable field to be validated")
	}
}

func TestNumericRules(t *testing.T) {
	type in struct {
		Price    float64 `json:"price"    validate:"required,numeric,min=0"`
		Quantity int     `json:"quantity" validate:"required,integer,min=1"`
	}
	errs := validate.Struct(in{Price: 99.5, Quantity: 3})
	if validate.HasErrors(errs) {
		t.Errorf("expected no errors, got: %v", errs)
	}

	errs = validate.Struct(in{Price: 10, Quantity: -1})
	if _, ok := errs["quantity"]; !ok {
		t.Error("expected quantity min error")
	}
}
