package enums

import "testing"

func TestParseRole(t *testing.T) {
	role, err := ParseRole("owner")
	if err != nil || role != RoleOwner {
		t.Fatalf("expected owner, got %v (%v)", role, err)
	}

	// legacy alias from the pre-rename schema
	role, err = ParseRole("user")
	if err != nil || role != RoleCustomer {
		t.Fatalf("expected customer for legacy alias, got %v (%v)", role, err)
	}

	if _, err := ParseRole("admin"); err == nil {
		t.Fatal("expected error for unknown role")
	}
}

func TestRoleLabel(t *testing.T) {
	if RoleOwner.Label() != "restaurant owner" {
		t.Fatalf("unexpected label %q", RoleOwner.Label())
	}
	if RoleCustomer.Label() != "customer" {
		t.Fatalf("unexpected label %q", RoleCustomer.Label())
	}
}

func TestOrderStatusTerminal(t *testing.T) {
	for _, status := range []OrderStatus{OrderStatusDelivered, OrderStatusCancelled} {
		if !status.IsTerminal() {
			t.Fatalf("expected %s to be terminal", status)
		}
	}
	for _, status := range []OrderStatus{
		OrderStatusPending, OrderStatusConfirmed, OrderStatusPreparing,
		OrderStatusReady, OrderStatusOutForDelivery,
	} {
		if status.IsTerminal() {
			t.Fatalf("expected %s to be non-terminal", status)
		}
	}
}

func TestParseOrderStatusRejectsUnknown(t *testing.T) {
	if _, err := ParseOrderStatus("shipped"); err == nil {
		t.Fatal("expected error for unknown status")
	}
	status, err := ParseOrderStatus("out_for_delivery")
	if err != nil || status != OrderStatusOutForDelivery {
		t.Fatalf("expected out_for_delivery, got %v (%v)", status, err)
	}
}

func TestParsePaymentMethod(t *testing.T) {
	for _, raw := range []string{"card", "upi", "cod", "wallet"} {
		if _, err := ParsePaymentMethod(raw); err != nil {
			t.Fatalf("expected %q to parse: %v", raw, err)
		}
	}
	if _, err := ParsePaymentMethod("cheque"); err == nil {
		t.Fatal("expected error for unknown method")
	}
}
