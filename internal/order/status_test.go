package order

import (
	"testing"

	dbgen "github.com/libraria-al/backend-libraria/internal/db/gen"
)

func TestTransitionAllowed(t *testing.T) {
	allowed := []struct {
		from dbgen.OrderStatus
		to   dbgen.OrderStatus
	}{
		{dbgen.OrderStatusPENDING, dbgen.OrderStatusPAID},
		{dbgen.OrderStatusPAID, dbgen.OrderStatusPROCESSING},
		{dbgen.OrderStatusPROCESSING, dbgen.OrderStatusSHIPPED},
		{dbgen.OrderStatusSHIPPED, dbgen.OrderStatusDELIVERED},
		{dbgen.OrderStatusPENDING, dbgen.OrderStatusCANCELLED},
		{dbgen.OrderStatusPAID, dbgen.OrderStatusCANCELLED},
		{dbgen.OrderStatusPAID, dbgen.OrderStatusREFUNDED},
		{dbgen.OrderStatusDELIVERED, dbgen.OrderStatusREFUNDED},
	}
	for _, tc := range allowed {
		if !TransitionAllowed(tc.from, tc.to) {
			t.Fatalf("expected %s -> %s to be allowed", tc.from, tc.to)
		}
	}

	denied := []struct {
		from dbgen.OrderStatus
		to   dbgen.OrderStatus
	}{
		{dbgen.OrderStatusPAID, dbgen.OrderStatusPENDING},
		{dbgen.OrderStatusPENDING, dbgen.OrderStatusSHIPPED},
		{dbgen.OrderStatusDELIVERED, dbgen.OrderStatusSHIPPED},
		{dbgen.OrderStatusCANCELLED, dbgen.OrderStatusPAID},
		{dbgen.OrderStatusREFUNDED, dbgen.OrderStatusREFUNDED},
		{dbgen.OrderStatusPENDING, dbgen.OrderStatusREFUNDED},
		{dbgen.OrderStatusCANCELLED, dbgen.OrderStatusREFUNDED},
	}
	for _, tc := range denied {
		if TransitionAllowed(tc.from, tc.to) {
			t.Fatalf("expected %s -> %s to be denied", tc.from, tc.to)
		}
	}
}
