package services

import (
	"context"
	"strings"
	"sync"
	"testing"

	"popays-telegram/db"
	"popays-telegram/models"
)

func TestNewOrderID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewOrderID()
		if len(id) != 8 {
			t.Fatalf("order id %q has length %d, want 8", id, len(id))
		}
		if seen[id] {
			t.Fatalf("duplicate order id %q", id)
		}
		seen[id] = true
	}
}

func TestExpectedFromStatus(t *testing.T) {
	tests := []struct {
		target  string
		want    string
		wantErr bool
	}{
		{OrderStatusAccepted, OrderStatusPending, false},
		{OrderStatusRejected, OrderStatusPending, false},
		{OrderStatusCancelled, OrderStatusPending, false},
		{OrderStatusCompleted, OrderStatusAccepted, false},
		{OrderStatusPending, "", true},
		{"bogus", "", true},
	}
	for _, tt := range tests {
		got, err := expectedFromStatus(tt.target)
		if tt.wantErr {
			if err == nil {
				t.Errorf("expectedFromStatus(%q): expected error", tt.target)
			}
			continue
		}
		if err != nil {
			t.Errorf("expectedFromStatus(%q): %v", tt.target, err)
			continue
		}
		if got != tt.want {
			t.Errorf("expectedFromStatus(%q) = %q, want %q", tt.target, got, tt.want)
		}
	}
}

func TestErrAlreadyDecided_Error(t *testing.T) {
	err := &ErrAlreadyDecided{OrderID: "a1b2c3d4", CurrentStatus: OrderStatusAccepted}
	msg := err.Error()
	if !strings.Contains(msg, "a1b2c3d4") || !strings.Contains(msg, OrderStatusAccepted) {
		t.Errorf("error message missing context: %s", msg)
	}
}

// Integration tests for the order lifecycle (require DB). Skip if db.Pool
// is nil or -short.
func TestOrderLifecycle_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping order integration test in short mode")
	}
	if db.Pool == nil {
		t.Skip("skipping order integration test: no DB pool")
	}
	ctx := context.Background()
	const testUserID int64 = 999999996

	id, err := CreateOrder(ctx, models.CreateOrderInput{
		UserID:        testUserID,
		CustomerName:  "Test",
		CustomerPhone: "+998901234567",
		Items:         []models.OrderItem{{Name: "Lavash", Quantity: 2, Total: 60000}},
		TotalAmount:   60000,
		Branch:        "POPAYS Kosmonavt",
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	defer func() {
		_, _ = db.Pool.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	}()

	o, err := GetOrder(ctx, id)
	if err != nil {
		t.Fatalf("GetOrder: %v", err)
	}
	if o == nil || o.Status != OrderStatusPending {
		t.Fatalf("new order = %+v, want pending", o)
	}

	// First location attach wins.
	attached, err := AttachLocationAndFee(ctx, id, 40.52, 70.95, 15000, "POPAYS Kosmonavt")
	if err != nil {
		t.Fatalf("AttachLocationAndFee: %v", err)
	}
	if !attached {
		t.Fatal("first attach should succeed")
	}
	attached, err = AttachLocationAndFee(ctx, id, 40.53, 70.96, 20000, "POPAYS Derezlik")
	if err != nil {
		t.Fatalf("AttachLocationAndFee (second): %v", err)
	}
	if attached {
		t.Error("second attach should be a no-op")
	}
	o, _ = GetOrder(ctx, id)
	if o.DeliveryFee == nil || *o.DeliveryFee != 15000 {
		t.Errorf("delivery fee = %v, want first-attached 15000", o.DeliveryFee)
	}

	// Accept wins; a later reject is a no-op with the real status reported.
	o, err = DecideOrder(ctx, id, OrderStatusAccepted)
	if err != nil {
		t.Fatalf("DecideOrder accept: %v", err)
	}
	if o.Status != OrderStatusAccepted {
		t.Fatalf("status = %s, want accepted", o.Status)
	}
	_, err = DecideOrder(ctx, id, OrderStatusRejected)
	already, ok := err.(*ErrAlreadyDecided)
	if !ok {
		t.Fatalf("late reject: got %v, want *ErrAlreadyDecided", err)
	}
	if already.CurrentStatus != OrderStatusAccepted {
		t.Errorf("late reject sees status %s, want accepted", already.CurrentStatus)
	}

	// Completed only from accepted.
	if _, err := DecideOrder(ctx, id, OrderStatusCompleted); err != nil {
		t.Fatalf("DecideOrder complete: %v", err)
	}
}

// Concurrent duplicate decisions: exactly one wins.
func TestDecideOrder_ConcurrentDuplicate_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping order integration test in short mode")
	}
	if db.Pool == nil {
		t.Skip("skipping order integration test: no DB pool")
	}
	ctx := context.Background()

	id, err := CreateOrder(ctx, models.CreateOrderInput{
		UserID:      999999995,
		Items:       []models.OrderItem{{Name: "Burger", Quantity: 1, Total: 55000}},
		TotalAmount: 55000,
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	defer func() {
		_, _ = db.Pool.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	}()

	const workers = 8
	var wg sync.WaitGroup
	wins := make(chan string, workers)
	for i := 0; i < workers; i++ {
		target := OrderStatusAccepted
		if i%2 == 1 {
			target = OrderStatusRejected
		}
		wg.Add(1)
		go func(target string) {
			defer wg.Done()
			if _, err := DecideOrder(ctx, id, target); err == nil {
				wins <- target
			}
		}(target)
	}
	wg.Wait()
	close(wins)

	var winners []string
	for w := range wins {
		winners = append(winners, w)
	}
	if len(winners) != 1 {
		t.Fatalf("winners = %v, want exactly one", winners)
	}
	o, _ := GetOrder(ctx, id)
	if o.Status != winners[0] {
		t.Errorf("final status %s does not match winner %s", o.Status, winners[0])
	}
}
