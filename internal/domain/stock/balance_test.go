package stock

import (
	"testing"

	"stocktally/internal/core/apperror"
	"stocktally/internal/core/id"
)

func TestPlanReceipt(t *testing.T) {
	productID := id.New()

	tests := []struct {
		name    string
		current int64
		qty     int64
		want    Plan
		wantErr string
	}{
		{"from zero", 0, 10, Plan{Previous: 0, New: 10, Delta: 10}, ""},
		{"on top of existing", 5, 3, Plan{Previous: 5, New: 8, Delta: 3}, ""},
		{"zero quantity", 5, 0, Plan{}, apperror.CodeInvalidQuantity},
		{"negative quantity", 5, -2, Plan{}, apperror.CodeInvalidQuantity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PlanReceipt(productID, tt.current, tt.qty)
			checkPlan(t, got, err, tt.want, tt.wantErr)
		})
	}
}

func TestPlanRemoval(t *testing.T) {
	productID := id.New()

	tests := []struct {
		name    string
		current int64
		qty     int64
		want    Plan
		wantErr string
	}{
		{"partial", 10, 4, Plan{Previous: 10, New: 6, Delta: -4}, ""},
		{"exact drain to zero", 10, 10, Plan{Previous: 10, New: 0, Delta: -10}, ""},
		{"one more than available", 10, 11, Plan{}, apperror.CodeInsufficientStock},
		{"from empty", 0, 1, Plan{}, apperror.CodeInsufficientStock},
		{"zero quantity", 10, 0, Plan{}, apperror.CodeInvalidQuantity},
		{"negative quantity", 10, -3, Plan{}, apperror.CodeInvalidQuantity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PlanRemoval(productID, tt.current, tt.qty)
			checkPlan(t, got, err, tt.want, tt.wantErr)
		})
	}
}

func TestPlanRemoval_InsufficientDetails(t *testing.T) {
	productID := id.New()

	_, err := PlanRemoval(productID, 3, 8)
	appErr, ok := apperror.AsAppError(err)
	if !ok {
		t.Fatalf("expected AppError, got %v", err)
	}
	if appErr.Details["requested"] != int64(8) {
		t.Errorf("requested detail = %v, want 8", appErr.Details["requested"])
	}
	if appErr.Details["available"] != int64(3) {
		t.Errorf("available detail = %v, want 3", appErr.Details["available"])
	}
	if appErr.Details["shortfall"] != int64(5) {
		t.Errorf("shortfall detail = %v, want 5", appErr.Details["shortfall"])
	}
}

func TestPlanAdjustment(t *testing.T) {
	productID := id.New()

	tests := []struct {
		name     string
		current  int64
		newLevel int64
		want     Plan
		wantErr  string
	}{
		{"upward", 10, 15, Plan{Previous: 10, New: 15, Delta: 5}, ""},
		{"downward", 10, 4, Plan{Previous: 10, New: 4, Delta: -6}, ""},
		{"down to zero", 7, 0, Plan{Previous: 7, New: 0, Delta: -7}, ""},
		{"no-op", 10, 10, Plan{Previous: 10, New: 10, Delta: 0}, ""},
		{"negative level", 10, -1, Plan{}, apperror.CodeInvalidQuantity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PlanAdjustment(productID, tt.current, tt.newLevel)
			checkPlan(t, got, err, tt.want, tt.wantErr)
		})
	}
}

func checkPlan(t *testing.T, got Plan, err error, want Plan, wantErr string) {
	t.Helper()

	if wantErr != "" {
		if err == nil {
			t.Fatalf("expected %s error, got nil", wantErr)
		}
		if !apperror.HasCode(err, wantErr) {
			t.Fatalf("expected code %s, got %v", wantErr, err)
		}
		return
	}
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != want {
		t.Errorf("plan = %+v, want %+v", got, want)
	}
}
