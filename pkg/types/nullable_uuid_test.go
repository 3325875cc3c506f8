package types

import (
	"encoding/json"
	"testing"
)

func TestNullableUUIDUnmarshal(t *testing.T) {
	type patch struct {
		OrderID NullableUUID `json:"order_id"`
	}

	cases := []struct {
		name      string
		body      string
		wantValid bool
		wantValue string
		wantErr   bool
	}{
		{name: "absent", body: `{}`},
		{name: "explicit null", body: `{"order_id": null}`, wantValid: true},
		{name: "value", body: `{"order_id": "00000000-0000-0000-0000-000000000001"}`, wantValid: true, wantValue: "00000000-0000-0000-0000-000000000001"},
		{name: "garbage", body: `{"order_id": "not-a-uuid"}`, wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var got patch
			err := json.Unmarshal([]byte(tc.body), &got)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if got.OrderID.Valid != tc.wantValid {
				t.Fatalf("valid = %v, want %v", got.OrderID.Valid, tc.wantValid)
			}
			if tc.wantValue == "" {
				if got.OrderID.Value != nil {
					t.Fatalf("expected nil value, got %s", got.OrderID.Value)
				}
				return
			}
			if got.OrderID.Value == nil || got.OrderID.Value.String() != tc.wantValue {
				t.Fatalf("unexpected value %v", got.OrderID.Value)
			}
		})
	}
}
