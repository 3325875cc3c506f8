package servicearea

import (
	"testing"

	"github.com/washday/laundry-backend/pkg/config"
	pkgerrors "github.com/washday/laundry-backend/pkg/errors"
)

func TestCheck(t *testing.T) {
	checker, err := NewChecker(config.ServiceAreaConfig{ZipMin: 30000, ZipMax: 31999})
	if err != nil {
		t.Fatalf("checker: %v", err)
	}

	cases := map[string]bool{
		"30000":   true,
		"30301":   true,
		"31999":   true,
		" 30303 ": true,
		"29999":   false,
		"32000":   false,
		"10001":   false,
	}
	for zip, want := range cases {
		got, err := checker.Check(zip)
		if err != nil {
			t.Fatalf("check %q: %v", zip, err)
		}
		if got.Serviced != want {
			t.Fatalf("zip %q: expected %v, got %v", zip, want, got.Serviced)
		}
	}

	for _, bad := range []string{"", "3030", "303011", "3030a", "30-30"} {
		if _, err := checker.Check(bad); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
			t.Fatalf("expected validation error for %q, got %v", bad, err)
		}
	}
}

func TestNewCheckerRejectsBadRange(t *testing.T) {
	if _, err := NewChecker(config.ServiceAreaConfig{ZipMin: 40000, ZipMax: 30000}); err == nil {
		t.Fatal("expected inverted range to fail")
	}
	if _, err := NewChecker(config.ServiceAreaConfig{ZipMin: 0, ZipMax: 100000}); err == nil {
		t.Fatal("expected out of range max to fail")
	}
}
