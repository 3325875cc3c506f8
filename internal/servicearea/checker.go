package servicearea

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/washday/laundry-backend/pkg/config"
	pkgerrors "github.com/washday/laundry-backend/pkg/errors"
)

var zipPattern = regexp.MustCompile(`^\d{5}$`)

// Result answers "do you serve my zip code?".
type Result struct {
	ZipCode  string `json:"zip_code"`
	Serviced bool   `json:"serviced"`
}

// Checker tests zip codes against an inclusive numeric range.
type Checker struct {
	min, max int
}

func NewChecker(cfg config.ServiceAreaConfig) (*Checker, error) {
	if cfg.ZipMin < 0 || cfg.ZipMax > 99999 || cfg.ZipMin > cfg.ZipMax {
		return nil, fmt.Errorf("invalid service area range %d-%d", cfg.ZipMin, cfg.ZipMax)
	}
	return &Checker{min: cfg.ZipMin, max: cfg.ZipMax}, nil
}

func (c *Checker) Check(zip string) (*Result, error) {
	zip = strings.TrimSpace(zip)
	if !zipPattern.MatchString(zip) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "zip code must be 5 digits").
			WithDetails(map[string]string{"zip_code": "must be 5 digits"})
	}
	n, _ := strconv.Atoi(zip)
	return &Result{ZipCode: zip, Serviced: n >= c.min && n <= c.max}, nil
}
