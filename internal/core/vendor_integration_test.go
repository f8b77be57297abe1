package core_test

import (
	"context"
	"errors"
	"testing"

	"fitout-erp/internal/core"
)

func TestVendorService(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()
	svc := core.NewVendorService(pool)

	v, err := svc.CreateVendor(ctx, core.VendorInput{
		Code:          " V010 ",
		Name:          "Gamma Joinery",
		ContactPerson: "Lee",
		Email:         "sales@gamma.test",
	})
	if err != nil {
		t.Fatalf("CreateVendor: %v", err)
	}
	if v.Code != "V010" || !v.IsActive {
		t.Errorf("unexpected vendor: %+v", v)
	}
	if v.Email == nil || *v.Email != "sales@gamma.test" || v.Phone != nil {
		t.Errorf("optional fields: email %v phone %v", v.Email, v.Phone)
	}

	if _, err := svc.CreateVendor(ctx, core.VendorInput{Code: "V010", Name: "Copy"}); !errors.Is(err, core.ErrValidation) {
		t.Errorf("duplicate code: expected ErrValidation, got %v", err)
	}
	if _, err := svc.CreateVendor(ctx, core.VendorInput{Code: "V011"}); !errors.Is(err, core.ErrValidation) {
		t.Errorf("missing name: expected ErrValidation, got %v", err)
	}

	vendors, err := svc.GetVendors(ctx)
	if err != nil {
		t.Fatalf("GetVendors: %v", err)
	}
	var codes []string
	for _, v := range vendors {
		codes = append(codes, v.Code)
	}
	if len(codes) != 3 || codes[0] != "V001" || codes[1] != "V002" || codes[2] != "V010" {
		t.Errorf("active vendors by code: got %v", codes)
	}

	off, err := svc.GetVendor(ctx, vendorOff)
	if err != nil {
		t.Fatalf("GetVendor: %v", err)
	}
	if off.IsActive {
		t.Error("expected inactive vendor to report is_active=false")
	}
	if _, err := svc.GetVendor(ctx, 999); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("unknown vendor: expected ErrNotFound, got %v", err)
	}
}

func TestUserService(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()
	svc := core.NewUserService(pool)

	u, err := svc.GetByID(ctx, directorID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if u.Actor() != director {
		t.Errorf("actor: got %+v, want %+v", u.Actor(), director)
	}

	u, err = svc.GetByUsername(ctx, "sam")
	if err != nil {
		t.Fatalf("GetByUsername: %v", err)
	}
	if u.ID != salesID || u.Role != "SALES" {
		t.Errorf("unexpected user: %+v", u)
	}

	if _, err := svc.GetByID(ctx, inactiveID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("inactive user: expected ErrNotFound, got %v", err)
	}
	if _, err := svc.GetByUsername(ctx, "nobody"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("unknown user: expected ErrNotFound, got %v", err)
	}
}
