package service

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"go.uber.org/zap"

	"college-erp/internal/dto"
	"college-erp/internal/model"
)

func TestIsDropdownField(t *testing.T) {
	for _, ok := range []string{"program", "hostel_block", "lab2"} {
		if !IsDropdownField(ok) {
			t.Errorf("%q should be accepted", ok)
		}
	}
	for _, bad := range []string{"", "Program", "2nd", "hostel-block", "a b"} {
		if IsDropdownField(bad) {
			t.Errorf("%q should be rejected", bad)
		}
	}
}

func TestDropdownGet_MergesSortsAndDropsBlanks(t *testing.T) {
	f := newFixture()
	c := f.addCollege("Alpha", "alpha.edu")
	admin := f.addUser(c.ID, model.RoleAdmin, "admin@alpha.edu")
	f.addStudent(c.ID, "a@alpha.edu", "MTECH", "CSE", "2")
	f.addStudent(c.ID, "b@alpha.edu", "BTECH", "", "1")
	other := f.addCollege("Beta", "beta.edu")
	f.addStudent(other.ID, "z@beta.edu", "MBA", "FIN", "1")

	svc := NewDropdownService(f.repo, zap.NewNop())
	ctx := context.Background()
	for _, req := range []dto.CreateDropdownRequest{
		{Field: model.FieldProgram, Value: "BCA"},
		{Field: model.FieldProgram, Value: "BTECH"},
		{Field: "hostel_block", Value: "North"},
	} {
		req := req
		if _, err := svc.Create(ctx, actorOf(admin), &req); err != nil {
			t.Fatalf("create %v failed: %v", req, err)
		}
	}

	resp, err := svc.Get(ctx, actorOf(admin))
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if want := []string{"BCA", "BTECH", "MTECH"}; !reflect.DeepEqual(resp.Programs, want) {
		t.Errorf("programs = %v, want %v", resp.Programs, want)
	}
	if want := []string{"CSE"}; !reflect.DeepEqual(resp.Branches, want) {
		t.Errorf("branches = %v, want %v", resp.Branches, want)
	}
	if want := []string{"1", "2"}; !reflect.DeepEqual(resp.Years, want) {
		t.Errorf("years = %v, want %v", resp.Years, want)
	}
	if len(resp.Sections) != 0 {
		t.Errorf("sections should be empty, got %v", resp.Sections)
	}
	if want := []string{"North"}; !reflect.DeepEqual(resp.Custom["hostel_block"], want) {
		t.Errorf("custom = %v", resp.Custom)
	}
	if len(resp.Values) != 3 {
		t.Errorf("expected 3 managed values, got %d", len(resp.Values))
	}
}

func TestDropdownCreateDelete(t *testing.T) {
	f := newFixture()
	c := f.addCollege("Alpha", "alpha.edu")
	admin := f.addUser(c.ID, model.RoleAdmin, "admin@alpha.edu")
	other := f.addCollege("Beta", "beta.edu")
	foreignAdmin := f.addUser(other.ID, model.RoleAdmin, "admin@beta.edu")
	student := f.addStudent(c.ID, "s@alpha.edu", "BTECH", "CSE", "1")

	svc := NewDropdownService(f.repo, zap.NewNop())
	ctx := context.Background()

	created, err := svc.Create(ctx, actorOf(admin), &dto.CreateDropdownRequest{Field: "section", Value: " A "})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.Value != "A" {
		t.Errorf("value should be trimmed, got %q", created.Value)
	}
	if _, err := svc.Create(ctx, actorOf(admin), &dto.CreateDropdownRequest{Field: "section", Value: "A"}); !errors.Is(err, ErrDropdownExists) {
		t.Errorf("expected ErrDropdownExists, got %v", err)
	}
	if _, err := svc.Create(ctx, actorOf(foreignAdmin), &dto.CreateDropdownRequest{Field: "section", Value: "A"}); err != nil {
		t.Errorf("same value in another college should be allowed, got %v", err)
	}
	if _, err := svc.Create(ctx, actorOf(admin), &dto.CreateDropdownRequest{Field: "Bad Field", Value: "x"}); !errors.Is(err, ErrInvalidField) {
		t.Errorf("expected ErrInvalidField, got %v", err)
	}
	if _, err := svc.Create(ctx, actorOf(student), &dto.CreateDropdownRequest{Field: "section", Value: "B"}); !errors.Is(err, ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}

	if err := svc.Delete(ctx, actorOf(foreignAdmin), created.ID); !errors.Is(err, ErrDropdownNotFound) {
		t.Errorf("foreign delete: expected ErrDropdownNotFound, got %v", err)
	}
	if err := svc.Delete(ctx, actorOf(admin), created.ID); err != nil {
		t.Errorf("delete failed: %v", err)
	}
	if err := svc.Delete(ctx, actorOf(admin), created.ID); !errors.Is(err, ErrDropdownNotFound) {
		t.Errorf("second delete: expected ErrDropdownNotFound, got %v", err)
	}
}
