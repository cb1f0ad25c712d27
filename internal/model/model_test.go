package model

import "testing"

func TestGradeFor(t *testing.T) {
	cases := map[int]string{
		100: "A+", 90: "A+", 89: "A", 80: "A", 79: "B+", 70: "B+",
		69: "B", 60: "B", 59: "C", 50: "C", 49: "D", 40: "D", 39: "F", 0: "F",
	}
	for marks, want := range cases {
		if got := GradeFor(marks); got != want {
			t.Errorf("GradeFor(%d) = %s, want %s", marks, got, want)
		}
	}
}

func TestIsRegistrableRole(t *testing.T) {
	for _, r := range []string{RoleStudent, RoleFaculty, RoleAdmin} {
		if !IsRegistrableRole(r) {
			t.Errorf("%s should be registrable", r)
		}
	}
	if IsRegistrableRole(RoleSuperAdmin) {
		t.Error("SuperAdmin must not self-register")
	}
	if IsRegistrableRole("student") {
		t.Error("role match is case sensitive")
	}
}

func TestIsPaymentStatus(t *testing.T) {
	for _, s := range []string{PaymentUnpaid, PaymentPending, PaymentPaid, PaymentFailed} {
		if !IsPaymentStatus(s) {
			t.Errorf("%s should be valid", s)
		}
	}
	if IsPaymentStatus("Refunded") {
		t.Error("Refunded is not a payment status")
	}
}

func TestUser_IsFirstYear(t *testing.T) {
	for _, y := range []string{"1", " 1st ", "I", "First"} {
		if !(&User{Year: y}).IsFirstYear() {
			t.Errorf("%q should be first year", y)
		}
	}
	for _, y := range []string{"2", "", "II"} {
		if (&User{Year: y}).IsFirstYear() {
			t.Errorf("%q should not be first year", y)
		}
	}
}

func TestUser_DocumentRef(t *testing.T) {
	u := &User{Photo: "/uploads/p.png", IDCard: "/uploads/id.pdf"}
	if ref, ok := u.DocumentRef(DocPhoto); !ok || ref != "/uploads/p.png" {
		t.Errorf("photo ref = %q, %v", ref, ok)
	}
	if ref, ok := u.DocumentRef(DocIDCard); !ok || ref != "/uploads/id.pdf" {
		t.Errorf("id_card ref = %q, %v", ref, ok)
	}
	if _, ok := u.DocumentRef("passport"); ok {
		t.Error("unknown kind should not resolve")
	}
}

func TestUser_CollegeIDValue(t *testing.T) {
	if (&User{}).CollegeIDValue() != "" {
		t.Error("nil college id should be empty")
	}
	id := "c1"
	if (&User{CollegeID: &id}).CollegeIDValue() != "c1" {
		t.Error("college id mismatch")
	}
}
