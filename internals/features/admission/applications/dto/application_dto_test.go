package dto

import (
	"testing"
	"time"

	"super40_backend/internals/features/admission/applications/model"
)

func TestNormalizeTrimsAndDefaults(t *testing.T) {
	req := &CreateApplicationRequest{
		StudentName: "  Rahim Uddin ",
		Email:       " Rahim@Example.COM ",
	}
	req.Normalize()

	if req.StudentName != "Rahim Uddin" {
		t.Errorf("name not trimmed: %q", req.StudentName)
	}
	if req.Email != "rahim@example.com" {
		t.Errorf("email not lowercased: %q", req.Email)
	}
	if req.Session != "2026-2027" {
		t.Errorf("session default missing: %q", req.Session)
	}
	if req.State != "Assam" || req.ExamState != "Assam" {
		t.Errorf("state defaults missing: %q / %q", req.State, req.ExamState)
	}
}

func TestNormalizeKeepsExplicitValues(t *testing.T) {
	req := &CreateApplicationRequest{Session: "2027-2028", State: "Meghalaya"}
	req.Normalize()

	if req.Session != "2027-2028" || req.State != "Meghalaya" {
		t.Errorf("explicit values overwritten: %q / %q", req.Session, req.State)
	}
}

func TestStatusLookupResponseAdmitCard(t *testing.T) {
	base := model.ApplicationModel{
		ApplicationNumber: "AS40-2026-123456",
		StudentName:       "Rahim Uddin",
		DOB:               "2010-04-12",
		AdmissionClass:    "Class XI Science",
		ExamCentreChoice:  "Nagaon Centre A",
		SubmittedAt:       time.Date(2026, 2, 1, 10, 30, 0, 0, time.UTC),
	}

	t.Run("pending has no admit card", func(t *testing.T) {
		m := base
		m.Status = "Pending"
		resp := NewStatusLookupResponse(&m)
		if resp.AdmitCard != nil {
			t.Fatal("pending application must not expose an admit card")
		}
	})

	t.Run("rejected has no admit card", func(t *testing.T) {
		m := base
		m.Status = "Rejected"
		if resp := NewStatusLookupResponse(&m); resp.AdmitCard != nil {
			t.Fatal("rejected application must not expose an admit card")
		}
	})

	t.Run("approved carries the exam-day slip", func(t *testing.T) {
		m := base
		m.Status = "Approved"
		m.RollNumber = "AS40R-2026-654321"
		m.ExamTime = "10:00 AM - 12:00 PM"
		m.ExamDate = "2025-12-15"
		m.ExamCentre = "Nagaon Centre A"

		resp := NewStatusLookupResponse(&m)
		card := resp.AdmitCard
		if card == nil {
			t.Fatal("approved application must expose an admit card")
		}
		if card.RollNumber != m.RollNumber || card.ExamCentre != m.ExamCentre {
			t.Errorf("admit card mismatch: %+v", card)
		}
		if card.DOB != m.DOB || card.StudentName != m.StudentName {
			t.Errorf("identity fields missing from the card: %+v", card)
		}
	})
}
