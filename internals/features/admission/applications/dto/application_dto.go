package dto

import (
	"strings"

	"super40_backend/internals/features/admission/applications/model"
)

// CreateApplicationRequest is the public submission form. Field names follow
// the multipart field names the frontend posts.
type CreateApplicationRequest struct {
	Session        string `json:"session" form:"session" validate:"required"`
	AdmissionClass string `json:"admission_class" form:"admission_class" validate:"required"`
	Location       string `json:"location" form:"location" validate:"required"`

	StudentName string `json:"student_name" form:"student_name" validate:"required"`
	DOB         string `json:"dob" form:"dob" validate:"required,datetime=2006-01-02"`
	Gender      string `json:"gender" form:"gender" validate:"required"`
	Religion    string `json:"religion" form:"religion" validate:"required"`
	Email       string `json:"email" form:"email" validate:"required,email"`

	FatherName       string `json:"father_name" form:"father_name" validate:"required"`
	FatherOccupation string `json:"father_occupation" form:"father_occupation" validate:"required"`
	WhatsappNo       string `json:"whatsapp_no" form:"whatsapp_no" validate:"required,min=10,max=15"`
	MotherName       string `json:"mother_name" form:"mother_name" validate:"required"`
	MotherOccupation string `json:"mother_occupation" form:"mother_occupation" validate:"required"`
	MobileNo         string `json:"mobile_no" form:"mobile_no" validate:"required,min=10,max=15"`

	Village    string `json:"village" form:"village" validate:"required"`
	PostOffice string `json:"post_office" form:"post_office" validate:"required"`
	PinCode    string `json:"pin_code" form:"pin_code" validate:"required,numeric,len=6"`
	State      string `json:"state" form:"state" validate:"required"`
	District   string `json:"district" form:"district" validate:"required"`

	ExamState        string `json:"exam_state" form:"exam_state" validate:"required"`
	ExamDistrict     string `json:"exam_district" form:"exam_district" validate:"required"`
	ExamCentreChoice string `json:"exam_centre_choice" form:"exam_centre_choice" validate:"required"`

	InfoSource string `json:"info_source" form:"info_source" validate:"required"`
}

// Normalize trims whitespace and fills the defaults the form pre-selects.
func (r *CreateApplicationRequest) Normalize() {
	trim := func(s *string) { *s = strings.TrimSpace(*s) }
	for _, f := range []*string{
		&r.Session, &r.AdmissionClass, &r.Location,
		&r.StudentName, &r.DOB, &r.Gender, &r.Religion, &r.Email,
		&r.FatherName, &r.FatherOccupation, &r.WhatsappNo,
		&r.MotherName, &r.MotherOccupation, &r.MobileNo,
		&r.Village, &r.PostOffice, &r.PinCode, &r.State, &r.District,
		&r.ExamState, &r.ExamDistrict, &r.ExamCentreChoice,
		&r.InfoSource,
	} {
		trim(f)
	}
	r.Email = strings.ToLower(r.Email)
	if r.Session == "" {
		r.Session = "2026-2027"
	}
	if r.State == "" {
		r.State = "Assam"
	}
	if r.ExamState == "" {
		r.ExamState = "Assam"
	}
}

func (r *CreateApplicationRequest) ToModel() *model.ApplicationModel {
	return &model.ApplicationModel{
		Session:        r.Session,
		AdmissionClass: r.AdmissionClass,
		Location:       r.Location,

		StudentName: r.StudentName,
		DOB:         r.DOB,
		Gender:      r.Gender,
		Religion:    r.Religion,
		Email:       r.Email,

		FatherName:       r.FatherName,
		FatherOccupation: r.FatherOccupation,
		WhatsappNo:       r.WhatsappNo,
		MotherName:       r.MotherName,
		MotherOccupation: r.MotherOccupation,
		MobileNo:         r.MobileNo,

		Village:    r.Village,
		PostOffice: r.PostOffice,
		PinCode:    r.PinCode,
		State:      r.State,
		District:   r.District,

		ExamState:        r.ExamState,
		ExamDistrict:     r.ExamDistrict,
		ExamCentreChoice: r.ExamCentreChoice,

		InfoSource: r.InfoSource,
	}
}

// StatusLookupRequest is the two-factor public status check.
type StatusLookupRequest struct {
	ApplicationNumber string `json:"application_number" form:"application_number"`
	DOB               string `json:"dob" form:"dob"`
}

// AdmitCard is the exam-day slip returned only for approved applications.
type AdmitCard struct {
	RollNumber     string `json:"roll_number"`
	ExamTime       string `json:"exam_time"`
	ExamDate       string `json:"exam_date"`
	ExamCentre     string `json:"exam_centre"`
	StudentName    string `json:"student_name"`
	DOB            string `json:"dob"`
	AdmissionClass string `json:"admission_class"`
	PhotoURL       string `json:"photo_url,omitempty"`
	SignatureURL   string `json:"signature_url,omitempty"`
}

// StatusLookupResponse shapes the public status check result. AdmitCard is
// nil unless the application has been approved.
type StatusLookupResponse struct {
	ApplicationNumber string     `json:"application_number"`
	StudentName       string     `json:"student_name"`
	Status            string     `json:"status"`
	SubmittedAt       string     `json:"submitted_at"`
	AdmitCard         *AdmitCard `json:"admit_card,omitempty"`
}

func NewStatusLookupResponse(m *model.ApplicationModel) *StatusLookupResponse {
	resp := &StatusLookupResponse{
		ApplicationNumber: m.ApplicationNumber,
		StudentName:       m.StudentName,
		Status:            m.Status,
		SubmittedAt:       m.SubmittedAt.Format("2006-01-02 15:04:05"),
	}
	if m.Status == "Approved" {
		resp.AdmitCard = &AdmitCard{
			RollNumber:     m.RollNumber,
			ExamTime:       m.ExamTime,
			ExamDate:       m.ExamDate,
			ExamCentre:     m.ExamCentre,
			StudentName:    m.StudentName,
			DOB:            m.DOB,
			AdmissionClass: m.AdmissionClass,
			PhotoURL:       m.PhotoURL,
			SignatureURL:   m.SignatureURL,
		}
	}
	return resp
}

// SubmitResponse is the acknowledgement the applicant sees after a
// successful submission.
type SubmitResponse struct {
	ApplicationNumber string `json:"application_number"`
	StudentName       string `json:"student_name"`
	Status            string `json:"status"`
	SubmittedAt       string `json:"submitted_at"`
}

func NewSubmitResponse(m *model.ApplicationModel) *SubmitResponse {
	return &SubmitResponse{
		ApplicationNumber: m.ApplicationNumber,
		StudentName:       m.StudentName,
		Status:            m.Status,
		SubmittedAt:       m.SubmittedAt.Format("2006-01-02 15:04:05"),
	}
}
