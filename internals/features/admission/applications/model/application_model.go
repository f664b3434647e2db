package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ApplicationModel is one admission submission. Profile fields are immutable
// after creation; status and the derived fields are the only columns staff
// decisions touch.
type ApplicationModel struct {
	ApplicationID     uuid.UUID `json:"application_id" gorm:"column:application_id;type:uuid;default:gen_random_uuid();primaryKey"`
	ApplicationNumber string    `json:"application_number" gorm:"column:application_number;type:varchar(20);not null"`

	// course choice
	Session        string `json:"session" gorm:"column:session;type:varchar(20);not null"`
	AdmissionClass string `json:"admission_class" gorm:"column:admission_class;type:varchar(40);not null"`
	Location       string `json:"location" gorm:"column:location;type:varchar(60);not null"`

	// personal details
	StudentName string `json:"student_name" gorm:"column:student_name;type:varchar(120);not null"`
	DOB         string `json:"dob" gorm:"column:dob;type:varchar(10);not null"` // ISO yyyy-mm-dd, half of the public lookup key
	Gender      string `json:"gender" gorm:"column:gender;type:varchar(10);not null"`
	Religion    string `json:"religion" gorm:"column:religion;type:varchar(30);not null"`
	Email       string `json:"email" gorm:"column:email;type:varchar(255);not null"`

	// parents & contact
	FatherName       string `json:"father_name" gorm:"column:father_name;type:varchar(120);not null"`
	FatherOccupation string `json:"father_occupation" gorm:"column:father_occupation;type:varchar(120);not null"`
	WhatsappNo       string `json:"whatsapp_no" gorm:"column:whatsapp_no;type:varchar(20);not null"`
	MotherName       string `json:"mother_name" gorm:"column:mother_name;type:varchar(120);not null"`
	MotherOccupation string `json:"mother_occupation" gorm:"column:mother_occupation;type:varchar(120);not null"`
	MobileNo         string `json:"mobile_no" gorm:"column:mobile_no;type:varchar(20);not null"`

	// postal address
	Village    string `json:"village" gorm:"column:village;type:varchar(120);not null"`
	PostOffice string `json:"post_office" gorm:"column:post_office;type:varchar(120);not null"`
	PinCode    string `json:"pin_code" gorm:"column:pin_code;type:varchar(10);not null"`
	State      string `json:"state" gorm:"column:state;type:varchar(60);not null"`
	District   string `json:"district" gorm:"column:district;type:varchar(60);not null"`

	// exam centre choice
	ExamState        string `json:"exam_state" gorm:"column:exam_state;type:varchar(60);not null"`
	ExamDistrict     string `json:"exam_district" gorm:"column:exam_district;type:varchar(60);not null"`
	ExamCentreChoice string `json:"exam_centre_choice" gorm:"column:exam_centre_choice;type:varchar(120);not null"`

	InfoSource string `json:"info_source" gorm:"column:info_source;type:varchar(60);not null"`

	// uploads ("" when the applicant supplied no file)
	PhotoURL     string `json:"photo_url" gorm:"column:photo_url;type:text;not null;default:''"`
	SignatureURL string `json:"signature_url" gorm:"column:signature_url;type:text;not null;default:''"`

	// lifecycle; derived fields are set exactly once, at approval
	Status     string `json:"status" gorm:"column:status;type:varchar(10);not null;default:'Pending'"`
	RollNumber string `json:"roll_number" gorm:"column:roll_number;type:varchar(24);not null;default:''"`
	ExamTime   string `json:"exam_time" gorm:"column:exam_time;type:varchar(40);not null;default:''"`
	ExamDate   string `json:"exam_date" gorm:"column:exam_date;type:varchar(10);not null;default:''"`
	ExamCentre string `json:"exam_centre" gorm:"column:exam_centre;type:varchar(120);not null;default:''"`

	SubmittedAt time.Time  `json:"submitted_at" gorm:"column:submitted_at;not null;autoCreateTime"`
	CreatedAt   time.Time  `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty" gorm:"column:updated_at;autoUpdateTime"`
}

func (ApplicationModel) TableName() string {
	return "applications"
}

// ApplicationEventModel is the lifecycle audit trail: one row per submit /
// approve / reject, with a JSON payload snapshot. Written best-effort.
type ApplicationEventModel struct {
	EventID       uuid.UUID      `json:"event_id" gorm:"column:event_id;type:uuid;default:gen_random_uuid();primaryKey"`
	ApplicationID uuid.UUID      `json:"application_id" gorm:"column:application_id;type:uuid;not null;index"`
	EventType     string         `json:"event_type" gorm:"column:event_type;type:varchar(30);not null"`
	EventPayload  datatypes.JSON `json:"event_payload" gorm:"column:event_payload;type:jsonb"`
	CreatedAt     time.Time      `json:"created_at" gorm:"column:created_at;autoCreateTime"`
}

func (ApplicationEventModel) TableName() string {
	return "application_events"
}
