package service

import (
	"context"
	"fmt"
	"log"
	"mime/multipart"
	"reflect"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"super40_backend/internals/constants"
	"super40_backend/internals/features/admission/applications/dto"
	"super40_backend/internals/features/admission/applications/model"
	"super40_backend/internals/features/admission/applications/repository"
	ossHelper "super40_backend/internals/helpers/oss"
)

// MaxAttachmentSize caps each uploaded image at 500 KB.
const MaxAttachmentSize = 500 * 1024

// numberRetries bounds how often a colliding application or roll number is
// regenerated before the submission is given up as a persistence failure.
const numberRetries = 5

type ApplicationService struct {
	Repo     repository.ApplicationRepository
	Blobs    ossHelper.BlobService
	Notifier Notifier
	Policy   ExamPolicy

	validate *validator.Validate
	now      func() time.Time
}

func NewApplicationService(repo repository.ApplicationRepository, blobs ossHelper.BlobService, notifier Notifier) *ApplicationService {
	v := validator.New()
	// report errors under the multipart field name, not the Go field name
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	return &ApplicationService{
		Repo:     repo,
		Blobs:    blobs,
		Notifier: notifier,
		Policy:   ExamPolicyFromEnv(),
		validate: v,
		now:      time.Now,
	}
}

// Submit validates the form, uploads the optional photo and signature,
// persists the record as Pending and fires the confirmation email in the
// background. Nothing is uploaded or written when validation fails.
func (s *ApplicationService) Submit(ctx context.Context, req *dto.CreateApplicationRequest, photo, signature *multipart.FileHeader) (*model.ApplicationModel, error) {
	req.Normalize()

	if err := s.validate.Struct(req); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			fe := verrs[0]
			return nil, &ValidationError{Field: fe.Field(), Reason: fe.Tag()}
		}
		return nil, &ValidationError{Field: "form", Reason: err.Error()}
	}
	if photo != nil && photo.Size > MaxAttachmentSize {
		return nil, &ValidationError{Field: "photo", Reason: "file exceeds 500KB"}
	}
	if signature != nil && signature.Size > MaxAttachmentSize {
		return nil, &ValidationError{Field: "signature", Reason: "file exceeds 500KB"}
	}

	if (photo != nil || signature != nil) && s.Blobs == nil {
		return nil, &UploadError{Field: "photo", Err: errUploadsDisabled}
	}

	number := NewApplicationNumber(s.now())

	photoURL := ""
	if photo != nil {
		url, err := s.Blobs.UploadApplicantImage(ctx, buildUploadKey(number, "photo", photo.Filename), photo)
		if err != nil {
			return nil, &UploadError{Field: "photo", Err: err}
		}
		photoURL = url
	}

	signatureURL := ""
	if signature != nil {
		url, err := s.Blobs.UploadApplicantImage(ctx, buildUploadKey(number, "signature", signature.Filename), signature)
		if err != nil {
			return nil, &UploadError{Field: "signature", Err: err}
		}
		signatureURL = url
	}

	app := req.ToModel()
	app.ApplicationNumber = number
	app.Status = constants.StatusPending
	app.PhotoURL = photoURL
	app.SignatureURL = signatureURL

	var createErr error
	for attempt := 0; attempt < numberRetries; attempt++ {
		createErr = s.Repo.Create(ctx, app)
		if createErr == nil {
			break
		}
		if !repository.IsUniqueViolation(createErr) {
			return nil, &PersistenceError{Op: "create application", Err: createErr}
		}
		// number already taken; keep the uploaded blobs (their URLs stay
		// valid) and try a fresh number
		app.ApplicationNumber = NewApplicationNumber(s.now())
		log.Printf("[SUBMIT] application number collision, retrying with %s", app.ApplicationNumber)
	}
	if createErr != nil {
		return nil, &PersistenceError{Op: "create application", Err: createErr}
	}

	s.recordEvent(ctx, app.ApplicationID, "submitted", map[string]string{
		"application_number": app.ApplicationNumber,
	})

	if s.Notifier != nil {
		// fire and forget; never let email delivery affect the submission
		name, email, num := app.StudentName, app.Email, app.ApplicationNumber
		go func() {
			sctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			if err := s.Notifier.SendConfirmation(sctx, name, email, num); err != nil {
				log.Printf("[NOTIFY] confirmation email for %s failed: %v", num, err)
			}
		}()
	}

	return app, nil
}

// Decide moves a Pending application to Approved or Rejected. Approval
// stamps the derived exam-day fields; rejection changes only the status.
func (s *ApplicationService) Decide(ctx context.Context, id uuid.UUID, target string) (*model.ApplicationModel, error) {
	if target != constants.StatusApproved && target != constants.StatusRejected {
		return nil, &ValidationError{Field: "status", Reason: "must be Approved or Rejected"}
	}

	app, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, &PersistenceError{Op: "load application", Err: err}
	}
	if app.Status != constants.StatusPending {
		return nil, ErrInvalidTransition
	}

	if target == constants.StatusRejected {
		if err := s.Repo.UpdateFields(ctx, id, map[string]interface{}{"status": constants.StatusRejected}); err != nil {
			return nil, &PersistenceError{Op: "reject application", Err: err}
		}
		app.Status = constants.StatusRejected
		s.recordEvent(ctx, id, "rejected", nil)
		return app, nil
	}

	roll := NewRollNumber(s.now())
	var updErr error
	for attempt := 0; attempt < numberRetries; attempt++ {
		updErr = s.Repo.UpdateFields(ctx, id, map[string]interface{}{
			"status":      constants.StatusApproved,
			"roll_number": roll,
			"exam_time":   s.Policy.Time,
			"exam_date":   s.Policy.Date,
			"exam_centre": app.ExamCentreChoice,
		})
		if updErr == nil {
			break
		}
		if !repository.IsUniqueViolation(updErr) {
			return nil, &PersistenceError{Op: "approve application", Err: updErr}
		}
		roll = NewRollNumber(s.now())
		log.Printf("[DECIDE] roll number collision, retrying with %s", roll)
	}
	if updErr != nil {
		return nil, &PersistenceError{Op: "approve application", Err: updErr}
	}

	app.Status = constants.StatusApproved
	app.RollNumber = roll
	app.ExamTime = s.Policy.Time
	app.ExamDate = s.Policy.Date
	app.ExamCentre = app.ExamCentreChoice

	s.recordEvent(ctx, id, "approved", map[string]string{"roll_number": roll})
	return app, nil
}

// Lookup is the public status check: exact match on application number plus
// date of birth. A miss on either field yields the same ErrNotFound.
func (s *ApplicationService) Lookup(ctx context.Context, number, dob string) (*model.ApplicationModel, error) {
	number = strings.TrimSpace(number)
	dob = strings.TrimSpace(dob)
	if number == "" {
		return nil, &ValidationError{Field: "application_number", Reason: "required"}
	}
	if dob == "" {
		return nil, &ValidationError{Field: "dob", Reason: "required"}
	}

	apps, err := s.Repo.FindByNumberAndDOB(ctx, number, dob)
	if err != nil {
		return nil, &PersistenceError{Op: "status lookup", Err: err}
	}
	if len(apps) == 0 {
		return nil, ErrNotFound
	}
	if len(apps) > 1 {
		// should be impossible with the unique constraint in place
		log.Printf("[LOOKUP] %d records share number %s; serving the earliest", len(apps), number)
	}
	return &apps[0], nil
}

// List serves the staff dashboard with filter, search and paging.
func (s *ApplicationService) List(ctx context.Context, q repository.ListQuery) ([]model.ApplicationModel, int64, error) {
	if q.Status != "" && !constants.IsValidStatus(q.Status) {
		return nil, 0, &ValidationError{Field: "status", Reason: "unknown status filter"}
	}
	if q.Limit <= 0 {
		q.Limit = 25
	}
	apps, total, err := s.Repo.List(ctx, q)
	if err != nil {
		return nil, 0, &PersistenceError{Op: "list applications", Err: err}
	}
	return apps, total, nil
}

// Detail loads one application for the dashboard.
func (s *ApplicationService) Detail(ctx context.Context, id uuid.UUID) (*model.ApplicationModel, error) {
	app, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, &PersistenceError{Op: "load application", Err: err}
	}
	return app, nil
}

func (s *ApplicationService) recordEvent(ctx context.Context, id uuid.UUID, eventType string, payload map[string]string) {
	var raw datatypes.JSON
	if payload != nil {
		if b, err := sonic.Marshal(payload); err == nil {
			raw = datatypes.JSON(b)
		}
	}
	ev := &model.ApplicationEventModel{
		ApplicationID: id,
		EventType:     eventType,
		EventPayload:  raw,
	}
	if err := s.Repo.RecordEvent(ctx, ev); err != nil {
		log.Printf("[EVENT] recording %s for %s failed: %v", eventType, id, err)
	}
}

func buildUploadKey(number, kind, filename string) string {
	return fmt.Sprintf("%s-%s-%s", number, kind, ossHelper.SanitizeFilename(filename))
}
