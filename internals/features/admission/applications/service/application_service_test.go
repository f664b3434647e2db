package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"super40_backend/internals/constants"
	"super40_backend/internals/features/admission/applications/dto"
	"super40_backend/internals/features/admission/applications/model"
	"super40_backend/internals/features/admission/applications/repository"
)

/* =======================================================================
   Fakes
======================================================================= */

type fakeRepo struct {
	created     []*model.ApplicationModel
	createErrs  []error // consumed one per Create call
	createCalls int

	byID       map[uuid.UUID]*model.ApplicationModel
	updates    []map[string]interface{}
	updateErrs []error

	lookupRows []model.ApplicationModel
	lookupErr  error

	events []*model.ApplicationEventModel
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byID: map[uuid.UUID]*model.ApplicationModel{}}
}

func (f *fakeRepo) Create(_ context.Context, app *model.ApplicationModel) error {
	f.createCalls++
	if len(f.createErrs) > 0 {
		err := f.createErrs[0]
		f.createErrs = f.createErrs[1:]
		if err != nil {
			return err
		}
	}
	app.ApplicationID = uuid.New()
	app.SubmittedAt = time.Now()
	f.created = append(f.created, app)
	f.byID[app.ApplicationID] = app
	return nil
}

func (f *fakeRepo) FindByID(_ context.Context, id uuid.UUID) (*model.ApplicationModel, error) {
	app, ok := f.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *app
	return &cp, nil
}

func (f *fakeRepo) FindByNumberAndDOB(_ context.Context, number, dob string) ([]model.ApplicationModel, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	var out []model.ApplicationModel
	for _, row := range f.lookupRows {
		if row.ApplicationNumber == number && row.DOB == dob {
			out = append(out, row)
		}
	}
	return out, nil
}

func (f *fakeRepo) UpdateFields(_ context.Context, id uuid.UUID, fields map[string]interface{}) error {
	if len(f.updateErrs) > 0 {
		err := f.updateErrs[0]
		f.updateErrs = f.updateErrs[1:]
		if err != nil {
			return err
		}
	}
	f.updates = append(f.updates, fields)
	app, ok := f.byID[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if v, ok := fields["status"].(string); ok {
		app.Status = v
	}
	return nil
}

func (f *fakeRepo) List(_ context.Context, q repository.ListQuery) ([]model.ApplicationModel, int64, error) {
	// mirrors the SQL predicate: status equality + case-insensitive
	// substring over name, number and email
	matches := func(app *model.ApplicationModel) bool {
		if q.Status != "" && app.Status != q.Status {
			return false
		}
		if q.Search == "" {
			return true
		}
		needle := strings.ToLower(q.Search)
		for _, hay := range []string{app.StudentName, app.ApplicationNumber, app.Email} {
			if strings.Contains(strings.ToLower(hay), needle) {
				return true
			}
		}
		return false
	}

	var out []model.ApplicationModel
	for _, app := range f.created {
		if matches(app) {
			out = append(out, *app)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeRepo) RecordEvent(_ context.Context, ev *model.ApplicationEventModel) error {
	f.events = append(f.events, ev)
	return nil
}

type fakeBlobs struct {
	keys    []string
	failErr error
}

func (f *fakeBlobs) UploadApplicantImage(_ context.Context, key string, _ *multipart.FileHeader) (string, error) {
	if f.failErr != nil {
		return "", f.failErr
	}
	f.keys = append(f.keys, key)
	return "https://cdn.test/uploads/" + key, nil
}

func (f *fakeBlobs) DeleteByPublicURL(context.Context, string) error { return nil }

type fakeNotifier struct {
	sent    chan string // application numbers
	sendErr error
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{sent: make(chan string, 4)}
}

func (f *fakeNotifier) SendConfirmation(_ context.Context, _, _, applicationNumber string) error {
	f.sent <- applicationNumber
	return f.sendErr
}

func uniqueViolation() error {
	return &pgconn.PgError{Code: "23505"}
}

/* =======================================================================
   Helpers
======================================================================= */

func newTestService(repo *fakeRepo, blobs *fakeBlobs, notifier Notifier) *ApplicationService {
	svc := NewApplicationService(repo, blobs, notifier)
	svc.Policy = ExamPolicy{Time: "10:00 AM - 12:00 PM", Date: "2025-12-15"}
	return svc
}

func validRequest() *dto.CreateApplicationRequest {
	return &dto.CreateApplicationRequest{
		Session:        "2026-2027",
		AdmissionClass: "Class XI Science",
		Location:       "Hojai",

		StudentName: "Rahim Uddin",
		DOB:         "2010-04-12",
		Gender:      "Male",
		Religion:    "Islam",
		Email:       "rahim@example.com",

		FatherName:       "Karim Uddin",
		FatherOccupation: "Farmer",
		WhatsappNo:       "9101234567",
		MotherName:       "Amina Begum",
		MotherOccupation: "Homemaker",
		MobileNo:         "9107654321",

		Village:    "Lanka",
		PostOffice: "Lanka PO",
		PinCode:    "782446",
		State:      "Assam",
		District:   "Hojai",

		ExamState:        "Assam",
		ExamDistrict:     "Nagaon",
		ExamCentreChoice: "Nagaon Centre A",

		InfoSource: "Newspaper",
	}
}

func fileOfSize(name string, size int64) *multipart.FileHeader {
	return &multipart.FileHeader{Filename: name, Size: size}
}

var (
	appNumberRe  = regexp.MustCompile(`^AS40-\d{4}-\d{6}$`)
	rollNumberRe = regexp.MustCompile(`^AS40R-\d{4}-\d{6}$`)
)

/* =======================================================================
   Submit
======================================================================= */

func TestSubmitMissingFieldHasNoSideEffects(t *testing.T) {
	repo := newFakeRepo()
	blobs := &fakeBlobs{}
	svc := newTestService(repo, blobs, newFakeNotifier())

	req := validRequest()
	req.StudentName = ""

	_, err := svc.Submit(context.Background(), req, fileOfSize("p.jpg", 1000), nil)

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Field != "student_name" {
		t.Errorf("expected field student_name, got %q", verr.Field)
	}
	if repo.createCalls != 0 {
		t.Errorf("no record should be created, got %d calls", repo.createCalls)
	}
	if len(blobs.keys) != 0 {
		t.Errorf("no upload should happen, got %v", blobs.keys)
	}
}

func TestSubmitAttachmentSizeBoundary(t *testing.T) {
	cases := []struct {
		name    string
		size    int64
		wantErr bool
	}{
		{"exactly at the cap", MaxAttachmentSize, false},
		{"one byte over", MaxAttachmentSize + 1, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newFakeRepo()
			blobs := &fakeBlobs{}
			svc := newTestService(repo, blobs, nil)

			_, err := svc.Submit(context.Background(), validRequest(), fileOfSize("photo.jpg", tc.size), nil)

			if tc.wantErr {
				var verr *ValidationError
				if !errors.As(err, &verr) || verr.Field != "photo" {
					t.Fatalf("expected ValidationError on photo, got %v", err)
				}
				if len(blobs.keys) != 0 {
					t.Errorf("oversized file must not be uploaded")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(blobs.keys) != 1 {
				t.Fatalf("expected one upload, got %v", blobs.keys)
			}
		})
	}
}

func TestSubmitStartsPendingWithEmptyDerivedFields(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeBlobs{}, nil)

	app, err := svc.Submit(context.Background(), validRequest(), nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if app.Status != constants.StatusPending {
		t.Errorf("status = %q, want Pending", app.Status)
	}
	if !appNumberRe.MatchString(app.ApplicationNumber) {
		t.Errorf("application number %q does not match the expected format", app.ApplicationNumber)
	}
	if app.RollNumber != "" || app.ExamTime != "" || app.ExamDate != "" || app.ExamCentre != "" {
		t.Errorf("derived fields must be empty on submission: %+v", app)
	}
	if app.PhotoURL != "" || app.SignatureURL != "" {
		t.Errorf("urls must be empty without attachments")
	}
}

func TestSubmitUploadKeysCarryApplicationNumber(t *testing.T) {
	repo := newFakeRepo()
	blobs := &fakeBlobs{}
	svc := newTestService(repo, blobs, nil)

	app, err := svc.Submit(context.Background(), validRequest(),
		fileOfSize("my photo.jpg", 1024),
		fileOfSize("sign.png", 2048))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(blobs.keys) != 2 {
		t.Fatalf("expected two uploads, got %v", blobs.keys)
	}
	wantPhoto := fmt.Sprintf("%s-photo-my_photo.jpg", app.ApplicationNumber)
	if blobs.keys[0] != wantPhoto {
		t.Errorf("photo key = %q, want %q", blobs.keys[0], wantPhoto)
	}
	if !strings.Contains(blobs.keys[1], "-signature-") {
		t.Errorf("signature key = %q", blobs.keys[1])
	}
	if app.PhotoURL == "" || app.SignatureURL == "" {
		t.Errorf("urls must be set after upload")
	}
}

func TestSubmitUploadFailureAbortsPersist(t *testing.T) {
	repo := newFakeRepo()
	blobs := &fakeBlobs{failErr: errors.New("oss down")}
	svc := newTestService(repo, blobs, nil)

	_, err := svc.Submit(context.Background(), validRequest(), fileOfSize("p.jpg", 100), nil)

	var uerr *UploadError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected UploadError, got %v", err)
	}
	if repo.createCalls != 0 {
		t.Errorf("record must not be created after a failed upload")
	}
}

func TestSubmitRetriesOnNumberCollision(t *testing.T) {
	repo := newFakeRepo()
	repo.createErrs = []error{uniqueViolation(), uniqueViolation()}
	svc := newTestService(repo, &fakeBlobs{}, nil)

	app, err := svc.Submit(context.Background(), validRequest(), nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.createCalls != 3 {
		t.Errorf("expected 3 create attempts, got %d", repo.createCalls)
	}
	if !appNumberRe.MatchString(app.ApplicationNumber) {
		t.Errorf("retried number %q malformed", app.ApplicationNumber)
	}
}

func TestSubmitGivesUpAfterNonUniqueError(t *testing.T) {
	repo := newFakeRepo()
	repo.createErrs = []error{errors.New("connection reset")}
	svc := newTestService(repo, &fakeBlobs{}, nil)

	_, err := svc.Submit(context.Background(), validRequest(), nil, nil)

	var perr *PersistenceError
	if !errors.As(err, &perr) {
		t.Fatalf("expected PersistenceError, got %v", err)
	}
	if repo.createCalls != 1 {
		t.Errorf("non-collision errors must not be retried, got %d calls", repo.createCalls)
	}
}

func TestSubmitSendsConfirmationInBackground(t *testing.T) {
	repo := newFakeRepo()
	notifier := newFakeNotifier()
	svc := newTestService(repo, &fakeBlobs{}, notifier)

	app, err := svc.Submit(context.Background(), validRequest(), nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	select {
	case num := <-notifier.sent:
		if num != app.ApplicationNumber {
			t.Errorf("confirmation sent for %q, want %q", num, app.ApplicationNumber)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("confirmation email never fired")
	}
}

func TestSubmitSwallowsNotifierFailure(t *testing.T) {
	repo := newFakeRepo()
	notifier := newFakeNotifier()
	notifier.sendErr = errors.New("brevo 500")
	svc := newTestService(repo, &fakeBlobs{}, notifier)

	if _, err := svc.Submit(context.Background(), validRequest(), nil, nil); err != nil {
		t.Fatalf("notifier failure must not surface, got %v", err)
	}

	select {
	case <-notifier.sent:
	case <-time.After(2 * time.Second):
		t.Fatal("notifier was never invoked")
	}
}

/* =======================================================================
   Decide
======================================================================= */

func submitOne(t *testing.T, svc *ApplicationService) *model.ApplicationModel {
	t.Helper()
	app, err := svc.Submit(context.Background(), validRequest(), nil, nil)
	if err != nil {
		t.Fatalf("seed submit failed: %v", err)
	}
	return app
}

func TestDecideApproveStampsDerivedFields(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeBlobs{}, nil)
	seeded := submitOne(t, svc)

	app, err := svc.Decide(context.Background(), seeded.ApplicationID, constants.StatusApproved)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if app.Status != constants.StatusApproved {
		t.Errorf("status = %q", app.Status)
	}
	if !rollNumberRe.MatchString(app.RollNumber) {
		t.Errorf("roll number %q does not match the expected format", app.RollNumber)
	}
	if app.ExamTime != svc.Policy.Time || app.ExamDate != svc.Policy.Date {
		t.Errorf("exam schedule not stamped: %q / %q", app.ExamTime, app.ExamDate)
	}
	if app.ExamCentre != seeded.ExamCentreChoice {
		t.Errorf("exam centre = %q, want the applicant's choice %q", app.ExamCentre, seeded.ExamCentreChoice)
	}
}

func TestDecideRejectChangesOnlyStatus(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeBlobs{}, nil)
	seeded := submitOne(t, svc)

	app, err := svc.Decide(context.Background(), seeded.ApplicationID, constants.StatusRejected)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if app.Status != constants.StatusRejected {
		t.Errorf("status = %q", app.Status)
	}
	if app.RollNumber != "" || app.ExamTime != "" || app.ExamDate != "" || app.ExamCentre != "" {
		t.Errorf("rejection must not stamp exam-day fields: %+v", app)
	}

	last := repo.updates[len(repo.updates)-1]
	if len(last) != 1 {
		t.Errorf("rejection should update only the status column, got %v", last)
	}
}

func TestDecideTwiceIsRejected(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeBlobs{}, nil)
	seeded := submitOne(t, svc)

	if _, err := svc.Decide(context.Background(), seeded.ApplicationID, constants.StatusApproved); err != nil {
		t.Fatalf("first decision failed: %v", err)
	}
	_, err := svc.Decide(context.Background(), seeded.ApplicationID, constants.StatusRejected)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestDecideUnknownTargetAndMissingID(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeBlobs{}, nil)
	seeded := submitOne(t, svc)

	var verr *ValidationError
	if _, err := svc.Decide(context.Background(), seeded.ApplicationID, "Pending"); !errors.As(err, &verr) {
		t.Errorf("expected ValidationError for target Pending, got %v", err)
	}
	if _, err := svc.Decide(context.Background(), uuid.New(), constants.StatusApproved); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown id, got %v", err)
	}
}

/* =======================================================================
   Lookup
======================================================================= */

func TestLookupRequiresBothFactors(t *testing.T) {
	repo := newFakeRepo()
	repo.lookupRows = []model.ApplicationModel{
		{ApplicationNumber: "AS40-2026-123456", DOB: "2010-04-12", StudentName: "Rahim Uddin"},
	}
	svc := newTestService(repo, &fakeBlobs{}, nil)
	ctx := context.Background()

	app, err := svc.Lookup(ctx, "AS40-2026-123456", "2010-04-12")
	if err != nil {
		t.Fatalf("exact match failed: %v", err)
	}
	if app.StudentName != "Rahim Uddin" {
		t.Errorf("wrong record: %+v", app)
	}

	if _, err := svc.Lookup(ctx, "AS40-2026-123456", "2010-04-13"); !errors.Is(err, ErrNotFound) {
		t.Errorf("wrong dob must read as not found, got %v", err)
	}
	if _, err := svc.Lookup(ctx, "AS40-2026-999999", "2010-04-12"); !errors.Is(err, ErrNotFound) {
		t.Errorf("wrong number must read as not found, got %v", err)
	}

	var verr *ValidationError
	if _, err := svc.Lookup(ctx, "", "2010-04-12"); !errors.As(err, &verr) {
		t.Errorf("missing number must be a validation error, got %v", err)
	}
	if _, err := svc.Lookup(ctx, "AS40-2026-123456", "  "); !errors.As(err, &verr) {
		t.Errorf("blank dob must be a validation error, got %v", err)
	}
}

func TestLookupPicksEarliestOnDuplicate(t *testing.T) {
	repo := newFakeRepo()
	// repository contract: ordered submitted_at ASC
	repo.lookupRows = []model.ApplicationModel{
		{ApplicationNumber: "AS40-2026-123456", DOB: "2010-04-12", StudentName: "first"},
		{ApplicationNumber: "AS40-2026-123456", DOB: "2010-04-12", StudentName: "second"},
	}
	svc := newTestService(repo, &fakeBlobs{}, nil)

	app, err := svc.Lookup(context.Background(), "AS40-2026-123456", "2010-04-12")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if app.StudentName != "first" {
		t.Errorf("expected the earliest submission, got %q", app.StudentName)
	}
}

/* =======================================================================
   List
======================================================================= */

func TestListRejectsUnknownStatusFilter(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeBlobs{}, nil)

	var verr *ValidationError
	_, _, err := svc.List(context.Background(), repository.ListQuery{Status: "Archived"})
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestListSearchMatchesNameNumberAndEmail(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeBlobs{}, nil)
	seeded := submitOne(t, svc)

	for _, needle := range []string{"rahim udd", strings.ToLower(seeded.ApplicationNumber), "RAHIM@EXAMPLE"} {
		apps, _, err := svc.List(context.Background(), repository.ListQuery{Search: needle})
		if err != nil {
			t.Fatalf("search %q failed: %v", needle, err)
		}
		if len(apps) != 1 {
			t.Errorf("search %q matched %d rows, want 1", needle, len(apps))
		}
	}

	apps, _, err := svc.List(context.Background(), repository.ListQuery{Search: "nobody"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(apps) != 0 {
		t.Errorf("search for an absent term matched %d rows", len(apps))
	}
}

func TestListFiltersByStatus(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeBlobs{}, nil)

	a := submitOne(t, svc)
	submitOne(t, svc)
	if _, err := svc.Decide(context.Background(), a.ApplicationID, constants.StatusApproved); err != nil {
		t.Fatalf("decide failed: %v", err)
	}

	apps, total, err := svc.List(context.Background(), repository.ListQuery{Status: constants.StatusPending})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 || len(apps) != 1 {
		t.Fatalf("expected one pending application, got %d", total)
	}
	if apps[0].Status != constants.StatusPending {
		t.Errorf("filter leaked status %q", apps[0].Status)
	}
}
