package controller

import (
	"bufio"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"super40_backend/internals/constants"
	"super40_backend/internals/features/admission/applications/dto"
	"super40_backend/internals/features/admission/applications/repository"
	"super40_backend/internals/features/admission/applications/service"
	helper "super40_backend/internals/helpers"
)

type ApplicationController struct {
	Service *service.ApplicationService
	Hub     *repository.ChangeHub // nil when the listen connection is unavailable
}

func NewApplicationController(svc *service.ApplicationService, hub *repository.ChangeHub) *ApplicationController {
	return &ApplicationController{Service: svc, Hub: hub}
}

// writeServiceError maps domain errors onto the response envelope.
func writeServiceError(c *fiber.Ctx, err error) error {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		return helper.JsonValidationError(c, map[string][]string{
			verr.Field: {verr.Reason},
		})
	}
	var uerr *service.UploadError
	if errors.As(err, &uerr) {
		log.Printf("[UPLOAD] %v", uerr)
		return helper.JsonError(c, fiber.StatusBadGateway, "File upload failed, please try again")
	}
	if errors.Is(err, service.ErrNotFound) {
		return helper.JsonError(c, fiber.StatusNotFound, "No application matches the supplied details")
	}
	if errors.Is(err, service.ErrInvalidTransition) {
		return helper.JsonError(c, fiber.StatusConflict, "Application has already been decided")
	}
	log.Printf("[ERROR] %v", err)
	return helper.JsonError(c, fiber.StatusInternalServerError, "Internal server error")
}

// Submit handles the public admission form (multipart, photo and signature
// optional).
func (ctl *ApplicationController) Submit(c *fiber.Ctx) error {
	var req dto.CreateApplicationRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid form payload")
	}

	photo, err := c.FormFile("photo")
	if err != nil {
		photo = nil
	}
	signature, err := c.FormFile("signature")
	if err != nil {
		signature = nil
	}

	app, err := ctl.Service.Submit(c.Context(), &req, photo, signature)
	if err != nil {
		return writeServiceError(c, err)
	}
	return helper.JsonCreated(c, "Application submitted successfully", dto.NewSubmitResponse(app))
}

// Status is the public two-factor status check.
func (ctl *ApplicationController) Status(c *fiber.Ctx) error {
	var req dto.StatusLookupRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request payload")
	}

	app, err := ctl.Service.Lookup(c.Context(), req.ApplicationNumber, req.DOB)
	if err != nil {
		return writeServiceError(c, err)
	}
	return helper.JsonOK(c, "Application found", dto.NewStatusLookupResponse(app))
}

// List serves the dashboard table: ?status=, ?search=, paging.
func (ctl *ApplicationController) List(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, 25, 100)
	q := repository.ListQuery{
		Status: c.Query("status"),
		Search: c.Query("search"),
		Offset: p.Offset,
		Limit:  p.Limit,
	}

	apps, total, err := ctl.Service.List(c.Context(), q)
	if err != nil {
		return writeServiceError(c, err)
	}
	return helper.JsonList(c, "OK", apps, helper.BuildPaginationFromPage(total, p.Page, p.PerPage))
}

// Detail returns one application by id.
func (ctl *ApplicationController) Detail(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid application id")
	}

	app, err := ctl.Service.Detail(c.Context(), id)
	if err != nil {
		return writeServiceError(c, err)
	}
	return helper.JsonOK(c, "OK", app)
}

func (ctl *ApplicationController) Approve(c *fiber.Ctx) error {
	return ctl.decide(c, constants.StatusApproved)
}

func (ctl *ApplicationController) Reject(c *fiber.Ctx) error {
	return ctl.decide(c, constants.StatusRejected)
}

func (ctl *ApplicationController) decide(c *fiber.Ctx, target string) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid application id")
	}

	app, err := ctl.Service.Decide(c.Context(), id, target)
	if err != nil {
		return writeServiceError(c, err)
	}
	return helper.JsonUpdated(c, fmt.Sprintf("Application %s", target), app)
}

// Stream pushes a fresh snapshot of the dashboard list over SSE whenever
// the applications table changes, plus a periodic refresh as a safety net.
func (ctl *ApplicationController) Stream(c *fiber.Ctx) error {
	q := repository.ListQuery{
		Status: c.Query("status"),
		Search: c.Query("search"),
		Limit:  100,
	}

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	var changes <-chan struct{}
	unsubscribe := func() {}
	if ctl.Hub != nil {
		changes, unsubscribe = ctl.Hub.Subscribe()
	}

	svc := ctl.Service
	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer unsubscribe()

		refresh := time.NewTicker(30 * time.Second)
		defer refresh.Stop()

		push := func() bool {
			apps, total, err := svc.List(c.Context(), q)
			if err != nil {
				log.Printf("[STREAM] snapshot failed: %v", err)
				return true
			}
			payload, err := sonic.Marshal(fiber.Map{"total": total, "applications": apps})
			if err != nil {
				return true
			}
			if _, err := fmt.Fprintf(w, "event: applications\ndata: %s\n\n", payload); err != nil {
				return false
			}
			return w.Flush() == nil
		}

		if !push() {
			return
		}
		for {
			select {
			case _, ok := <-changes:
				if !ok {
					return
				}
				if !push() {
					return
				}
			case <-refresh.C:
				if !push() {
					return
				}
			}
		}
	})
	return nil
}
