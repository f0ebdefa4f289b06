// Package server provides Connect RPC handlers for the course service.
package server

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"connectrpc.com/connect"
	"github.com/go-playground/validator/v10"
	"google.golang.org/genproto/googleapis/rpc/errdetails"

	"github.com/at-ishikawa/lessondeck/internal/catalog"
	"github.com/at-ishikawa/lessondeck/internal/embed"
	"github.com/at-ishikawa/lessondeck/internal/progress"
	"github.com/at-ishikawa/lessondeck/internal/spreadsheet"
)

// CatalogLoader is satisfied by *catalog.Loader.
type CatalogLoader interface {
	Load(ctx context.Context, moduleFilter string) (*catalog.LoadResult, error)
}

// CourseHandler implements CourseServiceHandler.
type CourseHandler struct {
	loader   CatalogLoader
	store    progress.Store
	validate *validator.Validate
}

func NewCourseHandler(loader CatalogLoader, store progress.Store) *CourseHandler {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &CourseHandler{
		loader:   loader,
		store:    store,
		validate: validate,
	}
}

// ListModules returns every module in catalog order.
func (h *CourseHandler) ListModules(
	ctx context.Context,
	req *connect.Request[ListModulesRequest],
) (*connect.Response[ListModulesResponse], error) {
	result, err := h.loader.Load(ctx, "")
	if err != nil {
		return nil, toConnectError(fmt.Errorf("load catalog: %w", err))
	}

	modules := make([]ModuleSummary, 0, len(result.Catalog.Modules))
	for _, module := range result.Catalog.Modules {
		modules = append(modules, ModuleSummary{
			ID:          module.ID,
			Name:        module.Name,
			LessonCount: len(module.Lessons),
		})
	}
	return connect.NewResponse(&ListModulesResponse{
		Modules:   modules,
		FetchedAt: result.FetchedAt,
		Stale:     result.Stale,
	}), nil
}

// ListLessons returns the lessons of one module, or of every module when no
// module is given.
func (h *CourseHandler) ListLessons(
	ctx context.Context,
	req *connect.Request[ListLessonsRequest],
) (*connect.Response[ListLessonsResponse], error) {
	result, err := h.loader.Load(ctx, req.Msg.Module)
	if err != nil {
		return nil, toConnectError(fmt.Errorf("load catalog(%s): %w", req.Msg.Module, err))
	}
	if strings.TrimSpace(req.Msg.Module) != "" && len(result.Catalog.Modules) == 0 {
		return nil, connect.NewError(connect.CodeNotFound, fmt.Errorf("module %q not found", req.Msg.Module))
	}

	lessons := result.Catalog.Lessons()
	if lessons == nil {
		lessons = []catalog.Lesson{}
	}
	return connect.NewResponse(&ListLessonsResponse{
		Lessons:   lessons,
		Defects:   result.Catalog.Defects,
		FetchedAt: result.FetchedAt,
		Stale:     result.Stale,
	}), nil
}

// ResolveEmbed turns a raw link into embed, view and download URLs.
func (h *CourseHandler) ResolveEmbed(
	ctx context.Context,
	req *connect.Request[ResolveEmbedRequest],
) (*connect.Response[ResolveEmbedResponse], error) {
	if err := h.validateRequest(req.Msg); err != nil {
		return nil, err
	}

	target, ok := embed.Resolve(req.Msg.URL)
	if !ok {
		return connect.NewResponse(&ResolveEmbedResponse{}), nil
	}
	return connect.NewResponse(&ResolveEmbedResponse{Target: &target}), nil
}

// ToggleLesson flips the completion flag of a lesson in the current catalog.
func (h *CourseHandler) ToggleLesson(
	ctx context.Context,
	req *connect.Request[ToggleLessonRequest],
) (*connect.Response[ToggleLessonResponse], error) {
	if err := h.validateRequest(req.Msg); err != nil {
		return nil, err
	}

	module, err := h.findModule(ctx, req.Msg.ModuleID)
	if err != nil {
		return nil, err
	}
	if !hasLesson(module, req.Msg.LessonID) {
		return nil, connect.NewError(connect.CodeNotFound,
			fmt.Errorf("lesson %q not found in module %q", req.Msg.LessonID, module.Name))
	}

	completed, err := h.store.ToggleComplete(ctx, req.Msg.UserID, module.ID, req.Msg.LessonID)
	if err != nil {
		return nil, toConnectError(fmt.Errorf("toggle lesson(%s/%s): %w", module.ID, req.Msg.LessonID, err))
	}
	return connect.NewResponse(&ToggleLessonResponse{Completed: completed}), nil
}

// GetModuleProgress reports which lessons of a module a user has completed.
func (h *CourseHandler) GetModuleProgress(
	ctx context.Context,
	req *connect.Request[GetModuleProgressRequest],
) (*connect.Response[GetModuleProgressResponse], error) {
	if err := h.validateRequest(req.Msg); err != nil {
		return nil, err
	}

	module, err := h.findModule(ctx, req.Msg.Module)
	if err != nil {
		return nil, err
	}

	completed, err := h.store.CompletedLessons(ctx, req.Msg.UserID, module.ID)
	if err != nil {
		return nil, toConnectError(fmt.Errorf("completed lessons(%s): %w", module.ID, err))
	}
	percentage, err := h.store.ModuleProgress(ctx, req.Msg.UserID, module.ID, len(module.Lessons))
	if err != nil {
		return nil, toConnectError(fmt.Errorf("module progress(%s): %w", module.ID, err))
	}

	return connect.NewResponse(&GetModuleProgressResponse{
		ModuleID:         module.ID,
		CompletedLessons: completed,
		TotalLessons:     len(module.Lessons),
		Percentage:       percentage,
	}), nil
}

func (h *CourseHandler) findModule(ctx context.Context, name string) (*catalog.Module, error) {
	result, err := h.loader.Load(ctx, "")
	if err != nil {
		return nil, toConnectError(fmt.Errorf("load catalog: %w", err))
	}
	module, ok := result.Catalog.Module(name)
	if !ok {
		return nil, connect.NewError(connect.CodeNotFound, fmt.Errorf("module %q not found", name))
	}
	return module, nil
}

func hasLesson(module *catalog.Module, lessonID string) bool {
	for _, lesson := range module.Lessons {
		if lesson.ID == lessonID {
			return true
		}
	}
	return false
}

func (h *CourseHandler) validateRequest(msg any) *connect.Error {
	err := h.validate.Struct(msg)
	if err == nil {
		return nil
	}

	connectErr := connect.NewError(connect.CodeInvalidArgument, err)
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		var fieldViolations []*errdetails.BadRequest_FieldViolation
		for _, e := range validationErrors {
			fieldViolations = append(fieldViolations, &errdetails.BadRequest_FieldViolation{
				Field:       e.Field(),
				Description: fmt.Sprintf("failed on the %s rule", e.Tag()),
			})
		}
		if detail, detailErr := connect.NewErrorDetail(&errdetails.BadRequest{
			FieldViolations: fieldViolations,
		}); detailErr == nil {
			connectErr.AddDetail(detail)
		}
	}
	return connectErr
}

// toConnectError maps catalog, spreadsheet and progress errors to Connect codes.
func toConnectError(err error) error {
	var schemaErr *catalog.SchemaError
	var fetchErr *spreadsheet.FetchError
	switch {
	case errors.As(err, &schemaErr):
		connectErr := connect.NewError(connect.CodeFailedPrecondition, err)
		violations := make([]*errdetails.PreconditionFailure_Violation, 0, len(schemaErr.Missing))
		for _, column := range schemaErr.Missing {
			violations = append(violations, &errdetails.PreconditionFailure_Violation{
				Type:        "COLUMN",
				Subject:     column,
				Description: "required column is missing from the spreadsheet",
			})
		}
		if detail, detailErr := connect.NewErrorDetail(&errdetails.PreconditionFailure{
			Violations: violations,
		}); detailErr == nil {
			connectErr.AddDetail(detail)
		}
		return connectErr
	case errors.As(err, &fetchErr):
		return connect.NewError(connect.CodeUnavailable, err)
	case errors.Is(err, progress.ErrEmptyKey):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}
