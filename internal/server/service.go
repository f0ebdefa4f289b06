package server

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

const CourseServiceName = "lessondeck.v1.CourseService"

const (
	CourseServiceListModulesProcedure       = "/" + CourseServiceName + "/ListModules"
	CourseServiceListLessonsProcedure       = "/" + CourseServiceName + "/ListLessons"
	CourseServiceResolveEmbedProcedure      = "/" + CourseServiceName + "/ResolveEmbed"
	CourseServiceToggleLessonProcedure      = "/" + CourseServiceName + "/ToggleLesson"
	CourseServiceGetModuleProgressProcedure = "/" + CourseServiceName + "/GetModuleProgress"
)

// CourseServiceHandler is the server side of the course service.
type CourseServiceHandler interface {
	ListModules(context.Context, *connect.Request[ListModulesRequest]) (*connect.Response[ListModulesResponse], error)
	ListLessons(context.Context, *connect.Request[ListLessonsRequest]) (*connect.Response[ListLessonsResponse], error)
	ResolveEmbed(context.Context, *connect.Request[ResolveEmbedRequest]) (*connect.Response[ResolveEmbedResponse], error)
	ToggleLesson(context.Context, *connect.Request[ToggleLessonRequest]) (*connect.Response[ToggleLessonResponse], error)
	GetModuleProgress(context.Context, *connect.Request[GetModuleProgressRequest]) (*connect.Response[GetModuleProgressResponse], error)
}

// NewCourseServiceHandler returns the path to mount the service on and its handler.
func NewCourseServiceHandler(svc CourseServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(jsonCodec{})}, opts...)

	handlers := map[string]http.Handler{
		CourseServiceListModulesProcedure:       connect.NewUnaryHandler(CourseServiceListModulesProcedure, svc.ListModules, opts...),
		CourseServiceListLessonsProcedure:       connect.NewUnaryHandler(CourseServiceListLessonsProcedure, svc.ListLessons, opts...),
		CourseServiceResolveEmbedProcedure:      connect.NewUnaryHandler(CourseServiceResolveEmbedProcedure, svc.ResolveEmbed, opts...),
		CourseServiceToggleLessonProcedure:      connect.NewUnaryHandler(CourseServiceToggleLessonProcedure, svc.ToggleLesson, opts...),
		CourseServiceGetModuleProgressProcedure: connect.NewUnaryHandler(CourseServiceGetModuleProgressProcedure, svc.GetModuleProgress, opts...),
	}
	return "/" + CourseServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handler, ok := handlers[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		handler.ServeHTTP(w, r)
	})
}

// CourseServiceClient calls the course service with the JSON codec.
type CourseServiceClient struct {
	listModules       *connect.Client[ListModulesRequest, ListModulesResponse]
	listLessons       *connect.Client[ListLessonsRequest, ListLessonsResponse]
	resolveEmbed      *connect.Client[ResolveEmbedRequest, ResolveEmbedResponse]
	toggleLesson      *connect.Client[ToggleLessonRequest, ToggleLessonResponse]
	getModuleProgress *connect.Client[GetModuleProgressRequest, GetModuleProgressResponse]
}

func NewCourseServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *CourseServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(jsonCodec{})}, opts...)
	return &CourseServiceClient{
		listModules:       connect.NewClient[ListModulesRequest, ListModulesResponse](httpClient, baseURL+CourseServiceListModulesProcedure, opts...),
		listLessons:       connect.NewClient[ListLessonsRequest, ListLessonsResponse](httpClient, baseURL+CourseServiceListLessonsProcedure, opts...),
		resolveEmbed:      connect.NewClient[ResolveEmbedRequest, ResolveEmbedResponse](httpClient, baseURL+CourseServiceResolveEmbedProcedure, opts...),
		toggleLesson:      connect.NewClient[ToggleLessonRequest, ToggleLessonResponse](httpClient, baseURL+CourseServiceToggleLessonProcedure, opts...),
		getModuleProgress: connect.NewClient[GetModuleProgressRequest, GetModuleProgressResponse](httpClient, baseURL+CourseServiceGetModuleProgressProcedure, opts...),
	}
}

func (c *CourseServiceClient) ListModules(ctx context.Context, req *connect.Request[ListModulesRequest]) (*connect.Response[ListModulesResponse], error) {
	return c.listModules.CallUnary(ctx, req)
}

func (c *CourseServiceClient) ListLessons(ctx context.Context, req *connect.Request[ListLessonsRequest]) (*connect.Response[ListLessonsResponse], error) {
	return c.listLessons.CallUnary(ctx, req)
}

func (c *CourseServiceClient) ResolveEmbed(ctx context.Context, req *connect.Request[ResolveEmbedRequest]) (*connect.Response[ResolveEmbedResponse], error) {
	return c.resolveEmbed.CallUnary(ctx, req)
}

func (c *CourseServiceClient) ToggleLesson(ctx context.Context, req *connect.Request[ToggleLessonRequest]) (*connect.Response[ToggleLessonResponse], error) {
	return c.toggleLesson.CallUnary(ctx, req)
}

func (c *CourseServiceClient) GetModuleProgress(ctx context.Context, req *connect.Request[GetModuleProgressRequest]) (*connect.Response[GetModuleProgressResponse], error) {
	return c.getModuleProgress.CallUnary(ctx, req)
}
