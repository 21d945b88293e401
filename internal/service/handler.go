package service

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/eventbook/internal/composition"
	"github.com/mmynk/eventbook/internal/ordering"
	"github.com/mmynk/eventbook/internal/storage"
)

// ServiceName is the fully-qualified name of the event service.
const ServiceName = "eventbook.v1.EventService"

// Procedure paths.
const (
	SaveProcedure     = "/" + ServiceName + "/Save"
	GetEventProcedure = "/" + ServiceName + "/GetEvent"
	SummaryProcedure  = "/" + ServiceName + "/Summary"
	ComposeProcedure  = "/" + ServiceName + "/Compose"
	AllocateProcedure = "/" + ServiceName + "/Allocate"
	MoveProcedure     = "/" + ServiceName + "/Move"
)

// displayPlaces is the rounding used for displayed amounts.
const displayPlaces = 2

// NewHandler builds an HTTP handler serving every procedure of svc. It returns
// the path to mount the handler on.
func NewHandler(svc *EventService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{WithJSON()}, opts...)

	mux := http.NewServeMux()
	mux.Handle(SaveProcedure, connect.NewUnaryHandler(SaveProcedure, svc.handleSave, opts...))
	mux.Handle(GetEventProcedure, connect.NewUnaryHandler(GetEventProcedure, svc.handleGetEvent, opts...))
	mux.Handle(SummaryProcedure, connect.NewUnaryHandler(SummaryProcedure, svc.handleSummary, opts...))
	mux.Handle(ComposeProcedure, connect.NewUnaryHandler(ComposeProcedure, svc.handleCompose, opts...))
	mux.Handle(AllocateProcedure, connect.NewUnaryHandler(AllocateProcedure, svc.handleAllocate, opts...))
	mux.Handle(MoveProcedure, connect.NewUnaryHandler(MoveProcedure, svc.handleMove, opts...))
	return "/" + ServiceName + "/", mux
}

func (s *EventService) handleSave(ctx context.Context, req *connect.Request[SaveRequest]) (*connect.Response[SaveResponse], error) {
	slog.Info("Save request received",
		"event_id", req.Msg.Event.ID,
		"lines_count", len(req.Msg.Lines),
		"payments_count", len(req.Msg.Payments),
	)

	result, err := s.Save(ctx, req.Msg.Event, req.Msg.Lines, req.Msg.Payments)
	if err != nil {
		slog.Error("Save failed", "event_id", req.Msg.Event.ID, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&SaveResponse{Result: result}), nil
}

func (s *EventService) handleGetEvent(ctx context.Context, req *connect.Request[GetEventRequest]) (*connect.Response[GetEventResponse], error) {
	details, err := s.Get(ctx, req.Msg.EventID)
	if err != nil {
		slog.Error("GetEvent failed", "event_id", req.Msg.EventID, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&GetEventResponse{Details: details}), nil
}

func (s *EventService) handleSummary(ctx context.Context, req *connect.Request[SummaryRequest]) (*connect.Response[SummaryResponse], error) {
	summary, err := s.Summary(ctx, req.Msg.EventID)
	if err != nil {
		slog.Error("Summary failed", "event_id", req.Msg.EventID, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&SummaryResponse{
		Summary: summary,
		Display: summary.Display(displayPlaces),
	}), nil
}

func (s *EventService) handleCompose(ctx context.Context, req *connect.Request[ComposeRequest]) (*connect.Response[ComposeResponse], error) {
	if len(req.Msg.Lines) > 0 {
		return connect.NewResponse(&ComposeResponse{Composition: composition.Group(req.Msg.Lines)}), nil
	}
	comp, err := s.Compose(ctx, req.Msg.EventID)
	if err != nil {
		slog.Error("Compose failed", "event_id", req.Msg.EventID, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&ComposeResponse{Composition: comp}), nil
}

func (s *EventService) handleAllocate(_ context.Context, req *connect.Request[AllocateRequest]) (*connect.Response[AllocateResponse], error) {
	return connect.NewResponse(&AllocateResponse{
		OrderIndex: ordering.Allocate(req.Msg.Destination, req.Msg.Position),
	}), nil
}

func (s *EventService) handleMove(ctx context.Context, req *connect.Request[MoveRequest]) (*connect.Response[MoveResponse], error) {
	lines, err := s.Move(ctx, req.Msg.Lines, req.Msg.LineID, req.Msg.Destination, req.Msg.Position)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&MoveResponse{Lines: lines}), nil
}

// toConnectError maps domain errors to RPC codes.
func toConnectError(err error) *connect.Error {
	switch {
	case errors.Is(err, ErrValidation):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, storage.ErrNotFound),
		errors.Is(err, ordering.ErrLineNotFound),
		errors.Is(err, ordering.ErrUnknownPackage):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, ordering.ErrInvalidMove):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

