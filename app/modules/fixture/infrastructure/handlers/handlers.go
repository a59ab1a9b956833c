package fixturehandlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	fixtureservice "github.com/Black-And-White-Club/dart-league/app/modules/fixture/application"
	fixturedomain "github.com/Black-And-White-Club/dart-league/app/modules/fixture/domain"
	fixturedb "github.com/Black-And-White-Club/dart-league/app/modules/fixture/infrastructure/repositories"
	"github.com/Black-And-White-Club/dart-league/app/shared/httpmiddleware"
	"github.com/Black-And-White-Club/dart-league/app/shared/observability/attr"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

const maxBodyBytes = 1 << 20

// FixtureHandlers serves the fixture merge API.
type FixtureHandlers struct {
	service fixtureservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewFixtureHandlers creates a new FixtureHandlers instance.
func NewFixtureHandlers(
	service fixtureservice.Service,
	logger *slog.Logger,
	tracer trace.Tracer,
) *FixtureHandlers {
	return &FixtureHandlers{
		service: service,
		logger:  logger,
		tracer:  tracer,
	}
}

// Routes mounts the fixture endpoints. Read routes are open; write routes
// pass through writeMiddleware.
func (h *FixtureHandlers) Routes(r chi.Router, writeMiddleware ...func(http.Handler) http.Handler) {
	r.Route("/{fixtureID}", func(r chi.Router) {
		r.Get("/", h.HandleGetFixture)
		r.Get("/merge", h.HandleGetMergeView)

		r.Group(func(r chi.Router) {
			r.Use(writeMiddleware...)
			r.Put("/submissions/{side}", h.HandleSubmitScorecard)
			r.Post("/slots/{index}/accept", h.HandleMergeSlot)
			r.Post("/accept", h.HandleAcceptAll)
			r.Post("/accolades/{category}/accept", h.HandleMergeAccoladeList)
			r.Post("/motm/{side}/accept", h.HandleMergeManOfMatch)
			r.Post("/unpublish", h.HandleUnpublish)
		})
	})
}

// editBody is the body of every merge request.
type editBody struct {
	Side    fixturedomain.Side `json:"side"`
	Updated time.Time          `json:"updated"`
}

// submissionBody is the body of a scorecard submission.
type submissionBody struct {
	Updated   time.Time             `json:"updated"`
	Scorecard fixturedomain.Fixture `json:"scorecard"`
}

func (h *FixtureHandlers) HandleGetFixture(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "FixtureHandlers.HandleGetFixture")
	defer span.End()

	id, ok := h.fixtureID(w, r)
	if !ok {
		return
	}
	f, err := h.service.GetFixture(ctx, id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (h *FixtureHandlers) HandleGetMergeView(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "FixtureHandlers.HandleGetMergeView")
	defer span.End()

	id, ok := h.fixtureID(w, r)
	if !ok {
		return
	}
	view, err := h.service.MergeView(ctx, id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *FixtureHandlers) HandleSubmitScorecard(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "FixtureHandlers.HandleSubmitScorecard")
	defer span.End()

	id, ok := h.fixtureID(w, r)
	if !ok {
		return
	}
	var body submissionBody
	if !h.decode(w, r, &body) {
		return
	}
	side := fixturedomain.Side(chi.URLParam(r, "side"))
	f, err := h.service.SubmitScorecard(ctx, editRequest(r, id, body.Updated), side, body.Scorecard)
	h.respond(w, r, f, err)
}

func (h *FixtureHandlers) HandleMergeSlot(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "FixtureHandlers.HandleMergeSlot")
	defer span.End()

	id, ok := h.fixtureID(w, r)
	if !ok {
		return
	}
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "slot index must be a number")
		return
	}
	var body editBody
	if !h.decode(w, r, &body) {
		return
	}
	f, err := h.service.MergeSlot(ctx, editRequest(r, id, body.Updated), index, body.Side)
	h.respond(w, r, f, err)
}

func (h *FixtureHandlers) HandleAcceptAll(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "FixtureHandlers.HandleAcceptAll")
	defer span.End()

	id, ok := h.fixtureID(w, r)
	if !ok {
		return
	}
	var body editBody
	if !h.decode(w, r, &body) {
		return
	}
	f, err := h.service.AcceptAll(ctx, editRequest(r, id, body.Updated), body.Side)
	h.respond(w, r, f, err)
}

func (h *FixtureHandlers) HandleMergeAccoladeList(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "FixtureHandlers.HandleMergeAccoladeList")
	defer span.End()

	id, ok := h.fixtureID(w, r)
	if !ok {
		return
	}
	var body editBody
	if !h.decode(w, r, &body) {
		return
	}
	category := fixturedomain.AccoladeCategory(chi.URLParam(r, "category"))
	f, err := h.service.MergeAccoladeList(ctx, editRequest(r, id, body.Updated), category, body.Side)
	h.respond(w, r, f, err)
}

func (h *FixtureHandlers) HandleMergeManOfMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "FixtureHandlers.HandleMergeManOfMatch")
	defer span.End()

	id, ok := h.fixtureID(w, r)
	if !ok {
		return
	}
	var body editBody
	if !h.decode(w, r, &body) {
		return
	}
	side := fixturedomain.Side(chi.URLParam(r, "side"))
	f, err := h.service.MergeManOfMatch(ctx, editRequest(r, id, body.Updated), side)
	h.respond(w, r, f, err)
}

func (h *FixtureHandlers) HandleUnpublish(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "FixtureHandlers.HandleUnpublish")
	defer span.End()

	id, ok := h.fixtureID(w, r)
	if !ok {
		return
	}
	var body editBody
	if !h.decode(w, r, &body) {
		return
	}
	f, err := h.service.Unpublish(ctx, editRequest(r, id, body.Updated))
	h.respond(w, r, f, err)
}

func editRequest(r *http.Request, id uuid.UUID, updated time.Time) fixtureservice.EditRequest {
	return fixtureservice.EditRequest{
		FixtureID:       id,
		ExpectedUpdated: updated,
		Editor:          r.Header.Get(httpmiddleware.EditorHeader),
	}
}

func (h *FixtureHandlers) fixtureID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "fixtureID"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid fixture id")
		return uuid.Nil, false
	}
	return id, true
}

func (h *FixtureHandlers) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		h.logger.WarnContext(r.Context(), "Invalid request body", attr.ExtractCorrelationID(r.Context()), attr.Error(err))
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func (h *FixtureHandlers) respond(w http.ResponseWriter, r *http.Request, f *fixturedomain.Fixture, err error) {
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (h *FixtureHandlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "Fixture request failed", attr.ExtractCorrelationID(r.Context()), attr.Error(err))
		writeJSONError(w, status, http.StatusText(status))
		return
	}
	writeJSONError(w, status, err.Error())
}

// StatusFor maps service errors to HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, fixturedb.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, fixturedb.ErrConcurrentUpdate),
		errors.Is(err, fixturedomain.ErrSlotPublished),
		errors.Is(err, fixturedomain.ErrAlreadyMerged):
		return http.StatusConflict
	case errors.Is(err, fixturedomain.ErrNoSubmission),
		errors.Is(err, fixturedomain.ErrSlotNotSubmitted),
		errors.Is(err, fixturedomain.ErrNothingToMerge):
		return http.StatusUnprocessableEntity
	case errors.Is(err, fixturedomain.ErrSlotOutOfRange),
		errors.Is(err, fixturedomain.ErrInvalidSide),
		errors.Is(err, fixturedomain.ErrInvalidCategory),
		errors.Is(err, fixturedomain.ErrUnknownCategory),
		errors.Is(err, fixturedomain.ErrInvalidScore),
		errors.Is(err, fixturedomain.ErrPlayerCount):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
