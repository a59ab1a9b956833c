package divisionhandlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	divisionservice "github.com/Black-And-White-Club/dart-league/app/modules/division/application"
	divisiondomain "github.com/Black-And-White-Club/dart-league/app/modules/division/domain"
	"github.com/Black-And-White-Club/dart-league/app/shared/asof"
	"github.com/Black-And-White-Club/dart-league/app/shared/clock"
	"github.com/Black-And-White-Club/dart-league/app/shared/observability/attr"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// StandingsHandlers serves division standings and their exports.
type StandingsHandlers struct {
	service divisionservice.Service
	asOf    *asof.Parser
	clock   clock.Clock
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewStandingsHandlers creates a new StandingsHandlers instance.
func NewStandingsHandlers(
	service divisionservice.Service,
	parser *asof.Parser,
	clk clock.Clock,
	logger *slog.Logger,
	tracer trace.Tracer,
) *StandingsHandlers {
	if parser == nil {
		parser = asof.NewParser(nil)
	}
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &StandingsHandlers{
		service: service,
		asOf:    parser,
		clock:   clk,
		logger:  logger,
		tracer:  tracer,
	}
}

// Routes mounts the standings endpoints below a division season.
func (h *StandingsHandlers) Routes(r chi.Router) {
	r.Route("/{divisionID}/seasons/{seasonID}", func(r chi.Router) {
		r.Get("/standings", h.HandleStandings)
		r.Get("/standings.xlsx", h.HandleWorkbook)
		r.Get("/points.png", h.HandlePointsChart)
	})
}

// HandleStandings returns the ranked teams and players. An asOf query
// parameter recomputes them as they were visible at that time.
func (h *StandingsHandlers) HandleStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "StandingsHandlers.HandleStandings")
	defer span.End()

	divisionID, seasonID, ok := seasonParams(w, r)
	if !ok {
		return
	}

	var (
		result *divisiondomain.Result
		err    error
	)
	if raw := r.URL.Query().Get("asOf"); raw != "" {
		at, perr := h.asOf.Parse(raw, h.clock)
		if perr != nil {
			writeJSONError(w, http.StatusBadRequest, perr.Error())
			return
		}
		result, err = h.service.StandingsAsOf(ctx, divisionID, seasonID, at)
	} else {
		result, err = h.service.Standings(ctx, divisionID, seasonID)
	}
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *StandingsHandlers) HandleWorkbook(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "StandingsHandlers.HandleWorkbook")
	defer span.End()

	divisionID, seasonID, ok := seasonParams(w, r)
	if !ok {
		return
	}
	data, err := h.service.ExportWorkbook(ctx, divisionID, seasonID)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="standings.xlsx"`)
	writeBytes(w, xlsxContentType, data)
}

func (h *StandingsHandlers) HandlePointsChart(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "StandingsHandlers.HandlePointsChart")
	defer span.End()

	divisionID, seasonID, ok := seasonParams(w, r)
	if !ok {
		return
	}
	data, err := h.service.PointsChart(ctx, divisionID, seasonID)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	writeBytes(w, "image/png", data)
}

func seasonParams(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	divisionID, err := uuid.Parse(chi.URLParam(r, "divisionID"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid division id")
		return uuid.Nil, uuid.Nil, false
	}
	seasonID, err := uuid.Parse(chi.URLParam(r, "seasonID"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid season id")
		return uuid.Nil, uuid.Nil, false
	}
	return divisionID, seasonID, true
}

func (h *StandingsHandlers) internalError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.ErrorContext(r.Context(), "Standings request failed", attr.ExtractCorrelationID(r.Context()), attr.Error(err))
	writeJSONError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
}

func writeBytes(w http.ResponseWriter, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
