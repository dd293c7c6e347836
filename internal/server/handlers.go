package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/KaramelBytes/tabloom-cli/internal/analysis"
	"github.com/KaramelBytes/tabloom-cli/internal/table"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

// frame is the row-oriented table payload shared by every endpoint. Columns
// fixes header order; when omitted it is derived from the row keys.
type frame struct {
	Dataframe []map[string]table.Cell `json:"dataframe" validate:"required"`
	Columns   []string                `json:"columns"`
}

func (f frame) table() *table.Table { return table.FromRecords(f.Columns, f.Dataframe) }

type correlationRequest struct {
	Dataframe []map[string]table.Cell `json:"dataframe" validate:"required"`
	Columns   []string                `json:"columns" validate:"required"`
	Order     string                  `json:"order"`
}

type correlationResponse struct {
	Status            string                        `json:"status"`
	Columns           []string                      `json:"columns"`
	Rows              int                           `json:"rows"`
	CorrelationMatrix map[string]map[string]float64 `json:"correlation_matrix"`
}

type aggregateRequest struct {
	frame
	GroupBy  string          `json:"group_by" validate:"required"`
	Value    string          `json:"value" validate:"required"`
	Operator string          `json:"operator" validate:"required"`
	Filter   analysis.Filter `json:"filter"`
}

type reportRequest struct {
	frame
	GroupBy string          `json:"group_by" validate:"required"`
	Filter  analysis.Filter `json:"filter"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}

func (s *Server) handleCorrelation(w http.ResponseWriter, r *http.Request) {
	var req correlationRequest
	if !s.decode(w, r, &req) {
		return
	}
	order, err := analysis.ParseOrder(req.Order)
	if err != nil {
		s.fail(w, r, http.StatusBadRequest, err)
		return
	}
	t := table.FromRecords(nil, req.Dataframe)
	m, err := analysis.Correlate(t, req.Columns, order)
	if err != nil {
		s.failAnalysis(w, r, err)
		return
	}
	render.JSON(w, r, correlationResponse{Status: "success", Columns: m.Columns, Rows: m.Rows, CorrelationMatrix: m.Map()})
}

func (s *Server) handleAggregate(w http.ResponseWriter, r *http.Request) {
	var req aggregateRequest
	if !s.decode(w, r, &req) {
		return
	}
	op, err := analysis.ParseOperator(req.Operator)
	if err != nil {
		s.fail(w, r, http.StatusBadRequest, err)
		return
	}
	t, err := req.Filter.Apply(req.table())
	if err != nil {
		s.failAnalysis(w, r, err)
		return
	}
	res, err := analysis.Aggregate(t, req.GroupBy, req.Value, op)
	if err != nil {
		s.failAnalysis(w, r, err)
		return
	}
	render.JSON(w, r, res)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	var req reportRequest
	if !s.decode(w, r, &req) {
		return
	}
	rep, err := analysis.BuildReport(req.table(), req.GroupBy, req.Filter)
	if err != nil {
		s.failAnalysis(w, r, err)
		return
	}
	render.JSON(w, r, rep)
}

func (s *Server) handleDescribe(w http.ResponseWriter, r *http.Request) {
	var req frame
	if !s.decode(w, r, &req) {
		return
	}
	render.JSON(w, r, analysis.Describe(req.table()))
}

// decode reads and validates a JSON body, writing a 400 on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBody)
	if err := render.DecodeJSON(r.Body, v); err != nil {
		s.fail(w, r, http.StatusBadRequest, fmt.Errorf("invalid JSON body: %w", err))
		return false
	}
	if err := s.validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			err = fmt.Errorf("missing or invalid field %q", verrs[0].Field())
		}
		s.fail(w, r, http.StatusBadRequest, err)
		return false
	}
	return true
}

// failAnalysis maps engine errors: bad input is a 400, anything else a 500.
func (s *Server) failAnalysis(w http.ResponseWriter, r *http.Request, err error) {
	var (
		ide *table.InsufficientDataError
		ice *table.InvalidColumnError
	)
	if errors.As(err, &ide) || errors.As(err, &ice) {
		s.fail(w, r, http.StatusBadRequest, err)
		return
	}
	s.fail(w, r, http.StatusInternalServerError, err)
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, status int, err error) {
	if status >= 500 {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
	} else {
		s.logger.Debug("request rejected", "path", r.URL.Path, "status", status, "error", err)
	}
	render.Status(r, status)
	render.JSON(w, r, errorResponse{Error: err.Error()})
}
