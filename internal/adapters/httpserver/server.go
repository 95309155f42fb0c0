package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/nlescano/floordesk/internal/domain"
	"github.com/nlescano/floordesk/internal/usecase"
)

type Server struct {
	mux      *http.ServeMux
	clients  *usecase.ClientUC
	projects *usecase.ProjectUC
	clones   *usecase.CloneUC
	offers   *usecase.OfferUC
	catalog  domain.CatalogRepo
	renderer usecase.OfferRenderer
}

func New(clients *usecase.ClientUC, projects *usecase.ProjectUC, clones *usecase.CloneUC, offers *usecase.OfferUC, catalog domain.CatalogRepo, renderer usecase.OfferRenderer) http.Handler {
	s := &Server{
		mux:      http.NewServeMux(),
		clients:  clients,
		projects: projects,
		clones:   clones,
		offers:   offers,
		catalog:  catalog,
		renderer: renderer,
	}
	s.routes()
	return Chain(s.mux,
		RequestID,
		Recovery,
		Logging,
	)
}

func (s *Server) routes() {
	s.mux.HandleFunc("/api/clients", s.apiClients)
	s.mux.HandleFunc("/api/clients/", s.apiClientByID)

	s.mux.HandleFunc("/api/catalog", s.apiCatalog)

	s.mux.HandleFunc("/api/projects", s.apiProjects)
	s.mux.HandleFunc("/api/projects/", s.apiProjectByID)
	s.mux.HandleFunc("/api/phases/", s.apiPhaseByID)
	s.mux.HandleFunc("/api/variants/", s.apiVariantByID)
	s.mux.HandleFunc("/api/rooms/", s.apiRoomByID)

	s.mux.HandleFunc("/api/clone/room", s.apiCloneRoom)
	s.mux.HandleFunc("/api/clone/variant", s.apiCloneVariant)

	s.mux.HandleFunc("/api/offers", s.apiOffers)
	s.mux.HandleFunc("/api/offers/preview", s.apiOfferPreview)
	s.mux.HandleFunc("/api/offers/", s.apiOfferByID)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the domain error taxonomy onto status codes. The core
// never corrects input; presentation of the failure is this layer's job.
func writeError(w http.ResponseWriter, err error) {
	var ve *domain.ValidationError
	var ce *domain.ConflictError
	var se *domain.StructuralError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "validation", "details": ve.Violations})
	case errors.As(err, &ce):
		writeJSON(w, http.StatusConflict, map[string]any{"error": "conflict", "details": ce.Reason})
	case errors.As(err, &se):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"error": "structural", "details": se.Reason})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "not_found"})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "internal"})
	}
}

// pathID parses "{id}" or "{id}/{action}" after prefix.
func pathID(r *http.Request, prefix string) (uuid.UUID, string, error) {
	rest := strings.TrimPrefix(r.URL.Path, prefix)
	parts := strings.SplitN(strings.Trim(rest, "/"), "/", 2)
	id, err := uuid.Parse(parts[0])
	if err != nil {
		return uuid.Nil, "", fmt.Errorf("bad id: %w", err)
	}
	action := ""
	if len(parts) == 2 {
		action = parts[1]
	}
	return id, action, nil
}

func (s *Server) apiClients(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		all := r.URL.Query().Get("all") == "1"
		list, err := s.clients.List(r.Context(), all)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, 200, map[string]any{"items": list})
	case http.MethodPost:
		var c domain.Client
		if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
			http.Error(w, "json", 400)
			return
		}
		if err := s.clients.Create(r.Context(), &c); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, 201, c)
	default:
		http.Error(w, "method", 405)
	}
}

func (s *Server) apiClientByID(w http.ResponseWriter, r *http.Request) {
	id, _, err := pathID(r, "/api/clients/")
	if err != nil {
		http.Error(w, "id", 400)
		return
	}
	switch r.Method {
	case http.MethodGet:
		c, err := s.clients.Get(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, 200, c)
	case http.MethodPut:
		var c domain.Client
		if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
			http.Error(w, "json", 400)
			return
		}
		c.ID = id
		if err := s.clients.Update(r.Context(), &c); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, 200, c)
	case http.MethodDelete:
		if err := s.clients.Deactivate(r.Context(), id); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(204)
	default:
		http.Error(w, "method", 405)
	}
}

func (s *Server) apiCatalog(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		list, err := s.catalog.List(r.Context(), r.URL.Query().Get("category"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, 200, map[string]any{"items": list})
	case http.MethodPost:
		// New products are active unless the body says otherwise.
		p := domain.CatalogProduct{Active: true}
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			http.Error(w, "json", 400)
			return
		}
		if v := p.Validate(); !v.Empty() {
			writeError(w, domain.NewValidationError(v))
			return
		}
		if err := s.catalog.Save(r.Context(), &p); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, 201, p)
	default:
		http.Error(w, "method", 405)
	}
}

func (s *Server) apiProjects(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		clientID := uuid.Nil
		if raw := r.URL.Query().Get("client_id"); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				http.Error(w, "client_id", 400)
				return
			}
			clientID = id
		}
		list, err := s.projects.List(r.Context(), clientID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, 200, map[string]any{"items": list})
	case http.MethodPost:
		var p domain.Project
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			http.Error(w, "json", 400)
			return
		}
		if err := s.projects.Create(r.Context(), &p); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, 201, p)
	default:
		http.Error(w, "method", 405)
	}
}

func (s *Server) apiProjectByID(w http.ResponseWriter, r *http.Request) {
	id, action, err := pathID(r, "/api/projects/")
	if err != nil {
		http.Error(w, "id", 400)
		return
	}
	switch {
	case action == "" && r.Method == http.MethodGet:
		p, err := s.projects.Get(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, 200, p)
	case action == "phases" && r.Method == http.MethodPost:
		var req struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "json", 400)
			return
		}
		ph, err := s.projects.AddPhase(r.Context(), id, req.Name)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, 201, ph)
	case action == "architect" && r.Method == http.MethodPut:
		var assoc domain.ArchitectAssociation
		if err := json.NewDecoder(r.Body).Decode(&assoc); err != nil {
			http.Error(w, "json", 400)
			return
		}
		if err := s.projects.SetArchitect(r.Context(), id, assoc); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(204)
	default:
		http.Error(w, "method", 405)
	}
}

func (s *Server) apiPhaseByID(w http.ResponseWriter, r *http.Request) {
	id, action, err := pathID(r, "/api/phases/")
	if err != nil {
		http.Error(w, "id", 400)
		return
	}
	switch {
	case action == "status" && r.Method == http.MethodPost:
		var req struct {
			Status domain.PhaseStatus `json:"status"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "json", 400)
			return
		}
		ph, err := s.projects.TransitionPhase(r.Context(), id, req.Status)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, 200, ph)
	case action == "variants" && r.Method == http.MethodPost:
		// Omitting include_in_offer means included; an explicit false in
		// the body overwrites the preset.
		v := domain.Variant{IncludeInOffer: true}
		if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
			http.Error(w, "json", 400)
			return
		}
		if err := s.projects.AddVariant(r.Context(), id, &v); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, 201, v)
	default:
		http.Error(w, "method", 405)
	}
}

func (s *Server) apiVariantByID(w http.ResponseWriter, r *http.Request) {
	id, action, err := pathID(r, "/api/variants/")
	if err != nil {
		http.Error(w, "id", 400)
		return
	}
	switch {
	case action == "" && r.Method == http.MethodPut:
		var v domain.Variant
		if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
			http.Error(w, "json", 400)
			return
		}
		v.ID = id
		if err := s.projects.UpdateVariant(r.Context(), &v); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, 200, v)
	case action == "" && r.Method == http.MethodDelete:
		if err := s.projects.DeleteVariant(r.Context(), id); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(204)
	case action == "rooms" && r.Method == http.MethodPost:
		var room domain.Room
		if err := json.NewDecoder(r.Body).Decode(&room); err != nil {
			http.Error(w, "json", 400)
			return
		}
		if err := s.projects.AddRoom(r.Context(), id, &room); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, 201, room)
	default:
		http.Error(w, "method", 405)
	}
}

func (s *Server) apiRoomByID(w http.ResponseWriter, r *http.Request) {
	id, action, err := pathID(r, "/api/rooms/")
	if err != nil {
		http.Error(w, "id", 400)
		return
	}
	if action != "lines" || r.Method != http.MethodPost {
		http.Error(w, "method", 405)
		return
	}
	var req struct {
		CatalogProductID uuid.UUID `json:"catalog_product_id"`
		Quantity         *float64  `json:"quantity"`
		DiscountPct      *float64  `json:"discount_pct"`
		WastePct         *float64  `json:"waste_pct"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "json", 400)
		return
	}
	line, err := s.projects.AddLine(r.Context(), usecase.AddLineInput{
		RoomID:           id,
		CatalogProductID: req.CatalogProductID,
		Quantity:         req.Quantity,
		DiscountPct:      req.DiscountPct,
		WastePct:         req.WastePct,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, 201, line)
}

func (s *Server) apiCloneRoom(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", 405)
		return
	}
	var req struct {
		SourceRoomID    uuid.UUID   `json:"source_room_id"`
		TargetVariantID uuid.UUID   `json:"target_variant_id"`
		IncludeProducts bool        `json:"include_products"`
		ProductIDs      []uuid.UUID `json:"product_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "json", 400)
		return
	}
	clone, err := s.clones.CloneRoom(r.Context(), usecase.CloneRoomInput{
		SourceRoomID:    req.SourceRoomID,
		TargetVariantID: req.TargetVariantID,
		IncludeProducts: req.IncludeProducts,
		ProductIDs:      req.ProductIDs,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, 201, clone)
}

func (s *Server) apiCloneVariant(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", 405)
		return
	}
	var req struct {
		SourceVariantID uuid.UUID `json:"source_variant_id"`
		TargetPhaseID   uuid.UUID `json:"target_phase_id"`
		IncludeRooms    bool      `json:"include_rooms"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "json", 400)
		return
	}
	clone, err := s.clones.CloneVariant(r.Context(), usecase.CloneVariantInput{
		SourceVariantID: req.SourceVariantID,
		TargetPhaseID:   req.TargetPhaseID,
		IncludeRooms:    req.IncludeRooms,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, 201, clone)
}

type offerRequest struct {
	ProjectID   uuid.UUID   `json:"project_id"`
	PhaseID     *uuid.UUID  `json:"phase_id"`
	OfferNumber string      `json:"offer_number"`
	VariantIDs  []uuid.UUID `json:"variant_ids"`
}

func (in offerRequest) toInput() usecase.AssembleInput {
	return usecase.AssembleInput{
		ProjectID:   in.ProjectID,
		PhaseID:     in.PhaseID,
		OfferNumber: in.OfferNumber,
		VariantIDs:  in.VariantIDs,
	}
}

func (s *Server) apiOffers(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		projectID := uuid.Nil
		if raw := r.URL.Query().Get("project_id"); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				http.Error(w, "project_id", 400)
				return
			}
			projectID = id
		}
		list, err := s.offers.List(r.Context(), projectID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, 200, map[string]any{"items": list})
	case http.MethodPost:
		var req offerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "json", 400)
			return
		}
		offer, err := s.offers.Create(r.Context(), req.toInput())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, 201, offer)
	default:
		http.Error(w, "method", 405)
	}
}

func (s *Server) apiOfferPreview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", 405)
		return
	}
	var req offerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "json", 400)
		return
	}
	snap, err := s.offers.Assemble(r.Context(), req.toInput())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, 200, snap)
}

func (s *Server) apiOfferByID(w http.ResponseWriter, r *http.Request) {
	id, action, err := pathID(r, "/api/offers/")
	if err != nil {
		http.Error(w, "id", 400)
		return
	}
	switch {
	case action == "" && r.Method == http.MethodGet:
		o, err := s.offers.Get(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, 200, o)
	case action == "status" && r.Method == http.MethodPost:
		var req struct {
			Status domain.OfferStatus `json:"status"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "json", 400)
			return
		}
		// Send has side effects beyond the status flip.
		if req.Status == domain.OfferStatusSent {
			http.Error(w, "use /send", 400)
			return
		}
		o, err := s.offers.Transition(r.Context(), id, req.Status)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, 200, o)
	case action == "send" && r.Method == http.MethodPost:
		var req struct {
			To string `json:"to"`
		}
		if r.ContentLength > 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "json", 400)
				return
			}
		}
		o, err := s.offers.Send(r.Context(), id, req.To)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, 200, o)
	case action == "export" && r.Method == http.MethodGet:
		snap, err := s.offers.Snapshot(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		data, err := s.renderer.Render(snap)
		if err != nil {
			writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=offer-%s.xlsx", snap.OfferNumber))
		_, _ = w.Write(data)
	default:
		http.Error(w, "method", 405)
	}
}
