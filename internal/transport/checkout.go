package transport

import (
	"encoding/json"
	"net/http"
)

// CreateCheckoutRequest is the body of POST /create-checkout-session.
type CreateCheckoutRequest struct {
	Plan     string `json:"plan"`
	CoupleID string `json:"coupleId"`
}

// CreateCheckoutResponse carries the session the browser redirects to.
type CreateCheckoutResponse struct {
	ID  string `json:"id"`
	URL string `json:"url,omitempty"`
}

func (s *Server) handleCreateCheckoutSession(w http.ResponseWriter, r *http.Request) {
	var req CreateCheckoutRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sess, err := s.checkout.CreateSession(r.Context(), req.Plan, req.CoupleID)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	if s.metrics != nil {
		s.metrics.CheckoutStarted()
	}

	writeJSON(w, http.StatusOK, CreateCheckoutResponse{ID: sess.ID, URL: sess.URL})
}

func (s *Server) handleSuccess(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	conf, err := s.checkout.Complete(r.Context(), q.Get("session_id"), q.Get("coupleId"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.renderer.Success(w, conf); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
}

func (s *Server) handleCancel(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("Pagamento cancelado"))
}
