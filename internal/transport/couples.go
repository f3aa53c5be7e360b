package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ganot/nossoday/internal/domain/couple"
	"github.com/ganot/nossoday/internal/elapsed"
)

// CreateCoupleResponse is returned by POST /create-couple.
type CreateCoupleResponse struct {
	Message  string         `json:"message"`
	Couple   *couple.Couple `json:"couple"`
	CoupleID string         `json:"coupleId"`
}

func (s *Server) handleCreateCouple(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "upload too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File["files"]
	if len(headers) > couple.MaxPhotos {
		s.writeDomainError(w, r, fmt.Errorf("%w: %d > %d", couple.ErrTooManyPhotos, len(headers), couple.MaxPhotos))
		return
	}

	uploads, closeAll, err := openUploads(headers)
	defer closeAll()
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	c, err := s.couples.Create(r.Context(), couple.CreateRequest{
		Name:             r.FormValue("couplename"),
		RelationshipDate: r.FormValue("relationshipDate"),
		RelationshipTime: r.FormValue("relationshipTime"),
		Message:          r.FormValue("message"),
		Plan:             r.FormValue("plan"),
		YouTubeVideo:     r.FormValue("youtubeVideo"),
		Photos:           uploads,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	if s.metrics != nil {
		s.metrics.CoupleCreated(string(c.Plan))
	}

	writeJSON(w, http.StatusOK, CreateCoupleResponse{
		Message:  "Casal criado com sucesso!",
		Couple:   c,
		CoupleID: c.ID,
	})
}

func openUploads(headers []*multipart.FileHeader) ([]couple.Upload, func(), error) {
	files := make([]multipart.File, 0, len(headers))
	closeAll := func() {
		for _, f := range files {
			_ = f.Close()
		}
	}

	uploads := make([]couple.Upload, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, closeAll, fmt.Errorf("opening upload %s: %w", fh.Filename, err)
		}
		files = append(files, f)
		uploads = append(uploads, couple.Upload{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Body:        f,
		})
	}
	return uploads, closeAll, nil
}

func (s *Server) handleCouplePage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	page, err := s.couples.Page(r.Context(), id)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.renderer.Couple(w, page, "/couple/"+page.Couple.ID+"/elapsed/stream"); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
}

func (s *Server) handleElapsed(w http.ResponseWriter, r *http.Request) {
	e, err := s.couples.Elapsed(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// handleElapsedStream pushes the couple's breakdown as Server-Sent Events,
// one "elapsed" event per tick, until the client disconnects.
func (s *Server) handleElapsedStream(w http.ResponseWriter, r *http.Request) {
	rc := http.NewResponseController(w)

	sink := elapsed.SinkFunc(func(_ context.Context, b elapsed.Breakdown) error {
		data, err := json.Marshal(b)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "event: elapsed\ndata: %s\n\n", data); err != nil {
			return err
		}
		return rc.Flush()
	})

	counter, err := s.couples.Counter(r.Context(), chi.URLParam(r, "id"), s.streamInterval, sink)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	if s.metrics != nil {
		defer s.metrics.StreamOpened()()
	}

	err = counter.Run(r.Context())
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, elapsed.ErrStopped) {
		s.logger.Debug("elapsed stream ended", "path", r.URL.Path, "error", err)
	}
}
