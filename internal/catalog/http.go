package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"ShopCatalog/pkg/kit"
)

const maxBodyBytes = 1 << 20

const (
	msgNotFound = "Product not found"
	msgInternal = "Internal server error"
)

var errBodyTooLarge = errors.New("request body too large")

type Server struct {
	Store      Store
	Categories *Categories
	Log        *zap.Logger

	validate *Validator
}

func NewServer(store Store, categories *Categories, log *zap.Logger) *Server {
	if categories == nil {
		categories = NewCategories(DefaultCategories)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		Store:      store,
		Categories: categories,
		Log:        log,
		validate:   NewValidator(categories),
	}
}

// Routes returns the product API. guards wrap the mutating endpoints only.
func (s *Server) Routes(guards ...func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()

	r.Get("/products", s.list)
	r.Get("/products/{id}", s.get)
	r.Get("/categories", s.listCategories)
	r.Get("/openapi.json", serveOpenAPI)

	r.Group(func(wr chi.Router) {
		wr.Use(guards...)
		wr.Post("/products", s.create)
		wr.Patch("/products/{id}", s.update)
		wr.Delete("/products/{id}", s.remove)
	})

	return r
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	f := Filter{Category: strings.TrimSpace(r.URL.Query().Get("category"))}

	products, err := s.Store.List(r.Context(), f)
	if err != nil {
		s.internalError(w, r, "list products failed", err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, products)
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(r)
	if !ok {
		notFound(w, r)
		return
	}

	p, found, err := s.Store.Get(r.Context(), id)
	if err != nil {
		s.internalError(w, r, "get product failed", err, zap.Int64("id", id))
		return
	}
	if !found {
		notFound(w, r)
		return
	}
	kit.WriteJSON(w, http.StatusOK, p)
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	in, err := decodeInput(w, r)
	if err != nil {
		s.writeInputError(w, r, err)
		return
	}

	fields, err := s.validate.Create(in)
	if err != nil {
		s.writeInputError(w, r, err)
		return
	}

	p, err := s.Store.Create(r.Context(), fields)
	if err != nil {
		s.internalError(w, r, "create product failed", err)
		return
	}

	s.Log.Info("product created", zap.Int64("id", p.ID), zap.String("category", p.Category))
	kit.WriteJSON(w, http.StatusCreated, p)
}

func (s *Server) update(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(r)
	if !ok {
		notFound(w, r)
		return
	}

	_, found, err := s.Store.Get(r.Context(), id)
	if err != nil {
		s.internalError(w, r, "get product failed", err, zap.Int64("id", id))
		return
	}
	if !found {
		notFound(w, r)
		return
	}

	in, err := decodeInput(w, r)
	if err != nil {
		s.writeInputError(w, r, err)
		return
	}

	patch, err := s.validate.Patch(in)
	if err != nil {
		s.writeInputError(w, r, err)
		return
	}

	p, found, err := s.Store.Update(r.Context(), id, patch)
	if err != nil {
		s.internalError(w, r, "update product failed", err, zap.Int64("id", id))
		return
	}
	if !found {
		notFound(w, r)
		return
	}

	if !patch.Empty() {
		s.Log.Info("product updated", zap.Int64("id", id))
	}
	kit.WriteJSON(w, http.StatusOK, p)
}

func (s *Server) remove(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(r)
	if !ok {
		notFound(w, r)
		return
	}

	removed, err := s.Store.Delete(r.Context(), id)
	if err != nil {
		s.internalError(w, r, "delete product failed", err, zap.Int64("id", id))
		return
	}
	if !removed {
		notFound(w, r)
		return
	}

	s.Log.Info("product deleted", zap.Int64("id", id))
	kit.NoContent(w)
}

func (s *Server) listCategories(w http.ResponseWriter, _ *http.Request) {
	kit.WriteJSON(w, http.StatusOK, s.Categories.Names())
}

// productID parses the {id} URL parameter. Anything that is not a positive
// integer cannot name a product.
func productID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// decodeInput reads a single JSON object. An empty body decodes as {}.
func decodeInput(w http.ResponseWriter, r *http.Request) (productInput, error) {
	var in productInput
	err := kit.DecodeJSON(w, r, &in, maxBodyBytes, false)
	switch {
	case err == nil:
		return in, nil
	case errors.Is(err, kit.ErrEmptyBody):
		return productInput{}, nil
	case errors.Is(err, kit.ErrTrailingData):
		return productInput{}, &ValidationError{Message: err.Error()}
	default:
		return productInput{}, decodeError(err)
	}
}

func decodeError(err error) error {
	var (
		tooLarge *http.MaxBytesError
		typeErr  *json.UnmarshalTypeError
	)
	switch {
	case errors.As(err, &tooLarge):
		return errBodyTooLarge
	case errors.As(err, &typeErr) && typeErr.Field != "":
		return &ValidationError{
			Message: fmt.Sprintf("%s must be a %s", typeErr.Field, jsonKind(typeErr.Type.String())),
			Fields: []FieldError{{
				Field:   typeErr.Field,
				Code:    "INVALID_TYPE",
				Message: fmt.Sprintf("got %s", typeErr.Value),
			}},
		}
	case errors.As(err, &typeErr):
		return &ValidationError{Message: "request body must be a JSON object"}
	default:
		return &ValidationError{Message: "malformed JSON body"}
	}
}

func jsonKind(goType string) string {
	switch strings.TrimPrefix(goType, "*") {
	case "string":
		return "string"
	default:
		return "number"
	}
}

func (s *Server) writeInputError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *ValidationError
	switch {
	case errors.Is(err, errBodyTooLarge):
		kit.WriteError(w, r, http.StatusRequestEntityTooLarge, "Request body too large", map[string]any{"max_bytes": maxBodyBytes})
	case errors.As(err, &ve):
		var details any
		if len(ve.Fields) > 0 {
			details = ve.Fields
		}
		kit.WriteError(w, r, http.StatusBadRequest, ve.Message, details)
	default:
		s.internalError(w, r, "validate product failed", err)
	}
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, msg string, err error, fields ...zap.Field) {
	fields = append(fields, zap.Error(err), zap.String("request_id", requestID(r)))
	s.Log.Error(msg, fields...)
	kit.WriteError(w, r, http.StatusInternalServerError, msgInternal, nil)
}

func notFound(w http.ResponseWriter, r *http.Request) {
	kit.WriteError(w, r, http.StatusNotFound, msgNotFound, nil)
}
