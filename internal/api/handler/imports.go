package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mcoot/puzzleboard/internal/api/request"
	"github.com/mcoot/puzzleboard/internal/api/response"
	"github.com/mcoot/puzzleboard/internal/model"
	"github.com/mcoot/puzzleboard/internal/services/auth"
	"github.com/mcoot/puzzleboard/internal/services/ingest"
	"github.com/mcoot/puzzleboard/internal/storage"
)

const defaultImportsLimit = 20

// ImportHandler handles chat uploads and import history
type ImportHandler struct {
	ingest  ingest.ServiceInterface
	storage storage.Storage
	auth    auth.ServiceInterface
}

// NewImportHandler creates a new import handler
func NewImportHandler(ingest ingest.ServiceInterface, storage storage.Storage, auth auth.ServiceInterface) *ImportHandler {
	return &ImportHandler{
		ingest:  ingest,
		storage: storage,
		auth:    auth,
	}
}

// Create handles POST /api/v1/imports
func (h *ImportHandler) Create(w http.ResponseWriter, r *http.Request) {
	upload, err := request.ReadUpload(w, r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteError(w, err)
			return
		}
		if errors.Is(err, request.ErrNoFile) {
			WriteError(w, NewInvalidRequestError(err.Error()))
			return
		}
		WriteError(w, NewInvalidRequestError("Invalid upload"))
		return
	}
	defer upload.Body.Close()

	if err := h.auth.Verify(upload.Key); err != nil {
		WriteError(w, err)
		return
	}

	result, err := h.ingest.Import(r.Context(), upload.Source, upload.Body)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.ImportResult{
		Import: response.ImportFromModel(result.Import),
		Stats:  result.Stats,
	})
}

// List handles GET /api/v1/imports?limit=
func (h *ImportHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := defaultImportsLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			WriteError(w, NewInvalidRequestError("limit must be a positive integer"))
			return
		}
		limit = n
	}

	imports, err := h.storage.ListImports(r.Context(), limit)
	if err != nil {
		WriteError(w, err)
		return
	}

	resp := make([]response.Import, len(imports))
	for i, imp := range imports {
		resp[i] = response.ImportFromModel(imp)
	}
	response.JSON(w, http.StatusOK, resp)
}

// Get handles GET /api/v1/imports/{id}
func (h *ImportHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := model.ImportID(mux.Vars(r)["id"])

	imp, err := h.storage.GetImport(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.ImportFromModel(imp))
}
