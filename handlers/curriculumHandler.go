package handlers

import (
	"encoding/json"
	"net/http"

	"schooltutor/logger"
	"schooltutor/models"
	"schooltutor/services/curriculum"

	"github.com/gorilla/mux"
	"github.com/invopop/jsonschema"
)

type CurriculumHandler struct {
	store *curriculum.Store
	log   *logger.Logger
}

func NewCurriculumHandler(store *curriculum.Store, log *logger.Logger) *CurriculumHandler {
	return &CurriculumHandler{store: store, log: log}
}

func (h *CurriculumHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/curriculum/set", h.SetCurriculum).Methods("POST")
	router.HandleFunc("/api/curriculum", h.GetCurriculum).Methods("GET")
	router.HandleFunc("/api/curriculum/schema", h.GetSchema).Methods("GET")
}

// SetCurriculum replaces the whole curriculum with the request body.
func (h *CurriculumHandler) SetCurriculum(w http.ResponseWriter, r *http.Request) {
	var data models.CurriculumData
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		h.log.Warn("Failed to decode curriculum JSON", "error", err)
		writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if data == nil {
		data = models.CurriculumData{}
	}

	h.store.Replace(data)
	h.log.Info("Curriculum data replaced", "standards", len(data))

	writeJSONResponse(w, http.StatusOK, models.StatusResponse{Message: "Curriculum data set successfully"})
}

func (h *CurriculumHandler) GetCurriculum(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, http.StatusOK, h.store.Snapshot().Data())
}

// GetSchema describes the payload accepted by SetCurriculum.
func (h *CurriculumHandler) GetSchema(w http.ResponseWriter, r *http.Request) {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	writeJSONResponse(w, http.StatusOK, reflector.Reflect(models.CurriculumData{}))
}
