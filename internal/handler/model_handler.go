package handler

import (
	"net/http"

	"github.com/HoaiNhu/RCM-System/internal/models"
	"github.com/HoaiNhu/RCM-System/internal/service"
)

// ModelHandler expone los endpoints de administración del modelo.
// Todos van detrás del middleware JWT + AdminOnly.
type ModelHandler struct {
	svc    *service.RecommendService
	worker *service.TrainWorker
}

func NewModelHandler(svc *service.RecommendService, worker *service.TrainWorker) *ModelHandler {
	return &ModelHandler{svc: svc, worker: worker}
}

// @Summary Entrena el modelo de forma síncrona
// @Tags model
// @Security BearerAuth
// @Produce json
// @Param force query bool false "si true, reentrena aunque ya haya modelo"
// @Success 200 {object} service.TrainResult
// @Failure 409 {string} string "ya hay un entrenamiento en curso"
// @Router /api/model/train [post]
func (h *ModelHandler) PostTrain(w http.ResponseWriter, r *http.Request) {
	force := r.URL.Query().Get("force") == "true"

	res, ok := h.worker.Train(r.Context(), force)
	if !ok {
		http.Error(w, "ya hay un entrenamiento en curso", http.StatusConflict)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// @Summary Dispara un reentrenamiento en background
// @Tags model
// @Security BearerAuth
// @Produce json
// @Success 202 {object} map[string]string
// @Failure 409 {string} string "ya hay un entrenamiento en curso"
// @Router /api/model/update [post]
func (h *ModelHandler) PostUpdate(w http.ResponseWriter, r *http.Request) {
	if !h.worker.TrainAsync(true) {
		http.Error(w, "ya hay un entrenamiento en curso", http.StatusConflict)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{
		"message": "reentrenamiento iniciado en background",
	})
}

// @Summary Evalúa el modelo contra las órdenes recientes
// @Tags model
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.EvaluationResponse
// @Router /api/model/evaluate [get]
func (h *ModelHandler) GetEvaluate(w http.ResponseWriter, r *http.Request) {
	m := h.svc.Evaluate(r.Context())

	msg := "evaluación completada"
	if m.Precision == 0 && m.Recall == 0 && m.F1 == 0 {
		msg = "sin datos suficientes para evaluar"
	}
	writeJSON(w, http.StatusOK, models.EvaluationResponse{
		Precision: m.Precision,
		Recall:    m.Recall,
		F1:        m.F1,
		Message:   msg,
	})
}

// @Summary Estado de las estrategias del motor
// @Tags model
// @Security BearerAuth
// @Produce json
// @Param user_id query string false "si viene, el estado se calcula para ese usuario"
// @Success 200 {object} models.StrategyStatusResponse
// @Router /api/model/status [get]
func (h *ModelHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")

	st := h.svc.Status()
	resp := models.StrategyStatusResponse{
		LatentReady:  st.LatentReady,
		ContentReady: st.ContentReady,
		HybridReady:  st.HybridReady,
		State:        string(h.svc.State(userID)),
	}
	if running, _ := h.worker.Status(); running {
		resp.State = resp.State + " (entrenando)"
	}
	writeJSON(w, http.StatusOK, resp)
}
