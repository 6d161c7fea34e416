package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/HoaiNhu/RCM-System/internal/models"
	"github.com/HoaiNhu/RCM-System/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

type RecommendHandler struct {
	svc     *service.RecommendService
	popular *service.PopularService
	quiz    *service.QuizService
}

func NewRecommendHandler(svc *service.RecommendService, popular *service.PopularService, quiz *service.QuizService) *RecommendHandler {
	return &RecommendHandler{svc: svc, popular: popular, quiz: quiz}
}

type recommendRequest struct {
	UserID    string `json:"user_id"`
	ProductID string `json:"product_id,omitempty"`
	NItems    int    `json:"n_items,omitempty"`
	Refresh   bool   `json:"refresh,omitempty"`
}

// @Summary Recomendaciones híbridas para un usuario
// @Tags recommend
// @Accept json
// @Produce json
// @Param request body recommendRequest true "user_id, product_id opcional, n_items"
// @Success 200 {object} models.RecommendationResponse
// @Failure 400 {string} string "body inválido"
// @Router /api/recommend [post]
func (h *RecommendHandler) PostRecommend(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" {
		http.Error(w, "body inválido: se necesita user_id", http.StatusBadRequest)
		return
	}

	items, source := h.svc.Recommend(r.Context(), service.RecRequest{
		UserID:    req.UserID,
		ProductID: req.ProductID,
		NItems:    req.NItems,
		Refresh:   req.Refresh,
	})

	writeJSON(w, http.StatusOK, models.RecommendationResponse{
		Recommendations: items,
		Source:          source,
		UserID:          req.UserID,
	})
}

type popularRequest struct {
	CategoryID string `json:"category_id,omitempty"`
	NItems     int    `json:"n_items,omitempty"`
}

// @Summary Productos populares (por categoría o globales)
// @Tags recommend
// @Accept json
// @Produce json
// @Param request body popularRequest true "category_id opcional, n_items"
// @Success 200 {object} map[string]interface{}
// @Router /api/recommend/popular [post]
func (h *RecommendHandler) PostPopular(w http.ResponseWriter, r *http.Request) {
	var req popularRequest
	// body vacío es válido: populares globales con el n por defecto
	_ = json.NewDecoder(r.Body).Decode(&req)

	items := h.popular.Popular(r.Context(), req.CategoryID, req.NItems)
	writeJSON(w, http.StatusOK, map[string]any{
		"recommendations": items,
		"source":          "popularity",
	})
}

type quizRequest struct {
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`
	NItems    int    `json:"n_items,omitempty"`
}

// @Summary Recomendaciones a partir de un quiz de preferencias
// @Tags recommend
// @Accept json
// @Produce json
// @Param request body quizRequest true "user_id, session_id, n_items"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {string} string "body inválido"
// @Router /api/recommend/quiz [post]
func (h *RecommendHandler) PostQuiz(w http.ResponseWriter, r *http.Request) {
	var req quizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" || req.SessionID == "" {
		http.Error(w, "body inválido: se necesitan user_id y session_id", http.StatusBadRequest)
		return
	}

	items, keywords := h.quiz.RecommendFromQuiz(r.Context(), req.UserID, req.SessionID, req.NItems)
	writeJSON(w, http.StatusOK, map[string]any{
		"recommendations": items,
		"keywords":        keywords,
		"source":          "quiz",
	})
}

// @Summary Última recomendación persistida para un usuario
// @Tags recommend
// @Produce json
// @Param id path string true "userId"
// @Success 200 {object} models.RecommendationDoc
// @Failure 404 {string} string "sin recomendaciones guardadas"
// @Router /api/users/{id}/recommendations [get]
func (h *RecommendHandler) GetLastServed(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	doc, err := h.svc.LastServed(r.Context(), userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if doc == nil {
		http.Error(w, "sin recomendaciones guardadas", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// @Summary Recomendaciones por WebSocket con mensajes de progreso
// @Tags recommend
// @Produce json
// @Param id path string true "userId"
// @Param n query int false "cantidad de recomendaciones (máx 50)"
// @Success 200 {object} map[string]interface{}
// @Router /api/users/{id}/ws/recommendations [get]
func (h *RecommendHandler) GetRecommendationsWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, "no se pudo abrir el WebSocket", http.StatusBadRequest)
		return
	}
	defer conn.Close()

	userID := chi.URLParam(r, "id")
	n, _ := strconv.Atoi(r.URL.Query().Get("n"))
	refresh := r.URL.Query().Get("refresh") == "true"

	conn.WriteJSON(map[string]any{
		"type": "start",
		"msg":  "conexión abierta, calculando recomendaciones",
	})

	status := h.svc.Status()
	conn.WriteJSON(map[string]any{
		"type":          "status",
		"latent_ready":  status.LatentReady,
		"content_ready": status.ContentReady,
	})

	items, source := h.svc.Recommend(r.Context(), service.RecRequest{
		UserID:  userID,
		NItems:  n,
		Refresh: refresh,
	})

	conn.WriteJSON(map[string]any{
		"type":            "recommendations",
		"userId":          userID,
		"recommendations": items,
		"source":          source,
		"generatedAt":     time.Now(),
	})
}

// Utilidad pequeña para respuestas JSON.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
