package service

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/HoaiNhu/RCM-System/internal/recommender"
)

// TrainWorker serializa los entrenamientos: solo uno a la vez. El endpoint
// de update dispara en background y responde de inmediato; el de train
// espera el resultado.
type TrainWorker struct {
	engine *recommender.Engine

	mu      sync.Mutex
	running bool
	last    *TrainResult
}

type TrainResult struct {
	Trained    bool          `json:"trained"`
	Duration   time.Duration `json:"-"`
	DurationMS int64         `json:"durationMs"`
	FinishedAt time.Time     `json:"finishedAt"`
}

func NewTrainWorker(engine *recommender.Engine) *TrainWorker {
	return &TrainWorker{engine: engine}
}

// Train entrena de forma síncrona. Devuelve false sin entrenar si ya hay
// un entrenamiento corriendo.
func (w *TrainWorker) Train(ctx context.Context, force bool) (*TrainResult, bool) {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil, false
	}
	w.running = true
	w.mu.Unlock()

	res := w.run(ctx, force)
	return res, true
}

// TrainAsync dispara el entrenamiento en background. Devuelve false si ya
// había uno corriendo.
func (w *TrainWorker) TrainAsync(force bool) bool {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return false
	}
	w.running = true
	w.mu.Unlock()

	go func() {
		// contexto propio: el request HTTP que lo disparó ya terminó
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		w.run(ctx, force)
	}()
	return true
}

func (w *TrainWorker) run(ctx context.Context, force bool) *TrainResult {
	start := time.Now()
	trained := w.engine.Train(ctx, force)
	res := &TrainResult{
		Trained:    trained,
		Duration:   time.Since(start),
		DurationMS: time.Since(start).Milliseconds(),
		FinishedAt: time.Now(),
	}
	log.Printf("[trainer] entrenamiento terminado en %s (trained=%v)", res.Duration, trained)

	w.mu.Lock()
	w.running = false
	w.last = res
	w.mu.Unlock()
	return res
}

// Status devuelve si hay un entrenamiento en curso y el último resultado.
func (w *TrainWorker) Status() (bool, *TrainResult) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running, w.last
}
