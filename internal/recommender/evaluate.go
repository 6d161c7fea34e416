package recommender

import (
	"context"
	"log"
)

// Metrics son las métricas de la evaluación offline.
type Metrics struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
}

// Evaluate mide precisión/recall/F1 contra las órdenes más recientes.
// Usa el mismo Recommend que el serving, fuera del camino caliente.
// Nunca entra en pánico: cualquier falla interna devuelve {0,0,0}.
//
// Las órdenes sintéticas (generadas por scripts de datos) se excluyen
// mientras exista al menos una orden real; si excluirlas deja el set vacío,
// se evalúa con todas y se deja constancia en el log.
func (e *Engine) Evaluate(ctx context.Context) (m Metrics) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[engine] pánico recuperado en Evaluate: %v", r)
			m = Metrics{}
		}
	}()

	if !e.Ready() {
		return Metrics{}
	}

	testOrders, err := e.orders.RecentTest(ctx, e.params.TestRatio)
	if err != nil {
		log.Printf("[engine] evaluación abortada, no se pudieron leer órdenes: %v", err)
		return Metrics{}
	}

	real := make([]Order, 0, len(testOrders))
	for _, o := range testOrders {
		if !o.Synthetic {
			real = append(real, o)
		}
	}
	if len(real) == 0 {
		if len(testOrders) == 0 {
			return Metrics{}
		}
		log.Printf("[engine] sin órdenes reales para evaluar, usando las %d sintéticas como fallback", len(testOrders))
		real = testOrders
	} else {
		log.Printf("[engine] evaluando sobre %d órdenes reales (excluidas %d sintéticas)",
			len(real), len(testOrders)-len(real))
	}

	var precisions, recalls []float64

	for _, order := range real {
		// solo órdenes de usuarios que el modelo latente conoce
		if order.UserID == "" || !e.latent.KnowsUser(order.UserID) {
			continue
		}

		actual := make(map[string]bool, len(order.Lines))
		for _, l := range order.Lines {
			if l.ProductID != "" {
				actual[l.ProductID] = true
			}
		}
		if len(actual) == 0 {
			continue
		}

		recommended := e.Recommend(ctx, order.UserID, e.params.EvalTopK, nil)
		if len(recommended) == 0 {
			continue
		}

		var relevant int
		for _, pid := range recommended {
			if actual[pid] {
				relevant++
			}
		}

		precisions = append(precisions, float64(relevant)/float64(len(recommended)))
		recalls = append(recalls, float64(relevant)/float64(len(actual)))
	}

	m.Precision = mean(precisions)
	m.Recall = mean(recalls)
	if m.Precision+m.Recall > 0 {
		m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
	}

	log.Printf("[engine] evaluación: precision=%.4f recall=%.4f f1=%.4f (%d órdenes)",
		m.Precision, m.Recall, m.F1, len(precisions))
	return m
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
