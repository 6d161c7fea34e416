package recommender

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync/atomic"
	"time"

	"github.com/viterin/vek"
)

// Versión del esquema del artefacto persistido. Si cambia el formato,
// se bumpea y los artefactos viejos se rechazan en vez de leerse mal.
const modelSchemaVersion = 1

// latentModel es una generación inmutable del modelo de factores latentes.
// Se construye completa aparte y se publica con un swap atómico: ningún
// lector puede ver factores de una generación con mapeos de otra.
type latentModel struct {
	SchemaVersion int           `json:"schemaVersion"`
	K             int           `json:"k"`
	Users         []string      `json:"users"`
	Items         []string      `json:"items"`
	UserFactors   [][]float64   `json:"userFactors"` // usuarios × k
	ItemFactors   [][]float64   `json:"itemFactors"` // k × productos
	TrainedAt     time.Time     `json:"trainedAt"`

	userIndex map[string]int `json:"-"`
	itemIndex map[string]int `json:"-"`
	itemCols  [][]float64    `json:"-"` // columnas de ItemFactors, productos × k
}

// finish reconstruye los índices derivados y valida la coherencia entre
// factores y mapeos. Un modelo incoherente nunca se publica.
func (m *latentModel) finish() error {
	if m.SchemaVersion != modelSchemaVersion {
		return fmt.Errorf("schemaVersion %d no soportada: %w", m.SchemaVersion, ErrIndexCorruption)
	}
	if len(m.UserFactors) != len(m.Users) {
		return fmt.Errorf("userFactors %d vs users %d: %w", len(m.UserFactors), len(m.Users), ErrIndexCorruption)
	}
	if len(m.ItemFactors) != m.K {
		return fmt.Errorf("itemFactors con %d filas, k=%d: %w", len(m.ItemFactors), m.K, ErrIndexCorruption)
	}
	for _, row := range m.UserFactors {
		if len(row) != m.K {
			return fmt.Errorf("fila de userFactors con %d columnas, k=%d: %w", len(row), m.K, ErrIndexCorruption)
		}
	}
	for _, row := range m.ItemFactors {
		if len(row) != len(m.Items) {
			return fmt.Errorf("fila de itemFactors con %d columnas, items=%d: %w", len(row), len(m.Items), ErrIndexCorruption)
		}
	}

	m.userIndex = make(map[string]int, len(m.Users))
	for i, u := range m.Users {
		m.userIndex[u] = i
	}
	m.itemIndex = make(map[string]int, len(m.Items))
	for j, p := range m.Items {
		m.itemIndex[p] = j
	}

	// Columnas contiguas para que el score sea un producto punto directo.
	m.itemCols = make([][]float64, len(m.Items))
	for j := range m.Items {
		col := make([]float64, m.K)
		for f := 0; f < m.K; f++ {
			col[f] = m.ItemFactors[f][j]
		}
		m.itemCols[j] = col
	}
	return nil
}

// LatentStrategy es la estrategia colaborativa: factoriza la matriz de
// interacciones y sirve scores usuario·producto desde la generación
// publicada. Los lectores concurrentes solo tocan el puntero atómico.
type LatentStrategy struct {
	agg       *Aggregator
	meta      TrainStamp
	modelPath string

	nComponents int
	maxIter     int

	current atomic.Pointer[latentModel]
}

func NewLatentStrategy(agg *Aggregator, meta TrainStamp, modelPath string, nComponents, maxIter int) *LatentStrategy {
	s := &LatentStrategy{
		agg:         agg,
		meta:        meta,
		modelPath:   modelPath,
		nComponents: nComponents,
		maxIter:     maxIter,
	}
	// Si hay artefacto en disco lo cargamos para no re-entrenar al arrancar.
	if modelPath != "" {
		if err := s.loadArtifact(); err != nil {
			log.Printf("[latent] sin modelo en disco (%v), se entrena bajo demanda", err)
		}
	}
	return s
}

func (s *LatentStrategy) Ready() bool {
	m := s.current.Load()
	return m != nil && len(m.Users) > 0 && len(m.Items) > 0
}

// KnowsUser indica si el usuario existe en la generación publicada
// (los usuarios desconocidos puntúan 0, no son un error).
func (s *LatentStrategy) KnowsUser(userID string) bool {
	m := s.current.Load()
	if m == nil {
		return false
	}
	_, ok := m.userIndex[userID]
	return ok
}

func (s *LatentStrategy) TrainedAt() time.Time {
	if m := s.current.Load(); m != nil {
		return m.TrainedAt
	}
	return time.Time{}
}

// Train entrena y publica una generación nueva. Nunca propaga errores:
// devuelve false y deja la generación anterior intacta. Con force=false y
// un modelo ya cargado y no vacío es un no-op exitoso.
func (s *LatentStrategy) Train(ctx context.Context, force bool) bool {
	if !force && s.Ready() {
		if !s.stale(ctx) {
			log.Println("[latent] modelo ya cargado y vigente, no se re-entrena (force=false)")
			return true
		}
		log.Println("[latent] modelo cargado pero desactualizado, re-entrenando")
	}

	matrix, err := s.agg.Build(ctx, nil)
	if err != nil {
		log.Printf("[latent] no se pudo armar la matriz: %v", err)
		return false
	}

	k := s.nComponents
	if min := minInt(matrix.NumUsers(), matrix.NumItems()) - 1; k > min {
		k = min
	}
	if k < 1 {
		log.Printf("[latent] k=%d con %d usuarios y %d productos: %v",
			k, matrix.NumUsers(), matrix.NumItems(), ErrInsufficientData)
		return false
	}

	log.Printf("[latent] entrenando NMF: %d usuarios × %d productos, k=%d, maxIter=%d",
		matrix.NumUsers(), matrix.NumItems(), k, s.maxIter)

	start := time.Now()
	res, err := factorize(matrix.Data, k, s.maxIter, 1e-3)
	if err != nil {
		log.Printf("[latent] factorización falló: %v", err)
		return false
	}

	model := &latentModel{
		SchemaVersion: modelSchemaVersion,
		K:             k,
		Users:         matrix.Users,
		Items:         matrix.Items,
		UserFactors:   res.W,
		ItemFactors:   res.H,
		TrainedAt:     time.Now().UTC(),
	}
	if err := model.finish(); err != nil {
		// dimensiones incoherentes: jamás publicamos esta generación
		log.Printf("[latent] modelo descartado: %v", err)
		return false
	}

	if s.modelPath != "" {
		if err := s.saveArtifact(model); err != nil {
			log.Printf("[latent] error guardando artefacto: %v", err)
			return false
		}
	}
	if s.meta != nil {
		if err := s.meta.SetLastUpdate(ctx, model.TrainedAt); err != nil {
			log.Printf("[latent] error guardando metadata: %v", err)
		}
	}

	s.current.Store(model)
	log.Printf("[latent] entrenado en %s: %d iteraciones, error=%.4f",
		time.Since(start).Round(time.Millisecond), res.Iterations, res.Err)
	return true
}

// stale compara el TrainedAt del modelo publicado contra el timestamp del
// último entrenamiento registrado en el storage: si otro proceso entrenó
// después, el artefacto cargado quedó viejo.
func (s *LatentStrategy) stale(ctx context.Context) bool {
	if s.meta == nil {
		return false
	}
	last, err := s.meta.LastUpdate(ctx)
	if err != nil || last == nil {
		return false
	}
	return last.After(s.TrainedAt())
}

// Scores devuelve el producto punto usuario·producto para cada id pedido.
// Usuarios o productos desconocidos puntúan 0.
func (s *LatentStrategy) Scores(userID string, productIDs []string) map[string]float64 {
	out := make(map[string]float64, len(productIDs))
	for _, pid := range productIDs {
		out[pid] = 0
	}

	m := s.current.Load()
	if m == nil {
		return out
	}
	ui, ok := m.userIndex[userID]
	if !ok {
		return out
	}
	userVec := m.UserFactors[ui]

	for _, pid := range productIDs {
		if pi, ok := m.itemIndex[pid]; ok {
			out[pid] = vek.Dot(userVec, m.itemCols[pi])
		}
	}
	return out
}

// Recommend devuelve los n productos con mayor score latente para el
// usuario, excluyendo el producto del contexto. Usuario desconocido → vacío.
func (s *LatentStrategy) Recommend(userID string, n int, rctx *Context) []string {
	m := s.current.Load()
	if m == nil {
		return nil
	}
	ui, ok := m.userIndex[userID]
	if !ok {
		return nil
	}
	userVec := m.UserFactors[ui]

	type scored struct {
		idx   int
		score float64
	}
	all := make([]scored, len(m.Items))
	for j := range m.Items {
		all[j] = scored{idx: j, score: vek.Dot(userVec, m.itemCols[j])}
	}
	// empates por orden de catálogo (índice), para que el resultado sea estable
	sort.SliceStable(all, func(i, j int) bool { return all[i].score > all[j].score })

	out := make([]string, 0, n)
	for _, sc := range all {
		if len(out) >= n {
			break
		}
		pid := m.Items[sc.idx]
		if rctx != nil && pid == rctx.CurrentProductID {
			continue
		}
		out = append(out, pid)
	}
	return out
}

// ===== Persistencia del artefacto =====

func (s *LatentStrategy) saveArtifact(m *latentModel) error {
	b, err := json.Marshal(m)
	if err != nil {
		return err
	}
	// escribimos a un tmp y renombramos: nunca queda un artefacto a medias
	tmp := s.modelPath + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.modelPath)
}

func (s *LatentStrategy) loadArtifact() error {
	b, err := os.ReadFile(s.modelPath)
	if err != nil {
		return err
	}
	var m latentModel
	if err := json.Unmarshal(b, &m); err != nil {
		return fmt.Errorf("artefacto ilegible %s: %w", filepath.Base(s.modelPath), err)
	}
	if err := m.finish(); err != nil {
		return err
	}
	s.current.Store(&m)
	log.Printf("[latent] modelo cargado de %s: %d usuarios, %d productos, k=%d (entrenado %s)",
		s.modelPath, len(m.Users), len(m.Items), m.K, m.TrainedAt.Format(time.RFC3339))
	return nil
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
