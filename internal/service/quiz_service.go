package service

import (
	"context"
	_ "embed"
	"log"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/HoaiNhu/RCM-System/internal/models"
	"github.com/HoaiNhu/RCM-System/internal/repository"
)

//go:embed quiz_keywords.yaml
var defaultQuizKeywords []byte

// keywordTable mapea respuestas del quiz a términos de búsqueda.
type keywordTable struct {
	Mood   map[string][]string `yaml:"mood"`
	Memory map[string][]string `yaml:"memory"`
}

// QuizService traduce las respuestas de un quiz de preferencias en
// recomendaciones: junta keywords por respuesta, busca en el catálogo y
// aplica el piso de rating. Si no sale nada cae en populares.
type QuizService struct {
	products  *repository.ProductRepository
	quizzes   *repository.QuizRepository
	responses *repository.QuizResponseRepository
	popular   *PopularService
	minRating float64
	keywords  keywordTable
}

func NewQuizService(
	products *repository.ProductRepository,
	quizzes *repository.QuizRepository,
	responses *repository.QuizResponseRepository,
	popular *PopularService,
	minRating float64,
	keywordsPath string,
) *QuizService {
	s := &QuizService{
		products:  products,
		quizzes:   quizzes,
		responses: responses,
		popular:   popular,
		minRating: minRating,
		keywords:  loadKeywordTable(keywordsPath),
	}
	return s
}

// loadKeywordTable carga el YAML externo si existe; si no, usa el embebido.
func loadKeywordTable(path string) keywordTable {
	data := defaultQuizKeywords
	if path != "" {
		if b, err := os.ReadFile(path); err == nil {
			data = b
		} else {
			log.Printf("[quiz] no se pudo leer %s, usando tabla embebida: %v", path, err)
		}
	}
	var t keywordTable
	if err := yaml.Unmarshal(data, &t); err != nil {
		log.Printf("[quiz] tabla de keywords inválida, usando tabla vacía: %v", err)
		return keywordTable{}
	}
	return t
}

// RecommendFromQuiz calcula las recomendaciones para una sesión de quiz
// completada. Devuelve también los keywords usados, útiles para debug.
func (s *QuizService) RecommendFromQuiz(ctx context.Context, userID, sessionID string, n int) ([]string, []string) {
	if n <= 0 {
		n = DefaultNItems
	} else if n > MaxNItems {
		n = MaxNItems
	}

	responses, err := s.responses.BySession(ctx, userID, sessionID)
	if err != nil {
		log.Printf("[quiz] error leyendo respuestas de la sesión %s: %v", sessionID, err)
		return s.popular.Popular(ctx, "", n), nil
	}
	if len(responses) == 0 {
		return s.popular.Popular(ctx, "", n), nil
	}

	keywords := s.keywordsFor(ctx, responses)
	if len(keywords) == 0 {
		return s.popular.Popular(ctx, "", n), nil
	}

	prods, err := s.products.SearchByKeywords(ctx, keywords, n*3)
	if err != nil {
		log.Printf("[quiz] error buscando por keywords: %v", err)
		return s.popular.Popular(ctx, "", n), keywords
	}

	// piso duro de rating, igual que en generación de candidatos
	out := make([]string, 0, n)
	for _, p := range prods {
		if p.AverageRating > 0 && p.AverageRating < s.minRating {
			continue
		}
		out = append(out, p.ID)
		if len(out) == n {
			break
		}
	}
	if len(out) == 0 {
		return s.popular.Popular(ctx, "", n), keywords
	}
	return out, keywords
}

// keywordsFor junta las keywords de todas las respuestas, sin duplicados y
// en orden de aparición. La respuesta custom entra tal cual, en minúsculas.
func (s *QuizService) keywordsFor(ctx context.Context, responses []models.QuizResponseDoc) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(kw string) {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" || seen[kw] {
			return
		}
		seen[kw] = true
		out = append(out, kw)
	}

	for _, resp := range responses {
		quiz, err := s.quizzes.FindByID(ctx, resp.QuizID)
		if err != nil || quiz == nil {
			continue
		}
		answer := strings.ToLower(strings.TrimSpace(resp.Answer))

		var table map[string][]string
		switch quiz.Type {
		case "mood":
			table = s.keywords.Mood
		case "memory":
			table = s.keywords.Memory
		}
		for _, kw := range table[answer] {
			add(kw)
		}
		if resp.CustomAnswer != "" {
			add(resp.CustomAnswer)
		}
	}
	return out
}
