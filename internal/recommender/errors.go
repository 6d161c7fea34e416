package recommender

import "errors"

var (
	// ErrInsufficientData: no hay suficientes usuarios o productos para
	// factorizar. Train lo convierte en un resultado false, nunca escapa
	// al caller del servicio.
	ErrInsufficientData = errors.New("datos insuficientes para entrenar")

	// ErrIndexCorruption: las dimensiones de los factores no cuadran con
	// los mapeos id↔índice. Bloquea la publicación de la generación nueva.
	ErrIndexCorruption = errors.New("factores y mapeos de índice inconsistentes")

	// ErrEmptyCatalog: no hay productos para construir el índice de contenido.
	ErrEmptyCatalog = errors.New("catálogo vacío")
)
