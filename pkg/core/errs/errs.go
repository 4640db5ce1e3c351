// Package errs defines the boundary error taxonomy. Upstream failures
// (network, page format) are translated into one of these categories so the
// API and CLI can message users consistently.
package errs

import "errors"

var (
	// ErrCompanyNotFound means no company matched the query.
	ErrCompanyNotFound = errors.New("empresa no encontrada")

	// ErrDataUnavailable means financial data could not be retrieved.
	ErrDataUnavailable = errors.New("datos financieros no disponibles")

	// ErrSourceFormat means the source page or payload changed shape.
	ErrSourceFormat = errors.New("formato de la fuente cambio")

	// ErrConnectivity means a network problem happened.
	ErrConnectivity = errors.New("problema de conectividad")
)
