// Package status traduce los estados crudos del backend a etiquetas de
// pantalla. Es UNA sola tabla para todos los dashboards: cada viewer aporta
// solo sus sinónimos, el resto cae al title-case genérico. La función es
// total: entrada vacía o desconocida siempre produce una etiqueta definida.
package status

import "strings"

// Viewer es el rol desde el que se mira el caso. La etiqueta cambia según
// quién mira (un caso "completed" es "Closed" para admin y "Approved" para
// el GP), el estado subyacente no.
type Viewer string

const (
	ViewerClaimant Viewer = "claimant"
	ViewerGP       Viewer = "gp"
	ViewerQA       Viewer = "qa"
	ViewerAdmin    Viewer = "admin"
)

// Unknown es el default unificado para estado ausente, sin importar el
// viewer.
const Unknown = "Unknown"

var synonyms = map[Viewer]map[string]string{
	ViewerAdmin: {
		"completed":  "Closed",
		"qa_pending": "QA Pending",
	},
	ViewerGP: {
		"":           "Pending Review",
		"completed":  "Approved",
		"qa_pending": "Pending Review",
	},
	ViewerQA: {
		"completed": "Approved",
		"returned":  "Need Revision",
	},
	// El dashboard del claimant habla en badges mayúsculas.
	ViewerClaimant: {
		"":          "SUBMITTED",
		"pending":   "SUBMITTED",
		"created":   "SUBMITTED",
		"assigned":  "ASSIGNED",
		"completed": "APPROVED",
		"returned":  "DENIED",
	},
}

// Normalize mapea el estado crudo a la etiqueta del viewer.
// Nunca devuelve vacío.
func Normalize(raw string, v Viewer) string {
	key := strings.ToLower(strings.TrimSpace(raw))

	if table, ok := synonyms[v]; ok {
		if label, ok := table[key]; ok {
			return label
		}
	}
	if key == "" {
		return Unknown
	}

	label := titleCase(key)
	if v == ViewerClaimant {
		return strings.ToUpper(label)
	}
	return label
}

// titleCase capitaliza cada fragmento separado por "_" o espacio.
func titleCase(s string) string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == '_' || r == ' '
	})
	for i, p := range parts {
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}
