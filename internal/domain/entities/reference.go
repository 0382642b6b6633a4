package entities

import "github.com/google/uuid"

// ReferenceKind identifies one of the name-keyed lookup tables
type ReferenceKind string

const (
	ReferenceRole     ReferenceKind = "roles"
	ReferenceLocation ReferenceKind = "locations"
	ReferenceLanguage ReferenceKind = "languages"
	ReferenceSubject  ReferenceKind = "subjects"
)

// ReferenceKinds lists every lookup table in seeding order
var ReferenceKinds = []ReferenceKind{ReferenceRole, ReferenceLocation, ReferenceLanguage, ReferenceSubject}

// ReferenceItem is a row of a lookup table
type ReferenceItem struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type (
	Role     = ReferenceItem
	Location = ReferenceItem
	Language = ReferenceItem
	Subject  = ReferenceItem
)

// ReferenceCatalog holds the names seeded into each lookup table
type ReferenceCatalog map[ReferenceKind][]string

// DefaultReferenceCatalog is seeded on every startup
func DefaultReferenceCatalog() ReferenceCatalog {
	return ReferenceCatalog{
		ReferenceRole: {string(RoleTeacher), string(RoleStudent)},
		ReferenceLocation: {
			"Buenos Aires", "CABA", "Catamarca", "Chaco", "Chubut", "Córdoba", "Corrientes",
			"Entre Ríos", "Formosa", "Jujuy", "La Pampa", "La Rioja", "Mendoza", "Misiones",
			"Neuquén", "Río Negro", "Salta", "San Juan", "San Luis", "Santa Cruz", "Santa Fe",
			"Santiago del Estero", "Tierra del Fuego", "Tucumán",
		},
		ReferenceLanguage: {"Español", "Inglés", "Portugués", "Francés", "Italiano", "Alemán"},
		ReferenceSubject: {
			"Matemática", "Física", "Química", "Biología", "Historia", "Geografía",
			"Lengua y Literatura", "Inglés", "Programación", "Economía", "Contabilidad", "Música",
		},
	}
}
