package pets

import (
	"time"

	"pet-adoption-hub/internal/platform/money"
)

// Species define las especies soportadas.
// @Enum dog, cat, rabbit, bird, other
type Species string

const (
	SpeciesDog    Species = "dog"
	SpeciesCat    Species = "cat"
	SpeciesRabbit Species = "rabbit"
	SpeciesBird   Species = "bird"
	SpeciesOther  Species = "other"
)

// Sex define el sexo de la mascota.
// @Enum male, female, unknown
type Sex string

const (
	SexMale    Sex = "male"
	SexFemale  Sex = "female"
	SexUnknown Sex = "unknown"
)

// AdoptionStatus es el estado de la mascota en el marketplace.
// Las transiciones available->pending->adopted (y sus reversas) solo las escribe
// el motor de adopciones a través de Hold/Release/MarkAdopted/MarkReturned.
type AdoptionStatus string

const (
	StatusAvailable    AdoptionStatus = "available"
	StatusPending      AdoptionStatus = "pending"
	StatusAdopted      AdoptionStatus = "adopted"
	StatusNotAvailable AdoptionStatus = "not-available"
	StatusHold         AdoptionStatus = "hold"
)

// AdoptionRecord es una entrada del historial de adopciones de la mascota.
type AdoptionRecord struct {
	ApplicationID string
	AdopterID     string
	AdoptedAt     time.Time
	ReturnedAt    *time.Time
}

// Pet representa una mascota publicada por un refugio.
type Pet struct {
	ID        string
	ShelterID string

	Name    string
	Species Species
	Breed   string
	Sex     Sex

	BirthDate   *time.Time
	Description string

	AdoptionFee     money.Cents
	AdoptionStatus  AdoptionStatus
	AdoptionDate    *time.Time
	AdoptionHistory []AdoptionRecord

	CreatedAt time.Time
	UpdatedAt time.Time

	// Version para escritura optimista (la incrementa el repo en cada Update).
	Version int
}
