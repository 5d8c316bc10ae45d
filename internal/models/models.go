// Package models defines the entity types persisted in the remote document
// store and mirrored in the local cache. Wire field names (json/bson tags)
// keep the Portuguese vocabulary of the business.
package models

import (
	"strings"
	"time"

	"pingodeleite/internal/apperr"
)

// Origin tags which backend produced a record: the remote store of record or
// the local on-device cache. Callers must branch on it rather than assuming a
// write reached the remote store.
type Origin string

const (
	OriginRemote Origin = "remote"
	OriginLocal  Origin = "local"
)

// Event lifecycle statuses.
const (
	StatusQuote     = "Orçamento"
	StatusClosed    = "Fechada"
	StatusPaid      = "Paga"
	StatusCompleted = "Finalizada"
)

// Client is a customer record.
type Client struct {
	ID        string `json:"id" bson:"_id,omitempty"`
	Name      string `json:"nome" bson:"nome"`
	CpfCnpj   string `json:"cpfCnpj,omitempty" bson:"cpfCnpj,omitempty"`
	Age       *int   `json:"idade,omitempty" bson:"idade,omitempty"`
	Address   string `json:"endereco,omitempty" bson:"endereco,omitempty"`
	Children  int    `json:"filhos" bson:"filhos"`
	Comments  string `json:"comentarios,omitempty" bson:"comentarios,omitempty"`
	CreatedAt string `json:"createdAt,omitempty" bson:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
	Origin    Origin `json:"origin,omitempty" bson:"-"`
}

// Validate enforces the required-field rules for a client.
func (c *Client) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return apperr.Invalid("nome", "is required")
	}
	if c.Age != nil && *c.Age < 0 {
		return apperr.Invalid("idade", "must not be negative")
	}
	if c.Children < 0 {
		return apperr.Invalid("filhos", "must not be negative")
	}
	return nil
}

// Balloon is the base balloon configuration of an event.
type Balloon struct {
	Nationality   string  `json:"nacionalidade" bson:"nacionalidade"`
	Customization string  `json:"customizacao" bson:"customizacao"`
	Filling       string  `json:"preenchimento" bson:"preenchimento"`
	Meters        float64 `json:"metros" bson:"metros"`
	Shine         float64 `json:"shine" bson:"shine"`
}

// SpecialBalloon is an add-on line item priced by a (type, size) table.
type SpecialBalloon struct {
	Type     string `json:"tipo" bson:"tipo"`
	Size     string `json:"tamanho" bson:"tamanho"`
	Quantity int    `json:"quantidade" bson:"quantidade"`
}

// Event is a decoration order. TotalPrice is derived: it always equals the
// pricing engine's output for the configuration and line items, never a
// hand-edited number.
type Event struct {
	ID              string           `json:"id" bson:"_id,omitempty"`
	Date            string           `json:"data" bson:"data"`
	Name            string           `json:"nome" bson:"nome"`
	ClientID        string           `json:"clienteId" bson:"clienteId"`
	ClientName      string           `json:"clienteNome,omitempty" bson:"clienteNome,omitempty"`
	Status          string           `json:"status" bson:"status"`
	Balloons        Balloon          `json:"baloes" bson:"baloes"`
	SpecialBalloons []SpecialBalloon `json:"baloesEspeciais" bson:"baloesEspeciais"`
	TotalPrice      float64          `json:"precoTotal" bson:"precoTotal"`
	CreatedAt       string           `json:"createdAt,omitempty" bson:"createdAt,omitempty"`
	UpdatedAt       string           `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
	Origin          Origin           `json:"origin,omitempty" bson:"-"`
}

// When parses the event date, accepting both full timestamps and bare
// calendar dates.
func (e *Event) When() (time.Time, bool) {
	return parseDate(e.Date)
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Validate enforces the required-field rules for an event.
func (e *Event) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return apperr.Invalid("nome", "is required")
	}
	if strings.TrimSpace(e.ClientID) == "" {
		return apperr.Invalid("clienteId", "is required")
	}
	if _, ok := parseDate(e.Date); !ok {
		return apperr.Invalid("data", "must be an ISO date")
	}
	if e.Balloons.Meters < 0 {
		return apperr.Invalid("baloes.metros", "must not be negative")
	}
	if e.Balloons.Shine < 0 {
		return apperr.Invalid("baloes.shine", "must not be negative")
	}
	for _, sb := range e.SpecialBalloons {
		if sb.Quantity < 1 {
			return apperr.Invalid("baloesEspeciais.quantidade", "must be positive")
		}
	}
	switch e.Status {
	case "", StatusQuote, StatusClosed, StatusPaid, StatusCompleted:
	default:
		return apperr.Invalid("status", "is not a known status")
	}
	return nil
}

// User is an account record. PasswordHash is never serialized to JSON.
type User struct {
	ID            string `json:"id" bson:"_id,omitempty"`
	Name          string `json:"name" bson:"name"`
	Email         string `json:"email" bson:"email"`
	PasswordHash  string `json:"-" bson:"password"`
	EmailVerified bool   `json:"emailVerified,omitempty" bson:"emailVerified,omitempty"`
	CreatedAt     string `json:"createdAt,omitempty" bson:"createdAt,omitempty"`
	UpdatedAt     string `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
	Origin        Origin `json:"origin,omitempty" bson:"-"`
}

// Validate enforces the required-field rules for a user.
func (u *User) Validate() error {
	if strings.TrimSpace(u.Name) == "" {
		return apperr.Invalid("name", "is required")
	}
	if strings.TrimSpace(u.Email) == "" {
		return apperr.Invalid("email", "is required")
	}
	return nil
}

// LogEntry records a user action. Details may carry before/after snapshots.
type LogEntry struct {
	ID        string `json:"id" bson:"_id,omitempty"`
	UserID    string `json:"userId" bson:"userId"`
	UserName  string `json:"userName" bson:"userName"`
	Action    string `json:"action" bson:"action"`
	Timestamp string `json:"timestamp" bson:"timestamp"`
	Success   bool   `json:"success" bson:"success"`
	Details   any    `json:"details,omitempty" bson:"details,omitempty"`
}

// DBStatus is the health-endpoint view of the remote store connection.
type DBStatus struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}
