package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"pingodeleite/internal/apperr"
)

func TestClientValidate(t *testing.T) {
	t.Parallel()

	c := Client{Name: "Maria"}
	require.NoError(t, c.Validate())

	c = Client{Name: "  "}
	var verr *apperr.ValidationError
	require.ErrorAs(t, c.Validate(), &verr)
	require.Equal(t, "nome", verr.Field)

	age := -1
	c = Client{Name: "Maria", Age: &age}
	require.ErrorAs(t, c.Validate(), &verr)
	require.Equal(t, "idade", verr.Field)

	c = Client{Name: "Maria", Children: -2}
	require.ErrorAs(t, c.Validate(), &verr)
	require.Equal(t, "filhos", verr.Field)
}

func TestEventValidate(t *testing.T) {
	t.Parallel()

	base := Event{Name: "Festa", ClientID: "c1", Date: "2026-09-12"}
	require.NoError(t, base.Validate())

	var verr *apperr.ValidationError

	e := base
	e.Date = "12/09/2026"
	require.ErrorAs(t, e.Validate(), &verr)
	require.Equal(t, "data", verr.Field)

	e = base
	e.ClientID = ""
	require.ErrorAs(t, e.Validate(), &verr)
	require.Equal(t, "clienteId", verr.Field)

	e = base
	e.Status = "Cancelada"
	require.ErrorAs(t, e.Validate(), &verr)
	require.Equal(t, "status", verr.Field)

	e = base
	e.SpecialBalloons = []SpecialBalloon{{Type: "Esphera", Size: "Gobo", Quantity: 0}}
	require.ErrorAs(t, e.Validate(), &verr)
	require.Equal(t, "baloesEspeciais.quantidade", verr.Field)
}

func TestEventWhen(t *testing.T) {
	t.Parallel()

	e := Event{Date: "2026-09-12"}
	ts, ok := e.When()
	require.True(t, ok)
	require.Equal(t, 2026, ts.Year())

	e = Event{Date: "2026-09-12T19:30:00Z"}
	ts, ok = e.When()
	require.True(t, ok)
	require.Equal(t, 19, ts.Hour())

	e = Event{Date: "amanhã"}
	_, ok = e.When()
	require.False(t, ok)
}

func TestUserJSONHidesPassword(t *testing.T) {
	t.Parallel()

	u := User{Name: "Ana", Email: "a@b.c", PasswordHash: "$2a$10$abcdef"}
	raw, err := json.Marshal(u)
	require.NoError(t, err)
	require.NotContains(t, string(raw), "$2a$10$abcdef")
	require.NotContains(t, string(raw), "password")
}
