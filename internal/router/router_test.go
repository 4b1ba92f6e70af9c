package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hotel-room-reservation/internal/calendar"
	"github.com/iliyamo/hotel-room-reservation/internal/config"
	"github.com/iliyamo/hotel-room-reservation/internal/handler"
	"github.com/iliyamo/hotel-room-reservation/internal/lock"
	"github.com/iliyamo/hotel-room-reservation/internal/repository"
	"github.com/iliyamo/hotel-room-reservation/internal/service"
)

type envelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
}

type api struct {
	t     *testing.T
	e     *echo.Echo
	store repository.Store
}

func newAPI(t *testing.T) *api {
	t.Helper()
	cfg := config.Config{JWTSecret: "test-secret", AccessTTLMin: 10, BcryptCost: 4}
	clock := calendar.FixedClock(time.Date(2024, time.January, 1, 9, 0, 0, 0, time.UTC))
	store := repository.NewMemoryStore()

	rooms := service.NewRoomService(store.Rooms, clock, 20)
	booking := service.NewBookingService(store.Rooms, store.Reservations, lock.NewLocal(), clock, nil)
	require.NoError(t, service.EnsureAdmin(context.Background(), store.Users, "admin@hotel.test", "admin-pass", cfg.BcryptCost))

	e := echo.New()
	Register(e, Handlers{
		Auth:         handler.NewAuthHandler(cfg, store.Users),
		Rooms:        handler.NewRoomHandler(rooms, booking, nil),
		Reservations: handler.NewReservationHandler(store.Reservations),
	}, Guards{JWTSecret: cfg.JWTSecret})
	return &api{t: t, e: e, store: store}
}

func (a *api) do(method, path string, body any, token string) (int, envelope) {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)

	var env envelope
	require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec.Code, env
}

func (a *api) login(email, password string) string {
	a.t.Helper()
	code, env := a.do(http.MethodPost, "/auth/login", echo.Map{"email": email, "password": password}, "")
	require.Equal(a.t, http.StatusOK, code, string(env.Data))
	var out struct {
		Token struct {
			Token string `json:"token"`
		} `json:"token"`
	}
	require.NoError(a.t, json.Unmarshal(env.Data, &out))
	return out.Token.Token
}

func (a *api) register(email string) string {
	a.t.Helper()
	code, env := a.do(http.MethodPost, "/auth/register", echo.Map{
		"firstName": "Ada", "lastName": "Lovelace", "email": email, "password": "secret1",
	}, "")
	require.Equal(a.t, http.StatusCreated, code, string(env.Data))
	assert.Equal(a.t, "Created", env.Status)
	return a.login(email, "secret1")
}

func roomBody(number int) echo.Map {
	return echo.Map{
		"title":       "Sea   view suite",
		"price":       120.5,
		"description": "Balcony facing the bay",
		"numberRoom":  number,
		"tipeRoom":    "double",
		"size":        "32m2",
		"capacity":    2,
	}
}

type roomOut struct {
	ID             string   `json:"_id"`
	Title          string   `json:"title"`
	AvailableDates []string `json:"avaliableDates"`
	NumberRoom     int      `json:"numberRoom"`
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v), string(raw))
	return v
}

func TestHealth(t *testing.T) {
	a := newAPI(t)
	code, env := a.do(http.MethodGet, "/healthz", nil, "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "OK", env.Status)
}

func TestAuthFlow(t *testing.T) {
	a := newAPI(t)
	token := a.register("guest@hotel.test")

	code, env := a.do(http.MethodPost, "/auth/register", echo.Map{
		"firstName": "Ada", "lastName": "Lovelace", "email": "GUEST@hotel.test", "password": "secret1",
	}, "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "ERR", env.Status)

	code, _ = a.do(http.MethodPost, "/auth/login", echo.Map{"email": "guest@hotel.test", "password": "wrong"}, "")
	assert.Equal(t, http.StatusUnauthorized, code)
	code, _ = a.do(http.MethodPost, "/auth/login", echo.Map{"email": "nobody@hotel.test", "password": "whatever"}, "")
	assert.Equal(t, http.StatusUnauthorized, code)

	code, env = a.do(http.MethodGet, "/auth/me", nil, token)
	require.Equal(t, http.StatusOK, code)
	me := decode[map[string]string](t, env.Data)
	assert.Equal(t, "user", me["role"])
	assert.True(t, repository.ValidID(me["userId"]))
}

func TestRoomAdministration(t *testing.T) {
	a := newAPI(t)
	admin := a.login("admin@hotel.test", "admin-pass")
	guest := a.register("guest@hotel.test")

	code, _ := a.do(http.MethodPost, "/rooms/admin", roomBody(101), "")
	assert.Equal(t, http.StatusUnauthorized, code)
	code, _ = a.do(http.MethodPost, "/rooms/admin", roomBody(101), guest)
	assert.Equal(t, http.StatusForbidden, code)

	code, env := a.do(http.MethodPost, "/rooms/admin", roomBody(101), admin)
	require.Equal(t, http.StatusCreated, code, string(env.Data))
	assert.Equal(t, "Created", env.Status)
	room := decode[roomOut](t, env.Data)
	assert.Equal(t, "Sea view suite", room.Title)
	require.Len(t, room.AvailableDates, 20)
	assert.Equal(t, "2024-01-01", room.AvailableDates[0])
	assert.Equal(t, "2024-01-20", room.AvailableDates[19])

	code, env = a.do(http.MethodPost, "/rooms/admin", roomBody(101), admin)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.JSONEq(t, `"numberRoom already exists"`, string(env.Data))

	bad := roomBody(102)
	bad["title"] = "x"
	delete(bad, "capacity")
	code, env = a.do(http.MethodPost, "/rooms/admin", bad, admin)
	assert.Equal(t, http.StatusBadRequest, code)
	fields := decode[[]handler.FieldError](t, env.Data)
	require.Len(t, fields, 2)
	assert.ElementsMatch(t, []string{"title", "capacity"}, []string{fields[0].Field, fields[1].Field})

	code, env = a.do(http.MethodGet, "/rooms", nil, "")
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, decode[[]roomOut](t, env.Data), 1)

	code, first := a.do(http.MethodGet, "/rooms/one/"+room.ID, nil, "")
	require.Equal(t, http.StatusOK, code)
	_, second := a.do(http.MethodGet, "/rooms/one/"+room.ID, nil, "")
	assert.JSONEq(t, string(first.Data), string(second.Data))

	code, _ = a.do(http.MethodGet, "/rooms/one/nope", nil, "")
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = a.do(http.MethodGet, "/rooms/one/"+repository.NewID(), nil, "")
	assert.Equal(t, http.StatusNotFound, code)

	code, env = a.do(http.MethodPost, "/rooms/admin", roomBody(202), admin)
	require.Equal(t, http.StatusCreated, code)
	other := decode[roomOut](t, env.Data)

	code, _ = a.do(http.MethodPut, "/rooms/admin/"+other.ID, echo.Map{"numberRoom": 101}, admin)
	assert.Equal(t, http.StatusBadRequest, code)
	code, env = a.do(http.MethodPut, "/rooms/admin/"+other.ID, echo.Map{"title": "Garden  room"}, admin)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Garden room", decode[roomOut](t, env.Data).Title)
	code, _ = a.do(http.MethodPut, "/rooms/admin/"+repository.NewID(), echo.Map{"title": "Gone"}, admin)
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = a.do(http.MethodPut, "/rooms/admin/xyz", echo.Map{"title": "Gone"}, admin)
	assert.Equal(t, http.StatusBadRequest, code)

	code, env = a.do(http.MethodDelete, "/rooms/admin/"+other.ID, nil, admin)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, other.ID, decode[roomOut](t, env.Data).ID)
	code, _ = a.do(http.MethodDelete, "/rooms/admin/"+other.ID, nil, admin)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestBookingAndReservations(t *testing.T) {
	a := newAPI(t)
	admin := a.login("admin@hotel.test", "admin-pass")
	guest := a.register("guest@hotel.test")

	code, env := a.do(http.MethodPost, "/rooms/admin", roomBody(7), admin)
	require.Equal(t, http.StatusCreated, code)
	room := decode[roomOut](t, env.Data)

	code, _ = a.do(http.MethodPut, "/rooms/reserved/"+room.ID, echo.Map{"date": "2024-01-01"}, "")
	assert.Equal(t, http.StatusUnauthorized, code)

	code, env = a.do(http.MethodPut, "/rooms/reserved/"+room.ID, echo.Map{"date": "2024-01-01"}, guest)
	require.Equal(t, http.StatusCreated, code, string(env.Data))
	assert.Equal(t, "Created", env.Status)
	conf := decode[service.Confirmation](t, env.Data)
	assert.Equal(t, service.BookedMessage, conf.Message)
	assert.Equal(t, "2024-01-01", conf.Date)

	_, env = a.do(http.MethodGet, "/rooms/one/"+room.ID, nil, "")
	window := decode[roomOut](t, env.Data).AvailableDates
	assert.Len(t, window, 20)
	assert.NotContains(t, window, "2024-01-01")
	assert.Equal(t, "2024-01-21", window[19])

	code, env = a.do(http.MethodPut, "/rooms/reserved/"+room.ID, echo.Map{"date": "2024-01-01"}, guest)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.JSONEq(t, `"date not available"`, string(env.Data))
	code, _ = a.do(http.MethodPut, "/rooms/reserved/"+repository.NewID(), echo.Map{"date": "2024-01-02"}, guest)
	assert.Equal(t, http.StatusNotFound, code)
	code, env = a.do(http.MethodPut, "/rooms/reserved/"+room.ID, echo.Map{"date": "tomorrow"}, guest)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.JSONEq(t, `"invalid date, expected YYYY-MM-DD"`, string(env.Data))
	code, _ = a.do(http.MethodPut, "/rooms/reserved/"+repository.NewID(), echo.Map{"date": "tomorrow"}, guest)
	assert.Equal(t, http.StatusNotFound, code)

	code, env = a.do(http.MethodGet, "/reservation", nil, guest)
	require.Equal(t, http.StatusOK, code)
	mine := decode[[]map[string]string](t, env.Data)
	require.Len(t, mine, 1)
	assert.Equal(t, room.ID, mine[0]["roomId"])
	assert.Equal(t, conf.ReservationID, mine[0]["_id"])

	code, _ = a.do(http.MethodGet, "/reservations/admin", nil, guest)
	assert.Equal(t, http.StatusForbidden, code)
	code, env = a.do(http.MethodGet, "/reservations/admin", nil, admin)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, decode[[]map[string]string](t, env.Data), 1)

	code, first := a.do(http.MethodGet, "/reservations/admin/one/"+conf.ReservationID, nil, admin)
	require.Equal(t, http.StatusOK, code)
	_, second := a.do(http.MethodGet, "/reservations/admin/one/"+conf.ReservationID, nil, admin)
	assert.JSONEq(t, string(first.Data), string(second.Data))
	assert.Equal(t, conf.ReservationID, decode[map[string]string](t, first.Data)["_id"])
	code, _ = a.do(http.MethodGet, "/reservations/admin/one/bad-id", nil, admin)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = a.do(http.MethodDelete, "/reservations/admin/"+conf.ReservationID, nil, admin)
	assert.Equal(t, http.StatusOK, code)
	code, _ = a.do(http.MethodDelete, "/reservations/admin/"+conf.ReservationID, nil, admin)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestRoomNumericFields(t *testing.T) {
	a := newAPI(t)
	admin := a.login("admin@hotel.test", "admin-pass")

	body := roomBody(9)
	body["price"] = "12"
	body["numberRoom"] = "9"
	body["capacity"] = " 3 "
	code, env := a.do(http.MethodPost, "/rooms/admin", body, admin)
	require.Equal(t, http.StatusCreated, code, string(env.Data))
	created := decode[map[string]any](t, env.Data)
	assert.Equal(t, 12.0, created["price"])
	assert.Equal(t, 9.0, created["numberRoom"])
	assert.Equal(t, 3.0, created["capacity"])

	bad := roomBody(10)
	bad["capacity"] = "abc"
	code, env = a.do(http.MethodPost, "/rooms/admin", bad, admin)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.JSONEq(t, `[{"field":"capacity","msg":"must be numeric"}]`, string(env.Data))

	bad = roomBody(10)
	bad["numberRoom"] = "10.5"
	code, env = a.do(http.MethodPost, "/rooms/admin", bad, admin)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.JSONEq(t, `[{"field":"numberRoom","msg":"must be a whole number"}]`, string(env.Data))

	bad = roomBody(10)
	bad["title"] = 42
	code, env = a.do(http.MethodPost, "/rooms/admin", bad, admin)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.JSONEq(t, `[{"field":"title","msg":"must be of type string"}]`, string(env.Data))

	id, _ := created["_id"].(string)
	code, env = a.do(http.MethodPut, "/rooms/admin/"+id, echo.Map{"price": "99.5", "capacity": 4}, admin)
	require.Equal(t, http.StatusOK, code, string(env.Data))
	updated := decode[map[string]any](t, env.Data)
	assert.Equal(t, 99.5, updated["price"])
	assert.Equal(t, 4.0, updated["capacity"])

	code, env = a.do(http.MethodPut, "/rooms/admin/"+id, echo.Map{"price": "-1"}, admin)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.JSONEq(t, `[{"field":"price","msg":"must be greater than or equal to 0"}]`, string(env.Data))
}
