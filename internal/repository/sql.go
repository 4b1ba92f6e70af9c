package repository

// MySQL backend. Rooms keep their images and available dates as JSON text
// columns; the booking window swap compares the stored text, which is safe
// because every writer encodes the slice the same way.

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/hotel-room-reservation/internal/model"
)

const mysqlDuplicateEntry = 1062

var sqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS rooms (
		id              CHAR(24)     NOT NULL PRIMARY KEY,
		title           VARCHAR(64)  NOT NULL,
		price           DOUBLE       NOT NULL,
		images          TEXT         NOT NULL,
		description     VARCHAR(255) NOT NULL,
		available_dates TEXT         NOT NULL,
		number_room     INT          NOT NULL UNIQUE,
		type_room       VARCHAR(64)  NOT NULL,
		size            VARCHAR(64)  NOT NULL,
		capacity        INT          NOT NULL
	) DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS reservations (
		id         CHAR(24)    NOT NULL PRIMARY KEY,
		user_id    CHAR(24)    NOT NULL,
		room_id    CHAR(24)    NOT NULL,
		date       CHAR(10)    NOT NULL,
		created_at TIMESTAMP   NOT NULL DEFAULT CURRENT_TIMESTAMP,
		KEY idx_reservations_user (user_id)
	) DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS users (
		id            CHAR(24)     NOT NULL PRIMARY KEY,
		first_name    VARCHAR(64)  NOT NULL,
		last_name     VARCHAR(64)  NOT NULL,
		email         VARCHAR(255) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		phone         BIGINT       NOT NULL,
		role          VARCHAR(16)  NOT NULL DEFAULT 'user',
		is_active     BOOLEAN      NOT NULL DEFAULT TRUE
	) DEFAULT CHARSET=utf8mb4`,
}

// EnsureSQLSchema creates the tables when they do not exist yet.
func EnsureSQLSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range sqlSchema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// NewSQLStore builds a Store on a MySQL connection pool.
func NewSQLStore(db *sql.DB) Store {
	return Store{
		Rooms:        &SQLRoomRepo{db: db},
		Reservations: &SQLReservationRepo{db: db},
		Users:        &SQLUserRepo{db: db},
		Close:        func(context.Context) error { return db.Close() },
	}
}

func isDuplicate(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}

func encodeList(s []string) (string, error) {
	b, err := json.Marshal(nonNil(s))
	return string(b), err
}

func decodeList(s string) ([]string, error) {
	var out []string
	if s == "" {
		return []string{}, nil
	}
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, err
	}
	return nonNil(out), nil
}

// ---- rooms ----

const roomColumns = "id, title, price, images, description, available_dates, number_room, type_room, size, capacity"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRoom(s rowScanner) (model.Room, error) {
	var (
		r             model.Room
		images, dates string
	)
	if err := s.Scan(&r.ID, &r.Title, &r.Price, &images, &r.Description, &dates, &r.NumberRoom, &r.TypeRoom, &r.Size, &r.Capacity); err != nil {
		return model.Room{}, err
	}
	var err error
	if r.Images, err = decodeList(images); err != nil {
		return model.Room{}, err
	}
	if r.AvailableDates, err = decodeList(dates); err != nil {
		return model.Room{}, err
	}
	return r, nil
}

// SQLRoomRepo stores rooms in the rooms table. Ids are object id hex
// strings so they look the same as on the Mongo backend; the unique key on
// number_room maps onto ErrConflict.
type SQLRoomRepo struct{ db *sql.DB }

func (r *SQLRoomRepo) List(ctx context.Context) ([]model.Room, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+roomColumns+" FROM rooms ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Room{}
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, room)
	}
	return out, rows.Err()
}

func (r *SQLRoomRepo) GetByID(ctx context.Context, id string) (model.Room, error) {
	if !ValidID(id) {
		return model.Room{}, ErrInvalidID
	}
	room, err := scanRoom(r.db.QueryRowContext(ctx, "SELECT "+roomColumns+" FROM rooms WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Room{}, ErrNotFound
	}
	return room, err
}

func (r *SQLRoomRepo) Create(ctx context.Context, room *model.Room) error {
	images, err := encodeList(room.Images)
	if err != nil {
		return err
	}
	dates, err := encodeList(room.AvailableDates)
	if err != nil {
		return err
	}
	id := NewID()
	_, err = r.db.ExecContext(ctx,
		"INSERT INTO rooms ("+roomColumns+") VALUES (?,?,?,?,?,?,?,?,?,?)",
		id, room.Title, room.Price, images, room.Description, dates, room.NumberRoom, room.TypeRoom, room.Size, room.Capacity)
	if err != nil {
		if isDuplicate(err) {
			return ErrConflict
		}
		return err
	}
	room.ID = id
	return nil
}

// Update applies the patch inside a transaction holding the row lock.
func (r *SQLRoomRepo) Update(ctx context.Context, id string, p model.RoomPatch) (model.Room, error) {
	if !ValidID(id) {
		return model.Room{}, ErrInvalidID
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Room{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	room, err := scanRoom(tx.QueryRowContext(ctx, "SELECT "+roomColumns+" FROM rooms WHERE id = ? FOR UPDATE", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Room{}, ErrNotFound
		}
		return model.Room{}, err
	}
	p.Apply(&room)

	images, err := encodeList(room.Images)
	if err != nil {
		return model.Room{}, err
	}
	dates, err := encodeList(room.AvailableDates)
	if err != nil {
		return model.Room{}, err
	}
	const q = `UPDATE rooms SET title = ?, price = ?, images = ?, description = ?, available_dates = ?,
	           number_room = ?, type_room = ?, size = ?, capacity = ? WHERE id = ?`
	if _, err := tx.ExecContext(ctx, q, room.Title, room.Price, images, room.Description, dates,
		room.NumberRoom, room.TypeRoom, room.Size, room.Capacity, id); err != nil {
		if isDuplicate(err) {
			return model.Room{}, ErrConflict
		}
		return model.Room{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.Room{}, err
	}
	committed = true
	return room, nil
}

func (r *SQLRoomRepo) Delete(ctx context.Context, id string) (model.Room, error) {
	room, err := r.GetByID(ctx, id)
	if err != nil {
		return model.Room{}, err
	}
	res, err := r.db.ExecContext(ctx, "DELETE FROM rooms WHERE id = ?", id)
	if err != nil {
		return model.Room{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.Room{}, ErrNotFound
	}
	return room, nil
}

func (r *SQLRoomRepo) ReplaceDates(ctx context.Context, id string, prev, next []string) error {
	if !ValidID(id) {
		return ErrInvalidID
	}
	prevText, err := encodeList(prev)
	if err != nil {
		return err
	}
	nextText, err := encodeList(next)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		"UPDATE rooms SET available_dates = ? WHERE id = ? AND available_dates = ?",
		nextText, id, prevText)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 1 {
		return nil
	}
	// zero rows: missing room, concurrent change, or prev == next
	var current string
	err = r.db.QueryRowContext(ctx, "SELECT available_dates FROM rooms WHERE id = ?", id).Scan(&current)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return ErrNotFound
	case err != nil:
		return err
	case current == nextText:
		return nil
	}
	return ErrWindowChanged
}

// ---- reservations ----

// SQLReservationRepo stores reservations in the reservations table.
type SQLReservationRepo struct{ db *sql.DB }

func (r *SQLReservationRepo) Create(ctx context.Context, res *model.Reservation) error {
	id := NewID()
	if _, err := r.db.ExecContext(ctx,
		"INSERT INTO reservations (id, user_id, room_id, date) VALUES (?,?,?,?)",
		id, res.UserID, res.RoomID, res.Date); err != nil {
		return err
	}
	res.ID = id
	return nil
}

func (r *SQLReservationRepo) List(ctx context.Context) ([]model.Reservation, error) {
	return r.query(ctx, "SELECT id, user_id, room_id, date FROM reservations ORDER BY created_at, id")
}

func (r *SQLReservationRepo) ListByUser(ctx context.Context, userID string) ([]model.Reservation, error) {
	return r.query(ctx, "SELECT id, user_id, room_id, date FROM reservations WHERE user_id = ? ORDER BY created_at, id", userID)
}

func (r *SQLReservationRepo) query(ctx context.Context, q string, args ...any) ([]model.Reservation, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Reservation{}
	for rows.Next() {
		var res model.Reservation
		if err := rows.Scan(&res.ID, &res.UserID, &res.RoomID, &res.Date); err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

func (r *SQLReservationRepo) GetByID(ctx context.Context, id string) (model.Reservation, error) {
	if !ValidID(id) {
		return model.Reservation{}, ErrInvalidID
	}
	var res model.Reservation
	err := r.db.QueryRowContext(ctx,
		"SELECT id, user_id, room_id, date FROM reservations WHERE id = ?", id).
		Scan(&res.ID, &res.UserID, &res.RoomID, &res.Date)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Reservation{}, ErrNotFound
	}
	return res, err
}

func (r *SQLReservationRepo) Delete(ctx context.Context, id string) (model.Reservation, error) {
	res, err := r.GetByID(ctx, id)
	if err != nil {
		return model.Reservation{}, err
	}
	out, err := r.db.ExecContext(ctx, "DELETE FROM reservations WHERE id = ?", id)
	if err != nil {
		return model.Reservation{}, err
	}
	if n, _ := out.RowsAffected(); n == 0 {
		return model.Reservation{}, ErrNotFound
	}
	return res, nil
}

// ---- users ----

// SQLUserRepo stores accounts in the users table. A duplicate email hits
// the unique key and is reported as ErrEmailExists.
type SQLUserRepo struct{ db *sql.DB }

const userColumns = "id, first_name, last_name, email, password_hash, phone, role, is_active"

func scanUser(s rowScanner) (model.User, error) {
	var u model.User
	err := s.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash, &u.Phone, &u.Role, &u.Active)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	return u, err
}

func (r *SQLUserRepo) Create(ctx context.Context, u *model.User) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	id := NewID()
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO users ("+userColumns+") VALUES (?,?,?,?,?,?,?,?)",
		id, u.FirstName, u.LastName, u.Email, u.PasswordHash, u.Phone, u.Role, u.Active)
	if err != nil {
		if isDuplicate(err) {
			return ErrEmailExists
		}
		return err
	}
	u.ID = id
	return nil
}

func (r *SQLUserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return scanUser(r.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE email = ? LIMIT 1", email))
}

func (r *SQLUserRepo) GetByID(ctx context.Context, id string) (model.User, error) {
	if !ValidID(id) {
		return model.User{}, ErrInvalidID
	}
	return scanUser(r.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = ? LIMIT 1", id))
}
