package repository

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/iliyamo/hotel-room-reservation/internal/model"
)

// Collection names. Like the rest of the schema they are fixed, not derived
// from the type names.
const (
	roomCollection        = "room"
	reservationCollection = "reservation"
	userCollection        = "user"
)

// NewMongoStore builds a Store on db. Call EnsureMongoIndexes once at startup
// so the unique constraints are enforced by the server.
func NewMongoStore(client *mongo.Client, db *mongo.Database) Store {
	return Store{
		Rooms:        &MongoRoomRepo{col: db.Collection(roomCollection)},
		Reservations: &MongoReservationRepo{col: db.Collection(reservationCollection)},
		Users:        &MongoUserRepo{col: db.Collection(userCollection)},
		Close:        client.Disconnect,
	}
}

// EnsureMongoIndexes creates the unique index on room.numberRoom and
// user.email and a lookup index on reservation.userId.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	if _, err := db.Collection(roomCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "numberRoom", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return err
	}
	if _, err := db.Collection(userCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return err
	}
	_, err := db.Collection(reservationCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}},
	})
	return err
}

func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidID
	}
	return oid, nil
}

func mongoErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return ErrConflict
	}
	return err
}

// ---- rooms ----

type roomDoc struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	Title          string             `bson:"title"`
	Price          float64            `bson:"price"`
	Images         []string           `bson:"images"`
	Description    string             `bson:"description"`
	AvailableDates []string           `bson:"avaliableDates"`
	NumberRoom     int                `bson:"numberRoom"`
	TypeRoom       string             `bson:"tipeRoom"`
	Size           string             `bson:"size"`
	Capacity       int                `bson:"capacity"`
}

func (d roomDoc) model() model.Room {
	return model.Room{
		ID:             d.ID.Hex(),
		Title:          d.Title,
		Price:          d.Price,
		Images:         nonNil(d.Images),
		Description:    d.Description,
		AvailableDates: nonNil(d.AvailableDates),
		NumberRoom:     d.NumberRoom,
		TypeRoom:       d.TypeRoom,
		Size:           d.Size,
		Capacity:       d.Capacity,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// MongoRoomRepo stores rooms in the room collection. The unique index on
// numberRoom turns duplicate numbers into ErrConflict, and ReplaceDates
// relies on a filter over the whole dates array for its conditional swap.
type MongoRoomRepo struct{ col *mongo.Collection }

func (r *MongoRoomRepo) List(ctx context.Context) ([]model.Room, error) {
	cur, err := r.col.Find(ctx, bson.D{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []model.Room{}
	for cur.Next(ctx) {
		var d roomDoc
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		out = append(out, d.model())
	}
	return out, cur.Err()
}

func (r *MongoRoomRepo) GetByID(ctx context.Context, id string) (model.Room, error) {
	oid, err := objectID(id)
	if err != nil {
		return model.Room{}, err
	}
	var d roomDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&d); err != nil {
		return model.Room{}, mongoErr(err)
	}
	return d.model(), nil
}

func (r *MongoRoomRepo) Create(ctx context.Context, room *model.Room) error {
	d := roomDoc{
		ID:             primitive.NewObjectID(),
		Title:          room.Title,
		Price:          room.Price,
		Images:         nonNil(room.Images),
		Description:    room.Description,
		AvailableDates: nonNil(room.AvailableDates),
		NumberRoom:     room.NumberRoom,
		TypeRoom:       room.TypeRoom,
		Size:           room.Size,
		Capacity:       room.Capacity,
	}
	if _, err := r.col.InsertOne(ctx, d); err != nil {
		return mongoErr(err)
	}
	room.ID = d.ID.Hex()
	return nil
}

func (r *MongoRoomRepo) Update(ctx context.Context, id string, p model.RoomPatch) (model.Room, error) {
	oid, err := objectID(id)
	if err != nil {
		return model.Room{}, err
	}
	set := patchSet(p)
	if len(set) == 0 {
		return r.GetByID(ctx, id)
	}
	var d roomDoc
	err = r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&d)
	if err != nil {
		return model.Room{}, mongoErr(err)
	}
	return d.model(), nil
}

func patchSet(p model.RoomPatch) bson.M {
	set := bson.M{}
	if p.Title != nil {
		set["title"] = *p.Title
	}
	if p.Price != nil {
		set["price"] = *p.Price
	}
	if p.Images != nil {
		set["images"] = nonNil(*p.Images)
	}
	if p.Description != nil {
		set["description"] = *p.Description
	}
	if p.AvailableDates != nil {
		set["avaliableDates"] = nonNil(*p.AvailableDates)
	}
	if p.NumberRoom != nil {
		set["numberRoom"] = *p.NumberRoom
	}
	if p.TypeRoom != nil {
		set["tipeRoom"] = *p.TypeRoom
	}
	if p.Size != nil {
		set["size"] = *p.Size
	}
	if p.Capacity != nil {
		set["capacity"] = *p.Capacity
	}
	return set
}

func (r *MongoRoomRepo) Delete(ctx context.Context, id string) (model.Room, error) {
	oid, err := objectID(id)
	if err != nil {
		return model.Room{}, err
	}
	var d roomDoc
	if err := r.col.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&d); err != nil {
		return model.Room{}, mongoErr(err)
	}
	return d.model(), nil
}

// ReplaceDates matches on the whole previous array so the write only lands
// when nobody changed the window since it was read.
func (r *MongoRoomRepo) ReplaceDates(ctx context.Context, id string, prev, next []string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": oid, "avaliableDates": nonNil(prev)},
		bson.M{"$set": bson.M{"avaliableDates": nonNil(next)}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 1 {
		return nil
	}
	n, err := r.col.CountDocuments(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return ErrWindowChanged
}

// ---- reservations ----

type reservationDoc struct {
	ID     primitive.ObjectID `bson:"_id,omitempty"`
	UserID string             `bson:"userId"`
	RoomID string             `bson:"roomId"`
	Date   string             `bson:"date"`
}

func (d reservationDoc) model() model.Reservation {
	return model.Reservation{ID: d.ID.Hex(), UserID: d.UserID, RoomID: d.RoomID, Date: d.Date}
}

// MongoReservationRepo stores reservations in the reservation collection.
// User and room ids are stored as their hex strings.
type MongoReservationRepo struct{ col *mongo.Collection }

func (r *MongoReservationRepo) Create(ctx context.Context, res *model.Reservation) error {
	d := reservationDoc{ID: primitive.NewObjectID(), UserID: res.UserID, RoomID: res.RoomID, Date: res.Date}
	if _, err := r.col.InsertOne(ctx, d); err != nil {
		return err
	}
	res.ID = d.ID.Hex()
	return nil
}

func (r *MongoReservationRepo) List(ctx context.Context) ([]model.Reservation, error) {
	return r.find(ctx, bson.D{})
}

func (r *MongoReservationRepo) ListByUser(ctx context.Context, userID string) ([]model.Reservation, error) {
	return r.find(ctx, bson.D{{Key: "userId", Value: userID}})
}

func (r *MongoReservationRepo) find(ctx context.Context, filter bson.D) ([]model.Reservation, error) {
	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []model.Reservation{}
	for cur.Next(ctx) {
		var d reservationDoc
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		out = append(out, d.model())
	}
	return out, cur.Err()
}

func (r *MongoReservationRepo) GetByID(ctx context.Context, id string) (model.Reservation, error) {
	oid, err := objectID(id)
	if err != nil {
		return model.Reservation{}, err
	}
	var d reservationDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&d); err != nil {
		return model.Reservation{}, mongoErr(err)
	}
	return d.model(), nil
}

func (r *MongoReservationRepo) Delete(ctx context.Context, id string) (model.Reservation, error) {
	oid, err := objectID(id)
	if err != nil {
		return model.Reservation{}, err
	}
	var d reservationDoc
	if err := r.col.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&d); err != nil {
		return model.Reservation{}, mongoErr(err)
	}
	return d.model(), nil
}

// ---- users ----

type userDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	FirstName string             `bson:"firstName"`
	LastName  string             `bson:"lastName"`
	Email     string             `bson:"email"`
	Password  string             `bson:"password"`
	Phone     int64              `bson:"phone"`
	Role      string             `bson:"role"`
	Active    bool               `bson:"active"`
}

func (d userDoc) model() model.User {
	return model.User{
		ID:           d.ID.Hex(),
		FirstName:    d.FirstName,
		LastName:     d.LastName,
		Email:        d.Email,
		PasswordHash: d.Password,
		Phone:        d.Phone,
		Role:         d.Role,
		Active:       d.Active,
	}
}

// MongoUserRepo stores accounts in the user collection. The unique index
// on email turns a taken address into ErrEmailExists.
type MongoUserRepo struct{ col *mongo.Collection }

func (r *MongoUserRepo) Create(ctx context.Context, u *model.User) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	d := userDoc{
		ID:        primitive.NewObjectID(),
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Password:  u.PasswordHash,
		Phone:     u.Phone,
		Role:      u.Role,
		Active:    u.Active,
	}
	if _, err := r.col.InsertOne(ctx, d); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrEmailExists
		}
		return err
	}
	u.ID = d.ID.Hex()
	return nil
}

func (r *MongoUserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var d userDoc
	if err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&d); err != nil {
		return model.User{}, mongoErr(err)
	}
	return d.model(), nil
}

func (r *MongoUserRepo) GetByID(ctx context.Context, id string) (model.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return model.User{}, err
	}
	var d userDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&d); err != nil {
		return model.User{}, mongoErr(err)
	}
	return d.model(), nil
}
