package remote

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pingodeleite/internal/models"
)

// Collection names in the remote store.
const (
	CollClients = "Clientes"
	CollEvents  = "Eventos"
	CollUsers   = "Users"
	CollLogs    = "Logs"
)

// Store implements entity operations on the remote document database. Every
// call obtains the shared handle through the connection client first, so a
// downed remote surfaces as a connect error, not a hung query.
type Store struct {
	client *Client
	dbName string
}

// NewStore builds the entity store. The client must be Mongo-backed.
func NewStore(client *Client, dbName string) *Store {
	return &Store{client: client, dbName: dbName}
}

func (s *Store) collection(ctx context.Context, name string) (*mongo.Collection, error) {
	conn, err := s.client.Connect(ctx)
	if err != nil {
		return nil, err
	}
	mc, ok := conn.(*mongoConn)
	if !ok {
		return nil, errors.New("remote: connection is not mongo-backed")
	}
	return mc.cl.Database(s.dbName).Collection(name), nil
}

// NewID allocates a remote-style identifier (ObjectID hex). Identifiers are
// plain opaque strings everywhere above this package.
func NewID() string {
	return primitive.NewObjectID().Hex()
}

// ---- clients ----

func (s *Store) ListClients(ctx context.Context) ([]models.Client, error) {
	coll, err := s.collection(ctx, CollClients)
	if err != nil {
		return nil, err
	}
	cur, err := coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	var out []models.Client
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) GetClient(ctx context.Context, id string) (*models.Client, error) {
	coll, err := s.collection(ctx, CollClients)
	if err != nil {
		return nil, err
	}
	var c models.Client
	err = coll.FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Store) InsertClient(ctx context.Context, c models.Client) (models.Client, error) {
	coll, err := s.collection(ctx, CollClients)
	if err != nil {
		return models.Client{}, err
	}
	if c.ID == "" {
		c.ID = NewID()
	}
	if _, err := coll.InsertOne(ctx, c); err != nil {
		return models.Client{}, err
	}
	return c, nil
}

func (s *Store) ReplaceClient(ctx context.Context, id string, c models.Client) (bool, error) {
	coll, err := s.collection(ctx, CollClients)
	if err != nil {
		return false, err
	}
	c.ID = id
	res, err := coll.ReplaceOne(ctx, bson.M{"_id": id}, c)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (s *Store) UpsertClient(ctx context.Context, c models.Client) error {
	coll, err := s.collection(ctx, CollClients)
	if err != nil {
		return err
	}
	if c.ID == "" {
		c.ID = NewID()
	}
	opts := options.Replace().SetUpsert(true)
	_, err = coll.ReplaceOne(ctx, bson.M{"_id": c.ID}, c, opts)
	return err
}

func (s *Store) DeleteClient(ctx context.Context, id string) error {
	coll, err := s.collection(ctx, CollClients)
	if err != nil {
		return err
	}
	_, err = coll.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// ---- events ----

func (s *Store) ListEvents(ctx context.Context) ([]models.Event, error) {
	coll, err := s.collection(ctx, CollEvents)
	if err != nil {
		return nil, err
	}
	cur, err := coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	var out []models.Event
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) ListEventsByClient(ctx context.Context, clientID string) ([]models.Event, error) {
	coll, err := s.collection(ctx, CollEvents)
	if err != nil {
		return nil, err
	}
	cur, err := coll.Find(ctx, bson.M{"clienteId": clientID})
	if err != nil {
		return nil, err
	}
	var out []models.Event
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	coll, err := s.collection(ctx, CollEvents)
	if err != nil {
		return nil, err
	}
	var e models.Event
	err = coll.FindOne(ctx, bson.M{"_id": id}).Decode(&e)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *Store) InsertEvent(ctx context.Context, e models.Event) (models.Event, error) {
	coll, err := s.collection(ctx, CollEvents)
	if err != nil {
		return models.Event{}, err
	}
	if e.ID == "" {
		e.ID = NewID()
	}
	if _, err := coll.InsertOne(ctx, e); err != nil {
		return models.Event{}, err
	}
	return e, nil
}

func (s *Store) ReplaceEvent(ctx context.Context, id string, e models.Event) (bool, error) {
	coll, err := s.collection(ctx, CollEvents)
	if err != nil {
		return false, err
	}
	e.ID = id
	res, err := coll.ReplaceOne(ctx, bson.M{"_id": id}, e)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (s *Store) UpsertEvent(ctx context.Context, e models.Event) error {
	coll, err := s.collection(ctx, CollEvents)
	if err != nil {
		return err
	}
	if e.ID == "" {
		e.ID = NewID()
	}
	opts := options.Replace().SetUpsert(true)
	_, err = coll.ReplaceOne(ctx, bson.M{"_id": e.ID}, e, opts)
	return err
}

func (s *Store) DeleteEvent(ctx context.Context, id string) error {
	coll, err := s.collection(ctx, CollEvents)
	if err != nil {
		return err
	}
	_, err = coll.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// ---- users ----

func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	coll, err := s.collection(ctx, CollUsers)
	if err != nil {
		return nil, err
	}
	cur, err := coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	var out []models.User
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	coll, err := s.collection(ctx, CollUsers)
	if err != nil {
		return nil, err
	}
	var u models.User
	err = coll.FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) InsertUser(ctx context.Context, u models.User) (models.User, error) {
	coll, err := s.collection(ctx, CollUsers)
	if err != nil {
		return models.User{}, err
	}
	if u.ID == "" {
		u.ID = NewID()
	}
	if _, err := coll.InsertOne(ctx, u); err != nil {
		return models.User{}, err
	}
	return u, nil
}

func (s *Store) UpsertUser(ctx context.Context, u models.User) error {
	coll, err := s.collection(ctx, CollUsers)
	if err != nil {
		return err
	}
	if u.ID == "" {
		u.ID = NewID()
	}
	opts := options.Replace().SetUpsert(true)
	_, err = coll.ReplaceOne(ctx, bson.M{"_id": u.ID}, u, opts)
	return err
}

// ---- logs ----

func (s *Store) InsertLog(ctx context.Context, entry models.LogEntry) error {
	coll, err := s.collection(ctx, CollLogs)
	if err != nil {
		return err
	}
	if entry.ID == "" {
		entry.ID = NewID()
	}
	_, err = coll.InsertOne(ctx, entry)
	return err
}

func (s *Store) UpsertLog(ctx context.Context, entry models.LogEntry) error {
	coll, err := s.collection(ctx, CollLogs)
	if err != nil {
		return err
	}
	if entry.ID == "" {
		entry.ID = NewID()
	}
	opts := options.Replace().SetUpsert(true)
	_, err = coll.ReplaceOne(ctx, bson.M{"_id": entry.ID}, entry, opts)
	return err
}

func (s *Store) ListLogs(ctx context.Context, limit int64) ([]models.LogEntry, error) {
	coll, err := s.collection(ctx, CollLogs)
	if err != nil {
		return nil, err
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(limit)
	cur, err := coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	var out []models.LogEntry
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
