package mongodb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fleetfix/fleetfix/internal/domain/models"
)

// sessionCheckVehicleRepo records whether calls arrive with the mongo
// session attached to their context.
type sessionCheckVehicleRepo struct {
	sawSession bool
}

func (r *sessionCheckVehicleRepo) observe(ctx context.Context) {
	r.sawSession = mongo.SessionFromContext(ctx) != nil
}

func (r *sessionCheckVehicleRepo) GetByID(ctx context.Context, id int64) (*models.Vehicle, error) {
	r.observe(ctx)
	return &models.Vehicle{ID: id}, nil
}

func (r *sessionCheckVehicleRepo) GetByCode(ctx context.Context, code int64) (*models.Vehicle, error) {
	r.observe(ctx)
	return &models.Vehicle{Code: code}, nil
}

func (r *sessionCheckVehicleRepo) Create(ctx context.Context, vehicle *models.Vehicle) error {
	r.observe(ctx)
	return nil
}

func (r *sessionCheckVehicleRepo) Update(ctx context.Context, vehicle *models.Vehicle) error {
	r.observe(ctx)
	return nil
}

func (r *sessionCheckVehicleRepo) UpdateOdometer(ctx context.Context, id int64, odometer float64) error {
	r.observe(ctx)
	return nil
}

func (r *sessionCheckVehicleRepo) Delete(ctx context.Context, id int64) error {
	r.observe(ctx)
	return nil
}

func (r *sessionCheckVehicleRepo) List(ctx context.Context) ([]*models.Vehicle, error) {
	r.observe(ctx)
	return nil, nil
}

type sessionCheckFuelEventRepo struct {
	sawSession bool
}

func (r *sessionCheckFuelEventRepo) observe(ctx context.Context) {
	r.sawSession = mongo.SessionFromContext(ctx) != nil
}

func (r *sessionCheckFuelEventRepo) Create(ctx context.Context, event *models.FuelEvent) error {
	r.observe(ctx)
	return nil
}

func (r *sessionCheckFuelEventRepo) ListExternalIDs(ctx context.Context) (map[int64]struct{}, error) {
	r.observe(ctx)
	return nil, nil
}

func (r *sessionCheckFuelEventRepo) LastByVehicle(ctx context.Context) (map[int64]*models.FuelEvent, error) {
	r.observe(ctx)
	return nil, nil
}

func (r *sessionCheckFuelEventRepo) ListByVehicle(ctx context.Context, vehicleID int64, limit int) ([]*models.FuelEvent, error) {
	r.observe(ctx)
	return nil, nil
}

// newTestSession starts a client-side session without touching a server;
// the driver dials lazily so no mongod is required here.
func newTestSession(t *testing.T) mongo.Session {
	t.Helper()

	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI("mongodb://127.0.0.1:27017"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	session, err := client.StartSession()
	require.NoError(t, err)
	t.Cleanup(func() { session.EndSession(context.Background()) })

	return session
}

func TestTransactionRepositoriesCarrySession(t *testing.T) {
	session := newTestSession(t)

	vehicles := &sessionCheckVehicleRepo{}
	events := &sessionCheckFuelEventRepo{}
	tx := &mongoTransaction{
		session:       session,
		vehicleRepo:   vehicles,
		fuelEventRepo: events,
	}

	err := tx.GetVehicleRepository().UpdateOdometer(context.Background(), 1, 1234.5)
	require.NoError(t, err)
	assert.True(t, vehicles.sawSession, "odometer update must run under the session")

	vehicles.sawSession = false
	_, err = tx.GetVehicleRepository().GetByCode(context.Background(), 77)
	require.NoError(t, err)
	assert.True(t, vehicles.sawSession, "reads inside the transaction must run under the session")

	err = tx.GetFuelEventRepository().Create(context.Background(), &models.FuelEvent{ExternalID: 9})
	require.NoError(t, err)
	assert.True(t, events.sawSession, "fuel event insert must run under the session")
}

func TestTransactionBindPreservesCancellation(t *testing.T) {
	session := newTestSession(t)
	tx := &mongoTransaction{session: session}

	ctx, cancel := context.WithCancel(context.Background())
	bound := tx.bind(ctx)
	assert.NotNil(t, mongo.SessionFromContext(bound))

	cancel()
	assert.ErrorIs(t, bound.Err(), context.Canceled)
}
