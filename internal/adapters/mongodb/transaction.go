package mongodb

import (
	"context"

	"github.com/fleetfix/fleetfix/internal/domain/models"
	"github.com/fleetfix/fleetfix/internal/domain/ports"
	"go.mongodb.org/mongo-driver/mongo"
)

// mongoTransaction implements the Transaction interface on top of a
// session transaction. Repository calls must carry the session context;
// a write issued with a plain context lands outside the server-side
// transaction and survives a rollback.
type mongoTransaction struct {
	session       mongo.Session
	vehicleRepo   ports.VehicleRepository
	fuelEventRepo ports.FuelEventRepository
}

func newMongoTransaction(session mongo.Session, db *mongo.Database) *mongoTransaction {
	return &mongoTransaction{
		session:       session,
		vehicleRepo:   NewVehicleRepository(db),
		fuelEventRepo: NewFuelEventRepository(db),
	}
}

// bind attaches the transaction's session to ctx so the operation joins
// the server-side transaction
func (t *mongoTransaction) bind(ctx context.Context) context.Context {
	return mongo.NewSessionContext(ctx, t.session)
}

// Commit commits the transaction
func (t *mongoTransaction) Commit(ctx context.Context) error {
	err := t.session.CommitTransaction(ctx)
	t.session.EndSession(ctx)
	return err
}

// Rollback rolls back the transaction
func (t *mongoTransaction) Rollback(ctx context.Context) error {
	err := t.session.AbortTransaction(ctx)
	t.session.EndSession(ctx)
	return err
}

// GetVehicleRepository returns a session-bound vehicle repository
func (t *mongoTransaction) GetVehicleRepository() ports.VehicleRepository {
	return &sessionVehicleRepository{tx: t, inner: t.vehicleRepo}
}

// GetFuelEventRepository returns a session-bound fuel event repository
func (t *mongoTransaction) GetFuelEventRepository() ports.FuelEventRepository {
	return &sessionFuelEventRepository{tx: t, inner: t.fuelEventRepo}
}

// sessionVehicleRepository rebinds every call to the session context
type sessionVehicleRepository struct {
	tx    *mongoTransaction
	inner ports.VehicleRepository
}

func (r *sessionVehicleRepository) GetByID(ctx context.Context, id int64) (*models.Vehicle, error) {
	return r.inner.GetByID(r.tx.bind(ctx), id)
}

func (r *sessionVehicleRepository) GetByCode(ctx context.Context, code int64) (*models.Vehicle, error) {
	return r.inner.GetByCode(r.tx.bind(ctx), code)
}

func (r *sessionVehicleRepository) Create(ctx context.Context, vehicle *models.Vehicle) error {
	return r.inner.Create(r.tx.bind(ctx), vehicle)
}

func (r *sessionVehicleRepository) Update(ctx context.Context, vehicle *models.Vehicle) error {
	return r.inner.Update(r.tx.bind(ctx), vehicle)
}

func (r *sessionVehicleRepository) UpdateOdometer(ctx context.Context, id int64, odometer float64) error {
	return r.inner.UpdateOdometer(r.tx.bind(ctx), id, odometer)
}

func (r *sessionVehicleRepository) Delete(ctx context.Context, id int64) error {
	return r.inner.Delete(r.tx.bind(ctx), id)
}

func (r *sessionVehicleRepository) List(ctx context.Context) ([]*models.Vehicle, error) {
	return r.inner.List(r.tx.bind(ctx))
}

// sessionFuelEventRepository rebinds every call to the session context
type sessionFuelEventRepository struct {
	tx    *mongoTransaction
	inner ports.FuelEventRepository
}

func (r *sessionFuelEventRepository) Create(ctx context.Context, event *models.FuelEvent) error {
	return r.inner.Create(r.tx.bind(ctx), event)
}

func (r *sessionFuelEventRepository) ListExternalIDs(ctx context.Context) (map[int64]struct{}, error) {
	return r.inner.ListExternalIDs(r.tx.bind(ctx))
}

func (r *sessionFuelEventRepository) LastByVehicle(ctx context.Context) (map[int64]*models.FuelEvent, error) {
	return r.inner.LastByVehicle(r.tx.bind(ctx))
}

func (r *sessionFuelEventRepository) ListByVehicle(ctx context.Context, vehicleID int64, limit int) ([]*models.FuelEvent, error) {
	return r.inner.ListByVehicle(r.tx.bind(ctx), vehicleID, limit)
}
