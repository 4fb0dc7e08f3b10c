package stores

import (
	"context"
	"fmt"
	"math/rand/v2"

	"olstar_backend/internal/apperr"
	"olstar_backend/internal/docstore"
	"olstar_backend/internal/models"
)

const (
	unitsPath = "transportUnits"

	// maxIDAttempts bounds unit ID generation. With 17.6M possible IDs a
	// healthy store never gets close.
	maxIDAttempts = 1000
)

// FleetStore reads and writes transportUnits/{unitID}.
type FleetStore struct {
	db     docstore.Store
	nextID func() string
}

func NewFleetStore(db docstore.Store) *FleetStore {
	return &FleetStore{db: db, nextID: randomUnitID}
}

// randomUnitID returns three zero-padded digits followed by three
// uppercase letters, e.g. "007QRS".
func randomUnitID() string {
	letters := make([]byte, 3)
	for i := range letters {
		letters[i] = byte('A' + rand.IntN(26))
	}
	return fmt.Sprintf("%03d%s", rand.IntN(1000), letters)
}

// GenerateID returns an ID not currently used by any unit. Every candidate
// is checked against the live store. There is no lock: two concurrent
// callers drawing the same candidate would both succeed.
func (f *FleetStore) GenerateID(ctx context.Context) (string, error) {
	for range maxIDAttempts {
		id := f.nextID()
		v, err := f.db.Get(ctx, docstore.Join(unitsPath, id))
		if err != nil {
			return "", apperr.Downstream("failed to check unit id "+id, err)
		}
		if v == nil {
			return id, nil
		}
	}
	return "", apperr.Downstream("failed to generate unit id", fmt.Errorf("no free id after %d attempts", maxIDAttempts))
}

// List returns every unit keyed by its ID.
func (f *FleetStore) List(ctx context.Context) (map[string]models.TransportUnit, error) {
	units := map[string]models.TransportUnit{}
	if _, err := docstore.GetInto(ctx, f.db, unitsPath, &units); err != nil {
		return nil, apperr.Downstream("failed to load transport units", err)
	}
	return units, nil
}

// Create stores u under a freshly generated ID and returns the ID.
func (f *FleetStore) Create(ctx context.Context, u models.TransportUnit) (string, error) {
	id, err := f.GenerateID(ctx)
	if err != nil {
		return "", err
	}
	if err := f.db.Set(ctx, docstore.Join(unitsPath, id), u); err != nil {
		return "", apperr.Downstream("failed to save transport unit "+id, err)
	}
	return id, nil
}

// Update overwrites all four attributes; absent ones are removed. Updating
// an unknown ID creates it.
func (f *FleetStore) Update(ctx context.Context, id string, in models.TransportUnitInput) error {
	if !docstore.ValidKey(id) {
		return apperr.Validation("invalid transport unit id")
	}
	if err := f.db.Update(ctx, docstore.Join(unitsPath, id), in.Fields()); err != nil {
		return apperr.Downstream("failed to update transport unit "+id, err)
	}
	return nil
}

// Delete removes the unit whether or not it exists.
func (f *FleetStore) Delete(ctx context.Context, id string) error {
	if !docstore.ValidKey(id) {
		return apperr.Validation("invalid transport unit id")
	}
	if err := f.db.Delete(ctx, docstore.Join(unitsPath, id)); err != nil {
		return apperr.Downstream("failed to delete transport unit "+id, err)
	}
	return nil
}
