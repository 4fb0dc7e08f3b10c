// Package stores holds the record façades over the document store.
package stores

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"olstar_backend/internal/apperr"
	"olstar_backend/internal/docstore"
	"olstar_backend/internal/models"
)

const schedulesPath = "schedules"

// ScheduleStore reads and writes schedules/{transactionID}.
type ScheduleStore struct {
	db docstore.Store
}

func NewScheduleStore(db docstore.Store) *ScheduleStore {
	return &ScheduleStore{db: db}
}

// Put writes s at its key, replacing any existing record.
func (s *ScheduleStore) Put(ctx context.Context, sched models.Schedule) error {
	id, err := scheduleKey(sched.TransactionID.String())
	if err != nil {
		return err
	}
	if err := s.db.Set(ctx, docstore.Join(schedulesPath, id), sched); err != nil {
		return apperr.Downstream("failed to save schedule "+id, err)
	}
	return nil
}

// List returns every schedule ordered by key. The stored key is re-injected
// as TransactionID and Current always carries exactly driverName/cellPhone.
// Records that do not decode as a schedule are logged and skipped.
func (s *ScheduleStore) List(ctx context.Context) ([]models.Schedule, error) {
	var raw map[string]json.RawMessage
	if _, err := docstore.GetInto(ctx, s.db, schedulesPath, &raw); err != nil {
		return nil, apperr.Downstream("failed to load schedules", err)
	}

	out := make([]models.Schedule, 0, len(raw))
	for id, body := range raw {
		var sched models.Schedule
		if err := json.Unmarshal(body, &sched); err != nil {
			logrus.WithField("transactionID", id).WithError(err).Warn("skipping undecodable schedule")
			continue
		}
		sched.TransactionID = models.Text(id)
		cur := sched.Assignment()
		sched.Current = &cur
		out = append(out, sched)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TransactionID < out[j].TransactionID })
	return out, nil
}

// Exists reports whether a schedule is stored under id.
func (s *ScheduleStore) Exists(ctx context.Context, id string) (bool, error) {
	key, err := scheduleKey(id)
	if err != nil {
		return false, err
	}
	v, err := s.db.Get(ctx, docstore.Join(schedulesPath, key))
	if err != nil {
		return false, apperr.Downstream("failed to load schedule "+key, err)
	}
	return v != nil, nil
}

// Patch merges fields into the record. Only the named fields change.
func (s *ScheduleStore) Patch(ctx context.Context, id string, fields map[string]any) error {
	key, err := scheduleKey(id)
	if err != nil {
		return err
	}
	if err := s.db.Update(ctx, docstore.Join(schedulesPath, key), fields); err != nil {
		return apperr.Downstream("failed to update schedule "+key, err)
	}
	return nil
}

// ReplaceCurrent overwrites the current assignment as a whole.
func (s *ScheduleStore) ReplaceCurrent(ctx context.Context, id string, cur models.Assignment) error {
	key, err := scheduleKey(id)
	if err != nil {
		return err
	}
	if err := s.db.Set(ctx, docstore.Join(schedulesPath, key, "current"), cur); err != nil {
		return apperr.Downstream("failed to update assignment of "+key, err)
	}
	return nil
}

func (s *ScheduleStore) Delete(ctx context.Context, id string) error {
	key, err := scheduleKey(id)
	if err != nil {
		return err
	}
	if err := s.db.Delete(ctx, docstore.Join(schedulesPath, key)); err != nil {
		return apperr.Downstream("failed to delete schedule "+key, err)
	}
	return nil
}

func scheduleKey(id string) (string, error) {
	if id == "" {
		return "", apperr.Validation("transactionID is required")
	}
	if !docstore.ValidKey(id) {
		return "", apperr.Validation(fmt.Sprintf("transactionID %q contains characters that cannot be used as a key", id))
	}
	return id, nil
}

