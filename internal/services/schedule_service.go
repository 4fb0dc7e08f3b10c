// Package services composes the stores, identity provider and notifier into
// the operations exposed over HTTP.
package services

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/sirupsen/logrus"

	"olstar_backend/internal/apperr"
	"olstar_backend/internal/models"
	"olstar_backend/internal/notify"
	"olstar_backend/internal/stores"
)

// Notifier dispatches client notifications for stored schedules.
type Notifier interface {
	NotifySchedules(ctx context.Context, schedules []models.Schedule) []notify.Report
}

// WriteRecorder counts schedule writes.
type WriteRecorder interface {
	ScheduleWritten(op string)
}

// CreateResult lists the keys written so far and, when the whole batch was
// stored, the per-record notification outcomes.
type CreateResult struct {
	TransactionIDs []string        `json:"transactionIDs"`
	Messages       []notify.Report `json:"messages"`
}

type ScheduleService struct {
	store    *stores.ScheduleStore
	notifier Notifier
	recorder WriteRecorder
}

func NewScheduleService(store *stores.ScheduleStore, notifier Notifier, recorder WriteRecorder) *ScheduleService {
	return &ScheduleService{store: store, notifier: notifier, recorder: recorder}
}

// DecodeSchedules accepts a single schedule object or an array of them.
func DecodeSchedules(body []byte) ([]models.Schedule, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return nil, apperr.Validation("No data provided")
	}

	var batch []models.Schedule
	switch body[0] {
	case '[':
		if err := json.Unmarshal(body, &batch); err != nil {
			return nil, apperr.Validation("invalid schedule payload: " + err.Error())
		}
	case '{':
		var one models.Schedule
		if err := json.Unmarshal(body, &one); err != nil {
			return nil, apperr.Validation("invalid schedule payload: " + err.Error())
		}
		batch = []models.Schedule{one}
	default:
		return nil, apperr.Validation("invalid schedule payload")
	}
	if len(batch) == 0 {
		return nil, apperr.Validation("No data provided")
	}
	return batch, nil
}

// Create writes each schedule in order, overwriting any record with the
// same key. The first member without a usable key fails the request;
// members written before it stay written and are listed in the result.
// Notifications go out only once every member is stored, and their
// failures never fail the request.
func (s *ScheduleService) Create(ctx context.Context, batch []models.Schedule) (CreateResult, error) {
	res := CreateResult{TransactionIDs: make([]string, 0, len(batch)), Messages: []notify.Report{}}
	for _, sched := range batch {
		if err := s.store.Put(ctx, sched); err != nil {
			if len(res.TransactionIDs) > 0 {
				logrus.WithFields(logrus.Fields{
					"saved": res.TransactionIDs,
				}).WithError(err).Warn("schedule batch stopped after partial write")
			}
			return res, err
		}
		res.TransactionIDs = append(res.TransactionIDs, sched.TransactionID.String())
		s.record("create")
	}

	res.Messages = append(res.Messages, s.notifier.NotifySchedules(ctx, batch)...)
	return res, nil
}

func (s *ScheduleService) List(ctx context.Context) ([]models.Schedule, error) {
	return s.store.List(ctx)
}

// Update patches the named top-level fields of an existing schedule. A
// "current" member replaces the assignment as a whole in a separate write;
// transactionID is immutable and ignored.
func (s *ScheduleService) Update(ctx context.Context, id string, body []byte) error {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return apperr.Validation("No data provided")
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return apperr.Validation("invalid schedule payload: " + err.Error())
	}
	if len(raw) == 0 {
		return apperr.Validation("No data provided")
	}

	exists, err := s.store.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return apperr.NotFound("Schedule not found")
	}

	currentRaw, hasCurrent := raw["current"]
	delete(raw, "current")
	delete(raw, "transactionID")

	fields, err := patchFields(raw)
	if err != nil {
		return err
	}

	var cur *models.Assignment
	if hasCurrent {
		if bytes.Equal(bytes.TrimSpace(currentRaw), []byte("null")) {
			fields["current"] = nil
		} else {
			cur = &models.Assignment{}
			if err := json.Unmarshal(currentRaw, cur); err != nil {
				return apperr.Validation("invalid current assignment: " + err.Error())
			}
		}
	}

	if len(fields) > 0 {
		if err := s.store.Patch(ctx, id, fields); err != nil {
			return err
		}
	}
	if cur != nil {
		if err := s.store.ReplaceCurrent(ctx, id, *cur); err != nil {
			return err
		}
	}
	s.record("update")
	return nil
}

func (s *ScheduleService) Delete(ctx context.Context, id string) error {
	exists, err := s.store.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return apperr.NotFound("Schedule not found")
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.record("delete")
	return nil
}

func (s *ScheduleService) record(op string) {
	if s.recorder != nil {
		s.recorder.ScheduleWritten(op)
	}
}

// patchFields coerces the named members through models.Schedule and keeps
// only those the caller sent. Unknown members are dropped.
func patchFields(raw map[string]json.RawMessage) (map[string]any, error) {
	fields := map[string]any{}
	if len(raw) == 0 {
		return fields, nil
	}
	b, err := json.Marshal(raw)
	if err != nil {
		return nil, apperr.Validation("invalid schedule payload: " + err.Error())
	}
	var sched models.Schedule
	if err := json.Unmarshal(b, &sched); err != nil {
		return nil, apperr.Validation("invalid schedule payload: " + err.Error())
	}
	b, err = json.Marshal(sched)
	if err != nil {
		return nil, err
	}
	var coerced map[string]any
	if err := json.Unmarshal(b, &coerced); err != nil {
		return nil, err
	}
	for k := range raw {
		if v, ok := coerced[k]; ok {
			fields[k] = v
		} else {
			logrus.WithField("field", k).Debug("ignoring unknown schedule field")
		}
	}
	return fields, nil
}
