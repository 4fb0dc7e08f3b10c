package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"olstar_backend/internal/apperr"
	"olstar_backend/internal/docstore"
	"olstar_backend/internal/identity"
	"olstar_backend/internal/models"
	"olstar_backend/internal/notify"
	"olstar_backend/internal/stores"
)

type stubSender struct {
	mu   sync.Mutex
	sent []string
}

func (s *stubSender) Send(_ context.Context, _, to, _ string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, to)
	if !strings.HasPrefix(to, "whatsapp:") {
		return "", errors.New("sms gateway down")
	}
	return "SM1", nil
}

func newScheduleService(t *testing.T) (*ScheduleService, docstore.Store, *stubSender) {
	t.Helper()
	db := docstore.NewMemory()
	sender := &stubSender{}
	svc := NewScheduleService(stores.NewScheduleStore(db), notify.NewDispatcher(sender, "+15550001111", nil, 2), nil)
	return svc, db, sender
}

func TestDecodeSchedules(t *testing.T) {
	one, err := DecodeSchedules([]byte(`{"transactionID":"T1"}`))
	require.NoError(t, err)
	assert.Len(t, one, 1)

	many, err := DecodeSchedules([]byte(` [{"transactionID":"T1"},{"transactionID":"T2","pax":2}]`))
	require.NoError(t, err)
	assert.Len(t, many, 2)

	for _, body := range []string{"", "null", "[]", `"x"`, `{"pax":{}}`} {
		_, err := DecodeSchedules([]byte(body))
		assert.True(t, apperr.IsKind(err, apperr.KindValidation), "body %q", body)
	}
}

func TestCreateIsIdempotentOverwrite(t *testing.T) {
	ctx := context.Background()
	svc, db, _ := newScheduleService(t)

	_, err := svc.Create(ctx, []models.Schedule{{TransactionID: "T1", Pickup: "NAIA", Company: "Acme"}})
	require.NoError(t, err)
	_, err = svc.Create(ctx, []models.Schedule{{TransactionID: "T1", Pickup: "Makati"}})
	require.NoError(t, err)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, models.Text("Makati"), list[0].Pickup)
	assert.Equal(t, models.Text(""), list[0].Company)

	all, err := db.Get(ctx, "schedules")
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestCreateBatchFailsFastWithoutRollback(t *testing.T) {
	ctx := context.Background()
	svc, _, sender := newScheduleService(t)

	res, err := svc.Create(ctx, []models.Schedule{
		{TransactionID: "T1", ContactNumber: "639171234567"},
		{ContactNumber: "639171234568"},
		{TransactionID: "T3"},
	})
	require.Error(t, err)
	assert.Equal(t, 400, apperr.Status(err))
	assert.Equal(t, []string{"T1"}, res.TransactionIDs)
	assert.Empty(t, sender.sent)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, models.Text("T1"), list[0].TransactionID)
}

func TestCreateReportsPartialNotificationFailure(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newScheduleService(t)

	res, err := svc.Create(ctx, []models.Schedule{
		{TransactionID: "T1", ContactNumber: "63-9171234567"},
		{TransactionID: "T2"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"T1", "T2"}, res.TransactionIDs)
	require.Len(t, res.Messages, 1)
	assert.Equal(t, "T1", res.Messages[0].TransactionID)
	assert.Equal(t, "failed:sms gateway down", res.Messages[0].SMS)
	assert.Equal(t, "sent", res.Messages[0].WhatsApp)
}

func TestUpdateCurrentLeavesSiblingsAlone(t *testing.T) {
	ctx := context.Background()
	svc, db, _ := newScheduleService(t)
	_, err := svc.Create(ctx, []models.Schedule{{
		TransactionID: "T1",
		Pickup:        "NAIA",
		Current:       &models.Assignment{DriverName: "Old", CellPhone: "1"},
	}})
	require.NoError(t, err)

	require.NoError(t, svc.Update(ctx, "T1", []byte(`{"current":{"driverName":"Pedro","cellPhone":"0917","extra":"x"}}`)))

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.Text("NAIA"), list[0].Pickup)
	assert.Equal(t, &models.Assignment{DriverName: "Pedro", CellPhone: "0917"}, list[0].Current)

	cur, err := db.Get(ctx, "schedules/T1/current")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"driverName": "Pedro", "cellPhone": "0917"}, cur)
}

func TestUpdateFieldsLeavesCurrentAlone(t *testing.T) {
	ctx := context.Background()
	svc, db, _ := newScheduleService(t)
	_, err := svc.Create(ctx, []models.Schedule{{
		TransactionID: "T1",
		Pickup:        "NAIA",
		DropOff:       "Makati",
		Current:       &models.Assignment{DriverName: "Pedro"},
	}})
	require.NoError(t, err)

	require.NoError(t, svc.Update(ctx, "T1", []byte(`{"pickup":"Clark","pax":4,"transactionID":"HIJACK","bogus":1}`)))

	var stored map[string]any
	_, err = docstore.GetInto(ctx, db, "schedules/T1", &stored)
	require.NoError(t, err)
	assert.Equal(t, "Clark", stored["pickup"])
	assert.Equal(t, "4", stored["pax"])
	assert.Equal(t, "Makati", stored["dropOff"])
	assert.Equal(t, "T1", stored["transactionID"])
	assert.NotContains(t, stored, "bogus")
	assert.Equal(t, map[string]any{"driverName": "Pedro", "cellPhone": ""}, stored["current"])

	missing, err := db.Get(ctx, "schedules/HIJACK")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUpdateAndDeleteMissing(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newScheduleService(t)

	err := svc.Update(ctx, "NOPE", []byte(`{"pickup":"x"}`))
	assert.Equal(t, 404, apperr.Status(err))

	err = svc.Delete(ctx, "NOPE")
	assert.Equal(t, 404, apperr.Status(err))

	err = svc.Update(ctx, "NOPE", []byte(`{}`))
	assert.Equal(t, 400, apperr.Status(err))
}

func TestDeleteRemovesRecord(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newScheduleService(t)
	_, err := svc.Create(ctx, []models.Schedule{{TransactionID: "T1"}})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "T1"))
	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

type stubIdentity struct {
	uid      string
	signErr  error
	verified bool
}

func (s stubIdentity) SignIn(context.Context, string, string) (string, error) {
	return s.uid, s.signErr
}

func (s stubIdentity) EmailVerified(context.Context, string) (bool, error) {
	return s.verified, nil
}

func TestLoginStates(t *testing.T) {
	ctx := context.Background()
	users := stores.NewUserStore(docstore.NewMemory())
	require.NoError(t, users.SetRole(ctx, "admin-1", "admin"))
	require.NoError(t, users.SetRole(ctx, "staff-1", "dispatcher"))

	cases := []struct {
		name     string
		idp      stubIdentity
		email    string
		password string
		status   int
	}{
		{"missing input", stubIdentity{}, "", "pw", 400},
		{"bad credentials", stubIdentity{signErr: identity.ErrInvalidCredentials}, "a@b.c", "pw", 401},
		{"provider down", stubIdentity{signErr: errors.New("dial tcp: timeout")}, "a@b.c", "pw", 500},
		{"unverified email", stubIdentity{uid: "admin-1"}, "a@b.c", "pw", 403},
		{"non admin", stubIdentity{uid: "staff-1", verified: true}, "a@b.c", "pw", 403},
		{"no role", stubIdentity{uid: "ghost", verified: true}, "a@b.c", "pw", 403},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewAuthService(tc.idp, users, nil).Login(ctx, tc.email, tc.password)
			require.Error(t, err)
			assert.Equal(t, tc.status, apperr.Status(err))
		})
	}

	p, err := NewAuthService(stubIdentity{uid: "admin-1", verified: true}, users, nil).Login(ctx, "a@b.c", "pw")
	require.NoError(t, err)
	assert.Equal(t, models.Principal{UID: "admin-1", Email: "a@b.c", Role: "admin"}, p)
}

func TestDriverLocations(t *testing.T) {
	ctx := context.Background()
	db := docstore.NewMemory()
	require.NoError(t, db.Set(ctx, "users/d1", map[string]any{
		"firstName":       "Pedro",
		"lastName":        "Santos",
		"currentLocation": map[string]any{"latitude": 14.5, "longitude": 121.0, "timestamp": 1760000000000},
	}))
	require.NoError(t, db.Set(ctx, "users/d2", map[string]any{"firstName": "Idle"}))
	require.NoError(t, db.Set(ctx, "users/d3", map[string]any{
		"currentLocation": map[string]any{"latitude": 10.3, "longitude": 123.9},
	}))

	b, err := NewTrackingService(stores.NewUserStore(db)).DriverLocations(ctx)
	require.NoError(t, err)

	var fc struct {
		Type     string `json:"type"`
		Features []struct {
			ID       string `json:"id"`
			Geometry struct {
				Type        string    `json:"type"`
				Coordinates []float64 `json:"coordinates"`
			} `json:"geometry"`
			Properties map[string]any `json:"properties"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(b, &fc))
	assert.Equal(t, "FeatureCollection", fc.Type)
	require.Len(t, fc.Features, 2)
	assert.Equal(t, "d1", fc.Features[0].ID)
	assert.Equal(t, "Point", fc.Features[0].Geometry.Type)
	assert.Equal(t, []float64{121.0, 14.5}, fc.Features[0].Geometry.Coordinates)
	assert.Equal(t, "Pedro Santos", fc.Features[0].Properties["name"])
	assert.Equal(t, "Driver", fc.Features[1].Properties["name"])
}
