package services

import (
	"context"
	"sort"
	"strings"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"olstar_backend/internal/apperr"
	"olstar_backend/internal/stores"
)

// TrackingService builds the live driver map feed from users/*/currentLocation.
type TrackingService struct {
	users *stores.UserStore
}

func NewTrackingService(users *stores.UserStore) *TrackingService {
	return &TrackingService{users: users}
}

// DriverLocations returns a GeoJSON FeatureCollection with one point per
// user that has reported a location.
func (t *TrackingService) DriverLocations(ctx context.Context) ([]byte, error) {
	users, err := t.users.All(ctx)
	if err != nil {
		return nil, err
	}

	uids := make([]string, 0, len(users))
	for uid := range users {
		uids = append(uids, uid)
	}
	sort.Strings(uids)

	fc := geojson.FeatureCollection{Features: []*geojson.Feature{}}
	for _, uid := range uids {
		u := users[uid]
		loc := u.CurrentLocation
		if loc == nil || loc.Latitude == nil || loc.Longitude == nil {
			continue
		}
		name := strings.TrimSpace(u.FirstName + " " + u.LastName)
		if name == "" {
			name = "Driver"
		}
		fc.Features = append(fc.Features, &geojson.Feature{
			ID:       uid,
			Geometry: geom.NewPointFlat(geom.XY, []float64{*loc.Longitude, *loc.Latitude}),
			Properties: map[string]interface{}{
				"uid":       uid,
				"name":      name,
				"timestamp": loc.Timestamp,
			},
		})
	}

	b, err := fc.MarshalJSON()
	if err != nil {
		return nil, apperr.Downstream("failed to encode driver locations", err)
	}
	return b, nil
}
