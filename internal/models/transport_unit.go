// internal/models/transport_unit.go
package models

// TransportUnit is one vehicle of the fleet roster, stored under
// transportUnits/{unitID}. TransportUnit (the field) is its display name.
type TransportUnit struct {
	UnitType      string `json:"unitType,omitempty"`
	TransportUnit string `json:"transportUnit,omitempty"`
	Color         string `json:"color,omitempty"`
	PlateNumber   string `json:"plateNumber,omitempty"`
}

// TransportUnitInput is the request body for create and update. A nil field
// is written as absent.
type TransportUnitInput struct {
	UnitType      *string `json:"unitType"`
	TransportUnit *string `json:"transportUnit"`
	Color         *string `json:"color"`
	PlateNumber   *string `json:"plateNumber"`
}

// Fields returns the four attributes as a full overwrite: nil entries
// remove the attribute from the stored unit.
func (in TransportUnitInput) Fields() map[string]any {
	return map[string]any{
		"unitType":      optional(in.UnitType),
		"transportUnit": optional(in.TransportUnit),
		"color":         optional(in.Color),
		"plateNumber":   optional(in.PlateNumber),
	}
}

// Unit converts the input into a stored unit, dropping nil attributes.
func (in TransportUnitInput) Unit() TransportUnit {
	var u TransportUnit
	if in.UnitType != nil {
		u.UnitType = *in.UnitType
	}
	if in.TransportUnit != nil {
		u.TransportUnit = *in.TransportUnit
	}
	if in.Color != nil {
		u.Color = *in.Color
	}
	if in.PlateNumber != nil {
		u.PlateNumber = *in.PlateNumber
	}
	return u
}

func optional(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
