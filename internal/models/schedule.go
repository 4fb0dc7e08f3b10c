// internal/models/schedule.go
package models

// Assignment is the live driver assignment of a schedule. It is always
// read back with exactly these two fields.
type Assignment struct {
	DriverName Text `json:"driverName"`
	CellPhone  Text `json:"cellPhone"`
}

// Schedule is one dispatched trip, keyed by TransactionID. Every field is
// caller supplied; only TransactionID is required.
type Schedule struct {
	TransactionID Text `json:"transactionID"`

	ClientName    Text `json:"clientName"`
	ContactNumber Text `json:"contactNumber"`
	Company       Text `json:"company"`
	Date          Text `json:"date"`
	Time          Text `json:"time"`
	Pax           Text `json:"pax"`
	FlightNumber  Text `json:"flightNumber"`
	Note          Text `json:"note"`
	Pickup        Text `json:"pickup"`
	DropOff       Text `json:"dropOff"`

	TransportUnit Text `json:"transportUnit"`
	UnitType      Text `json:"unitType"`
	Color         Text `json:"color"`
	PlateNumber   Text `json:"plateNumber"`
	BookingType   Text `json:"bookingType"`
	Luggage       Text `json:"luggage"`

	DriverName Text `json:"driverName"`
	CellPhone  Text `json:"cellPhone"`
	Amount     Text `json:"amount"`
	DriverRate Text `json:"driverRate"`
	Status     Text `json:"status"`

	Current *Assignment `json:"current,omitempty"`
}

// Assignment returns the current assignment, or a blank one when absent.
func (s Schedule) Assignment() Assignment {
	if s.Current == nil {
		return Assignment{}
	}
	return *s.Current
}
