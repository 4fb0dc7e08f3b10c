// Package notify renders client trip notifications and relays them over SMS
// and WhatsApp.
package notify

import (
	"strings"

	"olstar_backend/internal/models"
)

// FormatMessage renders the client notification for s. Missing fields
// render blank; it never fails.
func FormatMessage(s models.Schedule) string {
	cur := s.Assignment()
	var b strings.Builder

	b.WriteString("Hi Sir/Madam " + s.ClientName.String() + ",\n\n")
	b.WriteString("This is from " + s.Company.String() + " X Ol-Star Transport. Here are your vehicle service details:\n\n")

	b.WriteString("✈️ FLIGHT DETAILS\n")
	b.WriteString("📅 Date: " + s.Date.String() + "\n")
	b.WriteString("⏰ Pickup Time: " + s.Time.String() + "\n")
	b.WriteString("👥 Passengers: " + s.Pax.String() + "\n\n")

	b.WriteString("📍 PICKUP AREA\n" + s.Pickup.String() + "\n\n")
	b.WriteString("📍 DROP-OFF LOCATION\n" + s.DropOff.String() + "\n\n")

	b.WriteString("🚗 DRIVER INFORMATION\n")
	b.WriteString("Name: " + cur.DriverName.String() + "\n")
	b.WriteString("Mobile: " + cur.CellPhone.String() + "\n")
	b.WriteString("Vehicle: " + s.TransportUnit.String() + " (" + s.UnitType.String() + ")\n")
	b.WriteString("Color: " + s.Color.String() + "\n")
	b.WriteString("Plate No: " + s.PlateNumber.String() + "\n\n")

	b.WriteString("🧳 CAR TYPE & LUGGAGE INFO\n")
	b.WriteString("Please note that the car type you have reserved is " + s.BookingType.String() +
		". The luggage specification allows a maximum of " + s.Luggage.String() +
		" pcs (24-inch max) luggages. Hard shell suitcases and luggages with wheels cannot be placed in the passenger seating area. " +
		"If the driver judges that it cannot be carried, the passenger will need to arrange for a taxi to transport the luggage.\n\n")

	b.WriteString("ℹ️ ADDITIONAL INFO\n")
	b.WriteString("Please note that in any applicable situation during pickup, the driver may charge additional fees, including surcharges for overtime. " +
		"You have a free one (1) hour waiting period. After one (1) hour, you will be charged PHP 150 for every succeeding hour.\n\n")
	b.WriteString("If any request, changes, or wrong information occur, please feel free to message us.\n\n")

	b.WriteString("📞 0917-657-7693\n")
	b.WriteString("📱 WhatsApp: 0963-492-2662\n")
	b.WriteString("📧 olstaropc@gmail.com\n\n")

	b.WriteString("This is an automated message. Please do not reply.")
	return b.String()
}
