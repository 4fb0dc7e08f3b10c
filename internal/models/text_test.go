package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleAcceptsNumericCells(t *testing.T) {
	var s Schedule
	err := json.Unmarshal([]byte(`{"transactionID":"T1","pax":3,"luggage":2.5,"amount":null,"note":true}`), &s)
	require.NoError(t, err)

	assert.Equal(t, Text("T1"), s.TransactionID)
	assert.Equal(t, Text("3"), s.Pax)
	assert.Equal(t, Text("2.5"), s.Luggage)
	assert.Equal(t, Text(""), s.Amount)
	assert.Equal(t, Text("true"), s.Note)
	assert.Nil(t, s.Current)
	assert.Equal(t, Assignment{}, s.Assignment())
}

func TestTextRejectsObjects(t *testing.T) {
	var s Schedule
	err := json.Unmarshal([]byte(`{"transactionID":{"nested":1}}`), &s)
	assert.Error(t, err)
}

func TestTransportUnitInputFields(t *testing.T) {
	color := "white"
	in := TransportUnitInput{Color: &color}

	fields := in.Fields()
	assert.Len(t, fields, 4)
	assert.Equal(t, "white", fields["color"])
	assert.Nil(t, fields["plateNumber"])
	assert.Equal(t, TransportUnit{Color: "white"}, in.Unit())
}
