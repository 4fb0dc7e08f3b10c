package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", Validation("transactionID is required"), http.StatusBadRequest},
		{"unauthorized", Unauthorized("bad credentials", nil), http.StatusUnauthorized},
		{"forbidden", Forbidden("not admin", nil), http.StatusForbidden},
		{"not found", NotFound("Schedule not found"), http.StatusNotFound},
		{"downstream", Downstream("store write failed", errors.New("conn reset")), http.StatusInternalServerError},
		{"wrapped", fmt.Errorf("update: %w", NotFound("Schedule not found")), http.StatusNotFound},
		{"plain", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Status(tc.err))
		})
	}
}

func TestErrorMessageIncludesCause(t *testing.T) {
	err := Downstream("store read failed", errors.New("timeout"))
	assert.Equal(t, "store read failed: timeout", err.Error())
	assert.True(t, IsKind(err, KindDownstream))
	assert.False(t, IsKind(err, KindNotFound))
}
