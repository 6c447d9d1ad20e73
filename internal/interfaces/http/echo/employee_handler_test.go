package echo_test

import (
	"errors"
	"net/http"
	"testing"

	personnelapp "github.com/mohammadpnp/math-server/internal/application/personnel"
	httpecho "github.com/mohammadpnp/math-server/internal/interfaces/http/echo"
	"github.com/stretchr/testify/require"
)

func TestGetEmployeeHandler(t *testing.T) {
	t.Parallel()

	h := httpecho.Handlers{Employee: httpecho.NewEmployeeHandler(&fakeGetEmployee{out: personnelapp.GetEmployeeOutput{
		ExternalID: "2001",
		FullName:   "Петров Иван",
	}})}

	rec, env := serve(t, h, http.MethodGet, "/api/v1/personnel/employees/2001", "alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, string(env.Data), `"external_id":"2001"`)
}

func TestGetEmployeeHandlerErrors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err    error
		status int
	}{
		{err: personnelapp.ErrInvalidExternalID, status: http.StatusBadRequest},
		{err: personnelapp.ErrEmployeeNotFound, status: http.StatusNotFound},
		{err: errors.New("boom"), status: http.StatusInternalServerError},
	}

	for _, tc := range cases {
		h := httpecho.Handlers{Employee: httpecho.NewEmployeeHandler(&fakeGetEmployee{err: tc.err})}

		rec, _ := serve(t, h, http.MethodGet, "/api/v1/personnel/employees/2001", "alice", nil)
		require.Equal(t, tc.status, rec.Code, tc.err.Error())
	}
}
