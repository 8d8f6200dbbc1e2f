package result

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuccessAndFailure(t *testing.T) {
	ok := Success(42)
	assert.True(t, ok.IsSuccess())
	assert.NoError(t, ok.Err())
	assert.Equal(t, 42, ok.Value())
	assert.Empty(t, ok.Message())

	boom := errors.New("boom")
	bad := Failure[int](boom)
	assert.True(t, bad.IsFailure())
	assert.ErrorIs(t, bad.Err(), boom)
	assert.Equal(t, "boom", bad.Message())
	v, err := bad.Get()
	assert.Zero(t, v)
	assert.Error(t, err)
}

func TestFailureIsNeverEmpty(t *testing.T) {
	assert.Error(t, Failure[string](nil).Err())

	var zero Result[string]
	assert.True(t, zero.IsFailure())
	assert.Error(t, zero.Err())
}

func TestMap(t *testing.T) {
	r := Map(Success(7), strconv.Itoa)
	assert.Equal(t, "7", r.Value())

	boom := errors.New("boom")
	f := Map(Failure[int](boom), strconv.Itoa)
	assert.ErrorIs(t, f.Err(), boom)
}

func TestRemoteErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  *RemoteError
		want string
	}{
		{
			name: "raw body",
			err:  &RemoteError{Op: "login", StatusCode: 401, Status: "Unauthorized", Body: "Bad credentials"},
			want: "failed to login: 401 - Unauthorized - Bad credentials",
		},
		{
			name: "parsed message wins",
			err:  &RemoteError{Op: "create booking", StatusCode: 409, Status: "Conflict", Message: "Dates overlap", Body: `{"message":"Dates overlap"}`},
			want: "failed to create booking: 409 - Conflict - Dates overlap",
		},
		{
			name: "no body",
			err:  &RemoteError{Op: "fetch bookings", StatusCode: 500, Status: "Internal Server Error"},
			want: "failed to fetch bookings: 500 - Internal Server Error",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
			assert.Equal(t, tt.err.StatusCode, StatusCode(Failure[int](tt.err).Err()))
		})
	}
}

func TestErrorTaxonomyUnwraps(t *testing.T) {
	cause := errors.New("connection refused")
	var te *TransportError
	assert.ErrorAs(t, error(&TransportError{Op: "fetch properties", Err: cause}), &te)
	assert.ErrorIs(t, te, cause)

	assert.Equal(t, "failed to fetch property: server returned 200 with an empty body",
		(&EmptyBodyError{Op: "fetch property", StatusCode: 200}).Error())
	assert.Equal(t, "endDate: must not be before startDate",
		NewValidationError("endDate", "must not be before startDate").Error())
	assert.Zero(t, StatusCode(cause))
}
