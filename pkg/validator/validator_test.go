package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type playbackInput struct {
	RoomID   string   `json:"room_id" validate:"required,max=64"`
	SeekTime *float64 `json:"seek_time,omitempty" validate:"omitempty,gte=0"`
}

func TestValidate(t *testing.T) {
	v := NewValidator()

	seek := 3.5
	errs, ok := v.Validate(playbackInput{RoomID: "abc", SeekTime: &seek})
	assert.True(t, ok)
	assert.Empty(t, errs)

	errs, ok = v.Validate(playbackInput{})
	require.False(t, ok)
	require.Len(t, errs, 1)
	assert.Equal(t, ValidationError{Field: "room_id", Code: "REQUIRED", Message: "room_id is required"}, errs[0])

	negative := -1.0
	errs, ok = v.Validate(&playbackInput{RoomID: "abc", SeekTime: &negative})
	require.False(t, ok)
	require.Len(t, errs, 1)
	assert.Equal(t, "seek_time", errs[0].Field)
	assert.Equal(t, "GTE", errs[0].Code)
}

func TestCheck(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.Check(struct{}{}))
	assert.NoError(t, v.Check("not a struct"))

	err := v.Check(playbackInput{})
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 1)
	assert.EqualError(t, err, "room_id is required")
}
