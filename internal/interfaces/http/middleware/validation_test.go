package middleware

import (
	"errors"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Name   string `json:"name" binding:"required,max=5"`
	Status string `json:"status" binding:"omitempty,oneof=active inactive"`
	Page   int    `form:"page" binding:"omitempty,min=1"`
}

func TestValidationDetails(t *testing.T) {
	SetupValidator()

	err := binding.Validator.ValidateStruct(&sampleRequest{Status: "gone", Page: -1})
	require.Error(t, err)
	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))

	details := ValidationDetails(err)
	fields := map[string]string{}
	for _, d := range details {
		fields[d.Field] = d.Message
	}
	assert.Equal(t, "This field is required", fields["name"])
	assert.Equal(t, "Must be one of: active inactive", fields["status"])
	assert.Equal(t, "Must be at least 1", fields["page"])
}

func TestValidationDetails_MalformedBody(t *testing.T) {
	details := ValidationDetails(errors.New("unexpected EOF"))
	require.Len(t, details, 1)
	assert.Equal(t, "body", details[0].Field)
}

type sampleLine struct {
	Quantity int `json:"quantity" binding:"gt=0"`
}

type sampleOrder struct {
	Items []sampleLine `json:"items" binding:"required,min=1,dive"`
	Code  string       `json:"code" binding:"omitempty,len=3"`
}

func TestValidationDetails_NestedAndSized(t *testing.T) {
	SetupValidator()

	err := binding.Validator.ValidateStruct(&sampleOrder{Items: []sampleLine{{Quantity: 2}, {Quantity: 0}}, Code: "ab"})
	require.Error(t, err)

	fields := map[string]string{}
	for _, d := range ValidationDetails(err) {
		fields[d.Field] = d.Message
	}
	assert.Equal(t, "Must be greater than 0", fields["items[1].quantity"])
	assert.Equal(t, "Must be exactly 3 characters", fields["code"])

	err = binding.Validator.ValidateStruct(&sampleOrder{Items: []sampleLine{}})
	require.Error(t, err)
	details := ValidationDetails(err)
	require.Len(t, details, 1)
	assert.Equal(t, "items", details[0].Field)
	assert.Equal(t, "Must contain at least 1 items", details[0].Message)
}
