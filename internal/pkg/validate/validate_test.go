package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVar_LoginEmail(t *testing.T) {
	valid := []string{"a@b.com", "first.last@sub.example.org", "A@B.CO"}
	for _, e := range valid {
		assert.NoError(t, Var(e, "loginemail"), e)
	}
	invalid := []string{"", "a@b", "ab.com", "a b@c.com", "a@@b.com", "@b.com"}
	for _, e := range invalid {
		assert.Error(t, Var(e, "loginemail"), e)
	}
}

func TestStruct_RequiredMessage(t *testing.T) {
	type req struct {
		Email string `validate:"required"`
	}
	err := Struct(req{})
	assert.EqualError(t, err, "field 'Email' failed 'required'")
	assert.NoError(t, Struct(req{Email: "x"}))
}
