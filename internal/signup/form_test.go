package signup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/partner-portal/internal/domain"
)

func TestForm(t *testing.T) {
	t.Run("StartsEmpty", func(t *testing.T) {
		var f Form
		assert.Equal(t, domain.SignupRequest{}, f.Value())
	})

	t.Run("LastWritePerField", func(t *testing.T) {
		var f Form
		edits := []struct{ field, value string }{
			{FieldName, "A"},
			{FieldEmail, "a@"},
			{FieldName, "Acme"},
			{FieldPassword, "s"},
			{FieldEmail, "a@acme.test"},
			{FieldPassword, "secret"},
		}
		for _, e := range edits {
			require.NoError(t, f.SetField(e.field, e.value))
		}

		assert.Equal(t, domain.SignupRequest{Name: "Acme", Email: "a@acme.test", Password: "secret"}, f.Value())
	})

	t.Run("EditLeavesOtherFields", func(t *testing.T) {
		var f Form
		require.NoError(t, f.SetField(FieldName, "Acme"))
		require.NoError(t, f.SetField(FieldEmail, "ops@acme.test"))
		require.NoError(t, f.SetField(FieldEmail, ""))

		assert.Equal(t, domain.SignupRequest{Name: "Acme"}, f.Value())
	})

	t.Run("UnknownField", func(t *testing.T) {
		var f Form
		require.NoError(t, f.SetField(FieldName, "Acme"))

		err := f.SetField("company", "Acme Inc")
		assert.ErrorIs(t, err, ErrUnknownField)
		assert.Equal(t, domain.SignupRequest{Name: "Acme"}, f.Value())
	})

	t.Run("ValueIsCopy", func(t *testing.T) {
		var f Form
		require.NoError(t, f.SetField(FieldName, "Acme"))
		v := f.Value()
		v.Name = "changed"
		assert.Equal(t, "Acme", f.Value().Name)
	})
}

func TestFields(t *testing.T) {
	assert.Equal(t, []string{"name", "email", "password"}, Fields())
}
