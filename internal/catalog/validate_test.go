package catalog

import (
	"errors"
	"testing"

	v10 "github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func fullInput() productInput {
	return productInput{
		Name:        ptr("A"),
		Category:    ptr("Видеокарты"),
		Description: ptr("d"),
		Price:       ptr(100.0),
		Stock:       ptr(1.0),
		Rating:      ptr(4.5),
		Image:       ptr("u"),
	}
}

func TestValidator_Create(t *testing.T) {
	v := NewValidator(NewCategories(DefaultCategories))

	testCases := []struct {
		name       string
		mutate     func(in *productInput)
		wantErr    string
		wantFields []string
	}{
		{
			name:   "valid",
			mutate: func(in *productInput) {},
		},
		{
			name:   "empty description and image are allowed",
			mutate: func(in *productInput) { in.Description = ptr(""); in.Image = ptr("") },
		},
		{
			name:   "boundary values",
			mutate: func(in *productInput) { in.Stock = ptr(0.0); in.Rating = ptr(5.0); in.Price = ptr(0.01) },
		},
		{
			name:       "missing fields are listed together",
			mutate:     func(in *productInput) { in.Description = nil; in.Image = nil },
			wantErr:    "missing required fields: description, image",
			wantFields: []string{"description", "image"},
		},
		{
			name:       "blank name",
			mutate:     func(in *productInput) { in.Name = ptr("   ") },
			wantErr:    "invalid product: name must not be empty",
			wantFields: []string{"name"},
		},
		{
			name:       "unknown category",
			mutate:     func(in *productInput) { in.Category = ptr("Игрушки") },
			wantFields: []string{"category"},
		},
		{
			name:       "zero price",
			mutate:     func(in *productInput) { in.Price = ptr(0.0) },
			wantErr:    "invalid product: price must be greater than 0",
			wantFields: []string{"price"},
		},
		{
			name:       "negative stock",
			mutate:     func(in *productInput) { in.Stock = ptr(-1.0) },
			wantErr:    "invalid product: stock must be at least 0",
			wantFields: []string{"stock"},
		},
		{
			name:       "fractional stock",
			mutate:     func(in *productInput) { in.Stock = ptr(1.5) },
			wantErr:    "invalid product: stock must be an integer",
			wantFields: []string{"stock"},
		},
		{
			name:       "rating above 5",
			mutate:     func(in *productInput) { in.Rating = ptr(5.0001) },
			wantErr:    "invalid product: rating must be between 0 and 5",
			wantFields: []string{"rating"},
		},
		{
			name:       "rating below 0",
			mutate:     func(in *productInput) { in.Rating = ptr(-0.0001) },
			wantErr:    "invalid product: rating must be between 0 and 5",
			wantFields: []string{"rating"},
		},
		{
			name: "violations are aggregated",
			mutate: func(in *productInput) {
				in.Price = ptr(-1.0)
				in.Rating = ptr(6.0)
			},
			wantErr:    "invalid product: price must be greater than 0; rating must be between 0 and 5",
			wantFields: []string{"price", "rating"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			in := fullInput()
			tc.mutate(&in)

			fields, err := v.Create(in)
			if tc.wantFields == nil {
				require.NoError(t, err)
				assert.Equal(t, int64(*in.Stock), fields.Stock)
				return
			}

			var ve *ValidationError
			require.True(t, errors.As(err, &ve), "want ValidationError, got %v", err)
			if tc.wantErr != "" {
				assert.Equal(t, tc.wantErr, ve.Message)
			}
			got := make([]string, 0, len(ve.Fields))
			for _, f := range ve.Fields {
				got = append(got, f.Field)
			}
			assert.Equal(t, tc.wantFields, got)
		})
	}
}

func TestValidator_CreateTrimsNameAndCategory(t *testing.T) {
	v := NewValidator(NewCategories(DefaultCategories))

	in := fullInput()
	in.Name = ptr("  RTX  ")
	in.Category = ptr(" Видеокарты ")

	fields, err := v.Create(in)
	require.NoError(t, err)
	assert.Equal(t, "RTX", fields.Name)
	assert.Equal(t, "Видеокарты", fields.Category)
}

func TestValidator_Patch(t *testing.T) {
	v := NewValidator(NewCategories([]string{"Мониторы"}))

	p, err := v.Patch(productInput{})
	require.NoError(t, err)
	assert.True(t, p.Empty())

	p, err = v.Patch(productInput{Stock: ptr(3.0), Category: ptr("Мониторы")})
	require.NoError(t, err)
	require.NotNil(t, p.Stock)
	assert.Equal(t, int64(3), *p.Stock)
	assert.Equal(t, "Мониторы", *p.Category)
	assert.Nil(t, p.Name)

	_, err = v.Patch(productInput{Stock: ptr(3.0), Category: ptr("Видеокарты")})
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	_, err = v.Patch(productInput{Rating: ptr(5.0001)})
	assert.True(t, IsValidation(err))
}

func TestValidator_PatchRejects(t *testing.T) {
	v := NewValidator(NewCategories(DefaultCategories))

	testCases := []struct {
		name    string
		in      productInput
		wantErr string
	}{
		{"rating below 0", productInput{Rating: ptr(-0.0001)}, "invalid product: rating must be between 0 and 5"},
		{"zero price", productInput{Price: ptr(0.0)}, "invalid product: price must be greater than 0"},
		{"negative price", productInput{Price: ptr(-1.0)}, "invalid product: price must be greater than 0"},
		{"negative stock", productInput{Stock: ptr(-1.0)}, "invalid product: stock must be at least 0"},
		{"fractional stock", productInput{Stock: ptr(0.5)}, "invalid product: stock must be an integer"},
		{"blank name", productInput{Name: ptr(" ")}, "invalid product: name must not be empty"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := v.Patch(tc.in)
			require.Error(t, err)
			assert.True(t, IsValidation(err))
			assert.EqualError(t, err, tc.wantErr)
		})
	}
}

func TestMustRegister_PanicsOnBadTag(t *testing.T) {
	assert.Panics(t, func() {
		mustRegister(v10.New(), "", func(v10.FieldLevel) bool { return true })
	})
}

func TestCategories(t *testing.T) {
	c := NewCategories([]string{" A ", "B", "", "A"})

	assert.Equal(t, []string{"A", "B"}, c.Names())
	assert.True(t, c.Contains("A"))
	assert.False(t, c.Contains("a"))

	names := c.Names()
	names[0] = "changed"
	assert.Equal(t, []string{"A", "B"}, c.Names())
}
