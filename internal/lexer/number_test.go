package lexer

import (
	"testing"

	"github.com/KimNorgaard/go-toon/internal/token"
	"github.com/stretchr/testify/require"
)

func TestInfer(t *testing.T) {
	tests := []struct {
		input string
		want  token.Type
	}{
		// Keywords
		{"null", token.NULL},
		{"NULL", token.NULL},
		{"true", token.TRUE},
		{"True", token.TRUE},
		{"FALSE", token.FALSE},

		// Integers
		{"0", token.INT},
		{"42", token.INT},
		{"-7", token.INT},
		{"123456789012345678901234567890", token.INT},
		{"007", token.STRING},
		{"+5", token.STRING},
		{"-0", token.STRING},
		{"1e5", token.STRING},
		{"1,000", token.STRING},
		{"1_000", token.STRING},
		{"-", token.STRING},
		{"0x1F", token.STRING},

		// Floats
		{"3.14", token.FLOAT},
		{"-0.5", token.FLOAT},
		{"+1.5", token.FLOAT},
		{"100.0", token.FLOAT},
		{"1.0e+21", token.FLOAT},
		{"1.5E-7", token.FLOAT},
		{".5", token.FLOAT},
		{"5.", token.FLOAT},
		{"007.5", token.FLOAT},
		{".", token.STRING},
		{"1.2.3", token.STRING},
		{"1.0e", token.STRING},
		{"1.0e999", token.STRING},
		{"0x1.8p1", token.STRING},
		{"nan.0", token.STRING},
		{"v1.2", token.STRING},

		// Strings
		{"", token.STRING},
		{"hello", token.STRING},
		{"inf", token.STRING},
		{"NaN", token.STRING},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			require.Equal(t, tt.want, Infer(tt.input))
		})
	}
}

func TestIsNumeric(t *testing.T) {
	require.True(t, IsNumeric("1"))
	require.True(t, IsNumeric("1.5"))
	require.False(t, IsNumeric("1e5"))
	require.False(t, IsNumeric("true"))
	require.False(t, IsNumeric("abc"))
}
