package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateSlug(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Whey Protein", "whey-protein"},
		{"Whey  Protéin", "whey-protein"},
		{"  BCAA 2:1:1  ", "bcaa-2-1-1"},
		{"Créatine Monohydrate!", "creatine-monohydrate"},
		{"---already---slugged---", "already-slugged"},
		{"UPPER case", "upper-case"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, GenerateSlug(tc.in), tc.in)
	}
}
