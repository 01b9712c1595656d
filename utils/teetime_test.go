package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractTeeTime(t *testing.T) {
	cases := []struct {
		name string
		note string
		want string
	}{
		{"tee time label", "Confirmed. Tee Time: 9:15 AM for 4 players", "9:15 AM"},
		{"plain time label", "Time: 2:30 pm, cart included", "2:30 PM"},
		{"lowercase label", "tee time: 11:05 am", "11:05 AM"},
		{"no label", "Guest will call back tomorrow", ""},
		{"label without time", "Tee Time: TBD", ""},
		{"empty note", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, ExtractTeeTime(tc.note))
		})
	}
}
