package responsive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		query   string
		size    Size
		want    bool
		wantErr bool
	}{
		{query: "(min-width: 120)", size: Size{120, 40}, want: true},
		{query: "(min-width: 120)", size: Size{119, 40}, want: false},
		{query: "(max-width: 70)", size: Size{70, 20}, want: true},
		{query: "(max-width: 70)", size: Size{71, 20}, want: false},
		{query: "(min-height: 30)", size: Size{80, 30}, want: true},
		{query: "(max-height: 10)", size: Size{80, 30}, want: false},
		{query: "(orientation: landscape)", size: Size{80, 40}, want: true},
		{query: "(orientation: landscape)", size: Size{79, 40}, want: false},
		{query: "(orientation: portrait)", size: Size{60, 40}, want: true},
		{query: "(MIN-WIDTH: 100) AND (max-width: 200)", size: Size{150, 40}, want: true},
		{query: "(min-width: 100) and (max-width: 200)", size: Size{201, 40}, want: false},
		{query: "  (min-width:100)and(max-height:50) ", size: Size{100, 50}, want: true},
		{query: "", wantErr: true},
		{query: "min-width: 100", wantErr: true},
		{query: "(min-width: 100", wantErr: true},
		{query: "(min-width 100)", wantErr: true},
		{query: "(min-width: wide)", wantErr: true},
		{query: "(min-width: -1)", wantErr: true},
		{query: "(color: 256)", wantErr: true},
		{query: "(orientation: sideways)", wantErr: true},
		{query: "(min-width: 1) or (max-width: 2)", wantErr: true},
		{query: "(min-width: 1) and", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			q, err := Parse(tt.query)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, q.Match(tt.size))
		})
	}
}

func TestQuery_ZeroValueNeverMatches(t *testing.T) {
	assert.False(t, Query{}.Match(Size{100, 100}))
}

func TestQuery_String(t *testing.T) {
	q, err := Parse(" (min-width: 80) ")
	require.NoError(t, err)
	assert.Equal(t, "(min-width: 80)", q.String())
}
