package timex

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuration_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{`"30s"`, 30 * time.Second, false},
		{`"1m30s"`, 90 * time.Second, false},
		{`1000000000`, time.Second, false},
		{`"soon"`, 0, true},
		{`true`, 0, true},
	}
	for _, tt := range tests {
		var d Duration
		err := json.Unmarshal([]byte(tt.in), &d)
		if tt.wantErr {
			require.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, d.Duration)
	}
}

func TestDuration_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(struct {
		Every Duration `json:"every"`
	}{Duration{5 * time.Minute}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"every":"5m0s"}`, string(b))
}

func TestDuration_Decode(t *testing.T) {
	var d Duration
	require.NoError(t, d.Decode("2s"))
	assert.Equal(t, 2*time.Second, d.Duration)
	require.Error(t, d.Decode("x"))
}
