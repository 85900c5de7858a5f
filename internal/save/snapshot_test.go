package save

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func removeField(t *testing.T, data []byte, key string) []byte {
	t.Helper()
	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &fields))
	delete(fields, key)
	out, err := json.Marshal(fields)
	require.NoError(t, err)
	return out
}

func replaceField(t *testing.T, data []byte, key, raw string) []byte {
	t.Helper()
	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &fields))
	fields[key] = json.RawMessage(raw)
	out, err := json.Marshal(fields)
	require.NoError(t, err)
	return out
}

func sampleSnapshot() Snapshot {
	return Snapshot{
		Balance:             1234.5,
		LifetimeEarned:      99999,
		ManualClicks:        321,
		Owned:               map[string]int{"cursor": 3, "grandma": 7},
		Upgrades:            []string{"reinforced-index"},
		Achievements:        []string{"making-some-dough", "making-more-dough"},
		ClickPower:          4,
		BuildingBonusRate:   0.1,
		GrandmaSynergyBonus: 0.5,
		SteroidMultiplier:   2,
		SessionStartMillis:  1700000000000,
		LastAutoTickMillis:  1700000001000,
		LastSavedMillis:     1700000002000,
	}
}

func TestSnapshot_EncodeDecodeRoundTrip(t *testing.T) {
	want := sampleSnapshot()

	data, err := EncodeSnapshot(want)
	require.NoError(t, err)

	got, err := DecodeSnapshot(data)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestDecodeSnapshot_MissingFieldDefaults(t *testing.T) {
	snap := sampleSnapshot()
	data, err := EncodeSnapshot(snap)
	require.NoError(t, err)

	// Strip one field; everything else must survive untouched.
	stripped := removeField(t, data, "click_power")

	got, err := DecodeSnapshot(stripped)
	require.NoError(t, err)

	want := snap
	want.ClickPower = 1
	assert.Equal(t, want, got)
}

func TestDecodeSnapshot_MalformedFieldDefaults(t *testing.T) {
	cases := []struct {
		name  string
		field string
		junk  string
		check func(t *testing.T, got Snapshot)
	}{
		{
			name: "balance is a string", field: "balance", junk: `"lots"`,
			check: func(t *testing.T, got Snapshot) {
				assert.Equal(t, 0.0, got.Balance)
				assert.Equal(t, 99999.0, got.LifetimeEarned)
			},
		},
		{
			name: "owned is an array", field: "owned", junk: `[1,2,3]`,
			check: func(t *testing.T, got Snapshot) {
				assert.Equal(t, map[string]int{}, got.Owned)
				assert.Equal(t, []string{"reinforced-index"}, got.Upgrades)
			},
		},
		{
			name: "steroid multiplier is null", field: "steroid_multiplier", junk: `null`,
			check: func(t *testing.T, got Snapshot) {
				assert.Equal(t, 1.0, got.SteroidMultiplier)
			},
		},
		{
			name: "steroid multiplier is negative", field: "steroid_multiplier", junk: `-9`,
			check: func(t *testing.T, got Snapshot) {
				assert.Equal(t, 1.0, got.SteroidMultiplier)
			},
		},
		{
			name: "clicks is an object", field: "manual_clicks", junk: `{}`,
			check: func(t *testing.T, got Snapshot) {
				assert.Equal(t, int64(0), got.ManualClicks)
				assert.Equal(t, 1234.5, got.Balance)
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			data, err := EncodeSnapshot(sampleSnapshot())
			require.NoError(t, err)

			got, _ := DecodeSnapshot(replaceField(t, data, tc.field, tc.junk))
			tc.check(t, got)
		})
	}
}

func TestDecodeSnapshot_GarbageInput(t *testing.T) {
	got, err := DecodeSnapshot([]byte("not json at all"))
	require.Error(t, err)

	// Even a hopeless payload yields a usable fresh record.
	assert.Equal(t, DefaultSnapshot(), got)
}

func TestDecodeSnapshot_EmptyObject(t *testing.T) {
	got, err := DecodeSnapshot([]byte("{}"))
	require.NoError(t, err)
	assert.Equal(t, DefaultSnapshot(), got)
}
