package period

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    Period
		wantErr bool
	}{
		{name: "monthly", raw: "MONTHLY", want: Monthly},
		{name: "yearly", raw: "YEARLY", want: Yearly},
		{name: "lowercase rejected", raw: "monthly", wantErr: true},
		{name: "empty rejected", raw: "", wantErr: true},
		{name: "unknown rejected", raw: "WEEKLY", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.raw)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidPeriod)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtend(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	future := now.AddDate(0, 0, 10)
	past := now.AddDate(0, 0, -5)

	tests := []struct {
		name    string
		current *time.Time
		p       Period
		want    time.Time
		wantErr bool
	}{
		{
			name:    "monthly from now when no current window",
			current: nil,
			p:       Monthly,
			want:    now.AddDate(0, 0, 30),
		},
		{
			name:    "monthly is additive from active window, not from now",
			current: &future,
			p:       Monthly,
			want:    future.AddDate(0, 0, 30),
		},
		{
			name:    "expired window falls back to now",
			current: &past,
			p:       Monthly,
			want:    now.AddDate(0, 0, 30),
		},
		{
			name:    "yearly adds one calendar year",
			current: &future,
			p:       Yearly,
			want:    future.AddDate(1, 0, 0),
		},
		{
			name:    "invalid period",
			current: nil,
			p:       Period("BIWEEKLY"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Extend(tt.current, now, tt.p)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidPeriod)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}
