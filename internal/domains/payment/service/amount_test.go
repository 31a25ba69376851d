package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToMinorUnits(t *testing.T) {
	tests := []struct {
		name    string
		amount  string
		want    int64
		wantErr bool
	}{
		{
			name:   "whole units",
			amount: "50",
			want:   5000,
		},
		{
			name:   "two decimals",
			amount: "49.99",
			want:   4999,
		},
		{
			name:   "half cent rounds away from zero",
			amount: "49.995",
			want:   5000,
		},
		{
			name:   "below half cent rounds down",
			amount: "49.994",
			want:   4999,
		},
		{
			name:   "long fraction above half",
			amount: "49.9951",
			want:   5000,
		},
		{
			name:   "single decimal",
			amount: "10.5",
			want:   1050,
		},
		{
			name:   "smallest positive",
			amount: "0.01",
			want:   1,
		},
		{
			name:   "sub cent rounds up to one",
			amount: "0.005",
			want:   1,
		},
		{
			name:    "zero",
			amount:  "0",
			wantErr: true,
		},
		{
			name:    "zero with decimals",
			amount:  "0.00",
			wantErr: true,
		},
		{
			name:    "negative",
			amount:  "-5",
			wantErr: true,
		},
		{
			name:    "not a number",
			amount:  "fifty",
			wantErr: true,
		},
		{
			name:    "empty",
			amount:  "",
			wantErr: true,
		},
		{
			name:    "trailing dot",
			amount:  "49.",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := toMinorUnits(tt.amount)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
