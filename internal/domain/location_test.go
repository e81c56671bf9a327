package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripCountry(t *testing.T) {
	assert.Equal(t, "Madrid", StripCountry("Madrid, España"))
	assert.Equal(t, "Almería", StripCountry("Almería, España, Europa"))
	assert.Equal(t, "Barcelona", StripCountry("Barcelona"))
	assert.Equal(t, "", StripCountry(""))
}

func TestInfoJobsProvinceID(t *testing.T) {
	tests := []struct {
		name     string
		location string
		want     string
	}{
		{"exact match", "madrid", "33"},
		{"case and country suffix", "Madrid, España", "33"},
		{"accented city", "Almería", "4"},
		{"accented uppercase", "MÁLAGA", "29"},
		{"containment match", "gran bilbao", "48"},
		{"containment match reversed", "vigo centro", "36"},
		{"unknown city", "Lisboa", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InfoJobsProvinceID(tt.location))
		})
	}
}

func TestIsRemote(t *testing.T) {
	assert.True(t, IsRemote("Remoto"))
	assert.True(t, IsRemote("remote, anywhere"))
	assert.False(t, IsRemote("Madrid"))
}
