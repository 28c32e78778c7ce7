package gateway

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-workspace-dashboard/pkg/apierror"
)

func TestValidateJobID(t *testing.T) {
	assert.NoError(t, ValidateJobID("3f2c9a10-8b7d-4e5f-9a1b-2c3d4e5f6a7b"))
	assert.NoError(t, ValidateJobID("3F2C9A10-8B7D-4E5F-9A1B-2C3D4E5F6A7B"))

	for _, bad := range []string{"", "abc", "3f2c9a10-8b7d-4e5f-9a1b-2c3d4e5f6a7b; rm -rf /", "../3f2c9a10-8b7d-4e5f-9a1b-2c3d4e5f6a7b", "3f2c9a108b7d4e5f9a1b2c3d4e5f6a7b"} {
		err := ValidateJobID(bad)
		assert.True(t, apierror.HasCode(err, apierror.CodeInvalidInput), bad)
	}
}

func TestParsePID(t *testing.T) {
	tests := []struct {
		name    string
		raw     any
		want    int
		wantErr bool
	}{
		{name: "json number", raw: float64(1234), want: 1234},
		{name: "json.Number", raw: json.Number("42"), want: 42},
		{name: "string", raw: "77", want: 77},
		{name: "zero", raw: float64(0), wantErr: true},
		{name: "negative", raw: "-1", wantErr: true},
		{name: "fraction", raw: float64(1.5), wantErr: true},
		{name: "injection", raw: "1; reboot", wantErr: true},
		{name: "nil", raw: nil, wantErr: true},
		{name: "bool", raw: true, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePID(tt.raw)
			if tt.wantErr {
				assert.True(t, apierror.HasCode(err, apierror.CodeInvalidInput))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeSignal(t *testing.T) {
	for in, want := range map[string]string{"": "TERM", "term": "TERM", "SIGKILL": "KILL", "hup": "HUP", "INT": "INT"} {
		got, err := NormalizeSignal(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	for _, bad := range []string{"STOP", "9", "USR1", "TERM -1"} {
		_, err := NormalizeSignal(bad)
		assert.True(t, apierror.HasCode(err, apierror.CodeInvalidInput), bad)
	}
}

func TestClampLogLimit(t *testing.T) {
	assert.Equal(t, DefaultLogLimit, ClampLogLimit(0))
	assert.Equal(t, DefaultLogLimit, ClampLogLimit(-3))
	assert.Equal(t, 20, ClampLogLimit(20))
	assert.Equal(t, MaxLogLimit, ClampLogLimit(10000))
}

func TestValidateLogSource(t *testing.T) {
	got, err := ValidateLogSource("")
	require.NoError(t, err)
	assert.Equal(t, LogSourceJournal, got)

	_, err = ValidateLogSource("syslog")
	assert.True(t, apierror.HasCode(err, apierror.CodeInvalidInput))
}
