package sys

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnv(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
		def   string
		want  string
	}{
		{name: "EnvSet", key: "LLYFRAU_TEST_KEY", value: "testValue", def: "x", want: "testValue"},
		{name: "EnvEmpty", key: "LLYFRAU_TEST_KEY", value: "", def: "x", want: ""},
		{name: "EnvOne", key: "LLYFRAU_TEST_KEY", value: "1", def: "", want: "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			assert.Equal(t, tt.want, Env(tt.key, tt.def))
		})
	}

	assert.Equal(t, "fallback", Env("LLYFRAU_TEST_UNSET_KEY", "fallback"))
}

func TestOpenerFunc(t *testing.T) {
	t.Parallel()

	var got string
	o := OpenerFunc(func(url string) error {
		got = url
		return nil
	})

	assert.NoError(t, o.Open("https://example.com"))
	assert.Equal(t, "https://example.com", got)

	errDispatch := errors.New("no display")
	o = OpenerFunc(func(string) error { return errDispatch })
	assert.ErrorIs(t, o.Open("https://example.com"), errDispatch)
}
