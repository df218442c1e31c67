package utils

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupe(t *testing.T) {
	testCases := []struct {
		input []string
		want  []string
	}{
		{
			input: []string{"a", "a", "b"},
			want:  []string{"a", "b"},
		}, {
			input: []string{"a", "b", "a"},
			want:  []string{"a", "b"},
		}, {
			input: []string{},
			want:  []string{},
		},
	}

	for _, kase := range testCases {
		t.Run(fmt.Sprintf("%s", kase.input), func(t *testing.T) {
			assert.Equal(t, kase.want, Dedupe(kase.input))
		})
	}
}

func TestSortedKeys(t *testing.T) {
	m := map[string]interface{}{"b": 1, "c": 2, "a": 3}
	assert.Equal(t, []string{"a", "b", "c"}, SortedKeys(m))
}

type innerConfig struct {
	Password string `toml:"PASSWORD"`
}

type outerConfig struct {
	Exchange string       `toml:"EXCHANGE"`
	Market   string       `yaml:"market"`
	Inner    *innerConfig `toml:"INNER"`
	Missing  *innerConfig `toml:"MISSING"`
}

func TestStructString(t *testing.T) {
	s := StructString(outerConfig{
		Exchange: "kraken",
		Market:   "BTC/USD",
		Inner:    &innerConfig{Password: "hunter2"},
	}, 0, map[string]func(interface{}) interface{}{
		"PASSWORD": Hide,
	})

	assert.Contains(t, s, "EXCHANGE: kraken\n")
	assert.Contains(t, s, "market: BTC/USD\n")
	assert.Contains(t, s, "INNER:\n    PASSWORD: <hidden>\n")
	assert.Contains(t, s, "MISSING: <nil>\n")
	assert.False(t, strings.Contains(s, "hunter2"))
}
