package json

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lightyeario/tradingbots/tests"
)

func TestGJsonWrapper_GetRawJsonValue(t *testing.T) {
	key := tests.RandomString()
	target := tests.RandomString()
	doc := []byte(fmt.Sprintf(`{"data":{"raw":{"%s":"%s","other":"x"}}}`, key, target))

	jsonParserWrapper := NewJsonParserWrapper()

	raw, e := jsonParserWrapper.GetRawJsonValue(doc, fmt.Sprintf("data.raw.%s", key))
	require.NoError(t, e)
	assert.Equal(t, fmt.Sprintf(`"%s"`, target), raw)

	path := "data.raw.non_existent_field"
	raw, e = jsonParserWrapper.GetRawJsonValue(doc, path)
	assert.EqualError(t, e, fmt.Sprintf("json parser wrapper error: could not find json for path %s in %s", path, doc))
	assert.Equal(t, "", raw)
}

func TestGJsonWrapper_GetDecimal(t *testing.T) {
	doc := []byte(`{"rates":{"EUR":0.912345,"GBP":"0.79","BAD":true,"TXT":"abc"}}`)

	testCases := []struct {
		path    string
		want    string
		wantErr bool
	}{
		{path: "rates.EUR", want: "0.912345"},
		{path: "rates.GBP", want: "0.79"},
		{path: "rates.BAD", wantErr: true},
		{path: "rates.TXT", wantErr: true},
		{path: "rates.JPY", wantErr: true},
	}

	jsonParserWrapper := NewJsonParserWrapper()
	for _, kase := range testCases {
		t.Run(kase.path, func(t *testing.T) {
			d, e := jsonParserWrapper.GetDecimal(doc, kase.path)
			if kase.wantErr {
				assert.Error(t, e)
				return
			}
			require.NoError(t, e)
			assert.Equal(t, kase.want, d.String())
		})
	}

	assert.True(t, jsonParserWrapper.GetBool([]byte(`{"error":true}`), "error"))
	assert.False(t, jsonParserWrapper.GetBool([]byte(`{}`), "error"))
}
