package money

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	cases := map[string]Cents{
		"150":    15000,
		"150.5":  15050,
		"150.50": 15050,
		"0.1":    10,
		".25":    25,
		"-3.25":  -325,
		"10.006": 1001,
		"1e2":    10000,
	}
	for in, want := range cases {
		got, err := Parse(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := Parse("abc")
	assert.Error(t, err)
	_, err = Parse("")
	assert.Error(t, err)
}

func TestSumIsExact(t *testing.T) {
	// 0.1 + 0.2 en float64 no da 0.3; en centavos sí.
	total := FromFloat(0.1) + FromFloat(0.2)
	assert.Equal(t, FromFloat(0.3), total)
	assert.Equal(t, "0.30", total.String())
}

func TestJSON(t *testing.T) {
	var v struct {
		Amount Cents `json:"amount"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"amount":75.5}`), &v))
	assert.Equal(t, Cents(7550), v.Amount)

	out, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":75.50}`, string(out))
}

func TestScan(t *testing.T) {
	var c Cents
	require.NoError(t, c.Scan([]byte("150.00")))
	assert.Equal(t, Cents(15000), c)
	require.NoError(t, c.Scan("19.99"))
	assert.Equal(t, Cents(1999), c)
	require.NoError(t, c.Scan(int64(3)))
	assert.Equal(t, Cents(300), c)
	assert.Error(t, c.Scan(true))

	v, err := Cents(-5).Value()
	require.NoError(t, err)
	assert.Equal(t, "-0.05", v)
}
