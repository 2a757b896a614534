package labapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUnwrapEnvelopeShapes(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{name: "lower data", raw: `{"status":true,"data":[{"id":1}]}`, want: `[{"id":1}]`},
		{name: "upper Data", raw: `{"Data":[{"id":2}],"Message":"ok"}`, want: `[{"id":2}]`},
		{name: "raw array", raw: ` [{"id":3}] `, want: `[{"id":3}]`},
		{name: "raw object", raw: `{"id":4,"name":"x"}`, want: `{"id":4,"name":"x"}`},
		{name: "empty body", raw: ``, want: `null`},
		{name: "data null", raw: `{"data":null}`, want: `null`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Unwrap([]byte(tc.raw))
			require.NoError(t, err)
			require.JSONEq(t, tc.want, string(got))
		})
	}
}

func TestStatusOnlyReplyIsEmptyList(t *testing.T) {
	for _, raw := range []string{
		`{"status":true,"message":"No records found"}`,
		`{"success":true,"msg":"ok"}`,
		`{"status":true}`,
	} {
		got, err := Unwrap([]byte(raw))
		require.NoError(t, err)
		require.Equal(t, "null", string(got))
	}

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"status":true,"message":"No records found"}`)
	}))
	points, err := c.Points(context.Background(), "4")
	require.NoError(t, err)
	require.Empty(t, points)
}

func TestUnwrapStatusFalseIsError(t *testing.T) {
	_, err := Unwrap([]byte(`{"status":false,"message":"TRF already allotted"}`))
	require.EqualError(t, err, "TRF already allotted")

	_, err = Unwrap([]byte(`{"success":"false"}`))
	require.EqualError(t, err, "backend rejected the request")
}

func TestUnwrapRejectsInvalidJSON(t *testing.T) {
	_, err := Unwrap([]byte(`<html>oops</html>`))
	require.Error(t, err)
}

func TestDecodeList(t *testing.T) {
	type row struct {
		ID FlexString `json:"id"`
	}

	out, err := DecodeList[row](json.RawMessage(`null`))
	require.NoError(t, err)
	require.NotNil(t, out)
	require.Len(t, out, 0)

	out, err = DecodeList[row](json.RawMessage(`{"id":9}`))
	require.NoError(t, err)
	require.Equal(t, []row{{ID: "9"}}, out)

	out, err = DecodeList[row](json.RawMessage(`[{"id":"a"},{"id":2}]`))
	require.NoError(t, err)
	require.Equal(t, []row{{ID: "a"}, {ID: "2"}}, out)

	_, err = DecodeList[row](json.RawMessage(`"text"`))
	require.Error(t, err)
}

func TestFlexTypes(t *testing.T) {
	var v struct {
		S1 FlexString `json:"s1"`
		S2 FlexString `json:"s2"`
		S3 FlexString `json:"s3"`
		I1 FlexInt    `json:"i1"`
		I2 FlexInt    `json:"i2"`
		I3 FlexInt    `json:"i3"`
		I4 FlexInt    `json:"i4"`
		B1 FlexBool   `json:"b1"`
		B2 FlexBool   `json:"b2"`
		B3 FlexBool   `json:"b3"`
	}
	raw := `{"s1":12,"s2":"LRN-1","s3":null,"i1":"5","i2":3,"i3":"","i4":"2.0","b1":"1","b2":true,"b3":0}`
	require.NoError(t, json.Unmarshal([]byte(raw), &v))
	require.Equal(t, "12", v.S1.String())
	require.Equal(t, "LRN-1", v.S2.String())
	require.Equal(t, "", v.S3.String())
	require.Equal(t, 5, v.I1.Int())
	require.Equal(t, 3, v.I2.Int())
	require.Equal(t, 0, v.I3.Int())
	require.Equal(t, 2, v.I4.Int())
	require.True(t, v.B1.Bool())
	require.True(t, v.B2.Bool())
	require.False(t, v.B3.Bool())
}
