package shared

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Name string `json:"name" validate:"required,min=3"`
	Age  int    `json:"age"  validate:"gte=0"`
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
		errText string
	}{
		{name: "valid", body: `{"name":"test","age":30}`},
		{name: "unknown fields ignored", body: `{"name":"test","extra":true}`},
		{name: "trailing comma", body: `{"name":"test",}`, errText: "invalid character"},
		{name: "empty body", body: "", wantErr: ErrEmptyBody},
		{name: "two values", body: `{"name":"a"}{"name":"b"}`, errText: "single JSON value"},
		{name: "wrong type", body: `{"age":"old"}`, errText: "cannot unmarshal"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/test", bytes.NewBufferString(tc.body))
			var target sampleRequest

			err := DecodeJSON(req, &target)
			switch {
			case tc.wantErr != nil:
				assert.ErrorIs(t, err, tc.wantErr)
			case tc.errText != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.errText)
			default:
				require.NoError(t, err)
				assert.Equal(t, "test", target.Name)
			}
		})
	}
}

func TestDecodeJSONTooLarge(t *testing.T) {
	body := `{"name":"` + strings.Repeat("a", MaxRequestBodyBytes) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(body))

	var target sampleRequest
	assert.Error(t, DecodeJSON(req, &target))
}

type errorReader struct{}

func (errorReader) Read(p []byte) (int, error) {
	return 0, io.ErrUnexpectedEOF
}

func TestDecodeJSONWithReadError(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/test", errorReader{})

	var target sampleRequest
	err := DecodeJSON(req, &target)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

type selfValidating struct {
	Name string
}

func (s *selfValidating) Validate() error {
	if s.Name == "invalid" {
		return errors.New("name rejected")
	}
	return nil
}

func TestValidateRequest(t *testing.T) {
	tests := []struct {
		name    string
		req     interface{}
		wantErr bool
	}{
		{"tags pass", &sampleRequest{Name: "test", Age: 20}, false},
		{"tags fail", &sampleRequest{Name: "x"}, true},
		{"own validate passes", &selfValidating{Name: "ok"}, false},
		{"own validate fails", &selfValidating{Name: "invalid"}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateRequest(tc.req)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
