package api

import (
	"bytes"
	"encoding/json"
	"file-panel/internal/models"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type testUpload struct {
	Name    string
	Content string
}

func serve(req *http.Request, cookies []*http.Cookie) *httptest.ResponseRecorder {
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	testRouter.ServeHTTP(rr, req)
	return rr
}

func loginCookies(t *testing.T, identifier, password string) []*http.Cookie {
	t.Helper()
	form := url.Values{"username": {identifier}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/login/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rr := serve(req, nil)
	require.Equal(t, http.StatusFound, rr.Code, rr.Body.String())
	require.Equal(t, "/admin/", rr.Header().Get("Location"))

	cookies := rr.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies
}

func jsonRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()
	var raw []byte
	switch b := body.(type) {
	case string:
		raw = []byte(b)
	default:
		var err error
		raw, err = json.Marshal(b)
		require.NoError(t, err)
	}
	req := httptest.NewRequest(method, target, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return req
}

func multipartRequest(t *testing.T, method, target string, fields map[string]string, files []testUpload) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	for _, f := range files {
		part, err := writer.CreateFormFile("file", f.Name)
		require.NoError(t, err)
		_, err = part.Write([]byte(f.Content))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	return req
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func uploadTestFiles(t *testing.T, cookies []*http.Cookie, files ...testUpload) []models.UploadedFile {
	t.Helper()
	rr := serve(multipartRequest(t, http.MethodPost, "/admin/", nil, files), cookies)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	resp := decodeBody[FilesResponse](t, rr)
	require.Len(t, resp.Files, len(files))
	return resp.Files
}
