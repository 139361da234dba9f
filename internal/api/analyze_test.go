package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/text/encoding/korean"

	"github.com/rlagusgh2199/Real-MBTI-Project/internal/analysis"
)

const room = `2025년 9월 7일 오후 11:22, 김현호 : 오늘 밤에 롤 한판?
2025년 9월 7일 오후 11:25, 이수진 : 좋아 ㅋㅋ
2025년 9월 7일 오후 11:27, 김현호 : 코딩 끝나고 바로 간다
`

type upload struct {
	name string
	data []byte
}

func multipartBody(t *testing.T, userName string, uploads ...upload) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if userName != "" {
		if err := mw.WriteField(formUserName, userName); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	for _, u := range uploads {
		fw, err := mw.CreateFormFile(formFiles, u.name)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := fw.Write(u.data); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func postAnalyze(t *testing.T, srv *Server, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/v1/analyze", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)
	return w
}

func TestAnalyze_Success(t *testing.T) {
	srv := newTestServer(nil, Info{})

	body, ct := multipartBody(t, "김현호",
		upload{"room1.txt", []byte(room)},
		upload{"room2.txt", append([]byte{0xEF, 0xBB, 0xBF}, []byte(room)...)},
	)
	w := postAnalyze(t, srv, body, ct)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		AnalysisID string `json:"analysis_id"`
		MBTI       struct {
			Type   string         `json:"type"`
			Scores map[string]int `json:"scores"`
		} `json:"mbti"`
		Confidence struct {
			SourceCount int `json:"source_count"`
		} `json:"confidence"`
		Label struct {
			Keyword string `json:"keyword"`
		} `json:"label"`
		Meta analysis.Meta `json:"meta"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.AnalysisID == "" || len(resp.MBTI.Type) != 4 {
		t.Errorf("unexpected response %+v", resp)
	}
	if resp.Meta.FileCount != 2 || resp.Meta.UserSenderResolved != "김현호" {
		t.Errorf("unexpected meta %+v", resp.Meta)
	}
	if resp.Confidence.SourceCount != 2 {
		t.Errorf("expected source count 2, got %d", resp.Confidence.SourceCount)
	}
	if resp.Label.Keyword != "기본형" {
		t.Errorf("expected fallback keyword, got %q", resp.Label.Keyword)
	}
}

func TestAnalyze_BadRequests(t *testing.T) {
	srv := newTestServer(nil, Info{})

	noFiles, noFilesCT := multipartBody(t, "김현호")
	noUser, noUserCT := multipartBody(t, "", upload{"room.txt", []byte(room)})
	garbage, garbageCT := multipartBody(t, "김현호", upload{"notes.txt", []byte("채팅이 아닌 메모")})

	tests := []struct {
		name        string
		body        *bytes.Buffer
		contentType string
		contains    string
	}{
		{"no files", noFiles, noFilesCT, "at least one"},
		{"no user name", noUser, noUserCT, "user name"},
		{"unrecognized file", garbage, garbageCT, "notes.txt"},
		{"not multipart", bytes.NewBufferString(`{"user_name":"김현호"}`), "application/json", "multipart"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postAnalyze(t, srv, tt.body, tt.contentType)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
			}
			var body map[string]string
			if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if !strings.Contains(body["error"], tt.contains) {
				t.Errorf("error %q should mention %q", body["error"], tt.contains)
			}
		})
	}
}

func TestAnalyze_TooLarge(t *testing.T) {
	srv := newTestServer(nil, Info{})

	body, ct := multipartBody(t, "김현호", upload{"big.txt", bytes.Repeat([]byte("a"), maxUpload+1)})
	w := postAnalyze(t, srv, body, ct)

	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected 413, got %d", w.Code)
	}
}

type failingAnalyzer struct{}

func (failingAnalyzer) Analyze(context.Context, analysis.Request) (*analysis.Response, error) {
	return nil, errors.New("secret internal detail")
}

func TestAnalyze_InternalError(t *testing.T) {
	srv := newTestServer(failingAnalyzer{}, Info{})

	body, ct := multipartBody(t, "김현호", upload{"room.txt", []byte(room)})
	w := postAnalyze(t, srv, body, ct)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if strings.Contains(w.Body.String(), "secret") {
		t.Error("internal error details must not leak")
	}
}

type capturingAnalyzer struct {
	req analysis.Request
}

func (c *capturingAnalyzer) Analyze(_ context.Context, req analysis.Request) (*analysis.Response, error) {
	c.req = req
	return &analysis.Response{AnalysisID: "x"}, nil
}

func TestAnalyze_DecodesCP949(t *testing.T) {
	encoded, err := korean.EUCKR.NewEncoder().Bytes([]byte(room))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	ca := &capturingAnalyzer{}
	srv := newTestServer(ca, Info{})

	body, ct := multipartBody(t, "김현호", upload{"legacy.txt", encoded})
	w := postAnalyze(t, srv, body, ct)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if len(ca.req.Files) != 1 || ca.req.Files[0].Text != room {
		t.Errorf("upload was not decoded from CP949: %+v", ca.req.Files)
	}
	if ca.req.Files[0].Name != "legacy.txt" || ca.req.UserName != "김현호" {
		t.Errorf("unexpected request %+v", ca.req)
	}
}
