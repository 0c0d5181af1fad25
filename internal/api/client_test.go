package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/sanjitmathur/ExamForge/pkg/domain"
)

func TestRequestsCarryBearerTokenAndRequestID(t *testing.T) {
	var gotAuth, gotReqID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotReqID = r.Header.Get("X-Request-Id")
		json.NewEncoder(w).Encode([]domain.UploadedPaper{})
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL + "/api", Token: func() string { return "tok-123" }})
	if _, err := c.Papers.List(context.Background()); err != nil {
		t.Fatalf("list: %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Fatalf("Authorization = %q", gotAuth)
	}
	if gotReqID == "" {
		t.Fatal("request id header missing")
	}

	// Logged out: no Authorization header at all.
	c = NewClient(Config{BaseURL: srv.URL + "/api", Token: func() string { return "" }})
	if _, err := c.Papers.List(context.Background()); err != nil {
		t.Fatalf("anonymous list: %v", err)
	}
	if gotAuth != "" {
		t.Fatalf("anonymous Authorization = %q, want empty", gotAuth)
	}
}

func TestBackendDetailSurfacesInError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Board is not supported"})
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL + "/api"})
	_, err := c.Papers.Get(context.Background(), 5)
	apiErr, ok := err.(*Error)
	if !ok {
		t.Fatalf("err = %T %v, want *Error", err, err)
	}
	if apiErr.Status != http.StatusBadRequest || apiErr.Detail != "Board is not supported" {
		t.Fatalf("error = %+v", apiErr)
	}
}

func TestErrorWithoutDetailFallsBackToStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gateway exploded", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL + "/api"})
	_, err := c.Questions.Stats(context.Background())
	apiErr, ok := err.(*Error)
	if !ok {
		t.Fatalf("err = %T, want *Error", err)
	}
	if apiErr.Status != http.StatusBadGateway || apiErr.Detail == "" {
		t.Fatalf("error = %+v", apiErr)
	}
}

func TestUnauthorizedHookFiresExceptOnLoginAndRegister(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Could not validate credentials"})
	}))
	defer srv.Close()

	var fired int32
	c := NewClient(Config{
		BaseURL:        srv.URL + "/api",
		OnUnauthorized: func() { atomic.AddInt32(&fired, 1) },
	})

	// 1) Bad credentials on login: the hook must stay quiet so the form can
	// show the message instead of bouncing through a logout.
	if _, err := c.Auth.Login(context.Background(), "t@example.com", "wrong"); err == nil {
		t.Fatal("expected login error")
	}
	if _, err := c.Auth.Register(context.Background(), domain.RegisterRequest{Email: "t@example.com"}); err == nil {
		t.Fatal("expected register error")
	}
	if got := atomic.LoadInt32(&fired); got != 0 {
		t.Fatalf("hook fired %d times on auth endpoints", got)
	}

	// 2) Expired session on a protected route fires it.
	if _, err := c.Papers.List(context.Background()); err == nil {
		t.Fatal("expected list error")
	}
	if got := atomic.LoadInt32(&fired); got != 1 {
		t.Fatalf("hook fired %d times, want 1", got)
	}
}

func TestUploadSendsMultipartFieldsAndFile(t *testing.T) {
	var gotBoard, gotGrade, gotSubject, gotFilename, gotContent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/papers/upload" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		gotBoard = r.FormValue("board")
		gotGrade = r.FormValue("grade_level")
		gotSubject = r.FormValue("subject")
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("form file: %v", err)
		} else {
			defer file.Close()
			gotFilename = header.Filename
			var buf bytes.Buffer
			buf.ReadFrom(file)
			gotContent = buf.String()
		}
		json.NewEncoder(w).Encode(domain.UploadedPaper{ID: 42, Status: domain.PaperPending})
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL + "/api"})
	paper, err := c.Papers.Upload(context.Background(), "june.pdf",
		strings.NewReader("%PDF-fake"), "CBSE", "Grade 10", "Mathematics")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if paper.ID != 42 || paper.Status != domain.PaperPending {
		t.Fatalf("paper = %+v", paper)
	}
	if gotBoard != "CBSE" || gotGrade != "Grade 10" || gotSubject != "Mathematics" {
		t.Fatalf("fields = %q %q %q", gotBoard, gotGrade, gotSubject)
	}
	if gotFilename != "june.pdf" || gotContent != "%PDF-fake" {
		t.Fatalf("file = %q %q", gotFilename, gotContent)
	}
}

func TestQuestionFilterOmitsZeroFields(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		json.NewEncoder(w).Encode([]domain.ExtractedQuestion{})
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL + "/api"})
	_, err := c.Questions.List(context.Background(), QuestionFilter{
		Board:      "ICSE",
		Difficulty: "hard",
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if gotQuery != "board=ICSE&difficulty=hard" {
		t.Fatalf("query = %q", gotQuery)
	}

	if _, err := c.Questions.List(context.Background(), QuestionFilter{}); err != nil {
		t.Fatalf("unfiltered list: %v", err)
	}
	if gotQuery != "" {
		t.Fatalf("unfiltered query = %q, want empty", gotQuery)
	}
}

func TestExportStreamsBlobAndDecodesErrors(t *testing.T) {
	payload := []byte("%PDF-1.7 rendered paper bytes")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/export/9/pdf":
			w.Write(payload)
		case "/api/export/9/answer-key/word":
			w.WriteHeader(http.StatusConflict)
			json.NewEncoder(w).Encode(map[string]string{"detail": "Paper is still generating"})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL + "/api"})
	var buf bytes.Buffer
	if err := c.Export.Paper(context.Background(), 9, FormatPDF, &buf); err != nil {
		t.Fatalf("export: %v", err)
	}
	if !bytes.Equal(buf.Bytes(), payload) {
		t.Fatalf("blob = %q", buf.Bytes())
	}

	err := c.Export.AnswerKey(context.Background(), 9, FormatWord, &buf)
	apiErr, ok := err.(*Error)
	if !ok || apiErr.Detail != "Paper is still generating" {
		t.Fatalf("err = %v", err)
	}
}

func TestChatSendHonorsContextCancellation(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-release
	}))
	defer srv.Close()
	// Unblock the handler before srv.Close runs, or Close waits on it forever.
	defer close(release)

	c := NewClient(Config{BaseURL: srv.URL + "/api"})
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		_, err := c.Chat.Send(ctx, 3, "make question 2 harder")
		errCh <- err
	}()
	<-started
	cancel()
	if err := <-errCh; err == nil || !strings.Contains(err.Error(), "context canceled") {
		t.Fatalf("err = %v, want context cancellation", err)
	}
}
