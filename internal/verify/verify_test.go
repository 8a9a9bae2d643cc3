package verify

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestCheckEmail_Deliverable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("email") != "jamie@example.com" {
			t.Errorf("unexpected email param %q", r.URL.Query().Get("email"))
		}
		w.Write([]byte(`{"deliverability":"DELIVERABLE"}`))
	}))
	defer srv.Close()

	v := New(Options{EmailAPIURL: srv.URL, EmailAPIKey: "k"})
	ok, err := v.CheckEmail(context.Background(), "jamie@example.com")
	if err != nil {
		t.Fatalf("CheckEmail: %v", err)
	}
	if !ok {
		t.Error("deliverable address reported invalid")
	}
}

func TestCheckEmail_Undeliverable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"deliverability":"UNDELIVERABLE"}`))
	}))
	defer srv.Close()

	v := New(Options{EmailAPIURL: srv.URL, EmailAPIKey: "k"})
	ok, err := v.CheckEmail(context.Background(), "nobody@example.com")
	if err != nil {
		t.Fatalf("CheckEmail: %v", err)
	}
	if ok {
		t.Error("undeliverable address reported valid")
	}
}

func TestCheckEmail_OutageIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	v := New(Options{EmailAPIURL: srv.URL, EmailAPIKey: "k"})
	ok, err := v.CheckEmail(context.Background(), "jamie@example.com")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("error = %v, want ErrUnavailable", err)
	}
	if ok {
		t.Error("outage must not report valid")
	}
}

func TestCheckPhone_Valid(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"valid":true}`))
	}))
	defer srv.Close()

	v := New(Options{PhoneAPIURL: srv.URL, PhoneAPIKey: "k"})
	ok, err := v.CheckPhone(context.Background(), "+420601234567")
	if err != nil {
		t.Fatalf("CheckPhone: %v", err)
	}
	if !ok {
		t.Error("valid number reported invalid")
	}
}

func TestChecksDisabledWhenUnconfigured(t *testing.T) {
	v := New(Options{})

	if ok, err := v.CheckEmail(context.Background(), "a@b.cz"); err != nil || !ok {
		t.Errorf("disabled email check = (%v, %v), want (true, nil)", ok, err)
	}
	if ok, err := v.CheckPhone(context.Background(), "123456789"); err != nil || !ok {
		t.Errorf("disabled phone check = (%v, %v), want (true, nil)", ok, err)
	}
}

func TestVerifyHuman(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatal(err)
		}
		switch r.Form.Get("response") {
		case "good-token":
			w.Write([]byte(`{"success":true,"score":0.9}`))
		case "low-score":
			w.Write([]byte(`{"success":true,"score":0.1}`))
		default:
			w.Write([]byte(`{"success":false,"error-codes":["invalid-input-response"]}`))
		}
	}))
	defer srv.Close()

	v := New(Options{
		HumanSecretKey:         "secret",
		HumanMinScore:          0.5,
		humanVerifyURLOverride: srv.URL,
	})

	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{"accepted", "good-token", true},
		{"low score", "low-score", false},
		{"rejected token", "bad-token", false},
		{"empty token", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := v.VerifyHuman(context.Background(), tt.token)
			if err != nil {
				t.Fatalf("VerifyHuman: %v", err)
			}
			if ok != tt.want {
				t.Errorf("VerifyHuman(%q) = %v, want %v", tt.token, ok, tt.want)
			}
		})
	}
}

func TestVerifySubmission_FailClosedOnTimeout(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{"deliverability":"DELIVERABLE"}`))
	}))
	defer slow.Close()

	v := New(Options{
		EmailAPIURL: slow.URL,
		EmailAPIKey: "k",
		Timeout:     50 * time.Millisecond,
	})

	err := v.VerifySubmission(context.Background(), "jamie@example.com", "601234567", "")
	var failure *Failure
	if !errors.As(err, &failure) {
		t.Fatalf("error = %v, want *Failure", err)
	}
	found := false
	for _, c := range failure.Checks {
		if c == "email" {
			found = true
		}
	}
	if !found {
		t.Errorf("Failure.Checks = %v, want email listed", failure.Checks)
	}
}

func TestVerifySubmission_AllPass(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("phone") != "" {
			w.Write([]byte(`{"valid":true}`))
			return
		}
		w.Write([]byte(`{"deliverability":"DELIVERABLE"}`))
	}))
	defer srv.Close()

	v := New(Options{
		EmailAPIURL: srv.URL,
		EmailAPIKey: "k",
		PhoneAPIURL: srv.URL,
		PhoneAPIKey: "k",
	})

	if err := v.VerifySubmission(context.Background(), "jamie@example.com", "601234567", ""); err != nil {
		t.Fatalf("VerifySubmission: %v", err)
	}
}
