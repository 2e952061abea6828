package rest

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/kbukum/offclient/httpclient"
)

type flag struct {
	ID int `json:"id"`
}

type token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func respond(status int, body string) *httpclient.Response {
	return &httpclient.Response{StatusCode: status, Body: []byte(body)}
}

func TestNormalize_WrapperFlags(t *testing.T) {
	res := Normalize[[]flag](respond(200, `{"flags":[{"id":1}]}`), nil, Wrapper("flags"))

	got, ok := res.Get()
	if !ok {
		t.Fatalf("expected success, got %v", res.Failure())
	}
	if !reflect.DeepEqual(got, []flag{{ID: 1}}) {
		t.Errorf("expected [{1}], got %v", got)
	}
}

func TestNormalize_WrapperData(t *testing.T) {
	res := Normalize[map[string]any](respond(200, `{"__data__":{"id":1,"name":"Test Flag"}}`), nil, Wrapper("__data__"))

	got, ok := res.Get()
	if !ok {
		t.Fatalf("expected success, got %v", res.Failure())
	}
	want := map[string]any{"id": float64(1), "name": "Test Flag"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestNormalize_WholeBodyIsExact(t *testing.T) {
	body := `{"access_token":"t","token_type":"Bearer"}`

	res := Normalize[map[string]any](respond(200, body), nil, WholeBody())

	got, ok := res.Get()
	if !ok {
		t.Fatalf("expected success, got %v", res.Failure())
	}
	want := map[string]any{"access_token": "t", "token_type": "Bearer"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	typed := Normalize[token](respond(200, body), nil, WholeBody())
	if typed.Value() != (token{AccessToken: "t", TokenType: "Bearer"}) {
		t.Errorf("unexpected typed token: %+v", typed.Value())
	}
}

func TestNormalize_WholeBodyEmpty(t *testing.T) {
	res := Normalize[map[string]any](respond(204, ``), nil, WholeBody())
	if !res.IsSuccess() {
		t.Fatalf("expected success for empty 204, got %v", res.Failure())
	}
	if res.Value() != nil {
		t.Errorf("expected zero value, got %v", res.Value())
	}
}

func TestNormalize_FieldPresentAndAbsent(t *testing.T) {
	res := Normalize[string](respond(200, `{"status":"ok","extra":1}`), nil, Field("status"))
	if res.Value() != "ok" {
		t.Errorf("expected ok, got %q", res.Value())
	}

	missing := Normalize[string](respond(200, `{"other":"x"}`), nil, Field("status"))
	if !missing.IsSuccess() {
		t.Fatalf("expected absent field to be a success, got %v", missing.Failure())
	}
	if missing.Value() != "" {
		t.Errorf("expected zero value, got %q", missing.Value())
	}
}

func TestNormalize_WrapperMissingIsMalformed(t *testing.T) {
	res := Normalize[[]flag](respond(200, `{"items":[]}`), nil, Wrapper("flags"))

	f := res.Failure()
	if f == nil {
		t.Fatal("expected failure")
	}
	if f.Kind != KindMalformed {
		t.Errorf("expected malformed kind, got %s", f.Kind)
	}
	if f.StatusCode != StatusTransport {
		t.Errorf("expected sentinel status, got %d", f.StatusCode)
	}
	if !reflect.DeepEqual(f.Details, []string{MalformedBodyDetail}) {
		t.Errorf("unexpected details: %v", f.Details)
	}
	if !strings.Contains(f.Message, "HTTP 200") {
		t.Errorf("expected real status in message, got %q", f.Message)
	}
}

func TestNormalize_MalformedSuccessBodies(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		shape Shape
	}{
		{"invalid json whole body", `{"flags":`, WholeBody()},
		{"null body with wrapper", `null`, Wrapper("flags")},
		{"array body with field", `[1]`, Field("status")},
		{"type mismatch", `{"flags":"nope"}`, Wrapper("flags")},
		{"empty body with wrapper", ``, Wrapper("flags")},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := Normalize[[]flag](respond(200, tc.body), nil, tc.shape)
			f := res.Failure()
			if f == nil {
				t.Fatalf("expected failure, got %v", res.Value())
			}
			if f.Kind != KindMalformed {
				t.Errorf("expected malformed kind, got %s", f.Kind)
			}
		})
	}
}

func TestNormalize_Sentinel(t *testing.T) {
	ok := Normalize[string](respond(200, `"ok"`), nil, Sentinel("ok"))
	if !OK(ok) {
		t.Errorf("expected sentinel success, got %v", ok.Failure())
	}
	if ok.Value() != "ok" {
		t.Errorf("expected ok, got %q", ok.Value())
	}

	bare := Normalize[string](respond(200, `ok`), nil, Sentinel("ok"))
	if !OK(bare) {
		t.Errorf("expected bare sentinel success, got %v", bare.Failure())
	}

	other := Normalize[string](respond(200, `"done"`), nil, Sentinel("ok"))
	if OK(other) {
		t.Error("expected mismatched sentinel to fail")
	}

	failed := Normalize[string](respond(500, `null`), nil, Sentinel("ok"))
	if OK(failed) {
		t.Error("expected 500 to be false")
	}
	if failed.Failure().StatusCode != 500 {
		t.Errorf("expected 500, got %d", failed.Failure().StatusCode)
	}
}

func TestNormalize_NonSuccessKeepsStatus(t *testing.T) {
	for _, status := range []int{199, 300, 301, 400, 401, 404, 422, 500, 503} {
		res := Normalize[[]flag](respond(status, `null`), nil, Wrapper("flags"))
		f := res.Failure()
		if f == nil {
			t.Fatalf("status %d: expected failure", status)
		}
		if f.StatusCode != status {
			t.Errorf("expected %d, got %d", status, f.StatusCode)
		}
		if f.StatusCode == StatusTransport {
			t.Errorf("status %d: must never report the sentinel", status)
		}
	}
}

func TestNormalize_NotFound(t *testing.T) {
	res := Normalize[[]flag](respond(404, `null`), nil, WholeBody())
	f := res.Failure()
	if f == nil || f.StatusCode != 404 {
		t.Fatalf("expected 404 failure, got %+v", f)
	}
	if !reflect.DeepEqual(f.Details, []string{"Status code 404"}) {
		t.Errorf("unexpected details: %v", f.Details)
	}
}

func TestNormalize_ValidationFailure(t *testing.T) {
	body := `{"detail":[{"msg":"Input should be 'open' or 'closed'"}]}`
	res := Normalize[map[string]any](respond(422, body), nil, WholeBody())
	f := res.Failure()
	if f == nil || f.StatusCode != 422 {
		t.Fatalf("expected 422 failure, got %+v", f)
	}
	if !reflect.DeepEqual(f.Details, []string{"Input should be 'open' or 'closed'"}) {
		t.Errorf("unexpected details: %v", f.Details)
	}
}

func TestNormalize_TransportFault(t *testing.T) {
	err := httpclient.NewConnectionError(errors.New("dial tcp: connection refused"))

	for _, shape := range []Shape{WholeBody(), Field("x"), Wrapper("flags"), Sentinel("ok")} {
		res := Normalize[any](nil, err, shape)
		f := res.Failure()
		if f == nil {
			t.Fatalf("%s: expected failure", shape)
		}
		if f.StatusCode != StatusTransport {
			t.Errorf("%s: expected sentinel status, got %d", shape, f.StatusCode)
		}
		if f.Kind != KindTransport {
			t.Errorf("%s: expected transport kind, got %s", shape, f.Kind)
		}
		if len(f.Details) != 1 || !strings.Contains(f.Details[0], "connection refused") {
			t.Errorf("%s: expected network message in details, got %v", shape, f.Details)
		}
		if f.Message != "connection" {
			t.Errorf("%s: expected message 'connection', got %q", shape, f.Message)
		}
	}
}

func TestNormalize_NilResponseWithoutError(t *testing.T) {
	res := Normalize[any](nil, nil, WholeBody())
	if res.IsSuccess() {
		t.Fatal("expected failure")
	}
	if res.Failure().StatusCode != StatusTransport {
		t.Errorf("expected sentinel status, got %d", res.Failure().StatusCode)
	}
}

func TestCall_RecoversTransportPanic(t *testing.T) {
	tr := TransportFunc(func(ctx context.Context, req httpclient.Request) (*httpclient.Response, error) {
		panic("boom")
	})

	res := Call[any](context.Background(), tr, httpclient.Request{Method: "GET", Path: "/"}, WholeBody())

	f := res.Failure()
	if f == nil {
		t.Fatal("expected failure")
	}
	if f.Kind != KindTransport || f.StatusCode != StatusTransport {
		t.Errorf("unexpected failure: %+v", f)
	}
	if !strings.Contains(f.Details[0], "boom") {
		t.Errorf("expected panic value in details, got %v", f.Details)
	}
}

func TestCall_NilTransport(t *testing.T) {
	res := Call[any](context.Background(), nil, httpclient.Request{}, WholeBody())
	if res.IsSuccess() || res.Failure().Kind != KindTransport {
		t.Errorf("expected transport failure, got %+v", res.Failure())
	}
}

func TestResult_Unwrap(t *testing.T) {
	v, err := Success(3).Unwrap()
	if err != nil || v != 3 {
		t.Errorf("expected (3, nil), got (%d, %v)", v, err)
	}

	f := &Failure{StatusCode: 404, Details: []string{"Status code 404"}}
	v, err = Fail[int](f).Unwrap()
	if v != 0 {
		t.Errorf("expected zero value, got %d", v)
	}
	var got *Failure
	if !errors.As(err, &got) || got != f {
		t.Errorf("expected the *Failure as error, got %v", err)
	}
	if err.Error() != "rest: HTTP 404: Status code 404" {
		t.Errorf("unexpected error string: %q", err.Error())
	}
}

func TestResult_FailNilIsStillFailure(t *testing.T) {
	res := Fail[int](nil)
	if res.IsSuccess() {
		t.Fatal("expected failure")
	}
	if res.Failure().StatusCode != StatusTransport {
		t.Errorf("expected sentinel status, got %d", res.Failure().StatusCode)
	}
}

func TestFailure_ErrorTransport(t *testing.T) {
	f := &Failure{StatusCode: StatusTransport, Kind: KindTransport, Details: []string{"dial failed"}}
	if got := f.Error(); got != "rest: transport: dial failed" {
		t.Errorf("unexpected error string: %q", got)
	}
}

func TestShape_String(t *testing.T) {
	tests := []struct {
		shape Shape
		want  string
	}{
		{WholeBody(), "whole-body"},
		{Field("status"), "field(status)"},
		{Wrapper("flags"), "wrapper(flags)"},
		{Sentinel("ok"), `sentinel("ok")`},
	}
	for _, tt := range tests {
		if got := tt.shape.String(); got != tt.want {
			t.Errorf("got %q, want %q", got, tt.want)
		}
	}
}
