package rest

import (
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestExtract_ValidationDetails(t *testing.T) {
	body := []byte(`{"detail":[{"msg":"a"},{"msg":"b"}]}`)

	f := Extract(body, 422)

	if f.StatusCode != 422 {
		t.Errorf("expected 422, got %d", f.StatusCode)
	}
	if !reflect.DeepEqual(f.Details, []string{"a", "b"}) {
		t.Errorf("expected [a b], got %v", f.Details)
	}
	if f.Kind != KindValidation {
		t.Errorf("expected validation kind, got %s", f.Kind)
	}

	// Extraction is deterministic for the same input.
	again := Extract(body, 422)
	if !reflect.DeepEqual(f, again) {
		t.Errorf("expected identical failures, got %+v and %+v", f, again)
	}
}

func TestExtract_PydanticViolation(t *testing.T) {
	body := []byte(`{
		"detail": [{
			"type": "enum",
			"loc": ["body", "status"],
			"msg": "Input should be 'open' or 'closed'",
			"input": "opsen",
			"ctx": {"expected": "'open' or 'closed'"},
			"url": "https://errors.pydantic.dev/2.9/v/enum"
		}]
	}`)

	f := Extract(body, 422)

	if !reflect.DeepEqual(f.Details, []string{"Input should be 'open' or 'closed'"}) {
		t.Fatalf("unexpected details: %v", f.Details)
	}
	if len(f.Violations) != 1 {
		t.Fatalf("expected 1 violation, got %d", len(f.Violations))
	}
	v := f.Violations[0]
	if v.Type != "enum" {
		t.Errorf("expected type enum, got %q", v.Type)
	}
	if !reflect.DeepEqual(v.Loc, []any{"body", "status"}) {
		t.Errorf("unexpected loc: %v", v.Loc)
	}
	if v.Input != "opsen" {
		t.Errorf("expected input opsen, got %v", v.Input)
	}
	if v.URL != "https://errors.pydantic.dev/2.9/v/enum" {
		t.Errorf("unexpected url: %q", v.URL)
	}
}

func TestExtract_ViolationWithOddOptionalMembers(t *testing.T) {
	body := []byte(`{"detail":[{"msg":"bad","type":42,"loc":"body"}]}`)

	f := Extract(body, 422)

	if f.Kind != KindValidation {
		t.Fatalf("expected validation kind, got %s", f.Kind)
	}
	if !reflect.DeepEqual(f.Details, []string{"bad"}) {
		t.Errorf("expected [bad], got %v", f.Details)
	}
	if f.Violations[0].Msg != "bad" {
		t.Errorf("expected msg to survive, got %q", f.Violations[0].Msg)
	}
}

func TestExtract_SyntheticStatusMessage(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		status  int
		message string
	}{
		{"null body", `null`, 500, ""},
		{"absent body", ``, 404, ""},
		{"whitespace body", "  \n", 502, ""},
		{"invalid json", `<html>Bad Gateway</html>`, 502, "<html>Bad Gateway</html>"},
		{"object without detail", `{"error":"boom"}`, 500, `{"error":"boom"}`},
		{"detail string", `{"detail":"Not authenticated"}`, 401, "Not authenticated"},
		{"detail objects without msg", `{"detail":[{"loc":["body"]}]}`, 422, `{"detail":[{"loc":["body"]}]}`},
		{"detail msg not a string", `{"detail":[{"msg":3}]}`, 422, `{"detail":[{"msg":3}]}`},
		{"detail mixed entries", `{"detail":[{"msg":"a"},"b"]}`, 422, `{"detail":[{"msg":"a"},"b"]}`},
		{"detail null msg", `{"detail":[{"msg":null}]}`, 422, `{"detail":[{"msg":null}]}`},
		{"bare json string", `"Internal Server Error"`, 500, "Internal Server Error"},
		{"array body", `[1,2]`, 400, `[1,2]`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := Extract([]byte(tc.body), tc.status)

			if f.StatusCode != tc.status {
				t.Errorf("expected status %d, got %d", tc.status, f.StatusCode)
			}
			want := []string{StatusMessage(tc.status)}
			if !reflect.DeepEqual(f.Details, want) {
				t.Errorf("expected %v, got %v", want, f.Details)
			}
			if f.Kind != KindHTTP {
				t.Errorf("expected http kind, got %s", f.Kind)
			}
			if f.Message != tc.message {
				t.Errorf("expected message %q, got %q", tc.message, f.Message)
			}
		})
	}
}

func TestExtract_NullBody500(t *testing.T) {
	f := Extract([]byte("null"), 500)
	if !reflect.DeepEqual(f.Details, []string{"Status code 500"}) {
		t.Errorf("expected [Status code 500], got %v", f.Details)
	}
}

func TestExtract_EmptyDetailArray(t *testing.T) {
	f := Extract([]byte(`{"detail":[]}`), 422)
	if f.Kind != KindValidation {
		t.Errorf("expected validation kind, got %s", f.Kind)
	}
	if f.Details == nil || len(f.Details) != 0 {
		t.Errorf("expected empty non-nil details, got %#v", f.Details)
	}
}

func TestExtract_LongBodyIsTruncated(t *testing.T) {
	body := strings.Repeat("x", maxMessageLen*2)
	f := Extract([]byte(body), 500)
	if len(f.Message) != maxMessageLen+3 {
		t.Errorf("expected truncated message, got length %d", len(f.Message))
	}
}

func TestExtract_TruncatesOnRuneBoundary(t *testing.T) {
	body := strings.Repeat("a", maxMessageLen-1) + "é" + strings.Repeat("b", 100)
	f := Extract([]byte(body), 500)
	if !utf8.ValidString(f.Message) {
		t.Errorf("expected valid UTF-8 message, got %q", f.Message)
	}
	want := strings.Repeat("a", maxMessageLen-1) + "..."
	if f.Message != want {
		t.Errorf("expected cut before the split rune, got length %d", len(f.Message))
	}
}

func TestExtract_InvalidUTF8Body(t *testing.T) {
	f := Extract([]byte("\xff\xfe oops"), 502)
	if !utf8.ValidString(f.Message) {
		t.Errorf("expected valid UTF-8 message, got %q", f.Message)
	}
	if f.Message != "\uFFFD oops" {
		t.Errorf("expected replacement character, got %q", f.Message)
	}
	if len(f.Details) != 1 || f.Details[0] != "Status code 502" {
		t.Errorf("expected synthetic detail, got %v", f.Details)
	}
}
